package server

import (
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vellumos/webview/internal/bridge"
	"github.com/vellumos/webview/internal/config"
	"github.com/vellumos/webview/internal/logging"
	"github.com/vellumos/webview/internal/monitoring"
	"github.com/vellumos/webview/internal/portmap"
	"github.com/vellumos/webview/internal/surface"
	"github.com/vellumos/webview/internal/types"
	"github.com/vellumos/webview/internal/ws"
)

// Server wires the demo host: HTTP endpoints, the websocket surface
// endpoint, and one bridge per connected surface.
type Server struct {
	router  *gin.Engine
	cfg     *config.Config
	def     *config.HostDefinition
	session *httpSession
	tunnels portmap.TunnelService

	mu      sync.Mutex
	bridges map[string]*bridge.Bridge

	log     *logging.Logger
	metrics *monitoring.Metrics
}

// New composes the server from configuration. def may be nil when no host
// definition file is configured.
func New(cfg *config.Config, def *config.HostDefinition, log *logging.Logger) *Server {
	metrics := monitoring.NewMetrics()

	s := &Server{
		cfg:     cfg,
		def:     def,
		session: newHTTPSession(log),
		bridges: make(map[string]*bridge.Bridge),
		log:     log.Named("server"),
		metrics: metrics,
	}
	if cfg.Webview.TunnelDaemon != "" {
		s.tunnels = portmap.NewTunnelClient(cfg.Webview.TunnelDaemon)
	}

	rateLimit := 0
	if cfg.RateLimit.Enabled {
		rateLimit = cfg.RateLimit.MessagesPerSecond
	}
	wsHandler := ws.NewHandler(
		func() surface.Session { return s.session },
		s.attachPeer,
		rateLimit,
		log,
		metrics,
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Accept", "Origin"},
		MaxAge:       12 * time.Hour,
	}))
	router.Use(monitoring.Middleware(metrics))

	router.GET("/health", s.health)
	router.GET("/metrics", monitoring.Handler())
	router.GET("/ws", wsHandler.HandleConnection)
	router.GET("/resource/*path", s.session.handleResource)
	router.POST("/content", s.setContent)
	router.POST("/focus", s.focus)

	s.router = router
	return s
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := s.cfg.Server.Host + ":" + s.cfg.Server.Port
	s.log.Info("starting webview host", zap.String("addr", addr))
	return s.router.Run(addr)
}

// attachPeer builds a bridge for one connected surface and seeds it with
// the configured host definition.
func (s *Server) attachPeer(peer *ws.Peer) {
	b := bridge.New(bridge.Config{
		Surface:                  peer,
		Transport:                peer,
		Input:                    logInput{log: s.log},
		ExtensionLocation:        s.extensionLocation,
		Tunnels:                  s.tunnels,
		SupportsMenuAccelerators: s.cfg.Webview.SupportsMenuAccelerators,
		Logger:                   s.log,
		Metrics:                  s.metrics,
	})

	b.OnDidClickLink(func(uri string) {
		s.log.Info("surface link clicked", zap.String("peer", peer.ID), zap.String("uri", uri))
	})
	b.OnMissingCSP(func() {
		s.log.Warn("surface content has no CSP", zap.String("peer", peer.ID))
	})
	b.OnCrashed(func(reason string) {
		s.log.Warn("surface crashed, awaiting reload", zap.String("peer", peer.ID), zap.String("reason", reason))
	})

	if s.def != nil {
		b.SetContentOptions(types.ContentOptions{
			AllowScripts:       true,
			LocalResourceRoots: s.def.LocalResourceRoots,
			PortMappings:       s.def.PortMappings,
		})
		if s.def.HTMLFile != "" {
			if html, err := os.ReadFile(s.def.HTMLFile); err == nil {
				b.SetHTML(string(html))
			} else {
				s.log.Warn("host definition html unreadable", zap.Error(err))
			}
		}
	}

	s.mu.Lock()
	s.bridges[peer.ID] = b
	s.mu.Unlock()

	peer.OnDestroyed(func() {
		s.mu.Lock()
		delete(s.bridges, peer.ID)
		s.mu.Unlock()
	})
}

func (s *Server) extensionLocation() string {
	if s.def == nil {
		return ""
	}
	return s.def.ExtensionLocation
}

func (s *Server) health(c *gin.Context) {
	s.mu.Lock()
	surfaces := len(s.bridges)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "surfaces": surfaces})
}

// setContent replaces the HTML on every connected surface.
func (s *Server) setContent(c *gin.Context) {
	var body struct {
		HTML string `json:"html" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	bridges := make([]*bridge.Bridge, 0, len(s.bridges))
	for _, b := range s.bridges {
		bridges = append(bridges, b)
	}
	s.mu.Unlock()

	for _, b := range bridges {
		b.SetHTML(body.HTML)
	}
	c.JSON(http.StatusOK, gin.H{"updated": len(bridges)})
}

// focus requests focus on every connected surface.
func (s *Server) focus(c *gin.Context) {
	s.mu.Lock()
	bridges := make([]*bridge.Bridge, 0, len(s.bridges))
	for _, b := range s.bridges {
		bridges = append(bridges, b)
	}
	s.mu.Unlock()

	for _, b := range bridges {
		b.Focus()
	}
	c.JSON(http.StatusOK, gin.H{"focused": len(bridges)})
}

// logInput is the demo stand-in for the host input system: redispatched
// events are logged instead of being replayed into a real event loop.
type logInput struct {
	log *logging.Logger
}

func (l logInput) DispatchKeyEvent(ev types.KeyEvent) {
	l.log.Debug("key event redispatched", zap.String("key", ev.Key), zap.String("type", ev.Type))
}

func (l logInput) DispatchMouseEvent(ev types.MouseEvent) {
	l.log.Debug("mouse event redispatched", zap.String("type", ev.Type), zap.Float64("x", ev.X), zap.Float64("y", ev.Y))
}

func (l logInput) SetIgnoreMenuShortcuts(ignore bool) {
	l.log.Debug("menu accelerators toggled", zap.Bool("ignore", ignore))
}
