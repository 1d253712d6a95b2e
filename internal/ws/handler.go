package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vellumos/webview/internal/logging"
	"github.com/vellumos/webview/internal/monitoring"
	"github.com/vellumos/webview/internal/surface"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Surface pages are served by this host
	},
}

// Handler upgrades surface connections and hands each resulting peer to the
// embedder for bridge composition.
type Handler struct {
	newSession func() surface.Session
	onPeer     func(*Peer)
	rateLimit  int
	log        *logging.Logger
	metrics    *monitoring.Metrics
}

// NewHandler creates the websocket endpoint handler. newSession supplies
// the network session capability for each connecting surface; onPeer is
// invoked before the read loop starts.
func NewHandler(newSession func() surface.Session, onPeer func(*Peer), rateLimit int, log *logging.Logger, metrics *monitoring.Metrics) *Handler {
	return &Handler{
		newSession: newSession,
		onPeer:     onPeer,
		rateLimit:  rateLimit,
		log:        log.Named("ws"),
		metrics:    metrics,
	}
}

// HandleConnection upgrades the request and pumps the peer until it closes.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	peer := NewPeer(conn, h.newSession(), h.rateLimit, h.log)
	h.metrics.SurfaceConnected(1)
	defer h.metrics.SurfaceConnected(-1)

	h.log.Info("surface connected", zap.String("peer", peer.ID))
	h.onPeer(peer)
	peer.ReadLoop()
	h.log.Info("surface disconnected", zap.String("peer", peer.ID))
}
