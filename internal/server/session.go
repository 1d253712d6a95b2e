package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vellumos/webview/internal/logging"
	"github.com/vellumos/webview/internal/resource"
	"github.com/vellumos/webview/internal/surface"
	"github.com/vellumos/webview/internal/types"
)

// httpSession is the demo host's network session capability: the surface's
// resource loads arrive as plain HTTP requests, and the session routes them
// through the installed interception hooks and protocol handlers exactly the
// way a native session would.
type httpSession struct {
	mu          sync.RWMutex
	requestHook surface.RequestHook
	headerHook  surface.HeaderHook
	protocols   map[string]surface.ProtocolHandler
	log         *logging.Logger
}

func newHTTPSession(log *logging.Logger) *httpSession {
	return &httpSession{
		protocols: make(map[string]surface.ProtocolHandler),
		log:       log.Named("session"),
	}
}

func (s *httpSession) OnBeforeRequest(hook surface.RequestHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestHook = hook
}

func (s *httpSession) OnHeadersReceived(hook surface.HeaderHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headerHook = hook
}

func (s *httpSession) RegisterProtocol(scheme string, handler surface.ProtocolHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.protocols[scheme] = handler
	return nil
}

// handleResource serves GET /resource/*path through the interception
// pipeline and the custom scheme handler.
func (s *httpSession) handleResource(c *gin.Context) {
	path := c.Param("path")
	details := types.RequestDetails{
		ID:           uuid.New().String(),
		URL:          resource.Scheme + "://host" + path,
		Method:       c.Request.Method,
		ResourceType: "resource",
	}

	s.mu.RLock()
	requestHook := s.requestHook
	headerHook := s.headerHook
	handler := s.protocols[resource.Scheme]
	s.mu.RUnlock()

	if requestHook != nil {
		if action := requestHook(c.Request.Context(), details); action != nil {
			if action.Cancel {
				c.Status(http.StatusForbidden)
				return
			}
			if action.RedirectURL != "" {
				c.Redirect(http.StatusFound, action.RedirectURL)
				return
			}
		}
	}

	if handler == nil {
		s.log.Debug("no protocol handler registered yet", zap.String("path", path))
		c.Status(http.StatusNotFound)
		return
	}

	resp := handler(surface.ResourceRequest{URL: details.URL, Path: path})

	headers := map[string][]string{}
	if resp.MimeType != "" {
		headers["Content-Type"] = []string{resp.MimeType}
	}
	if headerHook != nil {
		if action := headerHook(types.HeaderDetails{
			ID:              details.ID,
			URL:             details.URL,
			ResponseHeaders: headers,
		}); action != nil {
			if action.Cancel {
				c.Status(http.StatusForbidden)
				return
			}
			headers = action.ResponseHeaders
		}
	}

	for name, values := range headers {
		for _, v := range values {
			c.Header(name, v)
		}
	}
	c.Data(resp.StatusCode, resp.MimeType, resp.Data)
}
