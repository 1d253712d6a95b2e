package resource

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/vellumos/webview/internal/logging"
	"github.com/vellumos/webview/internal/monitoring"
	"github.com/vellumos/webview/internal/surface"
)

// Scheme is the custom scheme the surface uses for local resource loads.
const Scheme = "vellum-resource"

// Loader reads one resource by absolute path. The default loader reads from
// the filesystem; tests substitute an in-memory one.
type Loader interface {
	Load(path string) ([]byte, error)
}

// FileLoader loads resources from the local filesystem.
type FileLoader struct{}

// Load reads the file at path.
func (FileLoader) Load(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Config supplies the binding's allow-list accessors. Both are evaluated per
// request, never cached at registration time, so permission changes take
// effect immediately.
type Config struct {
	// ExtensionLocation returns the current extension install location, or
	// "" when none is configured.
	ExtensionLocation func() string

	// LocalResourceRoots returns the live local resource root set.
	LocalResourceRoots func() []string
}

// Binding registers a custom scheme resolver scoped to the configured roots.
// Requests outside every permitted root fail closed: denied, not redirected,
// not passed through.
type Binding struct {
	cfg     Config
	loader  Loader
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewBinding creates the binding and schedules protocol registration for
// when the handle's session becomes available.
func NewBinding(h *surface.Handle, cfg Config, loader Loader, log *logging.Logger, metrics *monitoring.Metrics) *Binding {
	if loader == nil {
		loader = FileLoader{}
	}
	b := &Binding{
		cfg:     cfg,
		loader:  loader,
		log:     log.Named("resource"),
		metrics: metrics,
	}
	h.OnFirstLoad(func(s surface.Session) {
		if err := s.RegisterProtocol(Scheme, b.Resolve); err != nil {
			b.log.Error("protocol registration failed", zap.Error(err))
		}
	})
	return b
}

// Resolve serves one custom-scheme request. The permitted root set is the
// union of the extension install location and the live resource roots,
// re-evaluated on every call.
func (b *Binding) Resolve(req surface.ResourceRequest) surface.ResourceResponse {
	path := filepath.Clean(req.Path)

	if !b.permitted(path) {
		b.metrics.RecordResource("denied")
		b.log.Warn("resource outside permitted roots denied", zap.String("path", path))
		return surface.ResourceResponse{StatusCode: http.StatusUnauthorized}
	}

	data, err := b.loader.Load(path)
	if err != nil {
		b.metrics.RecordResource("missing")
		b.log.Debug("resource load failed", zap.String("path", path), zap.Error(err))
		return surface.ResourceResponse{StatusCode: http.StatusNotFound}
	}

	b.metrics.RecordResource("served")
	return surface.ResourceResponse{
		StatusCode: http.StatusOK,
		MimeType:   detectMime(path, data),
		Data:       data,
	}
}

func (b *Binding) permitted(path string) bool {
	var roots []string
	if b.cfg.ExtensionLocation != nil {
		if loc := b.cfg.ExtensionLocation(); loc != "" {
			roots = append(roots, loc)
		}
	}
	if b.cfg.LocalResourceRoots != nil {
		roots = append(roots, b.cfg.LocalResourceRoots()...)
	}

	for _, root := range roots {
		if isDescendant(root, path) {
			return true
		}
	}
	return false
}

// isDescendant reports whether path sits at or below root, comparing whole
// path segments so /a/bc is not a descendant of /a/b.
func isDescendant(root, path string) bool {
	root = filepath.Clean(root)
	if root == path {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// detectMime maps well-known text extensions directly (content sniffing
// cannot tell js from css from plain text) and sniffs everything else.
func detectMime(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs":
		return "text/javascript; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".json":
		return "application/json"
	case ".svg":
		return "image/svg+xml"
	}
	return mimetype.Detect(data).String()
}
