package portmap

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/vellumos/webview/internal/intercept"
	"github.com/vellumos/webview/internal/logging"
	"github.com/vellumos/webview/internal/types"
)

// TunnelService resolves a mapped source port to a live target endpoint.
// Resolution may allocate a new tunnel; caching, if any, is the resolver's
// business, not this component's.
type TunnelService interface {
	Resolve(ctx context.Context, sourcePort int) (string, error)
}

// Binding contributes one request delegate that rewrites loopback requests
// matching the port-mapping table to tunneled endpoints. Its position in the
// pipeline is whatever registration order dictates.
type Binding struct {
	mappings func() []types.PortMapping
	tunnels  TunnelService
	log      *logging.Logger
}

// NewBinding creates the binding and registers its delegate with the
// pipeline. The mapping accessor is evaluated per request.
func NewBinding(p *intercept.Pipeline, mappings func() []types.PortMapping, tunnels TunnelService, log *logging.Logger) *Binding {
	b := &Binding{
		mappings: mappings,
		tunnels:  tunnels,
		log:      log.Named("portmap"),
	}
	p.RegisterRequestDelegate(b.Delegate)
	return b
}

// Delegate is the request delegate: redirect on a table match, no opinion
// otherwise so later delegates or the default passthrough apply.
func (b *Binding) Delegate(ctx context.Context, req types.RequestDetails) (*types.RequestAction, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, nil
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, nil
	}
	if !isLoopbackHost(u.Hostname()) {
		return nil, nil
	}

	port := requestPort(u)
	mapping, ok := b.match(port)
	if !ok {
		return nil, nil
	}

	endpoint := mapping.Target
	if endpoint == "" {
		if b.tunnels == nil {
			b.log.Warn("mapping needs a tunnel but no tunnel service is configured",
				zap.Int("port", mapping.SourcePort))
			return nil, nil
		}
		endpoint, err = b.tunnels.Resolve(ctx, mapping.SourcePort)
		if err != nil {
			b.log.Warn("tunnel resolution failed",
				zap.Int("port", mapping.SourcePort), zap.Error(err))
			return nil, nil
		}
	}

	target, err := url.Parse(endpoint)
	if err != nil {
		b.log.Warn("tunnel endpoint unparsable", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, nil
	}

	// Preserve path and query of the original request.
	target.Path = u.Path
	target.RawQuery = u.RawQuery
	return types.Redirect(target.String()), nil
}

func (b *Binding) match(port int) (types.PortMapping, bool) {
	for _, m := range b.mappings() {
		if m.SourcePort == port {
			return m, true
		}
	}
	return types.PortMapping{}, false
}

func requestPort(u *url.URL) int {
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			return n
		}
	}
	if u.Scheme == "https" {
		return 443
	}
	return 80
}

func isLoopbackHost(host string) bool {
	switch host {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0":
		return true
	}
	return false
}
