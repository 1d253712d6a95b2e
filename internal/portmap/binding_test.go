package portmap

import (
	"context"
	"errors"
	"testing"

	"github.com/vellumos/webview/internal/logging"
	"github.com/vellumos/webview/internal/types"
)

type staticTunnels map[int]string

func (s staticTunnels) Resolve(_ context.Context, port int) (string, error) {
	endpoint, ok := s[port]
	if !ok {
		return "", errors.New("no tunnel")
	}
	return endpoint, nil
}

func newTestBinding(mappings []types.PortMapping, tunnels TunnelService) *Binding {
	return &Binding{
		mappings: func() []types.PortMapping { return mappings },
		tunnels:  tunnels,
		log:      logging.NewNop(),
	}
}

func TestDelegateRedirectsMappedPort(t *testing.T) {
	b := newTestBinding(
		[]types.PortMapping{{SourcePort: 3000}},
		staticTunnels{3000: "http://127.0.0.1:43210"},
	)

	action, err := b.Delegate(context.Background(), types.RequestDetails{URL: "http://localhost:3000/api?x=1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action == nil {
		t.Fatal("expected a redirect action")
	}
	if action.RedirectURL != "http://127.0.0.1:43210/api?x=1" {
		t.Errorf("redirect must preserve path and query, got %q", action.RedirectURL)
	}
}

func TestDelegateLiteralTargetSkipsTunnel(t *testing.T) {
	b := newTestBinding(
		[]types.PortMapping{{SourcePort: 8080, Target: "http://127.0.0.1:9000"}},
		staticTunnels{},
	)

	action, _ := b.Delegate(context.Background(), types.RequestDetails{URL: "http://127.0.0.1:8080/index.html"})
	if action == nil || action.RedirectURL != "http://127.0.0.1:9000/index.html" {
		t.Errorf("literal target should be used directly, got %+v", action)
	}
}

func TestDelegateNoOpinionOnUnmappedPort(t *testing.T) {
	b := newTestBinding([]types.PortMapping{{SourcePort: 3000}}, staticTunnels{})

	action, err := b.Delegate(context.Background(), types.RequestDetails{URL: "http://localhost:9999/"})
	if err != nil || action != nil {
		t.Errorf("unmapped port must be no opinion, got %+v, %v", action, err)
	}
}

func TestDelegateNoOpinionOnRemoteHost(t *testing.T) {
	b := newTestBinding(
		[]types.PortMapping{{SourcePort: 3000}},
		staticTunnels{3000: "http://127.0.0.1:43210"},
	)

	action, _ := b.Delegate(context.Background(), types.RequestDetails{URL: "http://example.com:3000/"})
	if action != nil {
		t.Error("only loopback hosts are rewritten")
	}
}

func TestDelegateTunnelFailureIsNoOpinion(t *testing.T) {
	b := newTestBinding([]types.PortMapping{{SourcePort: 3000}}, staticTunnels{})

	action, err := b.Delegate(context.Background(), types.RequestDetails{URL: "http://localhost:3000/"})
	if err != nil {
		t.Fatalf("tunnel failure must not surface an error: %v", err)
	}
	if action != nil {
		t.Error("tunnel failure must degrade to no opinion")
	}
}
