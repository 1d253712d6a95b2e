package intercept

import (
	"context"
	"errors"
	"testing"

	"github.com/vellumos/webview/internal/logging"
	"github.com/vellumos/webview/internal/types"
)

func newTestPipeline() *Pipeline {
	return &Pipeline{log: logging.NewNop()}
}

func TestRequestShortCircuit(t *testing.T) {
	p := newTestPipeline()

	calls := make([]string, 0, 3)
	p.RegisterRequestDelegate(func(ctx context.Context, req types.RequestDetails) (*types.RequestAction, error) {
		calls = append(calls, "a")
		return nil, nil
	})
	p.RegisterRequestDelegate(func(ctx context.Context, req types.RequestDetails) (*types.RequestAction, error) {
		calls = append(calls, "b")
		return types.Redirect("https://x/y"), nil
	})
	p.RegisterRequestDelegate(func(ctx context.Context, req types.RequestDetails) (*types.RequestAction, error) {
		calls = append(calls, "c")
		return types.Deny(), nil
	})

	action := p.EvaluateRequest(context.Background(), types.RequestDetails{URL: "https://example.test/"})
	if action == nil || action.RedirectURL != "https://x/y" {
		t.Fatalf("expected redirect to https://x/y, got %+v", action)
	}
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Errorf("expected delegates [a b] evaluated, got %v", calls)
	}
}

func TestRequestAllNoOpinionIsPassthrough(t *testing.T) {
	p := newTestPipeline()
	p.RegisterRequestDelegate(func(context.Context, types.RequestDetails) (*types.RequestAction, error) {
		return nil, nil
	})

	if action := p.EvaluateRequest(context.Background(), types.RequestDetails{}); action != nil {
		t.Errorf("expected passthrough, got %+v", action)
	}
}

func TestRequestZeroDelegatesIsPassthrough(t *testing.T) {
	p := newTestPipeline()
	if action := p.EvaluateRequest(context.Background(), types.RequestDetails{}); action != nil {
		t.Errorf("expected passthrough, got %+v", action)
	}
}

func TestHeadersPassthroughPreservesOriginal(t *testing.T) {
	p := newTestPipeline()
	original := map[string][]string{"Content-Type": {"text/html"}}

	action := p.EvaluateHeaders(types.HeaderDetails{ResponseHeaders: original})
	if action == nil {
		t.Fatal("headers evaluation must return a definite action")
	}
	if action.Cancel {
		t.Error("passthrough must not cancel")
	}
	if got := action.ResponseHeaders["Content-Type"][0]; got != "text/html" {
		t.Errorf("passthrough must preserve original headers, got %q", got)
	}
}

func TestFailingDelegateIsNoOpinion(t *testing.T) {
	p := newTestPipeline()
	p.RegisterRequestDelegate(func(context.Context, types.RequestDetails) (*types.RequestAction, error) {
		return nil, errors.New("boom")
	})
	p.RegisterRequestDelegate(func(context.Context, types.RequestDetails) (*types.RequestAction, error) {
		return types.Deny(), nil
	})

	action := p.EvaluateRequest(context.Background(), types.RequestDetails{})
	if action == nil || !action.Cancel {
		t.Error("failure should fall through to the next delegate")
	}
}

func TestPanickingDelegateIsNoOpinion(t *testing.T) {
	p := newTestPipeline()
	p.RegisterRequestDelegate(func(context.Context, types.RequestDetails) (*types.RequestAction, error) {
		panic("delegate bug")
	})

	if action := p.EvaluateRequest(context.Background(), types.RequestDetails{}); action != nil {
		t.Errorf("panic should degrade to passthrough, got %+v", action)
	}

	p.RegisterHeaderDelegate(func(types.HeaderDetails) (*types.HeaderAction, error) {
		panic("header bug")
	})
	if action := p.EvaluateHeaders(types.HeaderDetails{}); action == nil || action.Cancel {
		t.Error("header panic should degrade to passthrough")
	}
}

func TestHeaderShortCircuit(t *testing.T) {
	p := newTestPipeline()

	rewritten := map[string][]string{"X-Frame-Options": {"DENY"}}
	calls := 0
	p.RegisterHeaderDelegate(func(types.HeaderDetails) (*types.HeaderAction, error) {
		return &types.HeaderAction{ResponseHeaders: rewritten}, nil
	})
	p.RegisterHeaderDelegate(func(types.HeaderDetails) (*types.HeaderAction, error) {
		calls++
		return nil, nil
	})

	action := p.EvaluateHeaders(types.HeaderDetails{})
	if action.ResponseHeaders["X-Frame-Options"][0] != "DENY" {
		t.Error("first defined header action should win")
	}
	if calls != 0 {
		t.Error("delegates after the first defined action must not run")
	}
}
