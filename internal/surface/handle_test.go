package surface

import (
	"errors"
	"testing"

	"github.com/vellumos/webview/internal/logging"
	"github.com/vellumos/webview/internal/types"
)

type fakeSession struct{}

func (fakeSession) OnBeforeRequest(RequestHook)                  {}
func (fakeSession) OnHeadersReceived(HeaderHook)                 {}
func (fakeSession) RegisterProtocol(string, ProtocolHandler) error { return nil }

type fakeSurface struct {
	session    Session
	sessionErr error

	startLoading []func()
	destroyed    []func()
	crashed      []func(string)
}

func (f *fakeSurface) Session() (Session, error)          { return f.session, f.sessionErr }
func (f *fakeSurface) Focus()                             {}
func (f *fakeSurface) Reload()                            {}
func (f *fakeSurface) Find(string, types.FindOptions)     {}
func (f *fakeSurface) StopFind(bool)                      {}
func (f *fakeSurface) Origin() (float64, float64)         { return 0, 0 }
func (f *fakeSurface) OnDidStartLoading(fn func())        { f.startLoading = append(f.startLoading, fn) }
func (f *fakeSurface) OnDestroyed(fn func())              { f.destroyed = append(f.destroyed, fn) }
func (f *fakeSurface) OnCrashed(fn func(string))          { f.crashed = append(f.crashed, fn) }

func (f *fakeSurface) emitStartLoading() {
	for _, fn := range f.startLoading {
		fn()
	}
}

func (f *fakeSurface) emitDestroyed() {
	for _, fn := range f.destroyed {
		fn()
	}
}

func TestFirstLoadFiresExactlyOnce(t *testing.T) {
	fs := &fakeSurface{session: fakeSession{}}
	h := NewHandle(fs, logging.NewNop())

	fired := 0
	h.OnFirstLoad(func(s Session) {
		if s == nil {
			t.Error("first load delivered nil session")
		}
		fired++
	})

	fs.emitStartLoading()
	fs.emitStartLoading()
	fs.emitStartLoading()

	if fired != 1 {
		t.Errorf("expected exactly one first-load notification, got %d", fired)
	}
}

func TestFirstLoadLateRegistration(t *testing.T) {
	fs := &fakeSurface{session: fakeSession{}}
	h := NewHandle(fs, logging.NewNop())
	fs.emitStartLoading()

	fired := 0
	h.OnFirstLoad(func(Session) { fired++ })
	if fired != 1 {
		t.Errorf("late registration should fire immediately, fired %d times", fired)
	}
}

func TestFirstLoadNeverFiresAfterDestroy(t *testing.T) {
	fs := &fakeSurface{session: fakeSession{}}
	h := NewHandle(fs, logging.NewNop())

	fired := false
	h.OnFirstLoad(func(Session) { fired = true })

	fs.emitDestroyed()
	fs.emitStartLoading()

	if fired {
		t.Error("first load fired after destroy")
	}
}

func TestFirstLoadRetriesAcquisition(t *testing.T) {
	fs := &fakeSurface{sessionErr: errors.New("not ready")}
	h := NewHandle(fs, logging.NewNop())

	fired := 0
	h.OnFirstLoad(func(Session) { fired++ })

	fs.emitStartLoading()
	if fired != 0 {
		t.Fatal("first load fired while session unobtainable")
	}

	fs.session, fs.sessionErr = fakeSession{}, nil
	fs.emitStartLoading()
	if fired != 1 {
		t.Errorf("expected first load after session became obtainable, fired %d", fired)
	}
}

func TestSessionLazyAcquisitionAndCache(t *testing.T) {
	fs := &fakeSurface{session: fakeSession{}}
	h := NewHandle(fs, logging.NewNop())

	if h.Session() == nil {
		t.Fatal("lazy acquisition should succeed")
	}

	// Cached: removing the underlying session must not matter.
	fs.session, fs.sessionErr = nil, errors.New("gone")
	if h.Session() == nil {
		t.Error("session should stay cached until destroy")
	}
}

func TestSessionNilAfterDestroy(t *testing.T) {
	fs := &fakeSurface{session: fakeSession{}}
	h := NewHandle(fs, logging.NewNop())
	if h.Session() == nil {
		t.Fatal("setup: session should be acquirable")
	}

	fs.emitDestroyed()
	if h.Session() != nil {
		t.Error("session must be nil after destroy")
	}
	if !h.Destroyed() {
		t.Error("handle should report destroyed")
	}
}

func TestSessionCachesFailedAcquisition(t *testing.T) {
	fs := &fakeSurface{sessionErr: errors.New("not ready")}
	h := NewHandle(fs, logging.NewNop())

	if h.Session() != nil {
		t.Fatal("acquisition should fail")
	}

	// Failure is cached for the plain accessor; only a load signal retries.
	fs.session, fs.sessionErr = fakeSession{}, nil
	if h.Session() != nil {
		t.Error("failed acquisition should be cached")
	}

	fs.emitStartLoading()
	if h.Session() == nil {
		t.Error("load signal should have re-acquired the session")
	}
}
