package bridge

import (
	"github.com/bytedance/sonic"

	"github.com/vellumos/webview/internal/types"
)

// findSession tracks the stateful search-in-content interaction. Created
// implicitly on the first find call; StopFind resets it.
type findSession struct {
	started       bool
	lastValue     string
	lastDirection bool // true = forward
}

// StartFind issues a fresh (non find-next) search. An empty value is
// ignored, not an error.
func (b *Bridge) StartFind(value string, opts types.FindOptions) {
	if value == "" {
		return
	}

	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	opts.FindNext = false
	b.find = findSession{started: true, lastValue: value, lastDirection: opts.Forward}
	b.mu.Unlock()

	b.surf.Find(value, opts)
}

// Find advances the search. Before any StartFind it behaves as a fresh
// search with the derived direction; afterwards it issues a find-next with
// direction opposite to previous.
func (b *Bridge) Find(value string, previous bool) {
	if value == "" {
		return
	}

	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	if !b.find.started {
		b.mu.Unlock()
		b.StartFind(value, types.FindOptions{Forward: !previous})
		return
	}
	opts := types.FindOptions{Forward: !previous, FindNext: true}
	b.find.lastValue = value
	b.find.lastDirection = opts.Forward
	b.mu.Unlock()

	b.surf.Find(value, opts)
}

// StopFind ends the search session. It always clears the has-result signal
// and returns to the not-started state, whether or not a search ever ran.
func (b *Bridge) StopFind(keepSelection bool) {
	b.mu.Lock()
	destroyed := b.destroyed
	b.find = findSession{}
	callbacks := b.onFindResult
	b.mu.Unlock()

	for _, fn := range callbacks {
		fn(false)
	}
	if !destroyed {
		b.surf.StopFind(keepSelection)
	}
}

// FindStarted reports whether a find session is active.
func (b *Bridge) FindStarted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.find.started
}

// handleFoundInPage turns a surface match report into has-result
// notifications.
func (b *Bridge) handleFoundInPage(payload any) {
	result, ok := decodeFindResult(payload)
	if !ok {
		b.log.Debug("found-in-page without result ignored")
		return
	}

	b.mu.Lock()
	callbacks := b.onFindResult
	b.mu.Unlock()
	for _, fn := range callbacks {
		fn(result.Matches > 0)
	}
}

func decodeFindResult(payload any) (types.FindResult, bool) {
	switch v := payload.(type) {
	case types.FindResult:
		return v, true
	case map[string]any:
		data, err := sonic.Marshal(v)
		if err != nil {
			return types.FindResult{}, false
		}
		var result types.FindResult
		if err := sonic.Unmarshal(data, &result); err != nil {
			return types.FindResult{}, false
		}
		return result, true
	default:
		return types.FindResult{}, false
	}
}
