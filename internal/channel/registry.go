package channel

import (
	"sync"

	"go.uber.org/zap"

	"github.com/vellumos/webview/internal/logging"
	"github.com/vellumos/webview/internal/types"
)

// Handler consumes one inbound payload on a subscribed channel.
type Handler func(payload any)

// Transport is the single raw event stream under the channel protocol.
// Implementations preserve emission order per connection; the registry layers
// named channels on top with per-channel FIFO only.
type Transport interface {
	Send(msg types.Message) error
	OnMessage(fn func(msg types.Message))
}

// Registry maps channel names to ordered subscriber lists. Dispatch fans an
// inbound message out to every current subscriber of its channel, in
// registration order.
type Registry struct {
	mu   sync.RWMutex
	subs map[string][]Handler
	log  *logging.Logger
}

// NewRegistry creates an empty channel registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		subs: make(map[string][]Handler),
		log:  log.Named("channel"),
	}
}

// Subscribe appends a handler to the channel's subscriber list.
func (r *Registry) Subscribe(channel string, h Handler) {
	r.mu.Lock()
	r.subs[channel] = append(r.subs[channel], h)
	r.mu.Unlock()
}

// Dispatch delivers one inbound message to the channel's subscribers.
// Messages for channels with no subscribers are dropped with a debug log.
func (r *Registry) Dispatch(msg types.Message) {
	r.mu.RLock()
	handlers := r.subs[msg.Channel]
	r.mu.RUnlock()

	if len(handlers) == 0 {
		r.log.Debug("message on unsubscribed channel dropped", zap.String("channel", msg.Channel))
		return
	}
	for _, h := range handlers {
		h(msg.Payload)
	}
}
