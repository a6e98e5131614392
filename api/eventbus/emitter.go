// Package eventbus publishes profile and device events to subscribers.
package eventbus

import (
	"sync"

	"github.com/cskr/pubsub/v2"
)

// subscriberCapacity is the buffer size of each subscription. Events published
// to a subscriber with a full buffer are dropped.
const subscriberCapacity = 16

// EventPublisher represents an interface that provides an event publisher.
type EventPublisher interface {
	// Publish publishes an event to the event stream.
	Publish(id uint, name string, data any)
}

// EventSubscriber represents an interface that provides an event subscriber.
type EventSubscriber interface {
	// Subscribe subscribes to an event from the event stream.
	Subscribe(id uint, name string) SubscriberID
}

// EventHandler represents an interface that provides an event publisher and subscriber.
type EventHandler interface {
	EventPublisher
	EventSubscriber
}

// bus holds the registered publisher and subscriber.
type bus struct {
	p EventPublisher
	s EventSubscriber

	mu sync.RWMutex
}

var global bus

func init() {
	RegisterEventHandler(DefaultHandler())
}

// RegisterEventHandler registers the event handler used by Publish and Subscribe.
func RegisterEventHandler(eh EventHandler) {
	if eh == nil {
		return
	}

	RegisterEventHandlers(eh, eh)
}

// RegisterEventHandlers registers the event publisher and subscriber separately.
// A nil publisher or subscriber disables that side of the event stream.
func RegisterEventHandlers(p EventPublisher, s EventSubscriber) {
	if p == nil {
		p = NilHandler()
	}
	if s == nil {
		s = NilHandler()
	}

	global.mu.Lock()
	global.p, global.s = p, s
	global.mu.Unlock()
}

// DisableEvents unregisters the event handler.
func DisableEvents() {
	RegisterEventHandler(NilHandler())
}

// Publish publishes data to the subscribers of an event.
func Publish(id EventID, data any) {
	if id == nil {
		return
	}

	global.mu.RLock()
	p := global.p
	global.mu.RUnlock()

	p.Publish(id.Value(), id.String(), data)
}

// Subscribe subscribes to an event.
func Subscribe(id EventID) SubscriberID {
	if id == nil {
		return NilHandler().Subscribe(0, "")
	}

	global.mu.RLock()
	s := global.s
	global.mu.RUnlock()

	return s.Subscribe(id.Value(), id.String())
}

// pubsubHandler publishes events through a pubsub instance.
type pubsubHandler struct {
	ps *pubsub.PubSub[uint, any]
}

// DefaultHandler returns an event handler backed by an in-process pubsub.
func DefaultHandler() EventHandler {
	return &pubsubHandler{ps: pubsub.New[uint, any](subscriberCapacity)}
}

// Publish publishes an event without blocking.
func (h *pubsubHandler) Publish(id uint, _ string, data any) {
	h.ps.TryPub(data, id)
}

// Subscribe subscribes to an event.
func (h *pubsubHandler) Subscribe(id uint, _ string) SubscriberID {
	ch := h.ps.Sub(id)

	return SubscriberID{
		C:      ch,
		active: true,
		unsub: func() {
			go h.ps.Unsub(ch, id)
		},
		once: &sync.Once{},
	}
}

// nilHandler drops all events.
type nilHandler struct{}

// NilHandler returns a disabled event handler.
func NilHandler() EventHandler {
	return nilHandler{}
}

// Publish does not do anything.
func (nilHandler) Publish(uint, string, any) {}

// Subscribe returns an inactive subscription with a closed channel.
func (nilHandler) Subscribe(uint, string) SubscriberID {
	ch := make(chan any)
	close(ch)

	return SubscriberID{C: ch}
}
