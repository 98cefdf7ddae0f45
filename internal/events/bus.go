package events

import (
	"reflect"
	"sync"
)

// Bus is an in-process publish/subscribe hub. Subscriptions are keyed
// by the event's concrete type, so payloads stay typed end to end.
// Delivery is synchronous in subscription order; publishers never wait
// on anything but the handlers themselves.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[reflect.Type][]handler
}

type handler struct {
	id int
	fn func(interface{})
}

func NewBus() *Bus {
	return &Bus{subs: make(map[reflect.Type][]handler)}
}

// Subscribe registers fn for events of type T and returns a function
// that removes the subscription.
func Subscribe[T any](b *Bus, fn func(T)) func() {
	t := reflect.TypeOf((*T)(nil)).Elem()

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[t] = append(b.subs[t], handler{id: id, fn: func(v interface{}) { fn(v.(T)) }})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		hs := b.subs[t]
		for i, h := range hs {
			if h.id == id {
				b.subs[t] = append(hs[:i:i], hs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers event to every subscriber of its type.
// Fire-and-forget: events with no subscribers are dropped.
func Publish[T any](b *Bus, event T) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	b.mu.Lock()
	hs := append([]handler(nil), b.subs[t]...)
	b.mu.Unlock()

	for _, h := range hs {
		h.fn(event)
	}
}
