// Package stream demultiplexes the chunked token events arriving from the
// inference backend on the primary and swarm channels.
package stream

import (
	"sync"

	"github.com/swarmchat/swarmchat/internal/domain"
)

// Handler consumes one stream event.
type Handler func(domain.StreamEvent)

// Source is the host-runtime event primitive the listener consumes: a
// channel-labelled subscription that can be torn down via the returned
// function.
type Source interface {
	Subscribe(ch domain.Channel, h Handler) (unsubscribe func())
}

type subscription struct {
	id int
	h  Handler
}

// Bus is an in-process Source used by the reference wiring and the tests.
// Events are delivered synchronously, per event, in subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[domain.Channel][]subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[domain.Channel][]subscription)}
}

// Subscribe registers a handler for one channel. The returned unsubscribe
// function is idempotent.
func (b *Bus) Subscribe(ch domain.Channel, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[ch] = append(b.subs[ch], subscription{id: id, h: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[ch]
		for i := range subs {
			if subs[i].id == id {
				b.subs[ch] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers an event to every subscriber of the channel, in the
// order they subscribed.
func (b *Bus) Publish(ch domain.Channel, ev domain.StreamEvent) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[ch]))
	copy(subs, b.subs[ch])
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.h(ev)
	}
}
