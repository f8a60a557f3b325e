// Package stream provides the conflating broadcast used to publish the
// catalog, the favorites list and the settings.
//
// A Latest has one writer and any number of readers. Every subscriber owns
// a channel of capacity one that always holds the newest value: a reader
// that falls behind misses intermediate values but never blocks the writer.
package stream

import (
	"context"
	"sync"
)

// Latest holds the most recent value of T and fans it out to subscribers.
type Latest[T any] struct {
	mu      sync.Mutex
	value   T
	set     bool
	version uint64
	subs    map[chan T]struct{}
}

// NewLatest returns an empty stream. Subscribers receive nothing until the
// first Publish.
func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{subs: make(map[chan T]struct{})}
}

// Publish stores v and delivers it to every subscriber, replacing any value
// the subscriber has not consumed yet.
func (l *Latest[T]) Publish(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.value = v
	l.set = true
	l.version++
	for ch := range l.subs {
		offer(ch, v)
	}
}

// Get returns the current value and whether one was ever published.
func (l *Latest[T]) Get() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.set
}

// Version counts publications. Zero means nothing was published yet.
func (l *Latest[T]) Version() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version
}

// Subscribe returns a channel carrying the current value (if any) followed
// by every later publication, conflated. The channel is closed once ctx is
// done.
func (l *Latest[T]) Subscribe(ctx context.Context) <-chan T {
	return l.subscribe(ctx, true)
}

// SubscribeNext is Subscribe without the current value: only publications
// made after the call are delivered. Used for event-like streams.
func (l *Latest[T]) SubscribeNext(ctx context.Context) <-chan T {
	return l.subscribe(ctx, false)
}

func (l *Latest[T]) subscribe(ctx context.Context, replay bool) <-chan T {
	ch := make(chan T, 1)

	l.mu.Lock()
	l.subs[ch] = struct{}{}
	if replay && l.set {
		ch <- l.value
	}
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		delete(l.subs, ch)
		close(ch)
		l.mu.Unlock()
	}()

	return ch
}

// Subscribers returns the number of live subscriptions.
func (l *Latest[T]) Subscribers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

// offer replaces the pending value of ch with v. Callers hold l.mu, which
// makes them the only sender, so the final send cannot block.
func offer[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
