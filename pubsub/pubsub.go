// Package pubsub delivers per-document events to feature modules.
//
// Subscribers run synchronously, in subscription order, so that a
// message carrying an appendable list (such as the diagnostics of one
// document) is complete when Publish returns.
package pubsub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Handler processes one message published on a topic.
type Handler[T any] func(ctx context.Context, msg T) error

type subscription[T any] struct {
	id      int
	topic   string
	handler Handler[T]
}

// Bus is safe for concurrent use.
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   []*subscription[T]
	nextID int
	logger *slog.Logger
}

type BusOption[T any] func(*Bus[T])

func WithLogger[T any](l *slog.Logger) BusOption[T] {
	return func(b *Bus[T]) {
		b.logger = l
	}
}

func New[T any](opts ...BusOption[T]) *Bus[T] {
	b := &Bus[T]{logger: slog.Default()}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Subscribe registers h for topic and returns a function removing it.
func (b *Bus[T]) Subscribe(topic string, h Handler[T]) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, &subscription[T]{id: id, topic: topic, handler: h})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every handler of topic with msg and joins their errors.
// A panicking handler is reported as an error; the others still run.
func (b *Bus[T]) Publish(ctx context.Context, topic string, msg T) error {
	b.mu.RLock()
	subs := make([]*subscription[T], 0, len(b.subs))
	for _, s := range b.subs {
		if s.topic == topic {
			subs = append(subs, s)
		}
	}
	b.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := b.invoke(ctx, s, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Bus[T]) invoke(ctx context.Context, s *subscription[T], msg T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("subscriber panicked", "topic", s.topic, "panic", r)
			err = fmt.Errorf("subscriber %d on %q panicked: %v", s.id, s.topic, r)
		}
	}()
	return s.handler(ctx, msg)
}
