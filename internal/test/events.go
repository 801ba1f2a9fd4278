package test

import (
	"context"
	"sync"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
)

// EventSinkStub records emitted events.
type EventSinkStub struct {
	mu     sync.Mutex
	events []model.Event
	Err    error
	EmitFn func(context.Context, model.Event) error
}

// Emit stores the event unless an error is configured.
func (s *EventSinkStub) Emit(ctx context.Context, event model.Event) error {
	if s.EmitFn != nil {
		return s.EmitFn(ctx, event)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.events = append(s.events, event)
	return nil
}

// Events returns a snapshot of everything emitted so far.
func (s *EventSinkStub) Events() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Event(nil), s.events...)
}

// Reset forgets recorded events.
func (s *EventSinkStub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

// PublisherStub records events handed to a publisher.
type PublisherStub struct {
	mu        sync.Mutex
	published []model.Event
	PublishFn func(context.Context, model.Event) error
	closed    bool
}

// Publish records event or delegates to override.
func (p *PublisherStub) Publish(ctx context.Context, event model.Event) error {
	if p.PublishFn != nil {
		if err := p.PublishFn(ctx, event); err != nil {
			return err
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
	return nil
}

// Close marks the publisher closed.
func (p *PublisherStub) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Published returns a snapshot of published events.
func (p *PublisherStub) Published() []model.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Event(nil), p.published...)
}

// Closed reports whether Close was called.
func (p *PublisherStub) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

type idempotencyEntry struct {
	orderID string
}

// IdempotencyStoreStub keeps idempotency keys in memory.
type IdempotencyStoreStub struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
	BeginFn func(context.Context, string, string) (string, bool, error)

	Completed []string
	Abandoned []string
}

// NewIdempotencyStoreStub creates an empty stub.
func NewIdempotencyStoreStub() *IdempotencyStoreStub {
	return &IdempotencyStoreStub{entries: make(map[string]idempotencyEntry)}
}

// Begin claims key for buyerID or reports the order it already produced.
func (s *IdempotencyStoreStub) Begin(ctx context.Context, buyerID, key string) (string, bool, error) {
	if s.BeginFn != nil {
		return s.BeginFn(ctx, buyerID, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[buyerID+":"+key]
	if !ok {
		s.entries[buyerID+":"+key] = idempotencyEntry{}
		return "", true, nil
	}
	if entry.orderID == "" {
		return "", false, domainErrors.ErrRequestInFlight
	}
	return entry.orderID, false, nil
}

// Complete records the order produced for key.
func (s *IdempotencyStoreStub) Complete(ctx context.Context, buyerID, key, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[buyerID+":"+key] = idempotencyEntry{orderID: orderID}
	s.Completed = append(s.Completed, key)
	return nil
}

// Abandon releases key so that a retry can run.
func (s *IdempotencyStoreStub) Abandon(ctx context.Context, buyerID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, buyerID+":"+key)
	s.Abandoned = append(s.Abandoned, key)
	return nil
}
