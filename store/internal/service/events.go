package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookstore-service/pkg/circuit_breaker"
	"github.com/Astemirdum/bookstore-service/pkg/kafka"
)

type EventType string

const (
	EventBookCreated     EventType = "book.created"
	EventBookUpdated     EventType = "book.updated"
	EventBookDeleted     EventType = "book.deleted"
	EventRelationUpdated EventType = "relation.updated"
)

type Event struct {
	ID     uuid.UUID `json:"id"`
	Type   EventType `json:"type"`
	BookID int64     `json:"book_id"`
	UserID int64     `json:"user_id,omitempty"`
	At     time.Time `json:"at"`
}

//go:generate go run github.com/golang/mock/mockgen -source=events.go -destination=mocks/mock.go

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

type eventPublisher struct {
	enqueuer kafka.Enqueuer
	topic    string
	cb       circuit_breaker.CircuitBreaker
}

// NewEventPublisher sends events to topic; calls are short-circuited while the broker keeps failing.
func NewEventPublisher(enqueuer kafka.Enqueuer, topic string, cb circuit_breaker.CircuitBreaker) Publisher {
	return &eventPublisher{
		enqueuer: enqueuer,
		topic:    topic,
		cb:       cb,
	}
}

func (p *eventPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.cb.Call(func() error {
		return p.enqueuer.Enqueue(p.topic, event.BookID, event)
	})
}

// publish runs after the write committed, so a failure is only logged.
func (s *Service) publish(ctx context.Context, typ EventType, bookID, userID int64) {
	event := Event{
		ID:     uuid.New(),
		Type:   typ,
		BookID: bookID,
		UserID: userID,
		At:     time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("publish event", zap.String("type", string(typ)), zap.Int64("book_id", bookID), zap.Error(err))
	}
}
