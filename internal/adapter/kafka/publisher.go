package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
)

const (
	producerName = "marketplace-order-core"
	eventVersion = 1
)

// ErrNoBrokers is returned when the publisher is built without a broker list.
var ErrNoBrokers = errors.New("kafka brokers are not configured")

// messageWriter is the part of the traced kafka writer the publisher relies on.
type messageWriter interface {
	WriteMessage(ctx context.Context, msg kafkago.Message) error
	Close() error
}

// Envelope wraps every notification written to the topic.
type Envelope struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	EventVersion  int       `json:"event_version"`
	OccurredAt    time.Time `json:"occurred_at"`
	Producer      string    `json:"producer"`
	CorrelationID string    `json:"correlation_id"`
	Payload       Payload   `json:"payload"`
}

// Payload is the notification itself.
type Payload struct {
	UserID     string `json:"user_id"`
	Kind       string `json:"kind"`
	OrderID    string `json:"order_id,omitempty"`
	ShortLabel string `json:"short_label,omitempty"`
	Title      string `json:"title"`
	Message    string `json:"message"`
}

// Publisher writes notification events to a Kafka topic.
type Publisher struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

// NewPublisher builds a traced writer for topic. Trace context of the caller is
// injected into message headers by the writer.
func NewPublisher(brokers []string, topic string, tp trace.TracerProvider) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	base := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	writer, err := otelkafka.NewWriter(base,
		otelkafka.WithTracerProvider(tp),
		otelkafka.WithPropagator(propagation.TraceContext{}),
		otelkafka.WithAttributes([]attribute.KeyValue{
			semconv.MessagingDestinationNameKey.String(topic),
			attribute.String("messaging.kafka.client_id", producerName),
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka writer: %w", err)
	}
	return newPublisher(writer, topic), nil
}

func newPublisher(writer messageWriter, topic string) *Publisher {
	return &Publisher{writer: writer, topic: topic, now: time.Now}
}

// Publish writes a single event keyed by its recipient, so a user's
// notifications stay ordered within one partition.
func (p *Publisher) Publish(ctx context.Context, event model.Event) error {
	value, err := json.Marshal(p.envelope(ctx, event))
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	msg := kafkago.Message{
		Key:   []byte(event.UserID),
		Value: value,
		Time:  p.now(),
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.Kind)},
		},
	}
	if err := p.writer.WriteMessage(ctx, msg); err != nil {
		return domainErrors.Dependency("publish event", err)
	}
	return nil
}

// Close flushes pending writes.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) envelope(ctx context.Context, event model.Event) Envelope {
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = p.now()
	}
	correlation := event.OrderID
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		correlation = sc.TraceID().String()
	}
	return Envelope{
		EventID:       event.ID,
		EventType:     string(event.Kind),
		EventVersion:  eventVersion,
		OccurredAt:    occurred.UTC(),
		Producer:      producerName,
		CorrelationID: correlation,
		Payload: Payload{
			UserID:     event.UserID,
			Kind:       string(event.Kind),
			OrderID:    event.OrderID,
			ShortLabel: event.ShortLabel,
			Title:      event.Title,
			Message:    event.Message,
		},
	}
}
