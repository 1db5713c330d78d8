package messaging

import (
	"context"
	"encoding/json"
	"time"

	"quickcart-be/internal/logger"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var producerTracer = otel.Tracer("quickcart-be/messaging")

// EventTypeHeader carries the event name so consumers can route without decoding the body.
const EventTypeHeader = "event-type"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Event is a domain event with a stable name and partition key.
type Event interface {
	EventType() string
	EventKey() string
}

type Producer struct {
	writer messageWriter
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{topic: topic, writer: newWriter(brokers, topic)}
}

// newWriter returns an async writer: WriteMessages only enqueues, and delivery failures
// surface in the completion log. Close flushes what is still buffered.
func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           100 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			logDelivery(topic, messages, err)
		},
	}
}

func logDelivery(topic string, messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	logger.L().Warn("failed to deliver events",
		zap.String("topic", topic),
		zap.Int("count", len(messages)),
		zap.Error(err),
	)
}

func (p *Producer) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := event.EventKey()
	msg := kafka.Message{
		Key:     []byte(key),
		Value:   data,
		Headers: []kafka.Header{{Key: EventTypeHeader, Value: []byte(event.EventType())}},
	}

	ctx, span := producerTracer.Start(ctx, "send "+p.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("send"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(p.topic),
			semconv.MessagingKafkaMessageKey(key),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, NewMessageCarrier(&msg))

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.FromCtx(ctx).Warn("failed to publish event",
			zap.String("event", event.EventType()),
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
