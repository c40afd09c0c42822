package consumer

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/planwerk/interviewplanner/libs/kafkax"
)

// BookingEvent is one booking lifecycle message after envelope decoding.
// Type is the planner event type (planner.booking.created.v1 and friends);
// Payload is the raw JSON body.
type BookingEvent struct {
	ID      string
	Type    string
	Payload []byte
}

// Handler processes a fresh booking event.
type Handler func(ctx context.Context, evt BookingEvent) error

// Dedup claims event ids so redelivered bookings are handled once.
type Dedup interface {
	Record(ctx context.Context, eventID string, eventType string) (bool, error)
}

type Consumer struct {
	reader  *kafka.Reader
	logger  *slog.Logger
	dedup   Dedup
	handler Handler
}

type Config struct {
	Brokers string
	GroupID string
	Topic   string
}

func New(logger *slog.Logger, dedup Dedup, cfg Config, handler Handler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  kafkax.SplitBrokers(cfg.Brokers),
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{
		reader:  reader,
		logger:  logger,
		dedup:   dedup,
		handler: handler,
	}
}

func (c *Consumer) Run(ctx context.Context) {
	defer c.reader.Close()

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("booking event read failed", "err", err)
			time.Sleep(1 * time.Second)
			continue
		}
		c.process(ctx, msg)
	}
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	ctx = kafkax.ExtractTraceContext(ctx, msg)
	ctx, span := otel.Tracer("notification").Start(ctx, "booking.consume",
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", msg.Topic),
		),
	)
	defer span.End()

	meta := kafkax.ExtractEventMeta(msg)
	evt := BookingEvent{ID: meta.EventID, Type: meta.EventType, Payload: msg.Value}

	fresh, err := c.dedup.Record(ctx, evt.ID, evt.Type)
	if err != nil {
		c.logger.Error("inbox record failed", "err", err, "event_id", evt.ID)
		span.RecordError(err)
		return
	}
	if !fresh {
		c.logger.Info("redelivered booking event skipped", "event_id", evt.ID, "event_type", evt.Type)
		return
	}

	if err := c.handler(ctx, evt); err != nil {
		c.logger.Error("booking event handling failed", "err", err, "event_id", evt.ID, "event_type", evt.Type)
		span.RecordError(err)
	}
}
