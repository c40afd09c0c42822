package consumer

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
)

type mapDedup struct {
	seen map[string]bool
}

func (d *mapDedup) Record(_ context.Context, eventID string, _ string) (bool, error) {
	if d.seen[eventID] {
		return false, nil
	}
	d.seen[eventID] = true
	return true, nil
}

func bookingMessage(eventID string) kafka.Message {
	return kafka.Message{
		Topic: "planner.booking.created.v1",
		Key:   []byte("booking-1"),
		Value: []byte(`{"booking_id":"booking-1"}`),
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(eventID)},
			{Key: "event_type", Value: []byte("planner.booking.created.v1")},
		},
	}
}

func TestProcessSkipsRedeliveredEvent(t *testing.T) {
	var handled []BookingEvent
	c := &Consumer{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		dedup:  &mapDedup{seen: map[string]bool{}},
		handler: func(_ context.Context, evt BookingEvent) error {
			handled = append(handled, evt)
			return nil
		},
	}

	ctx := context.Background()
	c.process(ctx, bookingMessage("evt-1"))
	c.process(ctx, bookingMessage("evt-1"))
	if len(handled) != 1 {
		t.Fatalf("handled %d events, want 1 (redelivery must be skipped)", len(handled))
	}
	if handled[0].ID != "evt-1" || handled[0].Type != "planner.booking.created.v1" {
		t.Fatalf("unexpected event %+v", handled[0])
	}

	c.process(ctx, bookingMessage("evt-2"))
	if len(handled) != 2 {
		t.Fatalf("handled %d events, want 2", len(handled))
	}
}
