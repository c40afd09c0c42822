package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (event per topic).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// Booking lifecycle event types consumed by notification-service.
const (
	EventBookingCreated   = "planner.booking.created.v1"
	EventBookingUpdated   = "planner.booking.updated.v1"
	EventBookingCancelled = "planner.booking.cancelled.v1"
)
