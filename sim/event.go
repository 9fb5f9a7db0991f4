// Package sim is a small discrete-event engine that delivers spikes to their
// handlers in time order.
package sim

// VTimeInStep is a simulation time in timesteps.
type VTimeInStep uint64

// Handler processes events. Events are plain data; handlers type-switch on
// them.
type Handler interface {
	Handle(event any) error
}

// TimeTeller exposes the current simulation time.
type TimeTeller interface {
	CurrentTime() VTimeInStep
}

// EventScheduler schedules events.
type EventScheduler interface {
	TimeTeller
	Schedule(event ScheduledEvent)
}

// ScheduledEvent wraps an event payload with the metadata the engine needs.
type ScheduledEvent struct {
	// Event is the payload delivered to Handler.
	Event any

	// Time is when the event is handled.
	Time VTimeInStep

	// Handler handles the event.
	Handler Handler

	// IsSecondary events are handled after every primary event of the same
	// time.
	IsSecondary bool

	seq uint64
}
