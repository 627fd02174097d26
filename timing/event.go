// Package timing provides a discrete event engine that advances in whole time
// steps.
package timing

// VTime is a point in simulated time, counted in time steps from the start of
// the simulation.
type VTime uint64

// An Event is something that happens at a given time step.
type Event interface {
	// Time returns the time step at which the event happens.
	Time() VTime

	// Handler returns the handler that handles the event.
	Handler() Handler

	// IsSecondary tells if the event is a secondary event. Secondary events
	// are handled after all the primary events of the same time step.
	IsSecondary() bool
}

// EventBase provides the basic fields and getters for other events.
type EventBase struct {
	ID        string
	time      VTime
	handler   Handler
	secondary bool
}

// NewEventBase creates a new EventBase.
func NewEventBase(t VTime, handler Handler) *EventBase {
	return &EventBase{
		ID:      GetIDGenerator().Generate(),
		time:    t,
		handler: handler,
	}
}

// Time returns the time step at which the event happens.
func (e EventBase) Time() VTime {
	return e.time
}

// Handler returns the handler of the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary returns true if the event is a secondary event.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}

// A Handler processes events. An event can only modify the state of its own
// handler.
type Handler interface {
	Handle(e Event) error
}
