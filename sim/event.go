package sim

// VTime is a point on the simulated, logical time axis. It carries no wall
// clock meaning; only ordering and differences matter.
type VTime float64

// An Event is something going to happen in the future.
type Event interface {
	// Time returns the time that the event should fire.
	Time() VTime

	// Handler returns the handler that should handle the event.
	Handler() Handler
}

// EventBase provides the basic fields and getters for other events.
type EventBase struct {
	ID      string
	time    VTime
	handler Handler
}

// NewEventBase creates a new EventBase.
func NewEventBase(t VTime, handler Handler) *EventBase {
	e := new(EventBase)
	e.ID = GetIDGenerator().Generate()
	e.time = t
	e.handler = handler
	return e
}

// Time returns the time that the event is going to fire.
func (e EventBase) Time() VTime {
	return e.time
}

// Handler returns the handler to handle the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// A Handler is a unit that events are dispatched to.
type Handler interface {
	Handle(e Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(e Event) error

// Handle calls the wrapped function.
func (f HandlerFunc) Handle(e Event) error {
	return f(e)
}
