package sim

import (
	"log"
	"reflect"
)

// A Timeline is the deferred-event scheduler that orders all signal
// propagation. Scheduled actions never fire synchronously, not even with a
// zero delay; they fire on a later Drain, which makes the ordering of
// simultaneous changes deterministic.
type Timeline struct {
	HookableBase

	time  VTime
	speed float64
	queue EventQueue
}

// NewTimeline creates a Timeline starting at time zero with a speed
// multiplier of one.
func NewTimeline() *Timeline {
	t := new(Timeline)
	t.speed = 1
	t.queue = NewEventQueue()
	return t
}

// Now returns the current logical time. It never decreases.
func (t *Timeline) Now() VTime {
	return t.time
}

// SetSpeed sets the global speed multiplier. All delays are scaled uniformly:
// a multiplier of two halves every effective delay. The multiplier must be
// positive.
func (t *Timeline) SetSpeed(mult float64) error {
	if mult <= 0 {
		return NewConfigurationError("speed multiplier %f is not positive", mult)
	}

	t.speed = mult
	return nil
}

// After converts a delay into the absolute time the delay expires at, applying
// the speed multiplier. A negative delay is a ConfigurationError.
func (t *Timeline) After(delay VTime) (VTime, error) {
	if delay < 0 {
		return 0, NewConfigurationError("delay %f is negative", delay)
	}

	return t.time + delay/VTime(t.speed), nil
}

// Schedule registers a handler to run after the given delay. The handler
// receives a bare event carrying the fire time.
func (t *Timeline) Schedule(delay VTime, h Handler) error {
	fireAt, err := t.After(delay)
	if err != nil {
		return err
	}

	t.queue.Push(NewEventBase(fireAt, h))
	return nil
}

// ScheduleEvent registers a fully built event. The event time must not lie in
// the past.
func (t *Timeline) ScheduleEvent(evt Event) error {
	if evt.Time() < t.time {
		return NewConfigurationError(
			"event time %f is earlier than now %f", evt.Time(), t.time)
	}

	t.queue.Push(evt)
	return nil
}

// Pending returns the number of events waiting to fire.
func (t *Timeline) Pending() int {
	return t.queue.Len()
}

// Drain fires every queued event, including events scheduled while draining,
// in time order. Same-time events fire in the order they were scheduled.
func (t *Timeline) Drain() error {
	for t.queue.Len() > 0 {
		if err := t.fireNext(); err != nil {
			return err
		}
	}

	return nil
}

// DrainUntil fires every event due at or before the deadline, then advances
// the clock to the deadline. It is the per-frame stepping entry point for an
// interactive driver.
func (t *Timeline) DrainUntil(deadline VTime) error {
	for t.queue.Len() > 0 && t.queue.Peek().Time() <= deadline {
		if err := t.fireNext(); err != nil {
			return err
		}
	}

	if deadline > t.time {
		t.time = deadline
	}

	return nil
}

func (t *Timeline) fireNext() error {
	evt := t.queue.Pop()
	if evt.Time() < t.time {
		log.Panicf(
			"cannot fire event in the past, evt %s @ %.10f, now %.10f",
			reflect.TypeOf(evt), evt.Time(), t.time,
		)
	}
	t.time = evt.Time()

	hookCtx := HookCtx{
		Domain: t,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	t.InvokeHook(hookCtx)

	err := evt.Handler().Handle(evt)

	hookCtx.Pos = HookPosAfterEvent
	t.InvokeHook(hookCtx)

	return err
}
