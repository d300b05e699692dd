package dimension

import (
	"errors"

	"github.com/san-kum/dimcalc/pkg/logger"
)

// Observer is called after every dispatched event with the states either
// side of it and the absorbed outcome (nil when the rule ran in full).
type Observer func(ev Event, before, after State, err error)

// Controller owns one State and mutates it only through the update rule.
// Setter errors are absorbed: the caller always gets a usable snapshot.
type Controller struct {
	state     State
	initial   State
	observers []Observer
	log       *logger.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithObserver registers fn to be called after every event.
func WithObserver(fn Observer) Option {
	return func(c *Controller) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

// WithLogger routes absorbed outcomes to l at debug level.
func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// NewController returns a controller starting at initial.
func NewController(initial State, opts ...Option) *Controller {
	c := &Controller{
		state:   initial,
		initial: initial,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Observe registers fn after construction.
func (c *Controller) Observe(fn Observer) {
	if fn != nil {
		c.observers = append(c.observers, fn)
	}
}

func (c *Controller) Snapshot() State { return c.state }

func (c *Controller) SetLength(v float64) State { return c.Set(Length, v) }
func (c *Controller) SetWidth(v float64) State  { return c.Set(Width, v) }
func (c *Controller) SetHeight(v float64) State { return c.Set(Height, v) }
func (c *Controller) SetVolume(v float64) State { return c.Set(Volume, v) }

// Set writes v to q and recomputes the dependent quantity.
func (c *Controller) Set(q Quantity, v float64) State {
	return c.Dispatch(SetEvent(q, v))
}

// ToggleLock flips the lock of q. Nothing is recomputed.
func (c *Controller) ToggleLock(q Quantity) State {
	return c.Dispatch(ToggleEvent(q))
}

// Disabled reports whether the control for q should be greyed out.
func (c *Controller) Disabled(q Quantity) bool {
	return c.state.Disabled(q)
}

// Dispatch applies ev and returns the new snapshot.
func (c *Controller) Dispatch(ev Event) State {
	next, _ := c.DispatchResult(ev)
	return next
}

// DispatchResult applies ev like Dispatch and also returns the absorbed
// outcome, for callers that want to show it.
func (c *Controller) DispatchResult(ev Event) (State, error) {
	before := c.state
	next, err := Apply(before, ev)
	if err != nil {
		c.log.Debug("update absorbed", "event", ev.String(), "reason", reason(err))
	}
	c.state = next
	for _, fn := range c.observers {
		fn(ev, before, next, err)
	}
	return next, err
}

// Reset restores the initial state without notifying observers.
func (c *Controller) Reset() State {
	c.state = c.initial
	return c.state
}

func reason(err error) string {
	var re *RecomputeError
	if errors.As(err, &re) {
		return re.Wrapped.Error()
	}
	return err.Error()
}
