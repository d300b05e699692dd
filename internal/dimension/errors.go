package dimension

import "errors"

// Outcomes of an update that performed no (or only partial) recomputation.
// None of them is fatal; the Controller absorbs them.
var (
	// ErrInvalidInput indicates a NaN or infinite value was supplied to a setter.
	ErrInvalidInput = errors.New("dimension: invalid input (NaN or Inf)")

	// ErrUndefinedRecomputation indicates the dependent quantity would need a
	// division by zero or would overflow; it is left at its previous value.
	ErrUndefinedRecomputation = errors.New("dimension: recomputation undefined (zero divisor or overflow)")

	// ErrLocked indicates the edited quantity is locked.
	ErrLocked = errors.New("dimension: quantity is locked")

	// ErrNoFreeQuantity indicates every candidate for recomputation is locked.
	ErrNoFreeQuantity = errors.New("dimension: no unlocked quantity to solve for")

	// ErrUnknownQuantity indicates a quantity outside length, width, height, volume.
	ErrUnknownQuantity = errors.New("dimension: unknown quantity")

	// ErrBadEvent indicates an event that could not be parsed or has an unknown kind.
	ErrBadEvent = errors.New("dimension: malformed event")
)

// RecomputeError wraps an outcome with the event that produced it.
type RecomputeError struct {
	Event   Event
	Wrapped error
}

func (e *RecomputeError) Error() string {
	return e.Event.String() + ": " + e.Wrapped.Error()
}

func (e *RecomputeError) Unwrap() error {
	return e.Wrapped
}
