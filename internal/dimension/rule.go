package dimension

import "math"

// Apply is the update rule. It returns the state after ev and, when the
// rule could not recompute everything it wanted to, a *RecomputeError
// wrapping one of the package sentinels. The returned state is always
// usable: rejected edits return s unchanged, partial edits store the new
// value and leave the dependent quantity as it was.
//
// Lock state is read from s, i.e. before the event.
func Apply(s State, ev Event) (State, error) {
	next, err := apply(s, ev)
	if err != nil {
		return next, &RecomputeError{Event: ev, Wrapped: err}
	}
	return next, nil
}

func apply(s State, ev Event) (State, error) {
	if !ev.Quantity.Valid() {
		return s, ErrUnknownQuantity
	}

	switch ev.Kind {
	case EventToggleLock:
		s.Locks = s.Locks.Toggle(ev.Quantity)
		return s, nil
	case EventSet:
		return set(s, ev.Quantity, ev.Value)
	}
	return s, ErrBadEvent
}

func set(s State, q Quantity, v float64) (State, error) {
	if !finite(v) {
		return s, ErrInvalidInput
	}
	if s.Locks.Has(q) {
		return s, ErrLocked
	}

	s = s.With(q, v)

	if q.IsDimension() && !s.Locks.Has(Volume) {
		product := s.Product()
		if !finite(product) {
			return s, ErrUndefinedRecomputation
		}
		s.Volume = product
		return s, nil
	}

	// Volume edit, or dimension edit with volume held: solve a dimension.
	return solve(s, q)
}

// solve recomputes the highest-priority unlocked dimension other than
// edited so that the product matches the current volume.
func solve(s State, edited Quantity) (State, error) {
	free, ok := FreeDimension(s.Locks, edited)
	if !ok {
		return s, ErrNoFreeQuantity
	}

	x := Solve(s, free)
	if !finite(x) {
		return s, ErrUndefinedRecomputation
	}
	return s.With(free, x), nil
}

// FreeDimension returns the dimension an edit of edited would recompute
// under locks, following the priority height, width, length. It reports
// false when every candidate is locked.
func FreeDimension(locks LockSet, edited Quantity) (Quantity, bool) {
	for _, d := range solveOrder {
		if d != edited && !locks.Has(d) {
			return d, true
		}
	}
	return 0, false
}

// Target returns the quantity an edit of q would recompute under locks.
// It reports false when the edit would be rejected or recompute nothing.
func Target(locks LockSet, q Quantity) (Quantity, bool) {
	if !q.Valid() || locks.Has(q) {
		return 0, false
	}
	if q.IsDimension() && !locks.Has(Volume) {
		return Volume, true
	}
	return FreeDimension(locks, q)
}

// Solve returns the value of free that satisfies the volume relation given
// the other fields of s. It returns NaN when that is undefined.
func Solve(s State, free Quantity) float64 {
	if free == Volume {
		return s.Product()
	}
	divisor := 1.0
	for _, d := range Dimensions {
		if d != free {
			divisor *= s.Get(d)
		}
	}
	if divisor == 0 || !free.IsDimension() {
		return math.NaN()
	}
	return s.Volume / divisor
}
