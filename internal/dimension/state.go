package dimension

import (
	"fmt"
	"math"
)

const (
	DefaultLength = 10.0
	DefaultWidth  = 10.0
	DefaultHeight = 10.0
	DefaultVolume = 1000.0

	// Epsilon is the tolerance used by Consistent.
	Epsilon = 1e-9
)

// State is a snapshot of the four quantities and the lock set.
type State struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Volume float64 `json:"volume"`
	Locks  LockSet `json:"locks"`
}

// NewState returns the default box: a 10x10x10 cube with nothing locked.
func NewState() State {
	return State{
		Length: DefaultLength,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Volume: DefaultVolume,
	}
}

// Get returns the value of q, or NaN for an unknown quantity.
func (s State) Get(q Quantity) float64 {
	switch q {
	case Length:
		return s.Length
	case Width:
		return s.Width
	case Height:
		return s.Height
	case Volume:
		return s.Volume
	}
	return math.NaN()
}

// With returns a copy of s with q replaced by v. Unknown quantities are ignored.
func (s State) With(q Quantity, v float64) State {
	switch q {
	case Length:
		s.Length = v
	case Width:
		s.Width = v
	case Height:
		s.Height = v
	case Volume:
		s.Volume = v
	}
	return s
}

// Locked reports whether q is in the lock set.
func (s State) Locked(q Quantity) bool {
	return s.Locks.Has(q)
}

// Disabled is the read-only projection a UI uses to grey out a control.
// It is derived from the lock set and never stored separately.
func (s State) Disabled(q Quantity) bool {
	return s.Locks.Has(q)
}

// Product returns length * width * height.
func (s State) Product() float64 {
	return s.Length * s.Width * s.Height
}

// Consistent reports whether volume matches the product within Epsilon,
// relative to the magnitude of the volume.
func (s State) Consistent() bool {
	scale := math.Max(1, math.Abs(s.Volume))
	return math.Abs(s.Product()-s.Volume) <= Epsilon*scale
}

// Finite reports whether every field holds a finite number.
func (s State) Finite() bool {
	for _, q := range Quantities {
		if !finite(s.Get(q)) {
			return false
		}
	}
	return true
}

func (s State) String() string {
	return fmt.Sprintf("L=%g W=%g H=%g V=%g locks=%s", s.Length, s.Width, s.Height, s.Volume, s.Locks)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
