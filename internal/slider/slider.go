// Package slider models the bounded range controls that feed the
// dimension controller. The controller never clamps; the control does.
package slider

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/dimcalc/internal/dimension"
)

// Range is the declared range of one control.
type Range struct {
	Min  float64 `yaml:"min" mapstructure:"min"`
	Max  float64 `yaml:"max" mapstructure:"max"`
	Step float64 `yaml:"step" mapstructure:"step"`
}

// Valid reports whether the range is ordered, finite and has a positive step.
func (r Range) Valid() bool {
	return !math.IsNaN(r.Min) && !math.IsInf(r.Min, 0) &&
		!math.IsNaN(r.Max) && !math.IsInf(r.Max, 0) &&
		r.Min < r.Max && r.Step > 0
}

// Contains reports whether v lies inside the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp bounds v to the range. NaN clamps to Min.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) || v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Increment moves v by n steps (negative n moves down) and clamps.
func (r Range) Increment(v float64, n int) float64 {
	return r.Clamp(v + float64(n)*r.Step)
}

// Fraction maps v to [0,1] across the range, for gauge rendering.
func (r Range) Fraction(v float64) float64 {
	if r.Max == r.Min {
		return 0
	}
	return (r.Clamp(v) - r.Min) / (r.Max - r.Min)
}

// Parse reads a typed number and clamps it. Non-finite input is rejected.
func (r Range) Parse(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", dimension.ErrInvalidInput, text)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", dimension.ErrInvalidInput, text)
	}
	return r.Clamp(v), nil
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g] step %g", r.Min, r.Max, r.Step)
}

// Bank holds one range per quantity.
type Bank map[dimension.Quantity]Range

// DefaultBank returns the ranges of the stock calculator.
func DefaultBank() Bank {
	dim := Range{Min: 1, Max: 100, Step: 1}
	return Bank{
		dimension.Length: dim,
		dimension.Width:  dim,
		dimension.Height: dim,
		dimension.Volume: {Min: 1, Max: 100000, Step: 100},
	}
}

// Range returns the range for q, falling back to the default bank.
func (b Bank) Range(q dimension.Quantity) Range {
	if r, ok := b[q]; ok {
		return r
	}
	return DefaultBank()[q]
}

// Disabled is the UI projection of the lock set: a locked quantity's
// control does not accept input.
func (b Bank) Disabled(s dimension.State, q dimension.Quantity) bool {
	return s.Disabled(q)
}

// Nudge steps the control for q by n and writes the clamped value through
// ctrl. Disabled controls do nothing.
func (b Bank) Nudge(ctrl *dimension.Controller, q dimension.Quantity, n int) (dimension.State, error) {
	s := ctrl.Snapshot()
	if b.Disabled(s, q) {
		return s, fmt.Errorf("%w: %s", dimension.ErrLocked, q)
	}
	return ctrl.DispatchResult(dimension.SetEvent(q, b.Range(q).Increment(s.Get(q), n)))
}

// Enter parses text for q, clamps it and writes it through ctrl.
func (b Bank) Enter(ctrl *dimension.Controller, q dimension.Quantity, text string) (dimension.State, error) {
	s := ctrl.Snapshot()
	if b.Disabled(s, q) {
		return s, fmt.Errorf("%w: %s", dimension.ErrLocked, q)
	}
	v, err := b.Range(q).Parse(text)
	if err != nil {
		return s, err
	}
	return ctrl.DispatchResult(dimension.SetEvent(q, v))
}
