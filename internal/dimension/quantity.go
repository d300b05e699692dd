package dimension

import (
	"fmt"
	"strings"
)

// Quantity names one of the four linked fields.
type Quantity int

const (
	Length Quantity = iota
	Width
	Height
	Volume
)

// Quantities lists every quantity in display order.
var Quantities = [...]Quantity{Length, Width, Height, Volume}

// Dimensions lists the three linear quantities in display order.
var Dimensions = [...]Quantity{Length, Width, Height}

// solveOrder is the free-variable priority used when several dimensions
// could absorb an edit.
var solveOrder = [...]Quantity{Height, Width, Length}

var quantityNames = [...]string{"length", "width", "height", "volume"}

func (q Quantity) Valid() bool {
	return q >= Length && q <= Volume
}

// IsDimension reports whether q is length, width or height.
func (q Quantity) IsDimension() bool {
	return q >= Length && q <= Height
}

func (q Quantity) String() string {
	if !q.Valid() {
		return fmt.Sprintf("quantity(%d)", int(q))
	}
	return quantityNames[q]
}

// Symbol returns the single letter label used in compact output.
func (q Quantity) Symbol() string {
	if !q.Valid() {
		return "?"
	}
	return strings.ToUpper(quantityNames[q][:1])
}

// ParseQuantity accepts the full name or its first letter, case-insensitive.
func ParseQuantity(s string) (Quantity, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range quantityNames {
		if name == n || (len(name) == 1 && name == n[:1]) {
			return Quantity(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownQuantity, s)
}

func (q Quantity) MarshalText() ([]byte, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownQuantity, int(q))
	}
	return []byte(q.String()), nil
}

func (q *Quantity) UnmarshalText(text []byte) error {
	parsed, err := ParseQuantity(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// LockSet is the set of locked quantities, one bit per Quantity.
type LockSet uint8

// NoLocks is the empty lock set.
const NoLocks LockSet = 0

// Locks builds a set holding the given quantities.
func Locks(qs ...Quantity) LockSet {
	var s LockSet
	for _, q := range qs {
		if q.Valid() {
			s |= 1 << uint(q)
		}
	}
	return s
}

func (s LockSet) Has(q Quantity) bool {
	return q.Valid() && s&(1<<uint(q)) != 0
}

// Toggle returns s with the membership of q flipped.
func (s LockSet) Toggle(q Quantity) LockSet {
	if !q.Valid() {
		return s
	}
	return s ^ (1 << uint(q))
}

func (s LockSet) Count() int {
	n := 0
	for _, q := range Quantities {
		if s.Has(q) {
			n++
		}
	}
	return n
}

// Members returns the locked quantities in display order.
func (s LockSet) Members() []Quantity {
	out := make([]Quantity, 0, 4)
	for _, q := range Quantities {
		if s.Has(q) {
			out = append(out, q)
		}
	}
	return out
}

func (s LockSet) String() string {
	if s == NoLocks {
		return "none"
	}
	names := make([]string, 0, 4)
	for _, q := range s.Members() {
		names = append(names, q.String())
	}
	return strings.Join(names, "+")
}

// ParseLockSet reads the form produced by String. Empty and "none" give NoLocks.
func ParseLockSet(text string) (LockSet, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "none" {
		return NoLocks, nil
	}
	var s LockSet
	for _, part := range strings.Split(text, "+") {
		q, err := ParseQuantity(part)
		if err != nil {
			return NoLocks, err
		}
		s |= Locks(q)
	}
	return s, nil
}

func (s LockSet) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *LockSet) UnmarshalText(text []byte) error {
	parsed, err := ParseLockSet(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
