package dimension

import (
	"fmt"
	"strconv"
	"strings"
)

// EventKind distinguishes setter calls from lock toggles.
type EventKind int

const (
	EventSet EventKind = iota
	EventToggleLock
)

func (k EventKind) String() string {
	switch k {
	case EventSet:
		return "set"
	case EventToggleLock:
		return "lock"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is one user interaction: a value written to a quantity or a lock flip.
// Value is ignored for EventToggleLock.
type Event struct {
	Kind     EventKind
	Quantity Quantity
	Value    float64
}

// SetEvent builds the event for writing v to q.
func SetEvent(q Quantity, v float64) Event {
	return Event{Kind: EventSet, Quantity: q, Value: v}
}

// ToggleEvent builds the event for flipping the lock of q.
func ToggleEvent(q Quantity) Event {
	return Event{Kind: EventToggleLock, Quantity: q}
}

// String renders the text form accepted by ParseEvent:
// "set:length=20" or "lock:volume".
func (e Event) String() string {
	switch e.Kind {
	case EventSet:
		return fmt.Sprintf("set:%s=%s", e.Quantity, strconv.FormatFloat(e.Value, 'g', -1, 64))
	case EventToggleLock:
		return "lock:" + e.Quantity.String()
	}
	return fmt.Sprintf("%s:%s", e.Kind, e.Quantity)
}

// ParseEvent reads "set:<quantity>=<value>" or "lock:<quantity>".
// The shorthand "<quantity>=<value>" is accepted as a set.
func ParseEvent(text string) (Event, error) {
	text = strings.TrimSpace(text)
	kind, rest, found := strings.Cut(text, ":")
	if !found {
		kind, rest = "set", text
	}

	switch strings.ToLower(kind) {
	case "set":
		name, raw, ok := strings.Cut(rest, "=")
		if !ok {
			return Event{}, fmt.Errorf("%w: %q: missing '='", ErrBadEvent, text)
		}
		q, err := ParseQuantity(name)
		if err != nil {
			return Event{}, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Event{}, fmt.Errorf("%w: %q: %v", ErrBadEvent, text, err)
		}
		return SetEvent(q, v), nil
	case "lock", "toggle":
		q, err := ParseQuantity(rest)
		if err != nil {
			return Event{}, err
		}
		return ToggleEvent(q), nil
	}
	return Event{}, fmt.Errorf("%w: %q: unknown kind %q", ErrBadEvent, text, kind)
}

func (e Event) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Event) UnmarshalText(text []byte) error {
	parsed, err := ParseEvent(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
