// Package journal records the events of a calculator session and stores
// them on disk so a session can be listed, plotted, exported and replayed.
package journal

import (
	"errors"

	"github.com/san-kum/dimcalc/internal/dimension"
)

const OutcomeOK = "ok"

// Entry is one applied event and the state on either side of it.
type Entry struct {
	Seq     int             `json:"seq"`
	Event   dimension.Event `json:"event"`
	Before  dimension.State `json:"before"`
	After   dimension.State `json:"after"`
	Outcome string          `json:"outcome"`
}

// Journal accumulates entries in dispatch order.
type Journal struct {
	Initial dimension.State
	Preset  string
	entries []Entry
}

func New(initial dimension.State) *Journal {
	return &Journal{Initial: initial}
}

// Record has the dimension.Observer signature so a Journal can be attached
// to a controller directly.
func (j *Journal) Record(ev dimension.Event, before, after dimension.State, err error) {
	j.entries = append(j.entries, Entry{
		Seq:     len(j.entries) + 1,
		Event:   ev,
		Before:  before,
		After:   after,
		Outcome: outcome(err),
	})
}

// Attach wires the journal to ctrl.
func (j *Journal) Attach(ctrl *dimension.Controller) {
	ctrl.Observe(j.Record)
}

func (j *Journal) Entries() []Entry {
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

func (j *Journal) Len() int { return len(j.entries) }

// Final returns the state after the last entry, or Initial when empty.
func (j *Journal) Final() dimension.State {
	if len(j.entries) == 0 {
		return j.Initial
	}
	return j.entries[len(j.entries)-1].After
}

// Events returns the recorded events in order.
func (j *Journal) Events() []dimension.Event {
	evs := make([]dimension.Event, len(j.entries))
	for i, e := range j.entries {
		evs[i] = e.Event
	}
	return evs
}

// Reset drops all entries and starts again from initial.
func (j *Journal) Reset(initial dimension.State) {
	j.Initial = initial
	j.entries = nil
}

// Series returns the value of q after each entry, prefixed by its initial value.
func (j *Journal) Series(q dimension.Quantity) []float64 {
	out := make([]float64, 0, len(j.entries)+1)
	out = append(out, j.Initial.Get(q))
	for _, e := range j.entries {
		out = append(out, e.After.Get(q))
	}
	return out
}

// Replay applies events to a fresh controller starting at initial and
// returns the resulting journal.
func Replay(initial dimension.State, events []dimension.Event) *Journal {
	j := New(initial)
	ctrl := dimension.NewController(initial, dimension.WithObserver(j.Record))
	for _, ev := range events {
		ctrl.Dispatch(ev)
	}
	return j
}

func outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var re *dimension.RecomputeError
	if errors.As(err, &re) {
		return re.Wrapped.Error()
	}
	return err.Error()
}
