package dimension

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func TestApplySet(t *testing.T) {
	tests := []struct {
		name    string
		locks   LockSet
		event   Event
		want    State
		wantErr error
	}{
		{
			name:  "length updates volume",
			event: SetEvent(Length, 20),
			want:  State{Length: 20, Width: 10, Height: 10, Volume: 2000},
		},
		{
			name:  "height updates volume",
			event: SetEvent(Height, 3),
			want:  State{Length: 10, Width: 10, Height: 3, Volume: 300},
		},
		{
			name:  "volume locked, length solves height",
			locks: Locks(Volume),
			event: SetEvent(Length, 5),
			want:  State{Length: 5, Width: 10, Height: 20, Volume: 1000, Locks: Locks(Volume)},
		},
		{
			name:  "volume locked, height solves width",
			locks: Locks(Volume),
			event: SetEvent(Height, 20),
			want:  State{Length: 10, Width: 5, Height: 20, Volume: 1000, Locks: Locks(Volume)},
		},
		{
			name:  "volume and height locked, length solves width",
			locks: Locks(Volume, Height),
			event: SetEvent(Length, 4),
			want:  State{Length: 4, Width: 25, Height: 10, Volume: 1000, Locks: Locks(Volume, Height)},
		},
		{
			name:  "volume and length locked, width solves height",
			locks: Locks(Volume, Length),
			event: SetEvent(Width, 4),
			want:  State{Length: 10, Width: 4, Height: 25, Volume: 1000, Locks: Locks(Volume, Length)},
		},
		{
			name:  "no locks, volume solves height",
			event: SetEvent(Volume, 500),
			want:  State{Length: 10, Width: 10, Height: 5, Volume: 500},
		},
		{
			name:  "length locked, volume solves height",
			locks: Locks(Length),
			event: SetEvent(Volume, 500),
			want:  State{Length: 10, Width: 10, Height: 5, Volume: 500, Locks: Locks(Length)},
		},
		{
			name:  "height locked, volume solves width",
			locks: Locks(Height),
			event: SetEvent(Volume, 2000),
			want:  State{Length: 10, Width: 20, Height: 10, Volume: 2000, Locks: Locks(Height)},
		},
		{
			name:  "width and height locked, volume solves length",
			locks: Locks(Width, Height),
			event: SetEvent(Volume, 2000),
			want:  State{Length: 20, Width: 10, Height: 10, Volume: 2000, Locks: Locks(Width, Height)},
		},
		{
			name:    "all dimensions locked keeps dimensions",
			locks:   Locks(Length, Width, Height),
			event:   SetEvent(Volume, 2000),
			want:    State{Length: 10, Width: 10, Height: 10, Volume: 2000, Locks: Locks(Length, Width, Height)},
			wantErr: ErrNoFreeQuantity,
		},
		{
			name:    "locked length rejects edit",
			locks:   Locks(Length),
			event:   SetEvent(Length, 5),
			want:    State{Length: 10, Width: 10, Height: 10, Volume: 1000, Locks: Locks(Length)},
			wantErr: ErrLocked,
		},
		{
			name:    "locked volume rejects edit",
			locks:   Locks(Volume),
			event:   SetEvent(Volume, 5),
			want:    State{Length: 10, Width: 10, Height: 10, Volume: 1000, Locks: Locks(Volume)},
			wantErr: ErrLocked,
		},
		{
			name:    "NaN rejected",
			event:   SetEvent(Width, math.NaN()),
			want:    NewState(),
			wantErr: ErrInvalidInput,
		},
		{
			name:    "Inf rejected",
			event:   SetEvent(Volume, math.Inf(1)),
			want:    NewState(),
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown quantity",
			event:   SetEvent(Quantity(9), 1),
			want:    NewState(),
			wantErr: ErrUnknownQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := NewState()
			start.Locks = tt.locks
			got, err := Apply(start, tt.event)

			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			for _, q := range Quantities {
				if !near(got.Get(q), tt.want.Get(q)) {
					t.Errorf("%s: expected %g, got %g", q, tt.want.Get(q), got.Get(q))
				}
			}
			if got.Locks != tt.want.Locks {
				t.Errorf("locks: expected %s, got %s", tt.want.Locks, got.Locks)
			}
		})
	}
}

func TestApplyZeroGuard(t *testing.T) {
	s := State{Length: 10, Width: 0, Height: 0, Volume: 0}
	got, err := Apply(s, SetEvent(Volume, 500))

	if !errors.Is(err, ErrUndefinedRecomputation) {
		t.Fatalf("expected ErrUndefinedRecomputation, got %v", err)
	}
	if got.Height != 0 {
		t.Errorf("height should be retained, got %g", got.Height)
	}
	if got.Volume != 500 {
		t.Errorf("volume should be stored, got %g", got.Volume)
	}
	if !got.Finite() {
		t.Errorf("state should stay finite: %s", got)
	}
}

func TestApplyOverflowKeepsVolume(t *testing.T) {
	got, err := Apply(NewState(), SetEvent(Length, math.MaxFloat64))

	if !errors.Is(err, ErrUndefinedRecomputation) {
		t.Fatalf("expected ErrUndefinedRecomputation, got %v", err)
	}
	if got.Volume != DefaultVolume {
		t.Errorf("volume should be retained, got %g", got.Volume)
	}
	if !got.Finite() {
		t.Errorf("state should stay finite: %s", got)
	}
}

func TestToggleLockIdempotent(t *testing.T) {
	for _, q := range Quantities {
		start := State{Length: 3, Width: 4, Height: 5, Volume: 60, Locks: Locks(Width)}
		once, err := Apply(start, ToggleEvent(q))
		if err != nil {
			t.Fatalf("%s: %v", q, err)
		}
		if once.Locks == start.Locks {
			t.Errorf("%s: first toggle did not change locks", q)
		}
		twice, _ := Apply(once, ToggleEvent(q))
		if twice != start {
			t.Errorf("%s: expected %s, got %s", q, start, twice)
		}
	}
}

func TestVolumeMatchesProductUnlocked(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	orders := [][]Quantity{
		{Length, Width, Height},
		{Height, Length, Width},
		{Width, Height, Length},
	}

	for i := 0; i < 200; i++ {
		vals := map[Quantity]float64{
			Length: 1 + rng.Float64()*99,
			Width:  1 + rng.Float64()*99,
			Height: 1 + rng.Float64()*99,
		}
		s := NewState()
		for _, q := range orders[i%len(orders)] {
			var err error
			s, err = Apply(s, SetEvent(q, vals[q]))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		want := vals[Length] * vals[Width] * vals[Height]
		if !near(s.Volume, want) {
			t.Fatalf("expected volume %g, got %g", want, s.Volume)
		}
	}
}

func TestLockedVolumeHoldsProduct(t *testing.T) {
	for _, held := range []Quantity{Length, Width} {
		edited := Width
		if held == Width {
			edited = Length
		}
		s := NewState()
		s.Locks = Locks(Volume, held)
		for _, v := range []float64{1, 2.5, 7, 40, 100} {
			s, _ = Apply(s, SetEvent(edited, v))
			if !s.Consistent() {
				t.Errorf("held %s, %s=%g: inconsistent %s", held, edited, v, s)
			}
			if s.Volume != DefaultVolume {
				t.Errorf("volume moved to %g", s.Volume)
			}
		}
	}
}

func TestTarget(t *testing.T) {
	tests := []struct {
		locks LockSet
		q     Quantity
		want  Quantity
		ok    bool
	}{
		{NoLocks, Length, Volume, true},
		{NoLocks, Volume, Height, true},
		{Locks(Volume), Length, Height, true},
		{Locks(Volume), Height, Width, true},
		{Locks(Volume, Height, Width), Length, 0, false},
		{Locks(Length), Length, 0, false},
		{Locks(Height), Volume, Width, true},
	}

	for _, tt := range tests {
		got, ok := Target(tt.locks, tt.q)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("Target(%s, %s) = %s, %v; want %s, %v", tt.locks, tt.q, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		in   string
		want Event
	}{
		{"set:length=20", SetEvent(Length, 20)},
		{"w=2.5", SetEvent(Width, 2.5)},
		{"set:V=1e3", SetEvent(Volume, 1000)},
		{"lock:volume", ToggleEvent(Volume)},
		{"toggle:h", ToggleEvent(Height)},
	}
	for _, tt := range tests {
		got, err := ParseEvent(tt.in)
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.in, tt.want, got)
		}
	}

	for _, bad := range []string{"set:length", "set:depth=3", "grow:length", "set:width=abc"} {
		if _, err := ParseEvent(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestLockSetText(t *testing.T) {
	s := Locks(Volume, Length)
	if s.String() != "length+volume" {
		t.Errorf("unexpected string %q", s.String())
	}
	parsed, err := ParseLockSet(s.String())
	if err != nil || parsed != s {
		t.Errorf("round trip failed: %s, %v", parsed, err)
	}
	if none, _ := ParseLockSet("none"); none != NoLocks {
		t.Errorf("expected empty set, got %s", none)
	}
}
