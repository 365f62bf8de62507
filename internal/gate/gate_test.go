package gate

import (
	"testing"
	"time"
)

func TestAttempt_StrictInterval(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g := New(1000 * time.Millisecond)

	cases := []struct {
		offsetMS int
		want     bool
	}{
		{0, true},
		{500, false},
		{1000, false},
		{1001, true},
		{1500, false},
		{2001, false},
		{2002, true},
	}
	for _, tc := range cases {
		got := g.Attempt(base.Add(time.Duration(tc.offsetMS) * time.Millisecond))
		if got != tc.want {
			t.Fatalf("Attempt(t=%dms)=%v want %v", tc.offsetMS, got, tc.want)
		}
	}
}

func TestAttempt_FirstCallFiresAtZeroTime(t *testing.T) {
	g := New(DefaultInterval)
	if !g.Attempt(time.Time{}) {
		t.Fatalf("first Attempt should fire")
	}
	if g.Attempt(time.Time{}) {
		t.Fatalf("second Attempt at same instant should not fire")
	}
}

func TestAttempt_IndependentGates(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	acc := New(DefaultInterval)
	ori := New(DefaultInterval)

	if !acc.Attempt(base) {
		t.Fatalf("acc first attempt should fire")
	}
	// ori has not been touched by acc firing.
	if !ori.Attempt(base.Add(10 * time.Millisecond)) {
		t.Fatalf("ori first attempt should fire")
	}
	if acc.Attempt(base.Add(20 * time.Millisecond)) {
		t.Fatalf("acc should still be cooling down")
	}
}
