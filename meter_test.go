package caliper

import (
	"testing"
	"time"
)

func TestMeterMarkIncrementsAndForwards(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	m := NewMeter(clock)
	m.Mark(1)

	if got := m.Count(); got != 1 {
		t.Fatalf("Count() = %d, want 1", got)
	}
}

func TestMeterFreshMarkDoesNotTick(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	m := NewMeter(clock)
	m.Mark(1)

	// No time has passed, so no EWMA tick should have occurred: the rate
	// is still uninitialized (0), since tick() is what folds the
	// instantaneous rate in.
	if got := m.Rate1(); got != 0 {
		t.Fatalf("Rate1() = %v, want 0 (no tick yet)", got)
	}
}

func TestMeterTicksCatchUp(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	m := NewMeter(clock)

	clock.Advance(7 * time.Second)
	before := m.lastTick
	m.Mark(1)
	after := m.lastTick

	if !after.After(before.Add(6999 * time.Millisecond)) {
		t.Fatalf("lastTick did not advance by at least 7s: before=%v after=%v", before, after)
	}
}

func TestMeterTicksExactCount(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	m := NewMeter(clock)

	// Prime the one-minute EWMA with a known uncounted value so the
	// resulting rate reveals how many times Tick() actually ran.
	m.m1.Update(10)

	clock.Advance(14 * time.Second)
	m.Mark(0)

	// age=14, interval=5 => int(14/5) == 2 ticks.
	// First tick: rate = 10/5 = 2 (initializes). Second tick: uncounted=0,
	// instantRate=0, rate += alpha*(0-2).
	want := 2.0 + OneMinuteAlpha*(0-2.0)
	if got := m.Rate1(); got != want {
		t.Fatalf("Rate1() = %v, want %v (two ticks)", got, want)
	}
}
