package engine

import (
	"testing"
	"time"
)

func TestClockDayToNight(t *testing.T) {
	c := NewClock(ClockConfig{DayLength: 3 * time.Second})
	if c.Phase != PhaseDay || c.NightCount != 1 {
		t.Fatalf("expected first day, got %s night %d", c.Phase, c.NightCount)
	}

	for i := 0; i < 2; i++ {
		if tr := c.Advance(time.Second, 0); tr != NoTransition {
			t.Fatalf("tick %d: unexpected %s", i, tr)
		}
	}
	if c.DayRemaining() != time.Second {
		t.Fatalf("expected 1s to dusk, got %s", c.DayRemaining())
	}
	if tr := c.Advance(time.Second, 0); tr != NightStarted {
		t.Fatalf("expected NightStarted, got %s", tr)
	}
	if c.Phase != PhaseNight || c.DayRemaining() != 0 {
		t.Fatalf("expected night with no day left, got %s %s", c.Phase, c.DayRemaining())
	}
}

func TestClockNightWaitsForEnemies(t *testing.T) {
	c := NewClock(ClockConfig{DayLength: time.Second})
	c.Advance(time.Second, 0)

	for i := 0; i < 5; i++ {
		if tr := c.Advance(time.Second, 3); tr != NoTransition {
			t.Fatalf("night ended with enemies alive: %s", tr)
		}
	}
	if tr := c.Advance(time.Second, 0); tr != NightEnded {
		t.Fatalf("expected NightEnded, got %s", tr)
	}
	if c.Phase != PhaseDay || c.NightCount != 2 {
		t.Fatalf("expected day before night 2, got %s night %d", c.Phase, c.NightCount)
	}
	if c.DayRemaining() != time.Second {
		t.Fatalf("expected day timer reset, got %s", c.DayRemaining())
	}
}

func TestClockDayIgnoresEnemyCount(t *testing.T) {
	c := NewClock(ClockConfig{DayLength: 10 * time.Second})
	if tr := c.Advance(time.Second, 0); tr != NoTransition {
		t.Fatalf("day ended early: %s", tr)
	}
}

func TestClockDescribe(t *testing.T) {
	c := NewClock(ClockConfig{DayLength: 60 * time.Second})
	c.Advance(15*time.Second, 0)
	if got := c.Describe(); got != "day before the 1st night, 45s to dusk" {
		t.Fatalf("unexpected description %q", got)
	}
	c.Advance(time.Minute, 0)
	if got := c.Describe(); got != "1st night" {
		t.Fatalf("unexpected description %q", got)
	}
}
