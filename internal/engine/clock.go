// Day/night cycle.
package engine

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Phase is one half of the day/night cycle.
type Phase uint8

const (
	PhaseDay   Phase = iota // Growing and building
	PhaseNight              // Combat
)

// PhaseName returns a human-readable phase name.
func PhaseName(p Phase) string {
	switch p {
	case PhaseDay:
		return "day"
	case PhaseNight:
		return "night"
	default:
		return "unknown"
	}
}

func (p Phase) String() string {
	return PhaseName(p)
}

// Transition is what a clock advance did to the cycle.
type Transition uint8

const (
	NoTransition Transition = iota
	NightStarted
	NightEnded
)

func (t Transition) String() string {
	switch t {
	case NightStarted:
		return "night_started"
	case NightEnded:
		return "night_ended"
	default:
		return "none"
	}
}

// ClockConfig holds cycle parameters.
type ClockConfig struct {
	DayLength time.Duration // Simulated time from dawn to dusk
}

// DefaultClockConfig returns a one-minute day.
func DefaultClockConfig() ClockConfig {
	return ClockConfig{DayLength: 60 * time.Second}
}

// Clock drives Day → Night when the day timer expires and Night → Day once
// no enemies remain.
type Clock struct {
	Phase      Phase
	Elapsed    time.Duration // Time spent in the current day
	NightCount int           // The night being approached or fought; starts at 1

	cfg ClockConfig
}

// NewClock returns a clock at the start of the first day.
func NewClock(cfg ClockConfig) *Clock {
	return &Clock{
		Phase:      PhaseDay,
		NightCount: 1,
		cfg:        cfg,
	}
}

// Config returns the clock parameters.
func (c *Clock) Config() ClockConfig {
	return c.cfg
}

// Advance moves the cycle forward by dt. enemiesRemaining is only consulted
// at night: the night ends as soon as it reaches zero.
func (c *Clock) Advance(dt time.Duration, enemiesRemaining int) Transition {
	switch c.Phase {
	case PhaseDay:
		c.Elapsed += dt
		if c.Elapsed >= c.cfg.DayLength {
			c.Elapsed = c.cfg.DayLength
			c.Phase = PhaseNight
			return NightStarted
		}
	case PhaseNight:
		if enemiesRemaining <= 0 {
			c.Phase = PhaseDay
			c.Elapsed = 0
			c.NightCount++
			return NightEnded
		}
	}
	return NoTransition
}

// DayRemaining returns the time left before dusk; zero at night.
func (c *Clock) DayRemaining() time.Duration {
	if c.Phase == PhaseNight {
		return 0
	}
	return max(c.cfg.DayLength-c.Elapsed, 0)
}

// Describe returns a human-readable position in the cycle.
func (c *Clock) Describe() string {
	if c.Phase == PhaseNight {
		return fmt.Sprintf("%s night", humanize.Ordinal(c.NightCount))
	}
	return fmt.Sprintf("day before the %s night, %s to dusk",
		humanize.Ordinal(c.NightCount), c.DayRemaining().Round(time.Second))
}
