// Package engine provides the day/night state machine, the GameState
// aggregate, and the fixed-cadence loop that drives it.
package engine

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// TicksPerReport is how often OnReport fires (once per simulated minute at
// the default one-second interval).
const TicksPerReport = 60

// Engine drives the simulation forward at a fixed cadence. Each step feeds
// the same simulated Interval to OnTick; Speed only changes how fast steps
// happen in wall-clock time.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Simulated time per tick (default 1 second)

	// Callbacks, populated during setup. Both run on the loop goroutine.
	OnTick   func(tick uint64, dt time.Duration) // Every tick
	OnReport func(tick uint64)                   // Every TicksPerReport ticks

	running atomic.Bool

	mu    sync.Mutex
	queue []func()
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:    1.0,
		Interval: time.Second,
	}
}

// Post queues a command to run on the loop goroutine before the next tick.
// It is the only safe way for other goroutines to touch the game.
func (e *Engine) Post(fn func()) {
	e.mu.Lock()
	e.queue = append(e.queue, fn)
	e.mu.Unlock()
}

// Run starts the simulation loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.running.Store(true)
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed)

	for e.running.Load() {
		if e.Speed <= 0 {
			// Paused: still apply commands so the player can act.
			e.drain()
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Step()

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	e.drain()
	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.running.Store(false)
}

// Running reports whether Run is looping.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Step applies queued commands and then advances the simulation by one tick.
func (e *Engine) Step() {
	e.drain()

	e.Tick++

	if e.OnTick != nil {
		e.OnTick(e.Tick, e.Interval)
	}

	if e.Tick%TicksPerReport == 0 && e.OnReport != nil {
		e.OnReport(e.Tick)
	}
}

// drain runs queued commands in the order they were posted.
func (e *Engine) drain() {
	e.mu.Lock()
	queued := e.queue
	e.queue = nil
	e.mu.Unlock()

	for _, fn := range queued {
		fn()
	}
}
