// GameState ties together the grid, wallet, combat and clock and advances
// them once per tick.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/farmstead/internal/combat"
	"github.com/talgya/farmstead/internal/economy"
	"github.com/talgya/farmstead/internal/world"
)

// Config holds every tunable of a game.
type Config struct {
	Seed            int64 // Shared seed for terrain and spawn angles (0 = random terrain)
	StartingBalance int
	StartingSeeds   int

	Grid   world.GridConfig
	Prices economy.Prices
	Wave   combat.WaveConfig
	Clock  ClockConfig
}

// DefaultConfig returns the standard game tuning.
func DefaultConfig() Config {
	return Config{
		Seed:            0,
		StartingBalance: 1,
		StartingSeeds:   0,
		Grid:            world.DefaultGridConfig(),
		Prices:          economy.DefaultPrices(),
		Wave:            combat.DefaultWaveConfig(),
		Clock:           DefaultClockConfig(),
	}
}

func (c Config) gridConfig() world.GridConfig {
	g := c.Grid
	if g.Seed == 0 {
		g.Seed = c.Seed
	}
	return g
}

// Stats tracks lifetime totals.
type Stats struct {
	Harvests      int `json:"harvests"`
	Kills         int `json:"kills"`
	NightsCleared int `json:"nights_cleared"`
	WheatEarned   int `json:"wheat_earned"`
}

// GameState is the single authoritative aggregate of a game. All mutation
// goes through Tick and the command methods; queries return copies.
// It is not safe for concurrent use: drive it from one goroutine (see Engine).
type GameState struct {
	LastTick uint64 // Most recent tick processed
	Stats    Stats

	grid   *world.Grid
	wallet *economy.Wallet
	combat *combat.Resolver
	clock  *Clock

	events  []Event
	pending []Event
	dirty   bool

	cfg Config
}

// New creates a fresh game: generated starting farm, starting wallet, first day.
func New(cfg Config) *GameState {
	return &GameState{
		grid:   world.Generate(cfg.gridConfig()),
		wallet: economy.NewWallet(cfg.Prices, cfg.StartingBalance, cfg.StartingSeeds),
		combat: combat.NewResolver(cfg.Wave, cfg.Seed),
		clock:  NewClock(cfg.Clock),
		dirty:  true,
		cfg:    cfg,
	}
}

// Config returns the game's tuning.
func (s *GameState) Config() Config {
	return s.cfg
}

// TickReport summarizes what one tick did.
type TickReport struct {
	Tick       uint64
	Transition Transition
	Spawned    int           // Enemies created by a nightfall this tick
	Grown      int           // Tiles whose crop advanced
	Kills      []combat.Kill // Enemies destroyed by structures, in spawn order
	Payout     int           // Wheat credited for Kills
}

// Changed reports whether the tick did more than run the day timer.
func (r TickReport) Changed() bool {
	return r.Transition != NoTransition || r.Spawned > 0 || r.Grown > 0 || len(r.Kills) > 0
}

// Tick advances the game by dt: the clock resolves first (and a nightfall
// spawns its whole wave), then crops grow, then combat runs if it is night.
func (s *GameState) Tick(dt time.Duration) TickReport {
	s.LastTick++
	rep := TickReport{Tick: s.LastTick}

	rep.Transition = s.clock.Advance(dt, s.combat.Count())
	switch rep.Transition {
	case NightStarted:
		wave := s.combat.SpawnWave(s.clock.NightCount)
		rep.Spawned = len(wave)
		s.record(CategoryCycle, fmt.Sprintf("the %s night falls; %d enemies approach",
			humanize.Ordinal(s.clock.NightCount), rep.Spawned))
		slog.Info("night started",
			"tick", s.LastTick,
			"night", s.clock.NightCount,
			"enemies", rep.Spawned,
			"structures", len(s.combat.Structures()),
		)
	case NightEnded:
		s.Stats.NightsCleared++
		s.record(CategoryCycle, fmt.Sprintf("dawn breaks; %d nights survived", s.Stats.NightsCleared))
		slog.Info("night ended",
			"tick", s.LastTick,
			"next_night", s.clock.NightCount,
			"balance", humanize.Comma(int64(s.wallet.Balance)),
		)
	}

	rep.Grown = s.grid.Grow(dt)

	if s.clock.Phase == PhaseNight {
		rep.Kills = s.combat.Tick(dt, s.wallet)
		rep.Payout = combat.TotalPayout(rep.Kills)
		s.Stats.Kills += len(rep.Kills)
		s.Stats.WheatEarned += rep.Payout
		if len(rep.Kills) > 0 {
			s.record(CategoryCombat, fmt.Sprintf("defenders destroyed %d enemies for %d wheat",
				len(rep.Kills), rep.Payout))
		}
		// Enemies move every night tick.
		s.dirty = s.dirty || s.combat.Count() > 0
	}

	if rep.Changed() {
		s.dirty = true
	}
	return rep
}

// Phase returns the current phase of the cycle.
func (s *GameState) Phase() Phase {
	return s.clock.Phase
}

// NightCount returns the current night number.
func (s *GameState) NightCount() int {
	return s.clock.NightCount
}

// Describe returns a one-line human-readable status.
func (s *GameState) Describe() string {
	return fmt.Sprintf("%s: %s wheat, %d seeds, %s weapon, %d enemies",
		s.clock.Describe(),
		humanize.Comma(int64(s.wallet.Balance)),
		s.wallet.Seeds,
		economy.WeaponName(s.wallet.WeaponLevel),
		s.combat.Count(),
	)
}

// Dirty reports whether state changed since the last MarkSaved.
func (s *GameState) Dirty() bool {
	return s.dirty
}

// MarkSaved clears the dirty flag after a successful save.
func (s *GameState) MarkSaved() {
	s.dirty = false
}
