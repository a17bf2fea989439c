// Read-only views of the game and restoring a game from one.
package engine

import (
	"fmt"
	"time"

	"github.com/talgya/farmstead/internal/combat"
	"github.com/talgya/farmstead/internal/economy"
	"github.com/talgya/farmstead/internal/world"
)

// PlayerStats is the player-facing summary.
type PlayerStats struct {
	Balance      int    `json:"balance"`
	Seeds        int    `json:"seeds"`
	WeaponLevel  int    `json:"weapon_level"`
	WeaponName   string `json:"weapon_name"`
	WeaponDamage int    `json:"weapon_damage"`
	NightCount   int    `json:"night_count"`
}

// Snapshot is a complete, self-contained copy of a game. Nothing in it
// aliases live state.
type Snapshot struct {
	Tick         uint64        `json:"tick"`
	Phase        Phase         `json:"phase"`
	Elapsed      time.Duration `json:"elapsed"`       // Time spent in the current day
	DayRemaining time.Duration `json:"day_remaining"` // Time left before dusk
	Player       PlayerStats   `json:"player"`
	Stats        Stats         `json:"stats"`

	Tiles      []world.Tile       `json:"tiles"`      // Ordered by X, then Z
	Enemies    []combat.Enemy     `json:"enemies"`    // Spawn order
	Structures []combat.Structure `json:"structures"` // Placement order
}

// Player returns the player-facing summary.
func (s *GameState) Player() PlayerStats {
	return PlayerStats{
		Balance:      s.wallet.Balance,
		Seeds:        s.wallet.Seeds,
		WeaponLevel:  s.wallet.WeaponLevel,
		WeaponName:   economy.WeaponName(s.wallet.WeaponLevel),
		WeaponDamage: s.wallet.WeaponDamage(),
		NightCount:   s.clock.NightCount,
	}
}

// Tile returns a copy of the tile at (x, z).
func (s *GameState) Tile(x, z int) (world.Tile, bool) {
	t := s.grid.Get(world.Coord{X: x, Z: z})
	if t == nil {
		return world.Tile{}, false
	}
	return *t, true
}

// Enemies returns copies of the live enemies in spawn order.
func (s *GameState) Enemies() []combat.Enemy {
	return s.combat.Enemies()
}

// Snapshot copies the whole game. Commands and ticks run to completion
// before returning, so a snapshot is never taken mid-mutation.
func (s *GameState) Snapshot() Snapshot {
	return Snapshot{
		Tick:         s.LastTick,
		Phase:        s.clock.Phase,
		Elapsed:      s.clock.Elapsed,
		DayRemaining: s.clock.DayRemaining(),
		Player:       s.Player(),
		Stats:        s.Stats,
		Tiles:        s.grid.Sorted(),
		Enemies:      s.combat.Enemies(),
		Structures:   s.combat.Structures(),
	}
}

// Restore rebuilds a game from a snapshot, rejecting snapshots that break
// the tile and wallet invariants.
func Restore(cfg Config, snap Snapshot) (*GameState, error) {
	p := snap.Player
	if p.Balance < 0 || p.Seeds < 0 {
		return nil, fmt.Errorf("restore: negative wallet (balance %d, seeds %d)", p.Balance, p.Seeds)
	}
	if p.WeaponLevel < 0 || p.WeaponLevel > economy.MaxWeaponLevel {
		return nil, fmt.Errorf("restore: weapon level %d out of range", p.WeaponLevel)
	}
	if p.NightCount < 1 {
		return nil, fmt.Errorf("restore: night count %d", p.NightCount)
	}
	if snap.Phase != PhaseDay && snap.Phase != PhaseNight {
		return nil, fmt.Errorf("restore: unknown phase %d", snap.Phase)
	}

	grid := world.NewGrid(cfg.gridConfig())
	for _, t := range snap.Tiles {
		if grid.Get(t.Coord) != nil {
			return nil, fmt.Errorf("restore: duplicate tile %s", t.Coord)
		}
		if t.CropStage < world.CropNone || t.CropStage > world.CropMature {
			return nil, fmt.Errorf("restore: tile %s crop stage %f", t.Coord, t.CropStage)
		}
		if t.HasCrop() && (!t.Tilled || t.Structure) {
			return nil, fmt.Errorf("restore: tile %s holds a crop it cannot", t.Coord)
		}
		tile := t
		grid.Set(&tile)
	}

	occupied := 0
	for _, t := range grid.Tiles {
		if t.Structure {
			occupied++
		}
	}
	if occupied != len(snap.Structures) {
		return nil, fmt.Errorf("restore: %d occupied tiles for %d structures", occupied, len(snap.Structures))
	}

	res := combat.NewResolver(cfg.Wave, cfg.Seed)
	placed := make(map[world.Coord]bool, len(snap.Structures))
	for _, st := range snap.Structures {
		tile := grid.Get(st.Coord)
		if tile == nil || !tile.Structure || placed[st.Coord] {
			return nil, fmt.Errorf("restore: structure at %s has no tile", st.Coord)
		}
		placed[st.Coord] = true
		res.AddStructure(st)
	}
	for _, e := range snap.Enemies {
		if err := res.AddEnemy(e); err != nil {
			return nil, fmt.Errorf("restore: %w", err)
		}
	}

	wallet := economy.NewWallet(cfg.Prices, p.Balance, p.Seeds)
	wallet.WeaponLevel = p.WeaponLevel

	clock := NewClock(cfg.Clock)
	clock.Phase = snap.Phase
	clock.NightCount = p.NightCount
	clock.Elapsed = world.Clamp(snap.Elapsed, 0, cfg.Clock.DayLength)

	return &GameState{
		LastTick: snap.Tick,
		Stats:    snap.Stats,
		grid:     grid,
		wallet:   wallet,
		combat:   res,
		clock:    clock,
		cfg:      cfg,
	}, nil
}
