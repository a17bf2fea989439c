// Player commands. Each one validates first and then applies fully, or
// returns an error and leaves the game untouched.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/farmstead/internal/combat"
	"github.com/talgya/farmstead/internal/economy"
	"github.com/talgya/farmstead/internal/world"
)

// Reason is a stable failure code the presentation layer can show or translate.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonInvalidTransition Reason = "invalid_transition"
	ReasonInsufficientFunds Reason = "insufficient_funds"
	ReasonDuplicateTile     Reason = "duplicate_tile"
	ReasonNoSuchEnemy       Reason = "no_such_enemy"
	ReasonMaxLevelReached   Reason = "max_level_reached"
	ReasonNoSeeds           Reason = "no_seeds"
	ReasonUnknown           Reason = "unknown"
)

// ReasonOf maps a command error to its failure code.
func ReasonOf(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, world.ErrInvalidTransition):
		return ReasonInvalidTransition
	case errors.Is(err, economy.ErrInsufficientFunds):
		return ReasonInsufficientFunds
	case errors.Is(err, world.ErrDuplicateTile):
		return ReasonDuplicateTile
	case errors.Is(err, combat.ErrNoSuchEnemy):
		return ReasonNoSuchEnemy
	case errors.Is(err, economy.ErrMaxLevelReached):
		return ReasonMaxLevelReached
	case errors.Is(err, economy.ErrNoSeeds):
		return ReasonNoSeeds
	default:
		return ReasonUnknown
	}
}

// done logs a command outcome and marks the state dirty on success.
func (s *GameState) done(cmd string, err error, args ...any) error {
	if err != nil {
		slog.Debug("command rejected", append([]any{"command", cmd, "reason", ReasonOf(err), "error", err}, args...)...)
		return err
	}
	s.dirty = true
	slog.Debug("command applied", append([]any{"command", cmd}, args...)...)
	return nil
}

// Till prepares the tile at (x, z) for planting.
func (s *GameState) Till(x, z int) error {
	c := world.Coord{X: x, Z: z}
	return s.done("till", s.grid.Till(c), "tile", c)
}

// Untill turns a bare tilled tile back into untilled ground.
func (s *GameState) Untill(x, z int) error {
	c := world.Coord{X: x, Z: z}
	return s.done("untill", s.grid.Untill(c), "tile", c)
}

// Plant sows one seed on the tilled tile at (x, z).
func (s *GameState) Plant(x, z int) error {
	c := world.Coord{X: x, Z: z}
	if err := s.grid.CanPlant(c); err != nil {
		return s.done("plant", err, "tile", c)
	}
	err := s.wallet.TakeSeed(func() error {
		return s.grid.Plant(c)
	})
	return s.done("plant", err, "tile", c, "seeds", s.wallet.Seeds)
}

// Harvest collects the mature crop at (x, z) and returns the wheat earned.
func (s *GameState) Harvest(x, z int) (int, error) {
	c := world.Coord{X: x, Z: z}
	yield, err := s.grid.Harvest(c)
	if err != nil {
		return 0, s.done("harvest", err, "tile", c)
	}
	s.wallet.Credit(yield)
	s.Stats.Harvests++
	s.Stats.WheatEarned += yield
	s.record(CategoryFarm, fmt.Sprintf("harvested %d wheat at %s", yield, c))
	return yield, s.done("harvest", nil, "tile", c, "yield", yield)
}

// PlaceStructure buys a defender and stands it on the tile at (x, z).
func (s *GameState) PlaceStructure(x, z int) error {
	c := world.Coord{X: x, Z: z}
	if err := s.grid.CanPlaceStructure(c); err != nil {
		return s.done("place_structure", err, "tile", c)
	}
	err := s.wallet.Spend(s.cfg.Prices.Structure, func() error {
		if err := s.grid.PlaceStructure(c); err != nil {
			return err
		}
		s.combat.AddStructure(combat.NewStructure(c, s.cfg.Wave))
		return nil
	})
	if err == nil {
		s.record(CategoryEconomy, fmt.Sprintf("built a defender at %s", c))
	}
	return s.done("place_structure", err, "tile", c)
}

// BuySeed trades wheat for one seed.
func (s *GameState) BuySeed() error {
	return s.done("buy_seed", s.wallet.BuySeed(), "seeds", s.wallet.Seeds)
}

// BuyLand expands the farm at the next free coordinate and returns it.
func (s *GameState) BuyLand() (world.Coord, error) {
	c := s.grid.NextFree()
	if err := s.BuyLandAt(c.X, c.Z); err != nil {
		return world.Coord{}, err
	}
	return c, nil
}

// BuyLandAt expands the farm with a new tile at (x, z).
func (s *GameState) BuyLandAt(x, z int) error {
	c := world.Coord{X: x, Z: z}
	if err := s.grid.CanExpand(c); err != nil {
		return s.done("buy_land", err, "tile", c)
	}
	err := s.wallet.Spend(s.cfg.Prices.Land, func() error {
		return s.grid.Expand(c)
	})
	if err == nil {
		s.record(CategoryEconomy, fmt.Sprintf("farm expanded to %s", c))
	}
	return s.done("buy_land", err, "tile", c)
}

// UpgradeWeapon buys the next weapon tier.
func (s *GameState) UpgradeWeapon() error {
	err := s.wallet.UpgradeWeapon()
	if err == nil {
		s.record(CategoryEconomy, fmt.Sprintf("weapon upgraded to %s", economy.WeaponName(s.wallet.WeaponLevel)))
	}
	return s.done("upgrade_weapon", err, "level", s.wallet.WeaponLevel)
}

// Attack hits the enemy with the current weapon and reports whether it died.
func (s *GameState) Attack(enemyID string) (bool, error) {
	kill, killed, err := s.combat.ApplyWeaponHit(enemyID, s.wallet.WeaponDamage(), s.wallet)
	if err != nil {
		return false, s.done("attack", err, "enemy", enemyID)
	}
	if killed {
		s.Stats.Kills++
		s.Stats.WheatEarned += kill.Payout
		s.record(CategoryCombat, fmt.Sprintf("enemy slain for %d wheat", kill.Payout))
	}
	return killed, s.done("attack", nil, "enemy", enemyID, "killed", killed)
}
