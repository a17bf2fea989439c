package agents

import (
	"fmt"
	"log/slog"
)

// Farmhand plays the farm on the player's behalf.
type Farmhand struct {
	Name     string
	Actions  uint64 // Commands applied
	Failures uint64 // Commands the farm rejected
	Last     Action
}

// NewFarmhand creates a named farmhand.
func NewFarmhand(name string) *Farmhand {
	return &Farmhand{Name: name}
}

// Step decides one action for the farm and applies it.
func (h *Farmhand) Step(f Farm) (Action, error) {
	a := Decide(f.Snapshot(), f.Config().Prices)
	h.Last = a
	if a.Kind == ActionIdle {
		return a, nil
	}

	if err := ApplyAction(f, a); err != nil {
		h.Failures++
		slog.Warn("farmhand action rejected", "farmhand", h.Name, "action", a.Kind, "error", err)
		return a, err
	}
	h.Actions++
	slog.Debug("farmhand acted", "farmhand", h.Name, "action", a.Kind, "detail", a.Detail)
	return a, nil
}

// ApplyAction issues the command an action stands for.
func ApplyAction(f Farm, a Action) error {
	x, z := a.Tile.X, a.Tile.Z
	switch a.Kind {
	case ActionIdle:
		return nil
	case ActionAttack:
		_, err := f.Attack(a.EnemyID)
		return err
	case ActionHarvest:
		_, err := f.Harvest(x, z)
		return err
	case ActionPlant:
		return f.Plant(x, z)
	case ActionTill:
		return f.Till(x, z)
	case ActionBuySeed:
		return f.BuySeed()
	case ActionBuild:
		return f.PlaceStructure(x, z)
	case ActionUpgrade:
		return f.UpgradeWeapon()
	case ActionBuyLand:
		_, err := f.BuyLand()
		return err
	default:
		return fmt.Errorf("unknown action %d", a.Kind)
	}
}
