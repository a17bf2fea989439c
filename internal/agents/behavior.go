// Farmhand behavior: a priority list evaluated top-down every tick.
// Defense comes first at night, then the crop cycle, then spending.
package agents

import (
	"fmt"

	"github.com/talgya/farmstead/internal/economy"
	"github.com/talgya/farmstead/internal/engine"
	"github.com/talgya/farmstead/internal/world"
)

// Decide picks the single most urgent action for the farm as it stands.
// It never mutates snap.
func Decide(snap engine.Snapshot, prices economy.Prices) Action {
	if snap.Phase == engine.PhaseNight && len(snap.Enemies) > 0 {
		return decideDefense(snap)
	}
	if a, ok := decideCrops(snap); ok {
		return a
	}
	return decideSpending(snap, prices)
}

// decideDefense targets the enemy closest to the farm centre.
func decideDefense(snap engine.Snapshot) Action {
	target := snap.Enemies[0]
	best := target.Position.Len()
	for _, e := range snap.Enemies[1:] {
		if d := e.Position.Len(); d < best {
			target, best = e, d
		}
	}
	return Action{
		Kind:    ActionAttack,
		EnemyID: target.ID,
		Detail:  fmt.Sprintf("attacks enemy %s (%d hp, %.1f away)", target.ID, target.Health, best),
	}
}

func decideCrops(snap engine.Snapshot) (Action, bool) {
	if t := firstTile(snap.Tiles, func(t *world.Tile) bool { return t.Mature() }); t != nil {
		return Action{Kind: ActionHarvest, Tile: t.Coord, Detail: "harvests wheat at " + t.Coord.String()}, true
	}
	if snap.Player.Seeds == 0 {
		return Action{}, false
	}
	if t := firstTile(snap.Tiles, plantable); t != nil {
		return Action{Kind: ActionPlant, Tile: t.Coord, Detail: "plants a seed at " + t.Coord.String()}, true
	}
	if t := firstTile(snap.Tiles, tillable); t != nil {
		return Action{Kind: ActionTill, Tile: t.Coord, Detail: "tills " + t.Coord.String()}, true
	}
	return Action{}, false
}

func decideSpending(snap engine.Snapshot, prices economy.Prices) Action {
	p := snap.Player

	// One defender per night reached.
	if len(snap.Structures) < p.NightCount && p.Balance >= prices.Structure {
		if t := firstTile(snap.Tiles, buildable); t != nil {
			return Action{Kind: ActionBuild, Tile: t.Coord, Detail: "builds a defender at " + t.Coord.String()}
		}
	}

	if p.WeaponLevel < economy.MaxWeaponLevel && p.Balance >= prices.WeaponUpgrade {
		return Action{Kind: ActionUpgrade, Detail: "upgrades to " + economy.WeaponName(p.WeaponLevel+1)}
	}

	free := firstTile(snap.Tiles, func(t *world.Tile) bool { return t.Bare() })
	if p.Seeds == 0 && p.Balance >= prices.Seed && free != nil {
		return Action{Kind: ActionBuySeed, Detail: "buys a seed"}
	}
	if free == nil && p.Balance >= prices.Land {
		return Action{Kind: ActionBuyLand, Detail: "buys more land"}
	}

	return Action{Kind: ActionIdle, Detail: "waits for the crops"}
}

func plantable(t *world.Tile) bool {
	return t.Tilled && t.Bare()
}

func tillable(t *world.Tile) bool {
	return !t.Tilled && t.Bare()
}

// buildable matches tiles a defender may stand on.
func buildable(t *world.Tile) bool {
	return t.Bare() && (t.Tilled || t.Terrain == world.TerrainGrass)
}

// firstTile returns the first tile in snapshot order matching pred.
func firstTile(tiles []world.Tile, pred func(*world.Tile) bool) *world.Tile {
	for i := range tiles {
		if pred(&tiles[i]) {
			return &tiles[i]
		}
	}
	return nil
}
