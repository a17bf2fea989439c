// Package agents provides the farmhand autopilot: a rule-based player that
// looks at the farm once per tick and issues one command.
package agents

import (
	"github.com/talgya/farmstead/internal/engine"
	"github.com/talgya/farmstead/internal/world"
)

// ActionKind enumerates the commands a farmhand can issue.
type ActionKind uint8

const (
	ActionIdle    ActionKind = iota
	ActionAttack                    // Swing the weapon at an enemy
	ActionHarvest                   // Collect a mature crop
	ActionPlant                     // Sow a seed on tilled ground
	ActionTill                      // Prepare bare ground
	ActionBuySeed                   // Trade wheat for a seed
	ActionBuild                     // Buy and place a defender
	ActionUpgrade                   // Buy the next weapon tier
	ActionBuyLand                   // Expand the farm
)

var actionNames = [...]string{"idle", "attack", "harvest", "plant", "till", "buy_seed", "build", "upgrade", "buy_land"}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return "unknown"
}

// Action is what a farmhand decided to do this tick.
type Action struct {
	Kind    ActionKind
	Tile    world.Coord // Target tile for farm and build actions
	EnemyID string      // Target of an attack
	Detail  string      // Human-readable description for the log
}

// Farm is the command and query surface a farmhand plays through.
// *engine.GameState satisfies it.
type Farm interface {
	Snapshot() engine.Snapshot
	Config() engine.Config

	Till(x, z int) error
	Plant(x, z int) error
	Harvest(x, z int) (int, error)
	PlaceStructure(x, z int) error
	BuySeed() error
	BuyLand() (world.Coord, error)
	UpgradeWeapon() error
	Attack(enemyID string) (bool, error)
}
