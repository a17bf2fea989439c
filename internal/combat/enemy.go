package combat

import "github.com/talgya/farmstead/internal/world"

// Enemy is a night-time attacker walking toward the farm centre.
type Enemy struct {
	ID       string    `json:"id"`
	Position world.Vec `json:"position"`
	Health   int       `json:"health"`
	Speed    float64   `json:"speed"` // World units per second
}

// Alive reports whether the enemy still has health left.
func (e *Enemy) Alive() bool {
	return e.Health > 0
}

// Structure is a passive defender standing on a tile. It damages every
// enemy within Range each tick.
type Structure struct {
	Coord         world.Coord `json:"coord"`
	Position      world.Vec   `json:"position"`
	DamagePerTick int         `json:"damage_per_tick"`
	Range         float64     `json:"range"`
}

// NewStructure builds a structure centred on a tile using the tuning in cfg.
func NewStructure(c world.Coord, cfg WaveConfig) Structure {
	return Structure{
		Coord:         c,
		Position:      c.Center(),
		DamagePerTick: cfg.StructureDamage,
		Range:         cfg.StructureRange,
	}
}

// Kill records an enemy destroyed and the wheat paid for it.
type Kill struct {
	EnemyID  string    `json:"enemy_id"`
	Position world.Vec `json:"position"`
	Payout   int       `json:"payout"`
}
