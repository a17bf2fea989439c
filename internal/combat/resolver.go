package combat

import (
	"errors"
	"fmt"
	"time"

	"github.com/talgya/farmstead/internal/world"
)

// ErrNoSuchEnemy is returned when a hit targets an unknown enemy id.
var ErrNoSuchEnemy = errors.New("no such enemy")

// Payer receives kill payouts. The player's wallet satisfies it.
type Payer interface {
	Credit(amount int)
}

// Resolver owns the live enemies and placed structures.
// Enemies are kept in spawn order so removals and payouts are deterministic.
type Resolver struct {
	cfg        WaveConfig
	spawner    *Spawner
	enemies    []*Enemy
	index      map[string]*Enemy
	structures []Structure
}

// NewResolver creates an empty resolver.
func NewResolver(cfg WaveConfig, seed int64) *Resolver {
	return &Resolver{
		cfg:     cfg,
		spawner: NewSpawner(cfg, seed),
		index:   make(map[string]*Enemy),
	}
}

// Config returns the combat tuning.
func (r *Resolver) Config() WaveConfig {
	return r.cfg
}

// SpawnWave adds the whole wave for a night and returns copies of the new enemies.
func (r *Resolver) SpawnWave(night int) []Enemy {
	wave := r.spawner.SpawnWave(night)
	out := make([]Enemy, 0, len(wave))
	for _, e := range wave {
		r.add(e)
		out = append(out, *e)
	}
	return out
}

// AddEnemy inserts an existing enemy, as when restoring a saved game.
func (r *Resolver) AddEnemy(e Enemy) error {
	if _, ok := r.index[e.ID]; ok {
		return fmt.Errorf("duplicate enemy %s", e.ID)
	}
	if !e.Alive() {
		return fmt.Errorf("enemy %s has no health", e.ID)
	}
	r.add(&e)
	return nil
}

func (r *Resolver) add(e *Enemy) {
	r.enemies = append(r.enemies, e)
	r.index[e.ID] = e
}

// AddStructure places a defender.
func (r *Resolver) AddStructure(s Structure) {
	r.structures = append(r.structures, s)
}

// Count returns the number of live enemies.
func (r *Resolver) Count() int {
	return len(r.enemies)
}

// Enemy returns a copy of the enemy with the given id.
func (r *Resolver) Enemy(id string) (Enemy, bool) {
	e, ok := r.index[id]
	if !ok {
		return Enemy{}, false
	}
	return *e, true
}

// Enemies returns copies of the live enemies in spawn order.
func (r *Resolver) Enemies() []Enemy {
	out := make([]Enemy, len(r.enemies))
	for i, e := range r.enemies {
		out[i] = *e
	}
	return out
}

// Structures returns copies of the placed structures in placement order.
func (r *Resolver) Structures() []Structure {
	out := make([]Structure, len(r.structures))
	copy(out, r.structures)
	return out
}

// Tick moves every enemy toward the origin, applies structure auras, then
// removes the dead and pays for each one.
func (r *Resolver) Tick(dt time.Duration, payer Payer) []Kill {
	secs := dt.Seconds()
	for _, e := range r.enemies {
		e.Position = world.MoveToward(e.Position, world.Origin, e.Speed*secs)
	}

	for _, s := range r.structures {
		for _, e := range r.enemies {
			if world.WithinRange(s.Position, e.Position, s.Range) {
				e.Health -= s.DamagePerTick
			}
		}
	}

	return r.sweep(payer)
}

// ApplyWeaponHit deals damage to one enemy. The bool reports whether the
// hit killed it.
func (r *Resolver) ApplyWeaponHit(id string, damage int, payer Payer) (Kill, bool, error) {
	e, ok := r.index[id]
	if !ok {
		return Kill{}, false, fmt.Errorf("%w: %s", ErrNoSuchEnemy, id)
	}
	e.Health -= max(damage, 0)
	if e.Alive() {
		return Kill{}, false, nil
	}
	kills := r.sweep(payer)
	return kills[0], true, nil
}

// sweep drops dead enemies in spawn order, crediting each payout.
func (r *Resolver) sweep(payer Payer) []Kill {
	var kills []Kill
	alive := r.enemies[:0]
	for _, e := range r.enemies {
		if e.Alive() {
			alive = append(alive, e)
			continue
		}
		delete(r.index, e.ID)
		kills = append(kills, Kill{EnemyID: e.ID, Position: e.Position, Payout: r.cfg.KillPayout})
		if payer != nil {
			payer.Credit(r.cfg.KillPayout)
		}
	}
	clear(r.enemies[len(alive):])
	r.enemies = alive
	return kills
}

// TotalPayout sums the payouts of a batch of kills.
func TotalPayout(kills []Kill) int {
	total := 0
	for _, k := range kills {
		total += k.Payout
	}
	return total
}
