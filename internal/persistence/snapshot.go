package persistence

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/talgya/farmstead/internal/combat"
	"github.com/talgya/farmstead/internal/engine"
	"github.com/talgya/farmstead/internal/world"
)

// Flat key-value fields of a snapshot.
const (
	metaTick          = "tick"
	metaPhase         = "phase"
	metaElapsedMS     = "elapsed_ms"
	metaBalance       = "balance"
	metaSeeds         = "seeds"
	metaWeaponLevel   = "weapon_level"
	metaNightCount    = "night_count"
	metaHarvests      = "stats_harvests"
	metaKills         = "stats_kills"
	metaNightsCleared = "stats_nights_cleared"
	metaWheatEarned   = "stats_wheat_earned"
)

type metaRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

type tileRow struct {
	X         int     `db:"x"`
	Z         int     `db:"z"`
	Terrain   int     `db:"terrain"`
	Tilled    int     `db:"tilled"`
	CropStage float64 `db:"crop_stage"`
	Structure int     `db:"structure"`
}

type enemyRow struct {
	Seq    int     `db:"seq"`
	ID     string  `db:"id"`
	PosX   float64 `db:"pos_x"`
	PosZ   float64 `db:"pos_z"`
	Health int     `db:"health"`
	Speed  float64 `db:"speed"`
}

type structureRow struct {
	Seq    int     `db:"seq"`
	X      int     `db:"x"`
	Z      int     `db:"z"`
	PosX   float64 `db:"pos_x"`
	PosZ   float64 `db:"pos_z"`
	Damage int     `db:"damage"`
	Reach  float64 `db:"reach"`
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SaveSnapshot replaces the stored game with snap in one transaction.
func (db *DB) SaveSnapshot(snap engine.Snapshot) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := saveTiles(tx, snap.Tiles); err != nil {
		return fmt.Errorf("save tiles: %w", err)
	}
	if err := saveEnemies(tx, snap.Enemies); err != nil {
		return fmt.Errorf("save enemies: %w", err)
	}
	if err := saveStructures(tx, snap.Structures); err != nil {
		return fmt.Errorf("save structures: %w", err)
	}

	meta := map[string]string{
		metaTick:          strconv.FormatUint(snap.Tick, 10),
		metaPhase:         strconv.Itoa(int(snap.Phase)),
		metaElapsedMS:     strconv.FormatInt(snap.Elapsed.Milliseconds(), 10),
		metaBalance:       strconv.Itoa(snap.Player.Balance),
		metaSeeds:         strconv.Itoa(snap.Player.Seeds),
		metaWeaponLevel:   strconv.Itoa(snap.Player.WeaponLevel),
		metaNightCount:    strconv.Itoa(snap.Player.NightCount),
		metaHarvests:      strconv.Itoa(snap.Stats.Harvests),
		metaKills:         strconv.Itoa(snap.Stats.Kills),
		metaNightsCleared: strconv.Itoa(snap.Stats.NightsCleared),
		metaWheatEarned:   strconv.Itoa(snap.Stats.WheatEarned),
	}
	for k, v := range meta {
		if err := saveMeta(tx, k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	return tx.Commit()
}

func saveTiles(tx *sqlx.Tx, tiles []world.Tile) error {
	if _, err := tx.Exec("DELETE FROM tiles"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(tx.Rebind(`INSERT INTO tiles
		(x, z, terrain, tilled, crop_stage, structure)
		VALUES (?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tiles {
		_, err := stmt.Exec(t.Coord.X, t.Coord.Z, int(t.Terrain),
			boolInt(t.Tilled), t.CropStage, boolInt(t.Structure))
		if err != nil {
			return fmt.Errorf("insert tile %s: %w", t.Coord, err)
		}
	}
	return nil
}

func saveEnemies(tx *sqlx.Tx, enemies []combat.Enemy) error {
	if _, err := tx.Exec("DELETE FROM enemies"); err != nil {
		return err
	}

	q := tx.Rebind(`INSERT INTO enemies (seq, id, pos_x, pos_z, health, speed)
		VALUES (?, ?, ?, ?, ?, ?)`)
	for i, e := range enemies {
		_, err := tx.Exec(q, i, e.ID, e.Position.X, e.Position.Z, e.Health, e.Speed)
		if err != nil {
			return fmt.Errorf("insert enemy %s: %w", e.ID, err)
		}
	}
	return nil
}

func saveStructures(tx *sqlx.Tx, structures []combat.Structure) error {
	if _, err := tx.Exec("DELETE FROM structures"); err != nil {
		return err
	}

	q := tx.Rebind(`INSERT INTO structures (seq, x, z, pos_x, pos_z, damage, reach)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for i, s := range structures {
		_, err := tx.Exec(q, i, s.Coord.X, s.Coord.Z, s.Position.X, s.Position.Z, s.DamagePerTick, s.Range)
		if err != nil {
			return fmt.Errorf("insert structure %s: %w", s.Coord, err)
		}
	}
	return nil
}

// LoadSnapshot reads the stored game back. Callers should check
// HasSnapshot first; an empty database yields an error.
func (db *DB) LoadSnapshot() (engine.Snapshot, error) {
	var snap engine.Snapshot

	var rows []metaRow
	if err := db.conn.Select(&rows, "SELECT key, value FROM farm_meta"); err != nil {
		return snap, fmt.Errorf("load meta: %w", err)
	}
	meta := make(map[string]string, len(rows))
	for _, r := range rows {
		meta[r.Key] = r.Value
	}

	p := metaParser{meta: meta}
	snap.Tick = p.getUint(metaTick)
	snap.Phase = engine.Phase(p.getInt(metaPhase))
	snap.Elapsed = time.Duration(p.getInt(metaElapsedMS)) * time.Millisecond
	snap.Player.Balance = p.getInt(metaBalance)
	snap.Player.Seeds = p.getInt(metaSeeds)
	snap.Player.WeaponLevel = p.getInt(metaWeaponLevel)
	snap.Player.NightCount = p.getInt(metaNightCount)
	snap.Stats.Harvests = p.optional(metaHarvests)
	snap.Stats.Kills = p.optional(metaKills)
	snap.Stats.NightsCleared = p.optional(metaNightsCleared)
	snap.Stats.WheatEarned = p.optional(metaWheatEarned)
	if p.err != nil {
		return snap, fmt.Errorf("load meta: %w", p.err)
	}

	var tiles []tileRow
	if err := db.conn.Select(&tiles, "SELECT x, z, terrain, tilled, crop_stage, structure FROM tiles ORDER BY x, z"); err != nil {
		return snap, fmt.Errorf("load tiles: %w", err)
	}
	snap.Tiles = make([]world.Tile, 0, len(tiles))
	for _, r := range tiles {
		snap.Tiles = append(snap.Tiles, world.Tile{
			Coord:     world.Coord{X: r.X, Z: r.Z},
			Terrain:   world.Terrain(r.Terrain),
			Tilled:    r.Tilled != 0,
			CropStage: r.CropStage,
			Structure: r.Structure != 0,
		})
	}

	var enemies []enemyRow
	if err := db.conn.Select(&enemies, "SELECT seq, id, pos_x, pos_z, health, speed FROM enemies ORDER BY seq"); err != nil {
		return snap, fmt.Errorf("load enemies: %w", err)
	}
	snap.Enemies = make([]combat.Enemy, 0, len(enemies))
	for _, r := range enemies {
		snap.Enemies = append(snap.Enemies, combat.Enemy{
			ID:       r.ID,
			Position: world.Vec{X: r.PosX, Z: r.PosZ},
			Health:   r.Health,
			Speed:    r.Speed,
		})
	}

	var structures []structureRow
	if err := db.conn.Select(&structures, "SELECT seq, x, z, pos_x, pos_z, damage, reach FROM structures ORDER BY seq"); err != nil {
		return snap, fmt.Errorf("load structures: %w", err)
	}
	snap.Structures = make([]combat.Structure, 0, len(structures))
	for _, r := range structures {
		snap.Structures = append(snap.Structures, combat.Structure{
			Coord:         world.Coord{X: r.X, Z: r.Z},
			Position:      world.Vec{X: r.PosX, Z: r.PosZ},
			DamagePerTick: r.Damage,
			Range:         r.Reach,
		})
	}

	return snap, nil
}

// metaParser reads typed values, keeping the first error.
type metaParser struct {
	meta map[string]string
	err  error
}

func (p *metaParser) raw(key string) (string, bool) {
	v, ok := p.meta[key]
	if !ok && p.err == nil {
		p.err = fmt.Errorf("missing key %q", key)
	}
	return v, ok
}

func (p *metaParser) getInt(key string) int {
	v, ok := p.raw(key)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("key %q: %w", key, err)
	}
	return n
}

func (p *metaParser) getUint(key string) uint64 {
	v, ok := p.raw(key)
	if !ok {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("key %q: %w", key, err)
	}
	return n
}

// optional reads keys added after the first schema; absent means zero.
func (p *metaParser) optional(key string) int {
	if _, ok := p.meta[key]; !ok {
		return 0
	}
	return p.getInt(key)
}
