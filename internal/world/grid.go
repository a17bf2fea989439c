package world

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slices"
)

// Errors returned by grid commands. Callers match them with errors.Is.
var (
	ErrInvalidTransition = errors.New("invalid tile transition")
	ErrDuplicateTile     = errors.New("tile already exists")
)

// GridConfig holds farm grid parameters.
type GridConfig struct {
	Radius              int     // Initial map spans [-Radius, Radius] on both axes
	Seed                int64   // Terrain noise seed (0 = random)
	DirtLevel           float64 // Noise threshold above which a starting tile is dirt (0.0–1.0)
	GrowthRate          float64 // Crop stages gained per simulated second
	HarvestYield        int     // Wheat returned by one mature crop
	HarvestClearsTilled bool    // Whether a harvested tile must be tilled again
}

// DefaultGridConfig returns the standard 7×7 starting farm.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Radius:              3,
		Seed:                0,
		DirtLevel:           0.7,
		GrowthRate:          5,
		HarvestYield:        3,
		HarvestClearsTilled: true,
	}
}

// NextStage applies the crop growth law: a planted crop gains rate stages
// per second and is clamped at maturity. Empty tiles never grow.
func NextStage(stage, rate float64, dt time.Duration) float64 {
	if stage <= CropNone || stage >= CropMature {
		return stage
	}
	return Clamp(stage+rate*dt.Seconds(), CropNone, CropMature)
}

// Grid holds every tile of the farm.
type Grid struct {
	Tiles map[Coord]*Tile
	cfg   GridConfig
}

// NewGrid creates an empty grid.
func NewGrid(cfg GridConfig) *Grid {
	return &Grid{
		Tiles: make(map[Coord]*Tile),
		cfg:   cfg,
	}
}

// Config returns the grid parameters.
func (g *Grid) Config() GridConfig {
	return g.cfg
}

// Get returns the tile at the given coordinate, or nil if there is none.
func (g *Grid) Get(c Coord) *Tile {
	return g.Tiles[c]
}

// Set places a tile, replacing any tile at the same coordinate.
func (g *Grid) Set(t *Tile) {
	g.Tiles[t.Coord] = t
}

// TileCount returns the number of tiles on the farm.
func (g *Grid) TileCount() int {
	return len(g.Tiles)
}

// Sorted returns copies of all tiles ordered by X, then Z.
func (g *Grid) Sorted() []Tile {
	out := make([]Tile, 0, len(g.Tiles))
	for _, t := range g.Tiles {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b Tile) int {
		if a.Coord.X != b.Coord.X {
			return a.Coord.X - b.Coord.X
		}
		return a.Coord.Z - b.Coord.Z
	})
	return out
}

func (g *Grid) lookup(c Coord) (*Tile, error) {
	t := g.Tiles[c]
	if t == nil {
		return nil, fmt.Errorf("%w: no tile at %s", ErrInvalidTransition, c)
	}
	return t, nil
}

// Till prepares an untilled, empty tile for planting.
func (g *Grid) Till(c Coord) error {
	t, err := g.lookup(c)
	if err != nil {
		return err
	}
	if t.Tilled {
		return fmt.Errorf("%w: tile %s is already tilled", ErrInvalidTransition, c)
	}
	if !t.Bare() {
		return fmt.Errorf("%w: tile %s is occupied", ErrInvalidTransition, c)
	}
	t.Tilled = true
	return nil
}

// Untill returns a tilled, empty tile to untilled ground.
func (g *Grid) Untill(c Coord) error {
	t, err := g.lookup(c)
	if err != nil {
		return err
	}
	if !t.Tilled {
		return fmt.Errorf("%w: tile %s is not tilled", ErrInvalidTransition, c)
	}
	if !t.Bare() {
		return fmt.Errorf("%w: tile %s is occupied", ErrInvalidTransition, c)
	}
	t.Tilled = false
	return nil
}

// CanPlant checks that a seed could go into the tile, without changing it.
func (g *Grid) CanPlant(c Coord) error {
	t, err := g.lookup(c)
	if err != nil {
		return err
	}
	if !t.Tilled {
		return fmt.Errorf("%w: tile %s is not tilled", ErrInvalidTransition, c)
	}
	if !t.Bare() {
		return fmt.Errorf("%w: tile %s is occupied", ErrInvalidTransition, c)
	}
	return nil
}

// Plant sows a crop at its first stage. Seed accounting is the caller's job.
func (g *Grid) Plant(c Coord) error {
	if err := g.CanPlant(c); err != nil {
		return err
	}
	g.Tiles[c].CropStage = CropSeeded
	return nil
}

// Grow advances every growing crop by dt and returns how many tiles changed.
func (g *Grid) Grow(dt time.Duration) int {
	changed := 0
	for _, t := range g.Tiles {
		next := NextStage(t.CropStage, g.cfg.GrowthRate, dt)
		if next != t.CropStage {
			t.CropStage = next
			changed++
		}
	}
	return changed
}

// Harvest clears a mature crop and returns the yield.
func (g *Grid) Harvest(c Coord) (int, error) {
	t, err := g.lookup(c)
	if err != nil {
		return 0, err
	}
	if !t.HasCrop() {
		return 0, fmt.Errorf("%w: tile %s has no crop", ErrInvalidTransition, c)
	}
	if !t.Mature() {
		return 0, fmt.Errorf("%w: crop at %s is at stage %d", ErrInvalidTransition, c, t.Stage())
	}

	t.CropStage = CropNone
	if g.cfg.HarvestClearsTilled {
		t.Tilled = false
		t.Terrain = TerrainDirt
	}
	return g.cfg.HarvestYield, nil
}

// CanPlaceStructure checks the placement rule: the tile must exist, be
// tilled or grass, and hold neither a crop nor a structure.
func (g *Grid) CanPlaceStructure(c Coord) error {
	t, err := g.lookup(c)
	if err != nil {
		return err
	}
	if !t.Tilled && t.Terrain != TerrainGrass {
		return fmt.Errorf("%w: tile %s is untilled %s", ErrInvalidTransition, c, TerrainName(t.Terrain))
	}
	if !t.Bare() {
		return fmt.Errorf("%w: tile %s is occupied", ErrInvalidTransition, c)
	}
	return nil
}

// PlaceStructure marks the tile as occupied by a structure.
func (g *Grid) PlaceStructure(c Coord) error {
	if err := g.CanPlaceStructure(c); err != nil {
		return err
	}
	g.Tiles[c].Structure = true
	return nil
}

// CanExpand checks that no tile exists at c yet.
func (g *Grid) CanExpand(c Coord) error {
	if g.Tiles[c] != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateTile, c)
	}
	return nil
}

// Expand adds a fresh grass tile at c.
func (g *Grid) Expand(c Coord) error {
	if err := g.CanExpand(c); err != nil {
		return err
	}
	g.Set(&Tile{Coord: c, Terrain: TerrainGrass})
	return nil
}

// NextFree returns the first missing coordinate, scanning square rings
// outward from the origin in X-then-Z order.
func (g *Grid) NextFree() Coord {
	for r := 0; ; r++ {
		for x := -r; x <= r; x++ {
			for z := -r; z <= r; z++ {
				c := Coord{X: x, Z: z}
				if c.Ring() != r {
					continue
				}
				if g.Tiles[c] == nil {
					return c
				}
			}
		}
	}
}
