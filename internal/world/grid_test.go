package world

import (
	"errors"
	"testing"
	"time"
)

func testGrid() *Grid {
	cfg := DefaultGridConfig()
	cfg.Seed = 42
	return Generate(cfg)
}

func TestGenerateSquareMap(t *testing.T) {
	g := testGrid()
	if g.TileCount() != 49 {
		t.Fatalf("expected 49 tiles, got %d", g.TileCount())
	}
	for c, tile := range g.Tiles {
		if tile.Tilled || tile.HasCrop() || tile.Structure {
			t.Fatalf("expected fresh tile at %s, got %+v", c, tile)
		}
	}
	if g.Get(Coord{}).Terrain != TerrainGrass {
		t.Fatalf("expected grass at the centre")
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	a, b := testGrid(), testGrid()
	for c, tile := range a.Tiles {
		if b.Get(c).Terrain != tile.Terrain {
			t.Fatalf("terrain differs at %s", c)
		}
	}
}

func TestTerrainCounts(t *testing.T) {
	counts := TerrainCounts(testGrid().Sorted())
	if counts[TerrainGrass]+counts[TerrainDirt] != 49 {
		t.Fatalf("expected 49 tiles counted, got %v", counts)
	}
	if counts[TerrainGrass] == 0 {
		t.Fatalf("expected some grass, got %v", counts)
	}
}

func TestTillTwiceFails(t *testing.T) {
	g := testGrid()
	c := Coord{X: 0, Z: 0}
	if err := g.Till(c); err != nil {
		t.Fatalf("first till: %v", err)
	}
	err := g.Till(c)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if !g.Get(c).Tilled {
		t.Fatalf("expected tile to stay tilled")
	}
}

func TestTillMissingTile(t *testing.T) {
	g := testGrid()
	if err := g.Till(Coord{X: 50, Z: 50}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestPlantRequiresTilledBareTile(t *testing.T) {
	g := testGrid()
	c := Coord{X: 1, Z: 1}

	if err := g.Plant(c); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected planting untilled tile to fail, got %v", err)
	}
	if err := g.Till(c); err != nil {
		t.Fatal(err)
	}
	if err := g.Plant(c); err != nil {
		t.Fatalf("plant: %v", err)
	}
	if g.Get(c).Stage() != 1 {
		t.Fatalf("expected stage 1, got %d", g.Get(c).Stage())
	}
	if err := g.Plant(c); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected double plant to fail, got %v", err)
	}
}

func TestGrowthClampedAtMature(t *testing.T) {
	g := testGrid()
	c := Coord{}
	g.Till(c)
	g.Plant(c)

	for i := 0; i < 1000; i++ {
		g.Grow(time.Second)
		stage := g.Get(c).CropStage
		if stage < CropNone || stage > CropMature {
			t.Fatalf("stage out of range: %f", stage)
		}
	}
	if !g.Get(c).Mature() {
		t.Fatalf("expected crop to mature")
	}
	if g.Grow(time.Second) != 0 {
		t.Fatalf("expected mature crop to stop changing")
	}
}

func TestNextStage(t *testing.T) {
	tests := []struct {
		name  string
		stage float64
		rate  float64
		dt    time.Duration
		want  float64
	}{
		{"empty stays empty", CropNone, 5, time.Second, CropNone},
		{"seeded grows", CropSeeded, 5, time.Second, 6},
		{"half second", 10, 4, 500 * time.Millisecond, 12},
		{"clamped", 98, 5, time.Second, CropMature},
		{"mature stays", CropMature, 5, time.Second, CropMature},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextStage(tc.stage, tc.rate, tc.dt); got != tc.want {
				t.Fatalf("expected %f, got %f", tc.want, got)
			}
		})
	}
}

func TestHarvestOnlyWhenMature(t *testing.T) {
	g := testGrid()
	c := Coord{}
	g.Till(c)
	g.Plant(c)

	if _, err := g.Harvest(c); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected unripe harvest to fail, got %v", err)
	}

	g.Get(c).CropStage = 99.9
	if _, err := g.Harvest(c); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected harvest at 99.9 to fail, got %v", err)
	}

	g.Get(c).CropStage = CropMature
	yield, err := g.Harvest(c)
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if yield != 3 {
		t.Fatalf("expected yield 3, got %d", yield)
	}
	tile := g.Get(c)
	if tile.HasCrop() || tile.Tilled {
		t.Fatalf("expected cleared untilled tile, got %+v", tile)
	}
	if tile.Terrain != TerrainDirt {
		t.Fatalf("expected dirt after harvest, got %s", TerrainName(tile.Terrain))
	}
}

func TestHarvestKeepsTilledWhenConfigured(t *testing.T) {
	cfg := DefaultGridConfig()
	cfg.Seed = 7
	cfg.HarvestClearsTilled = false
	g := Generate(cfg)
	c := Coord{}
	g.Till(c)
	g.Plant(c)
	g.Get(c).CropStage = CropMature

	if _, err := g.Harvest(c); err != nil {
		t.Fatal(err)
	}
	if !g.Get(c).Tilled {
		t.Fatalf("expected tile to stay tilled")
	}
}

func TestPlaceStructureRules(t *testing.T) {
	g := testGrid()
	c := Coord{X: -1, Z: 0}
	g.Get(c).Terrain = TerrainDirt

	if err := g.PlaceStructure(c); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected untilled dirt to reject structure, got %v", err)
	}
	g.Till(c)
	if err := g.PlaceStructure(c); err != nil {
		t.Fatalf("expected tilled dirt to accept structure, got %v", err)
	}
	if err := g.PlaceStructure(c); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected second structure to fail, got %v", err)
	}
	if err := g.Plant(c); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected planting under a structure to fail, got %v", err)
	}
	if err := g.Untill(c); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected untilling under a structure to fail, got %v", err)
	}

	crop := Coord{X: 2, Z: 2}
	g.Till(crop)
	g.Plant(crop)
	if err := g.PlaceStructure(crop); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected crop tile to reject structure, got %v", err)
	}
}

func TestExpand(t *testing.T) {
	g := testGrid()
	if err := g.Expand(Coord{X: 0, Z: 0}); !errors.Is(err, ErrDuplicateTile) {
		t.Fatalf("expected ErrDuplicateTile, got %v", err)
	}
	next := g.NextFree()
	if next.Ring() != 4 {
		t.Fatalf("expected next free tile on ring 4, got %s", next)
	}
	if next != (Coord{X: -4, Z: -4}) {
		t.Fatalf("expected (-4,-4), got %s", next)
	}
	if err := g.Expand(next); err != nil {
		t.Fatal(err)
	}
	if g.TileCount() != 50 {
		t.Fatalf("expected 50 tiles, got %d", g.TileCount())
	}
	if g.NextFree() == next {
		t.Fatalf("expected NextFree to move on")
	}
}

func TestSortedIsOrdered(t *testing.T) {
	tiles := testGrid().Sorted()
	for i := 1; i < len(tiles); i++ {
		a, b := tiles[i-1].Coord, tiles[i].Coord
		if a.X > b.X || (a.X == b.X && a.Z >= b.Z) {
			t.Fatalf("tiles out of order at %d: %s then %s", i, a, b)
		}
	}
}

func TestWithinRange(t *testing.T) {
	a := Vec{X: 0, Z: 0}
	if !WithinRange(a, Vec{X: 3, Z: 4}, 5) {
		t.Fatalf("expected distance 5 to be within range 5")
	}
	if WithinRange(a, Vec{X: 3, Z: 4.01}, 5) {
		t.Fatalf("expected distance > 5 to be out of range")
	}
}

func TestMoveToward(t *testing.T) {
	p := MoveToward(Vec{X: 10, Z: 0}, Origin, 4)
	if p != (Vec{X: 6, Z: 0}) {
		t.Fatalf("expected (6,0), got %+v", p)
	}
	p = MoveToward(Vec{X: 1, Z: 0}, Origin, 4)
	if p != Origin {
		t.Fatalf("expected overshoot to stop at origin, got %+v", p)
	}
}
