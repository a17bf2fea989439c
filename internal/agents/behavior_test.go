package agents

import (
	"testing"
	"time"

	"github.com/talgya/farmstead/internal/combat"
	"github.com/talgya/farmstead/internal/economy"
	"github.com/talgya/farmstead/internal/engine"
	"github.com/talgya/farmstead/internal/world"
)

func tile(x, z int, mod func(*world.Tile)) world.Tile {
	t := world.Tile{Coord: world.Coord{X: x, Z: z}}
	if mod != nil {
		mod(&t)
	}
	return t
}

func TestDecide(t *testing.T) {
	prices := economy.DefaultPrices()
	occupied := func(t *world.Tile) { t.Structure = true }

	tests := []struct {
		name string
		snap engine.Snapshot
		want ActionKind
		at   world.Coord
	}{
		{
			name: "harvest before planting",
			snap: engine.Snapshot{
				Player: engine.PlayerStats{Seeds: 3, NightCount: 1},
				Tiles: []world.Tile{
					tile(0, 0, func(t *world.Tile) { t.Tilled = true }),
					tile(0, 1, func(t *world.Tile) { t.Tilled, t.CropStage = true, world.CropMature }),
				},
			},
			want: ActionHarvest,
			at:   world.Coord{X: 0, Z: 1},
		},
		{
			name: "plant tilled ground",
			snap: engine.Snapshot{
				Player: engine.PlayerStats{Seeds: 1, NightCount: 1},
				Tiles: []world.Tile{
					tile(0, 0, nil),
					tile(0, 1, func(t *world.Tile) { t.Tilled = true }),
				},
			},
			want: ActionPlant,
			at:   world.Coord{X: 0, Z: 1},
		},
		{
			name: "till when nothing is ready",
			snap: engine.Snapshot{
				Player: engine.PlayerStats{Seeds: 1, NightCount: 1},
				Tiles:  []world.Tile{tile(0, 0, occupied), tile(1, 0, nil)},
			},
			want: ActionTill,
			at:   world.Coord{X: 1, Z: 0},
		},
		{
			name: "buy a seed",
			snap: engine.Snapshot{
				Player: engine.PlayerStats{Balance: 1, NightCount: 1},
				Tiles:  []world.Tile{tile(0, 0, nil)},
			},
			want: ActionBuySeed,
		},
		{
			name: "build a defender",
			snap: engine.Snapshot{
				Player: engine.PlayerStats{Balance: 250, NightCount: 1},
				Tiles: []world.Tile{
					tile(0, 0, func(t *world.Tile) { t.Terrain = world.TerrainDirt }),
					tile(0, 1, nil),
				},
			},
			want: ActionBuild,
			at:   world.Coord{X: 0, Z: 1},
		},
		{
			name: "upgrade once defended",
			snap: engine.Snapshot{
				Player:     engine.PlayerStats{Balance: 250, NightCount: 1},
				Tiles:      []world.Tile{tile(0, 0, occupied)},
				Structures: []combat.Structure{{Coord: world.Coord{}}},
			},
			want: ActionUpgrade,
		},
		{
			name: "buy land when full",
			snap: engine.Snapshot{
				Player:     engine.PlayerStats{Balance: 10, NightCount: 1},
				Tiles:      []world.Tile{tile(0, 0, occupied)},
				Structures: []combat.Structure{{Coord: world.Coord{}}},
			},
			want: ActionBuyLand,
		},
		{
			name: "idle when broke",
			snap: engine.Snapshot{
				Player: engine.PlayerStats{NightCount: 1},
				Tiles:  []world.Tile{tile(0, 0, nil)},
			},
			want: ActionIdle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.snap, prices)
			if got.Kind != tt.want {
				t.Fatalf("expected %s, got %s (%s)", tt.want, got.Kind, got.Detail)
			}
			if got.Tile != tt.at {
				t.Fatalf("expected tile %s, got %s", tt.at, got.Tile)
			}
		})
	}
}

func TestDecideAttacksNearestAtNight(t *testing.T) {
	snap := engine.Snapshot{
		Phase:  engine.PhaseNight,
		Player: engine.PlayerStats{NightCount: 1, Seeds: 1},
		Tiles:  []world.Tile{tile(0, 0, func(t *world.Tile) { t.Tilled = true })},
		Enemies: []combat.Enemy{
			{ID: "far", Position: world.Vec{X: 20}, Health: 5},
			{ID: "near", Position: world.Vec{X: -3, Z: 4}, Health: 5},
		},
	}
	got := Decide(snap, economy.DefaultPrices())
	if got.Kind != ActionAttack || got.EnemyID != "near" {
		t.Fatalf("expected attack on near, got %s %q", got.Kind, got.EnemyID)
	}
}

func testConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Seed = 42
	return cfg
}

func TestFarmhandGrowsWheat(t *testing.T) {
	cfg := testConfig()
	cfg.Clock.DayLength = 10 * time.Minute
	g := engine.New(cfg)
	h := NewFarmhand("Ada")

	for i := 0; i < 100; i++ {
		if _, err := h.Step(g); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if g.Player().Balance < 0 {
			t.Fatalf("negative balance at step %d", i)
		}
		g.Tick(time.Second)
	}

	if g.Stats.Harvests < 2 {
		t.Fatalf("expected at least 2 harvests, got %d", g.Stats.Harvests)
	}
	if h.Failures != 0 {
		t.Fatalf("expected no rejected actions, got %d", h.Failures)
	}
}

func TestFarmhandClearsNight(t *testing.T) {
	cfg := testConfig()
	cfg.Clock.DayLength = time.Second
	g := engine.New(cfg)
	g.Tick(time.Second)
	if g.Phase() != engine.PhaseNight || len(g.Enemies()) != 4 {
		t.Fatalf("expected first night with 4 enemies, got %s with %d", g.Phase(), len(g.Enemies()))
	}

	h := NewFarmhand("Ada")
	steps := 0
	for len(g.Enemies()) > 0 && steps < 50 {
		a, err := h.Step(g)
		if err != nil {
			t.Fatal(err)
		}
		if a.Kind != ActionAttack {
			t.Fatalf("expected attack at night, got %s", a.Kind)
		}
		steps++
	}

	// 4 enemies at 6 health, 1 damage per swing.
	if steps != 24 {
		t.Fatalf("expected 24 swings, got %d", steps)
	}
	if g.Stats.Kills != 4 || g.Player().Balance != 9 {
		t.Fatalf("expected 4 kills and balance 9, got %d and %d", g.Stats.Kills, g.Player().Balance)
	}
	if tr := g.Tick(time.Second).Transition; tr != engine.NightEnded {
		t.Fatalf("expected dawn, got %s", tr)
	}
}

func TestApplyActionUnknown(t *testing.T) {
	g := engine.New(testConfig())
	if err := ApplyAction(g, Action{Kind: ActionKind(99)}); err == nil {
		t.Fatalf("expected unknown action to fail")
	}
}
