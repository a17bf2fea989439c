// Command farmsim runs the farm simulation headless, autosaving as it goes.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/farmstead/internal/agents"
	"github.com/talgya/farmstead/internal/engine"
	"github.com/talgya/farmstead/internal/persistence"
	"github.com/talgya/farmstead/internal/world"
)

func main() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(envOrDefault("FARMSIM_LOG_LEVEL", "info"))); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	driver := envOrDefault("FARMSIM_DB_DRIVER", persistence.DriverSQLite)
	dsn := envOrDefault("FARMSIM_DB", "data/farmstead.db")

	cfg := engine.DefaultConfig()
	cfg.Seed = int64(envIntOrDefault("FARMSIM_SEED", 42))
	cfg.Clock.DayLength = time.Duration(envIntOrDefault("FARMSIM_DAY_SECONDS", 60)) * time.Second
	speed := envFloatOrDefault("FARMSIM_SPEED", 1)
	autopilot := envOrDefault("FARMSIM_AUTOPILOT", "1") != "0"

	// ── Database ──────────────────────────────────────────────────────
	if driver == persistence.DriverSQLite {
		os.MkdirAll(filepath.Dir(dsn), 0755)
	}
	db, err := persistence.Open(driver, dsn)
	if err != nil {
		slog.Error("failed to open database", "driver", driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "driver", driver)

	// ── Load or Start Fresh ───────────────────────────────────────────
	state, err := loadOrNew(db, cfg)
	if err != nil {
		slog.Error("failed to load saved game", "error", err)
		os.Exit(1)
	}

	for t, c := range world.TerrainCounts(state.Snapshot().Tiles) {
		slog.Info("terrain", "type", world.TerrainName(t), "count", c)
	}

	if state.Dirty() {
		if err := db.SaveGame(state); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	// ── Engine ────────────────────────────────────────────────────────
	eng := engine.NewEngine()
	eng.Tick = state.LastTick
	eng.Speed = speed

	hand := agents.NewFarmhand("farmhand")

	eng.OnTick = func(tick uint64, dt time.Duration) {
		state.Tick(dt)
		if autopilot {
			eng.Post(func() { hand.Step(state) })
		}
		if state.Dirty() {
			if err := db.SaveGame(state); err != nil {
				slog.Error("autosave failed", "tick", tick, "error", err)
			}
		}
	}
	eng.OnReport = func(tick uint64) {
		p := state.Player()
		slog.Info("farm status",
			"tick", tick,
			"status", state.Describe(),
			"balance", humanize.Comma(int64(p.Balance)),
			"harvests", state.Stats.Harvests,
			"kills", state.Stats.Kills,
			"nights_cleared", state.Stats.NightsCleared,
			"farmhand_actions", hand.Actions,
		)
	}

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\nFarmstead is open: %s.\n", state.Describe())
	if state.LastTick > 0 {
		fmt.Printf("Resuming from tick %s\n", humanize.Comma(int64(state.LastTick)))
	}
	if !autopilot {
		fmt.Println("Autopilot disabled; the farm will only grow and defend itself.")
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	// Final save on shutdown.
	slog.Info("final save...")
	if err := db.SaveGame(state); err != nil {
		slog.Error("final save failed", "error", err)
	}

	fmt.Println("Simulation stopped. Farm saved.")
}

// loadOrNew restores the saved game, or creates a fresh one when the
// database holds none.
func loadOrNew(db *persistence.DB, cfg engine.Config) (*engine.GameState, error) {
	ok, err := db.HasSnapshot()
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.Info("no saved game found, starting a new farm", "seed", cfg.Seed)
		return engine.New(cfg), nil
	}

	snap, err := db.LoadSnapshot()
	if err != nil {
		return nil, err
	}
	state, err := engine.Restore(cfg, snap)
	if err != nil {
		return nil, err
	}
	if events, err := db.RecentEvents(5); err == nil {
		for i := len(events) - 1; i >= 0; i-- {
			slog.Info("recent event", "tick", events[i].Tick, "event", events[i].Description)
		}
	}
	slog.Info("saved game restored",
		"tick", snap.Tick,
		"tiles", len(snap.Tiles),
		"enemies", len(snap.Enemies),
		"structures", len(snap.Structures),
	)
	return state, nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envFloatOrDefault(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
