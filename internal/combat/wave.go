// Package combat tracks night-time enemies and the defensive structures
// that fight them: wave spawning, movement toward the farm, passive aura
// damage, weapon hits, and kill payouts.
package combat

import (
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/talgya/farmstead/internal/world"
)

// WaveConfig holds the wave scaling laws and combat tuning. Each law is
// base + slope*night, so every one is non-decreasing in the night count
// for non-negative slopes.
type WaveConfig struct {
	BaseCount      int     // Enemies in a wave before scaling
	CountPerNight  float64 // Extra enemies per night survived
	BaseHealth     int     // Enemy health before scaling
	HealthPerNight float64 // Extra health per night
	BaseSpeed      float64 // World units per second before scaling
	SpeedPerNight  float64 // Extra speed per night
	SpawnRadius    float64 // Distance from the origin enemies appear at
	KillPayout     int     // Wheat paid per enemy destroyed

	StructureDamage int     // Damage per tick dealt by each structure
	StructureRange  float64 // Aura radius of a structure
}

// DefaultWaveConfig returns the standard tuning: 3+n enemies with 5+n
// health walking at 2+0.1n.
func DefaultWaveConfig() WaveConfig {
	return WaveConfig{
		BaseCount:       3,
		CountPerNight:   1,
		BaseHealth:      5,
		HealthPerNight:  1,
		BaseSpeed:       2,
		SpeedPerNight:   0.1,
		SpawnRadius:     20,
		KillPayout:      2,
		StructureDamage: 1,
		StructureRange:  5,
	}
}

// Size returns how many enemies spawn on the given night.
func (c WaveConfig) Size(night int) int {
	n := max(night, 0)
	return max(c.BaseCount+int(math.Floor(c.CountPerNight*float64(n))), 1)
}

// Health returns the starting health of enemies on the given night.
func (c WaveConfig) Health(night int) int {
	n := max(night, 0)
	return max(c.BaseHealth+int(math.Floor(c.HealthPerNight*float64(n))), 1)
}

// Speed returns enemy walking speed on the given night.
func (c WaveConfig) Speed(night int) float64 {
	n := max(night, 0)
	return math.Max(c.BaseSpeed+c.SpeedPerNight*float64(n), 0)
}

// Spawner creates enemies on the spawn perimeter.
type Spawner struct {
	cfg WaveConfig
	rng *rand.Rand
}

// NewSpawner creates a spawner with the given seed.
func NewSpawner(cfg WaveConfig, seed int64) *Spawner {
	return &Spawner{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed + 300)),
	}
}

// SpawnWave creates the full wave for a night at once.
func (s *Spawner) SpawnWave(night int) []*Enemy {
	count := s.cfg.Size(night)
	wave := make([]*Enemy, 0, count)
	for i := 0; i < count; i++ {
		wave = append(wave, s.spawnOne(night))
	}
	return wave
}

func (s *Spawner) spawnOne(night int) *Enemy {
	angle := s.rng.Float64() * 2 * math.Pi
	return &Enemy{
		ID: uuid.NewString(),
		Position: world.Vec{
			X: math.Cos(angle) * s.cfg.SpawnRadius,
			Z: math.Sin(angle) * s.cfg.SpawnRadius,
		},
		Health: s.cfg.Health(night),
		Speed:  s.cfg.Speed(night),
	}
}
