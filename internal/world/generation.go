// Starting farm generation using simplex noise.
package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Generate creates the starting farm: a square of untilled tiles whose
// terrain is grass except where the noise field rises above DirtLevel.
func Generate(cfg GridConfig) *Grid {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	soil := opensimplex.NewNormalized(seed)
	g := NewGrid(cfg)

	for x := -cfg.Radius; x <= cfg.Radius; x++ {
		for z := -cfg.Radius; z <= cfg.Radius; z++ {
			terrain := TerrainGrass
			if octaveNoise(soil, float64(x), float64(z), 3, 0.15, 0.5) > cfg.DirtLevel {
				terrain = TerrainDirt
			}
			g.Set(&Tile{Coord: Coord{X: x, Z: z}, Terrain: terrain})
		}
	}

	// The centre tile is always buildable.
	g.Tiles[Coord{}].Terrain = TerrainGrass

	return g
}

// octaveNoise samples fractal noise normalized to [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// TerrainCounts returns a summary of terrain type distribution.
func TerrainCounts(tiles []Tile) map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, t := range tiles {
		counts[t.Terrain]++
	}
	return counts
}
