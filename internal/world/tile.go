package world

// Terrain types for farm tiles.
type Terrain uint8

const (
	TerrainGrass Terrain = iota // Untouched grass, buildable without tilling
	TerrainDirt                 // Worked soil left behind by a harvest
)

// TerrainName returns a human-readable terrain name.
func TerrainName(t Terrain) string {
	switch t {
	case TerrainGrass:
		return "grass"
	case TerrainDirt:
		return "dirt"
	default:
		return "unknown"
	}
}

// Crop growth bounds.
const (
	CropNone   = 0.0   // No crop on the tile
	CropSeeded = 1.0   // Stage of a freshly planted crop
	CropMature = 100.0 // Harvestable
)

// Tile is a single cell of farmland.
type Tile struct {
	Coord     Coord   `json:"coord"`
	Terrain   Terrain `json:"terrain"`
	Tilled    bool    `json:"tilled"`
	CropStage float64 `json:"crop_stage"` // 0 (none) to 100 (mature)
	Structure bool    `json:"structure"`  // Occupied by a defensive structure
}

// HasCrop reports whether anything is planted on the tile.
func (t *Tile) HasCrop() bool {
	return t.CropStage > CropNone
}

// Mature reports whether the crop is ready to harvest.
func (t *Tile) Mature() bool {
	return t.CropStage >= CropMature
}

// Bare reports whether the tile holds neither a crop nor a structure.
func (t *Tile) Bare() bool {
	return !t.HasCrop() && !t.Structure
}

// Stage returns the crop stage as a whole number.
func (t *Tile) Stage() int {
	return int(t.CropStage)
}
