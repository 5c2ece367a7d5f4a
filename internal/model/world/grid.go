package world

// GridSize is the fixed edge length of the level canvas.
const GridSize = 16

// Tile identifiers of the palette.
const (
	TileEmpty = "empty"
	TileWall  = "wall"
	TileGrass = "grass"
	TileWater = "water"
	TileLava  = "lava"
	TileGoal  = "goal"
)

// Palette 图块调色板，顺序与前端展示一致。
var Palette = []string{TileEmpty, TileWall, TileGrass, TileWater, TileLava, TileGoal}

// Grid is the 16x16 level canvas.
type Grid [][]string

// NewGrid returns an all-empty canvas.
func NewGrid() Grid {
	g := make(Grid, GridSize)
	for r := range g {
		row := make([]string, GridSize)
		for c := range row {
			row[c] = TileEmpty
		}
		g[r] = row
	}
	return g
}

// Clone copies the canvas so callers cannot mutate service state.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for r, row := range g {
		out[r] = append([]string(nil), row...)
	}
	return out
}

// InBounds reports whether the cell lies on the canvas.
func InBounds(row, col int) bool {
	return row >= 0 && row < GridSize && col >= 0 && col < GridSize
}

// ValidTile reports whether id belongs to the palette.
func ValidTile(id string) bool {
	for _, t := range Palette {
		if t == id {
			return true
		}
	}
	return false
}

// Document is the export format produced by the world builder.
type Document struct {
	Size    int      `json:"size"`
	Palette []string `json:"palette"`
	Grid    Grid     `json:"grid"`
}
