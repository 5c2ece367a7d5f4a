package world

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/wanchen/pixelforge/backend/internal/model/world"
)

var (
	ErrOutOfBounds = errors.New("cell is outside the canvas")
	ErrUnknownTile = errors.New("unknown tile type")
)

// Service owns the ephemeral 16x16 level canvas.
type Service struct {
	mu   sync.Mutex
	grid world.Grid
}

// NewService starts with an empty canvas.
func NewService() *Service {
	return &Service{grid: world.NewGrid()}
}

// Paint sets a single cell.
func (s *Service) Paint(row, col int, tile string) error {
	if !world.InBounds(row, col) {
		return ErrOutOfBounds
	}
	if !world.ValidTile(tile) {
		return ErrUnknownTile
	}
	s.mu.Lock()
	s.grid[row][col] = tile
	s.mu.Unlock()
	return nil
}

// Flood fills the 4-connected region sharing the origin cell's tile.
// Painting a region with its own tile is a no-op.
func (s *Service) Flood(row, col int, tile string) error {
	if !world.InBounds(row, col) {
		return ErrOutOfBounds
	}
	if !world.ValidTile(tile) {
		return ErrUnknownTile
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.grid[row][col]
	if from == tile {
		return nil
	}

	queue := [][2]int{{row, col}}
	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]
		r, c := cell[0], cell[1]
		if !world.InBounds(r, c) || s.grid[r][c] != from {
			continue
		}
		s.grid[r][c] = tile
		queue = append(queue, [2]int{r - 1, c}, [2]int{r + 1, c}, [2]int{r, c - 1}, [2]int{r, c + 1})
	}
	return nil
}

// Clear resets the whole canvas to empty tiles.
func (s *Service) Clear() {
	s.mu.Lock()
	s.grid = world.NewGrid()
	s.mu.Unlock()
}

// Snapshot returns a copy of the canvas.
func (s *Service) Snapshot() world.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Clone()
}

// Export renders the canvas as a standalone JSON document.
func (s *Service) Export() ([]byte, error) {
	s.mu.Lock()
	doc := world.Document{
		Size:    world.GridSize,
		Palette: world.Palette,
		Grid:    s.grid.Clone(),
	}
	s.mu.Unlock()
	return json.MarshalIndent(doc, "", "  ")
}
