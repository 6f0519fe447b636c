package model

import (
	"encoding/json"
	"fmt"
)

// emptyCellMark is the placeholder for empty cells in the serialized form.
const emptyCellMark = '.'

// Cell identifies one square of a grid. Letter 0 means empty.
type Cell struct {
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Letter rune `json:"letter,omitempty"`
}

// Grid is a player's private N×N board for one game.
// The canonical representation is Cells[y][x]; storage converts to a
// row-string form at the serialization boundary.
type Grid struct {
	GameID   GameID
	PlayerID PlayerID
	Size     int
	Cells    [][]rune
}

// NewGrid creates an empty grid of the given size.
func NewGrid(gameID GameID, playerID PlayerID, size int) *Grid {
	cells := make([][]rune, size)
	for i := range cells {
		cells[i] = make([]rune, size)
	}
	return &Grid{
		GameID:   gameID,
		PlayerID: playerID,
		Size:     size,
		Cells:    cells,
	}
}

// InBounds reports whether (x, y) is on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Size && y >= 0 && y < g.Size
}

// Get returns the letter at (x, y), or 0 if empty or out of bounds.
func (g *Grid) Get(x, y int) rune {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.Cells[y][x]
}

// Set places a letter at (x, y).
func (g *Grid) Set(x, y int, letter rune) {
	if g.InBounds(x, y) {
		g.Cells[y][x] = letter
	}
}

// IsEmptyCell reports whether the cell at (x, y) has no letter.
func (g *Grid) IsEmptyCell(x, y int) bool {
	return g.Get(x, y) == 0
}

// IsFull reports whether every cell is filled.
func (g *Grid) IsFull() bool {
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			if g.Cells[y][x] == 0 {
				return false
			}
		}
	}
	return true
}

// EmptyCells returns all empty cells in row-major order.
// Order matters: auto-placement indexes into this slice with an injected
// random source, so it must be deterministic.
func (g *Grid) EmptyCells() []Cell {
	var empty []Cell
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			if g.Cells[y][x] == 0 {
				empty = append(empty, Cell{X: x, Y: y})
			}
		}
	}
	return empty
}

// Row returns a copy of all letters in row y.
func (g *Grid) Row(y int) []rune {
	if y < 0 || y >= g.Size {
		return nil
	}
	row := make([]rune, g.Size)
	copy(row, g.Cells[y])
	return row
}

// Col returns a copy of all letters in column x.
func (g *Grid) Col(x int) []rune {
	if x < 0 || x >= g.Size {
		return nil
	}
	col := make([]rune, g.Size)
	for y := 0; y < g.Size; y++ {
		col[y] = g.Cells[y][x]
	}
	return col
}

// gridJSON is the serialized form: one string per row, '.' for empty cells.
type gridJSON struct {
	GameID   GameID   `json:"game_id"`
	PlayerID PlayerID `json:"player_id"`
	Size     int      `json:"size"`
	Rows     []string `json:"rows"`
}

// MarshalJSON encodes the grid in row-string form.
func (g *Grid) MarshalJSON() ([]byte, error) {
	rows := make([]string, g.Size)
	for y := 0; y < g.Size; y++ {
		row := make([]rune, g.Size)
		for x := 0; x < g.Size; x++ {
			if g.Cells[y][x] == 0 {
				row[x] = emptyCellMark
			} else {
				row[x] = g.Cells[y][x]
			}
		}
		rows[y] = string(row)
	}
	return json.Marshal(gridJSON{
		GameID:   g.GameID,
		PlayerID: g.PlayerID,
		Size:     g.Size,
		Rows:     rows,
	})
}

// UnmarshalJSON decodes the row-string form back into the canonical grid.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var gj gridJSON
	if err := json.Unmarshal(data, &gj); err != nil {
		return err
	}
	if len(gj.Rows) != gj.Size {
		return fmt.Errorf("grid has %d rows, expected %d", len(gj.Rows), gj.Size)
	}

	cells := make([][]rune, gj.Size)
	for y, row := range gj.Rows {
		letters := []rune(row)
		if len(letters) != gj.Size {
			return fmt.Errorf("grid row %d has %d cells, expected %d", y, len(letters), gj.Size)
		}
		cells[y] = make([]rune, gj.Size)
		for x, r := range letters {
			if r != emptyCellMark {
				cells[y][x] = r
			}
		}
	}

	g.GameID = gj.GameID
	g.PlayerID = gj.PlayerID
	g.Size = gj.Size
	g.Cells = cells
	return nil
}
