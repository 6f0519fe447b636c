package model

import (
	"encoding/json"
	"testing"
)

func TestGridBounds(t *testing.T) {
	g := NewGrid("game-1", "player-1", 4)

	for _, c := range []Cell{{X: 0, Y: 0}, {X: 3, Y: 3}} {
		if !g.InBounds(c.X, c.Y) {
			t.Errorf("InBounds(%d, %d) = false, want true", c.X, c.Y)
		}
	}
	for _, c := range []Cell{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 4, Y: 0}, {X: 0, Y: 4}} {
		if g.InBounds(c.X, c.Y) {
			t.Errorf("InBounds(%d, %d) = true, want false", c.X, c.Y)
		}
	}
}

func TestGridSetAndGet(t *testing.T) {
	g := NewGrid("game-1", "player-1", 4)
	g.Set(2, 1, 'Å')

	if got := g.Get(2, 1); got != 'Å' {
		t.Errorf("Get(2, 1) = %q, want 'Å'", got)
	}
	if !g.IsEmptyCell(0, 0) {
		t.Error("IsEmptyCell(0, 0) = false on an untouched cell")
	}
	if g.IsEmptyCell(2, 1) {
		t.Error("IsEmptyCell(2, 1) = true on a filled cell")
	}
	if got := g.Get(9, 9); got != 0 {
		t.Errorf("Get out of bounds = %q, want 0", got)
	}
}

func TestGridRowAndCol(t *testing.T) {
	g := NewGrid("game-1", "player-1", 4)
	g.Set(0, 1, 'T')
	g.Set(1, 1, 'A')
	g.Set(1, 2, 'R')

	if got := string(g.Row(1)); got != "TA\x00\x00" {
		t.Errorf("Row(1) = %q", got)
	}
	if got := g.Col(1); got[1] != 'A' || got[2] != 'R' {
		t.Errorf("Col(1) = %q", string(got))
	}
	if g.Row(-1) != nil || g.Col(4) != nil {
		t.Error("out-of-range Row/Col should be nil")
	}
}

func TestGridIsFullAndEmptyCells(t *testing.T) {
	g := NewGrid("game-1", "player-1", 2)
	g.Set(0, 0, 'A')
	g.Set(1, 0, 'R')
	g.Set(0, 1, 'S')

	if g.IsFull() {
		t.Error("IsFull() = true with one empty cell")
	}

	empty := g.EmptyCells()
	if len(empty) != 1 || empty[0] != (Cell{X: 1, Y: 1}) {
		t.Errorf("EmptyCells() = %v, want [(1,1)]", empty)
	}

	g.Set(1, 1, 'T')
	if !g.IsFull() {
		t.Error("IsFull() = false on a filled grid")
	}
}

func TestGridEmptyCellsRowMajorOrder(t *testing.T) {
	g := NewGrid("game-1", "player-1", 2)
	g.Set(1, 0, 'A')

	want := []Cell{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	got := g.EmptyCells()
	if len(got) != len(want) {
		t.Fatalf("EmptyCells() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("EmptyCells()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGridJSONRoundTrip(t *testing.T) {
	g := NewGrid("game-1", "player-1", 4)
	g.Set(0, 0, 'L')
	g.Set(1, 0, 'Å')
	g.Set(2, 0, 'S')
	g.Set(3, 3, 'Ö')

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Grid
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.GameID != g.GameID || decoded.PlayerID != g.PlayerID || decoded.Size != g.Size {
		t.Errorf("metadata mismatch: %+v", decoded)
	}
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			if decoded.Get(x, y) != g.Get(x, y) {
				t.Errorf("cell (%d,%d) = %q, want %q", x, y, decoded.Get(x, y), g.Get(x, y))
			}
		}
	}
}

func TestGridJSONUsesRowStrings(t *testing.T) {
	g := NewGrid("game-1", "player-1", 2)
	g.Set(0, 0, 'A')

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw struct {
		Rows []string `json:"rows"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(raw.Rows) != 2 || raw.Rows[0] != "A." || raw.Rows[1] != ".." {
		t.Errorf("rows = %v, want [A. ..]", raw.Rows)
	}
}

func TestGridJSONRejectsMalformedRows(t *testing.T) {
	var g Grid
	err := json.Unmarshal([]byte(`{"game_id":"g","player_id":"p","size":3,"rows":["AB.","..."]}`), &g)
	if err == nil {
		t.Error("expected error for row count mismatch")
	}

	err = json.Unmarshal([]byte(`{"game_id":"g","player_id":"p","size":2,"rows":["AB.",".."]}`), &g)
	if err == nil {
		t.Error("expected error for row length mismatch")
	}
}
