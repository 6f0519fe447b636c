package model

// Direction is the axis a word was found on.
type Direction string

const (
	DirectionHorizontal Direction = "horizontal"
	DirectionVertical   Direction = "vertical"
)

// PlacedLetter is one letter of a scored word with its cell coordinates.
type PlacedLetter struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Letter string `json:"letter"`
}

// Word is a dictionary word discovered on a grid by the scorer.
// Points is the sum of letter values plus, for the first word of a fully
// filled line, the completion bonus.
type Word struct {
	Text       string         `json:"text"`
	Points     int            `json:"points"`
	StartX     int            `json:"start_x"`
	StartY     int            `json:"start_y"`
	Direction  Direction      `json:"direction"`
	IsComplete bool           `json:"is_complete"`
	Letters    []PlacedLetter `json:"letters"`
}

// GridScore is the complete scoring result for one grid.
type GridScore struct {
	Words         []Word `json:"words"`
	TotalPoints   int    `json:"total_points"`
	CompletedRows int    `json:"completed_rows"`
	CompletedCols int    `json:"completed_cols"`
}

// LeaderboardEntry is one player's final result.
type LeaderboardEntry struct {
	UserID   PlayerID `json:"user_id"`
	Username string   `json:"username"`
	Score    int      `json:"score"`
	Grid     *Grid    `json:"grid"`
	Words    []Word   `json:"words"`
}
