package response

import (
	"github.com/jlindh/ordgrid/internal/model"
)

// Player represents a player in API responses
type Player struct {
	PlayerID  string `json:"player_id"`
	Username  string `json:"username"`
	Position  int    `json:"position"`
	Confirmed bool   `json:"confirmed"`
	Departed  bool   `json:"departed,omitempty"`
	Score     int    `json:"score,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		PlayerID:  string(p.UserID),
		Username:  p.Username,
		Position:  p.Position,
		Confirmed: p.PlacementConfirmed,
		Departed:  p.Departed,
		Score:     p.FinalScore,
	}
}

// Settings represents game settings
type Settings struct {
	GridSize              int `json:"grid_size"`
	MaxPlayers            int `json:"max_players"`
	LetterTimerSeconds    int `json:"letter_timer_seconds"`
	PlacementTimerSeconds int `json:"placement_timer_seconds"`
}

// SettingsFromModel converts model.Settings
func SettingsFromModel(s model.Settings) Settings {
	return Settings{
		GridSize:              s.GridSize,
		MaxPlayers:            s.MaxPlayers,
		LetterTimerSeconds:    int(s.LetterTimer.Seconds()),
		PlacementTimerSeconds: int(s.PlacementTimer.Seconds()),
	}
}

// Grid represents a player's grid. Empty cells are empty strings.
type Grid struct {
	Size  int        `json:"size"`
	Cells [][]string `json:"cells"`
}

// GridFromModel converts model.Grid to a response Grid
func GridFromModel(g *model.Grid) Grid {
	cells := make([][]string, g.Size)
	for y := 0; y < g.Size; y++ {
		cells[y] = make([]string, g.Size)
		for x := 0; x < g.Size; x++ {
			if letter := g.Get(x, y); letter != 0 {
				cells[y][x] = string(letter)
			}
		}
	}
	return Grid{Size: g.Size, Cells: cells}
}

// GameState represents the current game state
type GameState struct {
	ID            string   `json:"id"`
	RoomID        string   `json:"room_id"`
	Phase         string   `json:"phase"`
	Settings      Settings `json:"settings"`
	Players       []Player `json:"players"`
	CurrentTurn   int      `json:"current_turn"`
	CurrentLetter *string  `json:"current_letter"`
	PhaseTimerEnd int64    `json:"phase_timer_end"`
	LettersLeft   int      `json:"letters_left"`
	EndReason     string   `json:"end_reason,omitempty"`
}

// GameStateFromModel converts model.Game to response GameState
func GameStateFromModel(g *model.Game) GameState {
	players := make([]Player, len(g.Players))
	for i, p := range g.Players {
		players[i] = PlayerFromModel(p)
	}

	var currentLetter *string
	if g.CurrentLetter != 0 {
		l := string(g.CurrentLetter)
		currentLetter = &l
	}

	return GameState{
		ID:            string(g.ID),
		RoomID:        string(g.RoomID),
		Phase:         string(g.Phase),
		Settings:      SettingsFromModel(g.Settings),
		Players:       players,
		CurrentTurn:   g.CurrentTurnPosition,
		CurrentLetter: currentLetter,
		PhaseTimerEnd: g.PhaseDeadline,
		LettersLeft:   len(g.LetterPool),
		EndReason:     string(g.EndReason),
	}
}

// Word represents a scored word on a grid
type Word struct {
	Text       string `json:"text"`
	Points     int    `json:"points"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Direction  string `json:"direction"`
	IsComplete bool   `json:"is_complete"`
}

// WordFromModel converts model.Word
func WordFromModel(w model.Word) Word {
	return Word{
		Text:       w.Text,
		Points:     w.Points,
		X:          w.StartX,
		Y:          w.StartY,
		Direction:  string(w.Direction),
		IsComplete: w.IsComplete,
	}
}

// LeaderboardEntry represents one ranked player in the results
type LeaderboardEntry struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Grid     Grid   `json:"grid"`
	Words    []Word `json:"words"`
}

// LeaderboardEntryFromModel converts model.LeaderboardEntry
func LeaderboardEntryFromModel(e model.LeaderboardEntry) LeaderboardEntry {
	words := make([]Word, len(e.Words))
	for i, w := range e.Words {
		words[i] = WordFromModel(w)
	}
	return LeaderboardEntry{
		PlayerID: string(e.UserID),
		Username: e.Username,
		Score:    e.Score,
		Grid:     GridFromModel(e.Grid),
		Words:    words,
	}
}

// ResultsResponse is the response for game results
type ResultsResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// ResultsFromModel converts a leaderboard
func ResultsFromModel(entries []model.LeaderboardEntry) ResultsResponse {
	leaderboard := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		leaderboard[i] = LeaderboardEntryFromModel(e)
	}
	return ResultsResponse{Leaderboard: leaderboard}
}
