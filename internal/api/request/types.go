package request

// SeatRequest describes one player joining a new game
type SeatRequest struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
}

// SettingsRequest carries optional game settings; zero values fall back to
// defaults and out-of-range values are clamped
type SettingsRequest struct {
	GridSize              int `json:"grid_size,omitempty"`
	MaxPlayers            int `json:"max_players,omitempty"`
	LetterTimerSeconds    int `json:"letter_timer_seconds,omitempty"`
	PlacementTimerSeconds int `json:"placement_timer_seconds,omitempty"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	RoomID   string           `json:"room_id"`
	Players  []SeatRequest    `json:"players"`
	Settings *SettingsRequest `json:"settings,omitempty"`
}

// SelectLetterRequest is the request body for selecting a letter
type SelectLetterRequest struct {
	PlayerID string `json:"player_id"`
	Letter   string `json:"letter"`
}

// PlaceLetterRequest is the request body for placing a letter
type PlaceLetterRequest struct {
	PlayerID string `json:"player_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// ConfirmPlacementRequest is the request body for confirming a placement
type ConfirmPlacementRequest struct {
	PlayerID string `json:"player_id"`
}

// LeaveRequest is the request body for leaving a game
type LeaveRequest struct {
	PlayerID string `json:"player_id"`
}
