package model

import "time"

// EventType identifies the type of outbound event.
type EventType string

const (
	EventPhaseChanged   EventType = "phase_changed"
	EventLetterSelected EventType = "letter_selected"
	EventLetterPlaced   EventType = "letter_placed"
	EventPlayerLeft     EventType = "player_left"
	EventGameFinished   EventType = "game_finished"
)

// Event is the base structure for all outbound events. Delivery transport
// is owned by an external collaborator; the engine only publishes.
type Event struct {
	Type      EventType
	Timestamp time.Time
	GameID    GameID
	RoomID    RoomID
	PlayerID  PlayerID // The player who triggered or is affected, if any
	Payload   any
}

// PhaseChangedPayload contains data for phase changed events.
// TimerEnd is a unix-millisecond deadline, 0 when no deadline is armed.
type PhaseChangedPayload struct {
	Phase               Phase `json:"phase"`
	CurrentTurnPosition int   `json:"current_turn"`
	TimerEnd            int64 `json:"timer_end"`
}

// LetterSelectedPayload contains data for letter selected events.
type LetterSelectedPayload struct {
	Letter string `json:"letter"`
	Auto   bool   `json:"auto"` // true when selected by the timeout fallback
}

// LetterPlacedPayload contains data for letter placed events.
type LetterPlacedPayload struct {
	PlayerID PlayerID `json:"player_id"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Auto     bool     `json:"auto"` // true when placed by the timeout fallback
}

// PlayerLeftPayload contains data for player left events.
type PlayerLeftPayload struct {
	PlayerID PlayerID `json:"player_id"`
}

// GameFinishedPayload contains data for game finished events.
type GameFinishedPayload struct {
	Reason      EndReason          `json:"reason"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
