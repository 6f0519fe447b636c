package model

import "time"

// GameID uniquely identifies a game.
type GameID string

// RoomID identifies the room a game belongs to. Room lifecycle is owned by
// an external collaborator; games only carry the reference.
type RoomID string

// PlayerID uniquely identifies a player across the system.
type PlayerID string

// Phase represents the current stage of a game.
type Phase string

const (
	PhaseWaiting         Phase = "waiting"          // Created, not yet started
	PhaseLetterSelection Phase = "letter_selection" // Turn holder picks a letter
	PhaseLetterPlacement Phase = "letter_placement" // Everyone places the shared letter
	PhaseFinished        Phase = "finished"         // Terminal
)

// EndReason records why a game reached the finished phase.
type EndReason string

const (
	EndReasonCompleted  EndReason = "completed"
	EndReasonPlayerLeft EndReason = "player_left"
	EndReasonError      EndReason = "error"
)

// Settings is the per-room configuration snapshot a game is created with.
type Settings struct {
	GridSize       int           `json:"grid_size"`
	MaxPlayers     int           `json:"max_players"`
	LetterTimer    time.Duration `json:"letter_timer"`
	PlacementTimer time.Duration `json:"placement_timer"`
}

// DefaultSettings returns the default game settings.
func DefaultSettings() Settings {
	return Settings{
		GridSize:       5,
		MaxPlayers:     4,
		LetterTimer:    10 * time.Second,
		PlacementTimer: 15 * time.Second,
	}
}

// Normalize clamps settings to their allowed ranges.
func (s Settings) Normalize() Settings {
	s.GridSize = clamp(s.GridSize, 4, 6)
	s.MaxPlayers = clamp(s.MaxPlayers, 2, 6)
	s.LetterTimer = clampDuration(s.LetterTimer, 5*time.Second, 60*time.Second)
	s.PlacementTimer = clampDuration(s.PlacementTimer, 10*time.Second, 60*time.Second)
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampDuration(v, lo, hi time.Duration) time.Duration {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Seat names a participant when a game is created.
type Seat struct {
	UserID   PlayerID
	Username string
}

// Player is a participant in one game. Position is assigned at game start
// and never changes; turn order is a round-robin over positions.
type Player struct {
	UserID             PlayerID `json:"user_id"`
	Username           string   `json:"username"`
	Position           int      `json:"position"` // 1..len(players)
	CurrentLetter      rune     `json:"current_letter,omitempty"`
	PendingPlacement   *Cell    `json:"pending_placement,omitempty"`
	PlacementConfirmed bool     `json:"placement_confirmed"`
	FinalScore         int      `json:"final_score"`
	Departed           bool     `json:"departed"`
}

// Game is a single session of the word-grid game.
type Game struct {
	ID       GameID    `json:"id"`
	RoomID   RoomID    `json:"room_id"`
	Phase    Phase     `json:"phase"`
	Settings Settings  `json:"settings"`
	Players  []*Player `json:"players"`

	// Turn management
	CurrentTurnPosition int  `json:"current_turn"`
	CurrentLetter       rune `json:"current_letter,omitempty"`

	// PhaseDeadline is a unix-millisecond timestamp, 0 when no deadline is
	// armed. Kept 64-bit on purpose: narrower types truncate.
	PhaseDeadline int64 `json:"phase_timer_end"`

	// PhaseGeneration increments on every phase transition; timers capture
	// it at schedule time so stale fires can be detected and ignored.
	PhaseGeneration int64 `json:"phase_generation"`

	LetterPool []rune    `json:"letter_pool"`
	EndReason  EndReason `json:"end_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Player returns the player with the given user ID, or nil.
func (g *Game) Player(id PlayerID) *Player {
	for _, p := range g.Players {
		if p.UserID == id {
			return p
		}
	}
	return nil
}

// PlayerAt returns the player at the given position, or nil.
func (g *Game) PlayerAt(position int) *Player {
	for _, p := range g.Players {
		if p.Position == position {
			return p
		}
	}
	return nil
}

// TurnHolder returns the player whose position matches the current turn,
// or nil outside letter_selection.
func (g *Game) TurnHolder() *Player {
	if g.Phase != PhaseLetterSelection {
		return nil
	}
	return g.PlayerAt(g.CurrentTurnPosition)
}

// ActivePlayers returns all players that have not departed.
func (g *Game) ActivePlayers() []*Player {
	var active []*Player
	for _, p := range g.Players {
		if !p.Departed {
			active = append(active, p)
		}
	}
	return active
}

// NextTurnPosition returns the next position in round-robin order after the
// current one, skipping departed players. Departed players keep their
// positions; nobody is renumbered.
func (g *Game) NextTurnPosition() int {
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		pos := ((g.CurrentTurnPosition-1)+i)%n + 1
		if p := g.PlayerAt(pos); p != nil && !p.Departed {
			return pos
		}
	}
	return g.CurrentTurnPosition
}

// AllConfirmed reports whether every active player has a confirmed
// placement this round.
func (g *Game) AllConfirmed() bool {
	for _, p := range g.Players {
		if !p.Departed && !p.PlacementConfirmed {
			return false
		}
	}
	return true
}

// PoolHas reports whether the shared pool still holds the given letter.
func (g *Game) PoolHas(letter rune) bool {
	for _, r := range g.LetterPool {
		if r == letter {
			return true
		}
	}
	return false
}

// TakeFromPool removes one instance of the letter from the shared pool.
// Returns false if the letter is exhausted.
func (g *Game) TakeFromPool(letter rune) bool {
	for i, r := range g.LetterPool {
		if r == letter {
			g.LetterPool = append(g.LetterPool[:i], g.LetterPool[i+1:]...)
			return true
		}
	}
	return false
}
