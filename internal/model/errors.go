package model

import "errors"

// Common errors used across the application
var (
	// Game lookup / lifecycle errors
	ErrGameNotFound        = errors.New("game not found")
	ErrGridNotFound        = errors.New("grid not found")
	ErrPlayerNotFound      = errors.New("player not in game")
	ErrGameFinished        = errors.New("game is finished")
	ErrInsufficientPlayers = errors.New("insufficient players to start game")
	ErrTooManyPlayers      = errors.New("too many players for game settings")

	// Turn/phase errors
	ErrNotYourTurn = errors.New("not this player's turn")
	ErrWrongPhase  = errors.New("operation not valid in current phase")

	// Selection errors
	ErrInvalidLetter     = errors.New("letter is not in the alphabet")
	ErrLetterUnavailable = errors.New("letter is exhausted from the pool")

	// Placement errors
	ErrOutOfBounds        = errors.New("coordinates outside the grid")
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrAlreadyConfirmed   = errors.New("placement already confirmed this round")
	ErrNoPendingPlacement = errors.New("no pending placement to confirm")

	// Dictionary errors
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")
)
