package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jlindh/ordgrid/internal/dependencies/clock"
	"github.com/jlindh/ordgrid/internal/events"
	"github.com/jlindh/ordgrid/internal/game"
	"github.com/jlindh/ordgrid/internal/model"
)

// Config controls session-level behavior.
type Config struct {
	// EndOnLeave finishes a game as soon as any player departs, instead of
	// playing on with the remaining players.
	EndOnLeave bool
}

// Coordinator is the concurrency layer over the game controller. It
// serializes all operations per game, owns the phase deadline timers, and
// publishes outbound events. Timer fires carry the phase generation they
// were scheduled for, so a fire that lost the race against a player action
// is detected in the controller and becomes a no-op.
type Coordinator struct {
	controller game.ControllerInterface
	clock      clock.Clock
	hubs       *events.HubManager
	logger     *slog.Logger
	config     Config

	mu     sync.Mutex
	lanes  map[model.GameID]*sync.Mutex
	timers map[model.GameID]*time.Timer
	closed bool
}

// NewCoordinator creates a new Coordinator
func NewCoordinator(
	controller game.ControllerInterface,
	clock clock.Clock,
	hubs *events.HubManager,
	logger *slog.Logger,
	config Config,
) *Coordinator {
	return &Coordinator{
		controller: controller,
		clock:      clock,
		hubs:       hubs,
		logger:     logger,
		config:     config,
		lanes:      make(map[model.GameID]*sync.Mutex),
		timers:     make(map[model.GameID]*time.Timer),
	}
}

// lane returns the per-game mutex, creating it on first use.
func (c *Coordinator) lane(gameID model.GameID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.lanes[gameID]
	if !ok {
		m = &sync.Mutex{}
		c.lanes[gameID] = m
	}
	return m
}

// StartGame creates a game for the room and immediately begins its first
// letter_selection round.
func (c *Coordinator) StartGame(ctx context.Context, roomID model.RoomID, seats []model.Seat, settings model.Settings) (*model.Game, error) {
	created, err := c.controller.CreateGame(ctx, roomID, seats, settings)
	if err != nil {
		return nil, err
	}

	lane := c.lane(created.ID)
	lane.Lock()
	defer lane.Unlock()

	started, err := c.controller.Begin(ctx, created.ID)
	if err != nil {
		return nil, err
	}

	c.emitPhaseChanged(started)
	c.armTimer(started)
	return started, nil
}

// GetGame retrieves a game by ID
func (c *Coordinator) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.controller.GetGame(ctx, gameID)
}

// GetGrid retrieves a player's grid
func (c *Coordinator) GetGrid(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Grid, error) {
	return c.controller.GetGrid(ctx, gameID, playerID)
}

// Results returns the final leaderboard for a finished game
func (c *Coordinator) Results(ctx context.Context, gameID model.GameID) ([]model.LeaderboardEntry, error) {
	return c.controller.Results(ctx, gameID)
}

// Subscribe attaches a subscriber to a game's event stream. The caller
// owns the subscriber and must Close it when done.
func (c *Coordinator) Subscribe(gameID model.GameID, playerID model.PlayerID) *events.Subscriber {
	hub := c.hubs.GetOrCreateHub(gameID)
	sub := events.NewSubscriber(hub, playerID)
	hub.Register(sub)
	return sub
}

// SelectLetter handles the turn holder's letter choice.
func (c *Coordinator) SelectLetter(ctx context.Context, gameID model.GameID, playerID model.PlayerID, letter rune) (*model.Game, error) {
	lane := c.lane(gameID)
	lane.Lock()
	defer lane.Unlock()

	updated, err := c.controller.SelectLetter(ctx, gameID, playerID, letter)
	if err != nil {
		return nil, err
	}

	c.emit(updated, playerID, model.EventLetterSelected, model.LetterSelectedPayload{
		Letter: string(updated.CurrentLetter),
		Auto:   false,
	})
	c.emitPhaseChanged(updated)
	c.armTimer(updated)
	return updated, nil
}

// PlaceLetter records a player's pending placement.
func (c *Coordinator) PlaceLetter(ctx context.Context, gameID model.GameID, playerID model.PlayerID, x, y int) (*model.Game, error) {
	lane := c.lane(gameID)
	lane.Lock()
	defer lane.Unlock()

	return c.controller.PlaceLetter(ctx, gameID, playerID, x, y)
}

// ConfirmPlacement commits a player's placement and handles whatever
// transition that triggers.
func (c *Coordinator) ConfirmPlacement(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	lane := c.lane(gameID)
	lane.Lock()
	defer lane.Unlock()

	updated, cell, err := c.controller.ConfirmPlacement(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}

	c.emit(updated, playerID, model.EventLetterPlaced, model.LetterPlacedPayload{
		PlayerID: playerID,
		X:        cell.X,
		Y:        cell.Y,
		Auto:     false,
	})
	c.afterTransition(ctx, updated)
	return updated, nil
}

// Leave removes a player from an in-progress game.
func (c *Coordinator) Leave(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	lane := c.lane(gameID)
	lane.Lock()
	defer lane.Unlock()

	before, err := c.controller.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	beforeGen := before.PhaseGeneration

	updated, finished, err := c.controller.Leave(ctx, gameID, playerID, c.config.EndOnLeave)
	if err != nil {
		return nil, err
	}

	c.emit(updated, playerID, model.EventPlayerLeft, model.PlayerLeftPayload{PlayerID: playerID})

	if finished {
		c.emitFinished(ctx, updated)
		c.cancelTimer(gameID)
		return updated, nil
	}
	// A generation bump means the departure passed the turn or advanced
	// the round.
	if updated.PhaseGeneration != beforeGen {
		c.emitPhaseChanged(updated)
		c.armTimer(updated)
	}
	return updated, nil
}

// afterTransition emits events and re-arms timers based on where a
// confirmed action left the game.
func (c *Coordinator) afterTransition(ctx context.Context, game *model.Game) {
	switch game.Phase {
	case model.PhaseLetterSelection:
		c.emitPhaseChanged(game)
		c.armTimer(game)
	case model.PhaseFinished:
		c.emitFinished(ctx, game)
		c.cancelTimer(game.ID)
	}
}

// armTimer schedules the expiry callback for the game's current phase
// deadline, replacing any previously scheduled timer.
func (c *Coordinator) armTimer(game *model.Game) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	if t, ok := c.timers[game.ID]; ok {
		t.Stop()
		delete(c.timers, game.ID)
	}

	var fire func(model.GameID, int64)
	switch game.Phase {
	case model.PhaseLetterSelection:
		fire = c.handleSelectionExpiry
	case model.PhaseLetterPlacement:
		fire = c.handlePlacementExpiry
	default:
		return
	}

	gameID := game.ID
	generation := game.PhaseGeneration
	delay := time.UnixMilli(game.PhaseDeadline).Sub(c.clock.Now())
	if delay < 0 {
		delay = 0
	}
	c.timers[gameID] = time.AfterFunc(delay, func() {
		fire(gameID, generation)
	})
}

func (c *Coordinator) cancelTimer(gameID model.GameID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.timers[gameID]; ok {
		t.Stop()
		delete(c.timers, gameID)
	}
}

// handleSelectionExpiry runs when a selection deadline fires. A stale
// generation makes the controller call a no-op; anything else auto-selects
// a letter for the turn holder.
func (c *Coordinator) handleSelectionExpiry(gameID model.GameID, generation int64) {
	lane := c.lane(gameID)
	lane.Lock()
	defer lane.Unlock()

	ctx := context.Background()
	updated, letter, acted, err := c.controller.ExpireSelection(ctx, gameID, generation)
	if err != nil {
		c.containFailure(ctx, gameID, "selection expiry", err)
		return
	}
	if !acted {
		return
	}

	c.emit(updated, "", model.EventLetterSelected, model.LetterSelectedPayload{
		Letter: string(letter),
		Auto:   true,
	})
	c.emitPhaseChanged(updated)
	c.armTimer(updated)
}

// handlePlacementExpiry runs when a placement deadline fires. Unconfirmed
// players are auto-placed and the round advances.
func (c *Coordinator) handlePlacementExpiry(gameID model.GameID, generation int64) {
	lane := c.lane(gameID)
	lane.Lock()
	defer lane.Unlock()

	ctx := context.Background()
	updated, placed, acted, err := c.controller.ExpirePlacement(ctx, gameID, generation)
	if err != nil {
		c.containFailure(ctx, gameID, "placement expiry", err)
		return
	}
	if !acted {
		return
	}

	for _, p := range placed {
		c.emit(updated, p.PlayerID, model.EventLetterPlaced, p)
	}
	c.afterTransition(ctx, updated)
}

// containFailure force-finishes a game whose expiry processing hit an
// internal error, so a wedged timer cannot leave a room stuck forever.
// Domain errors never reach here; this is for storage-level failures.
func (c *Coordinator) containFailure(ctx context.Context, gameID model.GameID, op string, err error) {
	if errors.Is(err, model.ErrGameNotFound) {
		// Deleted out from under its timer; nothing to contain
		return
	}

	c.logger.Error("game operation failed, ending game",
		slog.String("game_id", string(gameID)),
		slog.String("operation", op),
		slog.Any("error", err),
	)

	if failErr := c.controller.Fail(ctx, gameID); failErr != nil {
		c.logger.Error("failed to mark game as errored",
			slog.String("game_id", string(gameID)),
			slog.Any("error", failErr),
		)
		return
	}
	if game, getErr := c.controller.GetGame(ctx, gameID); getErr == nil {
		c.emitFinished(ctx, game)
	}
	c.cancelTimer(gameID)
}

func (c *Coordinator) emit(game *model.Game, playerID model.PlayerID, eventType model.EventType, payload any) {
	c.hubs.Publish(model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		GameID:    game.ID,
		RoomID:    game.RoomID,
		PlayerID:  playerID,
		Payload:   payload,
	})
}

func (c *Coordinator) emitPhaseChanged(game *model.Game) {
	c.emit(game, "", model.EventPhaseChanged, model.PhaseChangedPayload{
		Phase:               game.Phase,
		CurrentTurnPosition: game.CurrentTurnPosition,
		TimerEnd:            game.PhaseDeadline,
	})
}

func (c *Coordinator) emitFinished(ctx context.Context, game *model.Game) {
	leaderboard, err := c.controller.Results(ctx, game.ID)
	if err != nil {
		c.logger.Error("failed to build leaderboard for finished game",
			slog.String("game_id", string(game.ID)),
			slog.Any("error", err),
		)
	}
	c.emit(game, "", model.EventGameFinished, model.GameFinishedPayload{
		Reason:      game.EndReason,
		Leaderboard: leaderboard,
	})
}

// Close stops all pending timers. In-flight expiries finish normally.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
}
