package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/jlindh/ordgrid/internal/dependencies/clock"
	"github.com/jlindh/ordgrid/internal/dependencies/random"
	"github.com/jlindh/ordgrid/internal/model"
	"github.com/jlindh/ordgrid/internal/scoring"
	"github.com/jlindh/ordgrid/internal/storage"
)

const gameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Controller manages the game phase/turn state machine.
//
// Callers are expected to serialize invocations per game (the session
// coordinator does this); the controller itself is a load-validate-mutate-
// save layer over storage.
type Controller struct {
	storage storage.Storage
	scoring *scoring.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	scoringService *scoring.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		scoring: scoringService,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CreateGame initializes a new game in the waiting phase with empty grids
// for every seat. Positions are assigned in seat order, 1-based.
func (c *Controller) CreateGame(ctx context.Context, roomID model.RoomID, seats []model.Seat, settings model.Settings) (*model.Game, error) {
	settings = settings.Normalize()
	if len(seats) < 2 {
		return nil, model.ErrInsufficientPlayers
	}
	if len(seats) > settings.MaxPlayers {
		return nil, model.ErrTooManyPlayers
	}

	now := c.clock.Now()
	gameID := model.GameID(c.random.String(12, gameIDAlphabet))

	players := make([]*model.Player, len(seats))
	for i, seat := range seats {
		players[i] = &model.Player{
			UserID:   seat.UserID,
			Username: seat.Username,
			Position: i + 1,
		}
	}

	game := &model.Game{
		ID:         gameID,
		RoomID:     roomID,
		Phase:      model.PhaseWaiting,
		Settings:   settings,
		Players:    players,
		LetterPool: model.NewLetterPool(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for _, p := range players {
		grid := model.NewGrid(gameID, p.UserID, settings.GridSize)
		if err := c.storage.SaveGrid(ctx, grid); err != nil {
			return nil, err
		}
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(gameID)),
		slog.String("room_id", string(roomID)),
		slog.Int("player_count", len(players)),
		slog.Int("grid_size", settings.GridSize),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// GetGrid retrieves a player's grid
func (c *Controller) GetGrid(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Grid, error) {
	return c.storage.GetGrid(ctx, gameID, playerID)
}

// Begin moves a waiting game into its first letter_selection round with
// the player at position 1 as turn holder.
func (c *Controller) Begin(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Phase != model.PhaseWaiting {
		return nil, model.ErrWrongPhase
	}

	game.Phase = model.PhaseLetterSelection
	game.CurrentTurnPosition = 1
	c.armDeadline(game, game.Settings.LetterTimer)
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// SelectLetter handles the turn holder picking a letter from the shared
// pool. On success every active player receives the letter to place and
// the game advances to letter_placement.
func (c *Controller) SelectLetter(ctx context.Context, gameID model.GameID, playerID model.PlayerID, letter rune) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Phase == model.PhaseFinished {
		return nil, model.ErrGameFinished
	}
	if game.Phase != model.PhaseLetterSelection {
		return nil, model.ErrNotYourTurn
	}

	player := game.Player(playerID)
	if player == nil || player.Departed {
		return nil, model.ErrPlayerNotFound
	}
	if player.Position != game.CurrentTurnPosition {
		return nil, model.ErrNotYourTurn
	}

	normalized := model.NormalizeLetter(letter)
	if !model.IsAlphabetLetter(normalized) {
		return nil, model.ErrInvalidLetter
	}
	if !game.TakeFromPool(normalized) {
		return nil, model.ErrLetterUnavailable
	}

	c.applySelection(game, normalized)

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// ExpireSelection handles a selection deadline firing. The generation
// captured at schedule time fences out stale fires: if the phase has
// already advanced the call is a no-op. The fallback draws a uniformly
// random letter from the remaining pool.
func (c *Controller) ExpireSelection(ctx context.Context, gameID model.GameID, generation int64) (*model.Game, rune, bool, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, 0, false, err
	}
	if game.Phase != model.PhaseLetterSelection || game.PhaseGeneration != generation {
		return game, 0, false, nil
	}

	// Always non-empty while a selection round is open: the game finishes
	// before the pool can run dry.
	idx := c.random.Intn(len(game.LetterPool))
	letter := game.LetterPool[idx]
	game.LetterPool = append(game.LetterPool[:idx], game.LetterPool[idx+1:]...)

	c.applySelection(game, letter)

	c.logger.Info("letter auto-selected",
		slog.String("game_id", string(gameID)),
		slog.String("letter", string(letter)),
	)

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, 0, false, err
	}
	return game, letter, true, nil
}

// applySelection moves the game into a placement round for the letter.
func (c *Controller) applySelection(game *model.Game, letter rune) {
	game.CurrentLetter = letter
	for _, p := range game.Players {
		if p.Departed {
			continue
		}
		p.CurrentLetter = letter
		p.PendingPlacement = nil
		p.PlacementConfirmed = false
	}
	game.Phase = model.PhaseLetterPlacement
	c.armDeadline(game, game.Settings.PlacementTimer)
	game.UpdatedAt = c.clock.Now()
}

// PlaceLetter records a pending placement for the shared letter on the
// player's own grid. Nothing is committed until confirmation.
func (c *Controller) PlaceLetter(ctx context.Context, gameID model.GameID, playerID model.PlayerID, x, y int) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Phase == model.PhaseFinished {
		return nil, model.ErrGameFinished
	}
	if game.Phase != model.PhaseLetterPlacement {
		return nil, model.ErrWrongPhase
	}

	player := game.Player(playerID)
	if player == nil || player.Departed {
		return nil, model.ErrPlayerNotFound
	}
	if player.PlacementConfirmed {
		return nil, model.ErrAlreadyConfirmed
	}

	grid, err := c.storage.GetGrid(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}
	if !grid.InBounds(x, y) {
		return nil, model.ErrOutOfBounds
	}
	if !grid.IsEmptyCell(x, y) {
		return nil, model.ErrCellOccupied
	}

	player.PendingPlacement = &model.Cell{X: x, Y: y}
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// ConfirmPlacement commits the player's pending placement into their grid.
// When the last active player confirms, the round advances: back to
// letter_selection with the next turn holder, or to finished when every
// grid is full.
func (c *Controller) ConfirmPlacement(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, *model.Cell, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if game.Phase == model.PhaseFinished {
		return nil, nil, model.ErrGameFinished
	}
	if game.Phase != model.PhaseLetterPlacement {
		return nil, nil, model.ErrWrongPhase
	}

	player := game.Player(playerID)
	if player == nil || player.Departed {
		return nil, nil, model.ErrPlayerNotFound
	}
	if player.PlacementConfirmed {
		return nil, nil, model.ErrAlreadyConfirmed
	}
	if player.PendingPlacement == nil {
		return nil, nil, model.ErrNoPendingPlacement
	}

	cell, err := c.commitPlacement(ctx, game, player, player.PendingPlacement.X, player.PendingPlacement.Y)
	if err != nil {
		return nil, nil, err
	}

	if game.AllConfirmed() {
		if err := c.advanceRound(ctx, game); err != nil {
			return nil, nil, err
		}
		return game, cell, nil
	}

	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, nil, err
	}
	return game, cell, nil
}

// ExpirePlacement handles a placement deadline firing. Stale fires are
// detected via the generation and ignored. Every active player without a
// confirmed placement is finalized: a pending placement is committed as-is,
// otherwise a uniformly random empty cell is chosen. The round then
// advances exactly once.
func (c *Controller) ExpirePlacement(ctx context.Context, gameID model.GameID, generation int64) (*model.Game, []model.LetterPlacedPayload, bool, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, false, err
	}
	if game.Phase != model.PhaseLetterPlacement || game.PhaseGeneration != generation {
		return game, nil, false, nil
	}

	var placed []model.LetterPlacedPayload
	for _, p := range game.Players {
		if p.Departed || p.PlacementConfirmed {
			continue
		}

		var x, y int
		if p.PendingPlacement != nil {
			x, y = p.PendingPlacement.X, p.PendingPlacement.Y
		} else {
			grid, err := c.storage.GetGrid(ctx, gameID, p.UserID)
			if err != nil {
				return nil, nil, false, err
			}
			// Always at least one empty cell while a placement round is
			// open, or the previous round would have finished the game.
			empty := grid.EmptyCells()
			cell := empty[c.random.Intn(len(empty))]
			x, y = cell.X, cell.Y
		}

		if _, err := c.commitPlacement(ctx, game, p, x, y); err != nil {
			return nil, nil, false, err
		}
		placed = append(placed, model.LetterPlacedPayload{
			PlayerID: p.UserID,
			X:        x,
			Y:        y,
			Auto:     true,
		})
	}

	if err := c.advanceRound(ctx, game); err != nil {
		return nil, nil, false, err
	}
	return game, placed, true, nil
}

// commitPlacement writes the shared letter into the player's grid and
// marks the placement confirmed.
func (c *Controller) commitPlacement(ctx context.Context, game *model.Game, player *model.Player, x, y int) (*model.Cell, error) {
	grid, err := c.storage.GetGrid(ctx, game.ID, player.UserID)
	if err != nil {
		return nil, err
	}

	grid.Set(x, y, game.CurrentLetter)
	if err := c.storage.SaveGrid(ctx, grid); err != nil {
		return nil, err
	}

	cell := &model.Cell{X: x, Y: y, Letter: game.CurrentLetter}
	player.PendingPlacement = nil
	player.PlacementConfirmed = true
	player.CurrentLetter = 0
	return cell, nil
}

// advanceRound runs after every active player has confirmed. Turn
// advancement is unconditional: it does not depend on whether any
// placement was automatic.
func (c *Controller) advanceRound(ctx context.Context, game *model.Game) error {
	full, err := c.allGridsFull(ctx, game)
	if err != nil {
		return err
	}
	if full {
		return c.finish(ctx, game, model.EndReasonCompleted)
	}

	game.Phase = model.PhaseLetterSelection
	game.CurrentTurnPosition = game.NextTurnPosition()
	game.CurrentLetter = 0
	c.armDeadline(game, game.Settings.LetterTimer)
	game.UpdatedAt = c.clock.Now()
	return c.storage.SaveGame(ctx, game)
}

// allGridsFull reports whether every active player's grid is full.
func (c *Controller) allGridsFull(ctx context.Context, game *model.Game) (bool, error) {
	for _, p := range game.ActivePlayers() {
		grid, err := c.storage.GetGrid(ctx, game.ID, p.UserID)
		if err != nil {
			return false, err
		}
		if !grid.IsFull() {
			return false, nil
		}
	}
	return true, nil
}

// Leave marks a player departed. Departed players keep their positions;
// turn order simply skips them. With endOnLeave set (or nobody left) the
// game finishes early with reason player_left.
func (c *Controller) Leave(ctx context.Context, gameID model.GameID, playerID model.PlayerID, endOnLeave bool) (*model.Game, bool, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, false, err
	}

	player := game.Player(playerID)
	if player == nil {
		return nil, false, model.ErrPlayerNotFound
	}

	// Terminal phase only acknowledges the departure
	if game.Phase == model.PhaseFinished {
		return game, false, nil
	}
	if player.Departed {
		return game, false, nil
	}

	player.Departed = true

	c.logger.Info("player left game",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
	)

	if endOnLeave || len(game.ActivePlayers()) == 0 {
		if err := c.finish(ctx, game, model.EndReasonPlayerLeft); err != nil {
			return nil, false, err
		}
		return game, true, nil
	}

	switch game.Phase {
	case model.PhaseLetterSelection:
		// Pass the turn on if the holder left
		if game.CurrentTurnPosition == player.Position {
			game.CurrentTurnPosition = game.NextTurnPosition()
			c.armDeadline(game, game.Settings.LetterTimer)
		}
	case model.PhaseLetterPlacement:
		// Their confirmation is no longer required
		if game.AllConfirmed() {
			if err := c.advanceRound(ctx, game); err != nil {
				return nil, false, err
			}
			return game, game.Phase == model.PhaseFinished, nil
		}
	}

	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, false, err
	}
	return game, false, nil
}

// Fail force-finishes a game after an internal failure so one corrupt game
// cannot wedge its room. Best effort: storage errors are returned but the
// in-memory state is already terminal.
func (c *Controller) Fail(ctx context.Context, gameID model.GameID) error {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if game.Phase == model.PhaseFinished {
		return nil
	}

	game.Phase = model.PhaseFinished
	game.EndReason = model.EndReasonError
	game.PhaseDeadline = 0
	game.PhaseGeneration++
	game.UpdatedAt = c.clock.Now()

	c.logger.Error("game ended due to internal error",
		slog.String("game_id", string(gameID)),
	)

	return c.storage.SaveGame(ctx, game)
}

// Results returns the final leaderboard for a finished game.
func (c *Controller) Results(ctx context.Context, gameID model.GameID) ([]model.LeaderboardEntry, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Phase != model.PhaseFinished {
		return nil, model.ErrWrongPhase
	}

	grids, err := c.gridsByPlayer(ctx, game)
	if err != nil {
		return nil, err
	}
	return c.scoring.Leaderboard(game.ActivePlayers(), grids), nil
}

// finish moves the game to the terminal phase and computes final scores.
func (c *Controller) finish(ctx context.Context, game *model.Game, reason model.EndReason) error {
	game.Phase = model.PhaseFinished
	game.EndReason = reason
	game.CurrentLetter = 0
	game.PhaseDeadline = 0
	game.PhaseGeneration++
	game.UpdatedAt = c.clock.Now()

	grids, err := c.gridsByPlayer(ctx, game)
	if err != nil {
		return err
	}
	for _, p := range game.ActivePlayers() {
		if grid := grids[p.UserID]; grid != nil {
			p.FinalScore = c.scoring.ScoreGrid(grid).TotalPoints
		}
	}

	c.logger.Info("game finished",
		slog.String("game_id", string(game.ID)),
		slog.String("room_id", string(game.RoomID)),
		slog.String("reason", string(reason)),
	)

	return c.storage.SaveGame(ctx, game)
}

func (c *Controller) gridsByPlayer(ctx context.Context, game *model.Game) (map[model.PlayerID]*model.Grid, error) {
	grids, err := c.storage.GetGridsForGame(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	byPlayer := make(map[model.PlayerID]*model.Grid, len(grids))
	for _, g := range grids {
		byPlayer[g.PlayerID] = g
	}
	return byPlayer, nil
}

// armDeadline starts a new phase window: bumps the generation and sets the
// absolute deadline in unix milliseconds.
func (c *Controller) armDeadline(game *model.Game, d time.Duration) {
	game.PhaseGeneration++
	game.PhaseDeadline = c.clock.Now().Add(d).UnixMilli()
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, roomID model.RoomID, seats []model.Seat, settings model.Settings) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	GetGrid(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Grid, error)
	Begin(ctx context.Context, gameID model.GameID) (*model.Game, error)
	SelectLetter(ctx context.Context, gameID model.GameID, playerID model.PlayerID, letter rune) (*model.Game, error)
	ExpireSelection(ctx context.Context, gameID model.GameID, generation int64) (*model.Game, rune, bool, error)
	PlaceLetter(ctx context.Context, gameID model.GameID, playerID model.PlayerID, x, y int) (*model.Game, error)
	ConfirmPlacement(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, *model.Cell, error)
	ExpirePlacement(ctx context.Context, gameID model.GameID, generation int64) (*model.Game, []model.LetterPlacedPayload, bool, error)
	Leave(ctx context.Context, gameID model.GameID, playerID model.PlayerID, endOnLeave bool) (*model.Game, bool, error)
	Fail(ctx context.Context, gameID model.GameID) error
	Results(ctx context.Context, gameID model.GameID) ([]model.LeaderboardEntry, error)
}

var _ ControllerInterface = (*Controller)(nil)
