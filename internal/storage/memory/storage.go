package memory

import (
	"context"
	"sync"

	"github.com/jlindh/ordgrid/internal/model"
	"github.com/jlindh/ordgrid/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	games           map[model.GameID]*model.Game
	grids           map[gridKey]*model.Grid
	dictionaryWords []string
}

type gridKey struct {
	gameID   model.GameID
	playerID model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games: make(map[model.GameID]*model.Game),
		grids: make(map[gridKey]*model.Grid),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

// Grid operations

func (s *Storage) SaveGrid(ctx context.Context, grid *model.Grid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := gridKey{gameID: grid.GameID, playerID: grid.PlayerID}
	s.grids[key] = grid
	return nil
}

func (s *Storage) GetGrid(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Grid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := gridKey{gameID: gameID, playerID: playerID}
	grid, ok := s.grids[key]
	if !ok {
		return nil, model.ErrGridNotFound
	}
	return grid, nil
}

func (s *Storage) GetGridsForGame(ctx context.Context, gameID model.GameID) ([]*model.Grid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var grids []*model.Grid
	for key, grid := range s.grids {
		if key.gameID == gameID {
			grids = append(grids, grid)
		}
	}
	return grids, nil
}

func (s *Storage) DeleteGridsForGame(ctx context.Context, gameID model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.grids {
		if key.gameID == gameID {
			delete(s.grids, key)
		}
	}
	return nil
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dictionaryWords == nil {
		return nil, model.ErrDictionaryNotLoaded
	}
	result := make([]string, len(s.dictionaryWords))
	copy(result, s.dictionaryWords)
	return result, nil
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dictionaryWords = make([]string, len(words))
	copy(s.dictionaryWords, words)
	return nil
}
