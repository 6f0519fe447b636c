package storage

import (
	"context"

	"github.com/jlindh/ordgrid/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error

	// Grid operations
	SaveGrid(ctx context.Context, grid *model.Grid) error
	GetGrid(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Grid, error)
	GetGridsForGame(ctx context.Context, gameID model.GameID) ([]*model.Grid, error)
	DeleteGridsForGame(ctx context.Context, gameID model.GameID) error

	// Dictionary operations
	GetDictionaryWords(ctx context.Context) ([]string, error)
	SaveDictionaryWords(ctx context.Context, words []string) error
}
