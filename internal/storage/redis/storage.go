package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jlindh/ordgrid/internal/model"
	"github.com/jlindh/ordgrid/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, gameKey(game.ID), data, s.cfg.GameTTL).Err()
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	return s.client.Del(ctx, gameKey(id)).Err()
}

// Grid operations

func (s *Storage) SaveGrid(ctx context.Context, grid *model.Grid) error {
	data, err := json.Marshal(grid)
	if err != nil {
		return err
	}

	gKey := gridKey(grid.GameID, grid.PlayerID)
	indexKey := gridsForGameIndexKey(grid.GameID)

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, gKey, data, s.cfg.GridTTL)
	pipe.SAdd(ctx, indexKey, gKey)
	pipe.Expire(ctx, indexKey, s.cfg.GridTTL) // Keep index TTL in sync
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGrid(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Grid, error) {
	data, err := s.client.Get(ctx, gridKey(gameID, playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGridNotFound
		}
		return nil, err
	}

	var grid model.Grid
	if err := json.Unmarshal(data, &grid); err != nil {
		return nil, err
	}
	return &grid, nil
}

func (s *Storage) GetGridsForGame(ctx context.Context, gameID model.GameID) ([]*model.Grid, error) {
	indexKey := gridsForGameIndexKey(gameID)

	// Get all grid keys from the index
	gridKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	if len(gridKeys) == 0 {
		return []*model.Grid{}, nil
	}

	// Fetch all grids in one round trip
	values, err := s.client.MGet(ctx, gridKeys...).Result()
	if err != nil {
		return nil, err
	}

	grids := make([]*model.Grid, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Grid may have expired
		}
		var grid model.Grid
		if err := json.Unmarshal([]byte(val.(string)), &grid); err != nil {
			continue // Skip invalid data
		}
		grids = append(grids, &grid)
	}

	return grids, nil
}

func (s *Storage) DeleteGridsForGame(ctx context.Context, gameID model.GameID) error {
	indexKey := gridsForGameIndexKey(gameID)

	// Get all grid keys from the index
	gridKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}

	if len(gridKeys) == 0 {
		return nil
	}

	// Delete all grids and the index in one pipeline
	pipe := s.client.Pipeline()
	for _, key := range gridKeys {
		pipe.Del(ctx, key)
	}
	pipe.Del(ctx, indexKey)
	_, err = pipe.Exec(ctx)
	return err
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	key := dictionaryKey()

	// Check if dictionary exists
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, model.ErrDictionaryNotLoaded
	}

	// Get all words from the set
	words, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	return words, nil
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string) error {
	key := dictionaryKey()

	// Delete existing dictionary and add new words atomically
	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)

	if len(words) > 0 {
		// Convert []string to []interface{} for SAdd
		members := make([]interface{}, len(words))
		for i, w := range words {
			members[i] = w
		}
		pipe.SAdd(ctx, key, members...)
	}

	_, err := pipe.Exec(ctx)
	return err
}
