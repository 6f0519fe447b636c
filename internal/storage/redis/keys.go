package redis

import (
	"fmt"

	"github.com/jlindh/ordgrid/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "ordgrid"

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gridKey returns the Redis key for a player's Grid
func gridKey(gameID model.GameID, playerID model.PlayerID) string {
	return fmt.Sprintf("%s:grid:%s:%s", keyPrefix, gameID, playerID)
}

// gridsForGameIndexKey returns the Redis key for the game -> grid keys index
func gridsForGameIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:grids:%s", keyPrefix, gameID)
}

// dictionaryKey returns the Redis key for the dictionary word set
func dictionaryKey() string {
	return fmt.Sprintf("%s:dictionary", keyPrefix)
}
