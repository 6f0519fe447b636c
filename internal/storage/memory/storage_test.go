package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jlindh/ordgrid/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := &model.Game{
		ID:       "game-1",
		RoomID:   "room-1",
		Phase:    model.PhaseLetterSelection,
		Settings: model.DefaultSettings(),
		Players: []*model.Player{
			{UserID: "p1", Username: "alice", Position: 1},
			{UserID: "p2", Username: "bob", Position: 2},
		},
		CurrentTurnPosition: 1,
		CreatedAt:           time.Now(),
	}

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Equal(game.Phase, retrieved.Phase)
	s.Len(retrieved.Players, 2)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGame() {
	game := &model.Game{ID: "game-1", Phase: model.PhaseFinished}
	_ = s.storage.SaveGame(s.ctx, game)

	err := s.storage.DeleteGame(s.ctx, "game-1")
	s.Require().NoError(err)

	_, err = s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Grid tests

func (s *StorageSuite) TestSaveAndGetGrid() {
	grid := model.NewGrid("game-1", "player-1", 5)
	grid.Set(0, 0, 'Å')

	err := s.storage.SaveGrid(s.ctx, grid)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGrid(s.ctx, "game-1", "player-1")
	s.Require().NoError(err)
	s.Equal(grid.Size, retrieved.Size)
	s.Equal('Å', retrieved.Get(0, 0))
}

func (s *StorageSuite) TestGetGridNotFound() {
	_, err := s.storage.GetGrid(s.ctx, "game-1", "nonexistent")
	s.ErrorIs(err, model.ErrGridNotFound)
}

func (s *StorageSuite) TestGetGridsForGame() {
	grid1 := model.NewGrid("game-1", "player-1", 5)
	grid2 := model.NewGrid("game-1", "player-2", 5)
	grid3 := model.NewGrid("game-2", "player-1", 5) // Different game

	_ = s.storage.SaveGrid(s.ctx, grid1)
	_ = s.storage.SaveGrid(s.ctx, grid2)
	_ = s.storage.SaveGrid(s.ctx, grid3)

	grids, err := s.storage.GetGridsForGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Len(grids, 2)
}

func (s *StorageSuite) TestDeleteGridsForGame() {
	grid1 := model.NewGrid("game-1", "player-1", 5)
	grid2 := model.NewGrid("game-1", "player-2", 5)
	_ = s.storage.SaveGrid(s.ctx, grid1)
	_ = s.storage.SaveGrid(s.ctx, grid2)

	err := s.storage.DeleteGridsForGame(s.ctx, "game-1")
	s.Require().NoError(err)

	grids, err := s.storage.GetGridsForGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Empty(grids)
}

// Dictionary tests

func (s *StorageSuite) TestSaveAndGetDictionaryWords() {
	words := []string{"lås", "tak", "sten"}

	err := s.storage.SaveDictionaryWords(s.ctx, words)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetDictionaryWords(s.ctx)
	s.Require().NoError(err)
	s.Equal(words, retrieved)
}

func (s *StorageSuite) TestGetDictionaryWordsNotLoaded() {
	_, err := s.storage.GetDictionaryWords(s.ctx)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)
}
