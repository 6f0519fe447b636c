package scoring

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/jlindh/ordgrid/internal/dictionary"
	"github.com/jlindh/ordgrid/internal/model"
	"github.com/jlindh/ordgrid/internal/storage/memory"
	"github.com/jlindh/ordgrid/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	dict    *dictionary.Index
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.dict = dictionary.New(memory.New(), testutil.NopLogger())
	s.service = New(s.dict)
}

func (s *ServiceSuite) load(words ...string) {
	s.Require().NoError(s.dict.LoadWords(words))
}

// grid builds a test grid from row strings, '.' marking empty cells.
func (s *ServiceSuite) grid(rows ...string) *model.Grid {
	g := model.NewGrid("game-1", "player-1", len(rows))
	for y, row := range rows {
		for x, letter := range []rune(row) {
			if letter != '.' {
				g.Set(x, y, letter)
			}
		}
	}
	return g
}

func (s *ServiceSuite) TestScoreEmptyGrid() {
	s.load("rast")
	result := s.service.ScoreGrid(s.grid("....", "....", "....", "...."))

	s.Empty(result.Words)
	s.Equal(0, result.TotalPoints)
	s.Equal(0, result.CompletedRows)
	s.Equal(0, result.CompletedCols)
}

func (s *ServiceSuite) TestScoreCompleteRowWithBonus() {
	s.load("rast")
	result := s.service.ScoreGrid(s.grid(
		"RAST",
		"....",
		"....",
		"....",
	))

	s.Require().Len(result.Words, 1)
	word := result.Words[0]
	s.Equal("RAST", word.Text)
	s.Equal(model.DirectionHorizontal, word.Direction)
	s.Equal(0, word.StartX)
	s.Equal(0, word.StartY)
	s.True(word.IsComplete)
	s.Equal(6, word.Points) // 4 letter points + completion bonus
	s.Equal(6, result.TotalPoints)
	s.Equal(1, result.CompletedRows)
	s.Equal(0, result.CompletedCols)
}

func (s *ServiceSuite) TestPartialRowScoresWithoutBonus() {
	s.load("ar")
	result := s.service.ScoreGrid(s.grid(
		"AR..",
		"....",
		"....",
		"....",
	))

	s.Require().Len(result.Words, 1)
	s.Equal("AR", result.Words[0].Text)
	s.False(result.Words[0].IsComplete)
	s.Equal(2, result.Words[0].Points) // no bonus on an incomplete row
	s.Equal(2, result.TotalPoints)
}

func (s *ServiceSuite) TestCompletionBonusAwardedOncePerLine() {
	// Complete row partitions into two words; the +2 lands on the first
	s.load("lås", "ta")
	result := s.service.ScoreGrid(s.grid(
		"LÅSTA",
		".....",
		".....",
		".....",
		".....",
	))

	s.Require().Len(result.Words, 2)
	s.Equal("LÅS", result.Words[0].Text)
	s.Equal(8, result.Words[0].Points) // 6 + bonus
	s.Equal("TA", result.Words[1].Text)
	s.Equal(2, result.Words[1].Points)
	s.Equal(10, result.TotalPoints)
	s.Equal(1, result.CompletedRows)
}

func (s *ServiceSuite) TestVerticalWordScoring() {
	s.load("ar")
	result := s.service.ScoreGrid(s.grid(
		"A...",
		"R...",
		"....",
		"....",
	))

	s.Require().Len(result.Words, 1)
	word := result.Words[0]
	s.Equal("AR", word.Text)
	s.Equal(model.DirectionVertical, word.Direction)
	s.Equal(0, word.StartX)
	s.Equal(0, word.StartY)
	s.Require().Len(word.Letters, 2)
	s.Equal(model.PlacedLetter{X: 0, Y: 0, Letter: "A"}, word.Letters[0])
	s.Equal(model.PlacedLetter{X: 0, Y: 1, Letter: "R"}, word.Letters[1])
}

func (s *ServiceSuite) TestLetterCountsInBothAxes() {
	// The A at (0,0) participates in both a horizontal and a vertical word
	s.load("ar")
	result := s.service.ScoreGrid(s.grid(
		"AR..",
		"R...",
		"....",
		"....",
	))

	s.Require().Len(result.Words, 2)
	s.Equal(model.DirectionHorizontal, result.Words[0].Direction)
	s.Equal(model.DirectionVertical, result.Words[1].Direction)
	s.Equal(4, result.TotalPoints)
}

func (s *ServiceSuite) TestRunsShorterThanTwoAreIgnored() {
	s.load("ar")
	result := s.service.ScoreGrid(s.grid(
		"A.A.",
		"....",
		"....",
		"....",
	))

	s.Empty(result.Words)
	s.Equal(0, result.TotalPoints)
}

func (s *ServiceSuite) TestCompleteLineWithNoWordsStillCounts() {
	// A filled line with no dictionary words completes the line but
	// scores nothing; the bonus needs a word to attach to
	s.load("rast")
	result := s.service.ScoreGrid(s.grid(
		"XQZW",
		"....",
		"....",
		"....",
	))

	s.Empty(result.Words)
	s.Equal(0, result.TotalPoints)
	s.Equal(1, result.CompletedRows)
}

func (s *ServiceSuite) TestScoringIsDeterministic() {
	s.load("lås", "ta", "ar", "rast")
	grid := s.grid(
		"LÅSTA",
		"A....",
		"R....",
		".RAST",
		".....",
	)

	first := s.service.ScoreGrid(grid)
	second := s.service.ScoreGrid(grid)

	s.Equal(first, second)
}

func (s *ServiceSuite) TestLeaderboardOrdering() {
	s.load("rast", "ar")

	players := []*model.Player{
		{UserID: "p1", Username: "alice", Position: 1},
		{UserID: "p2", Username: "bob", Position: 2},
		{UserID: "p3", Username: "carol", Position: 3},
	}
	grids := map[model.PlayerID]*model.Grid{
		"p1": s.grid("AR..", "....", "....", "...."), // 2 points
		"p2": s.grid("RAST", "....", "....", "...."), // 6 points
		"p3": s.grid("AR..", "....", "....", "...."), // 2 points
	}
	for id, g := range grids {
		g.PlayerID = id
	}

	entries := s.service.Leaderboard(players, grids)

	s.Require().Len(entries, 3)
	s.Equal(model.PlayerID("p2"), entries[0].UserID)
	s.Equal(6, entries[0].Score)
	// Tied players ordered by username
	s.Equal("alice", entries[1].Username)
	s.Equal("carol", entries[2].Username)
}

func (s *ServiceSuite) TestLeaderboardSkipsPlayersWithoutGrids() {
	s.load("ar")
	players := []*model.Player{
		{UserID: "p1", Username: "alice"},
		{UserID: "p2", Username: "bob"},
	}
	grids := map[model.PlayerID]*model.Grid{
		"p1": s.grid("AR..", "....", "....", "...."),
	}

	entries := s.service.Leaderboard(players, grids)

	s.Require().Len(entries, 1)
	s.Equal(model.PlayerID("p1"), entries[0].UserID)
}
