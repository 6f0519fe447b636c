package scoring

import (
	"sort"

	"github.com/jlindh/ordgrid/internal/dictionary"
	"github.com/jlindh/ordgrid/internal/model"
	"github.com/jlindh/ordgrid/internal/partition"
)

// CompletionBonus is awarded once per fully filled row or column,
// attached to the first word of the line.
const CompletionBonus = 2

// Service scores grids by extracting letter runs from rows and columns and
// partitioning each run into dictionary words. Scoring is pure: the same
// grid snapshot always produces the same result.
type Service struct {
	partitioner *partition.Partitioner
}

// New creates a new scoring Service
func New(dict *dictionary.Index) *Service {
	return &Service{
		partitioner: partition.New(dict),
	}
}

// run is a maximal contiguous sequence of filled cells along one line.
type run struct {
	letters []rune
	start   int // Offset of the run within its line
}

// scanRuns collects maximal contiguous filled spans of length >=2.
func scanRuns(line []rune) []run {
	var runs []run
	start := -1
	for i := 0; i <= len(line); i++ {
		filled := i < len(line) && line[i] != 0
		if filled && start == -1 {
			start = i
		}
		if !filled && start != -1 {
			if i-start >= 2 {
				runs = append(runs, run{letters: line[start:i], start: start})
			}
			start = -1
		}
	}
	return runs
}

func lineComplete(line []rune) bool {
	for _, r := range line {
		if r == 0 {
			return false
		}
	}
	return true
}

// ScoreGrid scores a grid snapshot. Rows and columns are scanned
// independently, so one letter can count toward both a horizontal and a
// vertical word.
func (s *Service) ScoreGrid(grid *model.Grid) *model.GridScore {
	result := &model.GridScore{
		Words: []model.Word{},
	}

	for y := 0; y < grid.Size; y++ {
		line := grid.Row(y)
		complete := lineComplete(line)
		if complete {
			result.CompletedRows++
		}
		for _, r := range scanRuns(line) {
			for i, seg := range s.partitioner.Partition(r.letters) {
				word := buildWord(seg, model.DirectionHorizontal, r.start, y, complete)
				if complete && i == 0 {
					word.Points += CompletionBonus
				}
				result.Words = append(result.Words, word)
				result.TotalPoints += word.Points
			}
		}
	}

	for x := 0; x < grid.Size; x++ {
		line := grid.Col(x)
		complete := lineComplete(line)
		if complete {
			result.CompletedCols++
		}
		for _, r := range scanRuns(line) {
			for i, seg := range s.partitioner.Partition(r.letters) {
				word := buildWord(seg, model.DirectionVertical, r.start, x, complete)
				if complete && i == 0 {
					word.Points += CompletionBonus
				}
				result.Words = append(result.Words, word)
				result.TotalPoints += word.Points
			}
		}
	}

	return result
}

// buildWord expands a segment into a Word record with cell coordinates.
// For horizontal words lineOffset is the row y; for vertical, the column x.
func buildWord(seg partition.Segment, dir model.Direction, runStart, lineOffset int, complete bool) model.Word {
	runes := []rune(seg.Text)
	letters := make([]model.PlacedLetter, len(runes))
	startInLine := runStart + seg.Start

	var startX, startY int
	for i, r := range runes {
		var x, y int
		if dir == model.DirectionHorizontal {
			x, y = startInLine+i, lineOffset
		} else {
			x, y = lineOffset, startInLine+i
		}
		letters[i] = model.PlacedLetter{X: x, Y: y, Letter: string(r)}
	}
	startX, startY = letters[0].X, letters[0].Y

	return model.Word{
		Text:       seg.Text,
		Points:     seg.Points,
		StartX:     startX,
		StartY:     startY,
		Direction:  dir,
		IsComplete: complete,
		Letters:    letters,
	}
}

// Leaderboard scores one grid per entry and returns entries sorted by
// score descending, ties by username for a stable order.
func (s *Service) Leaderboard(players []*model.Player, grids map[model.PlayerID]*model.Grid) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, 0, len(players))
	for _, p := range players {
		grid := grids[p.UserID]
		if grid == nil {
			continue
		}
		score := s.ScoreGrid(grid)
		entries = append(entries, model.LeaderboardEntry{
			UserID:   p.UserID,
			Username: p.Username,
			Score:    score.TotalPoints,
			Grid:     grid,
			Words:    score.Words,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Username < entries[j].Username
	})

	return entries
}
