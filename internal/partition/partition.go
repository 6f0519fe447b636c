package partition

import (
	"github.com/jlindh/ordgrid/internal/dictionary"
	"github.com/jlindh/ordgrid/internal/model"
)

// Segment is one dictionary word chosen from a run, with its offset
// within the run.
type Segment struct {
	Text   string
	Start  int // Offset within the run, in runes
	Points int // Sum of letter values, no bonuses
}

// Partitioner segments a contiguous run of letters into dictionary words.
type Partitioner struct {
	dict *dictionary.Index
}

// New creates a new Partitioner
func New(dict *dictionary.Index) *Partitioner {
	return &Partitioner{dict: dict}
}

// Partition finds the segmentation of the run into non-overlapping
// dictionary words (length >=2, left to right) that maximizes total point
// value. Ties are broken by fewest words, then by taking the longest word
// at the leftmost position. Characters that fit no word are dropped.
// Returns nil when no valid word exists anywhere in the run.
func (p *Partitioner) Partition(run []rune) []Segment {
	n := len(run)
	if n < 2 {
		return nil
	}

	// best[i] is the best result for the suffix starting at i.
	// choice[i] is the end of the word taken at i, or -1 to drop run[i].
	points := make([]int, n+1)
	words := make([]int, n+1)
	choice := make([]int, n+1)

	for i := n - 1; i >= 0; i-- {
		points[i] = points[i+1]
		words[i] = words[i+1]
		choice[i] = -1

		// Collect word ends while the dictionary still has words starting
		// with run[i:k]; past that point longer candidates cannot exist.
		var ends []int
		for k := i + 2; k <= n; k++ {
			if !p.dict.HasPrefix(string(run[i:k])) {
				break
			}
			if p.dict.Contains(string(run[i:k])) {
				ends = append(ends, k)
			}
		}

		// Longest-first so that equal-scoring alternatives resolve to the
		// longest word at this position. A full tie against dropping run[i]
		// still takes the word, keeping results leftmost.
		for j := len(ends) - 1; j >= 0; j-- {
			k := ends[j]
			candPoints := model.WordValue(run[i:k]) + points[k]
			candWords := 1 + words[k]
			better := candPoints > points[i] ||
				(candPoints == points[i] && candWords < words[i]) ||
				(candPoints == points[i] && candWords == words[i] && choice[i] == -1)
			if better {
				points[i] = candPoints
				words[i] = candWords
				choice[i] = k
			}
		}
	}

	// Reconstruct left to right
	var segs []Segment
	for i := 0; i < n; {
		if choice[i] == -1 {
			i++
			continue
		}
		k := choice[i]
		segs = append(segs, Segment{
			Text:   string(run[i:k]),
			Start:  i,
			Points: model.WordValue(run[i:k]),
		})
		i = k
	}
	return segs
}
