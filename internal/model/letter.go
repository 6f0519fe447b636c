package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Alphabet is the reference alphabet, Swedish A-Z plus Å/Ä/Ö.
// Pool construction iterates this string so pool order is deterministic.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZÅÄÖ"

// letterValues is the static point value table for the reference alphabet.
var letterValues = map[rune]int{
	'A': 1, 'B': 4, 'C': 8, 'D': 1, 'E': 1, 'F': 3, 'G': 2, 'H': 3,
	'I': 1, 'J': 7, 'K': 3, 'L': 1, 'M': 3, 'N': 1, 'O': 2, 'P': 4,
	'Q': 10, 'R': 1, 'S': 1, 'T': 1, 'U': 4, 'V': 3, 'W': 8, 'X': 8,
	'Y': 7, 'Z': 10, 'Å': 4, 'Ä': 4, 'Ö': 4,
}

// letterCounts is the tile distribution used to build the shared letter pool.
var letterCounts = map[rune]int{
	'A': 8, 'B': 2, 'C': 1, 'D': 5, 'E': 7, 'F': 2, 'G': 3, 'H': 2,
	'I': 5, 'J': 1, 'K': 3, 'L': 5, 'M': 3, 'N': 6, 'O': 5, 'P': 2,
	'Q': 1, 'R': 8, 'S': 8, 'T': 8, 'U': 3, 'V': 2, 'W': 1, 'X': 1,
	'Y': 1, 'Z': 1, 'Å': 2, 'Ä': 2, 'Ö': 2,
}

// NormalizeWord case-folds and canonicalizes a word so that decomposed
// accented letters (e.g. A + combining ring) compare equal to their
// composed forms.
func NormalizeWord(s string) string {
	return strings.ToUpper(norm.NFC.String(s))
}

// NormalizeLetter normalizes a single letter. Returns 0 if the input does
// not normalize to exactly one rune.
func NormalizeLetter(r rune) rune {
	normalized := []rune(NormalizeWord(string(r)))
	if len(normalized) != 1 {
		return 0
	}
	return normalized[0]
}

// IsAlphabetLetter reports whether the (normalized) rune is part of the
// configured alphabet.
func IsAlphabetLetter(r rune) bool {
	_, ok := letterValues[r]
	return ok
}

// LetterValue returns the point value of a letter, or 0 for empty cells
// and letters outside the alphabet.
func LetterValue(r rune) int {
	return letterValues[r]
}

// WordValue returns the sum of letter values for a sequence of letters.
func WordValue(letters []rune) int {
	total := 0
	for _, r := range letters {
		total += letterValues[r]
	}
	return total
}

// NewLetterPool builds the shared letter pool in alphabet order.
func NewLetterPool() []rune {
	var pool []rune
	for _, r := range Alphabet {
		for i := 0; i < letterCounts[r]; i++ {
			pool = append(pool, r)
		}
	}
	return pool
}
