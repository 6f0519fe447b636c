package model

import (
	"testing"
)

func TestNormalizeWord(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase folds to uppercase",
			input:    "lås",
			expected: "LÅS",
		},
		{
			name:     "decomposed ring composes before folding",
			input:    "lÅs", // A + combining ring above
			expected: "LÅS",
		},
		{
			name:     "decomposed diaeresis",
			input:    "höna", // o + combining diaeresis
			expected: "HÖNA",
		},
		{
			name:     "already normalized passes through",
			input:    "STEN",
			expected: "STEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeWord(tt.input); got != tt.expected {
				t.Errorf("NormalizeWord(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeLetter(t *testing.T) {
	if got := NormalizeLetter('å'); got != 'Å' {
		t.Errorf("NormalizeLetter('å') = %q, want 'Å'", got)
	}
	if got := NormalizeLetter('a'); got != 'A' {
		t.Errorf("NormalizeLetter('a') = %q, want 'A'", got)
	}
}

func TestIsAlphabetLetter(t *testing.T) {
	for _, r := range Alphabet {
		if !IsAlphabetLetter(r) {
			t.Errorf("IsAlphabetLetter(%q) = false, want true", r)
		}
	}
	for _, r := range []rune{'7', '!', ' ', 0, 'é'} {
		if IsAlphabetLetter(r) {
			t.Errorf("IsAlphabetLetter(%q) = true, want false", r)
		}
	}
}

func TestLetterValues(t *testing.T) {
	tests := []struct {
		letter rune
		value  int
	}{
		{'A', 1},
		{'Q', 10},
		{'Z', 10},
		{'Å', 4},
		{'Ä', 4},
		{'Ö', 4},
		{0, 0},   // empty cell
		{'7', 0}, // outside the alphabet
	}

	for _, tt := range tests {
		if got := LetterValue(tt.letter); got != tt.value {
			t.Errorf("LetterValue(%q) = %d, want %d", tt.letter, got, tt.value)
		}
	}
}

func TestWordValue(t *testing.T) {
	// L(1) + Å(4) + S(1)
	if got := WordValue([]rune("LÅS")); got != 6 {
		t.Errorf("WordValue(LÅS) = %d, want 6", got)
	}
	if got := WordValue(nil); got != 0 {
		t.Errorf("WordValue(nil) = %d, want 0", got)
	}
}

func TestNewLetterPool(t *testing.T) {
	pool := NewLetterPool()

	total := 0
	counts := make(map[rune]int)
	for _, r := range pool {
		counts[r]++
		total++
	}

	if total != 100 {
		t.Errorf("pool has %d tiles, want 100", total)
	}
	if counts['A'] != 8 {
		t.Errorf("pool has %d A tiles, want 8", counts['A'])
	}
	if counts['Q'] != 1 {
		t.Errorf("pool has %d Q tiles, want 1", counts['Q'])
	}
	if counts['Ö'] != 2 {
		t.Errorf("pool has %d Ö tiles, want 2", counts['Ö'])
	}

	// Pool order is deterministic: tiles appear in alphabet order
	if pool[0] != 'A' || pool[len(pool)-1] != 'Ö' {
		t.Errorf("pool not in alphabet order: first %q, last %q", pool[0], pool[len(pool)-1])
	}
}
