package dictionary

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/jlindh/ordgrid/internal/model"
	"github.com/jlindh/ordgrid/internal/storage"
)

// Index provides dictionary membership and prefix queries.
// All lookups are case- and diacritic-normalized. The index is read-only
// once loaded, and it fails closed: before a successful load every lookup
// returns false, so scoring degrades to zero words instead of failing.
type Index struct {
	storage storage.Storage
	logger  *slog.Logger

	mu       sync.RWMutex
	words    map[string]struct{}
	prefixes map[string]struct{}
	loaded   bool
}

// New creates a new dictionary Index
func New(storage storage.Storage, logger *slog.Logger) *Index {
	return &Index{
		storage:  storage,
		logger:   logger,
		words:    make(map[string]struct{}),
		prefixes: make(map[string]struct{}),
	}
}

// LoadFromStorage loads dictionary words from storage
func (idx *Index) LoadFromStorage(ctx context.Context) error {
	words, err := idx.storage.GetDictionaryWords(ctx)
	if err != nil {
		return err
	}
	return idx.loadWords(words)
}

// LoadFromFile loads dictionary words from a file (one word per line)
func (idx *Index) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	// Save to storage for future use
	if err := idx.storage.SaveDictionaryWords(ctx, words); err != nil {
		return err
	}

	return idx.loadWords(words)
}

// LoadWords directly loads a slice of words (useful for testing)
func (idx *Index) LoadWords(words []string) error {
	return idx.loadWords(words)
}

func (idx *Index) loadWords(words []string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.words = make(map[string]struct{}, len(words))
	idx.prefixes = make(map[string]struct{})
	for _, word := range words {
		normalized := model.NormalizeWord(word)
		if len(normalized) == 0 {
			continue
		}
		idx.words[normalized] = struct{}{}
		// Index every proper prefix for O(1) prefix queries
		runes := []rune(normalized)
		for i := 1; i <= len(runes); i++ {
			idx.prefixes[string(runes[:i])] = struct{}{}
		}
	}
	idx.loaded = true

	if idx.logger != nil {
		idx.logger.Info("dictionary loaded", slog.Int("word_count", len(idx.words)))
	}
	return nil
}

// Contains checks if a word exists in the dictionary.
// Words must be at least 2 characters.
func (idx *Index) Contains(word string) bool {
	normalized := model.NormalizeWord(word)
	if len([]rune(normalized)) < 2 {
		return false
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.loaded {
		return false
	}

	_, ok := idx.words[normalized]
	return ok
}

// HasPrefix checks if any dictionary word starts with the given prefix.
// Used by the partitioner to prune dead-end extensions.
func (idx *Index) HasPrefix(prefix string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.loaded {
		return false
	}

	_, ok := idx.prefixes[model.NormalizeWord(prefix)]
	return ok
}

// IsLoaded returns whether the dictionary has been loaded
func (idx *Index) IsLoaded() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.loaded
}

// WordCount returns the number of words in the dictionary
func (idx *Index) WordCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.words)
}

// Interface for dependency injection
type IndexInterface interface {
	Contains(word string) bool
	HasPrefix(prefix string) bool
	IsLoaded() bool
	WordCount() int
	LoadFromStorage(ctx context.Context) error
	LoadFromFile(ctx context.Context, path string) error
	LoadWords(words []string) error
}

var _ IndexInterface = (*Index)(nil)
