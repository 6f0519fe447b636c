package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/jlindh/ordgrid/internal/dependencies/clock"
	"github.com/jlindh/ordgrid/internal/dependencies/random"
	"github.com/jlindh/ordgrid/internal/dictionary"
	"github.com/jlindh/ordgrid/internal/events"
	"github.com/jlindh/ordgrid/internal/game"
	"github.com/jlindh/ordgrid/internal/scoring"
	"github.com/jlindh/ordgrid/internal/session"
	"github.com/jlindh/ordgrid/internal/storage"
	"github.com/jlindh/ordgrid/internal/storage/memory"
	redisstorage "github.com/jlindh/ordgrid/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Dictionary     *dictionary.Index
	ScoringService *scoring.Service
	GameController *game.Controller
	HubManager     *events.HubManager
	Coordinator    *session.Coordinator
}

// Config holds configuration for the application factory
type Config struct {
	// DictionaryPath is the path to the dictionary file (optional)
	// If empty, dictionary must be loaded manually
	DictionaryPath string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// RandomSeed makes auto-selection and auto-placement reproducible.
	// Zero means use crypto randomness.
	RandomSeed int64
	// Session holds session coordinator behavior settings
	Session session.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()

	var rnd random.Random
	if cfg.RandomSeed != 0 {
		rnd = random.NewSeeded(cfg.RandomSeed)
	} else {
		rnd = random.New()
	}

	return newWithDependencies(store, clk, rnd, cfg.Session, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, sessionCfg session.Config, logger *slog.Logger) *App {
	dict := dictionary.New(store, logger)
	scoringService := scoring.New(dict)
	gameController := game.NewController(store, scoringService, clk, rnd, logger)
	hubManager := events.NewHubManager(logger)
	coordinator := session.NewCoordinator(gameController, clk, hubManager, logger, sessionCfg)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Dictionary:     dict,
		ScoringService: scoringService,
		GameController: gameController,
		HubManager:     hubManager,
		Coordinator:    coordinator,
	}
}
