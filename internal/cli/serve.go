package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jlindh/ordgrid/internal/api"
	"github.com/jlindh/ordgrid/internal/factory"
	"github.com/jlindh/ordgrid/internal/session"
	redisstorage "github.com/jlindh/ordgrid/internal/storage/redis"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	cmd.Flags().StringVar(&cfg.Host, "host", cfg.Host, "Listen host (env: ORDGRID_HOST)")
	cmd.Flags().IntVar(&cfg.Port, "port", cfg.Port, "Listen port (env: ORDGRID_PORT)")
	cmd.Flags().StringVar(&cfg.StorageType, "storage", cfg.StorageType, "Storage backend: memory, redis (env: ORDGRID_STORAGE)")
	cmd.Flags().StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL (env: ORDGRID_REDIS_URL)")
	cmd.Flags().StringVar(&cfg.DictionaryPath, "dictionary", cfg.DictionaryPath, "Dictionary file, one word per line (env: ORDGRID_DICTIONARY)")
	cmd.Flags().Int64Var(&cfg.RandomSeed, "seed", cfg.RandomSeed, "Seed for auto-action randomness, 0 for crypto random")
	cmd.Flags().BoolVar(&cfg.EndOnLeave, "end-on-leave", cfg.EndOnLeave, "Finish a game when any player leaves (env: ORDGRID_END_ON_LEAVE)")

	return cmd
}

func runServe() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		DictionaryPath: cfg.DictionaryPath,
		Logger:         logger,
		StorageType:    cfg.StorageType,
		RandomSeed:     cfg.RandomSeed,
		Session:        session.Config{EndOnLeave: cfg.EndOnLeave},
	}
	if cfg.StorageType == factory.StorageTypeRedis {
		if cfg.RedisURL == "" {
			return fmt.Errorf("--redis-url required when storage is redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer app.Coordinator.Close()

	// Prefer a previously persisted dictionary; fall back to the file
	if err := app.Dictionary.LoadFromStorage(context.Background()); err != nil || app.Dictionary.WordCount() == 0 {
		if err := app.Dictionary.LoadFromFile(context.Background(), cfg.DictionaryPath); err != nil {
			// Scoring fails closed without a dictionary; the server still runs
			logger.Warn("could not load dictionary",
				slog.String("path", cfg.DictionaryPath),
				slog.Any("error", err))
		}
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Coordinator: app.Coordinator,
	})

	serverCfg := api.DefaultServerConfig()
	serverCfg.Host = cfg.Host
	serverCfg.Port = cfg.Port
	server := api.NewServer(router, serverCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
