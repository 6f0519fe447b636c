package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jlindh/ordgrid/internal/dictionary"
	"github.com/jlindh/ordgrid/internal/model"
	"github.com/jlindh/ordgrid/internal/storage/memory"
)

func newDictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Dictionary utilities",
	}
	cmd.AddCommand(newDictCheckCmd())
	return cmd
}

func newDictCheckCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "check [words...]",
		Short: "Load a dictionary file and check words against it",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
			idx := dictionary.New(memory.New(), logger)
			if err := idx.LoadFromFile(context.Background(), path); err != nil {
				return fmt.Errorf("failed to load dictionary: %w", err)
			}
			fmt.Printf("loaded %d words\n", idx.WordCount())

			for _, word := range args {
				normalized := model.NormalizeWord(word)
				if idx.Contains(word) {
					fmt.Printf("%s: found (%d points)\n", normalized, model.WordValue([]rune(normalized)))
				} else {
					fmt.Printf("%s: not found\n", normalized)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "file", "data/words.txt", "Dictionary file, one word per line")
	return cmd
}
