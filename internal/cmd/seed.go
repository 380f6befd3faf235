package cmd

import (
	"fmt"
	"log/slog"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/charmbracelet/virtualize/internal/log"
	"github.com/charmbracelet/virtualize/internal/store"
)

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Int("count", 0, "Number of entries to add (defaults to source.count)")
	seedCmd.Flags().StringP("path", "p", "", "Database to seed")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add generated entries to the sqlite database",
	Example: heredoc.Doc(`
		# Add the configured number of entries
		virtualize seed

		# Add a million entries to a specific database
		virtualize seed --count 1000000 --path ./big.db
	`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		slog.SetDefault(log.Console(cmd.ErrOrStderr(), cfg.Options.Debug))

		count := cfg.Source.Count
		if cmd.Flags().Changed("count") {
			count, _ = cmd.Flags().GetInt("count")
		}
		if count <= 0 {
			return fmt.Errorf("count must be greater than zero, got %d", count)
		}
		path := cfg.DatabasePath()
		if p, _ := cmd.Flags().GetString("path"); p != "" {
			path = p
		}

		s, err := store.Open(cmd.Context(), path)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Seed(cmd.Context(), count); err != nil {
			return err
		}
		total, err := s.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d entries to %s (%d total)\n", count, path, total)
		return nil
	},
}
