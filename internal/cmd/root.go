package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/charmbracelet/virtualize/internal/config"
	"github.com/charmbracelet/virtualize/internal/demo"
	"github.com/charmbracelet/virtualize/internal/filesource"
	"github.com/charmbracelet/virtualize/internal/log"
	"github.com/charmbracelet/virtualize/internal/store"
	"github.com/charmbracelet/virtualize/internal/tui"
	"github.com/charmbracelet/virtualize/internal/tui/exp/vlist"
	"github.com/charmbracelet/virtualize/internal/tui/styles"
	"github.com/charmbracelet/virtualize/internal/version"
	"github.com/charmbracelet/virtualize/internal/virtualize"
)

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the config file")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.Flags().StringP("source", "s", "", "Item source (memory, sqlite, file)")
	rootCmd.Flags().Int("count", 0, "Number of generated items")
	rootCmd.Flags().String("latency", "", "Delay every fetch, e.g. 150ms")
	rootCmd.Flags().Int("item-height", 0, "Rows per item")
	rootCmd.Flags().StringP("path", "p", "", "File to browse, or database for the sqlite source")
}

var rootCmd = &cobra.Command{
	Use:   "virtualize",
	Short: "Browse very long lists in the terminal",
	Long: heredoc.Doc(`
		Browse lists with millions of entries in the terminal.
		Only the rows around the viewport are loaded. The rest of the list is
		represented by spacers that keep the scroll position and scrollbar
		accurate.
	`),
	Example: heredoc.Doc(`
		# Browse 10,000 generated entries
		virtualize

		# A million entries from a slow backend
		virtualize --count 1000000 --latency 200ms

		# Follow a growing log file
		virtualize --source file --path /var/log/system.log

		# Browse the sqlite database, two rows per entry
		virtualize --source sqlite --item-height 2
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log.Setup(cfg.LogFile(), cfg.Options.Debug)
		defer log.RecoverPanic("main", nil)

		slog.Info("Starting", "version", version.Version, "source", cfg.Source.Kind)
		return run(cmd.Context(), cfg)
	},
}

func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
	); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the command line on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	if path == "" {
		path = config.GlobalConfig()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if flags.Changed("debug") {
		cfg.Options.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("source") {
		kind, _ := flags.GetString("source")
		cfg.Source.Kind = config.SourceKind(kind)
	}
	if flags.Changed("count") {
		cfg.Source.Count, _ = flags.GetInt("count")
	}
	if flags.Changed("latency") {
		cfg.Source.Latency, _ = flags.GetString("latency")
	}
	if flags.Changed("item-height") {
		cfg.List.ItemHeight, _ = flags.GetInt("item-height")
	}
	if flags.Changed("path") {
		cfg.Source.Path, _ = flags.GetString("path")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	latency, err := cfg.Latency()
	if err != nil {
		return err
	}
	height := cfg.List.ItemHeight

	switch cfg.Source.Kind {
	case config.SourceSQLite:
		s, err := store.Open(ctx, cfg.DatabasePath())
		if err != nil {
			return err
		}
		defer s.Close()
		n, err := s.Count(ctx)
		if err != nil {
			return err
		}
		if n == 0 && cfg.Source.Count > 0 {
			if err := s.Seed(ctx, cfg.Source.Count); err != nil {
				return err
			}
		}
		return runList(ctx, cfg, "entries · "+cfg.DatabasePath(), vlist.Options[store.Entry]{
			Provider: demo.Delay[store.Entry](s.Fetch, latency),
			ItemTemplate: func(e store.Entry, _ int) string {
				created := time.Unix(e.CreatedAt, 0).Format(time.DateTime)
				return itemView(height, fmt.Sprintf("%6d  %s", e.Seq, e.Title), e.ID+"  "+created)
			},
		}, nil)

	case config.SourceFile:
		src, err := filesource.Open(cfg.Source.Path)
		if err != nil {
			return err
		}
		watch := func(ctx context.Context, p *tea.Program) {
			defer log.RecoverPanic("watch", nil)
			if err := src.Watch(ctx, func() { p.Send(tui.RefreshMsg{}) }); err != nil {
				slog.Error("Failed to watch file", "path", src.Path(), "error", err)
			}
		}
		return runList(ctx, cfg, src.Path(), vlist.Options[filesource.Line]{
			Provider: demo.Delay[filesource.Line](src.Fetch, latency),
			ItemTemplate: func(l filesource.Line, _ int) string {
				return itemView(height, fmt.Sprintf("%6d  %s", l.Number, l.Text), "")
			},
		}, watch)

	default:
		items := demo.Items(cfg.Source.Count)
		opts := vlist.Options[demo.Item]{
			ItemTemplate: func(it demo.Item, _ int) string {
				return itemView(height, fmt.Sprintf("%6d  %s", it.Index+1, it.Title), it.ID)
			},
		}
		if latency > 0 {
			opts.Provider = demo.Provider(items, latency)
		} else {
			opts.Items = items
		}
		return runList(ctx, cfg, fmt.Sprintf("%d generated entries", len(items)), opts, nil)
	}
}

func runList[T any](
	ctx context.Context,
	cfg *config.Config,
	title string,
	opts vlist.Options[T],
	watch func(context.Context, *tea.Program),
) error {
	opts.ItemHeight = cfg.List.ItemHeight
	if cfg.List.Placeholder != "" {
		opts.PlaceholderTemplate = textPlaceholder(cfg.List.Placeholder)
	}
	l, err := vlist.New(opts,
		vlist.WithEnableMouse(),
		vlist.WithScrollbar(cfg.ScrollbarEnabled()),
	)
	if err != nil {
		return err
	}
	defer l.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(
		tui.New(l, title),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithMouseCellMotion(),
	)
	if watch != nil {
		go watch(ctx, program)
	}

	if _, err := program.Run(); err != nil {
		slog.Error("TUI run error", "error", err)
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}

// itemView renders a title row and, for taller items, a muted detail row.
func itemView(height int, title, detail string) string {
	t := styles.CurrentTheme()
	if height < 2 || detail == "" {
		return t.S().Base.Render(title)
	}
	return t.S().Base.Render(title) + "\n" + t.S().Muted.Render("        "+detail)
}

func textPlaceholder(text string) vlist.PlaceholderTemplate {
	return func(virtualize.PlaceholderContext, int) string {
		return styles.CurrentTheme().S().Placeholder.Render("        " + text)
	}
}
