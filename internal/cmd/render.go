package cmd

import (
	"fmt"
	"log/slog"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/charmbracelet/virtualize/internal/log"
	"github.com/charmbracelet/virtualize/internal/virtualize"
)

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringSlice("items", nil, "Items of the list")
	renderCmd.Flags().Int("count", 20, "Number of generated items when --items is not set")
	renderCmd.Flags().Float64("item-size", 10, "Size of every item")
	renderCmd.Flags().Float64("spacer", 0, "Measured spacer size")
	renderCmd.Flags().Float64("container", 50, "Measured container size")
	renderCmd.Flags().String("edge", "before", "Spacer that became visible (before, after)")
	renderCmd.Flags().Bool("pending", false, "Render before the fetch for the event completes")
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the layout for one viewport measurement",
	Long: heredoc.Doc(`
		Feed a single spacer measurement to a list and print the resulting
		layout: the leading spacer, every item or placeholder slot, and the
		trailing spacer.
	`),
	Example: heredoc.Doc(`
		# Scroll 25 units into a list of five items of size 10
		virtualize render --items A,B,C,D,E --spacer 25 --container 10

		# What is shown while the page is still loading
		virtualize render --count 1000 --spacer 400 --pending

		# The trailing spacer became visible
		virtualize render --count 1000 --edge after --spacer 300
	`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		debug, _ := flags.GetBool("debug")
		items, _ := flags.GetStringSlice("items")
		count, _ := flags.GetInt("count")
		itemSize, _ := flags.GetFloat64("item-size")
		spacer, _ := flags.GetFloat64("spacer")
		container, _ := flags.GetFloat64("container")
		edge, _ := flags.GetString("edge")
		pending, _ := flags.GetBool("pending")

		if !flags.Changed("items") {
			items = make([]string, max(count, 0))
			for i := range items {
				items[i] = fmt.Sprintf("item-%d", i)
			}
		}

		layout, err := renderLayout(renderRequest{
			items:     items,
			itemSize:  itemSize,
			spacer:    spacer,
			container: container,
			edge:      edge,
			pending:   pending,
		}, log.Console(cmd.ErrOrStderr(), debug))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), layout.String())
		return nil
	},
}

type renderRequest struct {
	items     []string
	itemSize  float64
	spacer    float64
	container float64
	edge      string
	pending   bool
}

// renderLayout replays one measurement against a virtualizer that already
// shows the top of the list, so the total count is known.
func renderLayout(req renderRequest, logger *slog.Logger) (virtualize.Layout[string], error) {
	v, err := virtualize.New(virtualize.Options[string]{
		ItemSize: req.itemSize,
		Provider: virtualize.FromSlice(req.items).Fetch,
		Logger:   logger,
	})
	if err != nil {
		return virtualize.Layout[string]{}, err
	}
	defer v.Close()

	if req.edge != "before" && req.edge != "after" {
		return virtualize.Layout[string]{}, fmt.Errorf("unknown edge %q, expected before or after", req.edge)
	}
	if first := v.OnBeforeSpacerVisible(0, req.container); first != nil {
		v.Complete(first.Run())
	}

	var f *virtualize.Fetch[string]
	if req.edge == "before" {
		f = v.OnBeforeSpacerVisible(req.spacer, req.container)
	} else {
		f = v.OnAfterSpacerVisible(req.spacer, req.container)
	}
	if f != nil && !req.pending {
		v.Complete(f.Run())
	}

	layout, err := v.Render()
	if err != nil {
		return virtualize.Layout[string]{}, err
	}
	logger.Debug("Rendered layout",
		"state", v.State(),
		"items_before", layout.ItemsBefore,
		"slots", len(layout.Slots),
		"placeholders", layout.Placeholders(),
	)
	return layout, nil
}
