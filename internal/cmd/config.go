package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/charmbracelet/virtualize/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: heredoc.Doc(`
		Set a single value in the configuration file. Keys use dots for
		nesting. Values are parsed as JSON when possible and stored as strings
		otherwise.
	`),
	Example: heredoc.Doc(`
		virtualize config set list.item_height 2
		virtualize config set source.kind sqlite
		virtualize config set list.scrollbar false
	`),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = config.GlobalConfig()
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		key, raw := args[0], args[1]
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		if err := cfg.SetConfigField(key, value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", key, path)
		return nil
	},
}
