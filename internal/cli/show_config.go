// internal/cli/show_config.go
package passageqa

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/passageqa/internal/appconfig"
	"github.com/mwiater/passageqa/internal/rag"
)

// showConfigCmd implements 'show config', which prints the merged settings so
// config file and flag overrides can be checked.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags accordingly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		if JSONModeEnabled() {
			return writeJSON(cmd.OutOrStdout(), cfg)
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), cfg)
		return nil
	},
}

// showIndexCmd implements 'show index', which loads the persisted artifacts
// and reports what they contain.
var showIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Show statistics for the persisted index",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		artifacts := rag.NewArtifacts(*cfg)
		index, passages, err := artifacts.Load(cfg.EmbeddingDimension)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		stats := struct {
			IndexPath    string `json:"index_path"`
			PassagesPath string `json:"passages_path"`
			Passages     int    `json:"passages"`
			Dimension    int    `json:"dimension"`
			BuildID      string `json:"build_id"`
		}{artifacts.IndexPath, artifacts.PassagesPath, len(passages), index.Dimension(), index.BuildID().String()}
		if JSONModeEnabled() {
			return writeJSON(out, stats)
		}
		fmt.Fprintf(out, "Index file:    %s\n", stats.IndexPath)
		fmt.Fprintf(out, "Passages file: %s\n", stats.PassagesPath)
		fmt.Fprintf(out, "Passages:      %d\n", stats.Passages)
		fmt.Fprintf(out, "Dimension:     %d\n", stats.Dimension)
		fmt.Fprintf(out, "Build ID:      %s\n", stats.BuildID)
		return nil
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
	showCmd.AddCommand(showIndexCmd)
}
