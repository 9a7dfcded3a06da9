// internal/cli/shell.go
package passageqa

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mwiater/passageqa/internal/tui"
)

var shellTopK int

// startShell is a variable so tests can exercise the command without a terminal.
var startShell = func(ctx context.Context, service tui.Asker, topK int) error {
	return tui.Run(ctx, service, topK)
}

// shellCmd implements 'shell', an interactive question loop over the index.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Ask questions interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		service, err := openService(cfg)
		if err != nil {
			return err
		}
		topK := cfg.DefaultTopK()
		if shellTopK > 0 {
			topK = shellTopK
		}
		return startShell(cmd.Context(), service, topK)
	},
}

func init() {
	shellCmd.Flags().IntVar(&shellTopK, "topK", 0, "number of passages to retrieve per question (0 = config default)")
	rootCmd.AddCommand(shellCmd)
}
