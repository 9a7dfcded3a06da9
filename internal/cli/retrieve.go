// internal/cli/retrieve.go
package passageqa

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwiater/passageqa/internal/rag"
)

var (
	retrieveTopK     int
	retrieveMaxWords int
)

// retrieveCmd implements 'retrieve', which previews the passages a question
// would be answered from without running extraction.
var retrieveCmd = &cobra.Command{
	Use:   "retrieve <question>",
	Short: "Preview the passages retrieved for a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		service, err := openService(cfg)
		if err != nil {
			return err
		}

		question := strings.Join(args, " ")
		results, err := service.Retrieve(cmd.Context(), question, retrieveTopK)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if JSONModeEnabled() {
			return writeJSON(out, struct {
				Question string            `json:"question"`
				Passages []rag.QueryResult `json:"passages"`
			}{Question: question, Passages: results})
		}
		if len(results) == 0 {
			fmt.Fprintln(out, yellow("No passages retrieved."))
			return nil
		}
		fmt.Fprintln(out, rag.FormatResults(results, retrieveMaxWords))
		return nil
	},
}

func init() {
	retrieveCmd.Flags().IntVar(&retrieveTopK, "topK", 0, "number of passages to retrieve (0 = config default)")
	retrieveCmd.Flags().IntVar(&retrieveMaxWords, "maxWords", 40, "truncate each preview to this many words (0 = full passage)")
	rootCmd.AddCommand(retrieveCmd)
}
