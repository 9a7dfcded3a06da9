// internal/cli/ask.go
package passageqa

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwiater/passageqa/internal/rag"
)

var askTopK int

// askCmd implements 'ask', which runs the full retrieve, extract and rank
// pipeline for one question.
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from the indexed corpus",
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
		answers, err := service.Ask(cmd.Context(), question, askTopK)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if JSONModeEnabled() {
			return writeJSON(out, struct {
				Question string             `json:"question"`
				Answers  []rag.RankedAnswer `json:"answers"`
			}{Question: question, Answers: answers})
		}
		if len(answers) == 0 {
			fmt.Fprintln(out, yellow("No passages retrieved."))
			return nil
		}
		fmt.Fprint(out, rag.FormatAnswers(answers))
		return nil
	},
}

func init() {
	askCmd.Flags().IntVar(&askTopK, "topK", 0, "number of passages to retrieve (0 = config default)")
	rootCmd.AddCommand(askCmd)
}
