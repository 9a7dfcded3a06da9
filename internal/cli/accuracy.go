// internal/cli/accuracy.go
package passageqa

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/passageqa/internal/accuracy"
)

var (
	accuracyTopK    int
	accuracyLimit   int
	accuracyResults string
)

// accuracyCmd implements 'accuracy', which asks every question in a suite and
// reports exact match and F1 of the top-ranked answers.
var accuracyCmd = &cobra.Command{
	Use:   "accuracy <suite.json>",
	Short: "Score answers against a SQuAD-style question suite",
	Long: `Run each question in a SQuAD dataset file (or a {"tests": [...]} suite) through
the full pipeline and score the top answer with exact match and token F1.
Per-question results are appended as JSON lines to --results.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		suite, err := accuracy.LoadSuite(args[0])
		if err != nil {
			return err
		}
		service, err := openService(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		opts := accuracy.Options{TopK: accuracyTopK, Limit: accuracyLimit, ResultsPath: accuracyResults}
		if !JSONModeEnabled() {
			opts.Out = out
		}
		summary, err := accuracy.Run(cmd.Context(), service, suite, opts)
		if err != nil {
			return err
		}
		if JSONModeEnabled() {
			return writeJSON(out, summary)
		}
		fmt.Fprintf(out, "%s %d questions, %d errors, exact match %.3f, F1 %.3f\n",
			green("accuracy:"), summary.Questions, summary.Errors, summary.ExactMatch, summary.F1)
		return nil
	},
}

func init() {
	accuracyCmd.Flags().IntVar(&accuracyTopK, "topK", 0, "number of passages to retrieve per question (0 = config default)")
	accuracyCmd.Flags().IntVar(&accuracyLimit, "limit", 0, "ask at most this many questions (0 = all)")
	accuracyCmd.Flags().StringVar(&accuracyResults, "results", "passageqaData/accuracy/results.jsonl", "append per-question results to this JSONL file (empty to disable)")
	rootCmd.AddCommand(accuracyCmd)
}
