// internal/cli/build.go
package passageqa

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/passageqa/internal/corpus"
	"github.com/mwiater/passageqa/internal/providerfactory"
	"github.com/mwiater/passageqa/internal/rag"
)

var buildForce bool

// buildCmd implements 'build', which chunks the corpus, embeds every passage
// and writes the index and passage table.
var buildCmd = &cobra.Command{
	Use:   "build [corpus path]",
	Short: "Build the passage index from the corpus",
	Long: `Discover documents under the corpus path (from config, or the optional argument),
split them into overlapping passages, embed every passage and persist the index
and passage table. Existing artifacts are kept unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !buildForce && rag.NewArtifacts(*cfg).Exists() {
			if JSONModeEnabled() {
				return writeJSON(out, rag.BuildStats{Skipped: true})
			}
			fmt.Fprintf(out, "%s index already exists at %s (use --force to rebuild)\n", yellow("skipped:"), cfg.IndexPath())
			return nil
		}
		root := cfg.CorpusRoot()
		if len(args) == 1 {
			root = args[0]
		}

		paths, err := corpus.Discover(root, cfg.CorpusAllowedExtensions, cfg.CorpusExcludeGlobs)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no documents found under %s", root)
		}
		documents, readStats, err := corpus.ReadDocuments(paths)
		if err != nil {
			return err
		}

		embedder, err := providerfactory.NewEmbedder(cfg)
		if err != nil {
			return err
		}
		stats, err := rag.BuildIndex(cmd.Context(), *cfg, embedder, documents, buildForce)
		if err != nil {
			return err
		}

		if JSONModeEnabled() {
			return writeJSON(out, struct {
				Files int `json:"files"`
				rag.BuildStats
			}{Files: readStats.Files, BuildStats: stats})
		}
		if stats.Skipped {
			fmt.Fprintf(out, "%s index already exists at %s (use --force to rebuild)\n", yellow("skipped:"), cfg.IndexPath())
			return nil
		}
		fmt.Fprintf(out, "%s %d files, %d documents (%d unique), %d passages, dimension %d\n",
			green("built:"), readStats.Files, stats.DocumentsRead, stats.UniqueDocuments, stats.Passages, stats.Dimension)
		fmt.Fprintf(out, "  index:    %s\n  passages: %s\n", cfg.IndexPath(), cfg.PassagesPath())
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildForce, "force", false, "rebuild even if index artifacts already exist")
	rootCmd.AddCommand(buildCmd)
}
