// internal/cli/serve.go
package passageqa

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mwiater/passageqa/internal/server"
)

var serveAddr string

// runServer is swapped out in tests.
var runServer = func(ctx context.Context, service server.QueryService, addr string) error {
	return server.New(service).Run(ctx, addr)
}

// serveCmd implements 'serve', which exposes the question-answering pipeline
// over HTTP until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query API over HTTP",
	Long: `Load the index once and answer POST /api/query and /api/retrieve requests.
POST /api/reload swaps in a freshly built index without restarting.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		service, err := openService(cfg)
		if err != nil {
			return err
		}

		addr := cfg.ListenAddr()
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, service, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to serveAddr from config)")
	rootCmd.AddCommand(serveCmd)
}
