package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bitmaura/finscore/internal/analysis"
	"github.com/bitmaura/finscore/internal/logger"
	"github.com/bitmaura/finscore/internal/server"
)

func newServeCommand(g *globalOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the parse and analyze API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.load()
			if err != nil {
				return err
			}
			defer logger.Sync(log)

			if port > 0 {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(analysis.NewService(cfg, log), cfg.Server, log)
			return srv.Listen(ctx, cfg.Server.Port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config)")

	return cmd
}
