package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/provreg/internal/config"
	"github.com/example/provreg/internal/server"
	"github.com/example/provreg/internal/wire"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var addr string
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the registry HTTP server",
		Long: `Serve exposes the registry over HTTP. Mutating endpoints take the caller
identity from the ` + server.IdentityHeader + ` header; reads are open.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = config.DefaultListenAddr
				if cwd, err := os.Getwd(); err == nil {
					if cfg, err := config.LoadConfig(cwd); err == nil && cfg.ListenAddr != "" {
						addr = cfg.ListenAddr
					}
				}
			}

			logger, err := newLogger(debug)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(wire.RegistryService(), addr, logger)
			if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to config or "+config.DefaultListenAddr+")")
	cmd.Flags().BoolVar(&debug, "debug", false, "Log at debug level with console output")
	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
