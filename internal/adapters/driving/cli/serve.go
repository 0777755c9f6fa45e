package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/folio/internal/core/domain"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the HTTP API used by the public site:

  POST /api/search        question → answer with related entries
  POST /api/chat          streamed assistant reply
  GET  /api/mentions?q=   @mention suggestions
  GET  /api/projects      published projects
  GET  /api/experiences   published experiences, confidential missions redacted
  GET  /healthz           liveness

When storage.fixtures is set the file is watched and edits are served
without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from http.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if searchService == nil || chatService == nil || portfolioService == nil {
		return errors.New("services not configured")
	}

	httpSettings := domain.DefaultAppSettings().HTTP
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		httpSettings = settings.HTTP
	}
	if serveAddr != "" {
		httpSettings.Addr = serveAddr
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Search:    searchService,
		Chat:      chatService,
		Portfolio: portfolioService,
	}, httpSettings)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if runtime != nil {
		runtime.watchFixtures(ctx)
	}

	cmd.Printf("Serving on %s\n", httpSettings.Addr)
	return server.Run(ctx)
}

// commandContext returns the command context, or Background outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
