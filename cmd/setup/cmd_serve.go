package main

import (
	"fmt"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/naikmubashir/setup-template/internal/config"
	"github.com/naikmubashir/setup-template/internal/stubserver"
	"github.com/naikmubashir/setup-template/internal/ui"
)

// serveCmd runs the stub backend service
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the stub backend HTTP service",
	Long: `Starts the placeholder backend on the configured port (default 9000).
Variables from backend/.env are loaded first; PORT overrides the port.

  GET /   {"message": "Server is running!"}`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	printer := ui.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}
	if err := config.LoadEnvFile(filepath.Join(ws, cfg.BackendDir, ".env")); err != nil {
		printer.Warn("%v", err)
	}
	cfg.ApplyEnvOverrides()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := withSignals(cmd.Context(), nil)
	defer cancel()

	addr := cfg.ServerAddr()
	printer.Success("Server running on port %s", cfg.Server.Port)

	if err := stubserver.New(stubserver.Options{}).Run(ctx, addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	printer.Info("Server stopped")
	return nil
}
