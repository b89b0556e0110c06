package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/naikmubashir/setup-template/internal/config"
	"github.com/naikmubashir/setup-template/internal/logging"
	"github.com/naikmubashir/setup-template/internal/runner"
	"github.com/naikmubashir/setup-template/internal/ui"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string

	logger *zap.Logger
	cfg    *config.Config

	// newExecutor is replaced in tests.
	newExecutor = func(stream io.Writer) runner.Executor {
		return runner.NewDirectExecutor(stream)
	}
)

// rootCmd runs the interactive initializer
var rootCmd = &cobra.Command{
	Use:   "setup",
	Short: "Personalize the full-stack template",
	Long: `Checks that node, npm and git are installed, asks for project details and
database credentials, then:

  1. Updates backend/package.json and frontend/package.json
  2. Writes VERSION and sets the frontend page title
  3. Writes backend/.env and frontend/.env
  4. Installs dependencies and generates the Prisma client
  5. Creates a git repository with one initial commit

Nothing is written until the summary is confirmed.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ws, err := resolveWorkspace()
		if err != nil {
			return err
		}
		path := configPath
		if path == "" {
			path = filepath.Join(ws, config.FileName)
		}
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		logger.Debug("config loaded", zap.String("path", path), zap.String("workspace", ws))

		opts := logging.Options{Level: cfg.Logging.Level, File: cfg.Logging.File}
		if verbose {
			opts.Level = "debug"
			opts.Console = cmd.ErrOrStderr()
		}
		return logging.Initialize(opts)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: runSetup,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "setup %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <workspace>/setup.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	defer logging.CloseAll()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		ui.NewPrinter(rootCmd.OutOrStdout(), rootCmd.ErrOrStderr()).Error("%v", err)
	}
	return exitCode(err)
}

// exitCode maps a command result to the process status. User cancellation
// is reported by the commands as a nil error.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func resolveWorkspace() (string, error) {
	dir := workspace
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("failed to resolve workspace: %w", err)
		}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("workspace %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace %s is not a directory", abs)
	}
	return abs, nil
}

// withSignals cancels the returned context on SIGINT or SIGTERM.
func withSignals(parent context.Context, onSignal func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			if onSignal != nil {
				onSignal()
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}
