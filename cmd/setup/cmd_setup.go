package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naikmubashir/setup-template/internal/prompt"
	"github.com/naikmubashir/setup-template/internal/setup"
	"github.com/naikmubashir/setup-template/internal/ui"
)

// runSetup runs the interactive initialization workflow
func runSetup(cmd *cobra.Command, args []string) error {
	printer := ui.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	ctx, cancel := withSignals(cmd.Context(), func() {
		printer.Warn("Interrupted, stopping setup")
	})
	defer cancel()

	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}

	printer.Section("Project setup")
	printer.Info("Workspace: %s", ws)

	wf := &setup.Workflow{
		Workspace: ws,
		Config:    cfg,
		Prompter:  prompt.New(cmd.InOrStdin(), cmd.OutOrStdout()),
		Exec:      newExecutor(cmd.OutOrStdout()),
		UI:        printer,
	}

	s, err := wf.Run(ctx)
	if err != nil {
		return err
	}

	logger.Debug("setup finished",
		zap.String("run_id", s.RunID),
		zap.Bool("cancelled", s.Cancelled),
		zap.Duration("duration", s.Duration),
		zap.Int("files_written", len(s.FilesWritten)),
	)
	return nil
}
