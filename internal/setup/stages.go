package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/naikmubashir/setup-template/internal/database"
	"github.com/naikmubashir/setup-template/internal/envfile"
	"github.com/naikmubashir/setup-template/internal/logging"
	"github.com/naikmubashir/setup-template/internal/manifest"
	"github.com/naikmubashir/setup-template/internal/prereq"
	"github.com/naikmubashir/setup-template/internal/runner"
	"github.com/naikmubashir/setup-template/internal/textpatch"
	"github.com/naikmubashir/setup-template/internal/ui"
	"github.com/naikmubashir/setup-template/internal/vcs"
)

const (
	defaultDescription = "A full-stack web application"
	defaultVersion     = "1.0.0"
	defaultLicense     = "MIT"

	defaultDBUser     = "postgres"
	defaultDBPassword = "postgres"
	defaultDBHost     = "localhost"
	defaultDBPort     = "5432"

	outputTailLines = 20
)

func (w *Workflow) checkPrerequisites(ctx context.Context, s *Session) error {
	cfg := w.Config
	w.UI.Step("%s", StatePrerequisiteCheck.Title())

	checker := &prereq.Checker{
		Exec:  w.Exec,
		Tools: prereq.DefaultTools(cfg.Prerequisites.Runtime, cfg.Prerequisites.PackageManager, cfg.Prerequisites.VCS, cfg.MinRuntimeMajor),
	}
	report, err := checker.Check(ctx)
	s.Prereqs = report

	if report != nil {
		for _, t := range report.Tools {
			switch {
			case !t.Found:
				w.UI.Error("%s (%s) is not installed", t.Tool.Name, t.Tool.Role)
			case t.Version != "":
				w.UI.Success("%s %s", t.Tool.Name, t.Version)
			default:
				w.UI.Success("%s found at %s", t.Tool.Name, t.Path)
			}
		}
		for _, msg := range report.Warnings {
			w.UI.Warn("%s", msg)
			s.warn(msg)
		}
	}
	return err
}

func (w *Workflow) collectMetadata(ctx context.Context, s *Session) error {
	w.UI.Section(StateCollectMetadata.Title())

	fields := []struct {
		label string
		def   string
		dst   *string
	}{
		{"Project name", filepath.Base(s.Workspace), &s.Metadata.Name},
		{"Description", defaultDescription, &s.Metadata.Description},
		{"Author", "", &s.Metadata.Author},
		{"Version", defaultVersion, &s.Metadata.Version},
		{"License", defaultLicense, &s.Metadata.License},
	}
	for _, f := range fields {
		v, err := w.Prompter.Ask(f.label, f.def)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

func (w *Workflow) collectDatabaseParams(ctx context.Context, s *Session) error {
	w.UI.Section(StateCollectDatabaseParams.Title())

	var err error
	p := &s.Database
	if p.User, err = w.Prompter.Ask("Database user", defaultDBUser); err != nil {
		return err
	}
	if p.Password, err = w.Prompter.AskSecret("Database password", defaultDBPassword); err != nil {
		return err
	}
	if p.Host, err = w.Prompter.Ask("Database host", defaultDBHost); err != nil {
		return err
	}
	if p.Port, err = w.Prompter.Ask("Database port", defaultDBPort); err != nil {
		return err
	}
	if p.Name, err = w.Prompter.Ask("Database name", s.Metadata.Name); err != nil {
		return err
	}

	s.DatabaseURL = p.URL(w.Config.Database.Scheme)

	// A URL the driver cannot parse is still written; Prisma is the judge.
	if err := database.Validate(s.DatabaseURL); err != nil {
		msg := fmt.Sprintf("connection URL may be invalid: %v", err)
		w.UI.Warn("%s", msg)
		s.warn(msg)
		return nil
	}

	if w.Config.Database.Probe {
		w.probeDatabase(ctx, s)
	}
	return nil
}

func (w *Workflow) probeDatabase(ctx context.Context, s *Session) {
	res, err := database.Probe(ctx, s.DatabaseURL, w.Config.GetProbeTimeout())
	if err != nil {
		msg := fmt.Sprintf("database not reachable: %v", err)
		if database.IsAuthError(err) {
			msg = fmt.Sprintf("database rejected the credentials for %q", s.Database.User)
		}
		w.UI.Warn("%s", msg)
		s.warn(msg)
		return
	}
	w.UI.Success("Connected to PostgreSQL %s (%s)", res.ServerVersion, res.Latency.Round(time.Millisecond))
}

func (w *Workflow) confirmSummary(ctx context.Context, s *Session) error {
	w.UI.Section(StateConfirmSummary.Title())

	masked := s.Database
	masked.Password = ui.MaskSecret(masked.Password)

	m := s.Metadata
	w.UI.Summary([]ui.Row{
		{Label: "Project name", Value: m.Name},
		{Label: "Description", Value: m.Description},
		{Label: "Author", Value: m.Author},
		{Label: "Version", Value: m.Version},
		{Label: "License", Value: m.License},
		{Label: "Database user", Value: masked.User},
		{Label: "Database password", Value: masked.Password},
		{Label: "Database host", Value: masked.Host},
		{Label: "Database port", Value: masked.Port},
		{Label: "Database name", Value: masked.Name},
		{Label: "Connection URL", Value: masked.URL(w.Config.Database.Scheme)},
	})

	ok, err := w.Prompter.Confirm("\nProceed with setup?")
	if err != nil {
		return err
	}
	if !ok {
		w.UI.Warn("Setup cancelled. No files were changed.")
		return ErrCancelled
	}
	return nil
}

func (w *Workflow) manifestFields(suffix string, m Metadata) []manifest.Field {
	fields := []manifest.Field{
		{Name: "name", Value: m.Name + suffix},
		{Name: "description", Value: m.Description},
		{Name: "version", Value: m.Version},
		{Name: "license", Value: m.License},
	}
	if m.Author != "" {
		fields = append(fields, manifest.Field{Name: "author", Value: m.Author})
	}
	return fields
}

func (w *Workflow) patchManifests(ctx context.Context, s *Session) error {
	w.UI.Step("%s", StatePatchManifests.Title())

	targets := []struct {
		dir    string
		suffix string
	}{
		{w.Config.BackendDir, "-backend"},
		{w.Config.FrontendDir, "-frontend"},
	}
	for _, t := range targets {
		path := s.path(filepath.Join(t.dir, "package.json"))
		if err := manifest.PatchFields(path, w.manifestFields(t.suffix, s.Metadata)...); err != nil {
			return err
		}
		s.wrote(path)
		w.UI.Success("Updated %s", filepath.Join(t.dir, "package.json"))
	}
	return nil
}

func (w *Workflow) writeVersionMarker(ctx context.Context, s *Session) error {
	path := s.path(w.Config.VersionFile)
	if err := os.WriteFile(path, []byte(s.Metadata.Version+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.wrote(path)
	w.UI.Success("Wrote %s (%s)", w.Config.VersionFile, s.Metadata.Version)
	return nil
}

// patchTitleString never fails the run.
func (w *Workflow) patchTitleString(ctx context.Context, s *Session) error {
	path := s.path(w.Config.TitleFile)
	res, err := textpatch.Substitute(path, w.Config.TitlePlaceholder, s.Metadata.Name)
	s.TitleResult = res
	if err != nil {
		msg := fmt.Sprintf("could not update title in %s: %v", w.Config.TitleFile, err)
		w.UI.Warn("%s", msg)
		s.warn(msg)
		return nil
	}

	switch res {
	case textpatch.Substituted:
		s.wrote(path)
		w.UI.Success("Set page title in %s", w.Config.TitleFile)
	case textpatch.PlaceholderAbsent:
		w.UI.Info("%s already customized, title left unchanged", w.Config.TitleFile)
	case textpatch.FileAbsent:
		w.UI.Info("%s not found, skipping title", w.Config.TitleFile)
	}
	logging.Workflow("title substitution: %s", res)
	return nil
}

func (w *Workflow) writeEnvironmentFiles(ctx context.Context, s *Session) error {
	w.UI.Step("%s", StateWriteEnvironmentFiles.Title())

	backend := s.path(filepath.Join(w.Config.BackendDir, ".env"))
	if err := envfile.WriteBackend(backend, s.DatabaseURL); err != nil {
		return err
	}
	s.wrote(backend)
	w.UI.Success("Wrote %s", filepath.Join(w.Config.BackendDir, ".env"))

	frontend := s.path(filepath.Join(w.Config.FrontendDir, ".env"))
	if err := envfile.WriteFrontend(frontend, w.Config.FrontendAPIURL); err != nil {
		return err
	}
	s.wrote(frontend)
	w.UI.Success("Wrote %s", filepath.Join(w.Config.FrontendDir, ".env"))
	return nil
}

// installDependencies runs the installs one after the other; the first
// failure stops the run.
func (w *Workflow) installDependencies(ctx context.Context, s *Session) error {
	for _, dir := range []string{w.Config.BackendDir, w.Config.FrontendDir} {
		w.UI.Step("Installing %s dependencies", dir)
		cmd := runner.Command{Binary: w.Config.PackageManager, Args: w.Config.InstallArgs, Dir: s.path(dir)}
		if err := w.run(ctx, cmd); err != nil {
			return err
		}
		w.UI.Success("Installed %s dependencies", dir)
	}
	return nil
}

func (w *Workflow) generateClientCode(ctx context.Context, s *Session) error {
	w.UI.Step("%s", StateGenerateClientCode.Title())

	gen := w.Config.GenerateCommand
	cmd := runner.Command{Binary: gen[0], Args: gen[1:], Dir: s.path(w.Config.BackendDir)}
	if err := w.run(ctx, cmd); err != nil {
		return err
	}
	w.UI.Success("Generated database client")
	return nil
}

func (w *Workflow) initializeVersionControl(ctx context.Context, s *Session) error {
	w.UI.Step("%s", StateInitializeVersionControl.Title())

	repo := vcs.New(s.Workspace, w.Exec)
	repo.Binary = w.Config.Prerequisites.VCS

	if repo.Exists() {
		ok, err := w.Prompter.Confirm("A git repository already exists. Remove its history and start fresh?")
		if err != nil {
			return err
		}
		if !ok {
			s.ReinitSkipped = true
			w.UI.Info("Keeping existing git history")
			logging.VCS("re-initialization declined")
			return nil
		}
		if err := repo.Remove(); err != nil {
			return err
		}
	}

	if err := repo.Init(ctx); err != nil {
		return w.reportSubprocess(err)
	}
	if err := repo.CommitAll(ctx, vcs.InitialCommitMessage(s.Metadata.Name)); err != nil {
		return w.reportSubprocess(err)
	}
	w.UI.Success("Created initial commit")
	return nil
}

func (w *Workflow) done(ctx context.Context, s *Session) error {
	w.UI.Success("Setup complete for %s", s.Metadata.Name)
	w.UI.Markdown(nextSteps(w.Config, s))
	return nil
}

// run executes cmd and surfaces the tail of its output when it fails.
func (w *Workflow) run(ctx context.Context, cmd runner.Command) error {
	logging.Exec("running %s in %s", cmd, cmd.Dir)
	if _, err := w.Exec.Run(ctx, cmd); err != nil {
		return w.reportSubprocess(err)
	}
	return nil
}

func (w *Workflow) reportSubprocess(err error) error {
	var subErr *runner.SubprocessError
	if errors.As(err, &subErr) && subErr.Output != "" {
		w.UI.Error("%s", subErr.Error())
		w.UI.Detail(subErr.Tail(outputTailLines))
	}
	return err
}
