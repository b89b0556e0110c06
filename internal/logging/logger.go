// Package logging provides categorized diagnostic logging for the setup tool.
// It is a silent no-op until Initialize is called with a destination, so a run
// that is cancelled at the summary prompt leaves no trace on disk.
//
// Operator-facing status lines are not written here; see internal/ui.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/subsystem
type Category string

const (
	CategoryBoot     Category = "boot"     // Startup, config loading
	CategoryPrereq   Category = "prereq"   // Host prerequisite checks
	CategoryPrompt   Category = "prompt"   // Interactive input
	CategoryManifest Category = "manifest" // package.json patching
	CategoryEnv      Category = "env"      // .env files, connection URL
	CategoryExec     Category = "exec"     // Subprocess execution
	CategoryVCS      Category = "vcs"      // git operations
	CategoryWorkflow Category = "workflow" // State transitions
	CategoryServer   Category = "server"   // Stub HTTP service
)

// Options configures where diagnostics go.
type Options struct {
	Level   string    // debug, info, warn, error
	File    string    // JSON lines are appended here when set
	Console io.Writer // human-readable output, nil disables
}

// Logger is a category-scoped logger.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	logFile *os.File
	loggers = make(map[Category]*Logger)
)

// Initialize replaces the global logger. Calling it with zero Options keeps
// logging disabled.
func Initialize(opts Options) error {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return err
	}

	var cores []zapcore.Core

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(f), level))

		mu.Lock()
		logFile = f
		mu.Unlock()
	}

	if opts.Console != nil {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.TimeKey = ""
		enc := zapcore.NewConsoleEncoder(encCfg)
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(opts.Console), level))
	}

	l := zap.NewNop()
	if len(cores) > 0 {
		l = zap.New(zapcore.NewTee(cores...))
	}

	mu.Lock()
	base = l
	loggers = make(map[Category]*Logger)
	mu.Unlock()

	Get(CategoryBoot).Debug("logging initialized: level=%s file=%q", level, opts.File)
	return nil
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Base returns the underlying zap logger.
func Base() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithRunID tags every subsequent line with the given workflow run ID.
func WithRunID(id string) {
	mu.Lock()
	base = base.With(zap.String("run_id", id))
	loggers = make(map[Category]*Logger)
	mu.Unlock()
}

// Get returns (or creates) a logger for the given category.
func Get(category Category) *Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := &Logger{
		category: category,
		sugar:    base.Sugar().With("category", string(category)),
	}
	loggers[category] = l
	return l
}

// CloseAll flushes buffered entries and closes the log file, if any.
// Logging is disabled afterwards.
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()
	_ = base.Sync()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	base = zap.NewNop()
	loggers = make(map[Category]*Logger)
}

func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// With returns a logger carrying extra structured fields.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// =============================================================================
// Convenience functions
// =============================================================================

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }

func Prereq(format string, args ...interface{})     { Get(CategoryPrereq).Info(format, args...) }
func PrereqWarn(format string, args ...interface{}) { Get(CategoryPrereq).Warn(format, args...) }

func PromptDebug(format string, args ...interface{}) { Get(CategoryPrompt).Debug(format, args...) }

func Manifest(format string, args ...interface{})      { Get(CategoryManifest).Info(format, args...) }
func ManifestError(format string, args ...interface{}) { Get(CategoryManifest).Error(format, args...) }

func Env(format string, args ...interface{})     { Get(CategoryEnv).Info(format, args...) }
func EnvWarn(format string, args ...interface{}) { Get(CategoryEnv).Warn(format, args...) }

func Exec(format string, args ...interface{})      { Get(CategoryExec).Info(format, args...) }
func ExecDebug(format string, args ...interface{}) { Get(CategoryExec).Debug(format, args...) }
func ExecError(format string, args ...interface{}) { Get(CategoryExec).Error(format, args...) }

func VCS(format string, args ...interface{})     { Get(CategoryVCS).Info(format, args...) }
func VCSWarn(format string, args ...interface{}) { Get(CategoryVCS).Warn(format, args...) }

func Workflow(format string, args ...interface{})      { Get(CategoryWorkflow).Info(format, args...) }
func WorkflowWarn(format string, args ...interface{})  { Get(CategoryWorkflow).Warn(format, args...) }
func WorkflowError(format string, args ...interface{}) { Get(CategoryWorkflow).Error(format, args...) }

func Server(format string, args ...interface{})      { Get(CategoryServer).Info(format, args...) }
func ServerError(format string, args ...interface{}) { Get(CategoryServer).Error(format, args...) }

// Timer measures an operation and logs its duration on Stop.
type Timer struct {
	category  Category
	operation string
	start     time.Time
}

// StartTimer starts timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, operation: operation, start: time.Now()}
}

// Stop logs the elapsed time at debug level and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %s", t.operation, elapsed)
	return elapsed
}
