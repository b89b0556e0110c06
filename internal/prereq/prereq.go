// Package prereq checks that the host has the tools the workflow shells out
// to, before anything is prompted or written.
package prereq

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/naikmubashir/setup-template/internal/logging"
	"github.com/naikmubashir/setup-template/internal/runner"
)

// Tool is one required binary.
type Tool struct {
	Name string
	Role string // runtime, package manager, version control

	// VersionArgs, when set, are run to read the version (e.g. --version).
	VersionArgs []string
	// MinMajor is the lowest acceptable major version (0 means unchecked).
	MinMajor int
}

// ToolStatus is the observed state of one Tool.
type ToolStatus struct {
	Tool    Tool
	Path    string
	Found   bool
	Version string // raw version output, first line
	Major   int    // -1 when not parsed
}

// Report is the outcome of Check.
type Report struct {
	Tools    []ToolStatus
	Missing  []string
	Warnings []string
}

// OK reports whether every required tool was found.
func (r *Report) OK() bool { return len(r.Missing) == 0 }

// MissingToolError is returned when at least one required tool is absent.
type MissingToolError struct {
	Missing []string
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("%d required tool(s) missing: %s", len(e.Missing), strings.Join(e.Missing, ", "))
}

// DefaultTools returns the runtime, package manager and VCS client checks.
func DefaultTools(runtime, packageManager, vcs string, minRuntimeMajor int) []Tool {
	return []Tool{
		{Name: runtime, Role: "runtime", VersionArgs: []string{"--version"}, MinMajor: minRuntimeMajor},
		{Name: packageManager, Role: "package manager"},
		{Name: vcs, Role: "version control"},
	}
}

// Checker inspects the host for required tools.
type Checker struct {
	Exec  runner.Executor
	Tools []Tool
}

// Check looks up every tool. An outdated version is only a warning; a
// missing tool is counted and Check returns *MissingToolError with the
// full report.
func (c *Checker) Check(ctx context.Context) (*Report, error) {
	report := &Report{}

	for _, tool := range c.Tools {
		status := ToolStatus{Tool: tool, Major: -1}

		path, err := c.Exec.LookPath(tool.Name)
		if err != nil {
			logging.PrereqWarn("%s (%s) not found: %v", tool.Name, tool.Role, err)
			report.Missing = append(report.Missing, tool.Name)
			report.Tools = append(report.Tools, status)
			continue
		}
		status.Found = true
		status.Path = path
		logging.Prereq("%s found at %s", tool.Name, path)

		if len(tool.VersionArgs) > 0 {
			c.checkVersion(ctx, &status, report)
		}
		report.Tools = append(report.Tools, status)
	}

	if !report.OK() {
		return report, &MissingToolError{Missing: report.Missing}
	}
	return report, nil
}

func (c *Checker) checkVersion(ctx context.Context, status *ToolStatus, report *Report) {
	tool := status.Tool
	res, err := c.Exec.Run(ctx, runner.Command{Binary: tool.Name, Args: tool.VersionArgs})
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("could not read %s version: %v", tool.Name, err))
		return
	}

	status.Version = firstLine(res.Output())
	major, ok := ParseMajor(status.Version)
	if !ok {
		report.Warnings = append(report.Warnings, fmt.Sprintf("could not parse %s version %q", tool.Name, status.Version))
		return
	}
	status.Major = major

	if tool.MinMajor > 0 && major < tool.MinMajor {
		msg := fmt.Sprintf("%s %s is older than the recommended v%d", tool.Name, status.Version, tool.MinMajor)
		logging.PrereqWarn("%s", msg)
		report.Warnings = append(report.Warnings, msg)
	}
}

var versionPattern = regexp.MustCompile(`v?(\d+)(?:\.\d+)*`)

// ParseMajor extracts the major number from output such as "v22.3.0".
func ParseMajor(version string) (int, bool) {
	m := versionPattern.FindStringSubmatch(strings.TrimSpace(version))
	if m == nil {
		return 0, false
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return major, true
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
