// Package textpatch performs best-effort literal substitutions in source
// files that may already have been customized.
package textpatch

import (
	"bytes"
	"fmt"
	"os"
)

// Result is the outcome of a substitution attempt.
type Result int

const (
	// FileAbsent means the target file does not exist.
	FileAbsent Result = iota
	// PlaceholderAbsent means the file exists but does not contain the placeholder.
	PlaceholderAbsent
	// Substituted means every occurrence was replaced.
	Substituted
)

func (r Result) String() string {
	switch r {
	case FileAbsent:
		return "file absent"
	case PlaceholderAbsent:
		return "placeholder absent"
	case Substituted:
		return "substituted"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Substitute replaces every literal occurrence of placeholder in the file at
// path. Only I/O failures other than absence are returned as errors.
func Substitute(path, placeholder, replacement string) (Result, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return FileAbsent, nil
	}
	if err != nil {
		return FileAbsent, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return FileAbsent, err
	}

	if placeholder == "" || !bytes.Contains(data, []byte(placeholder)) {
		return PlaceholderAbsent, nil
	}

	out := bytes.ReplaceAll(data, []byte(placeholder), []byte(replacement))
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return PlaceholderAbsent, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return Substituted, nil
}
