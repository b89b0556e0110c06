// Package manifest patches individual string fields of JSON manifests such
// as package.json.
//
// Replacing an existing field rewrites only that value's bytes. A missing
// field is appended as the last member of the root object, using the
// detected indentation; no other byte moves. The result always ends with a
// single newline.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/naikmubashir/setup-template/internal/logging"
)

var (
	// ErrNotFound is returned when the manifest file does not exist.
	ErrNotFound = errors.New("manifest not found")
	// ErrParse is returned when the manifest is not a JSON object.
	ErrParse = errors.New("manifest is not a valid JSON object")
)

// Field is one field assignment.
type Field struct {
	Name  string
	Value string
}

// PatchError records which manifest and field a patch failed on.
type PatchError struct {
	Path  string
	Field string
	Err   error
}

func (e *PatchError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("patch %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("patch %s (%s): %v", e.Path, e.Field, e.Err)
}

func (e *PatchError) Unwrap() error { return e.Err }

// Patch sets field to value in the manifest at path.
func Patch(path, field, value string) error {
	return PatchFields(path, Field{Name: field, Value: value})
}

// PatchFields applies all fields with a single read and write.
func PatchFields(path string, fields ...Field) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &PatchError{Path: path, Err: ErrNotFound}
		}
		return &PatchError{Path: path, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &PatchError{Path: path, Err: err}
	}

	out, err := PatchBytes(data, fields...)
	if err != nil {
		var pe *PatchError
		if errors.As(err, &pe) {
			pe.Path = path
			return pe
		}
		return &PatchError{Path: path, Err: err}
	}

	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return &PatchError{Path: path, Err: err}
	}

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	logging.Manifest("patched %s: %s", path, strings.Join(names, ", "))
	return nil
}

// PatchBytes applies fields to an in-memory manifest.
func PatchBytes(data []byte, fields ...Field) ([]byte, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		logging.ManifestError("rejecting malformed manifest (%d bytes)", len(data))
		return nil, &PatchError{Err: ErrParse}
	}

	indent := detectIndent(data)

	out := data
	for _, f := range fields {
		path := escapePath(f.Name)

		var err error
		if gjson.GetBytes(out, path).Exists() {
			out, err = sjson.SetBytes(out, path, f.Value)
		} else {
			out, err = appendMember(out, path, f.Value, indent)
		}
		if err != nil {
			return nil, &PatchError{Field: f.Name, Err: err}
		}
	}

	return withTrailingNewline(out), nil
}

// appendMember splices `"key": "value"` in front of the root object's
// closing brace. Multi-line objects get the member on its own line.
func appendMember(data []byte, path, value, indent string) ([]byte, error) {
	member, err := encodeMember(path, value)
	if err != nil {
		return nil, err
	}

	end := bytes.LastIndexByte(data, '}')
	if end < 0 {
		return nil, ErrParse
	}
	last := len(bytes.TrimRight(data[:end], " \t\r\n")) - 1
	multiline := bytes.IndexByte(data[:end], '\n') >= 0

	var ins []byte
	switch {
	case data[last] == '{' && multiline:
		ins = append([]byte("\n"+indent), member...)
		ins = append(ins, '\n')
	case data[last] == '{':
		ins = member
	case multiline:
		ins = append([]byte(",\n"+indent), member...)
	default:
		ins = append([]byte(", "), member...)
	}

	out := make([]byte, 0, len(data)+len(ins))
	out = append(out, data[:last+1]...)
	out = append(out, ins...)
	if data[last] == '{' && multiline {
		// the whitespace before the brace is replaced by the new line
		return append(out, data[end:]...), nil
	}
	return append(out, data[last+1:]...), nil
}

// encodeMember renders one `"key": "value"` member with JSON escaping.
func encodeMember(path, value string) ([]byte, error) {
	obj, err := sjson.SetBytes([]byte("{}"), path, value)
	if err != nil {
		return nil, err
	}
	var member []byte
	gjson.ParseBytes(obj).ForEach(func(k, v gjson.Result) bool {
		member = append(append([]byte(k.Raw), ": "...), v.Raw...)
		return false
	})
	return member, nil
}

// Get returns the string value of field, and whether it is present.
func Get(data []byte, field string) (string, bool) {
	r := gjson.GetBytes(data, escapePath(field))
	return r.String(), r.Exists()
}

// detectIndent returns the leading whitespace of the first indented line,
// or two spaces.
func detectIndent(data []byte) string {
	for _, line := range bytes.Split(data, []byte("\n")) {
		trimmed := bytes.TrimLeft(line, " \t")
		if len(trimmed) == 0 || len(trimmed) == len(line) {
			continue
		}
		return string(line[:len(line)-len(trimmed)])
	}
	return "  "
}

func withTrailingNewline(b []byte) []byte {
	b = bytes.TrimRight(b, " \t\r\n")
	out := make([]byte, 0, len(b)+1)
	out = append(out, b...)
	return append(out, '\n')
}

// escapePath makes a key usable as a literal gjson/sjson path.
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
