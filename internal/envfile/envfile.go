// Package envfile writes the backend and frontend .env files. Both are
// overwritten on every run; previous contents are discarded, never merged.
package envfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/joho/godotenv"

	"github.com/naikmubashir/setup-template/internal/logging"
)

const (
	// DatabaseURLKey is the variable Prisma reads its connection from.
	DatabaseURLKey = "DATABASE_URL"
	// APIURLKey is the variable the Vite frontend reads the backend URL from.
	APIURLKey = "VITE_API_URL"
)

// The backend value is written between quotes exactly as given. Escaping it
// would change the password seen by dotenv consumers.
var (
	backendTemplate = template.Must(template.New("backend.env").Parse(
		`{{.Key}}="{{.URL}}"
`))
	frontendTemplate = template.Must(template.New("frontend.env").Parse(
		`# Backend API URL
{{.Key}}={{.URL}}
`))
)

// WriteBackend writes DATABASE_URL="<url>" to path, with url unmodified.
func WriteBackend(path, databaseURL string) error {
	return write(path, backendTemplate, DatabaseURLKey, databaseURL)
}

// WriteFrontend writes the frontend template with apiURL to path.
func WriteFrontend(path, apiURL string) error {
	return write(path, frontendTemplate, APIURLKey, apiURL)
}

func write(path string, tmpl *template.Template, key, value string) error {
	if err := requireDir(path); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Key, URL string }{key, value}); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logging.Env("wrote %s", path)
	return nil
}

// Read parses an env file into a map.
func Read(path string) (map[string]string, error) {
	return godotenv.Read(path)
}

// requireDir fails when the parent directory of path is missing; the
// sub-project directories are part of the template and are never created here.
func requireDir(path string) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot write %s: %s is not a directory", path, dir)
	}
	return nil
}
