package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the optional config file looked up in the workspace root.
const FileName = "setup.yaml"

// Config holds all setup configuration.
type Config struct {
	// Sub-project layout, relative to the workspace
	BackendDir  string `yaml:"backend_dir"`
	FrontendDir string `yaml:"frontend_dir"`

	// Version marker and title substitution
	VersionFile      string `yaml:"version_file"`
	TitleFile        string `yaml:"title_file"`
	TitlePlaceholder string `yaml:"title_placeholder"`

	// External commands
	PackageManager  string   `yaml:"package_manager"`
	InstallArgs     []string `yaml:"install_args"`
	GenerateCommand []string `yaml:"generate_command"`

	// Host prerequisites
	Prerequisites   PrerequisitesConfig `yaml:"prerequisites"`
	MinRuntimeMajor int                 `yaml:"min_runtime_major"`

	// Frontend .env value
	FrontendAPIURL string `yaml:"frontend_api_url"`

	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PrerequisitesConfig names the binaries that must be on PATH.
type PrerequisitesConfig struct {
	Runtime        string `yaml:"runtime"`
	PackageManager string `yaml:"package_manager"`
	VCS            string `yaml:"vcs"`
}

// DatabaseConfig configures connection URL assembly and the optional probe.
type DatabaseConfig struct {
	Scheme       string `yaml:"scheme"`
	Probe        bool   `yaml:"probe"`
	ProbeTimeout string `yaml:"probe_timeout"`
}

// ServerConfig configures the stub HTTP service.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// LoggingConfig configures diagnostic logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty disables file output
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BackendDir:  "backend",
		FrontendDir: "frontend",

		VersionFile:      "VERSION",
		TitleFile:        filepath.Join("frontend", "index.html"),
		TitlePlaceholder: "Vite + React",

		PackageManager:  "npm",
		InstallArgs:     []string{"install"},
		GenerateCommand: []string{"npx", "prisma", "generate"},

		Prerequisites: PrerequisitesConfig{
			Runtime:        "node",
			PackageManager: "npm",
			VCS:            "git",
		},
		MinRuntimeMajor: 22,

		FrontendAPIURL: "http://localhost:9000",

		Database: DatabaseConfig{
			Scheme:       "postgresql",
			Probe:        false,
			ProbeTimeout: "3s",
		},

		Server: ServerConfig{
			Port: "9000",
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if pm := os.Getenv("SETUP_PACKAGE_MANAGER"); pm != "" {
		c.PackageManager = pm
		c.Prerequisites.PackageManager = pm
	}
	if lvl := os.Getenv("SETUP_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
	if file := os.Getenv("SETUP_LOG_FILE"); file != "" {
		c.Logging.File = file
	}
	if probe := os.Getenv("SETUP_DB_PROBE"); probe != "" {
		if v, err := strconv.ParseBool(probe); err == nil {
			c.Database.Probe = v
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
}

// LoadEnvFile loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.BackendDir) == "" {
		problems = append(problems, "backend_dir is required")
	}
	if strings.TrimSpace(c.FrontendDir) == "" {
		problems = append(problems, "frontend_dir is required")
	}
	if c.PackageManager == "" {
		problems = append(problems, "package_manager is required")
	}
	if len(c.GenerateCommand) == 0 {
		problems = append(problems, "generate_command is required")
	}
	if c.Prerequisites.Runtime == "" || c.Prerequisites.PackageManager == "" || c.Prerequisites.VCS == "" {
		problems = append(problems, "prerequisites.runtime, package_manager and vcs are required")
	}
	if c.MinRuntimeMajor <= 0 {
		problems = append(problems, fmt.Sprintf("min_runtime_major must be positive, got %d", c.MinRuntimeMajor))
	}
	if c.Database.Scheme == "" {
		problems = append(problems, "database.scheme is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// GetProbeTimeout returns the database probe timeout as a duration.
func (c *Config) GetProbeTimeout() time.Duration {
	d, err := time.ParseDuration(c.Database.ProbeTimeout)
	if err != nil || d <= 0 {
		return 3 * time.Second
	}
	return d
}

// ServerAddr returns the listen address for the stub service.
func (c *Config) ServerAddr() string {
	port := strings.TrimPrefix(c.Server.Port, ":")
	return ":" + port
}
