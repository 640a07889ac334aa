package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/billie-coop/settle/internal/logging"
)

// DirName is the per-project directory holding config and logs.
const DirName = ".settle"

// Config represents the settle configuration
type Config struct {
	// Limiter delays in milliseconds.
	DebounceMs int `json:"debounce_ms"`
	ThrottleMs int `json:"throttle_ms"`

	// UI preferences
	Theme string `json:"theme"`

	// Logging
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	// Extra path fragments the watcher skips.
	WatchIgnore []string `json:"watch_ignore,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		DebounceMs: 300,
		ThrottleMs: 300,
		Theme:      "dark",
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// DebounceDelay returns DebounceMs as a duration.
func (c *Config) DebounceDelay() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// ThrottleDelay returns ThrottleMs as a duration.
func (c *Config) ThrottleDelay() time.Duration {
	return time.Duration(c.ThrottleMs) * time.Millisecond
}

// Validate rejects values the limiters or logger would refuse.
func (c *Config) Validate() error {
	if c.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", c.DebounceMs)
	}
	if c.ThrottleMs < 0 {
		return fmt.Errorf("throttle_ms must not be negative, got %d", c.ThrottleMs)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	switch c.Theme {
	case "dark", "light", "dracula", "notty":
	default:
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	return nil
}

// Manager handles configuration loading and saving
type Manager struct {
	configPath string
	config     *Config
}

// NewManager creates a manager for the config in projectPath/.settle.
func NewManager(projectPath string) *Manager {
	return &Manager{
		configPath: filepath.Join(projectPath, DirName, "config.json"),
		config:     DefaultConfig(),
	}
}

// Dir returns the .settle directory.
func (m *Manager) Dir() string {
	return filepath.Dir(m.configPath)
}

// Load reads the configuration from disk, creating defaults if needed
func (m *Manager) Load() error {
	if err := os.MkdirAll(m.Dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", DirName, err)
	}

	if err := m.ensureGitignore(); err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		return m.Save()
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Missing keys keep their defaults.
	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}

	m.expandEnvVars(config)
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", m.configPath, err)
	}

	m.config = config
	return nil
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get returns the current configuration
func (m *Manager) Get() *Config {
	return m.config
}

// Set updates a configuration value, validates it, and saves.
func (m *Manager) Set(key, value string) error {
	updated := *m.config
	switch key {
	case "debounce_ms", "throttle_ms":
		ms, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "debounce_ms" {
			updated.DebounceMs = ms
		} else {
			updated.ThrottleMs = ms
		}
	case "theme":
		updated.Theme = value
	case "log_level":
		updated.LogLevel = value
	case "log_format":
		updated.LogFormat = value
	case "watch_ignore":
		updated.WatchIgnore = splitList(value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := updated.Validate(); err != nil {
		return err
	}
	m.config = &updated
	return m.Save()
}

// ensureGitignore creates a .gitignore in .settle/ if missing.
func (m *Manager) ensureGitignore() error {
	gitignorePath := filepath.Join(m.Dir(), ".gitignore")

	if _, err := os.Stat(gitignorePath); !os.IsNotExist(err) {
		return nil
	}

	gitignoreContent := `# settle data directory
# Commit config.json, ignore everything the tools write at runtime.
*.log
*.tmp

!config.json
!.gitignore
`

	return os.WriteFile(gitignorePath, []byte(gitignoreContent), 0o644)
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars expands environment variables in string values
func (m *Manager) expandEnvVars(config *Config) {
	config.Theme = expandString(config.Theme)
	config.LogLevel = expandString(config.LogLevel)
	config.LogFormat = expandString(config.LogFormat)
	for i, p := range config.WatchIgnore {
		config.WatchIgnore[i] = expandString(p)
	}
}

// expandString expands $VAR and ${VAR}. Unset variables are left as is.
func expandString(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match
	})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
