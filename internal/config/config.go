package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// dirPerm is the mode for created config/data directories (rwxr-xr-x).
const dirPerm = 0o755

// Config represents the complete configuration for loom.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Project   ProjectConfig   `mapstructure:"project" yaml:"project"`
	Workspace WorkspaceConfig `mapstructure:"workspace" yaml:"workspace"`
}

// DatabaseConfig holds layout-database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ProjectConfig holds project-tree configuration.
type ProjectConfig struct {
	// Root is the project root used for in-project checks. Empty means
	// every path counts as in-project.
	Root string `mapstructure:"root" yaml:"root"`
}

// WorkspaceConfig holds pane-layout preferences.
type WorkspaceConfig struct {
	// RestoreLayout re-applies the persisted layout at project open.
	RestoreLayout bool `mapstructure:"restore_layout" yaml:"restore_layout"`
	// DefaultOrientation is applied when a split command does not name
	// one: "VERTICAL" or "HORIZONTAL".
	DefaultOrientation string `mapstructure:"default_orientation" yaml:"default_orientation"`
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	// Supports config.yaml, config.json, config.toml automatically.
	v.SetConfigName("config")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	v.SetEnvPrefix("LOOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"database.path":                 "DATABASE_PATH",
		"logging.level":                 "LOG_LEVEL",
		"logging.format":                "LOG_FORMAT",
		"project.root":                  "PROJECT_ROOT",
		"workspace.restore_layout":      "WORKSPACE_RESTORE_LAYOUT",
		"workspace.default_orientation": "WORKSPACE_DEFAULT_ORIENTATION",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, "LOOM_"+env); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", env, err)
		}
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file: defaults plus environment apply.
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Database.Path == "" {
		dbPath, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		config.Database.Path = dbPath
	}

	switch strings.ToUpper(config.Workspace.DefaultOrientation) {
	case "", "VERTICAL":
		config.Workspace.DefaultOrientation = "VERTICAL"
	case "HORIZONTAL":
		config.Workspace.DefaultOrientation = "HORIZONTAL"
	default:
		config.Workspace.DefaultOrientation = "VERTICAL"
	}

	m.config = config
	return nil
}

func (m *Manager) setDefaults() {
	m.viper.SetDefault("logging.level", "info")
	m.viper.SetDefault("logging.format", "console")
	m.viper.SetDefault("workspace.restore_layout", true)
	m.viper.SetDefault("workspace.default_orientation", "VERTICAL")
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	configCopy := *m.config
	return &configCopy
}

// Watch starts watching the config file for changes and reloads
// automatically.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil
	}

	m.viper.WatchConfig()
	m.viper.OnConfigChange(func(_ fsnotify.Event) {
		if err := m.reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload config: %v\n", err)
			return
		}

		m.mu.RLock()
		config := m.config
		callbacks := make([]func(*Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.RUnlock()

		for _, callback := range callbacks {
			callback(config)
		}
	})

	m.watching = true
	return nil
}

// OnConfigChange registers a callback to run after each reload.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

func (m *Manager) reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to re-read config file: %w", err)
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	m.config = config
	return nil
}
