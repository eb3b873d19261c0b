package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"tablestate/internal/eventbus"
	"tablestate/internal/grid"
	"tablestate/internal/search"
	"tablestate/internal/storage"
)

const (
	appName        = "tablestate"
	configFileName = "config"
	configFileType = "toml"
	envPrefix      = "TABLESTATE"
)

// Config keys.
const (
	KeyStorageBackend = "storage.backend"
	KeyStoragePath    = "storage.path"
	KeyTablePageSize  = "table.page_size"
	KeySearchDebounce = "search.debounce"
	KeyLogFile        = "ui.log_file"
	KeyLogLevel       = "ui.log_level"
	KeyAltScreen      = "ui.alt_screen"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config represents the application configuration
type Config struct {
	Storage StorageSettings `mapstructure:"storage"`
	Table   TableSettings   `mapstructure:"table"`
	Search  SearchSettings  `mapstructure:"search"`
	UI      UISettings      `mapstructure:"ui"`
}

// StorageSettings selects where column layouts and users are kept.
type StorageSettings struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type TableSettings struct {
	PageSize int `mapstructure:"page_size"`
}

type SearchSettings struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	LogFile   string `mapstructure:"log_file"`
	LogLevel  string `mapstructure:"log_level"`
	AltScreen bool   `mapstructure:"alt_screen"`
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case storage.BackendMemory:
	case storage.BackendFile, storage.BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: storage.path is required for the %s backend", ErrInvalidConfig, c.Storage.Backend)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	if c.Table.PageSize <= 0 {
		return fmt.Errorf("%w: table.page_size must be positive", ErrInvalidConfig)
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("%w: search.debounce must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultDir is the tablestate directory under the user config dir.
func DefaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, appName)
}

// NewConfigService creates a config service reading path, or config.toml
// in DefaultDir when path is empty.
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = filepath.Join(DefaultDir(), configFileName+"."+configFileType)
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load reads the config file over the defaults. A missing file is not an
// error. TABLESTATE_* environment variables override both, for example
// TABLESTATE_STORAGE_BACKEND=memory.
func (cs *configService) Load() (*Config, error) {
	v := viper.New()
	setDefaults(v, filepath.Dir(cs.filePath))
	v.SetConfigFile(cs.filePath)
	v.SetConfigType(configFileType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return &cfg, nil
}

// Save writes config as TOML, creating the directory when needed.
func (cs *configService) Save(config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	dir := filepath.Dir(cs.filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(toFile(config))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(cs.filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// EnsureDefault writes the default config when no file exists yet.
func EnsureDefault(cs ConfigService) (bool, error) {
	_, err := os.Stat(cs.Path())
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config file: %w", err)
	}
	if err := cs.Save(DefaultConfig(filepath.Dir(cs.Path()))); err != nil {
		return false, err
	}
	return true, nil
}

// DefaultConfig returns the default configuration with data kept in dir.
func DefaultConfig(dir string) *Config {
	return &Config{
		Storage: StorageSettings{
			Backend: storage.BackendSQLite,
			Path:    filepath.Join(dir, appName+".db"),
		},
		Table:  TableSettings{PageSize: grid.DefaultPageSize},
		Search: SearchSettings{Debounce: search.DefaultDelay},
		UI: UISettings{
			LogFile:   appName + ".log",
			LogLevel:  "info",
			AltScreen: true,
		},
	}
}

func setDefaults(v *viper.Viper, dir string) {
	def := DefaultConfig(dir)
	v.SetDefault(KeyStorageBackend, string(def.Storage.Backend))
	v.SetDefault(KeyStoragePath, def.Storage.Path)
	v.SetDefault(KeyTablePageSize, def.Table.PageSize)
	v.SetDefault(KeySearchDebounce, def.Search.Debounce)
	v.SetDefault(KeyLogFile, def.UI.LogFile)
	v.SetDefault(KeyLogLevel, def.UI.LogLevel)
	v.SetDefault(KeyAltScreen, def.UI.AltScreen)
}

// fileConfig is the on-disk shape; durations are written as text.
type fileConfig struct {
	Storage struct {
		Backend string `toml:"backend"`
		Path    string `toml:"path"`
	} `toml:"storage"`
	Table struct {
		PageSize int `toml:"page_size"`
	} `toml:"table"`
	Search struct {
		Debounce string `toml:"debounce"`
	} `toml:"search"`
	UI struct {
		LogFile   string `toml:"log_file"`
		LogLevel  string `toml:"log_level"`
		AltScreen bool   `toml:"alt_screen"`
	} `toml:"ui"`
}

func toFile(c *Config) fileConfig {
	var f fileConfig
	f.Storage.Backend = string(c.Storage.Backend)
	f.Storage.Path = c.Storage.Path
	f.Table.PageSize = c.Table.PageSize
	f.Search.Debounce = c.Search.Debounce.String()
	f.UI.LogFile = c.UI.LogFile
	f.UI.LogLevel = c.UI.LogLevel
	f.UI.AltScreen = c.UI.AltScreen
	return f
}
