// Package config loads NutraGenie settings from an optional config file,
// a .env file, NUTRAGENIE_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// NUTRAGENIE_REMOTE_URL for remote.url.
const EnvPrefix = "NUTRAGENIE"

// Config is the effective configuration.
type Config struct {
	Store     StoreConfig     `json:"store" mapstructure:"store"`
	Wizard    WizardConfig    `json:"wizard" mapstructure:"wizard"`
	Conflicts ConflictsConfig `json:"conflicts" mapstructure:"conflicts"`
	Remote    RemoteConfig    `json:"remote" mapstructure:"remote"`
	Server    ServerConfig    `json:"server" mapstructure:"server"`
	Log       LogConfig       `json:"log" mapstructure:"log"`

	// File is the config file that was read, empty when none was found.
	File string `json:"-" mapstructure:"-"`
}

// StoreConfig selects the snapshot backend.
type StoreConfig struct {
	Dir     string `json:"dir" mapstructure:"dir"`
	Backend string `json:"backend" mapstructure:"backend"`
}

// WizardConfig tunes the onboarding wizards.
type WizardConfig struct {
	AdvanceDelay time.Duration `json:"advanceDelay" mapstructure:"advanceDelay"`
	Gate         string        `json:"gate" mapstructure:"gate"`
}

// ConflictsConfig points at an optional YAML file of conflict tables.
type ConflictsConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// RemoteConfig configures the best-effort record sync. An empty URL
// disables it.
type RemoteConfig struct {
	URL     string        `json:"url" mapstructure:"url"`
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// ServerConfig configures the record API started by `serve`.
type ServerConfig struct {
	Addr string `json:"addr" mapstructure:"addr"`
	DB   string `json:"db" mapstructure:"db"`
}

// LogConfig configures slog.
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

// Backend names.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.dir", DefaultStoreDir())
	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("wizard.advanceDelay", "750ms")
	v.SetDefault("wizard.gate", "confirmed")
	v.SetDefault("conflicts.path", "")
	v.SetDefault("remote.url", "")
	v.SetDefault("remote.timeout", "5s")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.db", "nutragenie.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

var (
	globalCfg *Config
	mu        sync.RWMutex
)

// LoadEnvFile loads variables from a dotenv file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration. file may be empty, in which case
// nutragenie.{json,yaml} is looked up in the working directory and in
// ConfigDir; not finding one is fine. An explicitly named file must exist.
// The result is cached for Get.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("nutragenie")
		v.AddConfigPath(".")
		if dir := ConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	mu.Lock()
	globalCfg = &cfg
	mu.Unlock()
	return &cfg, nil
}

// Get returns the config cached by the last Load, or the defaults.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if globalCfg == nil {
		return Default()
	}
	return globalCfg
}
