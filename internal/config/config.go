// Package config resolves runtime settings from defaults, an optional YAML
// file, EXPORTATLAS_* environment variables and command-line flags.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "EXPORTATLAS"
	ConfigName     = ".exportatlas"
	DefaultSource  = "data/services.json"
	DefaultTimeout = 15 * time.Second
)

// Keys shared between viper lookups and flag bindings
const (
	KeySource         = "source"
	KeyPageSize       = "page_size"
	KeySearchDebounce = "search_debounce"
	KeyWatch          = "watch"
	KeyHTTPTimeout    = "http.timeout"
	KeyHTTPRetries    = "http.retries"
	KeyLogLevel       = "log.level"
	KeyLogFile        = "log.file"
)

// Config is the resolved runtime configuration
type Config struct {
	Source         string        // path, .db file or http(s) URL of the service list
	PageSize       int           // cards per page
	SearchDebounce time.Duration // trailing debounce for search keystrokes
	Watch          bool          // reload when the source file changes
	HTTPTimeout    time.Duration
	HTTPRetries    int
	LogLevel       string
	LogFile        string // "" = discard logs while the TUI is running
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySource, DefaultSource)
	v.SetDefault(KeyPageSize, 12)
	v.SetDefault(KeySearchDebounce, 300*time.Millisecond)
	v.SetDefault(KeyWatch, true)
	v.SetDefault(KeyHTTPTimeout, DefaultTimeout)
	v.SetDefault(KeyHTTPRetries, 3)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
}

// Init prepares v: defaults, env binding and the config file location.
// cfgFile overrides the default $HOME/.exportatlas.yaml.
// A missing config file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("failed to resolve home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load builds a validated Config from v
func Load(v *viper.Viper) (Config, error) {
	source := strings.TrimSpace(v.GetString(KeySource))
	if source != "" && !IsURL(source) {
		expanded, err := homedir.Expand(source)
		if err != nil {
			return Config{}, fmt.Errorf("invalid source path %q: %w", source, err)
		}
		source = filepath.Clean(expanded)
	}

	cfg := Config{
		Source:         source,
		PageSize:       v.GetInt(KeyPageSize),
		SearchDebounce: v.GetDuration(KeySearchDebounce),
		Watch:          v.GetBool(KeyWatch),
		HTTPTimeout:    v.GetDuration(KeyHTTPTimeout),
		HTTPRetries:    v.GetInt(KeyHTTPRetries),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFile:        v.GetString(KeyLogFile),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the browser cannot run with
func (c Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source cannot be empty")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.SearchDebounce < 0 {
		return fmt.Errorf("search_debounce cannot be negative")
	}
	if c.HTTPRetries < 0 {
		return fmt.Errorf("http.retries cannot be negative, got %d", c.HTTPRetries)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	return nil
}

// IsURL reports whether source should be fetched over HTTP
func IsURL(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
