package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the embeddable-widget configuration. It is accepted once
// at initialization; the engine itself never reads ambient globals.
type Config struct {
	Endpoint   string        `mapstructure:"endpoint"`
	Model      string        `mapstructure:"model"`
	APIKey     string        `mapstructure:"api_key"`
	Transport  string        `mapstructure:"transport"` // http or mock
	ThreadID   string        `mapstructure:"thread_id"` // generated when empty
	Timeout    time.Duration `mapstructure:"-"`
	TimeoutStr string        `mapstructure:"timeout"` // idle timeout, "0s" disables
	Logging    LoggingConfig `mapstructure:"logging"`
	Theme      ThemeConfig   `mapstructure:"theme"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	LogFile string `mapstructure:"log_file"`
	Persist bool   `mapstructure:"persist"`
	Level   string `mapstructure:"level"`
}

// ThemeConfig holds per-field presentation overrides. The engine carries them
// opaquely; only the rendering layer interprets them.
type ThemeConfig struct {
	AccentColor   string `mapstructure:"accent_color"`
	UserColor     string `mapstructure:"user_color"`
	AgentColor    string `mapstructure:"agent_color"`
	ErrorColor    string `mapstructure:"error_color"`
	ActivityColor string `mapstructure:"activity_color"`
	Font          string `mapstructure:"font"`
}

// Transport selection values.
const (
	TransportHTTP = "http"
	TransportMock = "mock"
)

var cfg *Config

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// Load loads configuration from file and environment
func Load(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			xdgConfigHome = filepath.Join(home, ".config")
		}

		viper.AddConfigPath("./.agentchat") // project directory first
		viper.AddConfigPath(filepath.Join(xdgConfigHome, "agentchat"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	viper.SetEnvPrefix("AGENTCHAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Missing config file is fine, defaults apply.
	_ = viper.ReadInConfig()

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := processDurations(cfg); err != nil {
		return nil, fmt.Errorf("failed to process durations: %w", err)
	}

	return cfg, nil
}

// processDurations parses string durations; viper doesn't handle
// time.Duration directly.
func processDurations(c *Config) error {
	if c.TimeoutStr == "" {
		c.Timeout = 0
		return nil
	}

	timeout, err := time.ParseDuration(c.TimeoutStr)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", c.TimeoutStr, err)
	}
	c.Timeout = timeout
	return nil
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("endpoint", "http://localhost:8080/chat/completions")
	viper.SetDefault("model", "meta-llama/llama-4-maverick-17b-128e-instruct-fp8")
	viper.SetDefault("api_key", "")
	viper.SetDefault("transport", TransportHTTP)
	viper.SetDefault("thread_id", "")
	viper.SetDefault("timeout", "0s")

	viper.SetDefault("logging.log_file", "./.agentchat/system.log")
	viper.SetDefault("logging.persist", false)
	viper.SetDefault("logging.level", "info")

	viper.SetDefault("theme.accent_color", "#0f62fe")
	viper.SetDefault("theme.user_color", "#393939")
	viper.SetDefault("theme.agent_color", "#e0e0e0")
	viper.SetDefault("theme.error_color", "#da1e28")
	viper.SetDefault("theme.activity_color", "#8d8d8d")
	viper.SetDefault("theme.font", "")
}

// BuildSettingsPath resolves a filename relative to the settings directory.
func BuildSettingsPath(filename string) string {
	return filepath.Join("./.agentchat", filename)
}
