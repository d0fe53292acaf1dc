package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Site   SiteConfig   `yaml:"site" mapstructure:"site"`
	Scan   ScanConfig   `yaml:"scan" mapstructure:"scan"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// SiteConfig identifies the target location-finder site.
type SiteConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	Source       string `yaml:"source" mapstructure:"source"`
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
	FallbackName string `yaml:"fallback_name" mapstructure:"fallback_name"`
}

// ScanConfig configures the id-space scan.
type ScanConfig struct {
	MaxID                    int     `yaml:"max_id" mapstructure:"max_id"`
	StopAfterConsecutiveMiss int     `yaml:"stop_after_consecutive_miss" mapstructure:"stop_after_consecutive_miss"`
	MinID                    int     `yaml:"min_id" mapstructure:"min_id"`
	RatePerSec               float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	TimeoutSecs              int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	ProgressEvery            int     `yaml:"progress_every" mapstructure:"progress_every"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
}

// OutputConfig configures the snapshot artifact.
type OutputConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COMPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("site.base_url", "https://locations.in-n-out.com")
	v.SetDefault("site.source", "https://locations.in-n-out.com/")
	v.SetDefault("site.user_agent", "Mozilla/5.0 (compatible; locations-cli/1.0)")
	v.SetDefault("site.fallback_name", "In-N-Out Burger")
	v.SetDefault("scan.max_id", 1200)
	v.SetDefault("scan.stop_after_consecutive_miss", 180)
	v.SetDefault("scan.min_id", 300)
	v.SetDefault("scan.rate_per_sec", 33)
	v.SetDefault("scan.timeout_secs", 12)
	v.SetDefault("scan.progress_every", 100)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "locations.db")
	v.SetDefault("output.path", "locations.json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
