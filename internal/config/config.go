package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/silvatech/forestctl/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Sync       SyncConfig       `yaml:"sync" mapstructure:"sync"`
	Validation ValidationConfig `yaml:"validation" mapstructure:"validation"`
	Project    ProjectConfig    `yaml:"project" mapstructure:"project"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the read-only HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// SyncConfig configures the spreadsheet submission endpoint.
type SyncConfig struct {
	Endpoint    string `yaml:"endpoint" mapstructure:"endpoint"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ValidationConfig bounds custom (non-standard) diameter entries.
type ValidationConfig struct {
	CustomDiameterMin int `yaml:"custom_diameter_min" mapstructure:"custom_diameter_min"`
	CustomDiameterMax int `yaml:"custom_diameter_max" mapstructure:"custom_diameter_max"`
}

// ProjectConfig holds defaults applied to newly created projects.
type ProjectConfig struct {
	DefaultAreaHa float64 `yaml:"default_area_ha" mapstructure:"default_area_ha"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".forestctl"))
	}

	// Environment
	v.SetEnvPrefix("FORESTCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", defaultStorePath())
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("sync.timeout_secs", 15)
	v.SetDefault("validation.custom_diameter_min", 60)
	v.SetDefault("validation.custom_diameter_max", 200)
	v.SetDefault("project.default_area_ha", 30.0)

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

// Validate checks the fields required by the given command mode.
func Validate(cfg *Config, mode string) error {
	var problems []string

	if cfg.Validation.CustomDiameterMin < 0 || cfg.Validation.CustomDiameterMax <= cfg.Validation.CustomDiameterMin {
		problems = append(problems, "validation.custom_diameter_max must exceed custom_diameter_min")
	}
	if cfg.Project.DefaultAreaHa <= 0 {
		problems = append(problems, "project.default_area_ha must be > 0")
	}

	switch mode {
	case "serve":
		if cfg.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	case "sync":
		if cfg.Sync.Endpoint == "" {
			problems = append(problems, "sync.endpoint is required")
		}
		if cfg.Sync.TimeoutSecs <= 0 {
			problems = append(problems, "sync.timeout_secs must be > 0")
		}
	case "cli":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// DiameterBounds returns the configured custom-diameter bounds.
func (c *Config) DiameterBounds() model.DiameterBounds {
	return model.DiameterBounds{
		Min: c.Validation.CustomDiameterMin,
		Max: c.Validation.CustomDiameterMax,
	}
}

// SyncTimeout returns the per-attempt submission deadline.
func (c *Config) SyncTimeout() time.Duration {
	return time.Duration(c.Sync.TimeoutSecs) * time.Second
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "forestctl.db"
	}
	return filepath.Join(home, ".forestctl", "forestctl.db")
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
