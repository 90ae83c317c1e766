// Package config loads server configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
}

// ServerConfig holds the WebSocket server settings.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	ReadLimit       int64         `mapstructure:"read_limit"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig holds gameplay defaults for newly created games.
type GameConfig struct {
	DefaultPlayers int           `mapstructure:"default_players"`
	BotMoveDelay   time.Duration `mapstructure:"bot_move_delay"`
}

// Load reads the configuration file at path. A missing file is not an
// error; defaults and ASHTA_* environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.read_limit", 1<<16)
	v.SetDefault("server.ping_interval", 30*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("game.default_players", 2)
	v.SetDefault("game.bot_move_delay", 600*time.Millisecond)

	v.SetEnvPrefix("ASHTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			var pathErr *fs.PathError
			if !errors.As(err, &notFound) && !(errors.As(err, &pathErr) && os.IsNotExist(pathErr)) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format)
	}
	if c.Game.DefaultPlayers < 2 || c.Game.DefaultPlayers > 4 {
		return fmt.Errorf("game.default_players %d is out of range 2..4", c.Game.DefaultPlayers)
	}
	return nil
}
