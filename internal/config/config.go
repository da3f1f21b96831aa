package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the binaries need: where the squadron file lives,
// which ports to bind, where the replay journal goes.
type Config struct {
	SquadronFile string `mapstructure:"squadron_file"`
	Port         string `mapstructure:"port"`
	WebPort      string `mapstructure:"web_port"`
	ReplayDB     string `mapstructure:"replay_db"`
	LogLevel     string `mapstructure:"log_level"`
}

// Defaults applied when neither the config file nor the environment sets a key.
const (
	DefaultSquadronFile = "cards.yaml"
	DefaultPort         = "7771"
	DefaultWebPort      = "8080"
	DefaultLogLevel     = "info"
)

// Load reads configuration from lanefall.yaml (working directory, then
// $HOME/.lanefall) and the LANEFALL_* environment. A missing config file is
// fine; defaults cover every key. An explicit path overrides the search.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("squadron_file", DefaultSquadronFile)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("web_port", DefaultWebPort)
	v.SetDefault("replay_db", "")
	v.SetDefault("log_level", DefaultLogLevel)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("lanefall")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.lanefall")
	}

	v.SetEnvPrefix("LANEFALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
