package config

import (
	"badugi-server/internal/util"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the Badugi room server
type Config struct {
	loaded bool
	Log    struct {
		Level string `yaml:"level" envconfig:"level"`
	}
	Game struct {
		Ante                   int   `yaml:"ante" envconfig:"ante"`
		MinPlayers             int   `yaml:"minPlayers" envconfig:"min_players"`
		MaxPlayers             int   `yaml:"maxPlayers" envconfig:"max_players"`
		BettingTimeoutSeconds  int   `yaml:"bettingTimeoutSeconds" envconfig:"betting_timeout_seconds"`
		ExchangeTimeoutSeconds int   `yaml:"exchangeTimeoutSeconds" envconfig:"exchange_timeout_seconds"`
		RaisePresets           []int `yaml:"raisePresets" envconfig:"raise_presets"`
	}
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is not an error; the defaults are used instead.
func Load() error {
	config = Config{}

	configFile := util.Getenv("BADUGI_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		err = yaml.NewDecoder(file).Decode(&config)
		_ = file.Close()
		if err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("badugi", &config); err != nil {
		return err
	}

	config.applyDefaults()
	config.loaded = true
	return nil
}

func (c *Config) applyDefaults() {
	if c.Game.Ante <= 0 {
		c.Game.Ante = 10
	}

	if c.Game.MinPlayers < 2 {
		c.Game.MinPlayers = 2
	}

	if c.Game.MaxPlayers <= 0 {
		c.Game.MaxPlayers = 8
	}

	if c.Game.BettingTimeoutSeconds <= 0 {
		c.Game.BettingTimeoutSeconds = 30
	}

	if c.Game.ExchangeTimeoutSeconds <= 0 {
		c.Game.ExchangeTimeoutSeconds = 30
	}

	if len(c.Game.RaisePresets) == 0 {
		c.Game.RaisePresets = []int{10, 20, 50, 100}
	}
}
