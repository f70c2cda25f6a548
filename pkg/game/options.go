package game

import (
	"errors"
	"time"

	"badugi-server/internal/config"
)

// Options configure a room's games. They are fixed at room creation and
// immutable while a hand is being played.
type Options struct {
	Ante            int
	MinPlayers      int
	MaxPlayers      int
	BettingTimeout  time.Duration
	ExchangeTimeout time.Duration
	RaisePresets    []int

	// DeckSeed fixes the shuffle and the turn-order rotation.
	// Leave zero outside of tests for a crypto-random shuffle.
	DeckSeed int64
}

// DefaultOptions returns options from the loaded configuration
func DefaultOptions() Options {
	return OptionsFromConfig(config.Instance())
}

// OptionsFromConfig builds options from a configuration
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Ante:            cfg.Game.Ante,
		MinPlayers:      cfg.Game.MinPlayers,
		MaxPlayers:      cfg.Game.MaxPlayers,
		BettingTimeout:  time.Duration(cfg.Game.BettingTimeoutSeconds) * time.Second,
		ExchangeTimeout: time.Duration(cfg.Game.ExchangeTimeoutSeconds) * time.Second,
		RaisePresets:    cfg.Game.RaisePresets,
	}
}

// Validate ensures the options can host a game
func (o Options) Validate() error {
	if o.Ante <= 0 {
		return errors.New("ante must be greater than zero")
	}

	if o.MinPlayers < 2 {
		return errors.New("you must allow at least two players")
	}

	if o.MaxPlayers < o.MinPlayers || o.MaxPlayers > 8 {
		return errors.New("max players must be between the minimum and eight")
	}

	if o.BettingTimeout <= 0 || o.ExchangeTimeout <= 0 {
		return errors.New("timeouts must be greater than zero")
	}

	return nil
}
