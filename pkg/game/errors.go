package game

import "errors"

// ErrStaleAction is an error when an action arrives for a player who is not
// awaiting, or for a turn that has already been resolved. Stale actions
// never mutate state; they are the expected loser of a timeout race.
var ErrStaleAction = errors.New("no decision is awaited from this player")

// ErrInvalidAction is an error when an action is not legal for the current turn
var ErrInvalidAction = errors.New("action is not legal for the current turn")

// ErrPhaseMismatch is an error when an action targets a different phase than the current one
var ErrPhaseMismatch = errors.New("action was submitted for a different phase")

// ErrInsufficientChips is an error when a player cannot cover an amount
var ErrInsufficientChips = errors.New("insufficient chips")

// ErrHandInProgress is an error when a hand is already being played
var ErrHandInProgress = errors.New("a hand is already in progress")

// ErrNotEnoughPlayers is an error when a hand cannot start below the minimum player count
var ErrNotEnoughPlayers = errors.New("not enough players")

// ErrTooManyPlayers is an error when the room is at its player cap
var ErrTooManyPlayers = errors.New("too many players")
