// Package room hosts Badugi games for chat rooms. A Manager dispatches
// requests to per-chat rooms; each room runs at most one hand at a time on
// its own goroutine.
package room

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"badugi-server/pkg/game"
	"badugi-server/pkg/game/action"
)

// ErrNotHost is an error when someone other than the host starts a hand
var ErrNotHost = errors.New("only the host can start a hand")

// ErrAlreadyJoined is an error when a player joins a room twice
var ErrAlreadyJoined = errors.New("player already joined")

// ErrNotJoined is an error when a player is not in the room
var ErrNotJoined = errors.New("player has not joined")

// ErrNoHandInProgress is an error when an action arrives with no hand running
var ErrNoHandInProgress = errors.New("no hand in progress")

// Room hosts the players of a single chat room across hands
type Room struct {
	logger logrus.FieldLogger
	id     string
	hostID int64
	opts   game.Options
	wallet game.WalletStore
	stats  game.StatsRecorder
	sink   game.NotificationSink

	mu      sync.Mutex
	players []*game.Player
	session *game.Session
	cancel  context.CancelFunc
}

func newRoom(logger logrus.FieldLogger, id string, hostID int64, opts game.Options, wallet game.WalletStore, stats game.StatsRecorder, sink game.NotificationSink) *Room {
	return &Room{
		logger: logger.WithField("room", id),
		id:     id,
		hostID: hostID,
		opts:   opts,
		wallet: wallet,
		stats:  stats,
		sink:   sink,
	}
}

// ID returns the chat identifier the room is keyed by
func (r *Room) ID() string {
	return r.id
}

// HostID returns the player who opened the room
func (r *Room) HostID() int64 {
	return r.hostID
}

// Join seats a player in the lobby. Players can only join between hands,
// must not already be seated, and must cover at least the ante.
func (r *Room) Join(playerID int64, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != nil {
		return game.ErrHandInProgress
	}

	if len(r.players) >= r.opts.MaxPlayers {
		return game.ErrTooManyPlayers
	}

	for _, p := range r.players {
		if p.ID() == playerID {
			return ErrAlreadyJoined
		}
	}

	player, err := game.NewPlayer(r.logger, r.wallet, playerID, name)
	if err != nil {
		return err
	}

	if player.Balance() < r.opts.Ante {
		return game.ErrInsufficientChips
	}

	r.players = append(r.players, player)
	r.logger.WithField("player", playerID).Info("player joined")
	return nil
}

// Leave removes a player from the lobby. Players cannot leave mid-hand.
func (r *Room) Leave(playerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != nil {
		return game.ErrHandInProgress
	}

	for i, p := range r.players {
		if p.ID() == playerID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			r.logger.WithField("player", playerID).Info("player left")
			return nil
		}
	}

	return ErrNotJoined
}

// Players returns the seated players in join order
func (r *Room) Players() []*game.Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]*game.Player, len(r.players))
	copy(players, r.players)
	return players
}

// HandInProgress returns true while a hand is running
func (r *Room) HandInProgress() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.session != nil
}

// StartHand deals a new hand. Only the host may start one, only between
// hands, and only with enough seated players. The hand runs on its own
// goroutine; the room clears its session when the hand finishes.
func (r *Room) StartHand(playerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if playerID != r.hostID {
		return ErrNotHost
	}

	if r.session != nil {
		return game.ErrHandInProgress
	}

	players := make([]*game.Player, len(r.players))
	copy(players, r.players)

	session, err := game.NewSession(r.logger, r.id, players, r.opts, r.stats, r.sink)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.session = session
	r.cancel = cancel

	go session.Run(ctx)
	go func() {
		<-session.Done()
		cancel()

		r.mu.Lock()
		if r.session == session {
			r.session = nil
			r.cancel = nil
		}
		r.mu.Unlock()
	}()

	r.logger.WithField("players", len(players)).Info("hand started")
	return nil
}

// SubmitAction forwards a player's decision to the running hand
func (r *Room) SubmitAction(playerID int64, phase game.Phase, act action.Action) error {
	r.mu.Lock()
	session := r.session
	r.mu.Unlock()

	if session == nil {
		return ErrNoHandInProgress
	}

	return session.SubmitAction(playerID, phase, act)
}

// AwaitingPlayerID returns the player the running hand is waiting on, or zero
func (r *Room) AwaitingPlayerID() int64 {
	r.mu.Lock()
	session := r.session
	r.mu.Unlock()

	if session == nil {
		return 0
	}

	return session.AwaitingPlayerID()
}

// ForceReset aborts the running hand and returns the room to the lobby.
// Any outstanding turn timer is cancelled and chips already contributed are
// not refunded. A reset with no hand in progress is a no-op.
func (r *Room) ForceReset() {
	r.mu.Lock()
	session := r.session
	cancel := r.cancel
	r.session = nil
	r.cancel = nil
	r.mu.Unlock()

	if session == nil {
		return
	}

	r.logger.Warn("force reset")
	cancel()
	<-session.Done()
}
