// Package game implements one Badugi hand from deal to showdown: the fixed
// phase sequence, the turn scheduler with cancellable timeout defaults, and
// the settlement of the pots.
//
// A session is single-writer: all game state is mutated by the goroutine
// running Run. SubmitAction only validates against the open turn's snapshot
// and resolves its one-shot channel.
package game

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"badugi-server/internal/rng"
	"badugi-server/pkg/deck"
	"badugi-server/pkg/game/action"
	"badugi-server/pkg/game/ledger"
)

// Session is a single hand of Badugi
type Session struct {
	logger logrus.FieldLogger
	roomID string
	opts   Options

	stats StatsRecorder
	sink  NotificationSink
	rnd   rng.Generator

	players  []*Player
	ledger   *ledger.Ledger
	deck     *deck.Deck
	discards []deck.Card

	mu      sync.Mutex
	phase   Phase
	current *turn

	done chan struct{}
}

// NewSession creates a hand for the given players.
// The player order is the lobby join order; the hand turn order is fixed
// during dealing by rotating it to a random seat.
func NewSession(logger logrus.FieldLogger, roomID string, players []*Player, opts Options, stats StatsRecorder, sink NotificationSink) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if len(players) < opts.MinPlayers {
		return nil, ErrNotEnoughPlayers
	}

	if len(players) > opts.MaxPlayers {
		return nil, ErrTooManyPlayers
	}

	d := deck.New()
	var gen rng.Generator = rng.Crypto{}
	if opts.DeckSeed != 0 {
		d.SetSeed(opts.DeckSeed)
		gen = rand.New(rand.NewSource(opts.DeckSeed)) // nolint:gosec
	}

	return &Session{
		logger:  logger.WithField("room", roomID),
		roomID:  roomID,
		opts:    opts,
		stats:   stats,
		sink:    sink,
		rnd:     gen,
		players: players,
		ledger:  ledger.New(opts.Ante),
		deck:    d,
		phase:   PhaseLobby,
		done:    make(chan struct{}),
	}, nil
}

// Run plays the hand to completion. It must be called exactly once, on its
// own goroutine; cancelling the context aborts the hand without refunds.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)

	if err := s.deal(); err != nil {
		s.abortHand(err)
		return
	}

	for _, phase := range handPhases {
		s.advancePhase(phase)

		var err error
		if phase.IsBetting() {
			err = s.runBettingPhase(ctx)
		} else {
			err = s.runExchangePhase(ctx)
		}

		if err != nil {
			s.abortHand(err)
			return
		}

		if phase.IsBetting() && s.ledger.NonFoldedCount() <= 1 {
			break
		}
	}

	s.advancePhase(PhaseShowdown)
	s.resolveShowdown()
	s.advancePhase(PhaseLobby)
}

// Done is closed when the hand has finished or aborted
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Phase returns the current phase
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.phase
}

// AwaitingPlayerID returns the player the scheduler is waiting on, or zero
func (s *Session) AwaitingPlayerID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return 0
	}

	return s.current.playerID
}

// Players returns the players in hand turn order
func (s *Session) Players() []*Player {
	return s.players
}

// SubmitAction submits a decision for the awaiting player.
// Actions from anyone but the awaiting player, or for a turn that has
// already been resolved, are rejected with ErrStaleAction and no mutation.
func (s *Session) SubmitAction(playerID int64, phase Phase, act action.Action) error {
	s.mu.Lock()
	t := s.current
	s.mu.Unlock()

	if t == nil || t.playerID != playerID {
		return ErrStaleAction
	}

	if phase != t.phase {
		s.notifyPlayer(playerID, newEvent(EventActionRejected, ActionRejected{
			PlayerID: playerID,
			Action:   act,
			Reason:   ErrPhaseMismatch.Error(),
		}))
		return ErrPhaseMismatch
	}

	if err := t.validate(act); err != nil {
		s.notifyPlayer(playerID, newEvent(EventActionRejected, ActionRejected{
			PlayerID: playerID,
			Action:   act,
			Reason:   err.Error(),
		}))
		return err
	}

	if !t.resolve(act, false) {
		return ErrStaleAction
	}

	return nil
}

// deal charges the ante, fixes the turn order, and deals four cards to each
// player. Players who cannot cover the ante sit the hand out; if fewer than
// the minimum remain, the hand never starts and nothing is debited.
func (s *Session) deal() error {
	s.advancePhase(PhaseDealing)

	kept := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		if p.Balance() < s.opts.Ante {
			s.logger.WithField("player", p.ID()).Info("player cannot cover the ante")
			s.notifyRoom(newEvent(EventPlayerDropped, PlayerDropped{
				PlayerID: p.ID(),
				Reason:   "cannot cover the ante",
			}))
			continue
		}

		kept = append(kept, p)
	}

	if len(kept) < s.opts.MinPlayers {
		return ErrNotEnoughPlayers
	}

	// the hand turn order is the join order rotated to a random seat
	offset := s.rnd.Intn(len(kept))
	ordered := make([]*Player, 0, len(kept))
	ordered = append(ordered, kept[offset:]...)
	ordered = append(ordered, kept[:offset]...)
	s.players = ordered

	for _, p := range ordered {
		p.hand = deck.Hand{}
		if err := s.ledger.SeatParticipant(p); err != nil {
			// balance was checked above; nothing was mutated
			return err
		}
	}

	s.deck.Shuffle()
	s.logger.WithField("seed", s.deck.GetSeed()).Debug("deck shuffled")

	for i := 0; i < deck.HandSize; i++ {
		for _, p := range ordered {
			card, err := s.deck.Draw()
			if err != nil {
				return err
			}

			p.hand.AddCard(card)
		}
	}

	for _, p := range ordered {
		sort.Sort(p.hand)
		s.notifyPlayer(p.ID(), newEvent(EventHandDealt, HandDealt{
			PlayerID: p.ID(),
			Cards:    p.hand.Clone(),
		}))
	}

	return nil
}

// runBettingPhase iterates the turn order until every player who can act
// has matched the bet level, or at most one player remains
func (s *Session) runBettingPhase(ctx context.Context) error {
	s.ledger.StartPhase()

	seats := s.ledger.Seats()
	idx := 0
	for !s.ledger.PhaseComplete() {
		seat := nextBettingSeat(seats, &idx)
		if seat == nil {
			// no seat owes an action; PhaseComplete should have been true
			s.logger.Error("no actionable seat in an open betting phase")
			return nil
		}

		p := s.playerByID(seat.ID())
		required := s.ledger.BetLevel() - seat.PhaseBet()
		t := newTurn(p.ID(), s.phase, required, p.Balance(), s.opts.RaisePresets, s.opts.BettingTimeout)

		dec, err := s.awaitDecision(ctx, t)
		if err != nil {
			return err
		}

		s.applyBettingAction(p, dec)
	}

	return nil
}

func nextBettingSeat(seats []*ledger.Seat, idx *int) *ledger.Seat {
	for scanned := 0; scanned < len(seats); scanned++ {
		seat := seats[*idx%len(seats)]
		*idx++

		if seat.CanAct() && !seat.HasActed() {
			return seat
		}
	}

	return nil
}

func (s *Session) applyBettingAction(p *Player, dec decision) {
	var (
		paid int
		err  error
	)

	switch dec.act.Kind {
	case action.Call:
		paid, err = s.ledger.Call(p.ID())
	case action.Fold:
		err = s.ledger.Fold(p.ID())
	case action.Raise:
		paid, err = s.ledger.Raise(p.ID(), dec.act.Amount)
	case action.AllIn:
		paid, _, err = s.ledger.RaiseAllIn(p.ID())
	}

	if err != nil {
		// the action was validated against the same snapshot the ledger sees
		s.logger.WithError(err).WithField("player", p.ID()).Error("could not apply validated action")
		return
	}

	if dec.timedOut {
		s.notifyRoom(newEvent(EventTimeoutDefault, TimeoutDefault{
			PlayerID: p.ID(),
			Phase:    s.phase,
			Action:   dec.act,
		}))
		return
	}

	s.notifyRoom(newEvent(EventActionResult, ActionResult{
		PlayerID: p.ID(),
		Action:   dec.act,
		Paid:     paid,
		BetLevel: s.ledger.BetLevel(),
		Message:  p.Name() + " " + dec.act.LogMessage(),
	}))
}

// runExchangePhase gives every non-folded player, all-in players included,
// exactly one decision to replace 0-4 cards
func (s *Session) runExchangePhase(ctx context.Context) error {
	for _, seat := range s.ledger.Seats() {
		if seat.Folded() {
			continue
		}

		p := s.playerByID(seat.ID())
		t := newTurn(p.ID(), s.phase, 0, p.Balance(), nil, s.opts.ExchangeTimeout)

		dec, err := s.awaitDecision(ctx, t)
		if err != nil {
			return err
		}

		if err := s.applyExchange(p, dec); err != nil {
			return err
		}
	}

	return nil
}

func (s *Session) applyExchange(p *Player, dec decision) error {
	discards := make([]deck.Card, 0, len(dec.act.CardIndexes))
	for _, idx := range dec.act.CardIndexes {
		if !s.deck.CanDraw(1) {
			s.deck.ShuffleDiscards(s.discards)
			s.discards = nil
		}

		card, err := s.deck.Draw()
		if err != nil {
			return err
		}

		discard, err := p.hand.ReplaceAt(idx, card)
		if err != nil {
			return ErrInvalidAction
		}

		discards = append(discards, discard)
	}
	s.discards = append(s.discards, discards...)

	if len(dec.act.CardIndexes) > 0 {
		sort.Sort(p.hand)
		s.notifyPlayer(p.ID(), newEvent(EventHandDealt, HandDealt{
			PlayerID: p.ID(),
			Cards:    p.hand.Clone(),
		}))
	}

	if dec.timedOut {
		s.notifyRoom(newEvent(EventTimeoutDefault, TimeoutDefault{
			PlayerID: p.ID(),
			Phase:    s.phase,
			Action:   dec.act,
		}))
		return nil
	}

	s.notifyRoom(newEvent(EventActionResult, ActionResult{
		PlayerID: p.ID(),
		Action:   dec.act,
		Message:  p.Name() + " " + dec.act.LogMessage(),
	}))

	return nil
}

// awaitDecision opens the turn, prompts the player, and suspends until a
// valid decision arrives or the timeout default is applied, whichever
// resolves the turn first
func (s *Session) awaitDecision(ctx context.Context, t *turn) (decision, error) {
	s.mu.Lock()
	s.current = t
	s.mu.Unlock()

	s.notifyPlayer(t.playerID, newEvent(EventTurnPrompt, TurnPrompt{
		PlayerID:     t.playerID,
		Phase:        t.phase,
		RequiredCall: t.requiredCall,
		Actions:      t.legalActions(),
		RaisePresets: t.presets,
		TimeoutSecs:  int(t.timeout.Seconds()),
	}))

	timer := time.NewTimer(t.timeout)
	defer timer.Stop()

	var dec decision
	select {
	case dec = <-t.decided:
	case <-timer.C:
		t.resolve(t.defaultAction(), true)
		// a manual action may have won the race; either way exactly one
		// decision is in the channel
		dec = <-t.decided
	case <-ctx.Done():
		s.clearTurn()
		t.resolve(action.Action{}, false)
		return decision{}, ctx.Err()
	}

	s.clearTurn()
	return dec, nil
}

func (s *Session) clearTurn() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

func (s *Session) advancePhase(phase Phase) {
	s.mu.Lock()
	s.phase = phase
	s.mu.Unlock()

	s.logger.WithField("phase", phase.String()).Debug("phase advanced")
	s.notifyRoom(newEvent(EventPhaseAdvanced, PhaseAdvanced{Phase: phase}))
}

// abortHand ends the hand without a payout. Chips already debited stay
// where they are; the event reports the forfeited total.
func (s *Session) abortHand(err error) {
	s.clearTurn()
	s.logger.WithError(err).Warn("hand aborted")

	s.notifyRoom(newEvent(EventHandAborted, HandAborted{
		Reason:    err.Error(),
		Forfeited: s.ledger.Total(),
	}))

	s.advancePhase(PhaseLobby)
}

func (s *Session) playerByID(id int64) *Player {
	for _, p := range s.players {
		if p.ID() == id {
			return p
		}
	}

	return nil
}

func (s *Session) notifyRoom(event *Event) {
	s.sink.Notify(Target{RoomID: s.roomID}, event)
}

func (s *Session) notifyPlayer(playerID int64, event *Event) {
	s.sink.Notify(Target{RoomID: s.roomID, PlayerID: playerID}, event)
}
