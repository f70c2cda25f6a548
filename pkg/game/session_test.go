package game

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badugi-server/pkg/game/action"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type sinkRecord struct {
	target Target
	event  *Event
}

// recordingSink captures every notification and streams it to a channel so
// tests can drive the scheduler from outside
type recordingSink struct {
	mu      sync.Mutex
	records []sinkRecord
	ch      chan sinkRecord
}

func newRecordingSink() *recordingSink {
	return &recordingSink{ch: make(chan sinkRecord, 512)}
}

func (s *recordingSink) Notify(target Target, event *Event) {
	rec := sinkRecord{target: target, event: event}

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()

	s.ch <- rec
}

func (s *recordingSink) byKind(kind EventKind) []sinkRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []sinkRecord
	for _, rec := range s.records {
		if rec.event.Kind == kind {
			found = append(found, rec)
		}
	}

	return found
}

type recordedOutcome struct {
	playerID int64
	won      bool
}

type recordingStats struct {
	mu       sync.Mutex
	outcomes []recordedOutcome
}

func (s *recordingStats) RecordOutcome(playerID int64, won bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outcomes = append(s.outcomes, recordedOutcome{playerID: playerID, won: won})
}

func testOptions() Options {
	return Options{
		Ante:            10,
		MinPlayers:      2,
		MaxPlayers:      8,
		BettingTimeout:  time.Second * 5,
		ExchangeTimeout: time.Second * 5,
		RaisePresets:    []int{10, 20, 50},
		DeckSeed:        42,
	}
}

type sessionFixture struct {
	t       *testing.T
	session *Session
	wallet  *MemoryWallet
	sink    *recordingSink
	stats   *recordingStats
	cancel  context.CancelFunc
}

func setupSession(t *testing.T, balances map[int64]int, opts Options) *sessionFixture {
	t.Helper()

	wallet := NewMemoryWallet(balances)
	logger := testLogger()

	ids := make([]int64, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	// map iteration order must not leak into the join order
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[j] < ids[i] {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}

	players := make([]*Player, 0, len(ids))
	for _, id := range ids {
		p, err := NewPlayer(logger, wallet, id, string(rune('a'+id-1)))
		require.NoError(t, err)
		players = append(players, p)
	}

	sink := newRecordingSink()
	stats := &recordingStats{}

	session, err := NewSession(logger, "room-1", players, opts, stats, sink)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go session.Run(ctx)

	return &sessionFixture{
		t:       t,
		session: session,
		wallet:  wallet,
		sink:    sink,
		stats:   stats,
		cancel:  cancel,
	}
}

// play answers every turn prompt with the next scripted action for its
// phase until the hand finishes
func (f *sessionFixture) play(script map[Phase][]action.Action) {
	f.t.Helper()

	deadline := time.After(time.Second * 10)
	for {
		select {
		case rec := <-f.sink.ch:
			if rec.event.Kind != EventTurnPrompt {
				continue
			}

			prompt := rec.event.Data.(TurnPrompt)
			queue := script[prompt.Phase]
			require.NotEmpty(f.t, queue, "no scripted action for %s", prompt.Phase)

			act := queue[0]
			script[prompt.Phase] = queue[1:]
			require.NoError(f.t, f.session.SubmitAction(prompt.PlayerID, prompt.Phase, act))
		case <-f.session.Done():
			return
		case <-deadline:
			f.t.Fatal("hand did not finish in time")
		}
	}
}

// playFunc answers every turn prompt with whatever decide returns
func (f *sessionFixture) playFunc(decide func(prompt TurnPrompt) action.Action) {
	f.t.Helper()

	deadline := time.After(time.Second * 10)
	for {
		select {
		case rec := <-f.sink.ch:
			if rec.event.Kind != EventTurnPrompt {
				continue
			}

			prompt := rec.event.Data.(TurnPrompt)
			require.NoError(f.t, f.session.SubmitAction(prompt.PlayerID, prompt.Phase, decide(prompt)))
		case <-f.session.Done():
			return
		case <-deadline:
			f.t.Fatal("hand did not finish in time")
		}
	}
}

func (f *sessionFixture) waitDone() {
	f.t.Helper()

	select {
	case <-f.session.Done():
	case <-time.After(time.Second * 10):
		f.t.Fatal("hand did not finish in time")
	}
}

func (f *sessionFixture) balance(id int64) int {
	balance, err := f.wallet.Balance(id)
	require.NoError(f.t, err)
	return balance
}

func TestSession_scriptedHand(t *testing.T) {
	f := setupSession(t, map[int64]int{1: 100, 2: 100, 3: 100}, testOptions())

	f.play(map[Phase][]action.Action{
		PhaseBetting1: {action.NewRaise(20), action.NewCall(), action.NewCall()},
		PhaseExchange1: {
			action.NewExchange(0, 1),
			action.NewExchange(),
			action.NewExchange(3),
		},
		PhaseBetting2:  {action.NewCall(), action.NewCall(), action.NewCall()},
		PhaseExchange2: {action.NewExchange(), action.NewExchange(), action.NewExchange()},
		PhaseBetting3:  {action.NewCall(), action.NewCall(), action.NewCall()},
	})

	assert.Equal(t, PhaseLobby, f.session.Phase())

	// the hand walked every phase in order
	var phases []Phase
	for _, rec := range f.sink.byKind(EventPhaseAdvanced) {
		phases = append(phases, rec.event.Data.(PhaseAdvanced).Phase)
	}
	assert.Equal(t, []Phase{
		PhaseDealing,
		PhaseBetting1,
		PhaseExchange1,
		PhaseBetting2,
		PhaseExchange2,
		PhaseBetting3,
		PhaseShowdown,
		PhaseLobby,
	}, phases)

	// cards are dealt privately
	dealt := f.sink.byKind(EventHandDealt)
	require.GreaterOrEqual(t, len(dealt), 3)
	for _, rec := range dealt {
		assert.NotZero(t, rec.target.PlayerID)
		assert.Equal(t, rec.event.Data.(HandDealt).PlayerID, rec.target.PlayerID)
		assert.Len(t, rec.event.Data.(HandDealt).Cards, 4)
	}

	// everyone contributed equally so there is a single pot of three antes
	// plus three bets of twenty
	pots := f.sink.byKind(EventShowdownPot)
	require.Len(t, pots, 1)
	pot := pots[0].event.Data.(ShowdownPot)
	assert.Equal(t, 90, pot.Amount)
	assert.NotEmpty(t, pot.Winners)
	assert.Len(t, pot.Hands, 3)
	assert.Zero(t, pots[0].target.PlayerID)

	// chips are conserved across the wallet
	total := f.balance(1) + f.balance(2) + f.balance(3)
	assert.Equal(t, 300, total)

	// the winners got paid
	for _, id := range pot.Winners {
		assert.Greater(t, f.balance(id), 70)
	}

	// one outcome per eligible player
	assert.Len(t, f.stats.outcomes, 3)
}

func TestSession_foldToOne(t *testing.T) {
	f := setupSession(t, map[int64]int{1: 100, 2: 100, 3: 100}, testOptions())

	f.play(map[Phase][]action.Action{
		PhaseBetting1: {action.NewFold(), action.NewFold()},
	})

	// the hand short-circuits to showdown; no exchange phase ever opens
	for _, rec := range f.sink.byKind(EventTurnPrompt) {
		assert.True(t, rec.event.Data.(TurnPrompt).Phase.IsBetting())
	}

	pots := f.sink.byKind(EventShowdownPot)
	require.Len(t, pots, 1)
	pot := pots[0].event.Data.(ShowdownPot)
	assert.Equal(t, 30, pot.Amount)
	require.Len(t, pot.Winners, 1)
	// the uncontested winner reveals nothing
	assert.Empty(t, pot.Hands)

	assert.Equal(t, 120, f.balance(pot.Winners[0]))
}

func TestSession_timeoutDefaults(t *testing.T) {
	opts := testOptions()
	opts.BettingTimeout = time.Millisecond * 25
	opts.ExchangeTimeout = time.Millisecond * 25

	f := setupSession(t, map[int64]int{1: 100, 2: 100}, opts)
	f.waitDone()

	// every turn timed out: checks in the three betting phases and no-op
	// exchanges in the two draw phases
	defaults := f.sink.byKind(EventTimeoutDefault)
	assert.Len(t, defaults, 10)
	assert.Empty(t, f.sink.byKind(EventActionResult))

	for _, rec := range defaults {
		data := rec.event.Data.(TimeoutDefault)
		if data.Phase.IsBetting() {
			assert.Equal(t, action.Call, data.Action.Kind)
		} else {
			assert.Equal(t, action.Exchange, data.Action.Kind)
			assert.Empty(t, data.Action.CardIndexes)
		}
	}

	pots := f.sink.byKind(EventShowdownPot)
	require.Len(t, pots, 1)
	assert.Equal(t, 20, pots[0].event.Data.(ShowdownPot).Amount)

	assert.Equal(t, 200, f.balance(1)+f.balance(2))
}

func TestSession_rejectsBadSubmissions(t *testing.T) {
	f := setupSession(t, map[int64]int{1: 100, 2: 100, 3: 100}, testOptions())

	deadline := time.After(time.Second * 10)
	var prompt TurnPrompt
	for prompt.PlayerID == 0 {
		select {
		case rec := <-f.sink.ch:
			if rec.event.Kind == EventTurnPrompt {
				prompt = rec.event.Data.(TurnPrompt)
			}
		case <-deadline:
			t.Fatal("no turn prompt received")
		}
	}

	otherPlayer := prompt.PlayerID%3 + 1

	// an action from anyone but the awaiting player is silently ignored
	assert.Equal(t, ErrStaleAction, f.session.SubmitAction(otherPlayer, prompt.Phase, action.NewFold()))

	// a submission tagged with the wrong phase is rejected with a notification
	assert.Equal(t, ErrPhaseMismatch, f.session.SubmitAction(prompt.PlayerID, PhaseExchange1, action.NewExchange()))

	// a raise needs a positive amount
	assert.Equal(t, ErrInvalidAction, f.session.SubmitAction(prompt.PlayerID, prompt.Phase, action.NewRaise(0)))

	// a raise beyond the balance is rejected without mutating anything
	assert.Equal(t, ErrInsufficientChips, f.session.SubmitAction(prompt.PlayerID, prompt.Phase, action.NewRaise(1000)))

	rejected := f.sink.byKind(EventActionRejected)
	assert.Len(t, rejected, 3)

	// the turn is still open after rejections
	assert.Equal(t, prompt.PlayerID, f.session.AwaitingPlayerID())

	// first valid action wins; a second submission for the same turn is stale
	assert.NoError(t, f.session.SubmitAction(prompt.PlayerID, prompt.Phase, action.NewFold()))
	assert.Equal(t, ErrStaleAction, f.session.SubmitAction(prompt.PlayerID, prompt.Phase, action.NewFold()))

	f.play(map[Phase][]action.Action{
		PhaseBetting1: {action.NewFold()},
	})
}

func TestSession_dropsPlayersBelowAnte(t *testing.T) {
	f := setupSession(t, map[int64]int{1: 100, 2: 5, 3: 100}, testOptions())

	f.play(map[Phase][]action.Action{
		PhaseBetting1: {action.NewFold()},
	})

	dropped := f.sink.byKind(EventPlayerDropped)
	require.Len(t, dropped, 1)
	assert.Equal(t, int64(2), dropped[0].event.Data.(PlayerDropped).PlayerID)

	// the dropped player was never charged
	assert.Equal(t, 5, f.balance(2))
	assert.Equal(t, 200, f.balance(1)+f.balance(3))
}

func TestSession_abortsWithoutEnoughPlayers(t *testing.T) {
	f := setupSession(t, map[int64]int{1: 5, 2: 100}, testOptions())
	f.waitDone()

	aborted := f.sink.byKind(EventHandAborted)
	require.Len(t, aborted, 1)
	data := aborted[0].event.Data.(HandAborted)
	assert.Equal(t, ErrNotEnoughPlayers.Error(), data.Reason)
	assert.Zero(t, data.Forfeited)

	// nothing was debited
	assert.Equal(t, 5, f.balance(1))
	assert.Equal(t, 100, f.balance(2))
	assert.Equal(t, PhaseLobby, f.session.Phase())
}

func TestSession_cancelAbortsWithoutRefund(t *testing.T) {
	f := setupSession(t, map[int64]int{1: 100, 2: 100}, testOptions())

	deadline := time.After(time.Second * 10)
	for {
		rec := sinkRecord{}
		select {
		case rec = <-f.sink.ch:
		case <-deadline:
			t.Fatal("no turn prompt received")
		}

		if rec.event.Kind == EventTurnPrompt {
			break
		}
	}

	f.cancel()
	f.waitDone()

	aborted := f.sink.byKind(EventHandAborted)
	require.Len(t, aborted, 1)
	assert.Equal(t, 20, aborted[0].event.Data.(HandAborted).Forfeited)

	// antes stay forfeited
	assert.Equal(t, 90, f.balance(1))
	assert.Equal(t, 90, f.balance(2))

	// a late submission finds no open turn
	err := f.session.SubmitAction(1, PhaseBetting1, action.NewCall())
	assert.Equal(t, ErrStaleAction, err)
}

func TestSession_allInShortStackSidePot(t *testing.T) {
	f := setupSession(t, map[int64]int{1: 40, 2: 100, 3: 100}, testOptions())

	// after the ante the short stack holds 30. A full stack raises 50, the
	// short stack calls all-in for 30 and the rest call in full, so the
	// main pot caps at the short stack's contribution and the overage forms
	// a side pot the short stack cannot win.
	raised := false
	f.playFunc(func(prompt TurnPrompt) action.Action {
		if prompt.Phase.IsExchange() {
			return action.NewExchange()
		}

		if !raised && prompt.PlayerID != 1 && prompt.Phase == PhaseBetting1 {
			raised = true
			return action.NewRaise(50)
		}

		return action.NewCall()
	})

	pots := f.sink.byKind(EventShowdownPot)
	require.Len(t, pots, 2)

	main := pots[0].event.Data.(ShowdownPot)
	side := pots[1].event.Data.(ShowdownPot)

	// main pot: three antes plus thirty from each of the three players
	assert.Equal(t, 120, main.Amount)
	assert.Len(t, main.Hands, 3)

	// side pot: the extra twenty from each of the two full stacks
	assert.Equal(t, 40, side.Amount)
	assert.Len(t, side.Hands, 2)
	for _, id := range side.Winners {
		assert.NotEqual(t, int64(1), id)
	}

	assert.Equal(t, 240, f.balance(1)+f.balance(2)+f.balance(3))
}

func TestNewSession_validation(t *testing.T) {
	wallet := NewMemoryWallet(map[int64]int{1: 100})
	logger := testLogger()
	p1, err := NewPlayer(logger, wallet, 1, "a")
	require.NoError(t, err)

	sink := newRecordingSink()
	stats := &recordingStats{}

	_, err = NewSession(logger, "room-1", []*Player{p1}, testOptions(), stats, sink)
	assert.Equal(t, ErrNotEnoughPlayers, err)

	opts := testOptions()
	opts.Ante = 0
	_, err = NewSession(logger, "room-1", []*Player{p1, p1}, opts, stats, sink)
	assert.Error(t, err)
}
