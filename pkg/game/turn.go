package game

import (
	"sync"
	"time"

	"badugi-server/pkg/deck"
	"badugi-server/pkg/game/action"
)

// decision is the resolution of a single turn
type decision struct {
	act      action.Action
	timedOut bool
}

// turn is one outstanding decision request. Everything a submitted action
// is validated against is snapshotted here when the turn opens, so
// validation never touches live game state. The one-shot channel plus the
// sync.Once make the manual-action/timeout race structural: exactly one
// resolution wins, the other path is a no-op.
type turn struct {
	playerID     int64
	phase        Phase
	requiredCall int
	balance      int
	presets      []int
	timeout      time.Duration

	once    sync.Once
	decided chan decision
}

func newTurn(playerID int64, phase Phase, requiredCall, balance int, presets []int, timeout time.Duration) *turn {
	return &turn{
		playerID:     playerID,
		phase:        phase,
		requiredCall: requiredCall,
		balance:      balance,
		presets:      presets,
		timeout:      timeout,
		decided:      make(chan decision, 1),
	}
}

// resolve attempts to settle the turn. Returns false if the turn was
// already resolved by the other path.
func (t *turn) resolve(act action.Action, timedOut bool) bool {
	resolved := false
	t.once.Do(func() {
		t.decided <- decision{act: act, timedOut: timedOut}
		resolved = true
	})

	return resolved
}

// legalActions returns the actions the player may take on this turn
func (t *turn) legalActions() []action.Kind {
	if t.phase.IsExchange() {
		return []action.Kind{action.Exchange}
	}

	kinds := []action.Kind{action.Call, action.Fold}
	if t.balance > t.requiredCall {
		kinds = append(kinds, action.Raise)
	}

	if t.balance > 0 {
		kinds = append(kinds, action.AllIn)
	}

	return kinds
}

// defaultAction is applied when the turn times out: call when the balance
// covers the required amount, fold otherwise; exchange phases keep the hand
func (t *turn) defaultAction() action.Action {
	if t.phase.IsExchange() {
		return action.NewExchange()
	}

	if t.balance >= t.requiredCall {
		return action.NewCall()
	}

	return action.NewFold()
}

// validate checks an action against the turn snapshot
func (t *turn) validate(act action.Action) error {
	if t.phase.IsExchange() {
		if act.Kind != action.Exchange {
			return ErrInvalidAction
		}

		if len(act.CardIndexes) > deck.HandSize {
			return ErrInvalidAction
		}

		seen := make(map[int]bool)
		for _, idx := range act.CardIndexes {
			if idx < 0 || idx >= deck.HandSize || seen[idx] {
				return ErrInvalidAction
			}

			seen[idx] = true
		}

		return nil
	}

	switch act.Kind {
	case action.Call, action.Fold:
		return nil
	case action.Raise:
		if act.Amount <= 0 {
			return ErrInvalidAction
		}

		if t.balance < t.requiredCall+act.Amount {
			return ErrInsufficientChips
		}

		return nil
	case action.AllIn:
		if t.balance <= 0 {
			return ErrInvalidAction
		}

		return nil
	}

	return ErrInvalidAction
}
