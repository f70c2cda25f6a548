// Package ledger tracks per-player contributions over a hand and builds the
// pots at showdown. Within a phase it maintains the running bet level, the
// acted markers, and the all-in and folded states the scheduler reads.
package ledger

import (
	"errors"
	"fmt"
)

// ErrSeatNotFound is an error when a seat with the provided ID cannot be found
var ErrSeatNotFound = errors.New("seat not found")

// ErrInsufficientChips is an error when a participant cannot cover an amount
var ErrInsufficientChips = errors.New("insufficient chips")

// ErrCannotAct is an error when a folded or all-in seat attempts a betting action
var ErrCannotAct = errors.New("seat cannot act")

// Ledger tracks contributions for a single hand
type Ledger struct {
	seats    map[int64]*Seat
	order    []*Seat
	ante     int
	antePool int
	betLevel int
}

// New instantiates a new Ledger
func New(ante int) *Ledger {
	return &Ledger{
		seats: make(map[int64]*Seat),
		order: make([]*Seat, 0),
		ante:  ante,
	}
}

// SeatParticipant adds a participant in hand turn order and charges the ante
// This method must be called in turn order.
func (l *Ledger) SeatParticipant(pt Participant) error {
	if pt.Balance() < l.ante {
		return ErrInsufficientChips
	}

	seat := &Seat{
		Participant: pt,
		handIndex:   len(l.order),
		antePaid:    l.ante,
	}

	pt.AdjustBalance(-1 * l.ante)
	l.antePool += l.ante

	l.seats[pt.ID()] = seat
	l.order = append(l.order, seat)
	return nil
}

// Seats returns the seats in hand turn order
func (l *Ledger) Seats() []*Seat {
	return l.order
}

// Seat returns the seat for the given participant ID
func (l *Ledger) Seat(id int64) (*Seat, error) {
	seat, ok := l.seats[id]
	if !ok {
		return nil, ErrSeatNotFound
	}

	return seat, nil
}

// StartPhase begins a new betting phase
func (l *Ledger) StartPhase() {
	l.betLevel = 0
	for _, seat := range l.order {
		seat.startPhase()
	}
}

// BetLevel returns the running maximum bet of the current phase
func (l *Ledger) BetLevel() int {
	return l.betLevel
}

// AntePool returns the total collected ante
func (l *Ledger) AntePool() int {
	return l.antePool
}

// Total returns every chip contributed to the hand so far, ante included
func (l *Ledger) Total() int {
	total := l.antePool
	for _, seat := range l.order {
		total += seat.betContributed
	}

	return total
}

// RequiredCall returns the amount the seat must put in to match the bet level
func (l *Ledger) RequiredCall(id int64) (int, error) {
	seat, err := l.Seat(id)
	if err != nil {
		return 0, err
	}

	return l.betLevel - seat.phaseBet, nil
}

// Call matches the current bet level, as far as the seat's balance allows.
// A call with no outstanding bet is a check. A seat that cannot fully cover
// the call is implicitly all-in. Returns the amount actually paid.
func (l *Ledger) Call(id int64) (int, error) {
	seat, err := l.actingSeat(id)
	if err != nil {
		return 0, err
	}

	required := l.betLevel - seat.phaseBet
	paid := required
	if paid > seat.Balance() {
		paid = seat.Balance()
	}

	seat.contribute(paid)
	if seat.Balance() == 0 && paid < required {
		seat.allIn = true
	}

	seat.acted = true
	return paid, nil
}

// Raise increases the bet level by amount above the required call.
// The seat pays the required call plus the raise. Every other seat that can
// still act is forced to act again.
func (l *Ledger) Raise(id int64, amount int) (int, error) {
	seat, err := l.actingSeat(id)
	if err != nil {
		return 0, err
	}

	if amount <= 0 {
		return 0, fmt.Errorf("raise must be greater than zero")
	}

	required := l.betLevel - seat.phaseBet
	if seat.Balance() < required+amount {
		return 0, ErrInsufficientChips
	}

	seat.contribute(required + amount)
	l.betLevel = seat.phaseBet
	l.reopen(seat)

	if seat.Balance() == 0 {
		seat.allIn = true
	}

	seat.acted = true
	return required + amount, nil
}

// RaiseAllIn commits the seat's entire balance.
// Returns the amount paid and whether the bet level increased.
func (l *Ledger) RaiseAllIn(id int64) (int, bool, error) {
	seat, err := l.actingSeat(id)
	if err != nil {
		return 0, false, err
	}

	paid := seat.Balance()
	if paid <= 0 {
		return 0, false, ErrInsufficientChips
	}

	seat.contribute(paid)
	seat.allIn = true
	seat.acted = true

	raised := false
	if seat.phaseBet > l.betLevel {
		l.betLevel = seat.phaseBet
		l.reopen(seat)
		raised = true
	}

	return paid, raised, nil
}

// Fold marks the seat folded. Contributions stay in the ledger as dead money.
func (l *Ledger) Fold(id int64) error {
	seat, err := l.actingSeat(id)
	if err != nil {
		return err
	}

	seat.folded = true
	seat.acted = true
	return nil
}

// reopen clears the acted marker for everyone but the raiser
func (l *Ledger) reopen(raiser *Seat) {
	for _, seat := range l.order {
		if seat != raiser && seat.CanAct() {
			seat.acted = false
		}
	}
}

// PhaseComplete returns true when the betting phase can close: at most one
// non-folded seat remains, or every seat that can act has acted and matches
// the bet level
func (l *Ledger) PhaseComplete() bool {
	if l.NonFoldedCount() <= 1 {
		return true
	}

	for _, seat := range l.order {
		if !seat.CanAct() {
			continue
		}

		if !seat.acted || seat.phaseBet != l.betLevel {
			return false
		}
	}

	return true
}

// NonFoldedCount returns the number of seats still in the hand
func (l *Ledger) NonFoldedCount() int {
	count := 0
	for _, seat := range l.order {
		if !seat.folded {
			count++
		}
	}

	return count
}

// CanActCount returns the number of seats that can still make betting decisions
func (l *Ledger) CanActCount() int {
	count := 0
	for _, seat := range l.order {
		if seat.CanAct() {
			count++
		}
	}

	return count
}

// LastNonFolded returns the only remaining seat, or nil if more than one remains
func (l *Ledger) LastNonFolded() *Seat {
	var last *Seat
	for _, seat := range l.order {
		if seat.folded {
			continue
		}

		if last != nil {
			return nil
		}

		last = seat
	}

	return last
}

func (l *Ledger) actingSeat(id int64) (*Seat, error) {
	seat, err := l.Seat(id)
	if err != nil {
		return nil, err
	}

	if !seat.CanAct() {
		return nil, ErrCannotAct
	}

	return seat, nil
}
