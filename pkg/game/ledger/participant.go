package ledger

// Participant provides an interface for retrieving and adjusting a participant's balance
type Participant interface {
	ID() int64
	Balance() int
	AdjustBalance(amount int)
}

// Seat is a participant's bookkeeping entry for one hand
type Seat struct {
	Participant
	// handIndex is the seat's position in the fixed hand turn order
	handIndex      int
	antePaid       int
	betContributed int
	phaseBet       int
	folded         bool
	allIn          bool
	acted          bool
}

// HandIndex returns the seat's position in the hand turn order
func (s *Seat) HandIndex() int {
	return s.handIndex
}

// PhaseBet returns the amount contributed during the current phase
func (s *Seat) PhaseBet() int {
	return s.phaseBet
}

// TotalContributed returns everything the seat put in this hand, ante included
func (s *Seat) TotalContributed() int {
	return s.antePaid + s.betContributed
}

// Folded returns true if the seat folded
func (s *Seat) Folded() bool {
	return s.folded
}

// AllIn returns true if the seat is all-in
func (s *Seat) AllIn() bool {
	return s.allIn
}

// HasActed returns true if the seat has acted during the current phase
// A raise by another seat clears this marker.
func (s *Seat) HasActed() bool {
	return s.acted
}

// CanAct returns true if the seat can still make betting decisions
func (s *Seat) CanAct() bool {
	return !s.folded && !s.allIn
}

// contribute moves chips from the seat's balance into the hand
func (s *Seat) contribute(amount int) {
	s.AdjustBalance(-1 * amount)
	s.phaseBet += amount
	s.betContributed += amount
}

// startPhase is called when a new betting phase begins
func (s *Seat) startPhase() {
	s.phaseBet = 0
	s.acted = false
}
