package game

import "encoding/json"

// Phase is a stage of a Badugi hand
// A hand moves through the phases in a fixed linear order; the only
// deviation is the skip to showdown once at most one player remains.
type Phase int

// phase constants
const (
	PhaseLobby Phase = iota
	PhaseDealing
	PhaseBetting1
	PhaseExchange1
	PhaseBetting2
	PhaseExchange2
	PhaseBetting3
	PhaseShowdown
)

// handPhases is the order of play between dealing and showdown
var handPhases = []Phase{
	PhaseBetting1,
	PhaseExchange1,
	PhaseBetting2,
	PhaseExchange2,
	PhaseBetting3,
}

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseDealing:
		return "dealing"
	case PhaseBetting1:
		return "betting-1"
	case PhaseExchange1:
		return "exchange-1"
	case PhaseBetting2:
		return "betting-2"
	case PhaseExchange2:
		return "exchange-2"
	case PhaseBetting3:
		return "betting-3"
	case PhaseShowdown:
		return "showdown"
	}

	panic("unknown phase")
}

// IsBetting returns true for the three betting phases
func (p Phase) IsBetting() bool {
	return p == PhaseBetting1 || p == PhaseBetting2 || p == PhaseBetting3
}

// IsExchange returns true for the two exchange phases
func (p Phase) IsExchange() bool {
	return p == PhaseExchange1 || p == PhaseExchange2
}

// MarshalJSON encodes the phase as its name
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}
