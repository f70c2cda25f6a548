package action

import (
	"encoding/json"
	"fmt"
)

// Kind represents a kind of action a player can take
type Kind string

// action kinds
const (
	Call     Kind = "call"
	Fold     Kind = "fold"
	Raise    Kind = "raise"
	AllIn    Kind = "allIn"
	Exchange Kind = "exchange"
)

var allowedKinds = map[Kind]bool{
	Call:     true,
	Fold:     true,
	Raise:    true,
	AllIn:    true,
	Exchange: true,
}

// KindFromString returns a kind for the given string
func KindFromString(s string) (Kind, error) {
	if _, ok := allowedKinds[Kind(s)]; ok {
		return Kind(s), nil
	}

	return "", fmt.Errorf("unknown action for identifier: %s", s)
}

func (k Kind) String() string {
	switch k {
	case Call:
		return "Call"
	case Fold:
		return "Fold"
	case Raise:
		return "Raise"
	case AllIn:
		return "All-In"
	case Exchange:
		return "Exchange"
	}

	panic("unknown action")
}

// IsValid returns true if the kind is permitted
func (k Kind) IsValid() bool {
	_, ok := allowedKinds[k]
	return ok
}

// MarshalJSON encodes the kind into JSON
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{
		ID:   string(k),
		Name: k.String(),
	})
}

// Action is a decision submitted by a player
type Action struct {
	Kind Kind `json:"kind"`
	// Amount is the raise increment above the required call. Only used by Raise.
	Amount int `json:"amount,omitempty"`
	// CardIndexes are the hand positions to exchange. Only used by Exchange.
	CardIndexes []int `json:"cardIndexes,omitempty"`
}

// NewCall returns a call action. With no outstanding bet, a call is a check.
func NewCall() Action {
	return Action{Kind: Call}
}

// NewFold returns a fold action
func NewFold() Action {
	return Action{Kind: Fold}
}

// NewRaise returns a raise action for the given increment
func NewRaise(amount int) Action {
	return Action{Kind: Raise, Amount: amount}
}

// NewAllIn returns an all-in action
func NewAllIn() Action {
	return Action{Kind: AllIn}
}

// NewExchange returns an exchange action for the given hand positions
func NewExchange(cardIndexes ...int) Action {
	if cardIndexes == nil {
		cardIndexes = []int{}
	}

	return Action{Kind: Exchange, CardIndexes: cardIndexes}
}

// LogMessage returns a message formatted for the game log
func (a Action) LogMessage() string {
	switch a.Kind {
	case Call:
		return "called"
	case Fold:
		return "folded"
	case Raise:
		return fmt.Sprintf("raised by ${%d}", a.Amount)
	case AllIn:
		return "went all-in"
	case Exchange:
		return fmt.Sprintf("exchanged %d card(s)", len(a.CardIndexes))
	}

	return ""
}
