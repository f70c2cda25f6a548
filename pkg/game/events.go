package game

import (
	"time"

	"github.com/google/uuid"

	"badugi-server/pkg/badugi"
	"badugi-server/pkg/deck"
	"badugi-server/pkg/game/action"
)

// EventKind identifies an outbound event
type EventKind string

// event kinds
const (
	EventHandDealt      EventKind = "handDealt"
	EventTurnPrompt     EventKind = "turnPrompt"
	EventActionResult   EventKind = "actionResult"
	EventActionRejected EventKind = "actionRejected"
	EventPlayerDropped  EventKind = "playerDropped"
	EventPhaseAdvanced  EventKind = "phaseAdvanced"
	EventTimeoutDefault EventKind = "timeoutDefault"
	EventShowdownPot    EventKind = "showdownPot"
	EventHandAborted    EventKind = "handAborted"
)

// Target addresses an event to a whole room or to one player in it.
// A zero PlayerID means the whole room.
type Target struct {
	RoomID   string `json:"roomId"`
	PlayerID int64  `json:"playerId,omitempty"`
}

// Event is a single outbound notification
type Event struct {
	UUID string      `json:"uuid"`
	Kind EventKind   `json:"kind"`
	Time time.Time   `json:"time"`
	Data interface{} `json:"data"`
}

func newEvent(kind EventKind, data interface{}) *Event {
	return &Event{
		UUID: uuid.New().String(),
		Kind: kind,
		Time: time.Now(),
		Data: data,
	}
}

// HandDealt is sent to each player with their private cards, both at the
// deal and after an exchange
type HandDealt struct {
	PlayerID int64     `json:"playerId"`
	Cards    deck.Hand `json:"cards"`
}

// TurnPrompt asks a player for a decision
type TurnPrompt struct {
	PlayerID     int64         `json:"playerId"`
	Phase        Phase         `json:"phase"`
	RequiredCall int           `json:"requiredCall"`
	Actions      []action.Kind `json:"actions"`
	RaisePresets []int         `json:"raisePresets,omitempty"`
	TimeoutSecs  int           `json:"timeoutSecs"`
}

// ActionResult reports an applied action
type ActionResult struct {
	PlayerID int64         `json:"playerId"`
	Action   action.Action `json:"action"`
	Paid     int           `json:"paid"`
	BetLevel int           `json:"betLevel"`
	Message  string        `json:"message"`
}

// ActionRejected reports a rejected action and the reason
type ActionRejected struct {
	PlayerID int64         `json:"playerId"`
	Action   action.Action `json:"action"`
	Reason   string        `json:"reason"`
}

// PlayerDropped reports a player removed from the hand before the deal
type PlayerDropped struct {
	PlayerID int64  `json:"playerId"`
	Reason   string `json:"reason"`
}

// PhaseAdvanced reports a phase transition
type PhaseAdvanced struct {
	Phase Phase `json:"phase"`
}

// TimeoutDefault reports that a turn was resolved by its timeout default
type TimeoutDefault struct {
	PlayerID int64         `json:"playerId"`
	Phase    Phase         `json:"phase"`
	Action   action.Action `json:"action"`
}

// ShowdownHand is one player's revealed hand in a pot result
type ShowdownHand struct {
	PlayerID int64     `json:"playerId"`
	Cards    deck.Hand `json:"cards"`
	Rank     string    `json:"rank"`
	Score    int       `json:"score"`
}

// ShowdownPot reports the resolution of a single pot
type ShowdownPot struct {
	PotIndex int            `json:"potIndex"`
	Amount   int            `json:"amount"`
	Winners  []int64        `json:"winners"`
	Share    int            `json:"share"`
	Hands    []ShowdownHand `json:"hands,omitempty"`
}

// HandAborted reports a hand that ended without a showdown payout
type HandAborted struct {
	Reason string `json:"reason"`
	// Forfeited is the pot total at the time of the abort. Chips already
	// debited are not rolled back.
	Forfeited int `json:"forfeited"`
}

func newShowdownHand(playerID int64, hand deck.Hand, result badugi.Result) ShowdownHand {
	return ShowdownHand{
		PlayerID: playerID,
		Cards:    hand,
		Rank:     result.String(),
		Score:    result.Score,
	}
}
