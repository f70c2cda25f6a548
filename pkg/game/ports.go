package game

// WalletStore provides access to player chip balances.
// The engine debits antes and bets and credits pot winnings through this
// interface; it never assumes anything about where balances live.
type WalletStore interface {
	// Balance returns the player's current balance
	Balance(playerID int64) (int, error)

	// AdjustBalance applies a delta to the player's balance
	AdjustBalance(playerID int64, delta int) error
}

// StatsRecorder records per-pot win/loss outcomes.
// It is invoked once per eligible player per resolved pot.
type StatsRecorder interface {
	RecordOutcome(playerID int64, won bool)
}

// NotificationSink receives the engine's outbound events.
// The engine makes exactly one Notify call per required event; delivery and
// fallback routing are the transport's concern.
type NotificationSink interface {
	Notify(target Target, event *Event)
}
