package game

import (
	"github.com/sirupsen/logrus"

	"badugi-server/pkg/deck"
)

// Player is a participant in a room. The balance is loaded from the wallet
// when the player joins; every adjustment during play is mirrored back.
type Player struct {
	id      int64
	name    string
	balance int
	hand    deck.Hand
	wallet  WalletStore
	logger  logrus.FieldLogger
}

// NewPlayer returns a player whose starting balance is read from the wallet
func NewPlayer(logger logrus.FieldLogger, wallet WalletStore, id int64, name string) (*Player, error) {
	balance, err := wallet.Balance(id)
	if err != nil {
		return nil, err
	}

	return &Player{
		id:      id,
		name:    name,
		balance: balance,
		wallet:  wallet,
		logger:  logger.WithField("player", id),
	}, nil
}

// ID returns the player's identifier
func (p *Player) ID() int64 {
	return p.id
}

// Name returns the player's display name
func (p *Player) Name() string {
	return p.name
}

// Balance returns the player's chip balance
func (p *Player) Balance() int {
	return p.balance
}

// Hand returns the player's current cards
func (p *Player) Hand() deck.Hand {
	return p.hand
}

// AdjustBalance applies a delta locally and mirrors it to the wallet.
// The engine's balance stays authoritative for the rest of the hand if the
// wallet write fails.
func (p *Player) AdjustBalance(amount int) {
	p.balance += amount

	if err := p.wallet.AdjustBalance(p.id, amount); err != nil {
		p.logger.WithError(err).WithField("delta", amount).Error("could not adjust wallet balance")
	}
}
