package game

import (
	"badugi-server/pkg/badugi"
)

// resolveShowdown settles the hand. If everyone but one player folded, the
// last player takes the whole pot without revealing a hand. Otherwise the
// pots are built from the contribution tiers and each pot goes to the best
// eligible hand, split evenly on ties with the odd chips to the winner
// earliest in turn order.
func (s *Session) resolveShowdown() {
	if s.ledger.NonFoldedCount() <= 1 {
		s.resolveFoldOut()
		return
	}

	results := make(map[int64]badugi.Result)
	for _, seat := range s.ledger.Seats() {
		if seat.Folded() {
			continue
		}

		p := s.playerByID(seat.ID())
		results[p.ID()] = badugi.Evaluate(p.hand)
	}

	for i, pot := range s.ledger.BuildPots() {
		winners := potWinners(pot.Eligible, results)
		if len(winners) == 0 {
			s.logger.WithField("pot", i).Error("pot has no eligible winner")
			continue
		}

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for j, id := range winners {
			amount := share
			if j == 0 {
				amount += remainder
			}

			s.playerByID(id).AdjustBalance(amount)
		}

		hands := make([]ShowdownHand, 0, len(pot.Eligible))
		for _, id := range pot.Eligible {
			hands = append(hands, newShowdownHand(id, s.playerByID(id).hand.Clone(), results[id]))
			s.stats.RecordOutcome(id, containsID(winners, id))
		}

		s.logger.WithField("pot", i).
			WithField("amount", pot.Amount).
			WithField("winners", winners).
			Info("pot awarded")

		s.notifyRoom(newEvent(EventShowdownPot, ShowdownPot{
			PotIndex: i,
			Amount:   pot.Amount,
			Winners:  winners,
			Share:    share,
			Hands:    hands,
		}))
	}
}

// resolveFoldOut pays the entire pot to the only remaining player.
// No hand is evaluated or revealed.
func (s *Session) resolveFoldOut() {
	seat := s.ledger.LastNonFolded()
	if seat == nil {
		s.logger.Error("showdown reached with no players in the hand")
		return
	}

	total := s.ledger.Total()
	p := s.playerByID(seat.ID())
	p.AdjustBalance(total)
	s.stats.RecordOutcome(p.ID(), true)

	s.logger.WithField("player", p.ID()).
		WithField("amount", total).
		Info("pot awarded uncontested")

	s.notifyRoom(newEvent(EventShowdownPot, ShowdownPot{
		PotIndex: 0,
		Amount:   total,
		Winners:  []int64{p.ID()},
		Share:    total,
	}))
}

// potWinners returns the eligible players holding the best hand, in hand
// turn order
func potWinners(eligible []int64, results map[int64]badugi.Result) []int64 {
	var (
		winners []int64
		best    badugi.Result
	)

	for _, id := range eligible {
		result, ok := results[id]
		if !ok {
			continue
		}

		if len(winners) == 0 || result.Beats(best) {
			winners = []int64{id}
			best = result
			continue
		}

		if result.Ties(best) {
			winners = append(winners, id)
		}
	}

	return winners
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}

	return false
}
