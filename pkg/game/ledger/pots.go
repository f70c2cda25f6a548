package ledger

import "sort"

// Pot is a tier of chips with the seats eligible to win it.
// Pots are constructed once, at showdown, and never mutated afterward.
type Pot struct {
	Amount   int     `json:"amount"`
	Eligible []int64 `json:"eligible"`
}

// Pots is an ordered list of pots, smallest contribution tier first
type Pots []*Pot

// Total returns the combined total of all pots
func (p Pots) Total() int {
	total := 0
	for _, pot := range p {
		total += pot.Amount
	}

	return total
}

// BuildPots constructs the pots from the whole hand's contribution history.
//
// The distinct betting contribution levels among non-folded seats form the
// tiers, ascending. Each tier's pot collects every seat's chips between the
// previous level and this one, folded seats included, while eligibility is
// limited to non-folded seats at or above the level. Dead money from a
// folded seat above the top tier falls into the last pot. The first pot
// absorbs the ante pool; the ante is equal for all starters, so it has no
// tiering effect. The sum over all pots always equals the sum of every
// seat's TotalContributed.
func (l *Ledger) BuildPots() Pots {
	levelSet := make(map[int]bool)
	for _, seat := range l.order {
		if !seat.folded {
			levelSet[seat.betContributed] = true
		}
	}

	levels := make([]int, 0, len(levelSet))
	for level := range levelSet {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	pots := make(Pots, 0, len(levels))
	prev := 0
	for _, level := range levels {
		amount := 0
		for _, seat := range l.order {
			amount += min(seat.betContributed, level) - min(seat.betContributed, prev)
		}

		eligible := make([]int64, 0)
		for _, seat := range l.order {
			if !seat.folded && seat.betContributed >= level {
				eligible = append(eligible, seat.ID())
			}
		}

		pots = append(pots, &Pot{Amount: amount, Eligible: eligible})
		prev = level
	}

	if len(pots) == 0 {
		// no seats remain; unreachable in a normal hand
		return Pots{{Amount: l.Total()}}
	}

	// dead money from folded seats above the top tier
	leftover := 0
	for _, seat := range l.order {
		leftover += seat.betContributed - min(seat.betContributed, prev)
	}
	pots[len(pots)-1].Amount += leftover

	pots[0].Amount += l.antePool

	return pots
}

func min(a, b int) int {
	if a < b {
		return a
	}

	return b
}
