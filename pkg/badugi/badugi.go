// Package badugi ranks four-card Badugi hands.
//
// The best hand plays all four cards with no two cards sharing a suit or a
// rank, low ranks winning. Hands are compared first by the number of cards
// that play, then by the rank total of the played cards.
package badugi

import (
	"fmt"
	"sort"
	"strings"

	"badugi-server/pkg/deck"
)

// Category is the class of a Badugi hand, determined by how many cards play
type Category int

// categories, worst to best
const (
	Base   Category = iota + 1 // only one card plays
	Third                      // two cards play
	Second                     // three cards play
	Made                       // all four cards play
)

func (c Category) String() string {
	switch c {
	case Made:
		return "Made"
	case Second:
		return "Second"
	case Third:
		return "Third"
	case Base:
		return "Base"
	}

	panic("unknown category")
}

// categoryWeight separates subset sizes in the score. It must exceed the
// largest possible rank total (K+Q+J+10, doubled, is 92).
const categoryWeight = 1000

// rankValue returns the doubled rank value of a card. The ace counts as a
// half point below the deuce, so doubling keeps the arithmetic integral.
func rankValue(card deck.Card) int {
	if card.Rank == deck.Ace {
		return 1
	}

	return card.Rank * 2
}

// Result is the outcome of evaluating a hand.
// A lower score is strictly better. The score encodes the category, so
// comparing scores alone yields the full showdown ordering.
type Result struct {
	Category Category
	Score    int
	Played   deck.Hand
}

// Beats returns true if the result is strictly better than the other
func (r Result) Beats(other Result) bool {
	return r.Score < other.Score
}

// Ties returns true if the two results are equally strong
func (r Result) Ties(other Result) bool {
	return r.Score == other.Score
}

func (r Result) String() string {
	cards := make([]string, len(r.Played))
	for i, card := range r.Played {
		cards[i] = card.String()
	}

	return fmt.Sprintf("%s (%s)", r.Category, strings.Join(cards, " "))
}

// Evaluate finds the largest subset of the hand with all suits distinct and
// all ranks distinct, preferring the lowest rank total among subsets of the
// same size.
//
// A greedy ascending scan is not sufficient here: with a hand like
// A♠,A♣,2♠,3♦ the scan keeps A♠ and then rejects A♣ on rank and 2♠ on
// suit, even though A♣,2♠,3♦ all play together. With only four cards the
// subsets can be enumerated outright, which is exact.
func Evaluate(hand deck.Hand) Result {
	if len(hand) != deck.HandSize {
		panic(fmt.Sprintf("badugi hands have %d cards, got %d", deck.HandSize, len(hand)))
	}

	cards := hand.Clone()
	sort.Slice(cards, func(i, j int) bool {
		if rankValue(cards[i]) != rankValue(cards[j]) {
			return rankValue(cards[i]) < rankValue(cards[j])
		}

		return cards[i].Suit < cards[j].Suit
	})

	bestSize, bestSum := 0, 0
	var bestPlayed deck.Hand

	for mask := 1; mask < 1<<len(cards); mask++ {
		var (
			suits  [4]bool
			ranks  [14]bool
			played deck.Hand
			sum    int
			valid  = true
		)

		for i, card := range cards {
			if mask&(1<<i) == 0 {
				continue
			}

			si := suitIndex(card.Suit)
			if suits[si] || ranks[card.Rank] {
				valid = false
				break
			}

			suits[si] = true
			ranks[card.Rank] = true
			played = append(played, card)
			sum += rankValue(card)
		}

		if !valid {
			continue
		}

		if len(played) > bestSize || (len(played) == bestSize && sum < bestSum) {
			bestSize = len(played)
			bestSum = sum
			bestPlayed = played
		}
	}

	return Result{
		Category: Category(bestSize),
		Score:    (deck.HandSize-bestSize)*categoryWeight + bestSum,
		Played:   bestPlayed,
	}
}

func suitIndex(suit deck.Suit) int {
	switch suit {
	case deck.Clubs:
		return 0
	case deck.Diamonds:
		return 1
	case deck.Hearts:
		return 2
	case deck.Spades:
		return 3
	}

	panic("unknown suit")
}
