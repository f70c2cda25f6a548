package deck

import (
	"fmt"
	"strings"
)

// HandSize is the number of cards in a Badugi hand
const HandSize = 4

// Hand represents a collection of cards
type Hand []Card

func (h Hand) Len() int {
	return len(h)
}

func (h Hand) Less(i, j int) bool {
	if h[i].Rank != h[j].Rank {
		return h[i].Rank < h[j].Rank
	}

	return strings.Compare(string(h[i].Suit), string(h[j].Suit)) < 0
}

func (h Hand) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// AddCard adds a card to the hand
func (h *Hand) AddCard(card Card) {
	*h = append(*h, card)
}

// HasCard returns true if the hand contains the specified card
func (h Hand) HasCard(card Card) bool {
	for _, c := range h {
		if c.Equal(card) {
			return true
		}
	}

	return false
}

// ReplaceAt swaps the card at the given index for a new card and returns the discard
func (h Hand) ReplaceAt(index int, card Card) (Card, error) {
	if index < 0 || index >= len(h) {
		return Card{}, fmt.Errorf("no card at index %d", index)
	}

	discard := h[index]
	h[index] = card

	return discard, nil
}

func (h Hand) String() string {
	return CardsToString(h)
}

// Clone returns a clone of the hand
func (h Hand) Clone() Hand {
	h2 := make(Hand, len(h))
	copy(h2, h)

	return h2
}
