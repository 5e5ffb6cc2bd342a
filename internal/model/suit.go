package model

import (
	"fmt"
	"strings"
)

// Suit is a trump suit, or SuitNoMarriage when the bidder holds no marriage
type Suit string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Clubs    Suit = "clubs"
	Diamonds Suit = "diamonds"

	// SuitNoMarriage is declared when the bidder cannot name trump.
	// The hand is lost for the bidding team at the meld step.
	SuitNoMarriage Suit = "no_marriage"
)

// ParseSuit converts a suit name (case-insensitive) to a Suit.
// "nomarriage" and "no-marriage" are accepted for SuitNoMarriage.
func ParseSuit(s string) (Suit, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "nomarriage", "no-marriage":
		normalized = string(SuitNoMarriage)
	}
	suit := Suit(normalized)
	if !suit.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSuit, s)
	}
	return suit, nil
}

// Valid reports whether s is a known suit or the no-marriage sentinel
func (s Suit) Valid() bool {
	switch s {
	case Spades, Hearts, Clubs, Diamonds, SuitNoMarriage:
		return true
	}
	return false
}

func (s Suit) String() string {
	return string(s)
}
