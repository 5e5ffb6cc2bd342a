package model

import (
	"fmt"
	"slices"
)

// WinningScore is the running total that ends a game
const WinningScore = 500

// Game is a match of hands played until a team reaches WinningScore.
// Game values are immutable; every operation returns a new Game.
type Game struct {
	id             GameID
	currentDealer  Player
	state          GameState
	completedHands []Hand
	currentHand    *Hand
}

// NewGame creates a game waiting for its first hand
func NewGame(id GameID, dealer Player) Game {
	return Game{
		id:            id,
		currentDealer: dealer,
		state:         GameStateWaitingToStart,
	}
}

// ID returns the game identifier
func (g Game) ID() GameID { return g.id }

// CurrentDealer returns the seat dealing the current (or next) hand
func (g Game) CurrentDealer() Player { return g.currentDealer }

// State returns the game lifecycle state
func (g Game) State() GameState { return g.state }

// CompletedHands returns the scored hands in the order they were played
func (g Game) CompletedHands() []Hand {
	return slices.Clone(g.completedHands)
}

// LastCompletedHand returns the most recently scored hand
func (g Game) LastCompletedHand() (Hand, bool) {
	if len(g.completedHands) == 0 {
		return Hand{}, false
	}
	return g.completedHands[len(g.completedHands)-1], true
}

// CurrentHand returns the hand in play
func (g Game) CurrentHand() (Hand, bool) {
	if g.currentHand == nil {
		return Hand{}, false
	}
	return *g.currentHand, true
}

// StartNewHand deals the first hand. Later hands are dealt automatically
// when the previous one completes.
func (g Game) StartNewHand() (Game, error) {
	if g.state == GameStateInProgress {
		return Game{}, fmt.Errorf("%w: cannot start a new hand while the game is in progress", ErrInvalidStateTransition)
	}
	next := g.withCurrentHand(NewHand(g.currentDealer))
	next.state = GameStateInProgress
	return next, nil
}

// RecordBid records the winning bid on the current hand
func (g Game) RecordBid(bidder Player, amount int) (Game, error) {
	hand, err := g.requireCurrentHand()
	if err != nil {
		return Game{}, err
	}
	hand, err = hand.PlaceBid(bidder, amount)
	if err != nil {
		return Game{}, fmt.Errorf("hand: %w", err)
	}
	return g.withCurrentHand(hand), nil
}

// DeclareTrump records trump on the current hand
func (g Game) DeclareTrump(trump Suit) (Game, error) {
	hand, err := g.requireCurrentHand()
	if err != nil {
		return Game{}, err
	}
	hand, err = hand.DeclareTrump(trump)
	if err != nil {
		return Game{}, fmt.Errorf("hand: %w", err)
	}
	return g.withCurrentHand(hand), nil
}

// RecordMeld records meld on the current hand. If that settles the hand it
// is moved into history and the next hand is dealt.
func (g Game) RecordMeld(us, them int) (Game, error) {
	hand, err := g.requireCurrentHand()
	if err != nil {
		return Game{}, err
	}
	hand, err = hand.RecordMeld(us, them)
	if err != nil {
		return Game{}, fmt.Errorf("hand: %w", err)
	}
	if hand.IsCompleted() {
		return g.completeHand(hand), nil
	}
	return g.withCurrentHand(hand), nil
}

// RecordTricks scores the current hand, moves it into history and deals
// the next hand
func (g Game) RecordTricks(us, them int) (Game, error) {
	hand, err := g.requireCurrentHand()
	if err != nil {
		return Game{}, err
	}
	hand, err = hand.RecordTricks(us, them)
	if err != nil {
		return Game{}, fmt.Errorf("hand: %w", err)
	}
	return g.completeHand(hand), nil
}

// RunningTotals sums each team's score across completed hands
func (g Game) RunningTotals() (us, them int) {
	for _, hand := range g.completedHands {
		us += hand.UsTotal().OrZero()
		them += hand.ThemTotal().OrZero()
	}
	return us, them
}

// IsGameComplete reports whether either team has reached WinningScore
func (g Game) IsGameComplete() bool {
	us, them := g.RunningTotals()
	return us >= WinningScore || them >= WinningScore
}

// Winner returns the winning team once the game is complete. When both
// teams cross WinningScore on the same hand the bidding team of that hand
// wins; failing that, the higher total. An exact tie has no winner.
func (g Game) Winner() (Team, bool) {
	us, them := g.RunningTotals()
	usWon := us >= WinningScore
	themWon := them >= WinningScore

	switch {
	case usWon && themWon:
		if last, ok := g.LastCompletedHand(); ok {
			if bidder, ok := last.Bidder(); ok {
				return bidder.Team(), true
			}
		}
		switch {
		case us > them:
			return TeamUs, true
		case them > us:
			return TeamThem, true
		}
		return "", false
	case usWon:
		return TeamUs, true
	case themWon:
		return TeamThem, true
	}
	return "", false
}

func (g Game) requireCurrentHand() (Hand, error) {
	hand, ok := g.CurrentHand()
	if !ok {
		return Hand{}, ErrNoCurrentHand
	}
	return hand, nil
}

func (g Game) withCurrentHand(hand Hand) Game {
	next := g
	next.currentHand = &hand
	return next
}

// completeHand appends a settled hand to history, passes the deal
// clockwise and deals the next hand
func (g Game) completeHand(hand Hand) Game {
	next := g
	next.completedHands = append(slices.Clone(g.completedHands), hand)
	next.currentDealer = g.currentDealer.NextClockwise()
	nextHand := NewHand(next.currentDealer)
	next.currentHand = &nextHand
	return next
}
