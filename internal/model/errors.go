package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Phase violations
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// Input validation
	ErrInvalidBid    = errors.New("invalid bid")
	ErrInvalidTricks = errors.New("invalid tricks")
	ErrInvalidPlayer = errors.New("invalid player")
	ErrInvalidSuit   = errors.New("invalid suit")

	// Missing aggregates
	ErrNoCurrentHand = errors.New("no current hand")
	ErrGameNotFound  = errors.New("game not found")

	// Storage
	ErrInvalidRecord    = errors.New("invalid game record")
	ErrConcurrentUpdate = errors.New("game was modified concurrently")
)

// TricksError reports a trick pair that does not add up to the hand total
type TricksError struct {
	Us   int
	Them int
}

func (e *TricksError) Error() string {
	return fmt.Sprintf("tricks must total %d: %d + %d", TotalTricks, e.Us, e.Them)
}

func (e *TricksError) Unwrap() error {
	return ErrInvalidTricks
}
