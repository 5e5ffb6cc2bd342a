package model

import "github.com/google/uuid"

// GameID uniquely identifies a game
type GameID string

// HandID uniquely identifies a hand within the system
type HandID string

// NewGameID returns a random (v4) game identifier
func NewGameID() GameID {
	return GameID(uuid.NewString())
}

// NewHandID returns a random (v4) hand identifier
func NewHandID() HandID {
	return HandID(uuid.NewString())
}

func (id GameID) String() string {
	return string(id)
}

func (id HandID) String() string {
	return string(id)
}
