package model

import (
	"fmt"
	"strings"
)

// Player is one of the four fixed seats at the table
type Player string

const (
	North Player = "north"
	East  Player = "east"
	South Player = "south"
	West  Player = "west"
)

// Players lists the seats in clockwise order starting at North
var Players = []Player{North, East, South, West}

// Team is one of the two partnerships
type Team string

const (
	TeamUs   Team = "us"   // North and South
	TeamThem Team = "them" // East and West
)

// ParsePlayer converts a seat name (case-insensitive) to a Player
func ParsePlayer(s string) (Player, error) {
	p := Player(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlayer, s)
	}
	return p, nil
}

// Valid reports whether p is one of the four seats
func (p Player) Valid() bool {
	switch p {
	case North, East, South, West:
		return true
	}
	return false
}

// Team returns the partnership the seat belongs to
func (p Player) Team() Team {
	switch p {
	case North, South:
		return TeamUs
	default:
		return TeamThem
	}
}

// NextClockwise returns the seat to the left of p
func (p Player) NextClockwise() Player {
	switch p {
	case North:
		return East
	case East:
		return South
	case South:
		return West
	default:
		return North
	}
}

func (p Player) String() string {
	return string(p)
}

// Other returns the opposing team
func (t Team) Other() Team {
	if t == TeamUs {
		return TeamThem
	}
	return TeamUs
}

func (t Team) String() string {
	return string(t)
}
