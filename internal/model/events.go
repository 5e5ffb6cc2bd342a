package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventGameCreated   EventType = "game_created"
	EventHandStarted   EventType = "hand_started"
	EventBidRecorded   EventType = "bid_recorded"
	EventTrumpDeclared EventType = "trump_declared"
	EventMeldRecorded  EventType = "meld_recorded"
	EventHandCompleted EventType = "hand_completed"
	EventGameWon       EventType = "game_won"
)

// Event describes a change to a game, for broadcast to watchers
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	GameID    GameID    `json:"game_id"`
	HandID    HandID    `json:"hand_id,omitempty"` // Empty for game-level events
	Payload   any       `json:"payload,omitempty"` // Type-specific data
}

// GameCreatedPayload contains data for game created events
type GameCreatedPayload struct {
	Dealer Player `json:"dealer"`
}

// HandStartedPayload contains data for hand started events
type HandStartedPayload struct {
	Dealer Player `json:"dealer"`
}

// BidPayload contains data for bid recorded events
type BidPayload struct {
	Bidder    Player `json:"bidder"`
	BidAmount int    `json:"bid_amount"`
}

// TrumpPayload contains data for trump declared events
type TrumpPayload struct {
	Trump Suit `json:"trump"`
}

// MeldPayload contains data for meld recorded events
type MeldPayload struct {
	UsMeld   Points `json:"us_meld"`
	ThemMeld Points `json:"them_meld"`
}

// HandCompletedPayload contains data for hand completed events
type HandCompletedPayload struct {
	Outcome          HandOutcome `json:"outcome"`
	Bidder           Player      `json:"bidder"`
	BidAmount        int         `json:"bid_amount"`
	UsTotal          Points      `json:"us_total"`
	ThemTotal        Points      `json:"them_total"`
	UsRunningTotal   int         `json:"us_running_total"`
	ThemRunningTotal int         `json:"them_running_total"`
}

// GameWonPayload contains data for game won events
type GameWonPayload struct {
	Winner           Team `json:"winner,omitempty"` // Empty on an unresolved tie
	UsRunningTotal   int  `json:"us_running_total"`
	ThemRunningTotal int  `json:"them_running_total"`
}
