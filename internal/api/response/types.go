package response

import (
	"github.com/mcoot/pinochle-score/internal/model"
	"github.com/mcoot/pinochle-score/internal/services/game"
)

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}

// Hand represents a hand in API responses. Scores that do not apply to
// the hand's phase are null.
type Hand struct {
	ID             string            `json:"id"`
	Dealer         model.Player      `json:"dealer"`
	Phase          model.Phase       `json:"phase"`
	Bidder         model.Player      `json:"bidder,omitempty"`
	BidAmount      *int              `json:"bid_amount,omitempty"`
	Trump          model.Suit        `json:"trump,omitempty"`
	UsMeld         model.Points      `json:"us_meld"`
	ThemMeld       model.Points      `json:"them_meld"`
	UsTricks       model.Points      `json:"us_tricks"`
	ThemTricks     model.Points      `json:"them_tricks"`
	UsTotal        model.Points      `json:"us_total"`
	ThemTotal      model.Points      `json:"them_total"`
	RequiredTricks *int              `json:"required_tricks,omitempty"`
	Outcome        model.HandOutcome `json:"outcome,omitempty"`
}

// HandFromModel converts model.Hand
func HandFromModel(h model.Hand) Hand {
	resp := Hand{
		ID:         string(h.ID()),
		Dealer:     h.Dealer(),
		Phase:      h.Phase(),
		UsMeld:     h.UsMeld(),
		ThemMeld:   h.ThemMeld(),
		UsTricks:   h.UsTricks(),
		ThemTricks: h.ThemTricks(),
		UsTotal:    h.UsTotal(),
		ThemTotal:  h.ThemTotal(),
	}
	if bidder, ok := h.Bidder(); ok {
		resp.Bidder = bidder
	}
	if amount, ok := h.BidAmount(); ok {
		resp.BidAmount = &amount
	}
	if trump, ok := h.Trump(); ok {
		resp.Trump = trump
	}
	if required, ok := h.TricksToSave(); ok && !h.IsCompleted() {
		resp.RequiredTricks = &required
	}
	if outcome, ok := h.Outcome(); ok {
		resp.Outcome = outcome
	}
	return resp
}

// HandsFromModel converts a slice of hands
func HandsFromModel(hands []model.Hand) []Hand {
	resp := make([]Hand, len(hands))
	for i, h := range hands {
		resp[i] = HandFromModel(h)
	}
	return resp
}

// HandList is the response listing a game's completed hands
type HandList struct {
	Hands []Hand `json:"hands"`
}

// Totals represents the running score of a game
type Totals struct {
	Us       int        `json:"us"`
	Them     int        `json:"them"`
	Complete bool       `json:"complete"`
	Winner   model.Team `json:"winner,omitempty"`
}

// TotalsFromService converts game.Totals
func TotalsFromService(t game.Totals) Totals {
	resp := Totals{Us: t.Us, Them: t.Them, Complete: t.Complete}
	if t.HasWinner {
		resp.Winner = t.Winner
	}
	return resp
}

// Game represents a game's status in API responses
type Game struct {
	ID             string          `json:"id"`
	State          model.GameState `json:"state"`
	CurrentDealer  model.Player    `json:"current_dealer"`
	HandsCompleted int             `json:"hands_completed"`
	CurrentHand    *Hand           `json:"current_hand,omitempty"`
	Totals         Totals          `json:"totals"`
}

// GameFromStatus converts game.Status
func GameFromStatus(s game.Status) Game {
	resp := Game{
		ID:             string(s.Game.ID()),
		State:          s.Game.State(),
		CurrentDealer:  s.Game.CurrentDealer(),
		HandsCompleted: len(s.Game.CompletedHands()),
		Totals:         TotalsFromService(s.Totals),
	}
	if s.CurrentHand != nil {
		h := HandFromModel(*s.CurrentHand)
		resp.CurrentHand = &h
	}
	return resp
}

// GameFromModel converts model.Game
func GameFromModel(g model.Game) Game {
	return GameFromStatus(game.StatusOf(g))
}

// GameList is the response listing games
type GameList struct {
	Games []Game `json:"games"`
}
