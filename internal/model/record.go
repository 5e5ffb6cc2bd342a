package model

import "fmt"

// GameRecord is the durable form of a Game
type GameRecord struct {
	ID             GameID       `json:"id"`
	CurrentDealer  Player       `json:"current_dealer"`
	State          GameState    `json:"state"`
	CompletedHands []HandRecord `json:"completed_hands"`
	CurrentHand    *HandRecord  `json:"current_hand,omitempty"`
}

// HandRecord is the durable form of a Hand. Fields not carried by the
// phase are left empty.
type HandRecord struct {
	ID         HandID `json:"id"`
	Dealer     Player `json:"dealer"`
	Phase      Phase  `json:"phase"`
	Bidder     Player `json:"bidder,omitempty"`
	BidAmount  int    `json:"bid_amount,omitempty"`
	Trump      Suit   `json:"trump,omitempty"`
	UsMeld     Points `json:"us_meld"`
	ThemMeld   Points `json:"them_meld"`
	UsTricks   Points `json:"us_tricks"`
	ThemTricks Points `json:"them_tricks"`
	UsTotal    Points `json:"us_total"`
	ThemTotal  Points `json:"them_total"`
}

// Record converts the game to its durable form
func (g Game) Record() GameRecord {
	rec := GameRecord{
		ID:             g.id,
		CurrentDealer:  g.currentDealer,
		State:          g.state,
		CompletedHands: make([]HandRecord, 0, len(g.completedHands)),
	}
	for _, hand := range g.completedHands {
		rec.CompletedHands = append(rec.CompletedHands, hand.Record())
	}
	if g.currentHand != nil {
		hr := g.currentHand.Record()
		rec.CurrentHand = &hr
	}
	return rec
}

// Record converts the hand to its durable form
func (h Hand) Record() HandRecord {
	rec := HandRecord{ID: h.id, Dealer: h.dealer, Phase: h.Phase()}
	switch s := h.State().(type) {
	case WaitingForBid:
	case WaitingForTrump:
		rec.Bidder, rec.BidAmount = s.Bidder, s.BidAmount
	case NoMarriage:
		rec.Bidder, rec.BidAmount = s.Bidder, s.BidAmount
	case WaitingForMeld:
		rec.Bidder, rec.BidAmount, rec.Trump = s.Bidder, s.BidAmount, s.Trump
	case WaitingForTricks:
		rec.Bidder, rec.BidAmount, rec.Trump = s.Bidder, s.BidAmount, s.Trump
		rec.UsMeld, rec.ThemMeld = s.UsMeld, s.ThemMeld
	case Completed:
		rec.Bidder, rec.BidAmount, rec.Trump = s.Bidder, s.BidAmount, s.Trump
		rec.UsMeld, rec.ThemMeld = s.UsMeld, s.ThemMeld
		rec.UsTricks, rec.ThemTricks = s.UsTricks, s.ThemTricks
		rec.UsTotal, rec.ThemTotal = s.UsTotal, s.ThemTotal
	}
	return rec
}

// GameFromRecord restores a game, rejecting records that could not have
// been produced by the state machine
func GameFromRecord(rec GameRecord) (Game, error) {
	if rec.ID == "" {
		return Game{}, fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	if !rec.CurrentDealer.Valid() {
		return Game{}, fmt.Errorf("%w: dealer %q", ErrInvalidRecord, rec.CurrentDealer)
	}
	switch rec.State {
	case GameStateWaitingToStart, GameStateInProgress, GameStateCompleted:
	default:
		return Game{}, fmt.Errorf("%w: game state %q", ErrInvalidRecord, rec.State)
	}

	g := Game{
		id:            rec.ID,
		currentDealer: rec.CurrentDealer,
		state:         rec.State,
	}
	for i, hr := range rec.CompletedHands {
		hand, err := HandFromRecord(hr)
		if err != nil {
			return Game{}, fmt.Errorf("completed hand %d: %w", i, err)
		}
		if !hand.IsCompleted() {
			return Game{}, fmt.Errorf("%w: completed hand %d is %s", ErrInvalidRecord, i, hand.Phase())
		}
		g.completedHands = append(g.completedHands, hand)
	}
	if rec.CurrentHand != nil {
		hand, err := HandFromRecord(*rec.CurrentHand)
		if err != nil {
			return Game{}, fmt.Errorf("current hand: %w", err)
		}
		g.currentHand = &hand
	}
	if g.state == GameStateInProgress && g.currentHand == nil {
		return Game{}, fmt.Errorf("%w: game in progress without a current hand", ErrInvalidRecord)
	}
	return g, nil
}

// HandFromRecord restores a hand
func HandFromRecord(rec HandRecord) (Hand, error) {
	if rec.ID == "" {
		return Hand{}, fmt.Errorf("%w: hand missing id", ErrInvalidRecord)
	}
	if !rec.Dealer.Valid() {
		return Hand{}, fmt.Errorf("%w: hand dealer %q", ErrInvalidRecord, rec.Dealer)
	}
	h := Hand{id: rec.ID, dealer: rec.Dealer}

	if rec.Phase == PhaseWaitingForBid {
		h.state = WaitingForBid{}
		return h, nil
	}
	if !rec.Bidder.Valid() || !ValidateBidIncrement(rec.BidAmount) {
		return Hand{}, fmt.Errorf("%w: %s hand needs a bidder and a legal bid", ErrInvalidRecord, rec.Phase)
	}

	// Only a completed hand can carry the no-marriage sentinel; a hand
	// waiting for meld or tricks always has a real trump suit
	needsTrump := func() error {
		if !rec.Trump.Valid() || (rec.Trump == SuitNoMarriage && rec.Phase != PhaseCompleted) {
			return fmt.Errorf("%w: %s hand needs a trump suit", ErrInvalidRecord, rec.Phase)
		}
		return nil
	}

	switch rec.Phase {
	case PhaseWaitingForTrump:
		h.state = WaitingForTrump{Bidder: rec.Bidder, BidAmount: rec.BidAmount}
	case PhaseNoMarriage:
		h.state = NoMarriage{Bidder: rec.Bidder, BidAmount: rec.BidAmount}
	case PhaseWaitingForMeld:
		if err := needsTrump(); err != nil {
			return Hand{}, err
		}
		h.state = WaitingForMeld{Bidder: rec.Bidder, BidAmount: rec.BidAmount, Trump: rec.Trump}
	case PhaseWaitingForTricks:
		if err := needsTrump(); err != nil {
			return Hand{}, err
		}
		h.state = WaitingForTricks{
			Bidder:    rec.Bidder,
			BidAmount: rec.BidAmount,
			Trump:     rec.Trump,
			UsMeld:    rec.UsMeld,
			ThemMeld:  rec.ThemMeld,
		}
	case PhaseCompleted:
		if err := needsTrump(); err != nil {
			return Hand{}, err
		}
		h.state = Completed{
			Bidder:     rec.Bidder,
			BidAmount:  rec.BidAmount,
			Trump:      rec.Trump,
			UsMeld:     rec.UsMeld,
			ThemMeld:   rec.ThemMeld,
			UsTricks:   rec.UsTricks,
			ThemTricks: rec.ThemTricks,
			UsTotal:    rec.UsTotal,
			ThemTotal:  rec.ThemTotal,
		}
	default:
		return Hand{}, fmt.Errorf("%w: hand phase %q", ErrInvalidRecord, rec.Phase)
	}
	return h, nil
}
