package model

import "fmt"

// Scoring constants
const (
	MinimumBid    = 50 // Lowest legal bid
	MinimumMeld   = 20 // Meld below this is forfeited
	MinimumTricks = 20 // A team must take this many trick points to score
	TotalTricks   = 50 // Trick points available in every hand
)

// HandOutcome classifies how a completed hand was settled
type HandOutcome string

const (
	OutcomeMade        HandOutcome = "made"         // Bidding team reached its contract
	OutcomeSet         HandOutcome = "set"          // Bidding team fell short in tricks
	OutcomeMeldForfeit HandOutcome = "meld_forfeit" // Bidding team's meld was below the minimum
	OutcomeNoMarriage  HandOutcome = "no_marriage"  // Bidder could not declare trump
)

// Hand is one deal of the cards: bidding, trump, meld and tricks.
// Hand values are immutable; every transition returns a new Hand.
type Hand struct {
	id     HandID
	dealer Player
	state  HandState
}

// NewHand creates a hand dealt by dealer, waiting for a bid
func NewHand(dealer Player) Hand {
	return Hand{
		id:     NewHandID(),
		dealer: dealer,
		state:  WaitingForBid{},
	}
}

func (h Hand) with(state HandState) Hand {
	return Hand{id: h.id, dealer: h.dealer, state: state}
}

// ID returns the hand identifier
func (h Hand) ID() HandID { return h.id }

// Dealer returns the seat that dealt the hand
func (h Hand) Dealer() Player { return h.dealer }

// State returns the current phase and its data
func (h Hand) State() HandState {
	if h.state == nil {
		return WaitingForBid{}
	}
	return h.state
}

// Phase returns the name of the current phase
func (h Hand) Phase() Phase { return h.State().Phase() }

// IsCompleted reports whether the hand has been scored
func (h Hand) IsCompleted() bool { return h.Phase() == PhaseCompleted }

// PlaceBid records the winning bid
func (h Hand) PlaceBid(bidder Player, amount int) (Hand, error) {
	if _, ok := h.State().(WaitingForBid); !ok {
		return Hand{}, h.phaseError("bid")
	}
	if !bidder.Valid() {
		return Hand{}, fmt.Errorf("%w: %q", ErrInvalidPlayer, bidder)
	}
	if !ValidateBidIncrement(amount) {
		return Hand{}, fmt.Errorf("%w: %d does not follow the increment rules", ErrInvalidBid, amount)
	}
	return h.with(WaitingForTrump{Bidder: bidder, BidAmount: amount}), nil
}

// DeclareTrump records the trump suit, or SuitNoMarriage
func (h Hand) DeclareTrump(trump Suit) (Hand, error) {
	s, ok := h.State().(WaitingForTrump)
	if !ok {
		return Hand{}, h.phaseError("trump")
	}
	if !trump.Valid() {
		return Hand{}, fmt.Errorf("%w: %q", ErrInvalidSuit, trump)
	}
	if trump == SuitNoMarriage {
		return h.with(NoMarriage{Bidder: s.Bidder, BidAmount: s.BidAmount}), nil
	}
	return h.with(WaitingForMeld{Bidder: s.Bidder, BidAmount: s.BidAmount, Trump: trump}), nil
}

// RecordMeld records both teams' meld. The hand completes immediately when
// the bidding team has no meld to count or no trump was declared.
func (h Hand) RecordMeld(us, them int) (Hand, error) {
	usMeld := NormalizeMeld(us)
	themMeld := NormalizeMeld(them)

	switch s := h.State().(type) {
	case WaitingForMeld:
		team := s.Bidder.Team()
		if !byTeam(team, usMeld, themMeld).Present() {
			completed := Completed{
				Bidder:    s.Bidder,
				BidAmount: s.BidAmount,
				Trump:     s.Trump,
				UsMeld:    usMeld,
				ThemMeld:  themMeld,
			}
			completed.UsTotal, completed.ThemTotal = forfeitTotals(team, s.BidAmount, usMeld, themMeld)
			return h.with(completed), nil
		}
		return h.with(WaitingForTricks{
			Bidder:    s.Bidder,
			BidAmount: s.BidAmount,
			Trump:     s.Trump,
			UsMeld:    usMeld,
			ThemMeld:  themMeld,
		}), nil

	case NoMarriage:
		team := s.Bidder.Team()
		// The bidding team cannot claim meld without a marriage
		if team == TeamUs {
			usMeld = NoPoints
		} else {
			themMeld = NoPoints
		}
		completed := Completed{
			Bidder:    s.Bidder,
			BidAmount: s.BidAmount,
			Trump:     SuitNoMarriage,
			UsMeld:    usMeld,
			ThemMeld:  themMeld,
		}
		forfeit := PointsOf(-s.BidAmount)
		if team == TeamUs {
			completed.UsTotal = forfeit
			completed.ThemTotal = PointsOf(themMeld.OrZero())
		} else {
			completed.UsTotal = PointsOf(usMeld.OrZero())
			completed.ThemTotal = forfeit
		}
		return h.with(completed), nil

	default:
		return Hand{}, h.phaseError("meld")
	}
}

// RecordTricks records trick points and scores the hand.
// A zero for exactly one team is inferred as the remainder of TotalTricks.
func (h Hand) RecordTricks(us, them int) (Hand, error) {
	s, ok := h.State().(WaitingForTricks)
	if !ok {
		return Hand{}, h.phaseError("tricks")
	}

	us, them, err := inferTricks(us, them)
	if err != nil {
		return Hand{}, err
	}

	team := s.Bidder.Team()
	required := RequiredTricks(s.BidAmount, byTeam(team, s.UsMeld, s.ThemMeld))

	usScore := teamScore(s.UsMeld, us)
	themScore := teamScore(s.ThemMeld, them)

	if team == TeamUs && us < required {
		usScore = -s.BidAmount
	}
	if team == TeamThem && them < required {
		themScore = -s.BidAmount
	}

	return h.with(Completed{
		Bidder:     s.Bidder,
		BidAmount:  s.BidAmount,
		Trump:      s.Trump,
		UsMeld:     s.UsMeld,
		ThemMeld:   s.ThemMeld,
		UsTricks:   PointsOf(us),
		ThemTricks: PointsOf(them),
		UsTotal:    nonZero(usScore),
		ThemTotal:  nonZero(themScore),
	}), nil
}

func (h Hand) phaseError(operation string) error {
	return fmt.Errorf("%w: cannot record %s while hand is %s", ErrInvalidStateTransition, operation, h.Phase())
}

// Queries

// Bidder returns the seat that won the bid
func (h Hand) Bidder() (Player, bool) {
	switch s := h.State().(type) {
	case WaitingForBid:
		return "", false
	case WaitingForTrump:
		return s.Bidder, true
	case NoMarriage:
		return s.Bidder, true
	case WaitingForMeld:
		return s.Bidder, true
	case WaitingForTricks:
		return s.Bidder, true
	case Completed:
		return s.Bidder, true
	}
	return "", false
}

// BidAmount returns the contract
func (h Hand) BidAmount() (int, bool) {
	switch s := h.State().(type) {
	case WaitingForBid:
		return 0, false
	case WaitingForTrump:
		return s.BidAmount, true
	case NoMarriage:
		return s.BidAmount, true
	case WaitingForMeld:
		return s.BidAmount, true
	case WaitingForTricks:
		return s.BidAmount, true
	case Completed:
		return s.BidAmount, true
	}
	return 0, false
}

// Trump returns the declared suit. It is absent while the hand is in the
// NoMarriage phase; once completed it reads SuitNoMarriage.
func (h Hand) Trump() (Suit, bool) {
	switch s := h.State().(type) {
	case WaitingForBid, WaitingForTrump, NoMarriage:
		return "", false
	case WaitingForMeld:
		return s.Trump, true
	case WaitingForTricks:
		return s.Trump, true
	case Completed:
		return s.Trump, true
	}
	return "", false
}

// UsMeld returns the normalized meld of North/South
func (h Hand) UsMeld() Points {
	us, _ := h.melds()
	return us
}

// ThemMeld returns the normalized meld of East/West
func (h Hand) ThemMeld() Points {
	_, them := h.melds()
	return them
}

func (h Hand) melds() (Points, Points) {
	switch s := h.State().(type) {
	case WaitingForBid, WaitingForTrump, NoMarriage, WaitingForMeld:
		return NoPoints, NoPoints
	case WaitingForTricks:
		return s.UsMeld, s.ThemMeld
	case Completed:
		return s.UsMeld, s.ThemMeld
	}
	return NoPoints, NoPoints
}

// UsTricks returns the trick points taken by North/South
func (h Hand) UsTricks() Points {
	if s, ok := h.State().(Completed); ok {
		return s.UsTricks
	}
	return NoPoints
}

// ThemTricks returns the trick points taken by East/West
func (h Hand) ThemTricks() Points {
	if s, ok := h.State().(Completed); ok {
		return s.ThemTricks
	}
	return NoPoints
}

// UsTotal returns North/South's score for the hand
func (h Hand) UsTotal() Points {
	if s, ok := h.State().(Completed); ok {
		return s.UsTotal
	}
	return NoPoints
}

// ThemTotal returns East/West's score for the hand
func (h Hand) ThemTotal() Points {
	if s, ok := h.State().(Completed); ok {
		return s.ThemTotal
	}
	return NoPoints
}

// TeamTotal returns the given team's score for the hand
func (h Hand) TeamTotal(team Team) Points {
	return byTeam(team, h.UsTotal(), h.ThemTotal())
}

// TricksToSave returns the trick points the bidding team must take to make
// its contract, given the meld recorded so far
func (h Hand) TricksToSave() (int, bool) {
	bidder, ok := h.Bidder()
	if !ok {
		return 0, false
	}
	amount, _ := h.BidAmount()
	us, them := h.melds()
	return RequiredTricks(amount, byTeam(bidder.Team(), us, them)), true
}

// Outcome classifies a completed hand
func (h Hand) Outcome() (HandOutcome, bool) {
	s, ok := h.State().(Completed)
	if !ok {
		return "", false
	}
	switch {
	case s.Trump == SuitNoMarriage:
		return OutcomeNoMarriage, true
	case !s.UsTricks.Present() && !s.ThemTricks.Present():
		return OutcomeMeldForfeit, true
	}
	total, _ := byTeam(s.Bidder.Team(), s.UsTotal, s.ThemTotal).Get()
	if total == -s.BidAmount {
		return OutcomeSet, true
	}
	return OutcomeMade, true
}

// Scoring rules

// ValidateBidIncrement reports whether amount is a legal bid: at least 50,
// any value below 60, multiples of 5 below 100, multiples of 10 after that
func ValidateBidIncrement(amount int) bool {
	switch {
	case amount < MinimumBid:
		return false
	case amount < 60:
		return true
	case amount < 100:
		return amount%5 == 0
	default:
		return amount%10 == 0
	}
}

// NormalizeMeld maps meld below MinimumMeld to absent
func NormalizeMeld(meld int) Points {
	if meld < MinimumMeld {
		return NoPoints
	}
	return PointsOf(meld)
}

// RequiredTricks is the trick points a bidding team with the given meld
// must take: the bid net of meld, but never less than MinimumTricks
func RequiredTricks(bidAmount int, biddingMeld Points) int {
	return max(bidAmount-biddingMeld.OrZero(), MinimumTricks)
}

func inferTricks(us, them int) (int, int, error) {
	if us == 0 && them == 0 {
		return 0, 0, &TricksError{Us: us, Them: them}
	}
	if us == 0 {
		us = TotalTricks - them
	}
	if them == 0 {
		them = TotalTricks - us
	}
	if us < 0 || them < 0 || us+them != TotalTricks {
		return 0, 0, &TricksError{Us: us, Them: them}
	}
	return us, them, nil
}

// teamScore is a team's raw score before the contract check
func teamScore(meld Points, tricks int) int {
	if tricks < MinimumTricks {
		return 0
	}
	return meld.OrZero() + tricks
}

// forfeitTotals scores a hand whose bidding team has no meld
func forfeitTotals(bidding Team, bidAmount int, usMeld, themMeld Points) (Points, Points) {
	forfeit := PointsOf(-bidAmount)
	if bidding == TeamUs {
		return forfeit, themMeld
	}
	return usMeld, forfeit
}

func byTeam(team Team, us, them Points) Points {
	if team == TeamUs {
		return us
	}
	return them
}

func nonZero(v int) Points {
	if v == 0 {
		return NoPoints
	}
	return PointsOf(v)
}
