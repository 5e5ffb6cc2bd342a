package model

// GameState represents the lifecycle of a game
type GameState string

const (
	GameStateWaitingToStart GameState = "waiting_to_start"
	GameStateInProgress     GameState = "in_progress"
	GameStateCompleted      GameState = "completed" // Not reached by any operation; see Game.Winner
)

// Phase names the variant of a HandState
type Phase string

const (
	PhaseWaitingForBid    Phase = "waiting_for_bid"
	PhaseWaitingForTrump  Phase = "waiting_for_trump"
	PhaseNoMarriage       Phase = "no_marriage"
	PhaseWaitingForMeld   Phase = "waiting_for_meld"
	PhaseWaitingForTricks Phase = "waiting_for_tricks"
	PhaseCompleted        Phase = "completed"
)

// HandState is the phase of a hand together with the data gathered so far.
// The concrete types below are the only implementations.
type HandState interface {
	Phase() Phase
	handState()
}

// WaitingForBid is the initial phase of every hand
type WaitingForBid struct{}

// WaitingForTrump follows a valid bid
type WaitingForTrump struct {
	Bidder    Player
	BidAmount int
}

// NoMarriage follows a trump declaration of SuitNoMarriage
type NoMarriage struct {
	Bidder    Player
	BidAmount int
}

// WaitingForMeld follows a trump declaration
type WaitingForMeld struct {
	Bidder    Player
	BidAmount int
	Trump     Suit
}

// WaitingForTricks follows meld when the bidding team still has a stake.
// Melds are normalized: anything below MinimumMeld is absent.
type WaitingForTricks struct {
	Bidder    Player
	BidAmount int
	Trump     Suit
	UsMeld    Points
	ThemMeld  Points
}

// Completed is terminal
type Completed struct {
	Bidder     Player
	BidAmount  int
	Trump      Suit
	UsMeld     Points
	ThemMeld   Points
	UsTricks   Points
	ThemTricks Points
	UsTotal    Points
	ThemTotal  Points
}

func (WaitingForBid) Phase() Phase    { return PhaseWaitingForBid }
func (WaitingForTrump) Phase() Phase  { return PhaseWaitingForTrump }
func (NoMarriage) Phase() Phase       { return PhaseNoMarriage }
func (WaitingForMeld) Phase() Phase   { return PhaseWaitingForMeld }
func (WaitingForTricks) Phase() Phase { return PhaseWaitingForTricks }
func (Completed) Phase() Phase        { return PhaseCompleted }

func (WaitingForBid) handState()    {}
func (WaitingForTrump) handState()  {}
func (NoMarriage) handState()       {}
func (WaitingForMeld) handState()   {}
func (WaitingForTricks) handState() {}
func (Completed) handState()        {}
