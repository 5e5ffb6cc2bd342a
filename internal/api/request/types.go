package request

// CreateGameRequest is the request body for creating a game. An empty
// dealer is picked at random.
type CreateGameRequest struct {
	Dealer string `json:"dealer,omitempty"`
}

// BidRequest is the request body for recording the winning bid
type BidRequest struct {
	Player string `json:"player"`
	Bid    int    `json:"bid"`
}

// TrumpRequest is the request body for declaring trump
type TrumpRequest struct {
	Trump string `json:"trump"`
}

// MeldRequest is the request body for recording meld
type MeldRequest struct {
	UsMeld   int `json:"us_meld"`
	ThemMeld int `json:"them_meld"`
}

// TricksRequest is the request body for recording trick points. A zero
// for one team is inferred from the other.
type TricksRequest struct {
	UsTricks   int `json:"us_tricks"`
	ThemTricks int `json:"them_tricks"`
}
