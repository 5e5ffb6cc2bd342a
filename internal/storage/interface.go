package storage

import (
	"context"

	"github.com/mcoot/pinochle-score/internal/model"
)

// UpdateFunc transforms a stored game. Returning an error aborts the update
// and leaves the stored game untouched.
type UpdateFunc func(model.Game) (model.Game, error)

// Storage defines the interface for game persistence
type Storage interface {
	SaveGame(ctx context.Context, game model.Game) error
	GetGame(ctx context.Context, id model.GameID) (model.Game, error)
	ListGames(ctx context.Context) ([]model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error

	// UpdateGame loads a game, applies fn and saves the result as one
	// atomic step. Concurrent updates of the same game are serialized.
	UpdateGame(ctx context.Context, id model.GameID, fn UpdateFunc) (model.Game, error)
}
