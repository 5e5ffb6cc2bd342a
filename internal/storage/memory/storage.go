package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/mcoot/pinochle-score/internal/model"
	"github.com/mcoot/pinochle-score/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu    sync.RWMutex
	games map[model.GameID]model.Game

	locksMu sync.Mutex
	locks   map[model.GameID]*sync.Mutex
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games: make(map[model.GameID]model.Game),
		locks: make(map[model.GameID]*sync.Mutex),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveGame(ctx context.Context, game model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID()] = game
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return model.Game{}, model.ErrGameNotFound
	}
	return game, nil
}

// ListGames returns every stored game ordered by id
func (s *Storage) ListGames(ctx context.Context) ([]model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]model.Game, 0, len(s.games))
	for _, game := range s.games {
		games = append(games, game)
	}
	slices.SortFunc(games, func(a, b model.Game) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return games, nil
}

// DeleteGame removes a game and its update lock. Updates already waiting
// on the lock find the game gone.
func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	lock := s.gameLock(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	delete(s.games, id)
	s.mu.Unlock()

	s.locksMu.Lock()
	delete(s.locks, id)
	s.locksMu.Unlock()
	return nil
}

// lockCount returns the number of per-game update locks held in the map
func (s *Storage) lockCount() int {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	return len(s.locks)
}

func (s *Storage) UpdateGame(ctx context.Context, id model.GameID, fn storage.UpdateFunc) (model.Game, error) {
	lock := s.gameLock(id)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return model.Game{}, err
	}

	game, err := s.GetGame(ctx, id)
	if err != nil {
		return model.Game{}, err
	}

	updated, err := fn(game)
	if err != nil {
		return model.Game{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		// Deleted while fn ran
		return model.Game{}, model.ErrGameNotFound
	}
	s.games[id] = updated
	return updated, nil
}

// gameLock returns the mutex serializing updates to one game
func (s *Storage) gameLock(id model.GameID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}
