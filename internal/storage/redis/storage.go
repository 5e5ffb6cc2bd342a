package redis

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/pinochle-score/internal/model"
	"github.com/mcoot/pinochle-score/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Games are stored as JSON records with an index set of their ids.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveGame(ctx context.Context, game model.Game) error {
	data, err := encodeGame(game)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, gameKey(game.ID()), data, s.cfg.GameTTL)
	pipe.SAdd(ctx, gamesIndexKey(), string(game.ID()))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Game{}, model.ErrGameNotFound
		}
		return model.Game{}, err
	}
	return decodeGame(data)
}

// ListGames returns every stored game ordered by id. Ids whose game has
// expired are pruned from the index.
func (s *Storage) ListGames(ctx context.Context) ([]model.Game, error) {
	ids, err := s.client.SMembers(ctx, gamesIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Game{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(model.GameID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	games := make([]model.Game, 0, len(values))
	var expired []any
	for i, val := range values {
		raw, ok := val.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		game, err := decodeGame([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", ids[i], err)
		}
		games = append(games, game)
	}

	if len(expired) > 0 {
		if err := s.client.SRem(ctx, gamesIndexKey(), expired...).Err(); err != nil {
			return nil, err
		}
	}

	slices.SortFunc(games, func(a, b model.Game) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, gameKey(id))
	pipe.SRem(ctx, gamesIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

// UpdateGame applies fn inside a WATCH transaction on the game key. When
// another writer touches the game first the transaction is retried with a
// fresh read, up to MaxUpdateRetries times.
func (s *Storage) UpdateGame(ctx context.Context, id model.GameID, fn storage.UpdateFunc) (model.Game, error) {
	key := gameKey(id)
	var updated model.Game

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrGameNotFound
			}
			return err
		}

		game, err := decodeGame(data)
		if err != nil {
			return err
		}

		next, err := fn(game)
		if err != nil {
			return err
		}

		encoded, err := encodeGame(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.cfg.GameTTL)
			return nil
		})
		if err != nil {
			return err
		}

		updated = next
		return nil
	}

	attempts := max(s.cfg.MaxUpdateRetries, 1)
	for n := 0; n < attempts; n++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return model.Game{}, err
		}
		return updated, nil
	}
	return model.Game{}, fmt.Errorf("%w: game %s", model.ErrConcurrentUpdate, id)
}

func encodeGame(game model.Game) ([]byte, error) {
	return json.Marshal(game.Record())
}

func decodeGame(data []byte) (model.Game, error) {
	var rec model.GameRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.Game{}, fmt.Errorf("%w: %v", model.ErrInvalidRecord, err)
	}
	return model.GameFromRecord(rec)
}
