package redis

import (
	"fmt"

	"github.com/mcoot/pinochle-score/internal/model"
)

// Key prefix for all scoring data
const keyPrefix = "pinochle"

// gameKey returns the Redis key for a Game record
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the SET of known game ids
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}
