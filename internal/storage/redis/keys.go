package redis

import (
	"fmt"

	"github.com/tallyhq/scorekeep/internal/model"
)

// Key prefix for all score-tracking data
const keyPrefix = "scorekeep"

// gameKey returns the Redis key for a game document
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// recencyIndexKey returns the Redis key for the ZSET ordering game IDs
// by their UpdatedAt timestamp
func recencyIndexKey() string {
	return fmt.Sprintf("%s:idx:recency", keyPrefix)
}

// summaryIndexKey returns the Redis key for the HASH of game ID -> summary
func summaryIndexKey() string {
	return fmt.Sprintf("%s:idx:summary", keyPrefix)
}

// probeKey returns the Redis key used by connection probes
func probeKey() string {
	return fmt.Sprintf("%s:probe", keyPrefix)
}
