package redis

import (
	"fmt"

	"github.com/beatguessr/beatguessr-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "beatguessr"

// roomKey returns the Redis key for a Room
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// roomKeyPattern matches all room keys, for SCAN
func roomKeyPattern() string {
	return fmt.Sprintf("%s:room:*", keyPrefix)
}

// connKey returns the Redis key for the connection -> room mapping
func connKey(conn model.ConnectionID) string {
	return fmt.Sprintf("%s:conn:%s", keyPrefix, conn)
}

// songsKey returns the Redis key for the song catalog
func songsKey() string {
	return fmt.Sprintf("%s:songs", keyPrefix)
}
