package redis

import (
	"fmt"

	"github.com/tgilmour/broadside/internal/model"
)

// Key prefix for all session data
const keyPrefix = "broadside"

// playerKey returns the Redis key for a Player
func playerKey(id model.ConnectionID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// nameIndexKey returns the Redis key claiming a display name
func nameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:name:%s", keyPrefix, name)
}

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomIndexKey returns the Redis key for the SET of open room ids
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}

// boardKey returns the Redis key for a player's Board
func boardKey(owner model.ConnectionID) string {
	return fmt.Sprintf("%s:board:%s", keyPrefix, owner)
}
