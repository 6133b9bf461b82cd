package model

import "time"

// RoomID is a human-chosen identifier for a game room
type RoomID string

// Room represents a single two-player game session. PlayerOne is the
// creator and owner; the room is destroyed the moment they leave.
// PlayerTwo is empty until a second connection joins.
type Room struct {
	ID        RoomID
	PlayerOne ConnectionID
	PlayerTwo ConnectionID
	CreatedAt time.Time
}

// IsFull returns true if both slots are occupied
func (r *Room) IsFull() bool {
	return r.PlayerTwo != ""
}

// IsOwner returns true if the given connection created the room
func (r *Room) IsOwner(id ConnectionID) bool {
	return r.PlayerOne == id
}

// Occupants returns the connection ids currently in the room
func (r *Room) Occupants() []ConnectionID {
	ids := []ConnectionID{r.PlayerOne}
	if r.PlayerTwo != "" {
		ids = append(ids, r.PlayerTwo)
	}
	return ids
}

// Opponent returns the occupant that is not the given connection.
// The second result is false when the room has no such occupant.
func (r *Room) Opponent(id ConnectionID) (ConnectionID, bool) {
	switch {
	case r.PlayerOne == id && r.PlayerTwo != "":
		return r.PlayerTwo, true
	case r.PlayerTwo == id:
		return r.PlayerOne, true
	default:
		return "", false
	}
}
