package response

import (
	"time"

	"github.com/tgilmour/broadside/internal/model"
)

// Room is the client-facing snapshot of an open game room
type Room struct {
	ID        string    `json:"id"`
	Occupants int       `json:"occupants"`
	Full      bool      `json:"full"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomFromModel converts a model.Room to a response Room
func RoomFromModel(r *model.Room) Room {
	return Room{
		ID:        string(r.ID),
		Occupants: len(r.Occupants()),
		Full:      r.IsFull(),
		CreatedAt: r.CreatedAt,
	}
}

// RoomList wraps the rooms listing
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// RoomListFromModel converts a slice of model rooms
func RoomListFromModel(rooms []*model.Room) RoomList {
	out := RoomList{Rooms: make([]Room, 0, len(rooms))}
	for _, r := range rooms {
		out.Rooms = append(out.Rooms, RoomFromModel(r))
	}
	return out
}
