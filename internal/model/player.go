package model

import "time"

// ConnectionID is the opaque identifier the transport assigns to a live
// connection. It is the only handle the core has on "who is calling".
type ConnectionID string

// Player represents a registered identity bound to a live connection
type Player struct {
	ConnectionID ConnectionID
	DisplayName  string
	CurrentRoom  RoomID // empty when not in a room
	ConnectedAt  time.Time
}

// InRoom returns true if the player currently belongs to a room
func (p *Player) InRoom() bool {
	return p.CurrentRoom != ""
}
