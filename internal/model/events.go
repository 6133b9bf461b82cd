package model

// EventType identifies the type of a push event
type EventType string

const (
	// EventRoomFull is sent to both occupants when a second player joins
	EventRoomFull EventType = "room_full"
	// EventReceiveShot is sent to the player whose board was fired at
	EventReceiveShot EventType = "receive_shot"
	// EventOpponentShipSunk is sent to the board owner when a shot
	// completes one of their ships
	EventOpponentShipSunk EventType = "opponent_ship_sunk"
	// EventRoomClosed is sent to the remaining occupant when the owner
	// leaves and the room is destroyed
	EventRoomClosed EventType = "room_closed"
)

// Event is a push notification addressed to a single connection
type Event struct {
	Type    EventType
	Payload any // type-specific data, nil for signal-only events
}

// ReceiveShotPayload carries the coordinate that was fired at
type ReceiveShotPayload struct {
	Coordinate Coordinate
}

// ShipSunkPayload carries the shape of the ship that was just sunk
type ShipSunkPayload struct {
	Ship Ship
}

// RoomClosedPayload names the room that was destroyed
type RoomClosedPayload struct {
	RoomID RoomID
}
