package ws

import (
	"errors"

	"github.com/tgilmour/broadside/internal/model"
	"github.com/tgilmour/broadside/internal/push"
)

// Operation names accepted over the socket
const (
	OpRegister    = "register"
	OpListRooms   = "list_rooms"
	OpCreateRoom  = "create_room"
	OpJoinRoom    = "join_room"
	OpLeaveRoom   = "leave_room"
	OpGetOpponent = "get_opponent"
	OpPlaceShips  = "place_ships"
	OpShoot       = "shoot"
)

// request is a client-to-server frame. Type selects the operation; the
// remaining fields are operation-specific arguments.
type request struct {
	Type  string       `json:"type"`
	Name  string       `json:"name,omitempty"`
	Room  string       `json:"room,omitempty"`
	Ships []model.Ship `json:"ships,omitempty"`
	X     int          `json:"x"`
	Y     int          `json:"y"`
}

// resultFrame acknowledges a request with a boolean outcome, mirroring
// the original RPC surface. Error carries a machine-readable code when
// OK is false.
type resultFrame struct {
	Type  string `json:"type"`
	Op    string `json:"op"`
	OK    bool   `json:"ok"`
	Hit   bool   `json:"hit,omitempty"`
	Error string `json:"error,omitempty"`
}

// roomsFrame answers a list_rooms request
type roomsFrame struct {
	Type  string        `json:"type"`
	Rooms []roomSummary `json:"rooms"`
}

// roomSummary is the client-facing view of an open room
type roomSummary struct {
	ID        string `json:"id"`
	Occupants int    `json:"occupants"`
	Full      bool   `json:"full"`
}

// opponentFrame answers a get_opponent request; Name is empty when
// there is no resolvable opponent
type opponentFrame struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Push frames, server to client

type roomFullFrame struct {
	Type string `json:"type"`
}

type receiveShotFrame struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type shipSunkFrame struct {
	Type string     `json:"type"`
	Ship model.Ship `json:"ship"`
}

type roomClosedFrame struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

func summarizeRooms(rooms []*model.Room) []roomSummary {
	out := make([]roomSummary, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, roomSummary{
			ID:        string(r.ID),
			Occupants: len(r.Occupants()),
			Full:      r.IsFull(),
		})
	}
	return out
}

// encodeEvent turns a core push event into its wire frame
func encodeEvent(event model.Event) any {
	switch event.Type {
	case model.EventRoomFull:
		return roomFullFrame{Type: string(model.EventRoomFull)}
	case model.EventReceiveShot:
		p, _ := event.Payload.(model.ReceiveShotPayload)
		return receiveShotFrame{
			Type: string(model.EventReceiveShot),
			X:    p.Coordinate.X,
			Y:    p.Coordinate.Y,
		}
	case model.EventOpponentShipSunk:
		p, _ := event.Payload.(model.ShipSunkPayload)
		return shipSunkFrame{
			Type: string(model.EventOpponentShipSunk),
			Ship: p.Ship,
		}
	case model.EventRoomClosed:
		p, _ := event.Payload.(model.RoomClosedPayload)
		return roomClosedFrame{
			Type: string(model.EventRoomClosed),
			Room: string(p.RoomID),
		}
	default:
		return nil
	}
}

// errorCode maps core errors to the codes reported in result frames
func errorCode(err error) string {
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return "NOT_REGISTERED"
	case errors.Is(err, model.ErrEmptyName):
		return "EMPTY_NAME"
	case errors.Is(err, model.ErrNameTaken):
		return "NAME_TAKEN"
	case errors.Is(err, model.ErrRoomExists):
		return "ROOM_EXISTS"
	case errors.Is(err, model.ErrRoomNotFound):
		return "ROOM_NOT_FOUND"
	case errors.Is(err, model.ErrRoomFull):
		return "ROOM_FULL"
	case errors.Is(err, model.ErrNotInRoom):
		return "NOT_IN_ROOM"
	case errors.Is(err, model.ErrNoOpponent):
		return "NO_OPPONENT"
	case errors.Is(err, model.ErrBoardNotFound):
		return "NO_BOARD"
	default:
		return "INTERNAL_ERROR"
	}
}

// Compile-time check that the hub satisfies the coordinator's sender
var _ push.Sender = (*Hub)(nil)
