package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tgilmour/broadside/internal/model"
	"github.com/tgilmour/broadside/internal/services/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checks are the deployment's concern (reverse proxy /
		// CORS policy); the game protocol itself is origin-agnostic
		return true
	},
}

// Handler upgrades HTTP requests to websocket game connections and
// dispatches request frames to the session coordinator.
type Handler struct {
	hub         *Hub
	coordinator *session.Coordinator
	logger      *slog.Logger
}

// NewHandler creates a websocket handler
func NewHandler(hub *Hub, coordinator *session.Coordinator, logger *slog.Logger) *Handler {
	return &Handler{
		hub:         hub,
		coordinator: coordinator,
		logger:      logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP upgrades the connection, assigns it a fresh connection id,
// and runs the read loop until the peer goes away
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	id := model.ConnectionID(uuid.New().String())
	client := newClient(id, conn)

	h.hub.Add(client)
	h.coordinator.Connect(r.Context(), id)

	go client.writePump()
	h.readPump(client)
}

// readPump reads request frames until the connection drops, then tears
// down everything the connection owned
func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Remove(c.id)
		// The HTTP request context died with the connection; cleanup
		// gets its own
		h.coordinator.Disconnect(context.Background(), c.id)
		c.conn.Close()
	}()

	for {
		var req request
		if err := c.conn.ReadJSON(&req); err != nil {
			return
		}
		h.dispatch(context.Background(), c, req)
	}
}

func (h *Handler) dispatch(ctx context.Context, c *Client, req request) {
	switch req.Type {
	case OpRegister:
		err := h.coordinator.Register(ctx, c.id, req.Name)
		c.enqueue(result(OpRegister, err))

	case OpListRooms:
		rooms, err := h.coordinator.Rooms(ctx)
		if err != nil {
			c.enqueue(result(OpListRooms, err))
			return
		}
		c.enqueue(roomsFrame{Type: "rooms", Rooms: summarizeRooms(rooms)})

	case OpCreateRoom:
		err := h.coordinator.CreateRoom(ctx, c.id, model.RoomID(req.Room))
		c.enqueue(result(OpCreateRoom, err))

	case OpJoinRoom:
		err := h.coordinator.JoinRoom(ctx, c.id, model.RoomID(req.Room))
		c.enqueue(result(OpJoinRoom, err))

	case OpLeaveRoom:
		err := h.coordinator.LeaveRoom(ctx, c.id)
		c.enqueue(result(OpLeaveRoom, err))

	case OpGetOpponent:
		// Failure surfaces as an empty name, matching the original RPC
		name, _ := h.coordinator.Opponent(ctx, c.id)
		c.enqueue(opponentFrame{Type: "opponent", Name: name})

	case OpPlaceShips:
		err := h.coordinator.PlaceShips(ctx, c.id, req.Ships)
		c.enqueue(result(OpPlaceShips, err))

	case OpShoot:
		hit, err := h.coordinator.Shoot(ctx, c.id, model.Coordinate{X: req.X, Y: req.Y})
		frame := result(OpShoot, err)
		frame.Hit = hit
		c.enqueue(frame)

	default:
		h.logger.Warn("unknown operation",
			slog.String("connection_id", string(c.id)),
			slog.String("op", req.Type))
		c.enqueue(resultFrame{Type: "result", Op: req.Type, OK: false, Error: "UNKNOWN_OPERATION"})
	}
}

func result(op string, err error) resultFrame {
	frame := resultFrame{Type: "result", Op: op, OK: err == nil}
	if err != nil {
		frame.Error = errorCode(err)
	}
	return frame
}
