package session

import (
	"context"
	"log/slog"

	"github.com/tgilmour/broadside/internal/model"
	"github.com/tgilmour/broadside/internal/push"
	"github.com/tgilmour/broadside/internal/services/registry"
	"github.com/tgilmour/broadside/internal/services/rooms"
	"github.com/tgilmour/broadside/internal/storage"
)

// Coordinator is the single entry point for client-initiated game
// operations. It orchestrates the identity registry, the room
// directory, and per-player boards, and pushes notifications to
// connections through the Sender.
//
// Every operation takes the caller's connection id explicitly; there is
// no ambient "current connection" state.
type Coordinator struct {
	registry *registry.Service
	rooms    *rooms.Service
	storage  storage.Storage
	sender   push.Sender
	logger   *slog.Logger
}

// NewCoordinator creates a new session coordinator
func NewCoordinator(
	registry *registry.Service,
	rooms *rooms.Service,
	storage storage.Storage,
	sender push.Sender,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		registry: registry,
		rooms:    rooms,
		storage:  storage,
		sender:   sender,
		logger:   logger.With(slog.String("component", "session")),
	}
}

// Connect records that a new connection is live. Players must still
// register a display name before any other operation succeeds.
func (c *Coordinator) Connect(ctx context.Context, id model.ConnectionID) {
	c.logger.Info("connection opened", slog.String("connection_id", string(id)))
}

// Disconnect cleans up all state owned by a connection. It always
// completes: room cleanup runs first, while the player's recorded room
// reference is still readable, then the identity and board are removed.
func (c *Coordinator) Disconnect(ctx context.Context, id model.ConnectionID) {
	if result, err := c.rooms.Leave(ctx, id); err == nil {
		c.notifyLeave(ctx, result)
	}

	if err := c.registry.Unregister(ctx, id); err != nil {
		c.logger.Warn("could not unregister on disconnect",
			slog.String("connection_id", string(id)),
			slog.String("error", err.Error()))
	}
	if err := c.storage.DeleteBoard(ctx, id); err != nil {
		c.logger.Warn("could not delete board on disconnect",
			slog.String("connection_id", string(id)),
			slog.String("error", err.Error()))
	}

	c.logger.Info("connection closed", slog.String("connection_id", string(id)))
}

// Register claims a display name for the connection
func (c *Coordinator) Register(ctx context.Context, id model.ConnectionID, displayName string) error {
	_, err := c.registry.Register(ctx, id, displayName)
	return err
}

// Rooms returns a snapshot of the currently open rooms
func (c *Coordinator) Rooms(ctx context.Context) ([]*model.Room, error) {
	return c.rooms.List(ctx)
}

// CreateRoom opens a new room owned by the calling connection
func (c *Coordinator) CreateRoom(ctx context.Context, id model.ConnectionID, roomID model.RoomID) error {
	_, err := c.rooms.Create(ctx, id, roomID)
	return err
}

// JoinRoom adds the caller as the second occupant and notifies both
// occupants that the room is full
func (c *Coordinator) JoinRoom(ctx context.Context, id model.ConnectionID, roomID model.RoomID) error {
	room, err := c.rooms.Join(ctx, id, roomID)
	if err != nil {
		return err
	}

	for _, occupant := range room.Occupants() {
		c.sender.Send(ctx, occupant, model.Event{Type: model.EventRoomFull})
	}
	return nil
}

// LeaveRoom removes the caller from their current room. When the owner
// leaves, the remaining occupant is told the room is gone.
func (c *Coordinator) LeaveRoom(ctx context.Context, id model.ConnectionID) error {
	result, err := c.rooms.Leave(ctx, id)
	if err != nil {
		return err
	}
	c.notifyLeave(ctx, result)
	return nil
}

func (c *Coordinator) notifyLeave(ctx context.Context, result *rooms.LeaveResult) {
	if result.Evicted == "" {
		return
	}
	c.sender.Send(ctx, result.Evicted, model.Event{
		Type:    model.EventRoomClosed,
		Payload: model.RoomClosedPayload{RoomID: result.Room.ID},
	})
}

// Opponent returns the display name of the other occupant of the
// caller's room
func (c *Coordinator) Opponent(ctx context.Context, id model.ConnectionID) (string, error) {
	room, err := c.currentRoom(ctx, id)
	if err != nil {
		return "", err
	}

	opponentID, ok := room.Opponent(id)
	if !ok {
		return "", model.ErrNoOpponent
	}

	opponent, err := c.registry.Lookup(ctx, opponentID)
	if err != nil {
		return "", err
	}
	return opponent.DisplayName, nil
}

// PlaceShips replaces the caller's board with a fresh one holding the
// given layout and an empty strike history. Re-submission silently
// replaces prior state; the core does not validate placement legality.
func (c *Coordinator) PlaceShips(ctx context.Context, id model.ConnectionID, ships []model.Ship) error {
	if _, err := c.registry.Lookup(ctx, id); err != nil {
		return err
	}

	board := model.NewBoard(id, ships)
	if err := c.storage.SaveBoard(ctx, board); err != nil {
		return err
	}

	c.logger.Info("ships placed",
		slog.String("connection_id", string(id)),
		slog.Int("ships", len(ships)))
	return nil
}

// Shoot fires at the opponent's board. The opponent is the room
// occupant that is not the shooter; no turn order is enforced. The
// opponent is always told where the shot landed, and additionally
// receives an OpponentShipSunk event when this shot is the one that
// completed a ship. Returns whether the shot was a hit.
func (c *Coordinator) Shoot(ctx context.Context, id model.ConnectionID, coord model.Coordinate) (bool, error) {
	room, err := c.currentRoom(ctx, id)
	if err != nil {
		return false, err
	}

	opponentID, ok := room.Opponent(id)
	if !ok {
		return false, model.ErrNoOpponent
	}

	board, err := c.storage.GetBoard(ctx, opponentID)
	if err != nil {
		return false, err
	}

	var wasSunk bool
	if ship := board.ShipAt(coord); ship != nil {
		wasSunk = ship.IsSunk()
	}

	hit := board.ReceiveHit(coord)
	if err := c.storage.SaveBoard(ctx, board); err != nil {
		return false, err
	}

	c.sender.Send(ctx, opponentID, model.Event{
		Type:    model.EventReceiveShot,
		Payload: model.ReceiveShotPayload{Coordinate: coord},
	})

	if hit {
		if ship := board.ShipAt(coord); !wasSunk && ship.IsSunk() {
			c.sender.Send(ctx, opponentID, model.Event{
				Type:    model.EventOpponentShipSunk,
				Payload: model.ShipSunkPayload{Ship: *ship},
			})
		}
		if board.AllSunk() {
			c.logger.Info("fleet destroyed",
				slog.String("room_id", string(room.ID)),
				slog.String("loser", string(opponentID)))
		}
	}

	return hit, nil
}

func (c *Coordinator) currentRoom(ctx context.Context, id model.ConnectionID) (*model.Room, error) {
	player, err := c.registry.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !player.InRoom() {
		return nil, model.ErrNotInRoom
	}
	return c.rooms.Get(ctx, player.CurrentRoom)
}
