package rooms

import (
	"context"
	"log/slog"

	"github.com/tgilmour/broadside/internal/dependencies/clock"
	"github.com/tgilmour/broadside/internal/model"
	"github.com/tgilmour/broadside/internal/services/registry"
	"github.com/tgilmour/broadside/internal/storage"
)

// Service is the room directory: it tracks open rooms, enforces the
// two-occupant capacity, and applies the ownership rule that a room
// cannot outlive its creator.
type Service struct {
	storage  storage.Storage
	registry *registry.Service
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new room directory service
func New(storage storage.Storage, registry *registry.Service, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		registry: registry,
		clock:    clock,
		logger:   logger.With(slog.String("component", "rooms")),
	}
}

// LeaveResult describes what a Leave call did to the room
type LeaveResult struct {
	Room *model.Room
	// RoomDeleted is true when the leaver owned the room
	RoomDeleted bool
	// Evicted is the second occupant left behind by an owner leave,
	// empty otherwise
	Evicted model.ConnectionID
}

// Create opens a new room owned by the calling connection. The caller
// must be registered and the room id must be unused.
func (s *Service) Create(ctx context.Context, id model.ConnectionID, roomID model.RoomID) (*model.Room, error) {
	if _, err := s.registry.Lookup(ctx, id); err != nil {
		return nil, err
	}

	room := &model.Room{
		ID:        roomID,
		PlayerOne: id,
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.CreateRoom(ctx, room); err != nil {
		return nil, err
	}

	if err := s.registry.SetRoom(ctx, id, roomID); err != nil {
		return nil, err
	}

	s.logger.Info("room created",
		slog.String("room_id", string(roomID)),
		slog.String("owner", string(id)))

	return room, nil
}

// Join adds the calling connection as the second occupant. It fails
// when the room does not exist or already has two players; the slot is
// claimed atomically so concurrent joins cannot both succeed.
func (s *Service) Join(ctx context.Context, id model.ConnectionID, roomID model.RoomID) (*model.Room, error) {
	if _, err := s.registry.Lookup(ctx, id); err != nil {
		return nil, err
	}

	room, err := s.storage.ClaimRoomSlot(ctx, roomID, id)
	if err != nil {
		return nil, err
	}

	if err := s.registry.SetRoom(ctx, id, roomID); err != nil {
		return nil, err
	}

	s.logger.Info("room joined",
		slog.String("room_id", string(roomID)),
		slog.String("connection_id", string(id)))

	return room, nil
}

// Leave removes the calling connection from its current room. An owner
// leaving destroys the room entirely; the remaining occupant, if any,
// has their room reference cleared and is reported as Evicted. A
// second-occupant leave just frees the slot.
func (s *Service) Leave(ctx context.Context, id model.ConnectionID) (*LeaveResult, error) {
	player, err := s.registry.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !player.InRoom() {
		return nil, model.ErrNotInRoom
	}

	room, err := s.storage.GetRoom(ctx, player.CurrentRoom)
	if err != nil {
		return nil, err
	}

	if room.IsOwner(id) {
		if err := s.storage.DeleteRoom(ctx, room.ID); err != nil {
			return nil, err
		}
		if err := s.registry.SetRoom(ctx, id, ""); err != nil {
			return nil, err
		}

		result := &LeaveResult{Room: room, RoomDeleted: true}
		if room.PlayerTwo != "" {
			result.Evicted = room.PlayerTwo
			if err := s.registry.SetRoom(ctx, room.PlayerTwo, ""); err != nil {
				s.logger.Warn("could not clear evicted player's room reference",
					slog.String("connection_id", string(room.PlayerTwo)),
					slog.String("error", err.Error()))
			}
		}

		s.logger.Info("room closed by owner", slog.String("room_id", string(room.ID)))
		return result, nil
	}

	if err := s.storage.ReleaseRoomSlot(ctx, room.ID, id); err != nil {
		return nil, err
	}
	room.PlayerTwo = ""
	if err := s.registry.SetRoom(ctx, id, ""); err != nil {
		return nil, err
	}

	s.logger.Info("room left",
		slog.String("room_id", string(room.ID)),
		slog.String("connection_id", string(id)))

	return &LeaveResult{Room: room}, nil
}

// Get retrieves a room by id
func (s *Service) Get(ctx context.Context, roomID model.RoomID) (*model.Room, error) {
	return s.storage.GetRoom(ctx, roomID)
}

// List returns a snapshot of all currently open rooms
func (s *Service) List(ctx context.Context) ([]*model.Room, error) {
	return s.storage.ListRooms(ctx)
}
