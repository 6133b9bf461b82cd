package registry

import (
	"context"
	"log/slog"

	"github.com/tgilmour/broadside/internal/dependencies/clock"
	"github.com/tgilmour/broadside/internal/model"
	"github.com/tgilmour/broadside/internal/storage"
)

// Service is the identity registry: it binds live connections to
// registered display names and enforces process-wide name uniqueness.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new registry service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "registry")),
	}
}

// Register claims a display name for the given connection. It fails
// with model.ErrEmptyName for a blank name and model.ErrNameTaken when
// any live connection already holds the name (exact match, no case
// normalization).
func (s *Service) Register(ctx context.Context, id model.ConnectionID, displayName string) (*model.Player, error) {
	if displayName == "" {
		return nil, model.ErrEmptyName
	}

	player := &model.Player{
		ConnectionID: id,
		DisplayName:  displayName,
		ConnectedAt:  s.clock.Now(),
	}

	if err := s.storage.RegisterPlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("connection_id", string(id)),
		slog.String("display_name", displayName))

	return player, nil
}

// Unregister removes the player bound to the connection and releases
// their display name. It is a no-op for unknown connections.
func (s *Service) Unregister(ctx context.Context, id model.ConnectionID) error {
	return s.storage.DeletePlayer(ctx, id)
}

// Lookup resolves the player registered on the connection
func (s *Service) Lookup(ctx context.Context, id model.ConnectionID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// SetRoom records the player's current-room reference
func (s *Service) SetRoom(ctx context.Context, id model.ConnectionID, roomID model.RoomID) error {
	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return err
	}
	player.CurrentRoom = roomID
	return s.storage.SavePlayer(ctx, player)
}
