package storage

import (
	"context"

	"github.com/tgilmour/broadside/internal/model"
)

// Storage defines the interface for session state. Implementations must
// be safe for concurrent callers: getters return snapshots the caller
// may mutate freely, and uniqueness claims (display names, room ids,
// the second room slot) are atomic within a single operation.
type Storage interface {
	// Player operations. RegisterPlayer claims the display name and
	// fails with model.ErrNameTaken if another live connection holds it.
	// DeletePlayer releases the claim and is a no-op when absent.
	RegisterPlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.ConnectionID) (*model.Player, error)
	SavePlayer(ctx context.Context, player *model.Player) error
	DeletePlayer(ctx context.Context, id model.ConnectionID) error

	// Room operations. CreateRoom fails with model.ErrRoomExists when
	// the id is already claimed. ClaimRoomSlot atomically fills the
	// second slot, so two concurrent joins cannot both pass the
	// capacity check; it fails with model.ErrRoomNotFound or
	// model.ErrRoomFull and returns the updated room on success.
	// ReleaseRoomSlot atomically clears the second slot when the given
	// connection holds it, failing with model.ErrNotInRoom otherwise.
	CreateRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	SaveRoom(ctx context.Context, room *model.Room) error
	ClaimRoomSlot(ctx context.Context, roomID model.RoomID, id model.ConnectionID) (*model.Room, error)
	ReleaseRoomSlot(ctx context.Context, roomID model.RoomID, id model.ConnectionID) error
	DeleteRoom(ctx context.Context, id model.RoomID) error
	ListRooms(ctx context.Context) ([]*model.Room, error)

	// Board operations, keyed by the owning connection
	SaveBoard(ctx context.Context, board *model.Board) error
	GetBoard(ctx context.Context, owner model.ConnectionID) (*model.Board, error)
	DeleteBoard(ctx context.Context, owner model.ConnectionID) error
}
