package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tgilmour/broadside/internal/model"
	"github.com/tgilmour/broadside/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Name and room-id uniqueness rely on SETNX so concurrent claims from
// different server instances cannot both succeed.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) RegisterPlayer(ctx context.Context, player *model.Player) error {
	claimed, err := s.client.SetNX(ctx, nameIndexKey(player.DisplayName), string(player.ConnectionID), s.cfg.PlayerTTL).Result()
	if err != nil {
		return err
	}
	if !claimed {
		// Re-registering the same name on the same connection is allowed
		holder, err := s.client.Get(ctx, nameIndexKey(player.DisplayName)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if holder != string(player.ConnectionID) {
			return model.ErrNameTaken
		}
	}

	stored := *player
	prev, err := s.GetPlayer(ctx, player.ConnectionID)
	if err != nil && !errors.Is(err, model.ErrPlayerNotFound) {
		return err
	}
	if prev != nil {
		// Re-registration: release the previous name claim and keep the
		// room reference the connection already holds
		stored.CurrentRoom = prev.CurrentRoom
		if prev.DisplayName != stored.DisplayName {
			if err := s.client.Del(ctx, nameIndexKey(prev.DisplayName)).Err(); err != nil {
				return err
			}
		}
	}

	return s.SavePlayer(ctx, &stored)
}

func (s *Storage) GetPlayer(ctx context.Context, id model.ConnectionID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, playerKey(player.ConnectionID), data, s.cfg.PlayerTTL).Err()
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.ConnectionID) error {
	player, err := s.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, playerKey(id))
	pipe.Del(ctx, nameIndexKey(player.DisplayName))
	_, err = pipe.Exec(ctx)
	return err
}

// Room operations

func (s *Storage) CreateRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	claimed, err := s.client.SetNX(ctx, roomKey(room.ID), data, s.cfg.RoomTTL).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return model.ErrRoomExists
	}

	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, roomIndexKey(), string(room.ID))
	pipe.Expire(ctx, roomIndexKey(), s.cfg.RoomTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, roomKey(room.ID), data, s.cfg.RoomTTL).Err()
}

// Slot operations run as WATCH transactions so two server instances
// racing on the same room cannot both take the second slot.
const slotClaimRetries = 3

func (s *Storage) ClaimRoomSlot(ctx context.Context, roomID model.RoomID, id model.ConnectionID) (*model.Room, error) {
	var claimed *model.Room

	claim := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, roomKey(roomID)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrRoomNotFound
			}
			return err
		}

		var room model.Room
		if err := json.Unmarshal(data, &room); err != nil {
			return err
		}
		if room.IsFull() {
			return model.ErrRoomFull
		}
		room.PlayerTwo = id

		payload, err := json.Marshal(&room)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, roomKey(roomID), payload, s.cfg.RoomTTL)
			return nil
		})
		if err != nil {
			return err
		}

		claimed = &room
		return nil
	}

	for i := 0; i < slotClaimRetries; i++ {
		err := s.client.Watch(ctx, claim, roomKey(roomID))
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return claimed, nil
	}
	return nil, redis.TxFailedErr
}

func (s *Storage) ReleaseRoomSlot(ctx context.Context, roomID model.RoomID, id model.ConnectionID) error {
	release := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, roomKey(roomID)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrRoomNotFound
			}
			return err
		}

		var room model.Room
		if err := json.Unmarshal(data, &room); err != nil {
			return err
		}
		if room.PlayerTwo != id {
			return model.ErrNotInRoom
		}
		room.PlayerTwo = ""

		payload, err := json.Marshal(&room)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, roomKey(roomID), payload, s.cfg.RoomTTL)
			return nil
		})
		return err
	}

	for i := 0; i < slotClaimRetries; i++ {
		err := s.client.Watch(ctx, release, roomKey(roomID))
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return redis.TxFailedErr
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, roomKey(id))
	pipe.SRem(ctx, roomIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	ids, err := s.client.SMembers(ctx, roomIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	rooms := make([]*model.Room, 0, len(ids))
	for _, id := range ids {
		room, err := s.GetRoom(ctx, model.RoomID(id))
		if err != nil {
			if errors.Is(err, model.ErrRoomNotFound) {
				// Expired room still in the index; drop the stale entry
				_ = s.client.SRem(ctx, roomIndexKey(), id).Err()
				continue
			}
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// Board operations

func (s *Storage) SaveBoard(ctx context.Context, board *model.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, boardKey(board.Owner), data, s.cfg.BoardTTL).Err()
}

func (s *Storage) GetBoard(ctx context.Context, owner model.ConnectionID) (*model.Board, error) {
	data, err := s.client.Get(ctx, boardKey(owner)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrBoardNotFound
		}
		return nil, err
	}

	var board model.Board
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (s *Storage) DeleteBoard(ctx context.Context, owner model.ConnectionID) error {
	return s.client.Del(ctx, boardKey(owner)).Err()
}
