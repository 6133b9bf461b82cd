package memory

import (
	"context"
	"sync"

	"github.com/tgilmour/broadside/internal/model"
	"github.com/tgilmour/broadside/internal/storage"
)

// Storage is an in-memory implementation of the storage interface. A
// single mutex guards the maps, and every read and write goes through a
// copy so callers never hold a pointer into guarded state.
type Storage struct {
	mu sync.RWMutex

	players   map[model.ConnectionID]*model.Player
	nameIndex map[string]model.ConnectionID
	rooms     map[model.RoomID]*model.Room
	boards    map[model.ConnectionID]*model.Board
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:   make(map[model.ConnectionID]*model.Player),
		nameIndex: make(map[string]model.ConnectionID),
		rooms:     make(map[model.RoomID]*model.Room),
		boards:    make(map[model.ConnectionID]*model.Board),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func clonePlayer(p *model.Player) *model.Player {
	clone := *p
	return &clone
}

func cloneRoom(r *model.Room) *model.Room {
	clone := *r
	return &clone
}

func cloneBoard(b *model.Board) *model.Board {
	clone := model.Board{
		Owner: b.Owner,
		Ships: make([]model.Ship, len(b.Ships)),
	}
	for i, ship := range b.Ships {
		clone.Ships[i] = model.Ship{
			Cells: append([]model.Coordinate(nil), ship.Cells...),
			Hits:  append([]model.Coordinate(nil), ship.Hits...),
		}
	}
	return &clone
}

// Player operations

func (s *Storage) RegisterPlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if holder, ok := s.nameIndex[player.DisplayName]; ok && holder != player.ConnectionID {
		return model.ErrNameTaken
	}

	stored := clonePlayer(player)
	if prev, ok := s.players[player.ConnectionID]; ok {
		// Re-registration: release the previous name claim and keep the
		// room reference the connection already holds
		if prev.DisplayName != stored.DisplayName {
			delete(s.nameIndex, prev.DisplayName)
		}
		stored.CurrentRoom = prev.CurrentRoom
	}

	s.nameIndex[stored.DisplayName] = stored.ConnectionID
	s.players[stored.ConnectionID] = stored
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.ConnectionID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return clonePlayer(player), nil
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ConnectionID] = clonePlayer(player)
	return nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.ConnectionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if player, ok := s.players[id]; ok {
		delete(s.nameIndex, player.DisplayName)
		delete(s.players, id)
	}
	return nil
}

// Room operations

func (s *Storage) CreateRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; ok {
		return model.ErrRoomExists
	}
	s.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (s *Storage) ClaimRoomSlot(ctx context.Context, roomID model.RoomID, id model.ConnectionID) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	if room.IsFull() {
		return nil, model.ErrRoomFull
	}
	room.PlayerTwo = id
	return cloneRoom(room), nil
}

func (s *Storage) ReleaseRoomSlot(ctx context.Context, roomID model.RoomID, id model.ConnectionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return model.ErrRoomNotFound
	}
	if room.PlayerTwo != id {
		return model.ErrNotInRoom
	}
	room.PlayerTwo = ""
	return nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	return nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*model.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, cloneRoom(room))
	}
	return rooms, nil
}

// Board operations

func (s *Storage) SaveBoard(ctx context.Context, board *model.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards[board.Owner] = cloneBoard(board)
	return nil
}

func (s *Storage) GetBoard(ctx context.Context, owner model.ConnectionID) (*model.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	board, ok := s.boards[owner]
	if !ok {
		return nil, model.ErrBoardNotFound
	}
	return cloneBoard(board), nil
}

func (s *Storage) DeleteBoard(ctx context.Context, owner model.ConnectionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.boards, owner)
	return nil
}
