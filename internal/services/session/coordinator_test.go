package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tgilmour/broadside/internal/dependencies/mocks"
	"github.com/tgilmour/broadside/internal/model"
	"github.com/tgilmour/broadside/internal/services/registry"
	"github.com/tgilmour/broadside/internal/services/rooms"
	"github.com/tgilmour/broadside/internal/storage/memory"
	"github.com/tgilmour/broadside/internal/testutil"
)

// recordingSender captures pushed events per connection
type recordingSender struct {
	events map[model.ConnectionID][]model.Event
}

func newRecordingSender() *recordingSender {
	return &recordingSender{events: make(map[model.ConnectionID][]model.Event)}
}

func (r *recordingSender) Send(ctx context.Context, to model.ConnectionID, event model.Event) {
	r.events[to] = append(r.events[to], event)
}

func (r *recordingSender) byType(to model.ConnectionID, t model.EventType) []model.Event {
	var matched []model.Event
	for _, e := range r.events[to] {
		if e.Type == t {
			matched = append(matched, e)
		}
	}
	return matched
}

type CoordinatorSuite struct {
	suite.Suite
	storage     *memory.Storage
	sender      *recordingSender
	coordinator *Coordinator
	ctx         context.Context
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.storage = memory.New()
	s.sender = newRecordingSender()

	clk := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	logger := testutil.NopLogger()
	reg := registry.New(s.storage, clk, logger)
	dir := rooms.New(s.storage, reg, clk, logger)
	s.coordinator = NewCoordinator(reg, dir, s.storage, s.sender, logger)
	s.ctx = context.Background()
}

// setupRoom registers alice and bob and puts them in room r1
func (s *CoordinatorSuite) setupRoom() {
	s.Require().NoError(s.coordinator.Register(s.ctx, "conn-a", "alice"))
	s.Require().NoError(s.coordinator.Register(s.ctx, "conn-b", "bob"))
	s.Require().NoError(s.coordinator.CreateRoom(s.ctx, "conn-a", "r1"))
	s.Require().NoError(s.coordinator.JoinRoom(s.ctx, "conn-b", "r1"))
}

// Registration

func (s *CoordinatorSuite) TestRegisterDuplicateName() {
	s.Require().NoError(s.coordinator.Register(s.ctx, "conn-a", "alice"))

	err := s.coordinator.Register(s.ctx, "conn-b", "alice")
	s.ErrorIs(err, model.ErrNameTaken)
}

func (s *CoordinatorSuite) TestOperationsRequireRegistration() {
	err := s.coordinator.CreateRoom(s.ctx, "conn-a", "r1")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	err = s.coordinator.PlaceShips(s.ctx, "conn-a", nil)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.coordinator.Shoot(s.ctx, "conn-a", model.Coordinate{})
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Room lifecycle

func (s *CoordinatorSuite) TestJoinRoomNotifiesBothOccupants() {
	s.setupRoom()

	s.Len(s.sender.byType("conn-a", model.EventRoomFull), 1)
	s.Len(s.sender.byType("conn-b", model.EventRoomFull), 1)
}

func (s *CoordinatorSuite) TestOwnerLeaveNotifiesEvictedOccupant() {
	s.setupRoom()

	s.Require().NoError(s.coordinator.LeaveRoom(s.ctx, "conn-a"))

	closed := s.sender.byType("conn-b", model.EventRoomClosed)
	s.Require().Len(closed, 1)
	payload, ok := closed[0].Payload.(model.RoomClosedPayload)
	s.Require().True(ok)
	s.Equal(model.RoomID("r1"), payload.RoomID)

	rms, err := s.coordinator.Rooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(rms)
}

func (s *CoordinatorSuite) TestSecondOccupantLeaveIsQuiet() {
	s.setupRoom()

	s.Require().NoError(s.coordinator.LeaveRoom(s.ctx, "conn-b"))

	s.Empty(s.sender.byType("conn-a", model.EventRoomClosed))

	rms, err := s.coordinator.Rooms(s.ctx)
	s.Require().NoError(err)
	s.Len(rms, 1)
}

// Opponent

func (s *CoordinatorSuite) TestOpponent() {
	s.setupRoom()

	name, err := s.coordinator.Opponent(s.ctx, "conn-a")
	s.Require().NoError(err)
	s.Equal("bob", name)

	name, err = s.coordinator.Opponent(s.ctx, "conn-b")
	s.Require().NoError(err)
	s.Equal("alice", name)
}

func (s *CoordinatorSuite) TestOpponentAloneInRoom() {
	s.Require().NoError(s.coordinator.Register(s.ctx, "conn-a", "alice"))
	s.Require().NoError(s.coordinator.CreateRoom(s.ctx, "conn-a", "r1"))

	_, err := s.coordinator.Opponent(s.ctx, "conn-a")
	s.ErrorIs(err, model.ErrNoOpponent)
}

// Shooting

func (s *CoordinatorSuite) TestShootMiss() {
	s.setupRoom()
	s.Require().NoError(s.coordinator.PlaceShips(s.ctx, "conn-a", []model.Ship{
		{Cells: []model.Coordinate{{X: 0, Y: 0}}},
	}))

	hit, err := s.coordinator.Shoot(s.ctx, "conn-b", model.Coordinate{X: 5, Y: 5})
	s.Require().NoError(err)
	s.False(hit)

	// The opponent is still told where the shot landed
	shots := s.sender.byType("conn-a", model.EventReceiveShot)
	s.Require().Len(shots, 1)
	payload := shots[0].Payload.(model.ReceiveShotPayload)
	s.Equal(model.Coordinate{X: 5, Y: 5}, payload.Coordinate)

	s.Empty(s.sender.byType("conn-a", model.EventOpponentShipSunk))
}

func (s *CoordinatorSuite) TestShootHitAndSink() {
	s.setupRoom()
	s.Require().NoError(s.coordinator.PlaceShips(s.ctx, "conn-a", []model.Ship{
		{Cells: []model.Coordinate{{X: 0, Y: 0}}},
	}))

	hit, err := s.coordinator.Shoot(s.ctx, "conn-b", model.Coordinate{X: 0, Y: 0})
	s.Require().NoError(err)
	s.True(hit)

	sunk := s.sender.byType("conn-a", model.EventOpponentShipSunk)
	s.Require().Len(sunk, 1)
	payload := sunk[0].Payload.(model.ShipSunkPayload)
	s.Equal([]model.Coordinate{{X: 0, Y: 0}}, payload.Ship.Cells)
}

func (s *CoordinatorSuite) TestShootPartialHitDoesNotSink() {
	s.setupRoom()
	s.Require().NoError(s.coordinator.PlaceShips(s.ctx, "conn-a", []model.Ship{
		{Cells: []model.Coordinate{{X: 0, Y: 0}, {X: 0, Y: 1}}},
	}))

	hit, err := s.coordinator.Shoot(s.ctx, "conn-b", model.Coordinate{X: 0, Y: 0})
	s.Require().NoError(err)
	s.True(hit)
	s.Empty(s.sender.byType("conn-a", model.EventOpponentShipSunk))
}

func (s *CoordinatorSuite) TestRepeatHitDoesNotReportSinkTwice() {
	s.setupRoom()
	s.Require().NoError(s.coordinator.PlaceShips(s.ctx, "conn-a", []model.Ship{
		{Cells: []model.Coordinate{{X: 0, Y: 0}}},
	}))

	hit, err := s.coordinator.Shoot(s.ctx, "conn-b", model.Coordinate{X: 0, Y: 0})
	s.Require().NoError(err)
	s.True(hit)

	// Re-hitting a struck cell still reports a hit, but sunk status
	// did not transition, so no second sink event goes out
	hit, err = s.coordinator.Shoot(s.ctx, "conn-b", model.Coordinate{X: 0, Y: 0})
	s.Require().NoError(err)
	s.True(hit)

	s.Len(s.sender.byType("conn-a", model.EventOpponentShipSunk), 1)
	s.Len(s.sender.byType("conn-a", model.EventReceiveShot), 2)
}

func (s *CoordinatorSuite) TestSinkingSecondShipDoesNotRereportFirst() {
	s.setupRoom()
	s.Require().NoError(s.coordinator.PlaceShips(s.ctx, "conn-a", []model.Ship{
		{Cells: []model.Coordinate{{X: 0, Y: 0}}},
		{Cells: []model.Coordinate{{X: 3, Y: 3}}},
	}))

	_, err := s.coordinator.Shoot(s.ctx, "conn-b", model.Coordinate{X: 0, Y: 0})
	s.Require().NoError(err)
	_, err = s.coordinator.Shoot(s.ctx, "conn-b", model.Coordinate{X: 3, Y: 3})
	s.Require().NoError(err)

	sunk := s.sender.byType("conn-a", model.EventOpponentShipSunk)
	s.Require().Len(sunk, 2)
	s.Equal([]model.Coordinate{{X: 0, Y: 0}}, sunk[0].Payload.(model.ShipSunkPayload).Ship.Cells)
	s.Equal([]model.Coordinate{{X: 3, Y: 3}}, sunk[1].Payload.(model.ShipSunkPayload).Ship.Cells)
}

func (s *CoordinatorSuite) TestShootWithoutOpponentBoard() {
	s.setupRoom()

	_, err := s.coordinator.Shoot(s.ctx, "conn-b", model.Coordinate{X: 0, Y: 0})
	s.ErrorIs(err, model.ErrBoardNotFound)
}

func (s *CoordinatorSuite) TestShootWithoutRoom() {
	s.Require().NoError(s.coordinator.Register(s.ctx, "conn-a", "alice"))

	_, err := s.coordinator.Shoot(s.ctx, "conn-a", model.Coordinate{X: 0, Y: 0})
	s.ErrorIs(err, model.ErrNotInRoom)
}

func (s *CoordinatorSuite) TestPlaceShipsReplacesBoard() {
	s.setupRoom()
	s.Require().NoError(s.coordinator.PlaceShips(s.ctx, "conn-a", []model.Ship{
		{Cells: []model.Coordinate{{X: 0, Y: 0}}},
	}))
	_, err := s.coordinator.Shoot(s.ctx, "conn-b", model.Coordinate{X: 0, Y: 0})
	s.Require().NoError(err)

	// Re-submission wipes the strike history
	s.Require().NoError(s.coordinator.PlaceShips(s.ctx, "conn-a", []model.Ship{
		{Cells: []model.Coordinate{{X: 0, Y: 0}}},
	}))

	board, err := s.storage.GetBoard(s.ctx, "conn-a")
	s.Require().NoError(err)
	s.False(board.Ships[0].IsSunk())
}

// Disconnect

func (s *CoordinatorSuite) TestDisconnectCleansUpEverything() {
	s.setupRoom()
	s.Require().NoError(s.coordinator.PlaceShips(s.ctx, "conn-a", []model.Ship{
		{Cells: []model.Coordinate{{X: 0, Y: 0}}},
	}))

	s.coordinator.Disconnect(s.ctx, "conn-a")

	// Room is gone because the owner disconnected
	rms, err := s.coordinator.Rooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(rms)

	// The evicted occupant was told
	s.Len(s.sender.byType("conn-b", model.EventRoomClosed), 1)

	// Name is free again and the board is gone
	s.Require().NoError(s.coordinator.Register(s.ctx, "conn-c", "alice"))
	_, err = s.storage.GetBoard(s.ctx, "conn-a")
	s.ErrorIs(err, model.ErrBoardNotFound)
}

func (s *CoordinatorSuite) TestDisconnectWithoutRegistration() {
	// Never panics or errors for an unknown connection
	s.coordinator.Disconnect(s.ctx, "ghost")
}

// Full scenario from the original game flow

func (s *CoordinatorSuite) TestTwoPlayerGameFlow() {
	s.Require().NoError(s.coordinator.Register(s.ctx, "conn-a", "alice"))
	s.Require().NoError(s.coordinator.CreateRoom(s.ctx, "conn-a", "r1"))

	s.Require().NoError(s.coordinator.Register(s.ctx, "conn-b", "bob"))
	s.Require().NoError(s.coordinator.JoinRoom(s.ctx, "conn-b", "r1"))

	s.Len(s.sender.byType("conn-a", model.EventRoomFull), 1)
	s.Len(s.sender.byType("conn-b", model.EventRoomFull), 1)

	s.Require().NoError(s.coordinator.PlaceShips(s.ctx, "conn-a", []model.Ship{
		{Cells: []model.Coordinate{{X: 0, Y: 0}}},
	}))

	hit, err := s.coordinator.Shoot(s.ctx, "conn-b", model.Coordinate{X: 0, Y: 0})
	s.Require().NoError(err)
	s.True(hit)
	s.Len(s.sender.byType("conn-a", model.EventReceiveShot), 1)
	s.Len(s.sender.byType("conn-a", model.EventOpponentShipSunk), 1)

	s.coordinator.Disconnect(s.ctx, "conn-a")

	rms, err := s.coordinator.Rooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(rms)
}
