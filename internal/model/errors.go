package model

import "errors"

// Common errors used across the application
var (
	// Registry errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrEmptyName      = errors.New("display name is empty")
	ErrNameTaken      = errors.New("display name already in use")

	// Room errors
	ErrRoomExists   = errors.New("room already exists")
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room already has two players")
	ErrNotInRoom    = errors.New("player is not in a room")
	ErrNoOpponent   = errors.New("no opponent in the room")

	// Board errors
	ErrBoardNotFound = errors.New("board not found")
)
