package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
	ErrNotInRoom    = errors.New("connection is not in a room")
	ErrNotHost      = errors.New("only the host can perform this action")
	ErrNameTaken    = errors.New("name is already taken by a connected player")

	// Game state errors
	ErrGameEnded           = errors.New("game has already ended")
	ErrGameInProgress      = errors.New("game has already started")
	ErrInsufficientPlayers = errors.New("at least one connected player is required")

	// Host reattachment errors
	ErrHostAlreadyConnected = errors.New("host is already connected")

	// Song catalog errors
	ErrNoSongsAvailable = errors.New("no songs available")
	ErrCatalogNotLoaded = errors.New("song catalog not loaded")
)
