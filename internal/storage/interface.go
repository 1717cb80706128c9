package storage

import (
	"context"

	"github.com/beatguessr/beatguessr-go/internal/model"
)

// Storage defines the interface for room, connection-directory and song
// catalog persistence. Room state is ephemeral game state; backends are not
// expected to survive it across deployments.
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)
	ListRoomCodes(ctx context.Context) ([]model.RoomCode, error)

	// Connection directory operations. A connection maps to at most one
	// room; attaching again overwrites the previous mapping.
	AttachConnection(ctx context.Context, conn model.ConnectionID, code model.RoomCode) error
	DetachConnection(ctx context.Context, conn model.ConnectionID) (model.RoomCode, error)
	LookupConnection(ctx context.Context, conn model.ConnectionID) (model.RoomCode, error)

	// Song catalog operations
	SaveSongs(ctx context.Context, songs []model.Song) error
	GetSongs(ctx context.Context) ([]model.Song, error)
}
