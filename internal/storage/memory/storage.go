package memory

import (
	"context"
	"sync"

	"github.com/beatguessr/beatguessr-go/internal/model"
	"github.com/beatguessr/beatguessr-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	rooms       map[model.RoomCode]*model.Room
	connections map[model.ConnectionID]model.RoomCode
	songs       []model.Song
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:       make(map[model.RoomCode]*model.Room),
		connections: make(map[model.ConnectionID]model.RoomCode),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations. Rooms are stored and returned as deep copies, matching
// the value semantics of the redis backend's JSON round-trip: a caller can
// read its room freely while another operation mutates the same code.

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = room.Clone()
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok, nil
}

func (s *Storage) ListRoomCodes(ctx context.Context) ([]model.RoomCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]model.RoomCode, 0, len(s.rooms))
	for code := range s.rooms {
		codes = append(codes, code)
	}
	return codes, nil
}

// Connection directory operations

func (s *Storage) AttachConnection(ctx context.Context, conn model.ConnectionID, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[conn] = code
	return nil
}

func (s *Storage) DetachConnection(ctx context.Context, conn model.ConnectionID) (model.RoomCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.connections[conn]
	if !ok {
		return "", model.ErrNotInRoom
	}
	delete(s.connections, conn)
	return code, nil
}

func (s *Storage) LookupConnection(ctx context.Context, conn model.ConnectionID) (model.RoomCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.connections[conn]
	if !ok {
		return "", model.ErrNotInRoom
	}
	return code, nil
}

// Song catalog operations

func (s *Storage) SaveSongs(ctx context.Context, songs []model.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.songs = make([]model.Song, len(songs))
	copy(s.songs, songs)
	return nil
}

func (s *Storage) GetSongs(ctx context.Context) ([]model.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.songs == nil {
		return nil, model.ErrCatalogNotLoaded
	}
	result := make([]model.Song, len(s.songs))
	copy(result, s.songs)
	return result, nil
}
