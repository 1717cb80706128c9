package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/beatguessr/beatguessr-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) newRoom(code model.RoomCode) *model.Room {
	return &model.Room{
		Code:          code,
		HostConn:      "conn-host",
		HostConnected: true,
		MaxScore:      10,
		Players:       make(map[model.ConnectionID]*model.Player),
		LockedOut:     make(map[model.ConnectionID]struct{}),
		UsedSongIDs:   make(map[string]struct{}),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := s.newRoom("ABC123")

	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	retrieved, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(room.Code, retrieved.Code)
	s.Equal(room.HostConn, retrieved.HostConn)
}

func (s *StorageSuite) TestGetRoomReturnsACopy() {
	room := s.newRoom("ABC123")
	room.Players["conn-1"] = &model.Player{Name: "alice", Connected: true}
	room.BuzzQueue = []model.ConnectionID{"conn-1"}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	retrieved, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	retrieved.Players["conn-2"] = &model.Player{Name: "bob"}
	retrieved.Players["conn-1"].Score = 99
	retrieved.BuzzQueue = append(retrieved.BuzzQueue, "conn-2")
	retrieved.LockedOut["conn-1"] = struct{}{}

	again, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Len(again.Players, 1)
	s.Equal(0, again.Players["conn-1"].Score)
	s.Equal([]model.ConnectionID{"conn-1"}, again.BuzzQueue)
	s.Empty(again.LockedOut)
}

func (s *StorageSuite) TestSaveRoomStoresACopy() {
	room := s.newRoom("ABC123")
	room.Players["conn-1"] = &model.Player{Name: "alice", Connected: true}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	room.Players["conn-1"].Connected = false
	delete(room.Players, "conn-1")

	retrieved, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Require().Contains(retrieved.Players, model.ConnectionID("conn-1"))
	s.True(retrieved.Players["conn-1"].Connected)
}

func (s *StorageSuite) TestGetMissingRoomFails() {
	_, err := s.storage.GetRoom(s.ctx, "NOPE42")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestDeleteRoom() {
	room := s.newRoom("ABC123")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "ABC123"))

	_, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestRoomExists() {
	exists, err := s.storage.RoomExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.newRoom("ABC123")))

	exists, err = s.storage.RoomExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestListRoomCodes() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.newRoom("AAA111")))
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.newRoom("BBB222")))

	codes, err := s.storage.ListRoomCodes(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]model.RoomCode{"AAA111", "BBB222"}, codes)
}

// Connection directory tests

func (s *StorageSuite) TestAttachAndLookupConnection() {
	s.Require().NoError(s.storage.AttachConnection(s.ctx, "conn-1", "ABC123"))

	code, err := s.storage.LookupConnection(s.ctx, "conn-1")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("ABC123"), code)
}

func (s *StorageSuite) TestLookupUnknownConnectionFails() {
	_, err := s.storage.LookupConnection(s.ctx, "conn-unknown")
	s.ErrorIs(err, model.ErrNotInRoom)
}

func (s *StorageSuite) TestDetachConnectionReturnsRoom() {
	s.Require().NoError(s.storage.AttachConnection(s.ctx, "conn-1", "ABC123"))

	code, err := s.storage.DetachConnection(s.ctx, "conn-1")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("ABC123"), code)

	_, err = s.storage.LookupConnection(s.ctx, "conn-1")
	s.ErrorIs(err, model.ErrNotInRoom)
}

func (s *StorageSuite) TestDetachUnknownConnectionFails() {
	_, err := s.storage.DetachConnection(s.ctx, "conn-unknown")
	s.ErrorIs(err, model.ErrNotInRoom)
}

func (s *StorageSuite) TestAttachOverwritesExistingMapping() {
	s.Require().NoError(s.storage.AttachConnection(s.ctx, "conn-1", "ABC123"))
	s.Require().NoError(s.storage.AttachConnection(s.ctx, "conn-1", "XYZ789"))

	code, err := s.storage.LookupConnection(s.ctx, "conn-1")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("XYZ789"), code)
}

// Song catalog tests

func (s *StorageSuite) TestGetSongsBeforeLoadFails() {
	_, err := s.storage.GetSongs(s.ctx)
	s.ErrorIs(err, model.ErrCatalogNotLoaded)
}

func (s *StorageSuite) TestSaveAndGetSongs() {
	catalog := []model.Song{
		{ID: "song-1", Title: "One", Artist: "A"},
		{ID: "song-2", Title: "Two", Artist: "B"},
	}
	s.Require().NoError(s.storage.SaveSongs(s.ctx, catalog))

	songs, err := s.storage.GetSongs(s.ctx)
	s.Require().NoError(err)
	s.Equal(catalog, songs)
}

func (s *StorageSuite) TestGetSongsReturnsCopy() {
	catalog := []model.Song{{ID: "song-1", Title: "One"}}
	s.Require().NoError(s.storage.SaveSongs(s.ctx, catalog))

	songs, _ := s.storage.GetSongs(s.ctx)
	songs[0].Title = "mutated"

	again, _ := s.storage.GetSongs(s.ctx)
	s.Equal("One", again[0].Title)
}
