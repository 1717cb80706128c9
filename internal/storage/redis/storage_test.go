package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/beatguessr/beatguessr-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.RoomTTL = time.Hour
	cfg.ConnectionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *StorageSuite) newRoom(code model.RoomCode) *model.Room {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.Room{
		Code:          code,
		HostConn:      "conn-host",
		HostConnected: true,
		MaxScore:      10,
		Players: map[model.ConnectionID]*model.Player{
			"conn-1": {Name: "Alice", Score: 3, Connected: true, JoinedAt: now},
		},
		BuzzQueue:     []model.ConnectionID{"conn-1"},
		CurrentBuzzer: "conn-1",
		LockedOut:     map[model.ConnectionID]struct{}{},
		UsedSongIDs:   map[string]struct{}{"song-1": {}},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoomRoundTrips() {
	room := s.newRoom("ABC123")

	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	retrieved, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(room.Code, retrieved.Code)
	s.Equal(room.BuzzQueue, retrieved.BuzzQueue)
	s.Equal(room.CurrentBuzzer, retrieved.CurrentBuzzer)
	s.Require().NotNil(retrieved.GetPlayer("conn-1"))
	s.Equal(3, retrieved.GetPlayer("conn-1").Score)
	s.Contains(retrieved.UsedSongIDs, "song-1")
}

func (s *StorageSuite) TestGetMissingRoomFails() {
	_, err := s.storage.GetRoom(s.ctx, "NOPE42")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestDeleteRoom() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.newRoom("ABC123")))

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

func (s *StorageSuite) TestRoomExpiresAfterTTL() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.newRoom("ABC123")))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// Connection directory tests

func (s *StorageSuite) TestAttachAndLookupConnection() {
	s.Require().NoError(s.storage.AttachConnection(s.ctx, "conn-1", "ABC123"))

	code, err := s.storage.LookupConnection(s.ctx, "conn-1")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("ABC123"), code)
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

// Song catalog tests

func (s *StorageSuite) TestGetSongsBeforeLoadFails() {
	_, err := s.storage.GetSongs(s.ctx)
	s.ErrorIs(err, model.ErrCatalogNotLoaded)
}

func (s *StorageSuite) TestSaveAndGetSongs() {
	catalog := []model.Song{
		{ID: "song-1", Title: "One", Artist: "A", Year: 1991, PreviewURL: "https://example.com/1.mp3"},
		{ID: "song-2", Title: "Two", Artist: "B", Year: 1992, PreviewURL: "https://example.com/2.mp3"},
	}
	s.Require().NoError(s.storage.SaveSongs(s.ctx, catalog))

	songs, err := s.storage.GetSongs(s.ctx)
	s.Require().NoError(err)
	s.Equal(catalog, songs)
}

func (s *StorageSuite) TestSongCatalogSurvivesTTLWindow() {
	s.Require().NoError(s.storage.SaveSongs(s.ctx, []model.Song{{ID: "song-1"}}))

	s.mini.FastForward(48 * time.Hour)

	songs, err := s.storage.GetSongs(s.ctx)
	s.Require().NoError(err)
	s.Len(songs, 1)
}
