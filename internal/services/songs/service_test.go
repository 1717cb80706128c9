package songs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/beatguessr/beatguessr-go/internal/dependencies/mocks"
	"github.com/beatguessr/beatguessr-go/internal/model"
	"github.com/beatguessr/beatguessr-go/internal/storage/memory"
	"github.com/beatguessr/beatguessr-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.service = New(memory.New(), s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) catalog() []model.Song {
	return []model.Song{
		{ID: "song-0", Title: "Zero", Artist: "A", PreviewURL: "https://example.com/0.mp3"},
		{ID: "song-1", Title: "One", Artist: "B", PreviewURL: "https://example.com/1.mp3"},
		{ID: "song-2", Title: "Two", Artist: "C", PreviewURL: "https://example.com/2.mp3"},
	}
}

func (s *ServiceSuite) TestLoadFromFile() {
	path := filepath.Join(s.T().TempDir(), "songs.json")
	data := `{"songs":[
		{"id":"abc","title":"Song","artist":"Artist","year":1987,"preview_url":"https://example.com/a.mp3","cover_url":"https://example.com/a.jpg"}
	]}`
	s.Require().NoError(os.WriteFile(path, []byte(data), 0644))

	s.Require().NoError(s.service.LoadFromFile(s.ctx, path))

	count, err := s.service.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)

	song, err := s.service.Pick(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal("abc", song.ID)
	s.Equal(1987, song.Year)
	s.Equal("https://example.com/a.mp3", song.PreviewURL)
}

func (s *ServiceSuite) TestLoadFromMissingFileFails() {
	err := s.service.LoadFromFile(s.ctx, filepath.Join(s.T().TempDir(), "absent.json"))
	s.Error(err)
}

func (s *ServiceSuite) TestLoadFromMalformedFileFails() {
	path := filepath.Join(s.T().TempDir(), "songs.json")
	s.Require().NoError(os.WriteFile(path, []byte("not json"), 0644))

	s.Error(s.service.LoadFromFile(s.ctx, path))
}

func (s *ServiceSuite) TestCountBeforeLoadIsZero() {
	count, err := s.service.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *ServiceSuite) TestPickBeforeLoadFails() {
	_, err := s.service.Pick(s.ctx, nil)
	s.ErrorIs(err, model.ErrNoSongsAvailable)
}

func (s *ServiceSuite) TestPickUsesRandomIndex() {
	s.Require().NoError(s.service.LoadSongs(s.ctx, s.catalog()))
	s.random.QueueIntn(2)

	song, err := s.service.Pick(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal("song-2", song.ID)
}

func (s *ServiceSuite) TestPickSkipsExcluded() {
	s.Require().NoError(s.service.LoadSongs(s.ctx, s.catalog()))

	exclude := map[string]struct{}{"song-0": {}, "song-1": {}}
	song, err := s.service.Pick(s.ctx, exclude)
	s.Require().NoError(err)
	s.Equal("song-2", song.ID)
}

func (s *ServiceSuite) TestPickAllExcludedFails() {
	s.Require().NoError(s.service.LoadSongs(s.ctx, s.catalog()))

	exclude := map[string]struct{}{"song-0": {}, "song-1": {}, "song-2": {}}
	_, err := s.service.Pick(s.ctx, exclude)
	s.ErrorIs(err, model.ErrNoSongsAvailable)
}
