package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/beatguessr/beatguessr-go/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New()
}

func (s *ServiceSuite) buildRoom() *model.Room {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.Room{
		Code:          "ABC123",
		HostConn:      "conn-host",
		HostConnected: true,
		MaxScore:      10,
		Players: map[model.ConnectionID]*model.Player{
			"conn-1": {Name: "Alice", Score: 2, Connected: true, JoinedAt: base},
			"conn-2": {Name: "Bob", Score: 5, Connected: true, JoinedAt: base.Add(time.Second)},
			"conn-3": {Name: "Carol", Score: 2, Connected: false, JoinedAt: base.Add(2 * time.Second)},
		},
		CurrentSong: &model.Song{
			ID:         "song-1",
			Title:      "Secret Title",
			Artist:     "Secret Artist",
			PreviewURL: "https://example.com/1.mp3",
		},
		RoundActive:   true,
		BuzzQueue:     []model.ConnectionID{"conn-2", "conn-1"},
		CurrentBuzzer: "conn-2",
		LockedOut:     map[model.ConnectionID]struct{}{"conn-3": {}},
		GameStarted:   true,
	}
}

func (s *ServiceSuite) TestHostViewIncludesSong() {
	room := s.buildRoom()

	v := s.service.Project(room, true)

	s.Require().NotNil(v.CurrentSong)
	s.Equal("Secret Title", v.CurrentSong.Title)
}

func (s *ServiceSuite) TestPlayerViewOmitsSong() {
	room := s.buildRoom()

	v := s.service.Project(room, false)

	s.Nil(v.CurrentSong)
}

func (s *ServiceSuite) TestPlayersSortedByScoreThenJoinOrder() {
	room := s.buildRoom()

	v := s.service.Project(room, false)

	s.Require().Len(v.Players, 3)
	s.Equal("Bob", v.Players[0].Name)
	// Alice and Carol both have 2 points; Alice joined first
	s.Equal("Alice", v.Players[1].Name)
	s.Equal("Carol", v.Players[2].Name)
}

func (s *ServiceSuite) TestPlayerFlagsCarryThrough() {
	room := s.buildRoom()

	v := s.service.Project(room, false)

	byName := make(map[string]model.PlayerSummary)
	for _, p := range v.Players {
		byName[p.Name] = p
	}

	s.True(byName["Alice"].IsConnected)
	s.False(byName["Alice"].IsLockedOut)
	s.False(byName["Carol"].IsConnected)
	s.True(byName["Carol"].IsLockedOut)
}

func (s *ServiceSuite) TestBuzzQueuePreservesOrder() {
	room := s.buildRoom()

	v := s.service.Project(room, false)

	s.Require().Len(v.BuzzQueue, 2)
	s.Equal("Bob", v.BuzzQueue[0].Name)
	s.Equal("Alice", v.BuzzQueue[1].Name)
	s.Require().NotNil(v.CurrentBuzzer)
	s.Equal("Bob", v.CurrentBuzzer.Name)
}

func (s *ServiceSuite) TestProjectionDoesNotMutateRoom() {
	room := s.buildRoom()

	v := s.service.Project(room, false)
	v.Players[0].Score = 99
	v.BuzzQueue = nil

	s.Equal(5, room.Players["conn-2"].Score)
	s.Len(room.BuzzQueue, 2)
}

func (s *ServiceSuite) TestEndedGameCarriesWinner() {
	room := s.buildRoom()
	room.GameEnded = true
	room.Winner = "Bob"
	room.RoundActive = false

	v := s.service.Project(room, false)

	s.True(v.GameEnded)
	s.Equal("Bob", v.Winner)
	s.False(v.RoundActive)
}
