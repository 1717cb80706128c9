package view

import (
	"sort"

	"github.com/beatguessr/beatguessr-go/internal/model"
)

// Service projects room state into role-filtered client views.
// Projection is pure: it never mutates the room.
type Service struct{}

// New creates a new view service
func New() *Service {
	return &Service{}
}

// Project derives the client view of a room. The host view includes the
// full current song; the player view must never carry the answer, so the
// song is only attached when forHost is set.
func (s *Service) Project(room *model.Room, forHost bool) *model.RoomView {
	v := &model.RoomView{
		RoomCode:    room.Code,
		MaxScore:    room.MaxScore,
		Players:     s.playerSummaries(room),
		RoundActive: room.RoundActive,
		BuzzQueue:   make([]model.BuzzerRef, 0, len(room.BuzzQueue)),
		GameStarted: room.GameStarted,
		GameEnded:   room.GameEnded,
		Winner:      room.Winner,
	}

	if room.CurrentBuzzer != "" {
		if p := room.GetPlayer(room.CurrentBuzzer); p != nil {
			v.CurrentBuzzer = &model.BuzzerRef{ID: room.CurrentBuzzer, Name: p.Name}
		}
	}

	for _, conn := range room.BuzzQueue {
		if p := room.GetPlayer(conn); p != nil {
			v.BuzzQueue = append(v.BuzzQueue, model.BuzzerRef{ID: conn, Name: p.Name})
		}
	}

	if forHost {
		v.CurrentSong = room.CurrentSong
	}

	return v
}

// playerSummaries returns players sorted by score descending. The base
// order is join order, so equal scores keep a deterministic, stable order
// instead of Go's random map iteration.
func (s *Service) playerSummaries(room *model.Room) []model.PlayerSummary {
	type entry struct {
		conn   model.ConnectionID
		player *model.Player
	}

	entries := make([]entry, 0, len(room.Players))
	for conn, p := range room.Players {
		entries = append(entries, entry{conn: conn, player: p})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].player, entries[j].player
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return entries[i].conn < entries[j].conn
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].player.Score > entries[j].player.Score
	})

	summaries := make([]model.PlayerSummary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, model.PlayerSummary{
			ID:          e.conn,
			Name:        e.player.Name,
			Score:       e.player.Score,
			IsLockedOut: room.IsLockedOut(e.conn),
			IsConnected: e.player.Connected,
		})
	}
	return summaries
}
