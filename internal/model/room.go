package model

import (
	"strings"
	"time"
)

// RoomCode is the human-readable identifier for joining rooms
type RoomCode string

// ConnectionID identifies a single websocket connection
type ConnectionID string

// MaxPlayers is the hard cap on players per room
const MaxPlayers = 8

// DefaultMaxScore is the target score when none is given at creation
const DefaultMaxScore = 10

// Song is one entry from the scraped catalog. Field names follow the
// catalog JSON produced by the scraper.
type Song struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Year       int    `json:"year"`
	PreviewURL string `json:"preview_url"`
	CoverURL   string `json:"cover_url"`
}

// SongPreview is the player-facing slice of a song: enough to play audio,
// never enough to reveal the answer.
type SongPreview struct {
	PreviewURL string `json:"preview_url"`
}

// Player is one occupant of a room
type Player struct {
	Name      string
	Score     int
	Connected bool
	JoinedAt  time.Time
}

// Room is one isolated game instance
type Room struct {
	Code          RoomCode
	HostConn      ConnectionID
	HostConnected bool
	MaxScore      int
	Players       map[ConnectionID]*Player
	CurrentSong   *Song
	RoundActive   bool
	BuzzQueue     []ConnectionID
	CurrentBuzzer ConnectionID // empty when nobody holds the floor
	LockedOut     map[ConnectionID]struct{}
	UsedSongIDs   map[string]struct{}
	GameStarted   bool
	GameEnded     bool
	Winner        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GetPlayer returns the player for a connection, or nil
func (r *Room) GetPlayer(conn ConnectionID) *Player {
	return r.Players[conn]
}

// ConnectedPlayerCount counts players currently connected
func (r *Room) ConnectedPlayerCount() int {
	n := 0
	for _, p := range r.Players {
		if p.Connected {
			n++
		}
	}
	return n
}

// ConnectedPlayerConns returns the connection IDs of all connected players
func (r *Room) ConnectedPlayerConns() []ConnectionID {
	conns := make([]ConnectionID, 0, len(r.Players))
	for conn, p := range r.Players {
		if p.Connected {
			conns = append(conns, conn)
		}
	}
	return conns
}

// FindDisconnectedByName returns the connection ID of a disconnected player
// whose name matches case-insensitively, enabling rejoin-by-name.
func (r *Room) FindDisconnectedByName(name string) (ConnectionID, bool) {
	for conn, p := range r.Players {
		if !p.Connected && strings.EqualFold(p.Name, name) {
			return conn, true
		}
	}
	return "", false
}

// InBuzzQueue reports whether a connection has already buzzed this round
func (r *Room) InBuzzQueue(conn ConnectionID) bool {
	for _, c := range r.BuzzQueue {
		if c == conn {
			return true
		}
	}
	return false
}

// IsLockedOut reports whether a connection is barred from buzzing this round
func (r *Room) IsLockedOut(conn ConnectionID) bool {
	_, ok := r.LockedOut[conn]
	return ok
}

// AllConnectedLockedOut reports whether every currently-connected player is
// in the lockout set. When true during an active round, the round cannot
// produce a scorer.
func (r *Room) AllConnectedLockedOut() bool {
	for conn, p := range r.Players {
		if p.Connected && !r.IsLockedOut(conn) {
			return false
		}
	}
	return true
}

// SubstituteConnection rewrites every occurrence of old with replacement:
// players map, buzz queue, current buzzer and lockout set. Used for
// rejoin-by-name, which must preserve mid-round standing exactly.
func (r *Room) SubstituteConnection(old, replacement ConnectionID) {
	if p, ok := r.Players[old]; ok {
		delete(r.Players, old)
		r.Players[replacement] = p
	}
	for i, c := range r.BuzzQueue {
		if c == old {
			r.BuzzQueue[i] = replacement
		}
	}
	if r.CurrentBuzzer == old {
		r.CurrentBuzzer = replacement
	}
	if _, ok := r.LockedOut[old]; ok {
		delete(r.LockedOut, old)
		r.LockedOut[replacement] = struct{}{}
	}
}

// Clone returns a deep copy of the room. Storage backends hand out copies,
// so a reader never shares Players, BuzzQueue or the lockout set with an
// in-flight mutation.
func (r *Room) Clone() *Room {
	c := *r
	c.Players = make(map[ConnectionID]*Player, len(r.Players))
	for conn, p := range r.Players {
		player := *p
		c.Players[conn] = &player
	}
	if r.BuzzQueue != nil {
		c.BuzzQueue = append([]ConnectionID(nil), r.BuzzQueue...)
	}
	c.LockedOut = make(map[ConnectionID]struct{}, len(r.LockedOut))
	for conn := range r.LockedOut {
		c.LockedOut[conn] = struct{}{}
	}
	c.UsedSongIDs = make(map[string]struct{}, len(r.UsedSongIDs))
	for id := range r.UsedSongIDs {
		c.UsedSongIDs[id] = struct{}{}
	}
	if r.CurrentSong != nil {
		song := *r.CurrentSong
		c.CurrentSong = &song
	}
	return &c
}

// RemoveFromQueue deletes a connection from the buzz queue, preserving order
func (r *Room) RemoveFromQueue(conn ConnectionID) {
	dst := r.BuzzQueue[:0]
	for _, c := range r.BuzzQueue {
		if c != conn {
			dst = append(dst, c)
		}
	}
	r.BuzzQueue = dst
}
