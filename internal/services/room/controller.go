package room

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/beatguessr/beatguessr-go/internal/dependencies/clock"
	"github.com/beatguessr/beatguessr-go/internal/dependencies/random"
	"github.com/beatguessr/beatguessr-go/internal/model"
	"github.com/beatguessr/beatguessr-go/internal/services/songs"
	"github.com/beatguessr/beatguessr-go/internal/storage"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 6
	// RoomCodeAlphabet is the characters used in room codes
	RoomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Controller manages the per-room state machine. Every mutation of a room
// runs under that room's lock: this is the single serialization point that
// makes concurrent buzzes resolve to a strict arrival order.
type Controller struct {
	storage storage.Storage
	songs   *songs.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[model.RoomCode]*sync.Mutex
}

// NewController creates a new room controller
func NewController(
	store storage.Storage,
	songService *songs.Service,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: store,
		songs:   songService,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "room")),
		locks:   make(map[model.RoomCode]*sync.Mutex),
	}
}

// roomLock returns the mutex serializing operations on one room.
// Locks are never reclaimed; a stale entry is a single idle mutex.
func (c *Controller) roomLock(code model.RoomCode) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[code]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[code] = lock
	}
	return lock
}

// withRoom runs fn on the room under its lock and persists the result.
// fn must not block on anything outside the room. Connection directory
// updates belong inside fn: a join's attach and a disconnect's detach must
// be atomic with the room mutation they accompany, or the directory and the
// player's Connected flag can disagree.
func (c *Controller) withRoom(ctx context.Context, code model.RoomCode, fn func(*model.Room) error) (*model.Room, error) {
	lock := c.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := fn(room); err != nil {
		return nil, err
	}

	room.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// requireHost verifies the operation comes from the room's host connection
func requireHost(room *model.Room, conn model.ConnectionID) error {
	if room.HostConn != conn {
		return model.ErrNotHost
	}
	return nil
}

// CreateRoom opens a new room with the given connection as host.
// The code is drawn by rejection sampling until an unused one is found.
func (c *Controller) CreateRoom(ctx context.Context, hostConn model.ConnectionID, maxScore int) (*model.Room, error) {
	if maxScore <= 0 {
		maxScore = model.DefaultMaxScore
	}

	var code model.RoomCode
	for {
		code = model.RoomCode(c.random.String(RoomCodeLength, RoomCodeAlphabet))
		exists, err := c.storage.RoomExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	now := c.clock.Now()
	room := &model.Room{
		Code:          code,
		HostConn:      hostConn,
		HostConnected: true,
		MaxScore:      maxScore,
		Players:       make(map[model.ConnectionID]*model.Player),
		LockedOut:     make(map[model.ConnectionID]struct{}),
		UsedSongIDs:   make(map[string]struct{}),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	lock := c.roomLock(code)
	lock.Lock()
	err := c.storage.SaveRoom(ctx, room)
	if err == nil {
		err = c.storage.AttachConnection(ctx, hostConn, code)
	}
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room", string(code)),
		slog.Int("max_score", maxScore))
	return room, nil
}

// Get retrieves a room by code
func (c *Controller) Get(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return c.storage.GetRoom(ctx, code)
}

// Lookup resolves the room a connection is currently attached to
func (c *Controller) Lookup(ctx context.Context, conn model.ConnectionID) (model.RoomCode, error) {
	return c.storage.LookupConnection(ctx, conn)
}

// JoinResult reports the outcome of a join
type JoinResult struct {
	Room       *model.Room
	PlayerName string
	Rejoined   bool
}

// Join adds a player to a room, or revives a disconnected player with the
// same name. A rejoin substitutes the new connection identity everywhere the
// old one appeared, so score, queue position and lockout survive intact.
func (c *Controller) Join(ctx context.Context, code model.RoomCode, conn model.ConnectionID, name string) (*JoinResult, error) {
	result := &JoinResult{PlayerName: name}

	room, err := c.withRoom(ctx, code, func(room *model.Room) error {
		if room.GameEnded {
			return model.ErrGameEnded
		}

		if ghost, ok := room.FindDisconnectedByName(name); ok {
			room.SubstituteConnection(ghost, conn)
			room.Players[conn].Connected = true
			result.PlayerName = room.Players[conn].Name
			result.Rejoined = true
			return c.storage.AttachConnection(ctx, conn, code)
		}

		for _, p := range room.Players {
			if p.Connected && strings.EqualFold(p.Name, name) {
				return model.ErrNameTaken
			}
		}
		if room.ConnectedPlayerCount() >= model.MaxPlayers {
			return model.ErrRoomFull
		}

		room.Players[conn] = &model.Player{
			Name:      name,
			Score:     0,
			Connected: true,
			JoinedAt:  c.clock.Now(),
		}
		return c.storage.AttachConnection(ctx, conn, code)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("room", string(code)),
		slog.String("player", result.PlayerName),
		slog.Bool("rejoined", result.Rejoined))
	result.Room = room
	return result, nil
}

// LeaveResult reports the outcome of an explicit leave
type LeaveResult struct {
	Room       *model.Room
	PlayerName string
}

// Leave removes a player outright. Unlike a disconnect, no ghost entry is
// kept, so the name cannot be used to rejoin.
func (c *Controller) Leave(ctx context.Context, code model.RoomCode, conn model.ConnectionID) (*LeaveResult, error) {
	result := &LeaveResult{}

	room, err := c.withRoom(ctx, code, func(room *model.Room) error {
		p := room.GetPlayer(conn)
		if p == nil {
			return model.ErrNotInRoom
		}
		result.PlayerName = p.Name
		delete(room.Players, conn)
		room.RemoveFromQueue(conn)
		delete(room.LockedOut, conn)
		if room.CurrentBuzzer == conn {
			room.CurrentBuzzer = ""
			if len(room.BuzzQueue) > 0 {
				room.CurrentBuzzer = room.BuzzQueue[0]
			}
		}
		if _, err := c.storage.DetachConnection(ctx, conn); err != nil && !errors.Is(err, model.ErrNotInRoom) {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("player left",
		slog.String("room", string(code)),
		slog.String("player", result.PlayerName))
	result.Room = room
	return result, nil
}

// DisconnectResult reports the outcome of a transport-level disconnect
type DisconnectResult struct {
	Room    *model.Room
	WasHost bool
}

// Disconnect handles a dropped connection. The room is retained either way:
// a host may reattach via HostRejoin, a player via rejoin-by-name. Returns
// nil without error when the connection was not attached to a live room.
func (c *Controller) Disconnect(ctx context.Context, conn model.ConnectionID) (*DisconnectResult, error) {
	code, err := c.storage.LookupConnection(ctx, conn)
	if err != nil {
		if errors.Is(err, model.ErrNotInRoom) {
			return nil, nil
		}
		return nil, err
	}

	result := &DisconnectResult{}
	room, err := c.withRoom(ctx, code, func(room *model.Room) error {
		if _, err := c.storage.DetachConnection(ctx, conn); err != nil && !errors.Is(err, model.ErrNotInRoom) {
			return err
		}
		if room.HostConn == conn {
			room.HostConnected = false
			result.WasHost = true
			return nil
		}
		if p := room.GetPlayer(conn); p != nil {
			p.Connected = false
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			// Stale directory entry; the room is already gone
			if _, detachErr := c.storage.DetachConnection(ctx, conn); detachErr != nil && !errors.Is(detachErr, model.ErrNotInRoom) {
				return nil, detachErr
			}
			return nil, nil
		}
		return nil, err
	}

	c.logger.Info("connection dropped",
		slog.String("room", string(code)),
		slog.Bool("was_host", result.WasHost))
	result.Room = room
	return result, nil
}

// HostRejoin reattaches a returning host to their room. Only permitted
// while the previous host connection is gone.
func (c *Controller) HostRejoin(ctx context.Context, code model.RoomCode, conn model.ConnectionID) (*model.Room, error) {
	room, err := c.withRoom(ctx, code, func(room *model.Room) error {
		if room.HostConnected {
			return model.ErrHostAlreadyConnected
		}
		room.HostConn = conn
		room.HostConnected = true
		return c.storage.AttachConnection(ctx, conn, code)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("host rejoined", slog.String("room", string(code)))
	return room, nil
}

// StartGame moves the room from lobby to playing. Host-only; a second call
// fails with ErrGameInProgress.
func (c *Controller) StartGame(ctx context.Context, code model.RoomCode, conn model.ConnectionID) (*model.Room, error) {
	return c.withRoom(ctx, code, func(room *model.Room) error {
		if err := requireHost(room, conn); err != nil {
			return err
		}
		if room.GameEnded {
			return model.ErrGameEnded
		}
		if room.GameStarted {
			return model.ErrGameInProgress
		}
		if room.ConnectedPlayerCount() < 1 {
			return model.ErrInsufficientPlayers
		}
		room.GameStarted = true
		return nil
	})
}

// RoundResult reports a started round and its drawn song
type RoundResult struct {
	Room *model.Room
	Song *model.Song
}

// StartRound draws an unused song and opens buzzing. When the pool is
// exhausted the used set is cleared and the draw retried against the full
// catalog; only an empty catalog fails.
func (c *Controller) StartRound(ctx context.Context, code model.RoomCode, conn model.ConnectionID) (*RoundResult, error) {
	result := &RoundResult{}

	room, err := c.withRoom(ctx, code, func(room *model.Room) error {
		if err := requireHost(room, conn); err != nil {
			return err
		}
		if room.GameEnded {
			return model.ErrGameEnded
		}

		song, err := c.songs.Pick(ctx, room.UsedSongIDs)
		if errors.Is(err, model.ErrNoSongsAvailable) && len(room.UsedSongIDs) > 0 {
			room.UsedSongIDs = make(map[string]struct{})
			song, err = c.songs.Pick(ctx, room.UsedSongIDs)
		}
		if err != nil {
			return err
		}

		room.UsedSongIDs[song.ID] = struct{}{}
		room.CurrentSong = song
		room.RoundActive = true
		room.BuzzQueue = nil
		room.CurrentBuzzer = ""
		room.LockedOut = make(map[model.ConnectionID]struct{})
		result.Song = song
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("round started",
		slog.String("room", string(code)),
		slog.String("song", result.Song.ID))
	result.Room = room
	return result, nil
}

// BuzzResult reports the outcome of a buzz. Changed is false for the
// defined no-op cases: inactive round, non-member, duplicate, locked out.
type BuzzResult struct {
	Room       *model.Room
	Changed    bool
	PlayerName string
	Position   int
}

// Buzz appends the connection to the buzz queue. The first arrival at the
// room lock wins the head slot; duplicates and locked-out buzzes change
// nothing and are not errors.
func (c *Controller) Buzz(ctx context.Context, code model.RoomCode, conn model.ConnectionID) (*BuzzResult, error) {
	result := &BuzzResult{}

	room, err := c.withRoom(ctx, code, func(room *model.Room) error {
		if !room.RoundActive {
			return nil
		}
		p := room.GetPlayer(conn)
		if p == nil {
			return nil
		}
		if room.InBuzzQueue(conn) || room.IsLockedOut(conn) {
			return nil
		}

		room.BuzzQueue = append(room.BuzzQueue, conn)
		if room.CurrentBuzzer == "" {
			room.CurrentBuzzer = conn
		}
		result.Changed = true
		result.PlayerName = p.Name
		result.Position = len(room.BuzzQueue)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Room = room
	return result, nil
}

// JudgeResult reports the outcome of a judgment. Judged is false when there
// was no current buzzer to judge (a defined no-op).
type JudgeResult struct {
	Room    *model.Room
	Judged  bool
	Payload model.JudgeResultPayload
}

// Judge records the host's verdict on the current buzzer. One point per
// correct flag; any points end the round, zero points lock the player out
// and advance the queue. The game ends when the scorer reaches MaxScore.
func (c *Controller) Judge(ctx context.Context, code model.RoomCode, conn model.ConnectionID, correctArtist, correctTitle bool) (*JudgeResult, error) {
	result := &JudgeResult{}

	room, err := c.withRoom(ctx, code, func(room *model.Room) error {
		if err := requireHost(room, conn); err != nil {
			return err
		}
		if room.CurrentBuzzer == "" {
			return nil
		}
		buzzer := room.GetPlayer(room.CurrentBuzzer)
		if buzzer == nil {
			return nil
		}

		points := 0
		if correctArtist {
			points++
		}
		if correctTitle {
			points++
		}

		result.Judged = true
		result.Payload = model.JudgeResultPayload{
			PlayerID:      room.CurrentBuzzer,
			PlayerName:    buzzer.Name,
			CorrectArtist: correctArtist,
			CorrectTitle:  correctTitle,
			Points:        points,
		}

		if points > 0 {
			buzzer.Score += points
			room.RoundActive = false
			room.CurrentBuzzer = ""
			result.Payload.RoundEnded = true
			result.Payload.Song = room.CurrentSong

			if buzzer.Score >= room.MaxScore {
				room.GameEnded = true
				room.Winner = buzzer.Name
				result.Payload.GameEnded = true
				result.Payload.Winner = buzzer.Name
			}
			return nil
		}

		// Wrong answer: lock out and hand the floor to the next buzzer
		judged := room.CurrentBuzzer
		room.LockedOut[judged] = struct{}{}
		room.RemoveFromQueue(judged)
		room.CurrentBuzzer = ""
		if len(room.BuzzQueue) > 0 {
			room.CurrentBuzzer = room.BuzzQueue[0]
		}
		result.Payload.LockedOut = true

		if room.AllConnectedLockedOut() {
			room.RoundActive = false
			result.Payload.RoundEnded = true
			result.Payload.AllLockedOut = true
			result.Payload.Song = room.CurrentSong
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Judged {
		c.logger.Info("answer judged",
			slog.String("room", string(code)),
			slog.String("player", result.Payload.PlayerName),
			slog.Int("points", result.Payload.Points))
	}
	result.Room = room
	return result, nil
}

// SkipResult reports a skipped round and the song it reveals
type SkipResult struct {
	Room *model.Room
	Song *model.Song
}

// SkipRound ends the round without a scorer. The lockout set and current
// song are left in place for display.
func (c *Controller) SkipRound(ctx context.Context, code model.RoomCode, conn model.ConnectionID) (*SkipResult, error) {
	result := &SkipResult{}

	room, err := c.withRoom(ctx, code, func(room *model.Room) error {
		if err := requireHost(room, conn); err != nil {
			return err
		}
		room.RoundActive = false
		room.CurrentBuzzer = ""
		room.BuzzQueue = nil
		result.Song = room.CurrentSong
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("round skipped", slog.String("room", string(code)))
	result.Room = room
	return result, nil
}

// EndGame ends the game explicitly. The winner is the player with the
// highest score; ties resolve to the earliest joiner.
func (c *Controller) EndGame(ctx context.Context, code model.RoomCode, conn model.ConnectionID) (*model.Room, error) {
	room, err := c.withRoom(ctx, code, func(room *model.Room) error {
		if err := requireHost(room, conn); err != nil {
			return err
		}
		room.GameEnded = true
		room.RoundActive = false

		var winner *model.Player
		for _, p := range room.Players {
			if winner == nil ||
				p.Score > winner.Score ||
				(p.Score == winner.Score && p.JoinedAt.Before(winner.JoinedAt)) {
				winner = p
			}
		}
		if winner != nil {
			room.Winner = winner.Name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("game ended",
		slog.String("room", string(code)),
		slog.String("winner", room.Winner))
	return room, nil
}

// EvictIdle deletes rooms whose last activity predates the cutoff. Each
// room is checked and removed under its own lock so an eviction can never
// race an in-flight operation.
func (c *Controller) EvictIdle(ctx context.Context, cutoff time.Time) ([]model.RoomCode, error) {
	codes, err := c.storage.ListRoomCodes(ctx)
	if err != nil {
		return nil, err
	}

	var evicted []model.RoomCode
	for _, code := range codes {
		lock := c.roomLock(code)
		lock.Lock()
		room, err := c.storage.GetRoom(ctx, code)
		if err != nil {
			lock.Unlock()
			if errors.Is(err, model.ErrRoomNotFound) {
				continue
			}
			return evicted, err
		}
		if room.UpdatedAt.Before(cutoff) {
			if err := c.storage.DeleteRoom(ctx, code); err != nil {
				lock.Unlock()
				return evicted, err
			}
			evicted = append(evicted, code)
		}
		lock.Unlock()
	}
	return evicted, nil
}
