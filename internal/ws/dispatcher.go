package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/beatguessr/beatguessr-go/internal/model"
	"github.com/beatguessr/beatguessr-go/internal/services/room"
	"github.com/beatguessr/beatguessr-go/internal/services/view"
)

// Dispatcher decodes inbound envelopes into typed commands, applies them to
// the room state machine, and fans the resulting events back out. Errors
// are always scoped to the originating connection; room-wide traffic only
// follows actual state changes.
type Dispatcher struct {
	rooms  *room.Controller
	views  *view.Service
	hub    *Hub
	logger *slog.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(rooms *room.Controller, views *view.Service, hub *Hub, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		rooms:  rooms,
		views:  views,
		hub:    hub,
		logger: logger.With(slog.String("component", "dispatch")),
	}
}

// HandleMessage processes one inbound frame from a connection
func (d *Dispatcher) HandleMessage(ctx context.Context, conn model.ConnectionID, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		d.sendErrorMessage(conn, "invalid message")
		return
	}

	switch env.Event {
	case model.CommandCreateRoom:
		d.handleCreateRoom(ctx, conn, env.Data)
	case model.CommandJoinRoom:
		d.handleJoinRoom(ctx, conn, env.Data)
	case model.CommandLeaveRoom:
		d.handleLeaveRoom(ctx, conn)
	case model.CommandStartGame:
		d.handleStartGame(ctx, conn)
	case model.CommandStartRound:
		d.handleStartRound(ctx, conn)
	case model.CommandBuzz:
		d.handleBuzz(ctx, conn)
	case model.CommandJudge:
		d.handleJudge(ctx, conn, env.Data)
	case model.CommandSkipRound:
		d.handleSkipRound(ctx, conn)
	case model.CommandEndGame:
		d.handleEndGame(ctx, conn)
	case model.CommandHostRejoin:
		d.handleHostRejoin(ctx, conn, env.Data)
	case model.CommandGetRoomState:
		d.handleGetRoomState(ctx, conn)
	default:
		d.sendErrorMessage(conn, "unknown event")
	}
}

// HandleDisconnect processes a transport-level disconnect. A host drop
// notifies the room but keeps it alive for rejoin; a player drop leaves a
// ghost entry behind for rejoin-by-name.
func (d *Dispatcher) HandleDisconnect(ctx context.Context, conn model.ConnectionID) {
	result, err := d.rooms.Disconnect(ctx, conn)
	if err != nil {
		d.logger.Error("disconnect handling failed",
			slog.String("conn_id", string(conn)),
			slog.Any("error", err))
		return
	}
	if result == nil {
		return
	}

	if result.WasHost {
		d.hub.SendToAll(result.Room.ConnectedPlayerConns(), model.EventHostDisconnected, struct{}{})
		return
	}
	d.broadcastState(result.Room)
}

func (d *Dispatcher) handleCreateRoom(ctx context.Context, conn model.ConnectionID, data json.RawMessage) {
	var cmd model.CreateRoomCommand
	if !d.decode(conn, data, &cmd) {
		return
	}

	r, err := d.rooms.CreateRoom(ctx, conn, cmd.MaxScore)
	if err != nil {
		d.sendError(conn, err)
		return
	}

	d.hub.SendTo(conn, model.EventRoomCreated, model.RoomCreatedPayload{
		RoomCode: r.Code,
		MaxScore: r.MaxScore,
	})
}

func (d *Dispatcher) handleJoinRoom(ctx context.Context, conn model.ConnectionID, data json.RawMessage) {
	var cmd model.JoinRoomCommand
	if !d.decode(conn, data, &cmd) {
		return
	}

	code := model.RoomCode(strings.ToUpper(strings.TrimSpace(cmd.RoomCode)))
	name := strings.TrimSpace(cmd.PlayerName)
	if code == "" || name == "" {
		d.sendErrorMessage(conn, "room code and player name are required")
		return
	}

	result, err := d.rooms.Join(ctx, code, conn, name)
	if err != nil {
		d.sendError(conn, err)
		return
	}

	d.hub.SendTo(conn, model.EventJoinedRoom, model.JoinedRoomPayload{
		RoomCode:    result.Room.Code,
		PlayerName:  result.PlayerName,
		GameStarted: result.Room.GameStarted,
	})
	d.hub.SendToAll(d.roomConns(result.Room), model.EventPlayerJoined, model.PlayerJoinedPayload{
		Name: result.PlayerName,
	})
	d.broadcastState(result.Room)
}

func (d *Dispatcher) handleLeaveRoom(ctx context.Context, conn model.ConnectionID) {
	code, ok := d.resolveRoom(ctx, conn)
	if !ok {
		return
	}

	result, err := d.rooms.Leave(ctx, code, conn)
	if err != nil {
		// Leaving without being a player (e.g. the host) is a quiet no-op
		if !errors.Is(err, model.ErrNotInRoom) && !errors.Is(err, model.ErrRoomNotFound) {
			d.sendError(conn, err)
		}
		return
	}

	d.hub.SendToAll(d.roomConns(result.Room), model.EventPlayerLeft, model.PlayerLeftPayload{
		Name: result.PlayerName,
	})
	d.broadcastState(result.Room)
}

func (d *Dispatcher) handleStartGame(ctx context.Context, conn model.ConnectionID) {
	code, ok := d.resolveRoom(ctx, conn)
	if !ok {
		return
	}

	r, err := d.rooms.StartGame(ctx, code, conn)
	if err != nil {
		d.sendError(conn, err)
		return
	}

	d.hub.SendToAll(d.roomConns(r), model.EventGameStarted, struct{}{})
	d.broadcastState(r)
}

func (d *Dispatcher) handleStartRound(ctx context.Context, conn model.ConnectionID) {
	code, ok := d.resolveRoom(ctx, conn)
	if !ok {
		return
	}

	result, err := d.rooms.StartRound(ctx, code, conn)
	if err != nil {
		d.sendError(conn, err)
		return
	}

	// The host sees the answer; players only get the audio preview
	d.hub.SendTo(result.Room.HostConn, model.EventRoundStarted, model.HostRoundStartedPayload{
		Song: result.Song,
	})
	d.hub.SendToAll(result.Room.ConnectedPlayerConns(), model.EventRoundStarted, model.PlayerRoundStartedPayload{
		Song: model.SongPreview{PreviewURL: result.Song.PreviewURL},
	})
	d.broadcastState(result.Room)
}

func (d *Dispatcher) handleBuzz(ctx context.Context, conn model.ConnectionID) {
	code, ok := d.resolveRoom(ctx, conn)
	if !ok {
		return
	}

	result, err := d.rooms.Buzz(ctx, code, conn)
	if err != nil {
		d.logger.Error("buzz failed", slog.Any("error", err))
		return
	}
	if !result.Changed {
		// Duplicate, locked-out or out-of-round buzz: defined no-op, no echo
		return
	}

	d.hub.SendToAll(d.roomConns(result.Room), model.EventPlayerBuzzed, model.PlayerBuzzedPayload{
		PlayerID:   conn,
		PlayerName: result.PlayerName,
		Position:   result.Position,
	})
	d.broadcastState(result.Room)
}

func (d *Dispatcher) handleJudge(ctx context.Context, conn model.ConnectionID, data json.RawMessage) {
	var cmd model.JudgeCommand
	if !d.decode(conn, data, &cmd) {
		return
	}

	code, ok := d.resolveRoom(ctx, conn)
	if !ok {
		return
	}

	result, err := d.rooms.Judge(ctx, code, conn, cmd.CorrectArtist, cmd.CorrectTitle)
	if err != nil {
		d.sendError(conn, err)
		return
	}
	if !result.Judged {
		// No current buzzer: defined no-op
		return
	}

	d.hub.SendToAll(d.roomConns(result.Room), model.EventJudgeResult, result.Payload)
	d.broadcastState(result.Room)
}

func (d *Dispatcher) handleSkipRound(ctx context.Context, conn model.ConnectionID) {
	code, ok := d.resolveRoom(ctx, conn)
	if !ok {
		return
	}

	result, err := d.rooms.SkipRound(ctx, code, conn)
	if err != nil {
		d.sendError(conn, err)
		return
	}

	d.hub.SendToAll(d.roomConns(result.Room), model.EventRoundSkipped, model.RoundSkippedPayload{
		Song: result.Song,
	})
	d.broadcastState(result.Room)
}

func (d *Dispatcher) handleEndGame(ctx context.Context, conn model.ConnectionID) {
	code, ok := d.resolveRoom(ctx, conn)
	if !ok {
		return
	}

	r, err := d.rooms.EndGame(ctx, code, conn)
	if err != nil {
		d.sendError(conn, err)
		return
	}

	d.hub.SendToAll(d.roomConns(r), model.EventGameEnded, model.GameEndedPayload{
		Winner:      r.Winner,
		FinalScores: d.views.Project(r, false).Players,
	})
}

func (d *Dispatcher) handleHostRejoin(ctx context.Context, conn model.ConnectionID, data json.RawMessage) {
	var cmd model.HostRejoinCommand
	if !d.decode(conn, data, &cmd) {
		return
	}

	code := model.RoomCode(strings.ToUpper(strings.TrimSpace(cmd.RoomCode)))
	r, err := d.rooms.HostRejoin(ctx, code, conn)
	if err != nil {
		d.sendError(conn, err)
		return
	}

	d.hub.SendTo(conn, model.EventHostRejoined, d.views.Project(r, true))
}

func (d *Dispatcher) handleGetRoomState(ctx context.Context, conn model.ConnectionID) {
	code, ok := d.resolveRoom(ctx, conn)
	if !ok {
		return
	}

	r, err := d.rooms.Get(ctx, code)
	if err != nil {
		return
	}

	d.hub.SendTo(conn, model.EventRoomState, d.views.Project(r, r.HostConn == conn))
}

// resolveRoom maps a connection to its room via the directory. Untracked
// connections and stale mappings are silently ignored.
func (d *Dispatcher) resolveRoom(ctx context.Context, conn model.ConnectionID) (model.RoomCode, bool) {
	code, err := d.rooms.Lookup(ctx, conn)
	if err != nil {
		return "", false
	}
	return code, true
}

// broadcastState pushes the two role projections: the host view to the
// host connection, the player view to every connected player. The views
// are distinct payloads on distinct channels; the song never rides a
// shared broadcast.
func (d *Dispatcher) broadcastState(r *model.Room) {
	if r.HostConnected {
		d.hub.SendTo(r.HostConn, model.EventRoomState, d.views.Project(r, true))
	}
	playerView := d.views.Project(r, false)
	d.hub.SendToAll(r.ConnectedPlayerConns(), model.EventRoomState, playerView)
}

// roomConns lists every connection in the room: connected players plus the
// host when attached
func (d *Dispatcher) roomConns(r *model.Room) []model.ConnectionID {
	conns := r.ConnectedPlayerConns()
	if r.HostConnected {
		conns = append(conns, r.HostConn)
	}
	return conns
}

func (d *Dispatcher) decode(conn model.ConnectionID, data json.RawMessage, v any) bool {
	if len(data) == 0 {
		return true
	}
	if err := json.Unmarshal(data, v); err != nil {
		d.sendErrorMessage(conn, "invalid payload")
		return false
	}
	return true
}

func (d *Dispatcher) sendError(conn model.ConnectionID, err error) {
	d.sendErrorMessage(conn, err.Error())
}

func (d *Dispatcher) sendErrorMessage(conn model.ConnectionID, msg string) {
	d.hub.SendTo(conn, model.EventError, model.ErrorPayload{Message: msg})
}
