package model

// EventType identifies a server-to-client event
type EventType string

const (
	EventError            EventType = "error"
	EventRoomCreated      EventType = "room_created"
	EventJoinedRoom       EventType = "joined_room"
	EventPlayerJoined     EventType = "player_joined"
	EventPlayerLeft       EventType = "player_left"
	EventGameStarted      EventType = "game_started"
	EventRoundStarted     EventType = "round_started"
	EventPlayerBuzzed     EventType = "player_buzzed"
	EventJudgeResult      EventType = "judge_result"
	EventRoundSkipped     EventType = "round_skipped"
	EventGameEnded        EventType = "game_ended"
	EventHostRejoined     EventType = "host_rejoined"
	EventHostDisconnected EventType = "host_disconnected"
	EventRoomState        EventType = "room_state"
)

// ErrorPayload is sent only to the connection whose request failed
type ErrorPayload struct {
	Message string `json:"message"`
}

// RoomCreatedPayload acknowledges room creation to the host
type RoomCreatedPayload struct {
	RoomCode RoomCode `json:"roomCode"`
	MaxScore int      `json:"maxScore"`
}

// JoinedRoomPayload acknowledges a join to the joining player
type JoinedRoomPayload struct {
	RoomCode    RoomCode `json:"roomCode"`
	PlayerName  string   `json:"playerName"`
	GameStarted bool     `json:"gameStarted"`
}

// PlayerJoinedPayload notifies the room of a new player
type PlayerJoinedPayload struct {
	Name string `json:"name"`
}

// PlayerLeftPayload notifies the room of an explicit leave
type PlayerLeftPayload struct {
	Name string `json:"name"`
}

// HostRoundStartedPayload carries the full song record. Host channel only.
type HostRoundStartedPayload struct {
	Song *Song `json:"song"`
}

// PlayerRoundStartedPayload carries only the audio preview
type PlayerRoundStartedPayload struct {
	Song SongPreview `json:"song"`
}

// PlayerBuzzedPayload notifies the room of a buzz and its queue position
type PlayerBuzzedPayload struct {
	PlayerID   ConnectionID `json:"playerId"`
	PlayerName string       `json:"playerName"`
	Position   int          `json:"position"`
}

// JudgeResultPayload reports the outcome of a judgment
type JudgeResultPayload struct {
	PlayerID      ConnectionID `json:"playerId"`
	PlayerName    string       `json:"playerName"`
	CorrectArtist bool         `json:"correctArtist"`
	CorrectTitle  bool         `json:"correctTitle"`
	Points        int          `json:"points"`
	LockedOut     bool         `json:"lockedOut,omitempty"`
	RoundEnded    bool         `json:"roundEnded,omitempty"`
	AllLockedOut  bool         `json:"allLockedOut,omitempty"`
	Song          *Song        `json:"song,omitempty"` // revealed once the round is over
	GameEnded     bool         `json:"gameEnded,omitempty"`
	Winner        string       `json:"winner,omitempty"`
}

// RoundSkippedPayload reveals the skipped song to the room
type RoundSkippedPayload struct {
	Song *Song `json:"song"`
}

// GameEndedPayload reports the final outcome
type GameEndedPayload struct {
	Winner      string          `json:"winner,omitempty"`
	FinalScores []PlayerSummary `json:"finalScores"`
}
