package model

// CommandType identifies a client-to-server event
type CommandType string

const (
	CommandCreateRoom   CommandType = "create_room"
	CommandJoinRoom     CommandType = "join_room"
	CommandLeaveRoom    CommandType = "leave_room"
	CommandStartGame    CommandType = "start_game"
	CommandStartRound   CommandType = "start_round"
	CommandBuzz         CommandType = "buzz"
	CommandJudge        CommandType = "judge"
	CommandSkipRound    CommandType = "skip_round"
	CommandEndGame      CommandType = "end_game"
	CommandHostRejoin   CommandType = "host_rejoin"
	CommandGetRoomState CommandType = "get_room_state"
)

// CreateRoomCommand opens a new room with the sender as host
type CreateRoomCommand struct {
	MaxScore int `json:"maxScore"`
}

// JoinRoomCommand joins (or rejoins by name) an existing room
type JoinRoomCommand struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

// JudgeCommand records the host's verdict on the current buzzer's answer
type JudgeCommand struct {
	CorrectArtist bool `json:"correctArtist"`
	CorrectTitle  bool `json:"correctTitle"`
}

// HostRejoinCommand reattaches a returning host to their room
type HostRejoinCommand struct {
	RoomCode string `json:"roomCode"`
}
