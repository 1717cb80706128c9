package model

// PlayerSummary is the client-facing representation of one player
type PlayerSummary struct {
	ID          ConnectionID `json:"id"`
	Name        string       `json:"name"`
	Score       int          `json:"score"`
	IsLockedOut bool         `json:"isLockedOut"`
	IsConnected bool         `json:"isConnected"`
}

// BuzzerRef identifies a player in the buzz queue
type BuzzerRef struct {
	ID   ConnectionID `json:"id"`
	Name string       `json:"name"`
}

// RoomView is a role-filtered snapshot of room state. The host view carries
// CurrentSong; the player view must never expose the answer before judgment.
type RoomView struct {
	RoomCode      RoomCode        `json:"roomCode"`
	MaxScore      int             `json:"maxScore"`
	Players       []PlayerSummary `json:"players"`
	RoundActive   bool            `json:"roundActive"`
	CurrentBuzzer *BuzzerRef      `json:"currentBuzzer"`
	BuzzQueue     []BuzzerRef     `json:"buzzQueue"`
	GameStarted   bool            `json:"gameStarted"`
	GameEnded     bool            `json:"gameEnded"`
	Winner        string          `json:"winner,omitempty"`
	CurrentSong   *Song           `json:"currentSong,omitempty"`
}
