package server

import (
	"encoding/json"
	"log"

	game "github.com/hvj78/3dsnake/src"
)

// ProtocolVersion is the wire envelope version.
const ProtocolVersion = 1

// Envelope wraps every message in both directions.
type Envelope struct {
	V       int             `json:"v"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Client -> server message types.
const (
	MsgJoin        = "join"
	MsgSetSettings = "set_settings"
	MsgSetColor    = "set_color"
	MsgReady       = "ready"
	MsgForceStart  = "force_start"
	MsgInput       = "input"
	MsgLeave       = "leave"
	MsgPing        = "ping"
)

// Server -> client message types.
const (
	MsgJoined     = "joined"
	MsgLobbyState = "lobby_state"
	MsgStart      = "start"
	MsgState      = "state"
	MsgEnd        = "end"
	MsgError      = "error"
	MsgPong       = "pong"
)

// Error codes carried in error messages.
const (
	ErrBadMessage     = "bad_message"
	ErrBadJoin        = "bad_join"
	ErrJoinTimeout    = "join_timeout"
	ErrRoomFull       = "room_full"
	ErrRoomInProgress = "room_in_progress"
	ErrBadSettings    = "bad_settings"
	ErrNotHost        = "not_host"
	ErrNotInLobby     = "not_in_lobby"
	ErrBadColor       = "bad_color"
	ErrStartFailed    = "start_failed"
)

type joinPayload struct {
	Name   string `json:"name"`
	RoomID string `json:"roomId,omitempty"`
}

type setColorPayload struct {
	Color int `json:"color"`
}

type readyPayload struct {
	Ready bool `json:"ready"`
}

type inputEntry struct {
	Tick int64 `json:"tick"`
	Dir  int   `json:"dir"`
}

type inputPayload struct {
	Inputs []inputEntry `json:"inputs"`
}

type pingPayload struct {
	ClientTimeMs int64 `json:"clientTimeMs"`
}

type joinedPayload struct {
	PlayerID string    `json:"playerId"`
	RoomID   string    `json:"roomId"`
	IsHost   bool      `json:"isHost"`
	Lobby    LobbyView `json:"lobby"`
}

type lobbyStatePayload struct {
	Lobby LobbyView `json:"lobby"`
}

// LobbyPlayer is one player's row in the lobby listing, sorted by player ID
// so display order never depends on map iteration.
type LobbyPlayer struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Ready    bool   `json:"ready"`
	Color    int    `json:"color"`
}

// LobbyView is the full lobby snapshot broadcast on any membership or
// settings change.
type LobbyView struct {
	RoomID   string        `json:"roomId"`
	HostID   string        `json:"hostId"`
	Players  []LobbyPlayer `json:"players"`
	Settings game.Settings `json:"settings"`
}

type startPayload struct {
	Settings          game.Settings `json:"settings"`
	Seed              int64         `json:"seed"`
	StartTick         int64         `json:"startTick"`
	StartServerTimeMs int64         `json:"startServerTimeMs"`
	Players           []LobbyPlayer `json:"players"`
}

// SnakeView is one snake in a state snapshot. Dead snakes carry the time
// until respawn when one is scheduled.
type SnakeView struct {
	PlayerID    string `json:"playerId"`
	Alive       bool   `json:"alive"`
	Dir         int    `json:"dir"`
	Cells       []int  `json:"cells"`
	RespawnInMs *int64 `json:"respawnInMs,omitempty"`
}

type statePayload struct {
	Tick         int64            `json:"tick"`
	ServerTimeMs int64            `json:"serverTimeMs"`
	TimerMsLeft  int64            `json:"timerMsLeft"`
	Snakes       []SnakeView      `json:"snakes"`
	Fruits       []game.Fruit     `json:"fruits"`
	Scores       map[string]int   `json:"scores"`
	InputAck     map[string]int64 `json:"inputAck"`
}

type endPayload struct {
	FinalScores map[string]int `json:"finalScores"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type pongPayload struct {
	ClientTimeMs int64 `json:"clientTimeMs"`
	ServerTimeMs int64 `json:"serverTimeMs"`
}

// encodeMessage builds a versioned envelope around payload. Marshal failures
// indicate a programming error in a payload type; they are logged and yield
// an empty payload rather than a dropped message.
func encodeMessage(msgType string, payload interface{}) []byte {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("protocol: marshal %s payload: %v", msgType, err)
		raw = []byte("{}")
	}
	out, err := json.Marshal(Envelope{V: ProtocolVersion, Type: msgType, Payload: raw})
	if err != nil {
		log.Printf("protocol: marshal %s envelope: %v", msgType, err)
		return []byte(`{"v":1,"type":"error","payload":{}}`)
	}
	return out
}

func errorMessage(code, message string) []byte {
	return encodeMessage(MsgError, errorPayload{Code: code, Message: message})
}
