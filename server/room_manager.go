package server

import (
	"log"
	"math/rand"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hvj78/3dsnake/config"
)

// RoomInfo is a public room summary for the REST listing.
type RoomInfo struct {
	RoomID     string `json:"roomId"`
	Phase      string `json:"phase"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	CubeN      int    `json:"cubeN"`
}

// RoomManager owns every active room and the websocket entry point. Rooms
// are created on demand by join and destroyed when their last player
// leaves; rooms never share mutable state with each other.
type RoomManager struct {
	mu    sync.Mutex
	rooms map[string]*Room

	upgrader    websocket.Upgrader
	startedAt   time.Time
	connections int64
}

// NewRoomManager creates an empty manager.
func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms: make(map[string]*Room),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development. RESTRICT THIS IN PRODUCTION!
				return true
			},
		},
		startedAt: time.Now(),
	}
}

// HandleConnections upgrades HTTP requests to websocket connections and
// starts the client pumps. The first message must be a join within the
// configured deadline.
func (m *RoomManager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := newClient(conn)
	atomic.AddInt64(&m.connections, 1)

	time.AfterFunc(config.JoinTimeout, func() {
		if client.Room() == nil {
			client.trySend(errorMessage(ErrJoinTimeout, "join timed out"))
			conn.Close()
		}
	})

	go client.writePump()
	go client.readPump(m)
}

// join places a client into the named room, creating it if needed. An empty
// roomID asks for a fresh room.
func (m *RoomManager) join(c *Client, name, roomID string) {
	if name == "" {
		name = "Player"
	}

	m.mu.Lock()
	if roomID == "" {
		roomID = m.newRoomIDLocked()
	}
	room, ok := m.rooms[roomID]
	if !ok {
		room = newRoom(roomID, m)
		m.rooms[roomID] = room
		log.Printf("room %s created", roomID)
	}
	m.mu.Unlock()

	if _, err := room.AddPlayer(c, name); err != nil {
		if pe, ok := err.(*protoErr); ok {
			c.trySend(errorMessage(pe.code, pe.message))
		} else {
			c.trySend(errorMessage(ErrBadJoin, err.Error()))
		}
	}
}

// disconnect unwinds a dropped or leaving client: the player is removed
// from their room, the room is destroyed if it became empty, and the write
// pump is released.
func (m *RoomManager) disconnect(c *Client) {
	if room := c.Room(); room != nil {
		if room.RemovePlayer(c.PlayerID()) {
			m.remove(room.ID)
		}
	}
	atomic.AddInt64(&m.connections, -1)
	c.closeSend()
}

func (m *RoomManager) remove(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[roomID]; ok {
		delete(m.rooms, roomID)
		log.Printf("room %s destroyed", roomID)
	}
}

// newRoomIDLocked generates an unused room code.
func (m *RoomManager) newRoomIDLocked() string {
	for {
		code := make([]byte, config.RoomIDLength)
		for i := range code {
			code[i] = config.RoomIDAlphabet[rand.Intn(len(config.RoomIDAlphabet))]
		}
		if _, taken := m.rooms[string(code)]; !taken {
			return string(code)
		}
	}
}

// Rooms lists every active room, sorted by ID.
func (m *RoomManager) Rooms() []RoomInfo {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.Unlock()

	infos := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, r.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].RoomID < infos[j].RoomID })
	return infos
}

// ConnectionCount returns the number of open websocket connections.
func (m *RoomManager) ConnectionCount() int {
	return int(atomic.LoadInt64(&m.connections))
}

// StartedAt returns when the manager came up, for uptime reporting.
func (m *RoomManager) StartedAt() time.Time {
	return m.startedAt
}
