package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hvj78/3dsnake/server"
)

// MetricsResponse is the operational metrics snapshot.
type MetricsResponse struct {
	Timestamp         time.Time      `json:"timestamp"`
	ServerUptimeSec   int64          `json:"server_uptime_sec"`
	ActiveConnections int            `json:"active_connections"`
	ActiveRooms       int            `json:"active_rooms"`
	PlayersInRooms    int            `json:"players_in_rooms"`
	RoomsByPhase      map[string]int `json:"rooms_by_phase"`
}

// MetricsHandler reports room and connection counts for operators.
type MetricsHandler struct {
	rooms *server.RoomManager
}

// NewMetricsHandler creates a metrics handler backed by the live room
// manager.
func NewMetricsHandler(rooms *server.RoomManager) *MetricsHandler {
	return &MetricsHandler{rooms: rooms}
}

// Routes registers the metrics routes.
func (h *MetricsHandler) Routes(r chi.Router) {
	r.Get("/metrics", h.GetMetrics)
}

// GetMetrics returns the current metrics snapshot.
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	infos := h.rooms.Rooms()
	byPhase := make(map[string]int)
	players := 0
	for _, info := range infos {
		byPhase[info.Phase]++
		players += info.Players
	}

	resp := MetricsResponse{
		Timestamp:         time.Now(),
		ServerUptimeSec:   int64(time.Since(h.rooms.StartedAt()).Seconds()),
		ActiveConnections: h.rooms.ConnectionCount(),
		ActiveRooms:       len(infos),
		PlayersInRooms:    players,
		RoomsByPhase:      byPhase,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
