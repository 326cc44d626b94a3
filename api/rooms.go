package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hvj78/3dsnake/server"
)

// RoomsHandler serves the public room listing used by the lobby browser.
type RoomsHandler struct {
	rooms *server.RoomManager
}

// NewRoomsHandler creates a rooms handler backed by the live room manager.
func NewRoomsHandler(rooms *server.RoomManager) *RoomsHandler {
	return &RoomsHandler{rooms: rooms}
}

// Routes registers the rooms routes.
func (h *RoomsHandler) Routes(r chi.Router) {
	r.Get("/rooms", h.ListRooms)
}

// ListRooms returns every active room with its phase and occupancy.
func (h *RoomsHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	infos := h.rooms.Rooms()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"rooms": infos,
		"count": len(infos),
	})
}
