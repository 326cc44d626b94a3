package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hvj78/3dsnake/server"
)

func TestHealthEndpoint(t *testing.T) {
	router := NewAPIRouter(server.NewRoomManager())

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("health body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("status field = %q, want ok", body["status"])
	}
}

func TestRoomsEndpointEmpty(t *testing.T) {
	router := NewAPIRouter(server.NewRoomManager())

	req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Rooms []server.RoomInfo `json:"rooms"`
		Count int               `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("rooms body: %v", err)
	}
	if body.Count != 0 || len(body.Rooms) != 0 {
		t.Fatalf("fresh manager reports %d rooms", body.Count)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := NewAPIRouter(server.NewRoomManager())

	req := httptest.NewRequest(http.MethodGet, "/v1/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body MetricsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("metrics body: %v", err)
	}
	if body.ActiveRooms != 0 || body.ActiveConnections != 0 {
		t.Fatalf("fresh manager reports activity: %+v", body)
	}
	if body.Timestamp.IsZero() {
		t.Fatal("metrics timestamp missing")
	}
}
