package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/huddleio/huddle/internal/app"
	"github.com/huddleio/huddle/internal/bridge"
	"github.com/huddleio/huddle/internal/config"
)

func newTestRouter(t *testing.T) (*gin.Engine, *app.Coordinator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Mode:          "release",
		StaticPath:    t.TempDir(),
		ReadLimit:     32768,
		PingPeriod:    time.Minute,
		ReadyInterval: time.Hour,
		JoinLimit:     100,
		JoinWindow:    time.Minute,
		Secret:        "test-secret",
		ICEServers: []config.ICEServerSpec{
			{URLs: []string{"stun:stun.example.com:3478"}},
		},
	}
	coord := app.NewCoordinator(app.NewRegistry(), cfg.ReadyInterval)
	r := SetupRouter(context.Background(), cfg, coord, bridge.NewDialer(cfg.Provider))
	return r, coord
}

func TestHealthz(t *testing.T) {
	r, coord := newTestRouter(t)
	coord.Rooms.GetOrCreate("demo")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["rooms"] != float64(1) {
		t.Fatalf("body = %v", body)
	}
}

func TestICEConfigEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ice", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		ICEServers []struct {
			URLs []string `json:"urls"`
		} `json:"iceServers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.ICEServers) != 1 || body.ICEServers[0].URLs[0] != "stun:stun.example.com:3478" {
		t.Fatalf("ice servers = %+v", body.ICEServers)
	}
}

func TestRoomsEndpoints(t *testing.T) {
	r, coord := newTestRouter(t)
	coord.Rooms.GetOrCreate("demo")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var list struct {
		Rooms []struct {
			ID string `json:"id"`
		} `json:"rooms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Rooms) != 1 || list.Rooms[0].ID != "demo" {
		t.Fatalf("rooms = %+v", list.Rooms)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms/demo", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing room should 404, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestClientTokenCookieAssigned(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "ct" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("client token cookie not set")
	}
}
