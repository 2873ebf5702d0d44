package bridge

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/huddleio/huddle/internal/app"
	"github.com/huddleio/huddle/internal/config"
	"github.com/huddleio/huddle/internal/core"
)

type recordConn struct {
	mu     sync.Mutex
	frames []core.Frame
}

func (c *recordConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, f)
	return nil
}

func (c *recordConn) Close() {}

func (c *recordConn) types(t *testing.T) []string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.frames))
	for _, f := range c.frames {
		var ev struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(f, &ev); err != nil {
			t.Fatalf("decode %q: %v", f, err)
		}
		out = append(out, ev.Type)
	}
	return out
}

func newHandlerRouter(coord *app.Coordinator, dialer *Dialer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{Dialer: dialer, Coord: coord}
	r := gin.New()
	r.POST("/api/calls", h.Dial)
	r.POST("/api/calls/events", h.ProviderCallback)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProviderCallbackReachesRoom(t *testing.T) {
	coord := app.NewCoordinator(app.NewRegistry(), time.Hour)
	conn := &recordConn{}
	coord.Connect("demo", "Alice", true, conn)

	r := newHandlerRouter(coord, NewDialer(config.ProviderConfig{}))
	w := postJSON(t, r, "/api/calls/events", map[string]string{
		"event":   "call-connected",
		"call_id": "call-7",
		"room":    "demo",
		"to":      "+15550123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	found := false
	for _, typ := range conn.types(t) {
		if typ == core.EventCallConnected {
			found = true
		}
	}
	if !found {
		t.Fatal("room member never saw call-connected")
	}
}

func TestProviderCallbackUnknownRoomAcknowledged(t *testing.T) {
	coord := app.NewCoordinator(app.NewRegistry(), time.Hour)
	r := newHandlerRouter(coord, NewDialer(config.ProviderConfig{}))

	w := postJSON(t, r, "/api/calls/events", map[string]string{
		"event":   "call-connected",
		"call_id": "call-7",
		"room":    "gone",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("unknown room must still be acknowledged, status = %d", w.Code)
	}
}

func TestDialEndpointValidation(t *testing.T) {
	coord := app.NewCoordinator(app.NewRegistry(), time.Hour)
	r := newHandlerRouter(coord, NewDialer(config.ProviderConfig{}))

	w := postJSON(t, r, "/api/calls", map[string]string{"room": "demo"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing destination should 422, got %d", w.Code)
	}

	w = postJSON(t, r, "/api/calls", map[string]string{"to": "+15550123"})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("unconfigured provider should 503, got %d", w.Code)
	}
}

func TestDialEndpointAccepted(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(dialResponse{Status: "accepted", CallID: "call-9"})
	}))
	defer provider.Close()

	coord := app.NewCoordinator(app.NewRegistry(), time.Hour)
	r := newHandlerRouter(coord, NewDialer(config.ProviderConfig{URL: provider.URL}))

	w := postJSON(t, r, "/api/calls", map[string]string{"to": "+15550123", "room": "demo"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var out map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["call_id"] != "call-9" {
		t.Fatalf("call_id = %s", out["call_id"])
	}
}
