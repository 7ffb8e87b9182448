package stream

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
)

func serve(t *testing.T, hub *Hub) string {
	t.Helper()
	app := fiber.New()
	RegisterRoutes(app.Group("/stream"), hub)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "ws://" + ln.Addr().String()
}

func waitForClients(t *testing.T, hub *Hub, tourID string, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount(tourID) != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients on %s, have %d", n, tourID, hub.ClientCount(tourID))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStreamHandlersUpgradeRequired(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/stream"), NewHub(nil, nopLogger))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/stream/tours/tour-1", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Fatalf("expected 426 for plain request, got %d", resp.StatusCode)
	}
}

func TestStreamHandlersWebsocketEvents(t *testing.T) {
	hub := NewHub(nil, nopLogger)
	base := serve(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(base+"/stream/tours/tour-1", nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, "tour-1", 1)

	hub.Publish(Event{Action: "created", TourID: "tour-1"})
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(msg, &ev); err != nil || ev.Action != "created" {
		t.Fatalf("unexpected message %s", msg)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("ignored")); err != nil {
		t.Fatalf("write error: %v", err)
	}
}

func TestStreamHandlersUnregisterOnClose(t *testing.T) {
	hub := NewHub(nil, nopLogger)
	base := serve(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(base+"/stream/tours/tour-2", nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	waitForClients(t, hub, "tour-2", 1)

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	conn.Close()
	waitForClients(t, hub, "tour-2", 0)

	hub.Publish(Event{Action: "deleted", TourID: "tour-2"})
}
