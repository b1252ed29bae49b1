package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, hub *Hub, userID uint) (*websocket.Conn, func()) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.ServeConn(conn, userID)
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial failed: %v", err)
	}

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := hub.ClientCount(); got != want {
		t.Fatalf("client count = %d, want %d", got, want)
	}
}

func TestServeConnBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn, cleanup := dialHub(t, hub, 7)
	defer cleanup()

	waitForClients(t, hub, 1)

	hub.Broadcast("due_alerts", map[string]int{"count": 3})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var event Event
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatalf("invalid event payload: %v", err)
	}
	if event.Type != "due_alerts" {
		t.Errorf("event type = %q, want due_alerts", event.Type)
	}
}

func TestSendToUserTargetsOnlyThatUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	target, cleanupTarget := dialHub(t, hub, 1)
	defer cleanupTarget()
	other, cleanupOther := dialHub(t, hub, 2)
	defer cleanupOther()

	waitForClients(t, hub, 2)

	hub.SendToUser(1, "notification", map[string]string{"title": "Fee due"})

	target.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := target.ReadMessage()
	if err != nil {
		t.Fatalf("target read failed: %v", err)
	}
	var event Event
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatalf("invalid event payload: %v", err)
	}
	if event.Type != "notification" {
		t.Errorf("event type = %q, want notification", event.Type)
	}

	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Error("other user received an event addressed to user 1")
	}
}

func TestClientCountDropsOnDisconnect(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn, cleanup := dialHub(t, hub, 9)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)

	cleanup()
}
