package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(func(*http.Request) bool { return true })
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitSubscribed espera a inscrição chegar no hub antes do broadcast
func waitSubscribed(t *testing.T, h *Hub, eventID string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.RLock()
		n := len(h.subs[eventID])
		h.mu.RUnlock()
		if n > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("subscribe never registered")
}

func TestHub(t *testing.T) {
	t.Run("subscriber receives broadcast for its event", func(t *testing.T) {
		hub, url := newTestHub(t)
		conn := dial(t, url)

		if err := conn.WriteJSON(ClientMsg{Type: "subscribe", EventID: "ev-1"}); err != nil {
			t.Fatalf("subscribe: %v", err)
		}
		waitSubscribed(t, hub, "ev-1")

		hub.Broadcast(OddsUpdate{EventID: "ev-1", Payload: []string{"India 1.8"}})

		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var upd OddsUpdate
		if err := conn.ReadJSON(&upd); err != nil {
			t.Fatalf("read update: %v", err)
		}
		if upd.EventID != "ev-1" {
			t.Errorf("expected eventId ev-1, got %q", upd.EventID)
		}
	})

	t.Run("broadcast ignores other events", func(t *testing.T) {
		hub, url := newTestHub(t)
		conn := dial(t, url)

		if err := conn.WriteJSON(ClientMsg{Type: "subscribe", EventID: "ev-1"}); err != nil {
			t.Fatalf("subscribe: %v", err)
		}
		waitSubscribed(t, hub, "ev-1")

		hub.Broadcast(OddsUpdate{EventID: "ev-2", Payload: "x"})
		hub.Broadcast(OddsUpdate{EventID: "ev-1", Payload: "y"})

		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var upd OddsUpdate
		if err := conn.ReadJSON(&upd); err != nil {
			t.Fatalf("read update: %v", err)
		}
		if upd.EventID != "ev-1" {
			t.Errorf("received update for unsubscribed event: %q", upd.EventID)
		}
	})

	t.Run("ping gets pong", func(t *testing.T) {
		_, url := newTestHub(t)
		conn := dial(t, url)

		if err := conn.WriteJSON(ClientMsg{Type: "ping"}); err != nil {
			t.Fatalf("ping: %v", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var resp map[string]string
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("read pong: %v", err)
		}
		if resp["type"] != "pong" {
			t.Errorf("expected pong, got %v", resp)
		}
	})

	t.Run("concurrent broadcast and pong do not corrupt the connection", func(t *testing.T) {
		// pong sai da goroutine de leitura e Broadcast do chamador;
		// sem serialização por conexão o gorilla derruba a conexão
		hub, url := newTestHub(t)
		conn := dial(t, url)

		if err := conn.WriteJSON(ClientMsg{Type: "subscribe", EventID: "ev-1"}); err != nil {
			t.Fatalf("subscribe: %v", err)
		}
		waitSubscribed(t, hub, "ev-1")

		const broadcasts, pings = 50, 10
		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < broadcasts; i++ {
				hub.Broadcast(OddsUpdate{EventID: "ev-1", Payload: i})
			}
		}()
		for i := 0; i < pings; i++ {
			if err := conn.WriteJSON(ClientMsg{Type: "ping"}); err != nil {
				t.Fatalf("ping %d: %v", i, err)
			}
		}
		<-done

		_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		for got := 0; got < broadcasts+pings; got++ {
			var raw map[string]any
			if err := conn.ReadJSON(&raw); err != nil {
				t.Fatalf("read message %d: %v", got, err)
			}
		}
	})

	t.Run("disconnect drops the subscription", func(t *testing.T) {
		hub, url := newTestHub(t)
		conn := dial(t, url)

		if err := conn.WriteJSON(ClientMsg{Type: "subscribe", EventID: "ev-1"}); err != nil {
			t.Fatalf("subscribe: %v", err)
		}
		waitSubscribed(t, hub, "ev-1")
		conn.Close()

		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			hub.mu.RLock()
			n := len(hub.subs["ev-1"])
			hub.mu.RUnlock()
			if n == 0 {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
		t.Error("subscription survived disconnect")
	})
}
