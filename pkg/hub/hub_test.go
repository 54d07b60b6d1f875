package hub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestBroadcastReachesClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("*")
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := h.Broadcast(ctx, Message{Type: "notification", Payload: map[string]string{"message": "Now doing Gym"}}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != "notification" || msg.Payload["message"] != "Now doing Gym" {
		t.Fatalf("unexpected message: %s", data)
	}
}

func TestOriginCheck(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("http://app.example")
	go h.Run(ctx)
	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := map[string][]string{"Origin": {"http://evil.example"}}
	if _, _, err := websocket.DefaultDialer.Dial(url, header); err == nil {
		t.Fatal("expected upgrade from foreign origin to fail")
	}
}

func TestStoppedHubReleasesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := New("*")
	go h.Run(ctx)
	srv := httptest.NewServer(h)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	const n = 20
	conns := make([]*websocket.Conn, 0, n)
	for i := 0; i < n; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial %d: %v", i, err)
		}
		defer conn.Close()
		conns = append(conns, conn)
	}
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("%d of %d clients registered", h.Clients(), n)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	for i, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var closeErr *websocket.CloseError
		if _, _, err := conn.ReadMessage(); !errors.As(err, &closeErr) {
			t.Fatalf("client %d: expected close frame, got %v", i, err)
		}
	}

	left := make(chan struct{})
	go func() {
		for i := 0; i < n; i++ {
			h.leave(&client{hub: h})
		}
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("leave blocked after shutdown")
	}

	if err := h.Broadcast(context.Background(), Message{Type: "notification"}); !errors.Is(err, ErrStopped) {
		t.Fatalf("broadcast after stop = %v", err)
	}

	late, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("late dial: %v", err)
	}
	defer late.Close()
	late.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := late.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("late client: %v", err)
	}
}
