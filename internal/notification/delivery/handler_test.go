package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tasko-backend/internal/notification/dispatcher"
	"tasko-backend/internal/notification/domain"
	"tasko-backend/internal/notification/repository"
	"tasko-backend/internal/notification/usecase"
	"tasko-backend/pkg/database"
	"tasko-backend/pkg/hub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Count   *int            `json:"count"`
}

func setupServer(t *testing.T) (*httptest.Server, *hub.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Notification{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := hub.New("*")
	go h.Run(ctx)

	uc := usecase.NewNotificationUsecase(repository.NewGormNotificationRepository(db), dispatcher.New(dispatcher.HubSink(h)))
	r := gin.New()
	NewNotificationHandler(uc, h).RegisterRoutes(r.Group("/api"))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, h
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func TestNotificationLifecycleAndLiveStream(t *testing.T) {
	srv, h := setupServer(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/notifications/ws", nil)
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

	code, env := call(t, srv, http.MethodPost, "/api/notifications", `{"taskId":"t1","type":"reminder","message":"Stretch"}`)
	if code != http.StatusCreated {
		t.Fatalf("create: %d %+v", code, env)
	}
	var n domain.Notification
	json.Unmarshal(env.Data, &n)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type    string              `json:"type"`
		Payload domain.Notification `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "notification" || msg.Payload.ID != n.ID || msg.Payload.Message != "Stretch" {
		t.Fatalf("streamed %+v", msg)
	}

	if code, env = call(t, srv, http.MethodGet, "/api/notifications/unread", ""); code != http.StatusOK || *env.Count != 1 {
		t.Fatalf("unread: %d %+v", code, env)
	}
	if code, env = call(t, srv, http.MethodGet, "/api/notifications/task/t1", ""); code != http.StatusOK || *env.Count != 1 {
		t.Fatalf("by task: %d %+v", code, env)
	}
	if code, _ = call(t, srv, http.MethodPut, "/api/notifications/"+n.ID+"/read", ""); code != http.StatusOK {
		t.Fatalf("mark read: %d", code)
	}

	code, env = call(t, srv, http.MethodGet, "/api/notifications/count", "")
	var count domain.Count
	json.Unmarshal(env.Data, &count)
	if code != http.StatusOK || count.Total != 1 || count.Unread != 0 {
		t.Fatalf("count: %d %+v", code, count)
	}

	if code, _ = call(t, srv, http.MethodDelete, "/api/notifications/"+n.ID, ""); code != http.StatusOK {
		t.Fatalf("delete: %d", code)
	}
	if code, env = call(t, srv, http.MethodGet, "/api/notifications/"+n.ID, ""); code != http.StatusNotFound || env.Error != "Notification not found" {
		t.Fatalf("get deleted: %d %+v", code, env)
	}
}

func TestCreateNotificationValidation(t *testing.T) {
	srv, _ := setupServer(t)
	cases := []struct{ body, want string }{
		{`{"type":"reminder","message":"x"}`, "taskId, type, and message are required"},
		{`{"taskId":"t1","type":"birthday","message":"x"}`, "Type must be reminder, overdue, due_soon, or activity_change"},
	}
	for _, c := range cases {
		code, env := call(t, srv, http.MethodPost, "/api/notifications", c.body)
		if code != http.StatusBadRequest || env.Error != c.want {
			t.Errorf("%s: %d %q", c.body, code, env.Error)
		}
	}
	if code, _ := call(t, srv, http.MethodPut, "/api/notifications/missing/read", ""); code != http.StatusNotFound {
		t.Fatalf("mark missing: %d", code)
	}
}
