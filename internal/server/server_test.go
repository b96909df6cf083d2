package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
	"github.com/Shimobouzi/FilmWorker/internal/engine"
	"github.com/Shimobouzi/FilmWorker/internal/infrastructure/storage"
	"github.com/Shimobouzi/FilmWorker/pkg/api"
	"github.com/Shimobouzi/FilmWorker/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*engine.GameService, *httptest.Server) {
	t.Helper()
	cfg := engine.NewConfig()
	cfg.GoalX = 100
	svc := engine.NewService(cfg, storage.NewMemoryStore())
	ts := httptest.NewServer(New(svc, "0").Handler())
	t.Cleanup(ts.Close)
	return svc, ts
}

// waitFor опрашивает cond, пока она не станет true.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readResponse(t *testing.T, conn *websocket.Conn) api.ServerResponse {
	t.Helper()
	var msg api.ServerResponse
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestWebSocketSession(t *testing.T) {
	svc, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// 1. Рукопожатие с собственным токеном
	token := uuid.NewString()
	if err := conn.WriteJSON(api.ClientCommand{Token: token}); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "subscription", func() bool { return svc.Hub.HasSubscriber(token) })
	waitFor(t, "INIT command", func() bool { return len(svc.CommandChan) > 0 })

	// 2. Тик рассылает снимок с приветствием
	svc.Step()
	msg := readResponse(t, conn)
	if msg.Type != "UPDATE" || msg.MyClientID != token {
		t.Fatalf("first message = %+v", msg)
	}
	if len(msg.Logs) == 0 || msg.Logs[0].Type != "INFO" {
		t.Errorf("welcome log missing: %+v", msg.Logs)
	}

	// 3. Неизвестная команда отклоняется сразу, без тика
	if err := conn.WriteJSON(api.ClientCommand{Action: "DANCE"}); err != nil {
		t.Fatal(err)
	}
	if msg := readResponse(t, conn); msg.Type != "ERROR" {
		t.Errorf("expected ERROR, got %+v", msg)
	}

	// 4. ACTION доходит до автомата ходов
	if err := conn.WriteJSON(api.ClientCommand{Action: "ACTION"}); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "ACTION command", func() bool { return len(svc.CommandChan) > 0 })
	svc.Step()
	if msg := readResponse(t, conn); msg.Phase != domain.PhaseActionRecording.String() {
		t.Errorf("phase = %s", msg.Phase)
	}
}

func TestClientIDFallsBackToFreshUUID(t *testing.T) {
	token := uuid.NewString()
	if got := clientID(token); got != token {
		t.Errorf("valid token replaced: %s", got)
	}
	got := clientID("not-a-uuid")
	if _, err := uuid.Parse(got); err != nil || got == "not-a-uuid" {
		t.Errorf("fallback id = %q", got)
	}
}

func TestDebugEndpoints(t *testing.T) {
	svc, ts := newTestServer(t)

	get := func(path string) (int, string) {
		t.Helper()
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	if code, body := get("/health"); code != http.StatusOK || body != "ok" {
		t.Errorf("/health = %d %q", code, body)
	}
	if code, body := get("/debug/replays"); code != http.StatusOK || strings.TrimSpace(body) != "[]" {
		t.Errorf("/debug/replays = %d %q", code, body)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/debug/replays?id=abc", http.StatusBadRequest},
		{"/debug/replays?id=-1", http.StatusBadRequest},
		{"/debug/replays?id=0", http.StatusNotFound},
	}
	for _, tt := range tests {
		if code, _ := get(tt.path); code != tt.want {
			t.Errorf("%s = %d, want %d", tt.path, code, tt.want)
		}
	}

	// Записываем один ход через очередь команд
	for _, action := range []string{"ACTION", "", "CUT"} {
		if action != "" {
			if err := svc.ProcessCommand(api.ClientCommand{Action: action}); err != nil {
				t.Fatal(err)
			}
		}
		svc.Step()
	}

	code, body := get("/debug/replays?id=0")
	if code != http.StatusOK {
		t.Fatalf("/debug/replays?id=0 = %d %s", code, body)
	}
	var rec domain.ReplayRecord
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		t.Fatal(err)
	}
	if len(rec.Frames) != 2 || rec.Speed != 1 {
		t.Errorf("record = %+v", rec)
	}

	code, body = get("/debug/state")
	var snap api.ServerResponse
	if err := json.Unmarshal([]byte(body), &snap); err != nil || code != http.StatusOK {
		t.Fatalf("/debug/state = %d: %v", code, err)
	}
	if snap.Phase != domain.PhaseEdit.String() || snap.StoredReplays != 1 {
		t.Errorf("state = phase %s, stored %d", snap.Phase, snap.StoredReplays)
	}
}

func TestForwardStopsWhenWriterGone(t *testing.T) {
	c := &Client{
		Send: make(chan api.ServerResponse, 1),
		done: make(chan struct{}),
	}
	// Send полон, writePump уже вышел
	c.Send <- api.ServerResponse{Type: "UPDATE"}
	close(c.done)

	updates := make(chan api.ServerResponse, 2)
	updates <- api.ServerResponse{Type: "UPDATE"}
	updates <- api.ServerResponse{Type: "UPDATE"}

	finished := make(chan struct{})
	go func() {
		c.forward(updates)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("forward blocked on a full Send after writePump exit")
	}
}

func TestForwardClosesSendWhenUpdatesEnd(t *testing.T) {
	c := &Client{
		Send: make(chan api.ServerResponse, 4),
		done: make(chan struct{}),
	}
	updates := make(chan api.ServerResponse, 1)
	updates <- api.ServerResponse{Type: "UPDATE", Tick: 3}
	close(updates)

	c.forward(updates)

	if msg := <-c.Send; msg.Tick != 3 {
		t.Errorf("forwarded %+v", msg)
	}
	if _, ok := <-c.Send; ok {
		t.Error("Send must be closed after updates end")
	}
}
