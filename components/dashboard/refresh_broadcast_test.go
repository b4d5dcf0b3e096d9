package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBroadcastHookSubscribe(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()
	event := Event{Reason: "language", Language: "en"}
	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	select {
	case e := <-ch:
		if e.Language != event.Language {
			t.Fatalf("expected language %s, got %s", event.Language, e.Language)
		}
	default:
		t.Fatalf("expected event to be delivered")
	}
}

func TestBroadcastHookDropsForSlowSubscribers(t *testing.T) {
	hook := NewBroadcastHook()
	_, cancel := hook.Subscribe()
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = hook.Notify(context.Background(), Event{Reason: "index"})
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected Notify never to block")
	}
}

func TestBroadcastHookCancelClosesChannel(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}
}

func TestBroadcastHookServeWebSocket(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeWebSocket))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for hook.Subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	_ = hook.Notify(context.Background(), Event{Reason: "update", UpdateAvailable: true})
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var got Event
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.Reason != "update" || !got.UpdateAvailable {
		t.Fatalf("expected update event over websocket, got %#v", got)
	}
}

type failingHook struct{ err error }

func (h failingHook) Notify(context.Context, Event) error { return h.err }

func TestMultiHookJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	broadcast := NewBroadcastHook()
	ch, cancel := broadcast.Subscribe()
	defer cancel()

	err := MultiHook{failingHook{err: boom}, nil, broadcast}.Notify(context.Background(), Event{Reason: "theme"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	select {
	case <-ch:
	default:
		t.Fatalf("expected later hooks to run after a failure")
	}
}

func TestLogHookLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	hook := LogHook{Logger: zap.New(core)}

	_ = hook.Notify(context.Background(), Event{Reason: "index", Index: &IndexState{Value: 3, Max: 10}})
	_ = hook.Notify(context.Background(), Event{Reason: "remove", WidgetID: "w1"})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected two log entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel || entries[1].Level != zapcore.InfoLevel {
		t.Fatalf("unexpected levels %s and %s", entries[0].Level, entries[1].Level)
	}
	if entries[1].ContextMap()["widget_id"] != "w1" {
		t.Fatalf("expected widget id field, got %#v", entries[1].ContextMap())
	}
}
