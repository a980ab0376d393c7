package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ranajunaid001/second-braind-junaid/internal/pkg/logger"
)

type quietLogger struct{}

func (quietLogger) Debug(module, message string, details map[string]interface{}) {}
func (quietLogger) Info(module, message string, details map[string]interface{})  {}
func (quietLogger) Warn(module, message string, details map[string]interface{})  {}
func (quietLogger) Error(module, message string, details map[string]interface{}) {}
func (quietLogger) Sync() error                                                  { return nil }
func (quietLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (quietLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached within 2s")
}

func TestHubBroadcastReachesClients(t *testing.T) {
	hub := NewHub(nil, quietLogger{})
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 4)}
	hub.register <- client
	waitFor(t, func() bool { return hub.clientCount() == 1 })

	sent := ActivityMessage{
		Type:       "ENTRY_SAVED",
		Data:       map[string]interface{}{"bucket": "people"},
		OccurredAt: time.Now().UTC(),
	}
	hub.Broadcast(sent)

	select {
	case raw := <-client.Send:
		var got ActivityMessage
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("client payload is not JSON: %v", err)
		}
		if got.Type != "ENTRY_SAVED" {
			t.Errorf("type = %q, want ENTRY_SAVED", got.Type)
		}
		if got.Data["bucket"] != "people" {
			t.Errorf("data = %v", got.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no payload delivered")
	}
}

func TestHubDropsStalledClient(t *testing.T) {
	hub := NewHub(nil, quietLogger{})
	go hub.Run()

	// Zero-capacity channel nobody reads: the first broadcast stalls it.
	stalled := &Client{Hub: hub, Send: make(chan []byte)}
	healthy := &Client{Hub: hub, Send: make(chan []byte, 4)}
	hub.register <- stalled
	hub.register <- healthy
	waitFor(t, func() bool { return hub.clientCount() == 2 })

	hub.Broadcast(ActivityMessage{Type: "DIGEST_SENT"})

	waitFor(t, func() bool { return hub.clientCount() == 1 })

	// The healthy client still got the item and its channel stays open.
	select {
	case _, ok := <-healthy.Send:
		if !ok {
			t.Fatal("healthy client channel closed")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("healthy client got nothing")
	}

	// The stalled client's channel is closed by the unregister path.
	waitFor(t, func() bool {
		select {
		case _, ok := <-stalled.Send:
			return !ok
		default:
			return false
		}
	})
}

func TestHubUnregisterIsIdempotent(t *testing.T) {
	hub := NewHub(nil, quietLogger{})
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 1)}
	hub.register <- client
	waitFor(t, func() bool { return hub.clientCount() == 1 })

	hub.unregister <- client
	hub.unregister <- client // second pass must not close twice or panic
	waitFor(t, func() bool { return hub.clientCount() == 0 })
}
