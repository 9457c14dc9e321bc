package live

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHub(t *testing.T, origins []string) (*Hub, string) {
	t.Helper()

	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), origins)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWS(w, r, r.URL.Query().Get("room"))
	}))
	t.Cleanup(func() {
		hub.Shutdown()
		server.Close()
	})

	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string, header http.Header) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcast(t *testing.T) {
	hub, url := setupHub(t, nil)

	conn := dial(t, url+"?room=t1", nil)
	other := dial(t, url+"?room=t2", nil)
	require.Eventually(t, func() bool { return hub.Viewers("t1") == 1 && hub.Viewers("t2") == 1 },
		time.Second, 10*time.Millisecond)

	hub.Broadcast("t1", map[string]string{"champion": "E"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string            `json:"type"`
		RoomID  string            `json:"room_id"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageBracketUpdated, msg.Type)
	assert.Equal(t, "t1", msg.RoomID)
	assert.Equal(t, "E", msg.Payload["champion"])

	// Viewers of another room get nothing
	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}

func TestCloseRoom(t *testing.T) {
	hub, url := setupHub(t, nil)

	conn := dial(t, url+"?room=t1", nil)
	require.Eventually(t, func() bool { return hub.Viewers("t1") == 1 }, time.Second, 10*time.Millisecond)

	hub.CloseRoom("t1")
	assert.Equal(t, 0, hub.Viewers("t1"))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestViewerLeaves(t *testing.T) {
	hub, url := setupHub(t, nil)

	conn := dial(t, url+"?room=t1", nil)
	require.Eventually(t, func() bool { return hub.Viewers("t1") == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Viewers("t1") == 0 }, time.Second, 10*time.Millisecond)

	// Broadcasting to an empty room is a no-op
	hub.Broadcast("t1", "ignored")
}

func TestOriginCheck(t *testing.T) {
	_, url := setupHub(t, []string{"https://brackets.example"})

	header := http.Header{}
	header.Set("Origin", "https://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(url+"?room=t1", header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "https://brackets.example")
	dial(t, url+"?room=t1", header)
}
