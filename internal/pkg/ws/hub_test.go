package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/blog_server/internal/pkg/pubsub"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func newTestServer(t *testing.T, hub *Hub) string {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(conn)
		hub.Register(client)
		hub.Serve(client)
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestNewHub(t *testing.T) {
	hub := NewHub(nil)

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.log)
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestNewClient_UniqueID(t *testing.T) {
	a := NewClient(nil)
	b := NewClient(nil)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestHub_Broadcast_NoClients(t *testing.T) {
	hub := NewHub(logrus.New())

	err := hub.Broadcast(map[string]string{"key": "value"})
	assert.NoError(t, err)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub(nil)
	wsURL := newTestServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_Publish_ReachesAllClients(t *testing.T) {
	hub := NewHub(nil)
	wsURL := newTestServer(t, hub)

	var conns []*websocket.Conn
	for i := 0; i < 3; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		conns = append(conns, conn)
	}
	defer func() {
		for _, conn := range conns {
			conn.Close()
		}
	}()

	require.Eventually(t, func() bool { return hub.ConnectionCount() == 3 }, time.Second, 10*time.Millisecond)

	err := hub.Publish(context.Background(), pubsub.NewEvent("post", pubsub.ActionCreated, 5))
	require.NoError(t, err)

	for _, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, received, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"resource_event","resource":"post","action":"created","id":5}`, string(received))
	}
}

func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitCount(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ConnectionCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_Broadcast_DropsFailedClient(t *testing.T) {
	hub := NewHub(nil)
	wsURL := newTestServer(t, hub)
	dial(t, wsURL)
	waitCount(t, hub, 1)

	// 服务端连接已关闭，写入必然失败
	hub.mu.RLock()
	for _, c := range hub.clients {
		c.Conn.Close()
	}
	hub.mu.RUnlock()

	require.NoError(t, hub.Broadcast(map[string]int{"id": 1}))
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestHub_Broadcast_WriteDeadline(t *testing.T) {
	hub := NewHub(nil)
	hub.writeWait = -time.Second
	wsURL := newTestServer(t, hub)
	dial(t, wsURL)
	waitCount(t, hub, 1)

	require.NoError(t, hub.Broadcast(map[string]int{"id": 1}))
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestHub_Serve_ReadLimit(t *testing.T) {
	hub := NewHub(nil)
	hub.readLimit = 16
	wsURL := newTestServer(t, hub)
	conn := dial(t, wsURL)
	waitCount(t, hub, 1)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(strings.Repeat("x", 64))))
	waitCount(t, hub, 0)
}

func TestHub_Serve_PongTimeout(t *testing.T) {
	hub := NewHub(nil)
	hub.pongWait = 150 * time.Millisecond
	hub.pingPeriod = 50 * time.Millisecond

	wsURL := newTestServer(t, hub)

	// 持续读取的客户端会自动回复 pong
	alive := dial(t, wsURL)
	go func() {
		for {
			if _, _, err := alive.ReadMessage(); err != nil {
				return
			}
		}
	}()
	waitCount(t, hub, 1)

	// 不读取的客户端无法回复 pong
	dial(t, wsURL)
	waitCount(t, hub, 2)

	waitCount(t, hub, 1)
	time.Sleep(3 * hub.pongWait)
	assert.Equal(t, 1, hub.ConnectionCount())
}
