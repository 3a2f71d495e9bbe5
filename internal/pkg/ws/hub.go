package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/qs3c/blog_server/internal/pkg/pubsub"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
)

type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex
	log     logrus.FieldLogger

	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
	readLimit  int64
}

type Client struct {
	ID   string
	Conn *websocket.Conn
	mu   sync.Mutex // 写锁，防止并发写入
}

// NewClient 为连接分配唯一 ID
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Conn: conn,
	}
}

func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		log:        log,
		writeWait:  writeWait,
		pongWait:   pongWait,
		pingPeriod: pingPeriod,
		readLimit:  maxMessageSize,
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.log.WithFields(logrus.Fields{
		"client_id": client.ID,
		"total":     len(h.clients),
	}).Debug("websocket client connected")
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	h.log.WithField("client_id", client.ID).Debug("websocket client disconnected")
}

// drop 注销并关闭连接，可重复调用
func (h *Hub) drop(client *Client) {
	h.Unregister(client)
	client.Conn.Close()
}

// Serve 维持连接直到对端断开或心跳超时，返回前注销客户端
// 客户端只需响应 ping，发来的消息被丢弃
func (h *Hub) Serve(client *Client) {
	defer h.drop(client)

	conn := client.Conn
	conn.SetReadLimit(h.readLimit)
	conn.SetReadDeadline(time.Now().Add(h.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go h.ping(client, done)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).WithField("client_id", client.ID).Debug("websocket read failed")
			}
			return
		}
	}
}

func (h *Hub) ping(client *Client, done <-chan struct{}) {
	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(h.writeWait)
			if err := client.Conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				h.drop(client)
				return
			}
		}
	}
}

// Broadcast 向所有连接发送消息，写入失败或超时的连接被移除
func (h *Hub) Broadcast(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	// 复制一份引用，避免长时间持锁
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := h.write(c, data); err != nil {
			h.log.WithError(err).WithField("client_id", c.ID).Warn("websocket write failed")
			h.drop(c)
		}
	}
	return nil
}

func (h *Hub) write(c *Client, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.Conn.SetWriteDeadline(time.Now().Add(h.writeWait)); err != nil {
		return err
	}
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

// Publish 直接广播资源事件，未启用 Redis 时使用
func (h *Hub) Publish(_ context.Context, event *pubsub.Event) error {
	return h.Broadcast(event)
}

// ConnectionCount 获取在线连接数
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
