package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/blog_server/config"
	"github.com/qs3c/blog_server/internal/pkg/pubsub"
	"github.com/qs3c/blog_server/internal/testutil"
)

func setupApp(t *testing.T, opts ...Option) *App {
	t.Helper()

	cfg, err := config.Load("", config.EnvTesting)
	require.NoError(t, err)

	db := testutil.SetupTestDB(t)
	log, _ := test.NewNullLogger()

	a, err := New(context.Background(), cfg, append([]Option{WithDB(db), WithLogger(log)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() {
		a.Close()
		testutil.CleanupTestDB(t, db)
	})
	return a
}

func request(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestApp_BlogFlow(t *testing.T) {
	a := setupApp(t)
	h := a.Handler()

	// 空表返回 404
	w := request(t, h, "GET", "/post", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Resource not found"}`, w.Body.String())

	w = request(t, h, "POST", "/user", []map[string]interface{}{
		{"email": "author@example.com", "user_profile": map[string]interface{}{"first_name": "Jane", "last_name": "Austen"}},
		{"email": "reader@example.com"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var users []map[string]interface{}
	decode(t, w, &users)
	authorID, readerID := int64(users[0]["id"].(float64)), int64(users[1]["id"].(float64))

	w = request(t, h, "POST", "/post", []map[string]interface{}{
		{"slug": "pride", "title": "Pride", "body": "It is a truth...", "author_id": authorID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var posts []map[string]interface{}
	decode(t, w, &posts)
	postID := int64(posts[0]["id"].(float64))

	w = request(t, h, "POST", "/user_rating", []map[string]interface{}{
		{"rating": 5, "rated_by": readerID, "post_id": postID},
		{"rating": 3, "rated_by": authorID, "post_id": postID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = request(t, h, "POST", "/comment", []map[string]interface{}{
		{"body": "Lovely", "post_id": postID, "commented_by": readerID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var post map[string]interface{}
	decode(t, request(t, h, "GET", "/post/pride", nil), &post)
	assert.InDelta(t, 4.0, post["avg_rating"], 0.001)
	assert.Equal(t, float64(1), post["total_comments"])
	assert.Equal(t, "Jane Austen", post["author"].(map[string]interface{})["name"])

	// 删除作者后文章保留，author 置空
	w = request(t, h, "DELETE", fmt.Sprintf("/user/%d", authorID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	decode(t, request(t, h, "GET", fmt.Sprintf("/post/%d", postID), nil), &post)
	assert.Nil(t, post["author"])
	// 评分保留，rated_by 置空
	assert.InDelta(t, 4.0, post["avg_rating"], 0.001)
}

func TestApp_AmbientRoutes(t *testing.T) {
	a := setupApp(t)
	h := a.Handler()

	w := request(t, h, "GET", "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	request(t, h, "GET", "/user", nil)
	w = request(t, h, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "blog_http_requests_total")
	assert.Contains(t, w.Body.String(), `path="/user"`)

	req := httptest.NewRequest("OPTIONS", "/post", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func dialWS(t *testing.T, a *App) (*websocket.Conn, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return a.hub.ConnectionCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	return conn, srv
}

func readEvent(t *testing.T, conn *websocket.Conn) *pubsub.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var event pubsub.Event
	require.NoError(t, conn.ReadJSON(&event))
	return &event
}

func TestApp_EventsToWebSocket(t *testing.T) {
	a := setupApp(t)
	conn, srv := dialWS(t, a)

	body := `[{"name":"moderator"}]`
	resp, err := http.Post(srv.URL+"/role", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	event := readEvent(t, conn)
	assert.Equal(t, pubsub.EventType, event.Type)
	assert.Equal(t, "role", event.Resource)
	assert.Equal(t, pubsub.ActionCreated, event.Action)
	assert.NotZero(t, event.ID)
}

func TestApp_EventsThroughRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	a := setupApp(t, WithRedis(client))
	require.NotNil(t, a.relay)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.StartWorkers(ctx)

	channel := a.cfg.Redis.Channel
	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, channel).Result()
		return err == nil && n[channel] > 0
	}, 2*time.Second, 10*time.Millisecond)

	conn, _ := dialWS(t, a)

	user := testutil.TestUser(t, a.DB())
	w := request(t, a.Handler(), "DELETE", fmt.Sprintf("/user/%d", user.ID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	event := readEvent(t, conn)
	assert.Equal(t, "user", event.Resource)
	assert.Equal(t, pubsub.ActionDeleted, event.Action)
	assert.Equal(t, user.ID, event.ID)
}

func TestApp_EventsDisabled(t *testing.T) {
	cfg, err := config.Load("", config.EnvTesting)
	require.NoError(t, err)
	cfg.Features.Events = false
	cfg.Features.Metrics = false

	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	log, _ := test.NewNullLogger()

	a, err := New(context.Background(), cfg, WithDB(db), WithLogger(log))
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.relay)
	assert.Equal(t, http.StatusNotFound, request(t, a.Handler(), "GET", "/metrics", nil).Code)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	cfg, err := config.Load("", config.EnvTesting)
	require.NoError(t, err)
	cfg.Database.Driver = "oracle"

	log, _ := test.NewNullLogger()
	_, err = New(context.Background(), cfg, WithLogger(log))
	assert.Error(t, err)
}

func TestApp_DebugFeature(t *testing.T) {
	cfg, err := config.Load("", config.EnvTesting)
	require.NoError(t, err)
	cfg.Server.Mode = gin.ReleaseMode
	cfg.Features.Debug = true

	log, _ := test.NewNullLogger()
	log.SetLevel(logrus.InfoLevel)
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	a, err := New(context.Background(), cfg, WithDB(db), WithLogger(log))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.Equal(t, gin.DebugMode, gin.Mode())
}
