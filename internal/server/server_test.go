package server

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravballs/internal/automation"
	"github.com/san-kum/gravballs/internal/physics"
	"github.com/san-kum/gravballs/internal/sim"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	sc := physics.DefaultScene()
	sc.InitialBalls = 3
	w := physics.NewWorld(sc, rand.New(rand.NewSource(1)))
	w.Reset()

	srv := New(sim.New(w), 30, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, srv *Server, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return srv.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func sceneOf(srv *Server) physics.Scene {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return *srv.sim.World().Scene()
}

func TestFrameEndpoint(t *testing.T) {
	srv, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/frame")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	srv.Tick()

	resp, err = http.Get(ts.URL + "/frame")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var f Frame
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&f))
	assert.Equal(t, uint64(1), f.Seq)
	assert.Len(t, f.Balls, 3)
	assert.InDelta(t, 1.0/30, f.Time, 1e-12)
}

func TestOpsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/ops")
	require.NoError(t, err)
	defer resp.Body.Close()

	var ops []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ops))
	assert.Equal(t, automation.Ops(), ops)
}

func TestWebSocketStreamsFrames(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, srv, ts)

	srv.Tick()
	srv.Tick()

	first := readFrame(t, conn)
	second := readFrame(t, conn)
	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, uint64(2), second.Seq)
	assert.Greater(t, second.Time, first.Time)
	assert.Len(t, second.Balls, 3)
}

func TestWebSocketActions(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, srv, ts)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(automation.Action{Op: "explode"}))
	require.NoError(t, conn.WriteJSON(automation.Action{Op: "toggle_black_hole"}))
	require.NoError(t, conn.WriteJSON(automation.Action{Op: "gravity", Value: -2}))

	require.Eventually(t, func() bool {
		sc := sceneOf(srv)
		return sc.BlackHole && sc.Gravity == -2
	}, 2*time.Second, 5*time.Millisecond)

	// bad messages do not drop the viewer
	assert.Equal(t, 1, srv.Clients())
	srv.Tick()
	f := readFrame(t, conn)
	assert.True(t, f.Scene.BlackHole)
}

func TestClientDisconnect(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, srv, ts)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return srv.Clients() == 0 }, 2*time.Second, 5*time.Millisecond)
	srv.Tick()
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	sc := physics.DefaultScene()
	srv := New(sim.New(physics.NewWorld(sc, rand.New(rand.NewSource(1)))), 60, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
