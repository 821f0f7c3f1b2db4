package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/vovakirdan/color-runner/internal/config"
	"github.com/vovakirdan/color-runner/internal/game"
	"github.com/vovakirdan/color-runner/internal/storage"
)

func setupTestServer(t *testing.T, highScores game.HighScoreStore, store *storage.Store) (*Server, *httptest.Server) {
	t.Helper()
	srv := NewServer(Config{TickRate: 240, Game: config.Default()}, highScores, store, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/play"
	ws, err := websocket.Dial(wsURL, "", ts.URL)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

// receiveUntil reads snapshots until match returns true or the deadline passes.
func receiveUntil(t *testing.T, ws *websocket.Conn, timeout time.Duration, match func(game.Snapshot) bool) game.Snapshot {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(timeout)))
	for {
		var snap game.Snapshot
		err := websocket.JSON.Receive(ws, &snap)
		require.NoError(t, err, "no matching snapshot before the deadline")
		if match(snap) {
			return snap
		}
	}
}

func TestHandleHealth(t *testing.T) {
	_, ts := setupTestServer(t, nil, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))
}

func TestHandleConfig(t *testing.T) {
	_, ts := setupTestServer(t, game.NewMemoryHighScores(17), nil)

	resp, err := http.Get(ts.URL + "/config")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var cfg ClientConfig
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	assert.Equal(t, 400.0, cfg.Width)
	assert.Equal(t, 700.0, cfg.Height)
	assert.Equal(t, 30.0, cfg.BallSize)
	assert.Equal(t, 100.0, cfg.GapWidth)
	assert.Len(t, cfg.Palette, 4)
	assert.Equal(t, 240, cfg.TickRate)
	assert.Equal(t, 17, cfg.HighScore)
}

func TestHandleConfigRejectsPost(t *testing.T) {
	_, ts := setupTestServer(t, nil, nil)

	resp, err := http.Post(ts.URL+"/config", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestPlaySendsWaitingSnapshot(t *testing.T) {
	_, ts := setupTestServer(t, game.NewMemoryHighScores(3), nil)
	ws := dial(t, ts)

	snap := receiveUntil(t, ws, 2*time.Second, func(game.Snapshot) bool { return true })
	assert.Equal(t, game.PhaseWaiting, snap.Phase)
	assert.Equal(t, 3, snap.HighScore)
	assert.Empty(t, snap.Obstacles)
}

func TestPlayRunLifecycle(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	_, ts := setupTestServer(t, nil, store)
	ws := dial(t, ts)
	receiveUntil(t, ws, 2*time.Second, func(s game.Snapshot) bool { return s.Phase == game.PhaseWaiting })

	require.NoError(t, websocket.JSON.Send(ws, ClientMessage{Type: MessageJump}))
	started := receiveUntil(t, ws, 2*time.Second, func(s game.Snapshot) bool { return s.Phase == game.PhasePlaying })
	assert.Equal(t, 1, started.Run)
	assert.Len(t, started.Obstacles, 1)
	assert.Len(t, started.Switchers, 1)

	// An idle ball falls to the floor.
	over := receiveUntil(t, ws, 5*time.Second, func(s game.Snapshot) bool { return s.Phase == game.PhaseGameOver })
	assert.Equal(t, "boundary", over.EndedBy)
	assert.Greater(t, over.Frame, 0)

	require.Eventually(t, func() bool {
		runs, err := store.RecentScores(storage.GameID, 10)
		return err == nil && len(runs) == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestPlayIgnoresUnknownMessages(t *testing.T) {
	_, ts := setupTestServer(t, nil, nil)
	ws := dial(t, ts)
	receiveUntil(t, ws, 2*time.Second, func(game.Snapshot) bool { return true })

	require.NoError(t, websocket.JSON.Send(ws, ClientMessage{Type: "dance"}))
	require.NoError(t, websocket.JSON.Send(ws, ClientMessage{Type: MessageJump}))

	snap := receiveUntil(t, ws, 2*time.Second, func(s game.Snapshot) bool { return s.Phase == game.PhasePlaying })
	assert.Equal(t, 1, snap.Run)
}

func TestPlaySessionsAreIndependent(t *testing.T) {
	srv, ts := setupTestServer(t, nil, nil)
	a := dial(t, ts)
	b := dial(t, ts)
	receiveUntil(t, a, 2*time.Second, func(game.Snapshot) bool { return true })
	receiveUntil(t, b, 2*time.Second, func(game.Snapshot) bool { return true })
	assert.Equal(t, 2, srv.Sessions())

	require.NoError(t, websocket.JSON.Send(a, ClientMessage{Type: MessageJump}))
	receiveUntil(t, a, 2*time.Second, func(s game.Snapshot) bool { return s.Phase == game.PhasePlaying })

	// b never jumped, so it gets no further snapshots.
	require.NoError(t, b.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var snap game.Snapshot
	assert.Error(t, websocket.JSON.Receive(b, &snap))
}

func TestPlaySessionEndsOnDisconnect(t *testing.T) {
	srv, ts := setupTestServer(t, nil, nil)
	ws := dial(t, ts)
	receiveUntil(t, ws, 2*time.Second, func(game.Snapshot) bool { return true })
	require.Equal(t, 1, srv.Sessions())

	ws.Close()
	assert.Eventually(t, func() bool { return srv.Sessions() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServerCloseEndsSessions(t *testing.T) {
	srv, ts := setupTestServer(t, nil, nil)
	ws := dial(t, ts)
	receiveUntil(t, ws, 2*time.Second, func(game.Snapshot) bool { return true })

	srv.Close()
	assert.Eventually(t, func() bool { return srv.Sessions() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServerWaitOutlastsSessions(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()
	keeper := storage.NewHighScoreKeeper(store, storage.GameID, nil)

	srv, ts := setupTestServer(t, keeper, store)
	ws := dial(t, ts)
	require.NoError(t, websocket.JSON.Send(ws, ClientMessage{Type: MessageJump}))
	receiveUntil(t, ws, 2*time.Second, func(s game.Snapshot) bool { return s.Phase == game.PhasePlaying })

	srv.Close()
	waited := make(chan struct{})
	go func() {
		srv.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after Close")
	}
	assert.Equal(t, 0, srv.Sessions())

	// Nothing may write through the keeper once it is closed.
	keeper.Close()

	late := dial(t, ts)
	require.NoError(t, late.SetReadDeadline(time.Now().Add(2*time.Second)))
	var snap game.Snapshot
	assert.Error(t, websocket.JSON.Receive(late, &snap), "a closed server must not start new games")
}
