package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/chimera/agent"
	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/kernel"
	"github.com/teranos/chimera/logger"
)

func newTestServer(t *testing.T, withAgent bool) *Server {
	t.Helper()
	k := kernel.New("test", 4)
	k.Boot()
	t.Cleanup(k.Shutdown)

	var a *agent.Agent
	if withAgent {
		a = agent.New("tester")
	}
	return New(Config{Port: 0}, k, a, logger.Logger)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, false)

	rec := httptest.NewRecorder()
	s.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["kernel"])
	assert.Equal(t, "dev", body["version"])
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t, false)

	rec := httptest.NewRecorder()
	s.HandleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var status kernel.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "test", status.Name)
	assert.True(t, status.Running)
	assert.Greater(t, status.AtomSpaceSize, 0)
}

func TestHandleStatusRejectsPost(t *testing.T) {
	s := newTestServer(t, false)

	rec := httptest.NewRecorder()
	s.HandleStatus(rec, httptest.NewRequest(http.MethodPost, "/api/status", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleGraph(t *testing.T) {
	s := newTestServer(t, false)
	s.kernel.Space.Add(atomspace.Inheritance(
		atomspace.Concept("cat"),
		atomspace.Concept("animal"),
	))

	rec := httptest.NewRecorder()
	s.HandleGraph(rec, httptest.NewRequest(http.MethodGet, "/api/graph", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Nodes []json.RawMessage `json:"nodes"`
		Links []json.RawMessage `json:"links"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.NotEmpty(t, payload.Nodes)
	assert.NotEmpty(t, payload.Links)
}

func TestHandleAgent(t *testing.T) {
	s := newTestServer(t, true)

	rec := httptest.NewRecorder()
	s.HandleAgent(rec, httptest.NewRequest(http.MethodGet, "/api/agent", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var intro agent.Introspection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &intro))
	assert.Equal(t, "tester", intro.Name)
}

func TestHandleAgentWithoutAgent(t *testing.T) {
	s := newTestServer(t, false)

	rec := httptest.NewRecorder()
	s.HandleAgent(rec, httptest.NewRequest(http.MethodGet, "/api/agent", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckOrigin(t *testing.T) {
	s := newTestServer(t, false)
	s.cfg.AllowedOrigins = []string{"http://example.com"}

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, s.checkOrigin(req), "no origin header passes")

	req.Header.Set("Origin", "http://example.com:8080")
	assert.True(t, s.checkOrigin(req))

	req.Header.Set("Origin", "http://evil.com")
	assert.False(t, s.checkOrigin(req))
}

func TestCheckOriginDefaultsToLocalhost(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, s.checkOrigin(req))

	req.Header.Set("Origin", "http://remote.host")
	assert.False(t, s.checkOrigin(req))
}

func TestWebSocketStatusCommand(t *testing.T) {
	s := newTestServer(t, true)
	s.broadcastWg.Add(1)
	go s.runClientRegistry()
	defer s.cancel()

	mux := http.NewServeMux()
	s.setupRoutes(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(CommandMessage{Type: "status"}))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg StatusMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "kernel_status", msg.Type)
	assert.Equal(t, "test", msg.Status.Name)
}

func TestWebSocketThinkCommand(t *testing.T) {
	s := newTestServer(t, true)
	s.broadcastWg.Add(1)
	go s.runClientRegistry()
	defer s.cancel()

	mux := http.NewServeMux()
	s.setupRoutes(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(CommandMessage{Type: "think", Steps: 2}))

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	for i := 1; i <= 2; i++ {
		var msg ThinkMessage
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "think_step", msg.Type)
		assert.Equal(t, i, msg.Step)
	}
}

func TestConcurrentThinkSteps(t *testing.T) {
	s := newTestServer(t, true)

	// Several read pumps driving the shared agent at once must still
	// produce distinct, gap-free step numbers.
	const clients, stepsEach = 8, 5
	steps := make(chan int, clients*stepsEach)
	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < stepsEach; j++ {
				_, step := s.thinkStep(nil)
				steps <- step
			}
		}()
	}
	wg.Wait()
	close(steps)

	seen := make(map[int]bool)
	for step := range steps {
		assert.False(t, seen[step], "step %d reported twice", step)
		seen[step] = true
	}
	assert.Equal(t, clients*stepsEach, s.agent.StepCount)
}

func TestShutdownClosesClients(t *testing.T) {
	s := newTestServer(t, false)
	s.broadcastWg.Add(1)
	go s.runClientRegistry()

	client := &Client{server: s, send: make(chan interface{}, 1), id: "c1"}
	s.register <- client

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.Empty(t, s.clients)
}
