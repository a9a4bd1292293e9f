// Package server exposes the cognitive state over HTTP and WebSocket: a live
// graph feed of the atomspace, kernel status, and agent think-cycle events.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/chimera/agent"
	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/graph"
	"github.com/teranos/chimera/kernel"
)

const (
	// MaxClients bounds concurrent WebSocket connections.
	MaxClients = 64

	// statusInterval is how often kernel status is pushed to clients.
	statusInterval = 2 * time.Second

	// Graph rebuilds are throttled: at most one broadcast per graphRefreshEvery,
	// with bursts of graphRefreshBurst when the space has been quiet.
	graphRefreshEvery  = 500 * time.Millisecond
	graphRefreshBurst  = 2
	refreshCheckPeriod = 100 * time.Millisecond
)

// Config holds the server's listen and origin settings.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// Server broadcasts cognitive state to WebSocket clients and serves JSON
// snapshots over HTTP.
type Server struct {
	cfg     Config
	kernel  *kernel.Kernel
	agent   *agent.Agent
	agentMu sync.Mutex
	builder *graph.Builder

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	limiter     *rate.Limiter
	spaceDirty  atomic.Bool
	lastGraph   *graph.Graph
	lastStatus  *kernel.Status
	broadcastWg sync.WaitGroup

	httpServer *http.Server
	logger     *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a server over a booted kernel and its agent. The agent may be
// nil; agent endpoints then report not found.
func New(cfg Config, k *kernel.Kernel, a *agent.Agent, logger *zap.SugaredLogger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:        cfg,
		kernel:     k,
		agent:      a,
		builder:    graph.NewBuilder(k.Space, logger),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		limiter:    rate.NewLimiter(rate.Every(graphRefreshEvery), graphRefreshBurst),
		logger:     logger.Named("server"),
		ctx:        ctx,
		cancel:     cancel,
	}

	// Any atomspace mutation marks the graph stale; the refresh loop
	// rebuilds and broadcasts at a bounded rate.
	k.Space.Observe(func(atomspace.Event) {
		s.spaceDirty.Store(true)
	})
	return s
}

// Start begins serving. It blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.broadcastWg.Add(3)
	go s.runClientRegistry()
	go s.runStatusBroadcaster()
	go s.runGraphRefresher()

	s.logger.Infow("server listening",
		"port", s.cfg.Port,
		"kernel", s.kernel.Name,
	)

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains clients and stops the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	for client := range s.clients {
		client.close()
		delete(s.clients, client)
	}
	s.mu.Unlock()

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.broadcastWg.Wait()
	s.logger.Infow("server stopped")
	return err
}

// The agent is a single shared mind driven from many client read pumps, so
// every call into it is serialized behind agentMu.

func (s *Server) thinkStep(input map[string]any) (agent.StepResult, int) {
	s.agentMu.Lock()
	defer s.agentMu.Unlock()
	result := s.agent.Think(input)
	return result, s.agent.StepCount
}

func (s *Server) introspectAgent() agent.Introspection {
	s.agentMu.Lock()
	defer s.agentMu.Unlock()
	return s.agent.Introspect()
}

func (s *Server) setAgentGoal(goal string) {
	s.agentMu.Lock()
	defer s.agentMu.Unlock()
	s.agent.SetGoal(goal)
}

// runClientRegistry owns the client set.
func (s *Server) runClientRegistry() {
	defer s.broadcastWg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case client := <-s.register:
			s.handleRegister(client)
		case client := <-s.unregister:
			s.handleUnregister(client)
		}
	}
}

func (s *Server) handleRegister(client *Client) {
	s.mu.Lock()
	if len(s.clients) >= MaxClients {
		s.mu.Unlock()
		s.logger.Warnw("max clients reached, rejecting connection",
			"client_id", client.id,
			"max_clients", MaxClients,
		)
		client.close()
		return
	}
	s.clients[client] = true
	total := len(s.clients)
	cached := s.lastGraph
	s.mu.Unlock()

	s.logger.Infow("client connected",
		"client_id", client.id,
		"total_clients", total,
	)

	// New clients immediately see the last known graph.
	if cached != nil {
		client.sendJSON(GraphMessage{Type: "graph", Graph: cached, Timestamp: time.Now().Unix()})
	}
}

func (s *Server) handleUnregister(client *Client) {
	s.mu.Lock()
	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		client.close()
	}
	total := len(s.clients)
	s.mu.Unlock()

	s.logger.Infow("client disconnected",
		"client_id", client.id,
		"total_clients", total,
	)
}

func (s *Server) hasClients() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients) > 0
}

// broadcastMessage sends a message to all connected clients. Returns the
// number of clients that accepted the message (channel not full).
func (s *Server) broadcastMessage(msg interface{}) int {
	s.mu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	sent := 0
	for _, client := range clients {
		select {
		case client.send <- msg:
			sent++
		default:
			// Channel full - skip
		}
	}
	return sent
}

// runStatusBroadcaster periodically pushes kernel status to clients,
// skipping broadcasts when nothing meaningful changed.
func (s *Server) runStatusBroadcaster() {
	defer s.broadcastWg.Done()
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if !s.hasClients() {
				continue
			}
			status := s.kernel.Status()
			if !s.statusChanged(&status) {
				continue
			}
			s.mu.Lock()
			s.lastStatus = &status
			s.mu.Unlock()

			sent := s.broadcastMessage(StatusMessage{
				Type:      "kernel_status",
				Status:    status,
				Timestamp: time.Now().Unix(),
			})
			s.logger.Debugw("broadcast kernel status",
				"atomspace_size", status.AtomSpaceSize,
				"processes", status.ProcessCount,
				"clients", sent,
			)
		}
	}
}

func (s *Server) statusChanged(status *kernel.Status) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	last := s.lastStatus
	if last == nil {
		return true
	}
	return last.AtomSpaceSize != status.AtomSpaceSize ||
		last.ProcessCount != status.ProcessCount ||
		last.Running != status.Running ||
		last.Stats != status.Stats
}

// runGraphRefresher rebuilds the graph after atomspace mutations, rate
// limited so bursts of atom churn collapse into few broadcasts.
func (s *Server) runGraphRefresher() {
	defer s.broadcastWg.Done()
	ticker := time.NewTicker(refreshCheckPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if !s.spaceDirty.Load() || !s.hasClients() {
				continue
			}
			if !s.limiter.Allow() {
				continue
			}
			s.spaceDirty.Store(false)

			g := s.builder.Build()
			s.mu.Lock()
			s.lastGraph = g
			s.mu.Unlock()

			sent := s.broadcastMessage(GraphMessage{
				Type:      "graph",
				Graph:     g,
				Timestamp: time.Now().Unix(),
			})
			s.logger.Debugw("broadcast graph",
				"nodes", g.Meta.Stats.TotalNodes,
				"edges", g.Meta.Stats.TotalEdges,
				"clients", sent,
			)
		}
	}
}

// checkOrigin validates an Origin header against the configured allow list.
// Requests without an Origin header (direct WebSocket clients, tests) pass.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(s.cfg.AllowedOrigins) == 0 {
		return strings.HasPrefix(origin, "http://localhost") ||
			strings.HasPrefix(origin, "https://localhost")
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	return false
}
