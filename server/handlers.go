package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/teranos/chimera/version"
)

// setupRoutes configures all HTTP handlers on the given mux.
func (s *Server) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.corsMiddleware(s.HandleWebSocket))
	mux.HandleFunc("/health", s.corsMiddleware(s.HandleHealth))
	mux.HandleFunc("/api/graph", s.corsMiddleware(s.HandleGraph))
	mux.HandleFunc("/api/status", s.corsMiddleware(s.HandleStatus))
	mux.HandleFunc("/api/agent", s.corsMiddleware(s.HandleAgent))
}

// corsMiddleware adds CORS headers using the configured allowed origins.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.checkOrigin(r) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// HandleWebSocket upgrades the connection and attaches a client to the feed.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     s.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		server: s,
		conn:   conn,
		send:   make(chan interface{}, sendQueueSize),
		id:     uuid.NewString()[:8],
	}

	s.register <- client
	go client.writePump()
	go client.readPump()
}

// HandleHealth reports liveness.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"kernel":  s.kernel.Name,
		"running": s.kernel.Status().Running,
		"version": version.Get().Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleGraph returns the current atomspace as a visualization payload.
func (s *Server) HandleGraph(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	g := s.builder.Build()

	s.mu.Lock()
	s.lastGraph = g
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, g)
}

// HandleStatus returns the kernel status snapshot.
func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.kernel.Status())
}

// HandleAgent returns the agent's introspection report.
func (s *Server) HandleAgent(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if s.agent == nil {
		writeError(w, http.StatusNotFound, "no agent attached")
		return
	}
	writeJSON(w, http.StatusOK, s.introspectAgent())
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// requireMethod checks if the request method matches the expected method.
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}
