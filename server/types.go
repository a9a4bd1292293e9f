package server

import (
	"github.com/teranos/chimera/agent"
	"github.com/teranos/chimera/graph"
	"github.com/teranos/chimera/kernel"
)

// CommandMessage is the inbound WebSocket message format.
type CommandMessage struct {
	Type  string         `json:"type"`
	Steps int            `json:"steps,omitempty"`
	Input map[string]any `json:"input,omitempty"`
	Goal  string         `json:"goal,omitempty"`
}

// GraphMessage carries an atomspace graph snapshot.
type GraphMessage struct {
	Type      string       `json:"type"`
	Graph     *graph.Graph `json:"graph"`
	Timestamp int64        `json:"timestamp"`
}

// StatusMessage carries a kernel status snapshot.
type StatusMessage struct {
	Type      string        `json:"type"`
	Status    kernel.Status `json:"status"`
	Timestamp int64         `json:"timestamp"`
}

// ThinkMessage carries the result of one agent think step.
type ThinkMessage struct {
	Type      string           `json:"type"`
	Step      int              `json:"step"`
	Result    agent.StepResult `json:"result"`
	Timestamp int64            `json:"timestamp"`
}

// IntrospectMessage carries an agent self-report.
type IntrospectMessage struct {
	Type          string              `json:"type"`
	Introspection agent.Introspection `json:"introspection"`
	Timestamp     int64               `json:"timestamp"`
}

// ErrorMessage reports a failed command to the client.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
