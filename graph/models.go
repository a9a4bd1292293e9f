package graph

import (
	"time"
)

// Graph is the complete structure handed to the visualization frontend.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
	Meta  Meta   `json:"meta"`
}

// Node represents one atomspace node in the graph.
type Node struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`            // Atom type ("ConceptNode", "PredicateNode", ...)
	Label    string                 `json:"label"`           // Display label (atom name)
	Visible  bool                   `json:"visible"`         // Backend controls visibility
	Group    int                    `json:"group,omitempty"` // For coloring/clustering (from type palette)
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Link represents a relationship between nodes.
type Link struct {
	Source string  `json:"source"` // Node ID
	Target string  `json:"target"` // Node ID
	Type   string  `json:"type"`   // Link atom type (e.g., "InheritanceLink")
	Weight float64 `json:"value"`  // Link strength from its truth value (D3 uses "value")
	Label  string  `json:"label,omitempty"`
}

// Meta contains metadata about the graph.
type Meta struct {
	GeneratedAt       time.Time              `json:"generated_at"`
	Stats             Stats                  `json:"stats"`
	Config            map[string]string      `json:"config"`
	NodeTypes         []NodeTypeInfo         `json:"node_types"`
	RelationshipTypes []RelationshipTypeInfo `json:"relationship_types"`
}

// NodeTypeInfo describes an atom type and its visual configuration.
type NodeTypeInfo struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
	Count int    `json:"count,omitempty"`
}

// RelationshipTypeInfo describes a link type with physics configuration.
type RelationshipTypeInfo struct {
	Type         string   `json:"type"`
	Label        string   `json:"label"`
	Color        string   `json:"color,omitempty"`
	LinkDistance *float64 `json:"link_distance,omitempty"` // D3 force distance override (nil = use default)
	LinkStrength *float64 `json:"link_strength,omitempty"` // D3 force strength override (nil = use default)
	Count        int      `json:"count,omitempty"`
}

// Stats provides graph statistics.
type Stats struct {
	TotalNodes int `json:"total_nodes,omitempty"`
	TotalEdges int `json:"total_edges,omitempty"`
	InFocus    int `json:"in_focus,omitempty"` // Nodes above the attentional focus threshold
}
