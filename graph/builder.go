package graph

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/chimera/atomspace"
)

// Builder renders an atomspace as a graph visualization structure.
type Builder struct {
	space  *atomspace.AtomSpace
	logger *zap.SugaredLogger
}

// NewBuilder creates a graph builder over an atomspace.
func NewBuilder(space *atomspace.AtomSpace, logger *zap.SugaredLogger) *Builder {
	return &Builder{
		space:  space,
		logger: logger.Named("graph.builder"),
	}
}

// Build converts the current atomspace contents into a graph. Every node atom
// becomes a graph node; every link atom of arity >= 2 becomes edges from its
// first target to each remaining target, weighted by the link's truth
// strength.
func (b *Builder) Build() *Graph {
	atoms := b.space.Atoms()

	graph := &Graph{
		Nodes: []Node{},
		Links: []Link{},
		Meta: Meta{
			GeneratedAt: time.Now(),
			Config: map[string]string{
				"description": "atomspace hypergraph projection",
			},
		},
	}

	nodeMap := make(map[string]*Node)
	linkMap := make(map[string]*Link)
	inFocus := 0

	for _, atom := range atoms {
		if !atom.IsNode() {
			continue
		}
		group := 0
		if style, ok := nodePalette[atom.Type]; ok {
			group = style.group
		}
		if atom.AV.STI >= b.space.FocusThreshold {
			inFocus++
		}
		nodeMap[atom.ID] = &Node{
			ID:      atom.ID,
			Type:    atom.Type,
			Label:   atom.Name,
			Visible: true,
			Group:   group,
			Metadata: map[string]interface{}{
				"sti":        atom.AV.STI,
				"lti":        atom.AV.LTI,
				"strength":   atom.TV.Strength,
				"confidence": atom.TV.Confidence,
			},
		}
	}

	for _, atom := range atoms {
		if !atom.IsLink() || atom.Arity() < 2 {
			continue
		}
		source := atom.Outgoing[0]
		if _, ok := nodeMap[source.ID]; !ok {
			// Nested links (link targets that are links) are not rendered.
			continue
		}
		weight := atom.TV.Strength
		if weight < minLinkWeight {
			weight = minLinkWeight
		}
		for _, target := range atom.Outgoing[1:] {
			if _, ok := nodeMap[target.ID]; !ok {
				continue
			}
			linkID := fmt.Sprintf("%s_%s_%s", source.ID, atom.Type, target.ID)
			if existing, ok := linkMap[linkID]; ok {
				// Parallel links of the same type stack their strength.
				existing.Weight += weight
				continue
			}
			label := ""
			if physics, ok := linkPalette[atom.Type]; ok {
				label = physics.label
			}
			linkMap[linkID] = &Link{
				Source: source.ID,
				Target: target.ID,
				Type:   atom.Type,
				Weight: weight,
				Label:  label,
			}
		}
	}

	// Deterministic ordering for stable payloads across runs.
	for _, id := range sortedKeys(nodeMap) {
		graph.Nodes = append(graph.Nodes, *nodeMap[id])
	}
	for _, id := range sortedKeys(linkMap) {
		graph.Links = append(graph.Links, *linkMap[id])
	}

	graph.Meta.Stats = Stats{
		TotalNodes: len(graph.Nodes),
		TotalEdges: len(graph.Links),
		InFocus:    inFocus,
	}
	graph.Meta.NodeTypes = collectNodeTypeInfo(graph.Nodes)
	graph.Meta.RelationshipTypes = collectRelationshipTypeInfo(graph.Links)

	b.logger.Debugw("graph built",
		"nodes", graph.Meta.Stats.TotalNodes,
		"edges", graph.Meta.Stats.TotalEdges,
		"in_focus", inFocus,
	)
	return graph
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
