package graph

import "github.com/teranos/chimera/atomspace"

const (
	// Weight floor so links with vanishing truth strength stay visible
	minLinkWeight = 0.05

	// Default color for atom types outside the palette
	defaultNodeColor = "rgba(149, 165, 166, 0.3)" // Transparent gray
)

// nodeTypeStyle is the visual configuration for one atom type.
type nodeTypeStyle struct {
	label string
	color string
	group int
}

// nodePalette assigns colors and cluster groups per atom type.
var nodePalette = map[string]nodeTypeStyle{
	atomspace.TypeConceptNode:        {"Concept", "#3498db", 1},
	atomspace.TypePredicateNode:      {"Predicate", "#e67e22", 2},
	atomspace.TypeSchemaNode:         {"Schema", "#9b59b6", 3},
	atomspace.TypeVariableNode:       {"Variable", "#95a5a6", 4},
	atomspace.TypeNumberNode:         {"Number", "#1abc9c", 5},
	atomspace.TypeGroundedSchemaNode: {"Grounded Schema", "#8e44ad", 6},
}

// linkPhysics tunes the D3 force layout per link type. Structural links pull
// tighter than evaluative ones.
type linkPhysics struct {
	label    string
	color    string
	distance *float64
	strength *float64
}

func f(v float64) *float64 { return &v }

var linkPalette = map[string]linkPhysics{
	atomspace.TypeInheritanceLink: {"Inherits", "#2c3e50", f(40), f(0.9)},
	atomspace.TypeEvaluationLink:  {"Evaluates", "#e74c3c", f(80), f(0.4)},
	atomspace.TypeExecutionLink:   {"Executes", "#d35400", f(80), f(0.4)},
	atomspace.TypeSimilarityLink:  {"Similar", "#16a085", f(60), f(0.6)},
	atomspace.TypeMemberLink:      {"Member", "#2980b9", f(50), f(0.7)},
	atomspace.TypeContextLink:     {"Context", "#7f8c8d", nil, nil},
	atomspace.TypeListLink:        {"List", "#bdc3c7", nil, nil},
}

// collectNodeTypeInfo counts nodes per type and attaches palette metadata.
func collectNodeTypeInfo(nodes []Node) []NodeTypeInfo {
	counts := make(map[string]int)
	for _, n := range nodes {
		counts[n.Type]++
	}

	infos := make([]NodeTypeInfo, 0, len(counts))
	for _, atomType := range sortedKeys(counts) {
		info := NodeTypeInfo{Type: atomType, Label: atomType, Color: defaultNodeColor, Count: counts[atomType]}
		if style, ok := nodePalette[atomType]; ok {
			info.Label = style.label
			info.Color = style.color
		}
		infos = append(infos, info)
	}
	return infos
}

// collectRelationshipTypeInfo counts links per type and attaches physics.
func collectRelationshipTypeInfo(links []Link) []RelationshipTypeInfo {
	counts := make(map[string]int)
	for _, l := range links {
		counts[l.Type]++
	}

	infos := make([]RelationshipTypeInfo, 0, len(counts))
	for _, linkType := range sortedKeys(counts) {
		info := RelationshipTypeInfo{Type: linkType, Label: linkType, Count: counts[linkType]}
		if physics, ok := linkPalette[linkType]; ok {
			info.Label = physics.label
			info.Color = physics.color
			info.LinkDistance = physics.distance
			info.LinkStrength = physics.strength
		}
		infos = append(infos, info)
	}
	return infos
}
