package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/logger"
)

func buildTestSpace(t *testing.T) *atomspace.AtomSpace {
	t.Helper()
	space := atomspace.NewAtomSpace()

	cat := space.Add(atomspace.Concept("cat"))
	animal := space.Add(atomspace.Concept("animal"))

	inh := atomspace.Inheritance(cat, animal)
	inh.TV = atomspace.SimpleTruth(0.8, 0.9)
	space.Add(inh)

	return space
}

func TestBuildNodesAndLinks(t *testing.T) {
	space := buildTestSpace(t)
	g := NewBuilder(space, logger.Logger).Build()

	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Links, 1)

	link := g.Links[0]
	assert.Equal(t, atomspace.TypeInheritanceLink, link.Type)
	assert.InDelta(t, 0.8, link.Weight, 1e-9)
	assert.Equal(t, "Inherits", link.Label)

	for _, n := range g.Nodes {
		assert.Equal(t, atomspace.TypeConceptNode, n.Type)
		assert.True(t, n.Visible)
		assert.Equal(t, 1, n.Group)
		assert.Contains(t, n.Metadata, "sti")
		assert.Contains(t, n.Metadata, "confidence")
	}
}

func TestBuildMeta(t *testing.T) {
	space := buildTestSpace(t)
	g := NewBuilder(space, logger.Logger).Build()

	assert.Equal(t, 2, g.Meta.Stats.TotalNodes)
	assert.Equal(t, 1, g.Meta.Stats.TotalEdges)
	assert.False(t, g.Meta.GeneratedAt.IsZero())

	require.Len(t, g.Meta.NodeTypes, 1)
	assert.Equal(t, atomspace.TypeConceptNode, g.Meta.NodeTypes[0].Type)
	assert.Equal(t, 2, g.Meta.NodeTypes[0].Count)

	require.Len(t, g.Meta.RelationshipTypes, 1)
	rel := g.Meta.RelationshipTypes[0]
	assert.Equal(t, atomspace.TypeInheritanceLink, rel.Type)
	assert.Equal(t, 1, rel.Count)
	require.NotNil(t, rel.LinkDistance)
	assert.Equal(t, 40.0, *rel.LinkDistance)
}

func TestBuildNaryLinkFansOut(t *testing.T) {
	space := atomspace.NewAtomSpace()
	pred := space.Add(atomspace.Predicate("likes"))
	a := space.Add(atomspace.Concept("alice"))
	b := space.Add(atomspace.Concept("bob"))
	space.Add(atomspace.NewLink(atomspace.TypeEvaluationLink, pred, a, b))

	g := NewBuilder(space, logger.Logger).Build()

	// predicate -> alice and predicate -> bob
	require.Len(t, g.Links, 2)
	for _, l := range g.Links {
		assert.Equal(t, pred.ID, l.Source)
		assert.Equal(t, atomspace.TypeEvaluationLink, l.Type)
	}
}

func TestBuildWeightFloor(t *testing.T) {
	space := atomspace.NewAtomSpace()
	a := space.Add(atomspace.Concept("a"))
	b := space.Add(atomspace.Concept("b"))
	inh := atomspace.Inheritance(a, b)
	inh.TV = atomspace.SimpleTruth(0.0, 0.9)
	space.Add(inh)

	g := NewBuilder(space, logger.Logger).Build()

	require.Len(t, g.Links, 1)
	assert.Equal(t, minLinkWeight, g.Links[0].Weight)
}

func TestBuildEmptySpace(t *testing.T) {
	g := NewBuilder(atomspace.NewAtomSpace(), logger.Logger).Build()

	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Links)
	assert.Equal(t, 0, g.Meta.Stats.TotalNodes)
}
