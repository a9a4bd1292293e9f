package onto

import (
	"sort"
	"strings"

	"github.com/teranos/chimera/atomspace"
)

// RootedTree is an unlabeled rooted tree, the structural unit the ontogenetic
// layer builds everything from.
type RootedTree struct {
	Children       []*RootedTree
	Label          string
	Order          int
	SymmetryFactor int64
}

// NewLeaf returns a single-vertex tree.
func NewLeaf(label string) *RootedTree {
	return &RootedTree{Label: label, Order: 1, SymmetryFactor: 1}
}

// IsLeaf reports whether the tree has no children.
func (t *RootedTree) IsLeaf() bool { return len(t.Children) == 0 }

// ComputeOrder recomputes and returns the number of vertices.
func (t *RootedTree) ComputeOrder() int {
	order := 1
	for _, child := range t.Children {
		order += child.ComputeOrder()
	}
	t.Order = order
	return order
}

// ComputeSymmetry recomputes and returns the symmetry factor
// σ(τ) = order · Π σ(child) · Π m_i! over isomorphism classes of children.
func (t *RootedTree) ComputeSymmetry() int64 {
	if t.IsLeaf() {
		t.SymmetryFactor = 1
		return 1
	}

	counts := make(map[string]int64)
	for _, child := range t.Children {
		counts[child.CanonicalForm()]++
	}

	result := int64(t.Order)
	for _, child := range t.Children {
		result *= child.ComputeSymmetry()
	}
	for _, count := range counts {
		result *= factorial(count)
	}

	t.SymmetryFactor = result
	return result
}

func factorial(n int64) int64 {
	result := int64(1)
	for i := int64(2); i <= n; i++ {
		result *= i
	}
	return result
}

// CanonicalForm returns the sorted parenthesization of the tree, identical
// for isomorphic trees.
func (t *RootedTree) CanonicalForm() string {
	if t.IsLeaf() {
		return "()"
	}
	forms := make([]string, len(t.Children))
	for i, child := range t.Children {
		forms[i] = child.CanonicalForm()
	}
	sort.Strings(forms)
	return "(" + strings.Join(forms, "") + ")"
}

// ToAtomSpace projects the tree into the space: one ConceptNode per vertex
// linked to its parent by an InheritanceLink. The symmetry factor sets the
// attention (high symmetry draws less attention) and the order sets both
// long-term importance and confidence.
func (t *RootedTree) ToAtomSpace(space *atomspace.AtomSpace, parent *atomspace.Atom) *atomspace.Atom {
	av := atomspace.AttentionValue{
		STI:  1 / float64(t.SymmetryFactor),
		LTI:  float64(t.Order),
		VLTI: t.Order >= 4,
	}
	tv := atomspace.SimpleTruth(1.0, 1-1/float64(t.Order+1))

	node := atomspace.Concept(t.Label)
	node.TV = tv
	node.AV = av
	node = space.Add(node)

	if parent != nil {
		link := atomspace.Inheritance(node, parent)
		link.TV = tv
		link.AV = av
		space.Add(link)
	}

	for _, child := range t.Children {
		child.ToAtomSpace(space, node)
	}
	return node
}

// FromAtomSpace reconstructs a tree from its root node by walking incoming
// InheritanceLinks downward.
func FromAtomSpace(root *atomspace.Atom) *RootedTree {
	var children []*RootedTree
	for _, link := range root.Incoming() {
		if link.Type != atomspace.TypeInheritanceLink || link.Arity() != 2 {
			continue
		}
		if link.Outgoing[1] == root && link.Outgoing[0] != root {
			children = append(children, FromAtomSpace(link.Outgoing[0]))
		}
	}

	tree := &RootedTree{Children: children, Label: root.Name}
	tree.ComputeOrder()
	tree.ComputeSymmetry()
	return tree
}
