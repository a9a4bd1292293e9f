package atomspace

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/teranos/chimera/errors"
)

// Kind distinguishes nodes from links.
type Kind string

const (
	KindNode Kind = "node"
	KindLink Kind = "link"
)

// Node types.
const (
	TypeConceptNode        = "ConceptNode"
	TypePredicateNode      = "PredicateNode"
	TypeSchemaNode         = "SchemaNode"
	TypeVariableNode       = "VariableNode"
	TypeNumberNode         = "NumberNode"
	TypeGroundedSchemaNode = "GroundedSchemaNode"
)

// Link types.
const (
	TypeInheritanceLink = "InheritanceLink"
	TypeEvaluationLink  = "EvaluationLink"
	TypeExecutionLink   = "ExecutionLink"
	TypeSimilarityLink  = "SimilarityLink"
	TypeMemberLink      = "MemberLink"
	TypeContextLink     = "ContextLink"
	TypeListLink        = "ListLink"
	TypeAndLink         = "AndLink"
	TypeOrLink          = "OrLink"
	TypeNotLink         = "NotLink"
)

// GroundedFunc is the executable payload of a GroundedSchemaNode. Funcs
// live only in the process that registered them and never survive
// serialization.
type GroundedFunc func(args ...*Atom) (*Atom, error)

// Atom is a typed node or link in the hypergraph. Links reference their
// targets via Outgoing; each target records the link in its incoming set.
type Atom struct {
	ID       string   `db:"id" json:"id"`
	Kind     Kind     `db:"kind" json:"kind"`
	Type     string   `db:"type" json:"type"`
	Name     string   `db:"name" json:"name,omitempty"`
	Outgoing []*Atom  `json:"-"`
	incoming []*Atom
	TV       TruthValue     `json:"tv"`
	AV       AttentionValue `json:"av"`

	// Value is the numeric payload of a NumberNode.
	Value float64 `db:"value" json:"value,omitempty"`
	// Func is the executable payload of a GroundedSchemaNode.
	Func GroundedFunc `json:"-"`
}

// NewNode creates a node atom with a fresh identity and default truth.
func NewNode(atomType, name string) *Atom {
	return &Atom{
		ID:   uuid.NewString(),
		Kind: KindNode,
		Type: atomType,
		Name: name,
		TV:   DefaultTruth(),
	}
}

// NewLink creates a link atom over the given targets.
func NewLink(atomType string, outgoing ...*Atom) *Atom {
	return &Atom{
		ID:       uuid.NewString(),
		Kind:     KindLink,
		Type:     atomType,
		Outgoing: outgoing,
		TV:       DefaultTruth(),
	}
}

// IsNode reports whether the atom is a node.
func (a *Atom) IsNode() bool { return a.Kind == KindNode }

// IsLink reports whether the atom is a link.
func (a *Atom) IsLink() bool { return a.Kind == KindLink }

// Arity returns the number of outgoing targets.
func (a *Atom) Arity() int { return len(a.Outgoing) }

// Incoming returns the links that reference this atom.
func (a *Atom) Incoming() []*Atom {
	out := make([]*Atom, len(a.incoming))
	copy(out, a.incoming)
	return out
}

func (a *Atom) addIncoming(link *Atom) {
	a.incoming = append(a.incoming, link)
}

func (a *Atom) removeIncoming(link *Atom) {
	for i, in := range a.incoming {
		if in == link {
			a.incoming = append(a.incoming[:i], a.incoming[i+1:]...)
			return
		}
	}
}

// String renders the atom in scheme-like notation used throughout logs.
func (a *Atom) String() string {
	if a.IsNode() {
		return fmt.Sprintf("(%s %q <%.2f,%.2f>)", a.Type, a.Name, a.TV.Strength, a.TV.Confidence)
	}
	parts := make([]string, len(a.Outgoing))
	for i, t := range a.Outgoing {
		parts[i] = t.String()
	}
	return fmt.Sprintf("(%s %s <%.2f,%.2f>)", a.Type, strings.Join(parts, " "), a.TV.Strength, a.TV.Confidence)
}

// Convenience node constructors.

func Concept(name string) *Atom        { return NewNode(TypeConceptNode, name) }
func Predicate(name string) *Atom      { return NewNode(TypePredicateNode, name) }
func Schema(name string) *Atom         { return NewNode(TypeSchemaNode, name) }
func Variable(name string) *Atom       { return NewNode(TypeVariableNode, name) }
// Number creates a NumberNode named after its value.
func Number(value float64) *Atom {
	a := NewNode(TypeNumberNode, strconv.FormatFloat(value, 'g', -1, 64))
	a.Value = value
	return a
}

// GroundedSchema creates a GroundedSchemaNode bound to fn.
func GroundedSchema(name string, fn GroundedFunc) *Atom {
	a := NewNode(TypeGroundedSchemaNode, name)
	a.Func = fn
	return a
}

// Execute invokes the atom's grounded function. Atoms loaded from storage
// have no function until one is re-registered.
func (a *Atom) Execute(args ...*Atom) (*Atom, error) {
	if a.Func == nil {
		return nil, errors.Newf("atom %s %q has no grounded function", a.Type, a.Name)
	}
	return a.Func(args...)
}

// Convenience link constructors.

func Inheritance(child, parent *Atom) *Atom {
	return NewLink(TypeInheritanceLink, child, parent)
}

func Evaluation(predicate *Atom, args *Atom) *Atom {
	return NewLink(TypeEvaluationLink, predicate, args)
}

func Execution(schema *Atom, args *Atom) *Atom {
	return NewLink(TypeExecutionLink, schema, args)
}

func Similarity(a, b *Atom) *Atom {
	return NewLink(TypeSimilarityLink, a, b)
}

func Member(element, set *Atom) *Atom {
	return NewLink(TypeMemberLink, element, set)
}

func Context(ctx, rel *Atom) *Atom {
	return NewLink(TypeContextLink, ctx, rel)
}

func List(targets ...*Atom) *Atom { return NewLink(TypeListLink, targets...) }
func And(targets ...*Atom) *Atom  { return NewLink(TypeAndLink, targets...) }
func Or(targets ...*Atom) *Atom   { return NewLink(TypeOrLink, targets...) }
func Not(target *Atom) *Atom      { return NewLink(TypeNotLink, target) }
