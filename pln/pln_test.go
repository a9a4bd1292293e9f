package pln

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/errors"
)

func chainedPremises(t *testing.T, space *atomspace.AtomSpace) (ab, bc *atomspace.Atom) {
	t.Helper()
	a := space.Add(atomspace.Concept("A"))
	b := space.Add(atomspace.Concept("B"))
	c := space.Add(atomspace.Concept("C"))

	ab = atomspace.Inheritance(a, b)
	ab.TV = atomspace.SimpleTruth(0.8, 0.9)
	ab = space.Add(ab)

	bc = atomspace.Inheritance(b, c)
	bc.TV = atomspace.SimpleTruth(0.5, 0.6)
	bc = space.Add(bc)
	return ab, bc
}

func TestDeduction(t *testing.T) {
	space := atomspace.NewAtomSpace()
	engine := NewEngine(space)
	ab, bc := chainedPremises(t, space)

	id, err := engine.Infer(RuleDeduction, []string{ab.ID, bc.ID})
	require.NoError(t, err)

	conclusion, err := space.Get(id)
	require.NoError(t, err)
	assert.Equal(t, atomspace.TypeInheritanceLink, conclusion.Type)
	assert.Equal(t, "A", conclusion.Outgoing[0].Name)
	assert.Equal(t, "C", conclusion.Outgoing[1].Name)
	assert.InDelta(t, 0.8*0.5, conclusion.TV.Strength, 1e-12)
	assert.InDelta(t, 0.9*0.6*0.5, conclusion.TV.Confidence, 1e-12)
}

func TestDeductionSwapsReversedPremises(t *testing.T) {
	space := atomspace.NewAtomSpace()
	engine := NewEngine(space)
	ab, bc := chainedPremises(t, space)

	id, err := engine.Infer(RuleDeduction, []string{bc.ID, ab.ID})
	require.NoError(t, err)

	conclusion, err := space.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "A", conclusion.Outgoing[0].Name)
	assert.Equal(t, "C", conclusion.Outgoing[1].Name)
}

func TestDeductionNonChaining(t *testing.T) {
	space := atomspace.NewAtomSpace()
	engine := NewEngine(space)

	xy := space.Add(atomspace.Inheritance(atomspace.Concept("X"), atomspace.Concept("Y")))
	pq := space.Add(atomspace.Inheritance(atomspace.Concept("P"), atomspace.Concept("Q")))

	_, err := engine.Infer(RuleDeduction, []string{xy.ID, pq.ID})
	assert.ErrorIs(t, err, errors.ErrPremiseMismatch)
}

func TestInduction(t *testing.T) {
	space := atomspace.NewAtomSpace()
	engine := NewEngine(space)

	a := space.Add(atomspace.Concept("A"))
	ab := atomspace.Inheritance(a, atomspace.Concept("B"))
	ab.TV = atomspace.SimpleTruth(0.8, 0.9)
	ab = space.Add(ab)
	ac := atomspace.Inheritance(a, atomspace.Concept("C"))
	ac.TV = atomspace.SimpleTruth(0.5, 0.6)
	ac = space.Add(ac)

	id, err := engine.Infer(RuleInduction, []string{ab.ID, ac.ID})
	require.NoError(t, err)

	conclusion, err := space.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "B", conclusion.Outgoing[0].Name)
	assert.Equal(t, "C", conclusion.Outgoing[1].Name)
	assert.InDelta(t, 0.8*0.5, conclusion.TV.Strength, 1e-12)
	assert.InDelta(t, 0.9*0.6*0.8, conclusion.TV.Confidence, 1e-12)
}

func TestAbduction(t *testing.T) {
	space := atomspace.NewAtomSpace()
	engine := NewEngine(space)

	c := space.Add(atomspace.Concept("C"))
	ac := atomspace.Inheritance(atomspace.Concept("A"), c)
	ac.TV = atomspace.SimpleTruth(0.8, 0.9)
	ac = space.Add(ac)
	bc := atomspace.Inheritance(atomspace.Concept("B"), c)
	bc.TV = atomspace.SimpleTruth(0.5, 0.6)
	bc = space.Add(bc)

	id, err := engine.Infer(RuleAbduction, []string{ac.ID, bc.ID})
	require.NoError(t, err)

	conclusion, err := space.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "A", conclusion.Outgoing[0].Name)
	assert.Equal(t, "B", conclusion.Outgoing[1].Name)
	assert.InDelta(t, 0.8*0.5, conclusion.TV.Strength, 1e-12)
	assert.InDelta(t, 0.9*0.6*0.5, conclusion.TV.Confidence, 1e-12)
}

func TestModusPonens(t *testing.T) {
	space := atomspace.NewAtomSpace()
	engine := NewEngine(space)

	a := space.Add(atomspace.Concept("A"))
	b := space.Add(atomspace.Concept("B"))
	ab := space.Add(atomspace.Inheritance(a, b))

	id, err := engine.Infer(RuleModusPonens, []string{a.ID, ab.ID})
	require.NoError(t, err)
	assert.Equal(t, b.ID, id)
	assert.InDelta(t, 10.0, b.AV.STI, 1e-12)
}

func TestModusPonensWrongAntecedent(t *testing.T) {
	space := atomspace.NewAtomSpace()
	engine := NewEngine(space)

	a := space.Add(atomspace.Concept("A"))
	b := space.Add(atomspace.Concept("B"))
	other := space.Add(atomspace.Concept("other"))
	ab := space.Add(atomspace.Inheritance(a, b))

	_, err := engine.Infer(RuleModusPonens, []string{other.ID, ab.ID})
	assert.ErrorIs(t, err, errors.ErrPremiseMismatch)
}

func TestUnknownRule(t *testing.T) {
	space := atomspace.NewAtomSpace()
	engine := NewEngine(space)
	a := space.Add(atomspace.Concept("A"))

	_, err := engine.Infer("revision", []string{a.ID})
	assert.ErrorIs(t, err, errors.ErrUnknownRule)
}

func TestMissingPremise(t *testing.T) {
	space := atomspace.NewAtomSpace()
	engine := NewEngine(space)

	_, err := engine.Infer(RuleDeduction, []string{"nope", "also-nope"})
	assert.True(t, errors.IsAtomNotFound(err))
}
