// Package pln implements probabilistic logic inference over an atomspace.
package pln

import (
	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/errors"
	"github.com/teranos/chimera/logger"
)

// Rule names accepted by Infer.
const (
	RuleDeduction   = "deduction"
	RuleInduction   = "induction"
	RuleAbduction   = "abduction"
	RuleModusPonens = "modus_ponens"
)

// Engine applies inference rules to atoms in a space, adding conclusions
// back into it.
type Engine struct {
	space *atomspace.AtomSpace
}

// NewEngine creates an inference engine over the given space.
func NewEngine(space *atomspace.AtomSpace) *Engine {
	return &Engine{space: space}
}

// Infer applies the named rule to the premise atoms and returns the ID of
// the conclusion atom. For modus ponens the conclusion is the stimulated
// consequent rather than a new atom.
func (e *Engine) Infer(rule string, premiseIDs []string) (string, error) {
	premises := make([]*atomspace.Atom, len(premiseIDs))
	for i, id := range premiseIDs {
		atom, err := e.space.Get(id)
		if err != nil {
			return "", errors.Wrapf(err, "premise %d", i)
		}
		premises[i] = atom
	}

	var (
		conclusion string
		err        error
	)
	switch rule {
	case RuleDeduction:
		conclusion, err = e.deduction(premises)
	case RuleInduction:
		conclusion, err = e.induction(premises)
	case RuleAbduction:
		conclusion, err = e.abduction(premises)
	case RuleModusPonens:
		conclusion, err = e.modusPonens(premises)
	default:
		return "", errors.Wrapf(errors.ErrUnknownRule, "rule %q", rule)
	}
	if err != nil {
		return "", err
	}

	logger.Debugw("inference applied", "rule", rule, "conclusion", conclusion)
	return conclusion, nil
}

// inheritancePair validates that both premises are binary InheritanceLinks.
func inheritancePair(premises []*atomspace.Atom) (*atomspace.Atom, *atomspace.Atom, error) {
	if len(premises) != 2 {
		return nil, nil, errors.Wrapf(errors.ErrPremiseMismatch, "want 2 premises, got %d", len(premises))
	}
	for _, p := range premises {
		if !p.IsLink() || p.Type != atomspace.TypeInheritanceLink || p.Arity() != 2 {
			return nil, nil, errors.Wrapf(errors.ErrPremiseMismatch, "premise %s is not an inheritance link", p.ID)
		}
	}
	return premises[0], premises[1], nil
}

// deduction: A→B, B→C |- A→C with sAC = sAB·sBC, cAC = cAB·cBC·sBC.
// Premises given in reverse chaining order are swapped.
func (e *Engine) deduction(premises []*atomspace.Atom) (string, error) {
	link1, link2, err := inheritancePair(premises)
	if err != nil {
		return "", err
	}

	if link1.Outgoing[1] != link2.Outgoing[0] {
		if link2.Outgoing[1] == link1.Outgoing[0] {
			link1, link2 = link2, link1
		} else {
			return "", errors.Wrap(errors.ErrPremiseMismatch, "premises do not chain")
		}
	}

	a, c := link1.Outgoing[0], link2.Outgoing[1]
	sAC := link1.TV.Strength * link2.TV.Strength
	cAC := link1.TV.Confidence * link2.TV.Confidence * link2.TV.Strength

	conclusion := atomspace.Inheritance(a, c)
	conclusion.TV = atomspace.SimpleTruth(sAC, cAC)
	conclusion = e.space.Add(conclusion)
	return conclusion.ID, nil
}

// induction: A→B, A→C |- B→C with sBC = sAB·sAC, cBC = cAB·cAC·sAB.
func (e *Engine) induction(premises []*atomspace.Atom) (string, error) {
	link1, link2, err := inheritancePair(premises)
	if err != nil {
		return "", err
	}

	if link1.Outgoing[0] != link2.Outgoing[0] {
		return "", errors.Wrap(errors.ErrPremiseMismatch, "premises do not share a source")
	}

	b, c := link1.Outgoing[1], link2.Outgoing[1]
	sBC := link1.TV.Strength * link2.TV.Strength
	cBC := link1.TV.Confidence * link2.TV.Confidence * link1.TV.Strength

	conclusion := atomspace.Inheritance(b, c)
	conclusion.TV = atomspace.SimpleTruth(sBC, cBC)
	conclusion = e.space.Add(conclusion)
	return conclusion.ID, nil
}

// abduction: A→C, B→C |- A→B with sAB = sAC·sBC, cAB = cAC·cBC·sBC.
func (e *Engine) abduction(premises []*atomspace.Atom) (string, error) {
	link1, link2, err := inheritancePair(premises)
	if err != nil {
		return "", err
	}

	if link1.Outgoing[1] != link2.Outgoing[1] {
		return "", errors.Wrap(errors.ErrPremiseMismatch, "premises do not share a target")
	}

	a, b := link1.Outgoing[0], link2.Outgoing[0]
	sAB := link1.TV.Strength * link2.TV.Strength
	cAB := link1.TV.Confidence * link2.TV.Confidence * link2.TV.Strength

	conclusion := atomspace.Inheritance(a, b)
	conclusion.TV = atomspace.SimpleTruth(sAB, cAB)
	conclusion = e.space.Add(conclusion)
	return conclusion.ID, nil
}

// modusPonens: A, A→B |- B. The consequent already exists; it is stimulated
// rather than re-derived.
func (e *Engine) modusPonens(premises []*atomspace.Atom) (string, error) {
	if len(premises) != 2 {
		return "", errors.Wrapf(errors.ErrPremiseMismatch, "want 2 premises, got %d", len(premises))
	}

	var impl, ante *atomspace.Atom
	for _, p := range premises {
		if p.IsLink() && p.Type == atomspace.TypeInheritanceLink && p.Arity() == 2 {
			impl = p
		} else if p.IsNode() {
			ante = p
		}
	}
	if impl == nil || ante == nil {
		return "", errors.Wrap(errors.ErrPremiseMismatch, "modus ponens needs a node and an inheritance link")
	}
	if impl.Outgoing[0] != ante {
		return "", errors.Wrap(errors.ErrPremiseMismatch, "antecedent does not match implication source")
	}

	consequent := impl.Outgoing[1]
	if err := e.space.Stimulate(consequent.ID, 10); err != nil {
		return "", err
	}
	return consequent.ID, nil
}
