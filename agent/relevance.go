package agent

import (
	"sort"

	"github.com/teranos/chimera/atomspace"
)

// Context frames a relevance computation: the active goal and the balance
// between exploring novel atoms and exploiting salient ones.
type Context struct {
	Goal        string
	Exploration float64
}

// ScoredAtom pairs an atom with its relevance score.
type ScoredAtom struct {
	Atom  *atomspace.Atom
	Score float64
}

// RelevanceEngine scores atoms for relevance in a context, keeping a
// salience map for novelty tracking and a stack of cognitive frames.
type RelevanceEngine struct {
	space    *atomspace.AtomSpace
	salience map[string]float64
	frames   []string
}

// NewRelevanceEngine creates an engine over the given space.
func NewRelevanceEngine(space *atomspace.AtomSpace) *RelevanceEngine {
	return &RelevanceEngine{
		space:    space,
		salience: make(map[string]float64),
	}
}

// ComputeRelevance scores an atom: attention base × truth weight ×
// contextual fit (boosted when the atom links to the goal) × opponent
// processing between novelty and salience. The score is recorded in the
// salience map.
func (r *RelevanceEngine) ComputeRelevance(atom *atomspace.Atom, ctx Context) float64 {
	base := 0.1
	if atom.AV.STI > 0 {
		base = atom.AV.STI / 100
	}

	tvFactor := atom.TV.Strength * atom.TV.Confidence

	contextFit := 1.0
	if ctx.Goal != "" {
		if goal, err := r.space.GetNode(atomspace.TypeConceptNode, ctx.Goal); err == nil {
			for _, link := range atom.Incoming() {
				for _, target := range link.Outgoing {
					if target == goal {
						contextFit = 1.5
						break
					}
				}
				if contextFit > 1 {
					break
				}
			}
		}
	}

	novelty := 1 - r.salience[atom.ID]
	opponent := ctx.Exploration*novelty + (1-ctx.Exploration)*base

	relevance := base * tvFactor * contextFit * opponent
	r.salience[atom.ID] = relevance
	return relevance
}

// RealizeRelevance scores the whole space, best first.
func (r *RelevanceEngine) RealizeRelevance(ctx Context) []ScoredAtom {
	atoms := r.space.Atoms()
	scored := make([]ScoredAtom, len(atoms))
	for i, atom := range atoms {
		scored[i] = ScoredAtom{Atom: atom, Score: r.ComputeRelevance(atom, ctx)}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored
}

// PushFrame pushes a cognitive frame.
func (r *RelevanceEngine) PushFrame(frame string) {
	r.frames = append(r.frames, frame)
}

// PopFrame pops the top frame. The bool reports whether one existed.
func (r *RelevanceEngine) PopFrame() (string, bool) {
	if len(r.frames) == 0 {
		return "", false
	}
	frame := r.frames[len(r.frames)-1]
	r.frames = r.frames[:len(r.frames)-1]
	return frame, true
}

// CurrentFrame returns the top frame without popping it.
func (r *RelevanceEngine) CurrentFrame() (string, bool) {
	if len(r.frames) == 0 {
		return "", false
	}
	return r.frames[len(r.frames)-1], true
}
