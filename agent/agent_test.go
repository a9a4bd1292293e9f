package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/errors"
)

func TestPersonalityEvolve(t *testing.T) {
	p := NewPersonality()

	require.NoError(t, p.Evolve(map[string]float64{
		TraitPlayfulness: 0.2,
		TraitSarcasm:     -0.5,
	}))
	assert.InDelta(t, 0.9, p.Playfulness, 1e-9)
	assert.InDelta(t, 0.0, p.Sarcasm, 1e-9)

	// Clamped to [0, 1].
	require.NoError(t, p.Evolve(map[string]float64{TraitIntelligence: 1.0}))
	assert.Equal(t, 1.0, p.Intelligence)
}

func TestPersonalityEthicsImmutable(t *testing.T) {
	p := NewPersonality()

	err := p.Evolve(map[string]float64{TraitNoHarmIntent: -1.0})
	assert.ErrorIs(t, err, errors.ErrImmutableTrait)

	// A rejected batch applies nothing.
	err = p.Evolve(map[string]float64{
		TraitPlayfulness:       0.2,
		TraitRespectBoundaries: -0.5,
	})
	assert.ErrorIs(t, err, errors.ErrImmutableTrait)
	assert.InDelta(t, 0.7, p.Playfulness, 1e-9)

	assert.Equal(t, 1.0, p.Traits()[TraitNoHarmIntent])
}

func TestPersonalityUnknownTrait(t *testing.T) {
	p := NewPersonality()
	assert.Error(t, p.Evolve(map[string]float64{"telekinesis": 0.9}))
}

func TestEmotionalStateUpdateAndDecay(t *testing.T) {
	e := NewEmotionalState()

	e.Update("joy", 0.8, 2)
	assert.InDelta(t, 0.8, e.Valence, 1e-9)
	assert.InDelta(t, 0.7, e.Arousal, 1e-9)
	assert.Equal(t, "joy", e.PrimaryEmotion)

	e.Decay(0.1)
	assert.InDelta(t, 0.72, e.Intensity, 1e-9)
	assert.Equal(t, "joy", e.PrimaryEmotion)

	e.Decay(0.1)
	assert.Equal(t, "neutral", e.PrimaryEmotion)
}

func TestRelevanceGoalBoost(t *testing.T) {
	space := atomspace.NewAtomSpace()
	engine := NewRelevanceEngine(space)

	goal := space.Add(atomspace.Concept("goal_learn"))
	related := space.Add(atomspace.Concept("book"))
	unrelated := space.Add(atomspace.Concept("rock"))
	related.AV.STI = 50
	unrelated.AV.STI = 50
	space.Add(atomspace.Inheritance(related, goal))

	ctx := Context{Goal: "goal_learn", Exploration: 0.5}
	boosted := engine.ComputeRelevance(related, ctx)
	plain := engine.ComputeRelevance(unrelated, ctx)
	assert.Greater(t, boosted, plain)
}

func TestRealizeRelevanceSorted(t *testing.T) {
	space := atomspace.NewAtomSpace()
	engine := NewRelevanceEngine(space)
	space.Add(atomspace.Concept("a"))
	hot := space.Add(atomspace.Concept("b"))
	hot.AV.STI = 90

	scored := engine.RealizeRelevance(Context{Exploration: 0.5})
	require.Len(t, scored, 2)
	assert.GreaterOrEqual(t, scored[0].Score, scored[1].Score)
	assert.Same(t, hot, scored[0].Atom)
}

func TestFrameStack(t *testing.T) {
	engine := NewRelevanceEngine(atomspace.NewAtomSpace())

	_, ok := engine.CurrentFrame()
	assert.False(t, ok)

	engine.PushFrame("problem_solving")
	engine.PushFrame("subgoal")

	top, ok := engine.CurrentFrame()
	require.True(t, ok)
	assert.Equal(t, "subgoal", top)

	popped, ok := engine.PopFrame()
	require.True(t, ok)
	assert.Equal(t, "subgoal", popped)

	top, _ = engine.CurrentFrame()
	assert.Equal(t, "problem_solving", top)
}

func TestStreamPhasing(t *testing.T) {
	a := New("test")

	// At step 1 the streams sit at phases 1, 5, 9.
	assert.Equal(t, PhaseOrient1, a.Cycle.StreamPhase(1))
	assert.Equal(t, PhaseCategorize, a.Cycle.StreamPhase(2))
	assert.Equal(t, PhasePlan, a.Cycle.StreamPhase(3))

	a.Think(nil)
	assert.Equal(t, PhasePerceive, a.Cycle.StreamPhase(1))
	assert.Equal(t, PhaseEvaluate, a.Cycle.StreamPhase(2))
	assert.Equal(t, PhasePredict, a.Cycle.StreamPhase(3))
}

func TestCycleWrapsAtTwelve(t *testing.T) {
	a := New("test")
	for i := 0; i < 12; i++ {
		a.Think(nil)
	}
	assert.Equal(t, 1, a.Cycle.CurrentStep())
	assert.Equal(t, 12, a.StepCount)
}

func TestIntegrateSeesCurrentStepStreams(t *testing.T) {
	a := New("test")

	// Stream 3 reaches integrate at step 4, after streams 1 and 2 have
	// already run that step (recognize and imagine). Its own slot still
	// holds the previous step's simulate output.
	var result StepResult
	for i := 0; i < 4; i++ {
		result = a.Think(nil)
	}

	require.Equal(t, "integrate", result[3].Phase)
	integrated := result[3].Integrated
	require.NotNil(t, integrated)
	assert.Equal(t, "recognize", integrated.StreamPhases[1])
	assert.Equal(t, "imagine", integrated.StreamPhases[2])
	assert.Equal(t, "simulate", integrated.StreamPhases[3])
}

func TestThinkRecordsEpisodes(t *testing.T) {
	a := New("test")
	a.SetGoal("understand_self")

	result := a.Think(map[string]any{"input": "stimulus"})
	require.Len(t, result, 3)

	episodes := a.Episodes()
	require.Len(t, episodes, 1)
	assert.Equal(t, 1, episodes[0].Step)
	assert.Equal(t, "understand_self", episodes[0].Goal)
}

func TestSelfModel(t *testing.T) {
	a := New("Ouroboros-1")

	selfNode, err := a.Space.GetNode(atomspace.TypeConceptNode, "Self_Ouroboros-1")
	require.NoError(t, err)
	assert.True(t, selfNode.AV.VLTI)

	_, err = a.Space.GetNode(atomspace.TypeConceptNode, "trait_curiosity")
	require.NoError(t, err)

	_, err = a.Space.GetNode(atomspace.TypeConceptNode, "current_goal")
	require.NoError(t, err)
}

func TestSetGoal(t *testing.T) {
	a := New("test")
	a.SetGoal("learn")

	goal, err := a.Space.GetNode(atomspace.TypeConceptNode, "goal_learn")
	require.NoError(t, err)
	assert.InDelta(t, 80.0, goal.AV.STI, 1e-9)
	require.NotEmpty(t, goal.Incoming())
}

func TestPerceptionCreatesConcepts(t *testing.T) {
	a := New("test")

	// Step 1 puts stream 1 in orient; advance until stream 1 perceives.
	a.Think(nil)
	a.Think(map[string]any{"light": 0.8})

	_, err := a.Space.GetNode(atomspace.TypeConceptNode, "perceived_light")
	require.NoError(t, err)
}

func TestIntrospect(t *testing.T) {
	a := New("test")
	a.SetGoal("learn")
	a.Think(nil)

	intro := a.Introspect()
	assert.Equal(t, "test", intro.Name)
	assert.Len(t, intro.AgentID, 8)
	assert.Equal(t, 1, intro.StepCount)
	assert.Equal(t, "learn", intro.CurrentGoal)
	assert.Equal(t, 1.0, intro.Personality[TraitNoHarmIntent])
	assert.Greater(t, intro.AtomSpaceSize, 0)
}

func TestSelfEvolveInterval(t *testing.T) {
	a := New("test")
	gen := a.Kernel.Generation

	for i := 0; i < selfEvolveInterval; i++ {
		a.Think(nil)
	}
	// Offspring adopted only when fitter; either way the kernel remains valid.
	assert.GreaterOrEqual(t, a.Kernel.Generation, gen)
	assert.NotEmpty(t, a.Kernel.Coefficients)
}
