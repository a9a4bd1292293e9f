// Package agent implements the Ouroboros cognitive agent: a 12-phase,
// three-stream cognitive loop over an atomspace, with an evolving
// personality, emotional state, relevance realization, and an ontogenetic
// kernel that rewrites itself as the agent runs.
package agent

import (
	"time"

	"github.com/google/uuid"

	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/logger"
	"github.com/teranos/chimera/onto"
)

const (
	// BridgeMaxOrder bounds the tree ontology seeded into agent memory.
	BridgeMaxOrder = 6
	// kernelOrder is the tree order the agent's ontogenetic kernel covers.
	kernelOrder = 4
	// selfEvolveInterval is the step period of self-evolution checks.
	selfEvolveInterval = 100
	// Episodic memory trims back to episodicKeep once it passes episodicMax.
	episodicMax  = 1000
	episodicKeep = 500
)

// Episode is one recorded step of agent experience.
type Episode struct {
	Step    int            `json:"step"`
	Time    time.Time      `json:"time"`
	Input   map[string]any `json:"input,omitempty"`
	Result  StepResult     `json:"result"`
	Emotion string         `json:"emotion"`
	Goal    string         `json:"goal,omitempty"`
}

// Introspection is the agent's self-report.
type Introspection struct {
	Name             string             `json:"name"`
	AgentID          string             `json:"agent_id"`
	StepCount        int                `json:"step_count"`
	UptimeSeconds    float64            `json:"uptime_seconds"`
	CurrentGoal      string             `json:"current_goal,omitempty"`
	Emotion          string             `json:"emotion"`
	Valence          float64            `json:"valence"`
	Arousal          float64            `json:"arousal"`
	Personality      map[string]float64 `json:"personality"`
	AtomSpaceSize    int                `json:"atomspace_size"`
	EpisodicMemory   int                `json:"episodic_memory_size"`
	KernelGeneration int                `json:"kernel_generation"`
	KernelFitness    float64            `json:"kernel_fitness"`
}

// Agent is an Ouroboros instance: self-aware, self-evolving, feeding on its
// own output.
type Agent struct {
	Name string
	ID   string

	Space       *atomspace.AtomSpace
	Bridge      *onto.Bridge
	Relevance   *RelevanceEngine
	Personality *Personality
	Emotion     *EmotionalState
	Cycle       *Cycle
	Kernel      *onto.Kernel

	Goal      string
	StepCount int

	episodic  []Episode
	working   map[string]any
	createdAt time.Time
}

// New creates an agent with a fresh memory space seeded with the tree
// ontology and a self-model.
func New(name string) *Agent {
	space := atomspace.NewAtomSpace()
	a := &Agent{
		Name:        name,
		ID:          uuid.NewString()[:8],
		Space:       space,
		Bridge:      onto.NewBridge(space, BridgeMaxOrder),
		Relevance:   NewRelevanceEngine(space),
		Personality: NewPersonality(),
		Emotion:     NewEmotionalState(),
		working:     make(map[string]any),
		createdAt:   time.Now(),
	}
	a.Cycle = NewCycle(a)
	a.Kernel = a.Bridge.CreateKernel(kernelOrder)
	a.initSelfModel()

	logger.Infow("agent created", "name", name, "id", a.ID, "atomspace_size", space.Size())
	return a
}

// initSelfModel plants the Self concept, one has_trait EvaluationLink per
// personality trait, and the current_goal anchor.
func (a *Agent) initSelfModel() {
	selfNode := atomspace.Concept("Self_" + a.Name)
	selfNode.TV = atomspace.SimpleTruth(1.0, 1.0)
	selfNode.AV = atomspace.AttentionValue{STI: 100, LTI: 100, VLTI: true}
	selfNode = a.Space.Add(selfNode)

	pred := a.Space.Add(atomspace.Predicate("has_trait"))
	for trait, value := range a.Personality.Traits() {
		traitNode := a.Space.Add(atomspace.Concept("trait_" + trait))
		link := atomspace.NewLink(atomspace.TypeEvaluationLink, pred, selfNode, traitNode)
		link.TV = atomspace.SimpleTruth(value, 0.9)
		a.Space.Add(link)
	}

	goalNode := a.Space.Add(atomspace.Concept("current_goal"))
	a.Space.Add(atomspace.Inheritance(goalNode, selfNode))
}

// SetGoal installs a goal, representing it as a stimulated goal_<name>
// concept inheriting from the current_goal anchor.
func (a *Agent) SetGoal(goal string) {
	a.Goal = goal

	goalConcept := atomspace.Concept("goal_" + goal)
	goalConcept.TV = atomspace.SimpleTruth(1.0, 0.9)
	goalConcept.AV = atomspace.AttentionValue{STI: 80, LTI: 50}
	goalConcept = a.Space.Add(goalConcept)

	if anchor, err := a.Space.GetNode(atomspace.TypeConceptNode, "current_goal"); err == nil {
		a.Space.Add(atomspace.Inheritance(goalConcept, anchor))
	}

	logger.Debugw("goal set", "agent", a.Name, "goal", goal)
}

func (a *Agent) goalNodeName() string {
	if a.Goal == "" {
		return ""
	}
	return "goal_" + a.Goal
}

// Think runs one cognitive cycle step: all three streams advance, emotion
// and attention decay, self-evolution fires on its interval, and the episode
// is recorded.
func (a *Agent) Think(input map[string]any) StepResult {
	a.StepCount++

	result := a.Cycle.Step(input)

	a.Emotion.Decay(0.1)
	a.Bridge.DecayAttention(0)

	if a.StepCount%selfEvolveInterval == 0 {
		a.selfEvolve()
	}

	a.episodic = append(a.episodic, Episode{
		Step:    a.StepCount,
		Time:    time.Now(),
		Input:   input,
		Result:  result,
		Emotion: a.Emotion.PrimaryEmotion,
		Goal:    a.Goal,
	})
	if len(a.episodic) > episodicMax {
		a.episodic = a.episodic[len(a.episodic)-episodicKeep:]
	}

	return result
}

// selfEvolve generates an offspring kernel and adopts it when fitter,
// celebrating with a burst of satisfaction.
func (a *Agent) selfEvolve() {
	a.Kernel.Fitness = a.Kernel.MeanCoefficient()
	offspring := a.Kernel.SelfGenerate()
	offspring.Fitness = offspring.MeanCoefficient()

	if offspring.Fitness > a.Kernel.Fitness {
		a.Kernel = offspring
		offspring.ToAtomSpace(a.Space)
		a.Emotion.Update("satisfaction", 0.7, 5)
		logger.Debugw("kernel evolved",
			"agent", a.Name,
			"generation", offspring.Generation,
			"fitness", offspring.Fitness,
		)
	}
}

// Episodes returns a snapshot of episodic memory.
func (a *Agent) Episodes() []Episode {
	out := make([]Episode, len(a.episodic))
	copy(out, a.episodic)
	return out
}

// Introspect reports the agent's internal state.
func (a *Agent) Introspect() Introspection {
	return Introspection{
		Name:             a.Name,
		AgentID:          a.ID,
		StepCount:        a.StepCount,
		UptimeSeconds:    time.Since(a.createdAt).Seconds(),
		CurrentGoal:      a.Goal,
		Emotion:          a.Emotion.PrimaryEmotion,
		Valence:          a.Emotion.Valence,
		Arousal:          a.Emotion.Arousal,
		Personality:      a.Personality.Traits(),
		AtomSpaceSize:    a.Space.Size(),
		EpisodicMemory:   len(a.episodic),
		KernelGeneration: a.Kernel.Generation,
		KernelFitness:    a.Kernel.Fitness,
	}
}
