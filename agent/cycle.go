package agent

// Phase is one of the twelve steps of the cognitive loop: two pivotal
// orientation steps, five affordance-interaction steps grounded in the past,
// and five salience-simulation steps projected into the future.
type Phase int

const (
	PhaseOrient1 Phase = iota + 1
	PhasePerceive
	PhaseAttend
	PhaseRecognize
	PhaseCategorize
	PhaseEvaluate
	PhaseOrient2
	PhaseImagine
	PhasePlan
	PhasePredict
	PhaseSimulate
	PhaseIntegrate
)

const phaseCount = 12

var phaseNames = map[Phase]string{
	PhaseOrient1:    "orient_1",
	PhasePerceive:   "perceive",
	PhaseAttend:     "attend",
	PhaseRecognize:  "recognize",
	PhaseCategorize: "categorize",
	PhaseEvaluate:   "evaluate",
	PhaseOrient2:    "orient_2",
	PhaseImagine:    "imagine",
	PhasePlan:       "plan",
	PhasePredict:    "predict",
	PhaseSimulate:   "simulate",
	PhaseIntegrate:  "integrate",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// RelevantAtom is a scored atom rendered for a phase result.
type RelevantAtom struct {
	Atom  string  `json:"atom"`
	Score float64 `json:"score"`
}

// Simulation is the outcome of the simulate phase.
type Simulation struct {
	Outcome     string   `json:"outcome"`
	Confidence  float64  `json:"confidence"`
	SideEffects []string `json:"side_effects"`
}

// Integration is the outcome of the integrate phase: a snapshot of what each
// stream was doing plus the resulting decision.
type Integration struct {
	StreamPhases map[int]string `json:"stream_phases"`
	Decision     string         `json:"decision"`
}

// PhaseResult is the output of processing one phase for one stream. Only the
// fields the phase produces are set.
type PhaseResult struct {
	Phase string `json:"phase"`
	Step  int    `json:"step"`

	Relevant    []RelevantAtom      `json:"relevant,omitempty"`
	Perceived   map[string]any      `json:"perceived,omitempty"`
	Focus       []string            `json:"focus,omitempty"`
	Patterns    []string            `json:"patterns,omitempty"`
	Categories  map[string][]string `json:"categories,omitempty"`
	Evaluation  map[string]float64  `json:"evaluation,omitempty"`
	Imagined    []string            `json:"imagined,omitempty"`
	Plan        []string            `json:"plan,omitempty"`
	Predictions map[string]float64  `json:"predictions,omitempty"`
	Simulation  *Simulation         `json:"simulation,omitempty"`
	Integrated  *Integration        `json:"integrated,omitempty"`
}

// StepResult maps stream id (1..3) to that stream's phase output.
type StepResult map[int]*PhaseResult

// Cycle drives the 12-step loop across three streams phased four steps
// apart, so perception, action, and simulation interleave.
type Cycle struct {
	agent *Agent
	step  int
	// streams is the latest output per stream, refreshed as each stream
	// runs within a step. A stream reaching the integrate phase folds in
	// the current step's results for streams that already ran and the
	// previous step's for the rest.
	streams StepResult
}

// NewCycle creates a cycle at step 1.
func NewCycle(a *Agent) *Cycle {
	return &Cycle{agent: a, step: 1, streams: make(StepResult)}
}

// CurrentStep returns the step the next call to Step will run.
func (c *Cycle) CurrentStep() int { return c.step }

// StreamPhase returns the phase stream (1..3) occupies at the current step.
func (c *Cycle) StreamPhase(stream int) Phase {
	offset := (stream - 1) * 4
	return Phase((c.step+offset-1)%phaseCount + 1)
}

// Step runs all three streams at the current step, then advances the step
// counter, wrapping from 12 back to 1.
func (c *Cycle) Step(input map[string]any) StepResult {
	results := make(StepResult, 3)
	for stream := 1; stream <= 3; stream++ {
		result := c.processPhase(c.StreamPhase(stream), input)
		results[stream] = result
		c.streams[stream] = result
	}
	c.step = c.step%phaseCount + 1
	return results
}

func (c *Cycle) processPhase(phase Phase, input map[string]any) *PhaseResult {
	result := &PhaseResult{Phase: phase.String(), Step: c.step}
	a := c.agent

	switch phase {
	case PhaseOrient1, PhaseOrient2:
		ctx := Context{Goal: a.goalNodeName(), Exploration: a.Personality.Curiosity}
		scored := a.Relevance.RealizeRelevance(ctx)
		if len(scored) > 10 {
			scored = scored[:10]
		}
		for _, s := range scored {
			result.Relevant = append(result.Relevant, RelevantAtom{Atom: s.Atom.String(), Score: s.Score})
		}

	case PhasePerceive:
		if input != nil {
			result.Perceived = input
			a.processPerception(input)
		}

	case PhaseAttend:
		focus := a.Space.AttentionalFocus()
		for i, atom := range focus {
			if i == 5 {
				break
			}
			result.Focus = append(result.Focus, atom.String())
		}

	case PhaseRecognize:
		result.Patterns = a.recognizePatterns()

	case PhaseCategorize:
		result.Categories = a.categorizeFocus()

	case PhaseEvaluate:
		result.Evaluation = a.evaluateSituation()

	case PhaseImagine:
		result.Imagined = a.imaginePossibilities()

	case PhasePlan:
		result.Plan = a.generatePlan()

	case PhasePredict:
		result.Predictions = a.makePredictions()

	case PhaseSimulate:
		result.Simulation = a.runSimulation()

	case PhaseIntegrate:
		result.Integrated = a.integrateStreams(c.streams)
	}

	return result
}
