package agent

import (
	"fmt"

	"github.com/teranos/chimera/atomspace"
)

// processPerception folds input into working memory and plants a stimulated
// perceived_<key> concept per entry.
func (a *Agent) processPerception(input map[string]any) {
	a.working["last_perception"] = input

	for key := range input {
		concept := atomspace.Concept("perceived_" + key)
		concept.AV = atomspace.AttentionValue{STI: 50, LTI: 10}
		a.Space.Add(concept)
	}
}

// recognizePatterns scans the attentional focus for structural patterns:
// hubs (more than two incoming links) and inheritance participation. At most
// five patterns are reported.
func (a *Agent) recognizePatterns() []string {
	var patterns []string
	for _, atom := range a.Space.AttentionalFocus() {
		incoming := atom.Incoming()
		if len(incoming) > 2 {
			patterns = append(patterns, fmt.Sprintf("hub_pattern:%s", atom.Name))
		}
		for _, link := range incoming {
			if link.Type == atomspace.TypeInheritanceLink {
				patterns = append(patterns, fmt.Sprintf("inheritance:%s", atom.Name))
			}
		}
	}
	if len(patterns) > 5 {
		patterns = patterns[:5]
	}
	return patterns
}

// categorizeFocus groups the attentional focus by atom type.
func (a *Agent) categorizeFocus() map[string][]string {
	categories := make(map[string][]string)
	for _, atom := range a.Space.AttentionalFocus() {
		categories[atom.Type] = append(categories[atom.Type], atom.Name)
	}
	return categories
}

// evaluateSituation scores the current situation. Apart from emotional
// valence the dimensions are fixed priors pending grounded estimators.
func (a *Agent) evaluateSituation() map[string]float64 {
	return map[string]float64{
		"goal_progress":     0.5,
		"threat_level":      0.1,
		"opportunity_level": 0.6,
		"uncertainty":       0.3,
		"emotional_valence": a.Emotion.Valence,
	}
}

// imaginePossibilities proposes futures from the goal and, when curiosity
// runs high, open-ended exploration.
func (a *Agent) imaginePossibilities() []string {
	var possibilities []string
	if a.Goal != "" {
		possibilities = append(possibilities,
			"achieve_"+a.Goal,
			"alternative_to_"+a.Goal,
		)
	}
	if a.Personality.Curiosity > 0.7 {
		possibilities = append(possibilities, "explore_unknown", "creative_synthesis")
	}
	return possibilities
}

// generatePlan produces the plan skeleton toward the current goal.
func (a *Agent) generatePlan() []string {
	if a.Goal == "" {
		return []string{"set_goal"}
	}
	return []string{
		"analyze_" + a.Goal,
		"gather_resources",
		"execute_action",
		"evaluate_result",
		"adapt_if_needed",
	}
}

// makePredictions estimates outcomes for the current plan.
func (a *Agent) makePredictions() map[string]float64 {
	return map[string]float64{
		"goal_success_probability": 0.7,
		"expected_time_to_goal":    10.0,
		"risk_of_failure":          0.2,
	}
}

// runSimulation mentally executes the plan.
func (a *Agent) runSimulation() *Simulation {
	return &Simulation{
		Outcome:     "success",
		Confidence:  0.75,
		SideEffects: []string{"learning", "resource_consumption"},
	}
}

// integrateStreams folds the latest per-stream outputs into a decision.
func (a *Agent) integrateStreams(streams StepResult) *Integration {
	phases := make(map[int]string, len(streams))
	for stream, result := range streams {
		phases[stream] = result.Phase
	}
	return &Integration{
		StreamPhases: phases,
		Decision:     "continue_current_plan",
	}
}
