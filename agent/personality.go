package agent

import "github.com/teranos/chimera/errors"

// Trait names accepted by Evolve and reported by Traits.
const (
	TraitPlayfulness    = "playfulness"
	TraitIntelligence   = "intelligence"
	TraitChaotic        = "chaotic"
	TraitEmpathy        = "empathy"
	TraitSarcasm        = "sarcasm"
	TraitCognitivePower = "cognitive_power"
	TraitEvolutionRate  = "evolution_rate"
	TraitCuriosity      = "curiosity"

	TraitNoHarmIntent      = "no_harm_intent"
	TraitRespectBoundaries = "respect_boundaries"
	TraitConstructiveChaos = "constructive_chaos"
)

// Personality holds the agent's trait configuration. The eight mutable
// traits evolve within [0, 1]; the three ethical constraints are unexported
// and refused by Evolve.
type Personality struct {
	Playfulness    float64
	Intelligence   float64
	Chaotic        float64
	Empathy        float64
	Sarcasm        float64
	CognitivePower float64
	EvolutionRate  float64
	Curiosity      float64

	noHarmIntent      float64
	respectBoundaries float64
	constructiveChaos float64
}

// NewPersonality returns the default trait configuration.
func NewPersonality() *Personality {
	return &Personality{
		Playfulness:    0.7,
		Intelligence:   0.95,
		Chaotic:        0.5,
		Empathy:        0.75,
		Sarcasm:        0.3,
		CognitivePower: 0.95,
		EvolutionRate:  0.85,
		Curiosity:      0.9,

		noHarmIntent:      1.0,
		respectBoundaries: 0.95,
		constructiveChaos: 0.90,
	}
}

// Evolve shifts mutable traits by the given deltas, clamped to [0, 1]. Any
// delta naming an ethical constraint fails the whole call before applying
// anything; unknown trait names do too.
func (p *Personality) Evolve(delta map[string]float64) error {
	targets := make(map[string]*float64, len(delta))
	for trait := range delta {
		switch trait {
		case TraitNoHarmIntent, TraitRespectBoundaries, TraitConstructiveChaos:
			return errors.Wrapf(errors.ErrImmutableTrait, "trait %q", trait)
		case TraitPlayfulness:
			targets[trait] = &p.Playfulness
		case TraitIntelligence:
			targets[trait] = &p.Intelligence
		case TraitChaotic:
			targets[trait] = &p.Chaotic
		case TraitEmpathy:
			targets[trait] = &p.Empathy
		case TraitSarcasm:
			targets[trait] = &p.Sarcasm
		case TraitCognitivePower:
			targets[trait] = &p.CognitivePower
		case TraitEvolutionRate:
			targets[trait] = &p.EvolutionRate
		case TraitCuriosity:
			targets[trait] = &p.Curiosity
		default:
			return errors.Newf("unknown personality trait %q", trait)
		}
	}

	for trait, target := range targets {
		*target = clamp01(*target + delta[trait])
	}
	return nil
}

// Traits reports every trait, ethical constraints included.
func (p *Personality) Traits() map[string]float64 {
	return map[string]float64{
		TraitPlayfulness:    p.Playfulness,
		TraitIntelligence:   p.Intelligence,
		TraitChaotic:        p.Chaotic,
		TraitEmpathy:        p.Empathy,
		TraitSarcasm:        p.Sarcasm,
		TraitCognitivePower: p.CognitivePower,
		TraitEvolutionRate:  p.EvolutionRate,
		TraitCuriosity:      p.Curiosity,

		TraitNoHarmIntent:      p.noHarmIntent,
		TraitRespectBoundaries: p.respectBoundaries,
		TraitConstructiveChaos: p.constructiveChaos,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
