package atomspace

// TruthValueKind identifies the flavor of a truth value.
type TruthValueKind string

const (
	TruthSimple     TruthValueKind = "simple"
	TruthCount      TruthValueKind = "count"
	TruthIndefinite TruthValueKind = "indefinite"
	TruthFuzzy      TruthValueKind = "fuzzy"
)

// TruthValue represents the degree of truth of an atom.
//
// Strength is the probability or degree of truth, Confidence the confidence
// in that estimate. Both live in [0, 1]. Count carries the number of
// observations for count truth values.
type TruthValue struct {
	Strength   float64        `db:"strength" json:"strength"`
	Confidence float64        `db:"confidence" json:"confidence"`
	Count      int            `db:"count" json:"count"`
	Kind       TruthValueKind `db:"kind" json:"kind"`
}

// SimpleTruth creates a simple truth value.
func SimpleTruth(strength, confidence float64) TruthValue {
	return TruthValue{
		Strength:   clamp01(strength),
		Confidence: clamp01(confidence),
		Count:      1,
		Kind:       TruthSimple,
	}
}

// DefaultTruth is the truth value assigned to atoms created without one.
func DefaultTruth() TruthValue {
	return SimpleTruth(1.0, 0.9)
}

// CountTruth creates a count truth value.
func CountTruth(strength, confidence float64, count int) TruthValue {
	return TruthValue{
		Strength:   clamp01(strength),
		Confidence: clamp01(confidence),
		Count:      count,
		Kind:       TruthCount,
	}
}

// IndefiniteTruth creates an indefinite truth value representing pure uncertainty.
func IndefiniteTruth() TruthValue {
	return TruthValue{Strength: 0.5, Confidence: 0.0, Count: 1, Kind: TruthIndefinite}
}

// Merge combines two truth values using the revision rule: a confidence-weighted
// average of strengths, with the combined confidence capped at 1. An indefinite
// operand yields the other operand unchanged; zero total confidence yields an
// indefinite value.
func (tv TruthValue) Merge(other TruthValue) TruthValue {
	if tv.Kind == TruthIndefinite {
		return other
	}
	if other.Kind == TruthIndefinite {
		return tv
	}

	totalWeight := tv.Confidence + other.Confidence
	if totalWeight == 0 {
		return IndefiniteTruth()
	}

	strength := (tv.Strength*tv.Confidence + other.Strength*other.Confidence) / totalWeight
	confidence := totalWeight / 2
	if confidence > 1 {
		confidence = 1
	}

	return SimpleTruth(strength, confidence)
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
