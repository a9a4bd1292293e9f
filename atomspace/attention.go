package atomspace

// AttentionValue carries the economic attention (ECAN) state of an atom.
//
// STI is short-term importance (current relevance), LTI long-term importance
// (persistent relevance), and VLTI flags atoms that are permanently important
// and exempt from forgetting.
type AttentionValue struct {
	STI  float64 `db:"sti" json:"sti"`
	LTI  float64 `db:"lti" json:"lti"`
	VLTI bool    `db:"vlti" json:"vlti"`
}

// Stimulate increases STI by the given amount.
func (av *AttentionValue) Stimulate(amount float64) {
	av.STI += amount
}

// Decay applies exponential decay to STI.
func (av *AttentionValue) Decay(rate float64) {
	av.STI *= 1 - rate
}

// Rent deducts an attention rent from STI. Returns false without deducting
// when STI cannot cover the cost.
func (av *AttentionValue) Rent(cost float64) bool {
	if av.STI >= cost {
		av.STI -= cost
		return true
	}
	return false
}
