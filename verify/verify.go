// Package verify checks the roundtrip properties of the cognitive state
// codec: every encodable state must decode back within the quantization
// error bound, and every discrete symbol must roundtrip exactly.
package verify

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/teranos/chimera/codec"
	"github.com/teranos/chimera/logger"
	"github.com/teranos/chimera/onto"
)

// Status is the outcome of a property check.
type Status string

const (
	StatusPassed       Status = "PASSED"
	StatusFailed       Status = "FAILED"
	StatusInconclusive Status = "INCONCLUSIVE"
	StatusError        Status = "ERROR"
)

// maxCounterexamples caps how many failing cases a result records.
const maxCounterexamples = 5

// Result holds the outcome of one property check.
type Result struct {
	Property        string   `json:"property"`
	Status          Status   `json:"status"`
	Message         string   `json:"message"`
	TestCases       int      `json:"test_cases"`
	Passed          int      `json:"passed"`
	Failed          int      `json:"failed"`
	Counterexamples []string `json:"counterexamples,omitempty"`
	ProofTrace      []string `json:"proof_trace,omitempty"`
	ElapsedMs       float64  `json:"elapsed_ms"`
}

func (r *Result) recordPass() {
	r.TestCases++
	r.Passed++
}

func (r *Result) recordFail(counterexample string) {
	r.TestCases++
	r.Failed++
	if len(r.Counterexamples) < maxCounterexamples {
		r.Counterexamples = append(r.Counterexamples, counterexample)
	}
}

func (r *Result) trace(format string, args ...any) {
	r.ProofTrace = append(r.ProofTrace, fmt.Sprintf(format, args...))
}

func (r *Result) finish(start time.Time) *Result {
	r.ElapsedMs = float64(time.Since(start).Microseconds()) / 1000
	if r.Status != "" {
		return r
	}
	if r.Failed > 0 {
		r.Status = StatusFailed
		r.Message = fmt.Sprintf("%d of %d cases failed", r.Failed, r.TestCases)
	} else {
		r.Status = StatusPassed
		r.Message = fmt.Sprintf("all %d cases passed", r.TestCases)
	}
	return r
}

// Summary aggregates a report's results.
type Summary struct {
	TotalProperties int  `json:"total_properties"`
	PropertiesPass  int  `json:"properties_passed"`
	PropertiesFail  int  `json:"properties_failed"`
	TotalTestCases  int  `json:"total_test_cases"`
	TotalPassed     int  `json:"total_passed"`
	TotalFailed     int  `json:"total_failed"`
	AllPassed       bool `json:"all_passed"`

	// TreeCounts are the rooted-tree counts the codec dimensions follow:
	// perception 4, simulation 9, nested shells 1+2+4+9.
	TreeCounts []int64 `json:"tree_counts"`
}

// Report is the outcome of a full verification run.
type Report struct {
	Property      string    `json:"property_verified"`
	Timestamp     time.Time `json:"timestamp"`
	OverallStatus Status    `json:"overall_status"`
	Results       []*Result `json:"results"`
	Summary       Summary   `json:"summary"`
}

// Verifier runs property checks against a codec.
type Verifier struct {
	codec *codec.Codec
	rng   *rand.Rand
}

// New creates a verifier with a deterministic sample source.
func New(seed int64) *Verifier {
	return &Verifier{
		codec: codec.New(),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (v *Verifier) randomVector(dim int) []float64 {
	vec := make([]float64, dim)
	for i := range vec {
		vec[i] = v.rng.Float64()*2 - 1
	}
	return vec
}

// boundaryVectors are the edge cases every vector roundtrip must cover.
func boundaryVectors(dim int) [][]float64 {
	allMin := make([]float64, dim)
	allMax := make([]float64, dim)
	allZero := make([]float64, dim)
	mixed := make([]float64, dim)
	for i := 0; i < dim; i++ {
		allMin[i] = codec.ValueMin
		allMax[i] = codec.ValueMax
		if i%2 == 0 {
			mixed[i] = codec.ValueMin
		} else {
			mixed[i] = codec.ValueMax
		}
	}
	return [][]float64{allMin, allMax, allZero, mixed}
}

func withinBound(want, got []float64) (int, float64, bool) {
	for i := range want {
		diff := math.Abs(got[i] - want[i])
		if diff > codec.MaxQuantizationError {
			return i, diff, false
		}
	}
	return 0, 0, true
}

// verifyVectorRoundtrip checks encode-then-decode for one vector component
// over random samples plus the boundary vectors.
func (v *Verifier) verifyVectorRoundtrip(name string, dim, samples int,
	encode func([]float64) ([]int, error),
	decode func([]int) ([]float64, error)) *Result {

	start := time.Now()
	r := &Result{Property: name + "_roundtrip"}
	r.trace("property: decode(encode(x)) within %.6f of x for all %d-dim states", codec.MaxQuantizationError, dim)
	r.trace("samples: %d random + %d boundary vectors", samples, len(boundaryVectors(dim)))

	cases := make([][]float64, 0, samples+4)
	for i := 0; i < samples; i++ {
		cases = append(cases, v.randomVector(dim))
	}
	cases = append(cases, boundaryVectors(dim)...)

	for _, state := range cases {
		tokens, err := encode(state)
		if err != nil {
			r.Status = StatusError
			r.Message = fmt.Sprintf("encode failed: %v", err)
			return r.finish(start)
		}
		decoded, err := decode(tokens)
		if err != nil {
			r.Status = StatusError
			r.Message = fmt.Sprintf("decode failed: %v", err)
			return r.finish(start)
		}
		if idx, diff, ok := withinBound(state, decoded); !ok {
			r.recordFail(fmt.Sprintf("%s[%d]=%.6f decoded to %.6f (diff %.6f)", name, idx, state[idx], decoded[idx], diff))
		} else {
			r.recordPass()
		}
	}
	return r.finish(start)
}

// VerifyPerceptionRoundtrip checks the 4-dimensional perception codec.
func (v *Verifier) VerifyPerceptionRoundtrip() *Result {
	return v.verifyVectorRoundtrip("perception", codec.PerceptionDim, 1000, v.codec.EncodePerception, v.codec.DecodePerception)
}

// VerifyActionRoundtrip checks the 4-dimensional action codec.
func (v *Verifier) VerifyActionRoundtrip() *Result {
	return v.verifyVectorRoundtrip("action", codec.ActionDim, 1000, v.codec.EncodeAction, v.codec.DecodeAction)
}

// VerifySimulationRoundtrip checks the 9-dimensional simulation codec.
func (v *Verifier) VerifySimulationRoundtrip() *Result {
	return v.verifyVectorRoundtrip("simulation", codec.SimulationDim, 1000, v.codec.EncodeSimulation, v.codec.DecodeSimulation)
}

// VerifyStreamIDRoundtrip checks all stream ids roundtrip exactly.
func (v *Verifier) VerifyStreamIDRoundtrip() *Result {
	start := time.Now()
	r := &Result{Property: "stream_id_roundtrip"}
	r.trace("property: decode(encode(s)) == s for all %d stream ids", codec.NumStreams)

	for id := 1; id <= codec.NumStreams; id++ {
		tok, err := v.codec.EncodeStreamID(id)
		if err != nil {
			r.recordFail(fmt.Sprintf("stream %d: encode failed: %v", id, err))
			continue
		}
		got, err := v.codec.DecodeStreamID(tok)
		if err != nil || got != id {
			r.recordFail(fmt.Sprintf("stream %d encoded to %d, decoded to %d (err %v)", id, tok, got, err))
			continue
		}
		r.recordPass()
		r.trace("stream %d -> token %d -> stream %d", id, tok, got)
	}
	return r.finish(start)
}

// VerifyStepRoundtrip checks all cycle steps roundtrip exactly.
func (v *Verifier) VerifyStepRoundtrip() *Result {
	start := time.Now()
	r := &Result{Property: "step_roundtrip"}
	r.trace("property: decode(encode(n)) == n for all %d cycle steps", codec.CycleLength)

	for step := 1; step <= codec.CycleLength; step++ {
		tok, err := v.codec.EncodeStep(step)
		if err != nil {
			r.recordFail(fmt.Sprintf("step %d: encode failed: %v", step, err))
			continue
		}
		got, err := v.codec.DecodeStep(tok)
		if err != nil || got != step {
			r.recordFail(fmt.Sprintf("step %d encoded to %d, decoded to %d (err %v)", step, tok, got, err))
			continue
		}
		r.recordPass()
	}
	return r.finish(start)
}

// VerifySnapshotRoundtrip checks full cognitive state snapshots over random
// samples plus the exhaustive stream-by-step grid.
func (v *Verifier) VerifySnapshotRoundtrip() *Result {
	start := time.Now()
	r := &Result{Property: "cognitive_state_roundtrip"}
	r.trace("property: full %d-token snapshots roundtrip within the quantization bound", codec.SnapshotTokens)
	r.trace("samples: 500 random + %d exhaustive stream-step combinations", codec.NumStreams*codec.CycleLength)

	check := func(s codec.Snapshot, label string) {
		tokens, err := v.codec.EncodeSnapshot(s)
		if err != nil {
			r.recordFail(fmt.Sprintf("%s: encode failed: %v", label, err))
			return
		}
		if len(tokens) != codec.SnapshotTokens {
			r.recordFail(fmt.Sprintf("%s: got %d tokens, want %d", label, len(tokens), codec.SnapshotTokens))
			return
		}
		decoded, err := v.codec.DecodeSnapshot(tokens)
		if err != nil {
			r.recordFail(fmt.Sprintf("%s: decode failed: %v", label, err))
			return
		}
		if decoded.StreamID != s.StreamID || decoded.Step != s.Step {
			r.recordFail(fmt.Sprintf("%s: stream/step mismatch: got %d/%d want %d/%d", label, decoded.StreamID, decoded.Step, s.StreamID, s.Step))
			return
		}
		for name, pair := range map[string][2][]float64{
			"perception": {s.Perception, decoded.Perception},
			"action":     {s.Action, decoded.Action},
			"simulation": {s.Simulation, decoded.Simulation},
		} {
			if idx, diff, ok := withinBound(pair[0], pair[1]); !ok {
				r.recordFail(fmt.Sprintf("%s: %s[%d] diff %.6f exceeds bound", label, name, idx, diff))
				return
			}
		}
		r.recordPass()
	}

	for i := 0; i < 500; i++ {
		check(codec.Snapshot{
			StreamID:   v.rng.Intn(codec.NumStreams) + 1,
			Step:       v.rng.Intn(codec.CycleLength) + 1,
			Perception: v.randomVector(codec.PerceptionDim),
			Action:     v.randomVector(codec.ActionDim),
			Simulation: v.randomVector(codec.SimulationDim),
		}, fmt.Sprintf("random %d", i))
	}

	for stream := 1; stream <= codec.NumStreams; stream++ {
		for step := 1; step <= codec.CycleLength; step++ {
			check(codec.Snapshot{
				StreamID:   stream,
				Step:       step,
				Perception: make([]float64, codec.PerceptionDim),
				Action:     make([]float64, codec.ActionDim),
				Simulation: make([]float64, codec.SimulationDim),
			}, fmt.Sprintf("grid stream=%d step=%d", stream, step))
		}
	}
	return r.finish(start)
}

// VerifyShellsRoundtrip checks the nested shell codec over random samples.
func (v *Verifier) VerifyShellsRoundtrip() *Result {
	start := time.Now()
	r := &Result{Property: "nested_shells_roundtrip"}
	r.trace("property: %d-term nested shells (1+2+4+9) roundtrip within the quantization bound", codec.TotalNestedTerms)

	for i := 0; i < 500; i++ {
		shells := codec.Shells{
			Nest1: v.randomVector(codec.Nest1Size),
			Nest2: v.randomVector(codec.Nest2Size),
			Nest3: v.randomVector(codec.Nest3Size),
			Nest4: v.randomVector(codec.Nest4Size),
		}
		tokens, err := v.codec.EncodeShells(shells)
		if err != nil {
			r.recordFail(fmt.Sprintf("sample %d: encode failed: %v", i, err))
			continue
		}
		decoded, err := v.codec.DecodeShells(tokens)
		if err != nil {
			r.recordFail(fmt.Sprintf("sample %d: decode failed: %v", i, err))
			continue
		}
		ok := true
		for _, pair := range [][2][]float64{
			{shells.Nest1, decoded.Nest1},
			{shells.Nest2, decoded.Nest2},
			{shells.Nest3, decoded.Nest3},
			{shells.Nest4, decoded.Nest4},
		} {
			if _, diff, within := withinBound(pair[0], pair[1]); !within {
				r.recordFail(fmt.Sprintf("sample %d: shell diff %.6f exceeds bound", i, diff))
				ok = false
				break
			}
		}
		if ok {
			r.recordPass()
		}
	}
	return r.finish(start)
}

// VerifyQuantizationBound checks the scalar quantizer never exceeds its
// stated worst-case error.
func (v *Verifier) VerifyQuantizationBound() *Result {
	start := time.Now()
	r := &Result{Property: "quantization_error_bound"}
	r.trace("property: |dequantize(quantize(x)) - x| <= %.6f for all x in [%.1f, %.1f]",
		codec.MaxQuantizationError, codec.ValueMin, codec.ValueMax)

	const samples = 10000
	// Tiny slack absorbs float64 rounding in the bound itself.
	bound := codec.MaxQuantizationError + 1e-10
	maxSeen := 0.0
	for i := 0; i < samples; i++ {
		x := v.rng.Float64()*2 - 1
		got := v.codec.Dequantize(v.codec.Quantize(x))
		diff := math.Abs(got - x)
		if diff > maxSeen {
			maxSeen = diff
		}
		if diff > bound {
			r.recordFail(fmt.Sprintf("x=%.9f error %.9f exceeds bound %.9f", x, diff, bound))
		} else {
			r.recordPass()
		}
	}
	r.trace("max observed error: %.9f", maxSeen)
	return r.finish(start)
}

// RunAll runs every property check and assembles a report.
func (v *Verifier) RunAll() *Report {
	results := []*Result{
		v.VerifyPerceptionRoundtrip(),
		v.VerifyActionRoundtrip(),
		v.VerifySimulationRoundtrip(),
		v.VerifyStreamIDRoundtrip(),
		v.VerifyStepRoundtrip(),
		v.VerifySnapshotRoundtrip(),
		v.VerifyShellsRoundtrip(),
		v.VerifyQuantizationBound(),
	}

	summary := Summary{TotalProperties: len(results)}
	for _, r := range results {
		summary.TotalTestCases += r.TestCases
		summary.TotalPassed += r.Passed
		summary.TotalFailed += r.Failed
		if r.Status == StatusPassed {
			summary.PropertiesPass++
		} else {
			summary.PropertiesFail++
		}
	}
	summary.AllPassed = summary.PropertiesFail == 0

	gen := onto.NewSequenceGenerator(6)
	for n := 0; n <= 6; n++ {
		summary.TreeCounts = append(summary.TreeCounts, gen.At(n))
	}

	status := StatusPassed
	if !summary.AllPassed {
		status = StatusFailed
	}
	report := &Report{
		Property:      "cognitive_state_roundtrip_integrity",
		Timestamp:     time.Now().UTC(),
		OverallStatus: status,
		Results:       results,
		Summary:       summary,
	}

	logger.Infow("verification complete",
		"status", report.OverallStatus,
		"properties", summary.TotalProperties,
		"cases", summary.TotalTestCases,
		"failed", summary.TotalFailed,
	)
	return report
}
