// Package codec tokenizes cognitive state for sequence models: continuous
// state vectors are quantized to 256 levels over [-1, 1] and placed in
// per-component token ranges. All dimensions follow the rooted-tree counts:
// perception and action are 4-dimensional, simulation 9-dimensional, and the
// nested shells hold 1, 2, 4, and 9 terms.
package codec

import (
	"math"

	"github.com/teranos/chimera/errors"
)

// Vocabulary constants.
const (
	VocabSize = 32000
	MaxLength = 2048

	PadToken = 0
	BOSToken = 1
	EOSToken = 2
	UNKToken = 3
)

// Quantization parameters.
const (
	QuantizationLevels = 256
	ValueMin           = -1.0
	ValueMax           = 1.0

	// MaxQuantizationError is the worst-case roundtrip error:
	// (ValueMax - ValueMin) / (QuantizationLevels - 1).
	MaxQuantizationError = (ValueMax - ValueMin) / (QuantizationLevels - 1)
)

// Token range offsets per state component.
const (
	StreamOffset     = 100
	StepOffset       = 300
	PerceptionOffset = 1000
	ActionOffset     = 2000
	SimulationOffset = 3000
)

// State dimensions and loop constants.
const (
	PerceptionDim = 4
	ActionDim     = 4
	SimulationDim = 9

	NumStreams  = 3
	CycleLength = 12

	// A full snapshot: BOS + stream + step + 4 + 4 + 9 + EOS.
	SnapshotTokens = 3 + PerceptionDim + ActionDim + SimulationDim + 1
)

// Nested shell sizes.
const (
	Nest1Size        = 1
	Nest2Size        = 2
	Nest3Size        = 4
	Nest4Size        = 9
	TotalNestedTerms = Nest1Size + Nest2Size + Nest3Size + Nest4Size
)

// Codec encodes and decodes cognitive state token sequences.
type Codec struct{}

// New creates a codec.
func New() *Codec {
	return &Codec{}
}

// Quantize maps a value in [ValueMin, ValueMax] to a quantization level.
// Out-of-range values are clamped.
func (c *Codec) Quantize(value float64) int {
	if value < ValueMin {
		value = ValueMin
	}
	if value > ValueMax {
		value = ValueMax
	}
	normalized := (value - ValueMin) / (ValueMax - ValueMin)
	return int(math.Floor(normalized * (QuantizationLevels - 1)))
}

// Dequantize maps a quantization level back to a value.
func (c *Codec) Dequantize(token int) float64 {
	normalized := float64(token) / (QuantizationLevels - 1)
	return normalized*(ValueMax-ValueMin) + ValueMin
}

// encodeVector quantizes each value into the component's token range.
func (c *Codec) encodeVector(state []float64, dim, offset int, what string) ([]int, error) {
	if len(state) != dim {
		return nil, errors.Wrapf(errors.ErrDimensionMismatch, "%s state wants %d values, got %d", what, dim, len(state))
	}
	tokens := make([]int, dim)
	for i, v := range state {
		tokens[i] = offset + c.Quantize(v)
	}
	return tokens, nil
}

// decodeVector reverses encodeVector, validating the token range.
func (c *Codec) decodeVector(tokens []int, dim, offset int, what string) ([]float64, error) {
	if len(tokens) != dim {
		return nil, errors.Wrapf(errors.ErrDimensionMismatch, "%s wants %d tokens, got %d", what, dim, len(tokens))
	}
	values := make([]float64, dim)
	for i, tok := range tokens {
		level := tok - offset
		if level < 0 || level >= QuantizationLevels {
			return nil, errors.Wrapf(errors.ErrTokenOutOfRange, "%s token %d outside [%d, %d)", what, tok, offset, offset+QuantizationLevels)
		}
		values[i] = c.Dequantize(level)
	}
	return values, nil
}

// EncodePerception tokenizes a 4-dimensional perception state.
func (c *Codec) EncodePerception(state []float64) ([]int, error) {
	return c.encodeVector(state, PerceptionDim, PerceptionOffset, "perception")
}

// DecodePerception reverses EncodePerception.
func (c *Codec) DecodePerception(tokens []int) ([]float64, error) {
	return c.decodeVector(tokens, PerceptionDim, PerceptionOffset, "perception")
}

// EncodeAction tokenizes a 4-dimensional action state.
func (c *Codec) EncodeAction(state []float64) ([]int, error) {
	return c.encodeVector(state, ActionDim, ActionOffset, "action")
}

// DecodeAction reverses EncodeAction.
func (c *Codec) DecodeAction(tokens []int) ([]float64, error) {
	return c.decodeVector(tokens, ActionDim, ActionOffset, "action")
}

// EncodeSimulation tokenizes a 9-dimensional simulation state.
func (c *Codec) EncodeSimulation(state []float64) ([]int, error) {
	return c.encodeVector(state, SimulationDim, SimulationOffset, "simulation")
}

// DecodeSimulation reverses EncodeSimulation.
func (c *Codec) DecodeSimulation(tokens []int) ([]float64, error) {
	return c.decodeVector(tokens, SimulationDim, SimulationOffset, "simulation")
}

// EncodeStreamID tokenizes a stream id in [1, NumStreams].
func (c *Codec) EncodeStreamID(streamID int) (int, error) {
	if streamID < 1 || streamID > NumStreams {
		return 0, errors.Wrapf(errors.ErrTokenOutOfRange, "stream id %d outside [1, %d]", streamID, NumStreams)
	}
	return StreamOffset + streamID - 1, nil
}

// DecodeStreamID reverses EncodeStreamID.
func (c *Codec) DecodeStreamID(token int) (int, error) {
	streamID := token - StreamOffset + 1
	if streamID < 1 || streamID > NumStreams {
		return 0, errors.Wrapf(errors.ErrTokenOutOfRange, "token %d is not a stream id", token)
	}
	return streamID, nil
}

// EncodeStep tokenizes a cycle step in [1, CycleLength].
func (c *Codec) EncodeStep(step int) (int, error) {
	if step < 1 || step > CycleLength {
		return 0, errors.Wrapf(errors.ErrTokenOutOfRange, "step %d outside [1, %d]", step, CycleLength)
	}
	return StepOffset + step - 1, nil
}

// DecodeStep reverses EncodeStep.
func (c *Codec) DecodeStep(token int) (int, error) {
	step := token - StepOffset + 1
	if step < 1 || step > CycleLength {
		return 0, errors.Wrapf(errors.ErrTokenOutOfRange, "token %d is not a step", token)
	}
	return step, nil
}

// Snapshot is one full cognitive state: which stream at which step, with the
// three state vectors.
type Snapshot struct {
	StreamID   int       `json:"stream_id"`
	Step       int       `json:"step"`
	Perception []float64 `json:"perception"`
	Action     []float64 `json:"action"`
	Simulation []float64 `json:"simulation"`
}

// EncodeSnapshot tokenizes a full snapshot as
// BOS, stream, step, perception, action, simulation, EOS (19 tokens).
func (c *Codec) EncodeSnapshot(s Snapshot) ([]int, error) {
	stream, err := c.EncodeStreamID(s.StreamID)
	if err != nil {
		return nil, err
	}
	step, err := c.EncodeStep(s.Step)
	if err != nil {
		return nil, err
	}
	perception, err := c.EncodePerception(s.Perception)
	if err != nil {
		return nil, err
	}
	action, err := c.EncodeAction(s.Action)
	if err != nil {
		return nil, err
	}
	simulation, err := c.EncodeSimulation(s.Simulation)
	if err != nil {
		return nil, err
	}

	tokens := make([]int, 0, SnapshotTokens)
	tokens = append(tokens, BOSToken, stream, step)
	tokens = append(tokens, perception...)
	tokens = append(tokens, action...)
	tokens = append(tokens, simulation...)
	tokens = append(tokens, EOSToken)
	return tokens, nil
}

// DecodeSnapshot reverses EncodeSnapshot.
func (c *Codec) DecodeSnapshot(tokens []int) (Snapshot, error) {
	if len(tokens) != SnapshotTokens {
		return Snapshot{}, errors.Wrapf(errors.ErrDimensionMismatch, "snapshot wants %d tokens, got %d", SnapshotTokens, len(tokens))
	}
	if tokens[0] != BOSToken {
		return Snapshot{}, errors.Wrapf(errors.ErrTokenOutOfRange, "snapshot must start with BOS, got %d", tokens[0])
	}
	if tokens[len(tokens)-1] != EOSToken {
		return Snapshot{}, errors.Wrapf(errors.ErrTokenOutOfRange, "snapshot must end with EOS, got %d", tokens[len(tokens)-1])
	}

	var (
		s   Snapshot
		err error
	)
	idx := 1
	if s.StreamID, err = c.DecodeStreamID(tokens[idx]); err != nil {
		return Snapshot{}, err
	}
	idx++
	if s.Step, err = c.DecodeStep(tokens[idx]); err != nil {
		return Snapshot{}, err
	}
	idx++
	if s.Perception, err = c.DecodePerception(tokens[idx : idx+PerceptionDim]); err != nil {
		return Snapshot{}, err
	}
	idx += PerceptionDim
	if s.Action, err = c.DecodeAction(tokens[idx : idx+ActionDim]); err != nil {
		return Snapshot{}, err
	}
	idx += ActionDim
	if s.Simulation, err = c.DecodeSimulation(tokens[idx : idx+SimulationDim]); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// Shells is the nested shell structure of 1, 2, 4, and 9 terms.
type Shells struct {
	Nest1 []float64 `json:"nest1"`
	Nest2 []float64 `json:"nest2"`
	Nest3 []float64 `json:"nest3"`
	Nest4 []float64 `json:"nest4"`
}

// EncodeShells tokenizes the nested shells as 16 raw quantization levels.
func (c *Codec) EncodeShells(s Shells) ([]int, error) {
	sizes := []struct {
		values []float64
		size   int
		name   string
	}{
		{s.Nest1, Nest1Size, "nest1"},
		{s.Nest2, Nest2Size, "nest2"},
		{s.Nest3, Nest3Size, "nest3"},
		{s.Nest4, Nest4Size, "nest4"},
	}

	tokens := make([]int, 0, TotalNestedTerms)
	for _, shell := range sizes {
		if len(shell.values) != shell.size {
			return nil, errors.Wrapf(errors.ErrDimensionMismatch, "%s wants %d values, got %d", shell.name, shell.size, len(shell.values))
		}
		for _, v := range shell.values {
			tokens = append(tokens, c.Quantize(v))
		}
	}
	return tokens, nil
}

// DecodeShells reverses EncodeShells.
func (c *Codec) DecodeShells(tokens []int) (Shells, error) {
	if len(tokens) != TotalNestedTerms {
		return Shells{}, errors.Wrapf(errors.ErrDimensionMismatch, "shells want %d tokens, got %d", TotalNestedTerms, len(tokens))
	}
	for _, tok := range tokens {
		if tok < 0 || tok >= QuantizationLevels {
			return Shells{}, errors.Wrapf(errors.ErrTokenOutOfRange, "shell token %d outside [0, %d)", tok, QuantizationLevels)
		}
	}

	dequantize := func(levels []int) []float64 {
		values := make([]float64, len(levels))
		for i, tok := range levels {
			values[i] = c.Dequantize(tok)
		}
		return values
	}

	return Shells{
		Nest1: dequantize(tokens[:Nest1Size]),
		Nest2: dequantize(tokens[Nest1Size : Nest1Size+Nest2Size]),
		Nest3: dequantize(tokens[Nest1Size+Nest2Size : Nest1Size+Nest2Size+Nest3Size]),
		Nest4: dequantize(tokens[Nest1Size+Nest2Size+Nest3Size:]),
	}, nil
}
