package codec

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/chimera/errors"
)

func TestQuantizeRoundTripBound(t *testing.T) {
	c := New()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		v := rng.Float64()*2 - 1
		got := c.Dequantize(c.Quantize(v))
		assert.LessOrEqual(t, math.Abs(got-v), MaxQuantizationError)
	}
}

func TestQuantizeClampsOutOfRange(t *testing.T) {
	c := New()

	assert.Equal(t, 0, c.Quantize(-5.0))
	assert.Equal(t, 0, c.Quantize(ValueMin))
	assert.Equal(t, QuantizationLevels-1, c.Quantize(5.0))
	assert.Equal(t, QuantizationLevels-1, c.Quantize(ValueMax))
}

func TestVectorRoundTrips(t *testing.T) {
	c := New()

	cases := []struct {
		name   string
		dim    int
		offset int
		encode func([]float64) ([]int, error)
		decode func([]int) ([]float64, error)
	}{
		{"perception", PerceptionDim, PerceptionOffset, c.EncodePerception, c.DecodePerception},
		{"action", ActionDim, ActionOffset, c.EncodeAction, c.DecodeAction},
		{"simulation", SimulationDim, SimulationOffset, c.EncodeSimulation, c.DecodeSimulation},
	}

	rng := rand.New(rand.NewSource(7))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := make([]float64, tc.dim)
			for i := range state {
				state[i] = rng.Float64()*2 - 1
			}

			tokens, err := tc.encode(state)
			require.NoError(t, err)
			require.Len(t, tokens, tc.dim)
			for _, tok := range tokens {
				assert.GreaterOrEqual(t, tok, tc.offset)
				assert.Less(t, tok, tc.offset+QuantizationLevels)
			}

			decoded, err := tc.decode(tokens)
			require.NoError(t, err)
			for i := range state {
				assert.LessOrEqual(t, math.Abs(decoded[i]-state[i]), MaxQuantizationError)
			}
		})
	}
}

func TestVectorDimensionMismatch(t *testing.T) {
	c := New()

	_, err := c.EncodePerception([]float64{0.1, 0.2})
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)

	_, err = c.DecodeSimulation([]int{SimulationOffset})
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)
}

func TestVectorTokenOutOfRange(t *testing.T) {
	c := New()

	tokens := []int{ActionOffset, ActionOffset + 1, ActionOffset + 2, PerceptionOffset}
	_, err := c.DecodeAction(tokens)
	assert.ErrorIs(t, err, errors.ErrTokenOutOfRange)
}

func TestStreamIDRoundTrip(t *testing.T) {
	c := New()

	for id := 1; id <= NumStreams; id++ {
		tok, err := c.EncodeStreamID(id)
		require.NoError(t, err)
		assert.Equal(t, StreamOffset+id-1, tok)

		got, err := c.DecodeStreamID(tok)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}

	_, err := c.EncodeStreamID(0)
	assert.ErrorIs(t, err, errors.ErrTokenOutOfRange)
	_, err = c.EncodeStreamID(NumStreams + 1)
	assert.ErrorIs(t, err, errors.ErrTokenOutOfRange)
	_, err = c.DecodeStreamID(StreamOffset + NumStreams)
	assert.ErrorIs(t, err, errors.ErrTokenOutOfRange)
}

func TestStepRoundTrip(t *testing.T) {
	c := New()

	for step := 1; step <= CycleLength; step++ {
		tok, err := c.EncodeStep(step)
		require.NoError(t, err)

		got, err := c.DecodeStep(tok)
		require.NoError(t, err)
		assert.Equal(t, step, got)
	}

	_, err := c.EncodeStep(13)
	assert.ErrorIs(t, err, errors.ErrTokenOutOfRange)
	_, err = c.DecodeStep(StepOffset - 1)
	assert.ErrorIs(t, err, errors.ErrTokenOutOfRange)
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := New()
	rng := rand.New(rand.NewSource(99))

	randomVector := func(dim int) []float64 {
		v := make([]float64, dim)
		for i := range v {
			v[i] = rng.Float64()*2 - 1
		}
		return v
	}

	snapshot := Snapshot{
		StreamID:   2,
		Step:       7,
		Perception: randomVector(PerceptionDim),
		Action:     randomVector(ActionDim),
		Simulation: randomVector(SimulationDim),
	}

	tokens, err := c.EncodeSnapshot(snapshot)
	require.NoError(t, err)
	require.Len(t, tokens, SnapshotTokens)
	assert.Equal(t, BOSToken, tokens[0])
	assert.Equal(t, EOSToken, tokens[len(tokens)-1])

	decoded, err := c.DecodeSnapshot(tokens)
	require.NoError(t, err)
	assert.Equal(t, snapshot.StreamID, decoded.StreamID)
	assert.Equal(t, snapshot.Step, decoded.Step)
	for i := range snapshot.Perception {
		assert.LessOrEqual(t, math.Abs(decoded.Perception[i]-snapshot.Perception[i]), MaxQuantizationError)
	}
	for i := range snapshot.Action {
		assert.LessOrEqual(t, math.Abs(decoded.Action[i]-snapshot.Action[i]), MaxQuantizationError)
	}
	for i := range snapshot.Simulation {
		assert.LessOrEqual(t, math.Abs(decoded.Simulation[i]-snapshot.Simulation[i]), MaxQuantizationError)
	}
}

func TestSnapshotRejectsMalformed(t *testing.T) {
	c := New()

	_, err := c.DecodeSnapshot(make([]int, 5))
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)

	valid, err := c.EncodeSnapshot(Snapshot{
		StreamID:   1,
		Step:       1,
		Perception: make([]float64, PerceptionDim),
		Action:     make([]float64, ActionDim),
		Simulation: make([]float64, SimulationDim),
	})
	require.NoError(t, err)

	noBOS := append([]int{}, valid...)
	noBOS[0] = PadToken
	_, err = c.DecodeSnapshot(noBOS)
	assert.ErrorIs(t, err, errors.ErrTokenOutOfRange)

	noEOS := append([]int{}, valid...)
	noEOS[len(noEOS)-1] = PadToken
	_, err = c.DecodeSnapshot(noEOS)
	assert.ErrorIs(t, err, errors.ErrTokenOutOfRange)
}

func TestShellsRoundTrip(t *testing.T) {
	c := New()
	rng := rand.New(rand.NewSource(17))

	randomVector := func(dim int) []float64 {
		v := make([]float64, dim)
		for i := range v {
			v[i] = rng.Float64()*2 - 1
		}
		return v
	}

	shells := Shells{
		Nest1: randomVector(Nest1Size),
		Nest2: randomVector(Nest2Size),
		Nest3: randomVector(Nest3Size),
		Nest4: randomVector(Nest4Size),
	}

	tokens, err := c.EncodeShells(shells)
	require.NoError(t, err)
	require.Len(t, tokens, TotalNestedTerms)
	for _, tok := range tokens {
		assert.GreaterOrEqual(t, tok, 0)
		assert.Less(t, tok, QuantizationLevels)
	}

	decoded, err := c.DecodeShells(tokens)
	require.NoError(t, err)
	checkShell := func(want, got []float64) {
		require.Len(t, got, len(want))
		for i := range want {
			assert.LessOrEqual(t, math.Abs(got[i]-want[i]), MaxQuantizationError)
		}
	}
	checkShell(shells.Nest1, decoded.Nest1)
	checkShell(shells.Nest2, decoded.Nest2)
	checkShell(shells.Nest3, decoded.Nest3)
	checkShell(shells.Nest4, decoded.Nest4)
}

func TestShellsRejectsMalformed(t *testing.T) {
	c := New()

	_, err := c.EncodeShells(Shells{
		Nest1: make([]float64, Nest1Size),
		Nest2: make([]float64, Nest2Size),
		Nest3: make([]float64, Nest3Size),
		Nest4: make([]float64, Nest4Size+1),
	})
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)

	_, err = c.DecodeShells(make([]int, TotalNestedTerms-1))
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)

	bad := make([]int, TotalNestedTerms)
	bad[3] = QuantizationLevels
	_, err = c.DecodeShells(bad)
	assert.ErrorIs(t, err, errors.ErrTokenOutOfRange)
}
