package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/chimera/codec"
)

func TestVectorRoundtripProperties(t *testing.T) {
	v := New(42)

	for _, result := range []*Result{
		v.VerifyPerceptionRoundtrip(),
		v.VerifyActionRoundtrip(),
		v.VerifySimulationRoundtrip(),
	} {
		assert.Equal(t, StatusPassed, result.Status, result.Property)
		assert.Equal(t, 1004, result.TestCases, result.Property)
		assert.Equal(t, result.TestCases, result.Passed, result.Property)
		assert.Zero(t, result.Failed, result.Property)
		assert.Empty(t, result.Counterexamples, result.Property)
		assert.NotEmpty(t, result.ProofTrace, result.Property)
	}
}

func TestStreamIDExhaustive(t *testing.T) {
	result := New(1).VerifyStreamIDRoundtrip()

	assert.Equal(t, StatusPassed, result.Status)
	assert.Equal(t, codec.NumStreams, result.TestCases)
	assert.Equal(t, codec.NumStreams, result.Passed)
}

func TestStepExhaustive(t *testing.T) {
	result := New(1).VerifyStepRoundtrip()

	assert.Equal(t, StatusPassed, result.Status)
	assert.Equal(t, codec.CycleLength, result.TestCases)
	assert.Equal(t, codec.CycleLength, result.Passed)
}

func TestSnapshotProperty(t *testing.T) {
	result := New(7).VerifySnapshotRoundtrip()

	assert.Equal(t, StatusPassed, result.Status)
	assert.Equal(t, 500+codec.NumStreams*codec.CycleLength, result.TestCases)
	assert.Zero(t, result.Failed)
}

func TestShellsProperty(t *testing.T) {
	result := New(7).VerifyShellsRoundtrip()

	assert.Equal(t, StatusPassed, result.Status)
	assert.Equal(t, 500, result.TestCases)
	assert.Zero(t, result.Failed)
}

func TestQuantizationBoundProperty(t *testing.T) {
	result := New(99).VerifyQuantizationBound()

	assert.Equal(t, StatusPassed, result.Status)
	assert.Equal(t, 10000, result.TestCases)
	assert.Zero(t, result.Failed)
}

func TestRunAllReport(t *testing.T) {
	report := New(42).RunAll()

	assert.Equal(t, StatusPassed, report.OverallStatus)
	require.Len(t, report.Results, 8)
	assert.Equal(t, 8, report.Summary.TotalProperties)
	assert.Equal(t, 8, report.Summary.PropertiesPass)
	assert.Zero(t, report.Summary.PropertiesFail)
	assert.True(t, report.Summary.AllPassed)
	assert.Equal(t, report.Summary.TotalPassed, report.Summary.TotalTestCases)
	assert.False(t, report.Timestamp.IsZero())

	// tree counts 0..6 of the rooted-tree sequence
	assert.Equal(t, []int64{0, 1, 1, 2, 4, 9, 20}, report.Summary.TreeCounts)
}

func TestResultStatusOnFailure(t *testing.T) {
	r := &Result{Property: "synthetic"}
	for i := 0; i < 7; i++ {
		r.recordFail("case")
	}
	r.recordPass()

	assert.Equal(t, 8, r.TestCases)
	assert.Equal(t, 7, r.Failed)
	assert.Len(t, r.Counterexamples, maxCounterexamples)
}
