package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStimulus(t *testing.T) {
	input, err := parseStimulus([]string{"sky=blue", "threat=none"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"sky": "blue", "threat": "none"}, input)
}

func TestParseStimulusEmpty(t *testing.T) {
	input, err := parseStimulus(nil)
	require.NoError(t, err)
	assert.Nil(t, input)
}

func TestParseStimulusMalformed(t *testing.T) {
	for _, pair := range []string{"skyblue", "=blue"} {
		_, err := parseStimulus([]string{pair})
		assert.Error(t, err, pair)
	}
}
