package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitions_Text(t *testing.T) {
	isolate(t)

	out, err := execute(t, "transitions", "--config", "testdata/flow.toml")
	require.NoError(t, err)
	assert.Equal(t, "cut\nfade enter=fade_in exit=fade_out duration=100ms (default)\n", out)
}

func TestTransitions_Empty(t *testing.T) {
	isolate(t)

	out, err := execute(t, "transitions")
	require.NoError(t, err)
	assert.Equal(t, "no transitions configured\n", out)
}

func TestTransitions_JSON(t *testing.T) {
	isolate(t)

	out, err := execute(t, "transitions", "--config", "testdata/flow.toml", "--format", "json")
	require.NoError(t, err)

	var infos []transitionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	assert.Equal(t, []transitionInfo{
		{Name: "cut"},
		{Name: "fade", Enter: "fade_in", Exit: "fade_out", Duration: "100ms", Default: true},
	}, infos)
}
