package lld

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoveryFiltersFalsyValues(t *testing.T) {
	out, err := Discovery([]Record{
		{"name": "eth0", "index": 0},
		{"name": "", "index": 0},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[{"{#NAME}":"eth0"}]}`, out)
}

func TestDiscoverySurvivingPairsKept(t *testing.T) {
	out, err := Discovery([]Record{
		{"name": "", "index": 1},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[{"{#INDEX}":"1"}]}`, out)
}

func TestDiscoveryEmptyInput(t *testing.T) {
	out, err := Discovery(nil)
	require.NoError(t, err)
	assert.Equal(t, `{"data":[]}`, out)
}

func TestDiscoveryStringifiesValues(t *testing.T) {
	out, err := Discovery([]Record{
		{"count": 42, "ratio": 0.5, "active": true},
	})
	require.NoError(t, err)

	var decoded struct {
		Data []map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Data, 1)
	assert.Equal(t, "42", decoded.Data[0]["{#COUNT}"])
	assert.Equal(t, "0.5", decoded.Data[0]["{#RATIO}"])
	assert.Equal(t, "true", decoded.Data[0]["{#ACTIVE}"])
}

func TestDiscoveryDropsEmptyContainers(t *testing.T) {
	out, err := Discovery([]Record{
		{"tags": []string{}, "attrs": map[string]string{}, "name": "sda"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[{"{#NAME}":"sda"}]}`, out)
}

func TestDiscoveryKeepsNonEmptyContainers(t *testing.T) {
	out, err := Discovery([]Record{
		{"tags": []string{"ssd"}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[{"{#TAGS}":"[ssd]"}]}`, out)
}

func TestDiscoveryMacroCollisionLastWins(t *testing.T) {
	// "cpu usage" and "cpu-usage" normalize to the same macro; one of the
	// two survives per record. The collision is silent by design.
	out, err := Discovery([]Record{
		{"cpu usage": "a", "cpu-usage": "b"},
	})
	require.NoError(t, err)

	var decoded struct {
		Data []map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Data, 1)
	require.Len(t, decoded.Data[0], 1)
	assert.Contains(t, []string{"a", "b"}, decoded.Data[0]["{#CPU_USAGE}"])
}

func TestDiscoveryMacroNamesMatchWireFormat(t *testing.T) {
	out, err := Discovery([]Record{
		{"fs name": "/", "fs type": "ext4"},
	})
	require.NoError(t, err)

	var decoded struct {
		Data []map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Data, 1)
	for macro := range decoded.Data[0] {
		assert.Regexp(t, `^\{#[A-Z_]*\}$`, macro)
	}
}
