package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChecksums_InvertsHashAndKind(t *testing.T) {
	raw, err := json.Marshal(map[string]string{
		"tx_transfer.wasm": "tx_transfer.ABCDEF1234",
		"tx_bond.wasm":      "tx_bond.00FF00FF",
	})
	require.NoError(t, err)

	cm, err := ParseChecksums(raw)
	require.NoError(t, err)

	assert.Equal(t, "tx_transfer", cm.LookupKind("abcdef1234"))
	assert.Equal(t, "tx_bond", cm.LookupKind("00ff00ff"))
	assert.Equal(t, "unknown", cm.LookupKind("deadbeef"))
}

func TestParseChecksums_RejectsMalformedValue(t *testing.T) {
	raw, err := json.Marshal(map[string]string{"tx_transfer.wasm": "no-dot-here"})
	require.NoError(t, err)

	_, err = ParseChecksums(raw)
	require.Error(t, err)
}
