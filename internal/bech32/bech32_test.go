package bech32

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09}

	encoded, err := Encode("tnam", payload)
	require.NoError(t, err)
	assert.Contains(t, encoded, "tnam1")

	hrp, decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "tnam", hrp)
	assert.Equal(t, payload, decoded)
}

func TestDecodeRejectsBadChecksum(t *testing.T) {
	encoded, err := Encode("tnam", []byte{0xAA, 0xBB})
	require.NoError(t, err)

	corrupted := encoded[:len(encoded)-1] + "z"
	if corrupted == encoded {
		corrupted = encoded[:len(encoded)-1] + "q"
	}

	_, _, err = Decode(corrupted)
	require.Error(t, err)
}

func TestDecodeRejectsMixedCase(t *testing.T) {
	_, _, err := Decode("tNam1qqqqqqqqqqqqqqqqqqq")
	require.Error(t, err)
}
