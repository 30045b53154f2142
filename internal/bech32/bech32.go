// Package bech32 implements the BIP-173 bech32 checksum encoding used for
// Namada addresses (hrp "tnam"/"atest"). No third-party bech32 module in the
// dependency set can be fetched as a standalone library (the one example
// that implements it is vendored behind a local-only replace directive), so
// this is a direct, from-scratch implementation of the published algorithm.
package bech32

import (
	"fmt"
	"strings"
)

// ValidatorHRP is the human-readable prefix Namada uses for implicit
// addresses derived from a consensus key.
const ValidatorHRP = "tnam"

const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

var charsetRev = func() [128]int8 {
	var rev [128]int8
	for i := range rev {
		rev[i] = -1
	}
	for i, c := range charset {
		rev[c] = int8(i)
	}
	return rev
}()

// Encode converts an hrp and a byte payload into a bech32 string.
func Encode(hrp string, data []byte) (string, error) {
	values, err := convertBits(data, 8, 5, true)
	if err != nil {
		return "", err
	}
	checksum := createChecksum(hrp, values)
	combined := append(values, checksum...)

	var sb strings.Builder
	sb.WriteString(hrp)
	sb.WriteByte('1')
	for _, v := range combined {
		sb.WriteByte(charset[v])
	}
	return sb.String(), nil
}

// EncodeValidatorAddress renders a raw consensus address as a Namada-style
// bech32 string, falling back to upper-case hex if Encode returns an error
// rather than failing the caller outright. Encode pads payloads of any byte
// length.
func EncodeValidatorAddress(raw []byte) string {
	encoded, err := Encode(ValidatorHRP, raw)
	if err != nil {
		return fmt.Sprintf("%X", raw)
	}
	return encoded
}

// Decode splits a bech32 string into its hrp and byte payload, verifying the
// checksum along the way.
func Decode(bech string) (hrp string, data []byte, err error) {
	if len(bech) < 8 || len(bech) > 90 {
		return "", nil, fmt.Errorf("bech32: invalid length %d", len(bech))
	}
	lower := strings.ToLower(bech)
	if lower != bech && strings.ToUpper(bech) != bech {
		return "", nil, fmt.Errorf("bech32: mixed case string")
	}
	bech = lower

	sep := strings.LastIndexByte(bech, '1')
	if sep < 1 || sep+7 > len(bech) {
		return "", nil, fmt.Errorf("bech32: separator '1' not found in valid position")
	}

	hrp = bech[:sep]
	values := make([]byte, len(bech)-sep-1)
	for i, c := range bech[sep+1:] {
		if c >= 128 || charsetRev[c] == -1 {
			return "", nil, fmt.Errorf("bech32: invalid character %q", c)
		}
		values[i] = byte(charsetRev[c])
	}

	if !verifyChecksum(hrp, values) {
		return "", nil, fmt.Errorf("bech32: invalid checksum")
	}

	decoded, err := convertBits(values[:len(values)-6], 5, 8, false)
	if err != nil {
		return "", nil, err
	}
	return hrp, decoded, nil
}

func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	var acc uint32
	var bits uint
	maxv := uint32(1<<toBits) - 1
	var out []byte

	for _, value := range data {
		v := uint32(value)
		if v>>fromBits != 0 {
			return nil, fmt.Errorf("bech32: invalid data range for convertBits")
		}
		acc = (acc << fromBits) | v
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte((acc>>bits)&maxv))
		}
	}

	if pad {
		if bits > 0 {
			out = append(out, byte((acc<<(toBits-bits))&maxv))
		}
	} else if bits >= fromBits || ((acc<<(toBits-bits))&maxv) != 0 {
		return nil, fmt.Errorf("bech32: invalid padding in convertBits")
	}

	return out, nil
}

func hrpExpand(hrp string) []byte {
	out := make([]byte, 0, len(hrp)*2+1)
	for _, c := range hrp {
		out = append(out, byte(c)>>5)
	}
	out = append(out, 0)
	for _, c := range hrp {
		out = append(out, byte(c)&31)
	}
	return out
}

func polymod(values []byte) uint32 {
	gen := [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 != 0 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

func createChecksum(hrp string, data []byte) []byte {
	values := append(hrpExpand(hrp), data...)
	values = append(values, 0, 0, 0, 0, 0, 0)
	mod := polymod(values) ^ 1

	checksum := make([]byte, 6)
	for i := 0; i < 6; i++ {
		checksum[i] = byte((mod >> uint(5*(5-i))) & 31)
	}
	return checksum
}

func verifyChecksum(hrp string, data []byte) bool {
	values := append(hrpExpand(hrp), data...)
	return polymod(values) == 1
}
