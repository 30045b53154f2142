// Package codec is the transaction decoder (C3): a checksum-map-driven
// dispatch from a transaction's code hash to a typed payload decoder.
package codec

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/blocklayer/namadexer/internal/errs"
)

// ChecksumMap is the immutable, in-memory hash→kind table loaded once at
// startup. The raw file maps "<kind>.<suffix>" keys to "<kind>.<hex-hash>"
// values; the loader inverts that into hash→kind.
type ChecksumMap struct {
	byHash map[string]string
}

// NewChecksumMap builds a ChecksumMap directly from an already-inverted
// hash->kind table, for tests that don't want to round-trip a checksums.json
// fixture through ParseChecksums.
func NewChecksumMap(byHash map[string]string) *ChecksumMap {
	return &ChecksumMap{byHash: byHash}
}

// LookupKind resolves a lowercase-hex code hash to its message kind. Unknown
// hashes resolve to "unknown" per the decoder's contract, not an error.
func (c *ChecksumMap) LookupKind(hash string) string {
	if kind, ok := c.byHash[strings.ToLower(hash)]; ok {
		return kind
	}
	return "unknown"
}

// LoadChecksums resolves the checksum map from $CHECKSUMS_FILE_PATH, else
// $CHECKSUMS_REMOTE_URL, else the default on-disk checksums.json.
func LoadChecksums() (*ChecksumMap, error) {
	if path := os.Getenv("CHECKSUMS_FILE_PATH"); path != "" {
		return loadChecksumsFile(path)
	}
	if url := os.Getenv("CHECKSUMS_REMOTE_URL"); url != "" {
		return loadChecksumsRemote(url)
	}
	return loadChecksumsFile("checksums.json")
}

func loadChecksumsFile(path string) (*ChecksumMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading checksums file %s: %v", errs.ErrInvalidChecksum, path, err)
	}
	return ParseChecksums(data)
}

func loadChecksumsRemote(url string) (*ChecksumMap, error) {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching checksums from %s: %v", errs.ErrInvalidChecksum, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading checksums response from %s: %v", errs.ErrInvalidChecksum, url, err)
	}
	return ParseChecksums(data)
}

// ParseChecksums inverts the raw "<kind>.<suffix>" -> "<kind>.<hex-hash>"
// object into a hash -> kind map. Exported so other packages' tests can
// build a ChecksumMap from an inline fixture instead of a checksums.json.
func ParseChecksums(data []byte) (*ChecksumMap, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed checksums json: %v", errs.ErrInvalidChecksum, err)
	}

	byHash := make(map[string]string, len(raw))
	for _, value := range raw {
		kind, hash, ok := strings.Cut(value, ".")
		if !ok {
			return nil, fmt.Errorf("%w: malformed checksum value %q", errs.ErrInvalidChecksum, value)
		}
		byHash[strings.ToLower(hash)] = kind
	}
	return &ChecksumMap{byHash: byHash}, nil
}
