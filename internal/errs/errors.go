// Package errs collects the sentinel errors shared across namadexer's
// components, following the same wrap-a-sentinel idiom the rest of the
// codebase uses for its own error taxonomies.
package errs

import "errors"

var (
	// ErrInvalidChecksum is returned when the checksums file cannot be read,
	// fetched, or parsed at startup. A code hash missing from the loaded map
	// is not an error; it resolves to the "unknown" kind.
	ErrInvalidChecksum = errors.New("invalid checksums file")

	// ErrUnknownTxKind is returned when a checksum resolves to a kind with no
	// registered decoder.
	ErrUnknownTxKind = errors.New("no decoder registered for tx kind")

	// ErrEpochNotFound names a missing epoch lookup. Node.Epoch does not
	// return it; it reports that case as ok=false.
	ErrEpochNotFound = errors.New("epoch not found")

	// ErrProposalNotFound names a missing governance proposal lookup.
	// Node.Proposal and Node.ProposalResult do not return it; they report
	// that case as ok=false.
	ErrProposalNotFound = errors.New("governance proposal not found")

	// ErrValidatorNotFound names a validator address outside the known set.
	// The worker does not return it: a pre-commit signer missing from the
	// block's validator set is recorded with zero power and priority.
	ErrValidatorNotFound = errors.New("validator not found in validator set")

	// ErrQueueClosed is returned by the bounded height queue once it has been
	// closed and callers keep trying to enqueue.
	ErrQueueClosed = errors.New("height queue is closed")

	// ErrNodeUnavailable wraps RPC failures from the node client. The client
	// makes one attempt per call; it does not retry.
	ErrNodeUnavailable = errors.New("node rpc unavailable")

	// ErrInvalidConfig is returned by the config loader when validation
	// fails.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// InvalidTxData wraps a malformed transaction payload together with the
// tx hash and kind that failed to decode, so callers can log without losing
// context and the pipeline can keep moving past the bad record.
type InvalidTxData struct {
	TxHash string
	Kind   string
	Err    error
}

func (e *InvalidTxData) Error() string {
	return "invalid tx data for " + e.Kind + " (" + e.TxHash + "): " + e.Err.Error()
}

func (e *InvalidTxData) Unwrap() error {
	return e.Err
}
