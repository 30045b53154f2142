package codec

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blocklayer/namadexer/internal/errs"
)

// Decoded is the result of decoding one transaction's payload: a message
// type string and its JSON-encoded value, ready to become a Message row.
type Decoded struct {
	MessageType string
	Value       json.RawMessage
}

// Decode extracts the code-section hash from raw tx envelope bytes,
// resolves its kind via checksums, and dispatches to the matching payload
// decoder. Unknown kinds produce an empty-value "unknown" message. A decode
// failure of a recognized kind returns an *errs.InvalidTxData error; the
// caller still persists the Transaction row and simply omits the Message.
func Decode(checksums *ChecksumMap, codeHash string, payload []byte, txHash string) (Decoded, error) {
	kind := checksums.LookupKind(strings.ToLower(codeHash))

	if kind == "unknown" {
		return Decoded{MessageType: "unknown", Value: json.RawMessage("{}")}, nil
	}

	if kind == "tx_ibc" {
		sub, value, ok := decodeIBC(payload)
		if !ok {
			// Cascade exhausted: log-only per the IBC fallback rule, not an error.
			return Decoded{MessageType: kind, Value: json.RawMessage("{}")}, nil
		}
		return Decoded{MessageType: kind + "." + sub, Value: value}, nil
	}

	value, err := decodeKind(kind, payload)
	if err != nil {
		return Decoded{}, &errs.InvalidTxData{
			TxHash: txHash,
			Kind:   kind,
			Err:    fmt.Errorf("failed to parse to %s: %w", kind, err),
		}
	}
	return Decoded{MessageType: kind, Value: value}, nil
}

// decodeKind dispatches a known kind to its typed payload decoder and
// re-encodes the result as JSON for storage in Message.Value.
func decodeKind(kind string, payload []byte) (json.RawMessage, error) {
	switch kind {
	case "tx_transfer":
		return marshalTyped[TransferPayload](payload)
	case "tx_bond":
		return marshalTyped[BondPayload](payload)
	case "tx_unbond":
		return marshalTyped[UnbondPayload](payload)
	case "tx_withdraw":
		return marshalTyped[WithdrawPayload](payload)
	case "tx_init_proposal":
		return marshalTyped[InitProposalPayload](payload)
	case "tx_vote_proposal":
		return marshalTyped[VoteProposalPayload](payload)
	case "tx_reveal_pk":
		return marshalTyped[RevealPKPayload](payload)
	case "tx_become_validator":
		return marshalTyped[BecomeValidatorPayload](payload)
	case "tx_change_validator_commission":
		return marshalTyped[ChangeValidatorCommissionPayload](payload)
	case "tx_change_validator_metadata":
		return marshalTyped[ChangeValidatorMetadataPayload](payload)
	case "tx_unjail_validator":
		return marshalTyped[UnjailValidatorPayload](payload)
	default:
		return nil, errs.ErrUnknownTxKind
	}
}

func marshalTyped[T any](payload []byte) (json.RawMessage, error) {
	v, err := decodeJSON[T](payload)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CodeHashHex lowercase-hex encodes a raw code-section hash.
func CodeHashHex(raw []byte) string {
	return hex.EncodeToString(raw)
}
