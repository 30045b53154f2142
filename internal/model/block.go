// Package model holds the entity types namadexer persists, one file per
// data-model grouping from the indexed chain's domain.
package model

import "time"

// Block is created once per height and never mutated afterward.
type Block struct {
	Height           int64
	Hash             string
	NumTxs           int32
	TotalGas         int64
	ProposerAddress  string
	Timestamp        time.Time
}

// TxType enumerates the wrapper kinds a raw transaction can carry.
type TxType string

const (
	TxTypeRaw       TxType = "raw"
	TxTypeWrapper   TxType = "wrapper"
	TxTypeDecrypted TxType = "decrypted"
	TxTypeProtocol  TxType = "protocol"
)

// Transaction is one row per raw transaction found in a block's data.
type Transaction struct {
	Hash      string
	Height    int64
	Success   bool
	Memo      string
	TxType    TxType
	GasWanted int64
	GasUsed   int64
	RawLog    string
}

// Message is produced only when a transaction's payload decodes
// successfully; at most one per transaction.
type Message struct {
	Height      int64
	TxHash      string
	MessageType string
	Value       []byte // structured JSON
}

// PreCommit is bulk-inserted once per block, one row per signing validator.
type PreCommit struct {
	ValidatorAddress string
	Height           int64
	Timestamp        time.Time
	VotingPower      int64
	ProposerPriority int64
}
