package types

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
)

type ReceiptStatus int32

const (
	ReceiptSUCCESS ReceiptStatus = iota
	ReceiptFAILED
)

func (s ReceiptStatus) String() string {
	switch s {
	case ReceiptSUCCESS:
		return "success"
	case ReceiptFAILED:
		return "failed"
	default:
		return "unknown"
	}
}

type Receipt struct {
	TxHash ethcommon.Hash `json:"tx_hash"`
	Height uint64         `json:"height"`
	Status ReceiptStatus  `json:"status"`

	// Ret is the return data on success, the error text followed by the revert data on failure
	Ret []byte `json:"ret"`

	// RevertData is the abi encoded custom error of a reverted call
	RevertData []byte `json:"revert_data,omitempty"`

	// Err keeps the execution error chain, it is not persisted
	Err error `json:"-"`

	GasUsed           uint64    `json:"gas_used"`
	CumulativeGasUsed uint64    `json:"cumulative_gas_used"`
	EvmLogs           []*EvmLog `json:"evm_logs"`
}

func (r *Receipt) IsSuccess() bool {
	return r.Status == ReceiptSUCCESS
}
