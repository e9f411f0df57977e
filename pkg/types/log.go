package types

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// EvmLog is an event emitted by a contract during execution
type EvmLog struct {
	Address ethcommon.Address `json:"address"`
	Topics  []ethcommon.Hash  `json:"topics"`
	Data    []byte            `json:"data"`
	Removed bool              `json:"removed"`
}

func (l *EvmLog) Clone() *EvmLog {
	topics := make([]ethcommon.Hash, len(l.Topics))
	copy(topics, l.Topics)
	return &EvmLog{
		Address: l.Address,
		Topics:  topics,
		Data:    ethcommon.CopyBytes(l.Data),
		Removed: l.Removed,
	}
}
