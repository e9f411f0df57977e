package executor

import (
	"encoding/binary"

	ethcommon "github.com/ethereum/go-ethereum/common"

	sys_common "github.com/axiomesh/axiom-vault/internal/executor/system/common"
	"github.com/axiomesh/axiom-vault/internal/ledger"
)

var chainHeightKey = []byte("chain_height")

// loadHeight reads the height of the last committed block, 0 before the first block
func loadHeight(lg ledger.StateLedger) uint64 {
	exist, data := lg.GetState(ethcommon.HexToAddress(sys_common.ZeroAddress), chainHeightKey)
	if !exist || len(data) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}

func storeHeight(lg ledger.StateLedger, height uint64) {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, height)
	lg.SetState(ethcommon.HexToAddress(sys_common.ZeroAddress), chainHeightKey, data)
}
