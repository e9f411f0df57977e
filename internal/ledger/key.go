package ledger

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	accountKey = "acc-"
	storageKey = "st-"
)

func compositeAccountKey(addr common.Address) []byte {
	return append([]byte(accountKey), addr.Bytes()...)
}

func compositeStorageKey(addr common.Address, key []byte) []byte {
	k := append([]byte(storageKey), addr.Bytes()...)
	return append(k, key...)
}

// balance is stored with a leading marker byte, so zero balance accounts still exist in the backend
func encodeBalance(balance []byte) []byte {
	return append([]byte{1}, balance...)
}

func decodeBalance(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	return data[1:]
}
