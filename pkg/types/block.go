package types

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
)

// Block is a batch of transactions applied and committed together
type Block struct {
	Height       uint64         `json:"height"`
	Transactions []*Transaction `json:"transactions"`
}

func (b *Block) TxHashList() []ethcommon.Hash {
	return lo.Map(b.Transactions, func(tx *Transaction, _ int) ethcommon.Hash {
		return tx.GetHash()
	})
}

// Hash is the keccak256 hash of the height and the hashes of its transactions
func (b *Block) Hash() ethcommon.Hash {
	data := [][]byte{ethcommon.BigToHash(new(big.Int).SetUint64(b.Height)).Bytes()}
	for _, h := range b.TxHashList() {
		data = append(data, h.Bytes())
	}
	return crypto.Keccak256Hash(data...)
}
