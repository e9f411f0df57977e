package types

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_GetHash(t *testing.T) {
	from := ethcommon.HexToAddress("0x01")
	to := ethcommon.HexToAddress("0x02")

	tx := NewTransaction(from, &to, 0, nil, []byte{1})
	assert.Equal(t, 0, tx.GetValue().Sign())
	assert.Equal(t, tx.GetHash(), NewTransaction(from, &to, 0, big.NewInt(0), []byte{1}).GetHash())
	assert.NotEqual(t, tx.GetHash(), NewTransaction(from, &to, 1, nil, []byte{1}).GetHash())
	assert.NotEqual(t, tx.GetHash(), NewTransaction(from, nil, 0, nil, []byte{1}).GetHash())
	assert.Equal(t, 0, (&Transaction{}).GetValue().Sign())
}

func TestBlock_Hash(t *testing.T) {
	from := ethcommon.HexToAddress("0x01")
	tx := NewTransaction(from, &from, 0, big.NewInt(1), nil)

	block := &Block{Height: 1, Transactions: []*Transaction{tx}}
	assert.Equal(t, []ethcommon.Hash{tx.GetHash()}, block.TxHashList())
	assert.Equal(t, block.Hash(), (&Block{Height: 1, Transactions: []*Transaction{tx}}).Hash())
	assert.NotEqual(t, block.Hash(), (&Block{Height: 2, Transactions: []*Transaction{tx}}).Hash())
}

func TestReceipt(t *testing.T) {
	r := &Receipt{Status: ReceiptFAILED}
	assert.False(t, r.IsSuccess())
	assert.Equal(t, "failed", r.Status.String())
	assert.Equal(t, "success", ReceiptSUCCESS.String())
	assert.Equal(t, "unknown", ReceiptStatus(9).String())
}

func TestEvmLog_Clone(t *testing.T) {
	log := &EvmLog{
		Address: ethcommon.HexToAddress("0x01"),
		Topics:  []ethcommon.Hash{ethcommon.HexToHash("0x02")},
		Data:    []byte{3},
	}
	cloned := log.Clone()
	assert.Equal(t, log, cloned)
	cloned.Data[0] = 4
	cloned.Topics[0] = ethcommon.Hash{}
	assert.Equal(t, []byte{3}, log.Data)
	assert.Equal(t, ethcommon.HexToHash("0x02"), log.Topics[0])
}
