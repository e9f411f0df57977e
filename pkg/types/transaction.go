package types

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// Transaction is a call from an externally owned account, To is nil for contract creation
type Transaction struct {
	From  ethcommon.Address  `json:"from"`
	To    *ethcommon.Address `json:"to" rlp:"nil"`
	Nonce uint64             `json:"nonce"`
	Value *big.Int           `json:"value"`
	Data  []byte             `json:"data"`
}

func NewTransaction(from ethcommon.Address, to *ethcommon.Address, nonce uint64, value *big.Int, data []byte) *Transaction {
	if value == nil {
		value = new(big.Int)
	}
	return &Transaction{
		From:  from,
		To:    to,
		Nonce: nonce,
		Value: value,
		Data:  data,
	}
}

func (tx *Transaction) GetValue() *big.Int {
	if tx.Value == nil {
		return new(big.Int)
	}
	return tx.Value
}

// GetHash returns the keccak256 hash of the rlp encoded transaction
func (tx *Transaction) GetHash() ethcommon.Hash {
	raw, err := rlp.EncodeToBytes(tx)
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(raw)
}
