package events

import (
	"github.com/axiomesh/axiom-vault/pkg/types"
)

type ExecutedEvent struct {
	Block    *types.Block
	Receipts []*types.Receipt
}

// FailedCount is the number of receipts of reverted transactions
func (e ExecutedEvent) FailedCount() int {
	count := 0
	for _, r := range e.Receipts {
		if !r.IsSuccess() {
			count++
		}
	}
	return count
}
