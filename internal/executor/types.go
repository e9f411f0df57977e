package executor

import (
	"github.com/ethereum/go-ethereum/event"

	"github.com/axiomesh/axiom-vault/pkg/events"
	"github.com/axiomesh/axiom-vault/pkg/types"
)

type Executor interface {
	Start() error

	Stop() error

	// InitGenesis funds the genesis accounts and initializes the system contracts on an empty ledger
	InitGenesis() error

	AsyncExecuteBlock(block *types.Block)

	ExecuteBlock(block *types.Block) ([]*types.Receipt, error)

	// ApplyTransaction executes tx against the pending state, the result is persisted by Commit
	ApplyTransaction(tx *types.Transaction) *types.Receipt

	// Call executes tx without changing any state
	Call(tx *types.Transaction) *types.Receipt

	Commit() error

	CurrentHeight() uint64

	SubscribeBlockEvent(chan<- events.ExecutedEvent) event.Subscription

	SubscribeLogsEvent(chan<- []*types.EvmLog) event.Subscription
}
