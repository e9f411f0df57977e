package ledger

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/axiomesh/axiom-vault/internal/storagemgr"
	"github.com/axiomesh/axiom-vault/internal/storagemgr/kv"
	"github.com/axiomesh/axiom-vault/pkg/repo"
	"github.com/axiomesh/axiom-vault/pkg/types"
)

//go:generate mockgen -destination mock_ledger/mock_ledger.go -package mock_ledger -source ledger.go -exclude_interfaces IAccount,StateAccessor

type Ledger struct {
	StateLedger StateLedger
}

// New opens the ledger storage configured in the repo
func New(rep *repo.Repo) (*Ledger, error) {
	if err := storagemgr.Initialize(rep.Config); err != nil {
		return nil, err
	}
	backend, err := storagemgr.Open(storagemgr.GetLedgerComponentPath(rep, storagemgr.Ledger))
	if err != nil {
		return nil, errors.Wrap(err, "create ledger storage")
	}
	return &Ledger{StateLedger: NewStateLedger(backend)}, nil
}

// NewMemory builds a ledger on an in-memory kv, only for test
func NewMemory(_ *repo.Repo) (*Ledger, error) {
	return &Ledger{StateLedger: NewStateLedger(kv.NewMemory())}, nil
}

func (l *Ledger) Close() {
	l.StateLedger.Close()
}

// StateLedger is the world state of all accounts with a journal for nested snapshots
type StateLedger interface {
	StateAccessor

	AddLog(log *types.EvmLog)

	// GetLogs returns the logs of the current transaction
	GetLogs() []*types.EvmLog

	// PrepareTx starts a new transaction scope for logs and journal
	PrepareTx()

	Snapshot() int

	RevertToSnapshot(int)

	// Finalise moves the changes of the current transaction into the pending state
	Finalise()

	// Commit flushes the pending state into the backend storage
	Commit() error

	// Close release resource
	Close()
}

// StateAccessor manipulates the state data
type StateAccessor interface {
	GetOrCreateAccount(common.Address) IAccount

	// GetAccount returns nil if the account does not exist
	GetAccount(common.Address) IAccount

	GetBalance(common.Address) *big.Int

	SetBalance(common.Address, *big.Int)

	SubBalance(common.Address, *big.Int)

	AddBalance(common.Address, *big.Int)

	GetState(common.Address, []byte) (bool, []byte)

	SetState(common.Address, []byte, []byte)
}

type IAccount interface {
	fmt.Stringer

	GetAddress() common.Address

	GetState(key []byte) (bool, []byte)

	SetState(key []byte, value []byte)

	GetBalance() *big.Int

	SetBalance(balance *big.Int)

	SubBalance(amount *big.Int)

	AddBalance(amount *big.Int)

	IsEmpty() bool
}
