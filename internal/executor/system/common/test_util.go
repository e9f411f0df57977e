package common

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/axiomesh/axiom-vault/internal/ledger"
	"github.com/axiomesh/axiom-vault/pkg/repo"
	"github.com/axiomesh/axiom-vault/pkg/types"
)

// TestHost moves value between accounts and hands the nested call to OnCall
type TestHost struct {
	StateLedger ledger.StateLedger
	OnCall      func(caller, target ethcommon.Address, value *big.Int, data []byte) ([]byte, error)
}

func (h *TestHost) Call(caller, target ethcommon.Address, value *big.Int, data []byte) ([]byte, error) {
	if value != nil && value.Sign() > 0 {
		if h.StateLedger.GetBalance(caller).Cmp(value) < 0 {
			return nil, ErrInsufficientFunds
		}
		h.StateLedger.SubBalance(caller, value)
		h.StateLedger.AddBalance(target, value)
	}
	if h.OnCall != nil {
		return h.OnCall(caller, target, value, data)
	}
	return nil, nil
}

type TestNVM struct {
	t           testing.TB
	Rep         *repo.Repo
	Ledger      *ledger.Ledger
	StateLedger ledger.StateLedger
	Host        *TestHost

	// Logs emitted by the last successful transaction
	Logs []*types.EvmLog
}

func NewTestNVM(t testing.TB) *TestNVM {
	rep := repo.MockRepo(t)
	lg, err := ledger.NewMemory(rep)
	require.Nil(t, err)
	return &TestNVM{
		t:           t,
		Rep:         rep,
		Ledger:      lg,
		StateLedger: lg.StateLedger,
		Host:        &TestHost{StateLedger: lg.StateLedger},
	}
}

func (nvm *TestNVM) GenesisInit(contracts ...SystemContract) {
	for _, contract := range contracts {
		var logs []*types.EvmLog
		contract.SetContext(&VMContext{
			StateLedger: nvm.StateLedger,
			CurrentLogs: &logs,
			Host:        nvm.Host,
		})
		err := contract.GenesisInit(nvm.Rep.GenesisConfig)
		require.Nil(nvm.t, err)
	}
	nvm.StateLedger.Finalise()
}

type TestNVMRunOption func(ctx *VMContext)

// TestNVMRunOptionValue pays value from the sender to the contract at to before the call
func TestNVMRunOptionValue(to ethcommon.Address, value *big.Int) TestNVMRunOption {
	return func(ctx *VMContext) {
		ctx.Value = value
		ctx.StateLedger.SubBalance(ctx.From, value)
		ctx.StateLedger.AddBalance(to, value)
	}
}

func (nvm *TestNVM) newContext(from ethcommon.Address, logs *[]*types.EvmLog) *VMContext {
	return &VMContext{
		StateLedger:   nvm.StateLedger,
		CurrentHeight: 1,
		CurrentLogs:   logs,
		From:          from,
		Value:         new(big.Int),
		Host:          nvm.Host,
	}
}

// RunSingleTX runs executor as a transaction, state changes are reverted if it fails or panics
func (nvm *TestNVM) RunSingleTX(contract SystemContract, from ethcommon.Address, executor func() error, opts ...TestNVMRunOption) (err error) {
	nvm.StateLedger.PrepareTx()
	snapshot := nvm.StateLedger.Snapshot()
	defer func() {
		if r := recover(); r != nil {
			nvm.StateLedger.RevertToSnapshot(snapshot)
			err = NewAbortError(r)
		}
	}()
	var logs []*types.EvmLog
	ctx := nvm.newContext(from, &logs)
	for _, opt := range opts {
		opt(ctx)
	}
	contract.SetContext(ctx)
	if err = executor(); err != nil {
		nvm.StateLedger.RevertToSnapshot(snapshot)
		return err
	}
	for _, log := range logs {
		nvm.StateLedger.AddLog(log)
	}
	nvm.Logs = logs
	nvm.StateLedger.Finalise()
	return nil
}

// Call runs executor as a view, state changes are always reverted
func (nvm *TestNVM) Call(contract SystemContract, from ethcommon.Address, executor func()) {
	snapshot := nvm.StateLedger.Snapshot()
	var logs []*types.EvmLog
	contract.SetContext(nvm.newContext(from, &logs))
	executor()
	nvm.StateLedger.RevertToSnapshot(snapshot)
}
