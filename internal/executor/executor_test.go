package executor

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiomesh/axiom-vault/internal/executor/system/common"
	"github.com/axiomesh/axiom-vault/internal/executor/system/reentrant"
	"github.com/axiomesh/axiom-vault/internal/executor/system/vault"
	"github.com/axiomesh/axiom-vault/internal/ledger"
	"github.com/axiomesh/axiom-vault/pkg/events"
	"github.com/axiomesh/axiom-vault/pkg/repo"
	"github.com/axiomesh/axiom-vault/pkg/types"
)

var (
	vaultAddr     = ethcommon.HexToAddress(common.VaultContractAddr)
	reentrantAddr = ethcommon.HexToAddress(common.ReentrantContractAddr)
	attacker      = ethcommon.HexToAddress(repo.DefaultAccounts[0])
	depositor     = ethcommon.HexToAddress(repo.DefaultAccounts[1])
)

func initExecutor(t *testing.T, rep *repo.Repo) (*BlockExecutor, *ledger.Ledger) {
	l, err := ledger.NewMemory(rep)
	require.Nil(t, err)

	exec, err := New(rep, l)
	require.Nil(t, err)
	require.Nil(t, exec.InitGenesis())
	return exec, l
}

func mockExecutor(t *testing.T) (*BlockExecutor, *ledger.Ledger) {
	return initExecutor(t, repo.MockRepo(t))
}

func newTx(t *testing.T, exec *BlockExecutor, from, to ethcommon.Address, value int64, method string, args ...any) *types.Transaction {
	var data []byte
	if method != "" {
		var err error
		data, err = exec.PackInput(to, method, args...)
		require.Nil(t, err)
	}
	return types.NewTransaction(from, &to, 0, big.NewInt(value), data)
}

func view(t *testing.T, exec *BlockExecutor, to ethcommon.Address, method string, args ...any) []any {
	receipt := exec.Call(newTx(t, exec, attacker, to, 0, method, args...))
	require.True(t, receipt.IsSuccess(), "%v", receipt.Err)
	out, err := exec.UnpackOutput(to, method, receipt.Ret)
	require.Nil(t, err)
	return out
}

func TestBlockExecutor_InitGenesis(t *testing.T) {
	exec, l := mockExecutor(t)

	balance, ok := new(big.Int).SetString(repo.DefaultAccountBalance, 10)
	require.True(t, ok)
	assert.Equal(t, balance, l.StateLedger.GetBalance(attacker))
	assert.False(t, view(t, exec, vaultAddr, vault.IsEnteredMethod)[0].(bool))
	assert.EqualValues(t, 0, exec.CurrentHeight())

	assert.Equal(t, ErrGenesisExisted, exec.InitGenesis())
}

func TestBlockExecutor_ApplyTransaction(t *testing.T) {
	exec, l := mockExecutor(t)

	t.Run("transfer", func(t *testing.T) {
		receiver := ethcommon.HexToAddress("0x01")
		receipt := exec.ApplyTransaction(types.NewTransaction(depositor, &receiver, 0, big.NewInt(5), nil))
		require.True(t, receipt.IsSuccess())
		assert.EqualValues(t, transferGas, receipt.GasUsed)
		assert.Equal(t, big.NewInt(5), l.StateLedger.GetBalance(receiver))

		receipt = exec.ApplyTransaction(types.NewTransaction(receiver, &depositor, 0, big.NewInt(6), nil))
		assert.False(t, receipt.IsSuccess())
		assert.Equal(t, common.ErrInsufficientFunds, receipt.Err)
		assert.Equal(t, big.NewInt(5), l.StateLedger.GetBalance(receiver))

		receipt = exec.ApplyTransaction(types.NewTransaction(depositor, nil, 0, big.NewInt(1), nil))
		assert.Equal(t, ErrContractCreation, receipt.Err)
	})

	t.Run("deposit", func(t *testing.T) {
		receipt := exec.ApplyTransaction(newTx(t, exec, depositor, vaultAddr, 100, vault.DepositMethod))
		require.True(t, receipt.IsSuccess(), "%v", receipt.Err)
		assert.Greater(t, receipt.GasUsed, uint64(0))
		require.Len(t, receipt.EvmLogs, 1)
		assert.Equal(t, vaultAddr, receipt.EvmLogs[0].Address)
		assert.Equal(t, big.NewInt(100), view(t, exec, vaultAddr, vault.GetBalanceMethod, depositor)[0])
	})

	t.Run("revert", func(t *testing.T) {
		receipt := exec.ApplyTransaction(newTx(t, exec, depositor, vaultAddr, 0, vault.WithdrawMethod, big.NewInt(101)))
		assert.Equal(t, types.ReceiptFAILED, receipt.Status)
		assert.True(t, errors.Is(receipt.Err, vault.ErrInsufficientBalance))
		assert.True(t, errors.Is(receipt.Err, vm.ErrExecutionReverted))
		assert.Empty(t, receipt.EvmLogs)

		vaultABI, err := abi.JSON(strings.NewReader(vault.ABI))
		require.Nil(t, err)
		abiErr := vaultABI.Errors["InsufficientBalance"]
		require.GreaterOrEqual(t, len(receipt.RevertData), 4)
		assert.Equal(t, abiErr.ID.Bytes()[:4], receipt.RevertData[:4])
		assert.Contains(t, string(receipt.Ret), vm.ErrExecutionReverted.Error())
	})

	t.Run("init after genesis", func(t *testing.T) {
		receipt := exec.ApplyTransaction(newTx(t, exec, attacker, vaultAddr, 0, vault.InitMethod))
		assert.Equal(t, types.ReceiptFAILED, receipt.Status)
		assert.True(t, errors.Is(receipt.Err, common.ErrGuardInitialized))
		assert.True(t, errors.Is(receipt.Err, vm.ErrExecutionReverted))
		assert.False(t, view(t, exec, vaultAddr, vault.IsEnteredMethod)[0].(bool))
	})

	t.Run("call does not change state", func(t *testing.T) {
		receipt := exec.Call(newTx(t, exec, depositor, vaultAddr, 0, vault.WithdrawMethod, big.NewInt(100)))
		require.True(t, receipt.IsSuccess(), "%v", receipt.Err)
		assert.Equal(t, big.NewInt(100), view(t, exec, vaultAddr, vault.GetBalanceMethod, depositor)[0])

		receipt = exec.Call(types.NewTransaction(depositor, &depositor, 0, nil, nil))
		assert.False(t, receipt.IsSuccess())
	})
}

func TestBlockExecutor_UnsafeWithdrawIsDrained(t *testing.T) {
	exec, l := mockExecutor(t)

	receipts, err := exec.ExecuteBlock(&types.Block{Transactions: []*types.Transaction{
		newTx(t, exec, depositor, vaultAddr, 30, vault.DepositMethod),
		newTx(t, exec, attacker, reentrantAddr, 0, reentrant.ConfigureMethod, vaultAddr, big.NewInt(10), uint64(3), false, true),
		newTx(t, exec, attacker, reentrantAddr, 10, reentrant.AttackMethod),
	}})
	require.Nil(t, err)
	require.Len(t, receipts, 3)
	for _, receipt := range receipts {
		require.True(t, receipt.IsSuccess(), "%v", receipt.Err)
	}
	assert.Equal(t, receipts[0].GasUsed+receipts[1].GasUsed+receipts[2].GasUsed, receipts[2].CumulativeGasUsed)

	assert.EqualValues(t, 3, view(t, exec, reentrantAddr, reentrant.ReentriesMethod)[0])
	assert.Equal(t, big.NewInt(40), l.StateLedger.GetBalance(reentrantAddr))
	assert.Equal(t, 0, l.StateLedger.GetBalance(vaultAddr).Sign())
	assert.EqualValues(t, 1, exec.CurrentHeight())
}

func TestBlockExecutor_SafeWithdrawIsProtected(t *testing.T) {
	exec, l := mockExecutor(t)

	receipts, err := exec.ExecuteBlock(&types.Block{Transactions: []*types.Transaction{
		newTx(t, exec, depositor, vaultAddr, 30, vault.DepositMethod),
		newTx(t, exec, attacker, reentrantAddr, 0, reentrant.ConfigureMethod, vaultAddr, big.NewInt(10), uint64(3), true, false),
		newTx(t, exec, attacker, reentrantAddr, 10, reentrant.AttackMethod),
		newTx(t, exec, depositor, vaultAddr, 0, vault.WithdrawMethod, big.NewInt(30)),
	}})
	require.Nil(t, err)
	require.Len(t, receipts, 4)

	// the rejected reentry aborts the attack, the guard is released for the next transaction
	attack := receipts[2]
	assert.Equal(t, types.ReceiptFAILED, attack.Status)
	assert.True(t, errors.Is(attack.Err, common.ErrExecutionAborted))
	assert.True(t, errors.Is(attack.Err, vault.ErrTransferFailed))
	assert.True(t, errors.Is(attack.Err, common.ErrReentrantCall))
	assert.NotEmpty(t, attack.RevertData)
	assert.Empty(t, attack.EvmLogs)

	assert.True(t, receipts[3].IsSuccess(), "%v", receipts[3].Err)
	assert.False(t, view(t, exec, vaultAddr, vault.IsEnteredMethod)[0].(bool))
	assert.Equal(t, 0, l.StateLedger.GetBalance(vaultAddr).Sign())
	assert.Equal(t, 0, l.StateLedger.GetBalance(reentrantAddr).Sign())
}

func TestBlockExecutor_ExecuteBlock(t *testing.T) {
	exec, _ := mockExecutor(t)

	_, err := exec.ExecuteBlock(&types.Block{Height: 5})
	assert.NotNil(t, err)

	receipts, err := exec.ExecuteBlock(&types.Block{Height: 1})
	require.Nil(t, err)
	assert.Empty(t, receipts)
	assert.EqualValues(t, 1, exec.CurrentHeight())
}

func TestBlockExecutor_AsyncExecuteBlock(t *testing.T) {
	exec, _ := mockExecutor(t)

	blockCh := make(chan events.ExecutedEvent, 1)
	blockSub := exec.SubscribeBlockEvent(blockCh)
	defer blockSub.Unsubscribe()
	logsCh := make(chan []*types.EvmLog, 1)
	logsSub := exec.SubscribeLogsEvent(logsCh)
	defer logsSub.Unsubscribe()

	require.Nil(t, exec.Start())
	defer func() {
		require.Nil(t, exec.Stop())
	}()

	exec.AsyncExecuteBlock(&types.Block{Transactions: []*types.Transaction{
		newTx(t, exec, depositor, vaultAddr, 30, vault.DepositMethod),
		newTx(t, exec, depositor, vaultAddr, 0, vault.WithdrawMethod, big.NewInt(31)),
	}})

	select {
	case logs := <-logsCh:
		require.Len(t, logs, 1)
		assert.Equal(t, vaultAddr, logs[0].Address)
	case <-time.After(5 * time.Second):
		t.Fatal("logs event timeout")
	}

	select {
	case ev := <-blockCh:
		assert.EqualValues(t, 1, ev.Block.Height)
		assert.Len(t, ev.Receipts, 2)
		assert.Equal(t, 1, ev.FailedCount())
	case <-time.After(5 * time.Second):
		t.Fatal("block event timeout")
	}
}

func TestBlockExecutor_Persist(t *testing.T) {
	rep := repo.MockRepo(t)
	rep.Config.Storage.KvType = repo.KVStorageTypeLeveldb

	l, err := ledger.New(rep)
	require.Nil(t, err)
	exec, err := New(rep, l)
	require.Nil(t, err)
	require.Nil(t, exec.InitGenesis())

	receipt := exec.ApplyTransaction(newTx(t, exec, depositor, vaultAddr, 30, vault.DepositMethod))
	require.True(t, receipt.IsSuccess(), "%v", receipt.Err)
	require.Nil(t, exec.Commit())
	l.Close()

	l, err = ledger.New(rep)
	require.Nil(t, err)
	defer l.Close()
	exec, err = New(rep, l)
	require.Nil(t, err)
	assert.Equal(t, ErrGenesisExisted, exec.InitGenesis())
	assert.EqualValues(t, 1, exec.CurrentHeight())
	assert.Equal(t, big.NewInt(30), view(t, exec, vaultAddr, vault.GetBalanceMethod, depositor)[0])
	assert.Equal(t, big.NewInt(30), l.StateLedger.GetBalance(vaultAddr))
}
