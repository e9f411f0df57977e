package system

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/axiomesh/axiom-vault/internal/executor/system/common"
	"github.com/axiomesh/axiom-vault/internal/executor/system/reentrant"
	"github.com/axiomesh/axiom-vault/internal/executor/system/vault"
	"github.com/axiomesh/axiom-vault/internal/ledger"
	"github.com/axiomesh/axiom-vault/internal/ledger/mock_ledger"
	"github.com/axiomesh/axiom-vault/pkg/repo"
)

var (
	vaultAddr     = ethcommon.HexToAddress(common.VaultContractAddr)
	reentrantAddr = ethcommon.HexToAddress(common.ReentrantContractAddr)
	attacker      = ethcommon.HexToAddress(repo.DefaultAccounts[0])
	depositor     = ethcommon.HexToAddress(repo.DefaultAccounts[1])
)

const boomAddr = "0x0000000000000000000000000000000000001fff"

const boomABI = `[{"inputs": [], "name": "boom", "outputs": [], "stateMutability": "nonpayable", "type": "function"}]`

type boomContract struct {
	common.SystemContractBase
}

func (b *boomContract) GenesisInit(_ *repo.GenesisConfig) error {
	return nil
}

func (b *boomContract) Boom() error {
	b.Ctx.StateLedger.SetBalance(ethcommon.HexToAddress(boomAddr), big.NewInt(1))
	panic("boom")
}

type testChain struct {
	t   *testing.T
	nvm *NativeVM
	lg  ledger.StateLedger
}

func newTestChain(t *testing.T, maxCallDepth int) *testChain {
	rep := repo.MockRepo(t)
	l, err := ledger.NewMemory(rep)
	require.Nil(t, err)

	nvm := New(maxCallDepth)
	nvm.Deploy(boomAddr, boomABI, map[string]string{"boom": "boom()"}, &boomContract{})
	require.Nil(t, nvm.InitGenesisData(rep.GenesisConfig, l.StateLedger))
	l.StateLedger.Finalise()
	return &testChain{t: t, nvm: nvm, lg: l.StateLedger}
}

func (c *testChain) send(from, to ethcommon.Address, value int64, method string, args ...any) ([]byte, error) {
	var data []byte
	if method != "" {
		var err error
		data, err = c.nvm.PackInput(to, method, args...)
		require.Nil(c.t, err)
	}
	return c.sendData(from, to, big.NewInt(value), data)
}

func (c *testChain) sendData(from, to ethcommon.Address, value *big.Int, data []byte) ([]byte, error) {
	c.lg.PrepareTx()
	snapshot := c.lg.Snapshot()
	res := RunAxiomNativeVM(c.nvm, 1, c.lg, data, from, &to, value)
	if res.Err != nil {
		c.lg.RevertToSnapshot(snapshot)
		return nil, res.Err
	}
	assert.Greater(c.t, res.UsedGas, uint64(0))
	c.lg.Finalise()
	return res.ReturnData, nil
}

func (c *testChain) view(to ethcommon.Address, method string, args ...any) []any {
	data, err := c.nvm.PackInput(to, method, args...)
	require.Nil(c.t, err)
	snapshot := c.lg.Snapshot()
	defer c.lg.RevertToSnapshot(snapshot)

	view := c.nvm.View()
	view.Reset(1, c.lg, attacker, &to, new(big.Int))
	ret, err := view.Run(data)
	require.Nil(c.t, err)
	out, err := c.nvm.UnpackOutputArgs(to, method, ret)
	require.Nil(c.t, err)
	return out
}

func (c *testChain) vaultBalance(account ethcommon.Address) *big.Int {
	return c.view(vaultAddr, vault.GetBalanceMethod, account)[0].(*big.Int)
}

func (c *testChain) isEntered() bool {
	return c.view(vaultAddr, vault.IsEnteredMethod)[0].(bool)
}

func (c *testChain) prepareAttack(amount int64, maxDepth uint64, safe bool, swallow bool) {
	_, err := c.send(depositor, vaultAddr, 30, vault.DepositMethod)
	require.Nil(c.t, err)
	_, err = c.send(attacker, reentrantAddr, 0, reentrant.ConfigureMethod, vaultAddr, big.NewInt(amount), maxDepth, safe, swallow)
	require.Nil(c.t, err)
}

func TestNativeVM_Deploy(t *testing.T) {
	nvm := New(0)
	assert.Equal(t, repo.DefaultMaxCallDepth, nvm.maxCallDepth)
	assert.True(t, nvm.IsSystemContract(vaultAddr))
	assert.True(t, nvm.IsSystemContract(reentrantAddr))
	assert.False(t, nvm.IsSystemContract(attacker))
	assert.NotNil(t, nvm.GetContractInstance(vaultAddr))

	assert.Panics(t, func() {
		nvm.Deploy(common.VaultContractAddr, vault.ABI, vault.Method2Sig, &boomContract{})
	})
	assert.Panics(t, func() {
		nvm.Deploy("0x0000000000000000000000000000000000000001", boomABI, nil, &boomContract{})
	})
	assert.Panics(t, func() {
		nvm.Deploy(boomAddr, "not json", nil, &boomContract{})
	})
}

func TestNativeVM_Run(t *testing.T) {
	c := newTestChain(t, 0)

	t.Run("deposit and withdraw", func(t *testing.T) {
		_, err := c.send(depositor, vaultAddr, 100, vault.DepositMethod)
		require.Nil(t, err)
		assert.Equal(t, big.NewInt(100), c.vaultBalance(depositor))
		assert.Len(t, c.lg.GetLogs(), 1)

		_, err = c.send(depositor, vaultAddr, 0, vault.WithdrawMethod, big.NewInt(60))
		require.Nil(t, err)
		_, err = c.send(depositor, vaultAddr, 0, vault.WithdrawUnsafeMethod, big.NewInt(40))
		require.Nil(t, err)
		assert.Equal(t, 0, c.vaultBalance(depositor).Sign())
		assert.Equal(t, 0, c.lg.GetBalance(vaultAddr).Sign())
		assert.False(t, c.isEntered())
	})

	t.Run("revert error", func(t *testing.T) {
		_, err := c.send(depositor, vaultAddr, 0, vault.WithdrawMethod, big.NewInt(1))
		assert.True(t, errors.Is(err, vault.ErrInsufficientBalance))
		assert.True(t, errors.Is(err, vm.ErrExecutionReverted))
		assert.Empty(t, c.lg.GetLogs())
	})

	t.Run("dispatch errors", func(t *testing.T) {
		_, err := c.sendData(depositor, vaultAddr, nil, []byte{1, 2})
		assert.Equal(t, ErrNotExistMethodName, err)

		_, err = c.sendData(depositor, vaultAddr, nil, []byte{1, 2, 3, 4})
		assert.Equal(t, ErrNotExistMethodName, err)

		_, err = c.sendData(depositor, vaultAddr, nil, nil)
		assert.Equal(t, ErrNotImplementFuncSystemContract, err)

		_, err = c.sendData(depositor, attacker, nil, nil)
		assert.Equal(t, ErrNotExistSystemContract, err)

		data, err := c.nvm.PackInput(vaultAddr, vault.WithdrawMethod, big.NewInt(1))
		require.Nil(t, err)
		_, err = c.sendData(depositor, vaultAddr, nil, data[:10])
		assert.NotNil(t, err)

		_, err = c.send(depositor, vaultAddr, 1, vault.WithdrawMethod, big.NewInt(1))
		assert.Equal(t, ErrNonPayable, err)

		_, err = c.nvm.PackInput(attacker, vault.WithdrawMethod)
		assert.Equal(t, ErrNotExistSystemContractABI, err)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		poor := ethcommon.HexToAddress("0x01")
		_, err := c.send(poor, vaultAddr, 1, vault.DepositMethod)
		assert.Equal(t, common.ErrInsufficientFunds, err)
	})

	t.Run("panic aborts transaction", func(t *testing.T) {
		before := c.lg.GetBalance(depositor)
		_, err := c.send(depositor, ethcommon.HexToAddress(boomAddr), 0, "boom")
		require.NotNil(t, err)
		assert.True(t, errors.Is(err, common.ErrExecutionAborted))
		assert.Contains(t, err.Error(), "boom")
		assert.Equal(t, 0, c.lg.GetBalance(ethcommon.HexToAddress(boomAddr)).Sign())
		assert.Equal(t, before, c.lg.GetBalance(depositor))
	})
}

func TestNativeVM_UnsafeWithdrawIsDrained(t *testing.T) {
	c := newTestChain(t, 0)
	c.prepareAttack(10, 3, false, true)

	_, err := c.send(attacker, reentrantAddr, 10, reentrant.AttackMethod)
	require.Nil(t, err)

	reentries := c.view(reentrantAddr, reentrant.ReentriesMethod)[0].(uint64)
	assert.EqualValues(t, 3, reentries)

	// one deposit of 10 is paid out four times, the depositor funds are gone
	assert.Equal(t, big.NewInt(40), c.lg.GetBalance(reentrantAddr))
	assert.Equal(t, 0, c.lg.GetBalance(vaultAddr).Sign())
	assert.Equal(t, 0, c.vaultBalance(reentrantAddr).Sign())
	assert.Equal(t, big.NewInt(30), c.vaultBalance(depositor))

	before := c.lg.GetBalance(attacker)
	_, err = c.send(attacker, reentrantAddr, 0, reentrant.SweepMethod)
	require.Nil(t, err)
	assert.Equal(t, new(big.Int).Add(before, big.NewInt(40)), c.lg.GetBalance(attacker))
}

func TestNativeVM_SafeWithdrawIsProtected(t *testing.T) {
	t.Run("reentrant call swallowed", func(t *testing.T) {
		c := newTestChain(t, 0)
		c.prepareAttack(10, 3, true, true)

		_, err := c.send(attacker, reentrantAddr, 10, reentrant.AttackMethod)
		require.Nil(t, err)

		reentries := c.view(reentrantAddr, reentrant.ReentriesMethod)[0].(uint64)
		assert.EqualValues(t, 1, reentries)
		lastError := c.view(reentrantAddr, reentrant.LastErrorMethod)[0].(string)
		assert.Contains(t, lastError, "ReentrancyGuardReentrantCall")

		assert.Equal(t, big.NewInt(10), c.lg.GetBalance(reentrantAddr))
		assert.Equal(t, big.NewInt(30), c.lg.GetBalance(vaultAddr))
		assert.Equal(t, 0, c.vaultBalance(reentrantAddr).Sign())
		assert.Equal(t, big.NewInt(30), c.vaultBalance(depositor))
		assert.False(t, c.isEntered())
	})

	t.Run("reentrant call propagated", func(t *testing.T) {
		c := newTestChain(t, 0)
		c.prepareAttack(10, 3, true, false)

		attackerBalance := c.lg.GetBalance(attacker)
		_, err := c.send(attacker, reentrantAddr, 10, reentrant.AttackMethod)
		require.NotNil(t, err)
		assert.True(t, errors.Is(err, common.ErrExecutionAborted))
		assert.True(t, errors.Is(err, vault.ErrTransferFailed))
		assert.True(t, errors.Is(err, common.ErrReentrantCall))

		// the whole transaction is reverted and the guard is released
		assert.Equal(t, attackerBalance, c.lg.GetBalance(attacker))
		assert.Equal(t, 0, c.lg.GetBalance(reentrantAddr).Sign())
		assert.Equal(t, big.NewInt(30), c.lg.GetBalance(vaultAddr))
		assert.False(t, c.isEntered())

		_, err = c.send(depositor, vaultAddr, 0, vault.WithdrawMethod, big.NewInt(30))
		require.Nil(t, err)
		assert.Equal(t, 0, c.lg.GetBalance(vaultAddr).Sign())
	})
}

func TestNativeVM_MaxCallDepth(t *testing.T) {
	c := newTestChain(t, 8)
	c.prepareAttack(10, 100, false, true)

	_, err := c.send(attacker, reentrantAddr, 10, reentrant.AttackMethod)
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrDepth))
	assert.True(t, errors.Is(err, vault.ErrTransferFailed))
	assert.Equal(t, big.NewInt(30), c.lg.GetBalance(vaultAddr))
	assert.False(t, c.isEntered())
}

func TestNativeVM_InitGenesisData(t *testing.T) {
	mockCtl := gomock.NewController(t)
	stateLedger := mock_ledger.NewMockStateLedger(mockCtl)

	vaultAccount := ledger.NewMockAccount(vaultAddr)
	reentrantAccount := ledger.NewMockAccount(reentrantAddr)
	stateLedger.EXPECT().GetOrCreateAccount(gomock.Any()).DoAndReturn(func(addr ethcommon.Address) ledger.IAccount {
		if addr == vaultAddr {
			return vaultAccount
		}
		return reentrantAccount
	}).AnyTimes()
	stateLedger.EXPECT().SetBalance(gomock.Any(), gomock.Any()).Times(len(repo.DefaultAccounts))

	genesis := repo.DefaultGenesisConfig()
	require.Nil(t, New(0).InitGenesisData(genesis, stateLedger))
	exist, status := vaultAccount.GetState([]byte(vault.GuardStatusKey))
	assert.True(t, exist)
	assert.Equal(t, []byte{common.NOT_ENTERED}, status)

	genesis.Accounts[0].Balance = "wrong balance"
	err := New(0).InitGenesisData(genesis, mock_ledger.NewMockStateLedger(mockCtl))
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "invalid balance")
}
