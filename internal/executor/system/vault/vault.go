package vault

import (
	_ "embed"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/axiomesh/axiom-vault/internal/executor/system/common"
	"github.com/axiomesh/axiom-vault/pkg/repo"
)

//go:embed vault.abi
var ABI string

var _ common.SystemContract = (*Vault)(nil)

// Vault keeps native value on behalf of depositors.
// WithdrawUnsafe pays out before the debit with no guard, Withdraw runs the same body under the reentrancy guard.
type Vault struct {
	common.SystemContractBase

	balances *common.VMMap[ethcommon.Address, *big.Int]
	guard    *common.ReentrancyGuard
}

func New(cfg *common.SystemContractConfig) *Vault {
	contractABI, err := abi.JSON(strings.NewReader(ABI))
	if err != nil {
		panic(err)
	}
	return &Vault{
		SystemContractBase: common.SystemContractBase{
			Logger:  cfg.Logger,
			Address: ethcommon.HexToAddress(common.VaultContractAddr),
			Abi:     contractABI,
		},
	}
}

func (v *Vault) SetContext(ctx *common.VMContext) {
	v.SystemContractBase.SetContext(ctx)

	account := v.Account()
	v.balances = common.NewVMMap[ethcommon.Address, *big.Int](account, BalancesKey, func(key ethcommon.Address) string {
		return key.String()
	})
	v.guard = common.NewReentrancyGuardWithStore(common.NewAccountGuardStore(account, GuardStatusKey))
}

func (v *Vault) GenesisInit(_ *repo.GenesisConfig) error {
	return v.Init()
}

// Init initializes the withdraw guard, it reverts once the guard has been initialized
func (v *Vault) Init() error {
	return v.guard.Init()
}

// Deposit credits the value attached to the call to the caller
func (v *Vault) Deposit() error {
	caller := v.Ctx.From
	amount := v.MsgValue()

	balance, err := v.balanceOf(caller)
	if err != nil {
		return err
	}
	if err := v.balances.Put(caller, new(big.Int).Add(balance, amount)); err != nil {
		return err
	}

	v.EmitEvent(&EventDeposit{
		Account: caller,
		Amount:  amount,
	})
	v.Logger.WithField("account", caller).WithField("amount", amount).Debug("vault deposit")
	return nil
}

func (v *Vault) WithdrawUnsafe(amount *big.Int) error {
	return v.withdraw(amount, false)
}

func (v *Vault) Withdraw(amount *big.Int) error {
	err := v.guard.NonReentrant(func() error {
		return v.withdraw(amount, true)
	})
	if err != nil && errors.Is(err, common.ErrReentrantCall) {
		v.Logger.WithField("account", v.Ctx.From).Warn("vault withdraw rejected reentrant call")
		return errors.WithMessage(err, "vault withdraw")
	}
	return err
}

// withdraw pays amount to the caller, then writes back the balance read before the payment
func (v *Vault) withdraw(amount *big.Int, guarded bool) error {
	caller := v.Ctx.From
	balances := v.balances

	balance, err := v.balanceOf(caller)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return v.Revert(&ErrorInsufficientBalance{
			Account:   caller,
			Balance:   balance,
			Requested: amount,
		})
	}

	if _, err := v.Ctx.Host.Call(v.Address, caller, amount, nil); err != nil {
		panic(v.Revert(&ErrorTransferFailed{
			To:     caller,
			Amount: amount,
			Cause:  err,
		}))
	}

	remaining := new(big.Int).Sub(balance, amount)
	if remaining.Sign() == 0 {
		err = balances.Delete(caller)
	} else {
		err = balances.Put(caller, remaining)
	}
	if err != nil {
		return err
	}

	v.EmitEvent(&EventWithdraw{
		Account: caller,
		Amount:  amount,
		Guarded: guarded,
	})
	v.Logger.WithField("account", caller).WithField("amount", amount).WithField("guarded", guarded).Debug("vault withdraw")
	return nil
}

func (v *Vault) GetBalance(account ethcommon.Address) (*big.Int, error) {
	return v.balanceOf(account)
}

// IsEntered reports the withdraw guard status, read only, for diagnostics
func (v *Vault) IsEntered() bool {
	return v.guard.IsEntered()
}

func (v *Vault) balanceOf(account ethcommon.Address) (*big.Int, error) {
	return v.balances.GetOrDefault(account, big.NewInt(0))
}
