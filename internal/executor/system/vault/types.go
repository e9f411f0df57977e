package vault

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/axiomesh/axiom-vault/pkg/packer"
	"github.com/axiomesh/axiom-vault/pkg/types"
)

const (
	// BalancesKey is a map stores deposited balance, mapping(address => uint256)
	BalancesKey = "vaultBalances"

	// GuardStatusKey stores the status byte of the withdraw reentrancy guard
	GuardStatusKey = "vaultReentrancyGuardStatus"

	InitMethod           = "init"
	DepositMethod        = "deposit"
	WithdrawUnsafeMethod = "withdrawUnsafe"
	WithdrawMethod       = "withdraw"
	GetBalanceMethod     = "getBalance"
	IsEnteredMethod      = "isEntered"
)

var Method2Sig = map[string]string{
	InitMethod:           "init()",
	DepositMethod:        "deposit()",
	WithdrawUnsafeMethod: "withdrawUnsafe(uint256)",
	WithdrawMethod:       "withdraw(uint256)",
	GetBalanceMethod:     "getBalance(address)",
	IsEnteredMethod:      "isEntered()",
}

var (
	ErrInsufficientBalance = errors.New("vault: insufficient balance")
	ErrTransferFailed      = errors.New("vault: transfer failed")
)

type EventDeposit struct {
	Account ethcommon.Address
	Amount  *big.Int
}

func (e *EventDeposit) Pack(abi abi.ABI) (*types.EvmLog, error) {
	return packer.PackEvent(e, abi.Events["Deposit"])
}

type EventWithdraw struct {
	Account ethcommon.Address
	Amount  *big.Int
	Guarded bool
}

func (e *EventWithdraw) Pack(abi abi.ABI) (*types.EvmLog, error) {
	return packer.PackEvent(e, abi.Events["Withdraw"])
}

type ErrorInsufficientBalance struct {
	Account   ethcommon.Address
	Balance   *big.Int
	Requested *big.Int
}

func (e *ErrorInsufficientBalance) Pack(abi abi.ABI) error {
	return packer.PackError(e, abi.Errors["InsufficientBalance"], ErrInsufficientBalance)
}

// ErrorTransferFailed is raised by panic, Cause is the error of the value transfer
type ErrorTransferFailed struct {
	To     ethcommon.Address
	Amount *big.Int
	Cause  error
}

func (e *ErrorTransferFailed) Pack(abi abi.ABI) error {
	return packer.PackError(e, abi.Errors["TransferFailed"], fmt.Errorf("%w: %w", ErrTransferFailed, e.Cause))
}
