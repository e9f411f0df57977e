package common

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	ethtype "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-vault/internal/ledger"
	"github.com/axiomesh/axiom-vault/pkg/packer"
	"github.com/axiomesh/axiom-vault/pkg/repo"
	"github.com/axiomesh/axiom-vault/pkg/types"
)

const (
	// ZeroAddress is a special address, no one has control
	ZeroAddress = "0x0000000000000000000000000000000000000000"

	// system contract address range 0x1000-0xffff, start from 1000, avoid conflicts with precompiled contracts
	// SystemContractStartAddr is the start address of system contract
	SystemContractStartAddr = "0x0000000000000000000000000000000000001000"

	// VaultContractAddr is the custodial vault
	VaultContractAddr = "0x0000000000000000000000000000000000001000"

	// ReentrantContractAddr is a receiver which calls back into the vault when it is paid
	ReentrantContractAddr = "0x0000000000000000000000000000000000001001"

	// SystemContractEndAddr is the end address of system contract
	SystemContractEndAddr = "0x000000000000000000000000000000000000ffff"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds for transfer")
	ErrExecutionAborted  = errors.New("execution aborted")
)

// AbortError is a recovered panic of a system contract, it aborts the whole transaction
type AbortError struct {
	Cause any
}

func NewAbortError(cause any) *AbortError {
	return &AbortError{Cause: cause}
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("%s: %v", ErrExecutionAborted, e.Cause)
}

func (e *AbortError) Unwrap() []error {
	if err, ok := e.Cause.(error); ok {
		return []error{ErrExecutionAborted, err}
	}
	return []error{ErrExecutionAborted}
}

type SystemContractConfig struct {
	Logger logrus.FieldLogger
}

type VirtualMachine interface {
	// IsSystemContract judge if is system contract
	IsSystemContract(addr ethcommon.Address) bool

	// Reset the state of the system contract
	Reset(currentHeight uint64, stateLedger ledger.StateLedger, from ethcommon.Address, to *ethcommon.Address, value *big.Int)

	// Run executes the call data against the contract set by Reset
	Run(input []byte) ([]byte, error)

	RequiredGas(input []byte) uint64

	// View return a view system contract
	View() VirtualMachine
}

// Host runs a nested call issued by a system contract, synchronously
type Host interface {
	Call(caller, target ethcommon.Address, value *big.Int, data []byte) ([]byte, error)
}

// Receiver is implemented by contracts which accept calls with empty data
type Receiver interface {
	Receive() error
}

type VMContext struct {
	StateLedger   ledger.StateLedger
	CurrentHeight uint64
	CurrentLogs   *[]*types.EvmLog

	// From is the direct caller of the current frame
	From ethcommon.Address

	// Value is the amount moved from From to the contract before the call
	Value *big.Int

	Host Host
}

// SystemContract must be implemented by all system contract
type SystemContract interface {
	SetContext(*VMContext)

	GenesisInit(genesis *repo.GenesisConfig) error
}

// SystemContractBase carries the context and abi shared by every system contract
type SystemContractBase struct {
	Logger  logrus.FieldLogger
	Ctx     *VMContext
	Address ethcommon.Address
	Abi     abi.ABI
}

func (s *SystemContractBase) SetContext(ctx *VMContext) {
	s.Ctx = ctx
}

func (s *SystemContractBase) Account() ledger.IAccount {
	return s.Ctx.StateLedger.GetOrCreateAccount(s.Address)
}

// MsgValue returns the value attached to the current call, never nil
func (s *SystemContractBase) MsgValue() *big.Int {
	if s.Ctx.Value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(s.Ctx.Value)
}

func (s *SystemContractBase) EmitEvent(event packer.Event) {
	log, err := event.Pack(s.Abi)
	if err != nil {
		panic(err)
	}
	log.Address = s.Address
	*s.Ctx.CurrentLogs = append(*s.Ctx.CurrentLogs, log)
}

func (s *SystemContractBase) Revert(err packer.Error) error {
	return err.Pack(s.Abi)
}

func CalculateDynamicGas(bytes []byte) uint64 {
	gas, _ := core.IntrinsicGas(bytes, ethtype.AccessList{}, false, true, true, true)
	return gas
}
