package reentrant

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/axiomesh/axiom-vault/pkg/packer"
	"github.com/axiomesh/axiom-vault/pkg/types"
)

const (
	ConfigKey    = "reentrantConfig"
	ReentriesKey = "reentrantCount"
	LastErrorKey = "reentrantLastError"

	ConfigureMethod = "configure"
	AttackMethod    = "attack"
	SweepMethod     = "sweep"
	ReentriesMethod = "reentries"
	LastErrorMethod = "lastError"
)

var Method2Sig = map[string]string{
	ConfigureMethod: "configure(address,uint256,uint64,bool,bool)",
	AttackMethod:    "attack()",
	SweepMethod:     "sweep()",
	ReentriesMethod: "reentries()",
	LastErrorMethod: "lastError()",
}

var ErrNotConfigured = errors.New("reentrant: not configured")

type Config struct {
	Target        ethcommon.Address `json:"target"`
	Amount        *big.Int          `json:"amount"`
	MaxDepth      uint64            `json:"max_depth"`
	UseSafePath   bool              `json:"use_safe_path"`
	SwallowErrors bool              `json:"swallow_errors"`
}

type EventReentered struct {
	Target   ethcommon.Address
	Depth    uint64
	Rejected bool
}

func (e *EventReentered) Pack(abi abi.ABI) (*types.EvmLog, error) {
	return packer.PackEvent(e, abi.Events["Reentered"])
}

type ErrorNotConfigured struct{}

func (e *ErrorNotConfigured) Pack(abi abi.ABI) error {
	return packer.PackError(e, abi.Errors["NotConfigured"], ErrNotConfigured)
}
