package reentrant

import (
	_ "embed"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/axiomesh/axiom-vault/internal/executor/system/common"
	"github.com/axiomesh/axiom-vault/internal/executor/system/vault"
	"github.com/axiomesh/axiom-vault/pkg/repo"
)

//go:embed reentrant.abi
var ABI string

var (
	_ common.SystemContract = (*Reentrant)(nil)
	_ common.Receiver       = (*Reentrant)(nil)
)

// Reentrant deposits into a vault and withdraws it again, every payment it receives
// from the vault calls withdraw once more until MaxDepth is reached
type Reentrant struct {
	common.SystemContractBase

	vaultABI  abi.ABI
	config    *common.VMSlot[Config]
	reentries *common.VMSlot[uint64]
	lastError *common.VMSlot[string]
}

func New(cfg *common.SystemContractConfig) *Reentrant {
	contractABI, err := abi.JSON(strings.NewReader(ABI))
	if err != nil {
		panic(err)
	}
	vaultABI, err := abi.JSON(strings.NewReader(vault.ABI))
	if err != nil {
		panic(err)
	}
	return &Reentrant{
		SystemContractBase: common.SystemContractBase{
			Logger:  cfg.Logger,
			Address: ethcommon.HexToAddress(common.ReentrantContractAddr),
			Abi:     contractABI,
		},
		vaultABI: vaultABI,
	}
}

func (r *Reentrant) SetContext(ctx *common.VMContext) {
	r.SystemContractBase.SetContext(ctx)

	account := r.Account()
	r.config = common.NewVMSlot[Config](account, ConfigKey)
	r.reentries = common.NewVMSlot[uint64](account, ReentriesKey)
	r.lastError = common.NewVMSlot[string](account, LastErrorKey)
}

func (r *Reentrant) GenesisInit(_ *repo.GenesisConfig) error {
	return nil
}

func (r *Reentrant) Configure(target ethcommon.Address, amount *big.Int, maxDepth uint64, useSafePath bool, swallowErrors bool) error {
	return r.config.Put(Config{
		Target:        target,
		Amount:        amount,
		MaxDepth:      maxDepth,
		UseSafePath:   useSafePath,
		SwallowErrors: swallowErrors,
	})
}

// Attack deposits the configured amount into the target and withdraws it
func (r *Reentrant) Attack() error {
	cfg, err := r.mustConfig()
	if err != nil {
		return err
	}
	if err := r.reentries.Put(0); err != nil {
		return err
	}
	if err := r.lastError.Delete(); err != nil {
		return err
	}

	depositData, err := r.vaultABI.Pack(vault.DepositMethod)
	if err != nil {
		return err
	}
	if _, err := r.Ctx.Host.Call(r.Address, cfg.Target, cfg.Amount, depositData); err != nil {
		return errors.WithMessage(err, "deposit into target")
	}

	_, err = r.callWithdraw(cfg)
	return errors.WithMessage(err, "withdraw from target")
}

// Receive is called on every plain payment
func (r *Reentrant) Receive() error {
	exist, cfg, err := r.config.Get()
	if err != nil {
		return err
	}
	if !exist || r.Ctx.From != cfg.Target {
		return nil
	}

	depth, err := r.reentriesCount()
	if err != nil {
		return err
	}
	if depth >= cfg.MaxDepth {
		return nil
	}
	depth++
	if err := r.reentries.Put(depth); err != nil {
		return err
	}

	_, callErr := r.callWithdraw(cfg)
	r.EmitEvent(&EventReentered{
		Target:   cfg.Target,
		Depth:    depth,
		Rejected: callErr != nil,
	})
	if callErr == nil {
		return nil
	}

	r.Logger.WithField("depth", depth).WithField("err", callErr).Debug("reentrant withdraw failed")
	if err := r.lastError.Put(callErr.Error()); err != nil {
		return err
	}
	if cfg.SwallowErrors {
		return nil
	}
	return callErr
}

// Sweep pays the whole balance of the contract to the caller
func (r *Reentrant) Sweep() error {
	balance := r.Ctx.StateLedger.GetBalance(r.Address)
	_, err := r.Ctx.Host.Call(r.Address, r.Ctx.From, balance, nil)
	return err
}

func (r *Reentrant) Reentries() (uint64, error) {
	return r.reentriesCount()
}

func (r *Reentrant) LastError() (string, error) {
	_, msg, err := r.lastError.Get()
	return msg, err
}

func (r *Reentrant) callWithdraw(cfg Config) ([]byte, error) {
	method := vault.WithdrawUnsafeMethod
	if cfg.UseSafePath {
		method = vault.WithdrawMethod
	}
	data, err := r.vaultABI.Pack(method, cfg.Amount)
	if err != nil {
		return nil, err
	}
	return r.Ctx.Host.Call(r.Address, cfg.Target, big.NewInt(0), data)
}

func (r *Reentrant) reentriesCount() (uint64, error) {
	_, count, err := r.reentries.Get()
	return count, err
}

func (r *Reentrant) mustConfig() (Config, error) {
	if !r.config.Has() {
		return Config{}, r.Revert(&ErrorNotConfigured{})
	}
	return r.config.MustGet()
}
