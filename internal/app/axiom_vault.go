package app

import (
	"context"
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-vault/internal/executor"
	"github.com/axiomesh/axiom-vault/internal/ledger"
	"github.com/axiomesh/axiom-vault/internal/storagemgr"
	"github.com/axiomesh/axiom-vault/pkg/loggers"
	"github.com/axiomesh/axiom-vault/pkg/profile"
	"github.com/axiomesh/axiom-vault/pkg/repo"
	"github.com/axiomesh/axiom-vault/pkg/types"
)

type AxiomVault struct {
	Ctx           context.Context
	Cancel        context.CancelFunc
	Repo          *repo.Repo
	logger        logrus.FieldLogger
	Ledger        *ledger.Ledger
	BlockExecutor *executor.BlockExecutor
	Monitor       *profile.Monitor
}

func PrepareAxiomVault(rep *repo.Repo) error {
	if err := storagemgr.Initialize(rep.Config); err != nil {
		return fmt.Errorf("storagemgr initialize: %w", err)
	}
	if err := raiseUlimit(rep.Config.Ulimit); err != nil {
		return fmt.Errorf("raise ulimit: %w", err)
	}
	return nil
}

// NewAxiomVault opens the ledger and initializes the genesis state on the first run
func NewAxiomVault(rep *repo.Repo, ctx context.Context, cancel context.CancelFunc) (*AxiomVault, error) {
	if err := PrepareAxiomVault(rep); err != nil {
		return nil, err
	}

	logger := loggers.Logger(loggers.App)

	l, err := ledger.New(rep)
	if err != nil {
		return nil, fmt.Errorf("create ledger: %w", err)
	}

	blockExecutor, err := executor.New(rep, l)
	if err != nil {
		l.Close()
		return nil, fmt.Errorf("create BlockExecutor: %w", err)
	}
	if err := blockExecutor.InitGenesis(); err != nil {
		if !errors.Is(err, executor.ErrGenesisExisted) {
			l.Close()
			return nil, fmt.Errorf("init genesis: %w", err)
		}
	} else {
		logger.WithField("accounts", len(rep.GenesisConfig.Accounts)).Info("Initialize genesis")
	}

	monitor, err := profile.NewMonitor(rep.Config)
	if err != nil {
		l.Close()
		return nil, err
	}

	return &AxiomVault{
		Ctx:           ctx,
		Cancel:        cancel,
		Repo:          rep,
		logger:        logger,
		Ledger:        l,
		BlockExecutor: blockExecutor,
		Monitor:       monitor,
	}, nil
}

func (axm *AxiomVault) Start() error {
	if err := axm.BlockExecutor.Start(); err != nil {
		return fmt.Errorf("block executor start: %w", err)
	}
	if err := axm.Monitor.Start(); err != nil {
		return fmt.Errorf("monitor start: %w", err)
	}

	axm.start()

	axm.printLogo()

	return nil
}

func (axm *AxiomVault) Stop() error {
	if err := axm.BlockExecutor.Stop(); err != nil {
		return fmt.Errorf("block executor stop: %w", err)
	}
	if err := axm.Monitor.Stop(); err != nil {
		return fmt.Errorf("monitor stop: %w", err)
	}
	axm.Cancel()
	axm.Ledger.Close()

	axm.logger.Infof("%s stopped", repo.AppName)

	return nil
}

// SendTransaction executes tx in its own block and commits it
func (axm *AxiomVault) SendTransaction(tx *types.Transaction) (*types.Receipt, error) {
	receipts, err := axm.BlockExecutor.ExecuteBlock(&types.Block{
		Transactions: []*types.Transaction{tx},
	})
	if err != nil {
		return nil, err
	}
	return receipts[0], nil
}

func (axm *AxiomVault) Call(tx *types.Transaction) *types.Receipt {
	return axm.BlockExecutor.Call(tx)
}

func (axm *AxiomVault) printLogo() {
	fig := figure.NewFigure(repo.AppName, "slant", true)
	axm.logger.Infof(`
=========================================================================================
%s
=========================================================================================
`, fig.String())
}
