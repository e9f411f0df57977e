package executor

import (
	"context"
	"sync"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-vault/internal/executor/system"
	sys_common "github.com/axiomesh/axiom-vault/internal/executor/system/common"
	"github.com/axiomesh/axiom-vault/internal/genesis"
	"github.com/axiomesh/axiom-vault/internal/ledger"
	"github.com/axiomesh/axiom-vault/pkg/events"
	"github.com/axiomesh/axiom-vault/pkg/loggers"
	"github.com/axiomesh/axiom-vault/pkg/packer"
	"github.com/axiomesh/axiom-vault/pkg/repo"
	"github.com/axiomesh/axiom-vault/pkg/types"
)

const (
	blockChanNumber = 1024

	// transferGas is charged for a plain value transfer between accounts
	transferGas = 21000
)

var (
	ErrContractCreation = errors.New("contract creation is not supported")
	ErrGenesisExisted   = errors.New("genesis has already been initialized")
)

var _ Executor = (*BlockExecutor)(nil)

// BlockExecutor executes transactions against the state ledger
type BlockExecutor struct {
	ledger            *ledger.Ledger
	logger            logrus.FieldLogger
	blockC            chan *types.Block
	cumulativeGasUsed uint64
	currentHeight     uint64
	pendingLogs       []*types.EvmLog
	blockFeed         event.Feed
	logsFeed          event.Feed
	ctx               context.Context
	cancel            context.CancelFunc

	rep  *repo.Repo
	lock *sync.Mutex

	nvm *system.NativeVM
}

// New creates executor instance
func New(rep *repo.Repo, ledger *ledger.Ledger) (*BlockExecutor, error) {
	ctx, cancel := context.WithCancel(context.Background())

	blockExecutor := &BlockExecutor{
		ledger: ledger,
		logger: loggers.Logger(loggers.Executor),
		ctx:    ctx,
		cancel: cancel,
		blockC: make(chan *types.Block, blockChanNumber),
		rep:    rep,
		lock:   &sync.Mutex{},
	}
	blockExecutor.currentHeight = loadHeight(ledger.StateLedger)

	// initialize native vm
	blockExecutor.nvm = system.New(rep.Config.Executor.MaxCallDepth)

	return blockExecutor, nil
}

// Start starts executor
func (exec *BlockExecutor) Start() error {
	go exec.listenExecuteEvent()

	exec.logger.WithFields(logrus.Fields{
		"height": exec.CurrentHeight(),
	}).Infof("BlockExecutor started")

	return nil
}

// Stop stops executor
func (exec *BlockExecutor) Stop() error {
	exec.cancel()

	exec.logger.Info("BlockExecutor stopped")

	return nil
}

func (exec *BlockExecutor) InitGenesis() error {
	exec.lock.Lock()
	defer exec.lock.Unlock()

	if genesis.IsInitialized(exec.ledger) {
		return ErrGenesisExisted
	}

	if err := genesis.Initialize(exec.rep.GenesisConfig, exec.nvm, exec.ledger); err != nil {
		return errors.Wrap(err, "init genesis")
	}

	exec.logger.WithFields(logrus.Fields{
		"chain_id": exec.rep.GenesisConfig.ChainID,
		"accounts": len(exec.rep.GenesisConfig.Accounts),
	}).Info("Genesis initialized")
	return nil
}

func (exec *BlockExecutor) AsyncExecuteBlock(block *types.Block) {
	exec.blockC <- block
}

// ExecuteBlock applies every transaction of block and commits the state
func (exec *BlockExecutor) ExecuteBlock(block *types.Block) ([]*types.Receipt, error) {
	current := time.Now()

	exec.lock.Lock()
	if block.Height == 0 {
		block.Height = exec.currentHeight + 1
	}
	if block.Height != exec.currentHeight+1 {
		exec.lock.Unlock()
		exec.logger.WithFields(logrus.Fields{
			"block height":  block.Height,
			"matchedHeight": exec.currentHeight + 1,
		}).Warning("current block height is not matched")
		return nil, errors.Errorf("block height %d is not matched, expected %d", block.Height, exec.currentHeight+1)
	}

	exec.cumulativeGasUsed = 0
	receipts := exec.applyTransactions(block.Transactions, block.Height)
	applyTxsDuration.Observe(float64(time.Since(current)) / float64(time.Second))
	exec.logger.WithFields(logrus.Fields{
		"time":  time.Since(current),
		"count": len(block.Transactions),
	}).Debug("Apply transactions elapsed")

	err := exec.commit()
	exec.lock.Unlock()
	if err != nil {
		return nil, err
	}

	executeBlockDuration.Observe(float64(time.Since(current)) / float64(time.Second))
	exec.logger.WithFields(logrus.Fields{
		"height":   block.Height,
		"hash":     block.Hash().String(),
		"count":    len(block.Transactions),
		"gas_used": exec.cumulativeGasUsed,
		"elapse":   time.Since(current),
	}).Info("Executed block")

	exec.blockFeed.Send(events.ExecutedEvent{
		Block:    block,
		Receipts: receipts,
	})
	return receipts, nil
}

func (exec *BlockExecutor) ApplyTransaction(tx *types.Transaction) *types.Receipt {
	exec.lock.Lock()
	defer exec.lock.Unlock()

	return exec.applyTransaction(tx, exec.currentHeight+1)
}

// Call runs tx on a view of the native vm and drops every change it made
func (exec *BlockExecutor) Call(tx *types.Transaction) *types.Receipt {
	exec.lock.Lock()
	defer exec.lock.Unlock()

	statedb := exec.ledger.StateLedger
	snapshot := statedb.Snapshot()
	defer statedb.RevertToSnapshot(snapshot)

	receipt := &types.Receipt{
		TxHash: tx.GetHash(),
		Height: exec.currentHeight,
	}
	if tx.To == nil || !exec.nvm.IsSystemContract(*tx.To) {
		receipt.Status = types.ReceiptFAILED
		receipt.Err = system.ErrNotExistSystemContract
		receipt.Ret = []byte(receipt.Err.Error())
		return receipt
	}

	result := system.RunAxiomNativeVM(exec.nvm.View(), exec.currentHeight, statedb, tx.Data, tx.From, tx.To, tx.GetValue())
	exec.fillReceipt(receipt, result)
	return receipt
}

// Commit persists the finalised transactions as a new height
func (exec *BlockExecutor) Commit() error {
	exec.lock.Lock()
	defer exec.lock.Unlock()

	return exec.commit()
}

func (exec *BlockExecutor) CurrentHeight() uint64 {
	exec.lock.Lock()
	defer exec.lock.Unlock()

	return exec.currentHeight
}

// SubscribeBlockEvent registers a subscription of ExecutedEvent.
func (exec *BlockExecutor) SubscribeBlockEvent(ch chan<- events.ExecutedEvent) event.Subscription {
	return exec.blockFeed.Subscribe(ch)
}

func (exec *BlockExecutor) SubscribeLogsEvent(ch chan<- []*types.EvmLog) event.Subscription {
	return exec.logsFeed.Subscribe(ch)
}

// PackInput encodes a method call of the system contract at to
func (exec *BlockExecutor) PackInput(to ethcommon.Address, methodName string, args ...any) ([]byte, error) {
	return exec.nvm.PackInput(to, methodName, args...)
}

// UnpackOutput decodes the return data of a method of the system contract at to
func (exec *BlockExecutor) UnpackOutput(to ethcommon.Address, methodName string, ret []byte) ([]any, error) {
	return exec.nvm.UnpackOutputArgs(to, methodName, ret)
}

func (exec *BlockExecutor) listenExecuteEvent() {
	for {
		select {
		case <-exec.ctx.Done():
			return
		case block := <-exec.blockC:
			if _, err := exec.ExecuteBlock(block); err != nil {
				exec.logger.WithFields(logrus.Fields{
					"height": block.Height,
					"err":    err,
				}).Error("Execute block failed")
			}
		}
	}
}

func (exec *BlockExecutor) applyTransactions(txs []*types.Transaction, height uint64) []*types.Receipt {
	receipts := make([]*types.Receipt, 0, len(txs))

	for _, tx := range txs {
		receipts = append(receipts, exec.applyTransaction(tx, height))
	}

	exec.logger.Debugf("executor executed %d txs", len(txs))

	return receipts
}

func (exec *BlockExecutor) applyTransaction(tx *types.Transaction, height uint64) *types.Receipt {
	statedb := exec.ledger.StateLedger
	statedb.PrepareTx()
	defer statedb.Finalise()

	receipt := &types.Receipt{
		TxHash: tx.GetHash(),
		Height: height,
	}

	snapshot := statedb.Snapshot()

	var result *core.ExecutionResult
	if tx.To != nil && exec.nvm.IsSystemContract(*tx.To) {
		result = system.RunAxiomNativeVM(exec.nvm, height, statedb, tx.Data, tx.From, tx.To, tx.GetValue())
	} else {
		result = exec.transfer(tx)
	}

	if result.Failed() {
		statedb.RevertToSnapshot(snapshot)
		failedTxCounter.Inc()
		exec.logger.WithFields(logrus.Fields{
			"hash": receipt.TxHash.String(),
			"from": tx.From.String(),
			"err":  result.Err,
		}).Warn("execute tx failed")
	}
	exec.fillReceipt(receipt, result)
	if receipt.IsSuccess() {
		receipt.EvmLogs = statedb.GetLogs()
		exec.pendingLogs = append(exec.pendingLogs, receipt.EvmLogs...)
	}

	exec.cumulativeGasUsed += receipt.GasUsed
	receipt.CumulativeGasUsed = exec.cumulativeGasUsed
	txCounter.Inc()

	return receipt
}

// transfer moves value between two accounts which are not system contracts
func (exec *BlockExecutor) transfer(tx *types.Transaction) *core.ExecutionResult {
	if tx.To == nil {
		return &core.ExecutionResult{Err: ErrContractCreation}
	}

	statedb := exec.ledger.StateLedger
	value := tx.GetValue()
	if statedb.GetBalance(tx.From).Cmp(value) < 0 {
		return &core.ExecutionResult{UsedGas: transferGas, Err: sys_common.ErrInsufficientFunds}
	}
	statedb.SubBalance(tx.From, value)
	statedb.AddBalance(*tx.To, value)
	return &core.ExecutionResult{UsedGas: transferGas}
}

func (exec *BlockExecutor) fillReceipt(receipt *types.Receipt, result *core.ExecutionResult) {
	receipt.GasUsed = result.UsedGas
	if !result.Failed() {
		receipt.Status = types.ReceiptSUCCESS
		receipt.Ret = result.Return()
		return
	}

	receipt.Status = types.ReceiptFAILED
	receipt.Err = result.Err
	receipt.Ret = []byte(result.Err.Error())
	var revertErr *packer.RevertError
	if errors.As(result.Err, &revertErr) {
		receipt.RevertData = ethcommon.CopyBytes(revertErr.Data)
		receipt.Ret = append(receipt.Ret, receipt.RevertData...)
	}
}

func (exec *BlockExecutor) commit() error {
	storeHeight(exec.ledger.StateLedger, exec.currentHeight+1)
	if err := exec.ledger.StateLedger.Commit(); err != nil {
		return errors.Wrap(err, "commit state ledger failed")
	}
	exec.currentHeight++

	logs := exec.pendingLogs
	exec.pendingLogs = nil
	if len(logs) > 0 {
		exec.logsFeed.Send(lo.Map(logs, func(log *types.EvmLog, _ int) *types.EvmLog {
			return log.Clone()
		}))
	}

	exec.logger.WithFields(logrus.Fields{
		"height": exec.currentHeight,
		"logs":   len(logs),
	}).Debug("Committed state")
	return nil
}
