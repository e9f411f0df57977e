package ledger

import (
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-vault/internal/storagemgr/kv"
	"github.com/axiomesh/axiom-vault/pkg/loggers"
	"github.com/axiomesh/axiom-vault/pkg/types"
)

var _ StateLedger = (*StateLedgerImpl)(nil)

type revision struct {
	id           int
	changerIndex int
}

type StateLedgerImpl struct {
	logger   logrus.FieldLogger
	backend  kv.Storage
	accounts map[common.Address]*SimpleAccount
	logs     []*types.EvmLog

	changer        *stateChanger
	validRevisions []revision
	nextRevisionId int
}

func NewStateLedger(backend kv.Storage) *StateLedgerImpl {
	return &StateLedgerImpl{
		logger:   loggers.Logger(loggers.Storage),
		backend:  backend,
		accounts: make(map[common.Address]*SimpleAccount),
		changer:  newChanger(),
	}
}

// GetOrCreateAccount get the account, if not exist, create a new account
func (l *StateLedgerImpl) GetOrCreateAccount(addr common.Address) IAccount {
	return l.getOrCreateAccount(addr)
}

func (l *StateLedgerImpl) getOrCreateAccount(addr common.Address) *SimpleAccount {
	if account := l.getAccount(addr); account != nil {
		return account
	}

	account := newAccount(l.backend, l.changer, addr)
	l.changer.append(createObjectChange{account: &account.Addr})
	l.accounts[addr] = account
	l.logger.Debugf("create account, addr: %s", addr)
	return account
}

// GetAccount get account info using account Address, if not found, return nil
func (l *StateLedgerImpl) GetAccount(addr common.Address) IAccount {
	account := l.getAccount(addr)
	if account == nil {
		return nil
	}
	return account
}

func (l *StateLedgerImpl) getAccount(addr common.Address) *SimpleAccount {
	if account, ok := l.accounts[addr]; ok {
		return account
	}

	account := newAccount(l.backend, l.changer, addr)
	if !account.load() {
		return nil
	}
	l.accounts[addr] = account
	return account
}

func (l *StateLedgerImpl) GetBalance(addr common.Address) *big.Int {
	account := l.getAccount(addr)
	if account == nil {
		return new(big.Int)
	}
	return account.GetBalance()
}

func (l *StateLedgerImpl) SetBalance(addr common.Address, value *big.Int) {
	l.getOrCreateAccount(addr).SetBalance(value)
}

func (l *StateLedgerImpl) SubBalance(addr common.Address, value *big.Int) {
	l.getOrCreateAccount(addr).SubBalance(value)
}

func (l *StateLedgerImpl) AddBalance(addr common.Address, value *big.Int) {
	l.getOrCreateAccount(addr).AddBalance(value)
}

func (l *StateLedgerImpl) GetState(addr common.Address, key []byte) (bool, []byte) {
	account := l.getAccount(addr)
	if account == nil {
		return false, nil
	}
	return account.GetState(key)
}

func (l *StateLedgerImpl) SetState(addr common.Address, key []byte, value []byte) {
	l.getOrCreateAccount(addr).SetState(key, value)
}

func (l *StateLedgerImpl) AddLog(log *types.EvmLog) {
	l.changer.append(addLogChange{})
	l.logs = append(l.logs, log)
}

func (l *StateLedgerImpl) GetLogs() []*types.EvmLog {
	logs := make([]*types.EvmLog, len(l.logs))
	copy(logs, l.logs)
	return logs
}

func (l *StateLedgerImpl) PrepareTx() {
	l.logs = nil
	l.changer.reset()
	l.validRevisions = l.validRevisions[:0]
}

func (l *StateLedgerImpl) Snapshot() int {
	id := l.nextRevisionId
	l.nextRevisionId++
	l.validRevisions = append(l.validRevisions, revision{id: id, changerIndex: l.changer.length()})
	return id
}

func (l *StateLedgerImpl) RevertToSnapshot(revid int) {
	idx := sort.Search(len(l.validRevisions), func(i int) bool {
		return l.validRevisions[i].id >= revid
	})
	if idx == len(l.validRevisions) || l.validRevisions[idx].id != revid {
		panic(fmt.Errorf("revision id %v cannot be reverted", revid))
	}
	snapshot := l.validRevisions[idx].changerIndex

	l.changer.revert(l, snapshot)
	l.validRevisions = l.validRevisions[:idx]
	revertCounter.Inc()
}

func (l *StateLedgerImpl) Finalise() {
	for addr := range l.changer.dirties {
		if account, ok := l.accounts[addr]; ok {
			account.finalise()
		}
	}
	l.changer.reset()
	l.validRevisions = l.validRevisions[:0]
}

func (l *StateLedgerImpl) Commit() (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("commit state ledger failed: %v", r)
		}
	}()

	l.Finalise()

	batch := l.backend.NewBatch()
	for _, account := range l.accounts {
		account.flush(batch)
	}
	size := batch.Size()
	batch.Commit()

	commitDuration.Observe(float64(time.Since(start)) / float64(time.Second))
	l.logger.WithFields(logrus.Fields{
		"accounts": len(l.accounts),
		"size":     size,
		"elapse":   time.Since(start),
	}).Debug("Commit state ledger")
	return nil
}

func (l *StateLedgerImpl) Close() {
	if err := l.backend.Close(); err != nil {
		l.logger.WithField("err", err).Warn("Close state ledger backend failed")
	}
}
