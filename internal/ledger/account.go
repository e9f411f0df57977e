package ledger

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-vault/internal/storagemgr/kv"
	"github.com/axiomesh/axiom-vault/pkg/loggers"
)

var _ IAccount = (*SimpleAccount)(nil)

type SimpleAccount struct {
	logger logrus.FieldLogger
	Addr   common.Address

	// The confirmed balance of the previous commit
	originBalance *big.Int

	// Balance modified by previous transactions since the last commit
	pendingBalance *big.Int

	// The latest balance of the current transaction
	dirtyBalance *big.Int

	// The confirmed state of the previous commit, nil value means loaded but absent
	originState map[string][]byte

	// Modified state of previous transactions since the last commit
	pendingState map[string][]byte

	// The latest state of the current transaction
	dirtyState map[string][]byte

	backend kv.Storage
	changer *stateChanger

	// Flag whether the account already exists in the backend
	persisted bool
}

func NewMockAccount(addr common.Address) *SimpleAccount {
	return newAccount(kv.NewMemory(), newChanger(), addr)
}

func newAccount(backend kv.Storage, changer *stateChanger, addr common.Address) *SimpleAccount {
	return &SimpleAccount{
		logger:        loggers.Logger(loggers.Storage),
		Addr:          addr,
		originBalance: new(big.Int),
		originState:   make(map[string][]byte),
		pendingState:  make(map[string][]byte),
		dirtyState:    make(map[string][]byte),
		backend:       backend,
		changer:       changer,
	}
}

// load reads the committed balance, returns false if the account is not in the backend
func (o *SimpleAccount) load() bool {
	start := time.Now()
	data := o.backend.Get(compositeAccountKey(o.Addr))
	accountReadDuration.Observe(float64(time.Since(start)) / float64(time.Second))
	if data == nil {
		return false
	}
	o.originBalance = new(big.Int).SetBytes(decodeBalance(data))
	o.persisted = true
	return true
}

func (o *SimpleAccount) String() string {
	return fmt.Sprintf(`{"address": %v, "balance": %v, "persisted": %v}`, o.Addr, o.GetBalance(), o.persisted)
}

func (o *SimpleAccount) GetAddress() common.Address {
	return o.Addr
}

func (o *SimpleAccount) GetState(key []byte) (bool, []byte) {
	k := string(key)
	if value, exist := o.dirtyState[k]; exist {
		return len(value) != 0, value
	}
	if value, exist := o.pendingState[k]; exist {
		return len(value) != 0, value
	}
	if value, exist := o.originState[k]; exist {
		return len(value) != 0, value
	}

	start := time.Now()
	value := o.backend.Get(compositeStorageKey(o.Addr, key))
	stateReadDuration.Observe(float64(time.Since(start)) / float64(time.Second))
	o.originState[k] = value
	o.logger.Debugf("get state from db, addr: %s, key: %s, state: %s", o.Addr, hexutil.Encode(key), hexutil.Encode(value))

	return len(value) != 0, value
}

// SetState writes the value of key, empty value removes the key
func (o *SimpleAccount) SetState(key []byte, value []byte) {
	k := string(key)
	prev, hadDirty := o.dirtyState[k]
	o.changer.append(storageChange{
		account:  &o.Addr,
		key:      k,
		prevalue: prev,
		hadDirty: hadDirty,
	})
	o.dirtyState[k] = common.CopyBytes(value)
}

func (o *SimpleAccount) GetBalance() *big.Int {
	if o.dirtyBalance != nil {
		return new(big.Int).Set(o.dirtyBalance)
	}
	if o.pendingBalance != nil {
		return new(big.Int).Set(o.pendingBalance)
	}
	return new(big.Int).Set(o.originBalance)
}

func (o *SimpleAccount) SetBalance(balance *big.Int) {
	o.changer.append(balanceChange{
		account: &o.Addr,
		prev:    o.dirtyBalance,
	})
	o.dirtyBalance = new(big.Int).Set(balance)
}

func (o *SimpleAccount) SubBalance(amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	o.SetBalance(new(big.Int).Sub(o.GetBalance(), amount))
}

func (o *SimpleAccount) AddBalance(amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	o.SetBalance(new(big.Int).Add(o.GetBalance(), amount))
}

func (o *SimpleAccount) IsEmpty() bool {
	return o.GetBalance().Sign() == 0 && !o.persisted && len(o.pendingState) == 0 && len(o.dirtyState) == 0
}

// finalise moves the changes of the current transaction into pending
func (o *SimpleAccount) finalise() {
	if o.dirtyBalance != nil {
		o.pendingBalance = o.dirtyBalance
		o.dirtyBalance = nil
	}
	for key, value := range o.dirtyState {
		o.pendingState[key] = value
	}
	o.dirtyState = make(map[string][]byte)
}

// flush writes pending changes into batch and promotes them to origin
func (o *SimpleAccount) flush(batch kv.Batch) {
	if o.pendingBalance != nil || !o.persisted {
		balance := o.GetBalance()
		batch.Put(compositeAccountKey(o.Addr), encodeBalance(balance.Bytes()))
		o.originBalance = balance
		o.pendingBalance = nil
		o.persisted = true
	}

	for key, value := range o.pendingState {
		storageKey := compositeStorageKey(o.Addr, []byte(key))
		if len(value) == 0 {
			batch.Delete(storageKey)
			o.originState[key] = nil
		} else {
			batch.Put(storageKey, value)
			o.originState[key] = value
		}
	}
	o.pendingState = make(map[string][]byte)
}
