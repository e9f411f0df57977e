package common

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"

	"github.com/axiomesh/axiom-vault/internal/ledger"
)

const (
	NOT_INITIALIZED uint8 = 0
	NOT_ENTERED     uint8 = 1
	ENTERED         uint8 = 2
)

var (
	ErrReentrantCall    = errors.New("reentrancy guard: reentrant call")
	ErrGuardInitialized = errors.New("reentrancy guard: already initialized")
)

// GuardStore holds the status of a ReentrancyGuard, NOT_INITIALIZED until the first write.
// A NOT_INITIALIZED guard is not entered.
type GuardStore interface {
	Status() uint8
	SetStatus(status uint8)
}

type memoryGuardStore struct {
	status uint8
}

func (s *memoryGuardStore) Status() uint8 {
	return s.status
}

func (s *memoryGuardStore) SetStatus(status uint8) {
	s.status = status
}

// AccountGuardStore keeps the status as a single byte in the contract account state,
// a missing key reads as NOT_INITIALIZED
type AccountGuardStore struct {
	account ledger.IAccount
	key     []byte
}

func NewAccountGuardStore(account ledger.IAccount, key string) *AccountGuardStore {
	return &AccountGuardStore{
		account: account,
		key:     []byte(key),
	}
}

func (s *AccountGuardStore) Status() uint8 {
	exist, data := s.account.GetState(s.key)
	if !exist || len(data) == 0 {
		return NOT_INITIALIZED
	}
	return data[0]
}

func (s *AccountGuardStore) SetStatus(status uint8) {
	s.account.SetState(s.key, []byte{status})
}

type ReentrancyGuard struct {
	store GuardStore
}

func NewReentrancyGuard() *ReentrancyGuard {
	return &ReentrancyGuard{store: &memoryGuardStore{}}
}

func NewReentrancyGuardWithStore(store GuardStore) *ReentrancyGuard {
	return &ReentrancyGuard{store: store}
}

// Init writes NOT_ENTERED to a guard that was never written.
// Any later call fails and leaves the status untouched, a running guarded section can not be reset.
func (rg *ReentrancyGuard) Init() error {
	if rg.store.Status() != NOT_INITIALIZED {
		return ReentrancyGuardAlreadyInitialized()
	}
	rg.store.SetStatus(NOT_ENTERED)
	return nil
}

func (rg *ReentrancyGuard) Enter() error {
	if rg.store.Status() == ENTERED {
		guardRejectedCounter.Inc()
		return ReentrancyGuardReentrantCall()
	}

	rg.store.SetStatus(ENTERED)
	guardEnteredCounter.Inc()
	return nil
}

func (rg *ReentrancyGuard) Exit() {
	rg.store.SetStatus(NOT_ENTERED)
}

func (rg *ReentrancyGuard) IsEntered() bool {
	return rg.store.Status() == ENTERED
}

// NonReentrant runs fn while the guard is entered, fn error is returned as is
func (rg *ReentrancyGuard) NonReentrant(fn func() error) error {
	_, err := RunGuarded(rg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// RunGuarded runs fn while the guard is entered.
// A rejected entry never invokes fn. The guard is released when fn returns or panics.
func RunGuarded[T any](rg *ReentrancyGuard, fn func() (T, error)) (res T, err error) {
	if err = rg.Enter(); err != nil {
		return res, err
	}
	defer rg.Exit()

	return fn()
}

func ReentrancyGuardReentrantCall() error {
	return NewRevertErrorWithReason(ErrReentrantCall, "ReentrancyGuardReentrantCall", abi.Arguments{}, nil)
}

func ReentrancyGuardAlreadyInitialized() error {
	return NewRevertErrorWithReason(ErrGuardInitialized, "ReentrancyGuardAlreadyInitialized", abi.Arguments{}, nil)
}
