package common

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/axiomesh/axiom-vault/internal/ledger"
)

// values are stored as json behind a one byte existence flag, flag 0 means deleted
const (
	flagDeleted byte = 0
	flagExist   byte = 1
)

func loadValue[V any](account ledger.IAccount, key []byte) (exist bool, v V, err error) {
	exist, data := account.GetState(key)
	if !exist || len(data) == 0 || data[0] == flagDeleted {
		return false, v, nil
	}
	if err := json.Unmarshal(data[1:], &v); err != nil {
		return false, v, errors.Wrapf(err, "unmarshal state %s", key)
	}
	return true, v, nil
}

func storeValue[V any](account ledger.IAccount, key []byte, v V) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "marshal state %s", key)
	}
	account.SetState(key, append([]byte{flagExist}, data...))
	return nil
}

// VMMap is a mapping persisted in the contract account, one state entry per key
type VMMap[K, V any] struct {
	contractAccount ledger.IAccount
	mapName         string
	keyToString     func(key K) string
}

func NewVMMap[K, V any](contractAccount ledger.IAccount, mapName string, keyToString func(key K) string) *VMMap[K, V] {
	return &VMMap[K, V]{
		contractAccount: contractAccount,
		mapName:         mapName,
		keyToString:     keyToString,
	}
}

func (m *VMMap[K, V]) stateKey(key K) []byte {
	return []byte(fmt.Sprintf("%s_%s", m.mapName, m.keyToString(key)))
}

func (m *VMMap[K, V]) Get(k K) (exist bool, v V, err error) {
	return loadValue[V](m.contractAccount, m.stateKey(k))
}

// GetOrDefault returns def if the key does not exist
func (m *VMMap[K, V]) GetOrDefault(k K, def V) (V, error) {
	exist, v, err := m.Get(k)
	if err != nil {
		return v, err
	}
	if !exist {
		return def, nil
	}
	return v, nil
}

func (m *VMMap[K, V]) Put(k K, v V) error {
	return storeValue(m.contractAccount, m.stateKey(k), v)
}

func (m *VMMap[K, V]) Delete(k K) error {
	m.contractAccount.SetState(m.stateKey(k), []byte{flagDeleted})
	return nil
}

// VMSlot is a single value persisted in the contract account
type VMSlot[V any] struct {
	contractAccount ledger.IAccount
	slotName        string
}

func NewVMSlot[V any](contractAccount ledger.IAccount, slotName string) *VMSlot[V] {
	return &VMSlot[V]{
		contractAccount: contractAccount,
		slotName:        slotName,
	}
}

func (s *VMSlot[V]) Get() (exist bool, v V, err error) {
	return loadValue[V](s.contractAccount, []byte(s.slotName))
}

func (s *VMSlot[V]) MustGet() (v V, err error) {
	exist, v, err := s.Get()
	if err != nil {
		return v, err
	}
	if !exist {
		return v, errors.Errorf("system contract[%s] slot[%s] not exist", s.contractAccount.GetAddress(), s.slotName)
	}
	return v, nil
}

func (s *VMSlot[V]) Has() bool {
	exist, _, err := s.Get()
	return exist && err == nil
}

func (s *VMSlot[V]) Put(v V) error {
	return storeValue(s.contractAccount, []byte(s.slotName), v)
}

func (s *VMSlot[V]) Delete() error {
	s.contractAccount.SetState([]byte(s.slotName), []byte{flagDeleted})
	return nil
}
