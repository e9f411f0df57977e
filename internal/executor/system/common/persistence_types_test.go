package common

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiomesh/axiom-vault/internal/ledger"
)

func TestVMMap(t *testing.T) {
	account := ledger.NewMockAccount(ethcommon.HexToAddress(ZeroAddress))
	balances := NewVMMap[ethcommon.Address, *big.Int](account, "balances", func(key ethcommon.Address) string { return key.String() })
	user := ethcommon.HexToAddress("0x01")

	exist, v, err := balances.Get(user)
	require.Nil(t, err)
	assert.False(t, exist)
	assert.Nil(t, v)

	def, err := balances.GetOrDefault(user, big.NewInt(0))
	require.Nil(t, err)
	assert.Equal(t, 0, def.Sign())

	require.Nil(t, balances.Put(user, big.NewInt(100)))
	exist, v, err = balances.Get(user)
	require.Nil(t, err)
	assert.True(t, exist)
	assert.Equal(t, big.NewInt(100), v)

	require.Nil(t, balances.Put(user, big.NewInt(0)))
	exist, v, err = balances.Get(user)
	require.Nil(t, err)
	assert.True(t, exist)
	assert.Equal(t, 0, v.Sign())

	require.Nil(t, balances.Delete(user))
	exist, _, err = balances.Get(user)
	require.Nil(t, err)
	assert.False(t, exist)

	account.SetState([]byte("balances_"+user.String()), []byte{1, '{'})
	_, _, err = balances.Get(user)
	assert.NotNil(t, err)
}

func TestVMSlot(t *testing.T) {
	type Value struct {
		Name string
		Desc string
	}

	account := ledger.NewMockAccount(ethcommon.HexToAddress(ZeroAddress))
	slot := NewVMSlot[Value](account, "test")

	assert.False(t, slot.Has())
	_, err := slot.MustGet()
	assert.NotNil(t, err)

	old := Value{Name: "name", Desc: "desc"}
	require.Nil(t, slot.Put(old))
	exist, v, err := slot.Get()
	require.Nil(t, err)
	assert.True(t, exist)
	assert.Equal(t, old, v)

	require.Nil(t, slot.Put(Value{}))
	assert.True(t, slot.Has())
	v, err = slot.MustGet()
	require.Nil(t, err)
	assert.Equal(t, Value{}, v)

	require.Nil(t, slot.Delete())
	assert.False(t, slot.Has())
}
