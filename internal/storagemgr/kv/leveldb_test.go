package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	disk, err := NewLevelDB(t.TempDir(), nil, false)
	require.Nil(t, err)

	testcase := map[string]Storage{
		"leveldb": disk,
		"memory":  NewMemory(),
	}
	for name, s := range testcase {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			assert.Nil(t, s.Get([]byte("k1")))
			assert.False(t, s.Has([]byte("k1")))

			s.Put([]byte("k1"), []byte("v1"))
			assert.Equal(t, []byte("v1"), s.Get([]byte("k1")))
			assert.True(t, s.Has([]byte("k1")))

			s.Delete([]byte("k1"))
			assert.Nil(t, s.Get([]byte("k1")))

			b := s.NewBatch()
			b.Put([]byte("k2"), []byte("v2"))
			b.Put([]byte("k3"), []byte("v3"))
			b.Delete([]byte("k2"))
			assert.Equal(t, 10, b.Size())
			assert.False(t, s.Has([]byte("k3")))

			b.Commit()
			assert.False(t, s.Has([]byte("k2")))
			assert.Equal(t, []byte("v3"), s.Get([]byte("k3")))

			b.Reset()
			assert.Equal(t, 0, b.Size())
		})
	}
}

func TestLevelDBReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLevelDB(dir, nil, true)
	require.Nil(t, err)
	s.Put([]byte("key"), []byte("value"))
	require.Nil(t, s.Close())

	s, err = NewLevelDB(dir, nil, true)
	require.Nil(t, err)
	defer s.Close()
	assert.Equal(t, []byte("value"), s.Get([]byte("key")))
}
