package storagemgr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/axiomesh/axiom-vault/pkg/repo"
)

func TestInitializeWrongType(t *testing.T) {
	repoConfig := &repo.Config{Storage: repo.Storage{
		KvType:      "unsupport",
		Sync:        false,
		KVCacheSize: repo.KVStorageCacheSize,
	}}
	err := Initialize(repoConfig)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "unknow kv type unsupport")
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	testcase := map[string]struct {
		kvType string
	}{
		"leveldb": {kvType: repo.KVStorageTypeLeveldb},
		"memory":  {kvType: repo.KVStorageTypeMemory},
	}
	for name, tc := range testcase {
		t.Run(name, func(t *testing.T) {
			repoConfig := &repo.Config{Storage: repo.Storage{
				KvType:      tc.kvType,
				Sync:        false,
				KVCacheSize: repo.KVStorageCacheSize,
			}}
			err := Initialize(repoConfig)
			require.Nil(t, err)

			rep := &repo.Repo{
				RepoRoot: dir,
				Config:   repoConfig,
			}

			p := GetLedgerComponentPath(rep, name)
			s, err := Open(p)
			require.Nil(t, err)
			require.NotNil(t, s)

			same, err := Open(p)
			require.Nil(t, err)
			require.Equal(t, s, same)

			s.Put([]byte("key"), []byte("value"))
			require.Equal(t, []byte("value"), same.Get([]byte("key")))

			require.Nil(t, s.Close())
			reopened, err := Open(p)
			require.Nil(t, err)
			require.NotSame(t, s, reopened)
			require.Nil(t, reopened.Close())
		})
	}
}
