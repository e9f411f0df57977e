package storagemgr

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/axiomesh/axiom-vault/internal/storagemgr/kv"
	"github.com/axiomesh/axiom-vault/pkg/loggers"
	"github.com/axiomesh/axiom-vault/pkg/repo"
)

const (
	Ledger = "ledger"
)

var globalStorageMgr = &storageMgr{
	storageBuilderMap: make(map[string]func(p string) (kv.Storage, error)),
	storages:          make(map[string]kv.Storage),
	lock:              new(sync.Mutex),
}

func init() {
	memoryBuilder := func(p string) (kv.Storage, error) {
		return kv.NewMemory(), nil
	}

	// only for test
	globalStorageMgr.storageBuilderMap[repo.KVStorageTypeLeveldb] = memoryBuilder
	globalStorageMgr.storageBuilderMap[repo.KVStorageTypeMemory] = memoryBuilder
	globalStorageMgr.storageBuilderMap[""] = memoryBuilder
}

type storageMgr struct {
	storageBuilderMap map[string]func(p string) (kv.Storage, error)
	storages          map[string]kv.Storage
	defaultKVType     string
	defaultCacheSize  int
	lock              *sync.Mutex
}

func (m *storageMgr) open(typ string, p string) (kv.Storage, error) {
	builder, ok := m.storageBuilderMap[typ]
	if !ok {
		return nil, fmt.Errorf("unknow kv type %s, expect leveldb or memory", typ)
	}
	return builder(p)
}

func Initialize(config *repo.Config) error {
	globalStorageMgr.lock.Lock()
	defer globalStorageMgr.lock.Unlock()

	sync := config.Storage.Sync
	globalStorageMgr.storageBuilderMap[repo.KVStorageTypeLeveldb] = func(p string) (kv.Storage, error) {
		return kv.NewLevelDB(p, &opt.Options{
			BlockCacheCapacity: config.Storage.KVCacheSize * opt.MiB,
		}, sync)
	}
	_, ok := globalStorageMgr.storageBuilderMap[config.Storage.KvType]
	if !ok {
		return fmt.Errorf("unknow kv type %s, expect leveldb or memory", config.Storage.KvType)
	}
	globalStorageMgr.defaultKVType = config.Storage.KvType
	globalStorageMgr.defaultCacheSize = config.Storage.KVCacheSize
	return nil
}

// Open returns the storage at p, opened once per path and wrapped with a read cache
func Open(p string) (kv.Storage, error) {
	return OpenSpecifyType(globalStorageMgr.defaultKVType, p)
}

func OpenSpecifyType(typ string, p string) (kv.Storage, error) {
	globalStorageMgr.lock.Lock()
	defer globalStorageMgr.lock.Unlock()
	s, ok := globalStorageMgr.storages[p]
	if !ok {
		raw, err := globalStorageMgr.open(typ, p)
		if err != nil {
			return nil, err
		}
		s = &closeHook{
			Storage: NewCachedStorage(raw, globalStorageMgr.defaultCacheSize),
			onClose: func() { forget(p) },
		}
		globalStorageMgr.storages[p] = s
		loggers.Logger(loggers.Storage).WithField("path", p).WithField("type", typ).Info("Open storage")
	}
	return s, nil
}

func GetLedgerComponentPath(rep *repo.Repo, component string) string {
	return filepath.Join(repo.GetStoragePath(rep.RepoRoot), component)
}

func forget(p string) {
	globalStorageMgr.lock.Lock()
	defer globalStorageMgr.lock.Unlock()
	delete(globalStorageMgr.storages, p)
}

type closeHook struct {
	kv.Storage
	onClose func()
}

func (c *closeHook) Close() error {
	c.onClose()
	return c.Storage.Close()
}
