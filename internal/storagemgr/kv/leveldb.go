package kv

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

var _ Storage = (*ldb)(nil)

type ldb struct {
	db *leveldb.DB
	wo *opt.WriteOptions
}

// NewLevelDB opens (or creates) a leveldb at path
func NewLevelDB(path string, o *opt.Options, sync bool) (Storage, error) {
	db, err := leveldb.OpenFile(path, o)
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb %s", path)
	}
	return &ldb{db: db, wo: &opt.WriteOptions{Sync: sync}}, nil
}

// NewMemory returns a leveldb backed by an in-memory storage
func NewMemory() Storage {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		panic(err)
	}
	return &ldb{db: db, wo: &opt.WriteOptions{}}
}

func (l *ldb) Get(key []byte) []byte {
	val, err := l.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil
		}
		panic(err)
	}
	return val
}

func (l *ldb) Has(key []byte) bool {
	has, err := l.db.Has(key, nil)
	if err != nil {
		panic(err)
	}
	return has
}

func (l *ldb) Put(key, value []byte) {
	if err := l.db.Put(key, value, l.wo); err != nil {
		panic(err)
	}
}

func (l *ldb) Delete(key []byte) {
	if err := l.db.Delete(key, l.wo); err != nil {
		panic(err)
	}
}

func (l *ldb) NewBatch() Batch {
	return &ldbBatch{
		db:    l.db,
		wo:    l.wo,
		batch: new(leveldb.Batch),
	}
}

func (l *ldb) Close() error {
	return l.db.Close()
}

type ldbBatch struct {
	db    *leveldb.DB
	wo    *opt.WriteOptions
	batch *leveldb.Batch
	size  int
}

func (b *ldbBatch) Put(key, value []byte) {
	b.batch.Put(key, value)
	b.size += len(key) + len(value)
}

func (b *ldbBatch) Delete(key []byte) {
	b.batch.Delete(key)
	b.size += len(key)
}

func (b *ldbBatch) Commit() {
	if err := b.db.Write(b.batch, b.wo); err != nil {
		panic(err)
	}
}

func (b *ldbBatch) Size() int {
	return b.size
}

func (b *ldbBatch) Reset() {
	b.batch.Reset()
	b.size = 0
}
