package kv

// Storage is a flat key value store, read and write failures of the backend are fatal
type Storage interface {
	Get(key []byte) []byte
	Has(key []byte) bool
	Put(key, value []byte)
	Delete(key []byte)
	NewBatch() Batch
	Close() error
}

type Batch interface {
	Put(key, value []byte)
	Delete(key []byte)
	Commit()
	// Size is the total length of keys and values written into the batch
	Size() int
	Reset()
}
