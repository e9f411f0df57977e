package repo

import (
	"testing"
)

func MockRepo(t testing.TB) *Repo {
	rep := Default(t.TempDir())
	rep.Config.Storage.KvType = KVStorageTypeMemory
	rep.Config.Log.Level = "debug"
	return rep
}
