package loggers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiomesh/axiom-vault/pkg/repo"
)

func TestInitialize(t *testing.T) {
	rep := repo.MockRepo(t)
	rep.Config.Log.Module.Vault = "debug"
	rep.Config.Log.Module.Storage = ""
	rep.Config.Log.Level = "warn"

	err := Initialize(rep, false)
	require.Nil(t, err)

	vaultLogger, ok := Logger(Vault).(*logrus.Entry)
	require.True(t, ok)
	assert.Equal(t, logrus.DebugLevel, vaultLogger.Logger.GetLevel())
	assert.Equal(t, Vault, vaultLogger.Data["module"])

	storageLogger := Logger(Storage).(*logrus.Entry)
	assert.Equal(t, logrus.WarnLevel, storageLogger.Logger.GetLevel())
}

func TestInitializePersist(t *testing.T) {
	rep := repo.MockRepo(t)
	err := Initialize(rep, true)
	require.Nil(t, err)

	Logger(App).Info("persist log")
	_, err = os.Stat(filepath.Join(rep.RepoRoot, repo.LogsDirName, rep.Config.Log.Filename+".log"))
	assert.Nil(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("unknown"))
}
