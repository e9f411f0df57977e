package repo

import (
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	repoRoot := t.TempDir()

	rep, err := Load(repoRoot)
	require.Nil(t, err)
	assert.Equal(t, repoRoot, rep.RepoRoot)
	assert.Equal(t, DefaultConfig(), rep.Config)
	assert.Equal(t, len(DefaultAccounts), len(rep.GenesisConfig.Accounts))
	assert.True(t, fileExist(path.Join(repoRoot, CfgFileName)))
	assert.True(t, fileExist(path.Join(repoRoot, genesisCfgFileName)))

	rep.Config.Storage.KvType = KVStorageTypeMemory
	rep.Config.Log.RotationTime = Duration(time.Hour)
	require.Nil(t, rep.Flush())

	reloaded, err := Load(repoRoot)
	require.Nil(t, err)
	assert.Equal(t, KVStorageTypeMemory, reloaded.Config.Storage.KvType)
	assert.Equal(t, time.Hour, reloaded.Config.Log.RotationTime.ToDuration())
}

func TestLoadWithEnv(t *testing.T) {
	repoRoot := t.TempDir()
	_, err := Load(repoRoot)
	require.Nil(t, err)

	t.Setenv("AXIOM_VAULT_LOG_LEVEL", "debug")
	t.Setenv("AXIOM_VAULT_EXECUTOR_MAX_CALL_DEPTH", "16")

	cfg, err := LoadConfig(repoRoot)
	require.Nil(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 16, cfg.Executor.MaxCallDepth)
}

func TestLoadWrongFormat(t *testing.T) {
	repoRoot := t.TempDir()
	err := os.WriteFile(path.Join(repoRoot, CfgFileName), []byte("[storage]\nkv_type = 1\n"), 0755)
	require.Nil(t, err)

	_, err = LoadConfig(repoRoot)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "check config formater failed")
}

func TestGenesisCheck(t *testing.T) {
	testcase := map[string]struct {
		accounts []*GenesisAccount
		errMsg   string
	}{
		"default": {
			accounts: DefaultGenesisConfig().Accounts,
		},
		"invalid address": {
			accounts: []*GenesisAccount{{Address: "0x123", Balance: "1"}},
			errMsg:   "invalid genesis account address",
		},
		"duplicate address": {
			accounts: []*GenesisAccount{
				{Address: DefaultAccounts[0], Balance: "1"},
				{Address: DefaultAccounts[0], Balance: "2"},
			},
			errMsg: "duplicate genesis account",
		},
		"invalid balance": {
			accounts: []*GenesisAccount{{Address: DefaultAccounts[0], Balance: "abc"}},
			errMsg:   "invalid balance",
		},
		"negative balance": {
			accounts: []*GenesisAccount{{Address: DefaultAccounts[0], Balance: "-1"}},
			errMsg:   "negative balance",
		},
	}

	for name, tc := range testcase {
		t.Run(name, func(t *testing.T) {
			g := &GenesisConfig{ChainID: 1356, Accounts: tc.accounts}
			err := g.Check()
			if tc.errMsg == "" {
				require.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoadRepoRootFromEnv(t *testing.T) {
	root, err := LoadRepoRootFromEnv("/tmp/vault")
	require.Nil(t, err)
	assert.Equal(t, "/tmp/vault", root)

	t.Setenv(rootPathEnvVar, "/tmp/vault-env")
	root, err = LoadRepoRootFromEnv("")
	require.Nil(t, err)
	assert.Equal(t, "/tmp/vault-env", root)
}
