package repo

const (
	AppName = "AxiomVault"

	// CfgFileName is the default config name
	CfgFileName = "config.toml"

	genesisCfgFileName = "genesis.toml"

	// defaultRepoRoot is the path to the default config dir location.
	defaultRepoRoot = "~/.axiom-vault"

	// rootPathEnvVar is the environment variable used to change the path root.
	rootPathEnvVar = "AXIOM_VAULT_PATH"

	envPrefix        = "AXIOM_VAULT"
	genesisEnvPrefix = "AXIOM_VAULT_GENESIS"

	LogsDirName = "logs"
)

const (
	KVStorageTypeLeveldb = "leveldb"
	KVStorageTypeMemory  = "memory"
	KVStorageCacheSize   = 16
	KVStorageSync        = true

	// DefaultMaxCallDepth mirrors the EVM call depth limit
	DefaultMaxCallDepth = 1024
)

var (
	// DefaultAccounts are the dev accounts funded at genesis
	DefaultAccounts = []string{
		"0xc7F999b83Af6DF9e67d0a37Ee7e900bF38b3D013",
		"0x79a1215469FaB6f9c63c1816b45183AD3624bE34",
		"0x97c8B516D19edBf575D72a172Af7F418BE498C37",
		"0xc0Ff2e0b3189132D815b8eb325bE17285AC898f8",
	}

	// DefaultAccountBalance is 1000 * 10^18
	DefaultAccountBalance = "1000000000000000000000"
)
