package repo

import (
	"math/big"
	"os"
	"path"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type GenesisConfig struct {
	ChainID  uint64            `mapstructure:"chainid" toml:"chainid"`
	Accounts []*GenesisAccount `mapstructure:"accounts" toml:"accounts"`
}

type GenesisAccount struct {
	Address string `mapstructure:"address" toml:"address"`
	Balance string `mapstructure:"balance" toml:"balance"`
}

func DefaultGenesisConfig() *GenesisConfig {
	return &GenesisConfig{
		ChainID: 1356,
		Accounts: lo.Map(DefaultAccounts, func(addr string, _ int) *GenesisAccount {
			return &GenesisAccount{
				Address: addr,
				Balance: DefaultAccountBalance,
			}
		}),
	}
}

// Check validates addresses and balances of the genesis accounts
func (g *GenesisConfig) Check() error {
	seen := make(map[ethcommon.Address]struct{}, len(g.Accounts))
	for _, account := range g.Accounts {
		if !ethcommon.IsHexAddress(account.Address) {
			return errors.Errorf("invalid genesis account address: %s", account.Address)
		}
		addr := ethcommon.HexToAddress(account.Address)
		if _, ok := seen[addr]; ok {
			return errors.Errorf("duplicate genesis account: %s", account.Address)
		}
		seen[addr] = struct{}{}

		if _, err := account.BalanceValue(); err != nil {
			return err
		}
	}
	return nil
}

func (a *GenesisAccount) BalanceValue() (*big.Int, error) {
	balance, ok := new(big.Int).SetString(a.Balance, 10)
	if !ok {
		return nil, errors.Errorf("invalid balance %q of genesis account %s", a.Balance, a.Address)
	}
	if balance.Sign() < 0 {
		return nil, errors.Errorf("negative balance %s of genesis account %s", a.Balance, a.Address)
	}
	return balance, nil
}

func LoadGenesisConfig(repoRoot string) (*GenesisConfig, error) {
	genesis, err := func() (*GenesisConfig, error) {
		genesis := DefaultGenesisConfig()
		cfgPath := path.Join(repoRoot, genesisCfgFileName)
		if !fileExist(cfgPath) {
			err := os.MkdirAll(repoRoot, 0755)
			if err != nil {
				return nil, errors.Wrap(err, "failed to build default config")
			}

			if err := writeConfigWithEnv(cfgPath, genesis); err != nil {
				return nil, errors.Wrap(err, "failed to build default genesis config")
			}
		} else {
			if err := CheckWritable(repoRoot); err != nil {
				return nil, err
			}
			if err := readConfigFromFile(cfgPath, genesis); err != nil {
				return nil, err
			}
		}

		if err := genesis.Check(); err != nil {
			return nil, err
		}
		return genesis, nil
	}()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load genesis config")
	}
	return genesis, nil
}
