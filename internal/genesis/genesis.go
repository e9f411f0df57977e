package genesis

import (
	"encoding/json"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/axiomesh/axiom-vault/internal/executor/system"
	"github.com/axiomesh/axiom-vault/internal/executor/system/common"
	"github.com/axiomesh/axiom-vault/internal/ledger"
	"github.com/axiomesh/axiom-vault/pkg/repo"
)

var (
	genesisConfigKey = []byte("genesis_cfg")
)

// Initialize writes the genesis config, funds the genesis accounts and initializes the system contracts
func Initialize(genesis *repo.GenesisConfig, nvm *system.NativeVM, lg *ledger.Ledger) error {
	if err := initializeGenesisConfig(genesis, lg.StateLedger); err != nil {
		return err
	}

	if err := nvm.InitGenesisData(genesis, lg.StateLedger); err != nil {
		return err
	}
	lg.StateLedger.Finalise()

	return lg.StateLedger.Commit()
}

func IsInitialized(lg *ledger.Ledger) bool {
	account := lg.StateLedger.GetAccount(ethcommon.HexToAddress(common.ZeroAddress))
	if account == nil {
		return false
	}
	exists, _ := account.GetState(genesisConfigKey)
	return exists
}

func initializeGenesisConfig(genesis *repo.GenesisConfig, lg ledger.StateLedger) error {
	account := lg.GetOrCreateAccount(ethcommon.HexToAddress(common.ZeroAddress))

	genesisCfg, err := json.Marshal(genesis)
	if err != nil {
		return errors.Wrap(err, "marshal genesis config")
	}
	account.SetState(genesisConfigKey, genesisCfg)
	return nil
}

// GetGenesisConfig retrieves the genesis configuration from the given ledger.
func GetGenesisConfig(lg *ledger.Ledger) (*repo.GenesisConfig, error) {
	account := lg.StateLedger.GetAccount(ethcommon.HexToAddress(common.ZeroAddress))
	if account == nil {
		return nil, nil
	}

	state, bytes := account.GetState(genesisConfigKey)
	if !state {
		return nil, nil
	}

	genesis := &repo.GenesisConfig{}
	err := json.Unmarshal(bytes, genesis)
	if err != nil {
		return nil, err
	}

	return genesis, nil
}
