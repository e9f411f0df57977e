package main

import (
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"

	"github.com/axiomesh/axiom-vault/internal/app"
	"github.com/axiomesh/axiom-vault/internal/executor/system/common"
	"github.com/axiomesh/axiom-vault/internal/executor/system/vault"
)

var vaultAddr = ethcommon.HexToAddress(common.VaultContractAddr)

var vaultCMD = &cli.Command{
	Name:  "vault",
	Usage: "The vault contract commands",
	Subcommands: []*cli.Command{
		{
			Name:   "init",
			Usage:  "Initialize the reentrancy guard of the vault, reverts once it is initialized",
			Action: vaultInit,
			Flags:  []cli.Flag{fromFlag(0)},
		},
		{
			Name:   "deposit",
			Usage:  "Deposit amount into the vault",
			Action: vaultDeposit,
			Flags:  []cli.Flag{fromFlag(0), amountFlag(true)},
		},
		{
			Name:   "withdraw",
			Usage:  "Withdraw amount from the vault through the guarded path",
			Action: vaultWithdraw(vault.WithdrawMethod),
			Flags:  []cli.Flag{fromFlag(0), amountFlag(true)},
		},
		{
			Name:   "withdraw-unsafe",
			Usage:  "Withdraw amount from the vault through the unguarded path",
			Action: vaultWithdraw(vault.WithdrawUnsafeMethod),
			Flags:  []cli.Flag{fromFlag(0), amountFlag(true)},
		},
		{
			Name:   "balance",
			Usage:  "Show the vault balance and the account balance of an account",
			Action: vaultBalance,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "account",
					Usage:    "account address",
					Value:    "",
					Required: false,
				},
			},
		},
	},
}

func withApp(ctx *cli.Context, fn func(axm *app.AxiomVault) error) error {
	axm, err := prepareApp(ctx, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := axm.Stop(); err != nil {
			fmt.Println(err)
		}
	}()
	return fn(axm)
}

func vaultInit(ctx *cli.Context) error {
	from, err := parseAddress(ctx.String("from"))
	if err != nil {
		return err
	}
	return withApp(ctx, func(axm *app.AxiomVault) error {
		receipt, err := sendTx(axm, from, vaultAddr, nil, vault.InitMethod)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	})
}

func vaultDeposit(ctx *cli.Context) error {
	from, err := parseAddress(ctx.String("from"))
	if err != nil {
		return err
	}
	amount, err := parseAmount(ctx.String("amount"))
	if err != nil {
		return err
	}
	return withApp(ctx, func(axm *app.AxiomVault) error {
		receipt, err := sendTx(axm, from, vaultAddr, amount, vault.DepositMethod)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	})
}

func vaultWithdraw(method string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		from, err := parseAddress(ctx.String("from"))
		if err != nil {
			return err
		}
		amount, err := parseAmount(ctx.String("amount"))
		if err != nil {
			return err
		}
		return withApp(ctx, func(axm *app.AxiomVault) error {
			receipt, err := sendTx(axm, from, vaultAddr, nil, method, amount)
			if err != nil {
				return err
			}
			printReceipt(receipt)
			return nil
		})
	}
}

func vaultBalance(ctx *cli.Context) error {
	var account *ethcommon.Address
	if ctx.String("account") != "" {
		addr, err := parseAddress(ctx.String("account"))
		if err != nil {
			return err
		}
		account = &addr
	}
	return withApp(ctx, func(axm *app.AxiomVault) error {
		fmt.Printf("vault: %s\n", axm.Ledger.StateLedger.GetBalance(vaultAddr))
		entered, err := callView(axm, vaultAddr, vault.IsEnteredMethod)
		if err != nil {
			return err
		}
		fmt.Printf("guard entered: %v\n", entered[0])
		if account == nil {
			return nil
		}

		out, err := callView(axm, vaultAddr, vault.GetBalanceMethod, *account)
		if err != nil {
			return err
		}
		fmt.Printf("%s deposited: %s\n", account, out[0].(*big.Int))
		fmt.Printf("%s balance: %s\n", account, axm.Ledger.StateLedger.GetBalance(*account))
		return nil
	})
}
