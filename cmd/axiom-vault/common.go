package main

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/axiomesh/axiom-vault/internal/app"
	"github.com/axiomesh/axiom-vault/internal/executor/system/reentrant"
	"github.com/axiomesh/axiom-vault/internal/executor/system/vault"
	"github.com/axiomesh/axiom-vault/pkg/loggers"
	"github.com/axiomesh/axiom-vault/pkg/repo"
	"github.com/axiomesh/axiom-vault/pkg/types"
)

var contractABIs = lo.Map([]string{vault.ABI, reentrant.ABI}, func(raw string, _ int) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
})

func fromFlag(defaultIndex int) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "from",
		Aliases:  []string{"f"},
		Usage:    "sender account address",
		Value:    repo.DefaultAccounts[defaultIndex],
		Required: false,
	}
}

func amountFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "amount",
		Aliases:  []string{"a"},
		Usage:    "amount in wei",
		Required: required,
	}
}

func fileExist(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func getRootPath(ctx *cli.Context) (string, error) {
	p := ctx.String("repo")

	var err error
	if p == "" {
		p, err = repo.LoadRepoRootFromEnv(p)
		if err != nil {
			return "", err
		}
	}
	return p, nil
}

// prepareApp opens the local ledger of the repo, the caller must Stop the returned app
func prepareApp(ctx *cli.Context, offline bool) (*app.AxiomVault, error) {
	p, err := getRootPath(ctx)
	if err != nil {
		return nil, err
	}
	if !fileExist(filepath.Join(p, repo.CfgFileName)) {
		return nil, errors.New("axiom-vault repo not exist, please execute 'config generate' first")
	}

	r, err := repo.Load(p)
	if err != nil {
		return nil, err
	}

	// close monitor in offline mode
	if offline {
		r.Config.Monitor.Enable = false
	}

	if err := loggers.Initialize(r, !offline); err != nil {
		return nil, err
	}

	appCtx, cancel := context.WithCancel(ctx.Context)
	axm, err := app.NewAxiomVault(r, appCtx, cancel)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("init axiom-vault failed: %w", err)
	}
	return axm, nil
}

func parseAddress(s string) (ethcommon.Address, error) {
	if !ethcommon.IsHexAddress(s) {
		return ethcommon.Address{}, errors.Errorf("invalid address: %s", s)
	}
	return ethcommon.HexToAddress(s), nil
}

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok || amount.Sign() < 0 {
		return nil, errors.Errorf("invalid amount: %s", s)
	}
	return amount, nil
}

func sendTx(axm *app.AxiomVault, from, to ethcommon.Address, value *big.Int, method string, args ...any) (*types.Receipt, error) {
	data, err := axm.BlockExecutor.PackInput(to, method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s input", method)
	}
	receipt, err := axm.SendTransaction(types.NewTransaction(from, &to, 0, value, data))
	if err != nil {
		return nil, errors.Wrapf(err, "send %s tx", method)
	}
	return receipt, nil
}

func callView(axm *app.AxiomVault, to ethcommon.Address, method string, args ...any) ([]any, error) {
	data, err := axm.BlockExecutor.PackInput(to, method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s input", method)
	}
	receipt := axm.Call(types.NewTransaction(ethcommon.Address{}, &to, 0, nil, data))
	if !receipt.IsSuccess() {
		return nil, errors.Wrapf(receipt.Err, "call %s", method)
	}
	return axm.BlockExecutor.UnpackOutput(to, method, receipt.Ret)
}

func printReceipt(receipt *types.Receipt) {
	fmt.Printf("tx hash: %s\n", receipt.TxHash.Hex())
	fmt.Printf("height: %d\n", receipt.Height)
	fmt.Printf("status: %s\n", receipt.Status)
	fmt.Printf("gas used: %d\n", receipt.GasUsed)
	if receipt.IsSuccess() {
		if len(receipt.Ret) > 0 {
			fmt.Printf("return: %s\n", hexutil.Encode(receipt.Ret))
		}
	} else {
		fmt.Printf("error: %s\n", receipt.Err)
		if len(receipt.RevertData) > 0 {
			fmt.Printf("revert: %s\n", decodeRevert(receipt.RevertData))
		}
	}
	for _, log := range receipt.EvmLogs {
		fmt.Printf("event: %s\n", decodeLog(log))
	}
}

func decodeRevert(data []byte) string {
	if len(data) >= 4 {
		for _, contractABI := range contractABIs {
			for _, abiErr := range contractABI.Errors {
				if !bytes.Equal(abiErr.ID.Bytes()[:4], data[:4]) {
					continue
				}
				values, err := abiErr.Inputs.Unpack(data[4:])
				if err != nil {
					break
				}
				return formatArgs(abiErr.Name, abiErr.Inputs, values)
			}
		}
	}
	return hexutil.Encode(data)
}

func decodeLog(log *types.EvmLog) string {
	if len(log.Topics) > 0 {
		for _, contractABI := range contractABIs {
			event, err := contractABI.EventByID(log.Topics[0])
			if err != nil {
				continue
			}
			values, err := event.Inputs.Unpack(log.Data)
			if err != nil {
				break
			}
			// indexed inputs of the contract events are all addresses
			var all []any
			topicIdx := 1
			for _, input := range event.Inputs {
				if input.Indexed {
					if topicIdx < len(log.Topics) {
						all = append(all, ethcommon.BytesToAddress(log.Topics[topicIdx].Bytes()))
					}
					topicIdx++
					continue
				}
				if len(values) > 0 {
					all = append(all, values[0])
					values = values[1:]
				}
			}
			return formatArgs(event.Name, event.Inputs, all)
		}
	}
	return fmt.Sprintf("%s %s", log.Address, hexutil.Encode(log.Data))
}

func formatArgs(name string, inputs abi.Arguments, values []any) string {
	parts := make([]string, 0, len(values))
	for i, v := range values {
		if i < len(inputs) {
			parts = append(parts, fmt.Sprintf("%s=%v", inputs[i].Name, v))
		}
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}
