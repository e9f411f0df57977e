package system

import (
	"bytes"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-vault/internal/executor/system/common"
	"github.com/axiomesh/axiom-vault/internal/executor/system/reentrant"
	"github.com/axiomesh/axiom-vault/internal/executor/system/vault"
	"github.com/axiomesh/axiom-vault/internal/ledger"
	"github.com/axiomesh/axiom-vault/pkg/loggers"
	"github.com/axiomesh/axiom-vault/pkg/repo"
	"github.com/axiomesh/axiom-vault/pkg/types"
)

var (
	ErrNotExistSystemContract         = errors.New("not exist this system contract")
	ErrNotExistMethodName             = errors.New("not exist method name of this system contract")
	ErrNotExistSystemContractABI      = errors.New("not exist this system contract abi")
	ErrNotImplementFuncSystemContract = errors.New("not implement the function for this system contract")
	ErrNonPayable                     = errors.New("value sent to non payable method")
	ErrDepth                          = errors.New("max call depth exceeded")
)

var (
	_ common.VirtualMachine = (*NativeVM)(nil)
	_ common.Host           = (*NativeVM)(nil)
)

// NativeVM handle abi decoding for parameters and abi encoding for return data.
// Contracts call each other through NativeVM.Call, every call runs in its own frame
// which is reverted alone when it fails.
type NativeVM struct {
	logger        logrus.FieldLogger
	maxCallDepth  int
	stateLedger   ledger.StateLedger
	currentLogs   []*types.EvmLog
	currentHeight uint64
	from          ethcommon.Address
	to            *ethcommon.Address
	value         *big.Int
	depth         int

	// contract address mapping to the contexts of its running frames, the last one is active
	contextStack map[ethcommon.Address][]*common.VMContext

	// contract address mapping to method signature
	contract2MethodSig map[ethcommon.Address]map[string][]byte
	// contract address mapping to contract abi
	contract2ABI map[ethcommon.Address]abi.ABI
	// contract address mapping to contact instance
	contract2Instance map[ethcommon.Address]common.SystemContract
}

func New(maxCallDepth int) *NativeVM {
	if maxCallDepth <= 0 {
		maxCallDepth = repo.DefaultMaxCallDepth
	}
	nvm := &NativeVM{
		logger:             loggers.Logger(loggers.SystemContract),
		maxCallDepth:       maxCallDepth,
		contextStack:       make(map[ethcommon.Address][]*common.VMContext),
		contract2MethodSig: make(map[ethcommon.Address]map[string][]byte),
		contract2ABI:       make(map[ethcommon.Address]abi.ABI),
		contract2Instance:  make(map[ethcommon.Address]common.SystemContract),
	}

	// deploy all system contract
	nvm.Deploy(common.VaultContractAddr, vault.ABI, vault.Method2Sig, vault.New(&common.SystemContractConfig{
		Logger: loggers.Logger(loggers.Vault),
	}))
	nvm.Deploy(common.ReentrantContractAddr, reentrant.ABI, reentrant.Method2Sig, reentrant.New(&common.SystemContractConfig{
		Logger: nvm.logger,
	}))

	return nvm
}

func (nvm *NativeVM) View() common.VirtualMachine {
	return &NativeVM{
		logger:             nvm.logger,
		maxCallDepth:       nvm.maxCallDepth,
		contextStack:       make(map[ethcommon.Address][]*common.VMContext),
		contract2MethodSig: nvm.contract2MethodSig,
		contract2ABI:       nvm.contract2ABI,
		contract2Instance:  nvm.contract2Instance,
	}
}

func (nvm *NativeVM) Deploy(addr string, abiFile string, method2Sig map[string]string, instance common.SystemContract) {
	// check system contract range
	if addr < common.SystemContractStartAddr || addr > common.SystemContractEndAddr {
		panic(fmt.Sprintf("this system contract %s is out of range", addr))
	}

	contractAddr := ethcommon.HexToAddress(addr)
	if _, ok := nvm.contract2Instance[contractAddr]; ok {
		panic("deploy system contract repeated")
	}
	nvm.contract2Instance[contractAddr] = instance

	contractABI, err := abi.JSON(strings.NewReader(abiFile))
	if err != nil {
		panic(err)
	}
	nvm.contract2ABI[contractAddr] = contractABI

	m2sig := make(map[string][]byte)
	for methodName, methodSig := range method2Sig {
		m2sig[methodName] = crypto.Keccak256([]byte(methodSig))
	}
	nvm.contract2MethodSig[contractAddr] = m2sig
}

func (nvm *NativeVM) Reset(currentHeight uint64, stateLedger ledger.StateLedger, from ethcommon.Address, to *ethcommon.Address, value *big.Int) {
	nvm.stateLedger = stateLedger
	nvm.currentHeight = currentHeight
	nvm.currentLogs = make([]*types.EvmLog, 0)
	nvm.from = from
	nvm.to = to
	nvm.value = value
	nvm.depth = 0
	nvm.contextStack = make(map[ethcommon.Address][]*common.VMContext)
}

// Run executes data against the contract set by Reset, a panic of any frame aborts the whole run
func (nvm *NativeVM) Run(data []byte) (execResult []byte, execErr error) {
	defer func() {
		if r := recover(); r != nil {
			nvm.logger.WithField("err", r).Error("System contract execution aborted")
			execResult = nil
			execErr = common.NewAbortError(r)
		}
		if execErr == nil {
			nvm.saveLogs()
		}
	}()

	if nvm.to == nil || !nvm.IsSystemContract(*nvm.to) {
		return nil, ErrNotExistSystemContract
	}
	return nvm.Call(nvm.from, *nvm.to, nvm.value, data)
}

// Call moves value from caller to target, then runs data on target if it is a system contract.
// Empty data is handled by the Receive hook of the contract.
func (nvm *NativeVM) Call(caller, target ethcommon.Address, value *big.Int, data []byte) ([]byte, error) {
	if nvm.depth >= nvm.maxCallDepth {
		return nil, ErrDepth
	}
	if value == nil {
		value = new(big.Int)
	}

	snapshot := nvm.stateLedger.Snapshot()
	logsLen := len(nvm.currentLogs)
	nvm.depth++
	defer func() {
		nvm.depth--
	}()

	ret, err := nvm.call(caller, target, value, data)
	if err != nil {
		nvm.stateLedger.RevertToSnapshot(snapshot)
		nvm.currentLogs = nvm.currentLogs[:logsLen]
		nvm.logger.WithFields(logrus.Fields{
			"caller": caller,
			"target": target,
			"depth":  nvm.depth,
			"err":    err,
		}).Debug("System contract call reverted")
		return nil, err
	}
	return ret, nil
}

func (nvm *NativeVM) call(caller, target ethcommon.Address, value *big.Int, data []byte) ([]byte, error) {
	if value.Sign() > 0 {
		if nvm.stateLedger.GetBalance(caller).Cmp(value) < 0 {
			return nil, common.ErrInsufficientFunds
		}
		nvm.stateLedger.SubBalance(caller, value)
		nvm.stateLedger.AddBalance(target, value)
	}

	contractInstance, ok := nvm.contract2Instance[target]
	if !ok {
		return nil, nil
	}

	nvm.pushContext(target, contractInstance, &common.VMContext{
		StateLedger:   nvm.stateLedger,
		CurrentHeight: nvm.currentHeight,
		CurrentLogs:   &nvm.currentLogs,
		From:          caller,
		Value:         value,
		Host:          nvm,
	})
	defer nvm.popContext(target, contractInstance)

	if len(data) == 0 {
		receiver, ok := contractInstance.(common.Receiver)
		if !ok {
			return nil, ErrNotImplementFuncSystemContract
		}
		return nil, receiver.Receive()
	}
	return nvm.invoke(target, contractInstance, value, data)
}

func (nvm *NativeVM) pushContext(addr ethcommon.Address, contract common.SystemContract, ctx *common.VMContext) {
	nvm.contextStack[addr] = append(nvm.contextStack[addr], ctx)
	contract.SetContext(ctx)
}

// popContext gives the contract back the context of the frame it is reentered from
func (nvm *NativeVM) popContext(addr ethcommon.Address, contract common.SystemContract) {
	stack := nvm.contextStack[addr]
	stack = stack[:len(stack)-1]
	nvm.contextStack[addr] = stack
	if len(stack) > 0 {
		contract.SetContext(stack[len(stack)-1])
	}
}

func (nvm *NativeVM) invoke(contractAddr ethcommon.Address, contractInstance common.SystemContract, value *big.Int, data []byte) ([]byte, error) {
	// get args and method, call the contract method
	methodName, err := nvm.getMethodName(contractAddr, data)
	if err != nil {
		return nil, err
	}
	if value.Sign() > 0 && nvm.contract2ABI[contractAddr].Methods[methodName].StateMutability != "payable" {
		return nil, ErrNonPayable
	}

	// method name may be withdrawUnsafe, but we implement WithdrawUnsafe
	// capitalize the first letter of a function
	funcName := methodName
	if len(methodName) >= 2 {
		funcName = fmt.Sprintf("%s%s", strings.ToUpper(methodName[:1]), methodName[1:])
	}
	nvm.logger.Debugf("run system contract method name: %s", funcName)
	method := reflect.ValueOf(contractInstance).MethodByName(funcName)
	if !method.IsValid() {
		return nil, ErrNotImplementFuncSystemContract
	}
	args, err := nvm.parseArgs(contractAddr, data, methodName)
	if err != nil {
		return nil, err
	}
	inputs := lo.Map(args, func(arg any, _ int) reflect.Value {
		return reflect.ValueOf(arg)
	})
	// maybe panic when inputs mismatch, Run recovers it
	results := method.Call(inputs)

	var returnRes []any
	var returnErr error
	for _, result := range results {
		// basic type(such as bool, number, string, can't call isNil)
		if result.CanInt() || result.CanFloat() || result.CanUint() || result.Kind() == reflect.Bool || result.Kind() == reflect.String {
			returnRes = append(returnRes, result.Interface())
			continue
		}

		if result.IsNil() {
			continue
		}
		if err, ok := result.Interface().(error); ok {
			returnErr = err
			break
		}
		returnRes = append(returnRes, result.Interface())
	}

	nvm.logger.Debugf("Contract addr: %s, method name: %s, return result: %+v, return error: %v", contractAddr, methodName, returnRes, returnErr)

	if returnErr != nil {
		return nil, returnErr
	}

	if returnRes != nil {
		return nvm.PackOutputArgs(contractAddr, methodName, returnRes...)
	}
	return nil, nil
}

// RequiredGas is the intrinsic gas of the call data
func (nvm *NativeVM) RequiredGas(input []byte) uint64 {
	return common.CalculateDynamicGas(input)
}

// getMethodName quickly returns the name of a method of specified contract.
// The method id is the first 4 bytes of the keccak256 hash of the method signature.
func (nvm *NativeVM) getMethodName(contractAddr ethcommon.Address, data []byte) (string, error) {
	if len(data) < 4 {
		return "", ErrNotExistMethodName
	}

	method2Sig, ok := nvm.contract2MethodSig[contractAddr]
	if !ok {
		return "", ErrNotExistSystemContract
	}

	for methodName, methodSig := range method2Sig {
		id := methodSig[:4]
		if bytes.Equal(id, data[:4]) {
			return methodName, nil
		}
	}

	return "", ErrNotExistMethodName
}

// parseArgs parse the arguments to specified interface by method name
func (nvm *NativeVM) parseArgs(contractAddr ethcommon.Address, data []byte, methodName string) ([]any, error) {
	if len(data) < 4 {
		return nil, errors.Errorf("msg data length is not improperly formatted: %q - Bytes: %+v", data, data)
	}

	// discard method id
	msgData := data[4:]

	contractABI, ok := nvm.contract2ABI[contractAddr]
	if !ok {
		return nil, ErrNotExistSystemContractABI
	}

	var args abi.Arguments
	if method, ok := contractABI.Methods[methodName]; ok {
		if len(msgData)%32 != 0 {
			return nil, errors.Errorf("system contract abi: improperly formatted output: %q - Bytes: %+v", msgData, msgData)
		}
		args = method.Inputs
	}

	if args == nil {
		return nil, errors.Errorf("system contract abi: could not locate named method: %s", methodName)
	}

	return args.Unpack(msgData)
}

// PackInput pack the call data of method with args
func (nvm *NativeVM) PackInput(contractAddr ethcommon.Address, methodName string, args ...any) ([]byte, error) {
	contractABI, ok := nvm.contract2ABI[contractAddr]
	if !ok {
		return nil, ErrNotExistSystemContractABI
	}
	return contractABI.Pack(methodName, args...)
}

// PackOutputArgs pack the output arguments by method name
func (nvm *NativeVM) PackOutputArgs(contractAddr ethcommon.Address, methodName string, outputArgs ...any) ([]byte, error) {
	contractABI, ok := nvm.contract2ABI[contractAddr]
	if !ok {
		return nil, ErrNotExistSystemContractABI
	}

	var args abi.Arguments
	if method, ok := contractABI.Methods[methodName]; ok {
		args = method.Outputs
	}

	if args == nil {
		return nil, errors.Errorf("system contract abi: could not locate named method: %s", methodName)
	}

	return args.Pack(outputArgs...)
}

// UnpackOutputArgs unpack the output arguments by method name
func (nvm *NativeVM) UnpackOutputArgs(contractAddr ethcommon.Address, methodName string, packed []byte) ([]any, error) {
	contractABI, ok := nvm.contract2ABI[contractAddr]
	if !ok {
		return nil, ErrNotExistSystemContractABI
	}

	var args abi.Arguments
	if method, ok := contractABI.Methods[methodName]; ok {
		args = method.Outputs
	}

	if args == nil {
		return nil, errors.Errorf("system contract abi: could not locate named method: %s", methodName)
	}

	return args.Unpack(packed)
}

// saveLogs save all logs during the system execution
func (nvm *NativeVM) saveLogs() {
	nvm.logger.Debugf("logs: %+v", nvm.currentLogs)

	for _, currentLog := range nvm.currentLogs {
		nvm.stateLedger.AddLog(currentLog)
	}
}

// IsSystemContract judge if it is system contract
// return true if system contract, false if not
func (nvm *NativeVM) IsSystemContract(addr ethcommon.Address) bool {
	_, ok := nvm.contract2Instance[addr]
	return ok
}

func (nvm *NativeVM) GetContractInstance(addr ethcommon.Address) common.SystemContract {
	return nvm.contract2Instance[addr]
}

func RunAxiomNativeVM(nvm common.VirtualMachine, height uint64, ledger ledger.StateLedger, data []byte, from ethcommon.Address, to *ethcommon.Address, value *big.Int) *core.ExecutionResult {
	nvm.Reset(height, ledger, from, to, value)
	usedGas := nvm.RequiredGas(data)
	returnData, err := nvm.Run(data)
	return &core.ExecutionResult{
		UsedGas:    usedGas,
		Err:        err,
		ReturnData: returnData,
	}
}

// InitGenesisData funds the genesis accounts and initializes every system contract
func (nvm *NativeVM) InitGenesisData(genesis *repo.GenesisConfig, lg ledger.StateLedger) error {
	for _, account := range genesis.Accounts {
		balance, err := account.BalanceValue()
		if err != nil {
			return err
		}
		lg.SetBalance(ethcommon.HexToAddress(account.Address), balance)
	}

	addrs := lo.Keys(nvm.contract2Instance)
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i].Bytes(), addrs[j].Bytes()) < 0
	})
	for _, addr := range addrs {
		var logs []*types.EvmLog
		contract := nvm.contract2Instance[addr]
		contract.SetContext(&common.VMContext{
			StateLedger: lg,
			CurrentLogs: &logs,
			Value:       new(big.Int),
			Host:        nvm,
		})
		if err := contract.GenesisInit(genesis); err != nil {
			return errors.Wrapf(err, "init system contract %s", addr)
		}
	}
	return nil
}
