// Package executor runs transactions against a repository and produces
// receipts.
package executor

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/XDagger/xdagj-sub001/config"
	"github.com/XDagger/xdagj-sub001/core/evm"
	"github.com/XDagger/xdagj-sub001/core/state"
	"github.com/XDagger/xdagj-sub001/core/types"
	"github.com/XDagger/xdagj-sub001/crypto"
	"github.com/ethereum/go-ethereum/log"
)

var logger = log.New("module", "executor")

// Validity errors. A transaction failing one of these checks is not
// executed and yields no receipt.
var (
	ErrBlockGasLimitReached = errors.New("block gas limit reached")
	ErrIntrinsicGas         = errors.New("intrinsic gas too low")
	ErrNonceMismatch        = errors.New("nonce mismatch")
	ErrInsufficientFunds    = errors.New("insufficient funds for gas * price + value")
)

// Env is what the chain supplies for executing the transactions of a block.
type Env struct {
	Spec   *evm.Spec
	Config *config.ExecutorConfig
	Block  types.BlockContext
	Blocks state.BlockStore

	// VM holds optional engine settings such as a tracer.
	VM *evm.Config
}

// NewEnv builds an environment from cfg for the given block.
func NewEnv(cfg *config.Config, block types.BlockContext, blocks state.BlockStore) (*Env, error) {
	spec, err := evm.NewSpec(cfg)
	if err != nil {
		return nil, err
	}
	if block.GasLimit == 0 {
		block.GasLimit = cfg.Executor.BlockGasLimit
	}
	return &Env{
		Spec:   spec,
		Config: cfg.Executor,
		Block:  block,
		Blocks: blocks,
		VM:     &evm.Config{Codes: evm.NewCodeCache(cfg.VM.AnalysisCacheSize)},
	}, nil
}

// TransactionExecutor runs one transaction. It is not safe for concurrent
// use, and no other writer may use the repository while it runs.
type TransactionExecutor struct {
	env          *Env
	tx           *types.Transaction
	repo         state.Repository
	blockGasUsed uint64

	intrinsic uint64
}

// NewTransactionExecutor creates an executor for tx. blockGasUsed is the gas
// already consumed by earlier transactions of the block.
func NewTransactionExecutor(env *Env, tx *types.Transaction, repo state.Repository, blockGasUsed uint64) *TransactionExecutor {
	return &TransactionExecutor{
		env:          env,
		tx:           tx,
		repo:         repo,
		blockGasUsed: blockGasUsed,
		intrinsic:    env.Spec.TransactionCost(tx.IsContractCreation(), tx.Data()),
	}
}

// Prepare checks that the transaction may be executed. It does not modify
// the repository.
func (e *TransactionExecutor) Prepare() error {
	tx := e.tx
	if limit := e.env.Block.GasLimit; e.blockGasUsed+tx.Gas() > limit {
		return fmt.Errorf("%w: used %d + gas %d > limit %d", ErrBlockGasLimitReached, e.blockGasUsed, tx.Gas(), limit)
	}
	if tx.Gas() < e.intrinsic {
		return fmt.Errorf("%w: have %d, want %d", ErrIntrinsicGas, tx.Gas(), e.intrinsic)
	}
	if nonce := e.repo.GetNonce(tx.From()); nonce != tx.Nonce() {
		return fmt.Errorf("%w: state %d, tx %d", ErrNonceMismatch, nonce, tx.Nonce())
	}

	cost := new(big.Int).Mul(tx.GasPrice().Big(), new(big.Int).SetUint64(tx.Gas()))
	cost.Add(cost, tx.Value().Big())
	if balance := e.repo.GetBalance(tx.From()).Big(); balance.Cmp(cost) < 0 {
		return fmt.Errorf("%w: address %s have %s want %s", ErrInsufficientFunds, tx.From(), balance, cost)
	}
	return nil
}

// Execute validates and runs the transaction and returns its receipt. A
// validity error leaves the repository untouched and returns no receipt;
// execution failures are reported in the receipt.
func (e *TransactionExecutor) Execute() (*types.Receipt, error) {
	if err := e.Prepare(); err != nil {
		logger.Warn("Transaction rejected", "hash", e.tx.Hash(), "err", err)
		return nil, err
	}
	tx := e.tx
	sender := tx.From()
	gasPrice := tx.GasPrice()

	txTrack := e.repo.StartTracking()
	txTrack.SubBalance(sender, gasPrice.Mul(types.WordFromUint64(tx.Gas())))
	txTrack.IncreaseNonce(sender)

	vm := evm.NewEVM(e.env.Spec, evm.Context{
		Block:    e.env.Block,
		Blocks:   e.env.Blocks,
		Original: e.repo,
	}, e.env.VM)

	invoke := evm.Invoke{
		Origin:   sender,
		Caller:   sender,
		Value:    tx.Value(),
		GasPrice: gasPrice,
		Data:     tx.Data(),
		Gas:      tx.Gas() - e.intrinsic,
	}

	execTrack := txTrack.StartTracking()
	var (
		result   *evm.ProgramResult
		contract types.Address
	)
	if tx.IsContractCreation() {
		contract = crypto.CreateAddress(sender, tx.Nonce())
		result = e.create(vm, execTrack, contract, invoke)
	} else {
		invoke.Owner = tx.To()
		state.Transfer(execTrack, sender, tx.To(), tx.Value())
		result = vm.CallContract(execTrack, tx.To(), invoke)
	}

	gasLeft := result.GasLeft
	if result.Err != nil {
		gasLeft = 0
	}
	gasUsed := tx.Gas() - gasLeft

	receipt := &types.Receipt{
		TxHash:               tx.Hash(),
		Success:              !result.Failed(),
		Reverted:             result.Reverted,
		ReturnData:           result.ReturnData,
		Exception:            result.Kind(),
		InternalTransactions: result.InternalTxs,
	}
	if result.Err != nil {
		receipt.Err = result.Err.Error()
	}

	if result.Failed() {
		execTrack.Rollback()
		for _, itx := range result.InternalTxs {
			itx.Reject()
		}
		logger.Debug("Transaction failed", "hash", tx.Hash(), "reverted", result.Reverted, "err", result.Err)
	} else {
		for _, addr := range result.DeletedAccounts {
			execTrack.Delete(addr)
		}
		if err := execTrack.Commit(); err != nil {
			txTrack.Rollback()
			return nil, fmt.Errorf("commit execution checkpoint: %w", err)
		}
		refund := e.refund(result, gasUsed)
		gasLeft += refund
		gasUsed -= refund

		receipt.Refund = refund
		receipt.Logs = result.Logs
		receipt.DeletedAccounts = result.DeletedAccounts
		if tx.IsContractCreation() {
			receipt.ContractAddress = contract
		}
	}

	txTrack.AddBalance(sender, gasPrice.Mul(types.WordFromUint64(gasLeft)))
	txTrack.AddBalance(e.env.Block.Coinbase, gasPrice.Mul(types.WordFromUint64(gasUsed)))
	if err := txTrack.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction checkpoint: %w", err)
	}

	receipt.GasUsed = gasUsed
	receipt.CumulativeGasUsed = e.blockGasUsed + gasUsed
	logger.Trace("Transaction executed", "hash", tx.Hash(), "gasUsed", gasUsed, "success", receipt.Success)
	return receipt, nil
}

// create deploys the contract of a creation transaction at addr.
func (e *TransactionExecutor) create(vm *evm.EVM, track state.Repository, addr types.Address, invoke evm.Invoke) *evm.ProgramResult {
	if track.GetNonce(addr) != 0 || len(track.GetCode(addr)) > 0 {
		return &evm.ProgramResult{Err: fmt.Errorf("%w: %s", evm.ErrAddressCollision, addr)}
	}
	track.IncreaseNonce(addr)
	state.Transfer(track, invoke.Caller, addr, invoke.Value)
	return vm.CreateContract(track, addr, e.tx.Data(), invoke)
}

// refund returns the gas given back for storage clearing and suicides,
// capped at gasUsed/RefundQuotient.
func (e *TransactionExecutor) refund(result *evm.ProgramResult, gasUsed uint64) uint64 {
	var refund uint64
	if result.FutureRefund > 0 {
		refund = uint64(result.FutureRefund)
	}
	refund += uint64(len(result.DeletedAccounts)) * e.env.Spec.Fees.SuicideRefund
	if limit := gasUsed / e.env.Config.RefundQuotient; refund > limit {
		refund = limit
	}
	return refund
}
