package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/XDagger/xdagj-sub001/config"
	"github.com/XDagger/xdagj-sub001/core/evm"
	"github.com/XDagger/xdagj-sub001/core/executor"
	"github.com/XDagger/xdagj-sub001/core/state"
	"github.com/XDagger/xdagj-sub001/core/types"
	"github.com/XDagger/xdagj-sub001/crypto"
	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
)

var (
	senderAddr   = types.HexToAddress("0x00000000000000000000000000000000000000a0")
	receiverAddr = types.HexToAddress("0x00000000000000000000000000000000000000b0")
	coinbaseAddr = types.HexToAddress("0x00000000000000000000000000000000000000c0")
)

var errNoCode = errors.New("no code given")

// RunOptions describes one invocation.
type RunOptions struct {
	Code   []byte
	Input  []byte
	Gas    uint64
	Value  uint64
	Create bool
	Number uint64
	Stats  bool
}

// Runner executes a single invocation against a fresh in-memory state.
type Runner struct {
	config *config.Config
	opts   RunOptions

	repo   *state.MemoryRepository
	blocks *state.MemoryBlockStore
	env    *executor.Env
	tracer *evm.StatsTracer

	logger log.Logger
}

// NewRunner funds the sender, installs the code and builds the execution
// environment.
func NewRunner(cfg *config.Config, opts RunOptions) (*Runner, error) {
	if len(opts.Code) == 0 {
		return nil, errNoCode
	}

	r := &Runner{
		config: cfg,
		opts:   opts,
		repo:   state.NewMemoryRepository(),
		blocks: state.NewMemoryBlockStore(),
		logger: log.New("module", "xdagvm"),
	}

	// Recent block hashes for BLOCKHASH.
	start := uint64(0)
	if opts.Number > 256 {
		start = opts.Number - 256
	}
	for n := start; n < opts.Number; n++ {
		r.blocks.AddBlockHash(n, syntheticBlockHash(n))
	}

	block := types.BlockContext{
		Coinbase:   coinbaseAddr,
		Number:     opts.Number,
		Timestamp:  uint64(time.Now().Unix()),
		Difficulty: types.WordFromUint64(1),
		GasLimit:   cfg.Executor.BlockGasLimit,
	}
	if block.GasLimit < opts.Gas {
		block.GasLimit = opts.Gas
	}

	env, err := executor.NewEnv(cfg, block, r.blocks)
	if err != nil {
		return nil, fmt.Errorf("failed to build environment: %w", err)
	}
	if opts.Stats {
		r.tracer = evm.NewStatsTracer()
		env.VM.Tracer = r.tracer
	}
	r.env = env

	funds := types.WordFromUint64(opts.Gas).Add(types.WordFromUint64(opts.Value))
	r.repo.AddBalance(senderAddr, funds)
	if !opts.Create {
		r.repo.SaveCode(receiverAddr, opts.Code)
	}
	return r, nil
}

// Run executes the invocation and returns its receipt.
func (r *Runner) Run() (*types.Receipt, error) {
	tx := r.transaction()
	r.logger.Debug("Running", "create", r.opts.Create, "gas", r.opts.Gas, "code", len(r.opts.Code), "fork", r.env.Spec.Name)

	start := time.Now()
	receipt, err := executor.NewTransactionExecutor(r.env, tx, r.repo, 0).Execute()
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Finished", "gasUsed", receipt.GasUsed, "elapsed", time.Since(start))
	return receipt, nil
}

func (r *Runner) transaction() *types.Transaction {
	value := types.WordFromUint64(r.opts.Value)
	if r.opts.Create {
		return types.NewContractCreation(senderAddr, 0, value, r.opts.Gas, types.OneWord, r.opts.Code)
	}
	return types.NewTransaction(senderAddr, 0, receiverAddr, value, r.opts.Gas, types.OneWord, r.opts.Input)
}

// Repository exposes the post-execution state.
func (r *Runner) Repository() state.Repository {
	return r.repo
}

// WriteStats writes the per-opcode summary when stats were requested.
func (r *Runner) WriteStats(w io.Writer) {
	if r.tracer != nil {
		r.tracer.WriteSummary(w)
	}
}

// printReceipt writes a short human-readable receipt.
func printReceipt(w io.Writer, receipt *types.Receipt) {
	fmt.Fprintf(w, "success:   %v\n", receipt.Success)
	fmt.Fprintf(w, "gas used:  %d\n", receipt.GasUsed)
	if receipt.Refund > 0 {
		fmt.Fprintf(w, "refund:    %d\n", receipt.Refund)
	}
	fmt.Fprintf(w, "return:    %s\n", hexutil.Encode(receipt.ReturnData))
	if receipt.ContractAddress != types.EmptyAddress {
		fmt.Fprintf(w, "contract:  %s\n", receipt.ContractAddress)
	}
	if receipt.Reverted {
		fmt.Fprintln(w, "reverted:  true")
	}
	if receipt.Err != "" {
		fmt.Fprintf(w, "error:     %s (%s)\n", receipt.Err, receipt.Exception)
	}
	for i, l := range receipt.Logs {
		fmt.Fprintf(w, "log %d:     %s\n", i, l)
	}
}

// dumpReceipt writes every receipt field.
func dumpReceipt(w io.Writer, receipt *types.Receipt) {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	cfg.Fdump(w, receipt)
}

func syntheticBlockHash(n uint64) types.Hash {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	return types.Hash(crypto.Keccak256(buf[:]))
}
