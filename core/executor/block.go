package executor

import (
	"fmt"
	"sync"
	"time"

	"github.com/XDagger/xdagj-sub001/core/state"
	"github.com/XDagger/xdagj-sub001/core/types"
	"github.com/XDagger/xdagj-sub001/crypto"
)

// ExecutionResult contains the result of block execution.
type ExecutionResult struct {
	BlockNumber uint64

	// Execution results
	ReceiptRoot types.Hash
	GasUsed     uint64
	Receipts    types.Receipts
	Logs        []*types.Log

	// Timing
	ExecutionTime time.Duration

	// Transactions skipped by validation
	FailedTxs []FailedTx
}

// FailedTx represents a transaction that was not executed.
type FailedTx struct {
	Index uint
	Hash  types.Hash
	Error string
}

// BlockExecutor runs the transactions of a block in order.
type BlockExecutor struct {
	env *Env

	// Execution metrics
	totalExecuted uint64
	totalFailed   uint64

	mu sync.Mutex
}

// NewBlockExecutor creates a block executor for env.
func NewBlockExecutor(env *Env) *BlockExecutor {
	return &BlockExecutor{env: env}
}

// Execute runs txs against repo. Transactions failing validation are skipped
// and reported; the state changes of the others are committed into repo.
func (be *BlockExecutor) Execute(txs types.Transactions, repo state.Repository) (*ExecutionResult, error) {
	be.mu.Lock()
	defer be.mu.Unlock()

	start := time.Now()

	result := &ExecutionResult{
		BlockNumber: be.env.Block.Number,
		Receipts:    make(types.Receipts, 0, len(txs)),
		Logs:        make([]*types.Log, 0),
		FailedTxs:   make([]FailedTx, 0),
	}

	track := repo.StartTracking()
	for i, tx := range txs {
		receipt, err := NewTransactionExecutor(be.env, tx, track, result.GasUsed).Execute()
		if err != nil {
			result.FailedTxs = append(result.FailedTxs, FailedTx{
				Index: uint(i),
				Hash:  tx.Hash(),
				Error: err.Error(),
			})
			be.totalFailed++
			continue
		}

		result.GasUsed += receipt.GasUsed
		result.Receipts = append(result.Receipts, receipt)
		result.Logs = append(result.Logs, receipt.Logs...)
		be.totalExecuted++
	}

	if err := track.Commit(); err != nil {
		track.Rollback()
		return nil, fmt.Errorf("failed to commit state: %w", err)
	}

	result.ReceiptRoot = ReceiptRoot(result.Receipts)
	result.ExecutionTime = time.Since(start)

	logger.Debug("Block executed", "number", result.BlockNumber, "txs", len(result.Receipts),
		"skipped", len(result.FailedTxs), "gasUsed", result.GasUsed, "elapsed", result.ExecutionTime)
	return result, nil
}

// ReceiptRoot computes the Merkle root of receipt hashes.
func ReceiptRoot(receipts types.Receipts) types.Hash {
	hashes := make([][32]byte, len(receipts))
	for i, r := range receipts {
		hashes[i] = r.Hash()
	}
	return crypto.MerkleRoot(hashes)
}

// GetTotalExecuted returns the total number of executed transactions.
func (be *BlockExecutor) GetTotalExecuted() uint64 {
	be.mu.Lock()
	defer be.mu.Unlock()
	return be.totalExecuted
}

// GetTotalFailed returns the total number of skipped transactions.
func (be *BlockExecutor) GetTotalFailed() uint64 {
	be.mu.Lock()
	defer be.mu.Unlock()
	return be.totalFailed
}
