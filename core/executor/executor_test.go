package executor

import (
	"testing"

	"github.com/XDagger/xdagj-sub001/config"
	"github.com/XDagger/xdagj-sub001/core/evm/asm"
	"github.com/XDagger/xdagj-sub001/core/state"
	"github.com/XDagger/xdagj-sub001/core/types"
	"github.com/XDagger/xdagj-sub001/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sender    = types.HexToAddress("0x1000000000000000000000000000000000000001")
	recipient = types.HexToAddress("0x2000000000000000000000000000000000000002")
	coinbase  = types.HexToAddress("0x3000000000000000000000000000000000000003")
)

const startBalance = 1_000_000

func newTestEnv(t *testing.T) *Env {
	env, err := NewEnv(config.DefaultConfig(), types.BlockContext{Coinbase: coinbase, Number: 1}, state.NewMemoryBlockStore())
	require.NoError(t, err)
	return env
}

func newTestRepo() *state.MemoryRepository {
	repo := state.NewMemoryRepository()
	repo.AddBalance(sender, types.WordFromUint64(startBalance))
	return repo
}

func call(nonce uint64, to types.Address, value, gas uint64, data []byte) *types.Transaction {
	return types.NewTransaction(sender, nonce, to, types.WordFromUint64(value), gas, types.OneWord, data)
}

func balance(repo state.Repository, addr types.Address) uint64 {
	return repo.GetBalance(addr).Uint64()
}

func TestNewEnv(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, uint64(8_000_000), env.Block.GasLimit)
	assert.Equal(t, "constantinople", env.Spec.Name)
	assert.NotNil(t, env.VM.Codes)

	cfg := config.DefaultConfig()
	cfg.Fork = "unknown"
	_, err := NewEnv(cfg, types.BlockContext{}, nil)
	assert.Error(t, err)
}

func TestExecuteValueTransfer(t *testing.T) {
	env := newTestEnv(t)
	repo := newTestRepo()

	receipt, err := NewTransactionExecutor(env, call(0, recipient, 100, 21000, nil), repo, 0).Execute()
	require.NoError(t, err)

	assert.True(t, receipt.Success)
	assert.Equal(t, uint64(21000), receipt.GasUsed)
	assert.Equal(t, uint64(21000), receipt.CumulativeGasUsed)
	assert.Equal(t, types.ExceptionNone, receipt.Exception)

	assert.Equal(t, uint64(startBalance-21000-100), balance(repo, sender))
	assert.Equal(t, uint64(100), balance(repo, recipient))
	assert.Equal(t, uint64(21000), balance(repo, coinbase))
	assert.Equal(t, uint64(1), repo.GetNonce(sender))
}

func TestPrepareRejections(t *testing.T) {
	tests := []struct {
		name string
		tx   *types.Transaction
		used uint64
		want error
	}{
		{"nonce", call(1, recipient, 0, 21000, nil), 0, ErrNonceMismatch},
		{"intrinsic gas", call(0, recipient, 0, 20999, nil), 0, ErrIntrinsicGas},
		{"intrinsic data gas", call(0, recipient, 0, 21000, []byte{1}), 0, ErrIntrinsicGas},
		{"funds", call(0, recipient, startBalance, 21000, nil), 0, ErrInsufficientFunds},
		{"block gas", call(0, recipient, 0, 21000, nil), 8_000_000 - 20000, ErrBlockGasLimitReached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			repo := newTestRepo()

			receipt, err := NewTransactionExecutor(env, tt.tx, repo, tt.used).Execute()
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, receipt)
			assert.Equal(t, uint64(0), repo.GetNonce(sender))
			assert.Equal(t, uint64(startBalance), balance(repo, sender))
		})
	}
}

func TestExecuteStorageRefundIsCapped(t *testing.T) {
	env := newTestEnv(t)
	repo := newTestRepo()
	repo.PutStorageRow(recipient, types.ZeroWord, types.OneWord)
	repo.SaveCode(recipient, asm.MustCompile("PUSH1 0x00 PUSH1 0x00 SSTORE"))

	receipt, err := NewTransactionExecutor(env, call(0, recipient, 0, 100000, nil), repo, 0).Execute()
	require.NoError(t, err)

	// 26006 used; the 15000 clear refund is capped at half of it.
	assert.True(t, receipt.Success)
	assert.Equal(t, uint64(13003), receipt.Refund)
	assert.Equal(t, uint64(13003), receipt.GasUsed)
	assert.Equal(t, uint64(startBalance-13003), balance(repo, sender))
	assert.True(t, repo.GetStorageRow(recipient, types.ZeroWord).IsZero())
}

func TestExecuteExceptionConsumesGas(t *testing.T) {
	env := newTestEnv(t)
	repo := newTestRepo()
	repo.SaveCode(recipient, asm.MustCompile("PUSH1 0x01 PUSH1 0x00 SSTORE INVALID"))

	receipt, err := NewTransactionExecutor(env, call(0, recipient, 100, 50000, nil), repo, 0).Execute()
	require.NoError(t, err)

	assert.False(t, receipt.Success)
	assert.Equal(t, types.ExceptionIllegalOperation, receipt.Exception)
	assert.NotEmpty(t, receipt.Err)
	assert.Equal(t, uint64(50000), receipt.GasUsed)
	assert.Empty(t, receipt.Logs)

	// Value transfer and storage are rolled back, the fee and nonce are not.
	assert.Equal(t, uint64(0), balance(repo, recipient))
	assert.True(t, repo.GetStorageRow(recipient, types.ZeroWord).IsZero())
	assert.Equal(t, uint64(startBalance-50000), balance(repo, sender))
	assert.Equal(t, uint64(1), repo.GetNonce(sender))
}

func TestExecuteRevertKeepsGas(t *testing.T) {
	env := newTestEnv(t)
	repo := newTestRepo()
	repo.SaveCode(recipient, asm.MustCompile("PUSH1 0x00 PUSH1 0x00 REVERT"))

	receipt, err := NewTransactionExecutor(env, call(0, recipient, 0, 50000, nil), repo, 0).Execute()
	require.NoError(t, err)

	assert.False(t, receipt.Success)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, types.ExceptionNone, receipt.Exception)
	assert.Equal(t, uint64(21006), receipt.GasUsed)
	assert.Equal(t, uint64(startBalance-21006), balance(repo, sender))
}

func TestExecuteCreate(t *testing.T) {
	env := newTestEnv(t)
	repo := newTestRepo()
	initCode := asm.MustCompile("PUSH1 0x2a PUSH1 0x00 MSTORE8 PUSH1 0x01 PUSH1 0x00 RETURN")
	tx := types.NewContractCreation(sender, 0, types.WordFromUint64(7), 100000, types.OneWord, initCode)

	receipt, err := NewTransactionExecutor(env, tx, repo, 0).Execute()
	require.NoError(t, err)
	require.True(t, receipt.Success, receipt.Err)

	addr := types.Address(crypto.CreateAddress(sender, 0))
	assert.Equal(t, addr, receipt.ContractAddress)
	assert.Equal(t, []byte{0x2a}, repo.GetCode(addr))
	assert.Equal(t, uint64(1), repo.GetNonce(addr))
	assert.Equal(t, uint64(7), balance(repo, addr))

	// 53000 + 8*68 + 2*4 intrinsic, 18 execution, 200 code deposit.
	assert.Equal(t, uint64(53770), receipt.GasUsed)
}

func TestExecuteCreateCollision(t *testing.T) {
	env := newTestEnv(t)
	repo := newTestRepo()
	addr := types.Address(crypto.CreateAddress(sender, 0))
	repo.SaveCode(addr, []byte{0x00})

	tx := types.NewContractCreation(sender, 0, types.ZeroWord, 100000, types.OneWord, []byte{0x00})
	receipt, err := NewTransactionExecutor(env, tx, repo, 0).Execute()
	require.NoError(t, err)

	assert.False(t, receipt.Success)
	assert.Equal(t, types.ExceptionAddressCollision, receipt.Exception)
	assert.Equal(t, uint64(100000), receipt.GasUsed)
	assert.Equal(t, types.EmptyAddress, receipt.ContractAddress)
}

func TestExecuteSuicideRefund(t *testing.T) {
	env := newTestEnv(t)
	repo := newTestRepo()
	repo.AddBalance(recipient, types.WordFromUint64(500))
	repo.SaveCode(recipient, asm.MustCompile("CALLER SELFDESTRUCT"))

	receipt, err := NewTransactionExecutor(env, call(0, recipient, 0, 100000, nil), repo, 0).Execute()
	require.NoError(t, err)

	assert.True(t, receipt.Success)
	assert.Equal(t, []types.Address{recipient}, receipt.DeletedAccounts)
	// 26002 used; the 24000 suicide refund is capped at half of it.
	assert.Equal(t, uint64(13001), receipt.GasUsed)
	assert.False(t, repo.Exists(recipient))
	assert.Equal(t, uint64(startBalance-13001+500), balance(repo, sender))
	require.Len(t, receipt.InternalTransactions, 1)
	assert.Equal(t, "SUICIDE", receipt.InternalTransactions[0].Type)
}

func TestExecuteInternalCallRejected(t *testing.T) {
	env := newTestEnv(t)
	repo := newTestRepo()
	callee := types.HexToAddress("0x4000000000000000000000000000000000000004")
	repo.SaveCode(callee, asm.MustCompile("STOP"))
	code := "PUSH1 0x00 PUSH1 0x00 PUSH1 0x00 PUSH1 0x00 PUSH1 0x00 PUSH20 " + callee.Hex() +
		" PUSH2 0xffff CALL INVALID"
	repo.SaveCode(recipient, asm.MustCompile(code))

	receipt, err := NewTransactionExecutor(env, call(0, recipient, 0, 200000, nil), repo, 0).Execute()
	require.NoError(t, err)

	assert.False(t, receipt.Success)
	require.Len(t, receipt.InternalTransactions, 1)
	assert.True(t, receipt.InternalTransactions[0].Rejected)
}

func TestExecuteLogs(t *testing.T) {
	env := newTestEnv(t)
	repo := newTestRepo()
	repo.SaveCode(recipient, asm.MustCompile("PUSH1 0x07 PUSH1 0x00 PUSH1 0x00 LOG1"))

	receipt, err := NewTransactionExecutor(env, call(0, recipient, 0, 100000, nil), repo, 0).Execute()
	require.NoError(t, err)

	require.Len(t, receipt.Logs, 1)
	assert.Equal(t, recipient, receipt.Logs[0].Address)
	assert.Equal(t, types.WordFromUint64(7), receipt.Logs[0].Topics[0])
}

func TestBlockExecutor(t *testing.T) {
	env := newTestEnv(t)
	repo := newTestRepo()
	be := NewBlockExecutor(env)

	txs := types.Transactions{
		call(0, recipient, 10, 21000, nil),
		call(5, recipient, 10, 21000, nil),
		call(1, recipient, 10, 21000, nil),
	}
	result, err := be.Execute(txs, repo)
	require.NoError(t, err)

	require.Len(t, result.Receipts, 2)
	require.Len(t, result.FailedTxs, 1)
	assert.Equal(t, uint(1), result.FailedTxs[0].Index)
	assert.Equal(t, txs[1].Hash(), result.FailedTxs[0].Hash)

	assert.Equal(t, uint64(42000), result.GasUsed)
	assert.Equal(t, uint64(42000), result.Receipts[1].CumulativeGasUsed)
	assert.Equal(t, uint64(20), balance(repo, recipient))
	assert.Equal(t, ReceiptRoot(result.Receipts), result.ReceiptRoot)
	assert.NotEqual(t, types.EmptyHash, result.ReceiptRoot)

	assert.Equal(t, uint64(2), be.GetTotalExecuted())
	assert.Equal(t, uint64(1), be.GetTotalFailed())
}

func TestBlockExecutorGasLimit(t *testing.T) {
	env := newTestEnv(t)
	env.Block.GasLimit = 30000
	repo := newTestRepo()

	txs := types.Transactions{
		call(0, recipient, 0, 21000, nil),
		call(1, recipient, 0, 21000, nil),
	}
	result, err := NewBlockExecutor(env).Execute(txs, repo)
	require.NoError(t, err)

	assert.Len(t, result.Receipts, 1)
	require.Len(t, result.FailedTxs, 1)
	assert.Contains(t, result.FailedTxs[0].Error, ErrBlockGasLimitReached.Error())
}

func TestReceiptRootEmpty(t *testing.T) {
	assert.Equal(t, types.EmptyHash, ReceiptRoot(nil))
}
