package types

// BlockContext carries the block-level values visible to executing code.
type BlockContext struct {
	Coinbase   Address
	Number     uint64
	Timestamp  uint64
	Difficulty Word
	GasLimit   uint64
}
