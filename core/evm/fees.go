package evm

import (
	"fmt"
	"math"

	"github.com/XDagger/xdagj-sub001/config"
	"github.com/ethereum/go-ethereum/params"
)

// FeeSchedule holds every price the engine charges.
type FeeSchedule struct {
	Tiers [SpecialTier + 1]uint64

	Balance     uint64
	SLoad       uint64
	ExtCodeSize uint64
	ExtCodeCopy uint64
	ExtCodeHash uint64
	Call        uint64
	Suicide     uint64

	// Legacy storage pricing.
	SStoreSet    uint64
	SStoreReset  uint64
	SStoreClear  uint64
	SStoreRefund uint64

	// Net-gas storage pricing.
	SStoreNoop             uint64
	SStoreInit             uint64
	SStoreClean            uint64
	SStoreDirty            uint64
	SStoreClearRefund      uint64
	SStoreResetRefund      uint64
	SStoreResetClearRefund uint64

	Create         uint64
	CreateData     uint64
	CallValue      uint64
	CallStipend    uint64
	NewAcctCall    uint64
	NewAcctSuicide uint64
	SuicideRefund  uint64

	Exp          uint64
	ExpByte      uint64
	Memory       uint64
	QuadCoeffDiv uint64
	Copy         uint64
	Log          uint64
	LogTopic     uint64
	LogData      uint64
	SHA3         uint64
	SHA3Word     uint64

	Tx            uint64
	TxCreate      uint64
	TxDataZero    uint64
	TxDataNonZero uint64

	// Precompiled contracts.
	Ecrecover            uint64
	Sha256Base           uint64
	Sha256Word           uint64
	Ripemd160Base        uint64
	Ripemd160Word        uint64
	IdentityBase         uint64
	IdentityWord         uint64
	ModExpQuadDivisor    uint64
	Bn256Add             uint64
	Bn256ScalarMul       uint64
	Bn256PairingBase     uint64
	Bn256PairingPerPoint uint64
}

// FrontierFees returns the base fee schedule.
func FrontierFees() *FeeSchedule {
	return &FeeSchedule{
		Tiers: [SpecialTier + 1]uint64{
			ZeroTier:    0,
			BaseTier:    2,
			VeryLowTier: 3,
			LowTier:     5,
			MidTier:     8,
			HighTier:    10,
			ExtTier:     20,
			SpecialTier: params.JumpdestGas,
		},

		Balance:     params.BalanceGasFrontier,
		SLoad:       params.SloadGasFrontier,
		ExtCodeSize: params.ExtcodeSizeGasFrontier,
		ExtCodeCopy: params.ExtcodeCopyBaseFrontier,
		ExtCodeHash: params.ExtcodeHashGasConstantinople,
		Call:        params.CallGasFrontier,
		Suicide:     0,

		SStoreSet:    params.SstoreSetGas,
		SStoreReset:  params.SstoreResetGas,
		SStoreClear:  params.SstoreClearGas,
		SStoreRefund: params.SstoreRefundGas,

		SStoreNoop:             params.NetSstoreNoopGas,
		SStoreInit:             params.NetSstoreInitGas,
		SStoreClean:            params.NetSstoreCleanGas,
		SStoreDirty:            params.NetSstoreDirtyGas,
		SStoreClearRefund:      params.NetSstoreClearRefund,
		SStoreResetRefund:      params.NetSstoreResetRefund,
		SStoreResetClearRefund: params.NetSstoreResetClearRefund,

		Create:         params.CreateGas,
		CreateData:     params.CreateDataGas,
		CallValue:      params.CallValueTransferGas,
		CallStipend:    params.CallStipend,
		NewAcctCall:    params.CallNewAccountGas,
		NewAcctSuicide: 0,
		SuicideRefund:  params.SelfdestructRefundGas,

		Exp:          params.ExpGas,
		ExpByte:      params.ExpByteFrontier,
		Memory:       params.MemoryGas,
		QuadCoeffDiv: params.QuadCoeffDiv,
		Copy:         params.CopyGas,
		Log:          params.LogGas,
		LogTopic:     params.LogTopicGas,
		LogData:      params.LogDataGas,
		SHA3:         params.Keccak256Gas,
		SHA3Word:     params.Keccak256WordGas,

		Tx:            params.TxGas,
		TxCreate:      params.TxGasContractCreation,
		TxDataZero:    params.TxDataZeroGas,
		TxDataNonZero: params.TxDataNonZeroGasFrontier,

		Ecrecover:         params.EcrecoverGas,
		Sha256Base:        params.Sha256BaseGas,
		Sha256Word:        params.Sha256PerWordGas,
		Ripemd160Base:     params.Ripemd160BaseGas,
		Ripemd160Word:     params.Ripemd160PerWordGas,
		IdentityBase:      params.IdentityBaseGas,
		IdentityWord:      params.IdentityPerWordGas,
		ModExpQuadDivisor: 20,
	}
}

// ByzantiumFees returns the fee schedule with repriced state access.
func ByzantiumFees() *FeeSchedule {
	fs := FrontierFees()
	fs.Balance = params.BalanceGasEIP150
	fs.SLoad = params.SloadGasEIP150
	fs.ExtCodeSize = params.ExtcodeSizeGasEIP150
	fs.ExtCodeCopy = params.ExtcodeCopyBaseEIP150
	fs.Call = params.CallGasEIP150
	fs.Suicide = params.SelfdestructGasEIP150
	fs.NewAcctSuicide = params.CreateBySelfdestructGas
	fs.ExpByte = params.ExpByteEIP158

	fs.Bn256Add = params.Bn256AddGasByzantium
	fs.Bn256ScalarMul = params.Bn256ScalarMulGasByzantium
	fs.Bn256PairingBase = params.Bn256PairingBaseGasByzantium
	fs.Bn256PairingPerPoint = params.Bn256PairingPerPointGasByzantium
	return fs
}

// TierCost returns the static price of a tier.
func (fs *FeeSchedule) TierCost(t Tier) uint64 {
	return fs.Tiers[t]
}

// CallGasPolicy bounds the gas forwarded to a sub-invocation. The callee may
// receive at most available - available/RetainDivisor; zero retains nothing.
type CallGasPolicy struct {
	RetainDivisor uint64
}

// MaxAllowed returns the largest amount that may leave a frame holding
// available gas.
func (p CallGasPolicy) MaxAllowed(available uint64) uint64 {
	if p.RetainDivisor == 0 {
		return available
	}
	return available - available/p.RetainDivisor
}

// CallGas returns the gas forwarded for a call that requested requested.
func (p CallGasPolicy) CallGas(requested, available uint64) uint64 {
	if limit := p.MaxAllowed(available); requested > limit {
		return limit
	}
	return requested
}

// Spec describes one set of protocol rules: prices, limits, feature switches
// and the precompiled contracts.
type Spec struct {
	Name string
	Fees *FeeSchedule

	CallGas   CallGasPolicy
	CreateGas CallGasPolicy

	MaxContractSize          int
	MaxCallDepth             int
	StackLimit               int
	CreateEmptyContractOnOOG bool

	EIP145  bool // SHL, SHR, SAR
	EIP1014 bool // CREATE2
	EIP1052 bool // EXTCODEHASH
	EIP1283 bool // net-gas SSTORE

	Precompiles PrecompiledContracts
}

// Fork names accepted by SpecByName.
const (
	ForkFrontier       = "frontier"
	ForkByzantium      = "byzantium"
	ForkConstantinople = "constantinople"
)

// Frontier returns the base rule set.
func Frontier() *Spec {
	return &Spec{
		Name:                     ForkFrontier,
		Fees:                     FrontierFees(),
		MaxContractSize:          math.MaxInt32,
		MaxCallDepth:             int(params.CallCreateDepth),
		StackLimit:               int(params.StackLimit),
		CreateEmptyContractOnOOG: true,
		Precompiles:              frontierPrecompiles,
	}
}

// Byzantium returns the rule set with 1/64 gas retention, the code size cap
// and the BN256 precompiles.
func Byzantium() *Spec {
	return &Spec{
		Name:            ForkByzantium,
		Fees:            ByzantiumFees(),
		CallGas:         CallGasPolicy{RetainDivisor: 64},
		CreateGas:       CallGasPolicy{RetainDivisor: 64},
		MaxContractSize: 0x6000,
		MaxCallDepth:    int(params.CallCreateDepth),
		StackLimit:      int(params.StackLimit),
		Precompiles:     byzantiumPrecompiles,
	}
}

// Constantinople returns Byzantium with shifts, CREATE2, EXTCODEHASH and
// net-gas storage metering enabled.
func Constantinople() *Spec {
	s := Byzantium()
	s.Name = ForkConstantinople
	s.EIP145 = true
	s.EIP1014 = true
	s.EIP1052 = true
	s.EIP1283 = true
	return s
}

// SpecByName returns the rule set of a named fork.
func SpecByName(name string) (*Spec, error) {
	switch name {
	case ForkFrontier:
		return Frontier(), nil
	case ForkByzantium:
		return Byzantium(), nil
	case ForkConstantinople, "":
		return Constantinople(), nil
	}
	return nil, fmt.Errorf("unknown fork %q", name)
}

// NewSpec builds the rule set selected by cfg.Fork and applies the VM
// limits on top of it.
func NewSpec(cfg *config.Config) (*Spec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	spec, err := SpecByName(cfg.Fork)
	if err != nil {
		return nil, err
	}
	vm := cfg.VM
	spec.MaxCallDepth = vm.MaxCallDepth
	spec.StackLimit = vm.StackLimit
	if vm.MaxCodeSize > 0 {
		spec.MaxContractSize = vm.MaxCodeSize
	}
	if vm.CallGasRetainDivisor > 0 {
		spec.CallGas.RetainDivisor = vm.CallGasRetainDivisor
	}
	if vm.CreateGasRetainDivisor > 0 {
		spec.CreateGas.RetainDivisor = vm.CreateGasRetainDivisor
	}
	return spec, nil
}

// TransactionCost returns the intrinsic gas of a transaction.
func (s *Spec) TransactionCost(create bool, data []byte) uint64 {
	fs := s.Fees
	cost := fs.Tx
	if create {
		cost = fs.TxCreate
	}
	for _, b := range data {
		if b == 0 {
			cost += fs.TxDataZero
		} else {
			cost += fs.TxDataNonZero
		}
	}
	return cost
}
