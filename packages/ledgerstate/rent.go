package ledgerstate

import (
	"github.com/iotaledger/hive.go/stringify"
)

// region VByteCostFactor //////////////////////////////////////////////////////////////////////////////////////////////

const (
	// VByteCostFactorData is the weight of a plain data byte in the rent computation.
	VByteCostFactorData VByteCostFactor = 1

	// VByteCostFactorKey is the weight of a key byte in the rent computation. Key bytes index into the ledger state
	// and are therefore more expensive than plain data bytes.
	VByteCostFactorKey VByteCostFactor = 10
)

// VByteCostFactor weighs the bytes of an Output by how expensive they are to hold in the ledger state.
type VByteCostFactor byte

// Multiply multiplies the given length with the factor.
func (v VByteCostFactor) Multiply(length uint64) uint64 {
	return uint64(v) * length
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region RentStructure ////////////////////////////////////////////////////////////////////////////////////////////////

// RentStructure defines the parameters of the rent cost computation of Outputs.
type RentStructure struct {
	// VByteCost is the cost of a single virtual byte denominated in base tokens.
	VByteCost uint32

	// VBFactorData is the weight of a plain data byte.
	VBFactorData VByteCostFactor

	// VBFactorKey is the weight of a key byte.
	VBFactorKey VByteCostFactor
}

// MinRent returns the minimum amount of base tokens the given Output has to hold to cover its rent cost.
func (r *RentStructure) MinRent(output Output) uint64 {
	return uint64(r.VByteCost) * (r.VBFactorData.Multiply(uint64(len(output.Bytes()))) + r.vByteOffset())
}

// vByteOffset accounts for the ledger-state bookkeeping that accompanies every stored Output: its key (the OutputID)
// and the metadata of the containing transaction (block id, confirmation milestone index and timestamp).
func (r *RentStructure) vByteOffset() uint64 {
	return r.VBFactorKey.Multiply(OutputIDLength) + r.VBFactorData.Multiply(OutputIDLength+32+4+4)
}

// String returns a human readable version of the RentStructure.
func (r *RentStructure) String() string {
	return stringify.Struct("RentStructure",
		stringify.StructField("vByteCost", r.VByteCost),
		stringify.StructField("vBFactorData", uint8(r.VBFactorData)),
		stringify.StructField("vBFactorKey", uint8(r.VBFactorKey)),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region ProtocolParameters ///////////////////////////////////////////////////////////////////////////////////////////

// ProtocolParameters carries the network-wide constants that Output validation checks against.
type ProtocolParameters struct {
	// TokenSupply is the total supply of base tokens of the network.
	TokenSupply uint64

	// RentStructure holds the parameters of the rent cost computation.
	RentStructure RentStructure
}

// DefaultProtocolParameters returns the protocol parameters of the main network.
func DefaultProtocolParameters() *ProtocolParameters {
	return &ProtocolParameters{
		TokenSupply: 2779530283277761,
		RentStructure: RentStructure{
			VByteCost:    100,
			VBFactorData: VByteCostFactorData,
			VBFactorKey:  VByteCostFactorKey,
		},
	}
}

// String returns a human readable version of the ProtocolParameters.
func (p *ProtocolParameters) String() string {
	return stringify.Struct("ProtocolParameters",
		stringify.StructField("tokenSupply", p.TokenSupply),
		stringify.StructField("rentStructure", &p.RentStructure),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
