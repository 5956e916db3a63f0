package ledgerstate

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/serializer/v2"
	"github.com/iotaledger/hive.go/stringify"
	"golang.org/x/xerrors"
)

// region OutputType ///////////////////////////////////////////////////////////////////////////////////////////////////

const (
	// TreasuryOutputType represents an Output holding the treasury of the network.
	TreasuryOutputType OutputType = 2

	// BasicOutputType represents a plain value Output that may carry native tokens and mana.
	BasicOutputType OutputType = 3

	// AliasOutputType represents a chain Output that tracks on-ledger state and controls foundries.
	AliasOutputType OutputType = 4

	// FoundryOutputType represents a chain Output that controls the supply of a native token.
	FoundryOutputType OutputType = 5

	// NFTOutputType represents a chain Output with immutable on-ledger metadata.
	NFTOutputType OutputType = 6

	// DelegationOutputType represents a chain Output that delegates stake to a validator.
	DelegationOutputType OutputType = 7
)

// OutputType represents the type of an Output.
type OutputType byte

// String returns a human readable representation of the OutputType.
func (o OutputType) String() string {
	switch o {
	case TreasuryOutputType:
		return "TreasuryOutputType"
	case BasicOutputType:
		return "BasicOutputType"
	case AliasOutputType:
		return "AliasOutputType"
	case FoundryOutputType:
		return "FoundryOutputType"
	case NFTOutputType:
		return "NFTOutputType"
	case DelegationOutputType:
		return "DelegationOutputType"
	default:
		return "UnknownOutputType"
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Output ///////////////////////////////////////////////////////////////////////////////////////////////////////

// Output is the generic interface of the different types of Outputs tracked by the ledger state.
type Output interface {
	// ID returns the identifier of the Output that is used to address the Output in the UTXODAG.
	ID() OutputID

	// SetID allows to set the identifier of the Output. We offer a setter for this property since the ID of the
	// Output is only known after the transaction that contains it was constructed.
	SetID(outputID OutputID) Output

	// Type returns the OutputType which allows us to generically handle Outputs of different types.
	Type() OutputType

	// Amount returns the amount of base tokens held by the Output.
	Amount() uint64

	// NativeTokens returns the native tokens held by the Output.
	NativeTokens() NativeTokens

	// UnlockConditions returns the UnlockConditions of the Output.
	UnlockConditions() UnlockConditions

	// Features returns the mutable Features of the Output.
	Features() Features

	// ImmutableFeatures returns the immutable Features of the Output.
	ImmutableFeatures() Features

	// Address returns the Address of the controlling UnlockCondition of the Output.
	Address() Address

	// UnlockableBy returns true if the given Address controls the Output at the given confirmed milestone timestamp.
	UnlockableBy(address Address, confirmedMilestoneTimestamp uint32) bool

	// SyntacticallyValidate checks the Output against the validation rules that do not require transaction context.
	SyntacticallyValidate(protocolParameters *ProtocolParameters) error

	// Clone creates a copy of the Output.
	Clone() Output

	// Bytes returns a marshaled version of the Output.
	Bytes() []byte

	// String returns a human readable version of the Output for debug purposes.
	String() string

	// Compare offers a comparator for Outputs which returns -1 if the other Output is bigger, 1 if it is smaller and
	// 0 if they are the same.
	Compare(other Output) int
}

// ChainOutput is the interface of Outputs that carry an on-ledger chain identity across transactions.
type ChainOutput interface {
	Output

	// Chain returns the ChainID of the Output.
	Chain() ChainID
}

// OutputFromBytes unmarshals an Output from a sequence of bytes.
func OutputFromBytes(data []byte, deSeriMode serializer.DeSerializationMode, protocolParameters *ProtocolParameters) (output Output, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(data)
	if output, err = OutputFromMarshalUtil(marshalUtil, deSeriMode, protocolParameters); err != nil {
		err = xerrors.Errorf("failed to parse Output from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// OutputFromMarshalUtil unmarshals an Output using a MarshalUtil (for easier unmarshaling).
func OutputFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil, deSeriMode serializer.DeSerializationMode, protocolParameters *ProtocolParameters) (output Output, err error) {
	outputType, err := marshalUtil.ReadByte()
	if err != nil {
		err = xerrors.Errorf("failed to parse OutputType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	marshalUtil.ReadSeek(-1)

	switch OutputType(outputType) {
	case TreasuryOutputType:
		return TreasuryOutputFromMarshalUtil(marshalUtil, deSeriMode, protocolParameters)
	case BasicOutputType:
		return BasicOutputFromMarshalUtil(marshalUtil, deSeriMode, protocolParameters)
	case AliasOutputType:
		return AliasOutputFromMarshalUtil(marshalUtil, deSeriMode, protocolParameters)
	case FoundryOutputType:
		return FoundryOutputFromMarshalUtil(marshalUtil, deSeriMode, protocolParameters)
	case NFTOutputType:
		return NFTOutputFromMarshalUtil(marshalUtil, deSeriMode, protocolParameters)
	case DelegationOutputType:
		return DelegationOutputFromMarshalUtil(marshalUtil, deSeriMode, protocolParameters)
	default:
		err = xerrors.Errorf("OutputType (%X): %w", outputType, ErrUnknownOutputType)
		return
	}
}

// validateAmount checks an Output amount against the token supply carried by the optional protocol parameters.
func validateAmount(amount uint64, protocolParameters *ProtocolParameters) (err error) {
	if amount == 0 {
		return xerrors.Errorf("amount must be larger than zero: %w", ErrOutputAmountOutOfRange)
	}
	if protocolParameters != nil && amount > protocolParameters.TokenSupply {
		return xerrors.Errorf("amount %d exceeds token supply %d: %w", amount, protocolParameters.TokenSupply, ErrOutputAmountOutOfRange)
	}

	return nil
}

// validateRent checks that an Output covers its own rent cost according to the optional protocol parameters.
func validateRent(output Output, protocolParameters *ProtocolParameters) (err error) {
	if protocolParameters == nil {
		return nil
	}
	if minRent := protocolParameters.RentStructure.MinRent(output); output.Amount() < minRent {
		return xerrors.Errorf("amount %d is less than the minimum rent %d: %w", output.Amount(), minRent, ErrInsufficientStorageDeposit)
	}

	return nil
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Outputs //////////////////////////////////////////////////////////////////////////////////////////////////////

// Outputs represents a collection of Outputs that is sorted in a deterministic order.
type Outputs []Output

// NewOutputs creates a deterministically ordered collection of Outputs, removing duplicates.
func NewOutputs(optionalOutputs ...Output) (outputs Outputs) {
	seenOutputs := make(map[string]struct{})
	for _, output := range optionalOutputs {
		marshaledOutput := string(output.Bytes())
		if _, seenAlready := seenOutputs[marshaledOutput]; seenAlready {
			continue
		}
		seenOutputs[marshaledOutput] = struct{}{}

		outputs = append(outputs, output)
	}
	sort.Slice(outputs, func(i, j int) bool {
		return outputs[i].Compare(outputs[j]) < 0
	})

	return
}

// OutputsFromMarshalUtil unmarshals a collection of Outputs using a MarshalUtil.
func OutputsFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil, deSeriMode serializer.DeSerializationMode, protocolParameters *ProtocolParameters) (outputs Outputs, err error) {
	outputCount, err := marshalUtil.ReadUint16()
	if err != nil {
		err = xerrors.Errorf("failed to parse output count (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if outputCount > MaxOutputCount {
		err = xerrors.Errorf("output count %d exceeds maximum of %d: %w", outputCount, MaxOutputCount, cerrors.ErrParseBytesFailed)
		return
	}

	outputs = make(Outputs, outputCount)
	for i := uint16(0); i < outputCount; i++ {
		if outputs[i], err = OutputFromMarshalUtil(marshalUtil, deSeriMode, protocolParameters); err != nil {
			err = xerrors.Errorf("failed to parse Output: %w", err)
			return
		}
	}

	return
}

// Clone creates a copy of the Outputs.
func (o Outputs) Clone() (clonedOutputs Outputs) {
	clonedOutputs = make(Outputs, len(o))
	for i, output := range o {
		clonedOutputs[i] = output.Clone()
	}

	return
}

// Filter returns the Outputs that fulfill the given predicate.
func (o Outputs) Filter(predicate func(output Output) bool) (filteredOutputs Outputs) {
	for _, output := range o {
		if predicate(output) {
			filteredOutputs = append(filteredOutputs, output)
		}
	}

	return
}

// Bytes returns a marshaled version of the Outputs.
func (o Outputs) Bytes() []byte {
	marshalUtil := marshalutil.New()
	marshalUtil.WriteUint16(uint16(len(o)))
	for _, output := range o {
		marshalUtil.WriteBytes(output.Bytes())
	}

	return marshalUtil.Bytes()
}

// String returns a human readable version of the Outputs.
func (o Outputs) String() string {
	structBuilder := stringify.StructBuilder("Outputs")
	for i, output := range o {
		structBuilder.AddField(stringify.StructField(strconv.Itoa(i), output))
	}

	return structBuilder.String()
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region helpers //////////////////////////////////////////////////////////////////////////////////////////////////////

// compareOutputs compares the marshaled form of two Outputs.
func compareOutputs(output Output, other Output) int {
	return bytes.Compare(output.Bytes(), other.Bytes())
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
