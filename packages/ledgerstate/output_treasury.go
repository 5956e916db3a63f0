package ledgerstate

import (
	"sync"

	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/serializer/v2"
	"github.com/iotaledger/hive.go/stringify"
	"golang.org/x/xerrors"
)

// region TreasuryOutput ///////////////////////////////////////////////////////////////////////////////////////////////

// TreasuryOutput is an Output that holds the treasury of the network. It is not controlled by an Address but by the
// milestone machinery of the protocol.
type TreasuryOutput struct {
	id      OutputID
	idMutex sync.RWMutex
	amount  uint64
}

// NewTreasuryOutput creates a new TreasuryOutput with the given amount.
func NewTreasuryOutput(amount uint64) *TreasuryOutput {
	return &TreasuryOutput{
		amount: amount,
	}
}

// TreasuryOutputFromBytes unmarshals a TreasuryOutput from a sequence of bytes.
func TreasuryOutputFromBytes(data []byte, deSeriMode serializer.DeSerializationMode, protocolParameters *ProtocolParameters) (output *TreasuryOutput, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(data)
	if output, err = TreasuryOutputFromMarshalUtil(marshalUtil, deSeriMode, protocolParameters); err != nil {
		err = xerrors.Errorf("failed to parse TreasuryOutput from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// TreasuryOutputFromMarshalUtil unmarshals a TreasuryOutput using a MarshalUtil (for easier unmarshaling).
func TreasuryOutputFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil, deSeriMode serializer.DeSerializationMode, protocolParameters *ProtocolParameters) (output *TreasuryOutput, err error) {
	outputType, err := marshalUtil.ReadByte()
	if err != nil {
		err = xerrors.Errorf("failed to parse OutputType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if OutputType(outputType) != TreasuryOutputType {
		err = xerrors.Errorf("invalid OutputType (%X): %w", outputType, cerrors.ErrParseBytesFailed)
		return
	}

	output = &TreasuryOutput{}
	if output.amount, err = marshalUtil.ReadUint64(); err != nil {
		err = xerrors.Errorf("failed to parse amount (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	if deSeriMode.HasMode(serializer.DeSeriModePerformValidation) {
		if err = output.SyntacticallyValidate(protocolParameters); err != nil {
			err = xerrors.Errorf("failed to validate TreasuryOutput: %w", err)
			return
		}
	}

	return
}

// ID returns the identifier of the Output that is used to address the Output in the UTXODAG.
func (t *TreasuryOutput) ID() OutputID {
	t.idMutex.RLock()
	defer t.idMutex.RUnlock()

	return t.id
}

// SetID allows to set the identifier of the Output. We offer a setter for this property since the ID of the Output is
// only known after the transaction that contains it was constructed.
func (t *TreasuryOutput) SetID(outputID OutputID) Output {
	t.idMutex.Lock()
	defer t.idMutex.Unlock()

	t.id = outputID

	return t
}

// Type returns the OutputType of the Output.
func (t *TreasuryOutput) Type() OutputType {
	return TreasuryOutputType
}

// Amount returns the amount of base tokens held by the Output.
func (t *TreasuryOutput) Amount() uint64 {
	return t.amount
}

// NativeTokens returns the native tokens held by the Output.
func (t *TreasuryOutput) NativeTokens() NativeTokens {
	return nil
}

// UnlockConditions returns the UnlockConditions of the Output.
func (t *TreasuryOutput) UnlockConditions() UnlockConditions {
	return nil
}

// Features returns the mutable Features of the Output.
func (t *TreasuryOutput) Features() Features {
	return nil
}

// ImmutableFeatures returns the immutable Features of the Output.
func (t *TreasuryOutput) ImmutableFeatures() Features {
	return nil
}

// Address returns the Address of the controlling UnlockCondition of the Output. The treasury is not controlled by an
// Address.
func (t *TreasuryOutput) Address() Address {
	return nil
}

// UnlockableBy returns true if the given Address controls the Output at the given confirmed milestone timestamp.
func (t *TreasuryOutput) UnlockableBy(address Address, confirmedMilestoneTimestamp uint32) bool {
	return false
}

// SyntacticallyValidate checks the Output against the validation rules that do not require transaction context.
func (t *TreasuryOutput) SyntacticallyValidate(protocolParameters *ProtocolParameters) (err error) {
	return validateAmount(t.amount, protocolParameters)
}

// Clone creates a copy of the Output.
func (t *TreasuryOutput) Clone() Output {
	return &TreasuryOutput{
		id:     t.ID(),
		amount: t.amount,
	}
}

// Bytes returns a marshaled version of the Output.
func (t *TreasuryOutput) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(TreasuryOutputType)).
		WriteUint64(t.amount).
		Bytes()
}

// Compare offers a comparator for Outputs which returns -1 if the other Output is bigger, 1 if it is smaller and 0 if
// they are the same.
func (t *TreasuryOutput) Compare(other Output) int {
	return compareOutputs(t, other)
}

// String returns a human readable version of the Output.
func (t *TreasuryOutput) String() string {
	return stringify.Struct("TreasuryOutput",
		stringify.StructField("id", t.ID()),
		stringify.StructField("amount", t.amount),
	)
}

// code contract (make sure the type implements all required methods)
var _ Output = &TreasuryOutput{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
