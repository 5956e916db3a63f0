package ledgerstate

import (
	"sync"

	"github.com/iotaledger/hive.go/bitmask"
	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/serializer/v2"
	"github.com/iotaledger/hive.go/stringify"
	"golang.org/x/xerrors"
)

// region DelegationOutput /////////////////////////////////////////////////////////////////////////////////////////////

var (
	delegationOutputAllowedUnlockConditions = bitmask.BitMask(0).
		SetBit(uint(AddressUnlockConditionType))

	delegationOutputAllowedImmutableFeatures = bitmask.BitMask(0).
		SetBit(uint(IssuerFeatureType))
)

// DelegationOutput is a chain Output that delegates its base tokens as stake to a validator.
type DelegationOutput struct {
	id                OutputID
	idMutex           sync.RWMutex
	amount            uint64
	delegatedAmount   uint64
	delegationID      DelegationID
	validatorID       AccountID
	startEpoch        uint32
	endEpoch          uint32
	unlockConditions  UnlockConditions
	immutableFeatures Features
}

// DelegationOutputFromBytes unmarshals a DelegationOutput from a sequence of bytes.
func DelegationOutputFromBytes(data []byte, deSeriMode serializer.DeSerializationMode, protocolParameters *ProtocolParameters) (output *DelegationOutput, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(data)
	if output, err = DelegationOutputFromMarshalUtil(marshalUtil, deSeriMode, protocolParameters); err != nil {
		err = xerrors.Errorf("failed to parse DelegationOutput from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// DelegationOutputFromMarshalUtil unmarshals a DelegationOutput using a MarshalUtil (for easier unmarshaling).
func DelegationOutputFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil, deSeriMode serializer.DeSerializationMode, protocolParameters *ProtocolParameters) (output *DelegationOutput, err error) {
	outputType, err := marshalUtil.ReadByte()
	if err != nil {
		err = xerrors.Errorf("failed to parse OutputType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if OutputType(outputType) != DelegationOutputType {
		err = xerrors.Errorf("invalid OutputType (%X): %w", outputType, cerrors.ErrParseBytesFailed)
		return
	}

	output = &DelegationOutput{}
	if output.amount, err = marshalUtil.ReadUint64(); err != nil {
		err = xerrors.Errorf("failed to parse amount (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if output.delegatedAmount, err = marshalUtil.ReadUint64(); err != nil {
		err = xerrors.Errorf("failed to parse delegated amount (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if output.delegationID, err = DelegationIDFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse DelegationID: %w", err)
		return
	}
	if output.validatorID, err = AccountIDFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse validator AccountID: %w", err)
		return
	}
	if output.startEpoch, err = marshalUtil.ReadUint32(); err != nil {
		err = xerrors.Errorf("failed to parse start epoch (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if output.endEpoch, err = marshalUtil.ReadUint32(); err != nil {
		err = xerrors.Errorf("failed to parse end epoch (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if output.unlockConditions, err = UnlockConditionsFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse UnlockConditions: %w", err)
		return
	}
	if output.immutableFeatures, err = FeaturesFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse immutable Features: %w", err)
		return
	}

	if deSeriMode.HasMode(serializer.DeSeriModePerformValidation) {
		if err = output.SyntacticallyValidate(protocolParameters); err != nil {
			err = xerrors.Errorf("failed to validate DelegationOutput: %w", err)
			return
		}
	}

	return
}

// ID returns the identifier of the Output that is used to address the Output in the UTXODAG.
func (d *DelegationOutput) ID() OutputID {
	d.idMutex.RLock()
	defer d.idMutex.RUnlock()

	return d.id
}

// SetID allows to set the identifier of the Output. We offer a setter for this property since the ID of the Output is
// only known after the transaction that contains it was constructed.
func (d *DelegationOutput) SetID(outputID OutputID) Output {
	d.idMutex.Lock()
	defer d.idMutex.Unlock()

	d.id = outputID

	return d
}

// Type returns the OutputType of the Output.
func (d *DelegationOutput) Type() OutputType {
	return DelegationOutputType
}

// Amount returns the amount of base tokens held by the Output.
func (d *DelegationOutput) Amount() uint64 {
	return d.amount
}

// DelegatedAmount returns the amount of base tokens that are delegated as stake.
func (d *DelegationOutput) DelegatedAmount() uint64 {
	return d.delegatedAmount
}

// DelegationID returns the identifier of the delegation chain that the Output belongs to.
func (d *DelegationOutput) DelegationID() DelegationID {
	return d.delegationID
}

// ValidatorID returns the identifier of the validator that the stake is delegated to.
func (d *DelegationOutput) ValidatorID() AccountID {
	return d.validatorID
}

// StartEpoch returns the first epoch in which the delegated stake counts towards the validator.
func (d *DelegationOutput) StartEpoch() uint32 {
	return d.startEpoch
}

// EndEpoch returns the last epoch in which the delegated stake counts towards the validator.
func (d *DelegationOutput) EndEpoch() uint32 {
	return d.endEpoch
}

// NativeTokens returns the native tokens held by the Output.
func (d *DelegationOutput) NativeTokens() NativeTokens {
	return nil
}

// UnlockConditions returns the UnlockConditions of the Output.
func (d *DelegationOutput) UnlockConditions() UnlockConditions {
	return d.unlockConditions
}

// Features returns the mutable Features of the Output.
func (d *DelegationOutput) Features() Features {
	return nil
}

// ImmutableFeatures returns the immutable Features of the Output.
func (d *DelegationOutput) ImmutableFeatures() Features {
	return d.immutableFeatures
}

// Chain returns the ChainID of the Output. The zero ChainID of a freshly created delegation is resolved from its
// OutputID.
func (d *DelegationOutput) Chain() ChainID {
	return d.delegationID.OrFromOutputID(d.ID()).ChainID()
}

// Address returns the Address of the controlling UnlockCondition of the Output.
func (d *DelegationOutput) Address() Address {
	addressUnlockCondition := d.unlockConditions.Address()
	if addressUnlockCondition == nil {
		panic("DelegationOutput was created without its controlling unlock condition")
	}

	return addressUnlockCondition.Address()
}

// UnlockableBy returns true if the given Address controls the Output at the given confirmed milestone timestamp.
func (d *DelegationOutput) UnlockableBy(address Address, confirmedMilestoneTimestamp uint32) bool {
	return d.Address().Equals(address)
}

// SyntacticallyValidate checks the Output against the validation rules that do not require transaction context.
func (d *DelegationOutput) SyntacticallyValidate(protocolParameters *ProtocolParameters) (err error) {
	if err = validateAmount(d.amount, protocolParameters); err != nil {
		return err
	}
	if err = d.unlockConditions.verify(delegationOutputAllowedUnlockConditions); err != nil {
		return err
	}
	if d.unlockConditions.Address() == nil {
		return ErrMissingAddressUnlockCondition
	}
	if err = d.immutableFeatures.verify(delegationOutputAllowedImmutableFeatures); err != nil {
		return err
	}
	if d.endEpoch != 0 && d.endEpoch < d.startEpoch {
		return xerrors.Errorf("end epoch %d precedes start epoch %d: %w", d.endEpoch, d.startEpoch, cerrors.ErrFatal)
	}

	return validateRent(d, protocolParameters)
}

// Clone creates a copy of the Output.
func (d *DelegationOutput) Clone() Output {
	return &DelegationOutput{
		id:                d.ID(),
		amount:            d.amount,
		delegatedAmount:   d.delegatedAmount,
		delegationID:      d.delegationID,
		validatorID:       d.validatorID,
		startEpoch:        d.startEpoch,
		endEpoch:          d.endEpoch,
		unlockConditions:  d.unlockConditions.Clone(),
		immutableFeatures: d.immutableFeatures.Clone(),
	}
}

// Bytes returns a marshaled version of the Output.
func (d *DelegationOutput) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(DelegationOutputType)).
		WriteUint64(d.amount).
		WriteUint64(d.delegatedAmount).
		WriteBytes(d.delegationID.Bytes()).
		WriteBytes(d.validatorID.Bytes()).
		WriteUint32(d.startEpoch).
		WriteUint32(d.endEpoch).
		WriteBytes(d.unlockConditions.Bytes()).
		WriteBytes(d.immutableFeatures.Bytes()).
		Bytes()
}

// Compare offers a comparator for Outputs which returns -1 if the other Output is bigger, 1 if it is smaller and 0 if
// they are the same.
func (d *DelegationOutput) Compare(other Output) int {
	return compareOutputs(d, other)
}

// String returns a human readable version of the Output.
func (d *DelegationOutput) String() string {
	return stringify.Struct("DelegationOutput",
		stringify.StructField("id", d.ID()),
		stringify.StructField("amount", d.amount),
		stringify.StructField("delegatedAmount", d.delegatedAmount),
		stringify.StructField("delegationID", d.delegationID),
		stringify.StructField("validatorID", d.validatorID),
		stringify.StructField("startEpoch", d.startEpoch),
		stringify.StructField("endEpoch", d.endEpoch),
		stringify.StructField("unlockConditions", d.unlockConditions),
		stringify.StructField("immutableFeatures", d.immutableFeatures),
	)
}

// code contracts (make sure the type implements all required methods)
var (
	_ Output      = &DelegationOutput{}
	_ ChainOutput = &DelegationOutput{}
)

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region DelegationOutputBuilder //////////////////////////////////////////////////////////////////////////////////////

// DelegationOutputBuilder accumulates the fields of a DelegationOutput and validates them when the Output is
// finished. The amount of the intermediate builder state is a minimal placeholder until it is set explicitly or
// resolved from the rent cost.
type DelegationOutputBuilder struct {
	amount                uint64
	minimumStorageDeposit *RentStructure
	delegatedAmount       uint64
	delegationID          DelegationID
	validatorID           AccountID
	startEpoch            uint32
	endEpoch              uint32
	unlockConditions      UnlockConditions
	immutableFeatures     Features
}

// NewDelegationOutputBuilder creates a new DelegationOutputBuilder.
func NewDelegationOutputBuilder(delegatedAmount uint64, validatorID AccountID, delegationID DelegationID) *DelegationOutputBuilder {
	return &DelegationOutputBuilder{
		amount:          1,
		delegatedAmount: delegatedAmount,
		delegationID:    delegationID,
		validatorID:     validatorID,
	}
}

// NewDelegationOutputBuilderFromOutput creates a new DelegationOutputBuilder that starts from a copy of an existing
// Output.
func NewDelegationOutputBuilderFromOutput(output *DelegationOutput) *DelegationOutputBuilder {
	return &DelegationOutputBuilder{
		amount:            output.amount,
		delegatedAmount:   output.delegatedAmount,
		delegationID:      output.delegationID,
		validatorID:       output.validatorID,
		startEpoch:        output.startEpoch,
		endEpoch:          output.endEpoch,
		unlockConditions:  output.unlockConditions.Clone(),
		immutableFeatures: output.immutableFeatures.Clone(),
	}
}

// Amount sets the fixed amount of the Output.
func (b *DelegationOutputBuilder) Amount(amount uint64) *DelegationOutputBuilder {
	b.amount = amount
	b.minimumStorageDeposit = nil

	return b
}

// MinimumStorageDeposit resolves the amount of the Output to its exact rent cost when it is finished.
func (b *DelegationOutputBuilder) MinimumStorageDeposit(rentStructure *RentStructure) *DelegationOutputBuilder {
	b.minimumStorageDeposit = rentStructure

	return b
}

// DelegatedAmount sets the amount of base tokens that are delegated as stake.
func (b *DelegationOutputBuilder) DelegatedAmount(delegatedAmount uint64) *DelegationOutputBuilder {
	b.delegatedAmount = delegatedAmount

	return b
}

// DelegationID sets the identifier of the delegation chain.
func (b *DelegationOutputBuilder) DelegationID(delegationID DelegationID) *DelegationOutputBuilder {
	b.delegationID = delegationID

	return b
}

// ValidatorID sets the identifier of the validator that the stake is delegated to.
func (b *DelegationOutputBuilder) ValidatorID(validatorID AccountID) *DelegationOutputBuilder {
	b.validatorID = validatorID

	return b
}

// StartEpoch sets the first epoch in which the delegated stake counts towards the validator.
func (b *DelegationOutputBuilder) StartEpoch(startEpoch uint32) *DelegationOutputBuilder {
	b.startEpoch = startEpoch

	return b
}

// EndEpoch sets the last epoch in which the delegated stake counts towards the validator.
func (b *DelegationOutputBuilder) EndEpoch(endEpoch uint32) *DelegationOutputBuilder {
	b.endEpoch = endEpoch

	return b
}

// AddUnlockCondition adds the given UnlockCondition if no condition of the same type is present, keeping the first.
func (b *DelegationOutputBuilder) AddUnlockCondition(unlockCondition UnlockCondition) *DelegationOutputBuilder {
	b.unlockConditions = b.unlockConditions.insertIfAbsent(unlockCondition)

	return b
}

// WithUnlockConditions overwrites the set of UnlockConditions of the Output.
func (b *DelegationOutputBuilder) WithUnlockConditions(unlockConditions UnlockConditions) *DelegationOutputBuilder {
	b.unlockConditions = unlockConditions.Clone()
	b.unlockConditions.Sort()

	return b
}

// ReplaceUnlockCondition adds the given UnlockCondition, overwriting a present condition of the same type.
func (b *DelegationOutputBuilder) ReplaceUnlockCondition(unlockCondition UnlockCondition) *DelegationOutputBuilder {
	b.unlockConditions = b.unlockConditions.replace(unlockCondition)

	return b
}

// ClearUnlockConditions removes all UnlockConditions from the Output.
func (b *DelegationOutputBuilder) ClearUnlockConditions() *DelegationOutputBuilder {
	b.unlockConditions = nil

	return b
}

// AddImmutableFeature adds the given immutable Feature if no feature of the same type is present, keeping the first.
func (b *DelegationOutputBuilder) AddImmutableFeature(feature Feature) *DelegationOutputBuilder {
	b.immutableFeatures = b.immutableFeatures.insertIfAbsent(feature)

	return b
}

// WithImmutableFeatures overwrites the set of immutable Features of the Output.
func (b *DelegationOutputBuilder) WithImmutableFeatures(features Features) *DelegationOutputBuilder {
	b.immutableFeatures = features.Clone()
	b.immutableFeatures.Sort()

	return b
}

// ClearImmutableFeatures removes all immutable Features from the Output.
func (b *DelegationOutputBuilder) ClearImmutableFeatures() *DelegationOutputBuilder {
	b.immutableFeatures = nil

	return b
}

// Finish validates the accumulated fields and produces an immutable DelegationOutput.
func (b *DelegationOutputBuilder) Finish() (output *DelegationOutput, err error) {
	return b.FinishWithParams(nil)
}

// FinishWithParams validates the accumulated fields against the given protocol parameters and produces an immutable
// DelegationOutput.
func (b *DelegationOutputBuilder) FinishWithParams(protocolParameters *ProtocolParameters) (output *DelegationOutput, err error) {
	if b.minimumStorageDeposit != nil {
		b.amount = b.minimumStorageDeposit.MinRent(b.build())
		b.minimumStorageDeposit = nil
	}

	output = b.build()
	if err = output.SyntacticallyValidate(protocolParameters); err != nil {
		return nil, err
	}

	return output, nil
}

// build assembles the Output from the accumulated fields without validating it.
func (b *DelegationOutputBuilder) build() *DelegationOutput {
	return &DelegationOutput{
		amount:            b.amount,
		delegatedAmount:   b.delegatedAmount,
		delegationID:      b.delegationID,
		validatorID:       b.validatorID,
		startEpoch:        b.startEpoch,
		endEpoch:          b.endEpoch,
		unlockConditions:  b.unlockConditions,
		immutableFeatures: b.immutableFeatures,
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
