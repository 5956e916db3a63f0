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

// region BasicOutput //////////////////////////////////////////////////////////////////////////////////////////////////

var (
	basicOutputAllowedUnlockConditions = bitmask.BitMask(0).
		SetBit(uint(AddressUnlockConditionType)).
		SetBit(uint(StorageDepositReturnUnlockConditionType)).
		SetBit(uint(TimelockUnlockConditionType)).
		SetBit(uint(ExpirationUnlockConditionType))

	basicOutputAllowedFeatures = bitmask.BitMask(0).
		SetBit(uint(SenderFeatureType)).
		SetBit(uint(MetadataFeatureType)).
		SetBit(uint(TagFeatureType))
)

// BasicOutput is an Output that holds an amount of base tokens, optional native tokens and mana, controlled by a
// single Address.
type BasicOutput struct {
	id               OutputID
	idMutex          sync.RWMutex
	amount           uint64
	mana             uint64
	nativeTokens     NativeTokens
	unlockConditions UnlockConditions
	features         Features
}

// BasicOutputFromBytes unmarshals a BasicOutput from a sequence of bytes.
func BasicOutputFromBytes(data []byte, deSeriMode serializer.DeSerializationMode, protocolParameters *ProtocolParameters) (output *BasicOutput, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(data)
	if output, err = BasicOutputFromMarshalUtil(marshalUtil, deSeriMode, protocolParameters); err != nil {
		err = xerrors.Errorf("failed to parse BasicOutput from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// BasicOutputFromMarshalUtil unmarshals a BasicOutput using a MarshalUtil (for easier unmarshaling).
func BasicOutputFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil, deSeriMode serializer.DeSerializationMode, protocolParameters *ProtocolParameters) (output *BasicOutput, err error) {
	outputType, err := marshalUtil.ReadByte()
	if err != nil {
		err = xerrors.Errorf("failed to parse OutputType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if OutputType(outputType) != BasicOutputType {
		err = xerrors.Errorf("invalid OutputType (%X): %w", outputType, cerrors.ErrParseBytesFailed)
		return
	}

	output = &BasicOutput{}
	if output.amount, err = marshalUtil.ReadUint64(); err != nil {
		err = xerrors.Errorf("failed to parse amount (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if output.mana, err = marshalUtil.ReadUint64(); err != nil {
		err = xerrors.Errorf("failed to parse mana (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if output.nativeTokens, err = NativeTokensFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse NativeTokens: %w", err)
		return
	}
	if output.unlockConditions, err = UnlockConditionsFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse UnlockConditions: %w", err)
		return
	}
	if output.features, err = FeaturesFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse Features: %w", err)
		return
	}

	if deSeriMode.HasMode(serializer.DeSeriModePerformValidation) {
		if err = output.SyntacticallyValidate(protocolParameters); err != nil {
			err = xerrors.Errorf("failed to validate BasicOutput: %w", err)
			return
		}
	}

	return
}

// ID returns the identifier of the Output that is used to address the Output in the UTXODAG.
func (b *BasicOutput) ID() OutputID {
	b.idMutex.RLock()
	defer b.idMutex.RUnlock()

	return b.id
}

// SetID allows to set the identifier of the Output. We offer a setter for this property since the ID of the Output is
// only known after the transaction that contains it was constructed.
func (b *BasicOutput) SetID(outputID OutputID) Output {
	b.idMutex.Lock()
	defer b.idMutex.Unlock()

	b.id = outputID

	return b
}

// Type returns the OutputType of the Output.
func (b *BasicOutput) Type() OutputType {
	return BasicOutputType
}

// Amount returns the amount of base tokens held by the Output.
func (b *BasicOutput) Amount() uint64 {
	return b.amount
}

// Mana returns the amount of mana held by the Output.
func (b *BasicOutput) Mana() uint64 {
	return b.mana
}

// NativeTokens returns the native tokens held by the Output.
func (b *BasicOutput) NativeTokens() NativeTokens {
	return b.nativeTokens
}

// UnlockConditions returns the UnlockConditions of the Output.
func (b *BasicOutput) UnlockConditions() UnlockConditions {
	return b.unlockConditions
}

// Features returns the mutable Features of the Output.
func (b *BasicOutput) Features() Features {
	return b.features
}

// ImmutableFeatures returns the immutable Features of the Output.
func (b *BasicOutput) ImmutableFeatures() Features {
	return nil
}

// Address returns the Address of the controlling UnlockCondition of the Output.
func (b *BasicOutput) Address() Address {
	addressUnlockCondition := b.unlockConditions.Address()
	if addressUnlockCondition == nil {
		panic("BasicOutput was created without its controlling unlock condition")
	}

	return addressUnlockCondition.Address()
}

// SimpleDepositAddress returns the Address of the Output if it is a plain deposit that carries no constraint beyond
// its address unlock condition.
func (b *BasicOutput) SimpleDepositAddress() (address Address, isSimpleDeposit bool) {
	if len(b.unlockConditions) != 1 || len(b.features) != 0 || len(b.nativeTokens) != 0 || b.mana != 0 {
		return nil, false
	}
	addressUnlockCondition := b.unlockConditions.Address()
	if addressUnlockCondition == nil {
		return nil, false
	}

	return addressUnlockCondition.Address(), true
}

// UnlockableBy returns true if the given Address controls the Output at the given confirmed milestone timestamp.
func (b *BasicOutput) UnlockableBy(address Address, confirmedMilestoneTimestamp uint32) bool {
	if !b.unlockConditions.TimelocksExpired(confirmedMilestoneTimestamp) {
		return false
	}

	return b.unlockConditions.LockedAddress(b.Address(), confirmedMilestoneTimestamp).Equals(address)
}

// SyntacticallyValidate checks the Output against the validation rules that do not require transaction context.
func (b *BasicOutput) SyntacticallyValidate(protocolParameters *ProtocolParameters) (err error) {
	if err = validateAmount(b.amount, protocolParameters); err != nil {
		return err
	}
	if err = b.nativeTokens.verify(); err != nil {
		return err
	}
	if err = b.unlockConditions.verify(basicOutputAllowedUnlockConditions); err != nil {
		return err
	}
	if b.unlockConditions.Address() == nil {
		return ErrMissingAddressUnlockCondition
	}
	if err = b.features.verify(basicOutputAllowedFeatures); err != nil {
		return err
	}

	return validateRent(b, protocolParameters)
}

// Clone creates a copy of the Output.
func (b *BasicOutput) Clone() Output {
	return &BasicOutput{
		id:               b.ID(),
		amount:           b.amount,
		mana:             b.mana,
		nativeTokens:     b.nativeTokens.Clone(),
		unlockConditions: b.unlockConditions.Clone(),
		features:         b.features.Clone(),
	}
}

// Bytes returns a marshaled version of the Output.
func (b *BasicOutput) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(BasicOutputType)).
		WriteUint64(b.amount).
		WriteUint64(b.mana).
		WriteBytes(b.nativeTokens.Bytes()).
		WriteBytes(b.unlockConditions.Bytes()).
		WriteBytes(b.features.Bytes()).
		Bytes()
}

// Compare offers a comparator for Outputs which returns -1 if the other Output is bigger, 1 if it is smaller and 0 if
// they are the same.
func (b *BasicOutput) Compare(other Output) int {
	return compareOutputs(b, other)
}

// String returns a human readable version of the Output.
func (b *BasicOutput) String() string {
	return stringify.Struct("BasicOutput",
		stringify.StructField("id", b.ID()),
		stringify.StructField("amount", b.amount),
		stringify.StructField("mana", b.mana),
		stringify.StructField("nativeTokens", b.nativeTokens),
		stringify.StructField("unlockConditions", b.unlockConditions),
		stringify.StructField("features", b.features),
	)
}

// code contract (make sure the type implements all required methods)
var _ Output = &BasicOutput{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region BasicOutputBuilder ///////////////////////////////////////////////////////////////////////////////////////////

// BasicOutputBuilder accumulates the fields of a BasicOutput and validates them when the Output is finished.
type BasicOutputBuilder struct {
	amount                uint64
	minimumStorageDeposit *RentStructure
	mana                  uint64
	nativeTokens          NativeTokens
	unlockConditions      UnlockConditions
	features              Features
}

// NewBasicOutputBuilder creates a new BasicOutputBuilder with a fixed amount.
func NewBasicOutputBuilder(amount uint64) *BasicOutputBuilder {
	return &BasicOutputBuilder{
		amount: amount,
	}
}

// NewBasicOutputBuilderMinimumStorageDeposit creates a new BasicOutputBuilder whose amount is resolved to the exact
// rent cost of the finished Output.
func NewBasicOutputBuilderMinimumStorageDeposit(rentStructure *RentStructure) *BasicOutputBuilder {
	return &BasicOutputBuilder{
		minimumStorageDeposit: rentStructure,
	}
}

// NewBasicOutputBuilderFromOutput creates a new BasicOutputBuilder that starts from a copy of an existing Output.
func NewBasicOutputBuilderFromOutput(output *BasicOutput) *BasicOutputBuilder {
	return &BasicOutputBuilder{
		amount:           output.amount,
		mana:             output.mana,
		nativeTokens:     output.nativeTokens.Clone(),
		unlockConditions: output.unlockConditions.Clone(),
		features:         output.features.Clone(),
	}
}

// Amount sets the fixed amount of the Output.
func (b *BasicOutputBuilder) Amount(amount uint64) *BasicOutputBuilder {
	b.amount = amount
	b.minimumStorageDeposit = nil

	return b
}

// Mana sets the mana of the Output.
func (b *BasicOutputBuilder) Mana(mana uint64) *BasicOutputBuilder {
	b.mana = mana

	return b
}

// AddNativeToken adds the given NativeToken if no token with the same TokenID is present, keeping the first.
func (b *BasicOutputBuilder) AddNativeToken(nativeToken *NativeToken) *BasicOutputBuilder {
	if b.nativeTokens.Get(nativeToken.ID()) == nil {
		b.nativeTokens = append(b.nativeTokens, nativeToken)
		b.nativeTokens.Sort()
	}

	return b
}

// WithNativeTokens overwrites the set of NativeTokens of the Output.
func (b *BasicOutputBuilder) WithNativeTokens(nativeTokens NativeTokens) *BasicOutputBuilder {
	b.nativeTokens = nativeTokens.Clone()
	b.nativeTokens.Sort()

	return b
}

// ClearNativeTokens removes all NativeTokens from the Output.
func (b *BasicOutputBuilder) ClearNativeTokens() *BasicOutputBuilder {
	b.nativeTokens = nil

	return b
}

// AddUnlockCondition adds the given UnlockCondition if no condition of the same type is present, keeping the first.
func (b *BasicOutputBuilder) AddUnlockCondition(unlockCondition UnlockCondition) *BasicOutputBuilder {
	b.unlockConditions = b.unlockConditions.insertIfAbsent(unlockCondition)

	return b
}

// WithUnlockConditions overwrites the set of UnlockConditions of the Output.
func (b *BasicOutputBuilder) WithUnlockConditions(unlockConditions UnlockConditions) *BasicOutputBuilder {
	b.unlockConditions = unlockConditions.Clone()
	b.unlockConditions.Sort()

	return b
}

// ReplaceUnlockCondition adds the given UnlockCondition, overwriting a present condition of the same type.
func (b *BasicOutputBuilder) ReplaceUnlockCondition(unlockCondition UnlockCondition) *BasicOutputBuilder {
	b.unlockConditions = b.unlockConditions.replace(unlockCondition)

	return b
}

// ClearUnlockConditions removes all UnlockConditions from the Output.
func (b *BasicOutputBuilder) ClearUnlockConditions() *BasicOutputBuilder {
	b.unlockConditions = nil

	return b
}

// AddFeature adds the given Feature if no feature of the same type is present, keeping the first.
func (b *BasicOutputBuilder) AddFeature(feature Feature) *BasicOutputBuilder {
	b.features = b.features.insertIfAbsent(feature)

	return b
}

// WithFeatures overwrites the set of Features of the Output.
func (b *BasicOutputBuilder) WithFeatures(features Features) *BasicOutputBuilder {
	b.features = features.Clone()
	b.features.Sort()

	return b
}

// ReplaceFeature adds the given Feature, overwriting a present feature of the same type.
func (b *BasicOutputBuilder) ReplaceFeature(feature Feature) *BasicOutputBuilder {
	b.features = b.features.replace(feature)

	return b
}

// ClearFeatures removes all Features from the Output.
func (b *BasicOutputBuilder) ClearFeatures() *BasicOutputBuilder {
	b.features = nil

	return b
}

// WithSufficientStorageDeposit tops the amount of the Output up to its own rent cost if it falls short, adding a
// StorageDepositReturnUnlockCondition that obliges the consumer to return the difference to the given return address.
// The rent cost is recomputed once after the condition was added since the condition itself grows the Output.
func (b *BasicOutputBuilder) WithSufficientStorageDeposit(returnAddress Address, rentStructure *RentStructure) *BasicOutputBuilder {
	requiredDeposit := rentStructure.MinRent(b.build())
	if b.amount >= requiredDeposit {
		return b
	}
	originalAmount := b.amount

	b.unlockConditions = b.unlockConditions.replace(NewStorageDepositReturnUnlockCondition(returnAddress, 0))
	requiredDeposit = rentStructure.MinRent(b.build())

	b.amount = requiredDeposit
	b.unlockConditions = b.unlockConditions.replace(NewStorageDepositReturnUnlockCondition(returnAddress, requiredDeposit-originalAmount))

	return b
}

// Finish validates the accumulated fields and produces an immutable BasicOutput.
func (b *BasicOutputBuilder) Finish() (output *BasicOutput, err error) {
	return b.FinishWithParams(nil)
}

// FinishWithParams validates the accumulated fields against the given protocol parameters and produces an immutable
// BasicOutput.
func (b *BasicOutputBuilder) FinishWithParams(protocolParameters *ProtocolParameters) (output *BasicOutput, err error) {
	b.resolveMinimumStorageDeposit()

	output = b.build()
	if err = output.SyntacticallyValidate(protocolParameters); err != nil {
		return nil, err
	}

	return output, nil
}

// build assembles the Output from the accumulated fields without validating it.
func (b *BasicOutputBuilder) build() *BasicOutput {
	return &BasicOutput{
		amount:           b.amount,
		mana:             b.mana,
		nativeTokens:     b.nativeTokens,
		unlockConditions: b.unlockConditions,
		features:         b.features,
	}
}

// resolveMinimumStorageDeposit replaces a lazy minimum-storage-deposit amount policy with the exact rent cost of the
// Output. The amount is encoded with a fixed width so resolving it does not change the rent cost again.
func (b *BasicOutputBuilder) resolveMinimumStorageDeposit() {
	if b.minimumStorageDeposit == nil {
		return
	}

	b.amount = b.minimumStorageDeposit.MinRent(b.build())
	b.minimumStorageDeposit = nil
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
