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

// region FoundryOutput ////////////////////////////////////////////////////////////////////////////////////////////////

var (
	foundryOutputAllowedUnlockConditions = bitmask.BitMask(0).
		SetBit(uint(ImmutableAliasAddressUnlockConditionType))

	foundryOutputAllowedFeatures = bitmask.BitMask(0).
		SetBit(uint(MetadataFeatureType))

	foundryOutputAllowedImmutableFeatures = bitmask.BitMask(0).
		SetBit(uint(MetadataFeatureType))
)

// FoundryOutput is a chain Output that controls the supply of a single native token on behalf of its owning alias.
type FoundryOutput struct {
	id                OutputID
	idMutex           sync.RWMutex
	amount            uint64
	nativeTokens      NativeTokens
	serialNumber      uint32
	tokenScheme       TokenScheme
	unlockConditions  UnlockConditions
	features          Features
	immutableFeatures Features
}

// FoundryOutputFromBytes unmarshals a FoundryOutput from a sequence of bytes.
func FoundryOutputFromBytes(data []byte, deSeriMode serializer.DeSerializationMode, protocolParameters *ProtocolParameters) (output *FoundryOutput, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(data)
	if output, err = FoundryOutputFromMarshalUtil(marshalUtil, deSeriMode, protocolParameters); err != nil {
		err = xerrors.Errorf("failed to parse FoundryOutput from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// FoundryOutputFromMarshalUtil unmarshals a FoundryOutput using a MarshalUtil (for easier unmarshaling).
func FoundryOutputFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil, deSeriMode serializer.DeSerializationMode, protocolParameters *ProtocolParameters) (output *FoundryOutput, err error) {
	outputType, err := marshalUtil.ReadByte()
	if err != nil {
		err = xerrors.Errorf("failed to parse OutputType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if OutputType(outputType) != FoundryOutputType {
		err = xerrors.Errorf("invalid OutputType (%X): %w", outputType, cerrors.ErrParseBytesFailed)
		return
	}

	output = &FoundryOutput{}
	if output.amount, err = marshalUtil.ReadUint64(); err != nil {
		err = xerrors.Errorf("failed to parse amount (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if output.nativeTokens, err = NativeTokensFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse NativeTokens: %w", err)
		return
	}
	if output.serialNumber, err = marshalUtil.ReadUint32(); err != nil {
		err = xerrors.Errorf("failed to parse serial number (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if output.tokenScheme, err = TokenSchemeFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse TokenScheme: %w", err)
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
	if output.immutableFeatures, err = FeaturesFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse immutable Features: %w", err)
		return
	}

	if deSeriMode.HasMode(serializer.DeSeriModePerformValidation) {
		if err = output.SyntacticallyValidate(protocolParameters); err != nil {
			err = xerrors.Errorf("failed to validate FoundryOutput: %w", err)
			return
		}
	}

	return
}

// ID returns the identifier of the Output that is used to address the Output in the UTXODAG.
func (f *FoundryOutput) ID() OutputID {
	f.idMutex.RLock()
	defer f.idMutex.RUnlock()

	return f.id
}

// SetID allows to set the identifier of the Output. We offer a setter for this property since the ID of the Output is
// only known after the transaction that contains it was constructed.
func (f *FoundryOutput) SetID(outputID OutputID) Output {
	f.idMutex.Lock()
	defer f.idMutex.Unlock()

	f.id = outputID

	return f
}

// Type returns the OutputType of the Output.
func (f *FoundryOutput) Type() OutputType {
	return FoundryOutputType
}

// Amount returns the amount of base tokens held by the Output.
func (f *FoundryOutput) Amount() uint64 {
	return f.amount
}

// NativeTokens returns the native tokens held by the Output.
func (f *FoundryOutput) NativeTokens() NativeTokens {
	return f.nativeTokens
}

// SerialNumber returns the serial number that the owning alias assigned to the foundry.
func (f *FoundryOutput) SerialNumber() uint32 {
	return f.serialNumber
}

// TokenScheme returns the supply accounting of the foundry's native token.
func (f *FoundryOutput) TokenScheme() TokenScheme {
	return f.tokenScheme
}

// UnlockConditions returns the UnlockConditions of the Output.
func (f *FoundryOutput) UnlockConditions() UnlockConditions {
	return f.unlockConditions
}

// Features returns the mutable Features of the Output.
func (f *FoundryOutput) Features() Features {
	return f.features
}

// ImmutableFeatures returns the immutable Features of the Output.
func (f *FoundryOutput) ImmutableFeatures() Features {
	return f.immutableFeatures
}

// AliasAddress returns the address of the alias that owns the foundry.
func (f *FoundryOutput) AliasAddress() *AliasAddress {
	immutableAliasAddress := f.unlockConditions.ImmutableAliasAddress()
	if immutableAliasAddress == nil {
		panic("FoundryOutput was created without its immutable alias address unlock condition")
	}

	return immutableAliasAddress.Address()
}

// FoundryID returns the identifier of the foundry derived from its owning alias, serial number and token scheme.
func (f *FoundryOutput) FoundryID() FoundryID {
	return NewFoundryID(f.AliasAddress(), f.serialNumber, f.tokenScheme.Type())
}

// TokenID returns the identifier of the native token controlled by the foundry.
func (f *FoundryOutput) TokenID() TokenID {
	return f.FoundryID().TokenID()
}

// Chain returns the ChainID of the Output.
func (f *FoundryOutput) Chain() ChainID {
	return f.FoundryID().ChainID()
}

// Address returns the Address of the controlling UnlockCondition of the Output.
func (f *FoundryOutput) Address() Address {
	return f.AliasAddress()
}

// UnlockableBy returns true if the given Address controls the Output at the given confirmed milestone timestamp.
func (f *FoundryOutput) UnlockableBy(address Address, confirmedMilestoneTimestamp uint32) bool {
	return f.AliasAddress().Equals(address)
}

// SyntacticallyValidate checks the Output against the validation rules that do not require transaction context.
func (f *FoundryOutput) SyntacticallyValidate(protocolParameters *ProtocolParameters) (err error) {
	if err = validateAmount(f.amount, protocolParameters); err != nil {
		return err
	}
	if err = f.nativeTokens.verify(); err != nil {
		return err
	}
	if f.serialNumber == 0 {
		return ErrInvalidFoundryZeroSerialNumber
	}
	if err = f.unlockConditions.verify(foundryOutputAllowedUnlockConditions); err != nil {
		return err
	}
	if f.unlockConditions.ImmutableAliasAddress() == nil {
		return ErrMissingAddressUnlockCondition
	}
	if err = f.features.verify(foundryOutputAllowedFeatures); err != nil {
		return err
	}
	if err = f.immutableFeatures.verify(foundryOutputAllowedImmutableFeatures); err != nil {
		return err
	}
	if simpleTokenScheme, isSimple := f.tokenScheme.(*SimpleTokenScheme); isSimple {
		if err = simpleTokenScheme.verify(); err != nil {
			return err
		}
	}

	return validateRent(f, protocolParameters)
}

// Clone creates a copy of the Output.
func (f *FoundryOutput) Clone() Output {
	return &FoundryOutput{
		id:                f.ID(),
		amount:            f.amount,
		nativeTokens:      f.nativeTokens.Clone(),
		serialNumber:      f.serialNumber,
		tokenScheme:       f.tokenScheme.Clone(),
		unlockConditions:  f.unlockConditions.Clone(),
		features:          f.features.Clone(),
		immutableFeatures: f.immutableFeatures.Clone(),
	}
}

// Bytes returns a marshaled version of the Output.
func (f *FoundryOutput) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(FoundryOutputType)).
		WriteUint64(f.amount).
		WriteBytes(f.nativeTokens.Bytes()).
		WriteUint32(f.serialNumber).
		WriteBytes(f.tokenScheme.Bytes()).
		WriteBytes(f.unlockConditions.Bytes()).
		WriteBytes(f.features.Bytes()).
		WriteBytes(f.immutableFeatures.Bytes()).
		Bytes()
}

// Compare offers a comparator for Outputs which returns -1 if the other Output is bigger, 1 if it is smaller and 0 if
// they are the same.
func (f *FoundryOutput) Compare(other Output) int {
	return compareOutputs(f, other)
}

// String returns a human readable version of the Output.
func (f *FoundryOutput) String() string {
	return stringify.Struct("FoundryOutput",
		stringify.StructField("id", f.ID()),
		stringify.StructField("amount", f.amount),
		stringify.StructField("nativeTokens", f.nativeTokens),
		stringify.StructField("serialNumber", f.serialNumber),
		stringify.StructField("tokenScheme", f.tokenScheme),
		stringify.StructField("unlockConditions", f.unlockConditions),
		stringify.StructField("features", f.features),
		stringify.StructField("immutableFeatures", f.immutableFeatures),
	)
}

// code contracts (make sure the type implements all required methods)
var (
	_ Output      = &FoundryOutput{}
	_ ChainOutput = &FoundryOutput{}
)

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region FoundryOutputBuilder /////////////////////////////////////////////////////////////////////////////////////////

// FoundryOutputBuilder accumulates the fields of a FoundryOutput and validates them when the Output is finished.
type FoundryOutputBuilder struct {
	amount                uint64
	minimumStorageDeposit *RentStructure
	nativeTokens          NativeTokens
	serialNumber          uint32
	tokenScheme           TokenScheme
	unlockConditions      UnlockConditions
	features              Features
	immutableFeatures     Features
}

// NewFoundryOutputBuilder creates a new FoundryOutputBuilder with a fixed amount.
func NewFoundryOutputBuilder(amount uint64, serialNumber uint32, tokenScheme TokenScheme) *FoundryOutputBuilder {
	return &FoundryOutputBuilder{
		amount:       amount,
		serialNumber: serialNumber,
		tokenScheme:  tokenScheme,
	}
}

// NewFoundryOutputBuilderMinimumStorageDeposit creates a new FoundryOutputBuilder whose amount is resolved to the
// exact rent cost of the finished Output.
func NewFoundryOutputBuilderMinimumStorageDeposit(rentStructure *RentStructure, serialNumber uint32, tokenScheme TokenScheme) *FoundryOutputBuilder {
	return &FoundryOutputBuilder{
		minimumStorageDeposit: rentStructure,
		serialNumber:          serialNumber,
		tokenScheme:           tokenScheme,
	}
}

// NewFoundryOutputBuilderFromOutput creates a new FoundryOutputBuilder that starts from a copy of an existing Output.
func NewFoundryOutputBuilderFromOutput(output *FoundryOutput) *FoundryOutputBuilder {
	return &FoundryOutputBuilder{
		amount:            output.amount,
		nativeTokens:      output.nativeTokens.Clone(),
		serialNumber:      output.serialNumber,
		tokenScheme:       output.tokenScheme.Clone(),
		unlockConditions:  output.unlockConditions.Clone(),
		features:          output.features.Clone(),
		immutableFeatures: output.immutableFeatures.Clone(),
	}
}

// Amount sets the fixed amount of the Output.
func (b *FoundryOutputBuilder) Amount(amount uint64) *FoundryOutputBuilder {
	b.amount = amount
	b.minimumStorageDeposit = nil

	return b
}

// SerialNumber sets the serial number of the foundry.
func (b *FoundryOutputBuilder) SerialNumber(serialNumber uint32) *FoundryOutputBuilder {
	b.serialNumber = serialNumber

	return b
}

// TokenScheme sets the supply accounting of the foundry's native token.
func (b *FoundryOutputBuilder) TokenScheme(tokenScheme TokenScheme) *FoundryOutputBuilder {
	b.tokenScheme = tokenScheme

	return b
}

// AddNativeToken adds the given NativeToken if no token with the same TokenID is present, keeping the first.
func (b *FoundryOutputBuilder) AddNativeToken(nativeToken *NativeToken) *FoundryOutputBuilder {
	if b.nativeTokens.Get(nativeToken.ID()) == nil {
		b.nativeTokens = append(b.nativeTokens, nativeToken)
		b.nativeTokens.Sort()
	}

	return b
}

// WithNativeTokens overwrites the set of NativeTokens of the Output.
func (b *FoundryOutputBuilder) WithNativeTokens(nativeTokens NativeTokens) *FoundryOutputBuilder {
	b.nativeTokens = nativeTokens.Clone()
	b.nativeTokens.Sort()

	return b
}

// ClearNativeTokens removes all NativeTokens from the Output.
func (b *FoundryOutputBuilder) ClearNativeTokens() *FoundryOutputBuilder {
	b.nativeTokens = nil

	return b
}

// AddUnlockCondition adds the given UnlockCondition if no condition of the same type is present, keeping the first.
func (b *FoundryOutputBuilder) AddUnlockCondition(unlockCondition UnlockCondition) *FoundryOutputBuilder {
	b.unlockConditions = b.unlockConditions.insertIfAbsent(unlockCondition)

	return b
}

// WithUnlockConditions overwrites the set of UnlockConditions of the Output.
func (b *FoundryOutputBuilder) WithUnlockConditions(unlockConditions UnlockConditions) *FoundryOutputBuilder {
	b.unlockConditions = unlockConditions.Clone()
	b.unlockConditions.Sort()

	return b
}

// ReplaceUnlockCondition adds the given UnlockCondition, overwriting a present condition of the same type.
func (b *FoundryOutputBuilder) ReplaceUnlockCondition(unlockCondition UnlockCondition) *FoundryOutputBuilder {
	b.unlockConditions = b.unlockConditions.replace(unlockCondition)

	return b
}

// ClearUnlockConditions removes all UnlockConditions from the Output.
func (b *FoundryOutputBuilder) ClearUnlockConditions() *FoundryOutputBuilder {
	b.unlockConditions = nil

	return b
}

// AddFeature adds the given Feature if no feature of the same type is present, keeping the first.
func (b *FoundryOutputBuilder) AddFeature(feature Feature) *FoundryOutputBuilder {
	b.features = b.features.insertIfAbsent(feature)

	return b
}

// WithFeatures overwrites the set of mutable Features of the Output.
func (b *FoundryOutputBuilder) WithFeatures(features Features) *FoundryOutputBuilder {
	b.features = features.Clone()
	b.features.Sort()

	return b
}

// ReplaceFeature adds the given Feature, overwriting a present feature of the same type.
func (b *FoundryOutputBuilder) ReplaceFeature(feature Feature) *FoundryOutputBuilder {
	b.features = b.features.replace(feature)

	return b
}

// ClearFeatures removes all mutable Features from the Output.
func (b *FoundryOutputBuilder) ClearFeatures() *FoundryOutputBuilder {
	b.features = nil

	return b
}

// AddImmutableFeature adds the given immutable Feature if no feature of the same type is present, keeping the first.
func (b *FoundryOutputBuilder) AddImmutableFeature(feature Feature) *FoundryOutputBuilder {
	b.immutableFeatures = b.immutableFeatures.insertIfAbsent(feature)

	return b
}

// WithImmutableFeatures overwrites the set of immutable Features of the Output.
func (b *FoundryOutputBuilder) WithImmutableFeatures(features Features) *FoundryOutputBuilder {
	b.immutableFeatures = features.Clone()
	b.immutableFeatures.Sort()

	return b
}

// ClearImmutableFeatures removes all immutable Features from the Output.
func (b *FoundryOutputBuilder) ClearImmutableFeatures() *FoundryOutputBuilder {
	b.immutableFeatures = nil

	return b
}

// Finish validates the accumulated fields and produces an immutable FoundryOutput.
func (b *FoundryOutputBuilder) Finish() (output *FoundryOutput, err error) {
	return b.FinishWithParams(nil)
}

// FinishWithParams validates the accumulated fields against the given protocol parameters and produces an immutable
// FoundryOutput.
func (b *FoundryOutputBuilder) FinishWithParams(protocolParameters *ProtocolParameters) (output *FoundryOutput, err error) {
	if b.minimumStorageDeposit != nil {
		// the rent of the intermediate state is computed with a placeholder amount
		b.amount = 1
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
func (b *FoundryOutputBuilder) build() *FoundryOutput {
	return &FoundryOutput{
		amount:            b.amount,
		nativeTokens:      b.nativeTokens,
		serialNumber:      b.serialNumber,
		tokenScheme:       b.tokenScheme,
		unlockConditions:  b.unlockConditions,
		features:          b.features,
		immutableFeatures: b.immutableFeatures,
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
