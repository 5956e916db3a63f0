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

// region AliasOutput //////////////////////////////////////////////////////////////////////////////////////////////////

var (
	aliasOutputAllowedUnlockConditions = bitmask.BitMask(0).
		SetBit(uint(StateControllerAddressUnlockConditionType)).
		SetBit(uint(GovernorAddressUnlockConditionType))

	aliasOutputAllowedFeatures = bitmask.BitMask(0).
		SetBit(uint(SenderFeatureType)).
		SetBit(uint(MetadataFeatureType))

	aliasOutputAllowedImmutableFeatures = bitmask.BitMask(0).
		SetBit(uint(IssuerFeatureType)).
		SetBit(uint(MetadataFeatureType))
)

// AliasOutput is a chain Output that tracks arbitrary on-ledger state and controls the foundries that were created on
// its behalf.
type AliasOutput struct {
	id                OutputID
	idMutex           sync.RWMutex
	amount            uint64
	nativeTokens      NativeTokens
	aliasID           AliasID
	stateIndex        uint32
	stateMetadata     []byte
	foundryCounter    uint32
	unlockConditions  UnlockConditions
	features          Features
	immutableFeatures Features
}

// AliasOutputFromBytes unmarshals an AliasOutput from a sequence of bytes.
func AliasOutputFromBytes(data []byte, deSeriMode serializer.DeSerializationMode, protocolParameters *ProtocolParameters) (output *AliasOutput, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(data)
	if output, err = AliasOutputFromMarshalUtil(marshalUtil, deSeriMode, protocolParameters); err != nil {
		err = xerrors.Errorf("failed to parse AliasOutput from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// AliasOutputFromMarshalUtil unmarshals an AliasOutput using a MarshalUtil (for easier unmarshaling).
func AliasOutputFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil, deSeriMode serializer.DeSerializationMode, protocolParameters *ProtocolParameters) (output *AliasOutput, err error) {
	outputType, err := marshalUtil.ReadByte()
	if err != nil {
		err = xerrors.Errorf("failed to parse OutputType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if OutputType(outputType) != AliasOutputType {
		err = xerrors.Errorf("invalid OutputType (%X): %w", outputType, cerrors.ErrParseBytesFailed)
		return
	}

	output = &AliasOutput{}
	if output.amount, err = marshalUtil.ReadUint64(); err != nil {
		err = xerrors.Errorf("failed to parse amount (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if output.nativeTokens, err = NativeTokensFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse NativeTokens: %w", err)
		return
	}
	if output.aliasID, err = AliasIDFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse AliasID: %w", err)
		return
	}
	if output.stateIndex, err = marshalUtil.ReadUint32(); err != nil {
		err = xerrors.Errorf("failed to parse state index (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	stateMetadataLength, err := marshalUtil.ReadUint16()
	if err != nil {
		err = xerrors.Errorf("failed to parse state metadata length (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if stateMetadataLength > MaxMetadataLength {
		err = xerrors.Errorf("state metadata length %d exceeds maximum length of %d: %w", stateMetadataLength, MaxMetadataLength, cerrors.ErrParseBytesFailed)
		return
	}
	if stateMetadataLength > 0 {
		if output.stateMetadata, err = marshalUtil.ReadBytes(int(stateMetadataLength)); err != nil {
			err = xerrors.Errorf("failed to parse state metadata (%v): %w", err, cerrors.ErrParseBytesFailed)
			return
		}
	}
	if output.foundryCounter, err = marshalUtil.ReadUint32(); err != nil {
		err = xerrors.Errorf("failed to parse foundry counter (%v): %w", err, cerrors.ErrParseBytesFailed)
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
			err = xerrors.Errorf("failed to validate AliasOutput: %w", err)
			return
		}
	}

	return
}

// ID returns the identifier of the Output that is used to address the Output in the UTXODAG.
func (a *AliasOutput) ID() OutputID {
	a.idMutex.RLock()
	defer a.idMutex.RUnlock()

	return a.id
}

// SetID allows to set the identifier of the Output. We offer a setter for this property since the ID of the Output is
// only known after the transaction that contains it was constructed.
func (a *AliasOutput) SetID(outputID OutputID) Output {
	a.idMutex.Lock()
	defer a.idMutex.Unlock()

	a.id = outputID

	return a
}

// Type returns the OutputType of the Output.
func (a *AliasOutput) Type() OutputType {
	return AliasOutputType
}

// Amount returns the amount of base tokens held by the Output.
func (a *AliasOutput) Amount() uint64 {
	return a.amount
}

// NativeTokens returns the native tokens held by the Output.
func (a *AliasOutput) NativeTokens() NativeTokens {
	return a.nativeTokens
}

// AliasID returns the identifier of the alias chain that the Output belongs to.
func (a *AliasOutput) AliasID() AliasID {
	return a.aliasID
}

// StateIndex returns the index of the alias state tracked by the Output.
func (a *AliasOutput) StateIndex() uint32 {
	return a.stateIndex
}

// StateMetadata returns the arbitrary state metadata of the Output.
func (a *AliasOutput) StateMetadata() []byte {
	return a.stateMetadata
}

// FoundryCounter returns the number of foundries that were created on behalf of the alias.
func (a *AliasOutput) FoundryCounter() uint32 {
	return a.foundryCounter
}

// UnlockConditions returns the UnlockConditions of the Output.
func (a *AliasOutput) UnlockConditions() UnlockConditions {
	return a.unlockConditions
}

// Features returns the mutable Features of the Output.
func (a *AliasOutput) Features() Features {
	return a.features
}

// ImmutableFeatures returns the immutable Features of the Output.
func (a *AliasOutput) ImmutableFeatures() Features {
	return a.immutableFeatures
}

// Chain returns the ChainID of the Output. The zero ChainID of a freshly created alias is resolved from its OutputID.
func (a *AliasOutput) Chain() ChainID {
	return a.aliasID.OrFromOutputID(a.ID()).ChainID()
}

// AliasAddress returns the AliasAddress that the Output can be referenced by.
func (a *AliasOutput) AliasAddress() *AliasAddress {
	return NewAliasAddress(a.aliasID.OrFromOutputID(a.ID()))
}

// StateControllerAddress returns the Address that controls state transitions of the alias.
func (a *AliasOutput) StateControllerAddress() Address {
	stateController := a.unlockConditions.StateControllerAddress()
	if stateController == nil {
		panic("AliasOutput was created without its state controller unlock condition")
	}

	return stateController.Address()
}

// GovernorAddress returns the Address that controls governance transitions of the alias.
func (a *AliasOutput) GovernorAddress() Address {
	governor := a.unlockConditions.GovernorAddress()
	if governor == nil {
		panic("AliasOutput was created without its governor unlock condition")
	}

	return governor.Address()
}

// Address returns the Address of the controlling UnlockCondition of the Output. For an alias the state controller is
// the default controlling identity.
func (a *AliasOutput) Address() Address {
	return a.StateControllerAddress()
}

// UnlockableBy returns true if the given Address controls the Output at the given confirmed milestone timestamp.
func (a *AliasOutput) UnlockableBy(address Address, confirmedMilestoneTimestamp uint32) bool {
	return a.StateControllerAddress().Equals(address) || a.GovernorAddress().Equals(address)
}

// SyntacticallyValidate checks the Output against the validation rules that do not require transaction context.
func (a *AliasOutput) SyntacticallyValidate(protocolParameters *ProtocolParameters) (err error) {
	if err = validateAmount(a.amount, protocolParameters); err != nil {
		return err
	}
	if err = a.nativeTokens.verify(); err != nil {
		return err
	}
	if err = a.unlockConditions.verify(aliasOutputAllowedUnlockConditions); err != nil {
		return err
	}
	if a.unlockConditions.StateControllerAddress() == nil || a.unlockConditions.GovernorAddress() == nil {
		return ErrMissingAddressUnlockCondition
	}
	if selfAddress := NewAliasAddress(a.aliasID); a.StateControllerAddress().Equals(selfAddress) || a.GovernorAddress().Equals(selfAddress) {
		return xerrors.Errorf("alias must not control itself: %w", ErrDisallowedUnlockCondition)
	}
	if err = a.features.verify(aliasOutputAllowedFeatures); err != nil {
		return err
	}
	if err = a.immutableFeatures.verify(aliasOutputAllowedImmutableFeatures); err != nil {
		return err
	}
	if len(a.stateMetadata) > MaxMetadataLength {
		return xerrors.Errorf("state metadata exceeds maximum length of %d: %w", MaxMetadataLength, cerrors.ErrFatal)
	}
	if a.aliasID.IsEmpty() && (a.stateIndex != 0 || a.foundryCounter != 0) {
		return xerrors.Errorf("state index and foundry counter of a freshly created alias must be zero: %w", cerrors.ErrFatal)
	}

	return validateRent(a, protocolParameters)
}

// Clone creates a copy of the Output.
func (a *AliasOutput) Clone() Output {
	stateMetadataCopy := make([]byte, len(a.stateMetadata))
	copy(stateMetadataCopy, a.stateMetadata)

	return &AliasOutput{
		id:                a.ID(),
		amount:            a.amount,
		nativeTokens:      a.nativeTokens.Clone(),
		aliasID:           a.aliasID,
		stateIndex:        a.stateIndex,
		stateMetadata:     stateMetadataCopy,
		foundryCounter:    a.foundryCounter,
		unlockConditions:  a.unlockConditions.Clone(),
		features:          a.features.Clone(),
		immutableFeatures: a.immutableFeatures.Clone(),
	}
}

// Bytes returns a marshaled version of the Output.
func (a *AliasOutput) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(AliasOutputType)).
		WriteUint64(a.amount).
		WriteBytes(a.nativeTokens.Bytes()).
		WriteBytes(a.aliasID.Bytes()).
		WriteUint32(a.stateIndex).
		WriteUint16(uint16(len(a.stateMetadata))).
		WriteBytes(a.stateMetadata).
		WriteUint32(a.foundryCounter).
		WriteBytes(a.unlockConditions.Bytes()).
		WriteBytes(a.features.Bytes()).
		WriteBytes(a.immutableFeatures.Bytes()).
		Bytes()
}

// Compare offers a comparator for Outputs which returns -1 if the other Output is bigger, 1 if it is smaller and 0 if
// they are the same.
func (a *AliasOutput) Compare(other Output) int {
	return compareOutputs(a, other)
}

// String returns a human readable version of the Output.
func (a *AliasOutput) String() string {
	return stringify.Struct("AliasOutput",
		stringify.StructField("id", a.ID()),
		stringify.StructField("amount", a.amount),
		stringify.StructField("nativeTokens", a.nativeTokens),
		stringify.StructField("aliasID", a.aliasID),
		stringify.StructField("stateIndex", a.stateIndex),
		stringify.StructField("stateMetadata", a.stateMetadata),
		stringify.StructField("foundryCounter", a.foundryCounter),
		stringify.StructField("unlockConditions", a.unlockConditions),
		stringify.StructField("features", a.features),
		stringify.StructField("immutableFeatures", a.immutableFeatures),
	)
}

// code contracts (make sure the type implements all required methods)
var (
	_ Output      = &AliasOutput{}
	_ ChainOutput = &AliasOutput{}
)

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region AliasOutputBuilder ///////////////////////////////////////////////////////////////////////////////////////////

// AliasOutputBuilder accumulates the fields of an AliasOutput and validates them when the Output is finished.
type AliasOutputBuilder struct {
	amount                uint64
	minimumStorageDeposit *RentStructure
	nativeTokens          NativeTokens
	aliasID               AliasID
	stateIndex            uint32
	stateMetadata         []byte
	foundryCounter        uint32
	unlockConditions      UnlockConditions
	features              Features
	immutableFeatures     Features
}

// NewAliasOutputBuilder creates a new AliasOutputBuilder with a fixed amount.
func NewAliasOutputBuilder(amount uint64, aliasID AliasID) *AliasOutputBuilder {
	return &AliasOutputBuilder{
		amount:  amount,
		aliasID: aliasID,
	}
}

// NewAliasOutputBuilderMinimumStorageDeposit creates a new AliasOutputBuilder whose amount is resolved to the exact
// rent cost of the finished Output.
func NewAliasOutputBuilderMinimumStorageDeposit(rentStructure *RentStructure, aliasID AliasID) *AliasOutputBuilder {
	return &AliasOutputBuilder{
		minimumStorageDeposit: rentStructure,
		aliasID:               aliasID,
	}
}

// NewAliasOutputBuilderFromOutput creates a new AliasOutputBuilder that starts from a copy of an existing Output.
func NewAliasOutputBuilderFromOutput(output *AliasOutput) *AliasOutputBuilder {
	stateMetadataCopy := make([]byte, len(output.stateMetadata))
	copy(stateMetadataCopy, output.stateMetadata)

	return &AliasOutputBuilder{
		amount:            output.amount,
		nativeTokens:      output.nativeTokens.Clone(),
		aliasID:           output.aliasID,
		stateIndex:        output.stateIndex,
		stateMetadata:     stateMetadataCopy,
		foundryCounter:    output.foundryCounter,
		unlockConditions:  output.unlockConditions.Clone(),
		features:          output.features.Clone(),
		immutableFeatures: output.immutableFeatures.Clone(),
	}
}

// Amount sets the fixed amount of the Output.
func (b *AliasOutputBuilder) Amount(amount uint64) *AliasOutputBuilder {
	b.amount = amount
	b.minimumStorageDeposit = nil

	return b
}

// AliasID sets the identifier of the alias chain.
func (b *AliasOutputBuilder) AliasID(aliasID AliasID) *AliasOutputBuilder {
	b.aliasID = aliasID

	return b
}

// StateIndex sets the index of the alias state.
func (b *AliasOutputBuilder) StateIndex(stateIndex uint32) *AliasOutputBuilder {
	b.stateIndex = stateIndex

	return b
}

// StateMetadata sets the arbitrary state metadata of the alias.
func (b *AliasOutputBuilder) StateMetadata(stateMetadata []byte) *AliasOutputBuilder {
	stateMetadataCopy := make([]byte, len(stateMetadata))
	copy(stateMetadataCopy, stateMetadata)
	b.stateMetadata = stateMetadataCopy

	return b
}

// FoundryCounter sets the number of foundries that were created on behalf of the alias.
func (b *AliasOutputBuilder) FoundryCounter(foundryCounter uint32) *AliasOutputBuilder {
	b.foundryCounter = foundryCounter

	return b
}

// AddNativeToken adds the given NativeToken if no token with the same TokenID is present, keeping the first.
func (b *AliasOutputBuilder) AddNativeToken(nativeToken *NativeToken) *AliasOutputBuilder {
	if b.nativeTokens.Get(nativeToken.ID()) == nil {
		b.nativeTokens = append(b.nativeTokens, nativeToken)
		b.nativeTokens.Sort()
	}

	return b
}

// WithNativeTokens overwrites the set of NativeTokens of the Output.
func (b *AliasOutputBuilder) WithNativeTokens(nativeTokens NativeTokens) *AliasOutputBuilder {
	b.nativeTokens = nativeTokens.Clone()
	b.nativeTokens.Sort()

	return b
}

// ClearNativeTokens removes all NativeTokens from the Output.
func (b *AliasOutputBuilder) ClearNativeTokens() *AliasOutputBuilder {
	b.nativeTokens = nil

	return b
}

// AddUnlockCondition adds the given UnlockCondition if no condition of the same type is present, keeping the first.
func (b *AliasOutputBuilder) AddUnlockCondition(unlockCondition UnlockCondition) *AliasOutputBuilder {
	b.unlockConditions = b.unlockConditions.insertIfAbsent(unlockCondition)

	return b
}

// WithUnlockConditions overwrites the set of UnlockConditions of the Output.
func (b *AliasOutputBuilder) WithUnlockConditions(unlockConditions UnlockConditions) *AliasOutputBuilder {
	b.unlockConditions = unlockConditions.Clone()
	b.unlockConditions.Sort()

	return b
}

// ReplaceUnlockCondition adds the given UnlockCondition, overwriting a present condition of the same type.
func (b *AliasOutputBuilder) ReplaceUnlockCondition(unlockCondition UnlockCondition) *AliasOutputBuilder {
	b.unlockConditions = b.unlockConditions.replace(unlockCondition)

	return b
}

// ClearUnlockConditions removes all UnlockConditions from the Output.
func (b *AliasOutputBuilder) ClearUnlockConditions() *AliasOutputBuilder {
	b.unlockConditions = nil

	return b
}

// AddFeature adds the given Feature if no feature of the same type is present, keeping the first.
func (b *AliasOutputBuilder) AddFeature(feature Feature) *AliasOutputBuilder {
	b.features = b.features.insertIfAbsent(feature)

	return b
}

// WithFeatures overwrites the set of mutable Features of the Output.
func (b *AliasOutputBuilder) WithFeatures(features Features) *AliasOutputBuilder {
	b.features = features.Clone()
	b.features.Sort()

	return b
}

// ReplaceFeature adds the given Feature, overwriting a present feature of the same type.
func (b *AliasOutputBuilder) ReplaceFeature(feature Feature) *AliasOutputBuilder {
	b.features = b.features.replace(feature)

	return b
}

// ClearFeatures removes all mutable Features from the Output.
func (b *AliasOutputBuilder) ClearFeatures() *AliasOutputBuilder {
	b.features = nil

	return b
}

// AddImmutableFeature adds the given immutable Feature if no feature of the same type is present, keeping the first.
func (b *AliasOutputBuilder) AddImmutableFeature(feature Feature) *AliasOutputBuilder {
	b.immutableFeatures = b.immutableFeatures.insertIfAbsent(feature)

	return b
}

// WithImmutableFeatures overwrites the set of immutable Features of the Output.
func (b *AliasOutputBuilder) WithImmutableFeatures(features Features) *AliasOutputBuilder {
	b.immutableFeatures = features.Clone()
	b.immutableFeatures.Sort()

	return b
}

// ClearImmutableFeatures removes all immutable Features from the Output.
func (b *AliasOutputBuilder) ClearImmutableFeatures() *AliasOutputBuilder {
	b.immutableFeatures = nil

	return b
}

// Finish validates the accumulated fields and produces an immutable AliasOutput.
func (b *AliasOutputBuilder) Finish() (output *AliasOutput, err error) {
	return b.FinishWithParams(nil)
}

// FinishWithParams validates the accumulated fields against the given protocol parameters and produces an immutable
// AliasOutput.
func (b *AliasOutputBuilder) FinishWithParams(protocolParameters *ProtocolParameters) (output *AliasOutput, err error) {
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
func (b *AliasOutputBuilder) build() *AliasOutput {
	return &AliasOutput{
		amount:            b.amount,
		nativeTokens:      b.nativeTokens,
		aliasID:           b.aliasID,
		stateIndex:        b.stateIndex,
		stateMetadata:     b.stateMetadata,
		foundryCounter:    b.foundryCounter,
		unlockConditions:  b.unlockConditions,
		features:          b.features,
		immutableFeatures: b.immutableFeatures,
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
