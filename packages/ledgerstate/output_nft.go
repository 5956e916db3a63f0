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

// region NFTOutput ////////////////////////////////////////////////////////////////////////////////////////////////////

var (
	nftOutputAllowedUnlockConditions = bitmask.BitMask(0).
		SetBit(uint(AddressUnlockConditionType)).
		SetBit(uint(StorageDepositReturnUnlockConditionType)).
		SetBit(uint(TimelockUnlockConditionType)).
		SetBit(uint(ExpirationUnlockConditionType))

	nftOutputAllowedFeatures = bitmask.BitMask(0).
		SetBit(uint(SenderFeatureType)).
		SetBit(uint(MetadataFeatureType)).
		SetBit(uint(TagFeatureType))

	nftOutputAllowedImmutableFeatures = bitmask.BitMask(0).
		SetBit(uint(IssuerFeatureType)).
		SetBit(uint(MetadataFeatureType))
)

// NFTOutput is a chain Output that carries immutable on-ledger metadata and can be owned like a plain value Output.
type NFTOutput struct {
	id                OutputID
	idMutex           sync.RWMutex
	amount            uint64
	nativeTokens      NativeTokens
	nftID             NFTID
	unlockConditions  UnlockConditions
	features          Features
	immutableFeatures Features
}

// NFTOutputFromBytes unmarshals an NFTOutput from a sequence of bytes.
func NFTOutputFromBytes(data []byte, deSeriMode serializer.DeSerializationMode, protocolParameters *ProtocolParameters) (output *NFTOutput, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(data)
	if output, err = NFTOutputFromMarshalUtil(marshalUtil, deSeriMode, protocolParameters); err != nil {
		err = xerrors.Errorf("failed to parse NFTOutput from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// NFTOutputFromMarshalUtil unmarshals an NFTOutput using a MarshalUtil (for easier unmarshaling).
func NFTOutputFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil, deSeriMode serializer.DeSerializationMode, protocolParameters *ProtocolParameters) (output *NFTOutput, err error) {
	outputType, err := marshalUtil.ReadByte()
	if err != nil {
		err = xerrors.Errorf("failed to parse OutputType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if OutputType(outputType) != NFTOutputType {
		err = xerrors.Errorf("invalid OutputType (%X): %w", outputType, cerrors.ErrParseBytesFailed)
		return
	}

	output = &NFTOutput{}
	if output.amount, err = marshalUtil.ReadUint64(); err != nil {
		err = xerrors.Errorf("failed to parse amount (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if output.nativeTokens, err = NativeTokensFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse NativeTokens: %w", err)
		return
	}
	if output.nftID, err = NFTIDFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse NFTID: %w", err)
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
			err = xerrors.Errorf("failed to validate NFTOutput: %w", err)
			return
		}
	}

	return
}

// ID returns the identifier of the Output that is used to address the Output in the UTXODAG.
func (n *NFTOutput) ID() OutputID {
	n.idMutex.RLock()
	defer n.idMutex.RUnlock()

	return n.id
}

// SetID allows to set the identifier of the Output. We offer a setter for this property since the ID of the Output is
// only known after the transaction that contains it was constructed.
func (n *NFTOutput) SetID(outputID OutputID) Output {
	n.idMutex.Lock()
	defer n.idMutex.Unlock()

	n.id = outputID

	return n
}

// Type returns the OutputType of the Output.
func (n *NFTOutput) Type() OutputType {
	return NFTOutputType
}

// Amount returns the amount of base tokens held by the Output.
func (n *NFTOutput) Amount() uint64 {
	return n.amount
}

// NativeTokens returns the native tokens held by the Output.
func (n *NFTOutput) NativeTokens() NativeTokens {
	return n.nativeTokens
}

// NFTID returns the identifier of the NFT chain that the Output belongs to.
func (n *NFTOutput) NFTID() NFTID {
	return n.nftID
}

// UnlockConditions returns the UnlockConditions of the Output.
func (n *NFTOutput) UnlockConditions() UnlockConditions {
	return n.unlockConditions
}

// Features returns the mutable Features of the Output.
func (n *NFTOutput) Features() Features {
	return n.features
}

// ImmutableFeatures returns the immutable Features of the Output.
func (n *NFTOutput) ImmutableFeatures() Features {
	return n.immutableFeatures
}

// Chain returns the ChainID of the Output. The zero ChainID of a freshly created NFT is resolved from its OutputID.
func (n *NFTOutput) Chain() ChainID {
	return n.nftID.OrFromOutputID(n.ID()).ChainID()
}

// NFTAddress returns the NFTAddress that the Output can be referenced by.
func (n *NFTOutput) NFTAddress() *NFTAddress {
	return NewNFTAddress(n.nftID.OrFromOutputID(n.ID()))
}

// Address returns the Address of the controlling UnlockCondition of the Output.
func (n *NFTOutput) Address() Address {
	addressUnlockCondition := n.unlockConditions.Address()
	if addressUnlockCondition == nil {
		panic("NFTOutput was created without its controlling unlock condition")
	}

	return addressUnlockCondition.Address()
}

// UnlockableBy returns true if the given Address controls the Output at the given confirmed milestone timestamp.
func (n *NFTOutput) UnlockableBy(address Address, confirmedMilestoneTimestamp uint32) bool {
	if !n.unlockConditions.TimelocksExpired(confirmedMilestoneTimestamp) {
		return false
	}

	return n.unlockConditions.LockedAddress(n.Address(), confirmedMilestoneTimestamp).Equals(address)
}

// SyntacticallyValidate checks the Output against the validation rules that do not require transaction context.
func (n *NFTOutput) SyntacticallyValidate(protocolParameters *ProtocolParameters) (err error) {
	if err = validateAmount(n.amount, protocolParameters); err != nil {
		return err
	}
	if err = n.nativeTokens.verify(); err != nil {
		return err
	}
	if err = n.unlockConditions.verify(nftOutputAllowedUnlockConditions); err != nil {
		return err
	}
	if n.unlockConditions.Address() == nil {
		return ErrMissingAddressUnlockCondition
	}
	if n.Address().Equals(NewNFTAddress(n.nftID)) {
		return xerrors.Errorf("nft must not control itself: %w", ErrDisallowedUnlockCondition)
	}
	if err = n.features.verify(nftOutputAllowedFeatures); err != nil {
		return err
	}
	if err = n.immutableFeatures.verify(nftOutputAllowedImmutableFeatures); err != nil {
		return err
	}

	return validateRent(n, protocolParameters)
}

// Clone creates a copy of the Output.
func (n *NFTOutput) Clone() Output {
	return &NFTOutput{
		id:                n.ID(),
		amount:            n.amount,
		nativeTokens:      n.nativeTokens.Clone(),
		nftID:             n.nftID,
		unlockConditions:  n.unlockConditions.Clone(),
		features:          n.features.Clone(),
		immutableFeatures: n.immutableFeatures.Clone(),
	}
}

// Bytes returns a marshaled version of the Output.
func (n *NFTOutput) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(NFTOutputType)).
		WriteUint64(n.amount).
		WriteBytes(n.nativeTokens.Bytes()).
		WriteBytes(n.nftID.Bytes()).
		WriteBytes(n.unlockConditions.Bytes()).
		WriteBytes(n.features.Bytes()).
		WriteBytes(n.immutableFeatures.Bytes()).
		Bytes()
}

// Compare offers a comparator for Outputs which returns -1 if the other Output is bigger, 1 if it is smaller and 0 if
// they are the same.
func (n *NFTOutput) Compare(other Output) int {
	return compareOutputs(n, other)
}

// String returns a human readable version of the Output.
func (n *NFTOutput) String() string {
	return stringify.Struct("NFTOutput",
		stringify.StructField("id", n.ID()),
		stringify.StructField("amount", n.amount),
		stringify.StructField("nativeTokens", n.nativeTokens),
		stringify.StructField("nftID", n.nftID),
		stringify.StructField("unlockConditions", n.unlockConditions),
		stringify.StructField("features", n.features),
		stringify.StructField("immutableFeatures", n.immutableFeatures),
	)
}

// code contracts (make sure the type implements all required methods)
var (
	_ Output      = &NFTOutput{}
	_ ChainOutput = &NFTOutput{}
)

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region NFTOutputBuilder /////////////////////////////////////////////////////////////////////////////////////////////

// NFTOutputBuilder accumulates the fields of an NFTOutput and validates them when the Output is finished.
type NFTOutputBuilder struct {
	amount                uint64
	minimumStorageDeposit *RentStructure
	nativeTokens          NativeTokens
	nftID                 NFTID
	unlockConditions      UnlockConditions
	features              Features
	immutableFeatures     Features
}

// NewNFTOutputBuilder creates a new NFTOutputBuilder with a fixed amount.
func NewNFTOutputBuilder(amount uint64, nftID NFTID) *NFTOutputBuilder {
	return &NFTOutputBuilder{
		amount: amount,
		nftID:  nftID,
	}
}

// NewNFTOutputBuilderMinimumStorageDeposit creates a new NFTOutputBuilder whose amount is resolved to the exact rent
// cost of the finished Output.
func NewNFTOutputBuilderMinimumStorageDeposit(rentStructure *RentStructure, nftID NFTID) *NFTOutputBuilder {
	return &NFTOutputBuilder{
		minimumStorageDeposit: rentStructure,
		nftID:                 nftID,
	}
}

// NewNFTOutputBuilderFromOutput creates a new NFTOutputBuilder that starts from a copy of an existing Output.
func NewNFTOutputBuilderFromOutput(output *NFTOutput) *NFTOutputBuilder {
	return &NFTOutputBuilder{
		amount:            output.amount,
		nativeTokens:      output.nativeTokens.Clone(),
		nftID:             output.nftID,
		unlockConditions:  output.unlockConditions.Clone(),
		features:          output.features.Clone(),
		immutableFeatures: output.immutableFeatures.Clone(),
	}
}

// Amount sets the fixed amount of the Output.
func (b *NFTOutputBuilder) Amount(amount uint64) *NFTOutputBuilder {
	b.amount = amount
	b.minimumStorageDeposit = nil

	return b
}

// NFTID sets the identifier of the NFT chain.
func (b *NFTOutputBuilder) NFTID(nftID NFTID) *NFTOutputBuilder {
	b.nftID = nftID

	return b
}

// AddNativeToken adds the given NativeToken if no token with the same TokenID is present, keeping the first.
func (b *NFTOutputBuilder) AddNativeToken(nativeToken *NativeToken) *NFTOutputBuilder {
	if b.nativeTokens.Get(nativeToken.ID()) == nil {
		b.nativeTokens = append(b.nativeTokens, nativeToken)
		b.nativeTokens.Sort()
	}

	return b
}

// WithNativeTokens overwrites the set of NativeTokens of the Output.
func (b *NFTOutputBuilder) WithNativeTokens(nativeTokens NativeTokens) *NFTOutputBuilder {
	b.nativeTokens = nativeTokens.Clone()
	b.nativeTokens.Sort()

	return b
}

// ClearNativeTokens removes all NativeTokens from the Output.
func (b *NFTOutputBuilder) ClearNativeTokens() *NFTOutputBuilder {
	b.nativeTokens = nil

	return b
}

// AddUnlockCondition adds the given UnlockCondition if no condition of the same type is present, keeping the first.
func (b *NFTOutputBuilder) AddUnlockCondition(unlockCondition UnlockCondition) *NFTOutputBuilder {
	b.unlockConditions = b.unlockConditions.insertIfAbsent(unlockCondition)

	return b
}

// WithUnlockConditions overwrites the set of UnlockConditions of the Output.
func (b *NFTOutputBuilder) WithUnlockConditions(unlockConditions UnlockConditions) *NFTOutputBuilder {
	b.unlockConditions = unlockConditions.Clone()
	b.unlockConditions.Sort()

	return b
}

// ReplaceUnlockCondition adds the given UnlockCondition, overwriting a present condition of the same type.
func (b *NFTOutputBuilder) ReplaceUnlockCondition(unlockCondition UnlockCondition) *NFTOutputBuilder {
	b.unlockConditions = b.unlockConditions.replace(unlockCondition)

	return b
}

// ClearUnlockConditions removes all UnlockConditions from the Output.
func (b *NFTOutputBuilder) ClearUnlockConditions() *NFTOutputBuilder {
	b.unlockConditions = nil

	return b
}

// AddFeature adds the given Feature if no feature of the same type is present, keeping the first.
func (b *NFTOutputBuilder) AddFeature(feature Feature) *NFTOutputBuilder {
	b.features = b.features.insertIfAbsent(feature)

	return b
}

// WithFeatures overwrites the set of mutable Features of the Output.
func (b *NFTOutputBuilder) WithFeatures(features Features) *NFTOutputBuilder {
	b.features = features.Clone()
	b.features.Sort()

	return b
}

// ReplaceFeature adds the given Feature, overwriting a present feature of the same type.
func (b *NFTOutputBuilder) ReplaceFeature(feature Feature) *NFTOutputBuilder {
	b.features = b.features.replace(feature)

	return b
}

// ClearFeatures removes all mutable Features from the Output.
func (b *NFTOutputBuilder) ClearFeatures() *NFTOutputBuilder {
	b.features = nil

	return b
}

// AddImmutableFeature adds the given immutable Feature if no feature of the same type is present, keeping the first.
func (b *NFTOutputBuilder) AddImmutableFeature(feature Feature) *NFTOutputBuilder {
	b.immutableFeatures = b.immutableFeatures.insertIfAbsent(feature)

	return b
}

// WithImmutableFeatures overwrites the set of immutable Features of the Output.
func (b *NFTOutputBuilder) WithImmutableFeatures(features Features) *NFTOutputBuilder {
	b.immutableFeatures = features.Clone()
	b.immutableFeatures.Sort()

	return b
}

// ClearImmutableFeatures removes all immutable Features from the Output.
func (b *NFTOutputBuilder) ClearImmutableFeatures() *NFTOutputBuilder {
	b.immutableFeatures = nil

	return b
}

// WithSufficientStorageDeposit tops the amount of the Output up to its own rent cost if it falls short, adding a
// StorageDepositReturnUnlockCondition that obliges the consumer to return the difference to the given return address.
func (b *NFTOutputBuilder) WithSufficientStorageDeposit(returnAddress Address, rentStructure *RentStructure) *NFTOutputBuilder {
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

// Finish validates the accumulated fields and produces an immutable NFTOutput.
func (b *NFTOutputBuilder) Finish() (output *NFTOutput, err error) {
	return b.FinishWithParams(nil)
}

// FinishWithParams validates the accumulated fields against the given protocol parameters and produces an immutable
// NFTOutput.
func (b *NFTOutputBuilder) FinishWithParams(protocolParameters *ProtocolParameters) (output *NFTOutput, err error) {
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
func (b *NFTOutputBuilder) build() *NFTOutput {
	return &NFTOutput{
		amount:            b.amount,
		nativeTokens:      b.nativeTokens,
		nftID:             b.nftID,
		unlockConditions:  b.unlockConditions,
		features:          b.features,
		immutableFeatures: b.immutableFeatures,
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
