package ledgerstate

import (
	"bytes"
	"sort"

	"github.com/iotaledger/hive.go/bitmask"
	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"
	"golang.org/x/xerrors"
)

// region FeatureType //////////////////////////////////////////////////////////////////////////////////////////////////

const (
	// SenderFeatureType identifies the validated sender of an Output.
	SenderFeatureType FeatureType = iota

	// IssuerFeatureType identifies the validated issuer of a chain Output.
	IssuerFeatureType

	// MetadataFeatureType attaches arbitrary binary data to an Output.
	MetadataFeatureType

	// TagFeatureType attaches an indexation tag to an Output.
	TagFeatureType
)

// MaxMetadataLength contains the maximum length of the data of a MetadataFeature.
const MaxMetadataLength = 8192

// MaxTagLength contains the maximum length of the tag of a TagFeature.
const MaxTagLength = 64

// FeatureType represents the type of a Feature.
type FeatureType byte

// String returns a human readable representation of the FeatureType.
func (f FeatureType) String() string {
	if int(f) >= len(featureTypeNames) {
		return "UnknownFeatureType"
	}

	return featureTypeNames[f]
}

var featureTypeNames = [...]string{
	"SenderFeatureType",
	"IssuerFeatureType",
	"MetadataFeatureType",
	"TagFeatureType",
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Feature //////////////////////////////////////////////////////////////////////////////////////////////////////

// Feature is an optional annotation of an Output that does not influence who may consume it.
type Feature interface {
	// Type returns the FeatureType which allows us to generically handle Features of different types.
	Type() FeatureType

	// Clone creates a copy of the Feature.
	Clone() Feature

	// Equals returns true if the two Features are equal.
	Equals(other Feature) bool

	// Bytes returns a marshaled version of the Feature.
	Bytes() []byte

	// String returns a human readable version of the Feature for debug purposes.
	String() string
}

// FeatureFromMarshalUtil unmarshals a Feature using a MarshalUtil (for easier unmarshaling).
func FeatureFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (feature Feature, err error) {
	featureType, err := marshalUtil.ReadByte()
	if err != nil {
		err = xerrors.Errorf("failed to parse FeatureType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	marshalUtil.ReadSeek(-1)

	switch FeatureType(featureType) {
	case SenderFeatureType:
		return SenderFeatureFromMarshalUtil(marshalUtil)
	case IssuerFeatureType:
		return IssuerFeatureFromMarshalUtil(marshalUtil)
	case MetadataFeatureType:
		return MetadataFeatureFromMarshalUtil(marshalUtil)
	case TagFeatureType:
		return TagFeatureFromMarshalUtil(marshalUtil)
	default:
		err = xerrors.Errorf("unsupported FeatureType (%X): %w", featureType, cerrors.ErrParseBytesFailed)
		return
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region SenderFeature ////////////////////////////////////////////////////////////////////////////////////////////////

// SenderFeature identifies the validated sender of an Output.
type SenderFeature struct {
	address Address
}

// NewSenderFeature creates a new SenderFeature for the given Address.
func NewSenderFeature(address Address) *SenderFeature {
	return &SenderFeature{
		address: address,
	}
}

// SenderFeatureFromMarshalUtil parses a SenderFeature from the given MarshalUtil.
func SenderFeatureFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (feature *SenderFeature, err error) {
	if err = consumeFeatureType(marshalUtil, SenderFeatureType); err != nil {
		return
	}

	feature = &SenderFeature{}
	if feature.address, err = AddressFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse Address (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// Type returns the FeatureType of the Feature.
func (s *SenderFeature) Type() FeatureType {
	return SenderFeatureType
}

// Address returns the sender Address.
func (s *SenderFeature) Address() Address {
	return s.address
}

// Clone creates a copy of the Feature.
func (s *SenderFeature) Clone() Feature {
	return &SenderFeature{
		address: s.address.Clone(),
	}
}

// Equals returns true if the two Features are equal.
func (s *SenderFeature) Equals(other Feature) bool {
	otherFeature, typeMatches := other.(*SenderFeature)

	return typeMatches && s.address.Equals(otherFeature.address)
}

// Bytes returns a marshaled version of the Feature.
func (s *SenderFeature) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(SenderFeatureType)).
		WriteBytes(s.address.Bytes()).
		Bytes()
}

// String returns a human readable version of the Feature.
func (s *SenderFeature) String() string {
	return stringify.Struct("SenderFeature",
		stringify.StructField("address", s.address),
	)
}

// code contract (make sure the type implements all required methods)
var _ Feature = &SenderFeature{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region IssuerFeature ////////////////////////////////////////////////////////////////////////////////////////////////

// IssuerFeature identifies the validated issuer of a chain Output. It can only appear in the immutable features.
type IssuerFeature struct {
	address Address
}

// NewIssuerFeature creates a new IssuerFeature for the given Address.
func NewIssuerFeature(address Address) *IssuerFeature {
	return &IssuerFeature{
		address: address,
	}
}

// IssuerFeatureFromMarshalUtil parses an IssuerFeature from the given MarshalUtil.
func IssuerFeatureFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (feature *IssuerFeature, err error) {
	if err = consumeFeatureType(marshalUtil, IssuerFeatureType); err != nil {
		return
	}

	feature = &IssuerFeature{}
	if feature.address, err = AddressFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse Address (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// Type returns the FeatureType of the Feature.
func (i *IssuerFeature) Type() FeatureType {
	return IssuerFeatureType
}

// Address returns the issuer Address.
func (i *IssuerFeature) Address() Address {
	return i.address
}

// Clone creates a copy of the Feature.
func (i *IssuerFeature) Clone() Feature {
	return &IssuerFeature{
		address: i.address.Clone(),
	}
}

// Equals returns true if the two Features are equal.
func (i *IssuerFeature) Equals(other Feature) bool {
	otherFeature, typeMatches := other.(*IssuerFeature)

	return typeMatches && i.address.Equals(otherFeature.address)
}

// Bytes returns a marshaled version of the Feature.
func (i *IssuerFeature) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(IssuerFeatureType)).
		WriteBytes(i.address.Bytes()).
		Bytes()
}

// String returns a human readable version of the Feature.
func (i *IssuerFeature) String() string {
	return stringify.Struct("IssuerFeature",
		stringify.StructField("address", i.address),
	)
}

// code contract (make sure the type implements all required methods)
var _ Feature = &IssuerFeature{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region MetadataFeature //////////////////////////////////////////////////////////////////////////////////////////////

// MetadataFeature attaches arbitrary binary data to an Output.
type MetadataFeature struct {
	data []byte
}

// NewMetadataFeature creates a new MetadataFeature for the given data. The data must not be empty and must not exceed
// MaxMetadataLength.
func NewMetadataFeature(data []byte) (feature *MetadataFeature, err error) {
	if len(data) == 0 {
		return nil, xerrors.Errorf("metadata must not be empty: %w", cerrors.ErrFatal)
	}
	if len(data) > MaxMetadataLength {
		return nil, xerrors.Errorf("metadata exceeds maximum length of %d: %w", MaxMetadataLength, cerrors.ErrFatal)
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	return &MetadataFeature{
		data: dataCopy,
	}, nil
}

// MetadataFeatureFromMarshalUtil parses a MetadataFeature from the given MarshalUtil.
func MetadataFeatureFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (feature *MetadataFeature, err error) {
	if err = consumeFeatureType(marshalUtil, MetadataFeatureType); err != nil {
		return
	}

	dataLength, err := marshalUtil.ReadUint16()
	if err != nil {
		err = xerrors.Errorf("failed to parse metadata length (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if dataLength == 0 {
		err = xerrors.Errorf("metadata must not be empty: %w", cerrors.ErrParseBytesFailed)
		return
	}
	if dataLength > MaxMetadataLength {
		err = xerrors.Errorf("metadata length %d exceeds maximum length of %d: %w", dataLength, MaxMetadataLength, cerrors.ErrParseBytesFailed)
		return
	}

	feature = &MetadataFeature{}
	if feature.data, err = marshalUtil.ReadBytes(int(dataLength)); err != nil {
		err = xerrors.Errorf("failed to parse metadata (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// Type returns the FeatureType of the Feature.
func (m *MetadataFeature) Type() FeatureType {
	return MetadataFeatureType
}

// Data returns the binary data of the Feature.
func (m *MetadataFeature) Data() []byte {
	return m.data
}

// Clone creates a copy of the Feature.
func (m *MetadataFeature) Clone() Feature {
	dataCopy := make([]byte, len(m.data))
	copy(dataCopy, m.data)

	return &MetadataFeature{
		data: dataCopy,
	}
}

// Equals returns true if the two Features are equal.
func (m *MetadataFeature) Equals(other Feature) bool {
	otherFeature, typeMatches := other.(*MetadataFeature)

	return typeMatches && bytes.Equal(m.data, otherFeature.data)
}

// Bytes returns a marshaled version of the Feature.
func (m *MetadataFeature) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(MetadataFeatureType)).
		WriteUint16(uint16(len(m.data))).
		WriteBytes(m.data).
		Bytes()
}

// String returns a human readable version of the Feature.
func (m *MetadataFeature) String() string {
	return stringify.Struct("MetadataFeature",
		stringify.StructField("data", m.data),
	)
}

// code contract (make sure the type implements all required methods)
var _ Feature = &MetadataFeature{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region TagFeature ///////////////////////////////////////////////////////////////////////////////////////////////////

// TagFeature attaches an indexation tag to an Output.
type TagFeature struct {
	tag []byte
}

// NewTagFeature creates a new TagFeature for the given tag. The tag must not be empty and must not exceed
// MaxTagLength.
func NewTagFeature(tag []byte) (feature *TagFeature, err error) {
	if len(tag) == 0 {
		return nil, xerrors.Errorf("tag must not be empty: %w", cerrors.ErrFatal)
	}
	if len(tag) > MaxTagLength {
		return nil, xerrors.Errorf("tag exceeds maximum length of %d: %w", MaxTagLength, cerrors.ErrFatal)
	}

	tagCopy := make([]byte, len(tag))
	copy(tagCopy, tag)

	return &TagFeature{
		tag: tagCopy,
	}, nil
}

// TagFeatureFromMarshalUtil parses a TagFeature from the given MarshalUtil.
func TagFeatureFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (feature *TagFeature, err error) {
	if err = consumeFeatureType(marshalUtil, TagFeatureType); err != nil {
		return
	}

	tagLength, err := marshalUtil.ReadByte()
	if err != nil {
		err = xerrors.Errorf("failed to parse tag length (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if tagLength == 0 {
		err = xerrors.Errorf("tag must not be empty: %w", cerrors.ErrParseBytesFailed)
		return
	}
	if tagLength > MaxTagLength {
		err = xerrors.Errorf("tag length %d exceeds maximum length of %d: %w", tagLength, MaxTagLength, cerrors.ErrParseBytesFailed)
		return
	}

	feature = &TagFeature{}
	if feature.tag, err = marshalUtil.ReadBytes(int(tagLength)); err != nil {
		err = xerrors.Errorf("failed to parse tag (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// Type returns the FeatureType of the Feature.
func (t *TagFeature) Type() FeatureType {
	return TagFeatureType
}

// Tag returns the indexation tag of the Feature.
func (t *TagFeature) Tag() []byte {
	return t.tag
}

// Clone creates a copy of the Feature.
func (t *TagFeature) Clone() Feature {
	tagCopy := make([]byte, len(t.tag))
	copy(tagCopy, t.tag)

	return &TagFeature{
		tag: tagCopy,
	}
}

// Equals returns true if the two Features are equal.
func (t *TagFeature) Equals(other Feature) bool {
	otherFeature, typeMatches := other.(*TagFeature)

	return typeMatches && bytes.Equal(t.tag, otherFeature.tag)
}

// Bytes returns a marshaled version of the Feature.
func (t *TagFeature) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(TagFeatureType)).
		WriteByte(byte(len(t.tag))).
		WriteBytes(t.tag).
		Bytes()
}

// String returns a human readable version of the Feature.
func (t *TagFeature) String() string {
	return stringify.Struct("TagFeature",
		stringify.StructField("tag", t.tag),
	)
}

// code contract (make sure the type implements all required methods)
var _ Feature = &TagFeature{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Features /////////////////////////////////////////////////////////////////////////////////////////////////////

// Features is a canonically sorted collection of Features where every type occurs at most once.
type Features []Feature

// NewFeatures creates a deduplicated, canonically sorted collection of Features. The first occurrence of a type wins.
func NewFeatures(optionalFeatures ...Feature) (features Features) {
	seenTypes := make(map[FeatureType]struct{})
	for _, feature := range optionalFeatures {
		if _, seenAlready := seenTypes[feature.Type()]; seenAlready {
			continue
		}
		seenTypes[feature.Type()] = struct{}{}

		features = append(features, feature)
	}
	features.Sort()

	return
}

// FeaturesFromMarshalUtil unmarshals a collection of Features using a MarshalUtil.
func FeaturesFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (features Features, err error) {
	featureCount, err := marshalUtil.ReadByte()
	if err != nil {
		err = xerrors.Errorf("failed to parse feature count (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	features = make(Features, featureCount)
	for i := byte(0); i < featureCount; i++ {
		if features[i], err = FeatureFromMarshalUtil(marshalUtil); err != nil {
			err = xerrors.Errorf("failed to parse Feature: %w", err)
			return
		}
	}

	return
}

// Sort sorts the collection by FeatureType.
func (f Features) Sort() {
	sort.Slice(f, func(i, j int) bool {
		return f[i].Type() < f[j].Type()
	})
}

// Get returns the Feature with the given type (or nil if it is not part of the collection).
func (f Features) Get(featureType FeatureType) Feature {
	for _, feature := range f {
		if feature.Type() == featureType {
			return feature
		}
	}

	return nil
}

// Sender returns the SenderFeature of the collection (or nil if absent).
func (f Features) Sender() *SenderFeature {
	if feature := f.Get(SenderFeatureType); feature != nil {
		return feature.(*SenderFeature)
	}

	return nil
}

// Issuer returns the IssuerFeature of the collection (or nil if absent).
func (f Features) Issuer() *IssuerFeature {
	if feature := f.Get(IssuerFeatureType); feature != nil {
		return feature.(*IssuerFeature)
	}

	return nil
}

// Metadata returns the MetadataFeature of the collection (or nil if absent).
func (f Features) Metadata() *MetadataFeature {
	if feature := f.Get(MetadataFeatureType); feature != nil {
		return feature.(*MetadataFeature)
	}

	return nil
}

// Tag returns the TagFeature of the collection (or nil if absent).
func (f Features) Tag() *TagFeature {
	if feature := f.Get(TagFeatureType); feature != nil {
		return feature.(*TagFeature)
	}

	return nil
}

// Clone creates a copy of the Features.
func (f Features) Clone() (clonedFeatures Features) {
	clonedFeatures = make(Features, len(f))
	for i, feature := range f {
		clonedFeatures[i] = feature.Clone()
	}

	return
}

// Equals returns true if the two collections hold the same Features in the same order.
func (f Features) Equals(other Features) bool {
	if len(f) != len(other) {
		return false
	}
	for i, feature := range f {
		if !feature.Equals(other[i]) {
			return false
		}
	}

	return true
}

// Bytes returns a marshaled version of the Features.
func (f Features) Bytes() []byte {
	marshalUtil := marshalutil.New()
	marshalUtil.WriteByte(byte(len(f)))
	for _, feature := range f {
		marshalUtil.WriteBytes(feature.Bytes())
	}

	return marshalUtil.Bytes()
}

// verify checks the uniqueness and ordering of the collection and that every feature is within the allow-list.
func (f Features) verify(allowedFeatures bitmask.BitMask) (err error) {
	seenTypes := bitmask.BitMask(0)
	previousType := FeatureType(0)
	for i, feature := range f {
		if !allowedFeatures.HasBit(uint(feature.Type())) {
			return xerrors.Errorf("%s: %w", feature.Type(), ErrDisallowedFeature)
		}
		if seenTypes.HasBit(uint(feature.Type())) || (i > 0 && feature.Type() <= previousType) {
			return xerrors.Errorf("features are not sorted by unique type: %w", cerrors.ErrParseBytesFailed)
		}
		seenTypes = seenTypes.SetBit(uint(feature.Type()))
		previousType = feature.Type()
	}

	return nil
}

// String returns a human readable version of the Features.
func (f Features) String() string {
	structBuilder := stringify.StructBuilder("Features")
	for _, feature := range f {
		structBuilder.AddField(stringify.StructField(feature.Type().String(), feature))
	}

	return structBuilder.String()
}

// insertIfAbsent adds the given Feature if no feature of the same type is present, keeping the first.
func (f Features) insertIfAbsent(feature Feature) Features {
	if f.Get(feature.Type()) != nil {
		return f
	}
	extended := append(f, feature)
	extended.Sort()

	return extended
}

// replace adds the given Feature, overwriting a present feature of the same type.
func (f Features) replace(feature Feature) Features {
	for i, existingFeature := range f {
		if existingFeature.Type() == feature.Type() {
			f[i] = feature
			return f
		}
	}
	extended := append(f, feature)
	extended.Sort()

	return extended
}

// consumeFeatureType reads the type discriminant and ensures it matches the expected FeatureType.
func consumeFeatureType(marshalUtil *marshalutil.MarshalUtil, expectedType FeatureType) (err error) {
	featureType, err := marshalUtil.ReadByte()
	if err != nil {
		return xerrors.Errorf("failed to parse FeatureType (%v): %w", err, cerrors.ErrParseBytesFailed)
	}
	if FeatureType(featureType) != expectedType {
		return xerrors.Errorf("invalid FeatureType (%X): %w", featureType, cerrors.ErrParseBytesFailed)
	}

	return nil
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
