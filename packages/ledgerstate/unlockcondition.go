package ledgerstate

import (
	"sort"

	"github.com/iotaledger/hive.go/bitmask"
	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"
	"golang.org/x/xerrors"
)

// region UnlockConditionType //////////////////////////////////////////////////////////////////////////////////////////

const (
	// AddressUnlockConditionType represents the controlling address condition of non-chain outputs.
	AddressUnlockConditionType UnlockConditionType = iota

	// StorageDepositReturnUnlockConditionType obliges the consumer to return the storage deposit to a return address.
	StorageDepositReturnUnlockConditionType

	// TimelockUnlockConditionType prevents an output from being consumed before a point in time.
	TimelockUnlockConditionType

	// ExpirationUnlockConditionType redirects control of an output to a return address after a point in time.
	ExpirationUnlockConditionType

	// StateControllerAddressUnlockConditionType represents the state controlling address of an alias output.
	StateControllerAddressUnlockConditionType

	// GovernorAddressUnlockConditionType represents the governing address of an alias output.
	GovernorAddressUnlockConditionType

	// ImmutableAliasAddressUnlockConditionType binds a foundry output to its controlling alias for its whole lifetime.
	ImmutableAliasAddressUnlockConditionType
)

// UnlockConditionType represents the type of an UnlockCondition.
type UnlockConditionType byte

// String returns a human readable representation of the UnlockConditionType.
func (u UnlockConditionType) String() string {
	if int(u) >= len(unlockConditionTypeNames) {
		return "UnknownUnlockConditionType"
	}

	return unlockConditionTypeNames[u]
}

var unlockConditionTypeNames = [...]string{
	"AddressUnlockConditionType",
	"StorageDepositReturnUnlockConditionType",
	"TimelockUnlockConditionType",
	"ExpirationUnlockConditionType",
	"StateControllerAddressUnlockConditionType",
	"GovernorAddressUnlockConditionType",
	"ImmutableAliasAddressUnlockConditionType",
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region UnlockCondition //////////////////////////////////////////////////////////////////////////////////////////////

// UnlockCondition is a rule that restricts who may consume an Output and when.
type UnlockCondition interface {
	// Type returns the UnlockConditionType which allows us to generically handle UnlockConditions of different types.
	Type() UnlockConditionType

	// Clone creates a copy of the UnlockCondition.
	Clone() UnlockCondition

	// Equals returns true if the two UnlockConditions are equal.
	Equals(other UnlockCondition) bool

	// Bytes returns a marshaled version of the UnlockCondition.
	Bytes() []byte

	// String returns a human readable version of the UnlockCondition for debug purposes.
	String() string
}

// UnlockConditionFromMarshalUtil unmarshals an UnlockCondition using a MarshalUtil (for easier unmarshaling).
func UnlockConditionFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (unlockCondition UnlockCondition, err error) {
	unlockConditionType, err := marshalUtil.ReadByte()
	if err != nil {
		err = xerrors.Errorf("failed to parse UnlockConditionType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	marshalUtil.ReadSeek(-1)

	switch UnlockConditionType(unlockConditionType) {
	case AddressUnlockConditionType:
		return AddressUnlockConditionFromMarshalUtil(marshalUtil)
	case StorageDepositReturnUnlockConditionType:
		return StorageDepositReturnUnlockConditionFromMarshalUtil(marshalUtil)
	case TimelockUnlockConditionType:
		return TimelockUnlockConditionFromMarshalUtil(marshalUtil)
	case ExpirationUnlockConditionType:
		return ExpirationUnlockConditionFromMarshalUtil(marshalUtil)
	case StateControllerAddressUnlockConditionType:
		return StateControllerAddressUnlockConditionFromMarshalUtil(marshalUtil)
	case GovernorAddressUnlockConditionType:
		return GovernorAddressUnlockConditionFromMarshalUtil(marshalUtil)
	case ImmutableAliasAddressUnlockConditionType:
		return ImmutableAliasAddressUnlockConditionFromMarshalUtil(marshalUtil)
	default:
		err = xerrors.Errorf("unsupported UnlockConditionType (%X): %w", unlockConditionType, cerrors.ErrParseBytesFailed)
		return
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region AddressUnlockCondition ///////////////////////////////////////////////////////////////////////////////////////

// AddressUnlockCondition restricts consumption of an Output to the owner of an Address.
type AddressUnlockCondition struct {
	address Address
}

// NewAddressUnlockCondition creates a new AddressUnlockCondition for the given Address.
func NewAddressUnlockCondition(address Address) *AddressUnlockCondition {
	return &AddressUnlockCondition{
		address: address,
	}
}

// AddressUnlockConditionFromMarshalUtil parses an AddressUnlockCondition from the given MarshalUtil.
func AddressUnlockConditionFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (unlockCondition *AddressUnlockCondition, err error) {
	if err = consumeUnlockConditionType(marshalUtil, AddressUnlockConditionType); err != nil {
		return
	}

	unlockCondition = &AddressUnlockCondition{}
	if unlockCondition.address, err = AddressFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse Address (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// Type returns the UnlockConditionType of the UnlockCondition.
func (a *AddressUnlockCondition) Type() UnlockConditionType {
	return AddressUnlockConditionType
}

// Address returns the Address that controls the Output.
func (a *AddressUnlockCondition) Address() Address {
	return a.address
}

// Clone creates a copy of the UnlockCondition.
func (a *AddressUnlockCondition) Clone() UnlockCondition {
	return &AddressUnlockCondition{
		address: a.address.Clone(),
	}
}

// Equals returns true if the two UnlockConditions are equal.
func (a *AddressUnlockCondition) Equals(other UnlockCondition) bool {
	otherCondition, typeMatches := other.(*AddressUnlockCondition)

	return typeMatches && a.address.Equals(otherCondition.address)
}

// Bytes returns a marshaled version of the UnlockCondition.
func (a *AddressUnlockCondition) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(AddressUnlockConditionType)).
		WriteBytes(a.address.Bytes()).
		Bytes()
}

// String returns a human readable version of the UnlockCondition.
func (a *AddressUnlockCondition) String() string {
	return stringify.Struct("AddressUnlockCondition",
		stringify.StructField("address", a.address),
	)
}

// code contract (make sure the type implements all required methods)
var _ UnlockCondition = &AddressUnlockCondition{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region StorageDepositReturnUnlockCondition //////////////////////////////////////////////////////////////////////////

// StorageDepositReturnUnlockCondition obliges the consumer of an Output to deposit a given amount back to a return
// address within the same transaction.
type StorageDepositReturnUnlockCondition struct {
	returnAddress Address
	amount        uint64
}

// NewStorageDepositReturnUnlockCondition creates a new StorageDepositReturnUnlockCondition.
func NewStorageDepositReturnUnlockCondition(returnAddress Address, amount uint64) *StorageDepositReturnUnlockCondition {
	return &StorageDepositReturnUnlockCondition{
		returnAddress: returnAddress,
		amount:        amount,
	}
}

// StorageDepositReturnUnlockConditionFromMarshalUtil parses a StorageDepositReturnUnlockCondition from the given
// MarshalUtil.
func StorageDepositReturnUnlockConditionFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (unlockCondition *StorageDepositReturnUnlockCondition, err error) {
	if err = consumeUnlockConditionType(marshalUtil, StorageDepositReturnUnlockConditionType); err != nil {
		return
	}

	unlockCondition = &StorageDepositReturnUnlockCondition{}
	if unlockCondition.returnAddress, err = AddressFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse return Address (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if unlockCondition.amount, err = marshalUtil.ReadUint64(); err != nil {
		err = xerrors.Errorf("failed to parse return amount (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// Type returns the UnlockConditionType of the UnlockCondition.
func (s *StorageDepositReturnUnlockCondition) Type() UnlockConditionType {
	return StorageDepositReturnUnlockConditionType
}

// ReturnAddress returns the Address that the storage deposit has to be returned to.
func (s *StorageDepositReturnUnlockCondition) ReturnAddress() Address {
	return s.returnAddress
}

// Amount returns the amount of tokens that have to be returned.
func (s *StorageDepositReturnUnlockCondition) Amount() uint64 {
	return s.amount
}

// Clone creates a copy of the UnlockCondition.
func (s *StorageDepositReturnUnlockCondition) Clone() UnlockCondition {
	return &StorageDepositReturnUnlockCondition{
		returnAddress: s.returnAddress.Clone(),
		amount:        s.amount,
	}
}

// Equals returns true if the two UnlockConditions are equal.
func (s *StorageDepositReturnUnlockCondition) Equals(other UnlockCondition) bool {
	otherCondition, typeMatches := other.(*StorageDepositReturnUnlockCondition)

	return typeMatches && s.returnAddress.Equals(otherCondition.returnAddress) && s.amount == otherCondition.amount
}

// Bytes returns a marshaled version of the UnlockCondition.
func (s *StorageDepositReturnUnlockCondition) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(StorageDepositReturnUnlockConditionType)).
		WriteBytes(s.returnAddress.Bytes()).
		WriteUint64(s.amount).
		Bytes()
}

// String returns a human readable version of the UnlockCondition.
func (s *StorageDepositReturnUnlockCondition) String() string {
	return stringify.Struct("StorageDepositReturnUnlockCondition",
		stringify.StructField("returnAddress", s.returnAddress),
		stringify.StructField("amount", s.amount),
	)
}

// code contract (make sure the type implements all required methods)
var _ UnlockCondition = &StorageDepositReturnUnlockCondition{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region TimelockUnlockCondition //////////////////////////////////////////////////////////////////////////////////////

// TimelockUnlockCondition prevents an Output from being consumed before a point in time (given as a unix timestamp).
type TimelockUnlockCondition struct {
	unixTime uint32
}

// NewTimelockUnlockCondition creates a new TimelockUnlockCondition.
func NewTimelockUnlockCondition(unixTime uint32) *TimelockUnlockCondition {
	return &TimelockUnlockCondition{
		unixTime: unixTime,
	}
}

// TimelockUnlockConditionFromMarshalUtil parses a TimelockUnlockCondition from the given MarshalUtil.
func TimelockUnlockConditionFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (unlockCondition *TimelockUnlockCondition, err error) {
	if err = consumeUnlockConditionType(marshalUtil, TimelockUnlockConditionType); err != nil {
		return
	}

	unlockCondition = &TimelockUnlockCondition{}
	if unlockCondition.unixTime, err = marshalUtil.ReadUint32(); err != nil {
		err = xerrors.Errorf("failed to parse timelock (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// Type returns the UnlockConditionType of the UnlockCondition.
func (t *TimelockUnlockCondition) Type() UnlockConditionType {
	return TimelockUnlockConditionType
}

// UnixTime returns the point in time before which the Output cannot be consumed.
func (t *TimelockUnlockCondition) UnixTime() uint32 {
	return t.unixTime
}

// Clone creates a copy of the UnlockCondition.
func (t *TimelockUnlockCondition) Clone() UnlockCondition {
	return &TimelockUnlockCondition{
		unixTime: t.unixTime,
	}
}

// Equals returns true if the two UnlockConditions are equal.
func (t *TimelockUnlockCondition) Equals(other UnlockCondition) bool {
	otherCondition, typeMatches := other.(*TimelockUnlockCondition)

	return typeMatches && t.unixTime == otherCondition.unixTime
}

// Bytes returns a marshaled version of the UnlockCondition.
func (t *TimelockUnlockCondition) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(TimelockUnlockConditionType)).
		WriteUint32(t.unixTime).
		Bytes()
}

// String returns a human readable version of the UnlockCondition.
func (t *TimelockUnlockCondition) String() string {
	return stringify.Struct("TimelockUnlockCondition",
		stringify.StructField("unixTime", t.unixTime),
	)
}

// code contract (make sure the type implements all required methods)
var _ UnlockCondition = &TimelockUnlockCondition{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region ExpirationUnlockCondition ////////////////////////////////////////////////////////////////////////////////////

// ExpirationUnlockCondition hands control of an Output over to a return address once a point in time has passed.
type ExpirationUnlockCondition struct {
	returnAddress Address
	unixTime      uint32
}

// NewExpirationUnlockCondition creates a new ExpirationUnlockCondition.
func NewExpirationUnlockCondition(returnAddress Address, unixTime uint32) *ExpirationUnlockCondition {
	return &ExpirationUnlockCondition{
		returnAddress: returnAddress,
		unixTime:      unixTime,
	}
}

// ExpirationUnlockConditionFromMarshalUtil parses an ExpirationUnlockCondition from the given MarshalUtil.
func ExpirationUnlockConditionFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (unlockCondition *ExpirationUnlockCondition, err error) {
	if err = consumeUnlockConditionType(marshalUtil, ExpirationUnlockConditionType); err != nil {
		return
	}

	unlockCondition = &ExpirationUnlockCondition{}
	if unlockCondition.returnAddress, err = AddressFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse return Address (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if unlockCondition.unixTime, err = marshalUtil.ReadUint32(); err != nil {
		err = xerrors.Errorf("failed to parse expiration (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// Type returns the UnlockConditionType of the UnlockCondition.
func (e *ExpirationUnlockCondition) Type() UnlockConditionType {
	return ExpirationUnlockConditionType
}

// ReturnAddress returns the Address that controls the Output after the expiration.
func (e *ExpirationUnlockCondition) ReturnAddress() Address {
	return e.returnAddress
}

// UnixTime returns the point in time at which control of the Output switches to the return address.
func (e *ExpirationUnlockCondition) UnixTime() uint32 {
	return e.unixTime
}

// Clone creates a copy of the UnlockCondition.
func (e *ExpirationUnlockCondition) Clone() UnlockCondition {
	return &ExpirationUnlockCondition{
		returnAddress: e.returnAddress.Clone(),
		unixTime:      e.unixTime,
	}
}

// Equals returns true if the two UnlockConditions are equal.
func (e *ExpirationUnlockCondition) Equals(other UnlockCondition) bool {
	otherCondition, typeMatches := other.(*ExpirationUnlockCondition)

	return typeMatches && e.returnAddress.Equals(otherCondition.returnAddress) && e.unixTime == otherCondition.unixTime
}

// Bytes returns a marshaled version of the UnlockCondition.
func (e *ExpirationUnlockCondition) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(ExpirationUnlockConditionType)).
		WriteBytes(e.returnAddress.Bytes()).
		WriteUint32(e.unixTime).
		Bytes()
}

// String returns a human readable version of the UnlockCondition.
func (e *ExpirationUnlockCondition) String() string {
	return stringify.Struct("ExpirationUnlockCondition",
		stringify.StructField("returnAddress", e.returnAddress),
		stringify.StructField("unixTime", e.unixTime),
	)
}

// code contract (make sure the type implements all required methods)
var _ UnlockCondition = &ExpirationUnlockCondition{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region StateControllerAddressUnlockCondition ////////////////////////////////////////////////////////////////////////

// StateControllerAddressUnlockCondition restricts state transitions of an alias output to the owner of an Address.
type StateControllerAddressUnlockCondition struct {
	address Address
}

// NewStateControllerAddressUnlockCondition creates a new StateControllerAddressUnlockCondition.
func NewStateControllerAddressUnlockCondition(address Address) *StateControllerAddressUnlockCondition {
	return &StateControllerAddressUnlockCondition{
		address: address,
	}
}

// StateControllerAddressUnlockConditionFromMarshalUtil parses a StateControllerAddressUnlockCondition from the given
// MarshalUtil.
func StateControllerAddressUnlockConditionFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (unlockCondition *StateControllerAddressUnlockCondition, err error) {
	if err = consumeUnlockConditionType(marshalUtil, StateControllerAddressUnlockConditionType); err != nil {
		return
	}

	unlockCondition = &StateControllerAddressUnlockCondition{}
	if unlockCondition.address, err = AddressFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse Address (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// Type returns the UnlockConditionType of the UnlockCondition.
func (s *StateControllerAddressUnlockCondition) Type() UnlockConditionType {
	return StateControllerAddressUnlockConditionType
}

// Address returns the Address that controls state transitions.
func (s *StateControllerAddressUnlockCondition) Address() Address {
	return s.address
}

// Clone creates a copy of the UnlockCondition.
func (s *StateControllerAddressUnlockCondition) Clone() UnlockCondition {
	return &StateControllerAddressUnlockCondition{
		address: s.address.Clone(),
	}
}

// Equals returns true if the two UnlockConditions are equal.
func (s *StateControllerAddressUnlockCondition) Equals(other UnlockCondition) bool {
	otherCondition, typeMatches := other.(*StateControllerAddressUnlockCondition)

	return typeMatches && s.address.Equals(otherCondition.address)
}

// Bytes returns a marshaled version of the UnlockCondition.
func (s *StateControllerAddressUnlockCondition) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(StateControllerAddressUnlockConditionType)).
		WriteBytes(s.address.Bytes()).
		Bytes()
}

// String returns a human readable version of the UnlockCondition.
func (s *StateControllerAddressUnlockCondition) String() string {
	return stringify.Struct("StateControllerAddressUnlockCondition",
		stringify.StructField("address", s.address),
	)
}

// code contract (make sure the type implements all required methods)
var _ UnlockCondition = &StateControllerAddressUnlockCondition{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region GovernorAddressUnlockCondition ///////////////////////////////////////////////////////////////////////////////

// GovernorAddressUnlockCondition restricts governance transitions of an alias output to the owner of an Address.
type GovernorAddressUnlockCondition struct {
	address Address
}

// NewGovernorAddressUnlockCondition creates a new GovernorAddressUnlockCondition.
func NewGovernorAddressUnlockCondition(address Address) *GovernorAddressUnlockCondition {
	return &GovernorAddressUnlockCondition{
		address: address,
	}
}

// GovernorAddressUnlockConditionFromMarshalUtil parses a GovernorAddressUnlockCondition from the given MarshalUtil.
func GovernorAddressUnlockConditionFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (unlockCondition *GovernorAddressUnlockCondition, err error) {
	if err = consumeUnlockConditionType(marshalUtil, GovernorAddressUnlockConditionType); err != nil {
		return
	}

	unlockCondition = &GovernorAddressUnlockCondition{}
	if unlockCondition.address, err = AddressFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse Address (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// Type returns the UnlockConditionType of the UnlockCondition.
func (g *GovernorAddressUnlockCondition) Type() UnlockConditionType {
	return GovernorAddressUnlockConditionType
}

// Address returns the Address that controls governance transitions.
func (g *GovernorAddressUnlockCondition) Address() Address {
	return g.address
}

// Clone creates a copy of the UnlockCondition.
func (g *GovernorAddressUnlockCondition) Clone() UnlockCondition {
	return &GovernorAddressUnlockCondition{
		address: g.address.Clone(),
	}
}

// Equals returns true if the two UnlockConditions are equal.
func (g *GovernorAddressUnlockCondition) Equals(other UnlockCondition) bool {
	otherCondition, typeMatches := other.(*GovernorAddressUnlockCondition)

	return typeMatches && g.address.Equals(otherCondition.address)
}

// Bytes returns a marshaled version of the UnlockCondition.
func (g *GovernorAddressUnlockCondition) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(GovernorAddressUnlockConditionType)).
		WriteBytes(g.address.Bytes()).
		Bytes()
}

// String returns a human readable version of the UnlockCondition.
func (g *GovernorAddressUnlockCondition) String() string {
	return stringify.Struct("GovernorAddressUnlockCondition",
		stringify.StructField("address", g.address),
	)
}

// code contract (make sure the type implements all required methods)
var _ UnlockCondition = &GovernorAddressUnlockCondition{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region ImmutableAliasAddressUnlockCondition /////////////////////////////////////////////////////////////////////////

// ImmutableAliasAddressUnlockCondition binds a foundry output to its controlling alias for the whole lifetime of the
// foundry.
type ImmutableAliasAddressUnlockCondition struct {
	address *AliasAddress
}

// NewImmutableAliasAddressUnlockCondition creates a new ImmutableAliasAddressUnlockCondition.
func NewImmutableAliasAddressUnlockCondition(address *AliasAddress) *ImmutableAliasAddressUnlockCondition {
	return &ImmutableAliasAddressUnlockCondition{
		address: address,
	}
}

// ImmutableAliasAddressUnlockConditionFromMarshalUtil parses an ImmutableAliasAddressUnlockCondition from the given
// MarshalUtil.
func ImmutableAliasAddressUnlockConditionFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (unlockCondition *ImmutableAliasAddressUnlockCondition, err error) {
	if err = consumeUnlockConditionType(marshalUtil, ImmutableAliasAddressUnlockConditionType); err != nil {
		return
	}

	unlockCondition = &ImmutableAliasAddressUnlockCondition{}
	if unlockCondition.address, err = AliasAddressFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse AliasAddress (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// Type returns the UnlockConditionType of the UnlockCondition.
func (i *ImmutableAliasAddressUnlockCondition) Type() UnlockConditionType {
	return ImmutableAliasAddressUnlockConditionType
}

// Address returns the AliasAddress that controls the Output.
func (i *ImmutableAliasAddressUnlockCondition) Address() *AliasAddress {
	return i.address
}

// Clone creates a copy of the UnlockCondition.
func (i *ImmutableAliasAddressUnlockCondition) Clone() UnlockCondition {
	return &ImmutableAliasAddressUnlockCondition{
		address: i.address.Clone().(*AliasAddress),
	}
}

// Equals returns true if the two UnlockConditions are equal.
func (i *ImmutableAliasAddressUnlockCondition) Equals(other UnlockCondition) bool {
	otherCondition, typeMatches := other.(*ImmutableAliasAddressUnlockCondition)

	return typeMatches && i.address.Equals(otherCondition.address)
}

// Bytes returns a marshaled version of the UnlockCondition.
func (i *ImmutableAliasAddressUnlockCondition) Bytes() []byte {
	return marshalutil.New().
		WriteByte(byte(ImmutableAliasAddressUnlockConditionType)).
		WriteBytes(i.address.Bytes()).
		Bytes()
}

// String returns a human readable version of the UnlockCondition.
func (i *ImmutableAliasAddressUnlockCondition) String() string {
	return stringify.Struct("ImmutableAliasAddressUnlockCondition",
		stringify.StructField("address", i.address),
	)
}

// code contract (make sure the type implements all required methods)
var _ UnlockCondition = &ImmutableAliasAddressUnlockCondition{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region UnlockConditions /////////////////////////////////////////////////////////////////////////////////////////////

// UnlockConditions is a canonically sorted collection of UnlockConditions where every type occurs at most once.
type UnlockConditions []UnlockCondition

// NewUnlockConditions creates a deduplicated, canonically sorted collection of UnlockConditions. The first occurrence
// of a type wins.
func NewUnlockConditions(optionalUnlockConditions ...UnlockCondition) (unlockConditions UnlockConditions) {
	seenTypes := make(map[UnlockConditionType]struct{})
	for _, unlockCondition := range optionalUnlockConditions {
		if _, seenAlready := seenTypes[unlockCondition.Type()]; seenAlready {
			continue
		}
		seenTypes[unlockCondition.Type()] = struct{}{}

		unlockConditions = append(unlockConditions, unlockCondition)
	}
	unlockConditions.Sort()

	return
}

// UnlockConditionsFromMarshalUtil unmarshals a collection of UnlockConditions using a MarshalUtil.
func UnlockConditionsFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (unlockConditions UnlockConditions, err error) {
	conditionCount, err := marshalUtil.ReadByte()
	if err != nil {
		err = xerrors.Errorf("failed to parse unlock condition count (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	unlockConditions = make(UnlockConditions, conditionCount)
	for i := byte(0); i < conditionCount; i++ {
		if unlockConditions[i], err = UnlockConditionFromMarshalUtil(marshalUtil); err != nil {
			err = xerrors.Errorf("failed to parse UnlockCondition: %w", err)
			return
		}
	}

	return
}

// Sort sorts the collection by UnlockConditionType.
func (u UnlockConditions) Sort() {
	sort.Slice(u, func(i, j int) bool {
		return u[i].Type() < u[j].Type()
	})
}

// Get returns the UnlockCondition with the given type (or nil if it is not part of the collection).
func (u UnlockConditions) Get(unlockConditionType UnlockConditionType) UnlockCondition {
	for _, unlockCondition := range u {
		if unlockCondition.Type() == unlockConditionType {
			return unlockCondition
		}
	}

	return nil
}

// Address returns the AddressUnlockCondition of the collection (or nil if absent).
func (u UnlockConditions) Address() *AddressUnlockCondition {
	if unlockCondition := u.Get(AddressUnlockConditionType); unlockCondition != nil {
		return unlockCondition.(*AddressUnlockCondition)
	}

	return nil
}

// StorageDepositReturn returns the StorageDepositReturnUnlockCondition of the collection (or nil if absent).
func (u UnlockConditions) StorageDepositReturn() *StorageDepositReturnUnlockCondition {
	if unlockCondition := u.Get(StorageDepositReturnUnlockConditionType); unlockCondition != nil {
		return unlockCondition.(*StorageDepositReturnUnlockCondition)
	}

	return nil
}

// Timelock returns the TimelockUnlockCondition of the collection (or nil if absent).
func (u UnlockConditions) Timelock() *TimelockUnlockCondition {
	if unlockCondition := u.Get(TimelockUnlockConditionType); unlockCondition != nil {
		return unlockCondition.(*TimelockUnlockCondition)
	}

	return nil
}

// Expiration returns the ExpirationUnlockCondition of the collection (or nil if absent).
func (u UnlockConditions) Expiration() *ExpirationUnlockCondition {
	if unlockCondition := u.Get(ExpirationUnlockConditionType); unlockCondition != nil {
		return unlockCondition.(*ExpirationUnlockCondition)
	}

	return nil
}

// StateControllerAddress returns the StateControllerAddressUnlockCondition of the collection (or nil if absent).
func (u UnlockConditions) StateControllerAddress() *StateControllerAddressUnlockCondition {
	if unlockCondition := u.Get(StateControllerAddressUnlockConditionType); unlockCondition != nil {
		return unlockCondition.(*StateControllerAddressUnlockCondition)
	}

	return nil
}

// GovernorAddress returns the GovernorAddressUnlockCondition of the collection (or nil if absent).
func (u UnlockConditions) GovernorAddress() *GovernorAddressUnlockCondition {
	if unlockCondition := u.Get(GovernorAddressUnlockConditionType); unlockCondition != nil {
		return unlockCondition.(*GovernorAddressUnlockCondition)
	}

	return nil
}

// ImmutableAliasAddress returns the ImmutableAliasAddressUnlockCondition of the collection (or nil if absent).
func (u UnlockConditions) ImmutableAliasAddress() *ImmutableAliasAddressUnlockCondition {
	if unlockCondition := u.Get(ImmutableAliasAddressUnlockConditionType); unlockCondition != nil {
		return unlockCondition.(*ImmutableAliasAddressUnlockCondition)
	}

	return nil
}

// LockedAddress resolves the Address that effectively controls the Output at the given confirmed milestone timestamp,
// accounting for an ExpirationUnlockCondition that hands control over to its return address once expired.
func (u UnlockConditions) LockedAddress(ownerAddress Address, confirmedMilestoneTimestamp uint32) Address {
	if expiration := u.Expiration(); expiration != nil && confirmedMilestoneTimestamp >= expiration.UnixTime() {
		return expiration.ReturnAddress()
	}

	return ownerAddress
}

// TimelocksExpired returns true if no TimelockUnlockCondition of the collection is still active at the given
// confirmed milestone timestamp.
func (u UnlockConditions) TimelocksExpired(confirmedMilestoneTimestamp uint32) bool {
	timelock := u.Timelock()

	return timelock == nil || confirmedMilestoneTimestamp >= timelock.UnixTime()
}

// Clone creates a copy of the UnlockConditions.
func (u UnlockConditions) Clone() (clonedUnlockConditions UnlockConditions) {
	clonedUnlockConditions = make(UnlockConditions, len(u))
	for i, unlockCondition := range u {
		clonedUnlockConditions[i] = unlockCondition.Clone()
	}

	return
}

// Equals returns true if the two collections hold the same UnlockConditions in the same order.
func (u UnlockConditions) Equals(other UnlockConditions) bool {
	if len(u) != len(other) {
		return false
	}
	for i, unlockCondition := range u {
		if !unlockCondition.Equals(other[i]) {
			return false
		}
	}

	return true
}

// Bytes returns a marshaled version of the UnlockConditions.
func (u UnlockConditions) Bytes() []byte {
	marshalUtil := marshalutil.New()
	marshalUtil.WriteByte(byte(len(u)))
	for _, unlockCondition := range u {
		marshalUtil.WriteBytes(unlockCondition.Bytes())
	}

	return marshalUtil.Bytes()
}

// verify checks the uniqueness and ordering of the collection and that every condition is within the allow-list.
func (u UnlockConditions) verify(allowedUnlockConditions bitmask.BitMask) (err error) {
	seenTypes := bitmask.BitMask(0)
	previousType := UnlockConditionType(0)
	for i, unlockCondition := range u {
		if !allowedUnlockConditions.HasBit(uint(unlockCondition.Type())) {
			return xerrors.Errorf("%s: %w", unlockCondition.Type(), ErrDisallowedUnlockCondition)
		}
		if seenTypes.HasBit(uint(unlockCondition.Type())) || (i > 0 && unlockCondition.Type() <= previousType) {
			return xerrors.Errorf("unlock conditions are not sorted by unique type: %w", cerrors.ErrParseBytesFailed)
		}
		seenTypes = seenTypes.SetBit(uint(unlockCondition.Type()))
		previousType = unlockCondition.Type()
	}

	return nil
}

// String returns a human readable version of the UnlockConditions.
func (u UnlockConditions) String() string {
	structBuilder := stringify.StructBuilder("UnlockConditions")
	for _, unlockCondition := range u {
		structBuilder.AddField(stringify.StructField(unlockCondition.Type().String(), unlockCondition))
	}

	return structBuilder.String()
}

// insertIfAbsent adds the given UnlockCondition if no condition of the same type is present, keeping the first.
func (u UnlockConditions) insertIfAbsent(unlockCondition UnlockCondition) UnlockConditions {
	if u.Get(unlockCondition.Type()) != nil {
		return u
	}
	extended := append(u, unlockCondition)
	extended.Sort()

	return extended
}

// replace adds the given UnlockCondition, overwriting a present condition of the same type.
func (u UnlockConditions) replace(unlockCondition UnlockCondition) UnlockConditions {
	for i, existingCondition := range u {
		if existingCondition.Type() == unlockCondition.Type() {
			u[i] = unlockCondition
			return u
		}
	}
	extended := append(u, unlockCondition)
	extended.Sort()

	return extended
}

// consumeUnlockConditionType reads the type discriminant and ensures it matches the expected UnlockConditionType.
func consumeUnlockConditionType(marshalUtil *marshalutil.MarshalUtil, expectedType UnlockConditionType) (err error) {
	unlockConditionType, err := marshalUtil.ReadByte()
	if err != nil {
		return xerrors.Errorf("failed to parse UnlockConditionType (%v): %w", err, cerrors.ErrParseBytesFailed)
	}
	if UnlockConditionType(unlockConditionType) != expectedType {
		return xerrors.Errorf("invalid UnlockConditionType (%X): %w", unlockConditionType, cerrors.ErrParseBytesFailed)
	}

	return nil
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
