package ledgerstate

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/byteutils"
	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// region AddressType //////////////////////////////////////////////////////////////////////////////////////////////////

const (
	// ED25519AddressType represents an Address secured by the ED25519 signature scheme.
	ED25519AddressType AddressType = 0

	// AliasAddressType represents the address of an alias chain, derived from its AliasID.
	AliasAddressType AddressType = 8

	// NFTAddressType represents the address of an NFT chain, derived from its NFTID.
	NFTAddressType AddressType = 16
)

// AddressLength contains the length of an address (type length = 1, digest length = 32).
const AddressLength = 33

// AddressType represents the type of the Address (different types encode different unlock schemes).
type AddressType byte

// String returns a human readable representation of the AddressType.
func (a AddressType) String() string {
	switch a {
	case ED25519AddressType:
		return "ED25519AddressType"
	case AliasAddressType:
		return "AliasAddressType"
	case NFTAddressType:
		return "NFTAddressType"
	default:
		return "UnknownAddressType"
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Address //////////////////////////////////////////////////////////////////////////////////////////////////////

// Address is an interface for the different kind of Addresses that are supported by the ledger state.
type Address interface {
	// Type returns the AddressType of the Address.
	Type() AddressType

	// Digest returns the hashed version of the Addresses public key (or the chain identifier for chain addresses).
	Digest() []byte

	// Clone creates a copy of the Address.
	Clone() Address

	// Equals returns true if the two Addresses are equal.
	Equals(other Address) bool

	// Bytes returns a marshaled version of the Address.
	Bytes() []byte

	// Array returns an array of bytes that contains the marshaled version of the Address.
	Array() [AddressLength]byte

	// Base58 returns a base58 encoded version of the Address.
	Base58() string

	// String returns a human readable version of the Address for debug purposes.
	String() string
}

// AddressFromBytes unmarshals an Address from a sequence of bytes.
func AddressFromBytes(bytes []byte) (address Address, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(bytes)
	if address, err = AddressFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse Address from MarshalUtil: %w", err)
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// AddressFromBase58EncodedString creates an Address from a base58 encoded string.
func AddressFromBase58EncodedString(base58String string) (address Address, err error) {
	decodedBytes, err := base58.Decode(base58String)
	if err != nil {
		err = errors.Errorf("error while decoding base58 encoded Address (%v): %w", err, cerrors.ErrBase58DecodeFailed)
		return
	}

	if address, _, err = AddressFromBytes(decodedBytes); err != nil {
		err = errors.Errorf("failed to parse Address from bytes: %w", err)
		return
	}

	return
}

// AddressFromMarshalUtil reads an Address from the bytes in the given MarshalUtil.
func AddressFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (address Address, err error) {
	addressType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse AddressType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	marshalUtil.ReadSeek(-1)

	switch AddressType(addressType) {
	case ED25519AddressType:
		return ED25519AddressFromMarshalUtil(marshalUtil)
	case AliasAddressType:
		return AliasAddressFromMarshalUtil(marshalUtil)
	case NFTAddressType:
		return NFTAddressFromMarshalUtil(marshalUtil)
	default:
		err = errors.Errorf("unsupported address type (%X): %w", addressType, cerrors.ErrParseBytesFailed)
		return
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region ED25519Address ///////////////////////////////////////////////////////////////////////////////////////////////

// ED25519Address represents an Address that is secured by the ED25519 signature scheme.
type ED25519Address struct {
	digest []byte
}

// NewED25519Address creates a new ED25519Address from the given public key.
func NewED25519Address(publicKey ed25519.PublicKey) *ED25519Address {
	digest := blake2b.Sum256(publicKey[:])

	return &ED25519Address{
		digest: digest[:],
	}
}

// ED25519AddressFromMarshalUtil is a method that parses an ED25519Address from the given MarshalUtil.
func ED25519AddressFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (address *ED25519Address, err error) {
	addressType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse AddressType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if AddressType(addressType) != ED25519AddressType {
		err = errors.Errorf("invalid AddressType (%X): %w", addressType, cerrors.ErrParseBytesFailed)
		return
	}

	address = &ED25519Address{}
	if address.digest, err = marshalUtil.ReadBytes(32); err != nil {
		err = errors.Errorf("error parsing digest (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// Type returns the AddressType of the Address.
func (e *ED25519Address) Type() AddressType {
	return ED25519AddressType
}

// Digest returns the hashed version of the Addresses public key.
func (e *ED25519Address) Digest() []byte {
	return e.digest
}

// Clone creates a copy of the Address.
func (e *ED25519Address) Clone() Address {
	clonedDigest := make([]byte, len(e.digest))
	copy(clonedDigest, e.digest)

	return &ED25519Address{
		digest: clonedDigest,
	}
}

// Equals returns true if the two Addresses are equal.
func (e *ED25519Address) Equals(other Address) bool {
	return e.Type() == other.Type() && bytes.Equal(e.digest, other.Digest())
}

// Bytes returns a marshaled version of the Address.
func (e *ED25519Address) Bytes() []byte {
	return byteutils.ConcatBytes([]byte{byte(ED25519AddressType)}, e.digest)
}

// Array returns an array of bytes that contains the marshaled version of the Address.
func (e *ED25519Address) Array() (array [AddressLength]byte) {
	copy(array[:], e.Bytes())

	return
}

// Base58 returns a base58 encoded version of the address.
func (e *ED25519Address) Base58() string {
	return base58.Encode(e.Bytes())
}

// String returns a human readable version of the addresses for debug purposes.
func (e *ED25519Address) String() string {
	return stringify.Struct("ED25519Address",
		stringify.StructField("Digest", e.Digest()),
		stringify.StructField("Base58", e.Base58()),
	)
}

// code contract (make sure the struct implements all required methods)
var _ Address = &ED25519Address{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region AliasAddress /////////////////////////////////////////////////////////////////////////////////////////////////

// AliasAddress represents the address of an alias chain. It is not backed by a private key but unlocked by proving
// control over the alias output that carries the corresponding AliasID.
type AliasAddress struct {
	aliasID AliasID
}

// NewAliasAddress creates a new AliasAddress from the given AliasID.
func NewAliasAddress(aliasID AliasID) *AliasAddress {
	return &AliasAddress{
		aliasID: aliasID,
	}
}

// AliasAddressFromMarshalUtil parses an AliasAddress from the given MarshalUtil.
func AliasAddressFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (address *AliasAddress, err error) {
	addressType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse AddressType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if AddressType(addressType) != AliasAddressType {
		err = errors.Errorf("invalid AddressType (%X): %w", addressType, cerrors.ErrParseBytesFailed)
		return
	}

	address = &AliasAddress{}
	if address.aliasID, err = AliasIDFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse AliasID: %w", err)
		return
	}

	return
}

// Type returns the AddressType of the Address.
func (a *AliasAddress) Type() AddressType {
	return AliasAddressType
}

// AliasID returns the identifier of the alias chain that the address belongs to.
func (a *AliasAddress) AliasID() AliasID {
	return a.aliasID
}

// Digest returns the chain identifier that the address is derived from.
func (a *AliasAddress) Digest() []byte {
	return a.aliasID.Bytes()
}

// Clone creates a copy of the Address.
func (a *AliasAddress) Clone() Address {
	return &AliasAddress{
		aliasID: a.aliasID,
	}
}

// Equals returns true if the two Addresses are equal.
func (a *AliasAddress) Equals(other Address) bool {
	return a.Type() == other.Type() && bytes.Equal(a.Digest(), other.Digest())
}

// Bytes returns a marshaled version of the Address.
func (a *AliasAddress) Bytes() []byte {
	return byteutils.ConcatBytes([]byte{byte(AliasAddressType)}, a.aliasID.Bytes())
}

// Array returns an array of bytes that contains the marshaled version of the Address.
func (a *AliasAddress) Array() (array [AddressLength]byte) {
	copy(array[:], a.Bytes())

	return
}

// Base58 returns a base58 encoded version of the address.
func (a *AliasAddress) Base58() string {
	return base58.Encode(a.Bytes())
}

// String returns a human readable version of the addresses for debug purposes.
func (a *AliasAddress) String() string {
	return stringify.Struct("AliasAddress",
		stringify.StructField("AliasID", a.AliasID()),
		stringify.StructField("Base58", a.Base58()),
	)
}

// code contract (make sure the struct implements all required methods)
var _ Address = &AliasAddress{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region NFTAddress ///////////////////////////////////////////////////////////////////////////////////////////////////

// NFTAddress represents the address of an NFT chain, derived from its NFTID.
type NFTAddress struct {
	nftID NFTID
}

// NewNFTAddress creates a new NFTAddress from the given NFTID.
func NewNFTAddress(nftID NFTID) *NFTAddress {
	return &NFTAddress{
		nftID: nftID,
	}
}

// NFTAddressFromMarshalUtil parses an NFTAddress from the given MarshalUtil.
func NFTAddressFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (address *NFTAddress, err error) {
	addressType, err := marshalUtil.ReadByte()
	if err != nil {
		err = errors.Errorf("failed to parse AddressType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if AddressType(addressType) != NFTAddressType {
		err = errors.Errorf("invalid AddressType (%X): %w", addressType, cerrors.ErrParseBytesFailed)
		return
	}

	address = &NFTAddress{}
	if address.nftID, err = NFTIDFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse NFTID: %w", err)
		return
	}

	return
}

// Type returns the AddressType of the Address.
func (n *NFTAddress) Type() AddressType {
	return NFTAddressType
}

// NFTID returns the identifier of the NFT chain that the address belongs to.
func (n *NFTAddress) NFTID() NFTID {
	return n.nftID
}

// Digest returns the chain identifier that the address is derived from.
func (n *NFTAddress) Digest() []byte {
	return n.nftID.Bytes()
}

// Clone creates a copy of the Address.
func (n *NFTAddress) Clone() Address {
	return &NFTAddress{
		nftID: n.nftID,
	}
}

// Equals returns true if the two Addresses are equal.
func (n *NFTAddress) Equals(other Address) bool {
	return n.Type() == other.Type() && bytes.Equal(n.Digest(), other.Digest())
}

// Bytes returns a marshaled version of the Address.
func (n *NFTAddress) Bytes() []byte {
	return byteutils.ConcatBytes([]byte{byte(NFTAddressType)}, n.nftID.Bytes())
}

// Array returns an array of bytes that contains the marshaled version of the Address.
func (n *NFTAddress) Array() (array [AddressLength]byte) {
	copy(array[:], n.Bytes())

	return
}

// Base58 returns a base58 encoded version of the address.
func (n *NFTAddress) Base58() string {
	return base58.Encode(n.Bytes())
}

// String returns a human readable version of the addresses for debug purposes.
func (n *NFTAddress) String() string {
	return stringify.Struct("NFTAddress",
		stringify.StructField("NFTID", n.NFTID()),
		stringify.StructField("Base58", n.Base58()),
	)
}

// code contract (make sure the struct implements all required methods)
var _ Address = &NFTAddress{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
