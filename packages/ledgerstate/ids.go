package ledgerstate

import (
	"encoding/binary"
	"fmt"

	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/xerrors"
)

// region TransactionID ////////////////////////////////////////////////////////////////////////////////////////////////

// TransactionIDLength contains the amount of bytes that a marshaled version of the TransactionID contains.
const TransactionIDLength = 32

// TransactionID is the hash of the Transaction that created an Output.
type TransactionID [TransactionIDLength]byte

// TransactionIDFromMarshalUtil unmarshals a TransactionID using a MarshalUtil (for easier unmarshaling).
func TransactionIDFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (transactionID TransactionID, err error) {
	transactionIDBytes, err := marshalUtil.ReadBytes(TransactionIDLength)
	if err != nil {
		err = xerrors.Errorf("failed to parse TransactionID (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	copy(transactionID[:], transactionIDBytes)

	return
}

// Bytes marshals the TransactionID into a sequence of bytes.
func (t TransactionID) Bytes() []byte {
	return t[:]
}

// Base58 returns a base58 encoded version of the TransactionID.
func (t TransactionID) Base58() string {
	return base58.Encode(t[:])
}

// String creates a human readable version of the TransactionID.
func (t TransactionID) String() string {
	return "TransactionID(" + t.Base58() + ")"
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region OutputID /////////////////////////////////////////////////////////////////////////////////////////////////////

// MaxOutputCount defines the maximum amount of Outputs in a Transaction.
const MaxOutputCount = 128

// OutputIDLength contains the amount of bytes that a marshaled version of the OutputID contains.
const OutputIDLength = TransactionIDLength + marshalutil.Uint16Size

// OutputID is the data type that represents the identifier of an Output (which consists of a TransactionID and the
// index of the Output in the Transaction that created it).
type OutputID [OutputIDLength]byte

// EmptyOutputID represents the zero-value of an OutputID.
var EmptyOutputID OutputID

// NewOutputID is the constructor for the OutputID.
func NewOutputID(transactionID TransactionID, outputIndex uint16) (outputID OutputID) {
	if outputIndex >= MaxOutputCount {
		panic(fmt.Sprintf("output index exceeds threshold defined by MaxOutputCount (%d)", MaxOutputCount))
	}

	copy(outputID[:TransactionIDLength], transactionID.Bytes())
	binary.LittleEndian.PutUint16(outputID[TransactionIDLength:], outputIndex)

	return
}

// OutputIDFromBytes unmarshals an OutputID from a sequence of bytes.
func OutputIDFromBytes(bytes []byte) (outputID OutputID, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(bytes)
	if outputID, err = OutputIDFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse OutputID from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// OutputIDFromBase58 creates an OutputID from a base58 encoded string.
func OutputIDFromBase58(base58String string) (outputID OutputID, err error) {
	decodedBytes, err := base58.Decode(base58String)
	if err != nil {
		err = xerrors.Errorf("error while decoding base58 encoded OutputID (%v): %w", err, cerrors.ErrBase58DecodeFailed)
		return
	}

	if outputID, _, err = OutputIDFromBytes(decodedBytes); err != nil {
		err = xerrors.Errorf("failed to parse OutputID from bytes: %w", err)
		return
	}

	return
}

// OutputIDFromMarshalUtil unmarshals an OutputID using a MarshalUtil (for easier unmarshaling).
func OutputIDFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (outputID OutputID, err error) {
	outputIDBytes, err := marshalUtil.ReadBytes(OutputIDLength)
	if err != nil {
		err = xerrors.Errorf("failed to parse OutputID (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	copy(outputID[:], outputIDBytes)

	if outputID.OutputIndex() >= MaxOutputCount {
		err = xerrors.Errorf("output index exceeds threshold defined by MaxOutputCount (%d): %w", MaxOutputCount, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// TransactionID returns the TransactionID part of an OutputID.
func (o OutputID) TransactionID() (transactionID TransactionID) {
	copy(transactionID[:], o[:TransactionIDLength])

	return
}

// OutputIndex returns the Output index part of an OutputID.
func (o OutputID) OutputIndex() uint16 {
	return binary.LittleEndian.Uint16(o[TransactionIDLength:])
}

// Hash returns the blake2b-256 hash of the OutputID which is used to derive chain identifiers.
func (o OutputID) Hash() [blake2b.Size256]byte {
	return blake2b.Sum256(o[:])
}

// Bytes marshals the OutputID into a sequence of bytes.
func (o OutputID) Bytes() []byte {
	return o[:]
}

// Base58 returns a base58 encoded version of the OutputID.
func (o OutputID) Base58() string {
	return base58.Encode(o[:])
}

// String creates a human readable version of the OutputID.
func (o OutputID) String() string {
	return stringify.Struct("OutputID",
		stringify.StructField("transactionID", o.TransactionID()),
		stringify.StructField("outputIndex", o.OutputIndex()),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region AliasID //////////////////////////////////////////////////////////////////////////////////////////////////////

// AliasIDLength contains the amount of bytes that a marshaled version of the AliasID contains.
const AliasIDLength = 32

// AliasID is the identifier of an AliasOutput, the blake2b-256 hash of the OutputID that created the alias.
type AliasID [AliasIDLength]byte

// EmptyAliasID is the zero-value of an AliasID, used by alias outputs that have not been included in the ledger yet.
var EmptyAliasID AliasID

// AliasIDFromOutputID derives the AliasID from the OutputID that created the alias.
func AliasIDFromOutputID(outputID OutputID) AliasID {
	return AliasID(outputID.Hash())
}

// AliasIDFromBase58 creates an AliasID from a base58 encoded string.
func AliasIDFromBase58(base58String string) (aliasID AliasID, err error) {
	decodedBytes, err := base58.Decode(base58String)
	if err != nil {
		err = xerrors.Errorf("error while decoding base58 encoded AliasID (%v): %w", err, cerrors.ErrBase58DecodeFailed)
		return
	}
	if len(decodedBytes) != AliasIDLength {
		err = xerrors.Errorf("length of base58 decoded AliasID is wrong: %w", cerrors.ErrParseBytesFailed)
		return
	}
	copy(aliasID[:], decodedBytes)

	return
}

// AliasIDFromMarshalUtil unmarshals an AliasID using a MarshalUtil (for easier unmarshaling).
func AliasIDFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (aliasID AliasID, err error) {
	aliasIDBytes, err := marshalUtil.ReadBytes(AliasIDLength)
	if err != nil {
		err = xerrors.Errorf("failed to parse AliasID (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	copy(aliasID[:], aliasIDBytes)

	return
}

// IsEmpty returns true if the AliasID has not been resolved from an OutputID yet.
func (a AliasID) IsEmpty() bool {
	return a == EmptyAliasID
}

// OrFromOutputID resolves an empty AliasID from the OutputID that created it and returns resolved IDs unchanged.
func (a AliasID) OrFromOutputID(outputID OutputID) AliasID {
	if a.IsEmpty() {
		return AliasIDFromOutputID(outputID)
	}

	return a
}

// ChainID returns the ChainID that corresponds to the AliasID.
func (a AliasID) ChainID() ChainID {
	return newChainID(AliasOutputType, a[:])
}

// Bytes marshals the AliasID into a sequence of bytes.
func (a AliasID) Bytes() []byte {
	return a[:]
}

// Base58 returns a base58 encoded version of the AliasID.
func (a AliasID) Base58() string {
	return base58.Encode(a[:])
}

// String creates a human readable version of the AliasID.
func (a AliasID) String() string {
	return "AliasID(" + a.Base58() + ")"
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region NFTID ////////////////////////////////////////////////////////////////////////////////////////////////////////

// NFTIDLength contains the amount of bytes that a marshaled version of the NFTID contains.
const NFTIDLength = 32

// NFTID is the identifier of an NFTOutput, the blake2b-256 hash of the OutputID that created the NFT.
type NFTID [NFTIDLength]byte

// EmptyNFTID is the zero-value of an NFTID.
var EmptyNFTID NFTID

// NFTIDFromOutputID derives the NFTID from the OutputID that created the NFT.
func NFTIDFromOutputID(outputID OutputID) NFTID {
	return NFTID(outputID.Hash())
}

// NFTIDFromBase58 creates an NFTID from a base58 encoded string.
func NFTIDFromBase58(base58String string) (nftID NFTID, err error) {
	decodedBytes, err := base58.Decode(base58String)
	if err != nil {
		err = xerrors.Errorf("error while decoding base58 encoded NFTID (%v): %w", err, cerrors.ErrBase58DecodeFailed)
		return
	}
	if len(decodedBytes) != NFTIDLength {
		err = xerrors.Errorf("length of base58 decoded NFTID is wrong: %w", cerrors.ErrParseBytesFailed)
		return
	}
	copy(nftID[:], decodedBytes)

	return
}

// NFTIDFromMarshalUtil unmarshals an NFTID using a MarshalUtil (for easier unmarshaling).
func NFTIDFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (nftID NFTID, err error) {
	nftIDBytes, err := marshalUtil.ReadBytes(NFTIDLength)
	if err != nil {
		err = xerrors.Errorf("failed to parse NFTID (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	copy(nftID[:], nftIDBytes)

	return
}

// IsEmpty returns true if the NFTID has not been resolved from an OutputID yet.
func (n NFTID) IsEmpty() bool {
	return n == EmptyNFTID
}

// OrFromOutputID resolves an empty NFTID from the OutputID that created it and returns resolved IDs unchanged.
func (n NFTID) OrFromOutputID(outputID OutputID) NFTID {
	if n.IsEmpty() {
		return NFTIDFromOutputID(outputID)
	}

	return n
}

// ChainID returns the ChainID that corresponds to the NFTID.
func (n NFTID) ChainID() ChainID {
	return newChainID(NFTOutputType, n[:])
}

// Bytes marshals the NFTID into a sequence of bytes.
func (n NFTID) Bytes() []byte {
	return n[:]
}

// Base58 returns a base58 encoded version of the NFTID.
func (n NFTID) Base58() string {
	return base58.Encode(n[:])
}

// String creates a human readable version of the NFTID.
func (n NFTID) String() string {
	return "NFTID(" + n.Base58() + ")"
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region DelegationID /////////////////////////////////////////////////////////////////////////////////////////////////

// DelegationIDLength contains the amount of bytes that a marshaled version of the DelegationID contains.
const DelegationIDLength = 32

// DelegationID is the identifier of a DelegationOutput, the blake2b-256 hash of the OutputID that created it.
type DelegationID [DelegationIDLength]byte

// EmptyDelegationID is the zero-value of a DelegationID.
var EmptyDelegationID DelegationID

// DelegationIDFromOutputID derives the DelegationID from the OutputID that created the delegation.
func DelegationIDFromOutputID(outputID OutputID) DelegationID {
	return DelegationID(outputID.Hash())
}

// DelegationIDFromBase58 creates a DelegationID from a base58 encoded string.
func DelegationIDFromBase58(base58String string) (delegationID DelegationID, err error) {
	decodedBytes, err := base58.Decode(base58String)
	if err != nil {
		err = xerrors.Errorf("error while decoding base58 encoded DelegationID (%v): %w", err, cerrors.ErrBase58DecodeFailed)
		return
	}
	if len(decodedBytes) != DelegationIDLength {
		err = xerrors.Errorf("length of base58 decoded DelegationID is wrong: %w", cerrors.ErrParseBytesFailed)
		return
	}
	copy(delegationID[:], decodedBytes)

	return
}

// DelegationIDFromMarshalUtil unmarshals a DelegationID using a MarshalUtil (for easier unmarshaling).
func DelegationIDFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (delegationID DelegationID, err error) {
	delegationIDBytes, err := marshalUtil.ReadBytes(DelegationIDLength)
	if err != nil {
		err = xerrors.Errorf("failed to parse DelegationID (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	copy(delegationID[:], delegationIDBytes)

	return
}

// IsEmpty returns true if the DelegationID has not been resolved from an OutputID yet.
func (d DelegationID) IsEmpty() bool {
	return d == EmptyDelegationID
}

// OrFromOutputID resolves an empty DelegationID from the OutputID that created it and returns resolved IDs unchanged.
func (d DelegationID) OrFromOutputID(outputID OutputID) DelegationID {
	if d.IsEmpty() {
		return DelegationIDFromOutputID(outputID)
	}

	return d
}

// ChainID returns the ChainID that corresponds to the DelegationID.
func (d DelegationID) ChainID() ChainID {
	return newChainID(DelegationOutputType, d[:])
}

// Bytes marshals the DelegationID into a sequence of bytes.
func (d DelegationID) Bytes() []byte {
	return d[:]
}

// Base58 returns a base58 encoded version of the DelegationID.
func (d DelegationID) Base58() string {
	return base58.Encode(d[:])
}

// String creates a human readable version of the DelegationID.
func (d DelegationID) String() string {
	return "DelegationID(" + d.Base58() + ")"
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region AccountID ////////////////////////////////////////////////////////////////////////////////////////////////////

// AccountIDLength contains the amount of bytes that a marshaled version of the AccountID contains.
const AccountIDLength = 32

// AccountID identifies the account (validator) that a DelegationOutput delegates its funds to.
type AccountID [AccountIDLength]byte

// AccountIDFromBase58 creates an AccountID from a base58 encoded string.
func AccountIDFromBase58(base58String string) (accountID AccountID, err error) {
	decodedBytes, err := base58.Decode(base58String)
	if err != nil {
		err = xerrors.Errorf("error while decoding base58 encoded AccountID (%v): %w", err, cerrors.ErrBase58DecodeFailed)
		return
	}
	if len(decodedBytes) != AccountIDLength {
		err = xerrors.Errorf("length of base58 decoded AccountID is wrong: %w", cerrors.ErrParseBytesFailed)
		return
	}
	copy(accountID[:], decodedBytes)

	return
}

// AccountIDFromMarshalUtil unmarshals an AccountID using a MarshalUtil (for easier unmarshaling).
func AccountIDFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (accountID AccountID, err error) {
	accountIDBytes, err := marshalUtil.ReadBytes(AccountIDLength)
	if err != nil {
		err = xerrors.Errorf("failed to parse AccountID (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	copy(accountID[:], accountIDBytes)

	return
}

// Bytes marshals the AccountID into a sequence of bytes.
func (a AccountID) Bytes() []byte {
	return a[:]
}

// Base58 returns a base58 encoded version of the AccountID.
func (a AccountID) Base58() string {
	return base58.Encode(a[:])
}

// String creates a human readable version of the AccountID.
func (a AccountID) String() string {
	return "AccountID(" + a.Base58() + ")"
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region FoundryID ////////////////////////////////////////////////////////////////////////////////////////////////////

// FoundryIDLength contains the amount of bytes that a marshaled version of the FoundryID contains (the controlling
// alias address, the serial number and the token scheme kind).
const FoundryIDLength = AddressLength + marshalutil.Uint32Size + 1

// FoundryID is the identifier of a FoundryOutput, derived from the controlling alias address, the serial number and
// the kind of the token scheme.
type FoundryID [FoundryIDLength]byte

// NewFoundryID builds a FoundryID from its defining components.
func NewFoundryID(aliasAddress *AliasAddress, serialNumber uint32, tokenSchemeKind TokenSchemeType) (foundryID FoundryID) {
	marshaledID := marshalutil.New(FoundryIDLength).
		WriteBytes(aliasAddress.Bytes()).
		WriteUint32(serialNumber).
		WriteByte(byte(tokenSchemeKind)).
		Bytes()
	copy(foundryID[:], marshaledID)

	return
}

// FoundryIDFromMarshalUtil unmarshals a FoundryID using a MarshalUtil (for easier unmarshaling).
func FoundryIDFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (foundryID FoundryID, err error) {
	foundryIDBytes, err := marshalUtil.ReadBytes(FoundryIDLength)
	if err != nil {
		err = xerrors.Errorf("failed to parse FoundryID (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	copy(foundryID[:], foundryIDBytes)

	return
}

// TokenID returns the identity of the native tokens controlled by the foundry, which equals the FoundryID.
func (f FoundryID) TokenID() TokenID {
	return TokenID(f)
}

// ChainID returns the ChainID that corresponds to the FoundryID.
func (f FoundryID) ChainID() ChainID {
	return newChainID(FoundryOutputType, f[:])
}

// Bytes marshals the FoundryID into a sequence of bytes.
func (f FoundryID) Bytes() []byte {
	return f[:]
}

// Base58 returns a base58 encoded version of the FoundryID.
func (f FoundryID) Base58() string {
	return base58.Encode(f[:])
}

// String creates a human readable version of the FoundryID.
func (f FoundryID) String() string {
	return "FoundryID(" + f.Base58() + ")"
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region TokenID //////////////////////////////////////////////////////////////////////////////////////////////////////

// TokenIDLength contains the amount of bytes that a marshaled version of the TokenID contains.
const TokenIDLength = FoundryIDLength

// TokenID identifies a class of native tokens. It equals the FoundryID of the foundry that mints the tokens.
type TokenID [TokenIDLength]byte

// TokenIDFromBase58 creates a TokenID from a base58 encoded string.
func TokenIDFromBase58(base58String string) (tokenID TokenID, err error) {
	decodedBytes, err := base58.Decode(base58String)
	if err != nil {
		err = xerrors.Errorf("error while decoding base58 encoded TokenID (%v): %w", err, cerrors.ErrBase58DecodeFailed)
		return
	}
	if len(decodedBytes) != TokenIDLength {
		err = xerrors.Errorf("length of base58 decoded TokenID is wrong: %w", cerrors.ErrParseBytesFailed)
		return
	}
	copy(tokenID[:], decodedBytes)

	return
}

// TokenIDFromMarshalUtil unmarshals a TokenID using a MarshalUtil (for easier unmarshaling).
func TokenIDFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (tokenID TokenID, err error) {
	tokenIDBytes, err := marshalUtil.ReadBytes(TokenIDLength)
	if err != nil {
		err = xerrors.Errorf("failed to parse TokenID (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	copy(tokenID[:], tokenIDBytes)

	return
}

// FoundryID returns the identity of the foundry that mints the tokens.
func (t TokenID) FoundryID() FoundryID {
	return FoundryID(t)
}

// Bytes marshals the TokenID into a sequence of bytes.
func (t TokenID) Bytes() []byte {
	return t[:]
}

// Base58 returns a base58 encoded version of the TokenID.
func (t TokenID) Base58() string {
	return base58.Encode(t[:])
}

// String creates a human readable version of the TokenID.
func (t TokenID) String() string {
	return "TokenID(" + t.Base58() + ")"
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region ChainID //////////////////////////////////////////////////////////////////////////////////////////////////////

// ChainID is the persistent identity of a chain output (Alias, NFT, Foundry or Delegation) that survives state
// transitions. It is comparable and can be used as a map key.
type ChainID struct {
	outputType OutputType
	identifier [FoundryIDLength]byte
	length     uint8
}

// newChainID creates a ChainID tagged with the kind of output the identifier belongs to.
func newChainID(outputType OutputType, identifier []byte) (chainID ChainID) {
	chainID.outputType = outputType
	chainID.length = uint8(len(identifier))
	copy(chainID.identifier[:], identifier)

	return
}

// OutputType returns the kind of chain output the ChainID belongs to.
func (c ChainID) OutputType() OutputType {
	return c.outputType
}

// IsEmpty returns true if the ChainID holds an unresolved (all zeroes) identifier.
func (c ChainID) IsEmpty() bool {
	return c.identifier == [FoundryIDLength]byte{}
}

// Bytes marshals the identifier part of the ChainID into a sequence of bytes.
func (c ChainID) Bytes() []byte {
	return c.identifier[:c.length]
}

// String creates a human readable version of the ChainID.
func (c ChainID) String() string {
	return stringify.Struct("ChainID",
		stringify.StructField("outputType", c.outputType),
		stringify.StructField("identifier", base58.Encode(c.Bytes())),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
