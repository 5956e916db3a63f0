package ledgerstate

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"
	"golang.org/x/xerrors"
)

// region uint256 //////////////////////////////////////////////////////////////////////////////////////////////////////

// Uint256ByteSize is the fixed serialized size of a 256 bit unsigned integer.
const Uint256ByteSize = 32

var (
	// maxUint256 is the largest value a 256 bit unsigned integer can hold.
	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	bigZero = big.NewInt(0)
)

// writeUint256 appends the little-endian fixed-width encoding of value to the MarshalUtil.
func writeUint256(marshalUtil *marshalutil.MarshalUtil, value *big.Int) {
	var serialized [Uint256ByteSize]byte
	valueBytes := value.Bytes()
	for i, valueByte := range valueBytes {
		serialized[len(valueBytes)-1-i] = valueByte
	}
	marshalUtil.WriteBytes(serialized[:])
}

// uint256FromMarshalUtil reads the little-endian fixed-width encoding of a 256 bit unsigned integer.
func uint256FromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (value *big.Int, err error) {
	serialized, err := marshalUtil.ReadBytes(Uint256ByteSize)
	if err != nil {
		err = xerrors.Errorf("failed to parse uint256 (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	bigEndian := make([]byte, Uint256ByteSize)
	for i, serializedByte := range serialized {
		bigEndian[Uint256ByteSize-1-i] = serializedByte
	}
	value = new(big.Int).SetBytes(bigEndian)

	return
}

// validUint256 returns true if the given value fits the range of a 256 bit unsigned integer.
func validUint256(value *big.Int) bool {
	return value != nil && value.Sign() >= 0 && value.Cmp(maxUint256) <= 0
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region NativeToken //////////////////////////////////////////////////////////////////////////////////////////////////

// MaxNativeTokenCount is the maximum amount of NativeTokens that a single Output can hold.
const MaxNativeTokenCount = 64

// NativeToken is a quantity of user-defined tokens, identified by the foundry that minted them.
type NativeToken struct {
	id     TokenID
	amount *big.Int
}

// NewNativeToken creates a new NativeToken with the given identity and amount.
func NewNativeToken(id TokenID, amount *big.Int) *NativeToken {
	return &NativeToken{
		id:     id,
		amount: new(big.Int).Set(amount),
	}
}

// NativeTokenFromMarshalUtil unmarshals a NativeToken using a MarshalUtil (for easier unmarshaling).
func NativeTokenFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (nativeToken *NativeToken, err error) {
	nativeToken = &NativeToken{}
	if nativeToken.id, err = TokenIDFromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse TokenID: %w", err)
		return
	}
	if nativeToken.amount, err = uint256FromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse native token amount: %w", err)
		return
	}

	return
}

// ID returns the identity of the tokens.
func (n *NativeToken) ID() TokenID {
	return n.id
}

// Amount returns the quantity of tokens.
func (n *NativeToken) Amount() *big.Int {
	return new(big.Int).Set(n.amount)
}

// Clone creates a copy of the NativeToken.
func (n *NativeToken) Clone() *NativeToken {
	return &NativeToken{
		id:     n.id,
		amount: new(big.Int).Set(n.amount),
	}
}

// Equals returns true if the two NativeTokens hold the same identity and amount.
func (n *NativeToken) Equals(other *NativeToken) bool {
	return n.id == other.id && n.amount.Cmp(other.amount) == 0
}

// Bytes marshals the NativeToken into a sequence of bytes.
func (n *NativeToken) Bytes() []byte {
	marshalUtil := marshalutil.New(TokenIDLength + Uint256ByteSize)
	marshalUtil.WriteBytes(n.id.Bytes())
	writeUint256(marshalUtil, n.amount)

	return marshalUtil.Bytes()
}

// String returns a human readable version of the NativeToken.
func (n *NativeToken) String() string {
	return stringify.Struct("NativeToken",
		stringify.StructField("id", n.id),
		stringify.StructField("amount", n.amount.String()),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region NativeTokens /////////////////////////////////////////////////////////////////////////////////////////////////

// NativeTokens is a canonically sorted collection of NativeTokens with unique token identities.
type NativeTokens []*NativeToken

// NewNativeTokens creates a deduplicated, canonically sorted collection of NativeTokens. The first occurrence of a
// token identity wins.
func NewNativeTokens(optionalNativeTokens ...*NativeToken) (nativeTokens NativeTokens) {
	seenIDs := make(map[TokenID]struct{})
	for _, nativeToken := range optionalNativeTokens {
		if _, seenAlready := seenIDs[nativeToken.ID()]; seenAlready {
			continue
		}
		seenIDs[nativeToken.ID()] = struct{}{}

		nativeTokens = append(nativeTokens, nativeToken)
	}
	nativeTokens.Sort()

	return
}

// NativeTokensFromMarshalUtil unmarshals a collection of NativeTokens using a MarshalUtil.
func NativeTokensFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (nativeTokens NativeTokens, err error) {
	tokenCount, err := marshalUtil.ReadByte()
	if err != nil {
		err = xerrors.Errorf("failed to parse native token count (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	nativeTokens = make(NativeTokens, tokenCount)
	for i := byte(0); i < tokenCount; i++ {
		if nativeTokens[i], err = NativeTokenFromMarshalUtil(marshalUtil); err != nil {
			err = xerrors.Errorf("failed to parse NativeToken: %w", err)
			return
		}
	}

	return
}

// Sort sorts the collection by token identity.
func (n NativeTokens) Sort() {
	sort.Slice(n, func(i, j int) bool {
		return bytes.Compare(n[i].ID().Bytes(), n[j].ID().Bytes()) < 0
	})
}

// Get returns the NativeToken with the given identity (or nil if it is not part of the collection).
func (n NativeTokens) Get(id TokenID) *NativeToken {
	for _, nativeToken := range n {
		if nativeToken.ID() == id {
			return nativeToken
		}
	}

	return nil
}

// Clone creates a copy of the NativeTokens.
func (n NativeTokens) Clone() (clonedNativeTokens NativeTokens) {
	clonedNativeTokens = make(NativeTokens, len(n))
	for i, nativeToken := range n {
		clonedNativeTokens[i] = nativeToken.Clone()
	}

	return
}

// Equals returns true if the two collections hold the same tokens in the same order.
func (n NativeTokens) Equals(other NativeTokens) bool {
	if len(n) != len(other) {
		return false
	}
	for i, nativeToken := range n {
		if !nativeToken.Equals(other[i]) {
			return false
		}
	}

	return true
}

// Bytes marshals the NativeTokens into a sequence of bytes.
func (n NativeTokens) Bytes() []byte {
	marshalUtil := marshalutil.New()
	marshalUtil.WriteByte(byte(len(n)))
	for _, nativeToken := range n {
		marshalUtil.WriteBytes(nativeToken.Bytes())
	}

	return marshalUtil.Bytes()
}

// verify checks the uniqueness, ordering and amount constraints of the collection.
func (n NativeTokens) verify() (err error) {
	if len(n) > MaxNativeTokenCount {
		return xerrors.Errorf("%d native tokens exceed the limit of %d: %w", len(n), MaxNativeTokenCount, ErrMaxNativeTokensExceeded)
	}

	var previousID *TokenID
	for _, nativeToken := range n {
		if nativeToken.amount.Cmp(bigZero) == 0 {
			return xerrors.Errorf("native token %s has a zero amount: %w", nativeToken.ID(), ErrInvalidNativeTokenSet)
		}
		if !validUint256(nativeToken.amount) {
			return xerrors.Errorf("native token %s amount exceeds uint256: %w", nativeToken.ID(), ErrInvalidNativeTokenSet)
		}
		if previousID != nil && bytes.Compare(previousID.Bytes(), nativeToken.ID().Bytes()) >= 0 {
			return xerrors.Errorf("native tokens are not sorted by unique token identity: %w", ErrInvalidNativeTokenSet)
		}
		id := nativeToken.ID()
		previousID = &id
	}

	return nil
}

// String returns a human readable version of the NativeTokens.
func (n NativeTokens) String() string {
	structBuilder := stringify.StructBuilder("NativeTokens")
	for _, nativeToken := range n {
		structBuilder.AddField(stringify.StructField(nativeToken.ID().Base58(), nativeToken.amount.String()))
	}

	return structBuilder.String()
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
