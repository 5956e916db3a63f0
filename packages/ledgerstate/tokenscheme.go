package ledgerstate

import (
	"math/big"

	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"
	"golang.org/x/xerrors"
)

// region TokenSchemeType //////////////////////////////////////////////////////////////////////////////////////////////

const (
	// SimpleTokenSchemeType represents a TokenScheme with a plain minted / melted / maximum supply accounting.
	SimpleTokenSchemeType TokenSchemeType = iota
)

// TokenSchemeType represents the type of a TokenScheme.
type TokenSchemeType byte

// String returns a human readable representation of the TokenSchemeType.
func (t TokenSchemeType) String() string {
	if t == SimpleTokenSchemeType {
		return "SimpleTokenSchemeType"
	}

	return "UnknownTokenSchemeType"
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region TokenScheme //////////////////////////////////////////////////////////////////////////////////////////////////

// TokenScheme defines the supply accounting of the native tokens controlled by a foundry.
type TokenScheme interface {
	// Type returns the TokenSchemeType which allows us to generically handle TokenSchemes of different types.
	Type() TokenSchemeType

	// Clone creates a copy of the TokenScheme.
	Clone() TokenScheme

	// Equals returns true if the two TokenSchemes are equal.
	Equals(other TokenScheme) bool

	// Bytes returns a marshaled version of the TokenScheme.
	Bytes() []byte

	// String returns a human readable version of the TokenScheme for debug purposes.
	String() string
}

// TokenSchemeFromMarshalUtil unmarshals a TokenScheme using a MarshalUtil (for easier unmarshaling).
func TokenSchemeFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (tokenScheme TokenScheme, err error) {
	tokenSchemeType, err := marshalUtil.ReadByte()
	if err != nil {
		err = xerrors.Errorf("failed to parse TokenSchemeType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	marshalUtil.ReadSeek(-1)

	switch TokenSchemeType(tokenSchemeType) {
	case SimpleTokenSchemeType:
		return SimpleTokenSchemeFromMarshalUtil(marshalUtil)
	default:
		err = xerrors.Errorf("unsupported TokenSchemeType (%X): %w", tokenSchemeType, cerrors.ErrParseBytesFailed)
		return
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region SimpleTokenScheme ////////////////////////////////////////////////////////////////////////////////////////////

// SimpleTokenScheme tracks the minted, melted and maximum supply of a foundry's native tokens.
type SimpleTokenScheme struct {
	mintedTokens  *big.Int
	meltedTokens  *big.Int
	maximumSupply *big.Int
}

// NewSimpleTokenScheme creates a new SimpleTokenScheme. It fails if the supply accounting is inconsistent.
func NewSimpleTokenScheme(mintedTokens *big.Int, meltedTokens *big.Int, maximumSupply *big.Int) (tokenScheme *SimpleTokenScheme, err error) {
	tokenScheme = &SimpleTokenScheme{
		mintedTokens:  new(big.Int).Set(mintedTokens),
		meltedTokens:  new(big.Int).Set(meltedTokens),
		maximumSupply: new(big.Int).Set(maximumSupply),
	}
	if err = tokenScheme.verify(); err != nil {
		return nil, err
	}

	return tokenScheme, nil
}

// SimpleTokenSchemeFromMarshalUtil parses a SimpleTokenScheme from the given MarshalUtil.
func SimpleTokenSchemeFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (tokenScheme *SimpleTokenScheme, err error) {
	tokenSchemeType, err := marshalUtil.ReadByte()
	if err != nil {
		err = xerrors.Errorf("failed to parse TokenSchemeType (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if TokenSchemeType(tokenSchemeType) != SimpleTokenSchemeType {
		err = xerrors.Errorf("invalid TokenSchemeType (%X): %w", tokenSchemeType, cerrors.ErrParseBytesFailed)
		return
	}

	tokenScheme = &SimpleTokenScheme{}
	if tokenScheme.mintedTokens, err = uint256FromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse minted tokens (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if tokenScheme.meltedTokens, err = uint256FromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse melted tokens (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if tokenScheme.maximumSupply, err = uint256FromMarshalUtil(marshalUtil); err != nil {
		err = xerrors.Errorf("failed to parse maximum supply (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}
	if err = tokenScheme.verify(); err != nil {
		err = xerrors.Errorf("failed to verify SimpleTokenScheme (%v): %w", err, cerrors.ErrParseBytesFailed)
		return
	}

	return
}

// Type returns the TokenSchemeType of the TokenScheme.
func (s *SimpleTokenScheme) Type() TokenSchemeType {
	return SimpleTokenSchemeType
}

// MintedTokens returns the number of tokens that were minted by the foundry over its lifetime.
func (s *SimpleTokenScheme) MintedTokens() *big.Int {
	return new(big.Int).Set(s.mintedTokens)
}

// MeltedTokens returns the number of tokens that were melted by the foundry over its lifetime.
func (s *SimpleTokenScheme) MeltedTokens() *big.Int {
	return new(big.Int).Set(s.meltedTokens)
}

// MaximumSupply returns the immutable maximum supply of the foundry's native tokens.
func (s *SimpleTokenScheme) MaximumSupply() *big.Int {
	return new(big.Int).Set(s.maximumSupply)
}

// CirculatingSupply returns the number of tokens that are currently in circulation (minted - melted).
func (s *SimpleTokenScheme) CirculatingSupply() *big.Int {
	return new(big.Int).Sub(s.mintedTokens, s.meltedTokens)
}

// Clone creates a copy of the TokenScheme.
func (s *SimpleTokenScheme) Clone() TokenScheme {
	return &SimpleTokenScheme{
		mintedTokens:  new(big.Int).Set(s.mintedTokens),
		meltedTokens:  new(big.Int).Set(s.meltedTokens),
		maximumSupply: new(big.Int).Set(s.maximumSupply),
	}
}

// Equals returns true if the two TokenSchemes are equal.
func (s *SimpleTokenScheme) Equals(other TokenScheme) bool {
	otherScheme, typeMatches := other.(*SimpleTokenScheme)

	return typeMatches &&
		s.mintedTokens.Cmp(otherScheme.mintedTokens) == 0 &&
		s.meltedTokens.Cmp(otherScheme.meltedTokens) == 0 &&
		s.maximumSupply.Cmp(otherScheme.maximumSupply) == 0
}

// Bytes returns a marshaled version of the TokenScheme.
func (s *SimpleTokenScheme) Bytes() []byte {
	marshalUtil := marshalutil.New()
	marshalUtil.WriteByte(byte(SimpleTokenSchemeType))
	writeUint256(marshalUtil, s.mintedTokens)
	writeUint256(marshalUtil, s.meltedTokens)
	writeUint256(marshalUtil, s.maximumSupply)

	return marshalUtil.Bytes()
}

// String returns a human readable version of the TokenScheme.
func (s *SimpleTokenScheme) String() string {
	return stringify.Struct("SimpleTokenScheme",
		stringify.StructField("mintedTokens", s.mintedTokens),
		stringify.StructField("meltedTokens", s.meltedTokens),
		stringify.StructField("maximumSupply", s.maximumSupply),
	)
}

// verify checks the syntactic consistency of the supply accounting.
func (s *SimpleTokenScheme) verify() (err error) {
	if !validUint256(s.mintedTokens) || !validUint256(s.meltedTokens) || !validUint256(s.maximumSupply) {
		return xerrors.Errorf("supply values out of uint256 range: %w", ErrInvalidTokenScheme)
	}
	if s.maximumSupply.Cmp(bigZero) <= 0 {
		return xerrors.Errorf("maximum supply must be larger than zero: %w", ErrInvalidTokenScheme)
	}
	if s.meltedTokens.Cmp(s.mintedTokens) > 0 {
		return xerrors.Errorf("melted tokens must not exceed minted tokens: %w", ErrInvalidTokenScheme)
	}
	if new(big.Int).Sub(s.mintedTokens, s.meltedTokens).Cmp(s.maximumSupply) > 0 {
		return xerrors.Errorf("circulating supply must not exceed maximum supply: %w", ErrInvalidTokenScheme)
	}

	return nil
}

// verifyStateTransition checks the supply accounting of a foundry transition against the transaction's aggregate
// input and output balances of the foundry's native token.
func (s *SimpleTokenScheme) verifyStateTransition(nextScheme TokenScheme, inputTokens *big.Int, outputTokens *big.Int) (err error) {
	next, typeMatches := nextScheme.(*SimpleTokenScheme)
	if !typeMatches {
		return xerrors.Errorf("token scheme type changed: %w", ErrMutatedImmutableField)
	}
	if s.maximumSupply.Cmp(next.maximumSupply) != 0 {
		return xerrors.Errorf("maximum supply changed: %w", ErrMutatedImmutableField)
	}
	if next.mintedTokens.Cmp(s.mintedTokens) < 0 || next.meltedTokens.Cmp(s.meltedTokens) < 0 {
		return ErrNonMonotonicallyIncreasingNativeTokens
	}

	mintedDiff := new(big.Int).Sub(next.mintedTokens, s.mintedTokens)
	meltedDiff := new(big.Int).Sub(next.meltedTokens, s.meltedTokens)

	switch inputTokens.Cmp(outputTokens) {
	case -1:
		// mint: the minted delta must match the token balance increase and nothing may be melted
		tokenDiff := new(big.Int).Sub(outputTokens, inputTokens)
		if mintedDiff.Cmp(tokenDiff) != 0 || meltedDiff.Sign() != 0 {
			return ErrInconsistentNativeTokensMint
		}
	case 0:
		// plain transition: the supply accounting must not move at all
		if mintedDiff.Sign() != 0 || meltedDiff.Sign() != 0 {
			return ErrInconsistentNativeTokensTransition
		}
	case 1:
		// melt and/or burn: the melted delta must not exceed the token balance decrease and nothing may be minted
		tokenDiff := new(big.Int).Sub(inputTokens, outputTokens)
		if mintedDiff.Sign() != 0 || meltedDiff.Sign() == 0 || meltedDiff.Cmp(tokenDiff) > 0 {
			return ErrInconsistentNativeTokensMeltBurn
		}
	}

	return nil
}

// code contract (make sure the type implements all required methods)
var _ TokenScheme = &SimpleTokenScheme{}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
