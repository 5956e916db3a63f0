package ledgerstate

import (
	"math/big"
	"testing"

	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/stretchr/testify/require"
)

func TestNewSimpleTokenScheme(t *testing.T) {
	tokenScheme, err := NewSimpleTokenScheme(big.NewInt(100), big.NewInt(40), big.NewInt(1000))
	require.NoError(t, err)
	require.EqualValues(t, big.NewInt(60), tokenScheme.CirculatingSupply())

	// melted must never exceed minted
	_, err = NewSimpleTokenScheme(big.NewInt(40), big.NewInt(100), big.NewInt(1000))
	require.ErrorIs(t, err, ErrInvalidTokenScheme)

	// circulating supply must never exceed the maximum supply
	_, err = NewSimpleTokenScheme(big.NewInt(1100), big.NewInt(0), big.NewInt(1000))
	require.ErrorIs(t, err, ErrInvalidTokenScheme)

	// the maximum supply must be positive
	_, err = NewSimpleTokenScheme(big.NewInt(0), big.NewInt(0), big.NewInt(0))
	require.ErrorIs(t, err, ErrInvalidTokenScheme)
}

func TestSimpleTokenSchemeMarshaling(t *testing.T) {
	tokenScheme, err := NewSimpleTokenScheme(big.NewInt(100), big.NewInt(40), big.NewInt(1000))
	require.NoError(t, err)

	marshalUtil := marshalutil.New(tokenScheme.Bytes())
	restored, err := TokenSchemeFromMarshalUtil(marshalUtil)
	require.NoError(t, err)
	require.True(t, tokenScheme.Equals(restored))
}

func mustSimpleTokenScheme(t *testing.T, minted int64, melted int64, maximumSupply int64) *SimpleTokenScheme {
	tokenScheme, err := NewSimpleTokenScheme(big.NewInt(minted), big.NewInt(melted), big.NewInt(maximumSupply))
	require.NoError(t, err)

	return tokenScheme
}

func TestSimpleTokenSchemeMintTransition(t *testing.T) {
	current := mustSimpleTokenScheme(t, 100, 0, 1000)

	// minting 50 tokens raises minted by exactly the token diff
	next := mustSimpleTokenScheme(t, 150, 0, 1000)
	require.NoError(t, current.verifyStateTransition(next, big.NewInt(0), big.NewInt(50)))

	// minted diff does not match the token diff
	next = mustSimpleTokenScheme(t, 140, 0, 1000)
	require.ErrorIs(t, current.verifyStateTransition(next, big.NewInt(0), big.NewInt(50)), ErrInconsistentNativeTokensMint)

	// melting while minting is not allowed
	next = mustSimpleTokenScheme(t, 150, 10, 1000)
	require.ErrorIs(t, current.verifyStateTransition(next, big.NewInt(0), big.NewInt(50)), ErrInconsistentNativeTokensMint)
}

func TestSimpleTokenSchemePlainTransition(t *testing.T) {
	current := mustSimpleTokenScheme(t, 100, 0, 1000)

	next := mustSimpleTokenScheme(t, 100, 0, 1000)
	require.NoError(t, current.verifyStateTransition(next, big.NewInt(100), big.NewInt(100)))

	next = mustSimpleTokenScheme(t, 110, 0, 1000)
	require.ErrorIs(t, current.verifyStateTransition(next, big.NewInt(100), big.NewInt(100)), ErrInconsistentNativeTokensTransition)
}

func TestSimpleTokenSchemeMeltBurnTransition(t *testing.T) {
	current := mustSimpleTokenScheme(t, 100, 0, 1000)

	// melting 30 of 40 removed tokens (the remaining 10 are burned)
	next := mustSimpleTokenScheme(t, 100, 30, 1000)
	require.NoError(t, current.verifyStateTransition(next, big.NewInt(100), big.NewInt(60)))

	// melting more than the removed tokens
	next = mustSimpleTokenScheme(t, 100, 50, 1000)
	require.ErrorIs(t, current.verifyStateTransition(next, big.NewInt(100), big.NewInt(60)), ErrInconsistentNativeTokensMeltBurn)

	// minting while the token count decreases
	next = mustSimpleTokenScheme(t, 110, 40, 1000)
	require.ErrorIs(t, current.verifyStateTransition(next, big.NewInt(100), big.NewInt(60)), ErrInconsistentNativeTokensMeltBurn)
}

func TestSimpleTokenSchemeImmutableFields(t *testing.T) {
	current := mustSimpleTokenScheme(t, 100, 0, 1000)

	// the maximum supply is immutable
	next := mustSimpleTokenScheme(t, 100, 0, 2000)
	require.ErrorIs(t, current.verifyStateTransition(next, big.NewInt(100), big.NewInt(100)), ErrMutatedImmutableField)

	// minted and melted counters must never decrease
	next = mustSimpleTokenScheme(t, 90, 0, 1000)
	require.ErrorIs(t, current.verifyStateTransition(next, big.NewInt(100), big.NewInt(100)), ErrNonMonotonicallyIncreasingNativeTokens)
}
