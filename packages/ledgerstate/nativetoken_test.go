package ledgerstate

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/stretchr/testify/require"
)

func TestNativeTokensSortAndGet(t *testing.T) {
	tokenID1 := randTokenID()
	tokenID2 := randTokenID()

	nativeTokens := NativeTokens{
		NewNativeToken(tokenID1, big.NewInt(100)),
		NewNativeToken(tokenID2, big.NewInt(200)),
	}
	nativeTokens.Sort()

	require.True(t, bytes.Compare(nativeTokens[0].ID().Bytes(), nativeTokens[1].ID().Bytes()) < 0)
	require.EqualValues(t, big.NewInt(100), nativeTokens.Get(tokenID1).Amount())
	require.EqualValues(t, big.NewInt(200), nativeTokens.Get(tokenID2).Amount())
	require.Nil(t, nativeTokens.Get(randTokenID()))
}

func TestNativeTokensMarshaling(t *testing.T) {
	nativeTokens := NativeTokens{
		NewNativeToken(randTokenID(), big.NewInt(100)),
		NewNativeToken(randTokenID(), new(big.Int).Lsh(big.NewInt(1), 255)),
	}
	nativeTokens.Sort()

	marshalUtil := marshalutil.New(nativeTokens.Bytes())
	restored, err := NativeTokensFromMarshalUtil(marshalUtil)
	require.NoError(t, err)
	require.True(t, nativeTokens.Equals(restored))
}

func TestNativeTokenAmountIsolation(t *testing.T) {
	amount := big.NewInt(100)
	nativeToken := NewNativeToken(randTokenID(), amount)

	// mutating the original amount must not leak into the token
	amount.SetInt64(0)
	require.EqualValues(t, big.NewInt(100), nativeToken.Amount())
}
