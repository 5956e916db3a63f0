package ledgerstate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutputIDBase58(t *testing.T) {
	outputID := randOutputID()

	restored, err := OutputIDFromBase58(outputID.Base58())
	require.NoError(t, err)
	require.Equal(t, outputID, restored)

	_, err = OutputIDFromBase58("not-base58!")
	require.Error(t, err)
}

func TestAliasIDFromOutputID(t *testing.T) {
	outputID := randOutputID()
	aliasID := AliasIDFromOutputID(outputID)

	require.False(t, aliasID.IsEmpty())
	require.Equal(t, aliasID, EmptyAliasID.OrFromOutputID(outputID))
	require.Equal(t, aliasID, aliasID.OrFromOutputID(randOutputID()))

	restored, err := AliasIDFromBase58(aliasID.Base58())
	require.NoError(t, err)
	require.Equal(t, aliasID, restored)
}

func TestFoundryIDTokenIDRoundTrip(t *testing.T) {
	aliasAddress := NewAliasAddress(randAliasID())
	foundryID := NewFoundryID(aliasAddress, 42, SimpleTokenSchemeType)

	require.Equal(t, foundryID, foundryID.TokenID().FoundryID())

	restored, err := TokenIDFromBase58(foundryID.TokenID().Base58())
	require.NoError(t, err)
	require.Equal(t, foundryID.TokenID(), restored)
}

func TestChainIDIdentity(t *testing.T) {
	aliasID := randAliasID()
	nftID := NFTID(aliasID)

	// the same identifier bytes under different output types form different chains
	require.NotEqual(t, aliasID.ChainID(), nftID.ChainID())
	require.Equal(t, aliasID.ChainID(), aliasID.ChainID())
	require.True(t, EmptyAliasID.ChainID().IsEmpty())
}
