package ledgerstate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestED25519AddressMarshaling(t *testing.T) {
	address := randED25519Address()

	restored, consumedBytes, err := AddressFromBytes(address.Bytes())
	require.NoError(t, err)
	require.Equal(t, AddressLength, consumedBytes)
	require.True(t, address.Equals(restored))

	restored, err = AddressFromBase58EncodedString(address.Base58())
	require.NoError(t, err)
	require.True(t, address.Equals(restored))
}

func TestAliasAddressFromAliasID(t *testing.T) {
	aliasID := randAliasID()
	address := NewAliasAddress(aliasID)

	require.Equal(t, aliasID, address.AliasID())
	require.EqualValues(t, AliasAddressType, address.Type())

	restored, _, err := AddressFromBytes(address.Bytes())
	require.NoError(t, err)
	require.True(t, address.Equals(restored))
}

func TestNFTAddressFromNFTID(t *testing.T) {
	nftID := randNFTID()
	address := NewNFTAddress(nftID)

	require.Equal(t, nftID, address.NFTID())
	require.EqualValues(t, NFTAddressType, address.Type())

	restored, err := AddressFromBase58EncodedString(address.Base58())
	require.NoError(t, err)
	require.True(t, address.Equals(restored))
}

func TestAddressTypeDiscrimination(t *testing.T) {
	aliasID := randAliasID()

	// the same digest under different address types yields different addresses
	aliasAddress := NewAliasAddress(aliasID)
	nftAddress := NewNFTAddress(NFTID(aliasID))
	require.False(t, aliasAddress.Equals(nftAddress))
}
