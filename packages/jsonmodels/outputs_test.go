package jsonmodels

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/stretchr/testify/require"

	"github.com/stardustledger/stardust.go/packages/ledgerstate"
)

func randAddress() ledgerstate.Address {
	keyPair := ed25519.GenerateKeyPair()

	return ledgerstate.NewED25519Address(keyPair.PublicKey)
}

func randAliasAddress() *ledgerstate.AliasAddress {
	var transactionID ledgerstate.TransactionID
	_, _ = rand.Read(transactionID[:])

	return ledgerstate.NewAliasAddress(ledgerstate.AliasIDFromOutputID(ledgerstate.NewOutputID(transactionID, 0)))
}

func jsonRoundTrip(t *testing.T, output ledgerstate.Output) ledgerstate.Output {
	data, err := MarshalOutput(output)
	require.NoError(t, err)

	restored, err := UnmarshalOutput(data, nil)
	require.NoError(t, err)
	require.Zero(t, output.Compare(restored))

	return restored
}

func TestBasicOutputJSON(t *testing.T) {
	tokenID := ledgerstate.NewFoundryID(randAliasAddress(), 1, ledgerstate.SimpleTokenSchemeType).TokenID()

	output, err := ledgerstate.NewBasicOutputBuilder(1000).
		Mana(42).
		AddNativeToken(ledgerstate.NewNativeToken(tokenID, big.NewInt(100))).
		AddUnlockCondition(ledgerstate.NewAddressUnlockCondition(randAddress())).
		AddUnlockCondition(ledgerstate.NewTimelockUnlockCondition(1000)).
		Finish()
	require.NoError(t, err)

	restored := jsonRoundTrip(t, output)
	require.EqualValues(t, 42, restored.(*ledgerstate.BasicOutput).Mana())

	// the amount crosses the boundary as a decimal string
	data, err := MarshalOutput(output)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	require.JSONEq(t, `"1000"`, string(fields["amount"]))
}

func TestAliasOutputJSON(t *testing.T) {
	aliasAddress := randAliasAddress()

	output, err := ledgerstate.NewAliasOutputBuilder(1000, aliasAddress.AliasID()).
		StateIndex(7).
		StateMetadata([]byte("state")).
		FoundryCounter(3).
		AddUnlockCondition(ledgerstate.NewStateControllerAddressUnlockCondition(randAddress())).
		AddUnlockCondition(ledgerstate.NewGovernorAddressUnlockCondition(randAddress())).
		AddImmutableFeature(ledgerstate.NewIssuerFeature(randAddress())).
		Finish()
	require.NoError(t, err)

	restored := jsonRoundTrip(t, output)
	require.EqualValues(t, 7, restored.(*ledgerstate.AliasOutput).StateIndex())
	require.EqualValues(t, []byte("state"), restored.(*ledgerstate.AliasOutput).StateMetadata())
}

func TestFoundryOutputJSON(t *testing.T) {
	tokenScheme, err := ledgerstate.NewSimpleTokenScheme(big.NewInt(100), big.NewInt(40), big.NewInt(1000))
	require.NoError(t, err)

	output, err := ledgerstate.NewFoundryOutputBuilder(1000, 1, tokenScheme).
		AddUnlockCondition(ledgerstate.NewImmutableAliasAddressUnlockCondition(randAliasAddress())).
		Finish()
	require.NoError(t, err)

	restored := jsonRoundTrip(t, output)
	require.True(t, tokenScheme.Equals(restored.(*ledgerstate.FoundryOutput).TokenScheme()))
}

func TestNFTOutputJSON(t *testing.T) {
	var transactionID ledgerstate.TransactionID
	_, _ = rand.Read(transactionID[:])
	nftID := ledgerstate.NFTIDFromOutputID(ledgerstate.NewOutputID(transactionID, 0))

	output, err := ledgerstate.NewNFTOutputBuilder(1000, nftID).
		AddUnlockCondition(ledgerstate.NewAddressUnlockCondition(randAddress())).
		AddImmutableFeature(ledgerstate.NewIssuerFeature(randAddress())).
		Finish()
	require.NoError(t, err)

	restored := jsonRoundTrip(t, output)
	require.Equal(t, nftID, restored.(*ledgerstate.NFTOutput).NFTID())
}

func TestDelegationOutputJSON(t *testing.T) {
	var validatorID ledgerstate.AccountID
	_, _ = rand.Read(validatorID[:])

	output, err := ledgerstate.NewDelegationOutputBuilder(1000, validatorID, ledgerstate.EmptyDelegationID).
		Amount(1000).
		StartEpoch(10).
		EndEpoch(20).
		AddUnlockCondition(ledgerstate.NewAddressUnlockCondition(randAddress())).
		Finish()
	require.NoError(t, err)

	restored := jsonRoundTrip(t, output)
	require.EqualValues(t, 1000, restored.(*ledgerstate.DelegationOutput).DelegatedAmount())
	require.Equal(t, validatorID, restored.(*ledgerstate.DelegationOutput).ValidatorID())
}

func TestTreasuryOutputJSON(t *testing.T) {
	jsonRoundTrip(t, ledgerstate.NewTreasuryOutput(1000))
}

func TestUnmarshalOutputInvalidFields(t *testing.T) {
	owner := randAddress()

	// a non-decimal amount is rejected by name
	_, err := UnmarshalOutput([]byte(`{"type":3,"amount":"1000 tokens","unlockConditions":[{"type":0,"address":"`+owner.Base58()+`"}]}`), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), `"amount"`)

	// a malformed address is rejected by name
	_, err = UnmarshalOutput([]byte(`{"type":3,"amount":"1000","unlockConditions":[{"type":0,"address":"not-base58!"}]}`), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), `"address"`)

	// an unknown output kind is rejected
	_, err = UnmarshalOutput([]byte(`{"type":99,"amount":"1000"}`), nil)
	require.Error(t, err)
}

func TestUnmarshalOutputStructuralValidation(t *testing.T) {
	// structurally invalid outputs are rejected even when every field parses
	_, err := UnmarshalOutput([]byte(`{"type":3,"amount":"1000","unlockConditions":[{"type":2,"unixTime":1000}]}`), nil)
	require.ErrorIs(t, err, ledgerstate.ErrMissingAddressUnlockCondition)
}

func TestUnmarshalOutputWithProtocolParameters(t *testing.T) {
	owner := randAddress()
	protocolParameters := ledgerstate.DefaultProtocolParameters()

	_, err := UnmarshalOutput([]byte(`{"type":3,"amount":"1","unlockConditions":[{"type":0,"address":"`+owner.Base58()+`"}]}`), protocolParameters)
	require.ErrorIs(t, err, ledgerstate.ErrInsufficientStorageDeposit)
}
