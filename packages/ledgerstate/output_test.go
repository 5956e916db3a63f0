package ledgerstate

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/iotaledger/hive.go/serializer/v2"
	"github.com/stretchr/testify/require"
)

func randOutputID() (outputID OutputID) {
	var transactionID TransactionID
	_, _ = rand.Read(transactionID[:])

	return NewOutputID(transactionID, 0)
}

func randAliasID() (aliasID AliasID) {
	return AliasIDFromOutputID(randOutputID())
}

func randNFTID() (nftID NFTID) {
	return NFTIDFromOutputID(randOutputID())
}

func randAccountID() (accountID AccountID) {
	_, _ = rand.Read(accountID[:])

	return
}

func randTokenID() TokenID {
	return NewFoundryID(NewAliasAddress(randAliasID()), 1, SimpleTokenSchemeType).TokenID()
}

func restoreOutput(t *testing.T, output Output) Output {
	restored, consumedBytes, err := OutputFromBytes(output.Bytes(), serializer.DeSeriModePerformValidation, nil)
	require.NoError(t, err)
	require.Equal(t, len(output.Bytes()), consumedBytes)

	return restored
}

func TestBasicOutputMarshaling(t *testing.T) {
	metadataFeature, err := NewMetadataFeature([]byte("metadata"))
	require.NoError(t, err)

	output, err := NewBasicOutputBuilder(1000).
		Mana(42).
		AddNativeToken(NewNativeToken(randTokenID(), big.NewInt(100))).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		AddUnlockCondition(NewTimelockUnlockCondition(1000)).
		AddFeature(metadataFeature).
		Finish()
	require.NoError(t, err)

	restored := restoreOutput(t, output)
	require.EqualValues(t, BasicOutputType, restored.Type())
	require.Zero(t, output.Compare(restored))
	require.EqualValues(t, 42, restored.(*BasicOutput).Mana())
}

func TestAliasOutputMarshaling(t *testing.T) {
	issuerFeature := NewIssuerFeature(randED25519Address())

	output, err := NewAliasOutputBuilder(1000, randAliasID()).
		StateIndex(7).
		StateMetadata([]byte("state")).
		FoundryCounter(3).
		AddUnlockCondition(NewStateControllerAddressUnlockCondition(randED25519Address())).
		AddUnlockCondition(NewGovernorAddressUnlockCondition(randED25519Address())).
		AddImmutableFeature(issuerFeature).
		Finish()
	require.NoError(t, err)

	restored := restoreOutput(t, output)
	require.Zero(t, output.Compare(restored))
	require.EqualValues(t, 7, restored.(*AliasOutput).StateIndex())
	require.True(t, restored.(*AliasOutput).ImmutableFeatures().Issuer().Address().Equals(issuerFeature.Address()))
}

func TestFoundryOutputMarshaling(t *testing.T) {
	tokenScheme := mustSimpleTokenScheme(t, 100, 0, 1000)

	output, err := NewFoundryOutputBuilder(1000, 1, tokenScheme).
		AddUnlockCondition(NewImmutableAliasAddressUnlockCondition(NewAliasAddress(randAliasID()))).
		Finish()
	require.NoError(t, err)

	restored := restoreOutput(t, output)
	require.Zero(t, output.Compare(restored))
	require.True(t, tokenScheme.Equals(restored.(*FoundryOutput).TokenScheme()))
	require.Equal(t, output.FoundryID(), restored.(*FoundryOutput).FoundryID())
}

func TestNFTOutputMarshaling(t *testing.T) {
	output, err := NewNFTOutputBuilder(1000, randNFTID()).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		AddImmutableFeature(NewIssuerFeature(randED25519Address())).
		Finish()
	require.NoError(t, err)

	restored := restoreOutput(t, output)
	require.Zero(t, output.Compare(restored))
	require.Equal(t, output.NFTID(), restored.(*NFTOutput).NFTID())
}

func TestDelegationOutputMarshaling(t *testing.T) {
	output, err := NewDelegationOutputBuilder(1000, randAccountID(), DelegationIDFromOutputID(randOutputID())).
		Amount(1000).
		StartEpoch(10).
		EndEpoch(20).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		Finish()
	require.NoError(t, err)

	restored := restoreOutput(t, output)
	require.Zero(t, output.Compare(restored))
	require.EqualValues(t, 1000, restored.(*DelegationOutput).DelegatedAmount())
	require.EqualValues(t, 20, restored.(*DelegationOutput).EndEpoch())
}

func TestTreasuryOutputMarshaling(t *testing.T) {
	output := NewTreasuryOutput(1000)

	restored := restoreOutput(t, output)
	require.EqualValues(t, TreasuryOutputType, restored.Type())
	require.Zero(t, output.Compare(restored))
}

func TestBasicOutputMissingAddressUnlockCondition(t *testing.T) {
	_, err := NewBasicOutputBuilder(1000).
		AddUnlockCondition(NewTimelockUnlockCondition(1000)).
		Finish()
	require.ErrorIs(t, err, ErrMissingAddressUnlockCondition)
}

func TestBasicOutputDisallowedUnlockCondition(t *testing.T) {
	_, err := NewBasicOutputBuilder(1000).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		AddUnlockCondition(NewStateControllerAddressUnlockCondition(randED25519Address())).
		Finish()
	require.ErrorIs(t, err, ErrDisallowedUnlockCondition)
}

func TestFoundryOutputDisallowedFeature(t *testing.T) {
	tagFeature, err := NewTagFeature([]byte("tag"))
	require.NoError(t, err)

	_, err = NewFoundryOutputBuilder(1000, 1, mustSimpleTokenScheme(t, 0, 0, 1000)).
		AddUnlockCondition(NewImmutableAliasAddressUnlockCondition(NewAliasAddress(randAliasID()))).
		AddFeature(tagFeature).
		Finish()
	require.ErrorIs(t, err, ErrDisallowedFeature)
}

func TestFoundryOutputZeroSerialNumber(t *testing.T) {
	_, err := NewFoundryOutputBuilder(1000, 0, mustSimpleTokenScheme(t, 0, 0, 1000)).
		AddUnlockCondition(NewImmutableAliasAddressUnlockCondition(NewAliasAddress(randAliasID()))).
		Finish()
	require.ErrorIs(t, err, ErrInvalidFoundryZeroSerialNumber)
}

func TestOutputAmountValidation(t *testing.T) {
	_, err := NewBasicOutputBuilder(0).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		Finish()
	require.ErrorIs(t, err, ErrOutputAmountOutOfRange)

	protocolParameters := DefaultProtocolParameters()
	_, err = NewBasicOutputBuilder(protocolParameters.TokenSupply + 1).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		FinishWithParams(protocolParameters)
	require.ErrorIs(t, err, ErrOutputAmountOutOfRange)
}

func TestOutputRentValidation(t *testing.T) {
	protocolParameters := DefaultProtocolParameters()

	_, err := NewBasicOutputBuilder(1).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		FinishWithParams(protocolParameters)
	require.ErrorIs(t, err, ErrInsufficientStorageDeposit)
}

func TestBasicOutputMinimumStorageDeposit(t *testing.T) {
	protocolParameters := DefaultProtocolParameters()

	output, err := NewBasicOutputBuilderMinimumStorageDeposit(&protocolParameters.RentStructure).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		FinishWithParams(protocolParameters)
	require.NoError(t, err)

	// the amount resolves to the exact rent cost of the finished Output
	require.Equal(t, protocolParameters.RentStructure.MinRent(output), output.Amount())
}

func TestBasicOutputWithSufficientStorageDeposit(t *testing.T) {
	protocolParameters := DefaultProtocolParameters()
	returnAddress := randED25519Address()
	originalAmount := uint64(1)

	output, err := NewBasicOutputBuilder(originalAmount).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		WithSufficientStorageDeposit(returnAddress, &protocolParameters.RentStructure).
		FinishWithParams(protocolParameters)
	require.NoError(t, err)

	// the amount is topped up to the exact rent cost and the deficit is refundable
	require.Equal(t, protocolParameters.RentStructure.MinRent(output), output.Amount())
	storageDepositReturn := output.UnlockConditions().StorageDepositReturn()
	require.NotNil(t, storageDepositReturn)
	require.Equal(t, output.Amount()-originalAmount, storageDepositReturn.Amount())
	require.True(t, storageDepositReturn.ReturnAddress().Equals(returnAddress))
}

func TestAliasOutputSelfControl(t *testing.T) {
	aliasID := randAliasID()

	_, err := NewAliasOutputBuilder(1000, aliasID).
		AddUnlockCondition(NewStateControllerAddressUnlockCondition(NewAliasAddress(aliasID))).
		AddUnlockCondition(NewGovernorAddressUnlockCondition(randED25519Address())).
		Finish()
	require.Error(t, err)
}

func TestAliasOutputGenesisCounters(t *testing.T) {
	_, err := NewAliasOutputBuilder(1000, EmptyAliasID).
		StateIndex(1).
		AddUnlockCondition(NewStateControllerAddressUnlockCondition(randED25519Address())).
		AddUnlockCondition(NewGovernorAddressUnlockCondition(randED25519Address())).
		Finish()
	require.Error(t, err)
}

func TestDelegationOutputEpochValidation(t *testing.T) {
	_, err := NewDelegationOutputBuilder(1000, randAccountID(), EmptyDelegationID).
		Amount(1000).
		StartEpoch(10).
		EndEpoch(5).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		Finish()
	require.Error(t, err)
}

func TestBasicOutputUnlockableBy(t *testing.T) {
	owner := randED25519Address()
	returnAddress := randED25519Address()

	output, err := NewBasicOutputBuilder(1000).
		AddUnlockCondition(NewAddressUnlockCondition(owner)).
		AddUnlockCondition(NewTimelockUnlockCondition(1000)).
		AddUnlockCondition(NewExpirationUnlockCondition(returnAddress, 2000)).
		Finish()
	require.NoError(t, err)

	require.False(t, output.UnlockableBy(owner, 999))
	require.True(t, output.UnlockableBy(owner, 1000))
	require.False(t, output.UnlockableBy(returnAddress, 1000))
	require.True(t, output.UnlockableBy(returnAddress, 2000))
	require.False(t, output.UnlockableBy(owner, 2000))
}

func TestOutputID(t *testing.T) {
	output, err := NewBasicOutputBuilder(1000).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		Finish()
	require.NoError(t, err)

	outputID := randOutputID()
	output.SetID(outputID)
	require.Equal(t, outputID, output.ID())

	// the id is transient and not part of the serialized form
	restored := restoreOutput(t, output)
	require.Zero(t, output.Compare(restored))
}

func TestNewOutputsDeduplicatesAndSorts(t *testing.T) {
	output1, err := NewBasicOutputBuilder(1000).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		Finish()
	require.NoError(t, err)
	output2, err := NewBasicOutputBuilder(2000).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		Finish()
	require.NoError(t, err)

	outputs := NewOutputs(output1, output2, output1)
	require.Len(t, outputs, 2)
	require.True(t, outputs[0].Compare(outputs[1]) < 0)
}

func TestNativeTokensValidation(t *testing.T) {
	output, err := NewBasicOutputBuilder(1000).
		AddNativeToken(NewNativeToken(randTokenID(), big.NewInt(0))).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		Finish()
	require.Nil(t, output)
	require.ErrorIs(t, err, ErrInvalidNativeTokenSet)

	builder := NewBasicOutputBuilder(1000).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address()))
	for i := 0; i < MaxNativeTokenCount+1; i++ {
		builder.AddNativeToken(NewNativeToken(randTokenID(), big.NewInt(1)))
	}
	_, err = builder.Finish()
	require.ErrorIs(t, err, ErrMaxNativeTokensExceeded)
}
