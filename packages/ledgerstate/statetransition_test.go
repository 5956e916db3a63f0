package ledgerstate

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildAliasOutput(t *testing.T, aliasID AliasID, stateIndex uint32, foundryCounter uint32, unlockConditions ...UnlockCondition) *AliasOutput {
	output, err := NewAliasOutputBuilder(1000, aliasID).
		StateIndex(stateIndex).
		FoundryCounter(foundryCounter).
		WithUnlockConditions(NewUnlockConditions(unlockConditions...)).
		Finish()
	require.NoError(t, err)

	return output
}

func buildFoundryOutput(t *testing.T, aliasAddress *AliasAddress, serialNumber uint32, tokenScheme TokenScheme) *FoundryOutput {
	output, err := NewFoundryOutputBuilder(1000, serialNumber, tokenScheme).
		AddUnlockCondition(NewImmutableAliasAddressUnlockCondition(aliasAddress)).
		Finish()
	require.NoError(t, err)

	return output
}

func buildTokenHolderOutput(t *testing.T, tokenID TokenID, amount int64) *BasicOutput {
	output, err := NewBasicOutputBuilder(1000).
		AddNativeToken(NewNativeToken(tokenID, big.NewInt(amount))).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		Finish()
	require.NoError(t, err)

	return output
}

func TestVerifyStateTransitionWithoutChainOutputs(t *testing.T) {
	ctx := NewValidationContext(nil, nil)
	require.ErrorIs(t, VerifyStateTransition(nil, nil, ctx), ErrInvalidStateTransition)
}

func TestAliasCreation(t *testing.T) {
	stateController := NewStateControllerAddressUnlockCondition(randED25519Address())
	governor := NewGovernorAddressUnlockCondition(randED25519Address())

	genesis := buildAliasOutput(t, EmptyAliasID, 0, 0, stateController, governor)
	ctx := NewValidationContext(nil, NewOutputs(genesis))
	require.NoError(t, VerifyStateTransition(nil, genesis, ctx))
}

func TestAliasStateTransition(t *testing.T) {
	aliasID := randAliasID()
	stateController := NewStateControllerAddressUnlockCondition(randED25519Address())
	governor := NewGovernorAddressUnlockCondition(randED25519Address())

	current := buildAliasOutput(t, aliasID, 4, 2, stateController, governor)
	current.SetID(randOutputID())

	next := buildAliasOutput(t, aliasID, 5, 3, stateController, governor)
	ctx := NewValidationContext(NewOutputs(current), NewOutputs(next))
	require.NoError(t, VerifyStateTransition(current, next, ctx))

	// a state transition must not touch the controlling addresses
	hijacked := buildAliasOutput(t, aliasID, 5, 2, NewStateControllerAddressUnlockCondition(randED25519Address()), governor)
	require.ErrorIs(t, VerifyStateTransition(current, hijacked, ctx), ErrInvalidStateTransition)

	// the foundry counter must not decrease
	rewound := buildAliasOutput(t, aliasID, 5, 1, stateController, governor)
	require.ErrorIs(t, VerifyStateTransition(current, rewound, ctx), ErrInvalidStateTransition)

	// the state index must move by exactly one
	skipped := buildAliasOutput(t, aliasID, 6, 2, stateController, governor)
	require.ErrorIs(t, VerifyStateTransition(current, skipped, ctx), ErrInvalidStateTransition)
}

func TestAliasGovernanceTransition(t *testing.T) {
	aliasID := randAliasID()
	stateController := NewStateControllerAddressUnlockCondition(randED25519Address())
	governor := NewGovernorAddressUnlockCondition(randED25519Address())

	current := buildAliasOutput(t, aliasID, 4, 2, stateController, governor)
	current.SetID(randOutputID())

	// a governance transition may rotate the controlling addresses
	next := buildAliasOutput(t, aliasID, 4, 2, NewStateControllerAddressUnlockCondition(randED25519Address()), NewGovernorAddressUnlockCondition(randED25519Address()))
	ctx := NewValidationContext(NewOutputs(current), NewOutputs(next))
	require.NoError(t, VerifyStateTransition(current, next, ctx))

	// but it must not touch the tracked state
	drained, err := NewAliasOutputBuilderFromOutput(next).Amount(1).Finish()
	require.NoError(t, err)
	require.ErrorIs(t, VerifyStateTransition(current, drained, ctx), ErrInvalidStateTransition)

	// the alias identity is immutable
	foreign := buildAliasOutput(t, randAliasID(), 4, 2, stateController, governor)
	require.ErrorIs(t, VerifyStateTransition(current, foreign, ctx), ErrMutatedImmutableField)
}

func TestFoundryCreation(t *testing.T) {
	aliasID := randAliasID()
	aliasAddress := NewAliasAddress(aliasID)
	stateController := NewStateControllerAddressUnlockCondition(randED25519Address())
	governor := NewGovernorAddressUnlockCondition(randED25519Address())

	inputAlias := buildAliasOutput(t, aliasID, 1, 0, stateController, governor)
	inputAlias.SetID(randOutputID())
	outputAlias := buildAliasOutput(t, aliasID, 2, 1, stateController, governor)

	foundry := buildFoundryOutput(t, aliasAddress, 1, mustSimpleTokenScheme(t, 100, 0, 1000))
	tokenHolder := buildTokenHolderOutput(t, foundry.TokenID(), 100)

	ctx := NewValidationContext(NewOutputs(inputAlias), NewOutputs(outputAlias, foundry, tokenHolder))
	require.NoError(t, VerifyStateTransition(nil, foundry, ctx))

	// the owning alias must be part of the transaction outputs
	orphanCtx := NewValidationContext(NewOutputs(inputAlias), NewOutputs(foundry, tokenHolder))
	require.ErrorIs(t, VerifyStateTransition(nil, foundry, orphanCtx), ErrMissingAliasForFoundry)

	// the owning alias must also be consumed: a foundry cannot be created alongside a fresh alias
	unconsumedCtx := NewValidationContext(nil, NewOutputs(outputAlias, foundry, tokenHolder))
	require.ErrorIs(t, VerifyStateTransition(nil, foundry, unconsumedCtx), ErrMissingAliasForFoundry)

	// the serial number must fall into the window opened by the foundry counter
	outOfWindow := buildFoundryOutput(t, aliasAddress, 2, mustSimpleTokenScheme(t, 100, 0, 1000))
	require.ErrorIs(t, VerifyStateTransition(nil, outOfWindow, ctx), ErrInconsistentFoundrySerialNumber)

	// everything minted by the fresh foundry must appear on the output side
	lowBalanceCtx := NewValidationContext(NewOutputs(inputAlias), NewOutputs(outputAlias, foundry, buildTokenHolderOutput(t, foundry.TokenID(), 90)))
	require.ErrorIs(t, VerifyStateTransition(nil, foundry, lowBalanceCtx), ErrInconsistentNativeTokensFoundryCreation)
}

func TestFoundryTransition(t *testing.T) {
	aliasAddress := NewAliasAddress(randAliasID())

	current := buildFoundryOutput(t, aliasAddress, 1, mustSimpleTokenScheme(t, 100, 0, 1000))
	current.SetID(randOutputID())

	// minting 50 tokens
	next := buildFoundryOutput(t, aliasAddress, 1, mustSimpleTokenScheme(t, 150, 0, 1000))
	ctx := NewValidationContext(NewOutputs(current), NewOutputs(next, buildTokenHolderOutput(t, current.TokenID(), 50)))
	require.NoError(t, VerifyStateTransition(current, next, ctx))

	// the minted delta must match the token balance increase
	inconsistent := buildFoundryOutput(t, aliasAddress, 1, mustSimpleTokenScheme(t, 140, 0, 1000))
	require.ErrorIs(t, VerifyStateTransition(current, inconsistent, ctx), ErrInconsistentNativeTokensMint)

	// the owning alias is immutable
	foreign := buildFoundryOutput(t, NewAliasAddress(randAliasID()), 1, mustSimpleTokenScheme(t, 150, 0, 1000))
	require.ErrorIs(t, VerifyStateTransition(current, foreign, ctx), ErrMutatedImmutableField)
}

func TestFoundryDestruction(t *testing.T) {
	aliasAddress := NewAliasAddress(randAliasID())

	foundry := buildFoundryOutput(t, aliasAddress, 1, mustSimpleTokenScheme(t, 100, 40, 1000))
	foundry.SetID(randOutputID())

	// the whole circulating supply of 60 tokens is removed alongside the foundry
	ctx := NewValidationContext(NewOutputs(foundry, buildTokenHolderOutput(t, foundry.TokenID(), 60)), nil)
	require.NoError(t, VerifyStateTransition(foundry, nil, ctx))

	// a partial balance does not cover the circulating supply
	partialCtx := NewValidationContext(NewOutputs(foundry, buildTokenHolderOutput(t, foundry.TokenID(), 50)), nil)
	require.ErrorIs(t, VerifyStateTransition(foundry, nil, partialCtx), ErrInconsistentNativeTokensFoundryDestruction)

	// tokens of the destroyed foundry must not survive on the output side
	survivorCtx := NewValidationContext(NewOutputs(foundry, buildTokenHolderOutput(t, foundry.TokenID(), 60)), NewOutputs(buildTokenHolderOutput(t, foundry.TokenID(), 60)))
	require.ErrorIs(t, VerifyStateTransition(foundry, nil, survivorCtx), ErrInconsistentNativeTokensFoundryDestruction)
}

func TestNFTTransition(t *testing.T) {
	owner := NewAddressUnlockCondition(randED25519Address())
	issuer := NewIssuerFeature(randED25519Address())

	genesis, err := NewNFTOutputBuilder(1000, EmptyNFTID).
		AddUnlockCondition(owner).
		AddImmutableFeature(issuer).
		Finish()
	require.NoError(t, err)

	ctx := NewValidationContext(nil, NewOutputs(genesis))
	require.NoError(t, VerifyStateTransition(nil, genesis, ctx))

	outputID := randOutputID()
	genesis.SetID(outputID)

	// the identity implied by the genesis output must be carried forward explicitly
	next, err := NewNFTOutputBuilder(1000, NFTIDFromOutputID(outputID)).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		AddImmutableFeature(issuer).
		Finish()
	require.NoError(t, err)
	require.NoError(t, VerifyStateTransition(genesis, next, NewValidationContext(NewOutputs(genesis), NewOutputs(next))))

	// the immutable features are fixed for the lifetime of the nft
	stripped, err := NewNFTOutputBuilder(1000, NFTIDFromOutputID(outputID)).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		Finish()
	require.NoError(t, err)
	require.ErrorIs(t, VerifyStateTransition(genesis, stripped, NewValidationContext(NewOutputs(genesis), NewOutputs(stripped))), ErrMutatedImmutableField)
}

func TestDelegationTransition(t *testing.T) {
	validatorID := randAccountID()
	owner := NewAddressUnlockCondition(randED25519Address())

	genesis, err := NewDelegationOutputBuilder(1000, validatorID, EmptyDelegationID).
		Amount(1000).
		StartEpoch(10).
		AddUnlockCondition(owner).
		Finish()
	require.NoError(t, err)

	ctx := NewValidationContext(nil, NewOutputs(genesis))
	require.NoError(t, VerifyStateTransition(nil, genesis, ctx))

	outputID := randOutputID()
	genesis.SetID(outputID)
	delegationID := DelegationIDFromOutputID(outputID)

	// registering the end of the delegation period
	next, err := NewDelegationOutputBuilder(1000, validatorID, delegationID).
		Amount(1000).
		StartEpoch(10).
		EndEpoch(20).
		AddUnlockCondition(owner).
		Finish()
	require.NoError(t, err)
	require.NoError(t, VerifyStateTransition(genesis, next, NewValidationContext(NewOutputs(genesis), NewOutputs(next))))

	// the end epoch may coincide with the start epoch
	early, err := NewDelegationOutputBuilder(1000, validatorID, delegationID).
		Amount(1000).
		StartEpoch(10).
		EndEpoch(10).
		AddUnlockCondition(owner).
		Finish()
	require.NoError(t, err)
	earlyCtx := NewValidationContext(NewOutputs(genesis), NewOutputs(early))
	require.NoError(t, VerifyStateTransition(genesis, early, earlyCtx))

	// the delegated stake is immutable
	restaked, err := NewDelegationOutputBuilder(2000, validatorID, delegationID).
		Amount(1000).
		StartEpoch(10).
		EndEpoch(20).
		AddUnlockCondition(owner).
		Finish()
	require.NoError(t, err)
	require.ErrorIs(t, VerifyStateTransition(genesis, restaked, NewValidationContext(NewOutputs(genesis), NewOutputs(restaked))), ErrMutatedImmutableField)
}

func TestChainedTransitionTypeChange(t *testing.T) {
	aliasID := randAliasID()
	alias := buildAliasOutput(t, aliasID, 1, 0,
		NewStateControllerAddressUnlockCondition(randED25519Address()),
		NewGovernorAddressUnlockCondition(randED25519Address()))
	alias.SetID(randOutputID())

	nft, err := NewNFTOutputBuilder(1000, NFTID(aliasID)).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		Finish()
	require.NoError(t, err)

	ctx := NewValidationContext(NewOutputs(alias), NewOutputs(nft))
	require.ErrorIs(t, VerifyStateTransition(alias, nft, ctx), ErrMutatedImmutableField)
}
