package ledgerstate

import (
	"bytes"
	"errors"
	"math/big"

	"golang.org/x/xerrors"
)

// region StateTransitionErrors ////////////////////////////////////////////////////////////////////////////////////////

var (
	// ErrMutatedImmutableField is returned when a chain transition modifies a field that is immutable for its kind.
	ErrMutatedImmutableField = errors.New("immutable field was mutated across the state transition")

	// ErrNonMonotonicallyIncreasingNativeTokens is returned when the supply accounting of a foundry decreases.
	ErrNonMonotonicallyIncreasingNativeTokens = errors.New("minted and melted tokens must be monotonically non-decreasing")

	// ErrInconsistentNativeTokensMint is returned when the minted delta of a foundry does not match the token balance
	// increase of the transaction.
	ErrInconsistentNativeTokensMint = errors.New("inconsistent native tokens on mint")

	// ErrInconsistentNativeTokensTransition is returned when a plain foundry transition moves the supply accounting.
	ErrInconsistentNativeTokensTransition = errors.New("inconsistent native tokens on transition")

	// ErrInconsistentNativeTokensMeltBurn is returned when the melted delta of a foundry exceeds the token balance
	// decrease of the transaction.
	ErrInconsistentNativeTokensMeltBurn = errors.New("inconsistent native tokens on melt or burn")

	// ErrInconsistentNativeTokensFoundryCreation is returned when the token balances of a transaction contradict the
	// supply accounting of a freshly created foundry.
	ErrInconsistentNativeTokensFoundryCreation = errors.New("inconsistent native tokens on foundry creation")

	// ErrInconsistentNativeTokensFoundryDestruction is returned when the token balances of a transaction contradict
	// the circulating supply of a destroyed foundry.
	ErrInconsistentNativeTokensFoundryDestruction = errors.New("inconsistent native tokens on foundry destruction")

	// ErrInconsistentFoundrySerialNumber is returned when the serial number of a created foundry is outside the
	// window opened by the foundry counter of its owning alias.
	ErrInconsistentFoundrySerialNumber = errors.New("inconsistent foundry serial number")

	// ErrMissingAliasForFoundry is returned when the owning alias of a foundry is not part of the transaction.
	ErrMissingAliasForFoundry = errors.New("missing alias output for foundry")
)

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region ValidationContext ////////////////////////////////////////////////////////////////////////////////////////////

// ValidationContext carries the aggregate balances and chain outputs of a transaction that chain transitions are
// verified against. It is built once per validation pass and only read afterwards.
type ValidationContext struct {
	// InputNativeTokens holds the aggregate native token balances on the input side of the transaction.
	InputNativeTokens map[TokenID]*big.Int

	// OutputNativeTokens holds the aggregate native token balances on the output side of the transaction.
	OutputNativeTokens map[TokenID]*big.Int

	// InputChains holds the chain outputs on the input side of the transaction indexed by their ChainID.
	InputChains map[ChainID]ChainOutput

	// OutputChains holds the chain outputs on the output side of the transaction indexed by their ChainID.
	OutputChains map[ChainID]ChainOutput
}

// NewValidationContext creates a ValidationContext from the chain outputs and native token balances of a transaction.
func NewValidationContext(inputs Outputs, outputs Outputs) (ctx *ValidationContext) {
	ctx = &ValidationContext{
		InputNativeTokens:  make(map[TokenID]*big.Int),
		OutputNativeTokens: make(map[TokenID]*big.Int),
		InputChains:        make(map[ChainID]ChainOutput),
		OutputChains:       make(map[ChainID]ChainOutput),
	}

	for _, input := range inputs {
		aggregateNativeTokens(ctx.InputNativeTokens, input.NativeTokens())
		if chainOutput, isChainOutput := input.(ChainOutput); isChainOutput {
			ctx.InputChains[chainOutput.Chain()] = chainOutput
		}
	}
	for _, output := range outputs {
		aggregateNativeTokens(ctx.OutputNativeTokens, output.NativeTokens())
		if chainOutput, isChainOutput := output.(ChainOutput); isChainOutput {
			ctx.OutputChains[chainOutput.Chain()] = chainOutput
		}
	}

	return
}

// InputTokens returns the aggregate input-side balance of the given native token (zero if absent).
func (v *ValidationContext) InputTokens(tokenID TokenID) *big.Int {
	if balance, exists := v.InputNativeTokens[tokenID]; exists {
		return balance
	}

	return bigZero
}

// OutputTokens returns the aggregate output-side balance of the given native token (zero if absent).
func (v *ValidationContext) OutputTokens(tokenID TokenID) *big.Int {
	if balance, exists := v.OutputNativeTokens[tokenID]; exists {
		return balance
	}

	return bigZero
}

func aggregateNativeTokens(balances map[TokenID]*big.Int, nativeTokens NativeTokens) {
	for _, nativeToken := range nativeTokens {
		balance, exists := balances[nativeToken.ID()]
		if !exists {
			balance = new(big.Int)
			balances[nativeToken.ID()] = balance
		}
		balance.Add(balance, nativeToken.Amount())
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region VerifyStateTransition ////////////////////////////////////////////////////////////////////////////////////////

// VerifyStateTransition checks the transition between two states of a chain Output against the given
// ValidationContext. A nil current Output verifies the creation of the chain, a nil next Output its destruction.
func VerifyStateTransition(current ChainOutput, next ChainOutput, ctx *ValidationContext) (err error) {
	switch {
	case current == nil && next == nil:
		return xerrors.Errorf("transition without any chain output: %w", ErrInvalidStateTransition)
	case current == nil:
		return verifyCreation(next, ctx)
	case next == nil:
		return verifyDestruction(current, ctx)
	default:
		if current.Type() != next.Type() {
			return xerrors.Errorf("chain output type changed: %w", ErrMutatedImmutableField)
		}

		return verifyTransition(current, next, ctx)
	}
}

func verifyCreation(next ChainOutput, ctx *ValidationContext) (err error) {
	switch output := next.(type) {
	case *AliasOutput:
		if !output.AliasID().IsEmpty() || output.StateIndex() != 0 || output.FoundryCounter() != 0 {
			return xerrors.Errorf("freshly created alias must start with an empty identity: %w", ErrInvalidStateTransition)
		}
	case *FoundryOutput:
		return verifyFoundryCreation(output, ctx)
	case *NFTOutput:
		if !output.NFTID().IsEmpty() {
			return xerrors.Errorf("freshly created nft must start with an empty identity: %w", ErrInvalidStateTransition)
		}
	case *DelegationOutput:
		if !output.DelegationID().IsEmpty() {
			return xerrors.Errorf("freshly created delegation must start with an empty identity: %w", ErrInvalidStateTransition)
		}
		if output.EndEpoch() != 0 {
			return xerrors.Errorf("freshly created delegation must not carry an end epoch: %w", ErrInvalidStateTransition)
		}
	}

	return nil
}

func verifyDestruction(current ChainOutput, ctx *ValidationContext) (err error) {
	if foundry, isFoundry := current.(*FoundryOutput); isFoundry {
		return verifyFoundryDestruction(foundry, ctx)
	}

	return nil
}

func verifyTransition(current ChainOutput, next ChainOutput, ctx *ValidationContext) (err error) {
	switch currentOutput := current.(type) {
	case *AliasOutput:
		return verifyAliasTransition(currentOutput, next.(*AliasOutput))
	case *FoundryOutput:
		return verifyFoundryTransition(currentOutput, next.(*FoundryOutput), ctx)
	case *NFTOutput:
		return verifyNFTTransition(currentOutput, next.(*NFTOutput))
	case *DelegationOutput:
		return verifyDelegationTransition(currentOutput, next.(*DelegationOutput))
	default:
		return xerrors.Errorf("unsupported chain output type: %w", ErrInvalidStateTransition)
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region alias transitions ////////////////////////////////////////////////////////////////////////////////////////////

// verifyAliasTransition distinguishes a state transition (state index incremented by the state controller) from a
// governance transition (state index unchanged, performed by the governor) and enforces the immutability rules of
// each.
func verifyAliasTransition(current *AliasOutput, next *AliasOutput) (err error) {
	if current.AliasID().OrFromOutputID(current.ID()) != next.AliasID() {
		return xerrors.Errorf("alias identity changed: %w", ErrMutatedImmutableField)
	}
	if !current.ImmutableFeatures().Equals(next.ImmutableFeatures()) {
		return xerrors.Errorf("immutable features of alias changed: %w", ErrMutatedImmutableField)
	}

	switch next.StateIndex() {
	case current.StateIndex() + 1:
		// state transition: the controlling identities are governed fields and must stay untouched
		if !current.UnlockConditions().Equals(next.UnlockConditions()) {
			return xerrors.Errorf("state transition must not change the controlling addresses of the alias: %w", ErrInvalidStateTransition)
		}
		if next.FoundryCounter() < current.FoundryCounter() {
			return xerrors.Errorf("foundry counter must not decrease: %w", ErrInvalidStateTransition)
		}
	case current.StateIndex():
		// governance transition: the tracked state must stay untouched
		if current.Amount() != next.Amount() ||
			!current.NativeTokens().Equals(next.NativeTokens()) ||
			!bytes.Equal(current.StateMetadata(), next.StateMetadata()) ||
			current.FoundryCounter() != next.FoundryCounter() {
			return xerrors.Errorf("governance transition must not change the tracked state of the alias: %w", ErrInvalidStateTransition)
		}
	default:
		return xerrors.Errorf("state index must stay fixed or increment by exactly one: %w", ErrInvalidStateTransition)
	}

	return nil
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region foundry transitions //////////////////////////////////////////////////////////////////////////////////////////

func verifyFoundryCreation(next *FoundryOutput, ctx *ValidationContext) (err error) {
	aliasChainID := next.AliasAddress().AliasID().ChainID()

	outputAlias, aliasExists := ctx.OutputChains[aliasChainID].(*AliasOutput)
	if !aliasExists {
		return ErrMissingAliasForFoundry
	}
	// the owning alias must be consumed in the same transaction, so its foundry counter anchors the serial window
	inputAlias, aliasConsumed := ctx.InputChains[aliasChainID].(*AliasOutput)
	if !aliasConsumed {
		return ErrMissingAliasForFoundry
	}
	if next.SerialNumber() <= inputAlias.FoundryCounter() || next.SerialNumber() > outputAlias.FoundryCounter() {
		return ErrInconsistentFoundrySerialNumber
	}

	// nothing of the token existed before the foundry, so the output-side balance is exactly what was minted
	tokenID := next.TokenID()
	if ctx.InputTokens(tokenID).Sign() != 0 {
		return ErrInconsistentNativeTokensFoundryCreation
	}
	simpleTokenScheme, isSimple := next.TokenScheme().(*SimpleTokenScheme)
	if !isSimple {
		return nil
	}
	if simpleTokenScheme.MeltedTokens().Sign() != 0 || ctx.OutputTokens(tokenID).Cmp(simpleTokenScheme.MintedTokens()) != 0 {
		return ErrInconsistentNativeTokensFoundryCreation
	}

	return nil
}

func verifyFoundryTransition(current *FoundryOutput, next *FoundryOutput, ctx *ValidationContext) (err error) {
	if !current.AliasAddress().Equals(next.AliasAddress()) {
		return xerrors.Errorf("owning alias of foundry changed: %w", ErrMutatedImmutableField)
	}
	if current.SerialNumber() != next.SerialNumber() {
		return xerrors.Errorf("serial number of foundry changed: %w", ErrMutatedImmutableField)
	}
	if !current.ImmutableFeatures().Equals(next.ImmutableFeatures()) {
		return xerrors.Errorf("immutable features of foundry changed: %w", ErrMutatedImmutableField)
	}

	currentScheme, isSimple := current.TokenScheme().(*SimpleTokenScheme)
	if !isSimple {
		return xerrors.Errorf("unsupported token scheme: %w", ErrInvalidTokenScheme)
	}
	tokenID := current.TokenID()

	return currentScheme.verifyStateTransition(next.TokenScheme(), ctx.InputTokens(tokenID), ctx.OutputTokens(tokenID))
}

func verifyFoundryDestruction(current *FoundryOutput, ctx *ValidationContext) (err error) {
	tokenID := current.TokenID()
	if ctx.OutputTokens(tokenID).Sign() != 0 {
		return ErrInconsistentNativeTokensFoundryDestruction
	}

	simpleTokenScheme, isSimple := current.TokenScheme().(*SimpleTokenScheme)
	if !isSimple {
		return xerrors.Errorf("unsupported token scheme: %w", ErrInvalidTokenScheme)
	}

	// destroying the foundry removes the whole outstanding circulating supply from the ledger
	if simpleTokenScheme.CirculatingSupply().Cmp(ctx.InputTokens(tokenID)) != 0 {
		return ErrInconsistentNativeTokensFoundryDestruction
	}

	return nil
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region nft / delegation transitions /////////////////////////////////////////////////////////////////////////////////

func verifyNFTTransition(current *NFTOutput, next *NFTOutput) (err error) {
	if current.NFTID().OrFromOutputID(current.ID()) != next.NFTID() {
		return xerrors.Errorf("nft identity changed: %w", ErrMutatedImmutableField)
	}
	if !current.ImmutableFeatures().Equals(next.ImmutableFeatures()) {
		return xerrors.Errorf("immutable features of nft changed: %w", ErrMutatedImmutableField)
	}

	return nil
}

func verifyDelegationTransition(current *DelegationOutput, next *DelegationOutput) (err error) {
	if current.DelegationID().OrFromOutputID(current.ID()) != next.DelegationID() {
		return xerrors.Errorf("delegation identity changed: %w", ErrMutatedImmutableField)
	}
	if current.DelegatedAmount() != next.DelegatedAmount() ||
		current.ValidatorID() != next.ValidatorID() ||
		current.StartEpoch() != next.StartEpoch() {
		return xerrors.Errorf("delegated stake of delegation changed: %w", ErrMutatedImmutableField)
	}
	if !current.ImmutableFeatures().Equals(next.ImmutableFeatures()) {
		return xerrors.Errorf("immutable features of delegation changed: %w", ErrMutatedImmutableField)
	}
	// the only admissible transition registers the end of the delegation period
	if current.EndEpoch() != 0 || next.EndEpoch() < next.StartEpoch() {
		return xerrors.Errorf("end epoch can only be set once and must not precede the start epoch: %w", ErrInvalidStateTransition)
	}

	return nil
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
