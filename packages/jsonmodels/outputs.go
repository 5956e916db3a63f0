package jsonmodels

import (
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/mr-tron/base58"

	"github.com/stardustledger/stardust.go/packages/ledgerstate"
)

// region NativeToken //////////////////////////////////////////////////////////////////////////////////////////////////

// NativeToken represents the JSON model of a ledgerstate.NativeToken. The amount is serialized as a decimal string to
// avoid precision loss in JSON consumers.
type NativeToken struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
}

// NewNativeToken returns a NativeToken from the given ledgerstate.NativeToken.
func NewNativeToken(nativeToken *ledgerstate.NativeToken) *NativeToken {
	return &NativeToken{
		ID:     nativeToken.ID().Base58(),
		Amount: nativeToken.Amount().String(),
	}
}

// NewNativeTokens returns the JSON models of the given ledgerstate.NativeTokens.
func NewNativeTokens(nativeTokens ledgerstate.NativeTokens) (result []*NativeToken) {
	for _, nativeToken := range nativeTokens {
		result = append(result, NewNativeToken(nativeToken))
	}

	return
}

// ToLedgerstateNativeToken converts the JSON model back into a ledgerstate.NativeToken.
func (n *NativeToken) ToLedgerstateNativeToken() (*ledgerstate.NativeToken, error) {
	tokenID, err := ledgerstate.TokenIDFromBase58(n.ID)
	if err != nil {
		return nil, errors.Errorf("invalid field %q: %w", "id", err)
	}
	amount, err := parseUint256(n.Amount, "amount")
	if err != nil {
		return nil, err
	}

	return ledgerstate.NewNativeToken(tokenID, amount), nil
}

func nativeTokensFromJSON(nativeTokens []*NativeToken) (result ledgerstate.NativeTokens, err error) {
	for _, nativeToken := range nativeTokens {
		converted, cErr := nativeToken.ToLedgerstateNativeToken()
		if cErr != nil {
			return nil, cErr
		}
		result = append(result, converted)
	}
	result.Sort()

	return
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region UnlockCondition //////////////////////////////////////////////////////////////////////////////////////////////

// UnlockCondition represents the JSON model of a ledgerstate.UnlockCondition with the numeric kind as its type tag.
type UnlockCondition struct {
	Type          byte   `json:"type"`
	Address       string `json:"address,omitempty"`
	ReturnAddress string `json:"returnAddress,omitempty"`
	Amount        string `json:"amount,omitempty"`
	UnixTime      uint32 `json:"unixTime,omitempty"`
}

// NewUnlockCondition returns an UnlockCondition from the given ledgerstate.UnlockCondition.
func NewUnlockCondition(unlockCondition ledgerstate.UnlockCondition) *UnlockCondition {
	result := &UnlockCondition{
		Type: byte(unlockCondition.Type()),
	}
	switch condition := unlockCondition.(type) {
	case *ledgerstate.AddressUnlockCondition:
		result.Address = condition.Address().Base58()
	case *ledgerstate.StorageDepositReturnUnlockCondition:
		result.ReturnAddress = condition.ReturnAddress().Base58()
		result.Amount = strconv.FormatUint(condition.Amount(), 10)
	case *ledgerstate.TimelockUnlockCondition:
		result.UnixTime = condition.UnixTime()
	case *ledgerstate.ExpirationUnlockCondition:
		result.ReturnAddress = condition.ReturnAddress().Base58()
		result.UnixTime = condition.UnixTime()
	case *ledgerstate.StateControllerAddressUnlockCondition:
		result.Address = condition.Address().Base58()
	case *ledgerstate.GovernorAddressUnlockCondition:
		result.Address = condition.Address().Base58()
	case *ledgerstate.ImmutableAliasAddressUnlockCondition:
		result.Address = condition.Address().Base58()
	}

	return result
}

// NewUnlockConditions returns the JSON models of the given ledgerstate.UnlockConditions.
func NewUnlockConditions(unlockConditions ledgerstate.UnlockConditions) (result []*UnlockCondition) {
	for _, unlockCondition := range unlockConditions {
		result = append(result, NewUnlockCondition(unlockCondition))
	}

	return
}

// ToLedgerstateUnlockCondition converts the JSON model back into a ledgerstate.UnlockCondition.
func (u *UnlockCondition) ToLedgerstateUnlockCondition() (ledgerstate.UnlockCondition, error) {
	switch ledgerstate.UnlockConditionType(u.Type) {
	case ledgerstate.AddressUnlockConditionType:
		address, err := parseAddress(u.Address, "address")
		if err != nil {
			return nil, err
		}
		return ledgerstate.NewAddressUnlockCondition(address), nil
	case ledgerstate.StorageDepositReturnUnlockConditionType:
		returnAddress, err := parseAddress(u.ReturnAddress, "returnAddress")
		if err != nil {
			return nil, err
		}
		amount, err := parseUint64(u.Amount, "amount")
		if err != nil {
			return nil, err
		}
		return ledgerstate.NewStorageDepositReturnUnlockCondition(returnAddress, amount), nil
	case ledgerstate.TimelockUnlockConditionType:
		return ledgerstate.NewTimelockUnlockCondition(u.UnixTime), nil
	case ledgerstate.ExpirationUnlockConditionType:
		returnAddress, err := parseAddress(u.ReturnAddress, "returnAddress")
		if err != nil {
			return nil, err
		}
		return ledgerstate.NewExpirationUnlockCondition(returnAddress, u.UnixTime), nil
	case ledgerstate.StateControllerAddressUnlockConditionType:
		address, err := parseAddress(u.Address, "address")
		if err != nil {
			return nil, err
		}
		return ledgerstate.NewStateControllerAddressUnlockCondition(address), nil
	case ledgerstate.GovernorAddressUnlockConditionType:
		address, err := parseAddress(u.Address, "address")
		if err != nil {
			return nil, err
		}
		return ledgerstate.NewGovernorAddressUnlockCondition(address), nil
	case ledgerstate.ImmutableAliasAddressUnlockConditionType:
		address, err := parseAddress(u.Address, "address")
		if err != nil {
			return nil, err
		}
		aliasAddress, isAliasAddress := address.(*ledgerstate.AliasAddress)
		if !isAliasAddress {
			return nil, errors.Errorf("invalid field %q: expected an alias address", "address")
		}
		return ledgerstate.NewImmutableAliasAddressUnlockCondition(aliasAddress), nil
	default:
		return nil, errors.Errorf("not supported unlock condition type: %d", u.Type)
	}
}

func unlockConditionsFromJSON(unlockConditions []*UnlockCondition) (result ledgerstate.UnlockConditions, err error) {
	for _, unlockCondition := range unlockConditions {
		converted, cErr := unlockCondition.ToLedgerstateUnlockCondition()
		if cErr != nil {
			return nil, cErr
		}
		result = append(result, converted)
	}
	result.Sort()

	return
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Feature //////////////////////////////////////////////////////////////////////////////////////////////////////

// Feature represents the JSON model of a ledgerstate.Feature with the numeric kind as its type tag. Binary payloads
// are base58 encoded.
type Feature struct {
	Type    byte   `json:"type"`
	Address string `json:"address,omitempty"`
	Data    string `json:"data,omitempty"`
	Tag     string `json:"tag,omitempty"`
}

// NewFeature returns a Feature from the given ledgerstate.Feature.
func NewFeature(feature ledgerstate.Feature) *Feature {
	result := &Feature{
		Type: byte(feature.Type()),
	}
	switch typedFeature := feature.(type) {
	case *ledgerstate.SenderFeature:
		result.Address = typedFeature.Address().Base58()
	case *ledgerstate.IssuerFeature:
		result.Address = typedFeature.Address().Base58()
	case *ledgerstate.MetadataFeature:
		result.Data = base58.Encode(typedFeature.Data())
	case *ledgerstate.TagFeature:
		result.Tag = base58.Encode(typedFeature.Tag())
	}

	return result
}

// NewFeatures returns the JSON models of the given ledgerstate.Features.
func NewFeatures(features ledgerstate.Features) (result []*Feature) {
	for _, feature := range features {
		result = append(result, NewFeature(feature))
	}

	return
}

// ToLedgerstateFeature converts the JSON model back into a ledgerstate.Feature.
func (f *Feature) ToLedgerstateFeature() (ledgerstate.Feature, error) {
	switch ledgerstate.FeatureType(f.Type) {
	case ledgerstate.SenderFeatureType:
		address, err := parseAddress(f.Address, "address")
		if err != nil {
			return nil, err
		}
		return ledgerstate.NewSenderFeature(address), nil
	case ledgerstate.IssuerFeatureType:
		address, err := parseAddress(f.Address, "address")
		if err != nil {
			return nil, err
		}
		return ledgerstate.NewIssuerFeature(address), nil
	case ledgerstate.MetadataFeatureType:
		data, err := base58.Decode(f.Data)
		if err != nil {
			return nil, errors.Errorf("invalid field %q: %w", "data", err)
		}
		return ledgerstate.NewMetadataFeature(data)
	case ledgerstate.TagFeatureType:
		tag, err := base58.Decode(f.Tag)
		if err != nil {
			return nil, errors.Errorf("invalid field %q: %w", "tag", err)
		}
		return ledgerstate.NewTagFeature(tag)
	default:
		return nil, errors.Errorf("not supported feature type: %d", f.Type)
	}
}

func featuresFromJSON(features []*Feature) (result ledgerstate.Features, err error) {
	for _, feature := range features {
		converted, cErr := feature.ToLedgerstateFeature()
		if cErr != nil {
			return nil, cErr
		}
		result = append(result, converted)
	}
	result.Sort()

	return
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region TokenScheme //////////////////////////////////////////////////////////////////////////////////////////////////

// TokenScheme represents the JSON model of a ledgerstate.TokenScheme.
type TokenScheme struct {
	Type          byte   `json:"type"`
	MintedTokens  string `json:"mintedTokens"`
	MeltedTokens  string `json:"meltedTokens"`
	MaximumSupply string `json:"maximumSupply"`
}

// NewTokenScheme returns a TokenScheme from the given ledgerstate.TokenScheme.
func NewTokenScheme(tokenScheme ledgerstate.TokenScheme) *TokenScheme {
	result := &TokenScheme{
		Type: byte(tokenScheme.Type()),
	}
	if simpleTokenScheme, isSimple := tokenScheme.(*ledgerstate.SimpleTokenScheme); isSimple {
		result.MintedTokens = simpleTokenScheme.MintedTokens().String()
		result.MeltedTokens = simpleTokenScheme.MeltedTokens().String()
		result.MaximumSupply = simpleTokenScheme.MaximumSupply().String()
	}

	return result
}

// ToLedgerstateTokenScheme converts the JSON model back into a ledgerstate.TokenScheme.
func (t *TokenScheme) ToLedgerstateTokenScheme() (ledgerstate.TokenScheme, error) {
	if ledgerstate.TokenSchemeType(t.Type) != ledgerstate.SimpleTokenSchemeType {
		return nil, errors.Errorf("not supported token scheme type: %d", t.Type)
	}

	mintedTokens, err := parseUint256(t.MintedTokens, "mintedTokens")
	if err != nil {
		return nil, err
	}
	meltedTokens, err := parseUint256(t.MeltedTokens, "meltedTokens")
	if err != nil {
		return nil, err
	}
	maximumSupply, err := parseUint256(t.MaximumSupply, "maximumSupply")
	if err != nil {
		return nil, err
	}

	return ledgerstate.NewSimpleTokenScheme(mintedTokens, meltedTokens, maximumSupply)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region BasicOutput //////////////////////////////////////////////////////////////////////////////////////////////////

// BasicOutput represents the JSON model of a ledgerstate.BasicOutput.
type BasicOutput struct {
	Type             byte               `json:"type"`
	Amount           string             `json:"amount"`
	Mana             string             `json:"mana,omitempty"`
	NativeTokens     []*NativeToken     `json:"nativeTokens,omitempty"`
	UnlockConditions []*UnlockCondition `json:"unlockConditions"`
	Features         []*Feature         `json:"features,omitempty"`
}

// NewBasicOutput returns a BasicOutput from the given ledgerstate.BasicOutput.
func NewBasicOutput(output *ledgerstate.BasicOutput) *BasicOutput {
	result := &BasicOutput{
		Type:             byte(ledgerstate.BasicOutputType),
		Amount:           strconv.FormatUint(output.Amount(), 10),
		NativeTokens:     NewNativeTokens(output.NativeTokens()),
		UnlockConditions: NewUnlockConditions(output.UnlockConditions()),
		Features:         NewFeatures(output.Features()),
	}
	if output.Mana() != 0 {
		result.Mana = strconv.FormatUint(output.Mana(), 10)
	}

	return result
}

// ToLedgerstateOutput converts the JSON model back into a ledgerstate.BasicOutput, validating it against the given
// optional protocol parameters.
func (b *BasicOutput) ToLedgerstateOutput(protocolParameters *ledgerstate.ProtocolParameters) (*ledgerstate.BasicOutput, error) {
	amount, err := parseUint64(b.Amount, "amount")
	if err != nil {
		return nil, err
	}
	builder := ledgerstate.NewBasicOutputBuilder(amount)

	if b.Mana != "" {
		mana, mErr := parseUint64(b.Mana, "mana")
		if mErr != nil {
			return nil, mErr
		}
		builder.Mana(mana)
	}
	nativeTokens, err := nativeTokensFromJSON(b.NativeTokens)
	if err != nil {
		return nil, err
	}
	unlockConditions, err := unlockConditionsFromJSON(b.UnlockConditions)
	if err != nil {
		return nil, err
	}
	features, err := featuresFromJSON(b.Features)
	if err != nil {
		return nil, err
	}

	return builder.
		WithNativeTokens(nativeTokens).
		WithUnlockConditions(unlockConditions).
		WithFeatures(features).
		FinishWithParams(protocolParameters)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region AliasOutput //////////////////////////////////////////////////////////////////////////////////////////////////

// AliasOutput represents the JSON model of a ledgerstate.AliasOutput.
type AliasOutput struct {
	Type              byte               `json:"type"`
	Amount            string             `json:"amount"`
	NativeTokens      []*NativeToken     `json:"nativeTokens,omitempty"`
	AliasID           string             `json:"aliasId"`
	StateIndex        uint32             `json:"stateIndex"`
	StateMetadata     string             `json:"stateMetadata,omitempty"`
	FoundryCounter    uint32             `json:"foundryCounter"`
	UnlockConditions  []*UnlockCondition `json:"unlockConditions"`
	Features          []*Feature         `json:"features,omitempty"`
	ImmutableFeatures []*Feature         `json:"immutableFeatures,omitempty"`
}

// NewAliasOutput returns an AliasOutput from the given ledgerstate.AliasOutput.
func NewAliasOutput(output *ledgerstate.AliasOutput) *AliasOutput {
	result := &AliasOutput{
		Type:              byte(ledgerstate.AliasOutputType),
		Amount:            strconv.FormatUint(output.Amount(), 10),
		NativeTokens:      NewNativeTokens(output.NativeTokens()),
		AliasID:           output.AliasID().Base58(),
		StateIndex:        output.StateIndex(),
		FoundryCounter:    output.FoundryCounter(),
		UnlockConditions:  NewUnlockConditions(output.UnlockConditions()),
		Features:          NewFeatures(output.Features()),
		ImmutableFeatures: NewFeatures(output.ImmutableFeatures()),
	}
	if len(output.StateMetadata()) > 0 {
		result.StateMetadata = base58.Encode(output.StateMetadata())
	}

	return result
}

// ToLedgerstateOutput converts the JSON model back into a ledgerstate.AliasOutput, validating it against the given
// optional protocol parameters.
func (a *AliasOutput) ToLedgerstateOutput(protocolParameters *ledgerstate.ProtocolParameters) (*ledgerstate.AliasOutput, error) {
	amount, err := parseUint64(a.Amount, "amount")
	if err != nil {
		return nil, err
	}
	aliasID, err := ledgerstate.AliasIDFromBase58(a.AliasID)
	if err != nil {
		return nil, errors.Errorf("invalid field %q: %w", "aliasId", err)
	}
	builder := ledgerstate.NewAliasOutputBuilder(amount, aliasID).
		StateIndex(a.StateIndex).
		FoundryCounter(a.FoundryCounter)

	if a.StateMetadata != "" {
		stateMetadata, mErr := base58.Decode(a.StateMetadata)
		if mErr != nil {
			return nil, errors.Errorf("invalid field %q: %w", "stateMetadata", mErr)
		}
		builder.StateMetadata(stateMetadata)
	}
	nativeTokens, err := nativeTokensFromJSON(a.NativeTokens)
	if err != nil {
		return nil, err
	}
	unlockConditions, err := unlockConditionsFromJSON(a.UnlockConditions)
	if err != nil {
		return nil, err
	}
	features, err := featuresFromJSON(a.Features)
	if err != nil {
		return nil, err
	}
	immutableFeatures, err := featuresFromJSON(a.ImmutableFeatures)
	if err != nil {
		return nil, err
	}

	return builder.
		WithNativeTokens(nativeTokens).
		WithUnlockConditions(unlockConditions).
		WithFeatures(features).
		WithImmutableFeatures(immutableFeatures).
		FinishWithParams(protocolParameters)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region FoundryOutput ////////////////////////////////////////////////////////////////////////////////////////////////

// FoundryOutput represents the JSON model of a ledgerstate.FoundryOutput.
type FoundryOutput struct {
	Type              byte               `json:"type"`
	Amount            string             `json:"amount"`
	NativeTokens      []*NativeToken     `json:"nativeTokens,omitempty"`
	SerialNumber      uint32             `json:"serialNumber"`
	TokenScheme       *TokenScheme       `json:"tokenScheme"`
	UnlockConditions  []*UnlockCondition `json:"unlockConditions"`
	Features          []*Feature         `json:"features,omitempty"`
	ImmutableFeatures []*Feature         `json:"immutableFeatures,omitempty"`
}

// NewFoundryOutput returns a FoundryOutput from the given ledgerstate.FoundryOutput.
func NewFoundryOutput(output *ledgerstate.FoundryOutput) *FoundryOutput {
	return &FoundryOutput{
		Type:              byte(ledgerstate.FoundryOutputType),
		Amount:            strconv.FormatUint(output.Amount(), 10),
		NativeTokens:      NewNativeTokens(output.NativeTokens()),
		SerialNumber:      output.SerialNumber(),
		TokenScheme:       NewTokenScheme(output.TokenScheme()),
		UnlockConditions:  NewUnlockConditions(output.UnlockConditions()),
		Features:          NewFeatures(output.Features()),
		ImmutableFeatures: NewFeatures(output.ImmutableFeatures()),
	}
}

// ToLedgerstateOutput converts the JSON model back into a ledgerstate.FoundryOutput, validating it against the given
// optional protocol parameters.
func (f *FoundryOutput) ToLedgerstateOutput(protocolParameters *ledgerstate.ProtocolParameters) (*ledgerstate.FoundryOutput, error) {
	amount, err := parseUint64(f.Amount, "amount")
	if err != nil {
		return nil, err
	}
	if f.TokenScheme == nil {
		return nil, errors.Errorf("invalid field %q: token scheme is missing", "tokenScheme")
	}
	tokenScheme, err := f.TokenScheme.ToLedgerstateTokenScheme()
	if err != nil {
		return nil, err
	}
	builder := ledgerstate.NewFoundryOutputBuilder(amount, f.SerialNumber, tokenScheme)

	nativeTokens, err := nativeTokensFromJSON(f.NativeTokens)
	if err != nil {
		return nil, err
	}
	unlockConditions, err := unlockConditionsFromJSON(f.UnlockConditions)
	if err != nil {
		return nil, err
	}
	features, err := featuresFromJSON(f.Features)
	if err != nil {
		return nil, err
	}
	immutableFeatures, err := featuresFromJSON(f.ImmutableFeatures)
	if err != nil {
		return nil, err
	}

	return builder.
		WithNativeTokens(nativeTokens).
		WithUnlockConditions(unlockConditions).
		WithFeatures(features).
		WithImmutableFeatures(immutableFeatures).
		FinishWithParams(protocolParameters)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region NFTOutput ////////////////////////////////////////////////////////////////////////////////////////////////////

// NFTOutput represents the JSON model of a ledgerstate.NFTOutput.
type NFTOutput struct {
	Type              byte               `json:"type"`
	Amount            string             `json:"amount"`
	NativeTokens      []*NativeToken     `json:"nativeTokens,omitempty"`
	NFTID             string             `json:"nftId"`
	UnlockConditions  []*UnlockCondition `json:"unlockConditions"`
	Features          []*Feature         `json:"features,omitempty"`
	ImmutableFeatures []*Feature         `json:"immutableFeatures,omitempty"`
}

// NewNFTOutput returns an NFTOutput from the given ledgerstate.NFTOutput.
func NewNFTOutput(output *ledgerstate.NFTOutput) *NFTOutput {
	return &NFTOutput{
		Type:              byte(ledgerstate.NFTOutputType),
		Amount:            strconv.FormatUint(output.Amount(), 10),
		NativeTokens:      NewNativeTokens(output.NativeTokens()),
		NFTID:             output.NFTID().Base58(),
		UnlockConditions:  NewUnlockConditions(output.UnlockConditions()),
		Features:          NewFeatures(output.Features()),
		ImmutableFeatures: NewFeatures(output.ImmutableFeatures()),
	}
}

// ToLedgerstateOutput converts the JSON model back into a ledgerstate.NFTOutput, validating it against the given
// optional protocol parameters.
func (n *NFTOutput) ToLedgerstateOutput(protocolParameters *ledgerstate.ProtocolParameters) (*ledgerstate.NFTOutput, error) {
	amount, err := parseUint64(n.Amount, "amount")
	if err != nil {
		return nil, err
	}
	nftID, err := ledgerstate.NFTIDFromBase58(n.NFTID)
	if err != nil {
		return nil, errors.Errorf("invalid field %q: %w", "nftId", err)
	}
	builder := ledgerstate.NewNFTOutputBuilder(amount, nftID)

	nativeTokens, err := nativeTokensFromJSON(n.NativeTokens)
	if err != nil {
		return nil, err
	}
	unlockConditions, err := unlockConditionsFromJSON(n.UnlockConditions)
	if err != nil {
		return nil, err
	}
	features, err := featuresFromJSON(n.Features)
	if err != nil {
		return nil, err
	}
	immutableFeatures, err := featuresFromJSON(n.ImmutableFeatures)
	if err != nil {
		return nil, err
	}

	return builder.
		WithNativeTokens(nativeTokens).
		WithUnlockConditions(unlockConditions).
		WithFeatures(features).
		WithImmutableFeatures(immutableFeatures).
		FinishWithParams(protocolParameters)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region DelegationOutput /////////////////////////////////////////////////////////////////////////////////////////////

// DelegationOutput represents the JSON model of a ledgerstate.DelegationOutput.
type DelegationOutput struct {
	Type              byte               `json:"type"`
	Amount            string             `json:"amount"`
	DelegatedAmount   string             `json:"delegatedAmount"`
	DelegationID      string             `json:"delegationId"`
	ValidatorID       string             `json:"validatorId"`
	StartEpoch        uint32             `json:"startEpoch"`
	EndEpoch          uint32             `json:"endEpoch"`
	UnlockConditions  []*UnlockCondition `json:"unlockConditions"`
	ImmutableFeatures []*Feature         `json:"immutableFeatures,omitempty"`
}

// NewDelegationOutput returns a DelegationOutput from the given ledgerstate.DelegationOutput.
func NewDelegationOutput(output *ledgerstate.DelegationOutput) *DelegationOutput {
	return &DelegationOutput{
		Type:              byte(ledgerstate.DelegationOutputType),
		Amount:            strconv.FormatUint(output.Amount(), 10),
		DelegatedAmount:   strconv.FormatUint(output.DelegatedAmount(), 10),
		DelegationID:      output.DelegationID().Base58(),
		ValidatorID:       output.ValidatorID().Base58(),
		StartEpoch:        output.StartEpoch(),
		EndEpoch:          output.EndEpoch(),
		UnlockConditions:  NewUnlockConditions(output.UnlockConditions()),
		ImmutableFeatures: NewFeatures(output.ImmutableFeatures()),
	}
}

// ToLedgerstateOutput converts the JSON model back into a ledgerstate.DelegationOutput, validating it against the
// given optional protocol parameters.
func (d *DelegationOutput) ToLedgerstateOutput(protocolParameters *ledgerstate.ProtocolParameters) (*ledgerstate.DelegationOutput, error) {
	amount, err := parseUint64(d.Amount, "amount")
	if err != nil {
		return nil, err
	}
	delegatedAmount, err := parseUint64(d.DelegatedAmount, "delegatedAmount")
	if err != nil {
		return nil, err
	}
	delegationID, err := ledgerstate.DelegationIDFromBase58(d.DelegationID)
	if err != nil {
		return nil, errors.Errorf("invalid field %q: %w", "delegationId", err)
	}
	validatorID, err := ledgerstate.AccountIDFromBase58(d.ValidatorID)
	if err != nil {
		return nil, errors.Errorf("invalid field %q: %w", "validatorId", err)
	}
	builder := ledgerstate.NewDelegationOutputBuilder(delegatedAmount, validatorID, delegationID).
		Amount(amount).
		StartEpoch(d.StartEpoch).
		EndEpoch(d.EndEpoch)

	unlockConditions, err := unlockConditionsFromJSON(d.UnlockConditions)
	if err != nil {
		return nil, err
	}
	immutableFeatures, err := featuresFromJSON(d.ImmutableFeatures)
	if err != nil {
		return nil, err
	}

	return builder.
		WithUnlockConditions(unlockConditions).
		WithImmutableFeatures(immutableFeatures).
		FinishWithParams(protocolParameters)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region TreasuryOutput ///////////////////////////////////////////////////////////////////////////////////////////////

// TreasuryOutput represents the JSON model of a ledgerstate.TreasuryOutput.
type TreasuryOutput struct {
	Type   byte   `json:"type"`
	Amount string `json:"amount"`
}

// NewTreasuryOutput returns a TreasuryOutput from the given ledgerstate.TreasuryOutput.
func NewTreasuryOutput(output *ledgerstate.TreasuryOutput) *TreasuryOutput {
	return &TreasuryOutput{
		Type:   byte(ledgerstate.TreasuryOutputType),
		Amount: strconv.FormatUint(output.Amount(), 10),
	}
}

// ToLedgerstateOutput converts the JSON model back into a ledgerstate.TreasuryOutput, validating it against the given
// optional protocol parameters.
func (t *TreasuryOutput) ToLedgerstateOutput(protocolParameters *ledgerstate.ProtocolParameters) (*ledgerstate.TreasuryOutput, error) {
	amount, err := parseUint64(t.Amount, "amount")
	if err != nil {
		return nil, err
	}

	output := ledgerstate.NewTreasuryOutput(amount)
	if err = output.SyntacticallyValidate(protocolParameters); err != nil {
		return nil, err
	}

	return output, nil
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Output ///////////////////////////////////////////////////////////////////////////////////////////////////////

// NewOutput returns the JSON model of the given ledgerstate.Output.
func NewOutput(output ledgerstate.Output) (result interface{}, err error) {
	switch typedOutput := output.(type) {
	case *ledgerstate.TreasuryOutput:
		return NewTreasuryOutput(typedOutput), nil
	case *ledgerstate.BasicOutput:
		return NewBasicOutput(typedOutput), nil
	case *ledgerstate.AliasOutput:
		return NewAliasOutput(typedOutput), nil
	case *ledgerstate.FoundryOutput:
		return NewFoundryOutput(typedOutput), nil
	case *ledgerstate.NFTOutput:
		return NewNFTOutput(typedOutput), nil
	case *ledgerstate.DelegationOutput:
		return NewDelegationOutput(typedOutput), nil
	default:
		return nil, errors.Errorf("not supported output type: %d", output.Type())
	}
}

// MarshalOutput serializes the given ledgerstate.Output into its JSON representation.
func MarshalOutput(output ledgerstate.Output) ([]byte, error) {
	jsonModel, err := NewOutput(output)
	if err != nil {
		return nil, err
	}

	return json.Marshal(jsonModel)
}

// UnmarshalOutput parses a ledgerstate.Output from its JSON representation, validating it against the given optional
// protocol parameters.
func UnmarshalOutput(data []byte, protocolParameters *ledgerstate.ProtocolParameters) (ledgerstate.Output, error) {
	var typeTag struct {
		Type byte `json:"type"`
	}
	if err := json.Unmarshal(data, &typeTag); err != nil {
		return nil, errors.Errorf("failed to parse output type: %w", err)
	}

	switch ledgerstate.OutputType(typeTag.Type) {
	case ledgerstate.TreasuryOutputType:
		jsonModel := &TreasuryOutput{}
		if err := json.Unmarshal(data, jsonModel); err != nil {
			return nil, errors.Errorf("failed to parse TreasuryOutput: %w", err)
		}
		return jsonModel.ToLedgerstateOutput(protocolParameters)
	case ledgerstate.BasicOutputType:
		jsonModel := &BasicOutput{}
		if err := json.Unmarshal(data, jsonModel); err != nil {
			return nil, errors.Errorf("failed to parse BasicOutput: %w", err)
		}
		return jsonModel.ToLedgerstateOutput(protocolParameters)
	case ledgerstate.AliasOutputType:
		jsonModel := &AliasOutput{}
		if err := json.Unmarshal(data, jsonModel); err != nil {
			return nil, errors.Errorf("failed to parse AliasOutput: %w", err)
		}
		return jsonModel.ToLedgerstateOutput(protocolParameters)
	case ledgerstate.FoundryOutputType:
		jsonModel := &FoundryOutput{}
		if err := json.Unmarshal(data, jsonModel); err != nil {
			return nil, errors.Errorf("failed to parse FoundryOutput: %w", err)
		}
		return jsonModel.ToLedgerstateOutput(protocolParameters)
	case ledgerstate.NFTOutputType:
		jsonModel := &NFTOutput{}
		if err := json.Unmarshal(data, jsonModel); err != nil {
			return nil, errors.Errorf("failed to parse NFTOutput: %w", err)
		}
		return jsonModel.ToLedgerstateOutput(protocolParameters)
	case ledgerstate.DelegationOutputType:
		jsonModel := &DelegationOutput{}
		if err := json.Unmarshal(data, jsonModel); err != nil {
			return nil, errors.Errorf("failed to parse DelegationOutput: %w", err)
		}
		return jsonModel.ToLedgerstateOutput(protocolParameters)
	default:
		return nil, errors.Errorf("not supported output type: %d", typeTag.Type)
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region helpers //////////////////////////////////////////////////////////////////////////////////////////////////////

func parseUint64(value string, fieldName string) (uint64, error) {
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid field %q: %w", fieldName, err)
	}

	return parsed, nil
}

func parseUint256(value string, fieldName string) (*big.Int, error) {
	parsed, valid := new(big.Int).SetString(value, 10)
	if !valid || parsed.Sign() < 0 {
		return nil, errors.Errorf("invalid field %q: not a decimal number", fieldName)
	}

	return parsed, nil
}

func parseAddress(value string, fieldName string) (ledgerstate.Address, error) {
	address, err := ledgerstate.AddressFromBase58EncodedString(value)
	if err != nil {
		return nil, errors.Errorf("invalid field %q: %w", fieldName, err)
	}

	return address, nil
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
