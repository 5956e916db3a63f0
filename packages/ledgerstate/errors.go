package ledgerstate

import (
	"errors"
)

var (
	// ErrUnknownOutputType is returned when an Output with an unsupported type discriminant is parsed.
	ErrUnknownOutputType = errors.New("unknown output type")

	// ErrMissingAddressUnlockCondition is returned when an Output is finished without its controlling unlock condition.
	ErrMissingAddressUnlockCondition = errors.New("missing address unlock condition")

	// ErrDisallowedUnlockCondition is returned when an Output carries an unlock condition outside its allow-list.
	ErrDisallowedUnlockCondition = errors.New("unlock condition is not allowed for this output type")

	// ErrDisallowedFeature is returned when an Output carries a feature outside its allow-list.
	ErrDisallowedFeature = errors.New("feature is not allowed for this output type")

	// ErrInvalidFoundryZeroSerialNumber is returned when a FoundryOutput is finished with serial number zero.
	ErrInvalidFoundryZeroSerialNumber = errors.New("foundry serial number must not be zero")

	// ErrOutputAmountOutOfRange is returned when the amount of an Output is zero or exceeds the token supply.
	ErrOutputAmountOutOfRange = errors.New("output amount is out of range")

	// ErrInsufficientStorageDeposit is returned when the amount of an Output does not cover its rent cost.
	ErrInsufficientStorageDeposit = errors.New("output amount does not cover the minimum storage deposit")

	// ErrInvalidNativeTokenSet is returned when native tokens are duplicated, unsorted or carry a zero amount.
	ErrInvalidNativeTokenSet = errors.New("invalid native token set")

	// ErrMaxNativeTokensExceeded is returned when an Output holds more native tokens than allowed.
	ErrMaxNativeTokensExceeded = errors.New("maximum count of native tokens exceeded")

	// ErrInvalidTokenScheme is returned when the accounting values of a token scheme contradict each other.
	ErrInvalidTokenScheme = errors.New("invalid token scheme")

	// ErrInvalidStateTransition is returned if there is an invalid state transition between two chain outputs.
	ErrInvalidStateTransition = errors.New("invalid state transition")
)
