package ledgerstate

import (
	"testing"

	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/stretchr/testify/require"
)

func randED25519Address() *ED25519Address {
	keyPair := ed25519.GenerateKeyPair()

	return NewED25519Address(keyPair.PublicKey)
}

func TestNewUnlockConditionsDeduplicatesAndSorts(t *testing.T) {
	address1 := randED25519Address()
	address2 := randED25519Address()

	unlockConditions := NewUnlockConditions(
		NewTimelockUnlockCondition(1000),
		NewAddressUnlockCondition(address1),
		NewAddressUnlockCondition(address2),
	)

	require.Len(t, unlockConditions, 2)
	require.EqualValues(t, AddressUnlockConditionType, unlockConditions[0].Type())
	require.EqualValues(t, TimelockUnlockConditionType, unlockConditions[1].Type())

	// the first condition of a duplicated type wins
	require.True(t, unlockConditions.Address().Address().Equals(address1))
}

func TestUnlockConditionsReplace(t *testing.T) {
	address1 := randED25519Address()
	address2 := randED25519Address()

	unlockConditions := NewUnlockConditions(NewAddressUnlockCondition(address1))
	unlockConditions = unlockConditions.replace(NewAddressUnlockCondition(address2))

	require.Len(t, unlockConditions, 1)
	require.True(t, unlockConditions.Address().Address().Equals(address2))
}

func TestUnlockConditionsMarshaling(t *testing.T) {
	owner := randED25519Address()
	returnAddress := randED25519Address()

	unlockConditions := NewUnlockConditions(
		NewAddressUnlockCondition(owner),
		NewStorageDepositReturnUnlockCondition(returnAddress, 1337),
		NewTimelockUnlockCondition(1000),
		NewExpirationUnlockCondition(returnAddress, 2000),
	)

	marshalUtil := marshalutil.New(unlockConditions.Bytes())
	restored, err := UnlockConditionsFromMarshalUtil(marshalUtil)
	require.NoError(t, err)
	require.True(t, unlockConditions.Equals(restored))
	require.EqualValues(t, 1337, restored.StorageDepositReturn().Amount())
}

func TestUnlockConditionsLockedAddress(t *testing.T) {
	owner := randED25519Address()
	returnAddress := randED25519Address()

	unlockConditions := NewUnlockConditions(
		NewAddressUnlockCondition(owner),
		NewExpirationUnlockCondition(returnAddress, 2000),
	)

	require.True(t, unlockConditions.LockedAddress(owner, 1999).Equals(owner))
	require.True(t, unlockConditions.LockedAddress(owner, 2000).Equals(returnAddress))
	require.True(t, unlockConditions.LockedAddress(owner, 2001).Equals(returnAddress))
}

func TestUnlockConditionsTimelocksExpired(t *testing.T) {
	unlockConditions := NewUnlockConditions(
		NewAddressUnlockCondition(randED25519Address()),
		NewTimelockUnlockCondition(1000),
	)

	require.False(t, unlockConditions.TimelocksExpired(999))
	require.True(t, unlockConditions.TimelocksExpired(1000))
	require.True(t, unlockConditions.TimelocksExpired(1001))
}
