package ledgerstate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinRent(t *testing.T) {
	rentStructure := &DefaultProtocolParameters().RentStructure

	output, err := NewBasicOutputBuilder(1000).
		AddUnlockCondition(NewAddressUnlockCondition(randED25519Address())).
		Finish()
	require.NoError(t, err)

	serializedSize := uint64(len(output.Bytes()))
	offset := uint64(VByteCostFactorKey)*OutputIDLength + uint64(VByteCostFactorData)*(OutputIDLength+32+4+4)
	require.Equal(t, uint64(rentStructure.VByteCost)*(serializedSize+offset), rentStructure.MinRent(output))
}

func TestMinRentAmountIndependent(t *testing.T) {
	rentStructure := &DefaultProtocolParameters().RentStructure
	owner := randED25519Address()

	small, err := NewBasicOutputBuilder(1).AddUnlockCondition(NewAddressUnlockCondition(owner)).Finish()
	require.NoError(t, err)
	large, err := NewBasicOutputBuilder(2779530283277761).AddUnlockCondition(NewAddressUnlockCondition(owner)).Finish()
	require.NoError(t, err)

	// the amount is serialized with a fixed width, so the rent cost does not depend on its magnitude
	require.Equal(t, rentStructure.MinRent(small), rentStructure.MinRent(large))
}
