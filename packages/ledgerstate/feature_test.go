package ledgerstate

import (
	"testing"

	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/stretchr/testify/require"
)

func TestNewFeaturesDeduplicatesAndSorts(t *testing.T) {
	address1 := randED25519Address()
	address2 := randED25519Address()

	metadataFeature, err := NewMetadataFeature([]byte("metadata"))
	require.NoError(t, err)

	features := NewFeatures(
		metadataFeature,
		NewSenderFeature(address1),
		NewSenderFeature(address2),
	)

	require.Len(t, features, 2)
	require.EqualValues(t, SenderFeatureType, features[0].Type())
	require.EqualValues(t, MetadataFeatureType, features[1].Type())
	require.True(t, features.Sender().Address().Equals(address1))
}

func TestFeaturesReplace(t *testing.T) {
	address1 := randED25519Address()
	address2 := randED25519Address()

	features := NewFeatures(NewSenderFeature(address1))
	features = features.replace(NewSenderFeature(address2))

	require.Len(t, features, 1)
	require.True(t, features.Sender().Address().Equals(address2))
}

func TestMetadataFeatureSizeLimits(t *testing.T) {
	_, err := NewMetadataFeature(nil)
	require.Error(t, err)

	_, err = NewMetadataFeature(make([]byte, MaxMetadataLength+1))
	require.Error(t, err)

	feature, err := NewMetadataFeature(make([]byte, MaxMetadataLength))
	require.NoError(t, err)
	require.Len(t, feature.Data(), MaxMetadataLength)
}

func TestTagFeatureSizeLimits(t *testing.T) {
	_, err := NewTagFeature(nil)
	require.Error(t, err)

	_, err = NewTagFeature(make([]byte, MaxTagLength+1))
	require.Error(t, err)

	feature, err := NewTagFeature([]byte("funds"))
	require.NoError(t, err)
	require.EqualValues(t, []byte("funds"), feature.Tag())
}

func TestFeaturesMarshaling(t *testing.T) {
	metadataFeature, err := NewMetadataFeature([]byte("metadata"))
	require.NoError(t, err)
	tagFeature, err := NewTagFeature([]byte("tag"))
	require.NoError(t, err)

	features := NewFeatures(
		NewSenderFeature(randED25519Address()),
		NewIssuerFeature(randED25519Address()),
		metadataFeature,
		tagFeature,
	)

	marshalUtil := marshalutil.New(features.Bytes())
	restored, err := FeaturesFromMarshalUtil(marshalUtil)
	require.NoError(t, err)
	require.True(t, features.Equals(restored))
}
