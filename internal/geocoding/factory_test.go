package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/citylens/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	logger := slog.Default()

	t.Run("create Nominatim provider without API key", func(t *testing.T) {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:   geocoding.ProviderTypeNominatim,
			Logger: logger,
		})

		require.NoError(t, err)
		_, ok := provider.(*geocoding.NominatimProvider)
		assert.True(t, ok, "expected provider to be *NominatimProvider")
	})

	t.Run("create Google provider successfully", func(t *testing.T) {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:   geocoding.ProviderTypeGoogle,
			APIKey: "AIza-test-api-key",
			Logger: logger,
		})

		require.NoError(t, err)
		_, ok := provider.(*geocoding.GoogleProvider)
		assert.True(t, ok, "expected provider to be *GoogleProvider")
	})

	t.Run("create Google provider without API key fails", func(t *testing.T) {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:   geocoding.ProviderTypeGoogle,
			Logger: logger,
		})

		require.Nil(t, provider)
		require.ErrorContains(t, err, "API key is required for Google provider")
	})

	t.Run("create Visicom provider successfully", func(t *testing.T) {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:   geocoding.ProviderTypeVisicom,
			APIKey: "test-api-key",
			Logger: logger,
		})

		require.NoError(t, err)
		_, ok := provider.(*geocoding.VisicomProvider)
		assert.True(t, ok, "expected provider to be *VisicomProvider")
	})

	t.Run("create Visicom provider without API key fails", func(t *testing.T) {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:   geocoding.ProviderTypeVisicom,
			Logger: logger,
		})

		require.Nil(t, provider)
		require.ErrorContains(t, err, "API key is required for Visicom provider")
	})

	t.Run("unsupported provider type", func(t *testing.T) {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:   geocoding.ProviderType("unsupported"),
			Logger: logger,
		})

		require.Nil(t, provider)
		require.ErrorContains(t, err, "unsupported provider type: unsupported")
	})
}

func TestProviderType_Constants(t *testing.T) {
	assert.Equal(t, "google", string(geocoding.ProviderTypeGoogle))
	assert.Equal(t, "nominatim", string(geocoding.ProviderTypeNominatim))
	assert.Equal(t, "visicom", string(geocoding.ProviderTypeVisicom))
}
