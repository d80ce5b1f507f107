package geocoding_test

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/citylens/internal/geocoding"
	"github.com/UnknownOlympus/citylens/internal/upstream"
	"github.com/UnknownOlympus/citylens/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestGoogleProvider_Geocode(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, slog.Default())
	ctx := t.Context()

	t.Run("api returns error", func(t *testing.T) {
		city := "Paris"
		req := &maps.GeocodingRequest{Address: city}

		mockClient.On("Geocode", ctx, req).Return(nil, assert.AnError).Once()

		_, err := provider.Geocode(ctx, city)

		require.ErrorIs(t, err, assert.AnError)
		mockClient.AssertExpectations(t)
	})

	t.Run("api rejects the request", func(t *testing.T) {
		city := "Paris"
		req := &maps.GeocodingRequest{Address: city}

		mockClient.On("Geocode", ctx, req).
			Return(nil, errors.New("maps: OVER_QUERY_LIMIT - You have exceeded your daily request quota")).Once()

		_, err := provider.Geocode(ctx, city)

		require.ErrorIs(t, err, upstream.ErrUnavailable)
		mockClient.AssertExpectations(t)
	})

	t.Run("api returns empty response", func(t *testing.T) {
		city := "Nowhere"
		req := &maps.GeocodingRequest{Address: city}

		mockClient.On("Geocode", ctx, req).Return(nil, nil).Once()

		coords, err := provider.Geocode(ctx, city)

		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrCityNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("successful geocoding", func(t *testing.T) {
		city := "Paris"
		req := &maps.GeocodingRequest{Address: city}
		mockResponse := []maps.GeocodingResult{
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 48.8566, Lng: 2.3522}}},
		}

		mockClient.On("Geocode", ctx, req).Return(mockResponse, nil).Once()

		coords, err := provider.Geocode(ctx, city)

		require.NoError(t, err)
		require.NotNil(t, coords)
		assert.InDelta(t, 48.8566, coords.Latitude, 1e-9)
		assert.InDelta(t, 2.3522, coords.Longitude, 1e-9)
		mockClient.AssertExpectations(t)
	})
}

func newGoogleServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		assert.Equal(t, "Paris", r.URL.Query().Get("address"))

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newGoogleFromFactory(t *testing.T, srv *httptest.Server) geocoding.Provider {
	t.Helper()

	provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:       geocoding.ProviderTypeGoogle,
		APIKey:     "AIza-test-api-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		Logger:     slog.Default(),
	})
	require.NoError(t, err)

	return provider
}

func TestGoogleProvider_HTTP(t *testing.T) {
	t.Run("successful geocoding", func(t *testing.T) {
		srv := newGoogleServer(t, http.StatusOK,
			`{"status":"OK","results":[{"geometry":{"location":{"lat":48.8566,"lng":2.3522}}}]}`)

		coords, err := newGoogleFromFactory(t, srv).Geocode(t.Context(), "Paris")

		require.NoError(t, err)
		assert.InDelta(t, 48.8566, coords.Latitude, 1e-9)
		assert.InDelta(t, 2.3522, coords.Longitude, 1e-9)
	})

	t.Run("zero results", func(t *testing.T) {
		srv := newGoogleServer(t, http.StatusOK, `{"status":"ZERO_RESULTS","results":[]}`)

		coords, err := newGoogleFromFactory(t, srv).Geocode(t.Context(), "Paris")

		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrCityNotFound)
	})

	t.Run("non-success status", func(t *testing.T) {
		srv := newGoogleServer(t, http.StatusServiceUnavailable, "down")

		coords, err := newGoogleFromFactory(t, srv).Geocode(t.Context(), "Paris")

		require.Nil(t, coords)
		var statusErr *upstream.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, "google", statusErr.Upstream)
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
		assert.Equal(t, "down", statusErr.Body)
	})

	t.Run("request denied", func(t *testing.T) {
		srv := newGoogleServer(t, http.StatusOK,
			`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid.","results":[]}`)

		_, err := newGoogleFromFactory(t, srv).Geocode(t.Context(), "Paris")

		require.ErrorIs(t, err, upstream.ErrUnavailable)
		assert.Contains(t, err.Error(), "REQUEST_DENIED")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := newGoogleServer(t, http.StatusOK, `<html>`)

		_, err := newGoogleFromFactory(t, srv).Geocode(t.Context(), "Paris")

		require.ErrorIs(t, err, upstream.ErrDecode)
	})
}
