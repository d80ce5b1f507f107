package places_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/UnknownOlympus/citylens/internal/models"
	"github.com/UnknownOlympus/citylens/internal/places"
	"github.com/UnknownOlympus/citylens/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func respondWith(status int, body string) *mockHTTPClient {
	return &mockHTTPClient{
		doFunc: func(_ *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: status,
				Body:       io.NopCloser(bytes.NewBufferString(body)),
			}, nil
		},
	}
}

var paris = models.Coordinates{Latitude: 48.8566, Longitude: 2.3522}

func TestBuildQuery(t *testing.T) {
	query := places.BuildQuery(paris, models.CategoryATM, 5000)

	assert.Equal(t, "[out:json];\nnode[\"amenity\"=\"atm\"](around:5000,48.8566,2.3522);\nout body;\n", query)
}

func TestOverpassProvider_FetchNearby(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()

	t.Run("request shape", func(t *testing.T) {
		client := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodPost, req.Method)
				assert.Equal(t, places.OverpassBaseURL, req.URL.String())
				assert.Equal(t, "text/plain", req.Header.Get("Content-Type"))

				body, err := io.ReadAll(req.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), `node["amenity"="restaurant"](around:5000,48.8566,2.3522);`)

				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(`{"elements":[]}`)),
				}, nil
			},
		}

		provider := places.NewOverpassProvider(client, "", "", 0, logger)
		result, err := provider.FetchNearby(ctx, paris, models.CategoryRestaurant)

		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("elements are mapped in provider order", func(t *testing.T) {
		body := `{"elements":[
			{"lat":48.8606,"lon":2.3376,"tags":{"amenity":"restaurant","name":"Le Louvre","addr:full":"Rue de Rivoli, Paris"}},
			{"lat":48.8566,"lon":2.3522,"tags":{"amenity":"restaurant","addr:street":"Rue de Rivoli"}},
			{"lat":48.8584,"lon":2.2945,"tags":{"amenity":"restaurant","name":"Tour","addr:full":"Champ de Mars","addr:street":"Avenue Anatole"}},
			{"lat":48.8566,"lon":2.3522,"tags":{"amenity":"restaurant"}},
			{"lat":48.8566,"lon":2.3522}
		]}`

		provider := places.NewOverpassProvider(respondWith(http.StatusOK, body), "", "", 0, logger)
		result, err := provider.FetchNearby(ctx, paris, models.CategoryRestaurant)

		require.NoError(t, err)
		assert.Equal(t, []models.Place{
			{Name: "Le Louvre", Address: "Rue de Rivoli, Paris", DistanceKm: 1.16},
			{Name: places.UnknownName, Address: "Rue de Rivoli", DistanceKm: 0},
			{Name: "Tour", Address: "Champ de Mars", DistanceKm: 4.23},
			{Name: places.UnknownName, Address: places.UnknownAddress, DistanceKm: 0},
			{Name: places.UnknownName, Address: places.UnknownAddress, DistanceKm: 0},
		}, result)
	})

	t.Run("custom radius and endpoint", func(t *testing.T) {
		client := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "http://overpass.internal/api/interpreter", req.URL.String())
				body, err := io.ReadAll(req.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), "(around:1500,")

				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(`{"elements":[]}`)),
				}, nil
			},
		}

		provider := places.NewOverpassProvider(client, "http://overpass.internal/api/interpreter", "", 1500, logger)
		_, err := provider.FetchNearby(ctx, paris, models.CategoryCinema)

		require.NoError(t, err)
	})

	t.Run("non-success status", func(t *testing.T) {
		provider := places.NewOverpassProvider(respondWith(http.StatusGatewayTimeout, `busy`), "", "", 0, logger)
		result, err := provider.FetchNearby(ctx, paris, models.CategoryATM)

		require.Nil(t, result)
		var statusErr *upstream.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusGatewayTimeout, statusErr.StatusCode)
		assert.Equal(t, "overpass", statusErr.Upstream)
	})

	t.Run("malformed body", func(t *testing.T) {
		provider := places.NewOverpassProvider(respondWith(http.StatusOK, `<html>`), "", "", 0, logger)
		result, err := provider.FetchNearby(ctx, paris, models.CategoryATM)

		require.Nil(t, result)
		require.ErrorIs(t, err, upstream.ErrDecode)
	})

	t.Run("response without elements", func(t *testing.T) {
		bodies := map[string]string{
			"empty object": `{}`,
			"null":         `null`,
			"timeout":      `{"remark":"runtime error: Query timed out in \"query\" at line 2 after 25 seconds."}`,
		}

		for name, body := range bodies {
			t.Run(name, func(t *testing.T) {
				provider := places.NewOverpassProvider(respondWith(http.StatusOK, body), "", "", 0, logger)
				result, err := provider.FetchNearby(ctx, paris, models.CategoryCinema)

				require.Nil(t, result)
				require.ErrorIs(t, err, upstream.ErrDecode)
			})
		}
	})

	t.Run("empty elements is an empty result", func(t *testing.T) {
		provider := places.NewOverpassProvider(respondWith(http.StatusOK, `{"elements":[]}`), "", "", 0, logger)
		result, err := provider.FetchNearby(ctx, paris, models.CategoryCinema)

		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("empty category", func(t *testing.T) {
		client := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				t.Fatal("no request expected for an empty category")
				return nil, assert.AnError
			},
		}

		provider := places.NewOverpassProvider(client, "", "", 0, logger)
		_, err := provider.FetchNearby(ctx, paris, "")

		require.ErrorIs(t, err, places.ErrEmptyCategory)
	})
}
