package server_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/UnknownOlympus/citylens/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPage(t *testing.T) {
	t.Run("form only", func(t *testing.T) {
		f := newFixture(t, false, nil)

		rec := f.serve("/")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), `<form method="get" action="/">`)
		assert.NotContains(t, rec.Body.String(), "<h2>")
	})

	t.Run("sections in category order", func(t *testing.T) {
		f := newFixture(t, false, nil)
		f.expectParis()

		rec := f.serve("/?city=Paris")

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()

		restaurants := strings.Index(body, "<h2>Restaurants</h2>")
		atms := strings.Index(body, "<h2>ATMs</h2>")
		cinemas := strings.Index(body, "<h2>Movie Theaters</h2>")
		require.NotEqual(t, -1, restaurants)
		assert.Less(t, restaurants, atms)
		assert.Less(t, atms, cinemas)

		assert.Contains(t, body, "<h3>Le &lt;Louvre&gt;</h3>", "names are escaped")
		assert.Contains(t, body, "Distance: 1.50 km")
		assert.Contains(t, body, "Distance: 3.00 km")
		assert.Equal(t, 1, strings.Count(body, "No results found."), "only the ATM section is empty")
	})

	t.Run("empty city", func(t *testing.T) {
		f := newFixture(t, false, nil)

		rec := f.serve("/?city=++")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Please enter a city name.")
	})

	t.Run("any failure shows the generic message", func(t *testing.T) {
		f := newFixture(t, false, nil)
		f.geocoder.On("Geocode", mock.Anything, "Nowhere").Return(nil, geocoding.ErrCityNotFound).Once()

		rec := f.serve("/?city=Nowhere")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Failed to fetch data. Please try again.")
		assert.NotContains(t, rec.Body.String(), "<h2>")
	})
}
