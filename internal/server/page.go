package server

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/UnknownOlympus/citylens/internal/geocoding"
	"github.com/UnknownOlympus/citylens/internal/models"
	"github.com/UnknownOlympus/citylens/internal/service"
)

const (
	msgEmptyCity   = "Please enter a city name."
	msgFailedFetch = "Failed to fetch data. Please try again."
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>CityLens</title>
</head>
<body>
<form method="get" action="/">
<input type="text" name="city" value="{{.City}}" placeholder="Enter a city">
<button type="submit">Search</button>
</form>
{{with .Message}}<p class="error">{{.}}</p>{{end}}
<div id="results">
{{range .Sections}}
<h2>{{.Title}}</h2>
{{if .Places}}<div class="card-grid">
{{range .Places}}<div class="card">
<h3>{{.Name}}</h3>
<p>{{.Address}}</p>
<p>Distance: {{printf "%.2f" .DistanceKm}} km</p>
</div>
{{end}}</div>
{{else}}<p>No results found.</p>
{{end}}{{end}}
</div>
</body>
</html>
`))

type pageSection struct {
	Title  string
	Places []models.Place
}

type pageData struct {
	City     string
	Message  string
	Sections []pageSection
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	data := pageData{City: strings.TrimSpace(query.Get("city"))}
	status := http.StatusOK

	if query.Has("city") {
		result, err := s.searcher.Search(ctx, data.City)
		switch {
		case errors.Is(err, geocoding.ErrEmptyCity):
			data.Message = msgEmptyCity
			status = http.StatusBadRequest
		case err != nil:
			// Every failure is reported the same way on the page; the API exposes the kind.
			s.log.ErrorContext(ctx, "Search failed", "city", data.City, "error", err)
			data.Message = msgFailedFetch
			status = statusFor(service.Classify(err))
		default:
			for _, category := range s.searcher.Categories() {
				data.Sections = append(data.Sections, pageSection{
					Title:  category.Title(),
					Places: result.Places[category],
				})
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.log.ErrorContext(ctx, "failed to render page", "error", err)
	}
}
