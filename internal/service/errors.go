package service

import (
	"errors"

	"github.com/UnknownOlympus/citylens/internal/geocoding"
	"github.com/UnknownOlympus/citylens/internal/places"
	"github.com/UnknownOlympus/citylens/internal/upstream"
)

// ErrorKind tells callers why a search failed.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindUpstream     ErrorKind = "upstream"
	KindMalformed    ErrorKind = "malformed"
	KindInvalidInput ErrorKind = "invalid_input"
	KindInternal     ErrorKind = "internal"
)

// Classify maps an error returned by Search to its kind.
func Classify(err error) ErrorKind {
	var statusErr *upstream.StatusError

	switch {
	case errors.Is(err, geocoding.ErrEmptyCity), errors.Is(err, places.ErrEmptyCategory):
		return KindInvalidInput
	case errors.Is(err, geocoding.ErrCityNotFound):
		return KindNotFound
	case errors.As(err, &statusErr), errors.Is(err, upstream.ErrUnavailable):
		return KindUpstream
	case errors.Is(err, upstream.ErrDecode):
		return KindMalformed
	default:
		return KindInternal
	}
}
