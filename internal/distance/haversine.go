// Package distance computes great-circle distances between coordinates.
package distance

import "math"

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two points,
// rounded to 2 decimal places. Inputs are not validated: NaN or out-of-range
// values propagate into the result.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return round2(EarthRadiusKm * c)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
