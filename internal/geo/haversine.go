// Package geo implements the great-circle proximity predicate used by
// the geocache listing.
package geo

import (
	"math"

	"github.com/tleroy/geocaching-api/internal/models"
)

// earthRadiusKm is the mean Earth radius; the ~0.3% ellipsoid error is
// accepted.
const earthRadiusKm = 6371

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// DistanceKm returns the haversine distance in kilometers between two
// lat/lng points given in degrees.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLng := deg2rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// Filter narrows caches to those within radiusKm of the reference
// point. The boundary is inclusive: a cache at exactly radiusKm stays.
func Filter(caches []models.Geocache, lat, lng, radiusKm float64) []models.Geocache {
	filtered := make([]models.Geocache, 0, len(caches))
	for _, cache := range caches {
		distance := DistanceKm(lat, lng, cache.GPSCoordinates.Lat, cache.GPSCoordinates.Lng)
		if distance <= radiusKm {
			filtered = append(filtered, cache)
		}
	}
	return filtered
}
