package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geocoder resolves parsed addresses to coordinates.
type Geocoder interface {
	// ForwardGeocode converts a free-text address query, restricted to the
	// given VIES country code, to coordinates.
	ForwardGeocode(ctx context.Context, query, countryCode string) (GeocodingResult, error)
}
