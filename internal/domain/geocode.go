package domain

import (
	"context"
	"log/slog"
	"strings"
)

// EnrichWithGeocoding attempts to attach coordinates to a parsed address.
// If geocoder is nil the event is returned untouched; if geocoding fails the
// event is returned with GeoSource set accordingly (graceful degradation).
func EnrichWithGeocoding(ctx context.Context, event AddressEvent, geocoder Geocoder, logger *slog.Logger) AddressEvent {
	if geocoder == nil {
		return event
	}

	query := GeocodeQuery(event)
	if query == "" {
		event.GeoSource = "original"
		return event
	}

	result, err := geocoder.ForwardGeocode(ctx, query, event.CountryCode)
	if err != nil {
		logger.Warn("forward geocoding failed",
			"event_id", event.ID,
			"query", query,
			"country_code", event.CountryCode,
			"error", err,
		)
		event.GeoSource = "failed"
		return event
	}
	if result.Lat == 0 && result.Lon == 0 {
		event.GeoSource = "original"
		return event
	}

	event.Geo = &Geo{Lat: result.Lat, Lon: result.Lon}
	event.FormattedAddress = result.FormattedAddress
	event.GeoConfidence = result.Confidence
	event.GeoSource = "forward"
	return event
}

// GeocodeQuery renders the parsed fields as "<street>, <zip> <city>", skipping
// empty parts. Returns "" when there is no city to anchor the query.
func GeocodeQuery(event AddressEvent) string {
	if strings.TrimSpace(event.City) == "" {
		return ""
	}

	locality := event.City
	if event.Zip != nil && *event.Zip != "" {
		locality = *event.Zip + " " + event.City
	}
	if event.Street == "" {
		return locality
	}
	return event.Street + ", " + locality
}
