package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/vies-address-etl/internal/domain"
	"github.com/couchcryptid/vies-address-etl/internal/observability"
	"github.com/couchcryptid/vies-address-etl/internal/vies"
)

// AddressTransformer implements Transformer: it decodes a VIES lookup, parses
// its address, optionally geocodes the result and serializes it for the sink.
type AddressTransformer struct {
	flags    []string
	geocoder domain.Geocoder
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewTransformer creates an AddressTransformer. flags apply to every lookup.
// Pass a nil geocoder to disable geocoding enrichment.
func NewTransformer(flags []string, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *AddressTransformer {
	return &AddressTransformer{
		flags:    flags,
		geocoder: geocoder,
		logger:   logger,
		metrics:  metrics,
	}
}

func (t *AddressTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	rec, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	event, err := domain.BuildAddressEvent(rec, t.flags)
	t.metrics.ParseOutcomes.WithLabelValues(CountryLabel(rec.FullVATNumber()), Outcome(err)).Inc()
	if err != nil {
		return domain.OutputEvent{}, err
	}

	t.logger.Debug("address parsed",
		"event_id", event.ID,
		"country_code", event.CountryCode,
		"city", event.City,
	)

	event = domain.EnrichWithGeocoding(ctx, event, t.geocoder, t.logger)
	return domain.SerializeAddressEvent(event)
}

// Outcome maps a BuildAddressEvent or vies.Parse error to a metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "parsed"
	case errors.Is(err, domain.ErrInvalidLookup):
		return "invalid_lookup"
	default:
		return vies.Reason(err)
	}
}

// CountryLabel bounds metric cardinality: unsupported prefixes share one label.
func CountryLabel(vat string) string {
	if len(vat) >= 2 && vies.IsSupported(vat[:2]) {
		return vat[:2]
	}
	return "other"
}
