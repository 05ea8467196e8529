package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/vies-address-etl/internal/vies"
)

// ErrInvalidLookup is returned for lookups VIES marked as not valid.
var ErrInvalidLookup = errors.New("vies lookup not valid")

// ParseRawEvent deserializes a RawEvent's value into a LookupRecord.
func ParseRawEvent(raw RawEvent) (LookupRecord, error) {
	var rec LookupRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return LookupRecord{}, fmt.Errorf("parse raw event: %w", err)
	}
	return rec, nil
}

// BuildAddressEvent parses the lookup's address and stamps the result.
// defaultFlags are applied to every lookup in addition to the lookup's own flags.
// Parse failures are returned unchanged so callers can classify them with vies.Reason.
func BuildAddressEvent(rec LookupRecord, defaultFlags []string) (AddressEvent, error) {
	if !rec.Valid {
		return AddressEvent{}, fmt.Errorf("%w: %s", ErrInvalidLookup, rec.FullVATNumber())
	}

	vat := rec.FullVATNumber()
	parsed, err := vies.Parse(vat, rec.Address, mergeFlags(defaultFlags, rec.Flags)...)
	if err != nil {
		return AddressEvent{}, err
	}

	return AddressEvent{
		ID:          generateID(parsed.CountryCode, vat, parsed.Address),
		VATNumber:   vat,
		Name:        strings.TrimSpace(rec.Name),
		CountryCode: parsed.CountryCode,
		RequestDate: rec.RequestDate,
		RawAddress:  rec.Address,
		Address:     parsed.Address,
		Street:      parsed.Street,
		Zip:         parsed.Zip,
		City:        parsed.City,
		ProcessedAt: clock.Now().UTC(),
	}, nil
}

// mergeFlags returns the union of both flag lists, in first-seen order.
func mergeFlags(defaults, extra []string) []string {
	out := make([]string, 0, len(defaults)+len(extra))
	for _, f := range slices.Concat(defaults, extra) {
		f = strings.TrimSpace(f)
		if f == "" || slices.Contains(out, f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// generateID produces a deterministic ID from the lookup's key fields.
// Reprocessing the same lookup yields the same ID.
func generateID(countryCode, vat, address string) string {
	hash := sha256.Sum256([]byte(vat + "|" + address))
	short := hex.EncodeToString(hash[:8])
	if countryCode == "" {
		return short
	}
	return strings.ToLower(countryCode) + "-" + short
}

// SerializeAddressEvent marshals an AddressEvent into an OutputEvent keyed by its ID.
func SerializeAddressEvent(event AddressEvent) (OutputEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize address event: %w", err)
	}
	return OutputEvent{
		Key:   []byte(event.ID),
		Value: data,
		Headers: map[string]string{
			"country_code": event.CountryCode,
			"processed_at": event.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
