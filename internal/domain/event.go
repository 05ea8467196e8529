package domain

import (
	"context"
	"strings"
	"time"
)

// LookupRecord is the JSON payload published by the VIES collector.
type LookupRecord struct {
	CountryCode string   `json:"countryCode"`
	VATNumber   string   `json:"vatNumber"`
	RequestDate string   `json:"requestDate,omitempty"`
	Valid       bool     `json:"valid"`
	Name        string   `json:"name,omitempty"`
	Address     string   `json:"address"`
	Flags       []string `json:"flags,omitempty"`
}

// FullVATNumber returns the VAT number with its country prefix.
func (r LookupRecord) FullVATNumber() string {
	vat := strings.TrimSpace(r.VATNumber)
	cc := strings.TrimSpace(r.CountryCode)
	if cc == "" || strings.HasPrefix(vat, cc) {
		return vat
	}
	return cc + vat
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// AddressEvent is a VIES lookup with its address split into fields.
type AddressEvent struct {
	ID          string `json:"id"`
	VATNumber   string `json:"vat_number"`
	Name        string `json:"name,omitempty"`
	CountryCode string `json:"country_code"`
	RequestDate string `json:"request_date,omitempty"`

	// RawAddress is the address exactly as VIES returned it. Address is the
	// trimmed form the fields were cut from (transliterated for EL).
	RawAddress string  `json:"raw_address"`
	Address    string  `json:"address"`
	Street     string  `json:"street"`
	Zip        *string `json:"zip"`
	City       string  `json:"city"`

	// Geocoding enrichment fields.
	Geo              *Geo    `json:"geo,omitempty"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	GeoConfidence    float64 `json:"geo_confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"` // "forward", "original", "failed"

	ProcessedAt time.Time `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
