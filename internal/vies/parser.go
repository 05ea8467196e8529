package vies

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Address is the structured form of a VIES address string.
type Address struct {
	Address     string  `json:"address"`
	Street      string  `json:"street"`
	Zip         *string `json:"zip"` // nil when the registry never supplies one (RO)
	City        string  `json:"city"`
	CountryCode string  `json:"country_code"`
}

var (
	// ErrUnparseable is wrapped by every error returned from Parse.
	ErrUnparseable = errors.New("unparseable address")

	ErrNotSupported       = fmt.Errorf("%w: country not supported", ErrUnparseable)
	ErrUnrecognizedFormat = fmt.Errorf("%w: unrecognized format", ErrUnparseable)
	ErrMalformedZip       = fmt.Errorf("%w: malformed zip", ErrUnparseable)
)

// Reason returns a stable label for a Parse error, suitable for metric labels
// and API responses.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrNotSupported):
		return "not_supported"
	case errors.Is(err, ErrUnrecognizedFormat):
		return "unrecognized_format"
	case errors.Is(err, ErrMalformedZip):
		return "malformed_zip"
	default:
		return "unknown"
	}
}

var supportedCountries = []string{
	"SK", "NL", "BE", "FR", "PT", "IT", "FI", "RO",
	"SI", "AT", "PL", "HR", "EL", "DK", "EE", "CZ",
}

// SupportedCountries returns the country codes Parse attempts, in a fixed order.
// Not every country yields every field; RO never has a zip.
func SupportedCountries() []string {
	return slices.Clone(supportedCountries)
}

// IsSupported reports whether Parse attempts addresses for the country code.
func IsSupported(countryCode string) bool {
	return slices.Contains(supportedCountries, countryCode)
}

// Parse splits a VIES address into its fields. The country is taken from the
// first two characters of vatNumber; flags are opaque tokens, see
// RecognizedFlags. Unknown flags are ignored.
func Parse(vatNumber, address string, flags ...string) (Address, error) {
	address = strings.TrimSpace(address)
	country := countryCode(strings.TrimSpace(vatNumber))

	if !IsSupported(country) {
		return Address{}, fmt.Errorf("%w: %q", ErrNotSupported, country)
	}

	in := input{
		country: country,
		address: address,
		lines:   strings.Split(address, "\n"),
		flags:   newFlagSet(flags),
	}

	for _, s := range strategies {
		if s.matches(in) {
			return s.extract(in)
		}
	}
	return Address{}, fmt.Errorf("%w: %s address with %d line breaks", ErrUnrecognizedFormat, country, in.lineBreaks())
}

// countryCode returns the first two characters of a VAT number.
func countryCode(vat string) string {
	r := []rune(vat)
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r)
}
