// Package vies extracts street, postal code and city from the free-text
// address returned by a VIES VAT-number lookup.
//
// # Data Source
//
// VIES (VAT Information Exchange System) answers a VAT-number query with the
// trader's registered name and a single address string. Each member state
// feeds VIES from its own registry, so the address layout is whatever that
// registry happens to produce: sometimes one line per field, sometimes a
// comma-separated line, sometimes fields glued together with runs of spaces.
// The only reliable classifier is the country prefix of the VAT number.
//
// # Registry Conventions
//
// Observed layouts, per country and number of line breaks:
//
//	NL BE FR FI AT PL DK IT (1)  "<street>\n<zip> <city>"
//	SI HR (0)                    "<street>, [<extra>, ]<zip> <city>"
//	EL (0)                       "<street> <zip> - <city>" in Greek script
//	RO (1)                       "<city>\n<street>"                      no zip
//	RO (2)                       "<city>\n<street>\n<apartment>"         no zip
//	PT (2)                       "<street>\n<city>\n<zip> <post office>"
//	FR (2)                       "<place name>\n<street>\n<zip> <city>"
//	SK (2)                       "<street>\n<zip> <city>\nSlovensko"
//	SK (1)                       "<street>\n<zip> <city>" or "<zip> <city>\nSlovensko"
//	EE (0)                       "<street>  <zip> <city>" (two or more spaces)
//	CZ (1)                       "<street>\n<nnn nn> <city>"
//	CZ (2)                       "<street>\n<part of town>\n<nnn nn> <city>"
//
// Czech postal codes carry an internal space, so the zip ends at the second
// space of the line rather than the first.
//
// Romanian registry data never includes a postal code; [Address.Zip] is nil
// for RO rather than an empty string.
//
// Greek addresses are transliterated to Latin script ("Greeklish") before
// being split, see [Greeklish].
//
// # Unsupported Input
//
// DE does not return addresses at all, IE addresses are comma soup without
// postal codes, and ES only echoes back an address the caller supplied.
// These and every other country outside [SupportedCountries] fail with
// [ErrNotSupported]. A supported country whose address does not match any
// known layout fails with [ErrUnrecognizedFormat].
//
// Every function in this package is pure and safe for concurrent use.
package vies
