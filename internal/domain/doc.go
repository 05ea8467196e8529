// Package domain models VIES VAT-number lookups and the parsed-address events
// derived from them.
//
// # Data Source
//
// An upstream collector queries the VIES "check VAT number" service and
// publishes each response as JSON to the Kafka source topic. The payload keeps
// the field names of the VIES REST API:
//
//	{
//	  "countryCode": "SK",
//	  "vatNumber":   "2020317068",
//	  "requestDate": "2024-04-26T10:15:00.000Z",
//	  "valid":       true,
//	  "name":        "Example s.r.o.",
//	  "address":     "Mlynské nivy 1\n82109 Bratislava\nSlovensko",
//	  "flags":       ["sk_delete_mc"]
//	}
//
// # VIES Conventions
//
// VAT number:
//
//	VIES returns the number without its country prefix ("2020317068"), while
//	many callers store it with the prefix ("SK2020317068"). Both forms are
//	accepted; see [LookupRecord.FullVATNumber]. Greece uses the prefix "EL",
//	not its ISO code "GR".
//
// Address:
//
//	Free text, one registry field per line for most countries. Member states
//	that hide trader details return "---" for name and address; such lookups
//	fail parsing like any other unrecognized layout.
//
// Validity:
//
//	A lookup with "valid": false carries no trustworthy address and is
//	rejected with [ErrInvalidLookup] before parsing.
//
// Flags:
//
//	Optional per-lookup parser flags, merged with the service-wide defaults.
//	See vies.RecognizedFlags for the tokens the parser understands.
//
// # ID Generation
//
// Event IDs are deterministic SHA-256 hashes of vat|address, prefixed with the
// lowercase country code. Replaying a lookup produces the same ID, so
// downstream consumers can upsert idempotently. See [generateID].
package domain
