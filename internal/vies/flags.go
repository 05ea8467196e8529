package vies

import "maps"

const (
	// FlagSKDeleteMC strips municipal-district prefixes ("mestská časť ",
	// "m. č. ") from Slovak city names.
	FlagSKDeleteMC = "sk_delete_mc"

	// FlagELFirstMatchOnly switches Greek transliteration to the legacy rule
	// table, quirks included, with every rule replacing only its first match.
	// Output is byte-compatible with the Greeklish older consumers stored.
	FlagELFirstMatchOnly = "el_first_match_only"
)

var recognizedFlags = map[string]string{
	FlagSKDeleteMC:       "strip municipal-district prefixes from Slovak city names",
	FlagELFirstMatchOnly: "legacy Greek transliteration: original rule table, first match of each rule only",
}

// RecognizedFlags returns the flag tokens Parse understands with a short
// description of each.
func RecognizedFlags() map[string]string {
	return maps.Clone(recognizedFlags)
}

type flagSet map[string]struct{}

func newFlagSet(flags []string) flagSet {
	fs := make(flagSet, len(flags))
	for _, f := range flags {
		fs[f] = struct{}{}
	}
	return fs
}

func (fs flagSet) has(flag string) bool {
	_, ok := fs[flag]
	return ok
}
