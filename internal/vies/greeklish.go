package vies

import (
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// unvoiced is the consonant class that devoices a preceding υ (αυ → af).
const unvoiced = `θΘκΚξΞπΠσςΣτΤφΦχΧψΨ`

type translitRule struct {
	re   *regexp.Regexp
	repl string
}

func rule(pattern, repl string) translitRule {
	return translitRule{re: regexp.MustCompile(pattern), repl: repl}
}

// greeklishRules run in order. Digraphs come before single letters so that
// e.g. "ου" is not consumed as "o" + "i".
var greeklishRules = []translitRule{
	rule(`[αΑ][ιίΙΊ]`, "e"),
	rule(`[οΟεΕ][ιίΙΊ]`, "i"),
	rule(`[αΑ][υύΥΎ]([`+unvoiced+`]|$)`, "af${1}"),
	rule(`[αΑ][υύΥΎ]`, "av"),
	rule(`[εΕ][υύΥΎ]([`+unvoiced+`]|$)`, "ef${1}"),
	rule(`[εΕ][υύΥΎ]`, "ev"),
	rule(`[οΟ][υύΥΎ]`, "ou"),
	rule(`(^|\s)[μΜ][πΠ]`, "${1}b"),
	rule(`[μΜ][πΠ](\s|$)`, "b${1}"),
	rule(`[μΜ][πΠ]`, "mp"),
	rule(`[νΝ][τΤ]`, "nt"),
	rule(`[τΤ][σΣ]`, "ts"),
	rule(`[τΤ][ζΖ]`, "tz"),
	rule(`[γΓ][γΓ]`, "ng"),
	rule(`[γΓ][κΚ]`, "gk"),
	rule(`[ηΗ][υΥ]([`+unvoiced+`]|$)`, "if${1}"),
	rule(`[ηΗ][υΥ]`, "iu"),
	rule(`[θΘ]`, "th"),
	rule(`[χΧ]`, "ch"),
	rule(`[ψΨ]`, "ps"),
	rule(`[αά]`, "a"),
	rule(`[βΒ]`, "v"),
	rule(`[γΓ]`, "g"),
	rule(`[δΔ]`, "d"),
	rule(`[εέΕΈ]`, "e"),
	rule(`[ζΖ]`, "z"),
	rule(`[ηήΗΉ]`, "i"),
	rule(`[ιίϊΐΙΊΪ]`, "i"),
	rule(`[κΚ]`, "k"),
	rule(`[λΛ]`, "l"),
	rule(`[μΜ]`, "m"),
	rule(`[νΝ]`, "n"),
	rule(`[ξΞ]`, "x"),
	rule(`[οόΟΌ]`, "o"),
	rule(`[πΠ]`, "p"),
	rule(`[ρΡ]`, "r"),
	rule(`[σςΣ]`, "s"),
	rule(`[τΤ]`, "t"),
	rule(`[υύϋΰΥΎΫ]`, "i"),
	rule(`[φΦ]`, "f"),
	rule(`(?i)[ωώ]`, "o"),
	rule(`(?i)[αά]`, "a"),
}

// legacyGreeklishRules is the rule table older VIES consumers were built
// against, kept character for character: the context alternatives match a
// literal "s" rather than whitespace, the consonant class holds a Latin T and
// a capital Ρ in place of Τ and Φ, and ΐ and ΰ are not mapped.
var legacyGreeklishRules = []translitRule{
	rule(`[αΑ][ιίΙΊ]`, "e"),
	rule(`[οΟΕε][ιίΙΊ]`, "i"),
	rule(`[αΑ][υύΥΎ]([θΘκΚξΞπΠσςΣτTφΡχΧψΨ]|s|$)`, "af${1}"),
	rule(`[αΑ][υύΥΎ]`, "av"),
	rule(`[εΕ][υύΥΎ]([θΘκΚξΞπΠσςΣτTφΡχΧψΨ]|s|$)`, "ef${1}"),
	rule(`[εΕ][υύΥΎ]`, "ev"),
	rule(`[οΟ][υύΥΎ]`, "ou"),
	rule(`(^|s)[μΜ][πΠ]`, "${1}b"),
	rule(`[μΜ][πΠ](s|$)`, "b${1}"),
	rule(`[μΜ][πΠ]`, "mp"),
	rule(`[νΝ][τΤ]`, "nt"),
	rule(`[τΤ][σΣ]`, "ts"),
	rule(`[τΤ][ζΖ]`, "tz"),
	rule(`[γΓ][γΓ]`, "ng"),
	rule(`[γΓ][κΚ]`, "gk"),
	rule(`[ηΗ][υΥ]([θΘκΚξΞπΠσςΣτTφΡχΧψΨ]|s|$)`, "if${1}"),
	rule(`[ηΗ][υΥ]`, "iu"),
	rule(`[θΘ]`, "th"),
	rule(`[χΧ]`, "ch"),
	rule(`[ψΨ]`, "ps"),
	rule(`[αά]`, "a"),
	rule(`[βΒ]`, "v"),
	rule(`[γΓ]`, "g"),
	rule(`[δΔ]`, "d"),
	rule(`[εέΕΈ]`, "e"),
	rule(`[ζΖ]`, "z"),
	rule(`[ηήΗΉ]`, "i"),
	rule(`[ιίϊΙΊΪ]`, "i"),
	rule(`[κΚ]`, "k"),
	rule(`[λΛ]`, "l"),
	rule(`[μΜ]`, "m"),
	rule(`[νΝ]`, "n"),
	rule(`[ξΞ]`, "x"),
	rule(`[οόΟΌ]`, "o"),
	rule(`[πΠ]`, "p"),
	rule(`[ρΡ]`, "r"),
	rule(`[σςΣ]`, "s"),
	rule(`[τΤ]`, "t"),
	rule(`[υύϋΥΎΫ]`, "i"),
	rule(`(?i)[φΦ]`, "f"),
	rule(`(?i)[ωώ]`, "o"),
	rule(`(?i)[Α]`, "a"),
}

// Greeklish transliterates Greek script to lowercase Latin letters. Latin
// text, digits and punctuation pass through unchanged.
func Greeklish(text string) string {
	return transliterate(text, false)
}

// transliterate applies greeklishRules in order, replacing every match. With
// legacy set it instead runs legacyGreeklishRules on the raw text and each
// rule replaces only its leftmost match, so repeated letters and digraphs
// later in the text are left to subsequent rules or stay untouched.
func transliterate(text string, legacy bool) string {
	if legacy {
		for _, r := range legacyGreeklishRules {
			text = r.replaceFirst(text)
		}
		return text
	}
	text = norm.NFC.String(text)
	for _, r := range greeklishRules {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return text
}

func (r translitRule) replaceFirst(s string) string {
	loc := r.re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	repl := r.re.ExpandString(nil, r.repl, s, loc)
	return s[:loc[0]] + string(repl) + s[loc[1]:]
}
