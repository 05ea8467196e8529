package vies

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// input is the classified form of one Parse call, shared by all strategies.
type input struct {
	country string
	address string
	lines   []string
	flags   flagSet
}

func (in input) lineBreaks() int {
	return len(in.lines) - 1
}

// strategy is one hand-tuned layout: the countries and line-break count it
// applies to, an optional extra predicate, and the extraction itself.
type strategy struct {
	countries  []string
	lineBreaks int
	predicate  func(address string) bool
	extract    func(in input) (Address, error)
}

func (s strategy) matches(in input) bool {
	if in.lineBreaks() != s.lineBreaks || !slices.Contains(s.countries, in.country) {
		return false
	}
	return s.predicate == nil || s.predicate(in.address)
}

// strategies is evaluated in order; the first match wins.
var strategies = []strategy{
	{countries: []string{"NL", "BE", "FR", "FI", "AT", "PL", "DK"}, lineBreaks: 1, extract: streetThenZipCity},
	{countries: []string{"SI", "HR"}, lineBreaks: 0, extract: commaSeparated},
	{countries: []string{"EL"}, lineBreaks: 0, extract: greek},
	{countries: []string{"RO"}, lineBreaks: 1, extract: romanianTwoLines},
	{countries: []string{"RO"}, lineBreaks: 2, extract: romanianThreeLines},
	{countries: []string{"IT"}, lineBreaks: 1, extract: streetThenZipCity},
	{countries: []string{"PT"}, lineBreaks: 2, extract: portuguese},
	{countries: []string{"FR"}, lineBreaks: 2, extract: frenchThreeLines},
	{countries: []string{"SK"}, lineBreaks: 2, extract: slovakThreeLines},
	{countries: []string{"SK"}, lineBreaks: 1, extract: slovakTwoLines},
	{countries: []string{"EE"}, lineBreaks: 0, predicate: hasDoubleSpace, extract: estonian},
	{countries: []string{"CZ"}, lineBreaks: 1, extract: czechTwoLines},
	{countries: []string{"CZ"}, lineBreaks: 2, extract: czechThreeLines},
}

// multiSpaceRe separates Estonian address parts. Some records use three or
// more spaces, which collapse into a single separator.
var multiSpaceRe = regexp.MustCompile(` {2,}`)

func hasDoubleSpace(address string) bool {
	return strings.Contains(address, "  ")
}

func newAddress(in input, street, zip, city string) Address {
	z := strings.TrimSpace(zip)
	return Address{
		Address:     in.address,
		Street:      strings.TrimSpace(street),
		Zip:         &z,
		City:        strings.TrimSpace(city),
		CountryCode: strings.TrimSpace(in.country),
	}
}

// splitZipCity splits a "<zip> <city>" line on its first space. A line
// without a space is all zip.
func splitZipCity(line string) (zip, city string) {
	zip, city, _ = strings.Cut(strings.TrimSpace(line), " ")
	return zip, city
}

// joinParts joins trimmed address parts with ", ".
func joinParts(parts ...string) string {
	trimmed := make([]string, len(parts))
	for i, p := range parts {
		trimmed[i] = strings.TrimSpace(p)
	}
	return strings.Join(trimmed, ", ")
}

func streetThenZipCity(in input) (Address, error) {
	zip, city := splitZipCity(in.lines[1])
	return newAddress(in, in.lines[0], zip, city), nil
}

func commaSeparated(in input) (Address, error) {
	parts := strings.Split(in.address, ",")
	street := parts[0]
	// The middle part is usually the settlement; keep it rather than guess.
	if len(parts) == 3 {
		street = joinParts(parts[0], parts[1])
	}
	zip, city := splitZipCity(parts[len(parts)-1])
	return newAddress(in, street, zip, city), nil
}

func greek(in input) (Address, error) {
	text := transliterate(in.address, in.flags.has(FlagELFirstMatchOnly))

	before, city, found := strings.Cut(text, " - ")
	if !found {
		return Address{}, fmt.Errorf("%w: EL address without \" - \" city separator", ErrUnrecognizedFormat)
	}

	street, zip, found := strings.Cut(before, " ")
	if !found {
		street, zip = "", before
	}

	in.address = text
	return newAddress(in, street, zip, city), nil
}

func romanianTwoLines(in input) (Address, error) {
	return Address{
		Address:     in.address,
		Street:      strings.TrimSpace(in.lines[1]),
		City:        strings.TrimSpace(in.lines[0]),
		CountryCode: in.country,
	}, nil
}

// romanianThreeLines puts the apartment line in front of the street.
func romanianThreeLines(in input) (Address, error) {
	return Address{
		Address:     in.address,
		Street:      joinParts(in.lines[2], in.lines[1]),
		City:        strings.TrimSpace(in.lines[0]),
		CountryCode: in.country,
	}, nil
}

func portuguese(in input) (Address, error) {
	zip, _ := splitZipCity(in.lines[2])
	return newAddress(in, in.lines[0], zip, in.lines[1]), nil
}

// frenchThreeLines keeps the leading place name as part of the street; it is
// what a courier expects on the street line.
func frenchThreeLines(in input) (Address, error) {
	zip, city := splitZipCity(in.lines[2])
	return newAddress(in, joinParts(in.lines[0], in.lines[1]), zip, city), nil
}

func slovakThreeLines(in input) (Address, error) {
	zip, city := splitZipCity(in.lines[1])
	return newAddress(in, in.lines[0], zip, slovakCity(city, in.flags)), nil
}

func slovakTwoLines(in input) (Address, error) {
	// "<zip> <city>\nSlovensko" carries no street at all.
	if in.lines[1] == "Slovensko" {
		zip, city := splitZipCity(in.lines[0])
		return newAddress(in, "", zip, slovakCity(city, in.flags)), nil
	}
	zip, city := splitZipCity(in.lines[1])
	return newAddress(in, in.lines[0], zip, slovakCity(city, in.flags)), nil
}

func slovakCity(city string, flags flagSet) string {
	if !flags.has(FlagSKDeleteMC) {
		return city
	}
	city = strings.Replace(city, "mestská časť ", "", 1)
	return strings.Replace(city, "m. č. ", "", 1)
}

func estonian(in input) (Address, error) {
	parts := multiSpaceRe.Split(in.address, -1)
	zip, city := splitZipCity(parts[1])
	return newAddress(in, parts[0], zip, city), nil
}

func czechTwoLines(in input) (Address, error) {
	zip, city, err := czechZipCity(in.lines[1])
	if err != nil {
		return Address{}, err
	}
	return newAddress(in, in.lines[0], zip, city), nil
}

func czechThreeLines(in input) (Address, error) {
	zip, city, err := czechZipCity(in.lines[2])
	if err != nil {
		return Address{}, err
	}
	return newAddress(in, joinParts(in.lines[0], in.lines[1]), zip, city), nil
}

// czechZipCity splits "123 45 City" at the second space, which ends the zip.
func czechZipCity(line string) (zip, city string, err error) {
	line = strings.TrimSpace(line)
	first := strings.Index(line, " ")
	if first < 0 {
		return "", "", fmt.Errorf("%w: no space in %q", ErrMalformedZip, line)
	}
	second := strings.Index(line[first+1:], " ")
	if second < 0 {
		return "", "", fmt.Errorf("%w: no second space in %q", ErrMalformedZip, line)
	}
	pos := first + 1 + second
	return line[:pos], line[pos:], nil
}
