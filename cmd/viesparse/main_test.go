package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/vies-address-etl/internal/domain"
	"github.com/couchcryptid/vies-address-etl/internal/vies"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("PARSER_FLAGS", "")
	var out, errw bytes.Buffer
	cmd := newRootCmd(&out, &errw)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errw.String(), err
}

func TestCountriesCommand(t *testing.T) {
	out, _, err := execute(t, "countries")
	require.NoError(t, err)
	assert.Contains(t, out, "SK NL BE FR PT IT FI RO SI AT PL HR EL DK EE CZ")
	assert.Contains(t, out, vies.FlagSKDeleteMC)
	assert.Contains(t, out, vies.FlagELFirstMatchOnly)
}

func TestParseCommand(t *testing.T) {
	out, _, err := execute(t, "parse", "--vat", "SK2020317068",
		"--address", `Mlynské nivy 1\n82109 Bratislava - mestská časť Ružinov`,
		"--flag", vies.FlagSKDeleteMC)
	require.NoError(t, err)

	var addr vies.Address
	require.NoError(t, json.Unmarshal([]byte(out), &addr))
	assert.Equal(t, "Mlynské nivy 1", addr.Street)
	require.NotNil(t, addr.Zip)
	assert.Equal(t, "82109", *addr.Zip)
	assert.Equal(t, "Bratislava - Ružinov", addr.City)
}

func TestParseCommand_FlagsFromEnv(t *testing.T) {
	var out, errw bytes.Buffer
	t.Setenv("PARSER_FLAGS", vies.FlagSKDeleteMC)
	cmd := newRootCmd(&out, &errw)
	cmd.SetArgs([]string{"parse", "--vat", "SK2020317068", "--address", `Hlavná 1\n04001 Košice - m. č. Staré Mesto`})
	require.NoError(t, cmd.Execute())

	var addr vies.Address
	require.NoError(t, json.Unmarshal(out.Bytes(), &addr))
	assert.Equal(t, "Košice - Staré Mesto", addr.City)
}

func TestParseCommand_Unparseable(t *testing.T) {
	_, stderr, err := execute(t, "parse", "--vat", "DE123456789", "--address", "Unter den Linden 1")
	require.ErrorIs(t, err, vies.ErrNotSupported)
	assert.Contains(t, stderr, "country not supported")
}

func TestParseCommand_MissingFlags(t *testing.T) {
	_, _, err := execute(t, "parse", "--vat", "SK2020317068")
	assert.Error(t, err)
}

func TestFileCommand(t *testing.T) {
	lookups := []domain.LookupRecord{
		{CountryCode: "AT", VATNumber: "U12345678", Valid: true, Address: "Stephansplatz 1\n1010 Wien"},
		{CountryCode: "RO", VATNumber: "18547290", Valid: true, Address: "MUN. BUCUREŞTI\nSTR. LUTERANA NR. 11"},
		{CountryCode: "DE", VATNumber: "123456789", Valid: true, Address: "Unter den Linden 1"},
		{CountryCode: "FI", VATNumber: "12345678", Valid: false, Address: "---"},
	}
	var in strings.Builder
	for _, l := range lookups {
		data, err := json.Marshal(l)
		require.NoError(t, err)
		in.Write(data)
		in.WriteString("\n\n")
	}
	path := filepath.Join(t.TempDir(), "lookups.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(in.String()), 0o600))

	out, stderr, err := execute(t, "file", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)

	var results []fileResult
	for _, line := range lines {
		var res fileResult
		require.NoError(t, json.Unmarshal([]byte(line), &res))
		results = append(results, res)
	}

	require.NotNil(t, results[0].Event)
	assert.Equal(t, "ATU12345678", results[0].VATNumber)
	assert.Equal(t, "Wien", results[0].Event.City)

	require.NotNil(t, results[1].Event)
	assert.Nil(t, results[1].Event.Zip)
	assert.Contains(t, lines[1], `"zip":null`)

	assert.Equal(t, "not_supported", results[2].Error)
	assert.Equal(t, "invalid_lookup", results[3].Error)

	assert.Contains(t, stderr, "parsed: 2")
	assert.Contains(t, stderr, "not_supported: 1")
}

func TestFileCommand_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{not json}\n"), 0o600))

	_, _, err := execute(t, "file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestFixturesCommand(t *testing.T) {
	dir := t.TempDir()
	rawOut := filepath.Join(dir, "raw.json")
	parsedOut := filepath.Join(dir, "parsed.json")

	out, _, err := execute(t, "fixtures",
		"--csv", filepath.Join("..", "..", "data", "mock", "vies_lookups.csv"),
		"--raw-out", rawOut,
		"--parsed-out", parsedOut,
		"--flag", vies.FlagSKDeleteMC)
	require.NoError(t, err)
	assert.Contains(t, out, "not_supported: 1")
	assert.Contains(t, out, "malformed_zip: 1")

	var raw []domain.LookupRecord
	data, err := os.ReadFile(rawOut)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 20)
	assert.Equal(t, "Mlynské nivy 1\n82109 Bratislava - mestská časť Ružinov", raw[0].Address)

	var parsed []domain.AddressEvent
	data, err = os.ReadFile(parsedOut)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Len(t, parsed, 18)
	assert.Equal(t, "Bratislava - Ružinov", parsed[0].City)
	assert.True(t, fixtureTime.Equal(parsed[0].ProcessedAt))

	// Regenerating must not change the output.
	before, err := os.ReadFile(parsedOut)
	require.NoError(t, err)
	_, _, err = execute(t, "fixtures", "--csv", filepath.Join("..", "..", "data", "mock", "vies_lookups.csv"),
		"--raw-out", rawOut, "--parsed-out", parsedOut, "--flag", vies.FlagSKDeleteMC)
	require.NoError(t, err)
	after, err := os.ReadFile(parsedOut)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFixturesCommand_MissingFlags(t *testing.T) {
	_, _, err := execute(t, "fixtures", "--csv", "x.csv")
	assert.ErrorIs(t, err, errMissingFlags)
}
