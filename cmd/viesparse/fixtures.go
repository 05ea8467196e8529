package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/vies-address-etl/internal/domain"
	"github.com/couchcryptid/vies-address-etl/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

// fixtureTime stamps ProcessedAt so regenerated fixtures are byte-identical.
var fixtureTime = time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)

func (c *cli) fixturesCmd() *cobra.Command {
	var csvPath, rawOut, parsedOut string

	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Generate raw and parsed JSON fixtures from a CSV of VIES lookups",
		Long: `Reads a CSV with the header country_code,vat_number,name,address
(multi-line addresses are quoted) and writes two fixtures: the raw lookups as
the collector publishes them, and the address events the pipeline derives.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if csvPath == "" || rawOut == "" || parsedOut == "" {
				return errMissingFlags
			}
			return c.generateFixtures(csvPath, rawOut, parsedOut)
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV of VIES lookups")
	cmd.Flags().StringVar(&rawOut, "raw-out", "", "output path for raw lookup JSON fixture")
	cmd.Flags().StringVar(&parsedOut, "parsed-out", "", "output path for parsed address JSON fixture")
	return cmd
}

func (c *cli) generateFixtures(csvPath, rawOut, parsedOut string) error {
	records, err := readLookupCSV(csvPath)
	if err != nil {
		return fmt.Errorf("processing %s: %w", csvPath, err)
	}

	domain.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	defer domain.SetClock(nil)

	stats := fixtureStats{countries: map[string]int{}, outcomes: map[string]int{}}
	parsed := make([]domain.AddressEvent, 0, len(records))
	for _, rec := range records {
		event, err := domain.BuildAddressEvent(rec, c.flags)
		stats.add(pipeline.CountryLabel(rec.FullVATNumber()), pipeline.Outcome(err))
		if err != nil {
			continue
		}
		parsed = append(parsed, event)
	}

	if err := writeJSONFile(rawOut, records); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	c.printf("wrote raw fixture: %s (%d lookups)\n", rawOut, len(records))

	if err := writeJSONFile(parsedOut, parsed); err != nil {
		return fmt.Errorf("writing parsed fixture: %w", err)
	}
	c.printf("wrote parsed fixture: %s (%d events)\n", parsedOut, len(parsed))

	stats.print(c)
	return nil
}

func readLookupCSV(path string) ([]domain.LookupRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		colIdx[strings.TrimSpace(h)] = i
	}
	for _, col := range []string{"country_code", "vat_number", "address"} {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	records := make([]domain.LookupRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, domain.LookupRecord{
			CountryCode: get(row, colIdx, "country_code"),
			VATNumber:   get(row, colIdx, "vat_number"),
			Name:        get(row, colIdx, "name"),
			Address:     get(row, colIdx, "address"),
			RequestDate: fixtureTime.Format("2006-01-02"),
			Valid:       true,
		})
	}
	return records, nil
}

// get returns the column value; the address keeps its inner line breaks.
func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// fixtureStats holds counts printed for updating test assertions.
type fixtureStats struct {
	countries map[string]int
	outcomes  map[string]int
}

func (s fixtureStats) add(country, outcome string) {
	s.countries[country]++
	s.outcomes[outcome]++
}

func (s fixtureStats) print(c *cli) {
	c.printf("\n=== Stats for updating test assertions ===\n")
	for _, cc := range slices.Sorted(maps.Keys(s.countries)) {
		c.printf("%s=%d ", cc, s.countries[cc])
	}
	c.printf("\n")
	for _, o := range slices.Sorted(maps.Keys(s.outcomes)) {
		c.printf("%s: %d\n", o, s.outcomes[o])
	}
}
