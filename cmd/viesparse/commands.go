package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/couchcryptid/vies-address-etl/internal/domain"
	"github.com/couchcryptid/vies-address-etl/internal/pipeline"
	"github.com/couchcryptid/vies-address-etl/internal/vies"
	"github.com/spf13/cobra"
)

// maxLineSize bounds one JSONL record in the file command.
const maxLineSize = 1 << 20

func (c *cli) countriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List supported countries and recognized parser flags",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c.printf("Countries: %s\n", strings.Join(vies.SupportedCountries(), " "))
			c.printf("Flags:\n")
			flags := vies.RecognizedFlags()
			for _, name := range slices.Sorted(maps.Keys(flags)) {
				c.printf("  %-20s %s\n", name, flags[name])
			}
			return nil
		},
	}
}

func (c *cli) parseCmd() *cobra.Command {
	var vat, address string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: `Parse one address; a literal \n in --address is a line break`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			addr, err := vies.Parse(vat, strings.ReplaceAll(address, `\n`, "\n"), c.flags...)
			if err != nil {
				return err
			}
			return writeIndented(c.out, addr)
		},
	}
	cmd.Flags().StringVar(&vat, "vat", "", "VAT number with country prefix, e.g. SK2020317068")
	cmd.Flags().StringVar(&address, "address", "", "address as returned by VIES")
	_ = cmd.MarkFlagRequired("vat")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}

// fileResult is one output line of the file command.
type fileResult struct {
	VATNumber string               `json:"vat_number"`
	Event     *domain.AddressEvent `json:"event,omitempty"`
	Error     string               `json:"error,omitempty"`
}

func (c *cli) fileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "file <lookups.jsonl | ->",
		Short: "Parse a JSON-lines file of VIES lookups and print one result per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			in, closeIn, err := openInput(args[0])
			if err != nil {
				return err
			}
			defer closeIn()
			return c.parseLines(in)
		},
	}
}

func (c *cli) parseLines(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	enc := json.NewEncoder(c.out)

	outcomes := map[string]int{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		rec, err := domain.ParseRawEvent(domain.RawEvent{Value: []byte(line)})
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		res := fileResult{VATNumber: rec.FullVATNumber()}
		event, err := domain.BuildAddressEvent(rec, c.flags)
		outcome := pipeline.Outcome(err)
		outcomes[outcome]++
		if err != nil {
			res.Error = outcome
		} else {
			res.Event = &event
		}
		if err := enc.Encode(res); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	for _, outcome := range slices.Sorted(maps.Keys(outcomes)) {
		fmt.Fprintf(c.errw, "%s: %d\n", outcome, outcomes[outcome])
	}
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func writeIndented(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

var errMissingFlags = errors.New("missing required flags: --csv, --raw-out, --parsed-out")
