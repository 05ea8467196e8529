// Command viesparse exposes the VIES address parser on the command line.
//
// Usage:
//
//	viesparse countries
//	viesparse parse --vat SK2020317068 --address 'Mlynské nivy 1\n82109 Bratislava'
//	viesparse file lookups.jsonl > parsed.jsonl
//	viesparse fixtures --csv data/mock/vies_lookups.csv \
//	  --raw-out data/mock/vies_lookups.json \
//	  --parsed-out data/mock/parsed_addresses.json
//
// Parser flags come from --flag (repeatable) or PARSER_FLAGS.
package main

import (
	"fmt"
	"io"
	"os"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/couchcryptid/vies-address-etl/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries state shared by all subcommands.
type cli struct {
	out   io.Writer
	errw  io.Writer
	flags []string
}

func newRootCmd(out, errw io.Writer) *cobra.Command {
	c := &cli{out: out, errw: errw}

	rootCmd := &cobra.Command{
		Use:          "viesparse",
		Short:        "Split VIES VAT-registry addresses into street, zip and city",
		SilenceUsage: true,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errw)
	rootCmd.PersistentFlags().StringSliceVar(&c.flags, "flag",
		config.ParseFlags(sharedcfg.EnvOrDefault("PARSER_FLAGS", "")),
		"parser flag to enable (repeatable)")

	rootCmd.AddCommand(
		c.countriesCmd(),
		c.parseCmd(),
		c.fileCmd(),
		c.fixturesCmd(),
	)
	return rootCmd
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
