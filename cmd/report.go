package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/wetc/inventory/metrics"
	"github.com/wetc/inventory/renderer"
)

// reportCmd runs the whole pipeline: orders, assets, classification and valuation.
type reportCmd struct {
	fetch bool
	sheet string
	quiet bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "value the corporation inventory" }
func (*reportCmd) Usage() string {
	return `invctl report [-fetch] [-sheet <spreadsheet_id>] [-q]

  Downloads the corporation assets, sorts them into the configured locations
  and categories, and values them with the stored market orders.

  The report is printed as markdown, and written into a Google spreadsheet,
  one worksheet per category, when -sheet is set.

Usage Examples:
# Refresh the market orders, then publish the inventory.
$ invctl report -fetch -sheet 1mWc7g905RxTmBfEnzvtwNUjQXkeDsqzD8J79WsOEex4 -q
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.fetch, "fetch", false, "download the market orders before valuing the inventory")
	f.StringVar(&c.sheet, "sheet", "", "ID of the Google spreadsheet to write the inventory to")
	f.BoolVar(&c.quiet, "q", false, "do not print the report")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger := newLogger()
	defer logger.Sync()
	m := metrics.New()

	cfg, err := LoadConfig(ctx, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	setup, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	types, err := OpenTypes(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening type catalog: %v\n", err)
		return subcommands.ExitFailure
	}
	defer types.Close()
	orders, err := OpenOrders(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening orders database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer orders.Close()

	client := newESI(ctx, cfg, logger)
	if c.fetch {
		if err := downloadOrders(ctx, client, setup.Markets, orders, m, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching orders: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	records, err := fetchAssets(ctx, client, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	report, _, err := valuate(records, setup, types, orders, m, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error valuing inventory: %v\n", err)
		return subcommands.ExitFailure
	}

	if !c.quiet {
		printMarkdown(renderer.ReportMarkdown(report))
	}

	if c.sheet != "" {
		client, err := newSheets(ctx, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := client.WriteReport(ctx, c.sheet, report); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing spreadsheet: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	writeMetrics(m, logger)
	return subcommands.ExitSuccess
}
