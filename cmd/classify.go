package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/wetc/inventory"
	"github.com/wetc/inventory/metrics"
	"github.com/wetc/inventory/renderer"
)

// classifyCmd values an assets dump, without calling ESI.
type classifyCmd struct {
	assets string
	stats  bool
}

func (*classifyCmd) Name() string     { return "classify" }
func (*classifyCmd) Synopsis() string { return "value the inventory of an assets file" }
func (*classifyCmd) Usage() string {
	return `invctl classify -assets <assets.json> [-stats]

  Reads corporation assets from a JSON file, as returned by the ESI
  corporation assets endpoint, and values them with the stored market orders.
`
}

func (c *classifyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.assets, "assets", "assets.json", "JSON file of corporation assets")
	f.BoolVar(&c.stats, "stats", false, "print the classification counters")
}

// ReadAssets decodes a JSON array of assets.
func ReadAssets(path string) ([]inventory.Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []inventory.Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("cannot decode assets %q: %w", path, err)
	}
	return records, nil
}

func (c *classifyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger := newLogger()
	defer logger.Sync()
	m := metrics.New()

	records, err := ReadAssets(c.assets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading assets: %v\n", err)
		return subcommands.ExitUsageError
	}

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

	report, stats, err := valuate(records, setup, types, orders, m, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error valuing inventory: %v\n", err)
		return subcommands.ExitFailure
	}

	md := renderer.ReportMarkdown(report)
	if c.stats {
		md += "\n## Classification\n\n" + renderer.StatsMarkdown(stats)
	}
	printMarkdown(md)
	writeMetrics(m, logger)
	return subcommands.ExitSuccess
}
