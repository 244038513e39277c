package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/wetc/inventory/metrics"
)

type fetchOrdersCmd struct{}

func (*fetchOrdersCmd) Name() string     { return "fetch-orders" }
func (*fetchOrdersCmd) Synopsis() string { return "download the orders of every configured market" }
func (*fetchOrdersCmd) Usage() string {
	return `invctl fetch-orders

  Downloads the market orders of every configured market from ESI and
  replaces the content of the orders database with them.
`
}

func (*fetchOrdersCmd) SetFlags(f *flag.FlagSet) {}

func (*fetchOrdersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	db, err := OpenOrders(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening orders database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	if err := downloadOrders(ctx, newESI(ctx, cfg, logger), setup.Markets, db, m, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching orders: %v\n", err)
		return subcommands.ExitFailure
	}
	writeMetrics(m, logger)
	return subcommands.ExitSuccess
}
