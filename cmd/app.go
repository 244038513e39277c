// Package cmd implements the CLI application to value a corporation inventory.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/wetc/inventory/config"
	"github.com/wetc/inventory/esi"
	"github.com/wetc/inventory/metrics"
	"github.com/wetc/inventory/sheets"
	"github.com/wetc/inventory/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// commands lists the subcommands with their group.
var commands = []struct {
	cmd   subcommands.Command
	group string
}{
	{&importTypesCmd{}, "database"},
	{&fetchOrdersCmd{}, "database"},
	{&reportCmd{}, "inventory"},
	{&classifyCmd{}, "inventory"},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, e := range commands {
		c.Register(e.cmd, e.group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "invctl.yaml", "Path to the YAML configuration file")
var configSheet = flag.String("config-sheet", "", "ID of a Google spreadsheet holding the configuration, instead of -config")
var credentialsFile = flag.String("google-credentials", "google-credentials.json", "Path to the Google service account credentials")
var typesDB = flag.String("types-db", "type_info.db", "Path to the type catalog database")
var ordersDB = flag.String("orders-db", "prices.db", "Path to the market orders database")
var verbose = flag.Bool("verbose", false, "Log debug messages")
var metricsFile = flag.String("metrics-file", "", "Write Prometheus metrics to this textfile when set")

// newLogger returns the application logger, writing to stderr.
func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if *verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

// newSheets returns a Google Sheets client from the credentials file.
func newSheets(ctx context.Context, logger *zap.Logger) (*sheets.Client, error) {
	b, err := os.ReadFile(*credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("cannot read Google credentials: %w", err)
	}
	return sheets.New(ctx, b, logger)
}

// LoadConfig reads the configuration from the spreadsheet when -config-sheet
// is set, from the YAML file otherwise.
func LoadConfig(ctx context.Context, logger *zap.Logger) (*config.Config, error) {
	if *configSheet == "" {
		return config.Load(*configFile)
	}
	client, err := newSheets(ctx, logger)
	if err != nil {
		return nil, err
	}
	return client.ReadConfig(ctx, *configSheet)
}

// newESI returns an ESI client for the configured credentials.
func newESI(ctx context.Context, cfg *config.Config, logger *zap.Logger) *esi.Client {
	return esi.New(ctx, esi.Config{
		ClientID:     cfg.ESI.ClientID,
		SecretKey:    cfg.ESI.SecretKey,
		CallbackURL:  cfg.ESI.CallbackURL,
		UserAgent:    cfg.ESI.UserAgent,
		RefreshToken: cfg.ESI.RefreshToken,
	}, logger)
}

// OpenTypes opens the type catalog database.
func OpenTypes(logger *zap.Logger) (*store.TypeDB, error) {
	return store.OpenTypes(*typesDB, logger)
}

// OpenOrders opens the market orders database.
func OpenOrders(logger *zap.Logger) (*store.OrderDB, error) {
	return store.OpenOrders(*ordersDB, logger)
}

// writeMetrics writes the metrics textfile when -metrics-file is set.
func writeMetrics(m *metrics.Collector, logger *zap.Logger) {
	if *metricsFile == "" {
		return
	}
	m.Done()
	if err := m.Write(*metricsFile); err != nil {
		logger.Warn("cannot write metrics", zap.String("file", *metricsFile), zap.Error(err))
	}
}

// printMarkdown renders markdown for the terminal.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
