package cmd

import (
	"context"
	"fmt"

	"github.com/wetc/inventory"
	"github.com/wetc/inventory/config"
	"github.com/wetc/inventory/metrics"
	"github.com/wetc/inventory/store"
	"go.uber.org/zap"
)

type orderSource interface {
	Orders(ctx context.Context, m *inventory.Market) ([]inventory.Order, error)
}

type assetSource interface {
	CorporationAssets(ctx context.Context, corporationID int64) ([]inventory.Record, error)
}

// downloadOrders downloads the orders of every market, then replaces the
// stored orders with them.
func downloadOrders(ctx context.Context, src orderSource, markets *inventory.Markets, db *store.OrderDB, m *metrics.Collector, logger *zap.Logger) error {
	var batches []*store.Batch
	for _, market := range markets.All() {
		orders, err := src.Orders(ctx, market)
		if err != nil {
			return fmt.Errorf("cannot download orders of market %q: %w", market.Name, err)
		}
		logger.Info("orders downloaded", zap.String("market", market.Name), zap.Int("orders", len(orders)))
		batches = append(batches, &store.Batch{Market: market.Name, Orders: orders})
	}
	if err := db.ReplaceOrders(ctx, batches); err != nil {
		return err
	}
	for _, b := range batches {
		m.ObserveOrders(b.Market, b.Imported, b.Skipped)
	}
	return nil
}

// fetchAssets downloads the corporation assets.
func fetchAssets(ctx context.Context, src assetSource, cfg *config.Config, logger *zap.Logger) ([]inventory.Record, error) {
	if cfg.ESI.CorporationID == 0 {
		return nil, fmt.Errorf("no corporation id configured")
	}
	records, err := src.CorporationAssets(ctx, cfg.ESI.CorporationID)
	if err != nil {
		return nil, fmt.Errorf("cannot download corporation assets: %w", err)
	}
	logger.Info("assets downloaded", zap.Int64("corporation", cfg.ESI.CorporationID), zap.Int("records", len(records)))
	return records, nil
}

// valuate classifies the records into the configured locations, then values
// every category.
func valuate(records []inventory.Record, setup *config.Setup, catalog inventory.TypeCatalog, book inventory.OrderBook, m *metrics.Collector, logger *zap.Logger) (*inventory.Report, inventory.Stats, error) {
	stats, err := inventory.NewClassifier(catalog, logger).Classify(records, setup.Locations)
	if err != nil {
		return nil, stats, err
	}
	m.ObserveClassification(stats)
	report, err := inventory.BuildReport(setup.Locations, setup.Markets, book, catalog)
	if err != nil {
		return nil, stats, err
	}
	m.ObserveReport(report)
	logger.Info("inventory valued", zap.Stringer("total", report.Total))
	return report, stats, nil
}
