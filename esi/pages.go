package esi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/wetc/inventory"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// all reads every page of a paginated endpoint.
//
// The first page tells how many pages there are, the remaining ones are
// fetched concurrently. Pages are concatenated in order.
func all[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	body, n, err := c.get(ctx, path, query, 1)
	if err != nil {
		return nil, err
	}
	pages := make([][]T, max(n, 1))
	if err := json.Unmarshal(body, &pages[0]); err != nil {
		return nil, fmt.Errorf("cannot decode %s page 1: %w", path, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Concurrency, 1))
	for page := 2; page <= n; page++ {
		g.Go(func() error {
			body, _, err := c.get(gctx, path, query, page)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(body, &pages[page-1]); err != nil {
				return fmt.Errorf("cannot decode %s page %d: %w", path, page, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var res []T
	for _, p := range pages {
		res = append(res, p...)
	}
	c.logger.Debug("esi pages read", zap.String("path", path), zap.Int("pages", n), zap.Int("entries", len(res)))
	return res, nil
}

// CorporationAssets returns every asset of a corporation.
func (c *Client) CorporationAssets(ctx context.Context, corporationID int64) ([]inventory.Record, error) {
	return all[inventory.Record](ctx, c, fmt.Sprintf("/corporations/%d/assets/", corporationID), nil)
}

// RegionOrders returns the orders of a region located at stationID.
func (c *Client) RegionOrders(ctx context.Context, regionID, stationID int64) ([]inventory.Order, error) {
	orders, err := all[inventory.Order](ctx, c, fmt.Sprintf("/markets/%d/orders/", regionID), url.Values{"order_type": {"all"}})
	if err != nil {
		return nil, err
	}
	kept := orders[:0]
	for _, o := range orders {
		if o.LocationID == stationID {
			kept = append(kept, o)
		}
	}
	return kept, nil
}

// StructureOrders returns every order of a player owned structure.
func (c *Client) StructureOrders(ctx context.Context, structureID int64) ([]inventory.Order, error) {
	return all[inventory.Order](ctx, c, fmt.Sprintf("/markets/structures/%d/", structureID), nil)
}

// Orders returns the orders of a market, whatever its kind.
func (c *Client) Orders(ctx context.Context, m *inventory.Market) ([]inventory.Order, error) {
	switch m.Kind {
	case inventory.Station:
		return c.RegionOrders(ctx, m.RegionID, m.LocationID)
	case inventory.Structure:
		return c.StructureOrders(ctx, m.LocationID)
	default:
		return nil, fmt.Errorf("market %q: invalid market kind %v", m.Name, m.Kind)
	}
}
