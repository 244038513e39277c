package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wetc/inventory"
	"go.uber.org/zap"
)

const ordersSchema = `
CREATE TABLE IF NOT EXISTS ORDERS (
	ORDER_ID INTEGER NOT NULL PRIMARY KEY,
	TYPE_ID INTEGER NOT NULL,
	IS_BUY INTEGER NOT NULL,
	PRICE REAL NOT NULL,
	LOCATION_ID INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS ORDERS_BY_TYPE ON ORDERS (TYPE_ID, LOCATION_ID, IS_BUY)`

// OrderDB is the market order database.
type OrderDB struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenOrders opens (or creates) the order database at path.
func OpenOrders(path string, logger *zap.Logger) (*OrderDB, error) {
	db, err := open(path, ordersSchema)
	if err != nil {
		return nil, err
	}
	return &OrderDB{db: db, logger: nop(logger)}, nil
}

func (o *OrderDB) Close() error { return o.db.Close() }

// DeleteOrders removes every stored order.
func (o *OrderDB) DeleteOrders(ctx context.Context) error {
	if _, err := o.db.ExecContext(ctx, `DELETE FROM ORDERS`); err != nil {
		return fmt.Errorf("cannot delete orders: %w", err)
	}
	return nil
}

// ImportOrders stores orders in a single transaction.
//
// Orders whose id is already stored are skipped and counted in skipped.
func (o *OrderDB) ImportOrders(ctx context.Context, orders []inventory.Order) (imported, skipped int, err error) {
	b := &Batch{Orders: orders}
	err = o.inTx(ctx, func(tx *sql.Tx) error { return insertOrders(ctx, tx, b) })
	if err != nil {
		return 0, 0, err
	}
	return b.Imported, b.Skipped, nil
}

// Batch is the set of orders downloaded for one market.
type Batch struct {
	Market string
	Orders []inventory.Order

	// Set by ReplaceOrders.
	Imported, Skipped int
}

// ReplaceOrders deletes every stored order then imports the batches, in a
// single transaction. On error the stored orders are left untouched.
func (o *OrderDB) ReplaceOrders(ctx context.Context, batches []*Batch) error {
	return o.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM ORDERS`); err != nil {
			return fmt.Errorf("cannot delete orders: %w", err)
		}
		for _, b := range batches {
			if err := insertOrders(ctx, tx, b); err != nil {
				return fmt.Errorf("market %q: %w", b.Market, err)
			}
			o.logger.Debug("orders stored", zap.String("market", b.Market), zap.Int("imported", b.Imported), zap.Int("skipped", b.Skipped))
		}
		return nil
	})
}

func (o *OrderDB) inTx(ctx context.Context, f func(*sql.Tx) error) error {
	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := f(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// insertOrders inserts the orders of b, skipping the duplicated order ids.
func insertOrders(ctx context.Context, tx *sql.Tx, b *Batch) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO ORDERS VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	b.Imported, b.Skipped = 0, 0
	for _, order := range b.Orders {
		price, _ := order.Price.Float64()
		_, err := stmt.ExecContext(ctx, order.OrderID, order.TypeID, order.IsBuy, price, order.LocationID)
		switch {
		case err == nil:
			b.Imported++
		case isConstraintViolation(err):
			b.Skipped++
		default:
			return fmt.Errorf("cannot store order %d: %w", order.OrderID, err)
		}
	}
	return nil
}

// MaxBuyPrice implements inventory.OrderBook.
func (o *OrderDB) MaxBuyPrice(typeID, locationID int64) (decimal.Decimal, bool, error) {
	return o.best(`SELECT MAX(PRICE) FROM ORDERS WHERE TYPE_ID = ? AND LOCATION_ID = ? AND IS_BUY = 1`, typeID, locationID)
}

// MinSellPrice implements inventory.OrderBook.
func (o *OrderDB) MinSellPrice(typeID, locationID int64) (decimal.Decimal, bool, error) {
	return o.best(`SELECT MIN(PRICE) FROM ORDERS WHERE TYPE_ID = ? AND LOCATION_ID = ? AND IS_BUY = 0`, typeID, locationID)
}

func (o *OrderDB) best(query string, typeID, locationID int64) (decimal.Decimal, bool, error) {
	var price sql.NullFloat64
	if err := o.db.QueryRow(query, typeID, locationID).Scan(&price); err != nil {
		return decimal.Zero, false, fmt.Errorf("cannot query price of type %d at %d: %w", typeID, locationID, err)
	}
	if !price.Valid {
		return decimal.Zero, false, nil
	}
	return decimal.NewFromFloat(price.Float64), true, nil
}

// Count returns the number of stored orders.
func (o *OrderDB) Count(ctx context.Context) (int, error) {
	var n int
	err := o.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ORDERS`).Scan(&n)
	return n, err
}
