package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wetc/inventory"
)

const typesCSV = `typeID,groupID,categoryID,typeName
34,18,4,Tritanium
35,18,4,Pyerite
17366,1,2,"Station Container, Large"
3465,12,2,Large Secure Container, Mk II
`

func openTypes(t *testing.T) *TypeDB {
	t.Helper()
	db, err := OpenTypes(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func openOrders(t *testing.T) *OrderDB {
	t.Helper()
	db, err := OpenOrders(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTypeDBImportCSV(t *testing.T) {
	db := openTypes(t)

	n, err := db.ImportCSV(strings.NewReader(typesCSV))

	require.NoError(t, err)
	assert.Equal(t, 4, n)
	testCases := []struct {
		typeID int64
		want   inventory.TypeInfo
	}{
		{34, inventory.TypeInfo{Name: "Tritanium", GroupID: 18, CategoryID: 4}},
		{35, inventory.TypeInfo{Name: "Pyerite", GroupID: 18, CategoryID: 4}},
		{17366, inventory.TypeInfo{Name: "Station Container, Large", GroupID: 1, CategoryID: 2}},
		{3465, inventory.TypeInfo{Name: "Large Secure Container, Mk II", GroupID: 12, CategoryID: 2}},
	}
	for _, tc := range testCases {
		got, err := db.TypeInfo(tc.typeID)
		if err != nil {
			t.Errorf("TypeInfo(%d) returned error: %v", tc.typeID, err)
			continue
		}
		assert.Equal(t, tc.want, got)
	}
}

func TestTypeDBImportReplaces(t *testing.T) {
	db := openTypes(t)
	_, err := db.ImportCSV(strings.NewReader(typesCSV))
	require.NoError(t, err)

	n, err := db.ImportCSV(strings.NewReader("header\n36,18,4,Mexallon\n"))

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = db.TypeInfo(34)
	assert.ErrorIs(t, err, inventory.ErrUnknownType)
}

func TestTypeDBImportInvalid(t *testing.T) {
	testCases := []string{
		"",
		"header\n34,18\n",
		"header\nx,18,4,Tritanium\n",
	}
	for _, in := range testCases {
		db := openTypes(t)
		if _, err := db.ImportCSV(strings.NewReader(in)); err == nil {
			t.Errorf("ImportCSV(%q) returned no error", in)
		}
	}
}

func TestTypeDBImportInvalidKeepsCatalog(t *testing.T) {
	db := openTypes(t)
	_, err := db.ImportCSV(strings.NewReader(typesCSV))
	require.NoError(t, err)

	_, err = db.ImportCSV(strings.NewReader("header\n36,18,4,Mexallon\nbad\n"))

	require.Error(t, err)
	info, err := db.TypeInfo(34)
	require.NoError(t, err)
	assert.Equal(t, "Tritanium", info.Name)
}

func TestTypeDBUnknownType(t *testing.T) {
	db := openTypes(t)

	_, err := db.TypeInfo(99)

	if !errors.Is(err, inventory.ErrUnknownType) {
		t.Fatalf("TypeInfo(99) error = %v, want ErrUnknownType", err)
	}
}

func TestOrderDB(t *testing.T) {
	ctx := context.Background()
	db := openOrders(t)
	orders := []inventory.Order{
		{OrderID: 1, TypeID: 34, IsBuy: true, Price: decimal.RequireFromString("4.5"), LocationID: 60003760},
		{OrderID: 2, TypeID: 34, IsBuy: true, Price: decimal.RequireFromString("5.01"), LocationID: 60003760},
		{OrderID: 3, TypeID: 34, IsBuy: false, Price: decimal.RequireFromString("6.2"), LocationID: 60003760},
		{OrderID: 4, TypeID: 34, IsBuy: false, Price: decimal.RequireFromString("7"), LocationID: 60003760},
		{OrderID: 5, TypeID: 34, IsBuy: true, Price: decimal.RequireFromString("100"), LocationID: 1},
	}

	imported, skipped, err := db.ImportOrders(ctx, orders)
	require.NoError(t, err)
	assert.Equal(t, 5, imported)
	assert.Zero(t, skipped)

	buy, ok, err := db.MaxBuyPrice(34, 60003760)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, buy.Equal(decimal.RequireFromString("5.01")), "got %v", buy)

	sell, ok, err := db.MinSellPrice(34, 60003760)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, sell.Equal(decimal.RequireFromString("6.2")), "got %v", sell)

	_, ok, err = db.MinSellPrice(34, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = db.MaxBuyPrice(35, 60003760)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrderDBSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	db := openOrders(t)
	first := inventory.Order{OrderID: 1, TypeID: 34, IsBuy: true, Price: decimal.NewFromInt(5), LocationID: 60003760}
	_, _, err := db.ImportOrders(ctx, []inventory.Order{first})
	require.NoError(t, err)

	again := first
	again.Price = decimal.NewFromInt(50)
	imported, skipped, err := db.ImportOrders(ctx, []inventory.Order{
		again,
		{OrderID: 2, TypeID: 34, IsBuy: true, Price: decimal.NewFromInt(4), LocationID: 60003760},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 1, skipped)
	buy, _, err := db.MaxBuyPrice(34, 60003760)
	require.NoError(t, err)
	assert.True(t, buy.Equal(decimal.NewFromInt(5)), "got %v", buy)
}

func TestOrderDBDelete(t *testing.T) {
	ctx := context.Background()
	db := openOrders(t)
	_, _, err := db.ImportOrders(ctx, []inventory.Order{
		{OrderID: 1, TypeID: 34, Price: decimal.NewFromInt(5), LocationID: 1},
	})
	require.NoError(t, err)

	require.NoError(t, db.DeleteOrders(ctx))

	n, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOrderDBIsAnOrderBook(t *testing.T) {
	db := openOrders(t)
	_, _, err := db.ImportOrders(context.Background(), []inventory.Order{
		{OrderID: 1, TypeID: 34, IsBuy: false, Price: decimal.NewFromInt(7), LocationID: 60003760},
	})
	require.NoError(t, err)
	market := &inventory.Market{Name: "Jita", LocationID: 60003760, Kind: inventory.Station}

	got, err := inventory.Price(db, &inventory.Item{TypeID: 34, Quantity: 2}, market, inventory.Sell, 1)

	require.NoError(t, err)
	assert.True(t, got.Decimal().Equal(decimal.NewFromInt(7)), "got %v", got)
}

func TestOrderDBReplaceOrders(t *testing.T) {
	ctx := context.Background()
	db := openOrders(t)
	_, _, err := db.ImportOrders(ctx, []inventory.Order{
		{OrderID: 1, TypeID: 34, IsBuy: true, Price: decimal.NewFromInt(500), LocationID: 60003760},
	})
	require.NoError(t, err)
	batches := []*Batch{
		{Market: "Jita", Orders: []inventory.Order{
			{OrderID: 10, TypeID: 34, IsBuy: true, Price: decimal.NewFromInt(5), LocationID: 60003760},
			{OrderID: 11, TypeID: 34, IsBuy: true, Price: decimal.NewFromInt(4), LocationID: 60003760},
		}},
		// The same order seen twice, from two markets sharing a region.
		{Market: "Perimeter", Orders: []inventory.Order{
			{OrderID: 11, TypeID: 34, IsBuy: true, Price: decimal.NewFromInt(4), LocationID: 60003760},
		}},
	}

	require.NoError(t, db.ReplaceOrders(ctx, batches))

	assert.Equal(t, 2, batches[0].Imported)
	assert.Equal(t, 0, batches[0].Skipped)
	assert.Equal(t, 0, batches[1].Imported)
	assert.Equal(t, 1, batches[1].Skipped)
	n, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	buy, _, err := db.MaxBuyPrice(34, 60003760)
	require.NoError(t, err)
	assert.True(t, buy.Equal(decimal.NewFromInt(5)), "got %v", buy)
}
