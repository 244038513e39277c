package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
)

// catalog used across tests.
var testCatalog = CatalogMap{
	34:    {Name: "Tritanium", GroupID: 18, CategoryID: 4},
	35:    {Name: "Pyerite", GroupID: 18, CategoryID: 4},
	100:   {Name: "Widget", GroupID: 500, CategoryID: 7},
	101:   {Name: "Gadget", GroupID: 500, CategoryID: 7},
	200:   {Name: "Hammer", GroupID: 600, CategoryID: 7},
	3465:  {Name: "Large Secure Container", GroupID: 340, CategoryID: 2},
	17366: {Name: "Station Container", GroupID: 448, CategoryID: 2},
	27:    {Name: "Office", GroupID: 16, CategoryID: 2},
}

// countingCatalog records how many lookups were made.
type countingCatalog struct {
	TypeCatalog
	calls int
}

func (c *countingCatalog) TypeInfo(typeID int64) (TypeInfo, error) {
	c.calls++
	return c.TypeCatalog.TypeInfo(typeID)
}

// D is a helper for test to create a decimal from a const.
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// ISKf is a helper for test to create money from a const.
func ISKf(v float64) Money { return M(v) }

func assertMoney(t *testing.T, want float64, got Money) {
	t.Helper()
	if !got.Equal(ISKf(want)) {
		t.Errorf("got %v, want %v", got.Decimal(), want)
	}
}
