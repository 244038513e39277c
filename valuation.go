package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Price returns the unit price of an item on a market, scaled by multiplier.
//
// A side of the book without orders counts as zero. With Split, a one sided
// book yields the price of the existing side.
func Price(book OrderBook, it *Item, market *Market, strategy Strategy, multiplier float64) (Money, error) {
	var base decimal.Decimal
	switch strategy {
	case Buy:
		buy, err := maxBuy(book, it.TypeID, market.LocationID)
		if err != nil {
			return Money{}, err
		}
		base = buy
	case Sell:
		sell, err := minSell(book, it.TypeID, market.LocationID)
		if err != nil {
			return Money{}, err
		}
		base = sell
	case Split:
		buy, err := maxBuy(book, it.TypeID, market.LocationID)
		if err != nil {
			return Money{}, err
		}
		sell, err := minSell(book, it.TypeID, market.LocationID)
		if err != nil {
			return Money{}, err
		}
		if buy.IsZero() {
			buy = sell
		}
		if sell.IsZero() {
			sell = buy
		}
		base = buy.Add(sell).Div(two)
	default:
		return Money{}, fmt.Errorf("invalid price strategy: %v", strategy)
	}
	return M(base.Mul(decimal.NewFromFloat(multiplier))), nil
}

// Value returns the unit and extended prices of an item priced by its category.
func Value(book OrderBook, it *Item, market *Market, c *Category) (unit, total Money, err error) {
	unit, err = Price(book, it, market, c.Strategy, c.Multiplier)
	if err != nil {
		return Money{}, Money{}, err
	}
	return unit, unit.MulQuantity(it.Quantity), nil
}

func maxBuy(book OrderBook, typeID, locationID int64) (decimal.Decimal, error) {
	p, ok, err := book.MaxBuyPrice(typeID, locationID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot read buy price of type %d at %d: %w", typeID, locationID, err)
	}
	if !ok {
		return decimal.Zero, nil
	}
	return p, nil
}

func minSell(book OrderBook, typeID, locationID int64) (decimal.Decimal, error) {
	p, ok, err := book.MinSellPrice(typeID, locationID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot read sell price of type %d at %d: %w", typeID, locationID, err)
	}
	if !ok {
		return decimal.Zero, nil
	}
	return p, nil
}
