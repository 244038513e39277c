package inventory

import "github.com/shopspring/decimal"

// Order is a market order as delivered by the order provider.
type Order struct {
	OrderID    int64           `json:"order_id"`
	TypeID     int64           `json:"type_id"`
	IsBuy      bool            `json:"is_buy_order"`
	Price      decimal.Decimal `json:"price"`
	LocationID int64           `json:"location_id"`
}

// OrderBook gives access to the best prices of a market location.
//
// A false ok means there is no order on that side of the book.
type OrderBook interface {
	MaxBuyPrice(typeID, locationID int64) (price decimal.Decimal, ok bool, err error)
	MinSellPrice(typeID, locationID int64) (price decimal.Decimal, ok bool, err error)
}

type bookKey struct {
	typeID, locationID int64
}

// OrderList is an in-memory OrderBook.
// Orders with an order id already seen are ignored.
type OrderList struct {
	seen map[int64]struct{}
	buy  map[bookKey]decimal.Decimal
	sell map[bookKey]decimal.Decimal
}

// NewOrderList returns an OrderList holding the given orders.
func NewOrderList(orders ...Order) *OrderList {
	l := &OrderList{
		seen: make(map[int64]struct{}),
		buy:  make(map[bookKey]decimal.Decimal),
		sell: make(map[bookKey]decimal.Decimal),
	}
	l.Import(orders...)
	return l
}

// Import adds orders to the list, and returns the number of orders actually added.
func (l *OrderList) Import(orders ...Order) int {
	n := 0
	for _, o := range orders {
		if _, dup := l.seen[o.OrderID]; dup {
			continue
		}
		l.seen[o.OrderID] = struct{}{}
		n++
		k := bookKey{o.TypeID, o.LocationID}
		if o.IsBuy {
			if best, ok := l.buy[k]; !ok || o.Price.GreaterThan(best) {
				l.buy[k] = o.Price
			}
			continue
		}
		if best, ok := l.sell[k]; !ok || o.Price.LessThan(best) {
			l.sell[k] = o.Price
		}
	}
	return n
}

func (l *OrderList) MaxBuyPrice(typeID, locationID int64) (decimal.Decimal, bool, error) {
	p, ok := l.buy[bookKey{typeID, locationID}]
	return p, ok, nil
}

func (l *OrderList) MinSellPrice(typeID, locationID int64) (decimal.Decimal, bool, error) {
	p, ok := l.sell[bookKey{typeID, locationID}]
	return p, ok, nil
}
