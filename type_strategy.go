package inventory

import "fmt"

// Strategy defines how the unit price of an item is derived from the order book.
type Strategy int

const (
	_ Strategy = iota
	// Buy uses the highest buy order.
	Buy
	// Sell uses the lowest sell order.
	Sell
	// Split uses the average of the highest buy and the lowest sell orders.
	Split
)

func (s Strategy) String() string {
	switch s {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	case Split:
		return "Split"
	default:
		return "unknown"
	}
}

// ParseStrategy parses a string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "Buy":
		return Buy, nil
	case "Sell":
		return Sell, nil
	case "Split":
		return Split, nil
	default:
		return 0, fmt.Errorf("invalid price strategy: %q", s)
	}
}

// MarketKind tells where a market's orders are published.
type MarketKind int

const (
	_ MarketKind = iota
	// Station markets are read from the region order book, filtered on the station.
	Station
	// Structure markets are read from the structure order book.
	Structure
)

func (k MarketKind) String() string {
	switch k {
	case Station:
		return "Station"
	case Structure:
		return "Structure"
	default:
		return "unknown"
	}
}

// ParseMarketKind parses a string into a MarketKind.
func ParseMarketKind(s string) (MarketKind, error) {
	switch s {
	case "Station":
		return Station, nil
	case "Structure":
		return Structure, nil
	default:
		return 0, fmt.Errorf("invalid market kind: %q", s)
	}
}
