package inventory

import "fmt"

// Market identifies a place where orders are used to price items.
type Market struct {
	Name       string
	LocationID int64 // station or structure id
	RegionID   int64
	Kind       MarketKind
}

// Markets holds the configured markets, indexed by name.
type Markets struct {
	markets []*Market
	index   map[string]*Market
}

// NewMarkets returns a new empty market collection.
func NewMarkets() *Markets {
	return &Markets{
		markets: make([]*Market, 0),
		index:   make(map[string]*Market),
	}
}

// Add appends a market. A market with the same name is an error.
func (m *Markets) Add(market Market) error {
	if m.Has(market.Name) {
		return fmt.Errorf("market %q is already defined", market.Name)
	}
	mk := &market
	m.markets = append(m.markets, mk)
	m.index[mk.Name] = mk
	return nil
}

func (m *Markets) Has(name string) bool {
	_, ok := m.index[name]
	return ok
}

func (m *Markets) Get(name string) *Market { return m.index[name] }

// All returns the markets in insertion order.
func (m *Markets) All() []*Market { return m.markets }
