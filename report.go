package inventory

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Row is the valuation of a merged item.
type Row struct {
	TypeID     int64
	Name       string
	Quantity   int64
	UnitPrice  Money
	TotalPrice Money
}

// CategoryReport holds the valued items of a category.
type CategoryReport struct {
	Location string
	Name     string
	Label    string // multiplier, market and strategy, e.g. "90% Jita Buy"
	Rows     []Row
	Total    Money
}

// Header returns the column titles of the category table.
func (c CategoryReport) Header() []string {
	return []string{"Name", "Quantity", "1x " + c.Label, "All " + c.Label}
}

// LocationReport holds the category reports of a location.
type LocationReport struct {
	Name       string
	Categories []CategoryReport
	Total      Money
}

// Report is the valued inventory, location by location.
type Report struct {
	Locations []LocationReport
	Total     Money
}

// Categories returns all category reports, location after location.
func (r *Report) Categories() []CategoryReport {
	var all []CategoryReport
	for _, l := range r.Locations {
		all = append(all, l.Categories...)
	}
	return all
}

// PriceLabel describes how a category is priced: "<multiplier%> <market> <strategy>".
func PriceLabel(c *Category) string {
	pct := decimal.NewFromFloat(c.Multiplier).Shift(2).IntPart()
	return fmt.Sprintf("%d%% %s %s", pct, c.Market, c.Strategy)
}

// BuildReport values every item accumulated in the locations.
//
// Items are resolved through the catalog to get their names. Rows are sorted
// by name.
func BuildReport(locations []*Location, markets *Markets, book OrderBook, catalog TypeCatalog) (*Report, error) {
	report := &Report{}
	for _, l := range locations {
		lr := LocationReport{Name: l.Name}
		for _, c := range l.Categories {
			cr, err := buildCategoryReport(l, c, markets, book, catalog)
			if err != nil {
				return nil, err
			}
			lr.Categories = append(lr.Categories, cr)
			lr.Total = lr.Total.Add(cr.Total)
		}
		report.Locations = append(report.Locations, lr)
		report.Total = report.Total.Add(lr.Total)
	}
	return report, nil
}

func buildCategoryReport(l *Location, c *Category, markets *Markets, book OrderBook, catalog TypeCatalog) (CategoryReport, error) {
	cr := CategoryReport{Location: l.Name, Name: c.Name, Label: PriceLabel(c)}
	market := markets.Get(c.Market)
	if market == nil {
		return cr, fmt.Errorf("category %q of %q: unknown market %q", c.Name, l.Name, c.Market)
	}
	for _, it := range c.Items() {
		if err := Resolve(it, catalog); err != nil {
			return cr, err
		}
		unit, total, err := Value(book, it, market, c)
		if err != nil {
			return cr, fmt.Errorf("category %q of %q: %w", c.Name, l.Name, err)
		}
		cr.Rows = append(cr.Rows, Row{
			TypeID:     it.TypeID,
			Name:       it.Name(),
			Quantity:   it.Quantity,
			UnitPrice:  unit,
			TotalPrice: total,
		})
		cr.Total = cr.Total.Add(total)
	}
	slices.SortStableFunc(cr.Rows, func(a, b Row) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.TypeID, b.TypeID))
	})
	return cr, nil
}
