package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wetc/inventory"
	"github.com/wetc/inventory/config"
)

// Worksheet names of the configuration spreadsheet.
const (
	LocationsSheet   = "Locations"
	CategoriesSheet  = "TradingGroups"
	TypeIDsSheet     = "TypeIDs"
	GroupIDsSheet    = "GroupIDs"
	CategoryIDsSheet = "CategoryIDs"
	ESISheet         = "ESIConfig"
	MarketsSheet     = "Markets"
)

// ConfigSheets lists the worksheets read by ReadConfig.
var ConfigSheets = []string{
	LocationsSheet, CategoriesSheet, TypeIDsSheet, GroupIDsSheet, CategoryIDsSheet, ESISheet, MarketsSheet,
}

// cell returns the trimmed value of a cell, empty when the row is too short.
// The Sheets API drops trailing empty cells.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func cellInt(sheet string, line int, row []string, i int) (int64, error) {
	v, err := strconv.ParseInt(cell(row, i), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s row %d column %d: %w", sheet, line+1, i+1, err)
	}
	return v, nil
}

// body returns the rows after the header row.
func body(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}

// ParseConfig builds a configuration from worksheet values, keyed by
// worksheet name.
//
// Every worksheet has a header row, except ESIConfig which lists client id,
// secret key, callback url, user agent, refresh token and corporation id in
// its second column.
func ParseConfig(values map[string][][]string) (*config.Config, error) {
	cfg := &config.Config{}

	esi := values[ESISheet]
	if len(esi) < 6 {
		return nil, fmt.Errorf("%s: expected 6 rows, got %d", ESISheet, len(esi))
	}
	cfg.ESI = config.ESIConfig{
		ClientID:     cell(esi[0], 1),
		SecretKey:    cell(esi[1], 1),
		CallbackURL:  cell(esi[2], 1),
		UserAgent:    cell(esi[3], 1),
		RefreshToken: cell(esi[4], 1),
	}
	var err error
	if cfg.ESI.CorporationID, err = cellInt(ESISheet, 5, esi[5], 1); err != nil {
		return nil, err
	}

	for i, row := range body(values[LocationsSheet]) {
		id, err := cellInt(LocationsSheet, i+1, row, 1)
		if err != nil {
			return nil, err
		}
		l := config.Location{Name: cell(row, 0), ID: id}
		// columns 3 to 9 hold the hangar divisions 1 to 7.
		for h := 1; h <= 7; h++ {
			if strings.EqualFold(cell(row, h+1), "TRUE") {
				l.Hangars = append(l.Hangars, h)
			}
		}
		cfg.Locations = append(cfg.Locations, l)
	}

	for i, row := range body(values[CategoriesSheet]) {
		m, err := strconv.ParseFloat(cell(row, 4), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid multiplier: %w", CategoriesSheet, i+2, err)
		}
		cfg.Categories = append(cfg.Categories, config.Category{
			Name:       cell(row, 0),
			Location:   cell(row, 1),
			Market:     cell(row, 2),
			Strategy:   cell(row, 3),
			Multiplier: &m,
		})
	}

	for _, ids := range []struct {
		sheet string
		dst   *map[string][]int64
	}{
		{TypeIDsSheet, &cfg.TypeIDs},
		{GroupIDsSheet, &cfg.GroupIDs},
		{CategoryIDsSheet, &cfg.CategoryIDs},
	} {
		m := make(map[string][]int64)
		for i, row := range body(values[ids.sheet]) {
			id, err := cellInt(ids.sheet, i+1, row, 1)
			if err != nil {
				return nil, err
			}
			m[cell(row, 0)] = append(m[cell(row, 0)], id)
		}
		*ids.dst = m
	}

	for i, row := range body(values[MarketsSheet]) {
		id, err := cellInt(MarketsSheet, i+1, row, 1)
		if err != nil {
			return nil, err
		}
		region, err := cellInt(MarketsSheet, i+1, row, 2)
		if err != nil {
			return nil, err
		}
		cfg.Markets = append(cfg.Markets, config.Market{Name: cell(row, 0), ID: id, RegionID: region, Kind: cell(row, 3)})
	}
	return cfg, nil
}

// ReportValues returns the worksheet content of a category report: the
// header row, then one row per item.
func ReportValues(c inventory.CategoryReport) [][]any {
	header := c.Header()
	values := [][]any{{header[0], header[1], header[2], header[3]}}
	for _, r := range c.Rows {
		values = append(values, []any{r.Name, r.Quantity, r.UnitPrice.Float64(), r.TotalPrice.Float64()})
	}
	return values
}
