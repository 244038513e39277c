// Package sheets reads the inventory configuration from, and writes the
// valued inventory to, Google spreadsheets.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/wetc/inventory"
	"github.com/wetc/inventory/config"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client wraps the Sheets API.
type Client struct {
	svc    *sheets.Service
	logger *zap.Logger
}

// New returns a Client authenticated with service account credentials.
func New(ctx context.Context, credentialsJSON []byte, logger *zap.Logger) (*Client, error) {
	credentials, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("cannot load Google credentials: %w", err)
	}
	return NewWithOptions(ctx, logger, option.WithHTTPClient(oauth2.NewClient(ctx, credentials.TokenSource)))
}

// NewWithOptions returns a Client built from raw API options.
func NewWithOptions(ctx context.Context, logger *zap.Logger, opts ...option.ClientOption) (*Client, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create Google Sheets client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{svc: svc, logger: logger}, nil
}

// ReadConfig reads the configuration worksheets of a spreadsheet.
func (c *Client) ReadConfig(ctx context.Context, spreadsheetID string) (*config.Config, error) {
	resp, err := c.svc.Spreadsheets.Values.BatchGet(spreadsheetID).
		Ranges(ConfigSheets...).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("cannot read configuration spreadsheet: %w", err)
	}
	if len(resp.ValueRanges) != len(ConfigSheets) {
		return nil, fmt.Errorf("cannot read configuration spreadsheet: got %d ranges, want %d", len(resp.ValueRanges), len(ConfigSheets))
	}
	values := make(map[string][][]string, len(ConfigSheets))
	for i, vr := range resp.ValueRanges {
		rows := make([][]string, len(vr.Values))
		for j, row := range vr.Values {
			rows[j] = make([]string, len(row))
			for k, v := range row {
				rows[j][k] = fmt.Sprint(v)
			}
		}
		values[ConfigSheets[i]] = rows
	}
	cfg, err := ParseConfig(values)
	if err != nil {
		return nil, err
	}
	c.logger.Info("configuration read", zap.String("spreadsheet", spreadsheetID),
		zap.Int("locations", len(cfg.Locations)), zap.Int("categories", len(cfg.Categories)), zap.Int("markets", len(cfg.Markets)))
	return cfg, nil
}

// WriteReport writes each category report into the worksheet named after the
// category. The worksheet is cleared first, or created when missing.
func (c *Client) WriteReport(ctx context.Context, spreadsheetID string, report *inventory.Report) error {
	ss, err := c.svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("cannot read inventory spreadsheet: %w", err)
	}
	existing := make(map[string]bool)
	for _, s := range ss.Sheets {
		existing[s.Properties.Title] = true
	}

	for _, cr := range report.Categories() {
		values := ReportValues(cr)
		if existing[cr.Name] {
			_, err := c.svc.Spreadsheets.Values.Clear(spreadsheetID, sheetRange(cr.Name, ""), &sheets.ClearValuesRequest{}).Context(ctx).Do()
			if err != nil {
				return fmt.Errorf("cannot clear worksheet %q: %w", cr.Name, err)
			}
		} else {
			add := &sheets.BatchUpdateSpreadsheetRequest{Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{
					Title: cr.Name,
					GridProperties: &sheets.GridProperties{
						RowCount:    int64(len(values)),
						ColumnCount: 4,
					},
				}},
			}}}
			if _, err := c.svc.Spreadsheets.BatchUpdate(spreadsheetID, add).Context(ctx).Do(); err != nil {
				return fmt.Errorf("cannot add worksheet %q: %w", cr.Name, err)
			}
			existing[cr.Name] = true
		}
		_, err := c.svc.Spreadsheets.Values.Update(spreadsheetID, sheetRange(cr.Name, "A1"), &sheets.ValueRange{Values: values}).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("cannot write worksheet %q: %w", cr.Name, err)
		}
		c.logger.Debug("worksheet written", zap.String("worksheet", cr.Name), zap.Int("rows", len(cr.Rows)))
	}
	return nil
}

// sheetRange returns the A1 notation of cells in the worksheet title, or of
// the whole worksheet when cells is empty. The title is always quoted so that
// names like "T2" are not read as a cell reference.
func sheetRange(title, cells string) string {
	r := "'" + strings.ReplaceAll(title, "'", "''") + "'"
	if cells != "" {
		r += "!" + cells
	}
	return r
}
