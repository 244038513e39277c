package renderer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wetc/inventory"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

func sampleReport() *inventory.Report {
	minerals := inventory.CategoryReport{
		Location: "Jita Office",
		Name:     "Minerals",
		Label:    "90% Jita Buy",
		Rows: []inventory.Row{
			{TypeID: 35, Name: "Pyerite", Quantity: 10, UnitPrice: inventory.M(9.0), TotalPrice: inventory.M(90.0)},
			{TypeID: 34, Name: "Tritanium", Quantity: 100, UnitPrice: inventory.M(3.6), TotalPrice: inventory.M(360.0)},
		},
		Total: inventory.M(450.0),
	}
	ships := inventory.CategoryReport{Location: "Jita Office", Name: "Ships | Hulls", Label: "100% Jita Split"}
	return &inventory.Report{
		Locations: []inventory.LocationReport{
			{Name: "Jita Office", Categories: []inventory.CategoryReport{minerals, ships}, Total: inventory.M(450.0)},
			{Name: "Empty Citadel"},
		},
		Total: inventory.M(450.0),
	}
}

// tables parses markdown and returns every table as rows of cell texts,
// header row first.
func tables(t *testing.T, md string) [][][]string {
	t.Helper()
	src := []byte(md)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))

	var res [][][]string
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		table, ok := n.(*east.Table)
		if !ok {
			return ast.WalkContinue, nil
		}
		var rows [][]string
		for r := table.FirstChild(); r != nil; r = r.NextSibling() {
			var row []string
			for c := r.FirstChild(); c != nil; c = c.NextSibling() {
				row = append(row, nodeText(c, src))
			}
			rows = append(rows, row)
		}
		res = append(res, rows)
		return ast.WalkSkipChildren, nil
	})
	require.NoError(t, err)
	return res
}

func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func TestReportMarkdownTables(t *testing.T) {
	md := ReportMarkdown(sampleReport())

	got := tables(t, md)

	require.Len(t, got, 1, "empty categories have no table")
	want := [][]string{
		{"Name", "Quantity", "1x 90% Jita Buy", "All 90% Jita Buy"},
		{"Pyerite", "10", "9.00 ISK", "90.00 ISK"},
		{"Tritanium", "100", "3.60 ISK", "360.00 ISK"},
		{"Total", "", "", "450.00 ISK"},
	}
	assert.Equal(t, want, got[0])
}

func TestReportMarkdownSections(t *testing.T) {
	md := ReportMarkdown(sampleReport())

	assert.True(t, strings.HasPrefix(md, "# Inventory\n\nTotal value: **450.00 ISK**\n"), md)
	assert.Contains(t, md, "\n## Jita Office\n")
	assert.Contains(t, md, "\n### Minerals\n")
	assert.Contains(t, md, "\n### Ships | Hulls\n\n_No items._\n")
	assert.NotContains(t, md, "Empty Citadel")
}

func TestCategoryMarkdown(t *testing.T) {
	c := inventory.CategoryReport{
		Name:  "Minerals",
		Label: "90% Jita Buy",
		Rows: []inventory.Row{
			{Name: "Tritanium", Quantity: 100, UnitPrice: inventory.M(3.6), TotalPrice: inventory.M(360.0)},
		},
		Total: inventory.M(360.0),
	}
	want := `
### Minerals

| Name | Quantity | 1x 90% Jita Buy | All 90% Jita Buy |
|:---|---:|---:|---:|
| Tritanium | 100 | 3.60 ISK | 360.00 ISK |
| **Total** | | | **360.00 ISK** |
`
	if got := CategoryMarkdown(c); got != want {
		t.Errorf("CategoryMarkdown() = %q, want %q", got, want)
	}
}

func TestCellEscapesPipes(t *testing.T) {
	c := inventory.CategoryReport{
		Name:  "Odd",
		Label: "100% Jita Buy",
		Rows:  []inventory.Row{{Name: "A|B", Quantity: 1}},
	}

	got := tables(t, CategoryMarkdown(c))

	require.Len(t, got, 1)
	require.Len(t, got[0], 3)
	assert.Len(t, got[0][1], 4)
}

func TestStatsMarkdown(t *testing.T) {
	got := tables(t, StatsMarkdown(inventory.Stats{Records: 10, Containers: 1, Offices: 1, Classified: 6, Dropped: 2}))

	require.Len(t, got, 1)
	assert.Equal(t, []string{"10", "1", "1", "6", "2"}, got[0][1])
}
