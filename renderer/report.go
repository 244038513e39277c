// Package renderer renders inventory reports as markdown.
package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/wetc/inventory"
)

// ReportMarkdown renders the valued inventory: one section per location,
// one table per category.
//
// Locations without categories are omitted.
func ReportMarkdown(r *inventory.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Inventory\n\n")
	fmt.Fprintf(&b, "Total value: **%s**\n", r.Total)

	for _, l := range r.Locations {
		ConditionalBlock(&b, func(w io.Writer) bool {
			fmt.Fprintf(w, "\n## %s\n\n", l.Name)
			fmt.Fprintf(w, "Total value: **%s**\n", l.Total)
			for _, c := range l.Categories {
				writeCategory(w, c)
			}
			return len(l.Categories) > 0
		})
	}
	return b.String()
}

// CategoryMarkdown renders a single category table.
func CategoryMarkdown(c inventory.CategoryReport) string {
	var b strings.Builder
	writeCategory(&b, c)
	return b.String()
}

func writeCategory(w io.Writer, c inventory.CategoryReport) {
	fmt.Fprintf(w, "\n### %s\n\n", c.Name)
	if len(c.Rows) == 0 {
		fmt.Fprintln(w, "_No items._")
		return
	}
	h := c.Header()
	fmt.Fprintf(w, "| %s | %s | %s | %s |\n", h[0], h[1], h[2], h[3])
	fmt.Fprintln(w, "|:---|---:|---:|---:|")
	for _, row := range c.Rows {
		fmt.Fprintf(w, "| %s | %d | %s | %s |\n",
			cell(row.Name),
			row.Quantity,
			row.UnitPrice,
			row.TotalPrice,
		)
	}
	fmt.Fprintf(w, "| **Total** | | | **%s** |\n", c.Total)
}

// StatsMarkdown renders the counters of a classification.
func StatsMarkdown(s inventory.Stats) string {
	var b strings.Builder
	fmt.Fprintln(&b, "| Records | Containers | Offices | Classified | Dropped |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|---:|")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d |\n", s.Records, s.Containers, s.Offices, s.Classified, s.Dropped)
	return b.String()
}
