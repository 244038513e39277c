package renderer

import (
	"bytes"
	"io"
	"strings"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

// cell escapes a value for a markdown table cell.
func cell(s string) string { return cellEscaper.Replace(s) }
