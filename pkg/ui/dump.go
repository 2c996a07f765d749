package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/treeview"
)

// WriteRows prints rows as indented plain text, one per line, for
// non-interactive output. Expandable rows are marked "+" when collapsed and
// "-" when open; the id follows the name in brackets.
func WriteRows(w io.Writer, rows []treeview.Row[*model.Item]) error {
	bw := bufio.NewWriter(w)
	for _, row := range rows {
		mark := " "
		switch {
		case row.CanHaveChildren && row.Collapsed:
			mark = "+"
		case row.CanHaveChildren:
			mark = "-"
		}
		if _, err := fmt.Fprintf(bw, "%s%s %s [%s]\n", strings.Repeat("  ", row.Depth), mark, row.Name, row.ID); err != nil {
			return err
		}
	}
	return bw.Flush()
}
