package rendercli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Output colours.
var (
	Brand  = color.New(color.FgHiYellow, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Main   = color.New(color.FgYellow)
	Other  = color.New(color.FgMagenta)
	Good   = color.New(color.FgGreen)
)

// banner prints the command banner.
func banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s %s\n\n", Brand.Sprint("skillwheel"), Subtle.Sprint(subtitle))
}

// table prints an aligned table. Cells may carry colour codes, so widths are
// computed from the plain values.
func table(w io.Writer, headers []string, rows [][]string, paint func(row, col int, cell string) string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	header, sep := "  ", "  "
	for i, h := range headers {
		header += fmt.Sprintf("%-*s  ", widths[i], h)
		sep += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Fprintln(w, strings.TrimRight(header, " "))
	Subtle.Fprintln(w, strings.TrimRight(sep, " "))

	for r, row := range rows {
		line := "  "
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			pad := strings.Repeat(" ", widths[i]-len(cell))
			if paint != nil {
				cell = paint(r, i, cell)
			}
			line += cell + pad + "  "
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
