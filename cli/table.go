package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// table lays out rows in columns padded to their widest cell. Widths are
// measured in terminal cells, so wide and combining characters line up.
type table struct {
	headers []string
	rows    [][]string
	right   map[int]bool
	styles  map[int]func(string) string
	bold    map[int]bool
}

func newTable(headers ...string) *table {
	return &table{
		headers: headers,
		right:   make(map[int]bool),
		styles:  make(map[int]func(string) string),
		bold:    make(map[int]bool),
	}
}

// alignRight right-aligns the given columns.
func (t *table) alignRight(cols ...int) *table {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

// style applies fn to every cell of col after padding.
func (t *table) style(col int, fn func(string) string) *table {
	t.styles[col] = fn
	return t
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

// addBold adds a row rendered in bold, e.g. a total.
func (t *table) addBold(cells ...string) {
	t.bold[len(t.rows)] = true
	t.add(cells...)
}

func (t *table) widths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}
	return widths
}

func (t *table) pad(col int, cell string, width int) string {
	if t.right[col] {
		return runewidth.FillLeft(cell, width)
	}
	return runewidth.FillRight(cell, width)
}

func (t *table) render(w io.Writer) {
	widths := t.widths()

	header := make([]string, len(t.headers))
	for i, h := range t.headers {
		header[i] = headerStyle.Render(t.pad(i, h, widths[i]))
	}
	writeLine(w, header)

	for r, row := range t.rows {
		line := make([]string, len(t.headers))
		for i := range t.headers {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			cell = t.pad(i, cell, widths[i])
			if fn, ok := t.styles[i]; ok {
				cell = fn(cell)
			}
			if t.bold[r] {
				cell = headerStyle.Render(cell)
			}
			line[i] = cell
		}
		writeLine(w, line)
	}
}

func writeLine(w io.Writer, cells []string) {
	_, _ = io.WriteString(w, strings.TrimRight(strings.Join(cells, "  "), " ")+"\n")
}
