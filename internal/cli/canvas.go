package cli

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/magdock/pkg/dock"
	"github.com/matzehuels/magdock/pkg/dock/sink"
)

// cell is one terminal character with optional hex colors.
type cell struct {
	ch rune
	fg string
	bg string
}

// canvas is a fixed grid of cells rendered row by row with lipgloss.
type canvas struct {
	cols, rows int
	cells      [][]cell
}

func newCanvas(cols, rows int) *canvas {
	cols, rows = max(cols, 0), max(rows, 0)
	c := &canvas{cols: cols, rows: rows, cells: make([][]cell, rows)}
	for r := range c.cells {
		c.cells[r] = make([]cell, cols)
		for i := range c.cells[r] {
			c.cells[r][i].ch = ' '
		}
	}
	return c
}

func (c *canvas) in(col, row int) bool { return col >= 0 && col < c.cols && row >= 0 && row < c.rows }

func (c *canvas) set(col, row int, ch rune, fg string) {
	if c.in(col, row) {
		c.cells[row][col].ch = ch
		c.cells[row][col].fg = fg
	}
}

// fill paints the background of [col0,col1) x [row0,row1).
func (c *canvas) fill(col0, row0, col1, row1 int, bg string) {
	for r := max(row0, 0); r < min(row1, c.rows); r++ {
		for i := max(col0, 0); i < min(col1, c.cols); i++ {
			c.cells[r][i].bg = bg
		}
	}
}

// text writes s from col, skipping the cell after a wide rune.
func (c *canvas) text(col, row int, s, fg string) {
	for _, r := range s {
		c.set(col, row, r, fg)
		w := runewidth.RuneWidth(r)
		if w == 2 {
			c.set(col+1, row, 0, fg)
		}
		col += max(w, 1)
	}
}

// lines renders each row, batching runs of equal colors into one style.
func (c *canvas) lines() []string {
	out := make([]string, c.rows)
	for r, row := range c.cells {
		var b strings.Builder
		for i := 0; i < len(row); {
			j := i
			var run strings.Builder
			for j < len(row) && row[j].fg == row[i].fg && row[j].bg == row[i].bg {
				if row[j].ch != 0 {
					run.WriteRune(row[j].ch)
				}
				j++
			}
			style := lipgloss.NewStyle()
			if row[i].fg != "" {
				style = style.Foreground(lipgloss.Color(row[i].fg))
			}
			if row[i].bg != "" {
				style = style.Background(lipgloss.Color(row[i].bg))
			}
			b.WriteString(style.Render(run.String()))
			i = j
		}
		out[r] = b.String()
	}
	return out
}

// cellSize maps pixels to terminal cells.
type cellSize struct {
	w, h float64
}

func (s cellSize) cols(px float64) int { return int(math.Ceil(px / s.w)) }
func (s cellSize) rows(px float64) int { return int(math.Ceil(px / s.h)) }

// Colors used by the terminal dock.
const (
	colorContainer = "#303036"
	colorGlyph     = "#ffffff"
	colorIndicator = "#d0d0d0"
)

// dockCanvas draws f into a canvas sized to its container. Rows from the
// top are the headroom for magnified icons, the container, and one row of
// open indicators.
func dockCanvas(f dock.Frame, size cellSize) *canvas {
	cols := size.cols(f.Width)
	headRows := size.rows(sink.Headroom(f.Config))
	boxRows := size.rows(f.Height)
	c := newCanvas(cols, headRows+boxRows+1)
	bottom := headRows + boxRows // first row below the container

	c.fill(0, headRows, cols, bottom, colorContainer)

	slots := slices.Clone(f.Slots)
	slices.SortStableFunc(slots, func(a, b dock.SlotGeometry) int { return cmp.Compare(a.Z, b.Z) })
	for _, g := range slots {
		x0 := f.Padding + g.Left
		x1 := x0 + g.Size
		y0 := f.Padding - g.Lift // above the container bottom
		y1 := y0 + g.Size
		color := sink.SlotColor(g).Hex()

		for col := 0; col < cols; col++ {
			cx := (float64(col) + 0.5) * size.w
			if cx < x0 || cx > x1 {
				continue
			}
			for up := 0; up < bottom; up++ {
				cy := (float64(up) + 0.5) * size.h
				if cy < y0 || cy > y1 {
					continue
				}
				c.fill(col, bottom-1-up, col+1, bottom-up, color)
			}
		}
		glyphCol := int((x0 + g.Size/2) / size.w)
		glyphRow := bottom - 1 - int((y0+g.Size/2)/size.h)
		if c.in(glyphCol, glyphRow) && c.cells[glyphRow][glyphCol].bg == color {
			c.text(glyphCol, glyphRow, sink.Glyph(g), colorGlyph)
		}
		if g.Open {
			c.set(glyphCol, bottom, '•', colorIndicator)
		}
	}
	return c
}

// centeredLabel returns s truncated to width cells and centered on col within a
// line of width cells.
func centeredLabel(s string, col, width int) string {
	s = runewidth.Truncate(s, width, "…")
	w := runewidth.StringWidth(s)
	start := min(max(col-w/2, 0), max(width-w, 0))
	return strings.Repeat(" ", start) + s
}
