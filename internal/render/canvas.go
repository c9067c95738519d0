package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/kilupskalvis/gitsim/internal/models"
)

// Glyphs used on the terminal canvas
const (
	glyphCommit        = '●'
	glyphMergeCommit   = '◉'
	glyphLifeline      = '┄'
	glyphHorizontal    = '─'
	glyphVertical      = '│'
	glyphCornerDown    = '╰'
	glyphCornerDownEnd = '╮'
	glyphCornerUp      = '╭'
	glyphCornerUpEnd   = '╯'
)

// Draw priority; a cell only accepts a rune of equal or higher priority.
const (
	layerLifeline = iota + 1
	layerConnector
	layerCommit
	layerLabel
)

// CanvasOptions sets how many layout units one terminal cell covers.
type CanvasOptions struct {
	ColumnUnits int
	RowUnits    int
}

// DefaultCanvasOptions returns one column per 10 units and one row per 35.
func DefaultCanvasOptions() CanvasOptions {
	return CanvasOptions{ColumnUnits: 10, RowUnits: 35}
}

type style struct {
	color models.Color
	bold  bool
}

type cell struct {
	r     rune
	layer int
	style style
}

// Canvas is a fixed-size grid of styled runes.
type Canvas struct {
	width, height int
	cells         []cell
}

// NewCanvas creates a blank canvas
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		width:  width,
		height: height,
		cells:  make([]cell, width*height),
	}
	for i := range c.cells {
		c.cells[i].r = ' '
	}
	return c
}

// Width returns the number of columns
func (c *Canvas) Width() int { return c.width }

// Height returns the number of rows
func (c *Canvas) Height() int { return c.height }

// Set places an unstyled rune, replacing whatever was there. Out of range
// positions are ignored.
func (c *Canvas) Set(x, y int, r rune) {
	c.put(x, y, r, layerLabel, style{})
}

func (c *Canvas) put(x, y int, r rune, layer int, st style) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	idx := y*c.width + x
	if c.cells[idx].layer > layer {
		return
	}
	c.cells[idx] = cell{r: r, layer: layer, style: st}
}

// Get returns the rune at the given position
func (c *Canvas) Get(x, y int) rune {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return ' '
	}
	return c.cells[y*c.width+x].r
}

// String returns the canvas without color, trailing spaces trimmed per line
func (c *Canvas) String() string {
	return c.render(func(_ style, s string) string { return s })
}

// Colored returns the canvas with ANSI colors. It honors color.NoColor.
func (c *Canvas) Colored() string {
	return c.render(paint)
}

func (c *Canvas) render(paintFn func(style, string) string) string {
	var sb strings.Builder
	for y := 0; y < c.height; y++ {
		row := c.cells[y*c.width : (y+1)*c.width]
		end := len(row)
		for end > 0 && row[end-1].r == ' ' {
			end--
		}

		for start := 0; start < end; {
			st := row[start].style
			var run strings.Builder
			i := start
			for ; i < end && row[i].style == st; i++ {
				run.WriteRune(row[i].r)
			}
			sb.WriteString(paintFn(st, run.String()))
			start = i
		}
		if y < c.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

var colorAttributes = map[models.Color]color.Attribute{
	models.ColorViolet: color.FgMagenta,
	models.ColorGreen:  color.FgGreen,
	models.ColorRed:    color.FgRed,
	models.ColorBlue:   color.FgBlue,
}

func paint(st style, s string) string {
	var attrs []color.Attribute
	if a, ok := colorAttributes[st.color]; ok {
		attrs = append(attrs, a)
	}
	if st.bold {
		attrs = append(attrs, color.Bold)
	}
	if len(attrs) == 0 {
		return s
	}
	return color.New(attrs...).Sprint(s)
}

// Text draws snap onto a new canvas sized to fit it.
func Text(snap models.GraphSnapshot, opts CanvasOptions) *Canvas {
	if opts.ColumnUnits <= 0 || opts.RowUnits <= 0 {
		opts = DefaultCanvasOptions()
	}
	g := grid{opts: opts}

	var width, height int
	for _, b := range snap.Branches {
		width = max(width, g.col(b.Origin.X)+len([]rune(b.Name)), g.col(b.LifelineEnd.X))
		height = max(height, g.row(b.Origin.Y))
		for _, c := range b.Commits {
			width = max(width, g.col(c.Position.X))
		}
	}
	c := NewCanvas(width+1, height+1)

	for _, b := range snap.Branches {
		st := style{color: b.Color}
		row := g.row(b.Origin.Y)
		for x := g.col(b.LifelineStart.X); x <= g.col(b.LifelineEnd.X); x++ {
			c.put(x, row, glyphLifeline, layerLifeline, st)
		}
		if b.Fork != nil {
			g.elbow(c, *b.Fork)
		}
		for _, l := range b.Connectors {
			for x := g.col(l.From.X); x <= g.col(l.To.X); x++ {
				c.put(x, row, glyphHorizontal, layerConnector, style{})
			}
		}
	}
	for _, m := range snap.Merges {
		g.elbow(c, m.Line)
	}

	for _, b := range snap.Branches {
		for _, commit := range b.Commits {
			glyph := glyphCommit
			if commit.IsMergeCommit() {
				glyph = glyphMergeCommit
			}
			c.put(g.col(commit.Position.X), g.row(commit.Position.Y), glyph, layerCommit, style{color: b.Color})
		}

		st := style{}
		if b.Name == snap.Selected {
			st = style{color: models.ColorGreen, bold: true}
		}
		x, row := g.col(b.Origin.X), g.row(b.Origin.Y)
		for i, r := range []rune(b.Name) {
			c.put(x+i, row, r, layerLabel, st)
		}
	}
	return c
}

type grid struct {
	opts CanvasOptions
}

func (g grid) col(x int) int {
	return (x + g.opts.ColumnUnits/2) / g.opts.ColumnUnits
}

func (g grid) row(y int) int {
	return (y + g.opts.RowUnits/2) / g.opts.RowUnits
}

// elbow draws l through the gap above (or below) its end row: down from the
// start, across, and down again into the end. Rows that touch get a single
// corner instead.
func (g grid) elbow(c *Canvas, l models.Line) {
	x0, y0 := g.col(l.From.X), g.row(l.From.Y)
	x1, y1 := g.col(l.To.X), g.row(l.To.Y)

	if y0 == y1 {
		for x := min(x0, x1); x <= max(x0, x1); x++ {
			c.put(x, y0, glyphHorizontal, layerConnector, style{})
		}
		return
	}

	dy, startCorner, endCorner := 1, glyphCornerDown, glyphCornerDownEnd
	if y1 < y0 {
		dy, startCorner, endCorner = -1, glyphCornerUp, glyphCornerUpEnd
	}
	if x0 == x1 {
		for y := y0 + dy; y != y1; y += dy {
			c.put(x0, y, glyphVertical, layerConnector, style{})
		}
		return
	}

	turn := y1 - dy
	if turn == y0 {
		turn = y1
	}
	for y := y0 + dy; y != turn; y += dy {
		c.put(x0, y, glyphVertical, layerConnector, style{})
	}
	c.put(x0, turn, startCorner, layerConnector, style{})
	for x := x0 + 1; x < x1; x++ {
		c.put(x, turn, glyphHorizontal, layerConnector, style{})
	}
	if turn != y1 {
		c.put(x1, turn, endCorner, layerConnector, style{})
	}
}
