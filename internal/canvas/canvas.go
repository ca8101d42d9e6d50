// Package canvas implements the drawing surface: a cell grid holding a
// guide outline for the active letter and the ink strokes traced over it.
package canvas

import (
	"github.com/verapine/tracepad/internal/glyph"
	"github.com/verapine/tracepad/internal/model"
)

// CellKind classifies one cell of the surface for rendering.
type CellKind int

// Cell kinds, in paint priority order (ink wins over guide).
const (
	CellEmpty CellKind = iota
	CellGuide
	CellInk
)

// Canvas captures freehand ink over a letter guide. All operations are
// synchronous and purely in-memory; repainting is the caller's concern.
type Canvas struct {
	width  int
	height int

	target rune
	guide  map[model.Point]struct{}

	strokes []model.Stroke
	active  model.Stroke
	ink     map[model.Point]struct{}
}

// New returns a canvas of the given cell dimensions.
func New(width, height int) *Canvas {
	if width < 2 {
		width = 2
	}
	if height < 2 {
		height = 2
	}
	return &Canvas{
		width:  width,
		height: height,
		guide:  map[model.Point]struct{}{},
		ink:    map[model.Point]struct{}{},
	}
}

// Width returns the cell width of the surface.
func (c *Canvas) Width() int { return c.width }

// Height returns the cell height of the surface.
func (c *Canvas) Height() int { return c.height }

// Target returns the active letter, 0 when none is set.
func (c *Canvas) Target() rune { return c.target }

// SetTarget swaps the guide outline to the given letter and clears all
// ink. Unsupported letters return model.ErrInvalidLetter and leave the
// surface untouched.
func (c *Canvas) SetTarget(r rune) error {
	r, err := glyph.Normalize(r)
	if err != nil {
		return err
	}
	strokes, err := glyph.Outline(r)
	if err != nil {
		return err
	}
	c.target = r
	c.guide = RasterizeStrokes(scaleStrokes(strokes, c.width, c.height), c.width, c.height)
	c.Reset()
	return nil
}

// StartStroke begins a new polyline at the given point. No-op when a
// stroke is already active.
func (c *Canvas) StartStroke(p model.Point) {
	if c.active != nil {
		return
	}
	c.active = model.Stroke{c.clamp(p)}
}

// ExtendStroke appends a point to the active polyline, painting the
// segment from the previous point. Ignored when no stroke is active.
func (c *Canvas) ExtendStroke(p model.Point) {
	if c.active == nil {
		return
	}
	p = c.clamp(p)
	prev := c.active[len(c.active)-1]
	if p == prev {
		return
	}
	for _, cell := range linePoints(prev, p) {
		c.ink[cell] = struct{}{}
	}
	c.active = append(c.active, p)
}

// EndStroke closes the active polyline and returns the full stroke set
// drawn since the last Reset. Strokes with fewer than two points are
// dropped. Returns nil when nothing has been drawn.
func (c *Canvas) EndStroke() []model.Stroke {
	if c.active != nil {
		if len(c.active) >= 2 {
			c.strokes = append(c.strokes, c.active)
		}
		c.active = nil
	}
	return c.Strokes()
}

// Strokes returns a copy of the finished strokes.
func (c *Canvas) Strokes() []model.Stroke {
	if len(c.strokes) == 0 {
		return nil
	}
	out := make([]model.Stroke, len(c.strokes))
	for i, s := range c.strokes {
		out[i] = append(model.Stroke(nil), s...)
	}
	return out
}

// StrokeActive reports whether a stroke is currently open.
func (c *Canvas) StrokeActive() bool { return c.active != nil }

// Reset discards all ink and any open stroke. The guide stays.
func (c *Canvas) Reset() {
	c.strokes = nil
	c.active = nil
	c.ink = map[model.Point]struct{}{}
}

// CellAt classifies the cell for rendering. Ink paints over guide.
func (c *Canvas) CellAt(x, y int) CellKind {
	p := model.Point{X: x, Y: y}
	if _, ok := c.ink[p]; ok {
		return CellInk
	}
	if _, ok := c.guide[p]; ok {
		return CellGuide
	}
	return CellEmpty
}

// GuideCells returns the rasterized guide cell set. Shared; callers must
// not mutate it.
func (c *Canvas) GuideCells() map[model.Point]struct{} { return c.guide }

func (c *Canvas) clamp(p model.Point) model.Point {
	if p.X < 0 {
		p.X = 0
	}
	if p.X >= c.width {
		p.X = c.width - 1
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.Y >= c.height {
		p.Y = c.height - 1
	}
	return p
}

// RasterizeStrokes paints polylines into a cell set of the given
// dimensions, interpolating segments with Bresenham lines.
func RasterizeStrokes(strokes []model.Stroke, width, height int) map[model.Point]struct{} {
	cells := map[model.Point]struct{}{}
	for _, stroke := range strokes {
		for i := 1; i < len(stroke); i++ {
			for _, p := range linePoints(stroke[i-1], stroke[i]) {
				if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
					continue
				}
				cells[p] = struct{}{}
			}
		}
	}
	return cells
}

func scaleStrokes(strokes []model.Stroke, width, height int) []model.Stroke {
	sx := float64(width-1) / float64(glyph.GridWidth-1)
	sy := float64(height-1) / float64(glyph.GridHeight-1)
	out := make([]model.Stroke, len(strokes))
	for i, stroke := range strokes {
		scaled := make(model.Stroke, len(stroke))
		for j, p := range stroke {
			scaled[j] = model.Point{
				X: int(float64(p.X)*sx + 0.5),
				Y: int(float64(p.Y)*sy + 0.5),
			}
		}
		out[i] = scaled
	}
	return out
}

func linePoints(a, b model.Point) []model.Point {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	stepX := 1
	if a.X > b.X {
		stepX = -1
	}
	stepY := 1
	if a.Y > b.Y {
		stepY = -1
	}
	err := dx + dy
	points := []model.Point{a}
	x, y := a.X, a.Y
	for x != b.X || y != b.Y {
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += stepX
		}
		if e2 <= dx {
			err += dx
			y += stepY
		}
		points = append(points, model.Point{X: x, Y: y})
	}
	return points
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
