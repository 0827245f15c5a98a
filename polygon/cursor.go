package polygon

import "sort"

// Cursor is a consume-once scanline walker over a Shape's edge table. Calls
// to NextLine must be strictly sequential starting at Shape.MinY; the
// polygon is stateful and random access is not supported (Design Note: "the
// polygon edge-table iterator as hidden polygon state" is split out here so
// the rasterizer owns one Cursor per active Shape instead of the Shape
// owning hidden mutable state).
type Cursor struct {
	shape *Shape
	y     int
	ael   []activeEdge
	spans []int
}

type activeEdge struct {
	x    float64
	dxdy float64
	yTop int
}

// NewCursor returns a fresh, unconsumed walker positioned at Shape.MinY.
func (s *Shape) NewCursor() *Cursor {
	return &Cursor{shape: s, y: s.MinY}
}

// Done reports whether every scanline in [MinY, MaxY] has been returned.
func (c *Cursor) Done() bool {
	return len(c.shape.rings) == 0 || c.y > c.shape.MaxY
}

// Y returns the row the next call to NextLine will produce, or MaxY+1 once
// exhausted.
func (c *Cursor) Y() int { return c.y }

// NextLine returns the even-odd fill spans for the current row as a flat,
// ascending list of x coordinates: (t[0],t[1]), (t[2],t[3]), ... and
// advances the cursor to the next row. ok is false once the cursor is
// exhausted (y > Shape.MaxY) or the shape has no rings.
func (c *Cursor) NextLine() (spans []int, ok bool) {
	if c.Done() {
		return nil, false
	}
	y := c.y

	// Drop edges that expire at this row.
	kept := c.ael[:0]
	for _, e := range c.ael {
		if e.yTop > y {
			kept = append(kept, e)
		}
	}
	c.ael = kept

	// Admit edges newly active at this row.
	idx := y - c.shape.MinY
	if idx >= 0 && idx < len(c.shape.et) {
		for _, e := range c.shape.et[idx].edges {
			c.ael = append(c.ael, activeEdge{x: e.x0, dxdy: e.dxdy, yTop: e.yTop})
		}
	}

	sort.Slice(c.ael, func(i, j int) bool { return c.ael[i].x < c.ael[j].x })

	c.spans = c.spans[:0]
	for _, e := range c.ael {
		c.spans = append(c.spans, int(e.x))
	}

	// Advance x for every active edge, then move to the next row.
	for i := range c.ael {
		c.ael[i].x += c.ael[i].dxdy
	}
	c.y++

	return c.spans, true
}
