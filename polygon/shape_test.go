package polygon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquareSpans(t *testing.T) {
	// A 10x10 axis-aligned square centered on (5,5): the cursor walks rows
	// 0..10; rows 0..9 each produce exactly one span from x=0 to x=10
	// (even-odd fill, 2 crossings) and row 10 produces none, since edges are
	// active for rows [rowStart, yTop).
	ring := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	s := New(Dark, ring)
	require.Equal(t, 0, s.MinX)
	require.Equal(t, 10, s.MaxX)
	require.Equal(t, 0, s.MinY)
	require.Equal(t, 10, s.MaxY)

	c := s.NewCursor()
	prevY := c.Y() - 1
	rows := 0
	for {
		y := c.Y()
		spans, ok := c.NextLine()
		if !ok {
			break
		}
		assert.Greater(t, y, prevY, "y must strictly increase between calls")
		prevY = y
		assert.Equal(t, 0, len(spans)%2, "span endpoint count must be even")
		if len(spans) > 0 {
			assert.Equal(t, 0, spans[0])
			assert.Equal(t, 10, spans[1])
		}
		for i := 1; i < len(spans); i++ {
			assert.GreaterOrEqual(t, spans[i], spans[i-1], "span endpoints non-decreasing")
		}
		rows++
	}
	assert.Equal(t, 11, rows)
}

func TestBoundingBoxTightness(t *testing.T) {
	s := NewCircle(0, 0, 10, nil, Dark)
	c := s.NewCursor()
	for {
		spans, ok := c.NextLine()
		if !ok {
			break
		}
		for _, x := range spans {
			assert.GreaterOrEqual(t, x, s.MinX)
			assert.LessOrEqual(t, x, s.MaxX)
		}
	}
}

func TestCursorIsConsumeOnce(t *testing.T) {
	s := NewCircle(5, 5, 10, nil, Dark)
	c := s.NewCursor()
	for !c.Done() {
		if _, ok := c.NextLine(); !ok {
			break
		}
	}
	_, ok := c.NextLine()
	assert.False(t, ok, "exhausted cursor must not yield more lines")

	// A fresh cursor over the same shape must be independently walkable.
	c2 := s.NewCursor()
	_, ok = c2.NextLine()
	assert.True(t, ok)
}

func TestHoleProducesEvenOddGap(t *testing.T) {
	s := NewCircle(0, 0, 40, &Hole{Circular: true, Diameter: 10}, Dark)
	c := s.NewCursor()
	sawFourSpanRow := false
	for {
		spans, ok := c.NextLine()
		if !ok {
			break
		}
		if len(spans) >= 4 {
			sawFourSpanRow = true
		}
	}
	assert.True(t, sawFourSpanRow, "a row through the hole should split into two spans (4 endpoints)")
}
