// Package polygon implements the polygon data structure described in the
// core: an immutable Shape (closed ring set, bounding box, edge table) and a
// consume-once Cursor that walks it one scanline at a time.
//
// The split mirrors the Design Note "split the polygon into an immutable
// PolygonShape ... and a separate PolygonScan cursor": Shape never mutates
// after construction, and all per-render iterator state lives in Cursor.
package polygon

import "math"

// Polarity is the fill operator a Shape contributes to the raster.
type Polarity int

const (
	Dark Polarity = iota
	Clear
	XOR
)

func (p Polarity) String() string {
	switch p {
	case Dark:
		return "dark"
	case Clear:
		return "clear"
	case XOR:
		return "xor"
	default:
		return "unknown"
	}
}

// Point is a real-valued pixel-space coordinate.
type Point struct {
	X, Y float64
}

// Shape is an immutable closed-ring geometry with a precomputed edge table.
//
// A Shape may hold more than one ring (e.g. an aperture with a hole): the
// edge table is built across all rings and even-odd fill naturally produces
// the hole without a separate boolean-subtraction step. This generalizes the
// single-loop description in the spec's data model just enough to express
// "optional hole" apertures; every ring individually satisfies "closed,
// non-self-intersecting at rasterization time."
type Shape struct {
	Polarity Polarity

	// OffsetX, OffsetY is an integer translation applied at composite time,
	// on top of whatever coordinates are already baked into rings (e.g. the
	// copies made by step-and-repeat, which share their original's rings and
	// differ only in offset). Most shapes leave this at zero: flash/stroke
	// coordinates are already baked into rings at parse time.
	OffsetX, OffsetY int

	MinX, MaxX, MinY, MaxY int // local bounding box, pre OffsetX/OffsetY

	rings [][]Point
	et    []edgeBucket // et[y-MinY] holds edges whose first active row is y
}

type edge struct {
	yTop int     // exclusive: edge is active for rows in [rowStart, yTop)
	x0   float64 // x at rowStart
	dxdy float64
}

type edgeBucket struct {
	edges []edge
}

// New builds a Shape from one or more closed rings. Each ring's last point
// must equal its first (the caller closes the loop); rings with fewer than
// 4 points (three corners plus the closing point) are dropped.
func New(polarity Polarity, rings ...[]Point) *Shape {
	s := &Shape{Polarity: polarity}
	for _, r := range rings {
		if len(r) >= 4 {
			s.rings = append(s.rings, r)
		}
	}
	s.build()
	return s
}

func (s *Shape) build() {
	if len(s.rings) == 0 {
		s.MinX, s.MaxX, s.MinY, s.MaxY = 0, 0, 0, 0
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, ring := range s.rings {
		for _, p := range ring {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	s.MinX = int(math.Floor(minX))
	s.MaxX = int(math.Ceil(maxX))
	s.MinY = int(math.Floor(minY))
	s.MaxY = int(math.Ceil(maxY))

	rows := s.MaxY - s.MinY + 1
	if rows < 1 {
		rows = 1
	}
	s.et = make([]edgeBucket, rows)

	for _, ring := range s.rings {
		for i := 0; i < len(ring)-1; i++ {
			p1, p2 := ring[i], ring[i+1]
			if p1.Y == p2.Y {
				continue // horizontal edges are discarded
			}
			lo, hi := p1, p2
			if lo.Y > hi.Y {
				lo, hi = hi, lo
			}
			dxdy := (hi.X - lo.X) / (hi.Y - lo.Y)
			rowStart := int(math.Ceil(lo.Y))
			yTop := int(math.Ceil(hi.Y))
			if rowStart >= yTop {
				continue
			}
			x0 := lo.X + (float64(rowStart)-lo.Y)*dxdy
			idx := rowStart - s.MinY
			if idx < 0 || idx >= len(s.et) {
				continue
			}
			s.et[idx].edges = append(s.et[idx].edges, edge{yTop: yTop, x0: x0, dxdy: dxdy})
		}
	}
}

// Rings exposes the constituent closed loops, e.g. for debugging or test
// assertions. The returned slices must not be mutated.
func (s *Shape) Rings() [][]Point { return s.rings }

// Translate returns a new Shape with every ring shifted by (dx, dy). Used to
// place aperture-macro-local geometry (built around the macro's own origin)
// at the flash point.
func Translate(s *Shape, dx, dy float64) *Shape {
	rings := make([][]Point, len(s.rings))
	for i, r := range s.rings {
		nr := make([]Point, len(r))
		for j, p := range r {
			nr[j] = Point{p.X + dx, p.Y + dy}
		}
		rings[i] = nr
	}
	return New(s.Polarity, rings...)
}

// Scale returns a new Shape with every ring coordinate multiplied by factor,
// used to convert aperture-macro geometry (built in the file's declared
// unit, since macro arithmetic freely mixes call-site modifiers with literal
// constants) to pixels in one pass after the whole expression tree has been
// evaluated.
func Scale(s *Shape, factor float64) *Shape {
	rings := make([][]Point, len(s.rings))
	for i, r := range s.rings {
		nr := make([]Point, len(r))
		for j, p := range r {
			nr[j] = Point{p.X * factor, p.Y * factor}
		}
		rings[i] = nr
	}
	return New(s.Polarity, rings...)
}
