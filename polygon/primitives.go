package polygon

import "math"

// circleSegments picks a segment count for flattening a circle of the given
// diameter so the chord error stays well under a pixel; small apertures get
// fewer segments, large copper pours get more.
func circleSegments(diameter float64) int {
	n := int(math.Ceil(math.Pi / math.Acos(1-0.05/math.Max(diameter/2, 0.05))))
	if n < 16 {
		n = 16
	}
	if n > 180 {
		n = 180
	}
	return n
}

func circleRing(cx, cy, diameter float64) []Point {
	r := diameter / 2
	n := circleSegments(diameter)
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, Point{cx + r*math.Cos(a), cy + r*math.Sin(a)})
	}
	return pts
}

func rotatePoint(p Point, cx, cy, degrees float64) Point {
	if degrees == 0 {
		return p
	}
	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	dx, dy := p.X-cx, p.Y-cy
	return Point{cx + dx*cos - dy*sin, cy + dx*sin + dy*cos}
}

func rectRing(cx, cy, w, h, rotationDeg float64) []Point {
	hw, hh := w/2, h/2
	corners := []Point{
		{cx - hw, cy - hh}, {cx + hw, cy - hh}, {cx + hw, cy + hh}, {cx - hw, cy + hh}, {cx - hw, cy - hh},
	}
	for i := range corners {
		corners[i] = rotatePoint(corners[i], cx, cy, rotationDeg)
	}
	return corners
}

// obroundRing builds a rectangle with semicircular caps on the shorter axis.
func obroundRing(cx, cy, w, h, rotationDeg float64) []Point {
	var pts []Point
	if w >= h {
		r := h / 2
		straight := w/2 - r
		n := circleSegments(h) / 2
		for i := 0; i <= n; i++ {
			a := -math.Pi/2 + math.Pi*float64(i)/float64(n)
			pts = append(pts, Point{cx + straight + r*math.Cos(a), cy + r*math.Sin(a)})
		}
		for i := 0; i <= n; i++ {
			a := math.Pi/2 + math.Pi*float64(i)/float64(n)
			pts = append(pts, Point{cx - straight + r*math.Cos(a), cy + r*math.Sin(a)})
		}
	} else {
		r := w / 2
		straight := h/2 - r
		n := circleSegments(w) / 2
		for i := 0; i <= n; i++ {
			a := math.Pi + math.Pi*float64(i)/float64(n)
			pts = append(pts, Point{cx + r*math.Cos(a), cy + straight + r*math.Sin(a)})
		}
		for i := 0; i <= n; i++ {
			a := math.Pi*float64(i)/float64(n)
			pts = append(pts, Point{cx + r*math.Cos(a), cy - straight + r*math.Sin(a)})
		}
	}
	pts = append(pts, pts[0])
	for i := range pts {
		pts[i] = rotatePoint(pts[i], cx, cy, rotationDeg)
	}
	return pts
}

func regularPolygonRing(cx, cy, outerDiameter float64, vertices int, rotationDeg float64) []Point {
	if vertices < 3 {
		vertices = 3
	}
	if vertices > 12 {
		vertices = 12
	}
	r := outerDiameter / 2
	pts := make([]Point, 0, vertices+1)
	for i := 0; i <= vertices; i++ {
		a := 2*math.Pi*float64(i)/float64(vertices) + rotationDeg*math.Pi/180
		pts = append(pts, Point{cx + r*math.Cos(a), cy + r*math.Sin(a)})
	}
	return pts
}

// Hole describes an aperture's optional central cutout.
type Hole struct {
	Circular      bool
	Diameter      float64 // circular hole
	Width, Height float64 // rectangular hole
}

func (h *Hole) ring(cx, cy float64) []Point {
	if h == nil {
		return nil
	}
	if h.Circular {
		if h.Diameter <= 0 {
			return nil
		}
		return circleRing(cx, cy, h.Diameter)
	}
	if h.Width <= 0 || h.Height <= 0 {
		return nil
	}
	return rectRing(cx, cy, h.Width, h.Height, 0)
}

// NewCircle builds a flashed circular aperture, optionally with a hole.
func NewCircle(cx, cy, diameter float64, hole *Hole, polarity Polarity) *Shape {
	rings := [][]Point{circleRing(cx, cy, diameter)}
	if r := hole.ring(cx, cy); r != nil {
		rings = append(rings, r)
	}
	return New(polarity, rings...)
}

// NewRectangle builds a flashed rectangular aperture.
func NewRectangle(cx, cy, w, h, rotationDeg float64, hole *Hole, polarity Polarity) *Shape {
	rings := [][]Point{rectRing(cx, cy, w, h, rotationDeg)}
	if r := hole.ring(cx, cy); r != nil {
		rings = append(rings, r)
	}
	return New(polarity, rings...)
}

// NewObround builds a flashed obround aperture (rectangle with semicircular
// caps on the shorter axis).
func NewObround(cx, cy, w, h, rotationDeg float64, hole *Hole, polarity Polarity) *Shape {
	rings := [][]Point{obroundRing(cx, cy, w, h, rotationDeg)}
	if r := hole.ring(cx, cy); r != nil {
		rings = append(rings, r)
	}
	return New(polarity, rings...)
}

// NewRegularPolygon builds a flashed regular polygon aperture (3-12 sides).
func NewRegularPolygon(cx, cy, outerDiameter float64, vertices int, rotationDeg float64, hole *Hole, polarity Polarity) *Shape {
	rings := [][]Point{regularPolygonRing(cx, cy, outerDiameter, vertices, rotationDeg)}
	if r := hole.ring(cx, cy); r != nil {
		rings = append(rings, r)
	}
	return New(polarity, rings...)
}

// NewOutline builds a filled region/outline from an already-closed point
// loop (region mode draws, and aperture macro primitive code 4).
func NewOutline(points []Point, polarity Polarity) *Shape {
	return New(polarity, points)
}

// NewStrokeRound sweeps a circular aperture of the given diameter along the
// segment (x1,y1)-(x2,y2): a rectangle the length of the segment with
// semicircular caps, i.e. an obround centered on the segment's midpoint and
// rotated to match its direction.
func NewStrokeRound(x1, y1, x2, y2, diameter float64, polarity Polarity) *Shape {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	cx, cy := (x1+x2)/2, (y1+y2)/2
	if length == 0 {
		return NewCircle(cx, cy, diameter, nil, polarity)
	}
	angle := math.Atan2(dy, dx) * 180 / math.Pi
	return New(polarity, obroundRing(cx, cy, length+diameter, diameter, angle))
}

// NewStrokeRect sweeps a rectangular aperture along the segment: the convex
// hull of the rectangle placed at both endpoints.
func NewStrokeRect(x1, y1, x2, y2, w, h float64, polarity Polarity) *Shape {
	a := rectCorners(x1, y1, w, h)
	b := rectCorners(x2, y2, w, h)
	all := append(append([]Point{}, a...), b...)
	hull := convexHull(all)
	hull = append(hull, hull[0])
	return New(polarity, hull)
}

func rectCorners(cx, cy, w, h float64) []Point {
	hw, hh := w/2, h/2
	return []Point{{cx - hw, cy - hh}, {cx + hw, cy - hh}, {cx + hw, cy + hh}, {cx - hw, cy + hh}}
}

// convexHull computes the hull of a small point set (monotone chain).
func convexHull(pts []Point) []Point {
	uniq := make([]Point, 0, len(pts))
	seen := map[Point]bool{}
	for _, p := range pts {
		if !seen[p] {
			seen[p] = true
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return pts
	}
	sortPoints(pts)

	cross := func(o, a, b Point) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	lower := make([]Point, 0, len(pts))
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	upper := make([]Point, 0, len(pts))
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

func sortPoints(pts []Point) {
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && (pts[j].X < pts[j-1].X || (pts[j].X == pts[j-1].X && pts[j].Y < pts[j-1].Y)); j-- {
			pts[j], pts[j-1] = pts[j-1], pts[j]
		}
	}
}
