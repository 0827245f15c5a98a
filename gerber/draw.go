package gerber

import (
	"math"

	"github.com/kennycoder/gerb2img/aperture"
	"github.com/kennycoder/gerb2img/polygon"
)

func polarityFor(lp LayerPolarity) polygon.Polarity {
	if lp == LPClear {
		return polygon.Clear
	}
	return polygon.Dark
}

func (p *parser) enterRegion() {
	p.state.region = true
	p.regionRings = nil
	p.regionCurrent = nil
}

func (p *parser) exitRegion() {
	if len(p.regionCurrent) > 0 {
		p.regionRings = append(p.regionRings, p.regionCurrent)
	}
	p.state.region = false
	if len(p.regionRings) == 0 {
		p.regionCurrent = nil
		return
	}
	rings := make([][]polygon.Point, 0, len(p.regionRings))
	for _, ring := range p.regionRings {
		rings = append(rings, closeRing(ring))
	}
	shape := polygon.New(polarityFor(p.state.layerPolarity), rings...)
	p.doc.addPolygon(shape)
	p.regionRings = nil
	p.regionCurrent = nil
}

func closeRing(pts []point) []polygon.Point {
	out := make([]polygon.Point, len(pts), len(pts)+1)
	for i, pt := range pts {
		out[i] = polygon.Point{X: pt.x, Y: pt.y}
	}
	if len(out) == 0 || out[0] != out[len(out)-1] {
		out = append(out, out[0])
	}
	return out
}

func (p *parser) doFlash(x, y float64) {
	if !p.state.apertureSet {
		p.doc.fail(KindUnknownAperture, "flash with no aperture selected")
		return
	}
	ap, ok := p.store.Get(p.state.aperture)
	if !ok {
		p.doc.fail(KindUnknownAperture, "D%d not defined", p.state.aperture)
		return
	}
	shapes, err := aperture.Flash(ap, x, y, polarityFor(p.state.layerPolarity))
	if err != nil {
		p.doc.fail(KindArithmeticInMacro, "%v", err)
		return
	}
	for _, s := range shapes {
		p.doc.addPolygon(s)
	}
}

func (p *parser) doMove(x, y float64) {
	if p.state.region {
		if len(p.regionCurrent) > 0 {
			p.regionRings = append(p.regionRings, p.regionCurrent)
		}
		p.regionCurrent = []point{{x, y}}
	}
}

// doDraw strokes (or, in region mode, records) the segment from the
// current point to (x, y). If the interpolation mode is an arc, i/j (when
// present) locate its center per §4.2.
func (p *parser) doDraw(x, y, i, j float64, hasI, hasJ bool) {
	x0, y0 := p.state.x, p.state.y

	var path []point
	if p.state.interpolation == Linear || (!hasI && !hasJ) {
		path = []point{{x0, y0}, {x, y}}
	} else {
		arcPath, ok := p.flattenArc(x0, y0, x, y, i, j)
		if !ok {
			return // fault already recorded
		}
		path = arcPath
	}

	if p.state.region {
		if len(p.regionCurrent) == 0 {
			p.regionCurrent = append(p.regionCurrent, point{x0, y0})
		}
		for _, pt := range path[1:] {
			p.regionCurrent = append(p.regionCurrent, pt)
		}
		return
	}

	if !p.state.apertureSet {
		p.doc.fail(KindUnknownAperture, "draw with no aperture selected")
		return
	}
	ap, ok := p.store.Get(p.state.aperture)
	if !ok {
		p.doc.fail(KindUnknownAperture, "D%d not defined", p.state.aperture)
		return
	}
	pol := polarityFor(p.state.layerPolarity)
	for k := 0; k < len(path)-1; k++ {
		a, b := path[k], path[k+1]
		p.strokeSegment(ap, a.x, a.y, b.x, b.y, pol)
	}
}

func (p *parser) strokeSegment(ap aperture.Aperture, x1, y1, x2, y2 float64, pol polygon.Polarity) {
	if dia, ok := aperture.StrokeDiameter(ap); ok {
		p.doc.addPolygon(polygon.NewStrokeRound(x1, y1, x2, y2, dia, pol))
		return
	}
	if w, h, ok := aperture.StrokeRect(ap); ok {
		p.doc.addPolygon(polygon.NewStrokeRect(x1, y1, x2, y2, w, h, pol))
		return
	}
	// Obround/regular-polygon/macro apertures: approximate the swept area
	// with a round stroke (see approximateStrokeWidth: an obround's smaller
	// dimension, a regular polygon's outer diameter, and width 0 for a macro
	// aperture), since strokes with a non-circular, non-rectangular aperture
	// are rare in practice and the source spec does not define an exact
	// sweep for them.
	p.doc.addPolygon(polygon.NewStrokeRound(x1, y1, x2, y2, approximateStrokeWidth(ap), pol))
}

func approximateStrokeWidth(ap aperture.Aperture) float64 {
	switch a := ap.(type) {
	case aperture.Obround:
		return math.Min(a.Width, a.Height)
	case aperture.RegularPolygon:
		return a.OuterDiameter
	default:
		return 0
	}
}

const arcAngleTolerance = 1e-3

// flattenArc resolves the arc center from I/J (per the active quadrant
// mode) and returns a polyline approximation from (x0,y0) to (x1,y1).
func (p *parser) flattenArc(x0, y0, x1, y1, i, j float64) ([]point, bool) {
	var cx, cy float64
	if p.state.quadrant == MultiQuadrant {
		cx, cy = x0+i, y0+j
	} else {
		best := math.Inf(1)
		found := false
		for _, si := range []float64{1, -1} {
			for _, sj := range []float64{1, -1} {
				tcx, tcy := x0+si*i, y0+sj*j
				r0 := math.Hypot(x0-tcx, y0-tcy)
				r1 := math.Hypot(x1-tcx, y1-tcy)
				diff := math.Abs(r0 - r1)
				if diff < best {
					best, cx, cy, found = diff, tcx, tcy, true
				}
			}
		}
		if !found || best > math.Max(1, math.Hypot(i, j))*0.05 {
			p.doc.fail(KindArcInconsistentWithQuadrant, "arc center inconsistent with single-quadrant I/J")
			return nil, false
		}
	}

	r := math.Hypot(x0-cx, y0-cy)
	startAngle := math.Atan2(y0-cy, x0-cx)
	endAngle := math.Atan2(y1-cy, x1-cx)
	cw := p.state.interpolation == ClockwiseArc

	sweep := endAngle - startAngle
	if cw {
		for sweep > 0 {
			sweep -= 2 * math.Pi
		}
	} else {
		for sweep < 0 {
			sweep += 2 * math.Pi
		}
	}
	if math.Abs(sweep) < arcAngleTolerance {
		if cw {
			sweep = -2 * math.Pi
		} else {
			sweep = 2 * math.Pi
		}
	}

	segments := int(math.Ceil(math.Abs(sweep) / (math.Pi / 90)))
	if segments < 1 {
		segments = 1
	}
	if segments > 720 {
		segments = 720
	}
	path := make([]point, 0, segments+1)
	for k := 0; k <= segments; k++ {
		a := startAngle + sweep*float64(k)/float64(segments)
		path = append(path, point{cx + r*math.Cos(a), cy + r*math.Sin(a)})
	}
	path[len(path)-1] = point{x1, y1}
	return path, true
}
