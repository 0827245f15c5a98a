// Package aperture implements the aperture store (§4.2): standard
// primitive templates (circle, rectangle, obround, regular polygon), the
// macro expansion system, and the expression tree used to evaluate macro
// primitive parameters.
package aperture

import "github.com/kennycoder/gerb2img/polygon"

// Aperture is the tagged union described in §3: a standard primitive or a
// macro instantiation. Apertures are immutable once defined.
type Aperture interface {
	isAperture()
}

// Circle is a round aperture, optionally with a circular or rectangular
// hole.
type Circle struct {
	Diameter float64
	Hole     *polygon.Hole
}

// Rectangle is an axis-aligned rectangular aperture.
type Rectangle struct {
	Width, Height float64
	Hole          *polygon.Hole
}

// Obround is a rectangle with semicircular caps on the shorter axis.
type Obround struct {
	Width, Height float64
	Hole          *polygon.Hole
}

// RegularPolygon is a regular N-gon (3-12 sides) with optional rotation and
// hole.
type RegularPolygon struct {
	OuterDiameter float64
	Vertices      int
	Rotation      float64
	Hole          *polygon.Hole
}

// MacroRef is an aperture defined by instantiating a named macro template
// with the %AD call-site argument list. Scale converts the macro's
// evaluated geometry, expressed in the file's declared unit, to pixels
// (pixels per file unit, applied after evaluation since macro expressions
// freely mix modifiers and literal constants and can't be scaled
// per-argument).
type MacroRef struct {
	Macro *Macro
	Args  []float64
	Scale float64
}

func (Circle) isAperture()         {}
func (Rectangle) isAperture()      {}
func (Obround) isAperture()        {}
func (RegularPolygon) isAperture() {}
func (MacroRef) isAperture()       {}

// Flash renders the aperture centered at (cx, cy) as a Shape with the given
// polarity, resolving macro primitives through Instantiate.
func Flash(ap Aperture, cx, cy float64, pol polygon.Polarity) ([]*polygon.Shape, error) {
	switch a := ap.(type) {
	case Circle:
		return []*polygon.Shape{polygon.NewCircle(cx, cy, a.Diameter, a.Hole, pol)}, nil
	case Rectangle:
		return []*polygon.Shape{polygon.NewRectangle(cx, cy, a.Width, a.Height, 0, a.Hole, pol)}, nil
	case Obround:
		return []*polygon.Shape{polygon.NewObround(cx, cy, a.Width, a.Height, 0, a.Hole, pol)}, nil
	case RegularPolygon:
		return []*polygon.Shape{polygon.NewRegularPolygon(cx, cy, a.OuterDiameter, a.Vertices, a.Rotation, a.Hole, pol)}, nil
	case MacroRef:
		return Instantiate(a.Macro, a.Args, a.Scale, cx, cy, pol)
	default:
		return nil, nil
	}
}

// StrokeDiameter reports the round-aperture diameter to sweep when drawing,
// and ok=false for non-round apertures (rectangular strokes use the
// rectangle's width/height directly).
func StrokeDiameter(ap Aperture) (float64, bool) {
	switch a := ap.(type) {
	case Circle:
		return a.Diameter, true
	default:
		return 0, false
	}
}

// StrokeRect reports the width/height to sweep for a rectangular-aperture
// stroke.
func StrokeRect(ap Aperture) (w, h float64, ok bool) {
	if r, isRect := ap.(Rectangle); isRect {
		return r.Width, r.Height, true
	}
	return 0, 0, false
}
