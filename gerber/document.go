package gerber

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kennycoder/gerb2img/polygon"
)

// Kind enumerates the fatal fault kinds from §7. All are fatal at document
// scope and abort further polygon production for that document.
type Kind int

const (
	KindNone Kind = iota
	KindFormatNotSet
	KindBadFormatSpec
	KindUnknownAperture
	KindMalformedMacro
	KindArcInconsistentWithQuadrant
	KindUnexpectedEndOfStream
	KindEmptyImage
	KindArithmeticInMacro
)

func (k Kind) String() string {
	switch k {
	case KindFormatNotSet:
		return "format-not-set"
	case KindBadFormatSpec:
		return "bad-format-spec"
	case KindUnknownAperture:
		return "unknown-aperture"
	case KindMalformedMacro:
		return "malformed-macro"
	case KindArcInconsistentWithQuadrant:
		return "arc-inconsistent-with-quadrant"
	case KindUnexpectedEndOfStream:
		return "unexpected-end-of-stream"
	case KindEmptyImage:
		return "empty-image"
	case KindArithmeticInMacro:
		return "arithmetic-in-macro"
	default:
		return "none"
	}
}

// Fault is the first fatal encountered while parsing a document. Design
// Note: "a result value carrying a list of warnings plus an optional fatal;
// never a sentinel bool field plus a hidden message stream."
type Fault struct {
	Kind    Kind
	Message string
}

func (f *Fault) Error() string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Warning is one recoverable anomaly recorded during parsing (§4.5/§7):
// unknown ignorable parameter block, redefined aperture, trailing data
// after M02, out-of-range digit count, and similar.
type Warning struct {
	Message string
}

// Document is the frozen output of parsing one Gerber input stream (§3
// "Gerber document output"). It is built incrementally during Parse and is
// read-only once returned.
type Document struct {
	ID uuid.UUID

	Polygons          []*polygon.Shape
	ImagePolarityDark bool
	Warnings          []Warning
	Err               *Fault

	MinX, MinY, MaxX, MaxY int
	hasBounds              bool
}

func newDocument() *Document {
	return &Document{ID: uuid.New(), ImagePolarityDark: true}
}

func (d *Document) warn(format string, args ...any) {
	d.Warnings = append(d.Warnings, Warning{Message: fmt.Sprintf(format, args...)})
}

// fail records the first fatal only; subsequent fatals are suppressed per
// §4.5 ("Fatals after the first are suppressed").
func (d *Document) fail(kind Kind, format string, args ...any) {
	if d.Err != nil {
		return
	}
	d.Err = &Fault{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (d *Document) addPolygon(s *polygon.Shape) {
	if d.Err != nil {
		return
	}
	d.Polygons = append(d.Polygons, s)
	minX, maxX := s.MinX+s.OffsetX, s.MaxX+s.OffsetX
	minY, maxY := s.MinY+s.OffsetY, s.MaxY+s.OffsetY
	if !d.hasBounds {
		d.MinX, d.MaxX, d.MinY, d.MaxY = minX, maxX, minY, maxY
		d.hasBounds = true
		return
	}
	if minX < d.MinX {
		d.MinX = minX
	}
	if maxX > d.MaxX {
		d.MaxX = maxX
	}
	if minY < d.MinY {
		d.MinY = minY
	}
	if maxY > d.MaxY {
		d.MaxY = maxY
	}
}
