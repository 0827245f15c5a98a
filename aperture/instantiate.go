package aperture

import (
	"fmt"
	"math"

	"github.com/kennycoder/gerb2img/polygon"
)

// Instantiate evaluates a macro's body against a call-site argument list
// (bound to $1, $2, ...), scales the resulting geometry from the file's
// declared unit to pixels, and translates it to the flash point (flashX,
// flashY, already in pixels). pol is the plotter's current layer polarity
// (Dark or Clear); a primitive's own exposure further modulates it per
// combineExposure.
func Instantiate(m *Macro, callArgs []float64, scale, flashX, flashY float64, pol polygon.Polarity) ([]*polygon.Shape, error) {
	bindings := make(map[int]float64, len(callArgs))
	for i, a := range callArgs {
		bindings[i+1] = a
	}

	var shapes []*polygon.Shape
	for _, item := range m.body {
		if item.assign != nil {
			v, err := item.assign.expr.Eval(bindings)
			if err != nil {
				return nil, fmt.Errorf("macro %s: %w", m.Name, err)
			}
			bindings[item.assign.index] = v
			continue
		}
		prim := item.prim
		vals := make([]float64, len(prim.args))
		for i, e := range prim.args {
			v, err := e.Eval(bindings)
			if err != nil {
				return nil, fmt.Errorf("macro %s primitive %d arg %d: %w", m.Name, prim.code, i, err)
			}
			vals[i] = v
		}
		built, err := buildPrimitive(prim.code, vals, pol)
		if err != nil {
			return nil, fmt.Errorf("macro %s: %w", m.Name, err)
		}
		shapes = append(shapes, built...)
	}

	out := make([]*polygon.Shape, 0, len(shapes))
	for _, s := range shapes {
		out = append(out, polygon.Translate(polygon.Scale(s, scale), flashX, flashY))
	}
	return out, nil
}

// combineExposure folds a primitive's exposure flag into the outer layer
// polarity: exposure 0 always inverts (XOR) regardless of layer polarity;
// exposure 1 takes on the layer's own polarity, matching §4.2 ("exposure 0
// ... creates a polygon with polarity XOR; exposure 1 creates DARK polygons
// relative to the aperture's local origin" generalized to a Clear layer).
func combineExposure(exposure float64, layer polygon.Polarity) polygon.Polarity {
	if exposure == 0 {
		return polygon.XOR
	}
	return layer
}

func buildPrimitive(code int, v []float64, layer polygon.Polarity) ([]*polygon.Shape, error) {
	switch code {
	case PrimCircle: // exposure, diameter, cx, cy
		if len(v) < 4 {
			return nil, fmt.Errorf("primitive 1 needs 4 args, got %d", len(v))
		}
		pol := combineExposure(v[0], layer)
		return []*polygon.Shape{polygon.NewCircle(v[2], v[3], v[1], nil, pol)}, nil

	case PrimVectorLine: // exposure, width, startX, startY, endX, endY, rotation
		if len(v) < 7 {
			return nil, fmt.Errorf("primitive 2 needs 7 args, got %d", len(v))
		}
		pol := combineExposure(v[0], layer)
		s := polygon.NewStrokeRound(v[2], v[3], v[4], v[5], v[1], pol)
		return []*polygon.Shape{rotateAroundOrigin(s, v[6])}, nil

	case PrimCenterLine, PrimCenterLineMod: // exposure, width, height, cx, cy, rotation
		if len(v) < 6 {
			return nil, fmt.Errorf("primitive %d needs 6 args, got %d", code, len(v))
		}
		pol := combineExposure(v[0], layer)
		s := polygon.NewRectangle(v[3], v[4], v[1], v[2], 0, nil, pol)
		return []*polygon.Shape{rotateAroundOrigin(s, v[5])}, nil

	case PrimOutline: // exposure, n, (n+1) point pairs, rotation
		if len(v) < 2 {
			return nil, fmt.Errorf("primitive 4 needs at least 2 args")
		}
		pol := combineExposure(v[0], layer)
		n := int(v[1])
		need := 2 + 2*(n+1) + 1
		if len(v) < need {
			return nil, fmt.Errorf("primitive 4 expected %d args for n=%d, got %d", need, n, len(v))
		}
		pts := make([]polygon.Point, n+1)
		for i := 0; i <= n; i++ {
			pts[i] = polygon.Point{X: v[2+2*i], Y: v[2+2*i+1]}
		}
		rotation := v[len(v)-1]
		s := polygon.NewOutline(pts, pol)
		return []*polygon.Shape{rotateAroundOrigin(s, rotation)}, nil

	case PrimRegularPolygon: // exposure, vertices, cx, cy, diameter, rotation
		if len(v) < 6 {
			return nil, fmt.Errorf("primitive 5 needs 6 args, got %d", len(v))
		}
		pol := combineExposure(v[0], layer)
		return []*polygon.Shape{polygon.NewRegularPolygon(v[2], v[3], v[4], int(v[1]), v[5], nil, pol)}, nil

	case PrimMoire: // cx, cy, outerDia, ringThickness, gap, maxRings, crosshairThickness, crosshairLength, rotation
		if len(v) < 9 {
			return nil, fmt.Errorf("primitive 6 needs 9 args, got %d", len(v))
		}
		return rotateAll(moireShapes(v, layer), v[8]), nil

	case PrimThermal: // cx, cy, outerDia, innerDia, gapThickness, rotation
		if len(v) < 6 {
			return nil, fmt.Errorf("primitive 7 needs 6 args, got %d", len(v))
		}
		return rotateAll(thermalShapes(v, layer), v[5]), nil

	default:
		return nil, fmt.Errorf("unsupported macro primitive code %d", code)
	}
}

func rotateAroundOrigin(s *polygon.Shape, degrees float64) *polygon.Shape {
	if degrees == 0 {
		return s
	}
	rings := make([][]polygon.Point, 0, len(s.Rings()))
	for _, ring := range s.Rings() {
		nr := make([]polygon.Point, len(ring))
		for i, p := range ring {
			nr[i] = rotateXY(p, degrees)
		}
		rings = append(rings, nr)
	}
	return polygon.New(s.Polarity, rings...)
}

func rotateXY(p polygon.Point, degrees float64) polygon.Point {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	return polygon.Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
}

func rotateAll(shapes []*polygon.Shape, degrees float64) []*polygon.Shape {
	if degrees == 0 {
		return shapes
	}
	out := make([]*polygon.Shape, len(shapes))
	for i, s := range shapes {
		out[i] = rotateAroundOrigin(s, degrees)
	}
	return out
}

// moireShapes expands primitive 6: a set of concentric ring outlines plus a
// crosshair, all drawn in the layer polarity (classic RS-274X code 6 carries
// no exposure parameter of its own).
func moireShapes(v []float64, layer polygon.Polarity) []*polygon.Shape {
	cx, cy, outerDia, ringThickness, gap, maxRings := v[0], v[1], v[2], v[3], v[4], int(v[5])
	crosshairThickness, crosshairLength := v[6], v[7]

	var shapes []*polygon.Shape
	dia := outerDia
	for i := 0; i < maxRings && dia > 0; i++ {
		shapes = append(shapes, polygon.NewCircle(cx, cy, dia, &polygon.Hole{Circular: true, Diameter: dia - 2*ringThickness}, layer))
		dia -= 2 * (ringThickness + gap)
	}
	if crosshairLength > 0 && crosshairThickness > 0 {
		shapes = append(shapes, polygon.NewRectangle(cx, cy, crosshairLength, crosshairThickness, 0, nil, layer))
		shapes = append(shapes, polygon.NewRectangle(cx, cy, crosshairThickness, crosshairLength, 0, nil, layer))
	}
	return shapes
}

// thermalShapes expands primitive 7: an annulus with four radial gaps
// (classic RS-274X code 7), approximated as the annulus minus four spokes
// cut at the cardinal directions.
func thermalShapes(v []float64, layer polygon.Polarity) []*polygon.Shape {
	cx, cy, outerDia, innerDia, gapThickness := v[0], v[1], v[2], v[3], v[4]

	ring := polygon.NewCircle(cx, cy, outerDia, &polygon.Hole{Circular: true, Diameter: innerDia}, layer)
	if gapThickness <= 0 {
		return []*polygon.Shape{ring}
	}
	spokeLen := outerDia
	shapes := []*polygon.Shape{ring}
	shapes = append(shapes, polygon.NewRectangle(cx, cy, spokeLen, gapThickness, 0, nil, invert(layer)))
	shapes = append(shapes, polygon.NewRectangle(cx, cy, gapThickness, spokeLen, 0, nil, invert(layer)))
	return shapes
}

func invert(p polygon.Polarity) polygon.Polarity {
	if p == polygon.Dark {
		return polygon.Clear
	}
	return polygon.Dark
}
