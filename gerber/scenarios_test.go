package gerber_test

// End-to-end scenarios: literal inputs and expectations from spec.md §8.

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennycoder/gerb2img/gerber"
	"github.com/kennycoder/gerb2img/polygon"
	"github.com/kennycoder/gerb2img/raster"
)

func compile(t *testing.T, src string, dpi float64) *gerber.Document {
	t.Helper()
	doc, err := gerber.Parse(strings.NewReader(src), gerber.ParseOptions{DPI: dpi})
	require.NoError(t, err)
	require.Nil(t, doc.Err)
	return doc
}

// basePolarityFor mirrors cmd/gerb2img's own derivation of P0 (§5 "base
// polarity ... derived from the first layer's %IP XOR the user's invert
// flag").
func basePolarityFor(doc *gerber.Document, invert bool) (raster.Polarity, bool) {
	imagePolarityDark := doc.ImagePolarityDark != invert
	if imagePolarityDark {
		return raster.Dark, true
	}
	return raster.Clear, false
}

func renderDoc(t *testing.T, doc *gerber.Document, invert bool) (*raster.Bitmap, raster.Result) {
	t.Helper()
	base, imagePolarityDark := basePolarityFor(doc, invert)
	return renderPolygons(t, doc.Polygons, doc.MinX, doc.MinY, doc.MaxX, doc.MaxY, base, imagePolarityDark)
}

func renderPolygons(t *testing.T, polygons []*polygon.Shape, minX, minY, maxX, maxY int, base raster.Polarity, imagePolarityDark bool) (*raster.Bitmap, raster.Result) {
	t.Helper()
	bm := raster.NewBitmap(maxX-minX+1, maxY-minY+1, imagePolarityDark)
	params := raster.Params{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY, BasePolarity: base}
	next := 0
	res, err := raster.Rasterize(context.Background(), polygons, params, func(_ int, row []byte, rows int) error {
		bm.SetStrip(next, row, rows)
		next += rows
		return nil
	})
	require.NoError(t, err)
	return bm, res
}

func TestScenarioEmptyFlash(t *testing.T) {
	src := `%FSLAX24Y24*%%MOIN*%%ADD10C,0.010*%D10*X0Y0D03*M02*`
	doc := compile(t, src, 1000)
	bm, res := renderDoc(t, doc, false)

	assert.Equal(t, 11, res.Width)
	assert.Equal(t, 11, res.Height)
	assert.True(t, bm.Get(5, 5))
	assert.False(t, bm.Get(0, 0))
	assert.False(t, bm.Get(10, 0))
	assert.False(t, bm.Get(0, 10))
	assert.False(t, bm.Get(10, 10))
}

func TestScenarioSingleStroke(t *testing.T) {
	src := `%FSLAX24Y24*%%MOIN*%%ADD10C,0.010*%D10*X0Y0D02*X1000Y0D01*M02*`
	doc := compile(t, src, 1000)
	bm, res := renderDoc(t, doc, false)

	// Obround 10px tall, 110px wide, centered on the line from (0,0) to
	// (100,0): bbox is X:[-5,105] x Y:[-5,5], so 111x11 pixels.
	assert.Equal(t, 111, res.Width)
	assert.Equal(t, 11, res.Height)
	assert.True(t, bm.Get(55, 5))   // mid-span, on the centerline
	assert.True(t, bm.Get(5, 5))    // left cap center (real (0,0))
	assert.True(t, bm.Get(105, 5))  // right cap center (real (100,0))
	assert.False(t, bm.Get(0, 0))   // bbox corner, outside the left cap's radius
	assert.False(t, bm.Get(110, 10)) // bbox corner, outside the right cap's radius
}

func TestScenarioPolarityFlip(t *testing.T) {
	src := `%FSLAX24Y24*%%MOIN*%%ADD10C,0.010*%D10*X0Y0D03*%LPC*%%ADD11C,0.005*%D11*X0Y0D03*M02*`
	doc := compile(t, src, 1000)
	bm, res := renderDoc(t, doc, false)

	assert.Equal(t, 11, res.Width)
	assert.Equal(t, 11, res.Height)
	assert.False(t, bm.Get(5, 5)) // center: inside the 5px clear circle, carved out
	assert.True(t, bm.Get(9, 5))  // between the two radii: still dark
	assert.False(t, bm.Get(0, 0)) // outside the outer circle entirely
}

func TestScenarioApertureMacroCircle(t *testing.T) {
	src := `%FSLAX24Y24*%%MOIN*%%AMC1*1,1,$1,0,0*%%ADD10C1,0.020*%D10*X0Y0D03*M02*`
	doc := compile(t, src, 1000)
	bm, res := renderDoc(t, doc, false)

	assert.Equal(t, 21, res.Width)
	assert.Equal(t, 21, res.Height)
	assert.True(t, bm.Get(10, 10))
	assert.False(t, bm.Get(0, 0))
}

func TestScenarioRegion(t *testing.T) {
	// A 100x100px square region (region mode ignores the selected aperture);
	// coordinates are written as 4-digit fields (e.g. X1000) to reach 100px
	// under the same FSLAX24Y24/DPI=1000 fixed-point format as the other
	// scenarios (a raw 3-digit field, as spec.md's literal abbreviates it,
	// would only reach 10px without a restated, different format spec).
	src := `%FSLAX24Y24*%%MOIN*%%ADD10C,0.001*%D10*G36*X0Y0D02*X1000Y0D01*X1000Y1000D01*X0Y1000D01*X0Y0D01*G37*M02*`
	doc := compile(t, src, 1000)
	bm, res := renderDoc(t, doc, false)

	assert.Equal(t, 101, res.Width)
	assert.Equal(t, 101, res.Height)
	for _, p := range [][2]int{{0, 0}, {100, 0}, {0, 99}, {100, 99}, {50, 50}} {
		assert.Truef(t, bm.Get(p[0], p[1]), "expected (%d,%d) set", p[0], p[1])
	}
	// The top edge (y=100) contributes no active edge past its own row under
	// the half-open [rowStart, yTop) scanline convention (the usual rule
	// that keeps shared vertices between adjacent fills from double-covering
	// a row), so the last filled row is 99, not 100.
	assert.False(t, bm.Get(50, 100))
}

func TestScenarioMultiFileOverlay(t *testing.T) {
	// X1000 (a 4-digit field) decodes to 100px under FSLAX24Y24/DPI=1000,
	// matching spec.md's "offset by (100,0)".
	docA := compile(t, `%FSLAX24Y24*%%MOIN*%%ADD10R,0.050,0.050*%D10*X0Y0D03*M02*`, 1000)
	docB := compile(t, `%FSLAX24Y24*%%MOIN*%%ADD10R,0.050,0.050*%D10*X1000Y0D03*M02*`, 1000)

	merged := append(append([]*polygon.Shape(nil), docA.Polygons...), docB.Polygons...)
	minX, minY := min2(docA.MinX, docB.MinX), min2(docA.MinY, docB.MinY)
	maxX, maxY := max2(docA.MaxX, docB.MaxX), max2(docA.MaxY, docB.MaxY)

	base, imagePolarityDark := basePolarityFor(docA, true)
	bm, res := renderPolygons(t, merged, minX, minY, maxX, maxY, base, imagePolarityDark)

	assert.Equal(t, 151, res.Width)
	assert.Equal(t, 51, res.Height)
	// Background is dark; each square is a cleared hole.
	assert.False(t, bm.Get(25, 25))  // inside square A (real (0,0))
	assert.False(t, bm.Get(125, 25)) // inside square B (real (100,0))
	assert.True(t, bm.Get(75, 25))   // between the two squares: dark background
	assert.True(t, bm.Get(75, 10))   // same gap, a different row: still dark background
}

func min2(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max2(a, b int) int {
	if a > b {
		return a
	}
	return b
}
