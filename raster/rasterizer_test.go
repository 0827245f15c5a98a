package raster

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennycoder/gerb2img/polygon"
)

func collectBits(width, height int, polygons []*polygon.Shape, p Params) [][]bool {
	p.MinX, p.MaxX, p.MinY, p.MaxY = 0, width-1, 0, height-1
	bits := make([][]bool, 0, height)
	Rasterize(context.Background(), polygons, p, func(stripIndex int, buf []byte, rows int) error {
		bpr := bytesPerRow(width)
		for r := 0; r < rows; r++ {
			row := buf[r*bpr : (r+1)*bpr]
			line := make([]bool, width)
			for x := 0; x < width; x++ {
				line[x] = row[x>>3]&(0x80>>uint(x&7)) != 0
			}
			bits = append(bits, line)
		}
		return nil
	})
	return bits
}

func TestRasterizeSingleDarkSquare(t *testing.T) {
	square := polygon.New(polygon.Dark, []polygon.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}})
	bits := collectBits(10, 10, []*polygon.Shape{square}, Params{BasePolarity: Dark})
	require.Len(t, bits, 10)
	for _, row := range bits {
		for _, set := range row {
			assert.True(t, set)
		}
	}
}

// TestPolarityCompositionSymmetry: a DARK circle against a DARK base sets the
// same bits as the same DARK circle against a CLEAR base with the result
// inverted (against a CLEAR base, a DARK shape clears its pixels).
func TestPolarityCompositionSymmetry(t *testing.T) {
	darkCircle := polygon.NewCircle(10, 10, 10, nil, polygon.Dark)

	darkBits := collectBits(20, 20, []*polygon.Shape{darkCircle}, Params{BasePolarity: Dark})
	clearBits := collectBits(20, 20, []*polygon.Shape{darkCircle}, Params{BasePolarity: Clear})

	for y := range darkBits {
		for x := range darkBits[y] {
			assert.Equal(t, darkBits[y][x], !clearBits[y][x], "pixel (%d,%d)", x, y)
		}
	}
}

func TestRasterizePolarityFlip(t *testing.T) {
	outer := polygon.NewCircle(10, 10, 10, nil, polygon.Dark)
	inner := polygon.NewCircle(10, 10, 5, nil, polygon.Clear)
	bits := collectBits(20, 20, []*polygon.Shape{outer, inner}, Params{BasePolarity: Dark})
	assert.False(t, bits[10][10], "center of the cleared inner circle must be unset")
	assert.True(t, bits[10][14], "ring between the two radii must remain set")
}

func TestRasterizeHonorsStripHeight(t *testing.T) {
	square := polygon.New(polygon.Dark, []polygon.Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}})
	var strips int
	_, err := Rasterize(context.Background(), []*polygon.Shape{square}, Params{MinX: 0, MaxX: 3, MinY: 0, MaxY: 3, RowsPerStrip: 2, BasePolarity: Dark}, func(stripIndex int, buf []byte, rows int) error {
		strips++
		assert.LessOrEqual(t, rows, 2)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, strips)
}

// TestRasterizeStripingMatchesWholeImage confirms that splitting a render
// into small strips (RowsPerStrip > 0) produces the exact same per-pixel
// image as rendering it in one shot, since the active-set admission/eviction
// logic must not depend on strip boundaries.
func TestRasterizeStripingMatchesWholeImage(t *testing.T) {
	shapes := []*polygon.Shape{
		polygon.NewCircle(15, 10, 16, nil, polygon.Dark),
		polygon.NewCircle(15, 20, 10, &polygon.Hole{Circular: true, Diameter: 4}, polygon.Clear),
		polygon.New(polygon.Dark, []polygon.Point{{2, 2}, {8, 2}, {8, 28}, {2, 28}, {2, 2}}),
	}

	whole := collectBits(30, 30, shapes, Params{BasePolarity: Dark})
	strips := collectBits(30, 30, shapes, Params{RowsPerStrip: 3, BasePolarity: Dark})

	if diff := cmp.Diff(whole, strips); diff != "" {
		t.Errorf("striped render diverged from whole-image render (-whole +strips):\n%s", diff)
	}
}

func TestRasterizeRespectsContextCancellation(t *testing.T) {
	square := polygon.New(polygon.Dark, []polygon.Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Rasterize(ctx, []*polygon.Shape{square}, Params{MinX: 0, MaxX: 3, MinY: 0, MaxY: 3, RowsPerStrip: 1, BasePolarity: Dark}, func(stripIndex int, buf []byte, rows int) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
