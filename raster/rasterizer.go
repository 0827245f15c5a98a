package raster

import (
	"context"
	"sort"

	"github.com/kennycoder/gerb2img/polygon"
)

// Params mirrors the strip rasterizer's documented inputs: the polygon
// list need not be pre-sorted by caller (Rasterize sorts defensively), the
// document's integer bounds, an additional border, the strip height, and
// the base polarity derived from the first layer's image polarity XOR the
// caller's invert flag.
type Params struct {
	MinX, MinY, MaxX, MaxY int
	Border                 int
	RowsPerStrip           int // 0 => whole image as a single strip
	BasePolarity           Polarity
}

// StripFunc receives one completed strip: stripIndex counts strips from 0,
// row holds rowCount*ceil(width/8) packed bytes.
type StripFunc func(stripIndex int, row []byte, rowCount int) error

// Result reports the final image geometry and dark-pixel count, mirroring
// the teacher's --area bookkeeping.
type Result struct {
	Width, Height int
	DarkPixels    int64
}

type activePolygon struct {
	shape  *polygon.Shape
	cursor *polygon.Cursor
}

// Rasterize walks polygons once, maintaining an active set per strip, and
// emits each strip via emit. It mirrors the teacher's per-strip loop:
// blank the buffer to the base polarity, admit polygons whose top row has
// been reached, draw their spans, evict polygons whose bottom row has
// passed, and hand the finished strip to the caller (which, in the CLI,
// writes it to a TIFF/BMP encoder one strip at a time).
func Rasterize(ctx context.Context, polygons []*polygon.Shape, p Params, emit StripFunc) (Result, error) {
	width := (p.MaxX - p.MinX) + 1 + 2*p.Border
	height := (p.MaxY - p.MinY) + 1 + 2*p.Border
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	rowsPerStrip := p.RowsPerStrip
	if rowsPerStrip <= 0 {
		rowsPerStrip = height
	}

	ordered := make([]*polygon.Shape, len(polygons))
	copy(ordered, polygons)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MinY+ordered[i].OffsetY < ordered[j].MinY+ordered[j].OffsetY
	})

	xOffset := p.Border - p.MinX
	yOffset := p.Border - p.MinY
	bpr := bytesPerRow(width)
	fillByte := byte(0x00)
	if p.BasePolarity != Dark {
		fillByte = 0xff
	}

	var active []*activePolygon
	nextIdx := 0
	var darkPixels int64

	for stripIndex := 0; ; stripIndex++ {
		stripStart := stripIndex * rowsPerStrip
		if stripStart >= height {
			break
		}
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		rows := rowsPerStrip
		if stripStart+rows > height {
			rows = height - stripStart
		}
		buf := make([]byte, bpr*rows)
		if fillByte != 0 {
			for i := range buf {
				buf[i] = fillByte
			}
		}

		for localY := 0; localY < rows; localY++ {
			absY := stripStart + localY
			docY := absY - yOffset // the document-space y a newly-admitted polygon must match

			for nextIdx < len(ordered) {
				s := ordered[nextIdx]
				if s.MinY+s.OffsetY > docY {
					break
				}
				active = append(active, &activePolygon{shape: s, cursor: s.NewCursor()})
				nextIdx++
			}

			row := buf[localY*bpr : (localY+1)*bpr]
			kept := active[:0]
			for _, ap := range active {
				if ap.shape.MaxY+ap.shape.OffsetY < docY {
					continue // evicted: bottom row already passed
				}
				kept = append(kept, ap)
				if ap.cursor.Done() || ap.cursor.Y()+ap.shape.OffsetY != docY {
					continue
				}
				spans, ok := ap.cursor.NextLine()
				if !ok {
					continue
				}
				pol := effectivePolarity(p.BasePolarity, toRasterPolarity(ap.shape.Polarity))
				dx := ap.shape.OffsetX + xOffset
				for i := 0; i+1 < len(spans); i += 2 {
					x1 := spans[i] + dx
					x2 := spans[i+1] + dx
					if x2 < 0 || x1 >= width {
						continue
					}
					if x1 < 0 {
						x1 = 0
					}
					if x2 >= width {
						x2 = width - 1
					}
					if x1 > x2 {
						continue
					}
					HorizontalLine(x1, x2, row, pol)
				}
			}
			active = kept
		}

		for _, by := range buf {
			darkPixels += int64(bitsSetTable[by])
		}
		if err := emit(stripIndex, buf, rows); err != nil {
			return Result{}, err
		}
	}

	return Result{Width: width, Height: height, DarkPixels: darkPixels}, nil
}

func toRasterPolarity(p polygon.Polarity) Polarity {
	switch p {
	case polygon.Clear:
		return Clear
	case polygon.XOR:
		return XOR
	default:
		return Dark
	}
}

// effectivePolarity implements the composition table: a polygon's polarity
// combines with the base image polarity so that a DARK shape against a
// CLEAR base draws with the same operator as a CLEAR shape against a DARK
// base, and XOR always inverts regardless of the base.
func effectivePolarity(base, shape Polarity) Polarity {
	switch shape {
	case XOR:
		return XOR
	case Dark:
		if base == Dark {
			return Dark
		}
		return Clear
	default: // Clear
		if base == Dark {
			return Clear
		}
		return Dark
	}
}
