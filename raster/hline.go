package raster

// Polarity selects how a horizontal run modifies the destination bits.
type Polarity int

const (
	Dark Polarity = iota
	Clear
	XOR
)

// fillSingle[b1 + (b2<<3)] masks the bits from b1 through b2 inclusive when
// both ends of a run land in the same byte. fillFirst/fillLast mask the
// partial bytes at the run's two ends when they differ. All three tables
// are the teacher compiler's horizontalLine lookup tables, ported byte for
// byte (original_source/main_exe.cpp).
var fillSingle = [64]byte{
	0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xC0, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xE0, 0x60, 0x20, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xF0, 0x70, 0x30, 0x10, 0x00, 0x00, 0x00, 0x00,
	0xF8, 0x78, 0x38, 0x18, 0x08, 0x00, 0x00, 0x00,
	0xFC, 0x7C, 0x3C, 0x1C, 0x0C, 0x04, 0x00, 0x00,
	0xFE, 0x7E, 0x3E, 0x1E, 0x0E, 0x06, 0x02, 0x00,
	0xFF, 0x7F, 0x3F, 0x1F, 0x0F, 0x07, 0x03, 0x01,
}

var fillLast = [8]byte{0x80, 0xC0, 0xE0, 0xF0, 0xF8, 0xFC, 0xFE, 0xFF}
var fillFirst = [8]byte{0xFF, 0x7F, 0x3F, 0x1F, 0x0F, 0x07, 0x03, 0x01}

// HorizontalLine draws the inclusive pixel run [x1, x2] into row, modifying
// bits per polarity. x1 and x2 are clamped to [0, width-1] by the caller
// (rasterizer.go); row must be exactly bytesPerRow(width) bytes.
func HorizontalLine(x1, x2 int, row []byte, polarity Polarity) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	b1 := byte(x1 & 7)
	b2 := byte(x2 & 7)
	i1 := x1 >> 3
	i2 := x2 >> 3

	switch polarity {
	case Dark:
		if i1 == i2 {
			row[i1] |= fillSingle[int(b1)+int(b2)<<3]
			return
		}
		row[i1] |= fillFirst[b1]
		row[i2] |= fillLast[b2]
		for i := i1 + 1; i < i2; i++ {
			row[i] = 0xFF
		}
	case Clear:
		if i1 == i2 {
			row[i1] &^= fillSingle[int(b1)+int(b2)<<3]
			return
		}
		row[i1] &^= fillFirst[b1]
		row[i2] &^= fillLast[b2]
		for i := i1 + 1; i < i2; i++ {
			row[i] = 0x00
		}
	case XOR:
		if i1 == i2 {
			row[i1] ^= fillSingle[int(b1)+int(b2)<<3]
			return
		}
		row[i1] ^= fillFirst[b1]
		row[i2] ^= fillLast[b2]
		for i := i1 + 1; i < i2; i++ {
			row[i] ^= 0xFF
		}
	}
}
