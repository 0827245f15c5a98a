package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHorizontalLineSingleByteDark(t *testing.T) {
	row := make([]byte, 1)
	HorizontalLine(2, 5, row, Dark)
	assert.Equal(t, byte(0x3C), row[0])
}

func TestHorizontalLineSpansBytesDark(t *testing.T) {
	row := make([]byte, 3)
	HorizontalLine(3, 20, row, Dark)
	assert.Equal(t, byte(0x1F), row[0])
	assert.Equal(t, byte(0xFF), row[1])
	assert.Equal(t, byte(0xF8), row[2])
}

func TestHorizontalLineClearUndoesDark(t *testing.T) {
	row := make([]byte, 2)
	HorizontalLine(0, 15, row, Dark)
	assert.Equal(t, byte(0xFF), row[0])
	assert.Equal(t, byte(0xFF), row[1])
	HorizontalLine(4, 10, row, Clear)
	assert.Equal(t, byte(0xF0), row[0])
	assert.Equal(t, byte(0x1F), row[1])
}

func TestHorizontalLineXORTwiceIsNoop(t *testing.T) {
	row := make([]byte, 2)
	orig := []byte{0xAA, 0x55}
	copy(row, orig)
	HorizontalLine(2, 12, row, XOR)
	HorizontalLine(2, 12, row, XOR)
	assert.Equal(t, orig, row)
}

func TestHorizontalLineSwapsReversedEndpoints(t *testing.T) {
	row := make([]byte, 1)
	HorizontalLine(5, 2, row, Dark)
	assert.Equal(t, byte(0x3C), row[0])
}
