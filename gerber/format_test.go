package gerber

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinateRoundTrip(t *testing.T) {
	cases := []struct {
		intDigits, fracDigits int
		zero                  ZeroSuppression
	}{
		{2, 4, LeadingZeroSuppression},
		{2, 4, TrailingZeroSuppression},
		{3, 3, NoZeroSuppression},
	}
	for _, c := range cases {
		name := fmt.Sprintf("int%d-frac%d-zero%d", c.intDigits, c.fracDigits, c.zero)
		t.Run(name, func(t *testing.T) {
			for _, v := range []int64{0, 1, -1, 1234, -1234, 999999} {
				enc := EncodeDigits(v, c.intDigits, c.fracDigits, c.zero)
				got, outOfRange := decodeDigits(enc, c.intDigits, c.fracDigits, c.zero)
				assert.False(t, outOfRange, "encoded %q should not be flagged out of range", enc)
				want := float64(v)
				for i := 0; i < c.fracDigits; i++ {
					want /= 10
				}
				assert.InDelta(t, want, got, 1e-9, "round trip of %d via %q", v, enc)
			}
		})
	}
}

func TestDecodeFormatNotSet(t *testing.T) {
	d := &Decoder{DPI: 1000, Unit: Inches, ScaleX: 1, ScaleY: 1, Transform: DefaultAxisTransform()}
	_, _, err := d.Decode("0100", true, 0)
	assert.ErrorIs(t, err, ErrFormatNotSet)
}

func TestDecodeAbsoluteAtDPI1000(t *testing.T) {
	fs := FormatSpec{XInt: 2, XFrac: 4, YInt: 2, YFrac: 4, Zero: LeadingZeroSuppression, Mode: Absolute}
	fs.set = true
	d := &Decoder{Format: fs, DPI: 1000, Unit: Inches, ScaleX: 1, ScaleY: 1, Transform: DefaultAxisTransform()}

	// Format is 2 integer + 4 fraction digits; "10000" decodes (with leading
	// zero padding) to intVal=10000 => 1.0 inch => 1000 pixels at DPI 1000.
	got, outOfRange, err := d.Decode("10000", true, 0)
	assert.NoError(t, err)
	assert.False(t, outOfRange)
	assert.InDelta(t, 1000, got, 1e-6)
}

func TestDecodeIncrementalAddsToCurrent(t *testing.T) {
	fs := FormatSpec{XInt: 2, XFrac: 4, YInt: 2, YFrac: 4, Zero: LeadingZeroSuppression, Mode: Incremental}
	fs.set = true
	d := &Decoder{Format: fs, DPI: 1000, Unit: Inches, ScaleX: 1, ScaleY: 1, Transform: DefaultAxisTransform()}

	got, _, err := d.Decode("100", true, 500)
	assert.NoError(t, err)
	assert.InDelta(t, 510, got, 1e-6)
}
