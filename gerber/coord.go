package gerber

// AxisTransform holds the %MI (mirror), %OF (offset), %SF (scale) axis
// block state. apply runs after the format/DPI conversion (§4.1) and
// scales, then mirrors; it does not add OffsetX/OffsetY, so %OF values are
// recorded here but do not move decoded coordinates.
type AxisTransform struct {
	MirrorX, MirrorY bool
	OffsetX, OffsetY float64 // in pixels (handleOF converts from the file's unit)
	ScaleX, ScaleY   float64
}

// DefaultAxisTransform is the identity transform.
func DefaultAxisTransform() AxisTransform {
	return AxisTransform{ScaleX: 1, ScaleY: 1}
}

func (t AxisTransform) apply(axisIsX bool, v float64) float64 {
	if axisIsX {
		v *= t.ScaleX
		if t.MirrorX {
			v = -v
		}
	} else {
		v *= t.ScaleY
		if t.MirrorY {
			v = -v
		}
	}
	return v
}

// Decoder converts textual Gerber coordinate fields into real-valued pixel
// coordinates, per §4.1.
type Decoder struct {
	Format    FormatSpec
	DPI       float64
	ScaleX    float64 // caller-supplied config.ScaleX/Y, independent of %SF
	ScaleY    float64
	Transform AxisTransform
	Unit      Unit
}

func (d *Decoder) unitsToPixels() float64 {
	if d.Unit == Inches {
		return d.DPI
	}
	return d.DPI / 25.4
}

// Decode converts one X or Y field into pixels (I/J use DecodeDelta). current is the
// axis's current position (used for incremental mode); axisIsX selects
// which digit counts and axis transform apply.
func (d *Decoder) Decode(raw string, axisIsX bool, current float64) (float64, bool, error) {
	if !d.Format.Set() {
		return 0, false, ErrFormatNotSet
	}
	intDigits, fracDigits := d.Format.XInt, d.Format.XFrac
	if !axisIsX {
		intDigits, fracDigits = d.Format.YInt, d.Format.YFrac
	}
	value, outOfRange := decodeDigits(raw, intDigits, fracDigits, d.Format.Zero)
	pixels := value * d.unitsToPixels()
	if axisIsX {
		pixels *= d.ScaleX
	} else {
		pixels *= d.ScaleY
	}
	pixels = d.Transform.apply(axisIsX, pixels)

	if d.Format.Mode == Incremental {
		pixels += current
	}
	return pixels, outOfRange, nil
}

// DecodeDelta decodes an I/J offset field (always relative, never affected
// by coordinate mode) for arc centers.
func (d *Decoder) DecodeDelta(raw string, axisIsX bool) (float64, bool, error) {
	if !d.Format.Set() {
		return 0, false, ErrFormatNotSet
	}
	intDigits, fracDigits := d.Format.XInt, d.Format.XFrac
	if !axisIsX {
		intDigits, fracDigits = d.Format.YInt, d.Format.YFrac
	}
	value, outOfRange := decodeDigits(raw, intDigits, fracDigits, d.Format.Zero)
	pixels := value * d.unitsToPixels()
	if axisIsX {
		pixels *= d.ScaleX
	} else {
		pixels *= d.ScaleY
	}
	return pixels, outOfRange, nil
}

// GrowPixels converts a config grow-size (or border) to pixels: with mm set
// the value is in millimetres and is scaled by dpi/25.4; otherwise it is
// already in pixels and is returned unchanged.
func GrowPixels(grow float64, mm bool, dpi float64) float64 {
	if !mm {
		return grow
	}
	return grow * dpi / 25.4
}
