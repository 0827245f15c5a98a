package gerber

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/kennycoder/gerb2img/aperture"
	"github.com/kennycoder/gerb2img/polygon"
)

// ParseOptions configures one Parse call; fields mirror the parts of the
// §6 input configuration record that affect geometry (not output framing,
// which belongs to the raster package).
type ParseOptions struct {
	DPI        float64
	ScaleX     float64
	ScaleY     float64
	GrowPixels float64 // already converted from mm if needed; §3 "a single grow offset"
}

var (
	reFS    = regexp.MustCompile(`^FS([LT]?)([AI])X(\d)(\d)Y(\d)(\d)$`)
	reField = regexp.MustCompile(`([XYIJD])([+-]?[0-9.]+)`)
	reGCode = regexp.MustCompile(`G(\d\d?)`)
)

// parser holds the mutable state threaded through one Parse call.
type parser struct {
	doc     *Document
	store   *aperture.Store
	fs      FormatSpec
	unit    Unit
	xform   AxisTransform
	dec     *Decoder
	opts    ParseOptions
	state   plotterState
	pending []*polygon.Shape // never used: replicateStepRepeat reads doc.Polygons[sr.polygonStart:]

	regionRings   [][]point
	regionCurrent []point
}

// Parse reads one Gerber RS-274X input stream and compiles it to a
// Document. The returned error is non-nil only for an underlying I/O
// failure reading r; Gerber-level problems are recorded on Document.Err and
// Document.Warnings instead (§4.5, §7).
func Parse(r io.Reader, opts ParseOptions) (*Document, error) {
	text, err := decodeStream(r)
	if err != nil {
		return nil, err
	}
	if opts.ScaleX == 0 {
		opts.ScaleX = 1
	}
	if opts.ScaleY == 0 {
		opts.ScaleY = 1
	}

	p := &parser{
		doc:   newDocument(),
		store: aperture.NewStore(),
		unit:  Millimeters,
		xform: DefaultAxisTransform(),
		opts:  opts,
	}
	p.dec = &Decoder{DPI: opts.DPI, ScaleX: opts.ScaleX, ScaleY: opts.ScaleY, Transform: p.xform, Unit: p.unit}

	lx := newLexer(text)
	sawM02 := false
	for {
		tok := lx.next()
		if tok.kind == tokEOF {
			break
		}
		if sawM02 {
			p.doc.warn("trailing data after M02 ignored")
			continue
		}
		if p.doc.Err != nil {
			// A fatal was already recorded; keep scanning only far enough
			// to surface additional warnings is unnecessary, so stop.
			break
		}
		switch tok.kind {
		case tokParam:
			p.handleParam(tok.text)
		case tokData:
			if p.handleData(tok.text) {
				sawM02 = true
			}
		}
	}

	if p.doc.Err == nil && len(p.doc.Polygons) == 0 {
		p.doc.fail(KindEmptyImage, "no polygons produced")
	}
	return p.doc, nil
}

func (p *parser) syncDecoder() {
	p.dec.Format = p.fs
	p.dec.Unit = p.unit
	p.dec.Transform = p.xform
}

// handleParam dispatches one %...% block, which may itself contain several
// '*'-terminated statements (macro bodies in particular).
func (p *parser) handleParam(text string) {
	stmts := splitStatements(text)
	if len(stmts) == 0 {
		return
	}
	head := stmts[0]
	switch {
	case strings.HasPrefix(head, "FS"):
		p.handleFS(head)
	case strings.HasPrefix(head, "MO"):
		p.handleMO(head)
	case strings.HasPrefix(head, "AD"):
		p.handleAD(head)
	case strings.HasPrefix(head, "AM"):
		p.handleAM(head, stmts[1:])
	case strings.HasPrefix(head, "LP"):
		p.handleLP(head)
	case strings.HasPrefix(head, "IP"):
		p.handleIP(head)
	case strings.HasPrefix(head, "OF"):
		p.handleOF(head)
	case strings.HasPrefix(head, "MI"):
		p.handleMI(head)
	case strings.HasPrefix(head, "SF"):
		p.handleSF(head)
	case strings.HasPrefix(head, "SR"):
		p.handleSR(head)
	case strings.HasPrefix(head, "IN"), strings.HasPrefix(head, "IR"),
		strings.HasPrefix(head, "AS"), strings.HasPrefix(head, "IJ"),
		strings.HasPrefix(head, "KO"):
		p.doc.warn("ignored parameter block %%%s%%", head)
	default:
		p.doc.warn("unknown parameter block %%%s%%", head)
	}
}

func splitStatements(text string) []string {
	parts := strings.Split(text, "*")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (p *parser) handleFS(head string) {
	m := reFS.FindStringSubmatch(head)
	if m == nil {
		p.doc.fail(KindBadFormatSpec, "malformed %%FS block %q", head)
		return
	}
	if m[1] == "T" {
		p.fs.Zero = TrailingZeroSuppression
	} else {
		p.fs.Zero = LeadingZeroSuppression
	}
	if m[2] == "I" {
		p.fs.Mode = Incremental
	} else {
		p.fs.Mode = Absolute
	}
	p.fs.XInt, _ = strconv.Atoi(m[3])
	p.fs.XFrac, _ = strconv.Atoi(m[4])
	p.fs.YInt, _ = strconv.Atoi(m[5])
	p.fs.YFrac, _ = strconv.Atoi(m[6])
	p.fs.set = true
	p.syncDecoder()
}

func (p *parser) handleMO(head string) {
	rest := strings.TrimPrefix(head, "MO")
	if strings.HasPrefix(rest, "IN") {
		p.unit = Inches
	} else {
		p.unit = Millimeters
	}
	p.syncDecoder()
}

func (p *parser) handleLP(head string) {
	rest := strings.TrimPrefix(head, "LP")
	if strings.HasPrefix(rest, "C") {
		p.state.layerPolarity = LPClear
	} else {
		p.state.layerPolarity = LPDark
	}
}

func (p *parser) handleIP(head string) {
	rest := strings.TrimPrefix(head, "IP")
	p.doc.ImagePolarityDark = !strings.HasPrefix(rest, "NEG")
}

func (p *parser) handleOF(head string) {
	rest := strings.TrimPrefix(head, "OF")
	a, b := splitAxisFields(rest)
	if a != "" {
		if v, err := strconv.ParseFloat(a, 64); err == nil {
			p.xform.OffsetX = v * p.dec.unitsToPixels()
		}
	}
	if b != "" {
		if v, err := strconv.ParseFloat(b, 64); err == nil {
			p.xform.OffsetY = v * p.dec.unitsToPixels()
		}
	}
	p.syncDecoder()
}

func (p *parser) handleMI(head string) {
	rest := strings.TrimPrefix(head, "MI")
	a, b := splitAxisFields(rest)
	if v, err := strconv.Atoi(a); err == nil {
		p.xform.MirrorX = v != 0
	}
	if v, err := strconv.Atoi(b); err == nil {
		p.xform.MirrorY = v != 0
	}
	p.syncDecoder()
}

func (p *parser) handleSF(head string) {
	rest := strings.TrimPrefix(head, "SF")
	a, b := splitAxisFields(rest)
	if v, err := strconv.ParseFloat(a, 64); err == nil && v != 0 {
		p.xform.ScaleX = v
	}
	if v, err := strconv.ParseFloat(b, 64); err == nil && v != 0 {
		p.xform.ScaleY = v
	}
	p.syncDecoder()
}

// splitAxisFields splits an "A<val>B<val>" style field pair used by %OF,
// %MI, %SF.
func splitAxisFields(s string) (a, b string) {
	bi := strings.IndexByte(s, 'B')
	if !strings.HasPrefix(s, "A") || bi < 0 {
		return "", ""
	}
	return s[1:bi], s[bi+1:]
}

func (p *parser) handleSR(head string) {
	rest := strings.TrimPrefix(head, "SR")
	nx, ny := 1, 1
	var ix, iy float64
	reSR := regexp.MustCompile(`X(\d+)Y(\d+)I([0-9.]+)J([0-9.]+)`)
	if m := reSR.FindStringSubmatch(rest); m != nil {
		nx, _ = strconv.Atoi(m[1])
		ny, _ = strconv.Atoi(m[2])
		ix, _ = strconv.ParseFloat(m[3], 64)
		iy, _ = strconv.ParseFloat(m[4], 64)
	}

	if p.state.sr.active {
		p.replicateStepRepeat()
	}
	if nx > 1 || ny > 1 {
		p.state.sr = stepRepeat{Nx: nx, Ny: ny, Ix: ix, Iy: iy, active: true, polygonStart: len(p.doc.Polygons)}
	} else {
		p.state.sr = stepRepeat{}
	}
}

// handleAD parses "AD<Dnn><template>[,<modifiers separated by X>]".
func (p *parser) handleAD(head string) {
	rest := strings.TrimPrefix(head, "AD")
	if len(rest) == 0 || rest[0] != 'D' {
		p.doc.warn("malformed %%AD block %q", head)
		return
	}
	rest = rest[1:]
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i == 0 {
		p.doc.warn("malformed %%AD block %q: missing aperture number", head)
		return
	}
	n, _ := strconv.Atoi(rest[:i])
	rest = rest[i:]

	template := rest
	var modsRaw string
	if comma := strings.IndexByte(rest, ','); comma >= 0 {
		template = rest[:comma]
		modsRaw = rest[comma+1:]
	}
	var mods []float64
	if modsRaw != "" {
		for _, part := range strings.Split(modsRaw, "X") {
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				p.doc.warn("malformed %%AD modifier %q", part)
				continue
			}
			mods = append(mods, v)
		}
	}

	grow := p.opts.GrowPixels
	px := p.dec.unitsToPixels()
	var ap aperture.Aperture
	switch template {
	case "C":
		ap = aperture.Circle{Diameter: modAt(mods, 0)*px + grow, Hole: holeFrom(mods[min(len(mods), 1):], px)}
	case "R":
		ap = aperture.Rectangle{Width: modAt(mods, 0)*px + grow, Height: modAt(mods, 1)*px + grow, Hole: holeFrom(mods[min(len(mods), 2):], px)}
	case "O":
		ap = aperture.Obround{Width: modAt(mods, 0)*px + grow, Height: modAt(mods, 1)*px + grow, Hole: holeFrom(mods[min(len(mods), 2):], px)}
	case "P":
		ap = aperture.RegularPolygon{
			OuterDiameter: modAt(mods, 0)*px + grow,
			Vertices:      int(modAt(mods, 1)),
			Rotation:      modAt(mods, 2),
			Hole:          holeFrom(mods[min(len(mods), 3):], px),
		}
	default:
		macro, ok := p.store.Macro(template)
		if !ok {
			p.doc.fail(KindMalformedMacro, "aperture D%d references undefined macro %q", n, template)
			return
		}
		ap = aperture.MacroRef{Macro: macro, Args: mods, Scale: px}
	}
	if p.store.Define(n, ap) {
		p.doc.warn("aperture D%d redefined", n)
	}
}

func modAt(mods []float64, i int) float64 {
	if i < 0 || i >= len(mods) {
		return 0
	}
	return mods[i]
}

func holeFrom(mods []float64, px float64) *polygon.Hole {
	switch len(mods) {
	case 1:
		return &polygon.Hole{Circular: true, Diameter: mods[0] * px}
	case 2:
		return &polygon.Hole{Circular: false, Width: mods[0] * px, Height: mods[1] * px}
	default:
		return nil
	}
}

// handleAM parses "AM<name>" plus the primitive/assignment lines captured
// as separate '*'-terminated statements within the same %...% block.
func (p *parser) handleAM(head string, bodyLines []string) {
	name := strings.TrimPrefix(head, "AM")
	m, err := aperture.ParseMacroBody(name, bodyLines)
	if err != nil {
		p.doc.fail(KindMalformedMacro, "macro %q: %v", name, err)
		return
	}
	p.store.DefineMacro(m)
}

// replicateStepRepeat copies the polygons accumulated since the step-repeat
// block opened across the remaining Nx*Ny-1 grid positions. Per spec.md §9
// Open Questions, exact composition across intervening %LP changes is
// unspecified by the source this was distilled from; this implementation
// takes the simplest faithful reading: replicate the already-composited
// geometry verbatim at each grid offset (see DESIGN.md).
func (p *parser) replicateStepRepeat() {
	sr := p.state.sr
	original := append([]*polygon.Shape{}, p.doc.Polygons[sr.polygonStart:]...)
	ixPixels := sr.Ix * p.dec.unitsToPixels()
	iyPixels := sr.Iy * p.dec.unitsToPixels()
	for gy := 0; gy < sr.Ny; gy++ {
		for gx := 0; gx < sr.Nx; gx++ {
			if gx == 0 && gy == 0 {
				continue
			}
			dx, dy := int(float64(gx)*ixPixels), int(float64(gy)*iyPixels)
			for _, s := range original {
				clone := *s
				clone.OffsetX += dx
				clone.OffsetY += dy
				p.doc.addPolygon(&clone)
			}
		}
	}
}
