package gerber

import (
	"regexp"
	"strconv"
	"strings"
)

var reDCodeOnly = regexp.MustCompile(`^D(\d+)$`)

// handleData dispatches one '*'-terminated data-block statement. It returns
// true once M02 (end of file) has been seen.
func (p *parser) handleData(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if strings.HasPrefix(text, "G04") {
		return false // comment
	}
	switch text {
	case "M02":
		return true
	case "M00", "M01":
		return false
	}

	for _, gm := range reGCode.FindAllStringSubmatch(text, -1) {
		switch gm[1] {
		case "1", "01":
			p.state.interpolation = Linear
		case "2", "02":
			p.state.interpolation = ClockwiseArc
		case "3", "03":
			p.state.interpolation = CounterClockwiseArc
		case "36":
			p.enterRegion()
		case "37":
			p.exitRegion()
		case "74":
			p.state.quadrant = SingleQuadrant
		case "75":
			p.state.quadrant = MultiQuadrant
		}
	}

	if m := reDCodeOnly.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n >= 10 {
			if _, ok := p.store.Get(n); !ok {
				p.doc.fail(KindUnknownAperture, "D%d not defined", n)
				return false
			}
			p.state.aperture = n
			p.state.apertureSet = true
		}
		return false
	}

	fields := reField.FindAllStringSubmatch(text, -1)
	if len(fields) == 0 {
		return false
	}

	var xRaw, yRaw, iRaw, jRaw string
	var hasX, hasY, hasI, hasJ, hasD bool
	dcode := 0
	for _, f := range fields {
		switch f[1] {
		case "X":
			xRaw, hasX = f[2], true
		case "Y":
			yRaw, hasY = f[2], true
		case "I":
			iRaw, hasI = f[2], true
		case "J":
			jRaw, hasJ = f[2], true
		case "D":
			v, _ := strconv.Atoi(f[2])
			dcode, hasD = v, true
		}
	}

	if hasD && dcode >= 10 {
		if _, ok := p.store.Get(dcode); !ok {
			p.doc.fail(KindUnknownAperture, "D%d not defined", dcode)
			return false
		}
		p.state.aperture = dcode
		p.state.apertureSet = true
		return false
	}

	newX, newY := p.state.x, p.state.y
	outOfRange := false
	if hasX {
		v, oor, err := p.dec.Decode(xRaw, true, p.state.x)
		if err != nil {
			p.doc.fail(KindFormatNotSet, "%v", err)
			return false
		}
		newX, outOfRange = v, outOfRange || oor
	}
	if hasY {
		v, oor, err := p.dec.Decode(yRaw, false, p.state.y)
		if err != nil {
			p.doc.fail(KindFormatNotSet, "%v", err)
			return false
		}
		newY, outOfRange = v, outOfRange || oor
	}
	if outOfRange {
		p.doc.warn("coordinate digit count out of range in %q", text)
	}

	var iVal, jVal float64
	if hasI {
		v, _, err := p.dec.DecodeDelta(iRaw, true)
		if err != nil {
			p.doc.fail(KindFormatNotSet, "%v", err)
			return false
		}
		iVal = v
	}
	if hasJ {
		v, _, err := p.dec.DecodeDelta(jRaw, false)
		if err != nil {
			p.doc.fail(KindFormatNotSet, "%v", err)
			return false
		}
		jVal = v
	}

	switch {
	case hasD && dcode == 3:
		p.doFlash(newX, newY)
		p.state.x, p.state.y = newX, newY
	case hasD && dcode == 2:
		p.doMove(newX, newY)
		p.state.x, p.state.y = newX, newY
	case hasD && dcode == 1:
		p.doDraw(newX, newY, iVal, jVal, hasI, hasJ)
		p.state.x, p.state.y = newX, newY
	default:
		p.state.x, p.state.y = newX, newY
	}
	return false
}
