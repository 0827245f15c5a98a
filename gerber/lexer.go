package gerber

import (
	"io"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// decodeStream reads the full Gerber byte stream through a Windows-1252
// decoder (§3.2: a strict superset of 7-bit ASCII, so pure-ASCII files pass
// through unchanged while legacy comments with extended characters decode
// cleanly instead of producing invalid UTF-8).
func decodeStream(r io.Reader) (string, error) {
	tr := transform.NewReader(r, charmap.Windows1252.NewDecoder())
	b, err := io.ReadAll(tr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokParam
	tokData
)

type gtoken struct {
	kind tokenKind
	text string
}

// lexer splits the decoded Gerber text into parameter blocks (the content
// between a %...% pair, which may itself contain several '*'-terminated
// statements) and data blocks (a single '*'-terminated statement outside
// any parameter block), per §4 "Lexer/Coordinate decoder."
type lexer struct {
	data []byte
	pos  int
}

func newLexer(s string) *lexer {
	return &lexer{data: []byte(s)}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.data) {
		switch l.data[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
			continue
		}
		break
	}
}

func (l *lexer) next() gtoken {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return gtoken{kind: tokEOF}
	}
	if l.data[l.pos] == '%' {
		l.pos++
		start := l.pos
		for l.pos < len(l.data) && l.data[l.pos] != '%' {
			l.pos++
		}
		text := string(l.data[start:l.pos])
		if l.pos < len(l.data) {
			l.pos++ // consume closing %
		}
		return gtoken{kind: tokParam, text: text}
	}
	start := l.pos
	for l.pos < len(l.data) && l.data[l.pos] != '*' {
		l.pos++
	}
	text := string(l.data[start:l.pos])
	if l.pos < len(l.data) {
		l.pos++ // consume '*'
	}
	return gtoken{kind: tokData, text: text}
}
