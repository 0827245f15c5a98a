package aperture

import (
	"fmt"
	"strconv"
	"strings"
)

// Primitive codes, per §3 "aperture macro primitive set".
const (
	PrimComment        = 0
	PrimCircle         = 1
	PrimVectorLine     = 2
	PrimCenterLine     = 20 // historical alias, some generators emit 20
	PrimCenterLineMod  = 21
	PrimOutline        = 4
	PrimRegularPolygon = 5
	PrimMoire          = 6
	PrimThermal        = 7
)

// assignment is a `$k=<expr>` macro variable definition.
type assignment struct {
	index int
	expr  Expr
}

// macroPrimitive is one parsed primitive invocation. Comment lines (code
// PrimComment) are skipped by ParseMacroBody and never stored.
type macroPrimitive struct {
	code int
	args []Expr
}

// Macro is a parsed `%AM` template: variable assignments interleaved with
// primitive invocations, each holding an expression tree evaluated at
// instantiation time.
type Macro struct {
	Name string
	body []bodyItem
}

type bodyItem struct {
	assign *assignment
	prim   *macroPrimitive
}

// ParseMacroBody parses the asterisk-terminated lines of a
// `%AM<name>*<body>%` block (the name itself already stripped by the
// caller). A line starting with "0" is a comment and is skipped; a line of
// the form "$k=<expr>" defines a macro variable; anything else is
// "<code>,<expr>,<expr>,...".
func ParseMacroBody(name string, lines []string) (*Macro, error) {
	m := &Macro{Name: name}
	for _, line := range lines {
		line = strings.TrimSpace(strings.TrimSuffix(line, "*"))
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "0") {
			continue // comment primitive
		}
		if strings.HasPrefix(line, "$") {
			eq := strings.IndexByte(line, '=')
			if eq < 0 {
				return nil, fmt.Errorf("malformed macro variable assignment %q", line)
			}
			idxStr := strings.TrimSpace(line[1:eq])
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, fmt.Errorf("malformed macro variable index %q: %w", idxStr, err)
			}
			e, err := ParseExpr(strings.TrimSpace(line[eq+1:]))
			if err != nil {
				return nil, fmt.Errorf("malformed macro variable expression: %w", err)
			}
			m.body = append(m.body, bodyItem{assign: &assignment{index: idx, expr: e}})
			continue
		}
		parts := SplitArgs(line)
		if len(parts) == 0 {
			continue
		}
		code, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("malformed macro primitive code %q: %w", parts[0], err)
		}
		if code == PrimComment {
			continue
		}
		prim := &macroPrimitive{code: code}
		for _, a := range parts[1:] {
			e, err := ParseExpr(a)
			if err != nil {
				return nil, fmt.Errorf("malformed macro primitive argument %q: %w", a, err)
			}
			prim.args = append(prim.args, e)
		}
		m.body = append(m.body, bodyItem{prim: prim})
	}
	return m, nil
}
