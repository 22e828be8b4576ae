// Package atomese reads and writes atoms in Atomese, the s-expression
// notation used by AtomSpace .scm files.
package atomese

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/robert-haas/mevis/internal/atom"
)

// SyntaxError reports malformed input with its position.
type SyntaxError struct {
	Line, Col int
	Msg       string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d col %d: %s", e.Line, e.Col, e.Msg)
}

type exprKind int

const (
	exprList exprKind = iota
	exprString
	exprSymbol
	exprNumber
)

type expr struct {
	kind      exprKind
	text      string
	items     []*expr
	line, col int
}

type lexer struct {
	r         *bufio.Reader
	line, col int
	peeked    *rune
}

func (l *lexer) next() (rune, error) {
	if l.peeked != nil {
		c := *l.peeked
		l.peeked = nil
		l.advance(c)
		return c, nil
	}
	c, _, err := l.r.ReadRune()
	if err != nil {
		return 0, err
	}
	l.advance(c)
	return c, nil
}

func (l *lexer) advance(c rune) {
	if c == '\n' {
		l.line++
		l.col = 0
		return
	}
	l.col++
}

func (l *lexer) peek() (rune, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}
	c, _, err := l.r.ReadRune()
	if err != nil {
		return 0, err
	}
	l.peeked = &c
	return c, nil
}

func (l *lexer) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Line: l.line, Col: l.col, Msg: fmt.Sprintf(format, args...)}
}

// skipSpace skips whitespace and ; comments.
func (l *lexer) skipSpace() error {
	for {
		c, err := l.peek()
		if err != nil {
			return err
		}
		switch {
		case unicode.IsSpace(c):
			l.next()
		case c == ';':
			for c != '\n' {
				if c, err = l.next(); err != nil {
					return err
				}
			}
		default:
			return nil
		}
	}
}

// readExpr reads one expression. It returns io.EOF only between expressions.
func (l *lexer) readExpr() (*expr, error) {
	if err := l.skipSpace(); err != nil {
		return nil, err
	}
	c, err := l.peek()
	if err != nil {
		return nil, err
	}
	line, col := l.line, l.col+1

	switch {
	case c == '(':
		l.next()
		e := &expr{kind: exprList, line: line, col: col}
		for {
			if err := l.skipSpace(); err != nil {
				return nil, l.errorf("unterminated list opened at line %d col %d", line, col)
			}
			c, _ := l.peek()
			if c == ')' {
				l.next()
				return e, nil
			}
			item, err := l.readExpr()
			if err != nil {
				if err == io.EOF {
					return nil, l.errorf("unterminated list opened at line %d col %d", line, col)
				}
				return nil, err
			}
			e.items = append(e.items, item)
		}
	case c == ')':
		l.next()
		return nil, l.errorf("unexpected ')'")
	case c == '"':
		l.next()
		s, err := l.readString()
		if err != nil {
			return nil, err
		}
		return &expr{kind: exprString, text: s, line: line, col: col}, nil
	default:
		tok := l.readToken()
		kind := exprSymbol
		if _, err := strconv.ParseFloat(tok, 64); err == nil {
			kind = exprNumber
		}
		return &expr{kind: kind, text: tok, line: line, col: col}, nil
	}
}

func (l *lexer) readString() (string, error) {
	var sb strings.Builder
	for {
		c, err := l.next()
		if err != nil {
			return "", l.errorf("unterminated string")
		}
		switch c {
		case '"':
			return sb.String(), nil
		case '\\':
			esc, err := l.next()
			if err != nil {
				return "", l.errorf("unterminated string")
			}
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				sb.WriteRune(esc)
			}
		default:
			sb.WriteRune(c)
		}
	}
}

func (l *lexer) readToken() string {
	var sb strings.Builder
	for {
		c, err := l.peek()
		if err != nil || unicode.IsSpace(c) || c == '(' || c == ')' || c == '"' || c == ';' {
			return sb.String()
		}
		l.next()
		sb.WriteRune(c)
	}
}

// Parse reads Atomese from r into space. Top-level forms that are not
// atoms, such as (use-modules ...), are skipped. It returns the number of
// top-level atoms read.
func Parse(r io.Reader, space *atom.Space) (int, error) {
	l := &lexer{r: bufio.NewReader(r), line: 1}
	count := 0
	for {
		e, err := l.readExpr()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, err
		}
		if e.kind != exprList || len(e.items) == 0 || e.items[0].kind != exprSymbol || !isTypeName(e.items[0].text) {
			continue
		}
		if _, err := build(e, space); err != nil {
			return count, err
		}
		count++
	}
}

// ParseFile reads an Atomese file into a new space.
func ParseFile(path string) (*atom.Space, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening atomese file: %w", err)
	}
	defer f.Close()

	space := atom.NewSpace()
	if _, err := Parse(f, space); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return space, nil
}

// isTypeName reports whether a head symbol names an atom type rather than
// a scheme procedure: atom types are CamelCase.
func isTypeName(s string) bool {
	if s == "" {
		return false
	}
	c := rune(s[0])
	return unicode.IsUpper(c) && !strings.ContainsAny(s, "-!?")
}

func build(e *expr, space *atom.Space) (*atom.Atom, error) {
	errAt := func(format string, args ...interface{}) error {
		return &SyntaxError{Line: e.line, Col: e.col, Msg: fmt.Sprintf(format, args...)}
	}

	head := e.items[0]
	if head.kind != exprSymbol || !isTypeName(head.text) {
		return nil, errAt("expected atom type, got %q", head.text)
	}
	t := atom.Type(head.text)
	args := e.items[1:]

	// Nodes carry the truth value after the name, links before the
	// outgoing set. Accept either position.
	var tv *atom.TruthValue
	rest := make([]*expr, 0, len(args))
	for _, arg := range args {
		if !isTruthValue(arg) {
			rest = append(rest, arg)
			continue
		}
		if tv != nil {
			return nil, errAt("%s has more than one truth value", t)
		}
		var err error
		if tv, err = parseTruthValue(arg); err != nil {
			return nil, err
		}
	}
	args = rest

	if isNodeForm(t, args, space) {
		if len(args) != 1 {
			return nil, errAt("%s expects exactly one name", t)
		}
		a, err := space.AddNode(t, args[0].text, tv)
		if err != nil {
			return nil, errAt("%v", err)
		}
		return a, nil
	}

	outgoing := make([]string, 0, len(args))
	for _, arg := range args {
		if arg.kind != exprList || len(arg.items) == 0 {
			return nil, errAt("%s expects atoms as arguments", t)
		}
		child, err := build(arg, space)
		if err != nil {
			return nil, err
		}
		outgoing = append(outgoing, child.ID)
	}
	a, err := space.AddLink(t, outgoing, tv)
	if err != nil {
		return nil, errAt("%v", err)
	}
	return a, nil
}

// isNodeForm decides whether a form denotes a node: a known node type, a
// name ending in "Node", or a single string or number argument.
func isNodeForm(t atom.Type, args []*expr, space *atom.Space) bool {
	types := space.Types()
	if types.Known(t) {
		return types.IsA(t, atom.TypeNode)
	}
	if strings.HasSuffix(string(t), "Node") {
		return true
	}
	if strings.HasSuffix(string(t), "Link") {
		return false
	}
	return len(args) == 1 && args[0].kind != exprList
}

func isTruthValue(e *expr) bool {
	if e.kind != exprList || len(e.items) == 0 || e.items[0].kind != exprSymbol {
		return false
	}
	switch e.items[0].text {
	case "stv", "SimpleTruthValue", "cog-new-stv":
		return true
	}
	return false
}

func parseTruthValue(e *expr) (*atom.TruthValue, error) {
	if len(e.items) != 3 {
		return nil, &SyntaxError{Line: e.line, Col: e.col, Msg: "truth value expects mean and confidence"}
	}
	vals := make([]float64, 2)
	for i, item := range e.items[1:] {
		v, err := strconv.ParseFloat(item.text, 64)
		if err != nil || item.kind != exprNumber {
			return nil, &SyntaxError{Line: item.line, Col: item.col, Msg: fmt.Sprintf("invalid truth value number %q", item.text)}
		}
		vals[i] = v
	}
	return &atom.TruthValue{Mean: vals[0], Confidence: vals[1]}, nil
}
