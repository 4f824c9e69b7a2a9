package sql

import (
	"fmt"
	"strings"
)

// Expression is a SQL fragment embedded in a schema statement: a CHECK
// condition, a DEFAULT value or a partial index predicate.
//
// Arguments are always inlined as literals. Schema statements cannot bind
// parameters, so an Expression never renders a placeholder.
type Expression struct {
	kind  exprKind
	text  string
	args  []any
	value any
}

type exprKind uint8

const (
	exprNone exprKind = iota
	exprRaw
	exprFormat
	exprLiteral
)

// Raw returns an expression holding the given SQL text verbatim. Question
// marks in the text are kept as is.
//
//	Raw("length(name) > 0")
func Raw(text string) Expression {
	return Expression{kind: exprRaw, text: text}
}

// Expr returns an expression whose "?" markers are replaced, in order, by
// the literal text of args. Markers inside quoted strings or identifiers are
// left untouched. Numbered and named parameters fail to render.
//
//	Expr("score > ?", 0)          // score > 0
//	Expr("status IN (?, ?)", "a", "b") // status IN ('a', 'b')
func Expr(text string, args ...any) Expression {
	return Expression{kind: exprFormat, text: text, args: args}
}

// Lit returns an expression rendering the literal text of v.
//
//	Lit("guest") // 'guest'
//	Lit(nil)     // NULL
func Lit(v any) Expression {
	return Expression{kind: exprLiteral, value: v}
}

// IsZero reports whether the expression was never set.
func (e Expression) IsZero() bool {
	return e.kind == exprNone
}

// SQL returns the rendered expression with all values inlined.
func (e Expression) SQL() (string, error) {
	switch e.kind {
	case exprRaw:
		return e.text, nil
	case exprFormat:
		return inline(e.text, e.args)
	case exprLiteral:
		return Literal(e.value)
	default:
		return "", fmt.Errorf("dialect/sql: empty expression")
	}
}

// inline replaces each unquoted "?" of text by the literal of the next arg.
// Numbered ("?1") and named (":a", "@a", "$a") parameters cannot be
// inlined positionally and are rejected.
func inline(text string, args []any) (string, error) {
	var (
		b     strings.Builder
		next  int
		quote byte
	)
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '[':
			quote = ']'
		case c == '?':
			if i+1 < len(text) && isDigit(text[i+1]) {
				return "", fmt.Errorf("dialect/sql: expression %q: numbered parameter %q is not supported", text, "?"+identAt(text, i+1))
			}
			if next == len(args) {
				return "", fmt.Errorf("dialect/sql: expression %q: missing argument %d", text, next+1)
			}
			lit, err := Literal(args[next])
			if err != nil {
				return "", err
			}
			b.WriteString(lit)
			next++
			continue
		case (c == ':' || c == '@' || c == '$') && i+1 < len(text) && isIdent(text[i+1]) && (i == 0 || !isIdent(text[i-1])):
			return "", fmt.Errorf("dialect/sql: expression %q: named parameter %q is not supported", text, string(c)+identAt(text, i+1))
		}
		b.WriteByte(c)
	}
	if next != len(args) {
		return "", fmt.Errorf("dialect/sql: expression %q: %d arguments for %d markers", text, len(args), next)
	}
	return b.String(), nil
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// isIdent reports whether c may appear in an unquoted identifier. Bytes of
// multi-byte characters count as identifier bytes, as in SQLite.
func isIdent(c byte) bool {
	l := c | 0x20
	return isDigit(c) || c == '_' || c == '$' || ('a' <= l && l <= 'z') || c >= 0x80
}

// identAt returns the identifier characters of text starting at i.
func identAt(text string, i int) string {
	j := i
	for j < len(text) && isIdent(text[j]) {
		j++
	}
	return text[i:j]
}
