package calc

import (
	"math"
	"strconv"
	"strings"
)

// TokenKind discriminates the variants of Token
type TokenKind int

const (
	// KindInteger is a signed 64-bit integer literal
	KindInteger TokenKind = iota
	// KindFloat is a 64-bit floating point literal
	KindFloat
	// KindOperator is one of + - * / ^
	KindOperator
	// KindLeftParen is "("
	KindLeftParen
	// KindRightParen is ")"
	KindRightParen
)

// String returns string representation of the token kind
func (k TokenKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindOperator:
		return "operator"
	case KindLeftParen:
		return "left parenthesis"
	case KindRightParen:
		return "right parenthesis"
	default:
		return "unknown"
	}
}

// Token is a single lexical unit of an expression. Only the field matching
// Kind carries a value.
type Token struct {
	Kind  TokenKind
	Int   int64
	Float float64
	Op    Operator
	Pos   int // byte offset in the source text
}

// IntegerToken creates an integer literal token
func IntegerToken(n int64) Token {
	return Token{Kind: KindInteger, Int: n}
}

// FloatToken creates a float literal token
func FloatToken(f float64) Token {
	return Token{Kind: KindFloat, Float: f}
}

// OperatorToken creates an operator token
func OperatorToken(op Operator) Token {
	return Token{Kind: KindOperator, Op: op}
}

// LeftParenToken creates a "(" token
func LeftParenToken() Token {
	return Token{Kind: KindLeftParen}
}

// RightParenToken creates a ")" token
func RightParenToken() Token {
	return Token{Kind: KindRightParen}
}

// at returns a copy of t positioned at pos
func (t Token) at(pos int) Token {
	t.Pos = pos
	return t
}

// IsLiteral reports whether the token is a numeric literal
func (t Token) IsLiteral() bool {
	return t.Kind == KindInteger || t.Kind == KindFloat
}

// IsOperator reports whether the token is the given operator
func (t Token) IsOperator(op Operator) bool {
	return t.Kind == KindOperator && t.Op == op
}

// Value returns the numeric value of a literal token, widening integers to float64
func (t Token) Value() float64 {
	if t.Kind == KindInteger {
		return float64(t.Int)
	}
	return t.Float
}

// String renders the token the way it would appear in source text
func (t Token) String() string {
	switch t.Kind {
	case KindInteger:
		return strconv.FormatInt(t.Int, 10)
	case KindFloat:
		return formatFloatLiteral(t.Float)
	case KindOperator:
		return t.Op.String()
	case KindLeftParen:
		return "("
	case KindRightParen:
		return ")"
	default:
		return "?"
	}
}

// formatFloatLiteral keeps a fraction on integral floats so 1.0 stays
// distinguishable from the integer 1
func formatFloatLiteral(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return FormatResult(v)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatTokens renders a token sequence as "[3 4 +]"
func FormatTokens(tokens []Token) string {
	var builder strings.Builder
	builder.WriteByte('[')
	for i, tok := range tokens {
		if i > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(tok.String())
	}
	builder.WriteByte(']')
	return builder.String()
}

// FormatResult renders a computed value: integral values without a fraction,
// infinities as "inf"/"-inf" and NaN as "NaN".
func FormatResult(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
