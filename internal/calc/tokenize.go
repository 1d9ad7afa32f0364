package calc

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// isDelimiter reports whether c ends a numeral
func isDelimiter(c byte) bool {
	if isWhitespace(c) || c == '(' || c == ')' {
		return true
	}
	_, ok := OperatorFromRune(rune(c))
	return ok
}

// Tokenize splits text into tokens. Every '-' becomes an OpMinus operator;
// deciding between unary and binary minus is left to Fold. A numeral that
// cannot be parsed fails with ErrInvalidNumeral.
func Tokenize(text string) ([]Token, error) {
	return tokenize(text, false)
}

// tokenize drops unparsable numerals instead of failing when dropInvalid is set
func tokenize(text string, dropInvalid bool) ([]Token, error) {
	tokens := make([]Token, 0, len(text)/2+1)

	idx := 0
	for idx < len(text) {
		c := text[idx]
		if isWhitespace(c) {
			idx++
			continue
		}

		switch c {
		case '(':
			tokens = append(tokens, LeftParenToken().at(idx))
			idx++
			continue
		case ')':
			tokens = append(tokens, RightParenToken().at(idx))
			idx++
			continue
		}

		if op, ok := OperatorFromRune(rune(c)); ok {
			tokens = append(tokens, OperatorToken(op).at(idx))
			idx++
			continue
		}

		start := idx
		for idx < len(text) && !isDelimiter(text[idx]) {
			idx++
		}
		raw := text[start:idx]

		tok, ok := parseNumeral(raw)
		if !ok {
			if dropInvalid {
				continue
			}
			return nil, newError(StageTokenize, ErrInvalidNumeral, raw, start)
		}
		tokens = append(tokens, tok.at(start))
	}

	return tokens, nil
}

// parseNumeral classifies raw as hexadecimal, float or decimal and parses it
func parseNumeral(raw string) (Token, bool) {
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		digits := raw[2:]
		if !isHexDigits(digits) {
			return Token{}, false
		}
		n, err := strconv.ParseInt(digits, 16, 64)
		if err != nil {
			return Token{}, false
		}
		return IntegerToken(n), true
	}

	if strings.Contains(raw, ".") {
		if !isFloatText(raw) {
			return Token{}, false
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil && !(errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0)) {
			return Token{}, false
		}
		return FloatToken(f), true
	}

	if !isDecimalDigits(raw) {
		return Token{}, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Token{}, false
	}
	return IntegerToken(n), true
}

func isHexDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func isDecimalDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isFloatText accepts digits with one '.', an optional exponent, and at
// least one digit in the mantissa. It keeps strconv.ParseFloat from
// accepting spellings such as "inf" or underscores.
func isFloatText(s string) bool {
	mantissa, exponent, hasExp := strings.Cut(strings.ToLower(s), "e")
	intPart, fracPart, _ := strings.Cut(mantissa, ".")
	if intPart == "" && fracPart == "" {
		return false
	}
	if intPart != "" && !isDecimalDigits(intPart) {
		return false
	}
	if fracPart != "" && !isDecimalDigits(fracPart) {
		return false
	}
	if hasExp {
		return isDecimalDigits(exponent)
	}
	return true
}
