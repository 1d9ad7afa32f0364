package calc

// Fold resolves every OpMinus token into either a binary operator or the
// sign of the literal that follows it.
//
// A minus is binary when the previously emitted token ends an operand (a
// literal or ")"). Otherwise it is unary:
//   - before a literal it is fused into the literal's sign
//   - before "(" the group is rewritten to "( 0 - ( ... ) )"
//   - before anything else it fails with ErrUnsupportedUnaryTarget
//   - at the end of input it fails with ErrDanglingMinus
func Fold(tokens []Token) ([]Token, error) {
	return fold(tokens, false)
}

// fold drops a unary minus whose target is not a literal when legacy is
// set, forwarding the following token unchanged.
func fold(tokens []Token, legacy bool) ([]Token, error) {
	out := make([]Token, 0, len(tokens))
	// raw index of a ")" -> number of synthetic ")" to emit after it
	pendingClose := make(map[int]int)

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if !tok.IsOperator(OpMinus) || endsOperand(out) {
			out = append(out, tok)
			for n := pendingClose[i]; n > 0; n-- {
				out = append(out, RightParenToken().at(tok.Pos))
			}
			continue
		}

		if i+1 >= len(tokens) {
			return nil, newError(StageFold, ErrDanglingMinus, "", tok.Pos)
		}

		next := tokens[i+1]
		switch {
		case next.IsLiteral():
			out = append(out, negate(next).at(tok.Pos))
			i++
		case legacy:
			out = append(out, next)
			i++
		case next.Kind == KindLeftParen:
			out = append(out,
				LeftParenToken().at(tok.Pos),
				IntegerToken(0).at(tok.Pos),
				OperatorToken(OpMinus).at(tok.Pos),
			)
			if closing := matchingParen(tokens, i+1); closing >= 0 {
				pendingClose[closing]++
			}
		default:
			return nil, newError(StageFold, ErrUnsupportedUnaryTarget, next.String(), next.Pos)
		}
	}

	return out, nil
}

func endsOperand(out []Token) bool {
	if len(out) == 0 {
		return false
	}
	last := out[len(out)-1]
	return last.IsLiteral() || last.Kind == KindRightParen
}

func negate(tok Token) Token {
	if tok.Kind == KindInteger {
		tok.Int = -tok.Int
	} else {
		tok.Float = -tok.Float
	}
	return tok
}

// matchingParen returns the index of the ")" closing the "(" at open, or -1
func matchingParen(tokens []Token, open int) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case KindLeftParen:
			depth++
		case KindRightParen:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
