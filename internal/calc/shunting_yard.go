package calc

// Reorder converts an infix token sequence to postfix with the
// shunting-yard algorithm. Every operator is left-associative.
func Reorder(tokens []Token) ([]Token, error) {
	return reorder(tokens, LeftAssociative())
}

func reorder(tokens []Token, assoc AssociativityTable) ([]Token, error) {
	output := make([]Token, 0, len(tokens))
	stack := make([]Token, 0, len(tokens)/2+1)

	for _, tok := range tokens {
		switch tok.Kind {
		case KindInteger, KindFloat:
			output = append(output, tok)

		case KindOperator:
			o1 := tok.Op
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.Kind != KindOperator || !popsBefore(top.Op, o1, assoc) {
					break
				}
				output = append(output, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)

		case KindLeftParen:
			stack = append(stack, tok)

		case KindRightParen:
			found := false
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.Kind == KindLeftParen {
					found = true
					break
				}
				output = append(output, top)
			}
			if !found {
				return nil, newError(StageReorder, ErrMismatchedParenthesis, ")", tok.Pos)
			}
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.Kind == KindLeftParen || top.Kind == KindRightParen {
			return nil, newError(StageReorder, ErrMismatchedParenthesis, top.String(), top.Pos)
		}
		output = append(output, top)
	}

	return output, nil
}

// popsBefore reports whether the stacked operator o2 must be emitted before
// pushing the incoming operator o1
func popsBefore(o2, o1 Operator, assoc AssociativityTable) bool {
	if o2.Precedence() > o1.Precedence() {
		return true
	}
	return o2.Precedence() == o1.Precedence() && assoc.Of(o1) == AssocLeft
}
