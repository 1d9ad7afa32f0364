package calc

// Evaluate runs a postfix token sequence on a value stack and returns the
// single remaining value.
//
// A parenthesis in tokens is a programming error upstream and panics.
func Evaluate(tokens []Token) (float64, error) {
	return evaluate(tokens, nil)
}

// stepFunc observes each token together with the stack before it is applied
type stepFunc func(tok Token, stack []float64)

func evaluate(tokens []Token, step stepFunc) (float64, error) {
	stack := make([]float64, 0, len(tokens)/2+1)

	for _, tok := range tokens {
		if step != nil {
			step(tok, stack)
		}

		switch tok.Kind {
		case KindInteger, KindFloat:
			stack = append(stack, tok.Value())

		case KindOperator:
			if len(stack) < 2 {
				return 0, newError(StageEvaluate, ErrStackUnderflow, tok.Op.String(), tok.Pos)
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, tok.Op.Apply(a, b))

		default:
			panic("calc: " + tok.Kind.String() + " reached the evaluator")
		}
	}

	if len(stack) != 1 {
		return 0, newError(StageEvaluate, ErrMalformedExpression, "", -1)
	}
	return stack[0], nil
}
