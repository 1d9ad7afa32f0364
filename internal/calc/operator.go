package calc

import "math"

// Operator is a binary arithmetic operator
type Operator int

const (
	OpPlus Operator = iota
	OpMinus
	OpMul
	OpDiv
	OpExp
)

// Associativity decides grouping between operators of equal precedence
type Associativity int

const (
	// AssocLeft groups a op b op c as (a op b) op c
	AssocLeft Associativity = iota
	// AssocRight groups a op b op c as a op (b op c)
	AssocRight
)

// AssociativityTable maps each operator to its associativity. Operators
// missing from the table are left-associative.
type AssociativityTable map[Operator]Associativity

// Of returns the associativity of op
func (t AssociativityTable) Of(op Operator) Associativity {
	if assoc, ok := t[op]; ok {
		return assoc
	}
	return AssocLeft
}

// LeftAssociative treats every operator, including ^, as left-associative
func LeftAssociative() AssociativityTable {
	return AssociativityTable{}
}

// RightAssociativeExponent makes ^ right-associative, as in conventional notation
func RightAssociativeExponent() AssociativityTable {
	return AssociativityTable{OpExp: AssocRight}
}

// OperatorFromRune maps an operator character to its Operator
func OperatorFromRune(r rune) (Operator, bool) {
	switch r {
	case '+':
		return OpPlus, true
	case '-':
		return OpMinus, true
	case '*':
		return OpMul, true
	case '/':
		return OpDiv, true
	case '^':
		return OpExp, true
	default:
		return 0, false
	}
}

// Precedence returns the binding rank; higher binds tighter
func (o Operator) Precedence() int {
	switch o {
	case OpExp:
		return 3
	case OpMul, OpDiv:
		return 2
	default:
		return 1
	}
}

// Apply computes a OP b, where a was pushed before b
func (o Operator) Apply(a, b float64) float64 {
	switch o {
	case OpPlus:
		return a + b
	case OpMinus:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpExp:
		return math.Pow(a, b)
	default:
		panic("calc: unknown operator " + o.String())
	}
}

func (o Operator) String() string {
	switch o {
	case OpPlus:
		return "+"
	case OpMinus:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpExp:
		return "^"
	default:
		return "?"
	}
}
