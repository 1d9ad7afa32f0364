package calc

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrInvalidNumeral         = errors.New("invalid numeral")
	ErrDanglingMinus          = errors.New("dangling minus")
	ErrUnsupportedUnaryTarget = errors.New("unsupported unary minus target")
	ErrMismatchedParenthesis  = errors.New("mismatched parenthesis")
	ErrStackUnderflow         = errors.New("stack underflow")
	ErrMalformedExpression    = errors.New("malformed expression")
)

// Stage identifies the pipeline stage that produced an error
type Stage int

const (
	StageTokenize Stage = iota
	StageFold
	StageReorder
	StageEvaluate
)

func (s Stage) String() string {
	switch s {
	case StageTokenize:
		return "tokenize"
	case StageFold:
		return "fold"
	case StageReorder:
		return "reorder"
	case StageEvaluate:
		return "evaluate"
	default:
		return "unknown"
	}
}

// Error is a failure of one pipeline stage. It unwraps to its Kind.
type Error struct {
	Stage Stage
	Kind  error
	Text  string // offending source text, if any
	Pos   int    // byte offset in the source text, -1 when unknown
}

func newError(stage Stage, kind error, text string, pos int) *Error {
	return &Error{Stage: stage, Kind: kind, Text: text, Pos: pos}
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Text != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Text)
	}
	if e.Pos >= 0 {
		msg = fmt.Sprintf("%s at position %d", msg, e.Pos)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// KindName returns a stable short name for the error kind of err, or
// "internal" when err did not come from the pipeline.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrInvalidNumeral):
		return "invalid_numeral"
	case errors.Is(err, ErrDanglingMinus):
		return "dangling_minus"
	case errors.Is(err, ErrUnsupportedUnaryTarget):
		return "unsupported_unary_target"
	case errors.Is(err, ErrMismatchedParenthesis):
		return "mismatched_parenthesis"
	case errors.Is(err, ErrStackUnderflow):
		return "stack_underflow"
	case errors.Is(err, ErrMalformedExpression):
		return "malformed_expression"
	default:
		return "internal"
	}
}
