// Package calc evaluates arithmetic expressions.
//
// An expression flows through four stages, each a pure function over a
// token sequence:
//
//	Tokenize -> Fold -> Reorder -> Evaluate
//
// Tokenize splits the text, Fold decides between unary and binary minus,
// Reorder converts infix to postfix with the shunting-yard algorithm and
// Evaluate runs the postfix sequence on a value stack. Compute threads the
// stages and stops at the first failure.
package calc

import (
	"github.com/codefionn/yardcalc/internal/logger"
)

// Options holds the compatibility switches of an Engine. The zero value is
// the strict behavior.
type Options struct {
	// LegacyNumerals drops unparsable numerals instead of failing
	LegacyNumerals bool
	// LegacyUnary drops a unary minus before a non-literal instead of
	// rewriting "-(...)" or failing
	LegacyUnary bool
	// RightAssocExponent makes ^ right-associative
	RightAssocExponent bool
}

// Engine runs the pipeline with a fixed set of options. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	opts  Options
	assoc AssociativityTable
	log   *logger.Logger
}

// Explanation holds every intermediate sequence of one Compute call
type Explanation struct {
	Expression string
	Tokens     []Token
	Folded     []Token
	Postfix    []Token
	Result     float64
}

var defaultEngine = New(Options{})

// New creates an engine. It logs through the global logger unless
// WithLogger is used.
func New(opts Options) *Engine {
	assoc := LeftAssociative()
	if opts.RightAssocExponent {
		assoc = RightAssociativeExponent()
	}
	return &Engine{opts: opts, assoc: assoc}
}

// WithLogger returns a copy of the engine that logs to l
func (e *Engine) WithLogger(l *logger.Logger) *Engine {
	clone := *e
	clone.log = l
	return &clone
}

// Options returns the options the engine was created with
func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) logger() *logger.Logger {
	if e.log != nil {
		return e.log
	}
	return logger.Global()
}

// Tokenize is Tokenize honoring LegacyNumerals
func (e *Engine) Tokenize(text string) ([]Token, error) {
	return tokenize(text, e.opts.LegacyNumerals)
}

// Fold is Fold honoring LegacyUnary
func (e *Engine) Fold(tokens []Token) ([]Token, error) {
	return fold(tokens, e.opts.LegacyUnary)
}

// Reorder is Reorder honoring RightAssocExponent
func (e *Engine) Reorder(tokens []Token) ([]Token, error) {
	return reorder(tokens, e.assoc)
}

// Compute evaluates expression and returns its value
func (e *Engine) Compute(expression string) (float64, error) {
	explanation, err := e.Explain(expression)
	if err != nil {
		return 0, err
	}
	return explanation.Result, nil
}

// Explain evaluates expression and keeps the intermediate sequences. On
// failure the returned Explanation holds the stages completed so far.
func (e *Engine) Explain(expression string) (*Explanation, error) {
	log := e.logger()
	explanation := &Explanation{Expression: expression}

	log.Debug("String to evaluate %q", expression)

	tokens, err := e.Tokenize(expression)
	if err != nil {
		log.Debug("Tokenize failed: %v", err)
		return explanation, err
	}
	explanation.Tokens = tokens
	log.Debug("Tokens: %s", FormatTokens(tokens))

	folded, err := e.Fold(tokens)
	if err != nil {
		log.Debug("Fold failed: %v", err)
		return explanation, err
	}
	explanation.Folded = folded
	log.Debug("Folded: %s", FormatTokens(folded))

	postfix, err := e.Reorder(folded)
	if err != nil {
		log.Debug("Reorder failed: %v", err)
		return explanation, err
	}
	explanation.Postfix = postfix
	log.Debug("Re-ordered: %s", FormatTokens(postfix))

	var step stepFunc
	if log.Enabled(logger.LevelTrace) {
		step = func(tok Token, stack []float64) {
			log.Trace("Evaluating %s with current stack %v", tok, stack)
		}
	}

	result, err := evaluate(postfix, step)
	if err != nil {
		log.Debug("Evaluate failed: %v", err)
		return explanation, err
	}
	explanation.Result = result
	log.Debug("Result: %s", FormatResult(result))

	return explanation, nil
}

// Compute evaluates expression with the strict default engine
func Compute(expression string) (float64, error) {
	return defaultEngine.Compute(expression)
}
