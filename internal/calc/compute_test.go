package calc

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/codefionn/yardcalc/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		expr     string
		expected float64
	}{
		{"3 + 4 * 2", 11},
		{"(3 + 4) * 2", 14},
		{"2 * 3 ^ 2", 18},
		{"8 / 4 / 2", 1},
		{"-5 + 3", -2},
		{"0x1A + 1", 27},
		{"2 ^ 3 ^ 2", 64},
		{"1.5 * 4", 6},
		{"10 - 2 - 3", 5},
		{"(1 + 2) - 3", 0},
		{"3 - -5", 8},
		{"-(3 + 4)", -7},
		{"2 * -(3 + 4)", -14},
		{"2 ^ -(1 + 1)", 0.25},
		{"-(-(1))", 1},
		{"-2 ^ 2", 4},
		{"  42  ", 42},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Compute(tt.expr)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestComputeErrors(t *testing.T) {
	tests := []struct {
		expr string
		kind error
	}{
		{"(3 + 4", ErrMismatchedParenthesis},
		{"3 + 4)", ErrMismatchedParenthesis},
		{"+", ErrStackUnderflow},
		{"5 -", ErrStackUnderflow},
		{"", ErrMalformedExpression},
		{"2 2", ErrMalformedExpression},
		{"12abc", ErrInvalidNumeral},
		{"1 + -", ErrDanglingMinus},
		{"--5", ErrUnsupportedUnaryTarget},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Compute(tt.expr)
			require.Error(t, err)
			assert.Zero(t, got)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestComputeErrorMessage(t *testing.T) {
	_, err := Compute("1 + 12abc")
	require.Error(t, err)
	assert.Equal(t, `invalid numeral "12abc" at position 4`, err.Error())

	_, err = Compute("2 2")
	require.Error(t, err)
	assert.Equal(t, "malformed expression", err.Error())
}

func TestComputeDivisionByZero(t *testing.T) {
	got, err := Compute("1 / 0")
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))
}

func TestComputeIsIdempotent(t *testing.T) {
	for _, expr := range []string{"3 + 4 * 2", "-(0x10 / 4) ^ 2", "(3 + 4"} {
		first, firstErr := Compute(expr)
		second, secondErr := Compute(expr)
		assert.Equal(t, first, second, expr)
		assert.Equal(t, firstErr, secondErr, expr)
	}
}

func TestComputeConcurrent(t *testing.T) {
	exprs := map[string]float64{
		"3 + 4 * 2":   11,
		"(3 + 4) * 2": 14,
		"8 / 4 / 2":   1,
		"0x1A + 1":    27,
	}

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 25; i++ {
		for expr, want := range exprs {
			wg.Add(1)
			go func(expr string, want float64) {
				defer wg.Done()
				got, err := Compute(expr)
				if err != nil {
					errs <- err
					return
				}
				if got != want {
					errs <- errors.New(expr + " = " + FormatResult(got))
				}
			}(expr, want)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestEngineOptions(t *testing.T) {
	t.Run("right associative exponent", func(t *testing.T) {
		engine := New(Options{RightAssocExponent: true})
		got, err := engine.Compute("2 ^ 3 ^ 2")
		require.NoError(t, err)
		assert.Equal(t, 512.0, got)
	})

	t.Run("legacy numerals", func(t *testing.T) {
		engine := New(Options{LegacyNumerals: true})
		got, err := engine.Compute("2 abc * 3")
		require.NoError(t, err)
		assert.Equal(t, 6.0, got)

		_, err = Compute("2 abc * 3")
		assert.True(t, errors.Is(err, ErrInvalidNumeral))
	})

	t.Run("legacy unary drops sign before group", func(t *testing.T) {
		engine := New(Options{LegacyUnary: true})
		got, err := engine.Compute("-(3 + 4)")
		require.NoError(t, err)
		assert.Equal(t, 7.0, got)
	})

	t.Run("options round trip", func(t *testing.T) {
		opts := Options{LegacyNumerals: true, RightAssocExponent: true}
		assert.Equal(t, opts, New(opts).Options())
	})
}

func TestExplain(t *testing.T) {
	engine := New(Options{})

	explanation, err := engine.Explain("-(1 - 2) * 3")
	require.NoError(t, err)
	assert.Equal(t, "[- ( 1 - 2 ) * 3]", FormatTokens(explanation.Tokens))
	assert.Equal(t, "[( 0 - ( 1 - 2 ) ) * 3]", FormatTokens(explanation.Folded))
	assert.Equal(t, "[0 1 2 - - 3 *]", FormatTokens(explanation.Postfix))
	assert.Equal(t, 3.0, explanation.Result)

	floats, err := engine.Explain("1.0 + -2.0")
	require.NoError(t, err)
	assert.Equal(t, "[1.0 + - 2.0]", FormatTokens(floats.Tokens))
	assert.Equal(t, "[1.0 + -2.0]", FormatTokens(floats.Folded))
	assert.Equal(t, "[1.0 -2.0 +]", FormatTokens(floats.Postfix))

	partial, err := engine.Explain("(1 + 2")
	assert.True(t, errors.Is(err, ErrMismatchedParenthesis))
	require.NotNil(t, partial)
	assert.Len(t, partial.Tokens, 4)
	assert.Len(t, partial.Folded, 4)
	assert.Nil(t, partial.Postfix)
}

func TestEngineLogsStages(t *testing.T) {
	var buf bytes.Buffer
	engine := New(Options{}).WithLogger(logger.NewWithWriter(logger.LevelTrace, &buf, "calc"))

	_, err := engine.Compute("1 + 2")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `String to evaluate "1 + 2"`)
	assert.Contains(t, out, "Re-ordered: [1 2 +]")
	assert.Contains(t, out, "Evaluating + with current stack [1 2]")
	assert.Contains(t, out, "Result: 3")

	buf.Reset()
	quiet := New(Options{}).WithLogger(logger.NewWithWriter(logger.LevelDebug, &buf, ""))
	_, _ = quiet.Compute("1 + 2")
	assert.False(t, strings.Contains(buf.String(), "Evaluating"))
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{11, "11"},
		{-2, "-2"},
		{0.5, "0.5"},
		{0.1 + 0.2, "0.30000000000000004"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatResult(tt.value))
		})
	}
}

func TestKindName(t *testing.T) {
	_, err := Compute("(1")
	assert.Equal(t, "mismatched_parenthesis", KindName(err))
	_, err = Compute("+")
	assert.Equal(t, "stack_underflow", KindName(err))
	assert.Equal(t, "internal", KindName(errors.New("boom")))
}
