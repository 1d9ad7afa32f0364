package calc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func foldString(t *testing.T, input string, legacy bool) (string, error) {
	t.Helper()
	tokens, err := Tokenize(input)
	require.NoError(t, err)
	folded, err := fold(tokens, legacy)
	if err != nil {
		return "", err
	}
	return FormatTokens(folded), nil
}

func TestFold(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"leading unary literal", "-5 + 3", "[-5 + 3]"},
		{"binary minus", "3 - 5", "[3 - 5]"},
		{"unary after binary", "3 - -5", "[3 - -5]"},
		{"unary float after operator", "3 * -2.5", "[3 * -2.5]"},
		{"unary hex literal", "-0x10", "[-16]"},
		{"unary after left paren", "(-1)", "[( -1 )]"},
		{"binary after right paren", "(1) - 2", "[( 1 ) - 2]"},
		{"no minus", "1 + 2", "[1 + 2]"},
		{"unary group", "-(3+4)", "[( 0 - ( 3 + 4 ) )]"},
		{"unary group after exponent", "2 ^ -(1+1)", "[2 ^ ( 0 - ( 1 + 1 ) )]"},
		{"nested unary groups", "-(-(1))", "[( 0 - ( ( 0 - ( 1 ) ) ) )]"},
		{"unbalanced unary group", "-(1", "[( 0 - ( 1]"},
		{"trailing binary minus", "5 -", "[5 -]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := foldString(t, tt.input, false)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFoldNegatedLiteralTakesMinusPosition(t *testing.T) {
	tokens, err := Tokenize("1 * - 7")
	require.NoError(t, err)

	folded, err := Fold(tokens)
	require.NoError(t, err)
	require.Len(t, folded, 3)
	assert.Equal(t, IntegerToken(-7).at(4), folded[2])
}

func TestFoldErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  error
		text  string
	}{
		{"lone minus", "-", ErrDanglingMinus, ""},
		{"minus at end after operator", "1 + -", ErrDanglingMinus, ""},
		{"minus before plus", "- + 1", ErrUnsupportedUnaryTarget, "+"},
		{"double minus", "--5", ErrUnsupportedUnaryTarget, "-"},
		{"minus before right paren", "(-)", ErrUnsupportedUnaryTarget, ")"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := foldString(t, tt.input, false)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)

			var calcErr *Error
			require.True(t, errors.As(err, &calcErr))
			assert.Equal(t, StageFold, calcErr.Stage)
			assert.Equal(t, tt.text, calcErr.Text)
		})
	}
}

func TestFoldLegacy(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sign before group is dropped", "-(3+4)", "[( 3 + 4 )]"},
		{"next token forwarded unchanged", "--5", "[- 5]"},
		{"literals still fold", "-5 + 3", "[-5 + 3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := foldString(t, tt.input, true)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := foldString(t, "2 * -", true)
	assert.True(t, errors.Is(err, ErrDanglingMinus))
}
