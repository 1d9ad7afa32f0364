package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codefionn/yardcalc/internal/calc"
	"github.com/codefionn/yardcalc/internal/consts"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestRunPreservesInputOrder(t *testing.T) {
	var lines []string
	var want []string
	for i := 0; i < 200; i++ {
		lines = append(lines, strings.Repeat("1 + ", i)+"1")
		want = append(want, calc.FormatResult(float64(i+1)))
	}

	var stdout, stderr bytes.Buffer
	summary, err := Run(context.Background(), strings.NewReader(strings.Join(lines, "\n")), Options{
		Workers: 8,
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	require.NoError(t, err)

	assert.Equal(t, Summary{Evaluated: 200}, summary)
	assert.Equal(t, strings.Join(want, "\n")+"\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunReportsFailuresWithLineNumbers(t *testing.T) {
	input := "3 + 4 * 2\n\n# comment\n(3 + 4\n2 ^ 10\n"

	var stdout, stderr bytes.Buffer
	var results []Result
	summary, err := Run(context.Background(), strings.NewReader(input), Options{
		Stdout:   &stdout,
		Stderr:   &stderr,
		OnResult: func(r Result) { results = append(results, r) },
	})
	require.NoError(t, err)

	assert.Equal(t, Summary{Evaluated: 3, Failed: 1}, summary)
	assert.Equal(t, "11\n1024\n", stdout.String())
	assert.Equal(t, "line 4: mismatched parenthesis \"(\" at position 0\n", stderr.String())

	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Line)
	assert.Equal(t, 4, results[1].Line)
	assert.True(t, errors.Is(results[1].Err, calc.ErrMismatchedParenthesis))
	assert.Equal(t, 5, results[2].Line)
}

func TestRunPrefixesFailuresWithName(t *testing.T) {
	var stderr bytes.Buffer
	summary, err := Run(context.Background(), strings.NewReader("1 +\n2\n"), Options{
		Stderr: &stderr,
		Name:   "exprs.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, Summary{Evaluated: 2, Failed: 1}, summary)
	assert.True(t, strings.HasPrefix(stderr.String(), "exprs.txt: line 1: "), stderr.String())
}

func TestRunUsesEngineOptions(t *testing.T) {
	var stdout bytes.Buffer
	_, err := Run(context.Background(), strings.NewReader("2 ^ 3 ^ 2\n-(1 + 1)"), Options{
		Engine: calc.New(calc.Options{RightAssocExponent: true, LegacyUnary: true}),
		Stdout: &stdout,
	})
	require.NoError(t, err)
	assert.Equal(t, "512\n2\n", stdout.String())
}

func TestRunLineTooLong(t *testing.T) {
	input := strings.Repeat("1", consts.MaxExpressionBytes+1)

	_, err := Run(context.Background(), strings.NewReader("1\n"+input), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, strings.NewReader("1\n2\n3"), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exprs.txt")
	require.NoError(t, os.WriteFile(path, []byte("0x1A + 1\n8 / 4 / 2\n"), 0644))

	var stdout bytes.Buffer
	summary, err := RunFile(context.Background(), path, Options{Stdout: &stdout})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Evaluated)
	assert.Equal(t, "27\n1\n", stdout.String())

	_, err = RunFile(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{})
	assert.Error(t, err)
}

func TestSkip(t *testing.T) {
	assert.True(t, Skip(""))
	assert.True(t, Skip("   \t"))
	assert.True(t, Skip("  # note"))
	assert.False(t, Skip("1 + 1"))
}
