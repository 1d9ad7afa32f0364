// Package batch evaluates newline-separated expressions from a reader.
//
// Lines are evaluated concurrently by a bounded worker pool but reported in
// input order. Blank lines and lines starting with '#' are skipped.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/codefionn/yardcalc/internal/calc"
	"github.com/codefionn/yardcalc/internal/consts"
	"github.com/codefionn/yardcalc/internal/logger"
	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"
)

var errorColor = color.New(color.FgRed)

// Result is the outcome of one input line
type Result struct {
	Line       int
	Expression string
	Value      float64
	Err        error
}

// Summary counts the evaluated lines of a run
type Summary struct {
	Evaluated int
	Failed    int
}

// Options configures a run
type Options struct {
	// Engine evaluates each line; nil uses the strict default engine
	Engine *calc.Engine
	// Workers bounds concurrent evaluations; <= 0 uses the default
	Workers int
	// Stdout receives one formatted result per successful line
	Stdout io.Writer
	// Stderr receives "line N: message" per failed line
	Stderr io.Writer
	// Name, if set, prefixes every failure as "name: line N: message"
	Name string
	// OnResult, if set, is called for every result in input order
	OnResult func(Result)
}

func (o Options) withDefaults() Options {
	if o.Engine == nil {
		o.Engine = calc.New(calc.Options{})
	}
	if o.Workers <= 0 {
		o.Workers = consts.DefaultBatchWorkers
	}
	if o.Stdout == nil {
		o.Stdout = io.Discard
	}
	if o.Stderr == nil {
		o.Stderr = io.Discard
	}
	return o
}

// Skip reports whether a line carries no expression
func Skip(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// Run evaluates every line of r. Expression failures are reported and
// counted, not returned; the error is for I/O failures and cancellation.
func Run(ctx context.Context, r io.Reader, opts Options) (Summary, error) {
	opts = opts.withDefaults()
	log := logger.Global().WithPrefix("batch")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	// Each line gets a slot; slots are drained in the order they were queued.
	pending := make(chan chan Result, opts.Workers)
	done := make(chan struct{})
	var summary Summary

	go func() {
		defer close(done)
		for slot := range pending {
			res := <-slot
			summary.Evaluated++
			if res.Err != nil {
				summary.Failed++
				if opts.Name != "" {
					errorColor.Fprintf(opts.Stderr, "%s: line %d: %v\n", opts.Name, res.Line, res.Err)
				} else {
					errorColor.Fprintf(opts.Stderr, "line %d: %v\n", res.Line, res.Err)
				}
			} else {
				fmt.Fprintln(opts.Stdout, calc.FormatResult(res.Value))
			}
			if opts.OnResult != nil {
				opts.OnResult(res)
			}
		}
	}()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, consts.BufferSize64KB), consts.MaxExpressionBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if gctx.Err() != nil {
			break
		}

		text := scanner.Text()
		if Skip(text) {
			continue
		}

		slot := make(chan Result, 1)
		pending <- slot

		line := lineNo
		g.Go(func() error {
			value, err := opts.Engine.Compute(text)
			slot <- Result{Line: line, Expression: text, Value: value, Err: err}
			return nil
		})
	}
	scanErr := scanner.Err()

	_ = g.Wait()
	close(pending)
	<-done

	log.Debug("Evaluated %d lines, %d failed", summary.Evaluated, summary.Failed)

	if scanErr != nil {
		return summary, fmt.Errorf("failed to read line %d: %w", lineNo+1, scanErr)
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// RunFile evaluates every line of the file at path
func RunFile(ctx context.Context, path string, opts Options) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Run(ctx, f, opts)
}
