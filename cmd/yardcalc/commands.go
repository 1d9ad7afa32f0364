package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/codefionn/yardcalc/internal/batch"
	"github.com/codefionn/yardcalc/internal/calc"
	"github.com/codefionn/yardcalc/internal/history"
	"github.com/codefionn/yardcalc/internal/logger"
	"github.com/codefionn/yardcalc/internal/repl"
	"github.com/codefionn/yardcalc/internal/watch"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newEvalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression...>",
		Short: "Evaluate one expression",
		Long:  "Evaluate the arguments, joined by spaces, as a single expression and print the result.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.runEval,
	}
}

func (a *app) runEval(cmd *cobra.Command, args []string) error {
	value, err := a.engine.Compute(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), calc.FormatResult(value))
	return nil
}

func newExplainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <expression...>",
		Short: "Show every evaluation stage of an expression",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := a.engine.Explain(strings.Join(args, " "))

			out := cmd.OutOrStdout()
			if ex.Tokens != nil {
				fmt.Fprintf(out, "tokens:  %s\n", calc.FormatTokens(ex.Tokens))
			}
			if ex.Folded != nil {
				fmt.Fprintf(out, "folded:  %s\n", calc.FormatTokens(ex.Folded))
			}
			if ex.Postfix != nil {
				fmt.Fprintf(out, "postfix: %s\n", calc.FormatTokens(ex.Postfix))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "result:  %s\n", calc.FormatResult(ex.Result))
			return nil
		},
	}
}

func (a *app) batchOptions(cmd *cobra.Command) batch.Options {
	return batch.Options{
		Engine:  a.engine,
		Workers: a.cfg.BatchWorkers,
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
	}
}

func newBatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "batch [file...]",
		Short: "Evaluate one expression per line",
		Long: `Evaluate every line of the given files, or of standard input when no file
is given. Blank lines and lines starting with '#' are skipped. Results are
printed in input order; failures are reported as "line N: message", prefixed
with the file name when more than one file is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.batchOptions(cmd)

			var total batch.Summary
			if len(args) == 0 {
				summary, err := batch.Run(cmd.Context(), a.stdin, opts)
				if err != nil {
					return err
				}
				total = summary
			}
			for _, path := range args {
				if len(args) > 1 {
					opts.Name = path
				}
				summary, err := batch.RunFile(cmd.Context(), path, opts)
				if err != nil {
					return err
				}
				total.Evaluated += summary.Evaluated
				total.Failed += summary.Failed
			}

			logger.Debug("Batch finished: %d evaluated, %d failed", total.Evaluated, total.Failed)
			if total.Failed > 0 {
				return errFailed
			}
			return nil
		},
	}
}

// runDefault starts the prompt on a terminal and reads lines otherwise
func (a *app) runDefault(cmd *cobra.Command) error {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return a.runREPL(cmd)
	}

	summary, err := batch.Run(cmd.Context(), a.stdin, a.batchOptions(cmd))
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return errFailed
	}
	return nil
}

func (a *app) runREPL(cmd *cobra.Command) error {
	var hist repl.History
	if a.cfg.HistoryPath != "" {
		store, err := history.Open(a.cfg.HistoryPath)
		if err != nil {
			logger.Warn("History disabled: %v", err)
		} else {
			defer store.Close()
			hist = store
		}
	}
	return repl.Run(cmd.Context(), a.engine, hist, a.cfg.HistoryLimit)
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-evaluate a file every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := watch.New(args[0], a.batchOptions(cmd))
			return w.Run(cmd.Context())
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit int
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear the interactive prompt history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.HistoryPath == "" {
				return fmt.Errorf("history is disabled (history_path is empty)")
			}

			store, err := history.Open(a.cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if clearAll {
				return store.Clear()
			}

			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.HistoryLimit
			}
			entries, err := store.Recent(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				if e.Error != "" {
					fmt.Fprintf(out, "%5d  %s  => %s\n", e.ID, e.Expression, errorColor.Sprintf("error: %s", e.Error))
				} else {
					fmt.Fprintf(out, "%5d  %s  => %s\n", e.ID, e.Expression, e.Result)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of entries to show (default history_limit)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete every entry")
	return cmd
}
