package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/codefionn/yardcalc/internal/calc"
	"github.com/codefionn/yardcalc/internal/config"
	"github.com/codefionn/yardcalc/internal/features"
	"github.com/codefionn/yardcalc/internal/logger"
	"github.com/codefionn/yardcalc/internal/pprof"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// errFailed reports failures that were already printed
var errFailed = errors.New("evaluation failed")

var errorColor = color.New(color.FgRed)

// app holds the state shared by every command
type app struct {
	configPath string
	logLevel   string
	logFile    string

	legacyNumerals bool
	legacyUnary    bool
	rightAssocExp  bool

	profiling pprof.Config
	profiler  *pprof.Handler

	cfg    *config.Config
	engine *calc.Engine

	stdin io.Reader
}

func main() {
	a := &app{stdin: os.Stdin}
	root := newRootCmd(a)
	root.SetArgs(expressionArgs(root, os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()

	if stopErr := a.stopProfiling(); stopErr != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", stopErr)
	}
	if err != nil {
		if !errors.Is(err, errFailed) {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "yardcalc [expression...]",
		Short: "Arithmetic expression calculator",
		Long: `yardcalc evaluates arithmetic expressions with integer, hexadecimal and
floating-point literals, the operators + - * / ^, parentheses and unary minus.

Without arguments it starts an interactive prompt when standard input is a
terminal and evaluates one expression per input line otherwise. With
arguments it behaves like 'yardcalc eval'.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return a.runEval(cmd, args)
			}
			return a.runDefault(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.GetConfigPath(), "Configuration file (JSON)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, none")
	flags.StringVar(&a.logFile, "log-file", "", "Write logs to this file instead of stderr")
	flags.BoolVar(&a.legacyNumerals, "legacy-numerals", false, "Silently drop malformed numerals")
	flags.BoolVar(&a.legacyUnary, "legacy-unary", false, "Drop a unary minus placed before '('")
	flags.BoolVar(&a.rightAssocExp, "right-assoc-exp", false, "Make '^' right-associative")
	flags.StringVar(&a.profiling.HTTPAddr, "pprof-addr", "", "Serve net/http/pprof on this address")
	flags.StringVar(&a.profiling.CPUProfile, "cpu-profile", "", "Write a CPU profile to this file")
	flags.StringVar(&a.profiling.HeapProfile, "heap-profile", "", "Write a heap profile to this file on exit")

	root.AddCommand(
		newEvalCmd(a),
		newExplainCmd(a),
		newBatchCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newHistoryCmd(a),
		newSyntaxCmd(a),
	)
	return root
}

// expressionArgs inserts "--" before the first single-dash argument that is
// not a shorthand flag, so "-5 + 3" reaches the command as expression text.
func expressionArgs(root *cobra.Command, args []string) []string {
	for i, arg := range args {
		if arg == "--" {
			return args
		}
		if len(arg) < 2 || arg[0] != '-' || strings.HasPrefix(arg, "--") || isShorthand(root, arg[1:2]) {
			continue
		}
		out := make([]string, 0, len(args)+1)
		out = append(out, args[:i]...)
		out = append(out, "--")
		return append(out, args[i:]...)
	}
	return args
}

// isShorthand reports whether name is a shorthand flag of root or a subcommand
func isShorthand(root *cobra.Command, name string) bool {
	if name == "h" {
		return true
	}
	for _, cmd := range append([]*cobra.Command{root}, root.Commands()...) {
		for _, flags := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
			if flags.ShorthandLookup(name) != nil {
				return true
			}
		}
	}
	return false
}

// setup loads the config, applies flag overrides and starts logging and profiling
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogPath = a.logFile
	}
	if flags.Changed("legacy-numerals") {
		cfg.LegacyNumerals = a.legacyNumerals
	}
	if flags.Changed("legacy-unary") {
		cfg.LegacyUnary = a.legacyUnary
	}
	if flags.Changed("right-assoc-exp") {
		cfg.RightAssocExponent = a.rightAssocExp
	}

	if err := logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogPath); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	flagSet := cfg.Features()
	for _, name := range features.Names() {
		if flagSet.IsEnabled(name) {
			logger.Debug("Compatibility switch enabled: %s", name)
		}
	}

	a.cfg = cfg
	a.engine = flagSet.Engine()

	if a.profiling.Enabled() {
		a.profiler = pprof.NewHandler(a.profiling)
		if err := a.profiler.Start(); err != nil {
			a.profiler = nil
			return err
		}
	}
	return nil
}

func (a *app) stopProfiling() error {
	if a.profiler == nil {
		return nil
	}
	return a.profiler.Stop()
}
