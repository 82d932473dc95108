package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/zephyrtronium/calc"
)

// options holds the command line.
type options struct {
	inname, verb, cfgname, level string
	with                         [][2]string
	nl, echo, nocolor            bool
}

// flags defines the command-line flags in fs.
func (o *options) flags(fs *flag.FlagSet) {
	fs.StringVar(&o.cfgname, "config", "", "YAML config file")
	fs.StringVar(&o.inname, "in", "", "input file (- for stdin)")
	fs.StringVar(&o.verb, "fmt", "%g", "result formatting string")
	fs.Func("given", "name=value variable definition (any number of times)", o.addwith)
	fs.BoolVar(&o.nl, "n", false, "parse separate input lines as separate expressions")
	fs.BoolVar(&o.echo, "echo", false, "print parse trees")
	fs.BoolVar(&o.nocolor, "no-color", false, "disable colored errors")
	fs.StringVar(&o.level, "log-level", "warn", "log level (debug, info, warn, error)")
}

func (o *options) addwith(s string) error {
	d := strings.SplitN(s, "=", 2)
	if len(d) != 2 {
		return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
	}
	o.with = append(o.with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
	return nil
}

func main() {
	var opts options
	opts.flags(flag.CommandLine)
	flag.Parse()

	cfg := DefaultConfig()
	if opts.cfgname != "" {
		c, err := LoadConfig(opts.cfgname)
		if err != nil {
			logger := newLogger(opts.level)
			logger.Fatal().Err(err).Msg("loading config")
		}
		cfg = c
	}
	cfg = cfg.override(flag.CommandLine, &opts)
	logger := newLogger(cfg.LogLevel)

	ctx := cfg.Context()
	for _, d := range opts.with {
		if err := define(ctx, d[0], d[1]); err != nil {
			logger.Fatal().Err(err).Str("name", d[0]).Msg("setting variable")
		}
	}

	batch := opts.inname != "" || flag.NArg() > 0
	prompt := !batch && (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()))
	s := newSession(ctx, cfg, os.Stdout, prompt, logger)
	if !batch {
		if err := s.repl(os.Stdin); err != nil {
			logger.Fatal().Err(err).Msg("session failed")
		}
		return
	}

	f, err := infile(opts.inname)
	if err != nil {
		logger.Fatal().Err(err).Msg("opening input")
	}
	if f != nil {
		if err := s.batch(f, opts.nl); err != nil {
			logger.Fatal().Err(err).Str("in", opts.inname).Msg("evaluation failed")
		}
	}
	for _, arg := range flag.Args() {
		if err := s.batch(strings.NewReader(arg), false); err != nil {
			logger.Fatal().Err(err).Str("arg", arg).Msg("evaluation failed")
		}
	}
}

func newLogger(level string) zerolog.Logger {
	lv, err := zerolog.ParseLevel(level)
	if err != nil {
		lv = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lv).
		With().Timestamp().Str("component", "calc").Logger()
}

// define sets a variable to the value of an expression evaluated in ctx.
func define(ctx *calc.Context, name, value string) error {
	r, err := varName(name)
	if err != nil {
		return err
	}
	e, err := calc.ParseString(value)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", value, err)
	}
	v, err := e.Eval(ctx)
	if err != nil {
		return fmt.Errorf("evaluating %s: %w", value, err)
	}
	ctx.Set(r, v)
	return nil
}

func infile(inname string) (io.RuneScanner, error) {
	var f *os.File
	switch inname {
	case "":
		return nil, nil
	case "-":
		f = os.Stdin
	default:
		in, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		f = in
	}
	return bufio.NewReader(f), nil
}
