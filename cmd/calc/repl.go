package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/zephyrtronium/calc"
)

const help = `Enter an expression to evaluate it, or "x = expr" to set a variable.
Variables are single letters. Adjacent terms multiply: 2x(y+1).
Operators, loosest first:
	=        assignment
	+ -      addition, subtraction
	* /      multiplication, division
	^ √      power, root ("3 √ 8" is the cube root of 8)
	+x -x    prefix signs
Commands:
	vars     list variables
	clear    clear the screen
	help     show this message
	exit     end the session
`

// clearScreen moves the cursor home and erases the display on ANSI terminals.
const clearScreen = "\x1b[H\x1b[2J"

// session runs lines against a single variable context.
type session struct {
	ctx *calc.Context
	cfg Config
	out io.Writer
	// prompt indicates that input comes from a terminal.
	prompt bool
	errs   *color.Color
	log    zerolog.Logger
}

func newSession(ctx *calc.Context, cfg Config, out io.Writer, prompt bool, log zerolog.Logger) *session {
	errs := color.New(color.FgRed)
	if !cfg.Color {
		errs.DisableColor()
	}
	return &session{
		ctx:    ctx,
		cfg:    cfg,
		out:    out,
		prompt: prompt,
		errs:   errs,
		log:    log,
	}
}

// repl reads and executes lines until in is exhausted or the user asks to
// stop. Errors in lines are reported and do not end the session.
func (s *session) repl(in io.Reader) error {
	sc := bufio.NewScanner(in)
	// Lines are bounded only by memory.
	sc.Buffer(make([]byte, 0, 64*1024), math.MaxInt32)
	for {
		if s.prompt {
			fmt.Fprint(s.out, s.cfg.Prompt)
		}
		if !sc.Scan() {
			break
		}
		if !s.line(sc.Text()) {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// line handles one line of interactive input. The result is false if the
// session should end. Leading spaces are kept for parsing so that error
// positions match the columns the user typed.
func (s *session) line(text string) bool {
	line := strings.TrimRightFunc(text, unicode.IsSpace)
	switch strings.TrimLeftFunc(line, unicode.IsSpace) {
	case "":
		return true
	case "exit", "stop":
		return false
	case "clear":
		s.clear()
		return true
	case "help":
		fmt.Fprint(s.out, help)
		return true
	case "vars":
		for _, name := range s.ctx.Names() {
			v, _ := s.ctx.Lookup(name)
			fmt.Fprintf(s.out, "%c = "+s.cfg.Format+"\n", name, v)
		}
		return true
	}
	e, err := calc.ParseString(line)
	if err != nil {
		s.fail(line, err)
		return true
	}
	if err := s.exec(e); err != nil {
		s.fail(line, err)
	}
	return true
}

// exec executes a parsed statement and prints its result.
func (s *session) exec(e *calc.Expr) error {
	s.log.Debug().Str("expr", e.String()).Msg("parsed")
	r, err := s.ctx.Exec(e)
	if err != nil {
		return err
	}
	if s.cfg.Echo {
		fmt.Fprintf(s.out, "%v : ", e)
	}
	if r.Assigned {
		s.log.Debug().Str("name", string(r.Name)).Float64("value", r.Value).Msg("assigned")
		fmt.Fprintf(s.out, "%c = "+s.cfg.Format+"\n", r.Name, r.Value)
		return nil
	}
	fmt.Fprintf(s.out, s.cfg.Format+"\n", r.Value)
	return nil
}

// clear clears the terminal. Windows consoles use cls; everything else is
// assumed to understand ANSI escapes.
func (s *session) clear() {
	if runtime.GOOS == "windows" {
		cmd := exec.Command("cmd", "/c", "cls")
		cmd.Stdout = s.out
		err := cmd.Run()
		if err == nil {
			return
		}
		s.log.Debug().Err(err).Msg("cls failed")
	}
	fmt.Fprint(s.out, clearScreen)
}

// fail reports an error in a line. Errors with positions are marked under
// the offending column when the input is from a terminal.
func (s *session) fail(line string, err error) {
	s.log.Debug().Err(err).Str("line", line).Msg("line failed")
	if s.prompt {
		if ie := calc.InputError(nil); errors.As(err, &ie) && ie.Pos() > 0 {
			fmt.Fprintln(s.out, caret(s.cfg.Prompt, line, ie.Pos()))
		}
	}
	s.errs.Fprintln(s.out, err)
}

// caret returns a line marking column pos of line as it appears after prompt.
// Tabs before the column are kept so the mark lines up on a terminal.
func caret(prompt, line string, pos int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", utf8.RuneCountInString(prompt)))
	for _, r := range line {
		if pos--; pos <= 0 {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('^')
	return b.String()
}

// batch executes every expression in src, in order. With lines, each line
// holds a separate expression; otherwise the entire input is one expression.
// The first error stops execution.
func (s *session) batch(src io.RuneScanner, lines bool) error {
	var opts []calc.ParseOption
	if lines {
		opts = append(opts, calc.StopOn('\n'))
	}
	for {
		// Check whether only whitespace remains.
		done, err := skipSpace(src)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if done {
			return nil
		}
		e, err := calc.Parse(src, opts...)
		if err != nil {
			return err
		}
		if err := s.exec(e); err != nil {
			return fmt.Errorf("%v: %w", e, err)
		}
	}
}

// skipSpace reads whitespace from src. The result is true if src is
// exhausted.
func skipSpace(src io.RuneScanner) (bool, error) {
	for {
		r, _, err := src.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return true, nil
			}
			return false, err
		}
		if !unicode.IsSpace(r) {
			return false, src.UnreadRune()
		}
	}
}
