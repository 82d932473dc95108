package main

import (
	"bytes"
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calc"
)

func testSession(prompt bool) (*session, *bytes.Buffer) {
	cfg := DefaultConfig()
	cfg.Color = false
	var out bytes.Buffer
	return newSession(calc.NewContext(), cfg, &out, prompt, zerolog.Nop()), &out
}

func TestSessionLines(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{"value", "1 + 2\n", "3\n"},
		{"assign", "x = 3\n2x\n", "x = 3\n6\n"},
		{"reassign", "x = 3\nx = x^2\nx\n", "x = 3\nx = 9\n9\n"},
		{"blank", "\n  \n4\n", "4\n"},
		{"error continues", "y\n1/4\n", "undefined variable: 'y'\n0.25\n"},
		{"failed assign", "x = y\nx = 1\n", "undefined variable: 'y'\nx = 1\n"},
		{"exit", "1\nexit\n2\n", "1\n"},
		{"stop", "stop\n2\n", ""},
		{"vars", "b = 2\na = 1\nvars\n", "b = 2\na = 1\na = 1\nb = 2\n"},
		{"parse error", "(1\n", "1: open bracket ( with no close bracket\n"},
		{"leading spaces", "  x = 2\n\t2x \n  exit\n3\n", "x = 2\n4\n"},
		{"leading space error", "  1 +\n", "6: unexpected end of input\n"},
		{"long line", strings.Repeat("1+", 40000) + "1\n2\n", "40001\n2\n"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			s, out := testSession(false)
			require.NoError(t, s.repl(strings.NewReader(c.in)))
			assert.Equal(t, c.out, out.String())
		})
	}
}

func TestSessionHelp(t *testing.T) {
	s, out := testSession(false)
	require.NoError(t, s.repl(strings.NewReader("help\n")))
	assert.Equal(t, help, out.String())
}

func TestSessionClear(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("windows clears with cls")
	}
	s, out := testSession(false)
	require.NoError(t, s.repl(strings.NewReader("1\nclear\n2\n")))
	assert.Equal(t, "1\n\x1b[H\x1b[2J2\n", out.String())
}

func TestSessionEcho(t *testing.T) {
	s, out := testSession(false)
	s.cfg.Echo = true
	require.NoError(t, s.repl(strings.NewReader("1+2*3\ny\nx = 2\n")))
	// Failed lines print only the error.
	assert.Equal(t, "(1 + (2 * 3)) : 7\nundefined variable: 'y'\nx = 2 : x = 2\n", out.String())
}

func TestSessionFormat(t *testing.T) {
	s, out := testSession(false)
	s.cfg.Format = "%.3f"
	require.NoError(t, s.repl(strings.NewReader("x = 1/3\nx\n")))
	assert.Equal(t, "x = 0.333\n0.333\n", out.String())
}

func TestSessionPrompt(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		caret string
		msg   string
	}{
		{"plain", "1 + $\n", ">>        ^", `5: unknown operator "$"`},
		{"leading spaces", "    1 + $\n", ">>            ^", `9: unknown operator "$"`},
		{"leading tab", "\t1 + $\n", ">>    \t    ^", `6: unknown operator "$"`},
		{"end", "2 *  \n", ">>       ^", "4: unexpected end of input"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			s, out := testSession(true)
			require.NoError(t, s.repl(strings.NewReader(c.in)))
			lines := strings.Split(out.String(), "\n")
			require.Len(t, lines, 3)
			// The caret sits under the offending column after the prompt.
			assert.Equal(t, c.caret, lines[0])
			assert.Equal(t, c.msg, lines[1])
			assert.Equal(t, ">> ", lines[2])
		})
	}
}

func TestCaret(t *testing.T) {
	cases := []struct {
		prompt string
		line   string
		pos    int
		want   string
	}{
		{"", "x", 1, "^"},
		{"> ", "1 + x", 5, "      ^"},
		{"√ ", "ab", 3, "    ^"},
		{"", "\t\tx", 3, "\t\t^"},
		{"", "π$", 2, " ^"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, caret(c.prompt, c.line, c.pos), "%q %q %d", c.prompt, c.line, c.pos)
	}
}

func TestSessionBatch(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		lines bool
		out   string
	}{
		{"lines", "x = 2\n x^2 \n\n 3x\n", true, "x = 2\n4\n6\n"},
		{"one expression", "2\n3", false, "6\n"},
		{"empty", " \n\t", true, ""},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			s, out := testSession(false)
			require.NoError(t, s.batch(strings.NewReader(c.in), c.lines))
			assert.Equal(t, c.out, out.String())
		})
	}
}

func TestSessionBatchErrors(t *testing.T) {
	s, out := testSession(false)
	err := s.batch(strings.NewReader("x = 1\ny\nx\n"), true)
	var ne *calc.NameError
	require.True(t, errors.As(err, &ne), "wrong error: %v", err)
	assert.Equal(t, 'y', ne.Name)
	assert.Equal(t, "x = 1\n", out.String())

	s, out = testSession(false)
	err = s.batch(strings.NewReader("1\n)\n2\n"), true)
	var ue *calc.UnexpectedTokenError
	require.True(t, errors.As(err, &ue), "wrong error: %v", err)
	assert.Equal(t, "1\n", out.String())
}

func TestDefine(t *testing.T) {
	ctx := calc.NewContext(calc.SetVar('r', 2))
	require.NoError(t, define(ctx, "a", "3r^2"))
	v, ok := ctx.Lookup('a')
	assert.True(t, ok)
	assert.Equal(t, 12.0, v)

	assert.Error(t, define(ctx, "ab", "1"))
	assert.Error(t, define(ctx, "b", "1 +"))
	assert.Error(t, define(ctx, "b", "q"))
	assert.ErrorIs(t, define(ctx, "b", "c = 1"), calc.ErrAssignment)
	_, ok = ctx.Lookup('b')
	assert.False(t, ok)
}
