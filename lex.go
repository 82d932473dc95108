package calc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
	// num is the value of a tokenNum.
	num float64
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a decimal number.
	tokenNum
	// tokenVar is a single-letter variable name.
	tokenVar
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenVar:
		return "Var"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// RootSymbol is the operator for roots. "n √ x" is the n-th root of x.
const RootSymbol = "√"

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/^=" + RootSymbol

type lexer struct {
	src io.RuneScanner
	buf strings.Builder
	// col is the number of runes read from src.
	col int
	p   lexToken
	eof bool
	// wseof is a string containing the whitespace characters that end the
	// input when they appear where an operator could.
	wseof string
}

func lex(src io.RuneScanner, wseof string) *lexer {
	return &lexer{src: src, wseof: wseof}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.col++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.col--
}

// peek returns the next token without consuming it. Runes in the lexer's
// stop set end the input here.
func (l *lexer) peek() (lexToken, error) {
	if l.p.kind != tokenNone {
		return l.p, nil
	}
	tok, err := l.scan(l.wseof)
	if err != nil {
		return tok, err
	}
	l.p = tok
	return tok, nil
}

// must consumes the peeked token. Panics if there is no peeked token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("calc: no peeked token")
	}
	l.p = lexToken{}
	return tok
}

// next consumes the next token. If a token was peeked, it is returned.
// Otherwise, next scans a token with no stop set, because a term is required.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	return l.scan("")
}

// scan reads the next token from the input. Once the input is exhausted,
// every call returns an EOF token.
func (l *lexer) scan(wseof string) (lexToken, error) {
	if l.eof {
		return lexToken{kind: tokenEOF, pos: l.col + 1}, nil
	}
	defer l.buf.Reset()
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.eof = true
				return lexToken{kind: tokenEOF, pos: l.col + 1}, nil
			}
			return lexToken{}, err
		}
		tok := lexToken{pos: l.col}
		switch {
		case unicode.IsSpace(r):
			if strings.ContainsRune(wseof, r) {
				l.eof = true
				tok.kind = tokenEOF
				return tok, nil
			}
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(&tok); err != nil {
				return tok, err
			}
			return tok, nil
		case unicode.IsLetter(r):
			tok.text = string(r)
			tok.kind = tokenVar
			return tok, nil
		case r == '(':
			tok.text = "("
			tok.kind = tokenOpen
			return tok, nil
		case r == ')':
			tok.text = ")"
			tok.kind = tokenClose
			return tok, nil
		case strings.ContainsRune(Operators, r):
			tok.text = string(r)
			tok.kind = tokenOp
			return tok, nil
		default:
			return tok, &OperatorError{Col: tok.pos, Operator: string(r)}
		}
	}
}

// scanNum reads a maximal run of digits and dots into tok.
func (l *lexer) scanNum(tok *lexToken) error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if r != '.' && (r < '0' || '9' < r) {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
	}
	tok.text = l.buf.String()
	v, err := strconv.ParseFloat(tok.text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		// ParseFloat gives ±Inf for out of range literals, which is what we
		// want anyway.
		return &NumberError{Col: tok.pos, Text: tok.text}
	}
	tok.kind = tokenNum
	tok.num = v
	return nil
}

// OperatorError indicates a rune that is not a known operator, number, or
// variable. It implements InputError.
type OperatorError struct {
	// Col is the position of the rune.
	Col int
	// Operator is the rune that was not understood.
	Operator string
}

func (err *OperatorError) Error() string {
	return errpos(err.Col, "unknown operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// NumberError indicates a run of digits and dots that does not form a number.
// It implements InputError.
type NumberError struct {
	// Col is the position of the start of the number.
	Col int
	// Text is the malformed number.
	Text string
}

func (err *NumberError) Error() string {
	return errpos(err.Col, "malformed number "+strconv.Quote(err.Text))
}

func (err *NumberError) Pos() int {
	return err.Col
}
