package calc

import "strconv"

// UnexpectedTokenError is an error indicating a token in a position where the
// grammar does not allow it, e.g. an expression starting with * or a close
// parenthesis with no open parenthesis. It implements InputError.
type UnexpectedTokenError struct {
	// Col is the position of the token.
	Col int
	// Token is the text of the token.
	Token string
}

func (err *UnexpectedTokenError) Error() string {
	return errpos(err.Col, "unexpected "+strconv.Quote(err.Token))
}

func (err *UnexpectedTokenError) Pos() int {
	return err.Col
}

// EndOfInputError is an error indicating that the input ended where an
// expression was required. It implements InputError.
type EndOfInputError struct {
	// Col is the position just past the end of the input.
	Col int
}

func (err *EndOfInputError) Error() string {
	if err.Col <= 1 {
		return errpos(err.Col, "no expression")
	}
	return errpos(err.Col, "unexpected end of input")
}

func (err *EndOfInputError) Pos() int {
	return err.Col
}

// BracketError is an error indicating an open parenthesis with no matching
// close parenthesis. It implements InputError.
type BracketError struct {
	// Col is the position of the open parenthesis.
	Col int
	// End is the position where the close parenthesis was expected.
	End int
}

func (err *BracketError) Error() string {
	return errpos(err.Col, "open bracket ( with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// AssignError is an error indicating an assignment to something other than a
// variable, or an assignment that is not the entire input. It implements
// InputError.
type AssignError struct {
	// Col is the position of the = operator.
	Col int
	// Target is the formatted left side of the assignment.
	Target string
	// Nested indicates the assignment appeared inside another expression.
	Nested bool
}

func (err *AssignError) Error() string {
	if err.Nested {
		return errpos(err.Col, "assignment to "+err.Target+" inside an expression")
	}
	return errpos(err.Col, "cannot assign to "+err.Target)
}

func (err *AssignError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*NumberError)(nil)
	_ InputError = (*UnexpectedTokenError)(nil)
	_ InputError = (*EndOfInputError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*AssignError)(nil)
)
