package calc

import "strconv"

// Op is an arithmetic operator.
type Op int8

const (
	OpNone Op = iota

	OpAdd    // left + right
	OpSub    // left - right
	OpMul    // left * right, also implied by adjacent terms
	OpDiv    // left / right
	OpPow    // left ^ right
	OpRoot   // left √ right, the left-th root of right
	OpAssign // variable = right

	OpPos // +operand
	OpNeg // -operand
)

func (op Op) String() string {
	switch op {
	case OpAdd, OpPos:
		return "+"
	case OpSub, OpNeg:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "^"
	case OpRoot:
		return RootSymbol
	case OpAssign:
		return "="
	default:
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
}

// binding returns the left and right binding powers of a binary operator.
// An operator is consumed by the innermost parse whose minimum is no greater
// than its left power. Left-associative operators have right > left so that
// a following operator of the same precedence falls out to the caller.
func binding(op Op) (left, right float32) {
	switch op {
	case OpAssign:
		return 0.2, 0.1
	case OpAdd, OpSub:
		return 1, 1.1
	case OpMul, OpDiv:
		return 2, 2.1
	case OpPow, OpRoot:
		return 3.1, 3
	default:
		panic("calc: no binding power for " + op.String())
	}
}

// prefixBinding returns the right binding power of a prefix operator. It is
// tighter than any binary operator.
func prefixBinding(op Op) float32 {
	switch op {
	case OpPos, OpNeg:
		return 5
	default:
		panic("calc: no prefix binding power for " + op.String())
	}
}

// binop gets the binary operator for a token string. If there is no such
// operator, then the result is OpNone.
func binop(text string) Op {
	switch text {
	case "+":
		return OpAdd
	case "-":
		return OpSub
	case "*":
		return OpMul
	case "/":
		return OpDiv
	case "^":
		return OpPow
	case RootSymbol:
		return OpRoot
	case "=":
		return OpAssign
	default:
		return OpNone
	}
}

// unop gets the prefix operator for a token string. If there is no such
// operator, then the result is OpNone.
func unop(text string) Op {
	switch text {
	case "+":
		return OpPos
	case "-":
		return OpNeg
	default:
		return OpNone
	}
}

// minbind is the minimum binding power that parses an entire expression.
const minbind float32 = 0
