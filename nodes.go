package calc

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression. Each node owns
// its children; no node appears twice in a tree.
type node struct {
	kind nodeKind

	num  float64
	name rune
	op   Op

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum    // num
	nodeVar    // lookup(name)
	nodeBinary // left op right
	nodeUnary  // op left
)

func (k nodeKind) String() string {
	switch k {
	case nodeNone:
		return "None"
	case nodeNum:
		return "Num"
	case nodeVar:
		return "Var"
	case nodeBinary:
		return "Binary"
	case nodeUnary:
		return "Unary"
	default:
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNum:
		b.WriteString(strconv.FormatFloat(n.num, 'f', -1, 64))
	case nodeVar:
		b.WriteRune(n.name)
	case nodeBinary:
		b.WriteByte('(')
		n.infix(b)
		b.WriteByte(')')
	case nodeUnary:
		b.WriteByte('(')
		b.WriteString(n.op.String())
		n.left.fmt(b)
		b.WriteByte(')')
	default:
		panic("calc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

// infix writes a binary node without its enclosing parentheses.
func (n *node) infix(b *strings.Builder) {
	n.left.fmt(b)
	b.WriteByte(' ')
	b.WriteString(n.op.String())
	b.WriteByte(' ')
	n.right.fmt(b)
}

// assignment returns the target and value of an assignment statement, or
// false if n is not one.
func (n *node) assignment() (rune, *node, bool) {
	if n.kind != nodeBinary || n.op != OpAssign || n.left.kind != nodeVar {
		return 0, nil, false
	}
	return n.left.name, n.right, true
}
