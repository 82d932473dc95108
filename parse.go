package calc

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Stmt = Expr | var '=' Expr
// Expr = num | var | Neg | Plus | Add | Sub | Mul | Div | Pow | Root | '(' Expr ')'
// Neg = '-' Expr
// Plus = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr | Expr Expr
// Div = Expr '/' Expr
// Pow = Expr '^' Expr
// Root = Expr '√' Expr

// Expr is a parsed expression that can be evaluated with a context.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the sorted list of variable names used in the expression.
	names []rune
}

// Parse parses an expression so it can be evaluated with a context. The given
// options are applied in order.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	p := parsectx{
		names: make(map[rune]bool),
	}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	scan := lex(src, p.wseof)
	n, err := parseexpr(scan, &p, minbind, true)
	if err != nil {
		return nil, err
	}
	// The loop in parseexpr only returns at minbind after peeking EOF or a
	// close paren.
	switch tok := scan.must(); tok.kind {
	case tokenEOF:
	default:
		return nil, &UnexpectedTokenError{Col: tok.pos, Token: tok.text}
	}
	names := p.names
	if _, v, ok := n.assignment(); ok {
		// The target of an assignment isn't needed to evaluate it.
		names = make(map[rune]bool, len(p.names))
		v.vars(names)
	}
	return newExpr(n, names), nil
}

func newExpr(n *node, names map[rune]bool) *Expr {
	ex := Expr{
		n:     n,
		names: make([]rune, 0, len(names)),
	}
	for k := range names {
		ex.names = append(ex.names, k)
	}
	sortrunes(ex.names)
	return &ex
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// sortrunes sorts a rune slice without using package sort because that has
// reflection and allocation problems.
func sortrunes(names []rune) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// parseexpr parses an expression whose operators all bind at least as tightly
// as minbp. When parseexpr returns without error, the token that ended the
// expression is peeked but not consumed. stmt indicates that the expression
// is the entire input, so that it may be an assignment.
func parseexpr(scan *lexer, p *parsectx, minbp float32, stmt bool) (*node, error) {
	lhs, err := parselhs(scan, p)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.peek()
		if err != nil {
			return nil, err
		}
		var op Op
		switch tok.kind {
		case tokenEOF, tokenClose:
			return lhs, nil
		case tokenNum, tokenVar, tokenOpen:
			// 2x -> 2 * x
			// x(y) -> x * y
			// (x)(y) -> x * y
			op = OpMul
		case tokenOp:
			op = binop(tok.text)
			if op == OpNone {
				panic("calc: no binary operator for " + tok.String())
			}
		default:
			panic("calc: unknown token: " + tok.String())
		}
		l, r := binding(op)
		if l < minbp {
			return lhs, nil
		}
		if tok.kind == tokenOp {
			scan.must()
		}
		if op == OpAssign {
			if !stmt {
				return nil, &AssignError{Col: tok.pos, Target: lhs.String(), Nested: true}
			}
			if lhs.kind != nodeVar {
				return nil, &AssignError{Col: tok.pos, Target: lhs.String()}
			}
		}
		rhs, err := parseexpr(scan, p, r, false)
		if err != nil {
			return nil, err
		}
		lhs = &node{kind: nodeBinary, op: op, left: lhs, right: rhs}
	}
}

// parselhs parses the first component of an expression. I.e., operators are
// unary and any encountered token must be valid as the start of an
// expression.
func parselhs(scan *lexer, p *parsectx) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		return &node{kind: nodeNum, num: tok.num}, nil
	case tokenVar:
		r, _ := utf8.DecodeRuneInString(tok.text)
		p.names[r] = true
		return &node{kind: nodeVar, name: r}, nil
	case tokenOpen:
		n, err := parseexpr(scan, p, minbind, false)
		if err != nil {
			return nil, err
		}
		if end := scan.must(); end.kind != tokenClose {
			return nil, &BracketError{Col: tok.pos, End: end.pos}
		}
		return n, nil
	case tokenOp:
		op := unop(tok.text)
		if op == OpNone {
			return nil, &UnexpectedTokenError{Col: tok.pos, Token: tok.text}
		}
		// --1 * 2 -> (-(-1)) * 2
		operand, err := parseexpr(scan, p, prefixBinding(op), false)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeUnary, op: op, left: operand}, nil
	case tokenClose:
		return nil, &UnexpectedTokenError{Col: tok.pos, Token: tok.text}
	case tokenEOF:
		return nil, &EndOfInputError{Col: tok.pos}
	default:
		panic("calc: unknown token: " + tok.String())
	}
}

// Vars returns the variable names used when evaluating the expression.
func (e *Expr) Vars() []rune {
	return append(([]rune)(nil), e.names...)
}

// Assignment returns the target and value of an assignment statement. If e is
// not an assignment, then ok is false.
func (e *Expr) Assignment() (name rune, value *Expr, ok bool) {
	name, n, ok := e.n.assignment()
	if !ok {
		return 0, nil, false
	}
	set := make(map[rune]bool, len(e.names))
	n.vars(set)
	return name, newExpr(n, set), true
}

// vars adds the names of variables in the tree rooted at n to set.
func (n *node) vars(set map[rune]bool) {
	if n == nil {
		return
	}
	if n.kind == nodeVar {
		set[n.name] = true
	}
	n.left.vars(set)
	n.right.vars(set)
}

// String creates a fully parenthesized representation of the parsed
// expression. Assignments are statements and so have no outer parentheses.
func (e *Expr) String() string {
	if _, _, ok := e.n.assignment(); ok {
		var b strings.Builder
		e.n.infix(&b)
		return b.String()
	}
	return e.n.String()
}
