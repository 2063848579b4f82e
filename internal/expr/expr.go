// Package expr provides the constraint-expression nodes used in FILTER and
// ORDER BY clauses.
//
// Expr is a sealed interface: Term, Binary, Unary and Call are the only
// node kinds. Operators are abstract tags (Op); the textual symbol for each
// tag comes from an OperatorTable injected into the Renderer, so the output
// dialect can change without touching the node types.
package expr

import "github.com/roach88/sparqlq/internal/rdf"

// Op is an abstract operator tag.
type Op string

const (
	OpEq  Op = "eq"
	OpNe  Op = "ne"
	OpLt  Op = "lt"
	OpLe  Op = "le"
	OpGt  Op = "gt"
	OpGe  Op = "ge"
	OpAnd Op = "and"
	OpOr  Op = "or"
	OpNot Op = "not"
	OpNeg Op = "neg"
	OpAdd Op = "add"
	OpSub Op = "sub"
	OpMul Op = "mul"
	OpDiv Op = "div"
)

// Expr is a constraint expression node.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// Term wraps an RDF term as an expression leaf.
type Term struct {
	Term rdf.Term
}

func (Term) exprNode() {}

// Binary applies a two-operand operator.
type Binary struct {
	Op    Op
	Left  Expr
	Right Expr
}

func (Binary) exprNode() {}

// Unary applies a one-operand operator (OpNot, OpNeg).
type Unary struct {
	Op      Op
	Operand Expr
}

func (Unary) exprNode() {}

// Call is a built-in function call such as bound(?x) or regex(?n, "^a").
type Call struct {
	Name string
	Args []Expr
}

func (Call) exprNode() {}

// Of wraps a term.
func Of(t rdf.Term) Expr { return Term{Term: t} }

// Var is shorthand for Of(rdf.Variable(name)).
func Var(name string) Expr { return Term{Term: rdf.Variable(name)} }

func Eq(l, r Expr) Expr  { return Binary{Op: OpEq, Left: l, Right: r} }
func Ne(l, r Expr) Expr  { return Binary{Op: OpNe, Left: l, Right: r} }
func Lt(l, r Expr) Expr  { return Binary{Op: OpLt, Left: l, Right: r} }
func Le(l, r Expr) Expr  { return Binary{Op: OpLe, Left: l, Right: r} }
func Gt(l, r Expr) Expr  { return Binary{Op: OpGt, Left: l, Right: r} }
func Ge(l, r Expr) Expr  { return Binary{Op: OpGe, Left: l, Right: r} }
func Add(l, r Expr) Expr { return Binary{Op: OpAdd, Left: l, Right: r} }
func Sub(l, r Expr) Expr { return Binary{Op: OpSub, Left: l, Right: r} }
func Mul(l, r Expr) Expr { return Binary{Op: OpMul, Left: l, Right: r} }
func Div(l, r Expr) Expr { return Binary{Op: OpDiv, Left: l, Right: r} }

// Not negates e.
func Not(e Expr) Expr { return Unary{Op: OpNot, Operand: e} }

// Neg is arithmetic negation.
func Neg(e Expr) Expr { return Unary{Op: OpNeg, Operand: e} }

// Fn builds a function call.
func Fn(name string, args ...Expr) Expr { return Call{Name: name, Args: args} }

// And folds exprs left to right. Nil entries are skipped; a single
// expression is returned as-is and an empty list returns nil.
func And(exprs ...Expr) Expr { return fold(OpAnd, exprs) }

// Or folds exprs left to right with the same rules as And.
func Or(exprs ...Expr) Expr { return fold(OpOr, exprs) }

func fold(op Op, exprs []Expr) Expr {
	var acc Expr
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if acc == nil {
			acc = e
			continue
		}
		acc = Binary{Op: op, Left: acc, Right: e}
	}
	return acc
}
