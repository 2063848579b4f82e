package expr

import (
	"fmt"
	"strings"

	"github.com/roach88/sparqlq/internal/rdf"
)

// OperatorTable maps operator tags to their output tokens.
type OperatorTable map[Op]string

// DefaultOperators returns the SPARQL 1.1 operator symbols.
// A fresh map is returned so callers may modify it.
func DefaultOperators() OperatorTable {
	return OperatorTable{
		OpEq:  "=",
		OpNe:  "!=",
		OpLt:  "<",
		OpLe:  "<=",
		OpGt:  ">",
		OpGe:  ">=",
		OpAnd: "&&",
		OpOr:  "||",
		OpNot: "!",
		OpNeg: "-",
		OpAdd: "+",
		OpSub: "-",
		OpMul: "*",
		OpDiv: "/",
	}
}

// UnknownOperatorError is returned when an expression uses an operator the
// injected table has no symbol for.
type UnknownOperatorError struct {
	Op Op
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("no symbol for operator %q", string(e.Op))
}

// Renderer serializes expressions to SPARQL text.
type Renderer struct {
	// Operators supplies the symbol for each operator tag.
	// Nil means DefaultOperators().
	Operators OperatorTable

	// Term renders leaf terms. Nil means rdf.Canonical.
	Term func(rdf.Term) string
}

// Symbol looks up the output token for op.
func (r Renderer) Symbol(op Op) (string, error) {
	table := r.Operators
	if table == nil {
		table = DefaultOperators()
	}
	sym, ok := table[op]
	if !ok {
		return "", &UnknownOperatorError{Op: op}
	}
	return sym, nil
}

// Render serializes e. Nested binary expressions are parenthesized; the
// outermost one is not, since FILTER(...) and ASC(...) already supply parens.
func (r Renderer) Render(e Expr) (string, error) {
	return r.render(e, true)
}

func (r Renderer) render(e Expr, top bool) (string, error) {
	switch node := e.(type) {
	case nil:
		return "", fmt.Errorf("nil expression")
	case Term:
		return r.term(node.Term), nil
	case Binary:
		return r.renderBinary(node, top)
	case Unary:
		return r.renderUnary(node)
	case Call:
		return r.renderCall(node)
	default:
		return "", fmt.Errorf("unsupported expression type: %T", e)
	}
}

func (r Renderer) renderBinary(b Binary, top bool) (string, error) {
	sym, err := r.Symbol(b.Op)
	if err != nil {
		return "", err
	}
	left, err := r.render(b.Left, false)
	if err != nil {
		return "", fmt.Errorf("left operand: %w", err)
	}
	right, err := r.render(b.Right, false)
	if err != nil {
		return "", fmt.Errorf("right operand: %w", err)
	}

	text := left + " " + sym + " " + right
	if top {
		return text, nil
	}
	return "(" + text + ")", nil
}

func (r Renderer) renderUnary(u Unary) (string, error) {
	sym, err := r.Symbol(u.Op)
	if err != nil {
		return "", err
	}
	operand, err := r.render(u.Operand, false)
	if err != nil {
		return "", fmt.Errorf("operand: %w", err)
	}
	// A unary operand must be a primary expression: nested unaries and
	// signed numbers need parens
	_, nested := u.Operand.(Unary)
	if nested || strings.HasPrefix(operand, "-") || strings.HasPrefix(operand, "+") {
		operand = "(" + operand + ")"
	}
	return sym + operand, nil
}

func (r Renderer) renderCall(c Call) (string, error) {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		text, err := r.render(a, true)
		if err != nil {
			return "", fmt.Errorf("%s argument %d: %w", c.Name, i, err)
		}
		args[i] = text
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")", nil
}

func (r Renderer) term(t rdf.Term) string {
	if r.Term != nil {
		return r.Term(t)
	}
	return rdf.Canonical(t)
}
