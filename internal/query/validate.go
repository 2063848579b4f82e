package query

import (
	"fmt"
)

// ValidationResult contains structural observations about a query.
//
// Validation never blocks compilation: every Query value compiles. Warnings
// flag shapes that serialize correctly but are probably not what the caller
// meant (empty blocks, single-branch unions, a projection that falls back to
// the wildcard). Variable binding and other semantic checks are out of scope.
type ValidationResult struct {
	// IsClean is true when no warnings were produced.
	IsClean bool

	// Warnings lists observations in tree order.
	Warnings []string
}

// Validate walks q and reports structural warnings.
//
// Validate is a pure function with no side effects.
func Validate(q *Query) ValidationResult {
	v := &validator{warnings: []string{}}
	v.validateQuery(q)

	return ValidationResult{
		IsClean:  len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

// addWarning appends a warning message.
func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q *Query) {
	if q == nil || q.root == nil {
		v.addWarning("nil query")
		return
	}

	if len(q.projection) == 0 {
		v.addWarning("empty projection - compiles as SELECT *")
	}
	if limit, ok := q.LimitValue(); ok && limit == 0 {
		v.addWarning("LIMIT 0 - query returns no solutions")
	}

	v.validateGroup(q.root, "where")
}

// validateGroup recursively validates a group node. path names the node
// for messages, e.g. "where/1/union/0".
func (v *validator) validateGroup(g *Group, path string) {
	if g.IsEmpty() && len(g.filters) == 0 {
		v.addWarning("%s: empty group - serializes as { }", path)
	}
	if g.IsEmpty() && len(g.filters) > 0 {
		v.addWarning("%s: filters on an empty group", path)
	}

	for i, child := range g.children {
		childPath := fmt.Sprintf("%s/%d", path, i)
		switch c := child.(type) {
		case Triple:
			v.validateTriple(c, childPath)
		case *Group:
			v.validateGroup(c, childPath)
		case *Union:
			v.validateUnion(c, childPath+"/union")
		default:
			// Unreachable while Pattern stays sealed
			v.addWarning("%s: unknown pattern type %T", childPath, child)
		}
	}
}

func (v *validator) validateUnion(u *Union, path string) {
	switch u.Len() {
	case 0:
		v.addWarning("%s: union has no alternatives - serializes as { }", path)
	case 1:
		v.addWarning("%s: union has a single alternative", path)
	}

	for i, alt := range u.alternatives {
		altPath := fmt.Sprintf("%s/%d", path, i)
		switch a := alt.(type) {
		case *Group:
			if a.optional {
				v.addWarning("%s: OPTIONAL group used directly as a union alternative", altPath)
			}
			v.validateGroup(a, altPath)
		case *Union:
			v.validateUnion(a, altPath+"/union")
		}
	}
}

func (v *validator) validateTriple(t Triple, path string) {
	if t.Subject == nil || t.Predicate == nil || t.Object == nil {
		v.addWarning("%s: triple with missing term", path)
	}
}
