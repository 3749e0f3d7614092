package storage

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/shelfdb/shelfdb/pkg/domain"
)

// whereProgram is a compiled where-expression. Documents are presented to the
// expression in their external form, so reference fields read as id strings.
type whereProgram struct {
	program *vm.Program
}

// compileWhere compiles a where-expression. A malformed expression is an
// InvalidArgument.
func compileWhere(source string) (*whereProgram, error) {
	program, err := expr.Compile(source,
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid where expression %q: %v: %w", source, err, domain.ErrInvalidArgument)
	}
	return &whereProgram{program: program}, nil
}

// matches evaluates the expression against one document. Evaluation errors
// (e.g. a type mismatch on this particular document) count as a non-match.
func (w *whereProgram) matches(doc domain.Document) bool {
	out, err := expr.Run(w.program, doc.Interface())
	if err != nil {
		return false
	}
	matched, ok := out.(bool)
	return ok && matched
}
