// Package builtins registers the stock module-level functions every
// analysis run starts with: casts, container helpers, and the small
// numeric library. Each file's init() calls sift.RegisterBuiltin, the
// same self-registration idiom pkg/graft/operators uses for RegisterOp
// (see pkg/sift/registry.go).
package builtins

import (
	"fmt"

	"github.com/Knetic/govaluate"
	"github.com/siftlang/sift/pkg/sift"
)

// FoldConstant evaluates a literal numeric expression at builtin
// registration time, letting a builtin's author write a constant such
// as a tolerance or step size as "1e-9" or "2*3.14159" rather than a
// single bare float literal. Grounded on
// pkg/graft/operators/op_calc.go's CalcOperator, which resolves the
// same kind of expression at call time via govaluate rather than
// writing a bespoke arithmetic parser.
func FoldConstant(expr string) (float64, error) {
	evalExpr, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return 0, fmt.Errorf("sift/builtins: invalid constant expression %q: %w", expr, err)
	}
	result, err := evalExpr.Evaluate(nil)
	if err != nil {
		return 0, fmt.Errorf("sift/builtins: could not fold %q: %w", expr, err)
	}
	f, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("sift/builtins: %q did not fold to a number", expr)
	}
	return f, nil
}

// numericBuiltin allocates a callable placeholder object for a stock
// numeric function: its FuncNode stays nil (it has no AST body - it's a
// core primitive), but it is marked callable so call sites resolve
// against it without reporting "call of non-callable".
func numericBuiltin(name string) func(*sift.Heap) *sift.Object {
	return func(h *sift.Heap) *sift.Object {
		obj := sift.NewObject()
		obj.Name = name
		obj.Builtin = name
		return obj
	}
}

func init() {
	for _, name := range []string{"abs", "round", "min", "max", "sum"} {
		sift.RegisterBuiltin(name, numericBuiltin(name))
	}
}
