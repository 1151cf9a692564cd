package builtins

import "github.com/siftlang/sift/pkg/sift"

// Cast builtins model the language's int()/float()/str()/bool()
// conversions - core primitives with no AST body, resolved the same way
// the numeric builtins in math.go are.
func init() {
	for _, name := range []string{"int", "float", "str", "bool"} {
		sift.RegisterBuiltin(name, numericBuiltin(name))
	}
}
