package builtins

import "github.com/siftlang/sift/pkg/sift"

// Container helper builtins: len, range, sorted, reversed, plus the
// print and input I/O helpers - stock functions with no AST body.
func init() {
	for _, name := range []string{"len", "range", "sorted", "reversed", "print", "input"} {
		sift.RegisterBuiltin(name, numericBuiltin(name))
	}
}
