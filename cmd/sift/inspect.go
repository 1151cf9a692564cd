package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/starkandwayne/goutils/tree"
)

// runInspect implements `sift inspect <ast.json> <dotted.path>`: an ad
// hoc debugging lookup into a loaded AST document using
// starkandwayne/goutils/tree's Cursor, kept as a second, independent
// use of dotted-path parsing distinct from the core Path type
// (spec.md 6.7) - e.g. `sift inspect testdata/foo.json body.3.test`.
func runInspect(opts inspectOpts) error {
	if len(opts.Files) != 2 {
		usage()
		return nil
	}
	file, dottedPath := opts.Files[0], opts.Files[1]

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	cursor, err := tree.ParseCursor(dottedPath)
	if err != nil {
		return fmt.Errorf("parsing path %q: %w", dottedPath, err)
	}

	found, err := cursor.Resolve(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", dottedPath, err)
	}

	out, err := json.MarshalIndent(found, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
