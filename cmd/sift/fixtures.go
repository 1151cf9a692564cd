package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/geofffranks/simpleyaml"
	gyaml "github.com/geofffranks/yaml"
)

// runFixtures implements `sift fixtures convert <file.yml>...`,
// converting hand-written YAML AST fixtures into the canonical JSON
// node stream the executor consumes - the same conversion
// cmd/graft/main.go's `json` subcommand performs on YAML documents,
// using the same two geofffranks forks for the same
// non-string-key-stringification concern.
func runFixtures(opts fixturesOpts) error {
	if opts.Help || len(opts.Files) == 0 {
		usage()
		return nil
	}
	if opts.Files[0] != "convert" {
		return fmt.Errorf("unknown fixtures subcommand %q; only \"convert\" is supported", opts.Files[0])
	}

	for _, file := range opts.Files[1:] {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}

		y, err := simpleyaml.NewYaml(data)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		doc, err := y.Map()
		if err != nil {
			return fmt.Errorf("%s: root of fixture is not a map: %w", file, err)
		}

		stringKeyed, err := stringifyKeys(doc, opts.Strict)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}

		if opts.YAML {
			// Round trip through geofffranks/yaml to emit a normalized
			// YAML rendering of the fixture - useful for diffing two
			// differently-formatted fixtures that should decode to the
			// same node stream, the same normalize-then-reserialize
			// role yaml.Marshal plays for cmd/graft/main.go's merge
			// output.
			out, err := gyaml.Marshal(stringKeyed)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			fmt.Print(string(out))
			continue
		}

		out, err := json.MarshalIndent(stringKeyed, "", "  ")
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		fmt.Println(string(out))
	}
	return nil
}

// stringifyKeys converts YAML's map[interface{}]interface{} into
// map[string]interface{} recursively, the same non-string-key handling
// cmd/graft/main.go's jsonOpts.Strict option performs before
// marshaling a merged document to JSON.
func stringifyKeys(v interface{}, strict bool) (interface{}, error) {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				if strict {
					return nil, fmt.Errorf("non-string key %v found in strict mode", k)
				}
				ks = fmt.Sprintf("%v", k)
			}
			child, err := stringifyKeys(vv, strict)
			if err != nil {
				return nil, err
			}
			out[ks] = child
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, vv := range t {
			child, err := stringifyKeys(vv, strict)
			if err != nil {
				return nil, err
			}
			out[i] = child
		}
		return out, nil
	default:
		return v, nil
	}
}
