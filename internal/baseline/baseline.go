// Package baseline suppresses pre-existing diagnostics so a CI run
// only fails on newly introduced ones - the same problem
// golangci-lint's --new-from-rev solves. A baseline file is a
// go-patch document (spec.md 6.4): a list of operations that, applied
// to an empty accepted-fingerprints document, produce the set of
// fingerprints to suppress. Grounded on cmd/graft/main.go's
// parseGoPatch (decode a YAML list of patch.OpDefinition, turn it into
// patch.Ops), the same library the teacher carried for patching merged
// YAML trees.
package baseline

import (
	"fmt"
	"os"

	"github.com/cppforlife/go-patch/patch"
	"gopkg.in/yaml.v2"

	"github.com/siftlang/sift/pkg/sift"
)

// Baseline holds the set of diagnostic fingerprints accepted as
// pre-existing and suppressed from future runs.
type Baseline struct {
	accepted map[string]bool
}

// Load reads a go-patch document from path and applies it to an empty
// accepted-fingerprints document (a YAML map keyed by fingerprint) to
// build a Baseline. A baseline file is itself just the patch ops that
// would construct that map, e.g.:
//
//	- type: replace
//	  path: /a1b2c3d4e5f6a7b8?
//	  value: true
//
// The trailing "?" marks the key optional, which lets a replace op
// create it in the initially empty map.
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("baseline: reading %s: %w", path, err)
	}

	var defs []patch.OpDefinition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("baseline: parsing %s as go-patch ops: %w", path, err)
	}

	ops, err := patch.NewOpsFromDefinitions(defs)
	if err != nil {
		return nil, fmt.Errorf("baseline: building ops from %s: %w", path, err)
	}

	var doc interface{} = map[interface{}]interface{}{}
	doc, err = ops.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("baseline: applying ops from %s: %w", path, err)
	}

	accepted := map[string]bool{}
	if m, ok := doc.(map[interface{}]interface{}); ok {
		for k := range m {
			if ks, ok := k.(string); ok {
				accepted[ks] = true
			}
		}
	}
	return &Baseline{accepted: accepted}, nil
}

// Empty returns a Baseline that suppresses nothing, the default when
// no --baseline flag is given.
func Empty() *Baseline {
	return &Baseline{accepted: map[string]bool{}}
}

// Filter returns recs with every record whose Fingerprint is in the
// baseline removed, preserving order.
func (b *Baseline) Filter(recs []sift.Record) []sift.Record {
	if len(b.accepted) == 0 {
		return recs
	}
	out := make([]sift.Record, 0, len(recs))
	for _, r := range recs {
		if !b.accepted[r.Fingerprint] {
			out = append(out, r)
		}
	}
	return out
}

// Accept adds fingerprint to the baseline in-memory, used by `sift
// analyze --write-baseline` to build a starting baseline document from
// the current run's output (rendered back out as go-patch "replace"
// ops by Render).
func (b *Baseline) Accept(fingerprint string) {
	b.accepted[fingerprint] = true
}

// Render writes the baseline's accepted fingerprints back out as a
// go-patch document, the inverse of Load.
func Render(path string, b *Baseline) error {
	defs := make([]patch.OpDefinition, 0, len(b.accepted))
	for fp := range b.accepted {
		pathStr := "/" + fp + "?"
		var val interface{} = true
		defs = append(defs, patch.OpDefinition{
			Type:  "replace",
			Path:  &pathStr,
			Value: &val,
		})
	}

	data, err := yaml.Marshal(defs)
	if err != nil {
		return fmt.Errorf("baseline: marshaling %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}
