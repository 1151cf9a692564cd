package ast

import (
	"testing"

	"github.com/siftlang/sift/pkg/sift"
)

const jsonDoc = `{
  "kind": "block",
  "children": [
    {
      "kind": "assignment",
      "target": {"kind": "identifier", "name": "x"},
      "right": {"kind": "int_literal", "value": 1}
    }
  ]
}`

const yamlDoc = `
kind: block
children:
  - kind: assignment
    target:
      kind: identifier
      name: x
    right:
      kind: int_literal
      value: 1
`

// TestLoadJSONDecodesBlockWithAssignment covers the primary input
// format cmd/sift analyze/watch read.
func TestLoadJSONDecodesBlockWithAssignment(t *testing.T) {
	root, err := LoadJSON([]byte(jsonDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecodedAssignment(t, root)
}

// TestLoadYAMLDecodesBlockWithAssignment covers the YAML sibling input
// format: the same document shape, normalized through simpleyaml
// before decode() sees it.
func TestLoadYAMLDecodesBlockWithAssignment(t *testing.T) {
	root, err := LoadYAML([]byte(yamlDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecodedAssignment(t, root)
}

func assertDecodedAssignment(t *testing.T, root *sift.Node) {
	t.Helper()
	if root.Kind != sift.KindBlock || len(root.Children) != 1 {
		t.Fatalf("expected a block with one child, got %+v", root)
	}
	assign := root.Children[0]
	if assign.Kind != sift.KindAssignment {
		t.Fatalf("expected an assignment node, got %v", assign.Kind)
	}
	if assign.Target == nil || assign.Target.Kind != sift.KindIdentifier || assign.Target.Name != "x" {
		t.Fatalf("expected the target to decode to identifier x, got %+v", assign.Target)
	}
	if assign.Right == nil || assign.Right.Kind != sift.KindIntLiteral || assign.Right.Value != int64(1) {
		t.Fatalf("expected the right side to decode to int literal 1, got %+v", assign.Right)
	}
}

// TestLoadJSONRejectsMissingKind covers the required-field validation.
func TestLoadJSONRejectsMissingKind(t *testing.T) {
	if _, err := LoadJSON([]byte(`{"name": "x"}`)); err == nil {
		t.Fatalf("expected an error for a node missing \"kind\"")
	}
}

// TestLoadYAMLRejectsNonMapRoot covers the root-shape validation.
func TestLoadYAMLRejectsNonMapRoot(t *testing.T) {
	if _, err := LoadYAML([]byte("- 1\n- 2\n")); err == nil {
		t.Fatalf("expected an error when the YAML root is not a map")
	}
}
