// Package ast loads an analyzed program's AST from JSON or YAML into the
// sift.Node tree the executor dispatch table consumes. Grounded on
// pkg/graft/json.go's JSONifyIO/jsonifyData pipeline, which likewise
// goes through github.com/geofffranks/simpleyaml to normalize YAML into
// plain Go values before further processing, and on pkg/graft/document.go's
// YAML/JSON round-trip helpers.
package ast

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/geofffranks/simpleyaml"
	"github.com/siftlang/sift/pkg/sift"
)

// LoadJSON parses a JSON-encoded AST document into a sift.Node tree.
func LoadJSON(data []byte) (*sift.Node, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, sift.NewLoadError("invalid JSON AST document", err)
	}
	return decode(raw)
}

// LoadYAML parses a YAML-encoded AST document into a sift.Node tree,
// going through simpleyaml the same way pkg/graft/json.go does to land
// on plain map[string]interface{}/[]interface{} values before further
// structural decoding.
func LoadYAML(data []byte) (*sift.Node, error) {
	y, err := simpleyaml.NewYaml(data)
	if err != nil {
		return nil, sift.NewLoadError("invalid YAML AST document", err)
	}
	raw, err := y.Map()
	if err != nil {
		return nil, sift.NewLoadError("root of AST document is not a map", err)
	}
	return decode(normalizeYAML(raw))
}

// normalizeYAML recursively converts simpleyaml's map[interface{}]interface{}
// nodes into map[string]interface{}, the shape decode expects.
func normalizeYAML(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(vv)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			out[k] = normalizeYAML(vv)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, vv := range t {
			out[i] = normalizeYAML(vv)
		}
		return out
	default:
		return v
	}
}

func decode(raw interface{}) (*sift.Node, error) {
	if raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, sift.NewLoadError(fmt.Sprintf("expected an AST node object, got %T", raw), nil)
	}

	kindStr, _ := obj["kind"].(string)
	if kindStr == "" {
		return nil, sift.NewLoadError("AST node missing required field \"kind\"", nil)
	}

	n := &sift.Node{Kind: sift.NodeKind(kindStr)}
	if id, ok := obj["id"]; ok {
		n.ID = toInt(id)
	}
	if loc, ok := obj["loc"].([]interface{}); ok {
		for _, l := range loc {
			n.Loc = append(n.Loc, toInt(l))
		}
	}
	if name, ok := obj["name"].(string); ok {
		n.Name = name
	}
	if v, ok := obj["value"]; ok {
		n.Value = normalizeLiteral(n.Kind, v)
	}

	var err error
	for key, target := range map[string]**sift.Node{
		"left": &n.Left, "right": &n.Right, "target": &n.Target,
		"object": &n.Object, "index": &n.Index, "cond": &n.Cond,
		"then": &n.Then, "else": &n.Else, "body": &n.Body, "iter": &n.Iter,
	} {
		if sub, ok := obj[key]; ok {
			*target, err = decode(sub)
			if err != nil {
				return nil, err
			}
		}
	}

	if children, ok := obj["children"].([]interface{}); ok {
		for _, c := range children {
			child, err := decode(c)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
	}

	return n, nil
}

// normalizeLiteral coerces a decoded literal value's Go type to the
// convention executors expect: int64 for int literals, float64 for
// float literals, left alone otherwise.
func normalizeLiteral(kind sift.NodeKind, v interface{}) interface{} {
	switch kind {
	case sift.KindIntLiteral:
		return int64(toInt(v))
	case sift.KindFloatLiteral:
		switch t := v.(type) {
		case float64:
			return t
		case int:
			return float64(t)
		case string:
			f, _ := strconv.ParseFloat(t, 64)
			return f
		}
	}
	return v
}

func toInt(v interface{}) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case string:
		i, _ := strconv.Atoi(t)
		return i
	default:
		return 0
	}
}
