package component

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
)

// Walk visits the tree depth-first, pre-order. Returning false from fn skips the node's children.
// Nodes already visited are not revisited, so a malformed cyclic tree still terminates.
func Walk(root *Node, fn func(n *Node, depth int) bool) {
	seen := map[*Node]bool{}
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	visit(root, 0)
}

// Count returns the number of nodes in the tree.
func Count(root *Node) int {
	n := 0
	Walk(root, func(*Node, int) bool { n++; return true })
	return n
}

// Types returns the sorted set of type tags used in the tree.
func Types(root *Node) []Type {
	set := map[Type]bool{}
	Walk(root, func(n *Node, _ int) bool { set[n.Type] = true; return true })
	out := make([]Type, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate checks the structural invariants of a tree: no cycles, one parent per node, unique
// ids, types from the closed enumeration, and JSON-safe props.
func Validate(root *Node) error {
	if root == nil {
		return errors.New("nil tree")
	}
	var errs []error
	ids := map[string]bool{}
	parents := map[*Node]bool{}
	onPath := map[*Node]bool{}

	var visit func(n *Node, path string)
	visit = func(n *Node, path string) {
		if n == nil {
			errs = append(errs, fmt.Errorf("%s: nil child", path))
			return
		}
		if onPath[n] {
			errs = append(errs, fmt.Errorf("%s: cycle through node %q", path, n.ID))
			return
		}
		if n.ID == "" {
			errs = append(errs, fmt.Errorf("%s: empty id", path))
		} else if ids[n.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q", path, n.ID))
		}
		ids[n.ID] = true
		if !Known(n.Type) {
			errs = append(errs, fmt.Errorf("%s: unknown type %q", path, n.Type))
		}
		for k, v := range n.Props {
			if err := checkPropValue(v); err != nil {
				errs = append(errs, fmt.Errorf("%s: prop %q: %w", path, k, err))
			}
		}
		onPath[n] = true
		for i, c := range n.Children {
			if c != nil {
				if parents[c] {
					errs = append(errs, fmt.Errorf("%s/%d: node %q has more than one parent", path, i, c.ID))
					continue
				}
				parents[c] = true
			}
			visit(c, fmt.Sprintf("%s/%d", path, i))
		}
		delete(onPath, n)
	}
	visit(root, "$")
	return errors.Join(errs...)
}

func checkPropValue(v any) error {
	switch t := v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return nil
	case float32:
		return checkFloat(float64(t))
	case float64:
		return checkFloat(t)
	case json.Number:
		return nil
	case []string:
		return nil
	case []any:
		for i, it := range t {
			if err := checkPropValue(it); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return nil
	case map[string]any:
		for k, it := range t {
			if err := checkPropValue(it); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
		return nil
	case Props:
		return checkPropValue(map[string]any(t))
	default:
		return fmt.Errorf("unsupported value of type %T", v)
	}
}

func checkFloat(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("non-finite number %v", f)
	}
	return nil
}

// CopyProps deep-copies a property bag so the result shares no maps or slices with p.
func CopyProps(p Props) Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, it := range t {
			out[i] = copyValue(it)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, it := range t {
			out[k] = copyValue(it)
		}
		return out
	case Props:
		return CopyProps(t)
	default:
		return v
	}
}

// Marshal encodes a tree for the wire.
func Marshal(root *Node) ([]byte, error) {
	return json.Marshal(root)
}

// Unmarshal decodes a wire tree.
func Unmarshal(b []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(b, &n); err != nil {
		return nil, err
	}
	return &n, nil
}
