package pipeline

import (
	"reflect"
	"strings"

	"github.com/yungbote/neurobridge-genui/internal/genui/cache"
	"github.com/yungbote/neurobridge-genui/internal/genui/component"
	"github.com/yungbote/neurobridge-genui/internal/genui/model"
)

// reminter copies a reused base tree, swapping every minted record id for a fresh one. One old
// id always maps to one new id, so action payloads keep pointing at their quiz, course or option.
// Ids a typed caller supplied are kept.
type reminter struct {
	keep map[string]bool
	ids  map[string]string
}

// remint gives a reused entry record ids no earlier response carried. The entry is not modified;
// singleflight hands the same one to every waiter.
func remint(e cache.Entry, content any) cache.Entry {
	r := reminter{keep: suppliedIDs(content), ids: map[string]string{}}
	out := cache.Entry{Kind: e.Kind, Tree: r.node(e.Tree)}
	if e.Summary != nil {
		sum := *e.Summary
		sum.Course.ID = r.id(sum.Course.ID)
		sum.Course.Objectives = append([]string{}, e.Summary.Course.Objectives...)
		out.Summary = &sum
	}
	return out
}

func suppliedIDs(content any) map[string]bool {
	rec, ok := content.(model.Record)
	if !ok {
		return nil
	}
	if v := reflect.ValueOf(content); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	ids := rec.RecordIDs()
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	return keep
}

func (r reminter) id(old string) string {
	if old == "" || r.keep[old] {
		return old
	}
	if fresh, ok := r.ids[old]; ok {
		return fresh
	}
	prefix, _, _ := strings.Cut(old, "_")
	fresh := model.NewID(prefix)
	r.ids[old] = fresh
	return fresh
}

// node copies a tree the guard already validated, so it is finite and acyclic.
func (r reminter) node(n *component.Node) *component.Node {
	if n == nil {
		return nil
	}
	out := &component.Node{ID: n.ID, Type: n.Type, Props: r.props(n.Props), Children: make([]*component.Node, len(n.Children))}
	for i, c := range n.Children {
		out.Children[i] = r.node(c)
	}
	return out
}

func isRecordIDKey(k string) bool { return k == "id" || strings.HasSuffix(k, "_id") }

func (r reminter) props(p map[string]any) component.Props {
	out := make(component.Props, len(p))
	for k, v := range p {
		if s, ok := v.(string); ok && isRecordIDKey(k) {
			out[k] = r.id(s)
			continue
		}
		out[k] = r.value(v)
	}
	return out
}

func (r reminter) value(v any) any {
	switch t := v.(type) {
	case component.Props:
		return r.props(t)
	case map[string]any:
		return map[string]any(r.props(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = r.value(e)
		}
		return out
	case []string:
		return append([]string{}, t...)
	default:
		return v
	}
}
