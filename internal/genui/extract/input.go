package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// asMap recognizes map-like inputs. Structs are accepted through their JSON form.
func asMap(in any) (map[string]any, bool) {
	switch t := in.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return t, true
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = v
		}
		return out, true
	case map[any]any:
		out := make(map[string]any, len(t))
		budget := maxTextNodes
		for k, v := range t {
			out[fmt.Sprint(k)] = normalizeYAMLValue(v, 1, &budget)
		}
		return out, true
	case string, []byte, json.RawMessage, json.Number, bool:
		return nil, false
	}
	rv := reflect.ValueOf(in)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct, reflect.Map:
	default:
		return nil, false
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, false
	}
	m, ok := decodeJSONObject(b)
	return m, ok
}

// normalizeYAMLValue converts map[any]any trees to map[string]any. Anything nested deeper than
// maxNesting, or past the node budget, is dropped; cyclic values therefore terminate.
func normalizeYAMLValue(v any, depth int, budget *int) any {
	if depth > maxNesting || *budget <= 0 {
		return nil
	}
	*budget--
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, it := range t {
			out[fmt.Sprint(k)] = normalizeYAMLValue(it, depth+1, budget)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, it := range t {
			out[k] = normalizeYAMLValue(it, depth+1, budget)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, it := range t {
			out[i] = normalizeYAMLValue(it, depth+1, budget)
		}
		return out
	default:
		return v
	}
}

// asText returns the textual form of string-like inputs.
func asText(in any) (string, bool) {
	switch t := in.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	case json.RawMessage:
		return string(t), true
	case fmt.Stringer:
		return t.String(), true
	default:
		return "", false
	}
}

// literalText is the best available display string for any input.
func literalText(in any) string {
	if in == nil {
		return ""
	}
	if s, ok := asText(in); ok {
		return strings.TrimSpace(cleanText(s))
	}
	if s := stringFromAny(in); s != "" && s != "<nil>" {
		return s
	}
	return ""
}

func stripMarkdownCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return strings.Trim(s, "`")
	}
	// Drop first fence line (``` or ```json) and last fence line if present.
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "```" {
		return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
	}
	return strings.TrimSpace(strings.Join(lines[1:], "\n"))
}

// jsonCandidates yields the substrings of s worth handing to the JSON decoder, most likely first:
// the fence-stripped text, an embedded fenced block, then the outermost brace or bracket span.
func jsonCandidates(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	out := make([]string, 0, 3)
	seen := map[string]bool{}
	add := func(c string) {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			return
		}
		if c[0] != '{' && c[0] != '[' {
			return
		}
		seen[c] = true
		out = append(out, c)
	}
	add(stripMarkdownCodeFences(s))
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
			if j := strings.Index(rest, "```"); j >= 0 {
				add(rest[:j])
			}
		}
	}
	if i, j := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}'); i >= 0 && j > i {
		add(s[i : j+1])
	}
	if i, j := strings.IndexByte(s, '['), strings.LastIndexByte(s, ']'); i >= 0 && j > i {
		add(s[i : j+1])
	}
	return out
}

func decodeJSON(s string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	return v, true
}

func decodeJSONObject(b []byte) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}

// unwrap descends through single-purpose envelopes such as {"course": {...}} or {"data": {...}}
// until it reaches a map carrying one of the signal keys.
func unwrap(m map[string]any, signals []string, envelopes []string) map[string]any {
	for depth := 0; depth < 4; depth++ {
		if _, ok := lookup(m, signals...); ok {
			return m
		}
		var next map[string]any
		for _, k := range envelopes {
			v, ok := lookup(m, k)
			if !ok {
				continue
			}
			if inner, ok := v.(map[string]any); ok {
				next = inner
				break
			}
			if list := sliceFromAny(v); len(list) > 0 {
				if inner, ok := list[0].(map[string]any); ok {
					next = inner
					break
				}
			}
		}
		if next == nil {
			return m
		}
		m = next
	}
	return m
}
