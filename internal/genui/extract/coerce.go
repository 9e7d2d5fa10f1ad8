package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxItems     = 64
	maxLineRunes = 500
	maxBodyRunes = 4000
	maxSnippet   = 280

	// Native inputs may be cyclic or pathologically wide; text recovery stops at either bound.
	maxNesting   = 16
	maxTextNodes = 4096
)

// lookup returns the first non-nil value among keys, matching case-insensitively.
func lookup(m map[string]any, keys ...string) (any, bool) {
	if m == nil {
		return nil, false
	}
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	for _, k := range keys {
		for mk, v := range m {
			if v != nil && strings.EqualFold(mk, k) {
				return v, true
			}
		}
	}
	return nil, false
}

func lookupString(m map[string]any, keys ...string) string {
	v, ok := lookup(m, keys...)
	if !ok {
		return ""
	}
	return clip(stringFromAny(v), maxBodyRunes)
}

func stringFromAny(v any) string {
	w := textWalk{budget: maxTextNodes}
	return w.text(v, 0)
}

// textWalk flattens nested values into display text within a depth and node budget.
type textWalk struct {
	budget int
}

func (w *textWalk) text(v any, depth int) string {
	if v == nil || depth > maxNesting || w.budget <= 0 {
		return ""
	}
	w.budget--
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(cleanText(t))
	case []byte:
		return strings.TrimSpace(cleanText(string(t)))
	case json.Number:
		return t.String()
	case map[string]any:
		// Nested text objects ({"text": "..."}, {"md": "..."}) are common in model output.
		inner, ok := lookup(t, "text", "md", "content", "value", "title")
		if !ok {
			return ""
		}
		return clip(w.text(inner, depth+1), maxBodyRunes)
	case []string:
		return strings.TrimSpace(cleanText(strings.Join(t, "\n")))
	case []any:
		parts := make([]string, 0, len(t))
		for _, it := range t {
			if w.budget <= 0 {
				break
			}
			if s := w.text(it, depth+1); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	default:
		if s, ok := scalarText(v); ok {
			return strings.TrimSpace(cleanText(s))
		}
		return ""
	}
}

// scalarText formats booleans, numbers, strings and Stringers. Containers are refused so that
// formatting never walks a cyclic value.
func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case fmt.Stringer, error:
		// fmt calls the method without walking the value and recovers a panicking String.
		return fmt.Sprint(t), true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

func floatFromAnyRaw(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint64:
		f = float64(t)
	case uint32:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func intFromAny(v any, def int) int {
	if f, ok := floatFromAnyRaw(v); ok {
		return int(f)
	}
	if s, ok := v.(string); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i
		}
	}
	return def
}

func boolFromAny(v any, def bool) bool {
	if v == nil {
		return def
	}
	if b, ok := v.(bool); ok {
		return b
	}
	raw, ok := scalarText(v)
	if !ok {
		return def
	}
	s := strings.TrimSpace(strings.ToLower(raw))
	switch s {
	case "1", "true", "t", "yes", "y", "on", "correct":
		return true
	case "0", "false", "f", "no", "n", "off", "incorrect":
		return false
	default:
		return def
	}
}

// durationFromAny applies the duration coercion rule: numbers under 10 are hours, numbers of 10
// or more are minutes, and text is used verbatim.
func durationFromAny(v any) string {
	if f, ok := floatFromAnyRaw(v); ok {
		if f <= 0 {
			return ""
		}
		if f < 10 {
			return formatMinutes(f * 60)
		}
		return formatMinutes(f)
	}
	if s, ok := v.(string); ok {
		return clip(strings.TrimSpace(cleanText(s)), 64)
	}
	return ""
}

func formatMinutes(m float64) string {
	return fmt.Sprintf("~%d min", int(math.Round(m)))
}

// durationFromMap honors unit-specific keys before the generic rule.
func durationFromMap(m map[string]any, generic ...string) string {
	if v, ok := lookup(m, "estimated_minutes", "estimatedMinutes", "minutes", "duration_minutes"); ok {
		if f, ok := floatFromAnyRaw(v); ok && f > 0 {
			return formatMinutes(f)
		}
	}
	if v, ok := lookup(m, "hours", "estimated_hours", "duration_hours"); ok {
		if f, ok := floatFromAnyRaw(v); ok && f > 0 {
			return formatMinutes(f * 60)
		}
	}
	if v, ok := lookup(m, generic...); ok {
		return durationFromAny(v)
	}
	return ""
}

func stringSliceFromAny(v any, limit int) []string {
	if v == nil {
		return nil
	}
	var raw []any
	switch t := v.(type) {
	case []string:
		raw = make([]any, len(t))
		for i, s := range t {
			raw[i] = s
		}
	case []any:
		raw = t
	case string:
		for _, line := range strings.Split(t, "\n") {
			line = strings.TrimSpace(line)
			if _, rest, ok := splitBullet(line); ok {
				line = rest
			}
			if line != "" {
				raw = append(raw, line)
			}
		}
	default:
		if s := stringFromAny(v); s != "" {
			raw = []any{s}
		}
	}
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		s := clip(stringFromAny(it), maxLineRunes)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// sliceFromAny returns the elements of a list-like value.
func sliceFromAny(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case map[string]any:
		// {"1": {...}, "2": {...}} keyed lists; any other object is a single item.
		keys := make([]string, 0, len(t))
		for k := range t {
			if _, err := strconv.Atoi(k); err != nil {
				return []any{t}
			}
			keys = append(keys, k)
		}
		sort.SliceStable(keys, func(i, j int) bool {
			a, _ := strconv.Atoi(keys[i])
			b, _ := strconv.Atoi(keys[j])
			return a < b
		})
		out := make([]any, 0, len(keys))
		for _, k := range keys {
			out = append(out, t[k])
		}
		return out
	default:
		return nil
	}
}

// orderByExplicitIndex sorts items by an explicit index key when every item carries one.
func orderByExplicitIndex(items []any) []any {
	type keyed struct {
		idx int
		v   any
	}
	if len(items) < 2 {
		return items
	}
	ks := make([]keyed, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			return items
		}
		v, ok := lookup(m, "index", "order", "position", "number", "week", "day")
		if !ok {
			return items
		}
		f, ok := floatFromAnyRaw(v)
		if !ok {
			return items
		}
		ks = append(ks, keyed{idx: int(f), v: it})
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].idx < ks[j].idx })
	out := make([]any, len(ks))
	for i, k := range ks {
		out[i] = k.v
	}
	return out
}

// cleanText makes arbitrary bytes safe for display: valid UTF-8, no control characters other
// than newlines and tabs.
func cleanText(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	hasCtl := false
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			hasCtl = true
			break
		}
	}
	if !hasCtl {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == '\r' {
			return -1
		}
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// clip truncates s to at most n runes, appending an ellipsis when cut.
func clip(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
