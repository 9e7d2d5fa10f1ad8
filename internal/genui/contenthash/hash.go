package contenthash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
)

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// CanonicalizeJSON marshals a JSON value with stable key ordering and no whitespace.
// Input may be raw bytes holding JSON, a map/struct, or any json-marshalable value.
// Bytes or strings that are not JSON are encoded as JSON strings. Invalid UTF-8 in string
// values is dropped rather than replaced, the same way extraction cleans text, so two
// contents share an encoding only when they extract alike.
func CanonicalizeJSON(v any) ([]byte, error) {
	switch t := v.(type) {
	case []byte:
		s := strings.ToValidUTF8(string(t), "")
		var obj any
		if err := json.Unmarshal([]byte(s), &obj); err != nil {
			return json.Marshal(s)
		}
		return json.Marshal(obj)
	case json.RawMessage:
		return CanonicalizeJSON([]byte(t))
	default:
		w := utf8Walk{budget: maxNodes}
		clean := w.clean(v, 0)
		if w.exceeded {
			return nil, errTooLarge
		}
		return json.Marshal(clean)
	}
}

const (
	maxDepth = 64
	maxNodes = 1 << 20
)

var errTooLarge = errors.New("contenthash: content too deep or too large to canonicalize")

// utf8Walk copies the generic JSON shapes with invalid UTF-8 dropped from string values.
// Map keys are left to encoding/json. Cyclic or oversized values set exceeded.
type utf8Walk struct {
	budget   int
	exceeded bool
}

func (w *utf8Walk) clean(v any, depth int) any {
	if w.exceeded {
		return nil
	}
	w.budget--
	if depth > maxDepth || w.budget < 0 {
		w.exceeded = true
		return nil
	}
	switch t := v.(type) {
	case string:
		return strings.ToValidUTF8(t, "")
	case []string:
		out := make([]string, len(t))
		for i, s := range t {
			out[i] = strings.ToValidUTF8(s, "")
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = w.clean(e, depth+1)
			if w.exceeded {
				return nil
			}
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = w.clean(e, depth+1)
			if w.exceeded {
				return nil
			}
		}
		return out
	case []byte:
		// Marshals as base64 either way; kept verbatim.
		return t
	default:
		return v
	}
}

// Key identifies one produce request by what determines its base tree. ok is false when the
// content cannot be canonicalized, in which case the request must not be cached.
func Key(protocolVersion, kind, topic string, content any) (key string, ok bool) {
	body, err := CanonicalizeJSON(content)
	if err != nil {
		return "", false
	}
	var b strings.Builder
	b.WriteString(strings.TrimSpace(protocolVersion))
	b.WriteString("|kind=")
	b.WriteString(strings.TrimSpace(kind))
	b.WriteString("|topic=")
	b.WriteString(strings.TrimSpace(topic))
	b.WriteString("|content=")
	b.Write(body)
	return HashBytes([]byte(b.String())), true
}
