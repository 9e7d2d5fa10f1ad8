package logger

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

const defaultPreviewChars = 160

// Scrubber rewrites log key/value pairs before emission. Credentials are redacted and raw
// content (model output, request bodies, rendered trees) is cut to a short preview, so one
// oversized payload never lands in the log verbatim.
type Scrubber struct {
	Disabled     bool
	PreviewChars int
	// ExtraPreviewKeys are matched exactly, after lower-casing.
	ExtraPreviewKeys []string
}

var (
	envScrubOnce sync.Once
	envScrub     *Scrubber
)

// ScrubberFromEnv reads LOG_REDACTION_ENABLED and LOG_PREVIEW_CHARS.
func ScrubberFromEnv() *Scrubber {
	s := &Scrubber{PreviewChars: defaultPreviewChars}
	switch strings.TrimSpace(strings.ToLower(os.Getenv("LOG_REDACTION_ENABLED"))) {
	case "0", "false", "no", "off":
		s.Disabled = true
	}
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("LOG_PREVIEW_CHARS"))); err == nil && n > 0 {
		s.PreviewChars = n
	}
	return s
}

func defaultScrubber() *Scrubber {
	envScrubOnce.Do(func() { envScrub = ScrubberFromEnv() })
	return envScrub
}

func (s *Scrubber) Apply(kv []interface{}) []interface{} {
	if s == nil || s.Disabled || len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		name := toString(kv[i])
		out = append(out, name, s.value(strings.TrimSpace(strings.ToLower(name)), kv[i+1], 0))
	}
	return out
}

func (s *Scrubber) value(key string, val interface{}, depth int) interface{} {
	switch {
	case key == "":
		return val
	case isSecretKey(key):
		return "[REDACTED]"
	case s.isPreviewKey(key):
		return s.preview(val)
	}
	if m, ok := val.(map[string]interface{}); ok && depth < 4 {
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			out[k] = s.value(strings.TrimSpace(strings.ToLower(k)), v, depth+1)
		}
		return out
	}
	return val
}

func isSecretKey(key string) bool {
	for _, frag := range []string{"token", "authorization", "password", "secret", "cookie", "api_key", "apikey"} {
		if strings.Contains(key, frag) {
			return true
		}
	}
	return false
}

func (s *Scrubber) isPreviewKey(key string) bool {
	switch key {
	case "raw", "raw_input", "content", "payload", "input", "body", "tree", "declaration":
		return true
	}
	for _, k := range s.ExtraPreviewKeys {
		if key == strings.ToLower(k) {
			return true
		}
	}
	return false
}

func (s *Scrubber) preview(val interface{}) string {
	str := strings.ToValidUTF8(toString(val), "?")
	limit := s.PreviewChars
	if limit <= 0 {
		limit = defaultPreviewChars
	}
	if utf8.RuneCountInString(str) <= limit {
		return str
	}
	return string([]rune(str)[:limit]) + fmt.Sprintf("…(%d bytes)", len(str))
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
