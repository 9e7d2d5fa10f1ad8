package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestScrubberRedactsAndPreviews(t *testing.T) {
	s := &Scrubber{PreviewChars: 16}
	big := strings.Repeat("x", 10_000)
	out := s.Apply([]interface{}{
		"api_key", "sk-123",
		"raw_input", big,
		"kind", "course",
		"dangling",
	})
	if len(out) != 7 {
		t.Fatalf("unexpected length: %d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("api_key not redacted: %v", out[1])
	}
	p, ok := out[3].(string)
	if !ok || !strings.HasPrefix(p, strings.Repeat("x", 16)+"…") || !strings.Contains(p, "10000 bytes") {
		t.Fatalf("raw_input not previewed: %q", p)
	}
	if out[5] != "course" {
		t.Fatalf("plain value changed: %v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("dangling key dropped: %v", out[6])
	}
}

func TestScrubberNestedMapsAndExtraKeys(t *testing.T) {
	s := &Scrubber{PreviewChars: 4, ExtraPreviewKeys: []string{"Question"}}
	out := s.Apply([]interface{}{
		"headers", map[string]interface{}{"Authorization": "Bearer abc", "Accept": "json"},
		"question", "What is a monad?",
	})
	m, ok := out[1].(map[string]interface{})
	if !ok {
		t.Fatalf("expected map, got %T", out[1])
	}
	if m["Authorization"] != "[REDACTED]" || m["Accept"] != "json" {
		t.Fatalf("nested map not scrubbed: %v", m)
	}
	if got := out[3].(string); !strings.HasPrefix(got, "What…") {
		t.Fatalf("extra preview key not applied: %q", got)
	}
}

func TestScrubberDisabled(t *testing.T) {
	kv := []interface{}{"password", "hunter2"}
	out := (&Scrubber{Disabled: true}).Apply(kv)
	if out[1] != "hunter2" {
		t.Fatalf("disabled scrubber changed value: %v", out[1])
	}
}

func TestScrubberFromEnv(t *testing.T) {
	t.Setenv("LOG_REDACTION_ENABLED", "off")
	t.Setenv("LOG_PREVIEW_CHARS", "42")
	s := ScrubberFromEnv()
	if !s.Disabled || s.PreviewChars != 42 {
		t.Fatalf("unexpected scrubber: %+v", s)
	}
}

func TestLoggerAppliesScrubberAndKeepsItOnWith(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core, &Scrubber{PreviewChars: 8}).With("token", "abc")
	l.Info("produced", "content", "0123456789abcdef")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries: want=1 got=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["token"] != "[REDACTED]" {
		t.Fatalf("token: %v", fields["token"])
	}
	if got, _ := fields["content"].(string); !strings.HasPrefix(got, "01234567…") {
		t.Fatalf("content: %q", got)
	}
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	if l == nil || l.SugaredLogger == nil {
		t.Fatalf("expected nop logger")
	}
	l.Warn("discarded", "k", "v")
}
