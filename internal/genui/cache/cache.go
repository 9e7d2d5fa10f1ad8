package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yungbote/neurobridge-genui/internal/genui/component"
	"github.com/yungbote/neurobridge-genui/internal/genui/render"
)

// Entry is a base (pre-adaptation) tree plus its side-channel summary.
type Entry struct {
	Kind    string                `json:"kind"`
	Tree    *component.Node       `json:"tree"`
	Summary *render.CourseSummary `json:"summary,omitempty"`
}

// Cache stores entries by content key. Implementations hand out decoded copies, so callers may
// not mutate what they Set and expect it reflected in a later Get.
type Cache interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry) error
	Close() error
}

const (
	ModeOff    = "off"
	ModeMemory = "memory"
	ModeRedis  = "redis"
)

func encode(e Entry) ([]byte, error) {
	if e.Tree == nil {
		return nil, fmt.Errorf("cache entry without tree")
	}
	return json.Marshal(e)
}

func decode(b []byte) (Entry, error) {
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return Entry{}, fmt.Errorf("decode cache entry: %w", err)
	}
	if e.Tree == nil {
		return Entry{}, fmt.Errorf("decode cache entry: missing tree")
	}
	return e, nil
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (Entry, bool, error) { return Entry{}, false, nil }
func (Nop) Set(context.Context, string, Entry) error         { return nil }
func (Nop) Close() error                                     { return nil }
