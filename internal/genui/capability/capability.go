package capability

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/yungbote/neurobridge-genui/internal/genui/component"
)

// Vocabulary is a set of node type tags. Membership is case-insensitive and the fallback type
// is always a member.
type Vocabulary struct {
	set map[component.Type]struct{}
}

func NewVocabulary(types ...component.Type) Vocabulary {
	v := Vocabulary{set: make(map[component.Type]struct{}, len(types)+1)}
	v.add(component.TypeFallback)
	for _, t := range types {
		v.add(t)
	}
	return v
}

func (v *Vocabulary) add(t component.Type) {
	t = component.Normalize(string(t))
	if t == "" {
		return
	}
	if v.set == nil {
		v.set = map[component.Type]struct{}{component.TypeFallback: {}}
	}
	v.set[t] = struct{}{}
}

func (v Vocabulary) Has(t component.Type) bool {
	t = component.Normalize(string(t))
	if t == component.TypeFallback {
		return true
	}
	_, ok := v.set[t]
	return ok
}

// List returns the members in sorted order, fallback included.
func (v Vocabulary) List() []component.Type {
	out := make([]component.Type, 0, len(v.set)+1)
	hasFallback := false
	for t := range v.set {
		if t == component.TypeFallback {
			hasFallback = true
		}
		out = append(out, t)
	}
	if !hasFallback {
		out = append(out, component.TypeFallback)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (v Vocabulary) Len() int { return len(v.List()) }

func (v Vocabulary) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.List())
}

// Source records which declaration form produced a capability record.
type Source string

const (
	SourceComponents Source = "components"
	SourceEnvelope   Source = "envelope"
	SourceVersion    Source = "version"
	SourceLegacy     Source = "legacy"
)

// ClientCapabilities is one client's parsed declaration. Treat it as read-only.
type ClientCapabilities struct {
	Vocabulary      Vocabulary `json:"vocabulary"`
	ProtocolVersion string     `json:"protocol_version"`
	Build           string     `json:"build,omitempty"`
	Platform        string     `json:"platform,omitempty"`
	Source          Source     `json:"source"`
}

func (c ClientCapabilities) Supports(t component.Type) bool {
	return c.Vocabulary.Has(t)
}

// Full returns capabilities covering the whole closed enumeration.
func Full() ClientCapabilities {
	return ClientCapabilities{
		Vocabulary:      NewVocabulary(component.AllTypes()...),
		ProtocolVersion: component.ProtocolVersion,
		Source:          SourceComponents,
	}
}

// Declaration holds the raw wire values a client may send. Any field may be empty.
type Declaration struct {
	Components string // delimiter-separated list: "text,button,card"
	Envelope   string // JSON: {"version":"1.2.0","platform":"ios","components":["text"]}
	Version    string // "major.minor.patch+build"
	Platform   string
}

func (d Declaration) empty() bool {
	return strings.TrimSpace(d.Components) == "" &&
		strings.TrimSpace(d.Envelope) == "" &&
		strings.TrimSpace(d.Version) == ""
}

type envelope struct {
	Version    string          `json:"version"`
	Build      string          `json:"build"`
	Platform   string          `json:"platform"`
	Components json.RawMessage `json:"components"`
}

const maxDeclarationBytes = 16 << 10

// Parse turns a declaration into capabilities. Precedence: explicit component list, then the
// envelope, then the version token, then the legacy vocabulary. It never fails.
func Parse(cfg Config, d Declaration) ClientCapabilities {
	cfg = cfg.orDefault()
	verStr, build := splitBuild(d.Version)
	caps := ClientCapabilities{
		ProtocolVersion: verStr,
		Build:           build,
		Platform:        strings.ToLower(strings.TrimSpace(d.Platform)),
	}

	var env envelope
	hasEnv := false
	if raw := strings.TrimSpace(d.Envelope); raw != "" && len(raw) <= maxDeclarationBytes {
		if err := json.Unmarshal([]byte(raw), &env); err == nil {
			hasEnv = true
			if env.Version != "" {
				caps.ProtocolVersion, caps.Build = splitBuild(env.Version)
			}
			if env.Build != "" {
				caps.Build = strings.TrimSpace(env.Build)
			}
			if env.Platform != "" && caps.Platform == "" {
				caps.Platform = strings.ToLower(strings.TrimSpace(env.Platform))
			}
		}
	}

	switch {
	case strings.TrimSpace(d.Components) != "" && len(d.Components) <= maxDeclarationBytes:
		caps.Vocabulary = NewVocabulary(normalizeNames(SplitList(d.Components))...)
		caps.Source = SourceComponents
	case hasEnv && len(envComponents(env.Components)) > 0:
		caps.Vocabulary = NewVocabulary(normalizeNames(envComponents(env.Components))...)
		caps.Source = SourceEnvelope
	default:
		if vocab, ok := cfg.ForVersion(caps.ProtocolVersion); ok {
			caps.Vocabulary = vocab
			caps.Source = SourceVersion
			if hasEnv {
				caps.Source = SourceEnvelope
			}
		} else {
			caps.Vocabulary = cfg.Legacy()
			caps.Source = SourceLegacy
		}
	}
	if caps.ProtocolVersion == "" {
		caps.ProtocolVersion = "0.0.0"
		if caps.Source == SourceComponents || caps.Source == SourceEnvelope {
			caps.ProtocolVersion = component.ProtocolVersion
		}
	}
	return caps
}

// Legacy returns the capabilities assumed for a client that declares nothing.
func Legacy(cfg Config) ClientCapabilities {
	return Parse(cfg, Declaration{})
}

// SplitList splits on commas, semicolons, pipes and whitespace.
func SplitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ',', ';', '|', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
}

func envComponents(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return SplitList(s)
	}
	return nil
}

// splitBuild separates "1.2.3+456" into ("1.2.3", "456").
func splitBuild(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '+'); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	}
	return s, ""
}
