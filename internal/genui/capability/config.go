package capability

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/neurobridge-genui/internal/genui/component"
)

// Tier adds components for clients at or above MinVersion.
type Tier struct {
	MinVersion string   `yaml:"min_version" json:"min_version"`
	Components []string `yaml:"components" json:"components"`

	min string // semver canonical, "v1.2.0"
}

// Config is the immutable vocabulary configuration. Build one with DefaultConfig, ParseConfig or
// LoadConfig; the zero value behaves like DefaultConfig.
type Config struct {
	legacy []component.Type
	tiers  []Tier
}

type configFile struct {
	Legacy []string `yaml:"legacy"`
	Tiers  []Tier   `yaml:"tiers"`
}

// DefaultConfig is the vocabulary shipped with protocol 1.3.0.
func DefaultConfig() Config {
	cfg, err := newConfig(configFile{
		Legacy: []string{"text", "button", "vstack", "hstack"},
		Tiers: []Tier{
			{MinVersion: "1.1.0", Components: []string{"card", "divider", "image", "scroll"}},
			{MinVersion: "1.2.0", Components: []string{"skeleton", "progress", "badge", "spacer"}},
			{MinVersion: "1.3.0", Components: []string{"quiz"}},
		},
	})
	if err != nil {
		panic(err)
	}
	return cfg
}

// ParseConfig reads a YAML vocabulary document:
//
//	legacy: [text, button, vstack, hstack]
//	tiers:
//	  - min_version: 1.1.0
//	    components: [card, divider]
func ParseConfig(b []byte) (Config, error) {
	var f configFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return Config{}, fmt.Errorf("parse vocabulary config: %w", err)
	}
	return newConfig(f)
}

func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read vocabulary config %s: %w", path, err)
	}
	return ParseConfig(b)
}

func newConfig(f configFile) (Config, error) {
	if len(f.Legacy) == 0 {
		return Config{}, fmt.Errorf("vocabulary config: legacy set is empty")
	}
	cfg := Config{legacy: normalizeNames(f.Legacy)}
	for i, t := range f.Tiers {
		v, ok := canonicalVersion(t.MinVersion)
		if !ok {
			return Config{}, fmt.Errorf("vocabulary config: tier %d: bad min_version %q", i, t.MinVersion)
		}
		names := normalizeNames(t.Components)
		comps := make([]string, len(names))
		for j, n := range names {
			comps[j] = string(n)
		}
		cfg.tiers = append(cfg.tiers, Tier{MinVersion: strings.TrimPrefix(v, "v"), Components: comps, min: v})
	}
	sort.SliceStable(cfg.tiers, func(i, j int) bool { return semver.Compare(cfg.tiers[i].min, cfg.tiers[j].min) < 0 })
	return cfg, nil
}

func (c Config) orDefault() Config {
	if len(c.legacy) == 0 {
		return DefaultConfig()
	}
	return c
}

// Legacy returns the vocabulary assumed when a client declares nothing.
func (c Config) Legacy() Vocabulary {
	c = c.orDefault()
	return NewVocabulary(c.legacy...)
}

// Tiers returns a copy of the version tiers in ascending order.
func (c Config) Tiers() []Tier {
	c = c.orDefault()
	out := make([]Tier, len(c.tiers))
	for i, t := range c.tiers {
		out[i] = Tier{MinVersion: t.MinVersion, Components: append([]string(nil), t.Components...), min: t.min}
	}
	return out
}

// ForVersion returns the legacy vocabulary plus every tier at or below v.
func (c Config) ForVersion(v string) (Vocabulary, bool) {
	c = c.orDefault()
	parsed, ok := canonicalVersion(v)
	if !ok {
		return c.Legacy(), false
	}
	vocab := c.Legacy()
	for _, t := range c.tiers {
		if semver.Compare(parsed, t.min) < 0 {
			break
		}
		for _, name := range t.Components {
			vocab.add(component.Type(name))
		}
	}
	return vocab, true
}

func normalizeNames(in []string) []component.Type {
	seen := make(map[component.Type]bool, len(in))
	out := make([]component.Type, 0, len(in))
	for _, s := range in {
		t := component.Normalize(s)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// canonicalVersion maps client version strings ("1", "1.2", "v1.2.3", "1.2.3+456",
// "1.2.3-beta") to semver canonical form. Build and prerelease suffixes are ignored, so a
// prerelease orders with its release.
func canonicalVersion(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "+-"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")
	if s == "" {
		return "", false
	}
	c := semver.Canonical("v" + s)
	return c, c != ""
}
