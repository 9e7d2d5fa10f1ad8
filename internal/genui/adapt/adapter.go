package adapt

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/yungbote/neurobridge-genui/internal/genui/capability"
	"github.com/yungbote/neurobridge-genui/internal/genui/component"
	"github.com/yungbote/neurobridge-genui/internal/platform/logger"
)

// Placeholder is the fallback text used when a substituted node carried no readable text.
const Placeholder = "This content isn't available in your app version yet."

// maxDepth bounds recursion; anything deeper collapses into one fallback leaf.
const maxDepth = 256

// Observer is told about every substitution, with the requesting client's platform.
type Observer func(original component.Type, platform string)

// Stats describes the substitutions made by one Adapt call.
type Stats struct {
	Fallbacks int              `json:"fallbacks"`
	Types     []component.Type `json:"fallback_types"`
}

// Adapter rewrites trees into a client's vocabulary. It is safe for concurrent use; the
// running totals are process-wide telemetry, per-call figures come back in Stats.
type Adapter struct {
	log      *logger.Logger
	observer Observer

	count atomic.Int64
	mu    sync.Mutex
	types map[component.Type]struct{}
}

type Option func(*Adapter)

func WithObserver(o Observer) Option {
	return func(a *Adapter) { a.observer = o }
}

func WithLogger(log *logger.Logger) Option {
	return func(a *Adapter) { a.log = log }
}

func New(opts ...Option) *Adapter {
	a := &Adapter{types: map[component.Type]struct{}{}}
	for _, o := range opts {
		o(a)
	}
	a.log = logger.OrNop(a.log)
	return a
}

// Adapt returns a new tree whose every node type is in caps' vocabulary.
func (a *Adapter) Adapt(tree *component.Node, caps capability.ClientCapabilities) *component.Node {
	out, _ := a.AdaptWithStats(tree, caps)
	return out
}

// AdaptWithStats is Adapt plus the per-call substitution figures.
//
// The input tree is never modified and shares nothing with the result: every node, child slice
// and prop map is rebuilt. Unsupported nodes become fallback nodes carrying the original's best
// text; their children are adapted and kept so sibling counts hold at every level.
func (a *Adapter) AdaptWithStats(tree *component.Node, caps capability.ClientCapabilities) (*component.Node, Stats) {
	r := rebuild{caps: caps, onPath: map[*component.Node]bool{}, seen: map[component.Type]struct{}{}}
	var out *component.Node
	if tree == nil {
		out = r.substitute(&component.Node{}, nil)
	} else {
		out = r.node(tree, 0)
	}

	st := Stats{Fallbacks: r.fallbacks, Types: sortedTypes(r.seen)}
	a.record(st)
	for _, t := range r.subs {
		a.notify(t, caps.Platform)
	}
	if st.Fallbacks > 0 {
		a.log.Debug("adapted tree with fallbacks",
			"fallbacks", st.Fallbacks,
			"fallback_types", st.Types,
			"platform", caps.Platform,
			"client_version", caps.ProtocolVersion,
		)
	}
	return out, st
}

// FallbackCount is the running number of substituted nodes.
func (a *Adapter) FallbackCount() int64 {
	return a.count.Load()
}

// FallbackTypes is the running set of substituted types, sorted.
func (a *Adapter) FallbackTypes() []component.Type {
	a.mu.Lock()
	defer a.mu.Unlock()
	return sortedTypes(a.types)
}

func (a *Adapter) record(st Stats) {
	if st.Fallbacks == 0 {
		return
	}
	a.count.Add(int64(st.Fallbacks))
	a.mu.Lock()
	for _, t := range st.Types {
		a.types[t] = struct{}{}
	}
	a.mu.Unlock()
}

func (a *Adapter) notify(t component.Type, platform string) {
	if a.observer == nil {
		return
	}
	defer func() { _ = recover() }()
	a.observer(t, platform)
}

type rebuild struct {
	caps      capability.ClientCapabilities
	onPath    map[*component.Node]bool
	seen      map[component.Type]struct{}
	fallbacks int
	subs      []component.Type
}

func (r *rebuild) node(n *component.Node, depth int) *component.Node {
	if depth >= maxDepth || r.onPath[n] {
		// Too deep or cyclic: keep the text, drop what is below.
		return r.substitute(n, nil)
	}
	r.onPath[n] = true
	defer delete(r.onPath, n)

	kids := make([]*component.Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		kids = append(kids, r.node(c, depth+1))
	}

	t := component.Normalize(string(n.Type))
	if component.Known(t) && r.caps.Supports(t) {
		return &component.Node{
			ID:       component.NewID(t),
			Type:     t,
			Props:    component.CopyProps(n.Props),
			Children: kids,
		}
	}
	return r.substitute(n, kids)
}

func (r *rebuild) substitute(n *component.Node, kids []*component.Node) *component.Node {
	text, ok := component.BestText(n)
	if !ok {
		text = Placeholder
	}
	original := component.Normalize(string(n.Type))
	if original == "" {
		original = "unknown"
	}
	r.fallbacks++
	r.seen[original] = struct{}{}
	r.subs = append(r.subs, original)

	if kids == nil {
		kids = []*component.Node{}
	}
	fb := component.Fallback(text, original)
	fb.Children = kids
	return fb
}

func sortedTypes(set map[component.Type]struct{}) []component.Type {
	out := make([]component.Type, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
