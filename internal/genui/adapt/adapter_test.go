package adapt

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-genui/internal/genui/capability"
	"github.com/yungbote/neurobridge-genui/internal/genui/component"
	"github.com/yungbote/neurobridge-genui/internal/genui/model"
	"github.com/yungbote/neurobridge-genui/internal/genui/render"
)

var ignoreIDs = cmpopts.IgnoreFields(component.Node{}, "ID")

func caps(names string) capability.ClientCapabilities {
	return capability.Parse(capability.DefaultConfig(), capability.Declaration{Components: names})
}

func sampleCourse() *component.Node {
	c := model.DefaultCourse("Algebra")
	c.Objectives = []string{"Solve equations", "Graph lines"}
	return render.Course(c)
}

// sameShape asserts that b has a's child counts at every level.
func sameShape(t *testing.T, a, b *component.Node) {
	t.Helper()
	require.Len(t, b.Children, len(a.Children), "node %s", a.Type)
	for i := range a.Children {
		sameShape(t, a.Children[i], b.Children[i])
	}
}

func TestFullVocabularyPreservesTree(t *testing.T) {
	in := sampleCourse()
	a := New()
	out, st := a.AdaptWithStats(in, capability.Full())

	assert.Empty(t, cmp.Diff(in, out, ignoreIDs))
	assert.Zero(t, st.Fallbacks)
	assert.Empty(t, st.Types)
	assert.Zero(t, a.FallbackCount())
	require.NoError(t, component.Validate(out))
}

func TestVocabularyFromTreeTypesPreservesTree(t *testing.T) {
	in := sampleCourse()
	names := ""
	for _, typ := range component.Types(in) {
		names += string(typ) + ","
	}
	out := New().Adapt(in, caps(names))
	assert.Empty(t, cmp.Diff(in, out, ignoreIDs))
}

func TestLegacyReplacesEveryNonLegacyNode(t *testing.T) {
	in := sampleCourse()
	legacy := capability.Legacy(capability.DefaultConfig())

	want := 0
	component.Walk(in, func(n *component.Node, _ int) bool {
		if !legacy.Supports(n.Type) {
			want++
		}
		return true
	})
	require.Positive(t, want)

	a := New()
	out, st := a.AdaptWithStats(in, legacy)
	require.NoError(t, component.Validate(out))
	sameShape(t, in, out)
	assert.Equal(t, want, st.Fallbacks)
	assert.EqualValues(t, want, a.FallbackCount())
	assert.Equal(t, []component.Type{"badge", "card", "divider", "progress", "scroll"}, st.Types)

	component.Walk(out, func(n *component.Node, _ int) bool {
		assert.True(t, legacy.Supports(n.Type), n.Type)
		return true
	})
}

func TestFallbackFidelity(t *testing.T) {
	in := sampleCourse()
	out := New().Adapt(in, caps("text,button"))

	var walk func(a, b *component.Node)
	walk = func(a, b *component.Node) {
		if b.Type == component.TypeFallback {
			want, ok := component.BestText(a)
			if !ok {
				want = Placeholder
			}
			assert.Equal(t, want, b.String("text"))
			assert.Equal(t, string(a.Type), b.String("original_type"))
			assert.Len(t, b.Props, 2)
		}
		for i := range a.Children {
			walk(a.Children[i], b.Children[i])
		}
	}
	walk(in, out)
}

func TestUnknownTypeScenario(t *testing.T) {
	x := &component.Node{ID: "x1", Type: "X", Props: component.Props{"title": "Fancy widget", "color": "red"}}
	in := component.New(component.TypeText, component.Props{"text": "root"},
		x,
		component.Button("Go", "go", nil),
	)

	var observed []component.Type
	a := New(WithObserver(func(typ component.Type, platform string) {
		observed = append(observed, typ)
		assert.Equal(t, "android", platform)
	}))
	c := caps("text,button")
	c.Platform = "android"
	out := a.Adapt(in, c)

	assert.Equal(t, component.TypeText, out.Type)
	require.Len(t, out.Children, 2)
	fb := out.Children[0]
	assert.Equal(t, component.TypeFallback, fb.Type)
	assert.Equal(t, "Fancy widget", fb.String("text"))
	assert.NotContains(t, fb.Props, "color")
	assert.Equal(t, component.TypeButton, out.Children[1].Type)

	assert.EqualValues(t, 1, a.FallbackCount())
	assert.Equal(t, []component.Type{"x"}, a.FallbackTypes())
	assert.Equal(t, []component.Type{"x"}, observed)
}

func TestNoAliasing(t *testing.T) {
	in := sampleCourse()
	out := New().Adapt(in, capability.Full())

	out.Props["title"] = "changed"
	out.Children[0].Children = nil
	assert.NotEqual(t, "changed", in.String("title"))
	assert.NotEmpty(t, in.Children[0].Children)

	seen := map[string]bool{}
	component.Walk(in, func(n *component.Node, _ int) bool { seen[n.ID] = true; return true })
	component.Walk(out, func(n *component.Node, _ int) bool {
		assert.False(t, seen[n.ID], "id %s reused", n.ID)
		return true
	})
}

func TestCaseInsensitiveTypes(t *testing.T) {
	in := &component.Node{ID: "a", Type: "TEXT", Props: component.Props{"text": "hi"}}
	out, st := New().AdaptWithStats(in, caps("Text"))
	assert.Equal(t, component.TypeText, out.Type)
	assert.Zero(t, st.Fallbacks)
}

func TestMalformedTrees(t *testing.T) {
	a := New()
	out := a.Adapt(nil, caps("text"))
	assert.Equal(t, component.TypeFallback, out.Type)
	assert.Equal(t, Placeholder, out.String("text"))

	loop := component.Text("loop", "")
	loop.Children = []*component.Node{loop, nil}
	out = a.Adapt(loop, caps("text"))
	require.NoError(t, component.Validate(out))
	require.Len(t, out.Children, 1)
	assert.Equal(t, component.TypeFallback, out.Children[0].Type)
	assert.Equal(t, "loop", out.Children[0].String("text"))
}

func TestConcurrentAdapt(t *testing.T) {
	a := New()
	in := sampleCourse()
	legacy := capability.Legacy(capability.DefaultConfig())
	_, st := New().AdaptWithStats(in, legacy)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Adapt(in, legacy)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 8*st.Fallbacks, a.FallbackCount())
}

func TestDeclaredButUnknownTypeStillFallsBack(t *testing.T) {
	in := component.VStack(component.New(component.Type("carousel"), component.Props{"title": "Slides"}))
	out, st := New().AdaptWithStats(in, caps("vstack,carousel"))

	require.NoError(t, component.Validate(out))
	assert.Equal(t, 1, st.Fallbacks)
	assert.Equal(t, component.TypeFallback, out.Children[0].Type)
	assert.Equal(t, "Slides", out.Children[0].String("text"))
	assert.Equal(t, "carousel", out.Children[0].String("original_type"))
}
