package component

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Node {
	return Card("Algebra", "course",
		VStack(
			Text("Algebra", "title"),
			HStack(Badge("Beginner", ""), Badge("~30 min", "")),
		),
		Divider(),
		Button("Start", "start_course", map[string]any{"course_id": "c1"}),
	)
}

func TestValidateAcceptsBuiltTree(t *testing.T) {
	root := sampleTree()
	require.NoError(t, Validate(root))
	assert.Equal(t, 8, Count(root))
	assert.Equal(t, []Type{TypeBadge, TypeButton, TypeCard, TypeDivider, TypeHStack, TypeText, TypeVStack}, Types(root))
}

func TestValidateRejectsDuplicateIDs(t *testing.T) {
	a := Text("a", "")
	b := Text("b", "")
	b.ID = a.ID
	err := Validate(VStack(a, b))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestValidateRejectsUnknownType(t *testing.T) {
	err := Validate(VStack(New(Type("carousel"), nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestValidateRejectsCycleAndSharedChild(t *testing.T) {
	shared := Text("x", "")
	err := Validate(VStack(shared, HStack(shared)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one parent")

	root := VStack()
	root.Children = append(root.Children, root)
	err = Validate(root)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "cycle") || strings.Contains(err.Error(), "more than one parent"))
}

func TestValidateRejectsUnsafeProps(t *testing.T) {
	n := Text("x", "")
	n.Props["bad"] = struct{ A int }{1}
	require.Error(t, Validate(n))

	m := Text("x", "")
	m.Props["nan"] = math.NaN()
	require.Error(t, Validate(m))
}

func TestRoundTrip(t *testing.T) {
	root := sampleTree()
	b, err := Marshal(root)
	require.NoError(t, err)
	back, err := Unmarshal(b)
	require.NoError(t, err)
	require.NoError(t, Validate(back))
	assert.Equal(t, Count(root), Count(back))
	assert.Equal(t, root.ID, back.ID)
	assert.Equal(t, "start_course", back.Children[2].String("action"))
}

func TestBestText(t *testing.T) {
	s, ok := BestText(Button("Go", "go", nil))
	assert.True(t, ok)
	assert.Equal(t, "Go", s)

	_, ok = BestText(Divider())
	assert.False(t, ok)
}

func TestCopyPropsDoesNotAlias(t *testing.T) {
	p := Props{"items": []any{"a"}, "nested": map[string]any{"k": "v"}}
	c := CopyProps(p)
	c["items"].([]any)[0] = "changed"
	c["nested"].(map[string]any)["k"] = "changed"
	assert.Equal(t, "a", p["items"].([]any)[0])
	assert.Equal(t, "v", p["nested"].(map[string]any)["k"])
}

func TestProgressClamps(t *testing.T) {
	assert.Equal(t, 1.0, Progress(4, "").Props["value"])
	assert.Equal(t, 0.0, Progress(math.NaN(), "").Props["value"])
}
