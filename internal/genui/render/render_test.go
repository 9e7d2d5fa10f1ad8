package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-genui/internal/genui/component"
	"github.com/yungbote/neurobridge-genui/internal/genui/extract"
	"github.com/yungbote/neurobridge-genui/internal/genui/model"
)

var ignoreIDs = cmpopts.IgnoreFields(component.Node{}, "ID")

func texts(root *component.Node) []string {
	var out []string
	component.Walk(root, func(n *component.Node, _ int) bool {
		if s, ok := component.BestText(n); ok {
			out = append(out, s)
		}
		return true
	})
	return out
}

func firstOfType(root *component.Node, t component.Type) *component.Node {
	var found *component.Node
	component.Walk(root, func(n *component.Node, _ int) bool {
		if found == nil && n.Type == t {
			found = n
		}
		return found == nil
	})
	return found
}

func TestAlgebraCourse(t *testing.T) {
	in := map[string]any{"title": "Algebra", "modules": []any{
		map[string]any{"title": "Linear Equations", "lessons": []any{map[string]any{"title": "Solving for x"}}},
	}}
	c := extract.Extract(in, model.KindCourse, "Algebra").(model.Course)

	tree := NewProducer(nil).Render(c)
	require.NoError(t, component.Validate(tree))
	assert.Equal(t, component.TypeCard, tree.Type)
	assert.Equal(t, "course", tree.String("variant"))
	assert.Contains(t, texts(tree), "Solving for x")
	assert.Contains(t, texts(tree), "Start course")

	s := Summary(c)
	assert.Equal(t, "Algebra", s.Course.Title)
	assert.Equal(t, c.ID, s.Course.ID)
}

func TestAbsentInputStillRenders(t *testing.T) {
	c := extract.Extract(nil, model.KindCourse, "Fallback Topic").(model.Course)
	s := Summary(c)
	assert.Contains(t, s.Course.Title, "Fallback Topic")
	assert.NotNil(t, s.Course.Objectives)

	tree := NewProducer(nil).Render(c)
	require.NoError(t, component.Validate(tree))
	assert.Greater(t, component.Count(tree), 1)
}

func TestQuizWithoutOptions(t *testing.T) {
	q := extract.Extract(map[string]any{"question": "Is water wet?"}, model.KindQuiz, "Water").(model.Quiz)
	tree := NewProducer(nil).Render(q)
	require.NoError(t, component.Validate(tree))

	quiz := firstOfType(tree, component.TypeQuiz)
	require.NotNil(t, quiz)
	opts, ok := quiz.Props["options"].([]any)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(opts), 2)
	assert.Len(t, quiz.Children, len(opts))

	correct := 0
	for _, o := range q.Options {
		if o.Correct {
			correct++
		}
	}
	assert.Equal(t, 1, correct)
	idx, _ := quiz.Props["correct_index"].(int)
	assert.True(t, q.Options[idx].Correct)
}

func TestQuizOptionsFlagTheCorrectAnswer(t *testing.T) {
	q := model.Quiz{ID: "q1", Title: "Go", Question: "Which keyword starts a goroutine?", Options: []model.QuizOption{
		{ID: "a", Label: "A", Text: "defer"},
		{ID: "b", Label: "B", Text: "go", Correct: true},
		{ID: "c", Label: "C", Text: "chan", Correct: true},
	}}
	quiz := firstOfType(NewProducer(nil).Render(q), component.TypeQuiz)
	require.NotNil(t, quiz)
	opts, ok := quiz.Props["options"].([]any)
	require.True(t, ok)
	require.Len(t, opts, 3)

	var flagged []string
	for _, o := range opts {
		m := o.(map[string]any)
		if m["correct"].(bool) {
			flagged = append(flagged, m["id"].(string))
		}
	}
	assert.Equal(t, []string{"b"}, flagged)
	assert.Equal(t, "b", quiz.Props["correct_option_id"])
}

func TestSummaryCapsObjectives(t *testing.T) {
	c := model.DefaultCourse("Go")
	for i := 0; i < 10; i++ {
		c.Objectives = append(c.Objectives, "objective")
	}
	assert.Len(t, Summary(c).Course.Objectives, SummaryObjectives)

	b, err := json.Marshal(Summary(model.Course{}))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"objectives":[]`)
}

func TestDisplayCaps(t *testing.T) {
	c := model.DefaultCourse("Go")
	c.Objectives = []string{"a", "b", "c", "d", "e", "f", "g"}
	lessons := make([]model.Lesson, 9)
	for i := range lessons {
		lessons[i] = model.Lesson{Title: "lesson", Duration: "~5 min"}
	}
	c.Modules = []model.Module{{Title: "Only", Lessons: lessons}}

	got := texts(Course(c))
	assert.Contains(t, got, "+2 more objectives")
	assert.Contains(t, got, "+3 more lessons")
	assert.NotContains(t, got, "• f")

	p := model.DefaultStudyPlan("Go")
	p.Steps = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}
	assert.Contains(t, texts(StudyPlan(p)), "+3 more steps")
}

func TestDeterministicModuloIDs(t *testing.T) {
	for _, kind := range model.Kinds() {
		rec := extract.Extract(`{"title": "Same", "modules": ["A", "B"], "question": "Q?"}`, kind, "Same")
		p := NewProducer(nil)
		a, b := p.Render(rec), p.Render(rec)
		assert.Empty(t, cmp.Diff(a, b, ignoreIDs), kind)
		assert.NotEqual(t, a.ID, b.ID)
	}
}

func TestRenderIsTotal(t *testing.T) {
	inputs := []any{
		nil, "", 42, []byte{0xff, 0x00, 0xfe}, strings.Repeat("z", 1<<20),
		"```json\n{\"title\": \"x\"}\n```", map[string]any{"title": map[string]any{"deep": []any{nil}}},
		"# Heading\n- a\n- b",
	}
	p := NewProducer(nil)
	for _, kind := range model.Kinds() {
		for _, in := range inputs {
			tree := p.Render(extract.Extract(in, kind, "Topic"))
			require.NoError(t, component.Validate(tree))

			b, err := component.Marshal(tree)
			require.NoError(t, err)
			back, err := component.Unmarshal(b)
			require.NoError(t, err)
			assert.Equal(t, component.Count(tree), component.Count(back))
		}
	}
}

func TestGuardSubstitutesErrorTree(t *testing.T) {
	var stages []string
	p := NewProducer(nil, WithGuardObserver(func(_ model.Kind, stage string) { stages = append(stages, stage) }))
	p.byKind[model.KindCourse] = func(model.Record) *component.Node { panic("layout bug") }

	tree := p.Render(model.DefaultCourse("Go"))
	require.NoError(t, component.Validate(tree))
	assert.Equal(t, "error", tree.String("variant"))
	assert.Contains(t, texts(tree), "Try again")
	assert.Equal(t, []string{StageRender}, stages)

	retry := firstOfType(tree, component.TypeButton)
	require.NotNil(t, retry)
	assert.Equal(t, "retry", retry.String("action"))
}

func TestGuardRejectsInvalidTree(t *testing.T) {
	p := NewProducer(nil)
	p.byKind[model.KindQuiz] = func(model.Record) *component.Node {
		n := component.Text("loop", "")
		n.Children = []*component.Node{n}
		return n
	}
	tree := p.Render(model.DefaultQuiz("Go"))
	assert.Equal(t, "error", tree.String("variant"))
}

func TestNuclearFallback(t *testing.T) {
	var stages []string
	p := NewProducer(nil, WithGuardObserver(func(_ model.Kind, stage string) { stages = append(stages, stage) }))
	p.byKind[model.KindExplanation] = func(model.Record) *component.Node { panic("layout bug") }
	p.errorFn = func(string) *component.Node { panic("error layout bug") }

	tree := p.Render(model.DefaultExplanation("Go"))
	require.NoError(t, component.Validate(tree))
	assert.Equal(t, component.TypeText, tree.Type)
	assert.Empty(t, tree.Children)
	assert.Equal(t, "We couldn't prepare this explanation. Please try again.", tree.String("text"))
	assert.Equal(t, []string{StageRender, StageError}, stages)
}

func TestNilAndUnknownRecords(t *testing.T) {
	p := NewProducer(nil)
	for _, rec := range []model.Record{nil, (*model.Course)(nil), (*model.Quiz)(nil)} {
		tree := p.Render(rec)
		require.NoError(t, component.Validate(tree))
		assert.Equal(t, "error", tree.String("variant"))
	}
	tree := p.Render(&model.StudyPlan{Title: "Pointer"})
	assert.Equal(t, "study_plan", tree.String("variant"))
}

func TestSkeleton(t *testing.T) {
	tree := NewProducer(nil).RenderSkeleton("")
	require.NoError(t, component.Validate(tree))
	assert.Equal(t, "loading", tree.String("state"))
	assert.Contains(t, component.Types(tree), component.TypeSkeleton)
	assert.Contains(t, texts(tree), "Preparing your content on "+model.DefaultTopic+"…")
}

func TestErrorMessageDefaults(t *testing.T) {
	assert.Contains(t, texts(Error("")), DefaultMessage)
	assert.Contains(t, texts(Error("Quota exceeded")), "Quota exceeded")
	assert.Equal(t, DefaultMessage, Nuclear(" ").String("text"))
}
