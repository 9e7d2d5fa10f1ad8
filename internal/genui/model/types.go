package model

import (
	"strings"

	"github.com/google/uuid"
)

// Kind names one content shape the pipeline knows how to extract and render.
type Kind string

const (
	KindCourse      Kind = "course"
	KindExplanation Kind = "explanation"
	KindQuiz        Kind = "quiz"
	KindStudyPlan   Kind = "study_plan"
)

var allKinds = []Kind{KindCourse, KindExplanation, KindQuiz, KindStudyPlan}

// Kinds returns every supported content kind in a stable order.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// ParseKind maps loose spellings ("Study Plan", "study-plan", "COURSE") onto a Kind.
func ParseKind(s string) (Kind, bool) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer("-", "_", " ", "_").Replace(k)
	switch k {
	case "course", "course_outline", "outline":
		return KindCourse, true
	case "explanation", "explain", "concept":
		return KindExplanation, true
	case "quiz", "question", "quick_check":
		return KindQuiz, true
	case "study_plan", "studyplan", "plan":
		return KindStudyPlan, true
	default:
		return "", false
	}
}

const (
	DefaultLevel          = "Beginner"
	DefaultCourseDuration = "~30 min"
	DefaultLessonDuration = "~10 min"
	DefaultModuleDuration = "~15 min"
	DefaultQuizDuration   = "~2 min"
	DefaultPlanDuration   = "~1 week"
	DefaultTopic          = "General Topic"
)

// NewID returns an opaque identifier valid for one pipeline invocation.
func NewID(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "rec"
	}
	return prefix + "_" + uuid.New().String()
}

type Course struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Topic       string   `json:"topic"`
	Description string   `json:"description"`
	Level       string   `json:"level"`
	Duration    string   `json:"duration"`
	Objectives  []string `json:"objectives"`
	Modules     []Module `json:"modules"`
}

type Module struct {
	ID          string   `json:"id"`
	Index       int      `json:"index"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Lessons     []Lesson `json:"lessons"`
}

type Lesson struct {
	ID       string `json:"id"`
	Index    int    `json:"index"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Duration string `json:"duration"`
}

type Quiz struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Topic       string       `json:"topic"`
	Question    string       `json:"question"`
	Options     []QuizOption `json:"options"`
	Explanation string       `json:"explanation"`
	Level       string       `json:"level"`
	Duration    string       `json:"duration"`
}

type QuizOption struct {
	ID      string `json:"id"`
	Index   int    `json:"index"`
	Label   string `json:"label"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

type Explanation struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Topic     string   `json:"topic"`
	Summary   string   `json:"summary"`
	Body      string   `json:"body"`
	KeyPoints []string `json:"key_points"`
	Examples  []string `json:"examples"`
	Level     string   `json:"level"`
	Duration  string   `json:"duration"`
}

type StudyPlan struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Topic    string   `json:"topic"`
	Goal     string   `json:"goal"`
	Level    string   `json:"level"`
	Duration string   `json:"duration"`
	Steps    []string `json:"steps"`
	Tips     []string `json:"tips"`
}

// Record is implemented by every normalized record type.
type Record interface {
	RecordKind() Kind
	RecordTitle() string
	// RecordIDs lists every non-empty identifier the record carries, nested ones included.
	RecordIDs() []string
}

func (c Course) RecordKind() Kind         { return KindCourse }
func (c Course) RecordTitle() string      { return c.Title }
func (q Quiz) RecordKind() Kind           { return KindQuiz }
func (q Quiz) RecordTitle() string        { return q.Title }
func (e Explanation) RecordKind() Kind    { return KindExplanation }
func (e Explanation) RecordTitle() string { return e.Title }
func (p StudyPlan) RecordKind() Kind      { return KindStudyPlan }
func (p StudyPlan) RecordTitle() string   { return p.Title }

func (c Course) RecordIDs() []string {
	ids := nonEmpty(nil, c.ID)
	for _, m := range c.Modules {
		ids = nonEmpty(ids, m.ID)
		for _, l := range m.Lessons {
			ids = nonEmpty(ids, l.ID)
		}
	}
	return ids
}

func (q Quiz) RecordIDs() []string {
	ids := nonEmpty(nil, q.ID)
	for _, o := range q.Options {
		ids = nonEmpty(ids, o.ID)
	}
	return ids
}

func (e Explanation) RecordIDs() []string { return nonEmpty(nil, e.ID) }
func (p StudyPlan) RecordIDs() []string   { return nonEmpty(nil, p.ID) }

func nonEmpty(ids []string, id string) []string {
	if id == "" {
		return ids
	}
	return append(ids, id)
}
