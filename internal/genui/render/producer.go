package render

import (
	"fmt"

	"github.com/yungbote/neurobridge-genui/internal/genui/component"
	"github.com/yungbote/neurobridge-genui/internal/genui/model"
	"github.com/yungbote/neurobridge-genui/internal/platform/logger"
)

// Guard stages reported to the observer.
const (
	StageRender   = "render"
	StageSkeleton = "skeleton"
	StageError    = "error"
)

// GuardObserver is told every time a guard substitutes a fallback tree.
type GuardObserver func(kind model.Kind, stage string)

// Producer is the guarded rendering surface. Its entry points always return a valid tree.
type Producer struct {
	log      *logger.Logger
	observer GuardObserver

	// Overridable layouts; nil entries use the package renderers.
	byKind  map[model.Kind]func(model.Record) *component.Node
	errorFn func(string) *component.Node
	skelFn  func(string) *component.Node
}

type ProducerOption func(*Producer)

func WithGuardObserver(o GuardObserver) ProducerOption {
	return func(p *Producer) { p.observer = o }
}

func NewProducer(log *logger.Logger, opts ...ProducerOption) *Producer {
	p := &Producer{
		log:     logger.OrNop(log),
		byKind:  defaultLayouts(),
		errorFn: Error,
		skelFn:  Skeleton,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func defaultLayouts() map[model.Kind]func(model.Record) *component.Node {
	return map[model.Kind]func(model.Record) *component.Node{
		model.KindCourse: func(r model.Record) *component.Node {
			return Course(asCourse(r))
		},
		model.KindQuiz: func(r model.Record) *component.Node {
			return Quiz(asQuiz(r))
		},
		model.KindExplanation: func(r model.Record) *component.Node {
			return Explanation(asExplanation(r))
		},
		model.KindStudyPlan: func(r model.Record) *component.Node {
			return StudyPlan(asStudyPlan(r))
		},
	}
}

// Render lays out a normalized record. A failing layout yields the error tree.
func (p *Producer) Render(rec model.Record) *component.Node {
	kind, ok := kindOf(rec)
	if !ok {
		p.tripped("", StageRender, fmt.Errorf("nil record %T", rec))
		return p.RenderError("")
	}
	fn := p.byKind[kind]
	if fn == nil {
		p.tripped(kind, StageRender, fmt.Errorf("no layout for kind %q", kind))
		return p.RenderError("")
	}
	tree, err := guarded(func() *component.Node { return fn(rec) })
	if err != nil {
		p.tripped(kind, StageRender, err)
		return p.RenderError(friendly(kind))
	}
	return tree
}

// RenderSkeleton returns the loading placeholder, or the error tree if that fails.
func (p *Producer) RenderSkeleton(topic string) *component.Node {
	tree, err := guarded(func() *component.Node { return p.skelFn(topic) })
	if err != nil {
		p.tripped("", StageSkeleton, err)
		return p.RenderError("")
	}
	return tree
}

// RenderError returns the error tree, or the nuclear single text node if that fails.
func (p *Producer) RenderError(message string) *component.Node {
	tree, err := guarded(func() *component.Node { return p.errorFn(message) })
	if err != nil {
		p.tripped("", StageError, err)
		return Nuclear(message)
	}
	return tree
}

// guarded runs fn, converting a panic or an invalid tree into an error.
func guarded(fn func() *component.Node) (tree *component.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			tree, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	tree = fn()
	if err := component.Validate(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// kindOf tolerates nil and typed-nil records.
func kindOf(rec model.Record) (kind model.Kind, ok bool) {
	if rec == nil {
		return "", false
	}
	defer func() {
		if recover() != nil {
			kind, ok = "", false
		}
	}()
	return rec.RecordKind(), true
}

func (p *Producer) tripped(kind model.Kind, stage string, err error) {
	p.log.Error("render guard triggered", "kind", string(kind), "stage", stage, "error", err)
	if p.observer == nil {
		return
	}
	defer func() { _ = recover() }()
	p.observer(kind, stage)
}

func friendly(kind model.Kind) string {
	switch kind {
	case model.KindCourse:
		return "We couldn't prepare this course. Please try again."
	case model.KindQuiz:
		return "We couldn't prepare this quiz. Please try again."
	case model.KindExplanation:
		return "We couldn't prepare this explanation. Please try again."
	case model.KindStudyPlan:
		return "We couldn't prepare this study plan. Please try again."
	default:
		return DefaultMessage
	}
}

// The as* helpers accept value or pointer records; anything else is a layout failure.

func asCourse(r model.Record) model.Course {
	switch t := r.(type) {
	case model.Course:
		return t
	case *model.Course:
		return *t
	}
	panic(fmt.Sprintf("unexpected course record %T", r))
}

func asQuiz(r model.Record) model.Quiz {
	switch t := r.(type) {
	case model.Quiz:
		return t
	case *model.Quiz:
		return *t
	}
	panic(fmt.Sprintf("unexpected quiz record %T", r))
}

func asExplanation(r model.Record) model.Explanation {
	switch t := r.(type) {
	case model.Explanation:
		return t
	case *model.Explanation:
		return *t
	}
	panic(fmt.Sprintf("unexpected explanation record %T", r))
}

func asStudyPlan(r model.Record) model.StudyPlan {
	switch t := r.(type) {
	case model.StudyPlan:
		return t
	case *model.StudyPlan:
		return *t
	}
	panic(fmt.Sprintf("unexpected study plan record %T", r))
}
