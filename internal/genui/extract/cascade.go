package extract

import (
	"fmt"
	"strings"

	"github.com/yungbote/neurobridge-genui/internal/genui/model"
	"github.com/yungbote/neurobridge-genui/internal/platform/logger"
)

// Strategy names, in cascade order.
const (
	StrategyTyped   = "typed"
	StrategyMap     = "map"
	StrategyJSON    = "json_text"
	StrategyOutline = "outline"
	StrategyLiteral = "literal"
)

// strategy is one step of a cascade. run returns ok=false to mean "try the next strategy".
type strategy[T any] struct {
	name string
	run  func(in any, topic string) (T, bool)
}

// Observer is told which strategy resolved each extraction.
type Observer func(kind model.Kind, strategy string)

type Extractor struct {
	log      *logger.Logger
	observer Observer
}

type Option func(*Extractor)

func WithObserver(o Observer) Option {
	return func(e *Extractor) { e.observer = o }
}

func New(log *logger.Logger, opts ...Option) *Extractor {
	e := &Extractor{log: logger.OrNop(log)}
	for _, o := range opts {
		o(e)
	}
	return e
}

var defaultExtractor = New(nil)

// Extract converts any input into a fully defaulted record of the requested kind. It never panics.
func Extract(raw any, kind model.Kind, fallbackTopic string) model.Record {
	return defaultExtractor.Extract(raw, kind, fallbackTopic)
}

func (e *Extractor) Extract(raw any, kind model.Kind, fallbackTopic string) model.Record {
	switch kind {
	case model.KindCourse:
		return e.Course(raw, fallbackTopic)
	case model.KindQuiz:
		return e.Quiz(raw, fallbackTopic)
	case model.KindStudyPlan:
		return e.StudyPlan(raw, fallbackTopic)
	default:
		return e.Explanation(raw, fallbackTopic)
	}
}

func (e *Extractor) Course(raw any, topic string) model.Course {
	c := runCascade(e, model.KindCourse, courseStrategies, raw, topic, literalCourse)
	return model.NormalizeCourse(c, topic)
}

func (e *Extractor) Quiz(raw any, topic string) model.Quiz {
	q := runCascade(e, model.KindQuiz, quizStrategies, raw, topic, literalQuiz)
	return model.NormalizeQuiz(q, topic)
}

func (e *Extractor) Explanation(raw any, topic string) model.Explanation {
	x := runCascade(e, model.KindExplanation, explanationStrategies, raw, topic, literalExplanation)
	return model.NormalizeExplanation(x, topic)
}

func (e *Extractor) StudyPlan(raw any, topic string) model.StudyPlan {
	p := runCascade(e, model.KindStudyPlan, studyPlanStrategies, raw, topic, literalStudyPlan)
	return model.NormalizeStudyPlan(p, topic)
}

// runCascade tries each strategy in order; a panic inside one is treated as "try next".
// literal is the terminal step and always resolves.
func runCascade[T any](e *Extractor, kind model.Kind, chain []strategy[T], in any, topic string, literal func(any, string) T) T {
	for _, s := range chain {
		out, ok := tryStrategy(e, kind, s, in, topic)
		if ok {
			e.resolved(kind, s.name)
			return out
		}
	}
	out, ok := tryStrategy(e, kind, strategy[T]{name: StrategyLiteral, run: func(in any, topic string) (T, bool) {
		return literal(in, topic), true
	}}, in, topic)
	if !ok {
		// Only reachable if literal itself panicked; the zero record is normalized by the caller.
		var zero T
		out = zero
	}
	e.resolved(kind, StrategyLiteral)
	return out
}

func tryStrategy[T any](e *Extractor, kind model.Kind, s strategy[T], in any, topic string) (out T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Debug("extract strategy panicked",
				"kind", string(kind),
				"strategy", s.name,
				"error", fmt.Sprint(r),
			)
			var zero T
			out, ok = zero, false
		}
	}()
	return s.run(in, topic)
}

func (e *Extractor) resolved(kind model.Kind, name string) {
	if e.observer == nil {
		return
	}
	defer func() { _ = recover() }()
	e.observer(kind, name)
}

// standardChain assembles the typed -> map -> JSON text -> outline order shared by every kind.
// listKey names the field a bare JSON array is treated as (modules, options, ...).
func standardChain[T any](
	typed func(in any) (T, bool),
	fromMap func(m map[string]any, topic string) (T, bool),
	listKey string,
	fromOutline func(o outline, topic string) (T, bool),
) []strategy[T] {
	return []strategy[T]{
		{name: StrategyTyped, run: func(in any, _ string) (T, bool) {
			return typed(in)
		}},
		{name: StrategyMap, run: func(in any, topic string) (T, bool) {
			m, ok := asMap(in)
			if !ok {
				var zero T
				return zero, false
			}
			return fromMap(m, topic)
		}},
		{name: StrategyJSON, run: func(in any, topic string) (T, bool) {
			var zero T
			text, ok := asText(in)
			if !ok {
				return zero, false
			}
			// Invalid bytes are dropped, not decoded to U+FFFD, so JSON text agrees with cleanText.
			for _, cand := range jsonCandidates(strings.ToValidUTF8(text, "")) {
				v, ok := decodeJSON(cand)
				if !ok {
					continue
				}
				switch t := v.(type) {
				case map[string]any:
					if out, ok := fromMap(t, topic); ok {
						return out, true
					}
				case []any:
					if len(t) == 0 {
						continue
					}
					if out, ok := fromMap(map[string]any{listKey: t}, topic); ok {
						return out, true
					}
				}
			}
			return zero, false
		}},
		{name: StrategyOutline, run: func(in any, topic string) (T, bool) {
			var zero T
			text, ok := asText(in)
			if !ok {
				return zero, false
			}
			o := parseOutline(text)
			if o.empty() {
				return zero, false
			}
			return fromOutline(o, topic)
		}},
	}
}
