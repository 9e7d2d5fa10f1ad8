package model

import (
	"fmt"
	"strings"
)

// SkeletonModuleTitles is the outline synthesized for a course that arrives with no structure.
var SkeletonModuleTitles = []string{"Introduction", "Core Concepts", "Practice"}

// Self-assessment options used when a quiz arrives without usable options.
const (
	SelfCheckCorrect = "I can explain this in my own words"
	SelfCheckReview  = "I need to review this again"
)

var optionLabels = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// OptionLabel returns the display label for the option at index i ("A", "B", ...).
func OptionLabel(i int) string {
	if i >= 0 && i < len(optionLabels) {
		return optionLabels[i]
	}
	return fmt.Sprintf("%d", i+1)
}

func topicOr(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return DefaultTopic
	}
	return topic
}

func DefaultCourse(topic string) Course {
	return NormalizeCourse(Course{}, topic)
}

func DefaultQuiz(topic string) Quiz {
	return NormalizeQuiz(Quiz{}, topic)
}

func DefaultExplanation(topic string) Explanation {
	return NormalizeExplanation(Explanation{}, topic)
}

func DefaultStudyPlan(topic string) StudyPlan {
	return NormalizeStudyPlan(StudyPlan{}, topic)
}

// Default returns the fully defaulted record for kind.
func Default(kind Kind, topic string) Record {
	switch kind {
	case KindCourse:
		return DefaultCourse(topic)
	case KindQuiz:
		return DefaultQuiz(topic)
	case KindStudyPlan:
		return DefaultStudyPlan(topic)
	default:
		return DefaultExplanation(topic)
	}
}

// NormalizeCourse fills every unset field of c. fallbackTopic seeds the title and topic.
func NormalizeCourse(c Course, fallbackTopic string) Course {
	topic := topicOr(fallbackTopic)
	if c.ID == "" {
		c.ID = NewID("course")
	}
	c.Title = strings.TrimSpace(c.Title)
	c.Topic = strings.TrimSpace(c.Topic)
	if c.Topic == "" {
		c.Topic = topic
	}
	if c.Title == "" {
		c.Title = fmt.Sprintf("Introduction to %s", c.Topic)
	}
	c.Description = strings.TrimSpace(c.Description)
	if strings.TrimSpace(c.Level) == "" {
		c.Level = DefaultLevel
	}
	if strings.TrimSpace(c.Duration) == "" {
		c.Duration = DefaultCourseDuration
	}
	c.Objectives = cleanStrings(c.Objectives)

	if len(c.Modules) == 0 {
		c.Modules = make([]Module, 0, len(SkeletonModuleTitles))
		for _, t := range SkeletonModuleTitles {
			c.Modules = append(c.Modules, Module{Title: t})
		}
	}
	for i := range c.Modules {
		c.Modules[i] = NormalizeModule(c.Modules[i], i)
	}
	return c
}

func NormalizeModule(m Module, index int) Module {
	if m.ID == "" {
		m.ID = NewID("module")
	}
	m.Index = index
	m.Title = strings.TrimSpace(m.Title)
	if m.Title == "" {
		m.Title = fmt.Sprintf("Module %d", index+1)
	}
	m.Description = strings.TrimSpace(m.Description)
	if strings.TrimSpace(m.Duration) == "" {
		m.Duration = DefaultModuleDuration
	}
	if m.Lessons == nil {
		m.Lessons = []Lesson{}
	}
	for i := range m.Lessons {
		m.Lessons[i] = NormalizeLesson(m.Lessons[i], i)
	}
	return m
}

func NormalizeLesson(l Lesson, index int) Lesson {
	if l.ID == "" {
		l.ID = NewID("lesson")
	}
	l.Index = index
	l.Title = strings.TrimSpace(l.Title)
	if l.Title == "" {
		l.Title = fmt.Sprintf("Lesson %d", index+1)
	}
	l.Summary = strings.TrimSpace(l.Summary)
	if strings.TrimSpace(l.Duration) == "" {
		l.Duration = DefaultLessonDuration
	}
	return l
}

// NormalizeQuiz guarantees at least two options with exactly one marked correct.
func NormalizeQuiz(q Quiz, fallbackTopic string) Quiz {
	topic := topicOr(fallbackTopic)
	if q.ID == "" {
		q.ID = NewID("quiz")
	}
	q.Topic = strings.TrimSpace(q.Topic)
	if q.Topic == "" {
		q.Topic = topic
	}
	q.Title = strings.TrimSpace(q.Title)
	if q.Title == "" {
		q.Title = fmt.Sprintf("%s Quiz", q.Topic)
	}
	q.Question = strings.TrimSpace(q.Question)
	if q.Question == "" {
		q.Question = fmt.Sprintf("How confident are you with %s?", q.Topic)
	}
	q.Explanation = strings.TrimSpace(q.Explanation)
	if strings.TrimSpace(q.Level) == "" {
		q.Level = DefaultLevel
	}
	if strings.TrimSpace(q.Duration) == "" {
		q.Duration = DefaultQuizDuration
	}

	opts := make([]QuizOption, 0, len(q.Options))
	for _, o := range q.Options {
		o.Text = strings.TrimSpace(o.Text)
		if o.Text == "" {
			continue
		}
		opts = append(opts, o)
	}
	if len(opts) < 2 {
		opts = []QuizOption{
			{Text: SelfCheckCorrect, Correct: true},
			{Text: SelfCheckReview},
		}
	}
	seenCorrect := false
	for i := range opts {
		if opts[i].Correct {
			if seenCorrect {
				opts[i].Correct = false
			}
			seenCorrect = true
		}
	}
	if !seenCorrect {
		opts[0].Correct = true
	}
	for i := range opts {
		if opts[i].ID == "" {
			opts[i].ID = NewID("option")
		}
		opts[i].Index = i
		opts[i].Label = OptionLabel(i)
	}
	q.Options = opts
	return q
}

func NormalizeExplanation(e Explanation, fallbackTopic string) Explanation {
	topic := topicOr(fallbackTopic)
	if e.ID == "" {
		e.ID = NewID("explanation")
	}
	e.Topic = strings.TrimSpace(e.Topic)
	if e.Topic == "" {
		e.Topic = topic
	}
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		e.Title = e.Topic
	}
	e.Summary = strings.TrimSpace(e.Summary)
	e.Body = strings.TrimSpace(e.Body)
	if e.Body == "" {
		if e.Summary != "" {
			e.Body = e.Summary
		} else {
			e.Body = fmt.Sprintf("An explanation of %s is not available yet.", e.Topic)
		}
	}
	e.KeyPoints = cleanStrings(e.KeyPoints)
	e.Examples = cleanStrings(e.Examples)
	if strings.TrimSpace(e.Level) == "" {
		e.Level = DefaultLevel
	}
	if strings.TrimSpace(e.Duration) == "" {
		e.Duration = DefaultLessonDuration
	}
	return e
}

func NormalizeStudyPlan(p StudyPlan, fallbackTopic string) StudyPlan {
	topic := topicOr(fallbackTopic)
	if p.ID == "" {
		p.ID = NewID("plan")
	}
	p.Topic = strings.TrimSpace(p.Topic)
	if p.Topic == "" {
		p.Topic = topic
	}
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		p.Title = fmt.Sprintf("Study Plan: %s", p.Topic)
	}
	p.Goal = strings.TrimSpace(p.Goal)
	if p.Goal == "" {
		p.Goal = fmt.Sprintf("Build a working understanding of %s", p.Topic)
	}
	if strings.TrimSpace(p.Level) == "" {
		p.Level = DefaultLevel
	}
	if strings.TrimSpace(p.Duration) == "" {
		p.Duration = DefaultPlanDuration
	}
	p.Steps = cleanStrings(p.Steps)
	if len(p.Steps) == 0 {
		p.Steps = make([]string, 0, len(SkeletonModuleTitles))
		for _, t := range SkeletonModuleTitles {
			p.Steps = append(p.Steps, fmt.Sprintf("%s: %s", t, p.Topic))
		}
	}
	p.Tips = cleanStrings(p.Tips)
	return p
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
