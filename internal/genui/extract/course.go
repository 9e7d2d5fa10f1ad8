package extract

import (
	"strings"

	"github.com/yungbote/neurobridge-genui/internal/genui/model"
)

var (
	courseTitleKeys    = []string{"title", "name", "course_title", "courseTitle", "course_name"}
	courseSignalKeys   = append(append([]string{}, courseTitleKeys...), "modules", "lessons", "sections", "units", "chapters")
	courseEnvelopeKeys = []string{"course", "outline", "data", "result", "output", "response"}
	moduleListKeys     = []string{"modules", "sections", "units", "chapters", "weeks", "parts"}
	lessonListKeys     = []string{"lessons", "topics", "items", "steps", "subtopics", "pages"}
	descriptionKeys    = []string{"description", "summary", "overview", "desc", "about", "intro"}
	objectiveKeys      = []string{"objectives", "learning_objectives", "learningObjectives", "goals", "outcomes", "learning_outcomes"}
	levelKeys          = []string{"level", "difficulty", "audience_level", "audienceLevel"}
	durationKeys       = []string{"duration", "estimated_duration", "estimatedDuration", "length", "time"}
)

var courseStrategies = standardChain(typedCourse, courseFromMap, "modules", courseFromOutline)

func typedCourse(in any) (model.Course, bool) {
	switch t := in.(type) {
	case model.Course:
		return t, true
	case *model.Course:
		if t != nil {
			return *t, true
		}
	}
	return model.Course{}, false
}

func courseFromMap(m map[string]any, topic string) (model.Course, bool) {
	m = unwrap(m, courseSignalKeys, courseEnvelopeKeys)
	c := model.Course{
		Title:       clip(lookupString(m, courseTitleKeys...), maxLineRunes),
		Topic:       clip(lookupString(m, "topic", "subject"), maxLineRunes),
		Description: lookupString(m, descriptionKeys...),
		Level:       clip(lookupString(m, levelKeys...), 64),
		Duration:    durationFromMap(m, durationKeys...),
	}
	if v, ok := lookup(m, objectiveKeys...); ok {
		c.Objectives = stringSliceFromAny(v, maxItems)
	}
	if v, ok := lookup(m, moduleListKeys...); ok {
		c.Modules = modulesFromAny(v)
	}
	if len(c.Modules) == 0 {
		if v, ok := lookup(m, lessonListKeys...); ok {
			if lessons := lessonsFromAny(v); len(lessons) > 0 {
				title := c.Title
				if title == "" {
					title = "Course Content"
				}
				c.Modules = []model.Module{{Title: title, Lessons: lessons}}
			}
		}
	}
	recognized := c.Title != "" || c.Description != "" || len(c.Modules) > 0 || len(c.Objectives) > 0
	return c, recognized
}

func modulesFromAny(v any) []model.Module {
	items := orderByExplicitIndex(sliceFromAny(v))
	out := make([]model.Module, 0, len(items))
	for i, it := range items {
		if len(out) >= maxItems {
			break
		}
		if mod, ok := safeChild(func() (model.Module, bool) { return moduleFromAny(it, i) }); ok {
			out = append(out, mod)
		}
	}
	return out
}

func moduleFromAny(v any, index int) (model.Module, bool) {
	switch t := v.(type) {
	case map[string]any:
		mod := model.Module{
			Index:       index,
			Title:       clip(lookupString(t, "title", "name", "module_title", "heading"), maxLineRunes),
			Description: lookupString(t, descriptionKeys...),
			Duration:    durationFromMap(t, durationKeys...),
		}
		if lv, ok := lookup(t, lessonListKeys...); ok {
			mod.Lessons = lessonsFromAny(lv)
		}
		return mod, mod.Title != "" || len(mod.Lessons) > 0
	default:
		title := clip(stringFromAny(v), maxLineRunes)
		if title == "" {
			return model.Module{}, false
		}
		return model.Module{Index: index, Title: title}, true
	}
}

func lessonsFromAny(v any) []model.Lesson {
	items := orderByExplicitIndex(sliceFromAny(v))
	out := make([]model.Lesson, 0, len(items))
	for i, it := range items {
		if len(out) >= maxItems {
			break
		}
		if l, ok := safeChild(func() (model.Lesson, bool) { return lessonFromAny(it, i) }); ok {
			out = append(out, l)
		}
	}
	return out
}

func lessonFromAny(v any, index int) (model.Lesson, bool) {
	switch t := v.(type) {
	case map[string]any:
		l := model.Lesson{
			Index:    index,
			Title:    clip(lookupString(t, "title", "name", "lesson_title", "heading", "topic"), maxLineRunes),
			Summary:  lookupString(t, "summary", "description", "content", "overview"),
			Duration: durationFromMap(t, durationKeys...),
		}
		return l, l.Title != "" || l.Summary != ""
	default:
		title := clip(stringFromAny(v), maxLineRunes)
		if title == "" {
			return model.Lesson{}, false
		}
		return model.Lesson{Index: index, Title: title}, true
	}
}

func courseFromOutline(o outline, topic string) (model.Course, bool) {
	c := model.Course{Title: o.Title}
	if len(o.Intro) > 0 {
		c.Description = clip(strings.Join(o.Intro, "\n\n"), maxBodyRunes)
	}
	for i, s := range o.Sections {
		if isObjectivesHeading(s.Heading) {
			c.Objectives = append(c.Objectives, s.Bullets...)
			continue
		}
		mod := model.Module{Index: i, Title: s.Heading}
		if len(s.Paragraphs) > 0 {
			mod.Description = clip(strings.Join(s.Paragraphs, "\n\n"), maxBodyRunes)
		}
		for j, b := range s.Bullets {
			mod.Lessons = append(mod.Lessons, model.Lesson{Index: j, Title: b})
		}
		c.Modules = append(c.Modules, mod)
	}
	if len(c.Modules) == 0 {
		for i, b := range o.Bullets {
			c.Modules = append(c.Modules, model.Module{Index: i, Title: b})
		}
	} else if len(o.Bullets) > 0 && len(c.Objectives) == 0 {
		c.Objectives = append(c.Objectives, o.Bullets...)
	}
	return c, c.Title != "" || len(c.Modules) > 0
}

func isObjectivesHeading(h string) bool {
	h = strings.ToLower(h)
	for _, w := range []string{"objective", "you will learn", "you'll learn", "goals", "outcomes"} {
		if strings.Contains(h, w) {
			return true
		}
	}
	return false
}

// literalCourse wraps anything into a minimal course titled after the fallback topic.
func literalCourse(in any, topic string) model.Course {
	return model.Course{
		Title:       strings.TrimSpace(topic),
		Topic:       strings.TrimSpace(topic),
		Description: clip(literalText(in), maxSnippet),
	}
}

// safeChild runs one nested extraction; a panic drops that child instead of the whole record.
func safeChild[T any](fn func() (T, bool)) (out T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out, ok = zero, false
		}
	}()
	return fn()
}
