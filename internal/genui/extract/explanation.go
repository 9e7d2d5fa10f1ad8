package extract

import (
	"strings"

	"github.com/yungbote/neurobridge-genui/internal/genui/model"
)

var (
	explanationTitleKeys    = []string{"title", "name", "heading", "concept"}
	explanationBodyKeys     = []string{"body", "content", "explanation", "text", "details", "markdown", "md", "answer"}
	explanationSignalKeys   = append(append([]string{}, explanationTitleKeys...), explanationBodyKeys...)
	explanationEnvelopeKeys = []string{"explanation", "data", "result", "output", "response"}
	keyPointKeys            = []string{"key_points", "keyPoints", "points", "takeaways", "key_takeaways", "highlights", "bullets"}
	exampleKeys             = []string{"examples", "example", "worked_examples", "workedExamples"}
)

var explanationStrategies = standardChain(typedExplanation, explanationFromMap, "key_points", explanationFromOutline)

func typedExplanation(in any) (model.Explanation, bool) {
	switch t := in.(type) {
	case model.Explanation:
		return t, true
	case *model.Explanation:
		if t != nil {
			return *t, true
		}
	}
	return model.Explanation{}, false
}

func explanationFromMap(m map[string]any, topic string) (model.Explanation, bool) {
	m = unwrap(m, explanationSignalKeys, explanationEnvelopeKeys)
	e := model.Explanation{
		Title:   clip(lookupString(m, explanationTitleKeys...), maxLineRunes),
		Topic:   clip(lookupString(m, "topic", "subject"), maxLineRunes),
		Summary: clip(lookupString(m, "summary", "tldr", "overview", "description"), maxSnippet*2),
		Body:    lookupString(m, explanationBodyKeys...),
		Level:   clip(lookupString(m, levelKeys...), 64),
	}
	e.Duration = durationFromMap(m, durationKeys...)
	if v, ok := lookup(m, keyPointKeys...); ok {
		e.KeyPoints = stringSliceFromAny(v, maxItems)
	}
	if v, ok := lookup(m, exampleKeys...); ok {
		e.Examples = stringSliceFromAny(v, maxItems)
	}
	if v, ok := lookup(m, "sections", "paragraphs"); ok && e.Body == "" {
		e.Body = clip(strings.Join(stringSliceFromAny(v, maxItems), "\n\n"), maxBodyRunes)
	}
	return e, e.Title != "" || e.Body != "" || e.Summary != "" || len(e.KeyPoints) > 0
}

func explanationFromOutline(o outline, topic string) (model.Explanation, bool) {
	e := model.Explanation{Title: o.Title}
	paras := make([]string, 0, len(o.Intro)+len(o.Sections))
	paras = append(paras, o.Intro...)
	for _, s := range o.Sections {
		low := strings.ToLower(s.Heading)
		switch {
		case strings.Contains(low, "example"):
			e.Examples = append(e.Examples, s.Paragraphs...)
			e.Examples = append(e.Examples, s.Bullets...)
			continue
		case strings.Contains(low, "key") || strings.Contains(low, "takeaway") || strings.Contains(low, "summary"):
			e.KeyPoints = append(e.KeyPoints, s.Bullets...)
			paras = append(paras, s.Paragraphs...)
			continue
		}
		paras = append(paras, s.Heading)
		paras = append(paras, s.Paragraphs...)
		e.KeyPoints = append(e.KeyPoints, s.Bullets...)
	}
	e.KeyPoints = append(e.KeyPoints, o.Bullets...)
	if len(o.Intro) > 0 {
		e.Summary = clip(firstSentence(o.Intro[0]), maxSnippet)
	}
	e.Body = clip(strings.Join(paras, "\n\n"), maxBodyRunes)
	return e, e.Title != "" || len(e.KeyPoints) > 0
}

func literalExplanation(in any, topic string) model.Explanation {
	text := literalText(in)
	return model.Explanation{
		Title:   strings.TrimSpace(topic),
		Topic:   strings.TrimSpace(topic),
		Summary: clip(firstSentence(text), maxSnippet),
		Body:    clip(text, maxBodyRunes),
	}
}

func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	for i, r := range s {
		if (r == '.' || r == '!' || r == '?') && (i+1 == len(s) || s[i+1] == ' ' || s[i+1] == '\n') {
			return s[:i+1]
		}
		if i > maxSnippet*4 {
			break
		}
	}
	if nl := strings.IndexByte(s, '\n'); nl > 0 {
		return s[:nl]
	}
	return s
}
