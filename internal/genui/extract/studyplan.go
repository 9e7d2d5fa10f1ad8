package extract

import (
	"strings"

	"github.com/yungbote/neurobridge-genui/internal/genui/model"
)

var (
	planSignalKeys   = []string{"title", "name", "plan_title", "goal", "steps", "milestones", "schedule"}
	planEnvelopeKeys = []string{"study_plan", "studyPlan", "plan", "data", "result", "output"}
	stepListKeys     = []string{"steps", "milestones", "schedule", "weeks", "days", "tasks", "sessions", "phases"}
	tipKeys          = []string{"tips", "advice", "notes", "recommendations"}
)

var studyPlanStrategies = standardChain(typedStudyPlan, studyPlanFromMap, "steps", studyPlanFromOutline)

func typedStudyPlan(in any) (model.StudyPlan, bool) {
	switch t := in.(type) {
	case model.StudyPlan:
		return t, true
	case *model.StudyPlan:
		if t != nil {
			return *t, true
		}
	}
	return model.StudyPlan{}, false
}

func studyPlanFromMap(m map[string]any, topic string) (model.StudyPlan, bool) {
	m = unwrap(m, planSignalKeys, planEnvelopeKeys)
	p := model.StudyPlan{
		Title:    clip(lookupString(m, "title", "name", "plan_title"), maxLineRunes),
		Topic:    clip(lookupString(m, "topic", "subject"), maxLineRunes),
		Goal:     clip(lookupString(m, "goal", "objective", "target", "aim", "summary"), maxSnippet*2),
		Level:    clip(lookupString(m, levelKeys...), 64),
		Duration: durationFromMap(m, append([]string{"total_duration", "totalDuration"}, durationKeys...)...),
	}
	if v, ok := lookup(m, stepListKeys...); ok {
		p.Steps = stepsFromAny(v)
	}
	if v, ok := lookup(m, tipKeys...); ok {
		p.Tips = stringSliceFromAny(v, maxItems)
	}
	return p, p.Title != "" || p.Goal != "" || len(p.Steps) > 0
}

// stepsFromAny flattens step objects into "Title: description" lines.
func stepsFromAny(v any) []string {
	raw := sliceFromAny(v)
	if raw == nil {
		return stringSliceFromAny(v, maxItems)
	}
	items := orderByExplicitIndex(raw)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if len(out) >= maxItems {
			break
		}
		s, ok := safeChild(func() (string, bool) {
			m, isMap := it.(map[string]any)
			if !isMap {
				s := clip(stringFromAny(it), maxLineRunes)
				return s, s != ""
			}
			title := lookupString(m, "title", "name", "focus", "topic", "label")
			desc := lookupString(m, "description", "details", "summary", "activities", "tasks")
			switch {
			case title != "" && desc != "":
				return clip(title+": "+desc, maxLineRunes), true
			case title != "":
				return clip(title, maxLineRunes), true
			default:
				return clip(desc, maxLineRunes), desc != ""
			}
		})
		if ok {
			out = append(out, s)
		}
	}
	return out
}

func studyPlanFromOutline(o outline, topic string) (model.StudyPlan, bool) {
	p := model.StudyPlan{Title: o.Title}
	if len(o.Intro) > 0 {
		p.Goal = clip(o.Intro[0], maxSnippet*2)
	}
	p.Steps = append(p.Steps, o.Bullets...)
	for _, s := range o.Sections {
		low := strings.ToLower(s.Heading)
		if strings.Contains(low, "tip") || strings.Contains(low, "advice") {
			p.Tips = append(p.Tips, s.Bullets...)
			p.Tips = append(p.Tips, s.Paragraphs...)
			continue
		}
		if len(s.Bullets) > 0 {
			p.Steps = append(p.Steps, clip(s.Heading+": "+strings.Join(s.Bullets, "; "), maxLineRunes))
			continue
		}
		p.Steps = append(p.Steps, s.Heading)
	}
	return p, p.Title != "" || len(p.Steps) > 0
}

func literalStudyPlan(in any, topic string) model.StudyPlan {
	return model.StudyPlan{
		Topic: strings.TrimSpace(topic),
		Goal:  clip(literalText(in), maxSnippet),
	}
}
