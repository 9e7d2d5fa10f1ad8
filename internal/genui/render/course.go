package render

import (
	"fmt"

	"github.com/yungbote/neurobridge-genui/internal/genui/component"
	"github.com/yungbote/neurobridge-genui/internal/genui/model"
)

// Course renders a course outline card: header, stats row, objectives and modules, action row.
// The root uses the generic card tag with variant "course".
func Course(c model.Course) *component.Node {
	lessonCount := 0
	for _, m := range c.Modules {
		lessonCount += len(m.Lessons)
	}

	header := component.VStack(
		component.Text(c.Title, "title"),
		optionalText(c.Description, "body"),
		badges(c.Level, c.Duration),
	)
	stats := component.HStack(
		component.Text(plural(len(c.Modules), "module"), "stat"),
		component.Text(plural(lessonCount, "lesson"), "stat"),
		component.Progress(0, percent(0)+" complete"),
	)

	body := component.VStack(
		bulletSection("What you'll learn", c.Objectives, MaxObjectives, "objectives"),
		modulesSection(c),
	)

	payload := map[string]any{"course_id": c.ID}
	actions := component.HStack(
		component.Button("Start course", "start_course", payload),
		component.Button("Save for later", "save_course", map[string]any{"course_id": c.ID}),
	)

	root := component.Card(c.Title, "course", header, stats, component.Divider(), body, actions)
	return withProps(root, "course_id", c.ID, "topic", c.Topic)
}

func modulesSection(c model.Course) *component.Node {
	shown := c.Modules
	if len(shown) > MaxModules {
		shown = shown[:MaxModules]
	}
	kids := make([]*component.Node, 0, len(shown)+1)
	for i, m := range shown {
		kids = append(kids, moduleCard(m, i))
	}
	kids = append(kids, moreCaption(len(c.Modules), len(shown), "modules"))
	return component.Scroll(kids...)
}

func moduleCard(m model.Module, position int) *component.Node {
	lessons := m.Lessons
	if len(lessons) > MaxLessons {
		lessons = lessons[:MaxLessons]
	}
	rows := make([]*component.Node, 0, len(lessons)+1)
	for i, l := range lessons {
		rows = append(rows, component.HStack(
			component.Badge(fmt.Sprintf("%d", i+1), "step"),
			component.Text(l.Title, "body"),
			component.Text(l.Duration, "caption"),
		))
	}
	rows = append(rows, moreCaption(len(m.Lessons), len(lessons), "lessons"))

	card := component.Card(m.Title, "module",
		component.Text(fmt.Sprintf("Module %d: %s", position+1, m.Title), "subtitle"),
		optionalText(m.Description, "body"),
		component.Text(fmt.Sprintf("%s · %s", plural(len(m.Lessons), "lesson"), m.Duration), "caption"),
		component.VStack(rows...),
	)
	return withProps(card, "module_id", m.ID)
}

// CourseSummary is the reduced side-channel payload sent alongside a course tree.
type CourseSummary struct {
	Course SummaryCourse `json:"course"`
}

type SummaryCourse struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Topic      string   `json:"topic"`
	Level      string   `json:"level"`
	Duration   string   `json:"duration"`
	Objectives []string `json:"objectives"`
}

// Summary builds the side-channel payload. Objectives are capped at SummaryObjectives.
func Summary(c model.Course) CourseSummary {
	objectives := make([]string, 0, SummaryObjectives)
	for _, o := range c.Objectives {
		if len(objectives) >= SummaryObjectives {
			break
		}
		objectives = append(objectives, o)
	}
	return CourseSummary{Course: SummaryCourse{
		ID:         c.ID,
		Title:      c.Title,
		Topic:      c.Topic,
		Level:      c.Level,
		Duration:   c.Duration,
		Objectives: objectives,
	}}
}

func optionalText(s, style string) *component.Node {
	if s == "" {
		return nil
	}
	return component.Text(s, style)
}
