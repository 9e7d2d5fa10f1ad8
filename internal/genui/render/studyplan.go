package render

import (
	"fmt"

	"github.com/yungbote/neurobridge-genui/internal/genui/component"
	"github.com/yungbote/neurobridge-genui/internal/genui/model"
)

func StudyPlan(p model.StudyPlan) *component.Node {
	header := component.VStack(
		component.Text(p.Title, "title"),
		optionalText(p.Goal, "body"),
		badges(p.Level, p.Duration, plural(len(p.Steps), "step")),
	)

	steps := p.Steps
	if len(steps) > MaxSteps {
		steps = steps[:MaxSteps]
	}
	rows := make([]*component.Node, 0, len(steps)+1)
	for i, s := range steps {
		rows = append(rows, component.HStack(
			component.Badge(fmt.Sprintf("%d", i+1), "step"),
			component.Text(s, "body"),
		))
	}
	rows = append(rows, moreCaption(len(p.Steps), len(steps), "steps"))

	payload := map[string]any{"plan_id": p.ID}
	root := component.Card(p.Title, "study_plan",
		header,
		component.Divider(),
		component.VStack(rows...),
		bulletSection("Tips", p.Tips, MaxTips, "tips"),
		component.HStack(
			component.Button("Start plan", "start_plan", payload),
			component.Button("Adjust plan", "adjust_plan", map[string]any{"plan_id": p.ID}),
		),
	)
	return withProps(root, "plan_id", p.ID, "topic", p.Topic)
}
