package render

import (
	"fmt"

	"github.com/yungbote/neurobridge-genui/internal/genui/component"
	"github.com/yungbote/neurobridge-genui/internal/genui/model"
)

func Explanation(e model.Explanation) *component.Node {
	header := component.VStack(
		component.Text(e.Title, "title"),
		badges(e.Level, e.Duration),
	)

	var lead *component.Node
	if e.Summary != "" && e.Summary != e.Body {
		lead = component.Text(e.Summary, "lead")
	}

	paras := paragraphs(e.Body)
	shown := paras
	if len(shown) > MaxParagraphs {
		shown = shown[:MaxParagraphs]
	}
	bodyKids := make([]*component.Node, 0, len(shown)+1)
	for _, p := range shown {
		bodyKids = append(bodyKids, component.Text(p, "body"))
	}
	if len(paras) > len(shown) {
		bodyKids = append(bodyKids, component.Text("…", "caption"))
	}

	actions := component.HStack(
		component.Button("Quiz me", "start_quiz", map[string]any{"topic": e.Topic}),
		component.Button("Explain it simpler", "simplify", map[string]any{"topic": e.Topic}),
	)

	root := component.Card(e.Title, "explanation",
		header,
		lead,
		component.Divider(),
		component.VStack(bodyKids...),
		bulletSection("Key points", e.KeyPoints, MaxKeyPoints, "points"),
		examplesSection(e.Examples),
		actions,
	)
	return withProps(root, "explanation_id", e.ID, "topic", e.Topic)
}

func examplesSection(examples []string) *component.Node {
	if len(examples) == 0 {
		return nil
	}
	shown := examples
	if len(shown) > MaxExamples {
		shown = shown[:MaxExamples]
	}
	kids := make([]*component.Node, 0, len(shown)+2)
	kids = append(kids, component.Text("Examples", "subtitle"))
	for i, ex := range shown {
		title := fmt.Sprintf("Example %d", i+1)
		kids = append(kids, component.Card(title, "example", component.Text(ex, "body")))
	}
	kids = append(kids, moreCaption(len(examples), len(shown), "examples"))
	return component.VStack(kids...)
}
