package render

import (
	"github.com/yungbote/neurobridge-genui/internal/genui/component"
	"github.com/yungbote/neurobridge-genui/internal/genui/model"
)

// Quiz renders a single-question quiz. The quiz node carries the full option list in props for
// clients that render it natively, and one answer button per option as children so that a
// client without the quiz type still gets answerable content after adaptation.
func Quiz(q model.Quiz) *component.Node {
	options := make([]any, 0, len(q.Options))
	buttons := make([]*component.Node, 0, len(q.Options))
	correctID := ""
	correctIndex := -1
	for i, o := range q.Options {
		if o.Correct && correctIndex < 0 {
			correctID = o.ID
			correctIndex = i
		}
		options = append(options, map[string]any{
			"id":      o.ID,
			"label":   o.Label,
			"text":    o.Text,
			"correct": i == correctIndex,
		})
		buttons = append(buttons, component.Button(optionLabel(o), "answer_quiz", map[string]any{
			"quiz_id":   q.ID,
			"option_id": o.ID,
		}))
	}

	quiz := component.New(component.TypeQuiz, component.Props{
		"quiz_id":           q.ID,
		"question":          q.Question,
		"options":           options,
		"correct_option_id": correctID,
		"correct_index":     correctIndex,
		"explanation":       q.Explanation,
		"multiple":          false,
	}, buttons...)

	root := component.Card(q.Title, "quiz",
		component.VStack(
			component.Text(q.Title, "title"),
			badges(q.Level, q.Duration),
		),
		component.Text(q.Question, "question"),
		quiz,
		component.HStack(
			component.Button("Check answer", "check_answer", map[string]any{"quiz_id": q.ID}),
		),
	)
	return withProps(root, "quiz_id", q.ID, "topic", q.Topic)
}

func optionLabel(o model.QuizOption) string {
	if o.Label == "" {
		return o.Text
	}
	return o.Label + ". " + o.Text
}
