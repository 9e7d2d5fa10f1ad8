package extract

import (
	"regexp"
	"strings"

	"github.com/yungbote/neurobridge-genui/internal/genui/model"
)

var (
	quizSignalKeys   = []string{"question", "prompt", "stem", "options", "choices", "answers"}
	quizEnvelopeKeys = []string{"quiz", "questions", "items", "data", "result", "output"}
	optionListKeys   = []string{"options", "choices", "answers", "alternatives", "answer_options"}
	answerKeys       = []string{"answer", "correct_answer", "correctAnswer", "correct_option", "correct", "solution"}
	answerIndexKeys  = []string{"correct_index", "correctIndex", "answer_index", "answerIndex"}
	explainKeys      = []string{"explanation", "rationale", "feedback", "why", "reasoning"}

	optionPrefixRE = regexp.MustCompile(`^\(?([A-Ha-h1-8])[.):]\s+`)
	answerLineRE   = regexp.MustCompile(`^(?i)(?:correct\s+)?answer\s*[:\-–]\s*(.+)$`)
	explainLineRE  = regexp.MustCompile(`^(?i)(?:explanation|rationale|why)\s*[:\-–]\s*(.+)$`)
	correctMarkRE  = regexp.MustCompile(`(?i)\s*(\((?:correct|right|answer)\)|✓|✔|\*$)\s*`)
)

var quizStrategies = standardChain(typedQuiz, quizFromMap, "options", quizFromOutline)

func typedQuiz(in any) (model.Quiz, bool) {
	switch t := in.(type) {
	case model.Quiz:
		return t, true
	case *model.Quiz:
		if t != nil {
			return *t, true
		}
	}
	return model.Quiz{}, false
}

func quizFromMap(m map[string]any, topic string) (model.Quiz, bool) {
	title := lookupString(m, "title", "name", "quiz_title")
	m = unwrap(m, quizSignalKeys, quizEnvelopeKeys)
	q := model.Quiz{
		Title:       clip(firstNonEmpty(lookupString(m, "title", "name", "quiz_title"), title), maxLineRunes),
		Topic:       clip(lookupString(m, "topic", "subject"), maxLineRunes),
		Question:    clip(lookupString(m, "question", "prompt", "stem", "q", "text", "prompt_md", "question_md"), maxBodyRunes),
		Explanation: clip(lookupString(m, explainKeys...), maxBodyRunes),
		Level:       clip(lookupString(m, levelKeys...), 64),
		Duration:    durationFromMap(m, durationKeys...),
	}
	if v, ok := lookup(m, optionListKeys...); ok {
		q.Options = optionsFromAny(v)
	}
	markAnswer(&q, m)
	return q, q.Question != "" || len(q.Options) > 0
}

func optionsFromAny(v any) []model.QuizOption {
	items := sliceFromAny(v)
	out := make([]model.QuizOption, 0, len(items))
	for _, it := range items {
		if len(out) >= 12 {
			break
		}
		opt, ok := safeChild(func() (model.QuizOption, bool) { return optionFromAny(it) })
		if ok {
			out = append(out, opt)
		}
	}
	return out
}

func optionFromAny(v any) (model.QuizOption, bool) {
	switch t := v.(type) {
	case map[string]any:
		o := model.QuizOption{
			Text: clip(lookupString(t, "text", "label", "option", "value", "content", "answer", "choice"), maxLineRunes),
		}
		if c, ok := lookup(t, "correct", "is_correct", "isCorrect", "right", "is_answer"); ok {
			o.Correct = boolFromAny(c, false)
		}
		o.Label = strings.ToUpper(lookupString(t, "id", "key", "letter"))
		o.Text, o.Label = stripOptionPrefix(o.Text, o.Label)
		return o, o.Text != ""
	default:
		text := clip(stringFromAny(v), maxLineRunes)
		o := model.QuizOption{}
		if correctMarkRE.MatchString(text) {
			o.Correct = true
			text = strings.TrimSpace(correctMarkRE.ReplaceAllString(text, " "))
		}
		o.Text, o.Label = stripOptionPrefix(text, "")
		return o, o.Text != ""
	}
}

func stripOptionPrefix(text, label string) (string, string) {
	if m := optionPrefixRE.FindStringSubmatch(text); m != nil {
		rest := strings.TrimSpace(text[len(m[0]):])
		if rest != "" {
			if label == "" {
				label = strings.ToUpper(m[1])
			}
			text = rest
		}
	}
	return text, label
}

// markAnswer resolves quiz-level answer fields (index, letter, or option text) onto the options.
func markAnswer(q *model.Quiz, m map[string]any) {
	if len(q.Options) == 0 {
		return
	}
	if v, ok := lookup(m, answerIndexKeys...); ok {
		if i := intFromAny(v, -1); i >= 0 && i < len(q.Options) {
			setCorrect(q, i)
			return
		}
	}
	v, ok := lookup(m, answerKeys...)
	if !ok {
		return
	}
	if _, isBool := v.(bool); isBool {
		return
	}
	if f, ok := floatFromAnyRaw(v); ok {
		// Bare numeric answers are treated as 1-based positions, matching how they are written.
		i := int(f) - 1
		if i >= 0 && i < len(q.Options) {
			setCorrect(q, i)
		}
		return
	}
	if i := resolveAnswerText(q.Options, stringFromAny(v)); i >= 0 {
		setCorrect(q, i)
	}
}

func resolveAnswerText(opts []model.QuizOption, ans string) int {
	ans = strings.TrimSpace(ans)
	if ans == "" {
		return -1
	}
	letter, rest := ans, ""
	if m := optionPrefixRE.FindStringSubmatch(ans + " "); m != nil {
		letter = m[1]
		rest = strings.TrimSpace(ans[min(len(ans), len(m[0])):])
	}
	if len([]rune(letter)) == 1 {
		up := strings.ToUpper(letter)
		for i, o := range opts {
			if o.Label == up {
				return i
			}
		}
		if r := up[0]; r >= 'A' && r <= 'H' && int(r-'A') < len(opts) {
			return int(r - 'A')
		}
	}
	for _, cand := range []string{ans, rest} {
		if cand == "" {
			continue
		}
		for i, o := range opts {
			if strings.EqualFold(o.Text, cand) {
				return i
			}
		}
	}
	return -1
}

func setCorrect(q *model.Quiz, idx int) {
	for i := range q.Options {
		q.Options[i].Correct = i == idx
	}
}

func quizFromOutline(o outline, topic string) (model.Quiz, bool) {
	q := model.Quiz{Title: o.Title}
	var answer string
	var bullets []string
	paras := o.allParagraphs()

	// A heading phrased as a question is the question itself.
	if strings.HasSuffix(o.Title, "?") {
		q.Question, q.Title = o.Title, ""
	}
	for _, p := range paras {
		switch {
		case answerLineRE.MatchString(p):
			answer = answerLineRE.FindStringSubmatch(p)[1]
		case explainLineRE.MatchString(p):
			q.Explanation = explainLineRE.FindStringSubmatch(p)[1]
		case q.Question == "":
			q.Question = p
		}
	}
	for _, s := range o.Sections {
		if q.Question == "" && strings.HasSuffix(s.Heading, "?") {
			q.Question = s.Heading
		}
	}
	for _, b := range o.allBullets() {
		if m := answerLineRE.FindStringSubmatch(b); m != nil {
			answer = m[1]
			continue
		}
		bullets = append(bullets, b)
	}
	q.Options = optionsFromAny(bullets)
	if answer != "" {
		if i := resolveAnswerText(q.Options, answer); i >= 0 {
			setCorrect(&q, i)
		}
	}
	return q, q.Question != "" || len(q.Options) > 0
}

func literalQuiz(in any, topic string) model.Quiz {
	q := model.Quiz{Topic: strings.TrimSpace(topic)}
	text := literalText(in)
	if strings.HasSuffix(text, "?") {
		q.Question = clip(text, maxSnippet)
	}
	return q
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
