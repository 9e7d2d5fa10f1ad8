package render

import (
	"fmt"
	"strings"

	"github.com/yungbote/neurobridge-genui/internal/genui/component"
)

// Display caps. Anything past a cap is summarized by a "+N more" caption.
const (
	MaxObjectives     = 5
	MaxModules        = 8
	MaxLessons        = 6
	MaxKeyPoints      = 5
	MaxExamples       = 3
	MaxParagraphs     = 12
	MaxSteps          = 7
	MaxTips           = 3
	SummaryObjectives = 6
)

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// percent formats a fraction as a whole percentage, clamped to [0,100].
func percent(fraction float64) string {
	if fraction != fraction || fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return fmt.Sprintf("%d%%", int(fraction*100+0.5))
}

// moreCaption returns a "+N more" caption when total exceeds shown, else nil.
func moreCaption(total, shown int, noun string) *component.Node {
	if total <= shown {
		return nil
	}
	return component.Text(fmt.Sprintf("+%d more %s", total-shown, noun), "caption")
}

// bulletSection renders a titled list of at most max items.
func bulletSection(title string, items []string, max int, noun string) *component.Node {
	if len(items) == 0 {
		return nil
	}
	shown := items
	if len(shown) > max {
		shown = shown[:max]
	}
	kids := make([]*component.Node, 0, len(shown)+2)
	kids = append(kids, component.Text(title, "subtitle"))
	for _, it := range shown {
		kids = append(kids, component.Text("• "+it, "body"))
	}
	kids = append(kids, moreCaption(len(items), len(shown), noun))
	return component.VStack(kids...)
}

// paragraphs splits body text on blank lines.
func paragraphs(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	raw := strings.Split(body, "\n\n")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func badges(labels ...string) *component.Node {
	kids := make([]*component.Node, 0, len(labels))
	for _, l := range labels {
		if strings.TrimSpace(l) == "" {
			continue
		}
		kids = append(kids, component.Badge(l, "neutral"))
	}
	return component.HStack(kids...)
}

func withProps(n *component.Node, kv ...any) *component.Node {
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			n.Props[k] = kv[i+1]
		}
	}
	return n
}
