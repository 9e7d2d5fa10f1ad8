package extract

import (
	"regexp"
	"strings"
)

const maxOutlineLines = 2000

type outlineSection struct {
	Heading    string
	Bullets    []string
	Paragraphs []string
}

// outline is the loose structure recovered from prose: a title, leading paragraphs and bullets,
// then heading-delimited sections.
type outline struct {
	Title    string
	Intro    []string
	Bullets  []string
	Sections []outlineSection
}

func (o outline) empty() bool {
	return o.Title == "" && len(o.Bullets) == 0 && len(o.Sections) == 0
}

func (o outline) allBullets() []string {
	out := append([]string{}, o.Bullets...)
	for _, s := range o.Sections {
		out = append(out, s.Bullets...)
	}
	return out
}

func (o outline) allParagraphs() []string {
	out := append([]string{}, o.Intro...)
	for _, s := range o.Sections {
		out = append(out, s.Paragraphs...)
	}
	return out
}

var (
	bulletRE      = regexp.MustCompile(`^(?:[-*•+▪◦]|\d{1,3}[.)]|\(\d{1,3}\)|[A-Ha-h][.)]|\[[ xX]\])\s+(.+)$`)
	labeledRE     = regexp.MustCompile(`^(?i)(module|unit|week|day|step|lesson|chapter|section|part|phase)\s+\d+\s*[:.\-–—]\s*(.+)$`)
	boldHeadingRE = regexp.MustCompile(`^\*\*([^*]+)\*\*:?$`)
	fieldLineRE   = regexp.MustCompile(`^[A-Za-z][A-Za-z ]{0,24}:\s+\S`)
)

// splitBullet reports whether line is a list item and returns its marker and text.
func splitBullet(line string) (marker, text string, ok bool) {
	m := bulletRE.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	text = strings.TrimSpace(m[1])
	marker = strings.TrimSpace(strings.TrimSuffix(line, m[1]))
	return marker, text, text != ""
}

// heading reports whether line is a heading and returns its text.
func heading(line string) (string, bool) {
	if strings.HasPrefix(line, "#") {
		t := strings.TrimSpace(strings.TrimLeft(line, "#"))
		return t, t != ""
	}
	if m := boldHeadingRE.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := labeledRE.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(line), true
	}
	if strings.HasSuffix(line, ":") && len(line) <= 80 && !strings.Contains(strings.TrimSuffix(line, ":"), ":") {
		return strings.TrimSpace(strings.TrimSuffix(line, ":")), true
	}
	return "", false
}

// parseOutline is the loose line-oriented parser. Headings become titles and section headings,
// bulleted or numbered lines become child items, everything else is paragraph text.
func parseOutline(text string) outline {
	var o outline
	lines := strings.Split(cleanText(text), "\n")
	if len(lines) > maxOutlineLines {
		lines = lines[:maxOutlineLines]
	}

	var para []string
	flush := func() {
		if len(para) == 0 {
			return
		}
		p := clip(strings.Join(para, " "), maxBodyRunes)
		para = para[:0]
		if n := len(o.Sections); n > 0 {
			o.Sections[n-1].Paragraphs = append(o.Sections[n-1].Paragraphs, p)
			return
		}
		o.Intro = append(o.Intro, p)
	}

	sawContent := false
	for _, raw := range lines {
		line := clip(strings.TrimSpace(raw), maxLineRunes)
		if line == "" || line == "```" || strings.HasPrefix(line, "```") {
			flush()
			continue
		}
		if h, ok := heading(line); ok {
			flush()
			if o.Title == "" && !sawContent && strings.HasPrefix(line, "#") {
				o.Title = h
				continue
			}
			if len(o.Sections) < maxItems {
				o.Sections = append(o.Sections, outlineSection{Heading: h})
			}
			sawContent = true
			continue
		}
		if _, item, ok := splitBullet(line); ok {
			flush()
			sawContent = true
			if n := len(o.Sections); n > 0 {
				if len(o.Sections[n-1].Bullets) < maxItems {
					o.Sections[n-1].Bullets = append(o.Sections[n-1].Bullets, item)
				}
				continue
			}
			if len(o.Bullets) < maxItems {
				o.Bullets = append(o.Bullets, item)
			}
			continue
		}
		sawContent = true
		if fieldLineRE.MatchString(line) {
			// "Answer: B" style field lines stand alone rather than joining a paragraph.
			flush()
			para = append(para, line)
			flush()
			continue
		}
		para = append(para, line)
	}
	flush()

	// A single leading heading-less line followed by structure reads as a title.
	if o.Title == "" && len(o.Intro) > 0 && (len(o.Sections) > 0 || len(o.Bullets) > 0) {
		first := o.Intro[0]
		if len([]rune(first)) <= 100 && !strings.HasSuffix(first, ".") {
			o.Title = strings.TrimSuffix(first, ":")
			o.Intro = o.Intro[1:]
		}
	}
	return o
}
