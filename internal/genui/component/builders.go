package component

// Thin factories for hand-authored trees. They only fill props; layout decisions live in render.

func Text(text, style string) *Node {
	p := Props{"text": text}
	if style != "" {
		p["style"] = style
	}
	return New(TypeText, p)
}

func Button(label, action string, payload map[string]any) *Node {
	p := Props{"label": label, "action": action}
	if len(payload) > 0 {
		p["payload"] = payload
	}
	return New(TypeButton, p)
}

func VStack(children ...*Node) *Node {
	return New(TypeVStack, Props{"spacing": 8}, children...)
}

func HStack(children ...*Node) *Node {
	return New(TypeHStack, Props{"spacing": 8}, children...)
}

func Scroll(children ...*Node) *Node {
	return New(TypeScroll, Props{"axis": "vertical"}, children...)
}

func Card(title, variant string, children ...*Node) *Node {
	p := Props{"title": title}
	if variant != "" {
		p["variant"] = variant
	}
	return New(TypeCard, p, children...)
}

func Image(url, alt string) *Node {
	return New(TypeImage, Props{"url": url, "alt": alt})
}

func Divider() *Node {
	return New(TypeDivider, nil)
}

func Skeleton(variant string, lines int) *Node {
	if lines < 1 {
		lines = 1
	}
	return New(TypeSkeleton, Props{"variant": variant, "lines": lines})
}

func Fallback(text string, originalType Type) *Node {
	return New(TypeFallback, Props{"text": text, "original_type": string(originalType)})
}

// Progress takes a fraction in [0,1]; values outside are clamped.
func Progress(fraction float64, label string) *Node {
	if fraction < 0 || fraction != fraction {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return New(TypeProgress, Props{"value": fraction, "label": label})
}

func Badge(label, tone string) *Node {
	p := Props{"label": label}
	if tone != "" {
		p["tone"] = tone
	}
	return New(TypeBadge, p)
}

func Spacer(size int) *Node {
	return New(TypeSpacer, Props{"size": size})
}
