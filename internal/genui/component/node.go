package component

import (
	"strings"

	"github.com/google/uuid"
)

// ProtocolVersion versions the closed Type enumeration below. Bump the minor version when a
// type is added; clients declare the version they were built against.
const ProtocolVersion = "1.3.0"

// Type is the closed set of node tags a client may be asked to render.
type Type string

const (
	TypeText     Type = "text"
	TypeButton   Type = "button"
	TypeVStack   Type = "vstack"
	TypeHStack   Type = "hstack"
	TypeScroll   Type = "scroll"
	TypeCard     Type = "card"
	TypeQuiz     Type = "quiz"
	TypeImage    Type = "image"
	TypeDivider  Type = "divider"
	TypeSkeleton Type = "skeleton"
	TypeFallback Type = "fallback"
	TypeProgress Type = "progress"
	TypeBadge    Type = "badge"
	TypeSpacer   Type = "spacer"
)

var knownTypes = map[Type]struct{}{
	TypeText: {}, TypeButton: {}, TypeVStack: {}, TypeHStack: {}, TypeScroll: {},
	TypeCard: {}, TypeQuiz: {}, TypeImage: {}, TypeDivider: {}, TypeSkeleton: {},
	TypeFallback: {}, TypeProgress: {}, TypeBadge: {}, TypeSpacer: {},
}

// AllTypes returns the enumeration in declaration order.
func AllTypes() []Type {
	return []Type{
		TypeText, TypeButton, TypeVStack, TypeHStack, TypeScroll, TypeCard, TypeQuiz,
		TypeImage, TypeDivider, TypeSkeleton, TypeFallback, TypeProgress, TypeBadge, TypeSpacer,
	}
}

// Known reports whether t is a member of the closed enumeration.
func Known(t Type) bool {
	_, ok := knownTypes[t]
	return ok
}

// Normalize lower-cases and trims a wire type name.
func Normalize(name string) Type {
	return Type(strings.ToLower(strings.TrimSpace(name)))
}

// Props holds scalar, list, or nested-map values only. See Validate.
type Props map[string]any

// Node is one renderable element of a component tree.
type Node struct {
	ID       string  `json:"id"`
	Type     Type    `json:"type"`
	Props    Props   `json:"props"`
	Children []*Node `json:"children"`
}

// NewID returns a node identifier prefixed by its type.
func NewID(t Type) string {
	prefix := string(t)
	if prefix == "" {
		prefix = "node"
	}
	return prefix + "_" + uuid.New().String()
}

// New builds a node with a fresh id. Nil children are dropped.
func New(t Type, props Props, children ...*Node) *Node {
	if props == nil {
		props = Props{}
	}
	kids := make([]*Node, 0, len(children))
	for _, c := range children {
		if c != nil {
			kids = append(kids, c)
		}
	}
	return &Node{
		ID:       NewID(t),
		Type:     t,
		Props:    props,
		Children: kids,
	}
}

// String returns the string value of a prop, or "" when absent or not a string.
func (n *Node) String(key string) string {
	if n == nil || n.Props == nil {
		return ""
	}
	s, _ := n.Props[key].(string)
	return s
}

// TextProps lists the properties that carry human-readable content, most specific first.
var TextProps = []string{"text", "label", "title", "question", "message", "caption", "alt"}

// BestText returns the first non-blank text-bearing property of n.
func BestText(n *Node) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, key := range TextProps {
		if s := strings.TrimSpace(n.String(key)); s != "" {
			return s, true
		}
	}
	return "", false
}
