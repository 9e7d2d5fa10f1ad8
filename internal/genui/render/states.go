package render

import (
	"fmt"
	"strings"

	"github.com/yungbote/neurobridge-genui/internal/genui/component"
	"github.com/yungbote/neurobridge-genui/internal/genui/model"
)

const (
	ErrorTitle     = "Something went wrong"
	DefaultMessage = "We couldn't prepare this content. Please try again."
)

// Skeleton is the loading placeholder shown while content is produced.
func Skeleton(topic string) *component.Node {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = model.DefaultTopic
	}
	root := component.VStack(
		component.Skeleton("title", 1),
		component.Skeleton("block", 3),
		component.Skeleton("block", 3),
		component.Text(fmt.Sprintf("Preparing your content on %s…", topic), "caption"),
	)
	return withProps(root, "state", "loading", "topic", topic)
}

// Error is the friendly error card with a retry action.
func Error(message string) *component.Node {
	message = strings.TrimSpace(message)
	if message == "" {
		message = DefaultMessage
	}
	root := component.Card(ErrorTitle, "error",
		component.Text(ErrorTitle, "title"),
		component.Text(message, "body"),
		component.Button("Try again", "retry", nil),
	)
	return withProps(root, "state", "error")
}

// Nuclear builds a single text leaf directly, without builders or id generation that could fail.
func Nuclear(message string) *component.Node {
	if strings.TrimSpace(message) == "" {
		message = DefaultMessage
	}
	id := "text_fallback"
	func() {
		defer func() { _ = recover() }()
		id = component.NewID(component.TypeText)
	}()
	return &component.Node{
		ID:       id,
		Type:     component.TypeText,
		Props:    component.Props{"text": message},
		Children: []*component.Node{},
	}
}
