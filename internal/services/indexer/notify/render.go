package notify

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Content is a rendered notification.
type Content struct {
	Kind    Kind
	Title   string
	Message string
}

// Renderer formats catalog entries for one language.
type Renderer struct {
	printer *message.Printer
}

// NewRenderer returns a renderer for tag. Entries missing in tag fall back to
// the base language.
func NewRenderer(tag language.Tag) *Renderer {
	supported := message.DefaultCatalog.Languages()
	if len(supported) == 0 {
		return &Renderer{printer: message.NewPrinter(BaseLanguage)}
	}
	_, index, confidence := language.NewMatcher(supported).Match(tag)
	if confidence == language.No {
		return &Renderer{printer: message.NewPrinter(BaseLanguage)}
	}
	return &Renderer{printer: message.NewPrinter(supported[index])}
}

// Render formats msg. titleArgs fill the title format and args the message format.
func (r *Renderer) Render(msg Message, titleArgs []any, args ...any) (Content, error) {
	e, ok := entries[msg]
	if !ok {
		return Content{}, fmt.Errorf("unknown notification message %q", msg)
	}
	printer := r.printerOrDefault()
	return Content{
		Kind:    e.kind,
		Title:   printer.Sprintf(titleKey(msg), titleArgs...),
		Message: printer.Sprintf(messageKey(msg), args...),
	}, nil
}

func (r *Renderer) printerOrDefault() *message.Printer {
	if r == nil || r.printer == nil {
		return message.NewPrinter(BaseLanguage)
	}
	return r.printer
}
