package rendering

import (
	"html"
	"strings"

	"github.com/jonathan/class-reporter/internal/types"
)

// StaticPageEmitter renders documents as an HTML fragment for the static
// page destination. Unbroken runs of list items of the same kind share one
// enclosing list tag.
type StaticPageEmitter struct{}

// NewStaticPageEmitter creates a static page emitter.
func NewStaticPageEmitter() *StaticPageEmitter {
	return &StaticPageEmitter{}
}

// Destination identifies the publish target this emitter serves.
func (e *StaticPageEmitter) Destination() types.Destination {
	return types.DestinationStaticPage
}

// ContentType returns the MIME type of the emitted payload.
func (e *StaticPageEmitter) ContentType() string {
	return "text/html; charset=utf-8"
}

// Emit renders the document as UTF-8 HTML bytes.
func (e *StaticPageEmitter) Emit(doc types.Document) ([]byte, error) {
	return []byte(e.HTML(doc)), nil
}

// HTML renders the document as an HTML fragment.
func (e *StaticPageEmitter) HTML(doc types.Document) string {
	var b strings.Builder
	var openList types.BlockKind

	closeList := func() {
		switch openList {
		case types.KindBulletedItem:
			b.WriteString("</ul>\n")
		case types.KindNumberedItem:
			b.WriteString("</ol>\n")
		}
		openList = ""
	}

	for _, block := range doc.Blocks {
		if block.Kind != openList {
			closeList()
		}

		switch block.Kind {
		case types.KindHeading1:
			writeTag(&b, "h1", block.Spans)
		case types.KindHeading2:
			writeTag(&b, "h2", block.Spans)
		case types.KindHeading3:
			writeTag(&b, "h3", block.Spans)
		case types.KindParagraph:
			writeTag(&b, "p", block.Spans)
		case types.KindQuote:
			writeTag(&b, "blockquote", block.Spans)
		case types.KindDivider:
			b.WriteString("<hr>\n")
		case types.KindBulletedItem:
			if openList != types.KindBulletedItem {
				b.WriteString("<ul>\n")
				openList = types.KindBulletedItem
			}
			writeTag(&b, "li", block.Spans)
		case types.KindNumberedItem:
			if openList != types.KindNumberedItem {
				b.WriteString("<ol>\n")
				openList = types.KindNumberedItem
			}
			writeTag(&b, "li", block.Spans)
		}
	}
	closeList()

	return b.String()
}

func writeTag(b *strings.Builder, tag string, spans []types.StyledSpan) {
	b.WriteString("<" + tag + ">")
	for _, span := range spans {
		b.WriteString(spanHTML(span))
	}
	b.WriteString("</" + tag + ">\n")
}

// spanHTML renders one styled span, nesting strong/em inside the link tag
// and materializing embedded line breaks as <br>.
func spanHTML(span types.StyledSpan) string {
	text := html.EscapeString(span.Text)
	text = strings.ReplaceAll(text, "\n", "<br>")

	if span.Italic {
		text = "<em>" + text + "</em>"
	}
	if span.Bold {
		text = "<strong>" + text + "</strong>"
	}
	if span.LinkURL != "" {
		text = `<a href="` + html.EscapeString(span.LinkURL) + `">` + text + "</a>"
	}
	return text
}
