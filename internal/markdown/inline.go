// Package markdown implements the report Markdown dialect: inline styling,
// block segmentation, and compilation into the rich-content block model.
//
// The dialect is the subset the report generator is prompted to produce:
// headings 1-3, bulleted and numbered list items, single-level quotes,
// dividers, paragraphs, and inline bold/italic/link styling. Anything the
// parser cannot match degrades to literal text rather than failing.
package markdown

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/class-reporter/internal/types"
)

// schemePattern matches a URL scheme prefix such as "https:" or "mailto:".
var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)

// FormatInline turns a run of text containing **bold**, *italic*,
// [label](url), bare URLs, backslash escapes, and literal newlines into an ordered
// span sequence. Adjacent spans with identical styling are merged, so the
// result is minimal. Unmatched delimiters are emitted as literal text and
// empty emphasis (`****`, `**`) collapses to zero spans.
func FormatInline(text string) []types.StyledSpan {
	s := &inlineScanner{src: []rune(text)}
	s.scan()
	return types.MergeSpans(s.spans)
}

// inlineScanner walks the text once, left to right, tracking which style
// delimiters are currently open. A delimiter only opens when a matching
// closer exists further along; otherwise it is literal. One bold and one
// italic level may be open at a time; deeper alternations degrade to
// literal text. A closer spotted by the lookahead can still be consumed by
// a different construct before the opener reaches it, so any style left
// open at end of scan is undone and its opener re-emitted as literal text.
type inlineScanner struct {
	src       []rune
	pos       int
	bold      bool
	italic    bool
	boldAt    int
	italicAt  int
	boldLit   types.StyledSpan
	italicLit types.StyledSpan
	buf       strings.Builder
	spans     []types.StyledSpan
}

func (s *inlineScanner) scan() {
	for s.pos < len(s.src) {
		r := s.src[s.pos]
		switch {
		case r == '\\' && s.pos+1 < len(s.src) && escapable(s.src[s.pos+1]):
			s.buf.WriteRune(s.src[s.pos+1])
			s.pos += 2
		case r == '[':
			if !s.scanLink() {
				s.buf.WriteRune(r)
				s.pos++
			}
		case r == '*':
			s.scanDelimiter()
		case r == 'h' || r == 'w':
			if !s.scanBareURL() {
				s.buf.WriteRune(r)
				s.pos++
			}
		default:
			s.buf.WriteRune(r)
			s.pos++
		}
	}
	s.flush()

	// Undo later-opened styles first so the earlier undo also strips its
	// style from the literal delimiter the later undo re-inserted.
	if s.bold && s.italic && s.boldAt > s.italicAt {
		s.undoOpen(s.boldAt, s.boldLit, func(sp *types.StyledSpan) { sp.Bold = false })
		s.undoOpen(s.italicAt, s.italicLit, func(sp *types.StyledSpan) { sp.Italic = false })
		return
	}
	if s.italic {
		s.undoOpen(s.italicAt, s.italicLit, func(sp *types.StyledSpan) { sp.Italic = false })
	}
	if s.bold {
		s.undoOpen(s.boldAt, s.boldLit, func(sp *types.StyledSpan) { sp.Bold = false })
	}
}

// undoOpen reverts a style whose closer never arrived: the spans emitted
// since the opener lose the style and the opener re-enters the output as
// the literal delimiter text, carrying the styles that surrounded it.
func (s *inlineScanner) undoOpen(at int, lit types.StyledSpan, clear func(*types.StyledSpan)) {
	for i := at; i < len(s.spans); i++ {
		clear(&s.spans[i])
	}
	s.spans = append(s.spans, types.StyledSpan{})
	copy(s.spans[at+1:], s.spans[at:])
	s.spans[at] = lit
}

// scanDelimiter handles one `*` or `**` occurrence. Closing an open style
// wins over opening a new one; opening requires a later closer.
func (s *inlineScanner) scanDelimiter() {
	if s.pos+1 < len(s.src) && s.src[s.pos+1] == '*' {
		if s.bold {
			s.flush()
			s.bold = false
			s.pos += 2
			return
		}
		if s.hasCloser("**", s.pos+2) {
			s.flush()
			s.bold = true
			s.boldAt = len(s.spans)
			s.boldLit = types.StyledSpan{Text: "**", Italic: s.italic}
			s.pos += 2
			return
		}
		// No bold closer. The pair may still read as `*`+`*`, covering the
		// empty-italic collapse of a bare `**`.
	}
	if s.italic {
		s.flush()
		s.italic = false
		s.pos++
		return
	}
	if s.hasCloser("*", s.pos+1) {
		s.flush()
		s.italic = true
		s.italicAt = len(s.spans)
		s.italicLit = types.StyledSpan{Text: "*", Bold: s.bold}
		s.pos++
		return
	}
	s.buf.WriteRune('*')
	s.pos++
}

// scanLink recognizes [label](url) greedily starting at the current `[`.
// Returns false when the bracket structure is absent so the caller can emit
// the `[` literally. A structurally complete link with a malformed target
// is emitted as raw literal text instead.
func (s *inlineScanner) scanLink() bool {
	labelEnd := s.indexFrom(']', s.pos+1)
	if labelEnd < 0 || labelEnd == s.pos+1 {
		return false
	}
	if labelEnd+1 >= len(s.src) || s.src[labelEnd+1] != '(' {
		return false
	}
	urlEnd := s.indexFrom(')', labelEnd+2)
	if urlEnd < 0 {
		return false
	}

	label := string(s.src[s.pos+1 : labelEnd])
	url := strings.TrimSpace(string(s.src[labelEnd+2 : urlEnd]))

	if !validLinkTarget(url) {
		s.buf.WriteString(string(s.src[s.pos : urlEnd+1]))
		s.pos = urlEnd + 1
		return true
	}

	s.flush()
	s.spans = append(s.spans, types.StyledSpan{
		Text:    label,
		Bold:    s.bold,
		Italic:  s.italic,
		LinkURL: url,
	})
	s.pos = urlEnd + 1
	return true
}

// scanBareURL recognizes a bare http(s):// or www. URL in running text and
// emits it as a link span, so a URL pasted into notes becomes clickable.
// www.-prefixed targets are normalized to https://.
func (s *inlineScanner) scanBareURL() bool {
	rest := string(s.src[s.pos:])
	var prefix string
	for _, p := range []string{"https://", "http://", "www."} {
		if strings.HasPrefix(rest, p) {
			prefix = p
			break
		}
	}
	if prefix == "" {
		return false
	}

	end := s.pos + len([]rune(prefix))
	if end >= len(s.src) || bareURLStop(s.src[end]) {
		return false
	}
	for end < len(s.src) && !bareURLStop(s.src[end]) {
		end++
	}

	url := string(s.src[s.pos:end])
	target := url
	if prefix == "www." {
		target = "https://" + url
	}

	s.flush()
	s.spans = append(s.spans, types.StyledSpan{
		Text:    url,
		Bold:    s.bold,
		Italic:  s.italic,
		LinkURL: target,
	})
	s.pos = end
	return true
}

// bareURLStop ends a bare URL run. `*` is excluded so styling delimiters
// around a pasted URL keep working.
func bareURLStop(r rune) bool {
	switch r {
	case '<', '>', '"', '*':
		return true
	}
	return unicode.IsSpace(r)
}

// flush emits the accumulated text as one span carrying the current style.
func (s *inlineScanner) flush() {
	if s.buf.Len() == 0 {
		return
	}
	s.spans = append(s.spans, types.StyledSpan{
		Text:   s.buf.String(),
		Bold:   s.bold,
		Italic: s.italic,
	})
	s.buf.Reset()
}

// hasCloser reports whether delim occurs at or after from, skipping escaped
// characters.
func (s *inlineScanner) hasCloser(delim string, from int) bool {
	d := []rune(delim)
	for i := from; i < len(s.src); i++ {
		if s.src[i] == '\\' {
			i++
			continue
		}
		if i+len(d) > len(s.src) {
			return false
		}
		match := true
		for j := range d {
			if s.src[i+j] != d[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// indexFrom returns the position of the first unescaped r at or after from,
// or -1.
func (s *inlineScanner) indexFrom(r rune, from int) int {
	for i := from; i < len(s.src); i++ {
		if s.src[i] == '\\' {
			i++
			continue
		}
		if s.src[i] == r {
			return i
		}
	}
	return -1
}

// validLinkTarget accepts targets with a scheme-like prefix or a leading
// slash; everything else renders as raw bracket text.
func validLinkTarget(url string) bool {
	if url == "" {
		return false
	}
	if strings.HasPrefix(url, "/") {
		return true
	}
	return schemePattern.MatchString(url)
}

func escapable(r rune) bool {
	switch r {
	case '*', '_', '\\', '[', ']':
		return true
	}
	return false
}
