package markdown

import (
	"regexp"
	"strings"

	"github.com/jonathan/class-reporter/internal/types"
)

// Segment is one classified block-level unit of a Markdown document, before
// inline formatting has been applied to its text.
type Segment struct {
	Kind    types.BlockKind
	RawText string

	// ListIndex is the 1-based position within an unbroken numbered-list
	// run. Zero for every other kind.
	ListIndex int
}

// Line classification patterns, checked in priority order: heading, bullet,
// numbered item, quote, divider. Everything else accumulates as paragraph
// text.
var (
	headingPattern  = regexp.MustCompile(`^(#{1,3})\s+(.*)$`)
	bulletPattern   = regexp.MustCompile(`^\s*[-*•]\s+(.*)$`)
	numberedPattern = regexp.MustCompile(`^\s*\d+\.\s+(.*)$`)
	quotePattern    = regexp.MustCompile(`^>\s*(.*)$`)
	dividerPattern  = regexp.MustCompile(`^\s*(-{3,}|\*{3,}|_{3,})\s*$`)
)

// SegmentDocument splits a Markdown document into an ordered sequence of
// block-level segments. Blank lines separate blocks and are discarded;
// consecutive plain lines join into one paragraph and consecutive quote
// lines into one quote, each with an embedded line break per source line.
func SegmentDocument(doc string) []Segment {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")

	var (
		segments []Segment
		para     []string
		quote    []string
		numbered int
	)

	emit := func(seg Segment) {
		if seg.Kind != types.KindNumberedItem {
			numbered = 0
		}
		segments = append(segments, seg)
	}
	flushPara := func() {
		if len(para) > 0 {
			emit(Segment{Kind: types.KindParagraph, RawText: strings.Join(para, "\n")})
			para = nil
		}
	}
	flushQuote := func() {
		if len(quote) > 0 {
			emit(Segment{Kind: types.KindQuote, RawText: strings.Join(quote, "\n")})
			quote = nil
		}
	}
	flushAll := func() {
		flushQuote()
		flushPara()
	}

	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimRight(line, " \t")

		if line == "" {
			flushAll()
			continue
		}

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			flushAll()
			kind := types.KindHeading1
			switch len(m[1]) {
			case 2:
				kind = types.KindHeading2
			case 3:
				kind = types.KindHeading3
			}
			emit(Segment{Kind: kind, RawText: strings.TrimSpace(m[2])})
			continue
		}

		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			flushAll()
			emit(Segment{Kind: types.KindBulletedItem, RawText: m[1]})
			continue
		}

		if m := numberedPattern.FindStringSubmatch(line); m != nil {
			flushAll()
			numbered++
			emit(Segment{Kind: types.KindNumberedItem, RawText: m[1], ListIndex: numbered})
			continue
		}

		if m := quotePattern.FindStringSubmatch(line); m != nil {
			flushPara()
			quote = append(quote, m[1])
			continue
		}

		if dividerPattern.MatchString(line) {
			flushAll()
			emit(Segment{Kind: types.KindDivider})
			continue
		}

		flushQuote()
		para = append(para, line)
	}

	flushAll()
	return segments
}
