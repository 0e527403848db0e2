package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"zhread/internal/api"
	"zhread/internal/textseg"
)

// layoutCell is one rendered character with the screen columns it
// occupies. CJK characters are two columns wide.
type layoutCell struct {
	r      rune
	offset int
	x      int
	w      int
	title  bool
}

type layoutLine struct {
	cells []layoutCell
}

// chapterView is the immutable rendering state of one loaded chapter.
// It is rebuilt wholesale on every chapter load or resize, never
// mutated, so a stale view can simply be dropped.
type chapterView struct {
	chapter    api.Chapter
	text       string
	paragraphs []textseg.Paragraph
	sentences  []textseg.Span
	width      int
	lines      []layoutLine
}

// newChapterView normalizes the chapter text, splits it and lays it
// out for the given content width.
func newChapterView(ch api.Chapter, width int) *chapterView {
	if width < 4 {
		width = 80
	}

	v := &chapterView{
		chapter: ch,
		text:    textseg.Normalize(ch.Text),
		width:   width,
	}
	v.paragraphs = textseg.SplitParagraphs(v.text)
	for _, s := range ch.EnSentences {
		v.sentences = append(v.sentences, textseg.Span{Start: s.Start, End: s.End})
	}

	if title := strings.TrimSpace(ch.ChapterTitle); title != "" {
		v.lines = append(v.lines, wrap(textseg.Units(title, 0), width, true)...)
		v.lines = append(v.lines, layoutLine{})
	}
	for i, p := range v.paragraphs {
		if i > 0 {
			v.lines = append(v.lines, layoutLine{})
		}
		v.lines = append(v.lines, wrap(p.Units(), width, false)...)
	}
	return v
}

// wrap flows units into lines no wider than width columns. Break units
// end the current line and occupy no cell.
func wrap(units []textseg.Unit, width int, title bool) []layoutLine {
	var lines []layoutLine
	var cur layoutLine
	x := 0

	flush := func() {
		lines = append(lines, cur)
		cur = layoutLine{}
		x = 0
	}

	for _, u := range units {
		if u.Break {
			flush()
			continue
		}
		w := runewidth.RuneWidth(u.Rune)
		if w == 0 {
			w = 1
		}
		if x+w > width {
			flush()
		}
		cur.cells = append(cur.cells, layoutCell{r: u.Rune, offset: u.Offset, x: x, w: w, title: title})
		x += w
	}
	flush()
	return lines
}

// offsetAt maps a content coordinate back to the absolute rune offset
// of the character rendered there. y counts content lines, x counts
// screen columns.
func (v *chapterView) offsetAt(x, y int) (offset int, title bool, ok bool) {
	if y < 0 || y >= len(v.lines) {
		return 0, false, false
	}
	for _, c := range v.lines[y].cells {
		if x >= c.x && x < c.x+c.w {
			return c.offset, c.title, true
		}
	}
	return 0, false, false
}

// sentenceAt returns the sentence span containing offset, if any.
func (v *chapterView) sentenceAt(offset int) (textseg.Span, int, bool) {
	i, ok := textseg.SpanIndex(v.sentences, offset)
	if !ok {
		return textseg.Span{}, 0, false
	}
	return v.sentences[i], i, true
}

// sentenceText slices the normalized text for a sentence span.
func (v *chapterView) sentenceText(s textseg.Span) string {
	runes := []rune(v.text)
	if s.Start < 0 || s.End > len(runes) || s.Start >= s.End {
		return ""
	}
	return string(runes[s.Start:s.End])
}

// render draws the full chapter, highlighting the current selection.
// Styles are applied per run of equally styled cells.
func (v *chapterView) render(th Theme, sel selection) string {
	const (
		styleText = iota
		styleTitle
		styleHighlight
	)
	styleOf := func(c layoutCell) int {
		if sel.contains(c) {
			return styleHighlight
		}
		if c.title {
			return styleTitle
		}
		return styleText
	}
	renderRun := func(b *strings.Builder, kind int, run []rune) {
		if len(run) == 0 {
			return
		}
		switch kind {
		case styleTitle:
			b.WriteString(th.Title.Render(string(run)))
		case styleHighlight:
			b.WriteString(th.Highlight.Render(string(run)))
		default:
			b.WriteString(th.Text.Render(string(run)))
		}
	}

	var b strings.Builder
	for i, line := range v.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		var run []rune
		kind := styleText
		for _, c := range line.cells {
			if k := styleOf(c); k != kind {
				renderRun(&b, kind, run)
				run = run[:0]
				kind = k
			}
			run = append(run, c.r)
		}
		renderRun(&b, kind, run)
	}
	return b.String()
}
