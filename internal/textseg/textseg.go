// Package textseg splits chapter text into paragraphs and per-character
// units that carry stable absolute offsets into the normalized source.
// The backend computes word spans and sentence spans against the same
// normalized text, so every offset attached here must equal the offset
// the backend would compute for the same character.
package textseg

import (
	"strings"
	"unicode"
)

// Paragraph is a contiguous run of non-blank lines. Start is the rune
// offset of its first character in the normalized source text.
type Paragraph struct {
	Text  string
	Start int
}

// Unit is one renderable element per code point. A newline becomes a
// break marker: it keeps its offset but is excluded from interaction.
type Unit struct {
	Rune   rune
	Offset int
	Break  bool
}

// Span is a half-open [Start, End) rune-offset range.
type Span struct {
	Start int
	End   int
}

// Normalize rewrites line endings to \n. Offsets are only meaningful
// against normalized text; callers must normalize before splitting.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// SplitParagraphs splits normalized text into ordered paragraphs.
// A boundary is one or more blank (empty or whitespace-only) lines.
// Single newlines between non-blank lines stay inside the paragraph.
// Text with no content at all yields one empty paragraph at offset 0.
func SplitParagraphs(text string) []Paragraph {
	runes := []rune(text)

	type line struct{ start, end int } // rune offsets, end excludes the \n
	var lines []line
	start := 0
	for i, r := range runes {
		if r == '\n' {
			lines = append(lines, line{start, i})
			start = i + 1
		}
	}
	lines = append(lines, line{start, len(runes)})

	blank := func(l line) bool {
		for _, r := range runes[l.start:l.end] {
			if !unicode.IsSpace(r) {
				return false
			}
		}
		return true
	}

	var paragraphs []Paragraph
	for i := 0; i < len(lines); {
		if blank(lines[i]) {
			i++
			continue
		}
		j := i
		for j+1 < len(lines) && !blank(lines[j+1]) {
			j++
		}
		paragraphs = append(paragraphs, Paragraph{
			Text:  string(runes[lines[i].start:lines[j].end]),
			Start: lines[i].start,
		})
		i = j + 1
	}

	if len(paragraphs) == 0 {
		return []Paragraph{{Text: "", Start: 0}}
	}
	return paragraphs
}

// Units emits one unit per code point of text, offset base plus the
// local rune index. Titles use base 0; paragraphs use Paragraph.Start.
func (p Paragraph) Units() []Unit {
	return Units(p.Text, p.Start)
}

// Units emits units for arbitrary text starting at the given base offset.
func Units(text string, base int) []Unit {
	runes := []rune(text)
	units := make([]Unit, len(runes))
	for i, r := range runes {
		units[i] = Unit{Rune: r, Offset: base + i, Break: r == '\n'}
	}
	return units
}

// SpanIndex returns the index of the first span containing offset.
// Spans are assumed non-overlapping; on overlap the earliest in list
// order wins.
func SpanIndex(spans []Span, offset int) (int, bool) {
	for i, s := range spans {
		if s.Start <= offset && offset < s.End {
			return i, true
		}
	}
	return -1, false
}
