package textseg

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"windows endings", "你好\r\n\r\n世界", "你好\n\n世界"},
		{"bare carriage return", "你好\r世界", "你好\n世界"},
		{"already normalized", "你好\n世界", "你好\n世界"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Paragraph
	}{
		{
			name:     "two paragraphs",
			input:    "你好\n\n世界",
			expected: []Paragraph{{Text: "你好", Start: 0}, {Text: "世界", Start: 4}},
		},
		{
			name:     "embedded single newline stays",
			input:    "A\nB",
			expected: []Paragraph{{Text: "A\nB", Start: 0}},
		},
		{
			name:     "whitespace-only separator line",
			input:    "你好\n \n世界",
			expected: []Paragraph{{Text: "你好", Start: 0}, {Text: "世界", Start: 5}},
		},
		{
			name:     "multiple blank lines collapse to one boundary",
			input:    "一\n\n\n\n二",
			expected: []Paragraph{{Text: "一", Start: 0}, {Text: "二", Start: 5}},
		},
		{
			name:     "leading blank lines",
			input:    "\n\n你好",
			expected: []Paragraph{{Text: "你好", Start: 2}},
		},
		{
			name:     "trailing newline",
			input:    "你好\n",
			expected: []Paragraph{{Text: "你好", Start: 0}},
		},
		{
			name:     "only blank lines",
			input:    "\n\n \n",
			expected: []Paragraph{{Text: "", Start: 0}},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []Paragraph{{Text: "", Start: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitParagraphs(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("SplitParagraphs(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("paragraph %d = %+v, want %+v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestUnits(t *testing.T) {
	units := Units("世界", 4)
	if len(units) != 2 {
		t.Fatalf("Units() length = %d, want 2", len(units))
	}
	if units[0] != (Unit{Rune: '世', Offset: 4}) {
		t.Errorf("units[0] = %+v, want 世 at offset 4", units[0])
	}
	if units[1] != (Unit{Rune: '界', Offset: 5}) {
		t.Errorf("units[1] = %+v, want 界 at offset 5", units[1])
	}
}

func TestUnitsEmbeddedBreak(t *testing.T) {
	units := Units("A\nB", 0)
	expected := []Unit{
		{Rune: 'A', Offset: 0},
		{Rune: '\n', Offset: 1, Break: true},
		{Rune: 'B', Offset: 2},
	}
	if len(units) != len(expected) {
		t.Fatalf("Units() length = %d, want %d", len(units), len(expected))
	}
	for i := range units {
		if units[i] != expected[i] {
			t.Errorf("units[%d] = %+v, want %+v", i, units[i], expected[i])
		}
	}
}

// Every visible unit's offset must recover the same character from the
// normalized source, and repeated rendering must agree with itself.
func TestOffsetFidelity(t *testing.T) {
	texts := []string{
		"你好\n\n世界",
		"第一章\n山中有雨。\n\n他说：你好吗？\r\n我很好。\n\n\n完",
		"A\nB",
		"  缩进的段落\n第二行\n\n下一段",
	}

	for _, raw := range texts {
		norm := []rune(Normalize(raw))
		first := SplitParagraphs(Normalize(raw))
		second := SplitParagraphs(Normalize(raw))

		for i := range first {
			if first[i] != second[i] {
				t.Errorf("rendering not idempotent for %q: %+v vs %+v", raw, first[i], second[i])
			}
			for _, u := range first[i].Units() {
				if u.Break {
					continue
				}
				if u.Offset < 0 || u.Offset >= len(norm) {
					t.Fatalf("offset %d out of range for %q", u.Offset, raw)
				}
				if norm[u.Offset] != u.Rune {
					t.Errorf("offset %d: rendered %q, source has %q", u.Offset, u.Rune, norm[u.Offset])
				}
			}
		}
	}
}

func TestSpanIndex(t *testing.T) {
	spans := []Span{{Start: 0, End: 4}, {Start: 4, End: 6}}

	tests := []struct {
		name    string
		offset  int
		want    int
		wantHit bool
	}{
		{"start of second span", 4, 1, true},
		{"inside second span", 5, 1, true},
		{"end is exclusive", 6, -1, false},
		{"inside first span", 3, 0, true},
		{"before everything", -1, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := SpanIndex(spans, tt.offset)
			if got != tt.want || hit != tt.wantHit {
				t.Errorf("SpanIndex(%d) = %d, %v; want %d, %v", tt.offset, got, hit, tt.want, tt.wantHit)
			}
		})
	}
}

func TestSpanIndexOverlapFirstMatchWins(t *testing.T) {
	spans := []Span{{Start: 0, End: 5}, {Start: 3, End: 8}}
	got, hit := SpanIndex(spans, 4)
	if !hit || got != 0 {
		t.Errorf("SpanIndex(4) = %d, %v; want 0, true", got, hit)
	}
}
