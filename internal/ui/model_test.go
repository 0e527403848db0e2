package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"zhread/internal/api"
	"zhread/internal/config"
	"zhread/internal/press"
	"zhread/internal/speech"
	"zhread/internal/state"
	"zhread/internal/textseg"
)

func testModel(t *testing.T) Model {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	store, err := state.NewStore()
	if err != nil {
		t.Fatal(err)
	}
	speaker, err := speech.New("true {text}")
	if err != nil {
		t.Fatal(err)
	}

	m := New(Options{
		Client:  api.NewClient("http://127.0.0.1:1", nil, nil),
		Speaker: speaker,
		Store:   store,
		Config:  config.Default(),
	})
	return m.resize(tea.WindowSizeMsg{Width: 80, Height: 24})
}

func testChapter() api.Chapter {
	return api.Chapter{
		BookID:       "b1",
		BookTitle:    "书",
		ChapterID:    "ch01",
		ChapterTitle: "第一章",
		Text:         "你好。再见。",
		EnSentences: []api.Sentence{
			{Start: 0, End: 3, En: "Hello."},
			{Start: 3, End: 6, En: "Goodbye."},
		},
	}
}

func TestSelectionContains(t *testing.T) {
	sel := selection{kind: selWord, span: textseg.Span{Start: 2, End: 4}}

	tests := []struct {
		name string
		cell layoutCell
		want bool
	}{
		{"inside", layoutCell{offset: 2}, true},
		{"last inside", layoutCell{offset: 3}, true},
		{"end excluded", layoutCell{offset: 4}, false},
		{"before", layoutCell{offset: 1}, false},
		{"title cell never matches body selection", layoutCell{offset: 2, title: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sel.contains(tt.cell); got != tt.want {
				t.Errorf("contains(%+v) = %v, want %v", tt.cell, got, tt.want)
			}
		})
	}

	if (selection{}).contains(layoutCell{offset: 2}) {
		t.Error("empty selection must contain nothing")
	}
}

func TestStaleChapterDiscarded(t *testing.T) {
	m := testModel(t)
	m.loadSeq = 2

	updated, _ := m.Update(chapterMsg{seq: 1, chapter: testChapter()})
	if updated.(Model).view != nil {
		t.Error("stale chapter fetch must not install a view")
	}
}

func TestInstallChapter(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(chapterMsg{seq: 0, chapter: testChapter()})
	got := updated.(Model)

	if got.view == nil {
		t.Fatal("chapter not installed")
	}
	if got.loading {
		t.Error("loading flag still set")
	}
	if len(got.view.sentences) != 2 {
		t.Errorf("sentences = %d, want 2", len(got.view.sentences))
	}

	// Install persists the position for this backend host.
	pos, ok := got.store.Position(got.client.Host())
	if !ok || pos.BookID != "b1" || pos.ChapterID != "ch01" {
		t.Errorf("saved position = %+v, %v", pos, ok)
	}
}

func TestLongPressSelectsSentenceAndSwallowsClick(t *testing.T) {
	m := testModel(t)
	m.screen = screenReading
	updated, _ := m.Update(chapterMsg{seq: 0, chapter: testChapter()})
	m = updated.(Model)

	// Body starts below the title and its separator: content line 2.
	// Press on 再 (offset 3, first char of the second sentence).
	pressMsg := tea.MouseMsg{
		X:      6,
		Y:      headerHeight + 2,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	}
	updated, cmd := m.Update(pressMsg)
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("press must arm the long-press timer")
	}
	if m.press.State() != press.Pressing {
		t.Fatalf("state = %v, want Pressing", m.press.State())
	}

	updated, _ = m.Update(pressTimerMsg{seq: 1})
	m = updated.(Model)
	if m.sel.kind != selSentence {
		t.Fatalf("selection kind = %v, want sentence", m.sel.kind)
	}
	if m.sel.en != "Goodbye." {
		t.Errorf("translation = %q, want Goodbye.", m.sel.en)
	}

	// The release after a fired long press must not trigger a lookup.
	releaseMsg := tea.MouseMsg{
		X:      6,
		Y:      headerHeight + 2,
		Action: tea.MouseActionRelease,
		Button: tea.MouseButtonLeft,
	}
	updated, cmd = m.Update(releaseMsg)
	m = updated.(Model)
	if cmd != nil {
		t.Error("release after long press fired a lookup")
	}
	if m.press.State() != press.Idle {
		t.Errorf("state = %v, want Idle", m.press.State())
	}
}

func TestTapTriggersLookup(t *testing.T) {
	m := testModel(t)
	m.screen = screenReading
	updated, _ := m.Update(chapterMsg{seq: 0, chapter: testChapter()})
	m = updated.(Model)

	pressMsg := tea.MouseMsg{X: 0, Y: headerHeight + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	updated, _ = m.Update(pressMsg)
	m = updated.(Model)

	releaseMsg := tea.MouseMsg{X: 0, Y: headerHeight + 2, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
	_, cmd := m.Update(releaseMsg)
	if cmd == nil {
		t.Error("tap release must produce a lookup command")
	}
}

func TestStaleLookupDiscarded(t *testing.T) {
	m := testModel(t)
	updated, _ := m.Update(chapterMsg{seq: 0, chapter: testChapter()})
	m = updated.(Model)
	m.loadSeq = 5

	updated, _ = m.Update(lookupMsg{seq: 0, result: api.LookupResult{Selected: api.Span{Text: "你好", Start: 0, End: 2}}})
	if updated.(Model).sel.kind != selNone {
		t.Error("stale lookup applied a selection")
	}
}

func TestLookupHighlightsSpan(t *testing.T) {
	m := testModel(t)
	updated, _ := m.Update(chapterMsg{seq: 0, chapter: testChapter()})
	m = updated.(Model)

	result := api.LookupResult{
		Selected: api.Span{Text: "你好", Start: 0, End: 2},
		Entry:    &api.DictEntry{Pinyin: api.StringList{"nǐ hǎo"}, Definitions: []string{"hello"}},
	}
	updated, _ = m.Update(lookupMsg{seq: 0, result: result})
	got := updated.(Model)

	if got.sel.kind != selWord || got.sel.span != (textseg.Span{Start: 0, End: 2}) {
		t.Errorf("selection = %+v", got.sel)
	}
	if got.sel.entry == nil || got.sel.entry.Definitions[0] != "hello" {
		t.Errorf("entry = %+v", got.sel.entry)
	}
}

func TestPressOutsideTextCancels(t *testing.T) {
	m := testModel(t)
	m.screen = screenReading
	updated, _ := m.Update(chapterMsg{seq: 0, chapter: testChapter()})
	m = updated.(Model)

	// Press on the blank separator line.
	pressMsg := tea.MouseMsg{X: 0, Y: headerHeight + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	updated, cmd := m.Update(pressMsg)
	m = updated.(Model)

	if cmd != nil {
		t.Error("press outside text armed a timer")
	}
	if m.press.State() != press.Idle {
		t.Errorf("state = %v, want Idle", m.press.State())
	}
}
