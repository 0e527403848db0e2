package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"zhread/internal/vocab"
)

func (m Model) updateVocab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "enter":
			m.searching = false
			m.search.Blur()
			return m, nil
		case "esc":
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
			m.filter.Query = ""
			m.refreshVocab()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.filter.Query = m.search.Value()
		m.refreshVocab()
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.screen = m.prevScreen
		return m, nil
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "l":
		m.filter.Learned = m.filter.Learned.Next()
		m.refreshVocab()
		return m, nil
	case "0", "b":
		m.filter.BandAll = true
		m.refreshVocab()
		return m, nil
	case "1", "2", "3", "4", "5", "6", "7":
		m.filter.BandAll = false
		m.filter.Band = vocab.ParseBand(msg.String())
		m.refreshVocab()
		return m, nil
	case "r":
		m.loading = true
		m.vocabLoaded = false
		return m, tea.Batch(m.spinner.Tick, loadVocab(m.client))
	}

	var cmd tea.Cmd
	m.vocabVP, cmd = m.vocabVP.Update(msg)
	return m, cmd
}

// refreshVocab re-renders the filtered list into the viewport.
func (m *Model) refreshVocab() {
	filtered := m.filter.Apply(m.entries)
	m.vocabVP.SetContent(m.renderVocab(filtered))
	m.vocabVP.GotoTop()
}

func (m Model) renderVocab(entries []vocab.Entry) string {
	if len(entries) == 0 {
		return m.theme.Help.Render("no entries match")
	}

	headWidth := 0
	for _, e := range entries {
		if w := runewidth.StringWidth(e.Headword); w > headWidth {
			headWidth = w
		}
	}
	if headWidth > 12 {
		headWidth = 12
	}

	// Truncate definitions before styling; escape codes must not be cut.
	defWidth := m.width - headWidth - 30
	if defWidth < 10 {
		defWidth = 10
	}

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		mark := " "
		if e.Learned {
			mark = "✓"
		}
		head := runewidth.FillRight(e.Headword, headWidth)
		pinyin := runewidth.FillRight(strings.Join(e.Pinyin, ", "), 16)
		def := runewidth.Truncate(strings.Join(e.Definitions, "; "), defWidth, "…")

		fmt.Fprintf(&b, "%s %s  %s  [%s] %s",
			mark,
			m.theme.Title.Render(head),
			m.theme.Pinyin.Render(pinyin),
			e.Band,
			m.theme.Text.Render(def))
	}
	return b.String()
}

func (m Model) vocabView() string {
	title := "Vocabulary"
	if m.loading {
		title = m.spinner.View() + " loading dictionary..."
	} else if m.vocabLoaded {
		perBand, learned := vocab.Counts(m.filter.Apply(m.entries))
		total := 0
		var parts []string
		for _, band := range vocab.Bands() {
			if n := perBand[band]; n > 0 {
				parts = append(parts, fmt.Sprintf("HSK%s:%d", band, n))
				total += n
			}
		}
		if n := perBand[vocab.BandNone]; n > 0 {
			parts = append(parts, fmt.Sprintf("untagged:%d", n))
			total += n
		}
		scope := "all bands"
		if !m.filter.BandAll {
			scope = "HSK " + m.filter.Band.String()
		}
		title = fmt.Sprintf("Vocabulary · %s · %s · %d shown (%d learned)  %s",
			scope, m.filter.Learned, total, learned, strings.Join(parts, " "))
	}
	header := m.theme.Header.Width(m.width).Render(title)

	body := m.vocabVP.View()
	if m.searching {
		body = m.search.View() + "\n" + body
	}

	help := m.theme.Help.Render("1-6: band | 7: 7-9 | 0: all | l: learned | /: search | r: reload | esc: back | q: quit")
	return header + "\n" + body + "\n" + help
}
