// Package ui is the bubbletea front end: library, chapter list,
// reading screen and vocabulary browser against one backend.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"zhread/internal/api"
	"zhread/internal/config"
	"zhread/internal/press"
	"zhread/internal/speech"
	"zhread/internal/state"
	"zhread/internal/textseg"
	"zhread/internal/vocab"
)

type screen int

const (
	screenLibrary screen = iota
	screenChapters
	screenReading
	screenVocab
)

// Reading screen chrome: bordered header, status area, help line.
const (
	headerHeight = 2
	statusHeight = 3
	helpHeight   = 1
)

type selKind int

const (
	selNone selKind = iota
	selWord
	selSentence
)

// selection is the current highlight plus what the status area shows
// for it.
type selection struct {
	kind  selKind
	span  textseg.Span
	title bool
	word  string
	entry *api.DictEntry
	en    string
}

func (s selection) contains(c layoutCell) bool {
	if s.kind == selNone || c.title != s.title {
		return false
	}
	return s.span.Start <= c.offset && c.offset < s.span.End
}

type bookItem struct{ ref api.BookRef }

func (i bookItem) Title() string       { return i.ref.Title }
func (i bookItem) Description() string { return i.ref.ID }
func (i bookItem) FilterValue() string { return i.ref.Title }

type chapterItem struct{ ref api.ChapterRef }

func (i chapterItem) Title() string       { return i.ref.Title }
func (i chapterItem) Description() string { return i.ref.ID }
func (i chapterItem) FilterValue() string { return i.ref.Title }

// Options wires the model to its collaborators. BookID and ChapterID
// jump straight into a chapter on startup.
type Options struct {
	Client    *api.Client
	Speaker   *speech.Speaker
	Store     *state.Store
	Config    config.Config
	Log       *zap.Logger
	BookID    string
	ChapterID string
}

// Model is the whole TUI state.
type Model struct {
	client  *api.Client
	speaker *speech.Speaker
	store   *state.Store
	log     *zap.Logger
	cfg     config.Config
	theme   Theme

	screen     screen
	prevScreen screen
	width      int
	height     int
	ready      bool
	loading    bool
	err        error

	library  list.Model
	chapters list.Model
	spinner  spinner.Model

	book       api.BookDetail
	view       *chapterView
	viewport   viewport.Model
	loadSeq    int
	sel        selection
	press      press.Recognizer
	pressTitle bool

	// pending startup navigation
	pendingBook    string
	pendingChapter string
	pendingLine    int

	// vocabulary screen
	entries     []vocab.Entry
	filter      vocab.Filter
	search      textinput.Model
	searching   bool
	vocabVP     viewport.Model
	vocabLoaded bool
}

// New builds the model. The theme comes from saved state when present,
// the configured default otherwise.
func New(opts Options) Model {
	themeName := opts.Config.Theme
	if saved := opts.Store.Theme(); saved != "" {
		themeName = saved
	}

	delegate := list.NewDefaultDelegate()
	library := list.New(nil, delegate, 0, 0)
	library.Title = "Books"
	library.SetShowHelp(false)
	chapters := list.New(nil, delegate, 0, 0)
	chapters.Title = "Chapters"
	chapters.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	search := textinput.New()
	search.Placeholder = "search headword, pinyin or definition"
	search.CharLimit = 64

	m := Model{
		client:         opts.Client,
		speaker:        opts.Speaker,
		store:          opts.Store,
		log:            opts.Log,
		cfg:            opts.Config,
		theme:          themeByName(themeName),
		library:        library,
		chapters:       chapters,
		spinner:        sp,
		search:         search,
		filter:         vocab.Filter{BandAll: true},
		pendingBook:    opts.BookID,
		pendingChapter: opts.ChapterID,
	}

	if m.pendingBook == "" {
		if pos, ok := opts.Store.Position(opts.Client.Host()); ok {
			m.pendingBook = pos.BookID
			m.pendingChapter = pos.ChapterID
			m.pendingLine = pos.Line
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, loadBooks(m.client)}
	if m.pendingBook != "" {
		cmds = append(cmds, loadBook(m.client, m.pendingBook))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg), nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case errMsg:
		m.err = msg.err
		m.loading = false
		if m.log != nil {
			m.log.Warn("operation failed", zap.Error(msg.err))
		}
		return m, nil

	case booksMsg:
		items := make([]list.Item, len(msg.books))
		for i, b := range msg.books {
			items[i] = bookItem{b}
		}
		m.library.SetItems(items)
		if m.pendingBook == "" {
			m.loading = false
		}
		return m, nil

	case bookMsg:
		m.book = msg.book
		items := make([]list.Item, len(msg.book.Chapters))
		for i, ch := range msg.book.Chapters {
			items[i] = chapterItem{ch}
		}
		m.chapters.SetItems(items)
		m.chapters.Title = msg.book.Title

		if m.pendingBook == msg.book.BookID && m.pendingChapter != "" {
			chapterID := m.pendingChapter
			m.pendingBook = ""
			m.pendingChapter = ""
			return m.startChapterLoad(chapterID)
		}
		m.pendingBook = ""
		m.loading = false
		m.screen = screenChapters
		return m, nil

	case chapterMsg:
		if msg.seq != m.loadSeq {
			// A newer fetch superseded this one.
			return m, nil
		}
		return m.installChapter(msg.chapter), nil

	case lookupMsg:
		if msg.seq != m.loadSeq || m.view == nil {
			return m, nil
		}
		m.sel = selection{
			kind:  selWord,
			span:  textseg.Span{Start: msg.result.Selected.Start, End: msg.result.Selected.End},
			title: msg.title,
			word:  msg.result.Selected.Text,
			entry: msg.result.Entry,
		}
		m.viewport.SetContent(m.view.render(m.theme, m.sel))
		return m, nil

	case vocabMsg:
		m.entries = vocab.Merge(msg.dict, msg.progress)
		m.vocabLoaded = true
		m.loading = false
		m.refreshVocab()
		return m, nil

	case pressTimerMsg:
		action, offset := m.press.TimerFire(msg.seq)
		if action == press.LongPress {
			return m.selectSentence(offset), nil
		}
		return m, nil

	case spokenMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case tea.MouseMsg:
		if m.screen == screenReading {
			return m.updateReadingMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.savePosition()
			return m, tea.Quit
		}
		switch m.screen {
		case screenLibrary:
			return m.updateLibrary(msg)
		case screenChapters:
			return m.updateChapters(msg)
		case screenReading:
			return m.updateReading(msg)
		case screenVocab:
			return m.updateVocab(msg)
		}
	}

	return m, nil
}

func (m Model) resize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	contentHeight := msg.Height - headerHeight - statusHeight - helpHeight
	if contentHeight < 1 {
		contentHeight = 1
	}
	if !m.ready {
		m.viewport = viewport.New(msg.Width, contentHeight)
		m.vocabVP = viewport.New(msg.Width, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = contentHeight
		m.vocabVP.Width = msg.Width
		m.vocabVP.Height = contentHeight
	}
	m.library.SetSize(msg.Width, msg.Height-2)
	m.chapters.SetSize(msg.Width, msg.Height-2)
	m.search.Width = msg.Width - 4

	if m.view != nil {
		// Reflow the immutable view at the new width.
		line := m.viewport.YOffset
		m.view = newChapterView(m.view.chapter, msg.Width)
		m.viewport.SetContent(m.view.render(m.theme, m.sel))
		m.viewport.SetYOffset(line)
	}
	if m.vocabLoaded {
		m.refreshVocab()
	}
	return m
}

// startChapterLoad bumps the fetch sequence and switches to the
// reading screen with a spinner.
func (m Model) startChapterLoad(chapterID string) (Model, tea.Cmd) {
	m.loadSeq++
	m.loading = true
	m.err = nil
	m.screen = screenReading
	return m, tea.Batch(
		m.spinner.Tick,
		loadChapter(m.client, m.loadSeq, m.book.BookID, chapterID),
	)
}

// installChapter replaces the current view wholesale.
func (m Model) installChapter(ch api.Chapter) Model {
	m.loading = false
	m.err = nil
	m.sel = selection{}
	m.press.Cancel()
	m.speaker.Stop()

	width := m.width
	if width == 0 {
		width = 80
	}
	m.view = newChapterView(ch, width)
	m.viewport.SetContent(m.view.render(m.theme, m.sel))
	if m.pendingLine > 0 {
		m.viewport.SetYOffset(m.pendingLine)
		m.pendingLine = 0
	} else {
		m.viewport.GotoTop()
	}

	if m.log != nil {
		m.log.Debug("chapter installed",
			zap.String("book", ch.BookID),
			zap.String("chapter", ch.ChapterID),
			zap.Int("paragraphs", len(m.view.paragraphs)),
			zap.Int("sentences", len(m.view.sentences)))
	}
	m.savePosition()
	return m
}

func (m *Model) savePosition() {
	if m.view == nil || m.store == nil {
		return
	}
	pos := state.Position{
		BookID:    m.view.chapter.BookID,
		ChapterID: m.view.chapter.ChapterID,
		Line:      m.viewport.YOffset,
	}
	if err := m.store.SetPosition(m.client.Host(), pos); err != nil && m.log != nil {
		m.log.Warn("save position", zap.Error(err))
	}
}

func (m Model) updateLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.library.FilterState() != list.Filtering {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "enter":
			if item, ok := m.library.SelectedItem().(bookItem); ok {
				m.loading = true
				m.err = nil
				return m, tea.Batch(m.spinner.Tick, loadBook(m.client, item.ref.ID))
			}
			return m, nil
		case "r":
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, loadBooks(m.client))
		case "v":
			return m.openVocab()
		}
	}
	var cmd tea.Cmd
	m.library, cmd = m.library.Update(msg)
	return m, cmd
}

func (m Model) updateChapters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.chapters.FilterState() != list.Filtering {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "esc":
			m.screen = screenLibrary
			return m, nil
		case "enter":
			if item, ok := m.chapters.SelectedItem().(chapterItem); ok {
				return m.startChapterLoad(item.ref.ID)
			}
			return m, nil
		case "v":
			return m.openVocab()
		}
	}
	var cmd tea.Cmd
	m.chapters, cmd = m.chapters.Update(msg)
	return m, cmd
}

func (m Model) updateReading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.savePosition()
		return m, tea.Quit
	case "esc":
		m.savePosition()
		m.press.Cancel()
		m.screen = screenChapters
		return m, nil
	case "n":
		return m.stepChapter(1)
	case "p":
		return m.stepChapter(-1)
	case "t":
		m.theme = m.theme.next()
		if err := m.store.SetTheme(m.theme.Name); err != nil && m.log != nil {
			m.log.Warn("save theme", zap.Error(err))
		}
		if m.view != nil {
			m.viewport.SetContent(m.view.render(m.theme, m.sel))
		}
		return m, nil
	case "c":
		m.sel = selection{}
		m.err = nil
		if m.view != nil {
			m.viewport.SetContent(m.view.render(m.theme, m.sel))
		}
		return m, nil
	case "s":
		return m, m.speakSelection()
	case "a":
		// Read aloud from the selected sentence onward, or the whole
		// chapter when nothing is selected.
		if m.view == nil {
			return m, nil
		}
		text := m.view.text
		if m.sel.kind == selSentence {
			if runes := []rune(text); m.sel.span.Start < len(runes) {
				text = string(runes[m.sel.span.Start:])
			}
		}
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		return m, speak(m.speaker, text)
	case "x":
		m.speaker.Stop()
		return m, nil
	case "v":
		return m.openVocab()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// stepChapter moves to the adjacent chapter in the book's order.
func (m Model) stepChapter(delta int) (tea.Model, tea.Cmd) {
	if m.view == nil {
		return m, nil
	}
	cur := -1
	for i, ch := range m.book.Chapters {
		if ch.ID == m.view.chapter.ChapterID {
			cur = i
			break
		}
	}
	next := cur + delta
	if cur < 0 || next < 0 || next >= len(m.book.Chapters) {
		return m, nil
	}
	m.savePosition()
	return m.startChapterLoad(m.book.Chapters[next].ID)
}

func (m Model) updateReadingMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	if m.view == nil || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		y := msg.Y - headerHeight + m.viewport.YOffset
		offset, title, ok := m.view.offsetAt(msg.X, y)
		if !ok {
			m.press.Cancel()
			return m, nil
		}
		m.pressTitle = title
		seq := m.press.Press(offset)
		return m, pressTimer(seq, m.cfg.LongPress)

	case tea.MouseActionRelease:
		action, offset := m.press.Release()
		if action != press.Click {
			return m, nil
		}
		if m.pressTitle {
			title := strings.TrimSpace(m.view.chapter.ChapterTitle)
			return m, lookupText(m.client, m.loadSeq, title, offset)
		}
		return m, lookupOffset(m.client, m.loadSeq, m.view.chapter.BookID, m.view.chapter.ChapterID, offset)
	}
	return m, nil
}

// selectSentence resolves a long press to the containing sentence span
// locally; no network involved.
func (m Model) selectSentence(offset int) Model {
	if m.view == nil {
		return m
	}
	span, i, ok := m.view.sentenceAt(offset)
	if !ok {
		return m
	}
	m.sel = selection{
		kind: selSentence,
		span: span,
		en:   m.view.chapter.EnSentences[i].En,
	}
	m.viewport.SetContent(m.view.render(m.theme, m.sel))
	return m
}

func (m Model) speakSelection() tea.Cmd {
	if m.view == nil || m.sel.kind == selNone {
		return nil
	}
	var text string
	switch m.sel.kind {
	case selWord:
		text = m.sel.word
	case selSentence:
		text = m.view.sentenceText(m.sel.span)
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return speak(m.speaker, text)
}

func (m Model) openVocab() (tea.Model, tea.Cmd) {
	m.prevScreen = m.screen
	m.screen = screenVocab
	if !m.vocabLoaded {
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, loadVocab(m.client))
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Connecting to " + m.client.BaseURL() + "..."
	}
	switch m.screen {
	case screenLibrary:
		return m.library.View() + "\n" + m.theme.Help.Render("enter: open | v: vocabulary | r: reload | q: quit")
	case screenChapters:
		return m.chapters.View() + "\n" + m.theme.Help.Render("enter: read | esc: books | v: vocabulary | q: quit")
	case screenVocab:
		return m.vocabView()
	default:
		return m.readingView()
	}
}

func (m Model) readingView() string {
	title := "Reading"
	if m.view != nil {
		title = fmt.Sprintf("%s › %s", m.view.chapter.BookTitle, m.view.chapter.ChapterTitle)
	}
	if m.loading {
		title = m.spinner.View() + " " + title
	}
	header := m.theme.Header.Width(m.width).Render(title)

	help := m.theme.Help.Render("click: word | hold: sentence | n/p: chapter | s/a/x: speak | t: theme | v: vocab | esc: back | q: quit")

	return header + "\n" + m.viewport.View() + "\n" + m.statusView() + "\n" + help
}

// statusView renders exactly statusHeight lines: lookup result,
// sentence translation or error.
func (m Model) statusView() string {
	var lines []string
	switch {
	case m.err != nil:
		lines = wrapTo(m.theme.Error.Render("Error: ")+m.err.Error(), m.width, statusHeight)
	case m.sel.kind == selWord:
		head := m.theme.Highlight.Render(m.sel.word)
		if m.sel.entry != nil {
			if py := strings.Join(m.sel.entry.Pinyin, ", "); py != "" {
				head += "  " + m.theme.Pinyin.Render(py)
			}
			defs := strings.Join(m.sel.entry.Definitions, "; ")
			lines = append([]string{head}, wrapTo(m.theme.Status.Render(defs), m.width, statusHeight-1)...)
		} else {
			lines = []string{head, m.theme.Status.Render("no dictionary entry")}
		}
	case m.sel.kind == selSentence:
		en := m.sel.en
		if strings.TrimSpace(en) == "" {
			en = "no translation for this sentence"
		}
		lines = wrapTo(m.theme.Status.Render(en), m.width, statusHeight)
	default:
		lines = []string{m.theme.Help.Render("tap a character to look it up, hold for the sentence translation")}
	}

	for len(lines) < statusHeight {
		lines = append(lines, "")
	}
	return strings.Join(lines[:statusHeight], "\n")
}

// wrapTo soft-wraps s to width and keeps at most max lines.
func wrapTo(s string, width, max int) []string {
	if width < 8 {
		width = 8
	}
	wrapped := lipgloss.NewStyle().Width(width).Render(s)
	lines := strings.Split(wrapped, "\n")
	if len(lines) > max {
		lines = lines[:max]
	}
	return lines
}
