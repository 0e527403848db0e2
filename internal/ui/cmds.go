package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"zhread/internal/api"
	"zhread/internal/speech"
)

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type booksMsg struct{ books []api.BookRef }

type bookMsg struct{ book api.BookDetail }

// chapterMsg carries the sequence number of the fetch that produced
// it; stale sequences are discarded on arrival.
type chapterMsg struct {
	seq     int
	chapter api.Chapter
}

// lookupMsg is tagged with the view sequence so lookups against a
// chapter that has since been replaced are dropped.
type lookupMsg struct {
	seq    int
	title  bool
	result api.LookupResult
}

type vocabMsg struct {
	dict     api.Dict
	progress api.Progress
}

type pressTimerMsg struct{ seq int }

type spokenMsg struct{ err error }

func loadBooks(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		books, err := c.Books(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return booksMsg{books}
	}
}

func loadBook(c *api.Client, bookID string) tea.Cmd {
	return func() tea.Msg {
		book, err := c.Book(context.Background(), bookID)
		if err != nil {
			return errMsg{err}
		}
		return bookMsg{book}
	}
}

func loadChapter(c *api.Client, seq int, bookID, chapterID string) tea.Cmd {
	return func() tea.Msg {
		chapter, err := c.Chapter(context.Background(), bookID, chapterID)
		if err != nil {
			return errMsg{err}
		}
		return chapterMsg{seq: seq, chapter: chapter}
	}
}

func lookupOffset(c *api.Client, seq int, bookID, chapterID string, offset int) tea.Cmd {
	return func() tea.Msg {
		result, err := c.LookupByOffset(context.Background(), bookID, chapterID, offset)
		if err != nil {
			return errMsg{err}
		}
		return lookupMsg{seq: seq, result: result}
	}
}

func lookupText(c *api.Client, seq int, text string, offset int) tea.Cmd {
	return func() tea.Msg {
		result, err := c.LookupInText(context.Background(), text, offset)
		if err != nil {
			return errMsg{err}
		}
		return lookupMsg{seq: seq, title: true, result: result}
	}
}

func loadVocab(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		dict, err := c.Dict(context.Background())
		if err != nil {
			return errMsg{err}
		}
		progress, err := c.Progress(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return vocabMsg{dict: dict, progress: progress}
	}
}

func pressTimer(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return pressTimerMsg{seq}
	})
}

func speak(sp *speech.Speaker, text string) tea.Cmd {
	return func() tea.Msg {
		return spokenMsg{err: sp.Speak(context.Background(), text)}
	}
}
