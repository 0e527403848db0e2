// Package ingest builds backend import payloads from local book files.
// Plain text, Markdown, HTML and EPUB inputs are supported, plus a
// directory holding one .txt file per chapter.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"zhread/internal/api"
	"zhread/internal/textseg"
)

// Chapter is one extracted chapter before normalization.
type Chapter struct {
	Title string
	Text  string
}

// Source extracts chapters from one file format.
type Source interface {
	Name() string
	Extensions() []string
	Chapters(path string) ([]Chapter, error)
}

var registry []Source

// Register adds a source to the registry.
func Register(s Source) {
	registry = append(registry, s)
}

// Supported returns registered source names with their extensions.
func Supported() []string {
	var out []string
	for _, s := range registry {
		out = append(out, s.Name()+" ("+strings.Join(s.Extensions(), ", ")+")")
	}
	return out
}

func sourceFor(path string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range registry {
		for _, e := range s.Extensions() {
			if ext == e {
				return s, nil
			}
		}
	}
	return nil, fmt.Errorf("no reader for %q files", ext)
}

// BuildBook extracts chapters from path and assembles an import
// payload. A directory is read as one .txt file per chapter. Empty id
// and title fall back to values derived from the file name. Chapter
// text is newline-normalized so server offsets match what the client
// renders.
func BuildBook(path, id, title string) (api.Book, error) {
	info, err := os.Stat(path)
	if err != nil {
		return api.Book{}, err
	}

	var chapters []Chapter
	if info.IsDir() {
		chapters, err = dirChapters(path)
	} else {
		var src Source
		if src, err = sourceFor(path); err == nil {
			chapters, err = src.Chapters(path)
		}
	}
	if err != nil {
		return api.Book{}, err
	}

	if title == "" {
		title = stem(path)
	}
	if id == "" {
		id = Slug(title)
	}
	if id == "" {
		id = uuid.NewString()
	}

	book := api.Book{SchemaVersion: 1, ID: id, Title: title}
	for _, ch := range chapters {
		text := strings.Trim(textseg.Normalize(ch.Text), "\n")
		chTitle := strings.TrimSpace(ch.Title)
		if chTitle == "" && text == "" {
			continue
		}
		if chTitle == "" {
			chTitle = fmt.Sprintf("Section %d", len(book.Chapters)+1)
		}
		book.Chapters = append(book.Chapters, api.BookChapter{
			ID:    fmt.Sprintf("ch%02d", len(book.Chapters)+1),
			Title: chTitle,
			Text:  text,
		})
	}
	if len(book.Chapters) == 0 {
		return api.Book{}, fmt.Errorf("%s contains no chapters", path)
	}
	return book, nil
}

// Slug reduces a title to a lowercase identifier, keeping letters and
// digits and folding separators to underscores.
func Slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
