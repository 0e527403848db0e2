package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/multierr"

	"zhread/internal/textseg"
)

// TextSource reads a .txt file as one chapter. The first non-blank
// line is the chapter title, the rest is the body.
type TextSource struct{}

func init() {
	Register(&TextSource{})
}

func (s *TextSource) Name() string         { return "Text" }
func (s *TextSource) Extensions() []string { return []string{".txt"} }

func (s *TextSource) Chapters(path string) ([]Chapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	title, body := splitTitle(textseg.Normalize(string(data)))
	if title == "" {
		title = stem(path)
	}
	return []Chapter{{Title: title, Text: body}}, nil
}

// splitTitle peels the first non-blank line off as the title.
func splitTitle(text string) (title, body string) {
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), strings.Trim(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return "", ""
}

// dirChapters reads every .txt file in dir as one chapter each, in
// natural filename order so ch10.txt sorts after ch9.txt.
func dirChapters(dir string) ([]Chapter, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.ToLower(filepath.Ext(e.Name())) != ".txt" {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s contains no .txt chapters", dir)
	}
	sort.Sort(natural.StringSlice(names))

	var src TextSource
	var chapters []Chapter
	var errs error
	for _, name := range names {
		chs, err := src.Chapters(filepath.Join(dir, name))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		chapters = append(chapters, chs...)
	}
	if errs != nil {
		return nil, errs
	}
	return chapters, nil
}
