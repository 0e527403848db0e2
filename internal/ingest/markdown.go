package ingest

import (
	"os"
	"regexp"
	"strings"

	"zhread/internal/textseg"
)

// MarkdownSource splits a Markdown file into chapters at headings.
type MarkdownSource struct{}

func init() {
	Register(&MarkdownSource{})
}

func (s *MarkdownSource) Name() string         { return "Markdown" }
func (s *MarkdownSource) Extensions() []string { return []string{".md", ".markdown"} }

// headerRegex matches markdown headers (# to ######)
var headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

func (s *MarkdownSource) Chapters(path string) ([]Chapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var chapters []Chapter
	var current *Chapter
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.Join(body, "\n")
		chapters = append(chapters, *current)
		current = nil
		body = nil
	}

	for _, line := range strings.Split(textseg.Normalize(string(data)), "\n") {
		if match := headerRegex.FindStringSubmatch(line); match != nil {
			flush()
			current = &Chapter{Title: strings.TrimSpace(match[2])}
			continue
		}
		if current == nil {
			// Content before the first heading becomes an untitled
			// opening chapter.
			if strings.TrimSpace(line) == "" && len(body) == 0 {
				continue
			}
			current = &Chapter{}
		}
		body = append(body, line)
	}
	flush()

	if len(chapters) == 0 {
		return nil, nil
	}
	return chapters, nil
}
