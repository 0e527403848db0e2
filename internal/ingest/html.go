package ingest

import (
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// HTMLSource reads an HTML document as a single chapter titled from
// its <title> or first heading.
type HTMLSource struct{}

func init() {
	Register(&HTMLSource{})
}

func (s *HTMLSource) Name() string         { return "HTML" }
func (s *HTMLSource) Extensions() []string { return []string{".html", ".htm", ".xhtml"} }

func (s *HTMLSource) Chapters(path string) ([]Chapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	title := htmlTitle(string(data))
	if title == "" {
		title = stem(path)
	}
	return []Chapter{{Title: title, Text: htmlText(string(data))}}, nil
}

// blockTags are elements that end a paragraph when extracting text.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"blockquote": true, "li": true, "tr": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// htmlText extracts readable text, keeping paragraph boundaries as
// blank lines so rune offsets stay meaningful in the rendered text.
func htmlText(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return ""
	}

	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head":
				return
			case "br":
				out.WriteString("\n")
			}
		}
		if n.Type == html.TextNode {
			out.WriteString(collapseSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			out.WriteString("\n\n")
		}
	}
	walk(doc)

	text := blankRuns.ReplaceAllString(out.String(), "\n\n")
	return strings.Trim(text, "\n ")
}

// collapseSpace folds runs of markup whitespace into one space without
// touching CJK text, which carries no spaces of its own.
func collapseSpace(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	fields := strings.Fields(s)
	joined := strings.Join(fields, " ")
	if strings.HasPrefix(s, " ") || strings.HasPrefix(s, "\n") || strings.HasPrefix(s, "\t") {
		joined = " " + joined
	}
	if strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, "\t") {
		joined += " "
	}
	return joined
}

// htmlTitle returns the document <title>, or the first heading text.
func htmlTitle(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return ""
	}

	var title, heading string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "h1", "h2", "h3":
				if heading == "" {
					heading = strings.TrimSpace(nodeText(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if title != "" {
		return title
	}
	return heading
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
