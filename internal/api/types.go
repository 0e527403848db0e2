package api

import (
	"encoding/json"
	"fmt"
)

// BookRef is one row of the library listing.
type BookRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ChapterRef identifies a chapter within a book detail response.
type ChapterRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// BookDetail is the response of GET /books/{id}.
type BookDetail struct {
	BookID   string       `json:"book_id"`
	Title    string       `json:"title"`
	Chapters []ChapterRef `json:"chapters"`
}

// Sentence is a half-open [Start, End) offset range over the normalized
// chapter text with its English translation.
type Sentence struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	En    string `json:"en"`
}

// Chapter is the response of GET /books/{id}/chapters/{id}.
type Chapter struct {
	BookID       string     `json:"book_id"`
	BookTitle    string     `json:"book_title"`
	ChapterID    string     `json:"chapter_id"`
	ChapterTitle string     `json:"chapter_title"`
	Text         string     `json:"text"`
	EnSentences  []Sentence `json:"en_sentences"`
}

// Span is the backend's selected word span: Start inclusive, End
// exclusive, offsets in code points over the looked-up text.
type Span struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// DictEntry is a dictionary entry. The MVP dict stores pinyin as a
// list; the master-dict pipeline stores a single string. StringList
// accepts both.
type DictEntry struct {
	Headword    string     `json:"headword,omitempty"`
	Pinyin      StringList `json:"pinyin"`
	Definitions []string   `json:"definitions"`
	Tags        []string   `json:"tags,omitempty"`
	HSKBand     string     `json:"hsk_band,omitempty"`
}

// LookupResult pairs the selected span with its entry, if any.
type LookupResult struct {
	Selected Span       `json:"selected"`
	Entry    *DictEntry `json:"entry"`
}

// Dict is the full dictionary keyed by headword.
type Dict map[string]DictEntry

// ProgressEntry is the learned state of one headword.
type ProgressEntry struct {
	Status  string `json:"status"`
	Learned bool   `json:"learned"`
}

// Progress maps headwords to learned state.
type Progress map[string]ProgressEntry

// BookChapter is one chapter of an importable book.
type BookChapter struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Text        string     `json:"text"`
	EnSentences []Sentence `json:"en_sentences,omitempty"`
}

// Book is the payload of POST /books/import.
type Book struct {
	SchemaVersion int           `json:"schema_version"`
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Chapters      []BookChapter `json:"chapters"`
}

// StringList decodes either a JSON string or an array of strings.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*s = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("pinyin must be a string or list of strings: %w", err)
	}
	*s = StringList(many)
	return nil
}
