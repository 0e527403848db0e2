package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMarkdownChapters(t *testing.T) {
	content := `前言内容。

# 第一章

你好。
世界。

## 第二章

再见。
`
	dir := t.TempDir()
	path := filepath.Join(dir, "book.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var src MarkdownSource
	chapters, err := src.Chapters(path)
	if err != nil {
		t.Fatalf("Chapters() error = %v", err)
	}
	if len(chapters) != 3 {
		t.Fatalf("got %d chapters, want 3", len(chapters))
	}

	if chapters[0].Title != "" {
		t.Errorf("preface title = %q, want empty", chapters[0].Title)
	}
	if chapters[1].Title != "第一章" || chapters[2].Title != "第二章" {
		t.Errorf("titles = %q, %q", chapters[1].Title, chapters[2].Title)
	}
}

func TestMarkdownNoHeadings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.md")
	if err := os.WriteFile(path, []byte("只有正文。\n没有标题。\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var src MarkdownSource
	chapters, err := src.Chapters(path)
	if err != nil {
		t.Fatalf("Chapters() error = %v", err)
	}
	if len(chapters) != 1 {
		t.Fatalf("got %d chapters, want 1", len(chapters))
	}
	if chapters[0].Title != "" {
		t.Errorf("title = %q, want empty", chapters[0].Title)
	}
}

func TestMarkdownEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.md")
	if err := os.WriteFile(path, []byte("\n\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var src MarkdownSource
	chapters, err := src.Chapters(path)
	if err != nil {
		t.Fatalf("Chapters() error = %v", err)
	}
	if chapters != nil {
		t.Errorf("chapters = %v, want none", chapters)
	}
}
