package state

import (
	"testing"
)

func TestStore(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmpDir)

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	host := "127.0.0.1:8000"

	// Unknown host has no position
	if _, ok := store.Position(host); ok {
		t.Error("expected no position for unknown host")
	}

	// SetPosition/Position roundtrip
	want := Position{BookID: "b1", ChapterID: "ch03", Line: 42}
	if err := store.SetPosition(host, want); err != nil {
		t.Fatalf("SetPosition failed: %v", err)
	}

	got, ok := store.Position(host)
	if !ok || got != want {
		t.Errorf("Position = %+v, %v; want %+v, true", got, ok, want)
	}

	// Clear removes entry
	if err := store.Clear(host); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := store.Position(host); ok {
		t.Error("expected no position after clear")
	}
}

func TestStorePersistence(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmpDir)

	host := "reader.example.com"
	want := Position{BookID: "b2", ChapterID: "ch01", Line: 7}

	store1, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := store1.SetPosition(host, want); err != nil {
		t.Fatalf("SetPosition failed: %v", err)
	}
	if err := store1.SetTheme("light"); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}

	// New store instance - should load persisted data
	store2, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	got, ok := store2.Position(host)
	if !ok || got != want {
		t.Errorf("persisted Position = %+v, %v; want %+v, true", got, ok, want)
	}
	if store2.Theme() != "light" {
		t.Errorf("persisted Theme = %q, want light", store2.Theme())
	}
}

func TestStoreSeparatesHosts(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmpDir)

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if err := store.SetPosition("a:8000", Position{BookID: "a-book"}); err != nil {
		t.Fatalf("SetPosition failed: %v", err)
	}
	if err := store.SetPosition("b:8000", Position{BookID: "b-book"}); err != nil {
		t.Fatalf("SetPosition failed: %v", err)
	}

	if pos, _ := store.Position("a:8000"); pos.BookID != "a-book" {
		t.Errorf("host a position = %+v", pos)
	}
	if pos, _ := store.Position("b:8000"); pos.BookID != "b-book" {
		t.Errorf("host b position = %+v", pos)
	}
}
