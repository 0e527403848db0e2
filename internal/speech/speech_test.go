package speech

import (
	"context"
	"testing"
)

func TestBuildArgv(t *testing.T) {
	tests := []struct {
		name     string
		template []string
		text     string
		expected []string
	}{
		{
			name:     "placeholder replaced",
			template: []string{"say", "-v", "Tingting", "{text}"},
			text:     "你好",
			expected: []string{"say", "-v", "Tingting", "你好"},
		},
		{
			name:     "placeholder inside argument",
			template: []string{"sh", "-c", "espeak '{text}'"},
			text:     "你好",
			expected: []string{"sh", "-c", "espeak '你好'"},
		},
		{
			name:     "no placeholder appends",
			template: []string{"espeak-ng", "-v", "cmn"},
			text:     "你好",
			expected: []string{"espeak-ng", "-v", "cmn", "你好"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildArgv(tt.template, tt.text)
			if len(got) != len(tt.expected) {
				t.Fatalf("buildArgv() = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("argv[%d] = %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestNewEmptyCommandUsesDefault(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(s.argv) == 0 {
		t.Fatal("New() produced empty argv")
	}
}

func TestSpeakEmptyTextIsNoop(t *testing.T) {
	s, err := New("definitely-not-a-real-synthesizer {text}")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	// Must not attempt to run the command at all.
	if err := s.Speak(context.Background(), "   "); err != nil {
		t.Errorf("Speak(blank) error = %v, want nil", err)
	}
}

func TestSpeakRunsCommand(t *testing.T) {
	s, err := New("true {text}")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Speak(context.Background(), "你好"); err != nil {
		t.Errorf("Speak() error = %v", err)
	}
}

func TestSpeakMissingCommandReportsError(t *testing.T) {
	s, err := New("zhread-no-such-binary {text}")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Speak(context.Background(), "你好"); err == nil {
		t.Error("Speak() error = nil, want exec failure")
	}
}
