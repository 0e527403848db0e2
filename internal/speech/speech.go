// Package speech plays text aloud through an external synthesizer
// command. One utterance at a time: starting a new one kills the
// previous process, matching speechSynthesis.cancel-then-speak.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// Placeholder in the command template replaced by the utterance text.
const Placeholder = "{text}"

// Speaker runs the configured synthesizer.
type Speaker struct {
	argv []string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New builds a speaker from a command template such as
// "say -v Tingting {text}" or "espeak-ng -v cmn {text}". An empty
// template selects a platform default. Without a placeholder the text
// is appended as the last argument.
func New(command string) (*Speaker, error) {
	if strings.TrimSpace(command) == "" {
		command = defaultCommand()
	}
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, errors.New("empty speech command")
	}
	return &Speaker{argv: argv}, nil
}

func defaultCommand() string {
	if runtime.GOOS == "darwin" {
		return "say -v Tingting " + Placeholder
	}
	return "espeak-ng -v cmn " + Placeholder
}

// Speak synthesizes text, blocking until playback finishes. A speaker
// replaced by a newer Speak or stopped via Stop returns nil.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	argv := buildArgv(s.argv, text)
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	err := cmd.Run()

	s.mu.Lock()
	if s.cancel != nil && runCtx.Err() == nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	if errors.Is(runCtx.Err(), context.Canceled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("speech command %s: %w", argv[0], err)
	}
	return nil
}

// Stop kills the current utterance, if any.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func buildArgv(template []string, text string) []string {
	argv := make([]string, 0, len(template)+1)
	replaced := false
	for _, arg := range template {
		if strings.Contains(arg, Placeholder) {
			argv = append(argv, strings.ReplaceAll(arg, Placeholder, text))
			replaced = true
			continue
		}
		argv = append(argv, arg)
	}
	if !replaced {
		argv = append(argv, text)
	}
	return argv
}
