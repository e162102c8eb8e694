package tui

import (
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

func TestEditRune(t *testing.T) {
	tests := []struct {
		name string
		text string
		key  string
		want string
	}{
		{"append", "ab", "c", "abc"},
		{"backspace", "abc", "backspace", "ab"},
		{"backspace multibyte", "añ", "backspace", "a"},
		{"backspace empty", "", "backspace", ""},
		{"ignore named key", "ab", "enter", "ab"},
		{"emoji", "a", "🪪", "a🪪"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := editRune(tt.text, tt.key); got != tt.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tt.text, tt.key, got, tt.want)
			}
		})
	}
}

func TestEditRuneClampsLength(t *testing.T) {
	full := strings.Repeat("x", maxInputLen)
	if got := editRune(full, "y"); got != full {
		t.Errorf("rune count = %d, want %d", utf8.RuneCountInString(got), maxInputLen)
	}
}

func TestApplyKey(t *testing.T) {
	got := applyKey("", runes("@alice"))
	got = applyKey(got, key(tea.KeySpace))
	got = applyKey(got, key(tea.KeyBackspace))
	got = applyKey(got, key(tea.KeyEnter))
	if got != "@alice" {
		t.Errorf("applyKey sequence = %q, want @alice", got)
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd\n"
	if got := truncateToHeight(s, 2); got != "a\nb\n" {
		t.Errorf("truncateToHeight(2) = %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("truncateToHeight(0) = %q, want unchanged", got)
	}
	if got := truncateToHeight("one line", 3); got != "one line" {
		t.Errorf("short input changed: %q", got)
	}
}
