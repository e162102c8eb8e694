package card

import (
	"strings"
	"testing"
	"time"
)

func TestSanitizeHandle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"example from card rules", "  @Max_99!! ", "Max_99"},
		{"empty", "", ""},
		{"only at signs", "@@@", ""},
		{"multiple leading at", "@@alice", "alice"},
		{"inner at removed", "al@ice", "alice"},
		{"unicode dropped", "jürgen", "jrgen"},
		{"truncated to 15", "abcdefghijklmnopqrstuvwxyz", "abcdefghijklmno"},
		{"truncation after filtering", "a-b-c-d-e-f-g-h-i-j-k-l-m-n-o-p", "abcdefghijklmno"},
		{"spaces inside", "max power", "maxpower"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeHandle(tt.input); got != tt.want {
				t.Errorf("SanitizeHandle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeHandleIdempotent(t *testing.T) {
	inputs := []string{"  @Max_99!! ", "@@@x", "a b c", "@" + strings.Repeat("z", 40), "日本語_ok", ""}
	for _, in := range inputs {
		once := SanitizeHandle(in)
		twice := SanitizeHandle(once)
		if once != twice {
			t.Errorf("SanitizeHandle not idempotent for %q: %q then %q", in, once, twice)
		}
		if len(once) > MaxHandleLen {
			t.Errorf("SanitizeHandle(%q) length %d > %d", in, len(once), MaxHandleLen)
		}
		for i := 0; i < len(once); i++ {
			if !isWordByte(once[i]) {
				t.Errorf("SanitizeHandle(%q) = %q contains non-word byte %q", in, once, once[i])
			}
		}
	}
}

func TestDeriveCardID(t *testing.T) {
	tests := []struct {
		handle string
		want   string
	}{
		{"", "2494639079"},
		{"alice", "3692620863"},
		{"Alice", "3692620863"},
		{"Max_99", "0755468228"},
		{"a", "2821621502"},
	}

	for _, tt := range tests {
		t.Run(tt.handle, func(t *testing.T) {
			got := DeriveCardID(tt.handle)
			if got != tt.want {
				t.Errorf("DeriveCardID(%q) = %q, want %q", tt.handle, got, tt.want)
			}
		})
	}
}

func TestDeriveCardIDShape(t *testing.T) {
	for _, h := range []string{"", "x", "alice", "bob_the_builder", "ZZZZZZZZZZZZZZZ"} {
		id := DeriveCardID(h)
		if len(id) != 10 {
			t.Errorf("DeriveCardID(%q) = %q, want 10 chars", h, id)
		}
		for _, r := range id {
			if r < '0' || r > '9' {
				t.Errorf("DeriveCardID(%q) = %q contains non-digit", h, id)
			}
		}
		if again := DeriveCardID(h); again != id {
			t.Errorf("DeriveCardID(%q) not deterministic: %q vs %q", h, id, again)
		}
	}
}

func TestFormatIssueDate(t *testing.T) {
	d := time.Date(2026, time.March, 7, 23, 59, 0, 0, time.Local)
	if got := FormatIssueDate(d); got != "2026-03-07" {
		t.Errorf("FormatIssueDate = %q, want %q", got, "2026-03-07")
	}
}

func TestRemoteAvatarURL(t *testing.T) {
	if got := RemoteAvatarURL("alice"); got != "https://unavatar.io/twitter/alice" {
		t.Errorf("RemoteAvatarURL(alice) = %q", got)
	}
	if got := RemoteAvatarURL(""); got != "" {
		t.Errorf("RemoteAvatarURL(\"\") = %q, want empty", got)
	}
	if got := RemoteAvatarURL("bad handle"); got != "" {
		t.Errorf("RemoteAvatarURL(bad handle) = %q, want empty", got)
	}
}
