package card

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxHandleLen is the longest handle the social network allows.
	MaxHandleLen = 15

	idSuffix   = "-bulk"
	guestToken = "guest"
	idLen      = 10
)

var avatarHandleRe = regexp.MustCompile(`^[A-Za-z0-9_]{1,15}$`)

// SanitizeHandle trims input, strips leading '@' characters, drops anything
// outside [A-Za-z0-9_] and truncates to MaxHandleLen.
func SanitizeHandle(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimLeft(s, "@")

	var b strings.Builder
	for i := 0; i < len(s) && b.Len() < MaxHandleLen; i++ {
		c := s[i]
		if isWordByte(c) {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// DeriveCardID returns the 10-digit display ID for handle. The arithmetic
// (base-31 rolling hash with uint32 wraparound over "<handle>-bulk") must not
// change: IDs on previously shared cards depend on it.
func DeriveCardID(handle string) string {
	base := strings.ToLower(handle)
	if base == "" {
		base = guestToken
	}
	base += idSuffix

	var h uint32
	for i := 0; i < len(base); i++ {
		h = h*31 + uint32(base[i])
	}

	s := strconv.FormatUint(uint64(h), 10)
	if len(s) < idLen {
		s = strings.Repeat("0", idLen-len(s)) + s
	}
	return s[:idLen]
}

// FormatIssueDate renders t as YYYY-MM-DD.
func FormatIssueDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// RemoteAvatarURL returns the avatar-service URL for handle, or "" when the
// handle is not a plausible username.
func RemoteAvatarURL(handle string) string {
	if !avatarHandleRe.MatchString(handle) {
		return ""
	}
	return remoteAvatarBase + handle
}

const remoteAvatarBase = "https://unavatar.io/twitter/"
