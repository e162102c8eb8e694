package share

import (
	"net/url"
	"strings"

	"github.com/bulkexchange/accesscard/pkg/card"
)

// Title is used for native shares.
const Title = "BULK Access Card"

// DefaultComposerURL is the post composer opened when native sharing is unavailable.
const DefaultComposerURL = "https://twitter.com/intent/tweet"

// Badges lists the active status labels followed by the region badge.
func Badges(v card.View) []string {
	badges := append([]string(nil), v.ActiveStatusLabels...)
	if v.Region != "" {
		badges = append(badges, "Region: "+v.Region)
	}
	return badges
}

// Caption builds the share text for a card and link.
func Caption(v card.View, link string) string {
	var b strings.Builder
	b.WriteString("Just minted my BULK Access Card 🪪\n\n")
	if badges := Badges(v); len(badges) > 0 {
		b.WriteString(strings.Join(badges, " • "))
		b.WriteString("\n\n")
	}
	b.WriteString("BULK - One Exchange\nInfinite Markets\n\n")
	b.WriteString("Get yours: ")
	b.WriteString(link)
	b.WriteString("\n#BULK")
	return b.String()
}

// ComposerURL returns base with text and url query parameters set.
func ComposerURL(base, text, link string) string {
	if base == "" {
		base = DefaultComposerURL
	}
	q := url.Values{}
	q.Set("text", text)
	q.Set("url", link)
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}
