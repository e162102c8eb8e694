package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bulkexchange/accesscard/pkg/card"
)

const previewWidth = 46

func avatarLabel(k card.AvatarKind) string {
	switch k {
	case card.AvatarUploaded:
		return "uploaded image"
	case card.AvatarProfile:
		return "profile image"
	case card.AvatarRemote:
		return "avatar service"
	default:
		return "initials"
	}
}

// renderPreview draws the card as the terminal can show it.
func renderPreview(v card.View) string {
	inner := previewWidth - 4
	var b strings.Builder

	head := metaStyle.Render("BULK ACCESS CARD")
	id := dimStyle.Render("ID " + v.CardID)
	b.WriteString(spread(head, id, inner) + "\n\n")

	badge := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#e4e4ec")).
		Background(lipgloss.Color("#1c2333")).
		Bold(true).
		Padding(0, 1).
		Render(v.Initial)
	b.WriteString(badge + "  " + selectedStyle.Render(truncStr(v.DisplayName, inner-6)) + "\n")
	handle := metaStyle.Render("no handle")
	if v.Handle != "" {
		handle = dimStyle.Render("@" + v.Handle)
	}
	b.WriteString("     " + handle + "  " + metaStyle.Render("· "+avatarLabel(v.AvatarKind)) + "\n\n")

	if len(v.ActiveStatusLabels) > 0 {
		pills := make([]string, 0, len(v.ActiveStatusLabels))
		for _, l := range v.ActiveStatusLabels {
			pills = append(pills, pillStyle.Render(l))
		}
		b.WriteString(lipgloss.NewStyle().Width(inner).Render(strings.Join(pills, " ")) + "\n")
	} else {
		b.WriteString(metaStyle.Render("no status roles") + "\n")
	}

	if v.Region != "" {
		b.WriteString(normalStyle.Render("Region: "+v.RegionEmoji+" "+v.Region) + "\n\n")
	} else {
		b.WriteString(metaStyle.Render("Region: none") + "\n\n")
	}

	b.WriteString(accessStyle(v.Access.Level).Render("ACCESS: "+strings.ToUpper(v.Access.Level.String())) + "\n")
	b.WriteString(dimStyle.Render(v.Access.Note) + "\n\n")

	b.WriteString(spread(metaStyle.Render("Issued "+v.IssueDate), accentStyle.Render("BULK - One Exchange"), inner))
	return cardStyle.Width(previewWidth).Render(b.String())
}

// spread places left and right on one line of the given width.
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
