package tui

import (
	"fmt"
	"strings"

	"github.com/bulkexchange/accesscard/pkg/card"
	"github.com/bulkexchange/accesscard/pkg/domain"
)

type field int

const (
	fieldHandle field = iota
	fieldName
	fieldAvatar
	fieldStatus // first status row; one row per domain.StatusRoles entry
)

var (
	fieldRegion = fieldStatus + field(len(domain.StatusRoles))
	numFields   = fieldRegion + 1
)

func (f field) isText() bool {
	return f == fieldHandle || f == fieldName || f == fieldAvatar
}

// statusRole returns the status role edited on row f.
func (f field) statusRole() (domain.StatusRole, bool) {
	i := int(f - fieldStatus)
	if i < 0 || i >= len(domain.StatusRoles) {
		return domain.StatusRole{}, false
	}
	return domain.StatusRoles[i], true
}

// cycleRegion steps through the region catalog; dir is +1 or -1. From
// "no region" it lands on the first or last entry.
func cycleRegion(current string, dir int) string {
	n := len(domain.RegionRoles)
	idx := -1
	for i, r := range domain.RegionRoles {
		if r.Label == current {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && dir > 0:
		idx = 0
	case idx < 0:
		idx = n - 1
	default:
		idx = (idx + dir + n) % n
	}
	return domain.RegionRoles[idx].Label
}

func (a App) formView() string {
	in := a.store.Input()
	var b strings.Builder

	row := func(f field, label, value, placeholder string) {
		cursor := " "
		style := metaStyle
		if f == a.focus {
			cursor = accentStyle.Render(">")
			style = selectedStyle
		}
		switch {
		case f == a.focus:
			value = normalStyle.Render(value) + accentStyle.Render("█")
		case value == "":
			value = inputPlaceholderStyle.Render(placeholder)
		default:
			value = normalStyle.Render(value)
		}
		fmt.Fprintf(&b, "%s %s %s\n", cursor, style.Render(fmt.Sprintf("%-7s", label)), value)
	}

	row(fieldHandle, "handle", a.handleText, "@yourhandle")
	row(fieldName, "name", a.nameText, fmt.Sprintf("display name (max %d)", card.MaxNameLen))
	row(fieldAvatar, "avatar", a.avatarPath, "path to an image, enter to load")
	b.WriteString("\n")

	for i, r := range domain.StatusRoles {
		f := fieldStatus + field(i)
		cursor := " "
		label := dimStyle.Render(r.Label)
		if f == a.focus {
			cursor = accentStyle.Render(">")
			label = selectedStyle.Render(r.Label)
		}
		box := metaStyle.Render("[ ]")
		if in.Status[r.Key] {
			box = cyanStyle.Render("[x]")
		}
		fmt.Fprintf(&b, "%s %s %s\n", cursor, box, label)
	}
	b.WriteString("\n")

	cursor := " "
	style := metaStyle
	if a.focus == fieldRegion {
		cursor = accentStyle.Render(">")
		style = selectedStyle
	}
	region := inputPlaceholderStyle.Render("none (h/l to pick)")
	if r, ok := domain.FindRegion(in.Region); ok {
		region = normalStyle.Render(r.Emoji + " " + r.Label)
	}
	fmt.Fprintf(&b, "%s %s ‹ %s ›\n", cursor, style.Render(fmt.Sprintf("%-7s", "region")), region)
	return b.String()
}
