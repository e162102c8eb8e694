package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bulkexchange/accesscard/pkg/domain"
)

// Shimmer animation for the BULK logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "BULK" as a wave moving from fuchsia (#d946ef)
// to cyan (#22d3ee).
func renderShimmerLogo(frame int) string {
	const text = "BULK"
	n := len(text)
	t := float64(frame)

	var out string
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		phase := t*0.1 - x*3.0
		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		r := clampByte(0xd9 + b*(0x22-0xd9))
		g := clampByte(0x46 + b*(0xd3-0x46))
		bl := clampByte(0xef + b*(0xee-0xef))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		out += s.Render(string(text[i]))
		if i < n-1 {
			out += "  "
		}
	}
	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d946ef"))

	cyanStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22d3ee"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Background(lipgloss.Color("#1e1e2a")).
			Padding(0, 2)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	pillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Background(lipgloss.Color("#221a3a")).
			Padding(0, 1)

	cardBorderColor = lipgloss.Color("#3b2f5c")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cardBorderColor).
			Padding(0, 1)
)

// accessStyle colors the access level line.
func accessStyle(l domain.AccessLevel) lipgloss.Style {
	switch l {
	case domain.AccessFull:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#34d399")).Bold(true)
	case domain.AccessLimited:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#fbbf24")).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b")).Bold(true)
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpView renders the help overlay.
func helpView() string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#d946ef")).
		Bold(true).
		Render("B U L K   A C C E S S   C A R D")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(`"One Exchange. Infinite Markets."`)

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	commands := []struct{ cmd, desc string }{
		{"accesscard", "Open the card editor"},
		{"accesscard <card-url>", "Open the editor from a shared card link"},
		{"accesscard render <ref>", "Export a card PNG without the editor"},
		{"accesscard serve", "Run the profile and upload API"},
		{"accesscard version", "Show version"},
	}
	keys := []struct{ key, desc string }{
		{"tab / shift+tab", "Move between fields"},
		{"space / enter", "Toggle a status role"},
		{"h / l", "Cycle the region role"},
		{"x", "Clear the region role"},
		{"enter (avatar)", "Load the image at the typed path"},
		{"ctrl+d", "Download PNG"},
		{"ctrl+s", "Share"},
		{"ctrl+y", "Copy share link"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-26s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-26s", k.key)), descStyle.Render(k.desc))
	}
	return b.String()
}
