package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// ANSI colors for output printed outside the editor.
const (
	ansiReset   = "\033[0m"
	ansiBold    = "\033[1m"
	ansiItalic  = "\033[3m"
	ansiFuchsia = "\033[38;2;217;70;239m" // #d946ef
	ansiCyan    = "\033[38;2;34;211;238m" // #22d3ee
	ansiSlate   = "\033[38;2;136;144;160m"
)

// printWordmark prints the spaced BULK wordmark, fuchsia fading to cyan.
func printWordmark(w io.Writer) {
	letters := "BULK"
	colors := [2]string{ansiFuchsia, ansiCyan}
	fmt.Fprint(w, "\n  ")
	for i, ch := range letters {
		fmt.Fprintf(w, "%s%s%c%s", colors[i*2/len(letters)], ansiBold, ch, ansiReset)
		if i < len(letters)-1 {
			fmt.Fprint(w, "  ")
		}
	}
	fmt.Fprintln(w)
}

func printServeBanner(w io.Writer, addr, imageHost string) {
	printWordmark(w)
	fmt.Fprintf(w, "\n  %saccess card api%s  %s%s%s\n", ansiSlate, ansiReset, ansiCyan, addr, ansiReset)
	fmt.Fprintf(w, "  %simage host: %s%s\n\n", ansiItalic, imageHost, ansiReset)
}

func printRendered(w io.Writer, path string) {
	fmt.Fprintf(w, "%s%s✓%s card saved to %s\n", ansiCyan, ansiBold, ansiReset, path)
}

func printHelp(w io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#d946ef")).
		Bold(true).
		Render("B U L K")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(`"One Exchange. Infinite Markets."`)

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"accesscard", "Open the card editor"},
		{"accesscard <card-url>", "Open the editor from a shared card link"},
		{"accesscard render <ref>", "Export a card PNG (-o file, --offline)"},
		{"accesscard serve", "Run the profile and upload API"},
		{"accesscard --version", "Show version"},
		{"accesscard help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n  Commands:\n", title, quote)
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-26s", c.cmd)), descStyle.Render(c.desc))
	}
	env := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("Settings are read from the environment and ./.env")
	fmt.Fprintf(w, "\n  %s\n\n", env)
}
