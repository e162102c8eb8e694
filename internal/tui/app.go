package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/bulkexchange/accesscard/internal/render"
	"github.com/bulkexchange/accesscard/internal/share"
	"github.com/bulkexchange/accesscard/pkg/card"
)

// Exporter renders the current card to PNG.
type Exporter interface {
	Export(ctx context.Context, v card.View) (*render.Artifact, error)
}

// Sharer runs the share fallback chain.
type Sharer interface {
	Share(ctx context.Context, req share.Request) share.Outcome
}

// Deps are the collaborators of the card editor. Nil fields disable the
// matching feature.
type Deps struct {
	Profiles  ProfileFetcher
	Exporter  Exporter
	Sharer    Sharer
	CopyText  func(string) error
	PublicURL string
	ExportDir string
	Logger    *zap.Logger
	Now       func() time.Time
}

// App is the root Bubbletea model: the card form on the left and a live
// preview on the right.
type App struct {
	deps   Deps
	logger *zap.Logger

	store      card.Store
	lookup     lookupModel
	handleText string
	nameText   string
	avatarPath string
	focus      field

	busy     bool
	toast    string
	toastSeq int
	lastFile string

	helpOpen bool
	width    int
	height   int
	frame    int
	initCmd  tea.Cmd
}

// NewApp creates the editor, hydrated from q.
func NewApp(d Deps, q card.QueryState) App {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.ExportDir == "" {
		d.ExportDir = "."
	}

	a := App{
		deps:   d,
		logger: d.Logger,
		store:  card.NewStore(d.Now()),
		lookup: newLookupModel(d.Profiles),
	}
	a.store.Hydrate(q)
	in := a.store.Input()
	a.handleText = in.RawHandle
	a.nameText = in.ManualName
	a.lookup, a.initCmd = a.lookup.changed(in.Handle)
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.initCmd, shimmerTickCmd())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case lookupDueMsg:
		var cmd tea.Cmd
		a.lookup, cmd = a.lookup.Update(msg)
		return a, cmd

	case profileLoadedMsg:
		if !a.lookup.applies(msg) {
			a.logger.Debug("discarding stale profile", zap.String("handle", msg.handle))
			return a, nil
		}
		a.lookup, _ = a.lookup.Update(msg)
		if msg.err != nil {
			a.logger.Warn("profile lookup failed", zap.String("handle", msg.handle), zap.Error(msg.err))
		}
		a.store.SetProfile(a.lookup.profile)
		return a, nil

	case avatarLoadedMsg:
		if msg.err != nil {
			a.logger.Warn("avatar load failed", zap.Error(msg.err))
			return a.showToast("Could not load avatar: " + msg.err.Error())
		}
		a.store.SetAvatar(msg.dataURL)
		return a.showToast("Avatar loaded ✅")

	case downloadDoneMsg:
		a.busy = false
		if msg.err != nil {
			a.logger.Error("download failed", zap.Error(msg.err))
			return a.showToast("Download failed")
		}
		a.lastFile = msg.path
		return a.showToast("Downloaded PNG ✅")

	case shareDoneMsg:
		a.busy = false
		return a.showToast(msg.outcome.Message)

	case copyDoneMsg:
		if msg.err != nil {
			a.logger.Warn("copy share link failed", zap.Error(msg.err))
			return a.showToast("Copy failed ❌")
		}
		return a.showToast("Share link copied ✅")

	case toastExpiredMsg:
		if msg.seq == a.toastSeq {
			a.toast = ""
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.helpOpen {
		switch key {
		case "ctrl+c":
			return a, tea.Quit
		case "?", "esc", "q":
			a.helpOpen = false
		}
		return a, nil
	}

	switch key {
	case "ctrl+c":
		return a, tea.Quit
	case "ctrl+d":
		return a.download()
	case "ctrl+s":
		return a.share()
	case "ctrl+y":
		return a.copyLink()
	case "tab", "down":
		a.focus = (a.focus + 1) % numFields
		return a, nil
	case "shift+tab", "up":
		a.focus = (a.focus - 1 + numFields) % numFields
		return a, nil
	}

	if a.focus.isText() {
		return a.updateText(msg)
	}

	switch key {
	case "q", "esc":
		return a, tea.Quit
	case "?":
		a.helpOpen = true
		return a, nil
	}

	if r, ok := a.focus.statusRole(); ok {
		if key == " " || key == "space" || key == "enter" {
			a.store.ToggleStatus(r.Key)
		}
		return a, nil
	}

	if a.focus == fieldRegion {
		current := a.store.Input().Region
		switch key {
		case "l", "right", "enter", " ", "space":
			a.store.SetRegion(cycleRegion(current, 1))
		case "h", "left":
			a.store.SetRegion(cycleRegion(current, -1))
		case "x", "backspace":
			a.store.SetRegion("")
		}
	}
	return a, nil
}

func (a App) updateText(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if a.focus == fieldAvatar {
			return a.loadAvatar()
		}
		a.focus = (a.focus + 1) % numFields
		return a, nil
	}
	if msg.Type == tea.KeyEsc {
		return a, tea.Quit
	}

	switch a.focus {
	case fieldHandle:
		a.handleText = applyKey(a.handleText, msg)
		if !a.store.SetRawHandle(a.handleText) {
			return a, nil
		}
		handle := a.store.Input().Handle
		if handle == "" {
			a.store.SetProfile(nil)
		}
		var cmd tea.Cmd
		a.lookup, cmd = a.lookup.changed(handle)
		return a, cmd

	case fieldName:
		a.store.SetManualName(applyKey(a.nameText, msg))
		a.nameText = a.store.Input().ManualName

	case fieldAvatar:
		a.avatarPath = applyKey(a.avatarPath, msg)
	}
	return a, nil
}

// pageURL is the shareable card link for the current input.
func (a App) pageURL() string {
	u, err := card.CardURL(a.deps.PublicURL, card.QueryStateOf(a.store.Input()))
	if err != nil {
		return a.deps.PublicURL
	}
	return u
}

func (a App) showToast(text string) (App, tea.Cmd) {
	a.toastSeq++
	a.toast = text
	seq := a.toastSeq
	return a, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	header := center(logo, a.width) + "\n"

	var body, help string
	if a.helpOpen {
		body = helpView()
		help = " " + helpEntry("esc", "close") + "  " + helpEntry("ctrl+c", "quit")
	} else {
		form := a.formView()
		if status := a.lookup.View(); status != "" {
			form += "\n  " + status + "\n"
		}
		preview := renderPreview(a.store.View())
		if a.width == 0 || a.width >= 96 {
			body = lipgloss.JoinHorizontal(lipgloss.Top, form, "    ", preview)
		} else {
			body = form + "\n" + preview
		}
		body += "\n\n " + metaStyle.Render("link ") + dimStyle.Render(a.pageURL())
		if a.lastFile != "" {
			body += "\n " + metaStyle.Render("file ") + dimStyle.Render(a.lastFile)
		}

		if a.focus.isText() {
			help = " " + helpEntry("tab", "next") + "  " + helpEntry("ctrl+d", "download") + "  " + helpEntry("ctrl+s", "share") + "  " + helpEntry("ctrl+y", "copy link") + "  " + helpEntry("esc", "quit")
		} else {
			help = " " + helpEntry("tab", "next") + "  " + helpEntry("space", "toggle") + "  " + helpEntry("h/l", "region") + "  " + helpEntry("ctrl+d", "download") + "  " + helpEntry("ctrl+s", "share") + "  " + helpEntry("?", "help") + "  " + helpEntry("q", "quit")
		}
	}

	var status string
	switch {
	case a.busy:
		status = " " + dimStyle.Render("working…")
	case a.toast != "":
		status = " " + toastStyle.Render(a.toast)
	}

	// Chrome: header(2) + status(1) + help(1)
	body = strings.TrimRight(truncateToHeight(body, a.height-4), "\n")
	return fmt.Sprintf("%s\n%s\n%s\n%s", header, body, status, help)
}

func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
