package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bulkexchange/accesscard/pkg/client"
	"github.com/bulkexchange/accesscard/pkg/domain"
)

// lookupDebounce is how long the handle must stay unchanged before a lookup.
const lookupDebounce = 450 * time.Millisecond

const (
	msgLookupFailed  = "Could not fetch profile"
	msgLookupNetwork = "Network error fetching profile"
)

// ProfileFetcher looks up a public profile by handle.
type ProfileFetcher interface {
	LookupProfile(ctx context.Context, handle string) (*domain.Profile, error)
}

type lookupState int

const (
	lookupIdle lookupState = iota
	lookupLoading
	lookupLoaded
	lookupFailed
)

// lookupDueMsg fires when the debounce window for generation gen closes.
type lookupDueMsg struct {
	gen    int
	handle string
}

// profileLoadedMsg carries a lookup result tagged with its generation.
type profileLoadedMsg struct {
	gen     int
	handle  string
	profile *domain.Profile
	err     error
}

// lookupModel debounces handle edits into at most one request per quiet
// period. Every edit bumps gen; timers and results from older generations
// are dropped.
type lookupModel struct {
	fetcher ProfileFetcher
	gen     int
	handle  string
	state   lookupState
	profile *domain.Profile
	errText string
}

func newLookupModel(f ProfileFetcher) lookupModel {
	return lookupModel{fetcher: f}
}

// changed records a new handle and schedules the debounced lookup.
// An empty handle resets to idle without a request.
func (m lookupModel) changed(handle string) (lookupModel, tea.Cmd) {
	m.gen++
	m.handle = handle
	if handle == "" {
		m.state = lookupIdle
		m.profile = nil
		m.errText = ""
		return m, nil
	}
	gen := m.gen
	return m, tea.Tick(lookupDebounce, func(time.Time) tea.Msg {
		return lookupDueMsg{gen: gen, handle: handle}
	})
}

func (m lookupModel) Update(msg tea.Msg) (lookupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case lookupDueMsg:
		if msg.gen != m.gen || m.fetcher == nil {
			return m, nil
		}
		m.state = lookupLoading
		m.errText = ""
		return m, m.fetch(msg.gen, msg.handle)

	case profileLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.state = lookupFailed
			m.profile = nil
			m.errText = lookupErrorText(msg.err)
			return m, nil
		}
		m.state = lookupLoaded
		m.profile = msg.profile
		m.errText = ""
	}
	return m, nil
}

func (m lookupModel) fetch(gen int, handle string) tea.Cmd {
	f := m.fetcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		p, err := f.LookupProfile(ctx, handle)
		return profileLoadedMsg{gen: gen, handle: handle, profile: p, err: err}
	}
}

// applies reports whether msg is the current generation's result.
func (m lookupModel) applies(msg profileLoadedMsg) bool {
	return msg.gen == m.gen
}

func lookupErrorText(err error) string {
	if text, ok := client.ServerMessage(err); ok && text != "" {
		return text
	}
	if client.IsHTTPError(err) {
		return msgLookupFailed
	}
	return msgLookupNetwork
}

func (m lookupModel) View() string {
	switch m.state {
	case lookupLoading:
		return dimStyle.Render("looking up @" + m.handle + "…")
	case lookupLoaded:
		if m.profile != nil {
			return cyanStyle.Render("✓ profile: " + m.profile.Name)
		}
	case lookupFailed:
		return errorStyle.Render(m.errText)
	}
	return ""
}
