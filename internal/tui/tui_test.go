package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bulkexchange/accesscard/internal/render"
	"github.com/bulkexchange/accesscard/internal/share"
	"github.com/bulkexchange/accesscard/pkg/card"
	"github.com/bulkexchange/accesscard/pkg/domain"
)

var testNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.Local)

type fakeFetcher struct {
	calls    []string
	profiles map[string]*domain.Profile
	err      error
}

func (f *fakeFetcher) LookupProfile(_ context.Context, handle string) (*domain.Profile, error) {
	f.calls = append(f.calls, handle)
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.profiles[handle]; ok {
		return p, nil
	}
	return &domain.Profile{Username: handle, Name: strings.ToUpper(handle)}, nil
}

type fakeExporter struct {
	calls int
	err   error
}

func (f *fakeExporter) Export(_ context.Context, v card.View) (*render.Artifact, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &render.Artifact{PNG: []byte("\x89PNG"), DataURL: "data:image/png;base64,iVBORw==", FileName: render.FileName(v.Handle)}, nil
}

type fakeSharer struct {
	req     share.Request
	outcome share.Outcome
}

func (f *fakeSharer) Share(_ context.Context, req share.Request) share.Outcome {
	f.req = req
	return f.outcome
}

func newTestApp(d Deps) App {
	d.Now = func() time.Time { return testNow }
	if d.PublicURL == "" {
		d.PublicURL = "https://cards.example/"
	}
	a := NewApp(d, card.QueryState{})
	a.width = 120
	a.height = 40
	return a
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// press feeds msgs through Update and returns the model and the last command.
func press(a App, msgs ...tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	for _, m := range msgs {
		var model tea.Model
		model, cmd = a.Update(m)
		a = model.(App)
	}
	return a, cmd
}

// focusField tabs from the first field to f.
func focusField(a App, f field) App {
	for a.focus != f {
		a, _ = press(a, key(tea.KeyTab))
	}
	return a
}

var errBoom = errors.New("boom")
