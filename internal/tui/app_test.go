package tui

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bulkexchange/accesscard/internal/share"
	"github.com/bulkexchange/accesscard/pkg/card"
	"github.com/bulkexchange/accesscard/pkg/domain"
)

func TestAppHydratesFromQuery(t *testing.T) {
	a := NewApp(Deps{Profiles: &fakeFetcher{}, Now: func() time.Time { return testNow }, PublicURL: "https://cards.example/"},
		card.QueryState{Handle: "@Alice!", Name: "Ally", Region: "German"})

	if a.handleText != "@Alice!" || a.store.Input().Handle != "Alice" {
		t.Errorf("handle = %q / %q", a.handleText, a.store.Input().Handle)
	}
	if a.initCmd == nil {
		t.Error("hydrated handle should schedule a lookup")
	}
	v := a.store.View()
	if v.DisplayName != "Ally" || v.Region != "German" || v.IssueDate != "2026-10-16" {
		t.Errorf("view = %+v", v)
	}
	if got := a.pageURL(); got != "https://cards.example/?name=Ally&region=German&u=Alice" {
		t.Errorf("pageURL() = %q", got)
	}
}

func TestAppRolesDriveAccess(t *testing.T) {
	a := newTestApp(Deps{})
	if a.store.View().Access.Level != domain.AccessNone {
		t.Fatalf("fresh card access = %v, want None", a.store.View().Access.Level)
	}

	a = focusField(a, fieldRegion)
	a, _ = press(a, runes("l"))
	if got := a.store.Input().Region; got != domain.RegionRoles[0].Label {
		t.Fatalf("region = %q, want first catalog entry", got)
	}
	if a.store.View().Access.Level != domain.AccessLimited {
		t.Errorf("bulker + region = %v, want Limited", a.store.View().Access.Level)
	}

	a = focusField(a, fieldStatus+2) // Lvl 2
	a, _ = press(a, key(tea.KeySpace))
	if !a.store.Input().Status[domain.StatusLvl2] {
		t.Fatal("space should toggle Lvl 2")
	}
	if a.store.View().Access.Level != domain.AccessFull {
		t.Errorf("bulker + lvl2 = %v, want Full", a.store.View().Access.Level)
	}

	a = focusField(a, fieldRegion)
	a, _ = press(a, runes("x"))
	if a.store.Input().Region != "" || a.store.View().Access.Level != domain.AccessNone {
		t.Error("x should clear the region and drop access to None")
	}
}

func TestAppNameIsTruncated(t *testing.T) {
	a := newTestApp(Deps{})
	a = focusField(a, fieldName)
	a, _ = press(a, runes(strings.Repeat("n", 40)))
	if n := utf8.RuneCountInString(a.store.Input().ManualName); n != card.MaxNameLen {
		t.Errorf("name length = %d, want %d", n, card.MaxNameLen)
	}
	if a.nameText != a.store.Input().ManualName {
		t.Error("field text should mirror the stored name")
	}
}

func TestAppDownload(t *testing.T) {
	dir := t.TempDir()
	exp := &fakeExporter{}
	a := newTestApp(Deps{Exporter: exp, ExportDir: dir})
	a, _ = press(a, runes("alice"))

	a, cmd := press(a, key(tea.KeyCtrlD))
	if !a.busy || cmd == nil {
		t.Fatal("ctrl+d should start an export")
	}
	if _, again := press(a, key(tea.KeyCtrlD)); again != nil {
		t.Error("second download while busy should be ignored")
	}

	a, _ = press(a, cmd())
	if a.busy {
		t.Error("busy flag not reset")
	}
	if a.toast != "Downloaded PNG ✅" {
		t.Errorf("toast = %q", a.toast)
	}
	data, err := os.ReadFile(filepath.Join(dir, "bulk-access-card-alice.png"))
	if err != nil || !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("exported file: %v", err)
	}
}

func TestAppDownloadFailureResetsBusy(t *testing.T) {
	a := newTestApp(Deps{Exporter: &fakeExporter{err: errBoom}, ExportDir: t.TempDir()})
	a, cmd := press(a, key(tea.KeyCtrlD))
	a, _ = press(a, cmd())
	if a.busy || a.toast != "Download failed" {
		t.Errorf("busy = %v toast = %q", a.busy, a.toast)
	}
}

func TestAppShare(t *testing.T) {
	exp := &fakeExporter{}
	sh := &fakeSharer{outcome: share.Outcome{Method: share.MethodComposer, Message: share.MsgComposerCopied}}
	a := newTestApp(Deps{Exporter: exp, Sharer: sh})
	a, _ = press(a, runes("alice"))

	a, cmd := press(a, key(tea.KeyCtrlS))
	if !a.busy || cmd == nil {
		t.Fatal("ctrl+s should start sharing")
	}
	a, _ = press(a, cmd())
	if a.busy {
		t.Error("busy flag not reset")
	}
	if a.toast != share.MsgComposerCopied {
		t.Errorf("toast = %q", a.toast)
	}
	if sh.req.Artifact == nil || sh.req.View.Handle != "alice" {
		t.Errorf("request = %+v", sh.req)
	}
	if !strings.Contains(sh.req.PageURL, "u=alice") {
		t.Errorf("PageURL = %q", sh.req.PageURL)
	}
}

func TestAppShareWithoutArtifact(t *testing.T) {
	sh := &fakeSharer{outcome: share.Outcome{Message: share.MsgComposer}}
	a := newTestApp(Deps{Exporter: &fakeExporter{err: errBoom}, Sharer: sh})

	a, cmd := press(a, key(tea.KeyCtrlS))
	a, _ = press(a, cmd())
	if sh.req.Artifact != nil {
		t.Error("failed render should share without an artifact")
	}
	if a.busy || a.toast != share.MsgComposer {
		t.Errorf("busy = %v toast = %q", a.busy, a.toast)
	}
}

func TestAppCopyLink(t *testing.T) {
	var copied string
	a := newTestApp(Deps{CopyText: func(s string) error { copied = s; return nil }})
	a, _ = press(a, runes("alice"))

	a, cmd := press(a, key(tea.KeyCtrlY))
	a, _ = press(a, cmd())
	if copied != "https://cards.example/?u=alice" {
		t.Errorf("copied %q", copied)
	}
	if a.toast != "Share link copied ✅" {
		t.Errorf("toast = %q", a.toast)
	}

	a.deps.CopyText = func(string) error { return errBoom }
	a, cmd = press(a, key(tea.KeyCtrlY))
	a, _ = press(a, cmd())
	if a.toast != "Copy failed ❌" {
		t.Errorf("toast = %q", a.toast)
	}
}

func TestAppToastExpiry(t *testing.T) {
	a := newTestApp(Deps{})
	a, _ = a.showToast("first")
	first := a.toastSeq
	a, _ = a.showToast("second")

	a, _ = press(a, toastExpiredMsg{seq: first})
	if a.toast != "second" {
		t.Errorf("stale expiry cleared toast: %q", a.toast)
	}
	a, _ = press(a, toastExpiredMsg{seq: a.toastSeq})
	if a.toast != "" {
		t.Errorf("toast = %q, want cleared", a.toast)
	}
}

func TestAppAvatarFromFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	imgPath := filepath.Join(dir, "me.png")
	if err := os.WriteFile(imgPath, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	txtPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txtPath, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := newTestApp(Deps{})
	a = focusField(a, fieldAvatar)
	a, _ = press(a, runes(imgPath))
	a, cmd := press(a, key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter should load the avatar")
	}
	a, _ = press(a, cmd())
	if v := a.store.View(); v.AvatarKind != card.AvatarUploaded || !strings.HasPrefix(v.AvatarSource, "data:image/png;base64,") {
		t.Errorf("avatar = %v %q", v.AvatarKind, v.AvatarSource[:min(len(v.AvatarSource), 30)])
	}

	a.avatarPath = txtPath
	a, cmd = press(a, key(tea.KeyEnter))
	a, _ = press(a, cmd())
	if !strings.HasPrefix(a.toast, "Could not load avatar") {
		t.Errorf("toast = %q", a.toast)
	}
	if a.store.View().AvatarKind != card.AvatarUploaded {
		t.Error("failed load should keep the previous avatar")
	}

	a.avatarPath = ""
	a, _ = press(a, key(tea.KeyEnter))
	if a.store.Input().Avatar != "" || a.toast != "Avatar removed" {
		t.Errorf("avatar not removed, toast = %q", a.toast)
	}
}

func TestAppHelpAndQuit(t *testing.T) {
	a := newTestApp(Deps{})
	a = focusField(a, fieldStatus)
	a, _ = press(a, runes("?"))
	if !a.helpOpen || !strings.Contains(a.View(), "ctrl+d") {
		t.Fatal("? should open help")
	}
	a, _ = press(a, key(tea.KeyEsc))
	if a.helpOpen {
		t.Error("esc should close help")
	}

	if _, cmd := press(a, key(tea.KeyCtrlC)); cmd == nil {
		t.Error("ctrl+c should quit")
	}
	// Letters type into text fields instead of quitting.
	a = focusField(a, fieldHandle)
	a, _ = press(a, runes("q"))
	if a.handleText != "q" {
		t.Errorf("handle text = %q, want q", a.handleText)
	}
}

func TestAppView(t *testing.T) {
	a := newTestApp(Deps{})
	a, _ = press(a, runes("alice"))
	out := a.View()
	for _, want := range []string{"BULK ACCESS CARD", "ID " + card.DeriveCardID("alice"), "@alice", "ACCESS: NONE", "Issued 2026-10-16", "https://cards.example/?u=alice"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestCycleRegion(t *testing.T) {
	last := domain.RegionRoles[len(domain.RegionRoles)-1].Label
	if got := cycleRegion("", -1); got != last {
		t.Errorf("cycleRegion(\"\", -1) = %q, want %q", got, last)
	}
	if got := cycleRegion(last, 1); got != domain.RegionRoles[0].Label {
		t.Errorf("wrap forward = %q", got)
	}
}
