package share

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/atotto/clipboard"

	"github.com/bulkexchange/accesscard/internal/render"
	"github.com/bulkexchange/accesscard/pkg/card"
	"github.com/bulkexchange/accesscard/pkg/domain"
)

type fakePlatform struct {
	files, native   bool
	fileErr, natErr error
	openErr         error
	copyErr         error

	calls  []string
	opened string
	copied string
	text   string
}

func (f *fakePlatform) CanShareFiles() bool { return f.files }
func (f *fakePlatform) ShareFile(_ context.Context, _ File, p Payload) error {
	f.calls = append(f.calls, "file")
	f.text = p.Text
	return f.fileErr
}
func (f *fakePlatform) CanShare() bool { return f.native }
func (f *fakePlatform) Share(_ context.Context, p Payload) error {
	f.calls = append(f.calls, "share")
	f.text = p.Text
	return f.natErr
}
func (f *fakePlatform) OpenURL(u string) error {
	f.calls = append(f.calls, "open")
	f.opened = u
	return f.openErr
}
func (f *fakePlatform) CopyText(s string) error {
	f.calls = append(f.calls, "copy")
	f.copied = s
	return f.copyErr
}

type fakeUploader struct {
	url string
	err error
	got string
}

func (f *fakeUploader) UploadCard(_ context.Context, dataURL string) (string, error) {
	f.got = dataURL
	return f.url, f.err
}

func testView() card.View {
	in := card.NewInput()
	in.Handle = "alice"
	in.Region = "German"
	in.Status[domain.StatusOG] = true
	return card.Derive(in, nil, "2026-10-16")
}

func testArtifact() *render.Artifact {
	return &render.Artifact{PNG: []byte{1, 2, 3}, DataURL: "data:image/png;base64,AQID", FileName: "bulk-access-card-alice.png"}
}

const pageURL = "https://cards.example/?u=alice&region=German"

func TestCaption(t *testing.T) {
	got := Caption(testView(), "https://img.example/c.png")
	want := "Just minted my BULK Access Card 🪪\n\n" +
		"Bulker • OG • Region: German\n\n" +
		"BULK - One Exchange\nInfinite Markets\n\n" +
		"Get yours: https://img.example/c.png\n#BULK"
	if got != want {
		t.Errorf("Caption() =\n%q\nwant\n%q", got, want)
	}

	bare := card.Derive(card.Input{}, nil, "2026-10-16")
	if got := Caption(bare, "x"); strings.Contains(got, "•") || !strings.HasPrefix(got, "Just minted my BULK Access Card 🪪\n\nBULK - One Exchange") {
		t.Errorf("Caption() without badges = %q", got)
	}
}

func TestComposerURL(t *testing.T) {
	raw := ComposerURL("", "a b & c", "https://x.example/?u=1")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Host != "twitter.com" || u.Path != "/intent/tweet" {
		t.Errorf("composer = %s", raw)
	}
	if u.Query().Get("text") != "a b & c" || u.Query().Get("url") != "https://x.example/?u=1" {
		t.Errorf("query = %v", u.Query())
	}
	if got := ComposerURL("https://c.example/post?lang=en", "t", "l"); !strings.HasPrefix(got, "https://c.example/post?lang=en&") {
		t.Errorf("composer with query = %s", got)
	}
}

func TestShare_FileShareWins(t *testing.T) {
	p := &fakePlatform{files: true, native: true}
	up := &fakeUploader{url: "https://img.example/c.png"}
	d := NewDispatcher(p, up, "", nil)

	out := d.Share(context.Background(), Request{View: testView(), Artifact: testArtifact(), PageURL: pageURL})
	if out.Method != MethodFileShare || out.Message != MsgFileShared {
		t.Errorf("outcome = %+v", out)
	}
	if !out.Uploaded || out.Link != up.url {
		t.Errorf("link = %q uploaded=%v, want cloud URL", out.Link, out.Uploaded)
	}
	if up.got != testArtifact().DataURL {
		t.Errorf("uploaded %q", up.got)
	}
	if strings.Join(p.calls, ",") != "file" {
		t.Errorf("calls = %v", p.calls)
	}
	if !strings.Contains(p.text, "Get yours: https://img.example/c.png") {
		t.Errorf("caption = %q", p.text)
	}
	if d.Busy() {
		t.Error("busy after success")
	}
}

func TestShare_UploadFailureFallsBackToPageURL(t *testing.T) {
	p := &fakePlatform{native: true}
	d := NewDispatcher(p, &fakeUploader{err: errors.New("quota")}, "", nil)

	out := d.Share(context.Background(), Request{View: testView(), Artifact: testArtifact(), PageURL: pageURL})
	if out.Method != MethodShare || out.Message != MsgShared {
		t.Errorf("outcome = %+v", out)
	}
	if out.Uploaded || out.Link != pageURL {
		t.Errorf("link = %q, want page URL", out.Link)
	}
}

func TestShare_NativeFailuresReachComposer(t *testing.T) {
	p := &fakePlatform{files: true, native: true, fileErr: errors.New("cancel"), natErr: errors.New("denied")}
	d := NewDispatcher(p, &fakeUploader{url: "https://img.example/c.png"}, "", nil)

	out := d.Share(context.Background(), Request{View: testView(), Artifact: testArtifact(), PageURL: pageURL})
	if out.Method != MethodComposer || out.Message != MsgComposerCopied {
		t.Errorf("outcome = %+v", out)
	}
	if strings.Join(p.calls, ",") != "file,share,open,copy" {
		t.Errorf("calls = %v", p.calls)
	}
	if p.copied != "https://img.example/c.png" {
		t.Errorf("copied %q", p.copied)
	}
	if !strings.HasPrefix(p.opened, DefaultComposerURL+"?") {
		t.Errorf("opened %q", p.opened)
	}
}

func TestShare_ComposerWithoutUpload(t *testing.T) {
	p := &fakePlatform{}
	d := NewDispatcher(p, nil, "", nil)

	out := d.Share(context.Background(), Request{View: testView(), PageURL: pageURL})
	if out.Message != MsgComposer || out.Link != pageURL {
		t.Errorf("outcome = %+v", out)
	}
}

func TestShare_CopyFailureStillReports(t *testing.T) {
	p := &fakePlatform{copyErr: errors.New("no clipboard")}
	d := NewDispatcher(p, &fakeUploader{url: "https://img.example/c.png"}, "", nil)

	out := d.Share(context.Background(), Request{View: testView(), Artifact: testArtifact(), PageURL: pageURL})
	if out.Message != MsgComposer || out.Err != nil {
		t.Errorf("outcome = %+v", out)
	}
}

func TestShare_TotalFailure(t *testing.T) {
	p := &fakePlatform{openErr: errors.New("no browser"), copyErr: errors.New("no clipboard")}
	d := NewDispatcher(p, nil, "", nil)

	out := d.Share(context.Background(), Request{View: testView(), PageURL: pageURL})
	if out.Message != MsgFailed || out.Err == nil || out.Method != MethodNone {
		t.Errorf("outcome = %+v", out)
	}
	if strings.Join(p.calls, ",") != "open,copy" {
		t.Errorf("calls = %v, want open,copy", p.calls)
	}
	if d.Busy() {
		t.Error("busy after failure")
	}
}

func TestShare_ComposerFailureStillCopiesLink(t *testing.T) {
	p := &fakePlatform{openErr: errors.New("xdg-open not found")}
	d := NewDispatcher(p, nil, "", nil)

	out := d.Share(context.Background(), Request{View: testView(), PageURL: pageURL})
	if strings.Join(p.calls, ",") != "open,copy" {
		t.Fatalf("calls = %v, want open,copy", p.calls)
	}
	if p.copied != pageURL {
		t.Errorf("copied %q, want %q", p.copied, pageURL)
	}
	if out.Method != MethodClipboard || out.Message != MsgLinkCopied || out.Err != nil {
		t.Errorf("outcome = %+v", out)
	}
}

type blockingUploader struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingUploader) UploadCard(context.Context, string) (string, error) {
	close(b.entered)
	<-b.release
	return "", errors.New("late")
}

func TestShare_RejectsConcurrent(t *testing.T) {
	up := &blockingUploader{entered: make(chan struct{}), release: make(chan struct{})}
	d := NewDispatcher(&fakePlatform{}, up, "", nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.Share(context.Background(), Request{View: testView(), Artifact: testArtifact(), PageURL: pageURL})
	}()
	<-up.entered

	out := d.Share(context.Background(), Request{View: testView(), PageURL: pageURL})
	if !errors.Is(out.Err, ErrBusy) || out.Message != MsgBusy {
		t.Errorf("concurrent outcome = %+v", out)
	}

	close(up.release)
	wg.Wait()
	if d.Busy() {
		t.Error("busy after first share finished")
	}
}

func TestDesktop(t *testing.T) {
	var opened, copied string
	d := &Desktop{
		open: func(u string) error { opened = u; return nil },
		copy: func(s string) error { copied = s; return nil },
	}
	if d.CanShareFiles() || d.CanShare() {
		t.Error("desktop should not offer native share")
	}
	if err := d.Share(context.Background(), Payload{}); err == nil {
		t.Error("expected native share error")
	}
	if err := d.OpenURL("https://twitter.com/intent/tweet"); err != nil || opened == "" {
		t.Errorf("OpenURL() = %v, opened %q", err, opened)
	}
	err := d.CopyText("link")
	if clipboard.Unsupported {
		if err == nil {
			t.Error("expected error on unsupported clipboard")
		}
		return
	}
	if err != nil || copied != "link" {
		t.Errorf("CopyText() = %v, copied %q", err, copied)
	}
}
