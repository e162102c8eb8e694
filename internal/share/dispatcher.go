package share

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/bulkexchange/accesscard/internal/render"
	"github.com/bulkexchange/accesscard/pkg/card"
)

// Status messages surfaced to the user.
const (
	MsgBusy           = "Share already in progress"
	MsgFileShared     = "Shared with native share ✅"
	MsgShared         = "Shared ✅"
	MsgComposerCopied = "Cloud image URL copied — opened tweet composer"
	MsgComposer       = "Opened tweet composer"
	MsgLinkCopied     = "Share link copied ✅"
	MsgFailed         = "Share failed"
)

// ErrBusy is reported when Share is called while another share is running.
var ErrBusy = errors.New("share: already in progress")

// Payload is the text part of a native share.
type Payload struct {
	Title string
	Text  string
	URL   string
}

// File is an image attached to a native share.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Platform is the set of sharing capabilities of the host environment.
type Platform interface {
	CanShareFiles() bool
	ShareFile(ctx context.Context, f File, p Payload) error
	CanShare() bool
	Share(ctx context.Context, p Payload) error
	OpenURL(rawURL string) error
	CopyText(text string) error
}

// Uploader publishes a rendered card and returns its public URL.
type Uploader interface {
	UploadCard(ctx context.Context, dataURL string) (string, error)
}

// Method records which step finished a share. A failed Outcome keeps the
// zero value, MethodNone.
type Method int

const (
	MethodNone Method = iota
	MethodFileShare
	MethodShare
	MethodComposer
	MethodClipboard // composer could not open; link copied only
)

// Request is one share attempt.
type Request struct {
	View     card.View
	Artifact *render.Artifact // may be nil
	PageURL  string           // card URL carrying the current query string
}

// Outcome is the single result of a share attempt.
type Outcome struct {
	Method   Method
	Link     string
	Uploaded bool
	Message  string
	Err      error
}

// Dispatcher runs the share fallback chain.
type Dispatcher struct {
	platform    Platform
	uploader    Uploader
	composerURL string
	logger      *zap.Logger
	busy        atomic.Bool
}

// NewDispatcher wires a dispatcher. uploader may be nil to skip uploading.
func NewDispatcher(p Platform, u Uploader, composerURL string, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if composerURL == "" {
		composerURL = DefaultComposerURL
	}
	return &Dispatcher{platform: p, uploader: u, composerURL: composerURL, logger: logger}
}

// Busy reports whether a share is running.
func (d *Dispatcher) Busy() bool { return d.busy.Load() }

// Share walks upload, native file share, native share and composer in
// order. It never returns an error; failures are folded into the Outcome.
func (d *Dispatcher) Share(ctx context.Context, req Request) Outcome {
	if !d.busy.CompareAndSwap(false, true) {
		return Outcome{Message: MsgBusy, Err: ErrBusy}
	}
	defer d.busy.Store(false)

	out := Outcome{Link: req.PageURL}
	log := d.logger.With(zap.String("card_id", req.View.CardID))

	if d.uploader != nil && req.Artifact != nil {
		u, err := d.uploader.UploadCard(ctx, req.Artifact.DataURL)
		switch {
		case err != nil:
			log.Warn("card upload failed, sharing page link", zap.Error(err))
		case u != "":
			out.Link, out.Uploaded = u, true
		}
	}

	text := Caption(req.View, out.Link)
	payload := Payload{Title: Title, Text: text, URL: out.Link}

	if req.Artifact != nil && d.platform.CanShareFiles() {
		f := File{Name: req.Artifact.FileName, MIMEType: "image/png", Data: req.Artifact.PNG}
		if err := d.platform.ShareFile(ctx, f, payload); err != nil {
			log.Warn("native file share failed", zap.Error(err))
		} else {
			out.Method, out.Message = MethodFileShare, MsgFileShared
			return out
		}
	}

	if d.platform.CanShare() {
		if err := d.platform.Share(ctx, payload); err != nil {
			log.Warn("native share failed", zap.Error(err))
		} else {
			out.Method, out.Message = MethodShare, MsgShared
			return out
		}
	}

	openErr := d.platform.OpenURL(ComposerURL(d.composerURL, text, out.Link))
	if openErr != nil {
		log.Warn("open composer failed", zap.Error(openErr))
	}
	copyErr := d.platform.CopyText(out.Link)
	if copyErr != nil {
		log.Warn("copy share link failed", zap.Error(copyErr))
	}

	switch {
	case openErr != nil && copyErr != nil:
		log.Error("share failed", zap.Error(openErr))
		out.Message, out.Err = MsgFailed, errors.Join(openErr, copyErr)
	case openErr != nil:
		out.Method, out.Message = MethodClipboard, MsgLinkCopied
	case copyErr != nil || !out.Uploaded:
		out.Method, out.Message = MethodComposer, MsgComposer
	default:
		out.Method, out.Message = MethodComposer, MsgComposerCopied
	}
	return out
}
