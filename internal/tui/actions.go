package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/bulkexchange/accesscard/internal/render"
	"github.com/bulkexchange/accesscard/internal/share"
)

const (
	toastDuration  = 2200 * time.Millisecond
	exportTimeout  = time.Minute
	maxAvatarBytes = 5 << 20
)

type avatarLoadedMsg struct {
	dataURL string
	err     error
}

type downloadDoneMsg struct {
	path string
	err  error
}

type shareDoneMsg struct {
	outcome share.Outcome
}

type copyDoneMsg struct {
	err error
}

type toastExpiredMsg struct {
	seq int
}

// loadAvatar reads the typed image path into a data URL. An empty path
// removes the uploaded avatar.
func (a App) loadAvatar() (tea.Model, tea.Cmd) {
	path := expandPath(a.avatarPath)
	if path == "" {
		if a.store.Input().Avatar == "" {
			return a, nil
		}
		a.store.SetAvatar("")
		return a.showToast("Avatar removed")
	}
	return a, func() tea.Msg {
		dataURL, err := readImageFile(path)
		return avatarLoadedMsg{dataURL: dataURL, err: err}
	}
}

func readImageFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxAvatarBytes {
		return "", fmt.Errorf("%s is larger than %d MB", filepath.Base(path), maxAvatarBytes>>20)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%s is not an image", filepath.Base(path))
	}
	return render.EncodeDataURL(mimeType, data), nil
}

func (a App) download() (tea.Model, tea.Cmd) {
	if a.busy {
		return a, nil
	}
	if a.deps.Exporter == nil {
		return a.showToast("Download unavailable")
	}
	a.busy = true
	exp, dir, view := a.deps.Exporter, a.deps.ExportDir, a.store.View()
	return a, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		art, err := exp.Export(ctx, view)
		if err != nil {
			return downloadDoneMsg{err: err}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return downloadDoneMsg{err: err}
		}
		path := filepath.Join(dir, art.FileName)
		if err := os.WriteFile(path, art.PNG, 0o644); err != nil {
			return downloadDoneMsg{err: err}
		}
		return downloadDoneMsg{path: path}
	}
}

func (a App) share() (tea.Model, tea.Cmd) {
	if a.busy {
		return a, nil
	}
	if a.deps.Sharer == nil {
		return a.showToast(share.MsgFailed)
	}
	a.busy = true
	exp, sharer, log := a.deps.Exporter, a.deps.Sharer, a.logger
	req := share.Request{View: a.store.View(), PageURL: a.pageURL()}
	return a, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		if exp != nil {
			art, err := exp.Export(ctx, req.View)
			if err != nil {
				log.Warn("render for share failed, sharing link only", zap.Error(err))
			} else {
				req.Artifact = art
			}
		}
		return shareDoneMsg{outcome: sharer.Share(ctx, req)}
	}
}

func (a App) copyLink() (tea.Model, tea.Cmd) {
	copyText := a.deps.CopyText
	link := a.pageURL()
	return a, func() tea.Msg {
		if copyText == nil {
			return copyDoneMsg{err: errors.New("clipboard unavailable")}
		}
		return copyDoneMsg{err: copyText(link)}
	}
}
