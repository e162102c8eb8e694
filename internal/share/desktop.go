package share

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"

	"github.com/bulkexchange/accesscard/internal/browser"
)

var errNoNativeShare = errors.New("share: native sharing not available on this platform")

// Desktop is the terminal host: no native share sheet, so sharing always
// ends at the composer in the default browser.
type Desktop struct {
	open func(string) error
	copy func(string) error
}

// NewDesktop returns the platform backed by the system browser and clipboard.
func NewDesktop() *Desktop {
	return &Desktop{open: browser.Open, copy: clipboard.WriteAll}
}

func (*Desktop) CanShareFiles() bool { return false }

func (*Desktop) ShareFile(context.Context, File, Payload) error { return errNoNativeShare }

func (*Desktop) CanShare() bool { return false }

func (*Desktop) Share(context.Context, Payload) error { return errNoNativeShare }

func (d *Desktop) OpenURL(rawURL string) error { return d.open(rawURL) }

func (d *Desktop) CopyText(text string) error {
	if clipboard.Unsupported {
		return errors.New("share: clipboard unsupported")
	}
	return d.copy(text)
}
