package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"go.uber.org/zap"

	"github.com/bulkexchange/accesscard/pkg/card"
)

// Artifact is an encoded card image.
type Artifact struct {
	PNG      []byte
	DataURL  string
	FileName string
}

// AvatarResolver loads the image behind a card's avatar source.
type AvatarResolver interface {
	Load(ctx context.Context, src string, cacheBust bool) (image.Image, error)
}

// FileName is the download name for a card with the given handle.
func FileName(handle string) string {
	if handle == "" {
		handle = "guest"
	}
	return "bulk-access-card-" + handle + ".png"
}

// Exporter rasterizes card views with one fallback attempt.
type Exporter struct {
	raster   Rasterizer
	avatars  AvatarResolver
	logger   *zap.Logger
	primary  Options
	fallback Options
}

// NewExporter wires an exporter. A nil avatars resolver always draws initials.
func NewExporter(r Rasterizer, avatars AvatarResolver, logger *zap.Logger) *Exporter {
	if r == nil {
		r = CardRasterizer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		raster:   r,
		avatars:  avatars,
		logger:   logger,
		primary:  PrimaryOptions(),
		fallback: FallbackOptions(),
	}
}

// Export renders v to PNG. The primary options are tried first; on failure
// the fallback options are tried exactly once.
func (e *Exporter) Export(ctx context.Context, v card.View) (*Artifact, error) {
	avatar := e.loadAvatar(ctx, v)

	img, err := e.raster.Rasterize(ctx, v, avatar, e.primary)
	if err != nil {
		e.logger.Warn("primary render failed, retrying with fonts",
			zap.String("card_id", v.CardID),
			zap.Error(err),
		)
		img, err = e.raster.Rasterize(ctx, v, avatar, e.fallback)
		if err != nil {
			return nil, fmt.Errorf("render.Export: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("render.Export: encode png: %w", err)
	}
	data := buf.Bytes()
	return &Artifact{
		PNG:      data,
		DataURL:  EncodeDataURL("image/png", data),
		FileName: FileName(v.Handle),
	}, nil
}

func (e *Exporter) loadAvatar(ctx context.Context, v card.View) image.Image {
	if v.AvatarSource == "" || e.avatars == nil {
		return nil
	}
	img, err := e.avatars.Load(ctx, v.AvatarSource, e.primary.CacheBust)
	if err != nil {
		e.logger.Warn("avatar unavailable, drawing initials",
			zap.Int("avatar_kind", int(v.AvatarKind)),
			zap.Error(err),
		)
		return nil
	}
	return img
}
