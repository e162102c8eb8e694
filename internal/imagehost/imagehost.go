// Package imagehost publishes rendered card images and returns public URLs.
package imagehost

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gcs "cloud.google.com/go/storage"

	"github.com/bulkexchange/accesscard/internal/config"
	"github.com/bulkexchange/accesscard/internal/render"
)

var (
	// ErrInvalidDataURL is returned for payloads that are not image data URLs.
	ErrInvalidDataURL = errors.New("imagehost: invalid image data URL")
	// ErrNotConfigured is returned by the disabled host.
	ErrNotConfigured = errors.New("imagehost: no image host configured")
)

// Uploader stores an image given as a data URL and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, dataURL string) (string, error)
}

// ValidateDataURL checks that s is a data:image/ URL.
func ValidateDataURL(s string) error {
	if !render.IsImageDataURL(s) {
		return ErrInvalidDataURL
	}
	return nil
}

// Disabled rejects every upload.
type Disabled struct{}

func (Disabled) Upload(context.Context, string) (string, error) { return "", ErrNotConfigured }

// New builds the uploader selected by cfg.ImageHost.
func New(ctx context.Context, cfg config.Server) (Uploader, error) {
	switch strings.ToLower(cfg.ImageHost) {
	case config.ImageHostCloudinary:
		return NewCloudinary(cfg.Cloudinary)
	case config.ImageHostGCS:
		client, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("imagehost: create storage client: %w", err)
		}
		return NewGCS(client, cfg.GCS)
	case config.ImageHostNone, "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("imagehost: unknown host %q", cfg.ImageHost)
	}
}
