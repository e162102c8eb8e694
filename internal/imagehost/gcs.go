package imagehost

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/bulkexchange/accesscard/internal/config"
	"github.com/bulkexchange/accesscard/internal/render"
)

// objectWriter stores one object.
type objectWriter func(ctx context.Context, bucket, object, contentType string, data []byte) error

// GCS stores cards in a public Cloud Storage bucket under random names.
type GCS struct {
	write      objectWriter
	bucket     string
	prefix     string
	publicBase string
	newName    func() string
}

// NewGCS creates a Cloud Storage uploader.
func NewGCS(client *gcs.Client, cfg config.GCS) (*GCS, error) {
	if client == nil {
		return nil, errors.New("imagehost: storage client is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("imagehost: bucket name is required")
	}
	return newGCS(clientWriter(client), bucket, cfg), nil
}

func newGCS(w objectWriter, bucket string, cfg config.GCS) *GCS {
	base := strings.TrimRight(cfg.PublicBase, "/")
	if base == "" {
		base = "https://storage.googleapis.com"
	}
	return &GCS{
		write:      w,
		bucket:     bucket,
		prefix:     strings.Trim(cfg.Prefix, "/"),
		publicBase: base,
		newName:    uuid.NewString,
	}
}

func clientWriter(client *gcs.Client) objectWriter {
	return func(ctx context.Context, bucket, object, contentType string, data []byte) error {
		w := client.Bucket(bucket).Object(object).If(gcs.Conditions{DoesNotExist: true}).NewWriter(ctx)
		w.ContentType = contentType
		w.CacheControl = "public, max-age=31536000, immutable"
		if _, err := w.Write(data); err != nil {
			w.Close() //nolint:errcheck // write error takes precedence
			return err
		}
		return w.Close()
	}
}

// Upload decodes the data URL and writes it as a new object.
func (g *GCS) Upload(ctx context.Context, dataURL string) (string, error) {
	if err := ValidateDataURL(dataURL); err != nil {
		return "", err
	}
	contentType, data, err := render.DecodeDataURL(dataURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}

	object := g.newName() + extensionFor(contentType)
	if g.prefix != "" {
		object = g.prefix + "/" + object
	}
	if err := g.write(ctx, g.bucket, object, contentType, data); err != nil {
		return "", fmt.Errorf("imagehost.GCS.Upload: %w", err)
	}
	return g.publicBase + "/" + url.PathEscape(g.bucket) + "/" + escapeObject(object), nil
}

func extensionFor(contentType string) string {
	if contentType == "image/png" {
		return ".png"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

func escapeObject(object string) string {
	parts := strings.Split(path.Clean(object), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
