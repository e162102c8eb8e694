package imagehost

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/bulkexchange/accesscard/internal/config"
)

// Cloudinary uploads data URLs directly; the service accepts data URIs as
// the file parameter.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinary creates a Cloudinary uploader from a CLOUDINARY_URL or from
// separate credentials.
func NewCloudinary(cfg config.Cloudinary) (*Cloudinary, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	switch {
	case cfg.URL != "":
		cld, err = cloudinary.NewFromURL(cfg.URL)
	case cfg.CloudName != "" && cfg.APIKey != "" && cfg.APISecret != "":
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	default:
		return nil, errors.New("imagehost: cloudinary credentials are required")
	}
	if err != nil {
		return nil, fmt.Errorf("imagehost: configure cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, folder: cfg.Folder}, nil
}

// Upload stores the image without overwriting existing assets.
func (c *Cloudinary) Upload(ctx context.Context, dataURL string) (string, error) {
	if err := ValidateDataURL(dataURL); err != nil {
		return "", err
	}
	resp, err := c.cld.Upload.Upload(ctx, dataURL, uploader.UploadParams{
		Folder:         c.folder,
		ResourceType:   "image",
		Overwrite:      api.Bool(false),
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("imagehost.Cloudinary.Upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("imagehost.Cloudinary.Upload: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", errors.New("imagehost.Cloudinary.Upload: response has no secure_url")
	}
	return resp.SecureURL, nil
}
