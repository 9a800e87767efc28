package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// uploadProductImage stores the image in the products folder under a
// caller-chosen public id and returns the served URL.
func (app *application) uploadProductImage(ctx context.Context, file io.Reader, publicID string) (string, error) {
	resp, err := app.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:    "products",
		PublicID:  publicID,
		Overwrite: api.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return resp.SecureURL, nil
}

// destroyCloudinaryImage removes an uploaded asset by its served URL. Called
// when a product image is replaced.
func (app *application) destroyCloudinaryImage(ctx context.Context, imageURL string) error {
	publicID, err := cloudinaryPublicID(imageURL)
	if err != nil {
		return err
	}

	if _, err := app.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	return nil
}

// cloudinaryPublicID recovers the public id from a served asset URL:
// everything after the "/upload/" path segment, version prefix included,
// which Destroy accepts.
func cloudinaryPublicID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse asset url: %w", err)
	}

	_, after, found := strings.Cut(u.Path, "/upload/")
	if !found || after == "" {
		return "", fmt.Errorf("no public id in asset url %q", rawURL)
	}
	return after, nil
}
