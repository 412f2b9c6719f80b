// Package media stores uploaded images on Cloudinary.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"regexp"
	"strings"

	"bookit-api/internal/config"
	"bookit-api/internal/core/domain"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ErrNotConfigured is returned by the store used when CLOUDINARY_URL is empty
var ErrNotConfigured = fmt.Errorf("%w: media storage is not configured", domain.ErrExternalService)

var versionSegment = regexp.MustCompile(`^v\d+$`)

// CloudinaryStore uploads images and deletes them by URL
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore creates a store from a cloudinary:// URL
func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryStore{cld: cld}, nil
}

// Upload stores r under folder/filename and returns the secure URL
func (s *CloudinaryStore) Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       folder,
		PublicID:     filename,
		ResourceType: "image",
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.SecureURL, nil
}

// Delete removes the asset a URL points at. Unknown assets are not an error.
func (s *CloudinaryStore) Delete(ctx context.Context, assetURL string) error {
	publicID, err := publicIDFromURL(assetURL)
	if err != nil {
		return err
	}

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	if res.Result != "ok" {
		log.Printf("⚠️ Cloudinary destroy %s: %s", publicID, res.Result)
	}
	return nil
}

// publicIDFromURL extracts the public id from a delivery URL:
// .../image/upload/v1712345678/bookit/dorms/abc.jpg -> bookit/dorms/abc
func publicIDFromURL(assetURL string) (string, error) {
	u, err := url.Parse(assetURL)
	if err != nil {
		return "", fmt.Errorf("invalid media url: %w", err)
	}

	_, rest, found := strings.Cut(u.Path, "/upload/")
	if !found || rest == "" {
		return "", fmt.Errorf("not a cloudinary upload url: %s", assetURL)
	}

	segments := strings.Split(rest, "/")
	if len(segments) > 1 && versionSegment.MatchString(segments[0]) {
		segments = segments[1:]
	}

	id := strings.Join(segments, "/")
	return strings.TrimSuffix(id, path.Ext(id)), nil
}

// DisabledStore refuses uploads. Used when no Cloudinary account is configured.
type DisabledStore struct{}

// Upload always fails
func (DisabledStore) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", ErrNotConfigured
}

// Delete always fails
func (DisabledStore) Delete(context.Context, string) error {
	return ErrNotConfigured
}

// Store is the interface both stores satisfy
type Store interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// New returns a Cloudinary store, or a disabled one when unconfigured
func New(cfg config.MediaConfig) (Store, error) {
	if cfg.CloudinaryURL == "" {
		log.Println("⚠️ CLOUDINARY_URL not set, image uploads are disabled")
		return DisabledStore{}, nil
	}
	store, err := NewCloudinaryStore(cfg.CloudinaryURL)
	if err != nil {
		return nil, err
	}
	log.Printf("🖼️ Media storage: Cloudinary (%s)", cfg.Folder)
	return store, nil
}
