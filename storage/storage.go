package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/mager/melodiary/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrUnavailable     = errors.New("photo storage is not configured")
	ErrUnsupportedType = errors.New("unsupported photo type")
)

var photoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/heic": true,
}

// PhotoStore uploads diary photos to a Cloud Storage bucket.
type PhotoStore struct {
	client *storage.Client
	bucket string
	log    *zap.SugaredLogger
	now    func() time.Time
}

func ProvidePhotoStore(lc fx.Lifecycle, log *zap.SugaredLogger, cfg config.Config, svc config.Services) (*PhotoStore, error) {
	s := &PhotoStore{bucket: cfg.StorageBucket, log: log, now: time.Now}
	if !svc.Storage.Usable() {
		log.Warnw("photo storage disabled", "status", svc.Storage.String())
		return s, nil
	}

	client, err := storage.NewClient(context.Background())
	if err != nil {
		log.Errorw("Failed to create storage client", "error", err)
		return nil, err
	}
	s.client = client

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return s, nil
}

// Upload stores a photo for userID and returns its public URL.
func (s *PhotoStore) Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error) {
	if s.client == nil {
		return "", ErrUnavailable
	}
	if !photoTypes[contentType] {
		return "", ErrUnsupportedType
	}

	name := ObjectName(userID, filename, s.now())
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}

	s.log.Infow("photo uploaded", "user_id", userID, "object", name)
	return PublicURL(s.bucket, name), nil
}

// ObjectName places a photo under users/<id>/photos/, prefixed with the
// upload time in milliseconds.
func ObjectName(userID, filename string, at time.Time) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "photo"
	}
	return fmt.Sprintf("users/%s/photos/%d-%s", userID, at.UnixMilli(), base)
}

func PublicURL(bucket, name string) string {
	return "https://storage.googleapis.com/" + bucket + "/" + (&url.URL{Path: name}).EscapedPath()
}

var Options = ProvidePhotoStore
