package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted upload, in bytes.
const MaxImageSize = 10 << 20

var (
	ErrUnsupportedImage = errors.New("only jpeg, png and webp images are accepted")
	ErrImageTooLarge    = errors.New("image exceeds 10MB")
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// UploadService stores uploaded survey photos on local disk.
type UploadService struct {
	dir       string
	urlPrefix string
}

// NewUploadService creates an UploadService writing to dir and publishing files under urlPrefix.
func NewUploadService(dir, urlPrefix string) *UploadService {
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &UploadService{dir: dir, urlPrefix: urlPrefix}
}

// SaveImage writes the image under a random name and returns its public url,
// stored filename and type.
func (s *UploadService) SaveImage(contentType string, r io.Reader) (map[string]string, error) {
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, ErrUnsupportedImage
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("image_%s.%s", uuid.NewString(), ext)
	dst := filepath.Join(s.dir, name)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create image file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, MaxImageSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxImageSize {
		err = ErrImageTooLarge
	}
	if err != nil {
		os.Remove(dst)
		return nil, err
	}

	slog.Info("image stored", "filename", name, "bytes", n)
	return map[string]string{
		"url":      path.Join(s.urlPrefix, name),
		"filename": name,
		"type":     "image",
	}, nil
}
