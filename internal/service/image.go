package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"doemais/internal/domain"
)

// maxImageSize caps a single uploaded image.
const maxImageSize = 10 * 1024 * 1024 // 10MB

// Upload is an image file received from a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageService validates uploaded images and stores their bytes behind the
// FileStore, handing back opaque storage keys.
type ImageService struct {
	files domain.FileStore
}

// NewImageService creates a new ImageService.
func NewImageService(files domain.FileStore) *ImageService {
	return &ImageService{files: files}
}

// Store validates and persists one upload under the given namespace
// ("users" or "products") and returns its storage key.
func (s *ImageService) Store(ctx context.Context, namespace string, up Upload) (string, error) {
	if up.ContentType != "image/jpeg" && up.ContentType != "image/png" {
		return "", fmt.Errorf("%w: only JPEG and PNG images are accepted", domain.ErrInvalidInput)
	}
	if len(up.Data) == 0 {
		return "", fmt.Errorf("%w: image file is empty", domain.ErrInvalidInput)
	}
	if len(up.Data) > maxImageSize {
		return "", fmt.Errorf("%w: image exceeds 10MB limit", domain.ErrInvalidInput)
	}

	key := namespace + "/" + uuid.NewString()
	if err := s.files.Save(ctx, key, up.ContentType, up.Data); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	return key, nil
}

// StoreAll persists every upload and returns the storage keys in order.
// On failure the already-stored files are removed best-effort.
func (s *ImageService) StoreAll(ctx context.Context, namespace string, uploads []Upload) ([]string, error) {
	keys := make([]string, 0, len(uploads))
	for _, up := range uploads {
		key, err := s.Store(ctx, namespace, up)
		if err != nil {
			for _, k := range keys {
				s.files.Delete(ctx, k)
			}
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Get returns the stored bytes and content type for a storage key.
func (s *ImageService) Get(ctx context.Context, key string) ([]byte, string, error) {
	return s.files.Get(ctx, key)
}
