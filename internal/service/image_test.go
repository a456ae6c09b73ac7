package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"doemais/internal/domain"
	"doemais/internal/repository/sqlite"
	"doemais/internal/service"
)

func newTestImageService(t *testing.T) (*service.ImageService, *sqlite.DB) {
	t.Helper()
	_, db := newTestAuthService(t)
	return service.NewImageService(db.FileStore()), db
}

func TestImageService_Store(t *testing.T) {
	images, db := newTestImageService(t)
	ctx := context.Background()

	key, err := images.Store(ctx, "products", pngUpload("photo.png"))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !strings.HasPrefix(key, "products/") {
		t.Fatalf("expected key under products/, got %q", key)
	}

	data, contentType, err := db.FileStore().Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(data, []byte("png-bytes-photo.png")) || contentType != "image/png" {
		t.Fatalf("unexpected stored file: %q %s", data, contentType)
	}
}

func TestImageService_Store_Rejections(t *testing.T) {
	images, _ := newTestImageService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		upload service.Upload
	}{
		{"wrong content type", service.Upload{Filename: "doc.pdf", ContentType: "application/pdf", Data: []byte("pdf")}},
		{"empty file", service.Upload{Filename: "empty.png", ContentType: "image/png"}},
		{"oversize file", service.Upload{Filename: "huge.png", ContentType: "image/png", Data: make([]byte, 10*1024*1024+1)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := images.Store(ctx, "products", tc.upload)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestImageService_StoreAll_CleansUpOnFailure(t *testing.T) {
	images, db := newTestImageService(t)
	ctx := context.Background()

	uploads := []service.Upload{
		pngUpload("ok.png"),
		{Filename: "bad.gif", ContentType: "image/gif", Data: []byte("gif")},
	}
	_, err := images.StoreAll(ctx, "products", uploads)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// Nothing from the failed batch survives.
	var count int
	if err := db.SqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM file_blobs").Scan(&count); err != nil {
		t.Fatalf("count file_blobs: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 stored files after failed batch, got %d", count)
	}
}

func TestImageService_StoreAll_Order(t *testing.T) {
	images, _ := newTestImageService(t)
	ctx := context.Background()

	uploads := []service.Upload{pngUpload("first.png"), pngUpload("second.png"), pngUpload("third.png")}
	keys, err := images.StoreAll(ctx, "products", uploads)
	if err != nil {
		t.Fatalf("StoreAll: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(keys))
	}

	for i, key := range keys {
		data, _, err := images.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get key %d: %v", i, err)
		}
		if !bytes.Equal(data, []byte("png-bytes-"+uploads[i].Filename)) {
			t.Fatalf("key %d does not map to upload %s", i, uploads[i].Filename)
		}
	}
}
