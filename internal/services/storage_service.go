package services

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/markdave123-py/joba/internal/core/errs"
	"github.com/markdave123-py/joba/internal/core/objectstore"
)

// StorageService validates uploads and maps them onto object-store keys.
// The blob ID handed back to callers is the store key, opaque to clients.
type StorageService struct {
	store       objectstore.ObjectClient
	allowedExts map[string]bool
	maxFileSize int64
}

func NewStorageService(store objectstore.ObjectClient, allowedExts []string, maxFileSize int64) *StorageService {
	exts := make(map[string]bool, len(allowedExts))
	for _, e := range allowedExts {
		exts[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &StorageService{store: store, allowedExts: exts, maxFileSize: maxFileSize}
}

func (s *StorageService) allowedList() string {
	exts := make([]string, 0, len(s.allowedExts))
	for e := range s.allowedExts {
		exts = append(exts, e)
	}
	return strings.Join(exts, ", ")
}

// Save validates and stores an upload, returning the blob ID.
func (s *StorageService) Save(ctx context.Context, data []byte, filename, ownerID string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !s.allowedExts[ext] {
		return "", errs.Validation("invalid file type. Allowed: " + s.allowedList())
	}
	if int64(len(data)) > s.maxFileSize {
		return "", errs.Validation(fmt.Sprintf("file too large. Max size: %dMB", s.maxFileSize/1024/1024))
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	blobID := "uploads/" + uuid.NewString() + ext
	_, err := s.store.Upload(ctx, blobID, data, contentType, map[string]string{
		"filename": filename,
		"owner_id": ownerID,
	})
	if err != nil {
		return "", err
	}
	return blobID, nil
}

// Get fetches the blob and the filename recorded at upload time.
func (s *StorageService) Get(ctx context.Context, blobID string) ([]byte, string, error) {
	obj, err := s.store.Download(ctx, blobID)
	if err != nil {
		return nil, "", err
	}
	return obj.Data, obj.Filename, nil
}

func (s *StorageService) Delete(ctx context.Context, blobID string) error {
	return s.store.Delete(ctx, blobID)
}
