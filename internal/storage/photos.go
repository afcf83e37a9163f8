package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"washworks-be/internal/logger"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
	"go.uber.org/zap"
)

// PhotoStore persists order photos and returns their public URL.
type PhotoStore interface {
	Upload(ctx context.Context, orderID uint, filename string, data []byte) (string, error)
}

type photoStore struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewPhotoStore(storageURL, serviceKey, bucket string) PhotoStore {
	baseURL := strings.TrimSuffix(storageURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", serviceKey, nil)

	return &photoStore{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}
}

func (s *photoStore) Upload(ctx context.Context, orderID uint, filename string, data []byte) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "storage"),
		zap.Uint("order_id", orderID),
		zap.String("filename", filename),
	)

	// orders/{order_id}/{uuid}_{filename} keeps uploads collision-free while
	// preserving the original name for operators browsing the bucket.
	objectPath := fmt.Sprintf("orders/%d/%s_%s", orderID, uuid.New().String(), filename)

	contentType := contentTypeFor(filename)
	upsert := true
	_, err := s.client.UploadFile(s.bucket, objectPath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		log.Error("failed to upload photo", zap.Error(err))
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath)

	log.Debug("photo uploaded", zap.String("url", publicURL))
	return publicURL, nil
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	default:
		return "image/jpeg"
	}
}
