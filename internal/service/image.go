package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ImageStore persists decoded image bytes under a name and returns the
// public URL.
type ImageStore interface {
	Save(ctx context.Context, data []byte, name, contentType string) (string, error)
}

// ImageService decodes base64 recipe images and hands them to a store.
type ImageService struct {
	store ImageStore
}

func NewImageService(store ImageStore) *ImageService {
	return &ImageService{store: store}
}

// SaveDataURI decodes a base64-encoded image, with or without the
// "data:<mime>;base64," prefix, stores it and returns the URL.
func (s *ImageService) SaveDataURI(ctx context.Context, encoded string) (string, error) {
	if strings.HasPrefix(encoded, "data:") {
		idx := strings.Index(encoded, ";base64,")
		if idx < 0 {
			return "", ErrInvalidImage
		}
		encoded = encoded[idx+len(";base64,"):]
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidImage
	}

	contentType := http.DetectContentType(raw)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrInvalidImage
	}

	name := fmt.Sprintf("recipes/%s.%s", uuid.New(), ext)
	return s.store.Save(ctx, raw, name, contentType)
}

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/bmp":  "bmp",
}

// LocalImageStore writes images under a media directory served by the
// HTTP server.
type LocalImageStore struct {
	dir     string
	baseURL string
}

func NewLocalImageStore(dir, baseURL string) *LocalImageStore {
	return &LocalImageStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalImageStore) Save(ctx context.Context, data []byte, name, contentType string) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

// S3ImageStore uploads images to an S3 bucket with public-read layout.
type S3ImageStore struct {
	client *s3.Client
	bucket string
}

func NewS3ImageStore(client *s3.Client, bucket string) *S3ImageStore {
	return &S3ImageStore{client: client, bucket: bucket}
}

func (s *S3ImageStore) Save(ctx context.Context, data []byte, name, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, name), nil
}
