package filemgr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// Storage persists an uploaded object under key and returns the URL it is
// served from.
type Storage interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// LocalStorage writes objects below Root and serves them under BaseURL.
type LocalStorage struct {
	Root    string
	BaseURL string
}

func NewLocalStorage(root, baseURL string) *LocalStorage {
	return &LocalStorage{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStorage) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	key = path.Clean("/" + key)[1:]
	full := filepath.Join(s.Root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, body, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", full, err)
	}
	return s.BaseURL + "/" + key, nil
}

// S3Storage uploads objects to a bucket with the multipart upload manager.
type S3Storage struct {
	uploader *manager.Uploader
	bucket   string
}

// NewS3Storage builds an uploader from the default AWS credential chain.
func NewS3Storage(ctx context.Context, bucket, region string) (*S3Storage, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Storage{uploader: manager.NewUploader(client), bucket: bucket}, nil
}

func (s *S3Storage) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	zap.L().Debug("uploaded object", zap.String("bucket", s.bucket), zap.String("key", key))
	return result.Location, nil
}
