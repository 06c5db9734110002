package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const photoPrefix = "photos/"

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore keeps photos in an S3-compatible bucket and hands out
// s3://bucket/key URIs.
type MinioStore struct {
	mc     *minio.Client
	bucket string
}

func NewMinio(cfg MinioConfig) (*MinioStore, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinioStore{mc: mc, bucket: cfg.Bucket}, nil
}

// Init creates the bucket when it does not exist yet.
func (s *MinioStore) Init(ctx context.Context) error {
	exists, err := s.mc.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *MinioStore) Bucket() string { return s.bucket }

func (s *MinioStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := photoPrefix + objectName(name)
	_, err := s.mc.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", s.bucket, key, err)
	}
	return formatS3URI(s.bucket, key), nil
}

func (s *MinioStore) Get(ctx context.Context, uri string) ([]byte, error) {
	key, err := s.keyOf(uri)
	if err != nil {
		return nil, err
	}
	obj, err := s.mc.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", s.bucket, key, err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, uri)
		}
		return nil, fmt.Errorf("read %s/%s: %w", s.bucket, key, err)
	}
	return data, nil
}

func (s *MinioStore) Delete(ctx context.Context, uri string) error {
	key, err := s.keyOf(uri)
	if err != nil {
		return err
	}
	if err := s.mc.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s/%s: %w", s.bucket, key, err)
	}
	return nil
}

func (s *MinioStore) keyOf(uri string) (string, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return "", err
	}
	if bucket != s.bucket {
		return "", fmt.Errorf("%w: %s", ErrForeignURI, uri)
	}
	return key, nil
}

func formatS3URI(bucket, key string) string {
	return "s3://" + bucket + "/" + key
}

func parseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrForeignURI, uri)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %s", ErrForeignURI, uri)
	}
	return bucket, key, nil
}
