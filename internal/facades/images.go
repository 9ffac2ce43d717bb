package facades

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sbilibin2017/auction-live/internal/logger"
)

// ErrImageNotFound is returned when no object exists under the key.
var ErrImageNotFound = errors.New("image not found")

// ImagesMinioFacade stores item images in a MinIO bucket.
type ImagesMinioFacade struct {
	client *minio.Client
	bucket string
}

// NewImagesMinioFacade creates a MinIO client for the bucket.
func NewImagesMinioFacade(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ImagesMinioFacade, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &ImagesMinioFacade{client: client, bucket: bucket}, nil
}

// EnsureBucket creates the bucket when it does not exist.
func (f *ImagesMinioFacade) EnsureBucket(ctx context.Context) error {
	exists, err := f.client.BucketExists(ctx, f.bucket)
	if err != nil {
		return fmt.Errorf("minio bucket check: %w", err)
	}
	if exists {
		return nil
	}
	if err := f.client.MakeBucket(ctx, f.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("minio make bucket: %w", err)
	}
	logger.Log.Infow("bucket created", "bucket", f.bucket)
	return nil
}

// Put uploads size bytes from r under key.
func (f *ImagesMinioFacade) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	info, err := f.client.PutObject(ctx, f.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})

	logger.Log.Infow(
		"command", "putObject",
		"bucket", f.bucket,
		"key", key,
		"result", info.Size,
		"error", err,
	)

	return err
}

// Get opens the object under key and returns it with its content type.
// The caller closes the reader.
func (f *ImagesMinioFacade) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	obj, err := f.client.GetObject(ctx, f.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", err
	}

	info, err := obj.Stat()

	logger.Log.Infow(
		"command", "getObject",
		"bucket", f.bucket,
		"key", key,
		"error", err,
	)

	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", fmt.Errorf("get image %s: %w", key, ErrImageNotFound)
		}
		return nil, "", err
	}
	return obj, info.ContentType, nil
}
