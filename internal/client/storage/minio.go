package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/platform/logger"
)

// ObjectAPI is the part of *minio.Client the document store relies on.
type ObjectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type client struct {
	api     ObjectAPI
	bucket  string
	baseURL string
	now     func() time.Time
}

func NewMinioAPI(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return mc, nil
}

// NewDocumentStorage stores study documents in bucket. Object URLs are
// built from baseURL, typically the endpoint URL of the minio client.
func NewDocumentStorage(api ObjectAPI, bucket, baseURL string) *client {
	return &client{api: api, bucket: bucket, baseURL: baseURL, now: time.Now}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (c *client) EnsureBucket(ctx context.Context) error {
	const op string = "storage.EnsureBucket"

	ok, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ok {
		return nil
	}

	if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	logger.Info(ctx, "bucket created", logger.String("bucket", c.bucket))
	return nil
}

func (c *client) Put(
	ctx context.Context,
	key string,
	body io.Reader,
	size int64,
	contentType string,
) (model.StoredObject, error) {
	const op string = "storage.Put"

	info, err := c.api.PutObject(ctx, c.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return model.StoredObject{}, fmt.Errorf("%s: upload %s: %w", op, key, err)
	}

	at := info.LastModified
	if at.IsZero() {
		at = c.now()
	}
	return model.StoredObject{Key: key, URL: c.objectURL(key), At: at}, nil
}

func (c *client) Remove(ctx context.Context, key string) error {
	const op string = "storage.Remove"

	if err := c.api.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: remove %s: %w", op, key, err)
	}
	return nil
}

func (c *client) objectURL(key string) string {
	u, err := url.JoinPath(c.baseURL, c.bucket, key)
	if err != nil {
		return key
	}
	return u
}
