package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/btp-quote/platform/logger"
)

type fakeAPI struct {
	buckets map[string]bool
	objects map[string]string
	putErr  error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{buckets: map[string]bool{}, objects: map[string]string{}}
}

func (f *fakeAPI) BucketExists(_ context.Context, bucket string) (bool, error) {
	return f.buckets[bucket], nil
}

func (f *fakeAPI) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.buckets[bucket] = true
	return nil
}

func (f *fakeAPI) PutObject(_ context.Context, bucket, key string, r io.Reader, _ int64,
	_ minio.PutObjectOptions,
) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[bucket+"/"+key] = string(b)
	return minio.UploadInfo{Bucket: bucket, Key: key}, nil
}

func (f *fakeAPI) RemoveObject(_ context.Context, bucket, key string, _ minio.RemoveObjectOptions) error {
	delete(f.objects, bucket+"/"+key)
	return nil
}

func TestDocumentStorage(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	ctx := context.Background()
	api := newFakeAPI()
	c := NewDocumentStorage(api, "studies", "http://localhost:9000")
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.EnsureBucket(ctx))
	assert.True(t, api.buckets["studies"])
	require.NoError(t, c.EnsureBucket(ctx))

	obj, err := c.Put(ctx, "quotes/q1/study/d1-plan.pdf", strings.NewReader("%PDF"), 4, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/studies/quotes/q1/study/d1-plan.pdf", obj.URL)
	assert.Equal(t, now, obj.At)
	assert.Equal(t, "%PDF", api.objects["studies/quotes/q1/study/d1-plan.pdf"])

	require.NoError(t, c.Remove(ctx, "quotes/q1/study/d1-plan.pdf"))
	assert.Empty(t, api.objects)
}

func TestDocumentStoragePutError(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.putErr = errors.New("access denied")

	_, err := NewDocumentStorage(api, "studies", "http://localhost:9000").
		Put(context.Background(), "k", strings.NewReader("x"), 1, "text/plain")
	require.ErrorIs(t, err, api.putErr)
}
