package mocks

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of storage.Client
type Client struct {
	mock.Mock
}

func (m *Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *Client) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *Client) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	if obj, ok := args.Get(0).(io.ReadCloser); ok {
		return obj, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListObjects returns the channel given to Return, or the objects of a []minio.ObjectInfo
// on a closed channel, or an empty closed channel.
func (m *Client) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	args := m.Called(ctx, bucketName, opts)
	switch v := args.Get(0).(type) {
	case <-chan minio.ObjectInfo:
		return v
	case []minio.ObjectInfo:
		ch := make(chan minio.ObjectInfo, len(v))
		for _, obj := range v {
			ch <- obj
		}
		close(ch)
		return ch
	}
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}
