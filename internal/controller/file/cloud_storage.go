package file

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// StorageClient abstracts the object store so tests can swap in a fake and
// the server can run with storage disabled.
type StorageClient interface {
	UploadFile(objectName string, fileData io.Reader) error
	DownloadFile(objectName string) (io.ReadCloser, int64, error)
	DeleteFile(objectName string) error
	ListFiles(prefix string) ([]string, error)
}

// CloudStorageClient implements StorageClient on a GCS bucket.
type CloudStorageClient struct {
	BucketName string
	Ctx        context.Context
	Client     *storage.Client
}

// NewCloudStorageClient connects to GCS using ambient credentials.
func NewCloudStorageClient(bucketName string) (*CloudStorageClient, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage client: %v", err)
	}
	return &CloudStorageClient{
		BucketName: bucketName,
		Ctx:        ctx,
		Client:     client,
	}, nil
}

// UploadFile streams fileData into the named object.
func (c *CloudStorageClient) UploadFile(objectName string, fileData io.Reader) error {
	bucket := c.Client.Bucket(c.BucketName)
	obj := bucket.Object(objectName)
	wc := obj.NewWriter(c.Ctx)
	if _, err := io.Copy(wc, fileData); err != nil {
		return fmt.Errorf("failed to write data to object: %v", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close object writer: %v", err)
	}
	return nil
}

// DownloadFile opens a reader over the named object. The second return value
// is the object size, or -1 when unknown.
func (c *CloudStorageClient) DownloadFile(objectName string) (io.ReadCloser, int64, error) {
	obj := c.Client.Bucket(c.BucketName).Object(objectName)

	size := int64(-1)
	if attrs, err := obj.Attrs(c.Ctx); err == nil {
		size = attrs.Size
	}

	reader, err := obj.NewReader(c.Ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open object reader: %v", err)
	}
	return reader, size, nil
}

// DeleteFile removes the named object.
func (c *CloudStorageClient) DeleteFile(objectName string) error {
	if err := c.Client.Bucket(c.BucketName).Object(objectName).Delete(c.Ctx); err != nil {
		return fmt.Errorf("failed to delete object: %v", err)
	}
	return nil
}

// ListFiles returns the names of every object under the given prefix.
func (c *CloudStorageClient) ListFiles(prefix string) ([]string, error) {
	it := c.Client.Bucket(c.BucketName).Objects(c.Ctx, &storage.Query{Prefix: prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %v", err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}
