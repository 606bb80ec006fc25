package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// GridFSStore keeps uploads in a MongoDB GridFS bucket, one file per path.
type GridFSStore struct {
	bucket *mongo.GridFSBucket
}

func NewGridFSStore(db *mongo.Database, bucket string) *GridFSStore {
	return &GridFSStore{bucket: db.GridFSBucket(options.GridFSBucket().SetName(bucket))}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (g *GridFSStore) Put(ctx context.Context, p string, r io.Reader, contentType string) (Object, error) {
	cr := &countingReader{r: r}
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	if _, err := g.bucket.UploadFromStream(ctx, p, cr, opts); err != nil {
		return Object{}, fmt.Errorf("gridfs upload: %w", err)
	}
	return Object{Path: p, Size: cr.n, ContentType: contentType, UpdatedAt: time.Now().UTC()}, nil
}

func (g *GridFSStore) Open(ctx context.Context, p string) (io.ReadCloser, Object, error) {
	if err := CheckPath(p); err != nil {
		return nil, Object{}, err
	}
	stream, err := g.bucket.OpenDownloadStreamByName(ctx, p)
	if err != nil {
		if errors.Is(err, mongo.ErrFileNotFound) {
			return nil, Object{}, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, Object{}, fmt.Errorf("gridfs open: %w", err)
	}
	file := stream.GetFile()
	ct := "application/octet-stream"
	if v, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok && v != "" {
		ct = v
	}
	return stream, Object{Path: p, Size: file.Length, ContentType: ct, UpdatedAt: file.UploadDate}, nil
}
