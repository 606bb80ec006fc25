//go:build integration

package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mvps-vip/showcase/internal/testenv"
)

func TestGridFSStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cli, err := mongo.Connect(options.Client().ApplyURI(testenv.MongoURI(t)))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	db := cli.Database("showcase_media_test")
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = cli.Disconnect(context.Background())
	})
	s := NewGridFSStore(db, "media")

	obj, err := Upload(ctx, s, "intros", "teaser.png", bytes.NewReader(pngHeader), uploadAt)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	rc, got, err := s.Open(ctx, obj.Path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if !bytes.Equal(body, pngHeader) {
		t.Error("stored bytes differ")
	}
	if got.ContentType != "image/png" || got.Size != int64(len(pngHeader)) {
		t.Errorf("Open() object = %+v", got)
	}

	if _, _, err := s.Open(ctx, "intros/missing_1.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file: expected ErrNotFound, got %v", err)
	}
}
