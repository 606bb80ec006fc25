// Package docstore is the secondary tier: movie and settings records kept
// in MongoDB collections.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mvps-vip/showcase/internal/config"
)

// ErrNotConfigured is returned by Connect when no URI is set.
var ErrNotConfigured = errors.New("document store not configured")

type Config struct {
	URI                string
	Database           string
	MoviesCollection   string
	SettingsCollection string
	SettingsID         string
	ConnectTimeout     time.Duration
}

// ConfigFrom extracts the document store section from the app config.
func ConfigFrom(cfg config.Config) Config {
	return Config{
		URI:                cfg.Store.MongoURI,
		Database:           cfg.Store.Database,
		MoviesCollection:   cfg.Store.MoviesCollection,
		SettingsCollection: cfg.Store.SettingsCollection,
		SettingsID:         cfg.Store.SettingsID,
		ConnectTimeout:     cfg.ConnectTimeout(),
	}
}

// Client wraps mongo.Client with the configured database.
type Client struct {
	*mongo.Client
	cfg Config
}

// Connect dials MongoDB and pings it.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URI == "" {
		return nil, ErrNotConfigured
	}
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Client{Client: client, cfg: cfg}, nil
}

func (c *Client) DB() *mongo.Database {
	return c.Database(c.cfg.Database)
}

// Fetch decodes the record with _id == recordID from the collection named
// datasetKind into out. Driver errors, including mongo.ErrNoDocuments, are
// returned as is.
func (c *Client) Fetch(ctx context.Context, datasetKind, recordID string, out any) error {
	return c.DB().Collection(datasetKind).FindOne(ctx, bson.D{{Key: "_id", Value: recordID}}).Decode(out)
}

func (c *Client) Close(ctx context.Context) error {
	return c.Disconnect(ctx)
}
