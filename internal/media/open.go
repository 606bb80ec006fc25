package media

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/mvps-vip/showcase/internal/config"
)

// ErrNoDatabase is returned when the gridfs backend is selected without a
// MongoDB connection.
var ErrNoDatabase = errors.New("media.backend gridfs needs store.mongo_uri")

// Open builds the store named by cfg.Media.Backend. db may be nil for the
// file backend.
func Open(cfg config.Config, db *mongo.Database) (Store, error) {
	switch cfg.Media.Backend {
	case config.MediaFile, "":
		return NewDirStore(cfg.MediaDir()), nil
	case config.MediaGridFS:
		if db == nil {
			return nil, ErrNoDatabase
		}
		return NewGridFSStore(db, cfg.Media.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Media.Backend)
	}
}
