package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mvps-vip/showcase/internal/models"
)

// Repository is the read/write view of movies and settings used by the
// admin API and the seed command.
type Repository interface {
	ListMovies(ctx context.Context) ([]models.Movie, error)
	GetMovie(ctx context.Context, id string) (models.Movie, error)
	CountMovies(ctx context.Context) (int, error)
	InsertMovie(ctx context.Context, m models.Movie) error
	ReplaceMovie(ctx context.Context, m models.Movie) error
	UpsertMovie(ctx context.Context, m models.Movie) error
	DeleteMovie(ctx context.Context, id string) error
	GetSettings(ctx context.Context) (models.Settings, error)
	PutSettings(ctx context.Context, s models.Settings) error
}

// MongoRepository implements Repository on two collections.
type MongoRepository struct {
	client *Client
}

func NewMongoRepository(client *Client) *MongoRepository {
	return &MongoRepository{client: client}
}

func (r *MongoRepository) movies() *mongo.Collection {
	return r.client.DB().Collection(r.client.cfg.MoviesCollection)
}

func (r *MongoRepository) settings() *mongo.Collection {
	return r.client.DB().Collection(r.client.cfg.SettingsCollection)
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

func (r *MongoRepository) ListMovies(ctx context.Context) ([]models.Movie, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.movies().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing movies: %w", err)
	}
	defer cursor.Close(ctx)
	movies := []models.Movie{}
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, fmt.Errorf("decoding movies: %w", err)
	}
	return movies, nil
}

func (r *MongoRepository) GetMovie(ctx context.Context, id string) (models.Movie, error) {
	var m models.Movie
	if err := r.movies().FindOne(ctx, byID(id)).Decode(&m); err != nil {
		return models.Movie{}, notFound(err, "movie", id)
	}
	return m, nil
}

func (r *MongoRepository) CountMovies(ctx context.Context) (int, error) {
	n, err := r.movies().CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("counting movies: %w", err)
	}
	return int(n), nil
}

func (r *MongoRepository) InsertMovie(ctx context.Context, m models.Movie) error {
	if _, err := r.movies().InsertOne(ctx, m); err != nil {
		return fmt.Errorf("inserting movie %s: %w", m.ID, err)
	}
	return nil
}

func (r *MongoRepository) ReplaceMovie(ctx context.Context, m models.Movie) error {
	res, err := r.movies().ReplaceOne(ctx, byID(m.ID), m)
	if err != nil {
		return fmt.Errorf("updating movie %s: %w", m.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("movie %s: %w", m.ID, models.ErrNotFound)
	}
	return nil
}

func (r *MongoRepository) UpsertMovie(ctx context.Context, m models.Movie) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.movies().ReplaceOne(ctx, byID(m.ID), m, opts); err != nil {
		return fmt.Errorf("upserting movie %s: %w", m.ID, err)
	}
	return nil
}

func (r *MongoRepository) DeleteMovie(ctx context.Context, id string) error {
	res, err := r.movies().DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("deleting movie %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("movie %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *MongoRepository) GetSettings(ctx context.Context) (models.Settings, error) {
	var s models.Settings
	id := r.client.cfg.SettingsID
	if err := r.settings().FindOne(ctx, byID(id)).Decode(&s); err != nil {
		return models.Settings{}, notFound(err, "settings", id)
	}
	return s, nil
}

func (r *MongoRepository) PutSettings(ctx context.Context, s models.Settings) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.settings().ReplaceOne(ctx, byID(r.client.cfg.SettingsID), s, opts); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

func notFound(err error, kind, id string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s %s: %w", kind, id, models.ErrNotFound)
	}
	return fmt.Errorf("reading %s %s: %w", kind, id, err)
}
