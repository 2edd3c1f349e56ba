package article

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrStorage marks failures of the storage layer. They are fatal for a run.
var ErrStorage = errors.New("article storage failure")

type Repository interface {
	InsertIfNew(ctx context.Context, a *Article) (InsertResult, error)
	QueryAll(ctx context.Context) ([]Article, error)
}

type mongoRepository struct {
	col    *mongo.Collection
	logger *log.Logger
	now    func() time.Time
}

func NewMongoArticleRepository(db *mongo.Database, logger *log.Logger) (Repository, error) {
	col := db.Collection("articles")

	repo := &mongoRepository{
		col:    col,
		logger: logger,
		now:    time.Now,
	}
	if err := repo.ensureIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("%w: ensure indexes: %v", ErrStorage, err)
	}
	return repo, nil
}

// ensureIndexes makes the url the only dedup key at the database level, so two
// pipelines racing on the same article still end with a single document.
func (r *mongoRepository) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "url", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "publishedAt", Value: -1}},
		},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)

	if err != nil && r.logger != nil {
		r.logger.Printf("failed to create indexes: %v", err)
	}
	return err
}

// InsertIfNew stores a only when no article with the same url exists.
// The stored document is never modified afterwards: first write wins.
func (r *mongoRepository) InsertIfNew(ctx context.Context, a *Article) (InsertResult, error) {
	doc := *a
	doc.ID = primitive.NewObjectID()
	doc.PublishedAt = doc.PublishedAt.UTC()
	doc.DiscoveredAt = r.now().UTC()

	res, err := r.col.UpdateOne(
		ctx,
		bson.M{"url": a.URL},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		// another writer inserted the same url between our match and insert
		return AlreadyPresent, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: insert %s: %v", ErrStorage, a.URL, err)
	}

	if res.UpsertedCount == 0 {
		return AlreadyPresent, nil
	}

	if r.logger != nil {
		r.logger.Printf("inserted new article: %s", a.URL)
	}
	a.ID = doc.ID
	a.DiscoveredAt = doc.DiscoveredAt
	return Inserted, nil
}

func (r *mongoRepository) QueryAll(ctx context.Context) ([]Article, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%w: query articles: %v", ErrStorage, err)
	}
	defer cur.Close(ctx)

	out := make([]Article, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decode articles: %v", ErrStorage, err)
	}
	return out, nil
}
