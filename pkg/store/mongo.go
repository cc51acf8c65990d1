package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hessam/chronos/pkg/cache"
	"github.com/hessam/chronos/pkg/story"
)

// Collection names inside the project database.
const (
	collEntities      = "entities"
	collRelationships = "relationships"
	collVariants      = "variants"
)

// MongoStore loads snapshots from a MongoDB database where entities,
// relationships, and variants live in per-kind collections tagged with a
// project field.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI      string // defaults to mongodb://localhost:27017
	Database string // defaults to "chronos"
}

// NewMongoStore connects to MongoDB and verifies the connection. Transient
// ping failures are retried with backoff before giving up.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "chronos"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return cache.Retryable(client.Ping(ctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{client: client, db: client.Database(cfg.Database)}, nil
}

type entityDoc struct {
	Project      string `bson:"project"`
	story.Entity `bson:",inline"`
}

type relationshipDoc struct {
	Project            string `bson:"project"`
	story.Relationship `bson:",inline"`
}

type variantDoc struct {
	Project               string `bson:"project"`
	story.TimelineVariant `bson:",inline"`
}

// LoadSnapshot assembles the project's snapshot from the three collections.
// Entities come back ordered by sort_order then creation time so that
// timeline order (and with it lane order and palette colors) is stable
// across loads.
func (s *MongoStore) LoadSnapshot(ctx context.Context, project string) (story.Snapshot, error) {
	var snap story.Snapshot
	filter := bson.M{"project": project}

	entityOpts := options.Find().SetSort(bson.D{
		{Key: "sort_order", Value: 1},
		{Key: "created_at", Value: 1},
		{Key: "id", Value: 1},
	})
	cur, err := s.db.Collection(collEntities).Find(ctx, filter, entityOpts)
	if err != nil {
		return snap, fmt.Errorf("find entities: %w", err)
	}
	var entities []entityDoc
	if err := cur.All(ctx, &entities); err != nil {
		return snap, fmt.Errorf("decode entities: %w", err)
	}
	if len(entities) == 0 {
		return snap, fmt.Errorf("%w: %s", ErrProjectNotFound, project)
	}
	for _, doc := range entities {
		snap.Entities = append(snap.Entities, doc.Entity)
	}

	relOpts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cur, err = s.db.Collection(collRelationships).Find(ctx, filter, relOpts)
	if err != nil {
		return snap, fmt.Errorf("find relationships: %w", err)
	}
	var rels []relationshipDoc
	if err := cur.All(ctx, &rels); err != nil {
		return snap, fmt.Errorf("decode relationships: %w", err)
	}
	for _, doc := range rels {
		snap.Relationships = append(snap.Relationships, doc.Relationship)
	}

	varOpts := options.Find().SetSort(bson.D{
		{Key: "entity_id", Value: 1},
		{Key: "timeline_id", Value: 1},
	})
	cur, err = s.db.Collection(collVariants).Find(ctx, filter, varOpts)
	if err != nil {
		return snap, fmt.Errorf("find variants: %w", err)
	}
	var variants []variantDoc
	if err := cur.All(ctx, &variants); err != nil {
		return snap, fmt.Errorf("decode variants: %w", err)
	}
	for _, doc := range variants {
		snap.Variants = append(snap.Variants, doc.TimelineVariant)
	}

	return snap, nil
}

// SaveSnapshot replaces the project's documents wholesale. Used by the
// import command; interactive editing goes through the CRUD layer, not
// through this store.
func (s *MongoStore) SaveSnapshot(ctx context.Context, project string, snap story.Snapshot) error {
	filter := bson.M{"project": project}

	for _, coll := range []string{collEntities, collRelationships, collVariants} {
		if _, err := s.db.Collection(coll).DeleteMany(ctx, filter); err != nil {
			return fmt.Errorf("clear %s: %w", coll, err)
		}
	}

	if len(snap.Entities) > 0 {
		docs := make([]any, len(snap.Entities))
		for i, e := range snap.Entities {
			docs[i] = entityDoc{Project: project, Entity: e}
		}
		if _, err := s.db.Collection(collEntities).InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("insert entities: %w", err)
		}
	}
	if len(snap.Relationships) > 0 {
		docs := make([]any, len(snap.Relationships))
		for i, r := range snap.Relationships {
			docs[i] = relationshipDoc{Project: project, Relationship: r}
		}
		if _, err := s.db.Collection(collRelationships).InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("insert relationships: %w", err)
		}
	}
	if len(snap.Variants) > 0 {
		docs := make([]any, len(snap.Variants))
		for i, v := range snap.Variants {
			docs[i] = variantDoc{Project: project, TimelineVariant: v}
		}
		if _, err := s.db.Collection(collVariants).InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("insert variants: %w", err)
		}
	}

	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
