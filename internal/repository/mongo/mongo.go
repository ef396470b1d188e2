// Package mongo implements the repository interfaces on a MongoDB database.
//
// This is the production backend: the deployment platform provisions a Mongo
// cluster and hands us DATABASE_URL / DATABASE_NAME. The sqlite sibling
// package covers local development and tests; both satisfy the same
// repository.Store interface, so nothing above this layer knows which one
// it is talking to.
//
// COLLECTION NAMES ("user", "blogpost", "contactmessage") are singular and
// lower-case to stay compatible with databases created by earlier versions
// of this backend.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/saas-starter/internal/repository"
)

// compile-time check that *Store satisfies repository.Store
var _ repository.Store = (*Store)(nil)

const (
	usersCollection    = "user"
	blogsCollection    = "blogpost"
	contactsCollection = "contactmessage"

	connectTimeout = 10 * time.Second
)

// Store wraps a Mongo client scoped to one database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to the MongoDB deployment at uri and selects dbName.
//
// The connection is verified with a Ping before returning, so a wrong URI or
// an unreachable cluster fails here — the caller degrades to the unavailable
// store rather than crashing.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: pinging %s: %w", dbName, err)
	}

	s := &Store{
		client: client,
		db:     client.Database(dbName),
	}

	// The unique index on user.email is the actual duplicate-registration
	// enforcement. The service's pre-check is only a fast path; two racing
	// signups both pass it, and this index rejects the second insert.
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo: ensuring unique email index: %w", err)
	}

	_, err = s.db.Collection(blogsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "slug", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("mongo: ensuring slug index: %w", err)
	}

	return nil
}

func (s *Store) Users() repository.UserRepository {
	return &UserStore{coll: s.db.Collection(usersCollection)}
}

func (s *Store) Blogs() repository.BlogRepository {
	return &BlogStore{coll: s.db.Collection(blogsCollection)}
}

func (s *Store) Contacts() repository.ContactRepository {
	return &ContactStore{coll: s.db.Collection(contactsCollection)}
}

// Ping verifies the cluster is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Collections lists the database's collection names, for the status endpoint.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongo: listing collections: %w", err)
	}
	return names, nil
}

// Close disconnects from the cluster.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
