package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/saas-starter/internal/apperror"
	"github.com/sakif/saas-starter/internal/model"
	"github.com/sakif/saas-starter/internal/repository"
)

var _ repository.BlogRepository = (*BlogStore)(nil)

// BlogStore reads published posts from the "blogpost" collection.
type BlogStore struct {
	coll *mongo.Collection
}

type blogDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Slug        string             `bson:"slug"`
	Title       string             `bson:"title"`
	Excerpt     string             `bson:"excerpt"`
	Content     string             `bson:"content"`
	Author      string             `bson:"author"`
	Tags        []string           `bson:"tags"`
	PublishedAt time.Time          `bson:"published_at"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *blogDoc) toModel() model.BlogPost {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.BlogPost{
		ID:          d.ID.Hex(),
		Slug:        d.Slug,
		Title:       d.Title,
		Excerpt:     d.Excerpt,
		Content:     d.Content,
		Author:      d.Author,
		Tags:        tags,
		PublishedAt: d.PublishedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// List returns up to limit posts, newest first.
func (b *BlogStore) List(ctx context.Context, limit int) ([]model.BlogPost, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := b.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing blog posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := []model.BlogPost{}
	for cur.Next(ctx) {
		var doc blogDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decoding blog post: %w", err)
		}
		posts = append(posts, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo: iterating blog posts: %w", err)
	}
	return posts, nil
}

// GetBySlug returns the post with the given slug, or apperror.ErrNotFound.
func (b *BlogStore) GetBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	var doc blogDoc
	err := b.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("post", slug)
		}
		return nil, fmt.Errorf("mongo: getting blog post %q: %w", slug, err)
	}
	post := doc.toModel()
	return &post, nil
}
