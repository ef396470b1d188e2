package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakif/saas-starter/internal/apperror"
	"github.com/sakif/saas-starter/internal/model"
	"github.com/sakif/saas-starter/internal/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

// UserStore persists user documents in the "user" collection.
type UserStore struct {
	coll *mongo.Collection
}

// userDoc is the wire shape of a user document. It exists so the Mongo
// ObjectID stays a driver concern — model.User carries ids as opaque strings,
// and this mapping layer converts at the boundary instead of leaking
// primitive.ObjectID through the app.
type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Salt         string             `bson:"salt"`
	IsActive     bool               `bson:"is_active"`
	Tokens       []string           `bson:"tokens"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d *userDoc) toModel() *model.User {
	tokens := d.Tokens
	if tokens == nil {
		tokens = []string{}
	}
	return &model.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Salt:         d.Salt,
		IsActive:     d.IsActive,
		Tokens:       tokens,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// FindByEmail returns the user with the given normalized email, or (nil, nil)
// if no document matches.
func (u *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var doc userDoc
	err := u.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("mongo: finding user by email: %w", err)
	}
	return doc.toModel(), nil
}

// Insert persists a new user document and writes the assigned ObjectID back
// into user.ID as its hex form. A duplicate-key error from the unique email
// index surfaces as DuplicateEmail.
func (u *UserStore) Insert(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	tokens := user.Tokens
	if tokens == nil {
		tokens = []string{}
	}

	res, err := u.coll.InsertOne(ctx, userDoc{
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Salt:         user.Salt,
		IsActive:     user.IsActive,
		Tokens:       tokens,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.DuplicateEmail(user.Email)
		}
		return fmt.Errorf("mongo: inserting user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("mongo: unexpected inserted id type %T", res.InsertedID)
	}
	user.ID = oid.Hex()

	return nil
}

// AppendToken pushes one issued token onto the user's tokens array.
// $push appends at the end, preserving issue order.
func (u *UserStore) AppendToken(ctx context.Context, userID, token string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("mongo: invalid user id %q: %w", userID, err)
	}

	res, err := u.coll.UpdateByID(ctx, oid, bson.M{
		"$push": bson.M{"tokens": token},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("mongo: appending token for user %s: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("user", userID)
	}
	return nil
}
