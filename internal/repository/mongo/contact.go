package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakif/saas-starter/internal/model"
	"github.com/sakif/saas-starter/internal/repository"
)

var _ repository.ContactRepository = (*ContactStore)(nil)

// ContactStore persists contact-form submissions in "contactmessage".
type ContactStore struct {
	coll *mongo.Collection
}

type contactDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Subject   string             `bson:"subject"`
	Message   string             `bson:"message"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Insert stores one submission and writes the assigned id back into msg.
func (c *ContactStore) Insert(ctx context.Context, msg *model.ContactMessage) error {
	msg.CreatedAt = time.Now().UTC()

	res, err := c.coll.InsertOne(ctx, contactDoc{
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Message:   msg.Message,
		CreatedAt: msg.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("mongo: inserting contact message: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid.Hex()
	}
	return nil
}
