package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/saas-starter/internal/model"
	"github.com/sakif/saas-starter/internal/repository"
)

var _ repository.ContactRepository = (*ContactDB)(nil)

// ContactDB persists contact-form submissions.
type ContactDB struct {
	conn *sql.DB
}

// Insert stores one submission, assigning its ID and timestamp.
func (c *ContactDB) Insert(ctx context.Context, msg *model.ContactMessage) error {
	msg.ID = xid.New().String()
	msg.CreatedAt = time.Now().UTC()

	_, err := c.conn.ExecContext(ctx,
		`INSERT INTO contact_messages (id, name, email, subject, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID,
		msg.Name,
		msg.Email,
		msg.Subject,
		msg.Message,
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting contact message: %w", err)
	}
	return nil
}
