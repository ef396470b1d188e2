package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/saas-starter/internal/apperror"
	"github.com/sakif/saas-starter/internal/model"
	"github.com/sakif/saas-starter/internal/repository"
)

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// UserDB persists user records and their token history.
type UserDB struct {
	conn *sql.DB
}

// FindByEmail returns the user with the given normalized email, or (nil, nil)
// if none exists. The caller is expected to have lower-cased the address —
// the column stores the canonical form, so the lookup is a plain equality.
func (u *UserDB) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var usr model.User
	var active int

	err := u.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, salt, is_active, created_at, updated_at
		 FROM users WHERE email = ?`,
		email,
	).Scan(
		&usr.ID,
		&usr.Name,
		&usr.Email,
		&usr.PasswordHash,
		&usr.Salt,
		&active,
		&usr.CreatedAt,
		&usr.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			// Absence is a normal outcome here, not an error — the service
			// layer decides whether it means "free to register" or "reject".
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite: finding user by email: %w", err)
	}
	usr.IsActive = active != 0

	tokens, err := u.loadTokens(ctx, usr.ID)
	if err != nil {
		return nil, err
	}
	usr.Tokens = tokens

	return &usr, nil
}

// Insert persists a new user, assigning its ID and timestamps.
//
// The UNIQUE constraint on email is the real duplicate enforcement: when two
// concurrent registrations race past the service's pre-check, exactly one
// insert survives and the other comes back as a DuplicateEmail.
func (u *UserDB) Insert(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := u.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, salt, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Salt,
		boolToInt(user.IsActive),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.DuplicateEmail(user.Email)
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	return nil
}

// AppendToken records one issued token for the user. The AUTOINCREMENT seq
// column preserves issue order; nothing ever deletes from this table.
func (u *UserDB) AppendToken(ctx context.Context, userID, token string) error {
	_, err := u.conn.ExecContext(ctx,
		`INSERT INTO user_tokens (user_id, token, created_at) VALUES (?, ?, ?)`,
		userID, token, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: appending token for user %s: %w", userID, err)
	}
	return nil
}

func (u *UserDB) loadTokens(ctx context.Context, userID string) ([]string, error) {
	rows, err := u.conn.QueryContext(ctx,
		`SELECT token FROM user_tokens WHERE user_id = ? ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading tokens for user %s: %w", userID, err)
	}
	defer rows.Close()

	tokens := []string{}
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, fmt.Errorf("sqlite: scanning token: %w", err)
		}
		tokens = append(tokens, tok)
	}
	return tokens, rows.Err()
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// The pure-Go driver surfaces constraint errors by message, so we match on
// SQLite's stable "UNIQUE constraint failed" prefix rather than an error code
// type from the driver's internals.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
