// Package repository declares the storage interfaces the rest of the app
// depends on. Concrete backends live in the sqlite and mongo subpackages;
// services only ever see these interfaces, so tests swap in in-memory fakes
// and the server swaps backends by configuration.
package repository

import (
	"context"

	"github.com/sakif/saas-starter/internal/model"
)

// Store is the root handle to a storage backend. Per-entity repositories hang
// off it via accessors so callers receive exactly the slice they need.
type Store interface {
	Users() UserRepository
	Blogs() BlogRepository
	Contacts() ContactRepository

	// Ping verifies the backend is reachable. Used by the status endpoint.
	Ping(ctx context.Context) error
	// Collections lists the backing collection/table names, for diagnostics.
	Collections(ctx context.Context) ([]string, error)
	Close() error
}

// UserRepository is the credential store adapter.
//
// READ-YOUR-WRITES:
// Within a single request, a token appended via AppendToken must be visible to
// any immediately following FindByEmail. Both implementations talk to a single
// primary, so this holds without extra machinery.
type UserRepository interface {
	// FindByEmail looks a user up by normalized (lower-cased) email.
	// Returns (nil, nil) when no such user exists — absence is not an error
	// here; the service layer decides what absence means.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Insert persists a new user and assigns its ID. The email column carries
	// a unique constraint: a concurrent duplicate insert fails here even when
	// both requests passed the FindByEmail pre-check.
	Insert(ctx context.Context, user *model.User) error

	// AppendToken appends one issued token to the user's token list.
	// Tokens are never removed or reordered.
	AppendToken(ctx context.Context, userID, token string) error
}

type BlogRepository interface {
	// List returns up to limit posts, newest first.
	List(ctx context.Context, limit int) ([]model.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
}

type ContactRepository interface {
	Insert(ctx context.Context, msg *model.ContactMessage) error
}
